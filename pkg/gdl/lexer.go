package gdl

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokLParen   // (
	tokRParen   // )
	tokLBracket // [
	tokRBracket // ]
	tokLBrace   // {
	tokRBrace   // }
	tokColon    // :
	tokSemi     // ;
	tokComma    // ,
	tokDash     // -
	tokLT       // <
	tokGT       // >
)

var tokenNames = map[tokenKind]string{
	tokEOF:      "end of input",
	tokIdent:    "identifier",
	tokString:   "string",
	tokNumber:   "number",
	tokLParen:   "'('",
	tokRParen:   "')'",
	tokLBracket: "'['",
	tokRBracket: "']'",
	tokLBrace:   "'{'",
	tokRBrace:   "'}'",
	tokColon:    "':'",
	tokSemi:     "';'",
	tokComma:    "','",
	tokDash:     "'-'",
	tokLT:       "'<'",
	tokGT:       "'>'",
}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	text string // identifier name, unescaped string or raw number
	pos  Pos
}

func (t token) describe() string {
	switch t.kind {
	case tokIdent, tokNumber:
		return t.kind.String() + " " + strconv.Quote(t.text)
	case tokString:
		return "string literal"
	}
	return t.kind.String()
}

var punct = map[byte]tokenKind{
	'(': tokLParen, ')': tokRParen,
	'[': tokLBracket, ']': tokRBracket,
	'{': tokLBrace, '}': tokRBrace,
	':': tokColon, ';': tokSemi, ',': tokComma,
	'-': tokDash, '<': tokLT, '>': tokGT,
}

// lexer splits a document into tokens. It works on bytes; non-ASCII text is
// only legal inside string literals and comments.
type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) pos() Pos { return Pos{Offset: l.off, Line: l.line, Column: l.col} }

func (l *lexer) peekByte(ahead int) byte {
	if l.off+ahead < len(l.src) {
		return l.src[l.off+ahead]
	}
	return 0
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.off < len(l.src); i++ {
		if l.src[l.off] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.off++
	}
}

// tokenize returns every token of the document followed by tokEOF.
func (l *lexer) tokenize() ([]token, error) {
	var out []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if t.kind == tokEOF {
			return out, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return token{}, err
	}
	start := l.pos()
	if l.off >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	c := l.src[l.off]
	switch {
	case c == '"' || c == '\'':
		s, err := l.lexString(c)
		return token{kind: tokString, text: s, pos: start}, err
	case isDigit(c) || (c == '-' && isDigit(l.peekByte(1))) || (c == '.' && isDigit(l.peekByte(1))):
		return token{kind: tokNumber, text: l.lexNumber(), pos: start}, nil
	case isIdentStart(c):
		begin := l.off
		for l.off < len(l.src) && isIdentPart(l.src[l.off]) {
			l.advance(1)
		}
		return token{kind: tokIdent, text: l.src[begin:l.off], pos: start}, nil
	}
	if k, ok := punct[c]; ok {
		l.advance(1)
		return token{kind: k, pos: start}, nil
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.off:])
	return token{}, errorf(start, "unexpected character %q", r)
}

func (l *lexer) skipSpaceAndComments() error {
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.advance(1)
		case c == '/' && l.peekByte(1) == '/':
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				l.advance(1)
			}
		case c == '/' && l.peekByte(1) == '*':
			start := l.pos()
			end := strings.Index(l.src[l.off+2:], "*/")
			if end < 0 {
				return errorf(start, "unterminated block comment")
			}
			l.advance(end + 4)
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) lexString(quote byte) (string, error) {
	start := l.pos()
	l.advance(1)
	var sb strings.Builder
	for {
		if l.off >= len(l.src) {
			return "", errorf(start, "unterminated string literal")
		}
		c := l.src[l.off]
		switch {
		case c == quote:
			l.advance(1)
			return sb.String(), nil
		case c == '\n':
			return "", errorf(start, "unterminated string literal")
		case c == '\\':
			escPos := l.pos()
			l.advance(1)
			if l.off >= len(l.src) {
				return "", errorf(start, "unterminated string literal")
			}
			e := l.src[l.off]
			l.advance(1)
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '"', '\'':
				sb.WriteByte(e)
			case 'u':
				if l.off+4 > len(l.src) {
					return "", errorf(escPos, "short unicode escape")
				}
				r, err := strconv.ParseUint(l.src[l.off:l.off+4], 16, 32)
				if err != nil {
					return "", errorf(escPos, "bad unicode escape %q", l.src[l.off:l.off+4])
				}
				sb.WriteRune(rune(r))
				l.advance(4)
			default:
				return "", errorf(escPos, "unknown escape sequence \\%c", e)
			}
		default:
			sb.WriteByte(c)
			l.advance(1)
		}
	}
}

// lexNumber consumes [-]digits[.digits][e[+-]digits][suffix]. The literal
// is validated later by parseNumber.
func (l *lexer) lexNumber() string {
	begin := l.off
	if l.src[l.off] == '-' {
		l.advance(1)
	}
	for isDigit(l.peekByte(0)) {
		l.advance(1)
	}
	if l.peekByte(0) == '.' && isDigit(l.peekByte(1)) {
		l.advance(1)
		for isDigit(l.peekByte(0)) {
			l.advance(1)
		}
	}
	if e := l.peekByte(0); e == 'e' || e == 'E' {
		n := 1
		if s := l.peekByte(1); s == '+' || s == '-' {
			n = 2
		}
		if isDigit(l.peekByte(n)) {
			l.advance(n)
			for isDigit(l.peekByte(0)) {
				l.advance(1)
			}
		}
	}
	for isLetter(l.peekByte(0)) {
		l.advance(1)
	}
	return l.src[begin:l.off]
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isLetter(c byte) bool     { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentStart(c byte) bool { return isLetter(c) || c == '_' }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }
