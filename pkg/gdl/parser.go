package gdl

import (
	"strings"

	"github.com/sanonone/epgm/pkg/properties"
)

// Parse parses a GDL document. The grammar:
//
//	document  = { statement [ ";" | "," ] }
//	statement = graph | path
//	graph     = [ var ] [ ":" Label ] [ props ] "[" { path [ ";" | "," ] } "]"
//	path      = vertex { arrow vertex }
//	vertex    = "(" [ var ] [ ":" Label ] [ props ] ")"
//	arrow     = "-->" | "<--" | "-[" edge "]->" | "<-[" edge "]-"
//	edge      = [ var ] [ ":" Label ] [ props ]
//	props     = "{" [ key ":" literal { "," key ":" literal } ] "}"
//
// `//` line comments and `/* */` block comments are skipped.
func Parse(src string) (*Document, error) {
	toks, err := newLexer(src).tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.document()
}

type parser struct {
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) advance() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) accept(k tokenKind) bool {
	if p.peek().kind == k {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(k tokenKind, where string) (token, error) {
	t := p.peek()
	if t.kind != k {
		return t, errorf(t.pos, "expected %s %s, found %s", k, where, t.describe())
	}
	return p.advance(), nil
}

func (p *parser) document() (*Document, error) {
	doc := &Document{}
	for p.peek().kind != tokEOF {
		if p.accept(tokSemi) || p.accept(tokComma) {
			continue
		}
		var st Statement
		switch t := p.peek(); t.kind {
		case tokLParen:
			path, err := p.path()
			if err != nil {
				return nil, err
			}
			st.Path = path
		case tokIdent, tokColon, tokLBrace, tokLBracket:
			g, err := p.graph()
			if err != nil {
				return nil, err
			}
			st.Graph = g
		case tokRBracket, tokRParen, tokRBrace:
			return nil, errorf(t.pos, "unbalanced %s", t.kind)
		default:
			return nil, errorf(t.pos, "expected graph or path, found %s", t.describe())
		}
		doc.Statements = append(doc.Statements, st)
	}
	return doc, nil
}

func (p *parser) graph() (*GraphDecl, error) {
	g := &GraphDecl{Decl: Decl{Pos: p.peek().pos}}
	if err := p.header(&g.Decl, "in graph header"); err != nil {
		return nil, err
	}
	open, err := p.expect(tokLBracket, "to open graph body")
	if err != nil {
		return nil, err
	}
	for {
		switch t := p.peek(); t.kind {
		case tokRBracket:
			p.advance()
			return g, nil
		case tokSemi, tokComma:
			p.advance()
		case tokLParen:
			path, err := p.path()
			if err != nil {
				return nil, err
			}
			g.Paths = append(g.Paths, path)
		case tokEOF:
			return nil, errorf(open.pos, "unbalanced '[': graph body is never closed")
		default:
			return nil, errorf(t.pos, "expected '(' or ']' in graph body, found %s", t.describe())
		}
	}
}

// header parses the optional variable, label and property block shared by
// every declaration.
func (p *parser) header(d *Decl, where string) error {
	if t := p.peek(); t.kind == tokIdent {
		d.Variable = p.advance().text
	}
	if p.accept(tokColon) {
		label, err := p.expect(tokIdent, "label "+where)
		if err != nil {
			return err
		}
		d.Label = label.text
	}
	if p.peek().kind == tokLBrace {
		props, err := p.props()
		if err != nil {
			return err
		}
		d.Props = props
	}
	return nil
}

func (p *parser) path() (*Path, error) {
	start, err := p.vertex()
	if err != nil {
		return nil, err
	}
	path := &Path{Start: start}
	for k := p.peek().kind; k == tokDash || k == tokLT; k = p.peek().kind {
		step, err := p.step()
		if err != nil {
			return nil, err
		}
		path.Steps = append(path.Steps, step)
	}
	return path, nil
}

func (p *parser) vertex() (*Decl, error) {
	open, err := p.expect(tokLParen, "to open vertex")
	if err != nil {
		return nil, err
	}
	d := &Decl{Pos: open.pos}
	if err := p.header(d, "in vertex"); err != nil {
		return nil, err
	}
	switch t := p.peek(); t.kind {
	case tokRParen:
		p.advance()
		return d, nil
	case tokEOF:
		return nil, errorf(open.pos, "unbalanced '(': vertex is never closed")
	default:
		return nil, errorf(t.pos, "expected ')' to close vertex, found %s", t.describe())
	}
}

func (p *parser) step() (Step, error) {
	first := p.advance()
	edge := &Decl{Pos: first.pos}
	step := Step{Edge: edge, Incoming: first.kind == tokLT}

	if step.Incoming {
		if !p.accept(tokDash) {
			return Step{}, p.arrowError(first.pos)
		}
	}
	switch {
	case p.accept(tokDash):
		// "-->" or "<--"
	case p.peek().kind == tokLBracket:
		open := p.advance()
		if err := p.header(edge, "in edge"); err != nil {
			return Step{}, err
		}
		switch t := p.peek(); t.kind {
		case tokRBracket:
			p.advance()
		case tokEOF:
			return Step{}, errorf(open.pos, "unbalanced '[': edge is never closed")
		default:
			return Step{}, errorf(t.pos, "expected ']' to close edge, found %s", t.describe())
		}
		if !p.accept(tokDash) {
			return Step{}, p.arrowError(first.pos)
		}
	default:
		return Step{}, p.arrowError(first.pos)
	}

	if step.Incoming {
		if p.peek().kind == tokGT {
			return Step{}, errorf(first.pos, "unknown arrow form: bidirectional edges are not supported")
		}
	} else if !p.accept(tokGT) {
		return Step{}, p.arrowError(first.pos)
	}

	v, err := p.vertex()
	if err != nil {
		return Step{}, err
	}
	step.Vertex = v
	return step, nil
}

func (p *parser) arrowError(start Pos) error {
	return errorf(start, "unknown arrow form: expected one of -->, <--, -[...]->, <-[...]-, found %s", p.peek().describe())
}

func (p *parser) props() ([]Prop, error) {
	open := p.advance()
	out := []Prop{}
	if p.accept(tokRBrace) {
		return out, nil
	}
	for {
		key := p.peek()
		switch key.kind {
		case tokIdent, tokString:
			p.advance()
		case tokEOF:
			return nil, errorf(open.pos, "unterminated property block")
		default:
			return nil, errorf(key.pos, "expected property key, found %s", key.describe())
		}
		if _, err := p.expect(tokColon, "after property key"); err != nil {
			return nil, err
		}
		v, err := p.literal()
		if err != nil {
			return nil, err
		}
		out = append(out, Prop{Pos: key.pos, Key: key.text, Value: v})

		switch t := p.peek(); t.kind {
		case tokComma:
			p.advance()
		case tokRBrace:
			p.advance()
			return out, nil
		case tokEOF:
			return nil, errorf(open.pos, "unterminated property block")
		default:
			return nil, errorf(t.pos, "expected ',' or '}' in property block, found %s", t.describe())
		}
	}
}

func (p *parser) literal() (properties.Value, error) {
	t := p.peek()
	switch t.kind {
	case tokString:
		p.advance()
		return properties.String(t.text), nil
	case tokNumber:
		p.advance()
		return parseNumber(t)
	case tokIdent:
		switch strings.ToLower(t.text) {
		case "true":
			p.advance()
			return properties.Bool(true), nil
		case "false":
			p.advance()
			return properties.Bool(false), nil
		case "null":
			p.advance()
			return properties.Null(), nil
		}
	}
	return properties.Value{}, errorf(t.pos, "expected literal, found %s", t.describe())
}
