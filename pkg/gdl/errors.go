package gdl

import "fmt"

// Pos is a location in a GDL document. Line and Column are 1-based; Column
// counts bytes.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ParseError reports malformed GDL text. A failed load never returns a
// partially built Loader.
type ParseError struct {
	Pos Pos
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gdl: parse error at %s: %s", e.Pos, e.Msg)
}

func errorf(pos Pos, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// ResourceError reports a document that could not be read.
type ResourceError struct {
	Name string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("gdl: could not read '%s': %v", e.Name, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
