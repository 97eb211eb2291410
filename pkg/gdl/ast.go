package gdl

import "github.com/sanonone/epgm/pkg/properties"

// Document is a parsed GDL text: a sequence of graph scopes and bare paths in
// source order.
type Document struct {
	Statements []Statement
}

// Statement is either a graph scope or a bare path outside every graph.
// Exactly one field is set.
type Statement struct {
	Graph *GraphDecl
	Path  *Path
}

// Decl holds what a graph, vertex or edge declaration may carry. An empty
// Variable means anonymous, an empty Label means no explicit label and a nil
// Props means no property block.
type Decl struct {
	Pos      Pos
	Variable string
	Label    string
	Props    []Prop
}

// HasProps reports whether the declaration carried a property block.
func (d *Decl) HasProps() bool { return d.Props != nil }

// Prop is one key: literal entry of a property block.
type Prop struct {
	Pos   Pos
	Key   string
	Value properties.Value
}

// GraphDecl is `[var][:Label][{...}] [ paths ]`.
type GraphDecl struct {
	Decl
	Paths []*Path
}

// Path is a vertex optionally followed by edge/vertex steps.
type Path struct {
	Start *Decl
	Steps []Step
}

// Step is one edge and the vertex it leads to (or comes from, for incoming
// arrows).
type Step struct {
	Edge     *Decl
	Incoming bool
	Vertex   *Decl
}
