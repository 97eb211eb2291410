package epgm

import (
	"fmt"

	"github.com/sanonone/epgm/internal/codec"
	"github.com/sanonone/epgm/pkg/id"
	"github.com/sanonone/epgm/pkg/model"
)

var (
	_ model.GraphHead = (*GraphHead)(nil)
	_ model.Vertex    = (*Vertex)(nil)
	_ model.Edge      = (*Edge)(nil)
)

// GraphHead describes one logical graph.
type GraphHead struct {
	element
}

func (g *GraphHead) String() string {
	return fmt.Sprintf("%s[:%s%s]", g.id, g.label, g.props)
}

// AppendBinary implements encoding.BinaryAppender.
func (g *GraphHead) AppendBinary(b []byte) ([]byte, error) {
	return g.element.appendBinary(b)
}

func (g *GraphHead) MarshalBinary() ([]byte, error) {
	return g.AppendBinary(nil)
}

// DecodeFrom reads a graph head written by AppendBinary from r.
func (g *GraphHead) DecodeFrom(r *codec.Reader) error {
	if err := g.element.decodeFrom(r); err != nil {
		return fmt.Errorf("graph head: %w", err)
	}
	return nil
}

func (g *GraphHead) UnmarshalBinary(b []byte) error {
	return decodeWhole(b, g.DecodeFrom)
}

// Vertex is a node belonging to zero or more logical graphs.
type Vertex struct {
	graphElement
}

func (v *Vertex) String() string {
	return fmt.Sprintf("(%s:%s%s)", v.id, v.label, v.props)
}

// AppendBinary implements encoding.BinaryAppender.
func (v *Vertex) AppendBinary(b []byte) ([]byte, error) {
	return v.graphElement.appendBinary(b)
}

func (v *Vertex) MarshalBinary() ([]byte, error) {
	return v.AppendBinary(nil)
}

// DecodeFrom reads a vertex written by AppendBinary from r.
func (v *Vertex) DecodeFrom(r *codec.Reader) error {
	if err := v.graphElement.decodeFrom(r); err != nil {
		return fmt.Errorf("vertex: %w", err)
	}
	return nil
}

func (v *Vertex) UnmarshalBinary(b []byte) error {
	return decodeWhole(b, v.DecodeFrom)
}

// Edge is a directed relationship from SourceID to TargetID.
type Edge struct {
	graphElement
	source id.ID
	target id.ID
}

func (e *Edge) SourceID() id.ID { return e.source }
func (e *Edge) TargetID() id.ID { return e.target }

func (e *Edge) SetSourceID(source id.ID) { e.source = source }
func (e *Edge) SetTargetID(target id.ID) { e.target = target }

func (e *Edge) String() string {
	return fmt.Sprintf("(%s)-[%s:%s%s]->(%s)", e.source, e.id, e.label, e.props, e.target)
}

// AppendBinary implements encoding.BinaryAppender.
func (e *Edge) AppendBinary(b []byte) ([]byte, error) {
	b, err := e.graphElement.appendBinary(b)
	if err != nil {
		return nil, err
	}
	b = e.source.AppendBinary(b)
	return e.target.AppendBinary(b), nil
}

func (e *Edge) MarshalBinary() ([]byte, error) {
	return e.AppendBinary(nil)
}

// DecodeFrom reads an edge written by AppendBinary from r.
func (e *Edge) DecodeFrom(r *codec.Reader) error {
	if err := e.graphElement.decodeFrom(r); err != nil {
		return fmt.Errorf("edge: %w", err)
	}
	source, err := id.ReadID(r)
	if err != nil {
		return fmt.Errorf("edge source: %w", err)
	}
	target, err := id.ReadID(r)
	if err != nil {
		return fmt.Errorf("edge target: %w", err)
	}
	e.source, e.target = source, target
	return nil
}

func (e *Edge) UnmarshalBinary(b []byte) error {
	return decodeWhole(b, e.DecodeFrom)
}
