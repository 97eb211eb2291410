// Package epgm provides the plain record implementations of graph heads,
// vertices and edges together with their factories and binary form.
//
// Element encoding composes the primitives of the properties and id packages:
//
//	id (12 bytes) | label (uvarint len + UTF-8) | properties (count + pairs)
//	vertex, edge:  + graph ids (count + sorted ids)
//	edge:          + source id (12 bytes) + target id (12 bytes)
package epgm

import (
	"fmt"

	"github.com/sanonone/epgm/internal/codec"
	"github.com/sanonone/epgm/pkg/id"
	"github.com/sanonone/epgm/pkg/properties"
)

const (
	DefaultGraphLabel  = "_default_graph"
	DefaultVertexLabel = "_default_vertex"
	DefaultEdgeLabel   = "_default_edge"
)

// element holds the identity, label and properties shared by all kinds.
type element struct {
	id    id.ID
	label string
	props *properties.Properties
}

func (e *element) ID() id.ID { return e.id }

func (e *element) Label() string { return e.label }

func (e *element) SetLabel(label string) { e.label = label }

// Properties returns the live property map, never nil.
func (e *element) Properties() *properties.Properties {
	if e.props == nil {
		e.props = properties.New()
	}
	return e.props
}

// SetProperties replaces the property map. nil clears it.
func (e *element) SetProperties(p *properties.Properties) {
	if p == nil {
		p = properties.New()
	}
	e.props = p
}

func (e *element) PropertyValue(key string) (properties.Value, bool) {
	return e.props.Get(key)
}

func (e *element) SetProperty(key string, v properties.Value) {
	e.Properties().Set(key, v)
}

func (e *element) appendBinary(b []byte) ([]byte, error) {
	b = e.id.AppendBinary(b)
	b = codec.AppendString(b, e.label)
	return e.props.AppendBinary(b)
}

func (e *element) decodeFrom(r *codec.Reader) error {
	i, err := id.ReadID(r)
	if err != nil {
		return err
	}
	label, err := r.String()
	if err != nil {
		return fmt.Errorf("label: %w", err)
	}
	props, err := properties.ReadProperties(r)
	if err != nil {
		return err
	}
	e.id, e.label, e.props = i, label, props
	return nil
}

// graphElement adds graph membership to element.
type graphElement struct {
	element
	graphs *id.Set
}

// GraphIDs returns the live set of containing graphs, never nil.
func (e *graphElement) GraphIDs() *id.Set {
	if e.graphs == nil {
		e.graphs = id.NewSet()
	}
	return e.graphs
}

// SetGraphIDs replaces the containing graphs. nil clears them.
func (e *graphElement) SetGraphIDs(ids *id.Set) {
	if ids == nil {
		ids = id.NewSet()
	}
	e.graphs = ids
}

func (e *graphElement) AddGraphID(graphID id.ID) {
	e.GraphIDs().Add(graphID)
}

// GraphCount returns the number of containing graphs.
func (e *graphElement) GraphCount() int { return e.graphs.Len() }

func (e *graphElement) appendBinary(b []byte) ([]byte, error) {
	b, err := e.element.appendBinary(b)
	if err != nil {
		return nil, err
	}
	return e.graphs.AppendBinary(b), nil
}

func (e *graphElement) decodeFrom(r *codec.Reader) error {
	if err := e.element.decodeFrom(r); err != nil {
		return err
	}
	graphs, err := id.ReadSet(r)
	if err != nil {
		return fmt.Errorf("graph ids: %w", err)
	}
	e.graphs = graphs
	return nil
}

// decodeWhole runs decode over b and rejects trailing bytes.
func decodeWhole(b []byte, decode func(*codec.Reader) error) error {
	r := codec.NewReader(b)
	if err := decode(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", codec.ErrCorrupt, r.Len())
	}
	return nil
}
