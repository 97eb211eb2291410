package model

import (
	"errors"

	"github.com/sanonone/epgm/pkg/id"
	"github.com/sanonone/epgm/pkg/properties"
)

var (
	ErrMissingID     = errors.New("element id is required")
	ErrMissingSource = errors.New("edge source id is required")
	ErrMissingTarget = errors.New("edge target id is required")
)

// Fields holds the optional parts of an element as collected from Options.
type Fields struct {
	Label      string
	Properties *properties.Properties
	GraphIDs   *id.Set
}

// Option sets one optional field of an element under construction.
type Option func(*Fields)

// WithLabel sets the label. An empty label falls back to the factory default.
func WithLabel(label string) Option {
	return func(f *Fields) { f.Label = label }
}

// WithProperties sets the property map. The map is used as is, not copied.
func WithProperties(p *properties.Properties) Option {
	return func(f *Fields) { f.Properties = p }
}

// WithGraphIDs sets the containing graphs. Graph head factories ignore it.
func WithGraphIDs(ids *id.Set) Option {
	return func(f *Fields) { f.GraphIDs = ids }
}

// ResolveFields applies opts and fills every omitted field with its default:
// defaultLabel, an empty property map and an empty id set.
func ResolveFields(defaultLabel string, opts ...Option) Fields {
	var f Fields
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	if f.Label == "" {
		f.Label = defaultLabel
	}
	if f.Properties == nil {
		f.Properties = properties.New()
	}
	if f.GraphIDs == nil {
		f.GraphIDs = id.NewSet()
	}
	return f
}

// GraphHeadFactory constructs graph heads. Create* mints a fresh id, Init*
// takes the id from the caller and fails with ErrMissingID on id.Nil.
type GraphHeadFactory[G GraphHead] interface {
	DefaultLabel() string
	CreateGraphHead(opts ...Option) G
	InitGraphHead(graphID id.ID, opts ...Option) (G, error)
}

// VertexFactory constructs vertices.
type VertexFactory[V Vertex] interface {
	DefaultLabel() string
	CreateVertex(opts ...Option) V
	InitVertex(vertexID id.ID, opts ...Option) (V, error)
}

// EdgeFactory constructs edges. Source and target are required.
type EdgeFactory[E Edge] interface {
	DefaultLabel() string
	CreateEdge(source, target id.ID, opts ...Option) (E, error)
	InitEdge(edgeID, source, target id.ID, opts ...Option) (E, error)
}

// CheckEdgeEnds validates the required references of an edge.
func CheckEdgeEnds(source, target id.ID) error {
	if source.IsZero() {
		return ErrMissingSource
	}
	if target.IsZero() {
		return ErrMissingTarget
	}
	return nil
}
