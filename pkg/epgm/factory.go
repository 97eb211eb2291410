package epgm

import (
	"github.com/sanonone/epgm/pkg/id"
	"github.com/sanonone/epgm/pkg/model"
)

var (
	_ model.GraphHeadFactory[*GraphHead] = (*GraphHeadFactory)(nil)
	_ model.VertexFactory[*Vertex]       = (*VertexFactory)(nil)
	_ model.EdgeFactory[*Edge]           = (*EdgeFactory)(nil)
)

// Labels holds the default label of each element kind.
type Labels struct {
	Graph  string `yaml:"graph" toml:"graph"`
	Vertex string `yaml:"vertex" toml:"vertex"`
	Edge   string `yaml:"edge" toml:"edge"`
}

// DefaultLabels returns the built-in default labels.
func DefaultLabels() Labels {
	return Labels{Graph: DefaultGraphLabel, Vertex: DefaultVertexLabel, Edge: DefaultEdgeLabel}
}

// withDefaults fills empty entries of l from DefaultLabels.
func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	if l.Graph == "" {
		l.Graph = d.Graph
	}
	if l.Vertex == "" {
		l.Vertex = d.Vertex
	}
	if l.Edge == "" {
		l.Edge = d.Edge
	}
	return l
}

// GraphHeadFactory builds GraphHead records.
type GraphHeadFactory struct {
	label string
	gen   *id.Generator
}

// NewGraphHeadFactory returns a factory using label as default and gen for
// fresh ids. An empty label means DefaultGraphLabel, a nil gen a new random
// generator.
func NewGraphHeadFactory(label string, gen *id.Generator) *GraphHeadFactory {
	if label == "" {
		label = DefaultGraphLabel
	}
	if gen == nil {
		gen = id.NewGenerator()
	}
	return &GraphHeadFactory{label: label, gen: gen}
}

func (f *GraphHeadFactory) DefaultLabel() string { return f.label }

func (f *GraphHeadFactory) CreateGraphHead(opts ...model.Option) *GraphHead {
	g, _ := f.InitGraphHead(f.gen.New(), opts...)
	return g
}

func (f *GraphHeadFactory) InitGraphHead(graphID id.ID, opts ...model.Option) (*GraphHead, error) {
	if graphID.IsZero() {
		return nil, model.ErrMissingID
	}
	fields := model.ResolveFields(f.label, opts...)
	return &GraphHead{element{id: graphID, label: fields.Label, props: fields.Properties}}, nil
}

// VertexFactory builds Vertex records.
type VertexFactory struct {
	label string
	gen   *id.Generator
}

// NewVertexFactory is the vertex counterpart of NewGraphHeadFactory.
func NewVertexFactory(label string, gen *id.Generator) *VertexFactory {
	if label == "" {
		label = DefaultVertexLabel
	}
	if gen == nil {
		gen = id.NewGenerator()
	}
	return &VertexFactory{label: label, gen: gen}
}

func (f *VertexFactory) DefaultLabel() string { return f.label }

func (f *VertexFactory) CreateVertex(opts ...model.Option) *Vertex {
	v, _ := f.InitVertex(f.gen.New(), opts...)
	return v
}

func (f *VertexFactory) InitVertex(vertexID id.ID, opts ...model.Option) (*Vertex, error) {
	if vertexID.IsZero() {
		return nil, model.ErrMissingID
	}
	fields := model.ResolveFields(f.label, opts...)
	v := &Vertex{}
	v.id, v.label, v.props, v.graphs = vertexID, fields.Label, fields.Properties, fields.GraphIDs
	return v, nil
}

// EdgeFactory builds Edge records.
type EdgeFactory struct {
	label string
	gen   *id.Generator
}

// NewEdgeFactory is the edge counterpart of NewGraphHeadFactory.
func NewEdgeFactory(label string, gen *id.Generator) *EdgeFactory {
	if label == "" {
		label = DefaultEdgeLabel
	}
	if gen == nil {
		gen = id.NewGenerator()
	}
	return &EdgeFactory{label: label, gen: gen}
}

func (f *EdgeFactory) DefaultLabel() string { return f.label }

func (f *EdgeFactory) CreateEdge(source, target id.ID, opts ...model.Option) (*Edge, error) {
	if err := model.CheckEdgeEnds(source, target); err != nil {
		return nil, err
	}
	return f.InitEdge(f.gen.New(), source, target, opts...)
}

func (f *EdgeFactory) InitEdge(edgeID, source, target id.ID, opts ...model.Option) (*Edge, error) {
	if edgeID.IsZero() {
		return nil, model.ErrMissingID
	}
	if err := model.CheckEdgeEnds(source, target); err != nil {
		return nil, err
	}
	fields := model.ResolveFields(f.label, opts...)
	e := &Edge{source: source, target: target}
	e.id, e.label, e.props, e.graphs = edgeID, fields.Label, fields.Properties, fields.GraphIDs
	return e, nil
}

// Factories bundles one factory per element kind sharing a generator.
type Factories struct {
	GraphHeads *GraphHeadFactory
	Vertices   *VertexFactory
	Edges      *EdgeFactory
}

// NewFactories builds the three factories. Empty labels fall back to the
// defaults; a nil gen means a new random generator.
func NewFactories(labels Labels, gen *id.Generator) Factories {
	labels = labels.withDefaults()
	if gen == nil {
		gen = id.NewGenerator()
	}
	return Factories{
		GraphHeads: NewGraphHeadFactory(labels.Graph, gen),
		Vertices:   NewVertexFactory(labels.Vertex, gen),
		Edges:      NewEdgeFactory(labels.Edge, gen),
	}
}
