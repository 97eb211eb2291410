package temporal

import (
	"fmt"
	"time"

	"github.com/sanonone/epgm/pkg/epgm"
	"github.com/sanonone/epgm/pkg/id"
	"github.com/sanonone/epgm/pkg/model"
	"github.com/sanonone/epgm/pkg/properties"
)

var (
	_ model.GraphHeadFactory[*GraphHead] = (*GraphHeadFactory)(nil)
	_ model.VertexFactory[*Vertex]       = (*VertexFactory)(nil)
	_ model.EdgeFactory[*Edge]           = (*EdgeFactory)(nil)
)

// Reserved property keys. When an element is created with one of them set to
// an integer, the matching bound is taken from it and the key is removed.
const (
	PropValidFrom = "__valFrom"
	PropValidTo   = "__valTo"
	PropTxFrom    = "__txFrom"
	PropTxTo      = "__txTo"
)

// Element is a temporal element whose time bounds can be read from its
// properties.
type Element interface {
	model.PropertyBearing
	Versioned
}

// ExtractTime moves the reserved time properties of el into its intervals.
// Missing keys keep the current bound. On error el is left unchanged.
func ExtractTime(el Element) error {
	valid, tx, err := TakeTime(el.Properties(), el.ValidTime(), el.TransactionTime())
	if err != nil {
		return err
	}
	_ = el.SetValidTime(valid)
	_ = el.SetTransactionTime(tx)
	return nil
}

// TakeTime applies the reserved time properties of props to valid and tx and
// returns the resulting intervals. On success the reserved keys are removed
// from props; on error props is left unchanged.
func TakeTime(props *properties.Properties, valid, tx Interval) (Interval, Interval, error) {
	targets := []struct {
		key   string
		bound *int64
	}{
		{PropValidFrom, &valid.From},
		{PropValidTo, &valid.To},
		{PropTxFrom, &tx.From},
		{PropTxTo, &tx.To},
	}

	found := false
	for _, t := range targets {
		v, ok := props.Get(t.key)
		if !ok {
			continue
		}
		ms, err := millisOf(v)
		if err != nil {
			return Interval{}, Interval{}, fmt.Errorf("property %s: %w", t.key, err)
		}
		*t.bound = ms
		found = true
	}
	if !found {
		return valid, tx, nil
	}
	if err := valid.Validate(); err != nil {
		return Interval{}, Interval{}, fmt.Errorf("valid time: %w", err)
	}
	if err := tx.Validate(); err != nil {
		return Interval{}, Interval{}, fmt.Errorf("transaction time: %w", err)
	}

	for _, t := range targets {
		props.Delete(t.key)
	}
	return valid, tx, nil
}

func millisOf(v properties.Value) (int64, error) {
	switch v.Kind() {
	case properties.KindInt32:
		i, err := v.AsInt32()
		return int64(i), err
	default:
		return v.AsInt64()
	}
}

// GraphHeadFactory builds temporal graph heads on top of an epgm factory.
type GraphHeadFactory struct {
	base  *epgm.GraphHeadFactory
	clock func() time.Time
}

func (f *GraphHeadFactory) DefaultLabel() string { return f.base.DefaultLabel() }

// CreateGraphHead returns a graph head valid forever and recorded now.
// Reserved time properties that cannot be applied stay as plain properties.
func (f *GraphHeadFactory) CreateGraphHead(opts ...model.Option) *GraphHead {
	g := &GraphHead{GraphHead: *f.base.CreateGraphHead(opts...), Times: NewTimes(Millis(f.clock()))}
	_ = ExtractTime(g)
	return g
}

func (f *GraphHeadFactory) InitGraphHead(graphID id.ID, opts ...model.Option) (*GraphHead, error) {
	base, err := f.base.InitGraphHead(graphID, opts...)
	if err != nil {
		return nil, err
	}
	g := &GraphHead{GraphHead: *base, Times: NewTimes(Millis(f.clock()))}
	if err := ExtractTime(g); err != nil {
		return nil, err
	}
	return g, nil
}

// VertexFactory builds temporal vertices on top of an epgm factory.
type VertexFactory struct {
	base  *epgm.VertexFactory
	clock func() time.Time
}

func (f *VertexFactory) DefaultLabel() string { return f.base.DefaultLabel() }

// CreateVertex returns a vertex valid forever and recorded now.
// Reserved time properties that cannot be applied stay as plain properties.
func (f *VertexFactory) CreateVertex(opts ...model.Option) *Vertex {
	v := &Vertex{Vertex: *f.base.CreateVertex(opts...), Times: NewTimes(Millis(f.clock()))}
	_ = ExtractTime(v)
	return v
}

func (f *VertexFactory) InitVertex(vertexID id.ID, opts ...model.Option) (*Vertex, error) {
	base, err := f.base.InitVertex(vertexID, opts...)
	if err != nil {
		return nil, err
	}
	v := &Vertex{Vertex: *base, Times: NewTimes(Millis(f.clock()))}
	if err := ExtractTime(v); err != nil {
		return nil, err
	}
	return v, nil
}

// EdgeFactory builds temporal edges on top of an epgm factory.
type EdgeFactory struct {
	base  *epgm.EdgeFactory
	clock func() time.Time
}

func (f *EdgeFactory) DefaultLabel() string { return f.base.DefaultLabel() }

func (f *EdgeFactory) CreateEdge(source, target id.ID, opts ...model.Option) (*Edge, error) {
	base, err := f.base.CreateEdge(source, target, opts...)
	if err != nil {
		return nil, err
	}
	return f.wrap(base)
}

func (f *EdgeFactory) InitEdge(edgeID, source, target id.ID, opts ...model.Option) (*Edge, error) {
	base, err := f.base.InitEdge(edgeID, source, target, opts...)
	if err != nil {
		return nil, err
	}
	return f.wrap(base)
}

func (f *EdgeFactory) wrap(base *epgm.Edge) (*Edge, error) {
	e := &Edge{Edge: *base, Times: NewTimes(Millis(f.clock()))}
	if err := ExtractTime(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Factories bundles one temporal factory per element kind.
type Factories struct {
	GraphHeads *GraphHeadFactory
	Vertices   *VertexFactory
	Edges      *EdgeFactory
}

// NewFactories builds temporal factories. clock stamps the transaction start
// of every new element; nil means time.Now.
func NewFactories(labels epgm.Labels, gen *id.Generator, clock func() time.Time) Factories {
	if clock == nil {
		clock = time.Now
	}
	base := epgm.NewFactories(labels, gen)
	return Factories{
		GraphHeads: &GraphHeadFactory{base: base.GraphHeads, clock: clock},
		Vertices:   &VertexFactory{base: base.Vertices, clock: clock},
		Edges:      &EdgeFactory{base: base.Edges, clock: clock},
	}
}
