// Package gdl loads graphs written in the Graph Definition Language, a
// compact ASCII notation for logical graphs:
//
//	g:Community{area: "Leipzig"}[
//	    (alice:Person {name: "Alice"})-[:knows {since: 2014}]->(bob:Person)
//	]
//	h[(alice)<--(carol:Person)]
//
// A Loader parses the text once and builds every graph head, vertex and edge
// through the configured factories. Named variables are cached: a second
// reference to `alice` reuses the first instance and only adds the graph it
// appears in. Anonymous declarations always create a new element. An edge
// variable names one edge: reusing it between other endpoints is a
// ParseError.
//
// Loads are independent. Each FromString/FromReader/FromFile call returns a
// Loader with its own caches and collections; a Loader itself is not safe
// for concurrent use.
package gdl

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"time"

	"github.com/sanonone/epgm/pkg/epgm"
	"github.com/sanonone/epgm/pkg/id"
	"github.com/sanonone/epgm/pkg/metrics"
	"github.com/sanonone/epgm/pkg/model"
	"github.com/sanonone/epgm/pkg/properties"
	"github.com/sanonone/epgm/pkg/temporal"
)

// Config selects the factories a Loader builds elements with.
type Config[G model.GraphHead, V model.Vertex, E model.Edge] struct {
	GraphHeads model.GraphHeadFactory[G]
	Vertices   model.VertexFactory[V]
	Edges      model.EdgeFactory[E]
	// Logger receives one summary line per load. nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig builds plain epgm elements with the default labels.
func DefaultConfig() Config[*epgm.GraphHead, *epgm.Vertex, *epgm.Edge] {
	return EPGMConfig(epgm.NewFactories(epgm.DefaultLabels(), nil))
}

// EPGMConfig builds plain epgm elements with the given factories.
func EPGMConfig(f epgm.Factories) Config[*epgm.GraphHead, *epgm.Vertex, *epgm.Edge] {
	return Config[*epgm.GraphHead, *epgm.Vertex, *epgm.Edge]{
		GraphHeads: f.GraphHeads,
		Vertices:   f.Vertices,
		Edges:      f.Edges,
	}
}

// TemporalConfig builds temporal elements with the given factories.
func TemporalConfig(f temporal.Factories) Config[*temporal.GraphHead, *temporal.Vertex, *temporal.Edge] {
	return Config[*temporal.GraphHead, *temporal.Vertex, *temporal.Edge]{
		GraphHeads: f.GraphHeads,
		Vertices:   f.Vertices,
		Edges:      f.Edges,
	}
}

// Loader holds the elements built from one or more GDL documents together
// with the variable caches.
type Loader[G model.GraphHead, V model.Vertex, E model.Edge] struct {
	cfg Config[G, V, E]
	log *slog.Logger

	graphHeads []G
	vertices   []V
	edges      []E

	graphCache  map[string]G
	vertexCache map[string]V
	edgeCache   map[string]E
}

// New returns an empty Loader. Documents are added with Append.
func New[G model.GraphHead, V model.Vertex, E model.Edge](cfg Config[G, V, E]) *Loader[G, V, E] {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Loader[G, V, E]{
		cfg:         cfg,
		log:         log,
		graphCache:  make(map[string]G),
		vertexCache: make(map[string]V),
		edgeCache:   make(map[string]E),
	}
}

// FromString builds a Loader from GDL text.
func FromString[G model.GraphHead, V model.Vertex, E model.Edge](cfg Config[G, V, E], text string) (*Loader[G, V, E], error) {
	l := New(cfg)
	if err := l.load("string", text); err != nil {
		return nil, err
	}
	return l, nil
}

// FromReader reads r to the end and builds a Loader from its content. name
// identifies the source in errors and logs.
func FromReader[G model.GraphHead, V model.Vertex, E model.Edge](cfg Config[G, V, E], name string, r io.Reader) (*Loader[G, V, E], error) {
	b, err := io.ReadAll(r)
	if err != nil {
		metrics.GDLLoadsTotal.WithLabelValues(metrics.ResultResourceError).Inc()
		return nil, &ResourceError{Name: name, Err: err}
	}
	l := New(cfg)
	if err := l.load(name, string(b)); err != nil {
		return nil, err
	}
	return l, nil
}

// FromFile builds a Loader from the GDL document at path.
func FromFile[G model.GraphHead, V model.Vertex, E model.Edge](cfg Config[G, V, E], path string) (*Loader[G, V, E], error) {
	b, err := os.ReadFile(path)
	if err != nil {
		metrics.GDLLoadsTotal.WithLabelValues(metrics.ResultResourceError).Inc()
		return nil, &ResourceError{Name: path, Err: err}
	}
	l := New(cfg)
	if err := l.load(path, string(b)); err != nil {
		return nil, err
	}
	return l, nil
}

// Append parses text and adds its elements to l. Variables already cached
// by earlier documents are reused. A document that fails to parse or build
// leaves l unchanged, including the elements it referenced.
func (l *Loader[G, V, E]) Append(text string) error {
	return l.load("string", text)
}

func (l *Loader[G, V, E]) load(source, text string) error {
	start := time.Now()
	doc, err := Parse(text)
	if err != nil {
		metrics.GDLLoadsTotal.WithLabelValues(metrics.ResultParseError).Inc()
		return err
	}

	b := l.newBuild()
	if err := b.document(doc); err != nil {
		metrics.GDLLoadsTotal.WithLabelValues(metrics.ResultBuildError).Inc()
		return err
	}
	b.commit()

	elapsed := time.Since(start)
	metrics.GDLLoadsTotal.WithLabelValues(metrics.ResultOK).Inc()
	metrics.GDLLoadDuration.Observe(elapsed.Seconds())
	metrics.GDLElementsTotal.WithLabelValues(metrics.KindGraphHead).Add(float64(len(b.graphHeads)))
	metrics.GDLElementsTotal.WithLabelValues(metrics.KindVertex).Add(float64(len(b.vertices)))
	metrics.GDLElementsTotal.WithLabelValues(metrics.KindEdge).Add(float64(len(b.edges)))

	l.log.Info("[GDL] document loaded",
		"source", source,
		"graph_heads", len(b.graphHeads),
		"vertices", len(b.vertices),
		"edges", len(b.edges),
		"duration", elapsed)
	return nil
}

// build collects the elements of one document before they are committed to
// the Loader, so a failing document leaves it untouched. New elements are
// built directly; references to cached elements are staged as changes.
type build[G model.GraphHead, V model.Vertex, E model.Edge] struct {
	l *Loader[G, V, E]

	graphHeads []G
	vertices   []V
	edges      []E

	graphCache  map[string]G
	vertexCache map[string]V
	edgeCache   map[string]E

	changes map[string]*change
	staged  []*change
}

func (l *Loader[G, V, E]) newBuild() *build[G, V, E] {
	return &build[G, V, E]{
		l:           l,
		graphCache:  maps.Clone(l.graphCache),
		vertexCache: maps.Clone(l.vertexCache),
		edgeCache:   maps.Clone(l.edgeCache),
		changes:     make(map[string]*change),
	}
}

func (b *build[G, V, E]) commit() {
	for _, c := range b.staged {
		c.apply()
	}
	b.l.graphHeads = append(b.l.graphHeads, b.graphHeads...)
	b.l.vertices = append(b.l.vertices, b.vertices...)
	b.l.edges = append(b.l.edges, b.edges...)
	b.l.graphCache, b.l.vertexCache, b.l.edgeCache = b.graphCache, b.vertexCache, b.edgeCache
}

// stage returns the pending change of the element cached as variable.
func (b *build[G, V, E]) stage(kind, variable string, el model.Element) *change {
	key := kind + ":" + variable
	c, ok := b.changes[key]
	if !ok {
		c = newChange(el)
		b.changes[key] = c
		b.staged = append(b.staged, c)
	}
	return c
}

func (b *build[G, V, E]) document(doc *Document) error {
	for _, st := range doc.Statements {
		if st.Graph == nil {
			if err := b.path(st.Path, nil); err != nil {
				return err
			}
			continue
		}
		g := b.graphHead(st.Graph)
		graphID := g.ID()
		for _, p := range st.Graph.Paths {
			if err := b.path(p, &graphID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *build[G, V, E]) graphHead(d *GraphDecl) G {
	if d.Variable != "" {
		if g, ok := b.graphCache[d.Variable]; ok {
			_ = b.stage("graph", d.Variable, g).update(&d.Decl, false)
			return g
		}
	}
	g := b.l.cfg.GraphHeads.CreateGraphHead(options(&d.Decl)...)
	b.graphHeads = append(b.graphHeads, g)
	if d.Variable != "" {
		b.graphCache[d.Variable] = g
	}
	return g
}

func (b *build[G, V, E]) path(p *Path, graphID *id.ID) error {
	prev := b.vertex(p.Start, graphID)
	for _, s := range p.Steps {
		next := b.vertex(s.Vertex, graphID)
		source, target := prev.ID(), next.ID()
		if s.Incoming {
			source, target = target, source
		}
		if _, err := b.edge(s.Edge, source, target, graphID); err != nil {
			return err
		}
		prev = next
	}
	return nil
}

func (b *build[G, V, E]) vertex(d *Decl, graphID *id.ID) V {
	if v, ok := b.vertexCache[d.Variable]; d.Variable != "" && ok {
		c := b.stage("vertex", d.Variable, v)
		_ = c.update(d, false)
		c.addGraph(graphID)
		return v
	}
	v := b.l.cfg.Vertices.CreateVertex(options(d)...)
	if graphID != nil {
		v.AddGraphID(*graphID)
	}
	b.vertices = append(b.vertices, v)
	if d.Variable != "" {
		b.vertexCache[d.Variable] = v
	}
	return v
}

func (b *build[G, V, E]) edge(d *Decl, source, target id.ID, graphID *id.ID) (E, error) {
	var zero E
	if e, ok := b.edgeCache[d.Variable]; d.Variable != "" && ok {
		if e.SourceID() != source || e.TargetID() != target {
			return zero, errorf(d.Pos, "edge variable %q already connects %s to %s", d.Variable, e.SourceID(), e.TargetID())
		}
		c := b.stage("edge", d.Variable, e)
		if err := c.update(d, true); err != nil {
			return zero, fmt.Errorf("gdl: edge at %s: %w", d.Pos, err)
		}
		c.addGraph(graphID)
		return e, nil
	}
	e, err := b.l.cfg.Edges.CreateEdge(source, target, options(d)...)
	if err != nil {
		return zero, fmt.Errorf("gdl: edge at %s: %w", d.Pos, err)
	}
	if graphID != nil {
		e.AddGraphID(*graphID)
	}
	b.edges = append(b.edges, e)
	if d.Variable != "" {
		b.edgeCache[d.Variable] = e
	}
	return e, nil
}

func options(d *Decl) []model.Option {
	opts := []model.Option{model.WithLabel(d.Label)}
	if d.HasProps() {
		opts = append(opts, model.WithProperties(propertiesOf(d)))
	}
	return opts
}

func propertiesOf(d *Decl) *properties.Properties {
	p := properties.New()
	for _, kv := range d.Props {
		p.Set(kv.Key, kv.Value)
	}
	return p
}

// change is what the references of one document do to a cached element.
type change struct {
	el     model.Element
	label  string
	props  *properties.Properties
	graphs []id.ID

	versioned bool
	valid, tx temporal.Interval
}

func newChange(el model.Element) *change {
	c := &change{el: el, label: el.Label(), props: el.Properties().Clone()}
	if v, ok := el.(temporal.Versioned); ok {
		c.versioned = true
		c.valid, c.tx = v.ValidTime(), v.TransactionTime()
	}
	return c
}

// update applies an explicit label or property block found on a reference.
// Reserved time properties move into the intervals of versioned elements the
// way the factories do it: strict reports invalid values, otherwise they stay
// plain properties.
func (c *change) update(d *Decl, strict bool) error {
	if d.Label != "" {
		c.label = d.Label
	}
	for _, kv := range d.Props {
		c.props.Set(kv.Key, kv.Value)
	}
	if !c.versioned {
		return nil
	}
	valid, tx, err := temporal.TakeTime(c.props, c.valid, c.tx)
	if err != nil {
		if strict {
			return err
		}
		return nil
	}
	c.valid, c.tx = valid, tx
	return nil
}

func (c *change) addGraph(graphID *id.ID) {
	if graphID != nil {
		c.graphs = append(c.graphs, *graphID)
	}
}

func (c *change) apply() {
	c.el.SetLabel(c.label)
	c.el.SetProperties(c.props)
	if m, ok := c.el.(model.GraphMember); ok {
		for _, g := range c.graphs {
			m.AddGraphID(g)
		}
	}
	if v, ok := c.el.(temporal.Versioned); ok && c.versioned {
		_ = v.SetValidTime(c.valid)
		_ = v.SetTransactionTime(c.tx)
	}
}
