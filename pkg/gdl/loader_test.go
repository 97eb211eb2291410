package gdl

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanonone/epgm/pkg/epgm"
	"github.com/sanonone/epgm/pkg/id"
	"github.com/sanonone/epgm/pkg/metrics"
	"github.com/sanonone/epgm/pkg/temporal"
)

type epgmLoader = Loader[*epgm.GraphHead, *epgm.Vertex, *epgm.Edge]

func quietConfig() Config[*epgm.GraphHead, *epgm.Vertex, *epgm.Edge] {
	cfg := DefaultConfig()
	cfg.Logger = slog.New(slog.DiscardHandler)
	return cfg
}

func quietTemporalConfig() Config[*temporal.GraphHead, *temporal.Vertex, *temporal.Edge] {
	cfg := TemporalConfig(temporal.NewFactories(epgm.DefaultLabels(), nil, nil))
	cfg.Logger = slog.New(slog.DiscardHandler)
	return cfg
}

func load(t *testing.T, text string) *epgmLoader {
	t.Helper()
	l, err := FromString(quietConfig(), text)
	require.NoError(t, err)
	return l
}

func validateCollections(t *testing.T, l *epgmLoader, graphHeads, vertices, edges int) {
	t.Helper()
	assert.Len(t, l.GraphHeads(), graphHeads, "graph heads")
	assert.Len(t, l.Vertices(), vertices, "vertices")
	assert.Len(t, l.Edges(), edges, "edges")
}

func validateCaches(t *testing.T, l *epgmLoader, graphHeads, vertices, edges int) {
	t.Helper()
	assert.Len(t, l.GraphHeadCache(), graphHeads, "graph head cache")
	assert.Len(t, l.VertexCache(), vertices, "vertex cache")
	assert.Len(t, l.EdgeCache(), edges, "edge cache")
}

func TestLoaderCounts(t *testing.T) {
	cases := []struct {
		name                               string
		gdl                                string
		graphHeads, vertices, edges        int
		graphCache, vertexCache, edgeCache int
	}{
		{"single edge graph", "[()-->()]", 1, 2, 1, 0, 0, 0},
		{"two graphs", "g[()];h[()]", 2, 2, 0, 2, 0, 0},
		{"vertex reuse in graph", "[(a);(b);(a)]", 1, 2, 0, 0, 2, 0},
		{"vertex reuse across graphs", "g[(a);(b)];h[(a);(c)]", 2, 3, 0, 2, 3, 0},
		{"named edges", "[()-[e]->()<-[f]-()]", 1, 3, 2, 0, 0, 2},
		{"named edges in two graphs", "g[()-[a]->()<-[b]-()];h[()-[c]->()-[d]->()]", 2, 6, 4, 2, 0, 4},
		{"named and anonymous graphs", "g[()];h[()];[()]", 3, 3, 0, 2, 0, 0},
		{"vertices without graph", "(a);(b);()", 0, 3, 0, 0, 2, 0},
		{"edges without graph", "()-[e]->()<-[f]-()-->()", 0, 4, 3, 0, 0, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := load(t, tc.gdl)
			validateCollections(t, l, tc.graphHeads, tc.vertices, tc.edges)
			validateCaches(t, l, tc.graphCache, tc.vertexCache, tc.edgeCache)
		})
	}
}

func TestSingleEdgeGraphMembershipAndLabels(t *testing.T) {
	l := load(t, "[()-->()]")
	g := l.GraphHeads()[0]
	assert.Equal(t, epgm.DefaultGraphLabel, g.Label())

	for _, v := range l.Vertices() {
		assert.Equal(t, epgm.DefaultVertexLabel, v.Label())
		assert.True(t, v.GraphIDs().Equal(id.NewSet(g.ID())))
	}
	e := l.Edges()[0]
	assert.Equal(t, epgm.DefaultEdgeLabel, e.Label())
	assert.True(t, e.GraphIDs().Equal(id.NewSet(g.ID())))
	assert.Equal(t, l.Vertices()[0].ID(), e.SourceID())
	assert.Equal(t, l.Vertices()[1].ID(), e.TargetID())
}

func TestGraphHeadsByVariable(t *testing.T) {
	l := load(t, "g[()];h[()]")
	g, ok := l.GraphHeadByVariable("g")
	require.True(t, ok)
	h, ok := l.GraphHeadByVariable("h")
	require.True(t, ok)
	assert.NotEqual(t, g.ID(), h.ID())
	assert.NotSame(t, g, h)

	assert.Len(t, l.GraphHeadsByVariables("g", "h"), 2)
	assert.Len(t, l.GraphHeadsByVariables("g", "nope", "g"), 1)
}

func TestUndeclaredVariablesAreNotFound(t *testing.T) {
	l := load(t, "g[(a)-[e]->(b)]")

	_, ok := l.GraphHeadByVariable("x")
	assert.False(t, ok)
	v, ok := l.VertexByVariable("x")
	assert.False(t, ok)
	assert.Nil(t, v)
	_, ok = l.EdgeByVariable("x")
	assert.False(t, ok)

	assert.Empty(t, l.VerticesByVariables("x", "y"))
	assert.Empty(t, l.VerticesByGraphVariables("nope"))
	assert.Empty(t, l.EdgesByGraphVariables("nope"))
}

func TestVertexReuse(t *testing.T) {
	l := load(t, "(a);(b);(a)")
	assert.Len(t, l.VertexCache(), 2)
	assert.Len(t, l.Vertices(), 2)

	a1, _ := l.VertexByVariable("a")
	assert.Same(t, a1, l.Vertices()[0])
}

func TestVerticesByGraphIDs(t *testing.T) {
	l := load(t, "g[(a);(b)];h[(a);(c)]")
	g, _ := l.GraphHeadByVariable("g")
	h, _ := l.GraphHeadByVariable("h")
	a, _ := l.VertexByVariable("a")
	b, _ := l.VertexByVariable("b")
	c, _ := l.VertexByVariable("c")

	inG := l.VerticesByGraphIDs(id.NewSet(g.ID()))
	assert.ElementsMatch(t, []*epgm.Vertex{a, b}, inG)

	inH := l.VerticesByGraphIDs(id.NewSet(h.ID()))
	assert.ElementsMatch(t, []*epgm.Vertex{a, c}, inH)

	inBoth := l.VerticesByGraphIDs(id.NewSet(g.ID(), h.ID()))
	assert.ElementsMatch(t, []*epgm.Vertex{a, b, c}, inBoth)

	assert.ElementsMatch(t, inBoth, l.VerticesByGraphVariables("g", "h"))
	assert.Equal(t, 2, a.GraphIDs().Len())
}

func TestEdgesByGraphIDs(t *testing.T) {
	l := load(t, "g[(a)-[e]->(b)];h[(b)-[f]->(c)<-[x]-(a)]")
	g, _ := l.GraphHeadByVariable("g")
	e, _ := l.EdgeByVariable("e")
	f, _ := l.EdgeByVariable("f")
	x, _ := l.EdgeByVariable("x")

	assert.Equal(t, []*epgm.Edge{e}, l.EdgesByGraphIDs(id.NewSet(g.ID())))
	assert.ElementsMatch(t, []*epgm.Edge{f, x}, l.EdgesByGraphVariables("h"))
	assert.ElementsMatch(t, []*epgm.Edge{e, f, x}, l.EdgesByGraphVariables("g", "h"))
	assert.ElementsMatch(t, []*epgm.Edge{e, x}, l.EdgesByVariables("e", "x", "missing"))

	a, _ := l.VertexByVariable("a")
	c, _ := l.VertexByVariable("c")
	assert.Equal(t, a.ID(), x.SourceID(), "incoming arrow points from right to left")
	assert.Equal(t, c.ID(), x.TargetID())
}

func TestAnonymousElementsAreNeverShared(t *testing.T) {
	l := load(t, "[()];[()]")
	validateCollections(t, l, 2, 2, 0)
	vs := l.Vertices()
	assert.NotEqual(t, vs[0].ID(), vs[1].ID())
	assert.Equal(t, 1, vs[0].GraphIDs().Len())
}

func TestLabelsAndProperties(t *testing.T) {
	l := load(t, `g:Community{area: "Leipzig"}[
		(alice:Person {name: "Alice", age: 23})-[k:knows {since: 2014L}]->(bob:Person)
	]`)

	g, _ := l.GraphHeadByVariable("g")
	assert.Equal(t, "Community", g.Label())
	area, ok := g.PropertyValue("area")
	require.True(t, ok)
	s, err := area.AsString()
	require.NoError(t, err)
	assert.Equal(t, "Leipzig", s)

	alice, _ := l.VertexByVariable("alice")
	assert.Equal(t, "Person", alice.Label())
	age, _ := alice.PropertyValue("age")
	i, err := age.AsInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(23), i)

	k, _ := l.EdgeByVariable("k")
	assert.Equal(t, "knows", k.Label())
	since, _ := k.PropertyValue("since")
	l64, err := since.AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(2014), l64)

	bob, _ := l.VertexByVariable("bob")
	assert.Equal(t, 0, bob.Properties().Len())
}

func TestReferenceUpdatesCachedElement(t *testing.T) {
	l := load(t, `(a);(a:Person {name: "Alice"})`)
	a, _ := l.VertexByVariable("a")
	assert.Equal(t, "Person", a.Label())
	assert.True(t, a.Properties().Has("name"))
	assert.Len(t, l.Vertices(), 1)

	l = load(t, `(a:Person);(a)`)
	a, _ = l.VertexByVariable("a")
	assert.Equal(t, "Person", a.Label(), "a bare reference keeps the label")
}

func TestGraphVariableReuseExtendsGraph(t *testing.T) {
	l := load(t, "g[(a)];g[(b)]")
	validateCollections(t, l, 1, 2, 0)
	assert.Len(t, l.VerticesByGraphVariables("g"), 2)
}

func TestFromFile(t *testing.T) {
	l, err := FromFile(quietConfig(), "testdata/example.gdl")
	require.NoError(t, err)
	validateCollections(t, l, 1, 2, 1)
	validateCaches(t, l, 0, 0, 0)
}

func TestSocialNetwork(t *testing.T) {
	l, err := FromFile(quietConfig(), "testdata/social_network.gdl")
	require.NoError(t, err)
	validateCollections(t, l, 3, 6, 7)
	validateCaches(t, l, 3, 6, 5)

	assert.Len(t, l.VerticesByGraphVariables("db"), 3)
	assert.Len(t, l.EdgesByGraphVariables("db"), 3)
	assert.Len(t, l.VerticesByGraphVariables("gps"), 3)
	assert.Len(t, l.EdgesByGraphVariables("gps"), 2)
	assert.Len(t, l.VerticesByGraphVariables("forum"), 3)
	assert.Len(t, l.VerticesByGraphVariables("db", "gps"), 5)
	assert.Len(t, l.EdgesByGraphVariables("db", "gps"), 5)

	eve, _ := l.VertexByVariable("eve")
	assert.Equal(t, 2, eve.GraphIDs().Len())
	lonely, _ := l.VertexByVariable("lonely")
	assert.Equal(t, 0, lonely.GraphIDs().Len())
	assert.Equal(t, "Tag", lonely.Label())

	dave, _ := l.VertexByVariable("dave")
	frank, _ := l.VertexByVariable("frank")
	dkf, _ := l.EdgeByVariable("dkf")
	assert.Equal(t, dave.ID(), dkf.SourceID())
	assert.Equal(t, frank.ID(), dkf.TargetID())
}

func TestResourceErrors(t *testing.T) {
	_, err := FromFile(quietConfig(), "testdata/does_not_exist.gdl")
	var rerr *ResourceError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "testdata/does_not_exist.gdl", rerr.Name)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	boom := errors.New("boom")
	_, err = FromReader(quietConfig(), "broken", iotest.ErrReader(boom))
	require.ErrorAs(t, err, &rerr)
	assert.ErrorIs(t, err, boom)

	var perr *ParseError
	assert.False(t, errors.As(err, &perr), "resource errors are not parse errors")
}

func TestFromReader(t *testing.T) {
	l, err := FromReader(quietConfig(), "inline", strings.NewReader("g[(a)-->(b)]"))
	require.NoError(t, err)
	validateCollections(t, l, 1, 2, 1)
}

func TestParseErrorsFailTheLoad(t *testing.T) {
	_, err := FromFile(quietConfig(), "testdata/bad.gdl")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Pos.Line)
	assert.Equal(t, 2, perr.Pos.Column)
}

func TestAppend(t *testing.T) {
	l := load(t, "g[(a)]")
	require.NoError(t, l.Append("h[(a)-->(b)]"))
	validateCollections(t, l, 2, 2, 1)
	assert.Len(t, l.VerticesByGraphVariables("g", "h"), 2)

	err := l.Append("k[(c)")
	require.Error(t, err)
	validateCollections(t, l, 2, 2, 1)
	_, ok := l.GraphHeadByVariable("k")
	assert.False(t, ok)

	a, _ := l.VertexByVariable("a")
	g, _ := l.GraphHeadByVariable("g")
	vertexLabel, graphLabel := a.Label(), g.Label()
	err = l.Append("g:Renamed {x: 1}[(a:Moved {x: 1})-[e]->(b)];k[(b)-[e]->(a)]")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	validateCollections(t, l, 2, 2, 1)
	validateCaches(t, l, 2, 2, 0)
	assert.Equal(t, vertexLabel, a.Label())
	assert.Equal(t, 0, a.Properties().Len())
	assert.Equal(t, 2, a.GraphIDs().Len())
	assert.Equal(t, graphLabel, g.Label())
	assert.Equal(t, 0, g.Properties().Len())
}

func TestAppendFailureLeavesTemporalElementsUntouched(t *testing.T) {
	l, err := FromString(quietTemporalConfig(), "(a:Person)")
	require.NoError(t, err)

	err = l.Append("g[(a:Changed {x: 1, __valFrom: 10L})-[{__valFrom: 5L, __valTo: 1L}]->(b)]")
	require.Error(t, err)

	assert.Empty(t, l.GraphHeads())
	assert.Len(t, l.Vertices(), 1)
	a, _ := l.VertexByVariable("a")
	assert.Equal(t, "Person", a.Label())
	assert.Equal(t, 0, a.Properties().Len())
	assert.Equal(t, 0, a.GraphIDs().Len())
	assert.Equal(t, temporal.Always, a.ValidTime())

	require.NoError(t, l.Append("g[(a:Changed)-->(b)]"))
	assert.Equal(t, "Changed", a.Label())
	assert.Equal(t, 1, a.GraphIDs().Len())
}

func TestQueryResultsAreCopies(t *testing.T) {
	l := load(t, "g[(a)]")
	vs := l.Vertices()
	vs[0] = nil
	assert.NotNil(t, l.Vertices()[0])

	cache := l.VertexCache()
	delete(cache, "a")
	_, ok := l.VertexByVariable("a")
	assert.True(t, ok)
}

func TestTemporalLoader(t *testing.T) {
	before := time.Now().UnixMilli()
	l, err := FromString(quietTemporalConfig(), `g[(a {__valFrom: 1000L, __valTo: 2000L})-[e]->(b)]`)
	require.NoError(t, err)

	a, _ := l.VertexByVariable("a")
	assert.Equal(t, temporal.Interval{From: 1000, To: 2000}, a.ValidTime())
	assert.Equal(t, 0, a.Properties().Len())

	b, _ := l.VertexByVariable("b")
	assert.Equal(t, temporal.Always, b.ValidTime())
	assert.LessOrEqual(t, before, b.TxFrom())
	assert.Equal(t, temporal.MaxTime, b.TxTo())

	g, _ := l.GraphHeadByVariable("g")
	e, _ := l.EdgeByVariable("e")
	assert.True(t, e.GraphIDs().Contains(g.ID()))
}

func TestTemporalLoaderBuildError(t *testing.T) {
	_, err := FromString(quietTemporalConfig(), `()-[{__txFrom: "never"}]->()`)
	require.Error(t, err)
	var perr *ParseError
	assert.False(t, errors.As(err, &perr))
}

func TestTemporalReferenceMovesTimeProperties(t *testing.T) {
	cfg := quietTemporalConfig()

	l, err := FromString(cfg, `(a);(a {__valFrom: 1000L, __valTo: 2000L})`)
	require.NoError(t, err)
	a, _ := l.VertexByVariable("a")
	assert.Equal(t, temporal.Interval{From: 1000, To: 2000}, a.ValidTime())
	assert.Equal(t, 0, a.Properties().Len())

	l, err = FromString(cfg, `g[()];g {__txFrom: 10L}[()]`)
	require.NoError(t, err)
	g, _ := l.GraphHeadByVariable("g")
	assert.Equal(t, int64(10), g.TransactionTime().From)
	assert.False(t, g.Properties().Has(temporal.PropTxFrom))

	l, err = FromString(cfg, `(a)-[e]->(b);(a)-[e {__valFrom: 7L}]->(b)`)
	require.NoError(t, err)
	e, _ := l.EdgeByVariable("e")
	assert.Equal(t, int64(7), e.ValidTime().From)
	assert.Equal(t, 0, e.Properties().Len())
}

func TestTemporalReferenceWithInvalidTime(t *testing.T) {
	cfg := quietTemporalConfig()

	l, err := FromString(cfg, `(a);(a {__valFrom: 2000L, __valTo: 1000L})`)
	require.NoError(t, err, "vertices keep invalid time values as properties")
	a, _ := l.VertexByVariable("a")
	assert.Equal(t, temporal.Always, a.ValidTime())
	assert.True(t, a.Properties().Has(temporal.PropValidFrom))
	assert.True(t, a.Properties().Has(temporal.PropValidTo))

	_, err = FromString(cfg, `(a)-[e]->(b);(a)-[e {__txFrom: 5L, __txTo: 1L}]->(b)`)
	require.ErrorIs(t, err, temporal.ErrInvalidInterval)
	var perr *ParseError
	assert.False(t, errors.As(err, &perr))
}

func TestEdgeVariableKeepsItsEndpoints(t *testing.T) {
	l := load(t, "(a)-[e]->(b);g[(a)-[e]->(b)];h[(b)<-[e]-(a)]")
	validateCollections(t, l, 2, 2, 1)
	e, _ := l.EdgeByVariable("e")
	assert.Equal(t, 2, e.GraphIDs().Len())

	for _, text := range []string{
		"(a)-[e]->(b);(c)-[e]->(d)",
		"(a)-[e]->(b)\n(b)-[e]->(a)",
	} {
		_, err := FromString(quietConfig(), text)
		var perr *ParseError
		require.ErrorAs(t, err, &perr, text)
		assert.Contains(t, perr.Msg, `edge variable "e"`)
	}

	_, err := FromString(quietConfig(), "(a)-[e]->(b)\n(b)-[e]->(a)")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Pos.Line)
}

func TestLoadMetricsAndLog(t *testing.T) {
	ok := testutil.ToFloat64(metrics.GDLLoadsTotal.WithLabelValues(metrics.ResultOK))
	parseErrs := testutil.ToFloat64(metrics.GDLLoadsTotal.WithLabelValues(metrics.ResultParseError))
	vertices := testutil.ToFloat64(metrics.GDLElementsTotal.WithLabelValues(metrics.KindVertex))
	edges := testutil.ToFloat64(metrics.GDLElementsTotal.WithLabelValues(metrics.KindEdge))

	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	_, err := FromString(cfg, "g[(a)-->(b)-->(a)]")
	require.NoError(t, err)
	_, err = FromString(cfg, "g[")
	require.Error(t, err)

	assert.Equal(t, ok+1, testutil.ToFloat64(metrics.GDLLoadsTotal.WithLabelValues(metrics.ResultOK)))
	assert.Equal(t, parseErrs+1, testutil.ToFloat64(metrics.GDLLoadsTotal.WithLabelValues(metrics.ResultParseError)))
	assert.Equal(t, vertices+2, testutil.ToFloat64(metrics.GDLElementsTotal.WithLabelValues(metrics.KindVertex)))
	assert.Equal(t, edges+2, testutil.ToFloat64(metrics.GDLElementsTotal.WithLabelValues(metrics.KindEdge)))

	out := buf.String()
	assert.Contains(t, out, "[GDL] document loaded")
	assert.Contains(t, out, "vertices=2")
	assert.Contains(t, out, "edges=2")
}
