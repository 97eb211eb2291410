package gdl

import (
	"maps"
	"slices"

	"github.com/sanonone/epgm/pkg/id"
	"github.com/sanonone/epgm/pkg/model"
)

// GraphHeads returns every graph head in creation order.
func (l *Loader[G, V, E]) GraphHeads() []G { return slices.Clone(l.graphHeads) }

// Vertices returns every vertex in creation order. A vertex referenced
// several times appears once.
func (l *Loader[G, V, E]) Vertices() []V { return slices.Clone(l.vertices) }

// Edges returns every edge in creation order.
func (l *Loader[G, V, E]) Edges() []E { return slices.Clone(l.edges) }

// GraphHeadByVariable returns the graph head bound to name.
func (l *Loader[G, V, E]) GraphHeadByVariable(name string) (G, bool) {
	g, ok := l.graphCache[name]
	return g, ok
}

// VertexByVariable returns the vertex bound to name.
func (l *Loader[G, V, E]) VertexByVariable(name string) (V, bool) {
	v, ok := l.vertexCache[name]
	return v, ok
}

// EdgeByVariable returns the edge bound to name.
func (l *Loader[G, V, E]) EdgeByVariable(name string) (E, bool) {
	e, ok := l.edgeCache[name]
	return e, ok
}

// GraphHeadsByVariables returns the graph heads bound to names, in the order
// requested. Unknown names are skipped.
func (l *Loader[G, V, E]) GraphHeadsByVariables(names ...string) []G {
	return byVariables(l.graphCache, names)
}

// VerticesByVariables returns the vertices bound to names. Unknown names are
// skipped.
func (l *Loader[G, V, E]) VerticesByVariables(names ...string) []V {
	return byVariables(l.vertexCache, names)
}

// EdgesByVariables returns the edges bound to names. Unknown names are
// skipped.
func (l *Loader[G, V, E]) EdgesByVariables(names ...string) []E {
	return byVariables(l.edgeCache, names)
}

func byVariables[T any](cache map[string]T, names []string) []T {
	out := make([]T, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if el, ok := cache[n]; ok {
			out = append(out, el)
		}
	}
	return out
}

// VerticesByGraphIDs returns the vertices belonging to any of graphIDs.
func (l *Loader[G, V, E]) VerticesByGraphIDs(graphIDs *id.Set) []V {
	return model.FilterByGraphs(l.vertices, graphIDs)
}

// EdgesByGraphIDs returns the edges belonging to any of graphIDs.
func (l *Loader[G, V, E]) EdgesByGraphIDs(graphIDs *id.Set) []E {
	return model.FilterByGraphs(l.edges, graphIDs)
}

// VerticesByGraphVariables returns the vertices belonging to any of the
// graphs bound to names.
func (l *Loader[G, V, E]) VerticesByGraphVariables(names ...string) []V {
	return l.VerticesByGraphIDs(model.IDs(l.GraphHeadsByVariables(names...)))
}

// EdgesByGraphVariables returns the edges belonging to any of the graphs
// bound to names.
func (l *Loader[G, V, E]) EdgesByGraphVariables(names ...string) []E {
	return l.EdgesByGraphIDs(model.IDs(l.GraphHeadsByVariables(names...)))
}

// GraphHeadCache returns a copy of the graph variable bindings.
func (l *Loader[G, V, E]) GraphHeadCache() map[string]G { return maps.Clone(l.graphCache) }

// VertexCache returns a copy of the vertex variable bindings.
func (l *Loader[G, V, E]) VertexCache() map[string]V { return maps.Clone(l.vertexCache) }

// EdgeCache returns a copy of the edge variable bindings.
func (l *Loader[G, V, E]) EdgeCache() map[string]E { return maps.Clone(l.edgeCache) }
