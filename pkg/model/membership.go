package model

import (
	"slices"

	"github.com/sanonone/epgm/pkg/id"
)

// DataEqual reports whether a and b carry the same label and properties.
// Identifiers are not compared.
func DataEqual(a, b Element) bool {
	return a.Label() == b.Label() && a.Properties().Equal(b.Properties())
}

// InAnyGraph reports whether el belongs to at least one of graphIDs.
func InAnyGraph(el GraphMember, graphIDs *id.Set) bool {
	return el.GraphIDs().ContainsAny(graphIDs)
}

// InAllGraphs reports whether el belongs to every graph of graphIDs.
func InAllGraphs(el GraphMember, graphIDs *id.Set) bool {
	return el.GraphIDs().ContainsAll(graphIDs)
}

// InNoneOfGraphs reports whether el belongs to none of graphIDs.
func InNoneOfGraphs(el GraphMember, graphIDs *id.Set) bool {
	return !InAnyGraph(el, graphIDs)
}

// FilterByGraphs returns the elements belonging to any of graphIDs, keeping
// the input order.
func FilterByGraphs[T GraphMember](elems []T, graphIDs *id.Set) []T {
	var out []T
	for _, el := range elems {
		if InAnyGraph(el, graphIDs) {
			out = append(out, el)
		}
	}
	return out
}

// SortByID sorts elems by identifier in place.
func SortByID[T Identifiable](elems []T) {
	slices.SortFunc(elems, func(a, b T) int {
		return a.ID().Compare(b.ID())
	})
}

// IDs returns the identifiers of elems as a set.
func IDs[T Identifiable](elems []T) *id.Set {
	out := id.NewSet()
	for _, el := range elems {
		out.Add(el.ID())
	}
	return out
}
