// Package model declares the capabilities shared by every element of an
// extended property graph and the contracts its factories satisfy.
//
// Graph heads, vertices and edges are plain records; code that needs to treat
// "any labeled, property bearing thing" uniformly depends on the small
// interfaces below instead of a concrete type. Graph membership lives on the
// member: a vertex or edge carries the set of graph ids it belongs to, and a
// graph head never lists its members. Adding an element to a graph is a local
// O(1) mutation.
package model

import (
	"github.com/sanonone/epgm/pkg/id"
	"github.com/sanonone/epgm/pkg/properties"
)

// Identifiable is anything carrying an immutable identifier.
type Identifiable interface {
	ID() id.ID
}

// Labeled is anything carrying a mutable label.
type Labeled interface {
	Label() string
	SetLabel(label string)
}

// PropertyBearing is anything carrying a mutable property map.
type PropertyBearing interface {
	Properties() *properties.Properties
	SetProperties(p *properties.Properties)
	PropertyValue(key string) (properties.Value, bool)
	SetProperty(key string, v properties.Value)
}

// GraphMember is anything that can belong to zero or more logical graphs.
type GraphMember interface {
	GraphIDs() *id.Set
	SetGraphIDs(ids *id.Set)
	AddGraphID(graphID id.ID)
}

// Element is the common shape of graph heads, vertices and edges.
type Element interface {
	Identifiable
	Labeled
	PropertyBearing
}

// GraphElement is an element that can be a member of logical graphs.
type GraphElement interface {
	Element
	GraphMember
}

// GraphHead describes a logical graph. It is never a member of another graph.
type GraphHead interface {
	Element
}

// Vertex is a node of the graph.
type Vertex interface {
	GraphElement
}

// Edge is a directed relationship between two vertices. Source and target are
// opaque references; self loops are allowed.
type Edge interface {
	GraphElement
	SourceID() id.ID
	TargetID() id.ID
	SetSourceID(source id.ID)
	SetTargetID(target id.ID)
}
