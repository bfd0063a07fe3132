// Package models contains the data transfer objects exchanged between the graph
// mapper, the edge decorator and the HTTP layer. The structs are shaped for
// direct JSON serialization to the browser client.
package models

// GraphNode represents a node from a Neo4j graph, reduced to what a renderer needs.
type GraphNode struct {
	// ID is the integer identity assigned by Neo4j to the node.
	ID int64 `json:"id" yaml:"id"`

	// Label is the display caption: the node's "name" property, or "Node <id>".
	Label string `json:"label" yaml:"label"`

	// AvatarURL is the optional image reference taken from the "avatar_url" property.
	AvatarURL string `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`

	// Properties is a map containing the key-value properties of the node.
	Properties map[string]any `json:"props" yaml:"props"`

	// Labels is a slice of strings containing all the labels attached to the node (e.g., ["Person"]).
	Labels []string `json:"labels" yaml:"labels"`
}

// GraphEdge represents a directed relationship between two nodes.
// Several edges may share the same unordered pair of endpoints.
type GraphEdge struct {
	// ID is the integer identity assigned by Neo4j to the relationship.
	ID int64 `json:"id" yaml:"id"`

	// From is the identity of the node where the relationship starts.
	From int64 `json:"from" yaml:"from"`

	// To is the identity of the node where the relationship ends.
	To int64 `json:"to" yaml:"to"`

	// Type is the relationship's type (e.g., "FRIEND_OF").
	Type string `json:"type" yaml:"type"`

	// Properties is a map containing the key-value properties of the relationship.
	Properties map[string]any `json:"props" yaml:"props"`
}

// GraphResult is a top-level container for a mapped query result.
type GraphResult struct {
	// Nodes contains all the unique nodes retrieved by the query, in first-seen order.
	Nodes []GraphNode `json:"nodes" yaml:"nodes"`

	// Edges contains all the unique relationships retrieved by the query, in first-seen order.
	Edges []GraphEdge `json:"edges" yaml:"edges"`
}

// Empty reports whether the result holds neither nodes nor edges.
func (g *GraphResult) Empty() bool {
	return g == nil || (len(g.Nodes) == 0 && len(g.Edges) == 0)
}

// CurveDirection tells on which side of the straight line an edge bows.
type CurveDirection string

const (
	Clockwise        CurveDirection = "clockwise"
	CounterClockwise CurveDirection = "counterclockwise"
)

// Curvature is a rendering hint: how far an edge's arc bows, and on which side.
type Curvature struct {
	Direction CurveDirection `json:"direction" yaml:"direction"`
	Amount    float64        `json:"amount" yaml:"amount"`
}

// RenderableEdge is a GraphEdge carrying its assigned curvature.
type RenderableEdge struct {
	GraphEdge `yaml:",inline"`

	Curvature Curvature `json:"curvature" yaml:"curvature"`
}
