package neoviz

import (
	"fmt"
	"math"

	"github.com/saulfrancisco-ruizacevedo/go-neoviz/models"
)

// MapRowsToGraph collapses query rows into a graph of unique nodes and edges.
//
// A node or relationship returned by several rows (or several columns of the same
// row) appears once; the first occurrence wins and output order is first-seen
// order. Scalars and incomplete values are skipped without error.
//
// Parameters:
//   - rows: The tagged rows produced by RowsFromRecords or RowFromMap.
//
// Returns:
//
//	A GraphResult whose Nodes and Edges are never nil.
func MapRowsToGraph(rows []Row) *models.GraphResult {
	graph := &models.GraphResult{
		Nodes: make([]models.GraphNode, 0),
		Edges: make([]models.GraphEdge, 0),
	}
	seenNodeIDs := make(map[int64]bool)
	seenEdgeIDs := make(map[int64]bool)

	for _, row := range rows {
		for _, value := range row.Values {
			switch value.Kind {
			case KindNode:
				n := value.Node
				if n == nil || seenNodeIDs[n.ID] {
					continue
				}
				graph.Nodes = append(graph.Nodes, toGraphNode(n))
				seenNodeIDs[n.ID] = true

			case KindRelationship:
				r := value.Rel
				if r == nil || seenEdgeIDs[r.ID] {
					continue
				}
				graph.Edges = append(graph.Edges, toGraphEdge(r))
				seenEdgeIDs[r.ID] = true
			}
		}
	}

	return graph
}

func toGraphNode(n *NodeValue) models.GraphNode {
	props := n.Properties
	if props == nil {
		props = map[string]any{}
	}
	labels := n.Labels
	if labels == nil {
		labels = []string{}
	}
	return models.GraphNode{
		ID:         n.ID,
		Label:      displayLabel(n.ID, props),
		AvatarURL:  avatarURL(props),
		Properties: props,
		Labels:     labels,
	}
}

func toGraphEdge(r *RelationshipValue) models.GraphEdge {
	props := r.Properties
	if props == nil {
		props = map[string]any{}
	}
	return models.GraphEdge{
		ID:         r.ID,
		From:       r.StartID,
		To:         r.EndID,
		Type:       r.Type,
		Properties: props,
	}
}

// displayLabel prefers the "name" property and falls back to "Node <id>" when the
// name is missing or falsy: empty, false, zero or NaN.
func displayLabel(id int64, props map[string]any) string {
	if name, ok := props["name"]; ok && !falsy(name) {
		if s, ok := name.(string); ok {
			return s
		}
		return fmt.Sprint(name)
	}
	return fmt.Sprintf("Node %d", id)
}

func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int64:
		return t == 0
	case int:
		return t == 0
	case float64:
		return t == 0 || math.IsNaN(t)
	}
	return false
}

func avatarURL(props map[string]any) string {
	if url, ok := props["avatar_url"].(string); ok {
		return url
	}
	return ""
}
