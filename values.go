package neoviz

import (
	"encoding/json"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ValueKind tags what a single result column holds.
type ValueKind int

const (
	KindScalar ValueKind = iota
	KindNode
	KindRelationship
)

func (k ValueKind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindRelationship:
		return "relationship"
	default:
		return "scalar"
	}
}

// NodeValue is a node as returned by a graph query.
type NodeValue struct {
	ID         int64
	Labels     []string
	Properties map[string]any
}

// RelationshipValue is a relationship as returned by a graph query.
type RelationshipValue struct {
	ID         int64
	Type       string
	StartID    int64
	EndID      int64
	Properties map[string]any
}

// Value is a tagged union over the shapes a result column can take. Exactly one
// of Node or Rel is set, matching Kind; scalars carry neither.
type Value struct {
	Kind ValueKind
	Node *NodeValue
	Rel  *RelationshipValue
}

// Row is one result record with its columns kept in query order.
type Row struct {
	Keys   []string
	Values []Value
}

// NodeOf wraps a node in a Value.
func NodeOf(n NodeValue) Value { return Value{Kind: KindNode, Node: &n} }

// RelationshipOf wraps a relationship in a Value.
func RelationshipOf(r RelationshipValue) Value { return Value{Kind: KindRelationship, Rel: &r} }

// Scalar is the Value of anything that is neither a node nor a relationship.
var Scalar = Value{Kind: KindScalar}

// RowsFromRecords converts driver records into rows. Each column is classified
// exactly once here, so nothing downstream inspects raw driver types.
func RowsFromRecords(records []*neo4j.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		row := Row{}
		for i, raw := range rec.Values {
			key := ""
			if i < len(rec.Keys) {
				key = rec.Keys[i]
			}
			for _, v := range Classify(raw) {
				row.Keys = append(row.Keys, key)
				row.Values = append(row.Values, v)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// RowFromMap builds a row from a column->value mapping, such as a decoded JSON
// record. Columns are ordered by name so the result is deterministic.
func RowFromMap(m map[string]any) Row {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	row := Row{}
	for _, k := range keys {
		for _, v := range Classify(m[k]) {
			row.Keys = append(row.Keys, k)
			row.Values = append(row.Values, v)
		}
	}
	return row
}

// Classify resolves a raw column value into one or more tagged values.
//
// Driver nodes and relationships map one to one. A path expands into its nodes
// followed by its relationships, and lists are flattened. Plain maps are
// accepted in the serialized shape {identity, labels, properties} for nodes and
// {identity, type, start, end, properties} for relationships. Anything else,
// including maps missing one of those fields, is a scalar.
func Classify(raw any) []Value {
	switch v := raw.(type) {
	case nil:
		return []Value{Scalar}
	case neo4j.Node:
		return []Value{NodeOf(NodeValue{ID: v.Id, Labels: v.Labels, Properties: v.Props})}
	case *neo4j.Node:
		if v == nil {
			return []Value{Scalar}
		}
		return Classify(*v)
	case neo4j.Relationship:
		return []Value{RelationshipOf(RelationshipValue{
			ID:         v.Id,
			Type:       v.Type,
			StartID:    v.StartId,
			EndID:      v.EndId,
			Properties: v.Props,
		})}
	case *neo4j.Relationship:
		if v == nil {
			return []Value{Scalar}
		}
		return Classify(*v)
	case neo4j.Path:
		out := make([]Value, 0, len(v.Nodes)+len(v.Relationships))
		for _, n := range v.Nodes {
			out = append(out, Classify(n)...)
		}
		for _, r := range v.Relationships {
			out = append(out, Classify(r)...)
		}
		return out
	case []any:
		out := make([]Value, 0, len(v))
		for _, item := range v {
			out = append(out, Classify(item)...)
		}
		return out
	case map[string]any:
		return []Value{classifyMap(v)}
	default:
		return []Value{Scalar}
	}
}

func classifyMap(m map[string]any) Value {
	id, ok := toInt64(m["identity"])
	if !ok {
		return Scalar
	}
	props, _ := m["properties"].(map[string]any)

	if rawLabels, ok := m["labels"]; ok {
		labels, ok := toStrings(rawLabels)
		if !ok {
			return Scalar
		}
		return NodeOf(NodeValue{ID: id, Labels: labels, Properties: props})
	}

	typ, okType := m["type"].(string)
	start, okStart := toInt64(m["start"])
	end, okEnd := toInt64(m["end"])
	if okType && okStart && okEnd {
		return RelationshipOf(RelationshipValue{
			ID:         id,
			Type:       typ,
			StartID:    start,
			EndID:      end,
			Properties: props,
		})
	}
	return Scalar
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

func toStrings(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return s, true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}
