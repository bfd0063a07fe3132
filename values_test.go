package neoviz

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_DriverTypes(t *testing.T) {
	n := Classify(node(1, "Ana", "Person"))
	require.Len(t, n, 1)
	assert.Equal(t, KindNode, n[0].Kind)
	assert.Equal(t, int64(1), n[0].Node.ID)

	r := Classify(rel(9, 1, 2, "KNOWS"))
	require.Len(t, r, 1)
	assert.Equal(t, KindRelationship, r[0].Kind)
	assert.Equal(t, int64(1), r[0].Rel.StartID)
	assert.Equal(t, int64(2), r[0].Rel.EndID)

	assert.Equal(t, []Value{Scalar}, Classify("text"))
	assert.Equal(t, []Value{Scalar}, Classify(nil))
}

func TestClassify_PathExpandsNodesThenRelationships(t *testing.T) {
	path := neo4j.Path{
		Nodes:         []neo4j.Node{node(1, "a"), node(2, "b")},
		Relationships: []neo4j.Relationship{rel(5, 1, 2, "LINKS")},
	}

	values := Classify(path)

	require.Len(t, values, 3)
	assert.Equal(t, KindNode, values[0].Kind)
	assert.Equal(t, KindNode, values[1].Kind)
	assert.Equal(t, KindRelationship, values[2].Kind)
}

func TestClassify_ListsAreFlattened(t *testing.T) {
	values := Classify([]any{node(1, "a"), []any{node(2, "b"), "x"}})

	require.Len(t, values, 3)
	assert.Equal(t, KindNode, values[0].Kind)
	assert.Equal(t, KindNode, values[1].Kind)
	assert.Equal(t, KindScalar, values[2].Kind)
}

func TestClassify_DecodedJSONShapes(t *testing.T) {
	payload := `{
		"n": {"identity": 1, "labels": ["Person"], "properties": {"name": "Ana"}},
		"r": {"identity": 3, "type": "KNOWS", "start": 1, "end": 2, "properties": {}},
		"c": 12
	}`
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()
	var m map[string]any
	require.NoError(t, dec.Decode(&m))

	row := RowFromMap(m)

	assert.Equal(t, []string{"c", "n", "r"}, row.Keys)
	assert.Equal(t, KindScalar, row.Values[0].Kind)
	assert.Equal(t, KindNode, row.Values[1].Kind)
	assert.Equal(t, KindRelationship, row.Values[2].Kind)
	assert.Equal(t, int64(2), row.Values[2].Rel.EndID)
}

func TestClassify_FractionalIdentityIsScalar(t *testing.T) {
	values := Classify(map[string]any{"identity": 1.5, "labels": []any{}})
	assert.Equal(t, []Value{Scalar}, values)
}

func TestRowsFromRecords_KeepsColumnOrder(t *testing.T) {
	rows := RowsFromRecords([]*neo4j.Record{
		record([]string{"m", "n"}, node(2, "b"), node(1, "a")),
		nil,
	})

	require.Len(t, rows, 1)
	assert.Equal(t, []string{"m", "n"}, rows[0].Keys)
	assert.Equal(t, int64(2), rows[0].Values[0].Node.ID)
}

func TestValueKindString(t *testing.T) {
	assert.Equal(t, "node", KindNode.String())
	assert.Equal(t, "relationship", KindRelationship.String())
	assert.Equal(t, "scalar", KindScalar.String())
}
