package view

import (
	"encoding/json"
	"testing"

	"github.com/saulfrancisco-ruizacevedo/go-neoviz"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *models.GraphResult {
	return &models.GraphResult{
		Nodes: []models.GraphNode{
			{ID: 1, Label: "Ana", Labels: []string{"Person"}, Properties: map[string]any{"name": "<Ana>"}},
			{ID: 2, Label: "Bo", AvatarURL: "/uploads/bo.png", Labels: []string{"Person", "Admin"}, Properties: map[string]any{}},
		},
		Edges: []models.GraphEdge{
			{ID: 10, From: 1, To: 2, Type: "FRIEND_OF"},
			{ID: 11, From: 2, To: 1, Type: "FRIEND_OF"},
		},
	}
}

func TestRender(t *testing.T) {
	g := sampleGraph()

	net := Render(g, neoviz.DecorateEdges(g.Edges), DefaultOptions())

	require.Len(t, net.Nodes, 2)
	assert.Equal(t, "dot", net.Nodes[0].Shape)
	assert.Empty(t, net.Nodes[0].Image)
	assert.Equal(t, DefaultNodeSize, net.Nodes[0].Size)
	assert.Equal(t, "circularImage", net.Nodes[1].Shape)
	assert.Equal(t, "/uploads/bo.png", net.Nodes[1].Image)

	require.Len(t, net.Edges, 2)
	assert.Equal(t, "curvedCW", net.Edges[0].Smooth.Type)
	assert.Equal(t, "curvedCCW", net.Edges[1].Smooth.Type)
	assert.Equal(t, "to", net.Edges[0].Arrows)
	assert.Equal(t, "FRIEND_OF", net.Edges[0].Label)
	assert.Equal(t, "horizontal", net.Edges[0].Font.Align)
	assert.True(t, net.Edges[0].Smooth.Enabled)
	assert.InDelta(t, 0.15, net.Edges[1].Smooth.Roundness, 1e-9)

	assert.True(t, net.Options.Physics.Enabled)
	assert.True(t, net.Options.Interaction.Hover)
	assert.Equal(t, 120, net.Options.Interaction.TooltipDelay)
	assert.False(t, net.Empty)
}

func TestRender_TooltipEscapesProperties(t *testing.T) {
	net := Render(sampleGraph(), nil, DefaultOptions())

	assert.Equal(t, `Labels: Person<br>{&#34;name&#34;:&#34;&lt;Ana&gt;&#34;}`, net.Nodes[0].Title)
	assert.NotContains(t, net.Nodes[0].Title, "<Ana>")
	assert.Equal(t, "Labels: Person, Admin<br>{}", net.Nodes[1].Title)
}

func TestRender_Empty(t *testing.T) {
	net := Render(&models.GraphResult{}, nil, DefaultOptions())
	assert.True(t, net.Empty)
	assert.NotNil(t, net.Nodes)
	assert.NotNil(t, net.Edges)

	assert.True(t, Render(nil, nil, Options{}).Empty)
}

func TestOptions_Toggle(t *testing.T) {
	on := DefaultOptions()
	off := on.Toggle()

	assert.True(t, on.Physics, "toggle returns a copy")
	assert.False(t, off.Physics)
	assert.Equal(t, "Disable physics", on.PhysicsButtonText())
	assert.Equal(t, "Enable physics", off.PhysicsButtonText())

	net := Render(sampleGraph(), nil, off)
	assert.False(t, net.Options.Physics.Enabled)
}

func TestNetwork_JSONShape(t *testing.T) {
	g := sampleGraph()
	data, err := json.Marshal(Render(g, neoviz.DecorateEdges(g.Edges), DefaultOptions()))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	opts := raw["options"].(map[string]any)
	assert.Equal(t, "dynamic", opts["edges"].(map[string]any)["smooth"].(map[string]any)["type"])
	edges := raw["edges"].([]any)
	assert.Contains(t, edges[0].(map[string]any), "smooth")
}
