// Package view turns a mapped graph into the payload consumed by vis-network in
// the browser. Display state such as the physics toggle is passed in through
// Options on every render.
package view

import (
	"bytes"
	"encoding/json"
	"html"
	"strings"

	"github.com/saulfrancisco-ruizacevedo/go-neoviz/models"
)

const DefaultNodeSize = 30

// Options is the display state of one graph view.
type Options struct {
	Physics  bool
	NodeSize int
}

// DefaultOptions returns physics on and the default node size.
func DefaultOptions() Options {
	return Options{Physics: true, NodeSize: DefaultNodeSize}
}

// Toggle returns a copy of o with physics flipped.
func (o Options) Toggle() Options {
	o.Physics = !o.Physics
	return o
}

// PhysicsButtonText is the caption of the control that flips physics.
func (o Options) PhysicsButtonText() string {
	if o.Physics {
		return "Disable physics"
	}
	return "Enable physics"
}

type Node struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Shape string `json:"shape"`
	Image string `json:"image,omitempty"`
	Size  int    `json:"size"`
	Title string `json:"title,omitempty"`
}

type Font struct {
	Align string `json:"align"`
}

type Smooth struct {
	Enabled   bool    `json:"enabled"`
	Type      string  `json:"type"`
	Roundness float64 `json:"roundness"`
}

type Edge struct {
	ID     int64  `json:"id"`
	From   int64  `json:"from"`
	To     int64  `json:"to"`
	Arrows string `json:"arrows"`
	Label  string `json:"label"`
	Font   Font   `json:"font"`
	Smooth Smooth `json:"smooth"`
}

type Interaction struct {
	Hover        bool `json:"hover"`
	TooltipDelay int  `json:"tooltipDelay"`
}

type Physics struct {
	Enabled       bool `json:"enabled"`
	Stabilization bool `json:"stabilization"`
}

type NodeOptions struct {
	BorderWidth int `json:"borderWidth"`
}

type EdgeOptions struct {
	Smooth struct {
		Type string `json:"type"`
	} `json:"smooth"`
}

type NetworkOptions struct {
	Interaction Interaction `json:"interaction"`
	Physics     Physics     `json:"physics"`
	Nodes       NodeOptions `json:"nodes"`
	Edges       EdgeOptions `json:"edges"`
}

// Network is everything the browser needs to draw a graph.
type Network struct {
	Nodes   []Node         `json:"nodes"`
	Edges   []Edge         `json:"edges"`
	Options NetworkOptions `json:"options"`
	// Empty is set when there is nothing to draw, so the client can show a message instead.
	Empty bool `json:"empty"`
}

// Render builds the vis-network payload for graph, whose edges have already been
// decorated.
func Render(graph *models.GraphResult, edges []models.RenderableEdge, opts Options) Network {
	if opts.NodeSize <= 0 {
		opts.NodeSize = DefaultNodeSize
	}

	net := Network{
		Nodes:   make([]Node, 0),
		Edges:   make([]Edge, 0, len(edges)),
		Options: networkOptions(opts),
	}
	if graph != nil {
		for _, n := range graph.Nodes {
			net.Nodes = append(net.Nodes, renderNode(n, opts))
		}
	}
	for _, e := range edges {
		net.Edges = append(net.Edges, renderEdge(e))
	}
	net.Empty = len(net.Nodes) == 0 && len(net.Edges) == 0
	return net
}

func renderNode(n models.GraphNode, opts Options) Node {
	out := Node{
		ID:    n.ID,
		Label: n.Label,
		Shape: "dot",
		Size:  opts.NodeSize,
		Title: tooltip(n),
	}
	if n.AvatarURL != "" {
		out.Shape = "circularImage"
		out.Image = n.AvatarURL
	}
	return out
}

func renderEdge(e models.RenderableEdge) Edge {
	smoothType := "curvedCW"
	if e.Curvature.Direction == models.CounterClockwise {
		smoothType = "curvedCCW"
	}
	return Edge{
		ID:     e.ID,
		From:   e.From,
		To:     e.To,
		Arrows: "to",
		Label:  e.Type,
		Font:   Font{Align: "horizontal"},
		Smooth: Smooth{Enabled: true, Type: smoothType, Roundness: e.Curvature.Amount},
	}
}

// tooltip lists the node labels followed by its escaped properties.
func tooltip(n models.GraphNode) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	props := "{}"
	if n.Properties != nil && enc.Encode(n.Properties) == nil {
		props = strings.TrimSpace(buf.String())
	}
	return "Labels: " + html.EscapeString(strings.Join(n.Labels, ", ")) + "<br>" + html.EscapeString(props)
}

func networkOptions(opts Options) NetworkOptions {
	no := NetworkOptions{
		Interaction: Interaction{Hover: true, TooltipDelay: 120},
		Physics:     Physics{Enabled: opts.Physics, Stabilization: true},
		Nodes:       NodeOptions{BorderWidth: 1},
	}
	no.Edges.Smooth.Type = "dynamic"
	return no
}
