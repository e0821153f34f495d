// Package render turns a positioned dependency graph into a drawable
// scene and renders it as DOT, SVG, PNG, or JSON.
package render

import (
	"sort"

	"github.com/colcontools/wsman/pkg/depgraph"
	"github.com/colcontools/wsman/pkg/highlight"
	"github.com/colcontools/wsman/pkg/layout"
)

// State is the visual state of a scene element.
type State string

const (
	// StateNeutral is an unselected, unhighlighted package.
	StateNeutral State = "neutral"
	// StateSelected is a package in the current selection set.
	StateSelected State = "selected"
	// StateFocused is the package under focus.
	StateFocused State = "focused"
	// StateIncoming is a direct dependent of the focused package.
	StateIncoming State = "incoming"
	// StateOutgoing is a direct dependency of the focused package.
	StateOutgoing State = "outgoing"
)

// Node is a positioned package with its resolved visual state.
type Node struct {
	layout.Node
	State State `json:"state" bson:"state"`
}

// Edge is a positioned dependency edge with its resolved visual state.
type Edge struct {
	layout.EdgeSegment
	State State `json:"state" bson:"state"`
}

// Scene is everything needed to draw the graph: positioned nodes and
// edges with visual states, the layer assignment, and the canvas bounds.
type Scene struct {
	Theme  string      `json:"theme" bson:"theme"`
	Nodes  []Node      `json:"nodes" bson:"nodes"`
	Edges  []Edge      `json:"edges" bson:"edges"`
	Layers [][]string  `json:"layers" bson:"layers"`
	Bounds layout.Rect `json:"bounds" bson:"bounds"`
}

// SceneMargin is the canvas padding around the outermost nodes.
const SceneMargin = 40.0

// Compose builds a scene from a computed layout. selected marks
// packages in the current selection set, focused names the package under
// focus (may be empty). Focus highlighting takes precedence over
// selection coloring, selection over neutral.
func Compose(lay layout.Layout, selected map[string]bool, focused, theme string) *Scene {
	inScene := make(map[string]bool, len(lay.Nodes))
	for id := range lay.Nodes {
		inScene[id] = true
	}

	rawEdges := make([]depgraph.Edge, len(lay.Edges))
	for i, e := range lay.Edges {
		rawEdges[i] = depgraph.Edge{From: e.From, To: e.To}
	}
	tags := highlight.Classify(focused, inScene, rawEdges)

	scene := &Scene{
		Theme:  theme,
		Layers: lay.Layers,
		Bounds: lay.Bounds(SceneMargin),
	}

	for id, n := range lay.Nodes {
		state := StateNeutral
		switch tags[id] {
		case highlight.TagFocused:
			state = StateFocused
		case highlight.TagIncoming:
			state = StateIncoming
		case highlight.TagOutgoing:
			state = StateOutgoing
		default:
			if selected[id] {
				state = StateSelected
			}
		}
		scene.Nodes = append(scene.Nodes, Node{Node: n, State: state})
	}
	sort.Slice(scene.Nodes, func(i, j int) bool {
		return scene.Nodes[i].ID < scene.Nodes[j].ID
	})

	for _, e := range lay.Edges {
		state := StateNeutral
		switch highlight.EdgeTag(focused, depgraph.Edge{From: e.From, To: e.To}) {
		case highlight.TagIncoming:
			state = StateIncoming
		case highlight.TagOutgoing:
			state = StateOutgoing
		}
		scene.Edges = append(scene.Edges, Edge{EdgeSegment: e, State: state})
	}

	return scene
}
