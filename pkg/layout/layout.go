// Package layout positions a dependency subgraph on a 2-D canvas.
//
// Packages are grouped into topological layers (see depgraph), each layer
// gets a fixed horizontal offset, and nodes stack vertically within their
// layer in lexicographic order. Edges run as straight segments from the
// right edge of the source box to the left edge of the destination box,
// capped with a small arrowhead. The output depends only on the input node
// and edge sets, so identical scans produce identical layouts.
package layout

import (
	"math"

	"github.com/colcontools/wsman/pkg/depgraph"
)

// Default geometry, in scene units.
const (
	DefaultLayerSpacing = 240 // horizontal distance between layers
	DefaultNodeSpacing  = 80  // vertical distance between nodes in a layer
	DefaultNodeWidth    = 140
	DefaultNodeHeight   = 36
	DefaultArrowSize    = 8
)

// Point is a 2-D position.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Rect is an axis-aligned node box.
type Rect struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point { return Point{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// Node is a positioned package box.
type Node struct {
	ID    string `json:"id" bson:"id"`
	Layer int    `json:"layer" bson:"layer"`
	Box   Rect   `json:"box" bson:"box"`
}

// EdgeSegment is a rendered dependency edge: a straight line plus an
// arrowhead triangle at the destination. Arrow is empty for degenerate
// edges whose anchor points coincide.
type EdgeSegment struct {
	From  string  `json:"from" bson:"from"`
	To    string  `json:"to" bson:"to"`
	Start Point   `json:"start" bson:"start"`
	End   Point   `json:"end" bson:"end"`
	Arrow []Point `json:"arrow,omitempty" bson:"arrow,omitempty"`
}

// Layout is the positioned form of a dependency subgraph.
type Layout struct {
	Nodes  map[string]Node `json:"nodes" bson:"nodes"`
	Layers [][]string      `json:"layers" bson:"layers"`
	Edges  []EdgeSegment   `json:"edges" bson:"edges"`
}

// Options configures layout geometry. The zero value is replaced by the
// package defaults.
type Options struct {
	LayerSpacing float64
	NodeSpacing  float64
	NodeWidth    float64
	NodeHeight   float64
	ArrowSize    float64
}

func (o *Options) setDefaults() {
	if o.LayerSpacing == 0 {
		o.LayerSpacing = DefaultLayerSpacing
	}
	if o.NodeSpacing == 0 {
		o.NodeSpacing = DefaultNodeSpacing
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = DefaultNodeHeight
	}
	if o.ArrowSize == 0 {
		o.ArrowSize = DefaultArrowSize
	}
}

// Compute lays out the subgraph induced by nodes.
func Compute(g *depgraph.Graph, nodes map[string]bool, opts Options) Layout {
	opts.setDefaults()

	layers := g.TopologicalLayers(nodes)
	out := Layout{
		Nodes:  make(map[string]Node, len(nodes)),
		Layers: layers,
	}

	for i, layer := range layers {
		for j, id := range layer {
			out.Nodes[id] = Node{
				ID:    id,
				Layer: i,
				Box: Rect{
					X: float64(i) * opts.LayerSpacing,
					Y: float64(j) * opts.NodeSpacing,
					W: opts.NodeWidth,
					H: opts.NodeHeight,
				},
			}
		}
	}

	for _, e := range g.InducedEdges(nodes) {
		src, okS := out.Nodes[e.From]
		dst, okD := out.Nodes[e.To]
		if !okS || !okD {
			continue
		}
		start := Point{X: src.Box.X + src.Box.W, Y: src.Box.Center().Y}
		end := Point{X: dst.Box.X, Y: dst.Box.Center().Y}
		out.Edges = append(out.Edges, EdgeSegment{
			From:  e.From,
			To:    e.To,
			Start: start,
			End:   end,
			Arrow: arrowhead(start, end, opts.ArrowSize),
		})
	}

	return out
}

// arrowhead builds the triangle polygon pointing along start→end at the
// end anchor. A zero-length edge has no direction, so no arrowhead.
func arrowhead(start, end Point, size float64) []Point {
	dx := end.X - start.X
	dy := end.Y - start.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil
	}
	ux, uy := dx/length, dy/length

	return []Point{
		end,
		{X: end.X - ux*size - uy*size/2, Y: end.Y - uy*size + ux*size/2},
		{X: end.X - ux*size + uy*size/2, Y: end.Y - uy*size - ux*size/2},
	}
}

// Bounds returns the bounding box of all node rectangles, with the given
// margin applied on every side. An empty layout yields a zero rect.
func (l Layout) Bounds(margin float64) Rect {
	if len(l.Nodes) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range l.Nodes {
		minX = math.Min(minX, n.Box.X)
		minY = math.Min(minY, n.Box.Y)
		maxX = math.Max(maxX, n.Box.X+n.Box.W)
		maxY = math.Max(maxY, n.Box.Y+n.Box.H)
	}
	return Rect{
		X: minX - margin,
		Y: minY - margin,
		W: maxX - minX + 2*margin,
		H: maxY - minY + 2*margin,
	}
}
