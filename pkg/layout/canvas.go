package layout

import (
	"github.com/matzehuels/umlflow/pkg/dag"
)

// Canvas is the drawing area in pixels.
type Canvas struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// SizeCanvas computes the canvas needed for g and fixes the swimlane bands.
// The canvas never shrinks below cfg.CanvasWidth × cfg.CanvasHeight.
//
// Height is 2×MarginY + (layers-1)×LayerSpacing + the tallest node.
//
// Without swimlanes, width is the widest layer (node widths plus NodeSpacing
// between them) plus 2×MarginX. With swimlanes, each lane is as wide as its
// widest layer row (node widths plus LaneSpacing between them) plus
// 2×LanePadding, and at least MinLaneWidth; lanes are laid out left to right
// from MarginX, LaneGap apart. Nodes without a lane get a block of their own
// to the right of the last lane.
func SizeCanvas(g *dag.Graph, cfg Config) Canvas {
	canvas := Canvas{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight}

	tallest := 0.0
	for _, n := range g.Nodes() {
		tallest = max(tallest, n.Height)
	}
	if layers := g.LayerCount(); layers > 0 {
		h := 2*cfg.MarginY + float64(layers-1)*cfg.LayerSpacing + tallest
		canvas.Height = max(canvas.Height, h)
	}

	lanes := g.Lanes()
	if len(lanes) == 0 {
		widest := 0.0
		for _, layer := range g.Layers() {
			widest = max(widest, rowWidth(layer, cfg.NodeSpacing))
		}
		canvas.Width = max(canvas.Width, widest+2*cfg.MarginX)
		return canvas
	}

	x := cfg.MarginX
	for i, lane := range lanes {
		content := 0.0
		for _, layer := range g.Layers() {
			content = max(content, rowWidth(inLane(layer, lane.Name), cfg.LaneSpacing))
		}
		lane.XStart = x
		lane.Width = max(content+2*cfg.LanePadding, cfg.MinLaneWidth)
		x = lane.XEnd()
		if i < len(lanes)-1 {
			x += cfg.LaneGap
		}
	}

	unlaned := 0.0
	for _, layer := range g.Layers() {
		unlaned = max(unlaned, rowWidth(withoutLane(g, layer), cfg.NodeSpacing))
	}
	if unlaned > 0 {
		x += cfg.LaneGap + unlaned
	}

	canvas.Width = max(canvas.Width, x+cfg.MarginX)
	return canvas
}

// rowWidth is the width of nodes placed side by side with spacing between.
func rowWidth(nodes []*dag.Node, spacing float64) float64 {
	if len(nodes) == 0 {
		return 0
	}
	w := spacing * float64(len(nodes)-1)
	for _, n := range nodes {
		w += n.Width
	}
	return w
}

func inLane(layer []*dag.Node, lane string) []*dag.Node {
	var out []*dag.Node
	for _, n := range layer {
		if n.Swimlane == lane {
			out = append(out, n)
		}
	}
	return out
}

// withoutLane returns nodes whose swimlane is empty or unknown.
func withoutLane(g *dag.Graph, layer []*dag.Node) []*dag.Node {
	var out []*dag.Node
	for _, n := range layer {
		if _, ok := g.Lane(n.Swimlane); !ok {
			out = append(out, n)
		}
	}
	return out
}
