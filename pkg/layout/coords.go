package layout

import (
	"github.com/matzehuels/umlflow/pkg/dag"
)

// AssignCoordinates sets the center (X, Y) of every node, virtual nodes
// included. [SizeCanvas] must have run first so lane bands are fixed.
//
// Y is MarginY + layer×LayerSpacing. Without swimlanes each layer is packed
// with NodeSpacing and centered on the canvas. With swimlanes each layer is
// split by lane and every group is packed with LaneSpacing and centered in
// its band; nodes without a lane are packed to the right of the last lane.
// A final pass clamps every laned node inside its band.
func AssignCoordinates(g *dag.Graph, cfg Config, canvas Canvas) {
	for i, layer := range g.Layers() {
		y := cfg.MarginY + float64(i)*cfg.LayerSpacing
		for _, n := range layer {
			n.Y = y
		}
	}

	lanes := g.Lanes()
	if len(lanes) == 0 {
		for _, layer := range g.Layers() {
			distribute(layer, cfg.MarginX, canvas.Width-cfg.MarginX, cfg.NodeSpacing, cfg.MinNodeSpacing)
		}
		return
	}

	right := lanes[len(lanes)-1].XEnd() + cfg.LaneGap
	for _, layer := range g.Layers() {
		for _, lane := range lanes {
			distribute(inLane(layer, lane.Name), lane.XStart+cfg.LaneMargin, lane.XEnd()-cfg.LaneMargin, cfg.LaneSpacing, cfg.MinNodeSpacing)
		}
		pack(withoutLane(g, layer), right, cfg.NodeSpacing)
	}

	clampToLanes(g, cfg)
}

// distribute centers nodes side by side in [lo, hi]. A single node sits on
// the midpoint. If the row overflows, spacing shrinks toward minSpacing.
func distribute(nodes []*dag.Node, lo, hi, spacing, minSpacing float64) {
	switch len(nodes) {
	case 0:
		return
	case 1:
		nodes[0].X = (lo + hi) / 2
		return
	}

	usable := hi - lo
	content := rowWidth(nodes, 0)
	gaps := float64(len(nodes) - 1)
	if content+spacing*gaps > usable {
		spacing = max(minSpacing, min(spacing, (usable-content)/gaps))
	}
	total := content + spacing*gaps
	pack(nodes, lo+(usable-total)/2, spacing)
}

// pack places nodes left to right starting at x.
func pack(nodes []*dag.Node, x, spacing float64) {
	for _, n := range nodes {
		n.X = x + n.Width/2
		x += n.Width + spacing
	}
}

// clampToLanes keeps every laned node inside [XStart+LaneMargin,
// XEnd-LaneMargin]. A node wider than that space is centered on the band.
func clampToLanes(g *dag.Graph, cfg Config) {
	for _, n := range g.Nodes() {
		lane, ok := g.Lane(n.Swimlane)
		if !ok {
			continue
		}
		lo := lane.XStart + cfg.LaneMargin + n.Width/2
		hi := lane.XEnd() - cfg.LaneMargin - n.Width/2
		if lo > hi {
			n.X = lane.XStart + lane.Width/2
			continue
		}
		n.X = min(max(n.X, lo), hi)
	}
}
