package layout

import (
	"math"

	"github.com/matzehuels/umlflow/pkg/dag"
	"github.com/matzehuels/umlflow/pkg/dag/transform"
)

// Grid quanta for Position.Column and Position.Row.
const (
	ColumnQuantum = 100
	RowQuantum    = 100
)

// Finish is the UML finishing pass. It re-pins start nodes to layer 0 and
// end nodes to the last layer, then exports the position map of all
// non-virtual nodes together with grid statistics.
//
// Re-pinning is a correction: after [transform.AssignLayers] it normally
// moves nothing. When it does move a node, empty layers are compacted, edges
// that now point up or sideways become loop-backs, edges stretched past one
// layer are subdivided, and canvas sizing and coordinates are recomputed, so
// the returned canvas may differ from the one passed in. The fourth return
// value is the number of nodes moved.
func Finish(g *dag.Graph, cfg Config, canvas Canvas) (map[string]Position, GridInfo, Canvas, int) {
	if moved := repin(g); moved > 0 {
		transform.Compact(g)
		transform.MarkBackward(g)
		transform.Subdivide(g)
		canvas = SizeCanvas(g, cfg)
		AssignCoordinates(g, cfg, canvas)
		positions, grid := Export(g, canvas)
		return positions, grid, canvas, moved
	}
	positions, grid := Export(g, canvas)
	return positions, grid, canvas, 0
}

func repin(g *dag.Graph) int {
	moved := 0
	for _, n := range g.Nodes() {
		if n.Kind == dag.KindStart && n.Layer != 0 {
			g.MoveToLayer(n, 0)
			moved++
		}
	}
	last := g.MaxLayer()
	for _, n := range g.Nodes() {
		if n.Kind == dag.KindEnd && n.Layer != last {
			g.MoveToLayer(n, last)
			moved++
		}
	}
	return moved
}

// Export converts node centers into top-left positions clamped to the
// canvas and computes grid statistics. Virtual nodes are skipped.
func Export(g *dag.Graph, canvas Canvas) (map[string]Position, GridInfo) {
	positions := make(map[string]Position, g.NodeCount())
	for _, n := range g.Nodes() {
		if n.Virtual {
			continue
		}
		positions[n.ID] = exportNode(n, canvas)
	}
	return positions, Grid(positions)
}

func exportNode(n *dag.Node, canvas Canvas) Position {
	w := int(math.Round(n.Width))
	h := int(math.Round(n.Height))
	x := clampInt(int(math.Round(n.X-n.Width/2)), 0, int(canvas.Width)-w)
	y := clampInt(int(math.Round(n.Y-n.Height/2)), 0, int(canvas.Height)-h)
	return Position{
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		Column: x / ColumnQuantum,
		Row:    y / RowQuantum,
		Layer:  n.Layer,
		Role:   string(n.Kind),
	}
}

// Grid counts distinct column and row buckets and measures the bounding box
// of positions.
func Grid(positions map[string]Position) GridInfo {
	if len(positions) == 0 {
		return GridInfo{}
	}
	cols := make(map[int]struct{})
	rows := make(map[int]struct{})
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	for _, p := range positions {
		cols[p.Column] = struct{}{}
		rows[p.Row] = struct{}{}
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X+p.Width)
		maxY = max(maxY, p.Y+p.Height)
	}
	return GridInfo{
		Columns: len(cols),
		Rows:    len(rows),
		Width:   maxX - minX,
		Height:  maxY - minY,
	}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
