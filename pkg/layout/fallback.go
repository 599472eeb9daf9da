package layout

import (
	"github.com/matzehuels/umlflow/pkg/dag"
	"github.com/matzehuels/umlflow/pkg/flow"
)

// Box size used by the fallback layout.
const (
	FallbackWidth  = 160
	FallbackHeight = 60
)

// Fallback returns the degenerate layout used when the layered pipeline
// fails: every element with a non-empty, not yet seen ID, in input order,
// gets a FallbackWidth × FallbackHeight box stacked vertically at X =
// MarginX. Element i sits in layer i. Boxes never overlap and the canvas
// grows to fit them.
//
// Fallback does not build a graph and cannot fail.
func Fallback(d flow.Diagram, cfg Config) *Result {
	cfg.SetDefaults()
	res := &Result{
		Positions: make(map[string]Position, len(d.Flow)),
		Layers:    [][]string{},
		Edges:     []EdgeInfo{},
		Fallback:  true,
	}

	x := int(cfg.MarginX)
	seen := make(map[string]bool, len(d.Flow))
	for _, el := range d.Flow {
		if el.ID == "" || seen[el.ID] {
			continue
		}
		seen[el.ID] = true

		i := len(res.Layers)
		y := int(cfg.MarginY) + i*(FallbackHeight+int(cfg.FallbackGap))
		res.Positions[el.ID] = Position{
			X:      x,
			Y:      y,
			Width:  FallbackWidth,
			Height: FallbackHeight,
			Column: x / ColumnQuantum,
			Row:    y / RowQuantum,
			Layer:  i,
			Role:   string(dag.Classify(el.Type, el.Text)),
		}
		res.Layers = append(res.Layers, []string{el.ID})
	}

	for _, c := range d.Connections() {
		if seen[c.SourceID] && seen[c.TargetID] {
			res.Edges = append(res.Edges, EdgeInfo{From: c.SourceID, To: c.TargetID, Label: c.Label})
		}
	}

	n := float64(len(res.Layers))
	res.Canvas = Canvas{
		Width:  max(cfg.CanvasWidth, 2*cfg.MarginX+FallbackWidth),
		Height: max(cfg.CanvasHeight, 2*cfg.MarginY+n*FallbackHeight+max(n-1, 0)*cfg.FallbackGap),
	}
	res.Grid = Grid(res.Positions)
	res.Stats = Stats{Nodes: len(res.Positions), Edges: len(res.Edges), Layers: len(res.Layers)}
	return res
}
