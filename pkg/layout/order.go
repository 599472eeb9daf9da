package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/umlflow/pkg/dag"
)

// OrderStats reports what crossing reduction did.
type OrderStats struct {
	Iterations      int
	CrossingsBefore int
	CrossingsAfter  int
}

// OrderLayers reorders nodes within each layer to reduce edge crossings
// using the barycenter heuristic.
//
// Each iteration is a downward sweep (layers 1..N-1, keyed on predecessors)
// followed by an upward sweep (layers N-2..0, keyed on successors). A node's
// barycenter is the mean Pos of its neighbors in the fixed layer, or its own
// Pos when it has none. Layers are sorted stably, so ties keep their current
// order and the result is deterministic for identical input.
//
// Iteration stops after maxIterations or as soon as an iteration moves no
// node. The heuristic does not guarantee a crossing minimum (the problem is
// NP-hard); crossings before and after are reported for diagnostics.
func OrderLayers(g *dag.Graph, maxIterations int) OrderStats {
	stats := OrderStats{CrossingsBefore: dag.CountCrossings(g)}
	n := g.LayerCount()

	for it := 0; it < maxIterations; it++ {
		stats.Iterations++
		changed := false
		for i := 1; i < n; i++ {
			if sweep(g, i, g.ForwardParents) {
				changed = true
			}
		}
		for i := n - 2; i >= 0; i-- {
			if sweep(g, i, g.ForwardChildren) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	stats.CrossingsAfter = dag.CountCrossings(g)
	return stats
}

// sweep sorts layer i by barycenter over neighbors and reports whether any
// node moved.
func sweep(g *dag.Graph, i int, neighbors func(string) []string) bool {
	layer := g.Layer(i)
	for _, n := range layer {
		n.Barycenter = barycenter(g, n, neighbors(n.ID))
	}

	order := slices.Clone(layer)
	slices.SortStableFunc(order, func(a, b *dag.Node) int {
		return cmp.Compare(a.Barycenter, b.Barycenter)
	})

	changed := false
	for pos, n := range order {
		if n.Pos != pos {
			changed = true
			break
		}
	}
	g.SetLayerOrder(i, order)
	return changed
}

func barycenter(g *dag.Graph, n *dag.Node, ids []string) float64 {
	if len(ids) == 0 {
		return float64(n.Pos)
	}
	sum := 0.0
	for _, id := range ids {
		m, _ := g.Node(id)
		sum += float64(m.Pos)
	}
	return sum / float64(len(ids))
}
