package transform

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlflow/pkg/dag"
)

// minSafetyLimit is the lower bound for the BFS processed-node counter.
const minSafetyLimit = 10000

// Report summarizes what layering and subdivision did to a graph.
type Report struct {
	Starts    []string // IDs of the selected start set, in registry order
	Unreached []string // IDs given trailing layers because no start reaches them
	LoopBacks int      // edges flagged as loop-backs
	Layers    int      // layer count after compaction
	Virtual   int      // virtual nodes inserted by Subdivide
}

// AssignLayers ranks every node of g into a layer and installs the layer
// sequences.
//
// # Algorithm
//
//  1. Pick the start set: explicit start actions, else start nodes by role,
//     else nodes without predecessors (branch tails and notes excluded),
//     else the first node with a warning.
//  2. Every other start-role node joins the start set as an extra seed, so
//     all start markers share layer 0. Flag loop-back edges (edges into a
//     seed, and DFS back edges) so they never drive ranking.
//  3. Multi-source BFS from layer 0. A successor is scheduled at L+1 and
//     re-enqueued whenever that raises its layer, so layers only grow and
//     every forward edge ends up pointing strictly downward.
//  4. Unreached nodes get consecutive layers after the deepest one.
//  5. End nodes move to one layer below the deepest non-end node.
//  6. Edges that still point up or sideways are flagged as loop-backs.
//  7. Empty layers are compacted away.
//
// The BFS is bounded by a processed-node counter as a safety net; with
// back edges removed it terminates on its own.
//
// Existing layer assignments are overwritten. A nil logger discards
// diagnostics.
func AssignLayers(g *dag.Graph, logger *log.Logger) Report {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	nodes := g.Nodes()
	if len(nodes) == 0 {
		g.SetLayers(nil)
		return Report{}
	}

	starts := selectStarts(g, logger)
	report := Report{Starts: dag.NodeIDs(starts)}
	seeds := withStartRoles(nodes, starts)
	report.LoopBacks = markEdgesIntoStarts(g, seeds) + MarkLoopBacks(g, seeds)

	layer := rankFrom(g, seeds, len(nodes), logger)

	maxLayer := 0
	for _, l := range layer {
		maxLayer = max(maxLayer, l)
	}
	for _, n := range nodes {
		if _, ok := layer[n.ID]; ok {
			continue
		}
		maxLayer++
		layer[n.ID] = maxLayer
		report.Unreached = append(report.Unreached, n.ID)
		logger.Warn("node not reachable from any start node", "node", n.ID, "layer", maxLayer)
	}

	forceEndsLast(nodes, layer)

	size := 0
	for _, l := range layer {
		size = max(size, l+1)
	}
	layers := make([][]*dag.Node, size)
	for _, n := range nodes {
		layers[layer[n.ID]] = append(layers[layer[n.ID]], n)
	}
	g.SetLayers(layers)
	report.LoopBacks += MarkBackward(g)

	if removed := Compact(g); removed > 0 {
		logger.Debug("compacted empty layers", "removed", removed)
	}
	report.Layers = g.LayerCount()

	logger.Debug("assigned layers",
		"nodes", len(nodes),
		"layers", report.Layers,
		"starts", report.Starts,
		"loop_backs", report.LoopBacks)
	return report
}

// selectStarts returns the start set by priority.
func selectStarts(g *dag.Graph, logger *log.Logger) []*dag.Node {
	nodes := g.Nodes()
	pick := func(keep func(*dag.Node) bool) []*dag.Node {
		var out []*dag.Node
		for _, n := range nodes {
			if keep(n) {
				out = append(out, n)
			}
		}
		return out
	}

	if s := pick(func(n *dag.Node) bool { return n.Kind == dag.KindStart && n.ExplicitStart }); len(s) > 0 {
		return s
	}
	if s := pick(func(n *dag.Node) bool { return n.Kind == dag.KindStart }); len(s) > 0 {
		return s
	}
	if s := pick(func(n *dag.Node) bool {
		return len(g.Parents(n.ID)) == 0 && n.Kind.IsEntryCandidate()
	}); len(s) > 0 {
		return s
	}

	logger.Warn("no start node found, seeding layering from first node", "node", nodes[0].ID)
	return nodes[:1]
}

// withStartRoles appends the start-role nodes missing from starts, in
// registry order.
func withStartRoles(nodes, starts []*dag.Node) []*dag.Node {
	seeds := slices.Clone(starts)
	for _, n := range nodes {
		if n.Kind == dag.KindStart && !slices.Contains(starts, n) {
			seeds = append(seeds, n)
		}
	}
	return seeds
}

// rankFrom runs the multi-source BFS and returns the layer of every reached
// node.
func rankFrom(g *dag.Graph, starts []*dag.Node, nodeCount int, logger *log.Logger) map[string]int {
	layer := make(map[string]int, nodeCount)
	queue := make([]string, 0, nodeCount)
	for _, s := range starts {
		layer[s.ID] = 0
		queue = append(queue, s.ID)
	}

	limit := max(nodeCount*nodeCount, minSafetyLimit)
	processed := 0
	for len(queue) > 0 {
		if processed >= limit {
			logger.Warn("layering stopped at safety limit", "processed", processed)
			break
		}
		processed++

		curr := queue[0]
		queue = queue[1:]

		next := layer[curr] + 1
		for _, child := range g.ForwardChildren(curr) {
			if l, seen := layer[child]; seen && l >= next {
				continue
			}
			layer[child] = next
			queue = append(queue, child)
		}
	}
	return layer
}

// forceEndsLast puts every end node one layer below the deepest non-end
// node, so end markers close the diagram on a row of their own.
func forceEndsLast(nodes []*dag.Node, layer map[string]int) {
	deepest := -1
	for _, n := range nodes {
		if n.Kind != dag.KindEnd {
			deepest = max(deepest, layer[n.ID])
		}
	}
	for _, n := range nodes {
		if n.Kind == dag.KindEnd {
			layer[n.ID] = deepest + 1
		}
	}
}

func markEdgesIntoStarts(g *dag.Graph, starts []*dag.Node) int {
	isStart := make(map[string]bool, len(starts))
	for _, s := range starts {
		isStart[s.ID] = true
	}
	marked := 0
	for _, e := range g.Edges() {
		if !e.LoopBack && isStart[e.To] {
			e.LoopBack = true
			marked++
		}
	}
	return marked
}

// MarkBackward flags forward edges whose target is not strictly below the
// source and returns how many it flagged. Layers must be installed.
func MarkBackward(g *dag.Graph) int {
	marked := 0
	for _, e := range g.Edges() {
		if e.LoopBack {
			continue
		}
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		if to.Layer <= from.Layer {
			e.LoopBack = true
			marked++
		}
	}
	return marked
}

// Compact removes empty layer sequences and renumbers the rest, keeping
// node.Layer consistent with the new indices. It returns the number of
// layers removed.
func Compact(g *dag.Graph) int {
	layers := g.Layers()
	kept := layers[:0]
	for _, l := range layers {
		if len(l) > 0 {
			kept = append(kept, l)
		}
	}
	removed := len(layers) - len(kept)
	g.SetLayers(kept)
	return removed
}
