package transform

import "github.com/matzehuels/umlflow/pkg/dag"

// MarkLoopBacks flags every DFS back edge of g as a loop-back and returns how
// many edges it flagged. The search starts from starts, then from any node
// left unvisited, so every cycle is broken exactly once. Self loops are back
// edges.
//
// Loop-back edges stay in the graph and are exported with the layout, but
// [dag.Graph.ForwardChildren] and [dag.Graph.ForwardParents] skip them, so
// they never influence ranking or ordering. Edges already flagged are not
// traversed.
func MarkLoopBacks(g *dag.Graph, starts []*dag.Node) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, g.NodeCount())
	var backEdges []*dag.Edge

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, e := range g.EdgesFrom(node) {
			if e.LoopBack {
				continue
			}
			switch color[e.To] {
			case white:
				dfs(e.To)
			case gray:
				backEdges = append(backEdges, e)
			}
		}
		color[node] = black
	}

	for _, n := range starts {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range backEdges {
		e.LoopBack = true
	}
	return len(backEdges)
}
