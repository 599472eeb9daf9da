package transform

import (
	"fmt"

	"github.com/matzehuels/umlflow/pkg/dag"
)

// Subdivide breaks forward edges that span more than one layer into chains of
// single-layer hops connected by virtual nodes, and returns the number of
// virtual nodes created.
//
//	Before: decide (layer 1) → merge (layer 4)
//	After:  decide → decide~merge~2 → decide~merge~3 → merge
//
// Virtual nodes are [dag.KindVirtual], sized 10×10, inherit the swimlane of
// the edge source and are appended to the end of their layer. Loop-back edges
// are left alone.
//
// # Node IDs
//
// Virtual node IDs have the form "from~to~layer". If an ID is already taken a
// numeric suffix is appended ("a~b~2__1"). All generated IDs are tracked to
// guarantee uniqueness.
//
// # Edge Labels
//
// The label of the original edge is kept only on the final hop, the one
// entering the original target. All hops are flagged Virtual.
//
// Subdivide requires layers to be assigned (see [AssignLayers]).
func Subdivide(g *dag.Graph) int {
	gen := newIDGen(g.Nodes())
	created := 0

	for _, e := range g.Edges() {
		if e.LoopBack {
			continue
		}
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if !srcOK || !dstOK || dst.Layer <= src.Layer+1 {
			continue
		}

		g.RemoveEdge(e)
		prevID := src.ID
		for layer := src.Layer + 1; layer < dst.Layer; layer++ {
			prevID = addVirtual(g, gen, prevID, src, dst.ID, layer)
			created++
		}
		if _, err := g.AddEdge(dag.Edge{From: prevID, To: dst.ID, Label: e.Label, Virtual: true}); err != nil {
			panic(err)
		}
	}
	return created
}

func addVirtual(g *dag.Graph, gen *idGen, from string, src *dag.Node, to string, layer int) string {
	id := gen.next(src.ID, to, layer)
	w, h := dag.Size(dag.KindVirtual, "")
	v, err := g.AddNode(dag.Node{
		ID:       id,
		Kind:     dag.KindVirtual,
		Swimlane: src.Swimlane,
		Virtual:  true,
		Width:    w,
		Height:   h,
	})
	if err != nil {
		panic(err)
	}
	g.AppendToLayer(v, layer)
	if _, err := g.AddEdge(dag.Edge{From: from, To: id, Virtual: true}); err != nil {
		panic(err)
	}
	return id
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(from, to string, layer int) string {
	prefix := fmt.Sprintf("%s~%s~%d", from, to, layer)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
