package dag

import (
	"errors"
	"testing"
)

func mustNode(t *testing.T, g *Graph, id string, kind Kind) *Node {
	t.Helper()
	n, err := g.AddNode(Node{ID: id, Kind: kind})
	if err != nil {
		t.Fatalf("AddNode(%q): %v", id, err)
	}
	return n
}

func TestAddNode(t *testing.T) {
	g := New()
	n := mustNode(t, g, "a", KindActivity)
	if n.Layer != -1 {
		t.Errorf("Layer = %d, want -1", n.Layer)
	}

	if _, err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty ID: err = %v, want ErrInvalidNodeID", err)
	}
	if _, err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate: err = %v, want ErrDuplicateNodeID", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
	}
}

func TestAddEdgeUnknownEndpoints(t *testing.T) {
	g := New()
	mustNode(t, g, "a", KindActivity)

	if _, err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("err = %v, want ErrUnknownSourceNode", err)
	}
	if _, err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("err = %v, want ErrUnknownTargetNode", err)
	}
}

func TestNodesKeepInsertionOrder(t *testing.T) {
	g := New()
	for _, id := range []string{"z", "a", "m"} {
		mustNode(t, g, id, KindActivity)
	}
	got := NodeIDs(g.Nodes())
	want := []string{"z", "a", "m"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Nodes() = %v, want %v", got, want)
		}
	}
}

func TestRemoveEdgeKeepsParallelEdges(t *testing.T) {
	g := New()
	mustNode(t, g, "d", KindDecision)
	mustNode(t, g, "x", KindActivity)
	yes, _ := g.AddEdge(Edge{From: "d", To: "x", Label: "yes"})
	_, _ = g.AddEdge(Edge{From: "d", To: "x", Label: "no"})

	g.RemoveEdge(yes)

	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if g.HasEdge("d", "x", "yes") {
		t.Error("removed edge still present")
	}
	if !g.HasEdge("d", "x", "no") {
		t.Error("parallel edge was removed")
	}
	if len(g.Children("d")) != 1 || len(g.Parents("x")) != 1 {
		t.Errorf("adjacency not updated: children=%v parents=%v", g.Children("d"), g.Parents("x"))
	}
}

func TestForwardNeighborsSkipLoopBacks(t *testing.T) {
	g := New()
	mustNode(t, g, "a", KindActivity)
	mustNode(t, g, "b", KindActivity)
	_, _ = g.AddEdge(Edge{From: "a", To: "b"})
	_, _ = g.AddEdge(Edge{From: "b", To: "a", LoopBack: true})

	if got := g.ForwardChildren("b"); len(got) != 0 {
		t.Errorf("ForwardChildren(b) = %v, want none", got)
	}
	if got := g.ForwardParents("a"); len(got) != 0 {
		t.Errorf("ForwardParents(a) = %v, want none", got)
	}
	if got := g.Children("b"); len(got) != 1 {
		t.Errorf("Children(b) = %v, want [a]", got)
	}
}

func TestIncidentEdgesAreLive(t *testing.T) {
	g := New()
	mustNode(t, g, "a", KindActivity)
	mustNode(t, g, "b", KindActivity)
	mustNode(t, g, "c", KindActivity)
	ab, _ := g.AddEdge(Edge{From: "a", To: "b"})
	ac, _ := g.AddEdge(Edge{From: "a", To: "c"})

	ab.LoopBack = true
	if got := g.ForwardChildren("a"); len(got) != 1 || got[0] != "c" {
		t.Errorf("ForwardChildren(a) = %v, want [c]", got)
	}
	if got := g.ForwardParents("b"); len(got) != 0 {
		t.Errorf("ForwardParents(b) = %v, want none", got)
	}

	g.RemoveEdge(ab)
	from := g.EdgesFrom("a")
	if len(from) != 1 || from[0] != ac {
		t.Errorf("EdgesFrom(a) = %v, want only a→c", from)
	}
	if got := g.Parents("b"); len(got) != 0 {
		t.Errorf("Parents(b) = %v, want none after removal", got)
	}
}

func TestLanesFirstSeenOrder(t *testing.T) {
	g := New()
	g.AddToLane("Sales", "a")
	g.AddToLane("Ops", "b")
	g.AddToLane("Sales", "c")
	g.AddToLane("", "d")

	lanes := g.Lanes()
	if len(lanes) != 2 {
		t.Fatalf("LaneCount = %d, want 2", len(lanes))
	}
	if lanes[0].Name != "Sales" || lanes[1].Name != "Ops" {
		t.Errorf("lane order = %s,%s", lanes[0].Name, lanes[1].Name)
	}
	if len(lanes[0].Nodes) != 2 {
		t.Errorf("Sales nodes = %v", lanes[0].Nodes)
	}
	lanes[0].XStart, lanes[0].Width = 10, 100
	if lanes[0].XEnd() != 110 {
		t.Errorf("XEnd() = %v, want 110", lanes[0].XEnd())
	}
}

func TestLayerInvariant(t *testing.T) {
	g := New()
	a := mustNode(t, g, "a", KindStart)
	b := mustNode(t, g, "b", KindActivity)
	c := mustNode(t, g, "c", KindEnd)

	g.SetLayers([][]*Node{{a}, {b, c}})
	if err := g.ValidateLayers(); err != nil {
		t.Fatalf("ValidateLayers() = %v", err)
	}
	if c.Layer != 1 || c.Pos != 1 {
		t.Errorf("c at (%d,%d), want (1,1)", c.Layer, c.Pos)
	}

	g.MoveToLayer(c, 2)
	if err := g.ValidateLayers(); err != nil {
		t.Fatalf("after move: %v", err)
	}
	if c.Layer != 2 || b.Pos != 0 {
		t.Errorf("c.Layer=%d b.Pos=%d", c.Layer, b.Pos)
	}

	c.Layer = 0
	if err := g.ValidateLayers(); !errors.Is(err, ErrLayerMismatch) {
		t.Errorf("err = %v, want ErrLayerMismatch", err)
	}
	g.Reindex()

	g.SetLayers([][]*Node{{a}, {b}})
	if err := g.ValidateLayers(); !errors.Is(err, ErrNodeNotLayered) {
		t.Errorf("missing node: err = %v, want ErrNodeNotLayered", err)
	}
}

func TestValidateSpans(t *testing.T) {
	g := New()
	a := mustNode(t, g, "a", KindStart)
	b := mustNode(t, g, "b", KindActivity)
	c := mustNode(t, g, "c", KindEnd)
	g.SetLayers([][]*Node{{a}, {b}, {c}})
	_, _ = g.AddEdge(Edge{From: "a", To: "b"})
	_, _ = g.AddEdge(Edge{From: "c", To: "a", LoopBack: true})

	if err := g.ValidateSpans(); err != nil {
		t.Fatalf("ValidateSpans() = %v", err)
	}

	_, _ = g.AddEdge(Edge{From: "a", To: "c"})
	if err := g.ValidateSpans(); !errors.Is(err, ErrNonConsecutiveLayers) {
		t.Errorf("err = %v, want ErrNonConsecutiveLayers", err)
	}
}

func TestCountCrossings(t *testing.T) {
	g := New()
	a := mustNode(t, g, "a", KindActivity)
	b := mustNode(t, g, "b", KindActivity)
	c := mustNode(t, g, "c", KindActivity)
	d := mustNode(t, g, "d", KindActivity)
	_, _ = g.AddEdge(Edge{From: "a", To: "d"})
	_, _ = g.AddEdge(Edge{From: "b", To: "c"})
	_, _ = g.AddEdge(Edge{From: "d", To: "a", LoopBack: true})

	g.SetLayers([][]*Node{{a, b}, {c, d}})
	if got := CountCrossings(g); got != 1 {
		t.Errorf("CountCrossings() = %d, want 1", got)
	}

	g.SetLayers([][]*Node{{a, b}, {d, c}})
	if got := CountCrossings(g); got != 0 {
		t.Errorf("CountCrossings() = %d, want 0", got)
	}
}
