package transform

import (
	"slices"
	"testing"

	"github.com/matzehuels/umlflow/pkg/dag"
)

func layerOf(t *testing.T, g *dag.Graph, id string) int {
	t.Helper()
	n, ok := g.Node(id)
	if !ok {
		t.Fatalf("node %q missing", id)
	}
	return n.Layer
}

func assertForwardMonotone(t *testing.T, g *dag.Graph) {
	t.Helper()
	for _, e := range g.Edges() {
		if e.LoopBack {
			continue
		}
		if layerOf(t, g, e.To) <= layerOf(t, g, e.From) {
			t.Errorf("forward edge %s→%s not downward", e.From, e.To)
		}
	}
}

func TestAssignLayers_DecisionScenario(t *testing.T) {
	kinds := map[string]dag.Kind{
		"start": dag.KindStart, "A": dag.KindActivity, "decision": dag.KindDecision,
		"B": dag.KindActivity, "end": dag.KindEnd,
	}
	g := newGraph(t, kinds, []string{"start", "A", "decision", "B", "end"},
		[2]string{"start", "A"}, [2]string{"A", "decision"},
		[2]string{"decision", "B"}, [2]string{"decision", "end"}, [2]string{"B", "end"})

	report := AssignLayers(g, nil)

	want := map[string]int{"start": 0, "A": 1, "decision": 2, "B": 3, "end": 4}
	for id, l := range want {
		if got := layerOf(t, g, id); got != l {
			t.Errorf("layer(%s) = %d, want %d", id, got, l)
		}
	}
	if report.Layers != 5 {
		t.Errorf("Layers = %d, want 5", report.Layers)
	}
	if !slices.Equal(report.Starts, []string{"start"}) {
		t.Errorf("Starts = %v", report.Starts)
	}
	if err := g.ValidateLayers(); err != nil {
		t.Fatal(err)
	}
	assertForwardMonotone(t, g)
}

func TestAssignLayers_EndForcedBelowDeepest(t *testing.T) {
	kinds := map[string]dag.Kind{"s": dag.KindStart, "a": dag.KindActivity, "b": dag.KindActivity, "c": dag.KindActivity, "e": dag.KindEnd}
	// e hangs directly off s but the a→b→c chain is deeper.
	g := newGraph(t, kinds, []string{"s", "a", "b", "c", "e"},
		[2]string{"s", "a"}, [2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"s", "e"})

	AssignLayers(g, nil)
	if got := layerOf(t, g, "e"); got != 4 {
		t.Errorf("layer(e) = %d, want 4", got)
	}
}

func TestAssignLayers_StartPriority(t *testing.T) {
	g := dag.New()
	_, _ = g.AddNode(dag.Node{ID: "plain", Kind: dag.KindStart})
	_, _ = g.AddNode(dag.Node{ID: "explicit", Kind: dag.KindStart, ExplicitStart: true})
	_, _ = g.AddNode(dag.Node{ID: "x", Kind: dag.KindActivity})
	_, _ = g.AddEdge(dag.Edge{From: "explicit", To: "x"})

	report := AssignLayers(g, nil)
	if !slices.Equal(report.Starts, []string{"explicit"}) {
		t.Errorf("Starts = %v, want [explicit]", report.Starts)
	}
	if len(report.Unreached) != 0 {
		t.Errorf("Unreached = %v, want none", report.Unreached)
	}
	if got := layerOf(t, g, "plain"); got != 0 {
		t.Errorf("layer(plain) = %d, want 0", got)
	}
}

func TestAssignLayers_TypedStartBehindExplicitStart(t *testing.T) {
	g := dag.New()
	_, _ = g.AddNode(dag.Node{ID: "c", Kind: dag.KindStart, ExplicitStart: true})
	_, _ = g.AddNode(dag.Node{ID: "a", Kind: dag.KindActivity})
	_, _ = g.AddNode(dag.Node{ID: "s2", Kind: dag.KindStart})
	_, _ = g.AddNode(dag.Node{ID: "b", Kind: dag.KindActivity})
	_, _ = g.AddNode(dag.Node{ID: "e", Kind: dag.KindEnd})
	for _, e := range [][2]string{{"c", "a"}, {"a", "s2"}, {"s2", "b"}, {"b", "e"}} {
		_, _ = g.AddEdge(dag.Edge{From: e[0], To: e[1]})
	}

	report := AssignLayers(g, nil)
	if !slices.Equal(report.Starts, []string{"c"}) {
		t.Errorf("Starts = %v, want [c]", report.Starts)
	}
	if got := layerOf(t, g, "s2"); got != 0 {
		t.Errorf("layer(s2) = %d, want 0", got)
	}
	for _, e := range g.Edges() {
		if e.From == "a" && e.To == "s2" && !e.LoopBack {
			t.Error("edge a→s2 into a start node should be a loop-back")
		}
	}
	assertForwardMonotone(t, g)
}

func TestAssignLayers_NoStartNodes(t *testing.T) {
	kinds := map[string]dag.Kind{
		"note": dag.KindNote, "merge": dag.KindMerge, "a": dag.KindActivity, "b": dag.KindActivity,
	}
	g := newGraph(t, kinds, []string{"note", "merge", "a", "b"},
		[2]string{"a", "b"}, [2]string{"b", "merge"})

	report := AssignLayers(g, nil)
	if !slices.Equal(report.Starts, []string{"a"}) {
		t.Errorf("Starts = %v, want [a]", report.Starts)
	}
	if !slices.Equal(report.Unreached, []string{"note"}) {
		t.Errorf("Unreached = %v, want [note]", report.Unreached)
	}
	if got := layerOf(t, g, "note"); got != 3 {
		t.Errorf("layer(note) = %d, want 3", got)
	}
}

func TestAssignLayers_AllInCycle(t *testing.T) {
	g := newGraph(t, nil, []string{"a", "b", "c"},
		[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "a"})

	report := AssignLayers(g, nil)
	if !slices.Equal(report.Starts, []string{"a"}) {
		t.Errorf("Starts = %v, want first node", report.Starts)
	}
	if report.LoopBacks != 1 {
		t.Errorf("LoopBacks = %d, want 1", report.LoopBacks)
	}
	if err := g.ValidateLayers(); err != nil {
		t.Fatal(err)
	}
	assertForwardMonotone(t, g)
}

func TestAssignLayers_LoopBackIntoStart(t *testing.T) {
	kinds := map[string]dag.Kind{"s": dag.KindStart, "a": dag.KindActivity, "d": dag.KindDecision}
	g := newGraph(t, kinds, []string{"s", "a", "d"},
		[2]string{"s", "a"}, [2]string{"a", "d"}, [2]string{"d", "s"}, [2]string{"d", "a"})

	report := AssignLayers(g, nil)
	if report.LoopBacks != 2 {
		t.Errorf("LoopBacks = %d, want 2", report.LoopBacks)
	}
	if got := layerOf(t, g, "s"); got != 0 {
		t.Errorf("layer(s) = %d, want 0", got)
	}
	if g.EdgeCount() != 4 {
		t.Errorf("EdgeCount() = %d, loop-backs must be retained", g.EdgeCount())
	}
	assertForwardMonotone(t, g)
}

func TestAssignLayers_Empty(t *testing.T) {
	g := dag.New()
	if report := AssignLayers(g, nil); report.Layers != 0 {
		t.Errorf("Layers = %d, want 0", report.Layers)
	}
}

func TestCompact(t *testing.T) {
	g := dag.New()
	a, _ := g.AddNode(dag.Node{ID: "a"})
	b, _ := g.AddNode(dag.Node{ID: "b"})
	g.SetLayers([][]*dag.Node{{a}, nil, {}, {b}})

	if removed := Compact(g); removed != 2 {
		t.Errorf("Compact() = %d, want 2", removed)
	}
	if g.LayerCount() != 2 || b.Layer != 1 {
		t.Errorf("LayerCount=%d b.Layer=%d", g.LayerCount(), b.Layer)
	}
}
