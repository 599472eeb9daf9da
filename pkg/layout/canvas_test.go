package layout

import (
	"testing"

	"github.com/matzehuels/umlflow/pkg/dag"
)

func laneGraph(t *testing.T) *dag.Graph {
	t.Helper()
	g := dag.New()
	add := func(id, lane string, w float64) *dag.Node {
		n, err := g.AddNode(dag.Node{ID: id, Swimlane: lane, Width: w, Height: 40})
		if err != nil {
			t.Fatal(err)
		}
		g.AddToLane(lane, id)
		return n
	}
	a1 := add("a1", "A", 120)
	a2 := add("a2", "A", 120)
	b1 := add("b1", "B", 30)
	free := add("free", "", 120)
	g.SetLayers([][]*dag.Node{{a1, a2, b1, free}})
	return g
}

func TestSizeCanvasWithoutLanes(t *testing.T) {
	cfg := DefaultConfig()

	g := layered(t, [][]string{{"a", "b", "c"}, {"d"}})
	if c := SizeCanvas(g, cfg); c.Width != DefaultCanvasWidth || c.Height != DefaultCanvasHeight {
		t.Errorf("small graph canvas = %+v, want defaults", c)
	}

	ids := make([]string, 10)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	g = layered(t, [][]string{ids})
	// 10×120 + 9×60 + 2×50
	if c := SizeCanvas(g, cfg); c.Width != 1840 {
		t.Errorf("wide canvas width = %v, want 1840", c.Width)
	}

	tall := make([][]string, 10)
	for i := range tall {
		tall[i] = []string{string(rune('a' + i))}
	}
	g = layered(t, tall)
	// 2×50 + 9×120 + 40
	if c := SizeCanvas(g, cfg); c.Height != 1220 {
		t.Errorf("tall canvas height = %v, want 1220", c.Height)
	}
}

func TestSizeCanvasLanes(t *testing.T) {
	cfg := DefaultConfig()
	g := laneGraph(t)

	SizeCanvas(g, cfg)

	a, _ := g.Lane("A")
	b, _ := g.Lane("B")
	// A: 120+30+120 content + 2×20 padding.
	if a.XStart != 50 || a.Width != 310 {
		t.Errorf("lane A = [%v +%v], want [50 +310]", a.XStart, a.Width)
	}
	// B: 30+40 is below MinLaneWidth.
	if b.XStart != 380 || b.Width != 160 {
		t.Errorf("lane B = [%v +%v], want [380 +160]", b.XStart, b.Width)
	}
}

func TestSizeCanvasLanesGrow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinLaneWidth = 600
	g := laneGraph(t)

	c := SizeCanvas(g, cfg)
	// 50 + 600 + 20 + 600 + 20 + 120 + 50
	if c.Width != 1460 {
		t.Errorf("canvas width = %v, want 1460", c.Width)
	}
}

func TestAssignCoordinatesWithoutLanes(t *testing.T) {
	cfg := DefaultConfig()
	g := layered(t, [][]string{{"a"}, {"b", "c"}})
	canvas := SizeCanvas(g, cfg)

	AssignCoordinates(g, cfg, canvas)

	a, _ := g.Node("a")
	b, _ := g.Node("b")
	c, _ := g.Node("c")
	if a.X != 600 || a.Y != 50 {
		t.Errorf("a = (%v,%v), want (600,50)", a.X, a.Y)
	}
	if b.Y != 170 || c.Y != 170 {
		t.Errorf("layer 1 Y = %v,%v, want 170", b.Y, c.Y)
	}
	// 120+60+120 = 300 wide, centered on 600.
	if b.X != 510 || c.X != 690 {
		t.Errorf("layer 1 X = %v,%v, want 510,690", b.X, c.X)
	}
}

func TestAssignCoordinatesLanes(t *testing.T) {
	cfg := DefaultConfig()
	g := laneGraph(t)
	canvas := SizeCanvas(g, cfg)

	AssignCoordinates(g, cfg, canvas)

	for _, lane := range g.Lanes() {
		for _, id := range lane.Nodes {
			n, _ := g.Node(id)
			if n.X-n.Width/2 < lane.XStart || n.X+n.Width/2 > lane.XEnd() {
				t.Errorf("%s [%v,%v] outside lane %s [%v,%v]", id, n.X-n.Width/2, n.X+n.Width/2, lane.Name, lane.XStart, lane.XEnd())
			}
		}
	}
	b1, _ := g.Node("b1")
	if b1.X != 460 {
		t.Errorf("b1.X = %v, want lane B center 460", b1.X)
	}
	free, _ := g.Node("free")
	if free.X != 620 {
		t.Errorf("free.X = %v, want 620 (540 + gap 20 + half width 60)", free.X)
	}
}

func TestDistributeShrinksSpacing(t *testing.T) {
	nodes := []*dag.Node{{ID: "a", Width: 60}, {ID: "b", Width: 60}, {ID: "c", Width: 60}}
	// 180 of content in 200 px: spacing 60 overflows, 10 is below the floor of 20.
	distribute(nodes, 0, 200, 60, 20)

	gap := (nodes[1].X - nodes[1].Width/2) - (nodes[0].X + nodes[0].Width/2)
	if gap != 20 {
		t.Errorf("gap = %v, want 20", gap)
	}
	if mid := (nodes[0].X + nodes[2].X) / 2; mid != 100 {
		t.Errorf("row centered on %v, want 100", mid)
	}
}

func TestClampToLanesNarrowBand(t *testing.T) {
	cfg := DefaultConfig()
	g := dag.New()
	n, _ := g.AddNode(dag.Node{ID: "wide", Swimlane: "L", Width: 200, X: 0})
	g.AddToLane("L", "wide")
	lane, _ := g.Lane("L")
	lane.XStart, lane.Width = 100, 150

	clampToLanes(g, cfg)

	if n.X != 175 {
		t.Errorf("X = %v, want band center 175", n.X)
	}
}
