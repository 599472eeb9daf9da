package flow

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlflow/pkg/dag"
)

func TestBuild(t *testing.T) {
	d := Diagram{
		Flow: []Element{
			{ID: "s", Type: "control", Action: "start"},
			{ID: "d", Type: "decision", Text: "ok?", Swimlane: "Ops"},
			{ID: "yes", Type: "activity", Text: "Ship", Swimlane: "Ops"},
			{ID: "else", Type: "else", DecisionID: "d", Swimlane: "QA"},
			{ID: "e", Type: "stop"},
		},
		LogicalConnections: []Connection{
			{SourceID: "s", TargetID: "d"},
			{SourceID: "d", TargetID: "yes", Label: "yes"},
			{SourceID: "yes", TargetID: "e"},
			{SourceID: "else", TargetID: "e"},
		},
	}

	g := Build(d, nil)

	if g.NodeCount() != 5 {
		t.Errorf("NodeCount() = %d, want 5", g.NodeCount())
	}
	if g.EdgeCount() != 5 {
		t.Errorf("EdgeCount() = %d, want 5", g.EdgeCount())
	}
	if !g.HasEdge("d", "else", ElseLabel) {
		t.Error("implicit decision → else edge missing")
	}

	s, _ := g.Node("s")
	if s.Kind != dag.KindStart || !s.ExplicitStart || s.Width != 30 {
		t.Errorf("start node = %+v", s)
	}
	e, _ := g.Node("e")
	if e.Kind != dag.KindEnd {
		t.Errorf("e.Kind = %q, want end", e.Kind)
	}

	lanes := g.Lanes()
	if len(lanes) != 2 || lanes[0].Name != "Ops" || lanes[1].Name != "QA" {
		t.Fatalf("lanes = %v", lanes)
	}
	if len(lanes[0].Nodes) != 2 {
		t.Errorf("Ops nodes = %v", lanes[0].Nodes)
	}
}

func TestBuildDropsBadInput(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	d := Diagram{
		Flow: []Element{
			{ID: "a", Type: "activity"},
			{ID: "", Type: "activity"},
			{ID: "a", Type: "decision"},
			{ID: "b", Type: "activity"},
		},
		LogicalConnections: []Connection{
			{SourceID: "a", TargetID: "b", Label: "go"},
			{SourceID: "a", TargetID: "b", Label: "go"},
			{SourceID: "a", TargetID: "b", Label: "other"},
			{SourceID: "a", TargetID: "ghost"},
			{SourceID: "ghost", TargetID: "b"},
		},
	}

	g := Build(d, logger)

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	a, _ := g.Node("a")
	if a.Kind != dag.KindActivity {
		t.Errorf("first occurrence should win, got kind %q", a.Kind)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2 (dedup keeps distinct labels)", g.EdgeCount())
	}
	if got := strings.Count(buf.String(), "skipping"); got != 4 {
		t.Errorf("logged %d warnings, want 4:\n%s", got, buf.String())
	}
}

func TestBuildRelationshipsFallback(t *testing.T) {
	d := Diagram{
		Flow:          []Element{{ID: "a"}, {ID: "b"}},
		Relationships: []Connection{{SourceID: "a", TargetID: "b"}},
	}
	if g := Build(d, nil); g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}

	d.LogicalConnections = []Connection{{SourceID: "b", TargetID: "a"}}
	g := Build(d, nil)
	if !g.HasEdge("b", "a", "") || g.HasEdge("a", "b", "") {
		t.Error("logical connections must take precedence over relationships")
	}
}

func TestBuildElseEdgeNotDuplicated(t *testing.T) {
	d := Diagram{
		Flow: []Element{
			{ID: "d", Type: "decision"},
			{ID: "x", Type: "decision-else", DecisionID: "d"},
			{ID: "y", Type: "decision-else", DecisionID: "missing"},
		},
		LogicalConnections: []Connection{{SourceID: "d", TargetID: "x", Label: "no"}},
	}
	g := Build(d, nil)
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}
