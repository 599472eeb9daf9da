package flow

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlflow/pkg/dag"
	"github.com/matzehuels/umlflow/pkg/errors"
)

// ElseLabel is the label of the implicit edge from a decision to its else
// branch.
const ElseLabel = "no"

// Build converts d into a fresh graph.
//
// Every element becomes a node, classified with [dag.Classify] and refined
// with [dag.Refine]. Elements with an invalid or duplicate ID are dropped.
// Every connection whose endpoints both exist becomes an edge; dangling and
// duplicate (source, target, label) connections are dropped. Each else
// branch that names its decision gets an extra decision → else edge labelled
// [ElseLabel]. Swimlanes are registered in first-seen order.
//
// Build never fails: everything it drops is reported on logger as a warning.
// A nil logger discards diagnostics.
func Build(d Diagram, logger *log.Logger) *dag.Graph {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	g := dag.New()

	for i, el := range d.Flow {
		if err := errors.ValidateElementID(el.ID); err != nil {
			logger.Warn("skipping element", "index", i, "reason", errors.UserMessage(err))
			continue
		}
		n, err := g.AddNode(nodeFromElement(el))
		if err != nil {
			logger.Warn("skipping element", "index", i, "id", el.ID, "reason", err)
			continue
		}
		if n.Swimlane != "" {
			g.AddToLane(n.Swimlane, n.ID)
		}
	}

	for _, c := range d.Connections() {
		addEdge(g, dag.Edge{From: c.SourceID, To: c.TargetID, Label: c.Label}, logger)
	}

	for _, n := range g.Nodes() {
		if n.Kind != dag.KindDecisionElse || n.DecisionID == "" {
			continue
		}
		addEdge(g, dag.Edge{From: n.DecisionID, To: n.ID, Label: ElseLabel}, logger)
	}

	logger.Debug("built graph", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "lanes", g.LaneCount())
	return g
}

func nodeFromElement(el Element) dag.Node {
	n := dag.Node{
		ID:         el.ID,
		Kind:       dag.Classify(el.Type, el.Text),
		RawType:    el.Type,
		Text:       el.Text,
		Swimlane:   el.Swimlane,
		Action:     el.Action,
		Condition:  el.Condition,
		DecisionID: el.DecisionID,
		Color:      el.Color,
	}
	n.Width, n.Height = dag.Size(n.Kind, n.Text)
	dag.Refine(&n)
	return n
}

func addEdge(g *dag.Graph, e dag.Edge, logger *log.Logger) {
	if g.HasEdge(e.From, e.To, e.Label) {
		logger.Debug("skipping duplicate connection", "from", e.From, "to", e.To, "label", e.Label)
		return
	}
	if _, err := g.AddEdge(e); err != nil {
		logger.Warn("skipping connection", "from", e.From, "to", e.To, "reason", err)
	}
}
