package transform_test

import (
	"fmt"

	"github.com/matzehuels/umlflow/pkg/dag"
	"github.com/matzehuels/umlflow/pkg/dag/transform"
)

func ExampleNormalize() {
	// start → check → (yes) ship → end, with a retry loop and a "no" branch
	g := dag.New()
	_, _ = g.AddNode(dag.Node{ID: "start", Kind: dag.KindStart})
	_, _ = g.AddNode(dag.Node{ID: "check", Kind: dag.KindDecision})
	_, _ = g.AddNode(dag.Node{ID: "fix", Kind: dag.KindActivity})
	_, _ = g.AddNode(dag.Node{ID: "ship", Kind: dag.KindActivity})
	_, _ = g.AddNode(dag.Node{ID: "end", Kind: dag.KindEnd})

	_, _ = g.AddEdge(dag.Edge{From: "start", To: "check"})
	_, _ = g.AddEdge(dag.Edge{From: "check", To: "fix", Label: "no"})
	_, _ = g.AddEdge(dag.Edge{From: "fix", To: "check"}) // retry loop
	_, _ = g.AddEdge(dag.Edge{From: "check", To: "ship", Label: "yes"})
	_, _ = g.AddEdge(dag.Edge{From: "check", To: "end"})
	_, _ = g.AddEdge(dag.Edge{From: "ship", To: "end"})

	report := transform.Normalize(g, nil)

	for i, layer := range g.Layers() {
		fmt.Println(i, dag.NodeIDs(layer))
	}
	fmt.Println("Loop-backs:", report.LoopBacks)
	fmt.Println("Virtual:", report.Virtual)
	// Output:
	// 0 [start]
	// 1 [check]
	// 2 [fix ship check~end~2]
	// 3 [end]
	// Loop-backs: 1
	// Virtual: 1
}

func ExampleAssignLayers() {
	g := dag.New()
	_, _ = g.AddNode(dag.Node{ID: "start", Kind: dag.KindStart})
	_, _ = g.AddNode(dag.Node{ID: "orphan", Kind: dag.KindNote})
	_, _ = g.AddNode(dag.Node{ID: "work", Kind: dag.KindActivity})
	_, _ = g.AddEdge(dag.Edge{From: "start", To: "work"})

	report := transform.AssignLayers(g, nil)
	fmt.Println("Starts:", report.Starts)
	fmt.Println("Unreached:", report.Unreached)
	fmt.Println("Layers:", report.Layers)
	// Output:
	// Starts: [start]
	// Unreached: [orphan]
	// Layers: 3
}
