// Package pkg provides the libraries behind umlflow, a layered layout engine
// for UML activity diagrams.
//
// # Overview
//
// umlflow takes an abstract flow graph (activities, decisions, forks,
// start and end markers, transitions, optional swimlanes) and assigns every
// node a layer, an in-layer position and pixel coordinates. Diagrams read
// top to bottom with start nodes first and end nodes last.
//
// # Architecture
//
//	flow.Diagram (JSON / YAML)
//	         ↓
//	    [flow] Build: validated dag.Graph
//	         ↓
//	    [dag/transform]: layers, loop-backs, virtual nodes
//	         ↓
//	    [layout]: ordering, canvas, coordinates, finishing pass
//	         ↓
//	    layout.Result → JSON, or [render/dot] → DOT / SVG / PNG / PDF
//
// [pipeline] wraps these stages with caching ([cache]) and is shared by the
// CLI and the HTTP server, which persists results through [store].
//
// # Quick Start
//
//	d, err := flow.ReadFile("order.json")
//	if err != nil {
//	    return err
//	}
//	res := layout.New(layout.DefaultConfig()).Layout(d)
//	layout.WriteJSON(res, os.Stdout)
//
// [flow]: github.com/matzehuels/umlflow/pkg/flow
// [dag/transform]: github.com/matzehuels/umlflow/pkg/dag/transform
// [layout]: github.com/matzehuels/umlflow/pkg/layout
// [render/dot]: github.com/matzehuels/umlflow/pkg/render/dot
// [pipeline]: github.com/matzehuels/umlflow/pkg/pipeline
// [cache]: github.com/matzehuels/umlflow/pkg/cache
// [store]: github.com/matzehuels/umlflow/pkg/store
package pkg
