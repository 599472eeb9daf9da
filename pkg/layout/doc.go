// Package layout computes layered (Sugiyama-style) layouts of UML activity
// diagrams.
//
// # Overview
//
// [Engine.Layout] takes a [flow.Diagram] and returns a [Result] with a
// top-left position for every element, reading top to bottom: start nodes
// in the first layer, end nodes in the last, edge crossings reduced.
//
//	engine := layout.New(layout.DefaultConfig(), layout.WithLogger(logger))
//	res := engine.Layout(diagram)
//	if res.Fallback {
//	    logger.Warn("fallback layout", "err", res.Error)
//	}
//
// # Pipeline
//
// Each call builds a fresh graph and runs:
//
//  1. Graph construction and node classification (package flow)
//  2. Layer assignment and virtual node insertion (package transform)
//  3. Crossing reduction with the barycenter heuristic ([OrderLayers])
//  4. Canvas sizing and swimlane bands ([SizeCanvas])
//  5. Coordinate assignment ([AssignCoordinates])
//  6. The UML finishing pass ([Finish])
//
// # Swimlanes
//
// Elements that name a swimlane are confined to that lane's vertical band.
// Lanes are ordered by first appearance in the input and sized to their
// widest layer row. Elements without a lane are placed to the right of all
// lanes.
//
// # Failure Handling
//
// Layout never returns an error. A failing step (an error or a panic)
// yields the [Fallback] layout, a plain vertical stack of boxes, with
// Result.Fallback set.
//
// # Configuration
//
// [Config] carries every spacing and size. [LoadConfig] reads it from TOML;
// keys use snake_case:
//
//	canvas_width   = 1600
//	layer_spacing  = 100
//	max_iterations = 8
//
// [flow.Diagram]: github.com/matzehuels/umlflow/pkg/flow.Diagram
package layout
