// Package dot renders computed layouts as Graphviz diagrams.
//
// # Overview
//
// The layout engine decides every coordinate itself; Graphviz is only used
// to draw. [ToDOT] emits a neato graph in which each node has a pinned
// position ("pos=x,y!") and a fixed size taken from the layout, so the
// picture matches the computed layout exactly. Edges are routed by neato.
//
// # Usage
//
//	labels, colors := dot.LabelsFrom(diagram)
//	src := dot.ToDOT(result, dot.Options{Labels: labels, Colors: colors})
//	svg, err := dot.RenderSVG(ctx, src)
//
// PNG and PDF go through [render.ToPNG] and [render.ToPDF], which need the
// rsvg-convert binary.
//
// # Notation
//
// Start nodes are filled circles, end nodes filled double circles,
// decisions and merges diamonds, fork and join bars black boxes, notes
// note shapes. Swimlanes are dashed bands behind the nodes. Loop-back
// edges are dashed and grey.
//
// # Dependencies
//
// SVG output uses [github.com/goccy/go-graphviz], which embeds Graphviz
// compiled to WebAssembly, so no system Graphviz is needed.
//
// [render.ToPNG]: github.com/matzehuels/umlflow/pkg/render.ToPNG
// [render.ToPDF]: github.com/matzehuels/umlflow/pkg/render.ToPDF
package dot
