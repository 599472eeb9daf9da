// Package render turns computed layouts into viewable artifacts.
//
// # Overview
//
// The layout engine only produces coordinates. This package and its
// subpackages draw them:
//
//   - [dot]: Graphviz DOT with every node pinned to its computed position,
//     and in-process SVG via go-graphviz
//   - [ToPDF], [ToPNG]: SVG conversion through the external rsvg-convert
//     tool (librsvg)
//
// Rendering is a preview aid. Shapes follow UML conventions loosely and
// text is not measured.
//
//	dotSrc := dot.ToDOT(result, dot.Options{Labels: dot.LabelsFrom(diagram)})
//	svg, err := dot.RenderSVG(ctx, dotSrc)
//	png, err := render.ToPNG(svg, 2.0)
//
// [dot]: github.com/matzehuels/umlflow/pkg/render/dot
package render
