package dot

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/umlflow/pkg/flow"
	"github.com/matzehuels/umlflow/pkg/layout"
	"github.com/matzehuels/umlflow/pkg/render"
)

// pointsPerInch converts layout pixels to Graphviz inches for node sizes.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// Labels maps node IDs to display text. Missing IDs show the ID.
	Labels map[string]string
	// Colors maps node IDs to fill colors.
	Colors map[string]string
	// Detailed appends layer and grid cell to every label.
	Detailed bool
	// HideLanes omits the swimlane bands.
	HideLanes bool
}

// LabelsFrom collects display text and colors from a diagram.
func LabelsFrom(d flow.Diagram) (labels, colors map[string]string) {
	labels = make(map[string]string, len(d.Flow))
	colors = make(map[string]string)
	for _, el := range d.Flow {
		if el.Text != "" {
			labels[el.ID] = el.Text
		}
		if el.Color != "" {
			colors[el.ID] = el.Color
		}
	}
	return labels, colors
}

// ToDOT converts a layout to DOT for the neato engine. Every node carries a
// pinned pos attribute, so Graphviz only routes edges and draws shapes.
//
// Graphviz puts the origin bottom-left while layouts put it top-left; y is
// flipped against the canvas height. Loop-back edges are dashed.
func ToDOT(res *layout.Result, opts Options) string {
	height := canvasHeight(res)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=10, fixedsize=true];\n")
	buf.WriteString("  edge [fontsize=9, arrowsize=0.7];\n")
	buf.WriteString("\n")

	if !opts.HideLanes {
		for i, lane := range res.Lanes {
			fmt.Fprintf(&buf, "  %q [%s];\n", laneID(i), strings.Join(laneAttrs(lane, height), ", "))
		}
		if len(res.Lanes) > 0 {
			buf.WriteString("\n")
		}
	}

	for _, id := range slices.Sorted(maps.Keys(res.Positions)) {
		p := res.Positions[id]
		attrs := fmtAttrs(p, fmtLabel(id, p, opts), opts.Colors[id], height)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range res.Edges {
		var attrs []string
		if e.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
		}
		if e.LoopBack {
			attrs = append(attrs, "style=dashed", "color=\"#666666\"")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func canvasHeight(res *layout.Result) float64 {
	h := res.Canvas.Height
	for _, p := range res.Positions {
		h = max(h, float64(p.Y+p.Height))
	}
	return h
}

func laneID(i int) string { return fmt.Sprintf("__lane_%d", i) }

func laneAttrs(lane layout.LaneInfo, height float64) []string {
	return []string{
		fmt.Sprintf("label=%q", lane.Name),
		"shape=box",
		"style=dashed",
		"color=\"#bbbbbb\"",
		"fontcolor=\"#888888\"",
		"labelloc=t",
		fmt.Sprintf("width=%s", inches(float64(lane.Width))),
		fmt.Sprintf("height=%s", inches(height)),
		fmt.Sprintf("pos=\"%s,%s!\"", num(float64(lane.X)+float64(lane.Width)/2), num(height/2)),
	}
}

func fmtLabel(id string, p layout.Position, opts Options) string {
	label := id
	if text, ok := opts.Labels[id]; ok {
		label = text
	}
	if !opts.Detailed {
		return label
	}
	return fmt.Sprintf("%s\nlayer: %d\ncell: %d,%d", label, p.Layer, p.Column, p.Row)
}

func fmtAttrs(p layout.Position, label, color string, height float64) []string {
	cx := float64(p.X) + float64(p.Width)/2
	cy := height - (float64(p.Y) + float64(p.Height)/2)
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("width=%s", inches(float64(p.Width))),
		fmt.Sprintf("height=%s", inches(float64(p.Height))),
		fmt.Sprintf("pos=\"%s,%s!\"", num(cx), num(cy)),
	}
	attrs = append(attrs, shapeAttrs(p.Role)...)
	if color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", color))
	}
	return attrs
}

// shapeAttrs follows UML activity notation loosely.
func shapeAttrs(role string) []string {
	switch role {
	case "start":
		return []string{"shape=circle", "style=filled", "fillcolor=black", "label=\"\""}
	case "end":
		return []string{"shape=doublecircle", "style=filled", "fillcolor=black", "label=\"\""}
	case "decision", "decision-else", "decision-end", "merge":
		return []string{"shape=diamond", "style=filled"}
	case "fork", "join":
		return []string{"shape=box", "style=filled", "fillcolor=black", "label=\"\""}
	case "note":
		return []string{"shape=note", "style=filled", "fillcolor=\"#fff8c4\""}
	case "error":
		return []string{"color=\"#b22222\"", "fontcolor=\"#b22222\""}
	default:
		return nil
	}
}

func inches(px float64) string { return num(px / pointsPerInch) }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// RenderSVG lays out a DOT graph with neato and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg tag with a pixel-sized
// one that scales.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPNG renders a DOT graph as PNG via SVG and rsvg-convert.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

// RenderPDF renders a DOT graph as PDF via SVG and rsvg-convert.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}
