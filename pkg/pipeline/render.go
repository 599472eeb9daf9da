package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/umlflow/pkg/flow"
	"github.com/matzehuels/umlflow/pkg/layout"
	"github.com/matzehuels/umlflow/pkg/render/dot"
)

// =============================================================================
// Rendering
// =============================================================================

// RenderLayout encodes res in opts.Format without caching. d supplies node
// labels and colors for the Graphviz formats.
func RenderLayout(ctx context.Context, res *layout.Result, d flow.Diagram, opts Options) ([]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	if opts.Format == FormatJSON {
		var buf bytes.Buffer
		if err := layout.WriteJSON(res, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	src := ToDOT(res, d, opts)
	switch opts.Format {
	case FormatDOT:
		return []byte(src), nil
	case FormatSVG:
		return dot.RenderSVG(ctx, src)
	case FormatPNG:
		return dot.RenderPNG(ctx, src, opts.Scale)
	case FormatPDF:
		return dot.RenderPDF(ctx, src)
	default:
		return nil, fmt.Errorf("unhandled format %q", opts.Format)
	}
}

// ToDOT builds the Graphviz source for res with labels from d.
func ToDOT(res *layout.Result, d flow.Diagram, opts Options) string {
	labels, colors := dot.LabelsFrom(d)
	return dot.ToDOT(res, dot.Options{
		Labels:    labels,
		Colors:    colors,
		Detailed:  opts.Detailed,
		HideLanes: opts.HideLanes,
	})
}
