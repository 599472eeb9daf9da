package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/umlflow/pkg/flow"
	"github.com/matzehuels/umlflow/pkg/layout"
	"github.com/matzehuels/umlflow/pkg/pipeline"
	"github.com/matzehuels/umlflow/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string
	format    string // json, dot, svg, png, pdf
	detailed  bool   // add layer and cell to node labels
	hideLanes bool   // omit swimlane bands
	scale     float64
	noCache   bool
	refresh   bool
	config    configFlags
}

// renderCommand creates the render command for drawing a laid-out diagram.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render <diagram>",
		Short: "Draw an activity diagram with its computed layout",
		Long: `Draw an activity diagram with its computed layout.

The layout is computed (or read from the cache) and drawn through Graphviz
with every node pinned to its computed position. PNG and PDF output need
rsvg-convert on the PATH.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: diagramArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot, png, pdf, json")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show layer and grid cell in node labels")
	cmd.Flags().BoolVar(&opts.hideLanes, "hide-lanes", false, "do not draw swimlane bands")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached layouts and renderings")
	opts.config.register(cmd)

	return cmd
}

// runRender lays out the diagram, renders it and writes the artifact.
func (c *CLI) runRender(ctx context.Context, input string, cfg layout.Config, opts renderOpts) error {
	format := strings.ToLower(opts.format)
	if (format == pipeline.FormatPNG || format == pipeline.FormatPDF) && !render.Available() {
		return fmt.Errorf("%s output needs rsvg-convert (librsvg) on the PATH", format)
	}

	d, err := flow.ReadFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sp := newSpinner(c.status, fmt.Sprintf("Rendering %s as %s", filepath.Base(input), format))
	sp.start(ctx)

	res, err := runner.Execute(ctx, d, pipeline.Options{
		Config:    cfg,
		Refresh:   opts.refresh,
		Format:    format,
		Detailed:  opts.detailed,
		HideLanes: opts.hideLanes,
		Scale:     opts.scale,
		Logger:    c.Logger,
		StageHook: sp.stage,
	})
	sp.halt()
	if err != nil {
		c.out.failure("Render failed")
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if err := os.WriteFile(output, res.Artifact, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	if res.Layout.Fallback {
		c.out.warning("fallback layout (%s)", res.Layout.Error)
	}
	c.out.success("Rendered %s", format)
	c.out.file(output)
	c.out.layoutStats(res.Layout.Stats, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	c.out.detail("layout %s · render %s", res.Stats.LayoutTime.Round(time.Millisecond), res.Stats.RenderTime.Round(time.Millisecond))

	return nil
}
