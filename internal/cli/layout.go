package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/umlflow/pkg/dag"
	"github.com/matzehuels/umlflow/pkg/flow"
	"github.com/matzehuels/umlflow/pkg/layout"
	"github.com/matzehuels/umlflow/pkg/pipeline"
)

// layoutOpts holds the flags of the layout command.
type layoutOpts struct {
	output  string // output file, single input only
	noCache bool
	refresh bool
	trace   bool // log the working graph after every stage
	jobs    int
	config  configFlags
}

// layoutCommand creates the layout command for computing diagram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout <diagram>...",
		Short: "Compute layouts for activity diagrams",
		Long: `Compute layouts for activity diagrams.

Each diagram (.json, .yaml or .yml) is laid out and written to
<input>.layout.json next to the input. Several diagrams are laid out
concurrently.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: diagramArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && len(args) > 1 {
				return fmt.Errorf("--output needs exactly one input, got %d", len(args))
			}
			cfg, err := opts.config.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "log the working graph after every stage")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "diagrams laid out in parallel")
	opts.config.register(cmd)

	return cmd
}

// layoutOutcome is what one batch entry reports back.
type layoutOutcome struct {
	input, output string
	res           *layout.Result
	hit           bool
}

// runLayout lays out every input and writes the results.
func (c *CLI) runLayout(ctx context.Context, inputs []string, cfg layout.Config, opts layoutOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	task := "Laying out " + filepath.Base(inputs[0])
	if len(inputs) > 1 {
		task = fmt.Sprintf("Laying out %d diagrams", len(inputs))
	}
	sp := newSpinner(c.status, task)
	base := pipeline.Options{Config: cfg, Refresh: opts.refresh, Logger: c.Logger, StageHook: sp.stage}
	if opts.trace {
		base.StageHook = func(stage string, g *dag.Graph) {
			sp.stage(stage, g)
			c.traceStage(stage, g)
		}
	}

	prog := newProgress(c.Logger)
	sp.start(ctx)

	outcomes := make([]layoutOutcome, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.jobs, 1))
	for i, input := range inputs {
		g.Go(func() error {
			d, err := flow.ReadFile(input)
			if err != nil {
				return err
			}
			res, hit, err := runner.LayoutWithCacheInfo(gctx, d, base)
			if err != nil {
				return fmt.Errorf("layout %s: %w", input, err)
			}
			output := opts.output
			if output == "" {
				output = layoutPath(input)
			}
			if err := writeLayout(res, output); err != nil {
				return err
			}
			outcomes[i] = layoutOutcome{input: input, output: output, res: res, hit: hit}
			prog.record(hit, res.Fallback)
			return nil
		})
	}
	err = g.Wait()
	sp.halt()
	if err != nil {
		c.out.failure("Layout failed")
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, o := range outcomes {
		if o.res.Fallback {
			c.out.warning("%s: fallback layout (%s)", o.input, o.res.Error)
		} else {
			c.out.success("Layout complete: %s", o.input)
		}
		c.out.file(o.output)
		c.out.layoutStats(o.res.Stats, o.hit)
	}
	if len(inputs) > 1 {
		prog.done(fmt.Sprintf("Laid out %d diagrams", len(inputs)))
	}
	c.out.newline()
	c.out.nextStep("Render", appName+" render "+inputs[0]+" -f svg")

	return nil
}

// traceStage logs the layer structure after one engine stage.
func (c *CLI) traceStage(stage string, g *dag.Graph) {
	c.Logger.Info("stage", "name", stage, "nodes", g.NodeCount(), "layers", g.LayerCount(), "edges", g.EdgeCount())
}

// layoutPath derives <input>.layout.json from a diagram path.
func layoutPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}

func writeLayout(res *layout.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	if err := layout.WriteJSON(res, f); err != nil {
		f.Close()
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return f.Close()
}
