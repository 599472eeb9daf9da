package pipeline

import (
	"github.com/matzehuels/umlflow/pkg/flow"
	"github.com/matzehuels/umlflow/pkg/layout"
)

// ComputeLayout runs the layout engine without caching. It never fails;
// see [layout.Engine.Layout].
func ComputeLayout(d flow.Diagram, opts Options) *layout.Result {
	opts.SetLayoutDefaults()
	engineOpts := []layout.Option{layout.WithLogger(opts.Logger)}
	if opts.StageHook != nil {
		engineOpts = append(engineOpts, layout.WithStageHook(opts.StageHook))
	}
	return layout.New(opts.Config, engineOpts...).Layout(d)
}
