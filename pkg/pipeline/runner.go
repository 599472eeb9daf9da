package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlflow/pkg/buildinfo"
	"github.com/matzehuels/umlflow/pkg/cache"
	"github.com/matzehuels/umlflow/pkg/flow"
	"github.com/matzehuels/umlflow/pkg/layout"
	"github.com/matzehuels/umlflow/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// calls with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses DefaultKeyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs layout then render.
func (r *Runner) Execute(ctx context.Context, d flow.Diagram, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	layoutStart := time.Now()
	lr, err := r.layout(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result := &Result{
		Layout:      lr.res,
		DiagramHash: lr.diagramHash,
		ConfigHash:  lr.configHash,
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = lr.hit

	r.Logger.Info("computed layout",
		"nodes", len(lr.res.Positions),
		"layers", len(lr.res.Layers),
		"cached", lr.hit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifact, renderHit, err := r.render(ctx, lr, d, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifact = artifact
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered output",
		"format", opts.Format,
		"bytes", len(artifact),
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo computes the layout of d and reports whether it came
// from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, d flow.Diagram, opts Options) (*layout.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	lr, err := r.layout(ctx, d, opts)
	if err != nil {
		return nil, false, err
	}
	return lr.res, lr.hit, nil
}

// Layout is LayoutWithCacheInfo without the hit flag.
func (r *Runner) Layout(ctx context.Context, d flow.Diagram, opts Options) (*layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, d, opts)
	return res, err
}

// RenderWithCacheInfo renders res in opts.Format and reports whether the
// bytes came from the cache. d supplies labels and colors.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *layout.Result, d flow.Diagram, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := layout.MarshalResult(res)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	diagramHash, err := cache.HashJSON(d)
	if err != nil {
		return nil, false, err
	}
	lr := &layoutRun{res: res, diagramHash: diagramHash, key: cache.Hash(layoutData) + ":" + diagramHash}
	return r.render(ctx, lr, d, opts)
}

// Render is RenderWithCacheInfo without the hit flag.
func (r *Runner) Render(ctx context.Context, res *layout.Result, d flow.Diagram, opts Options) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, res, d, opts)
	return data, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// layoutRun carries what render needs from the layout stage.
type layoutRun struct {
	res         *layout.Result
	hit         bool
	diagramHash string
	configHash  string
	key         string // identifies positions and diagram text
}

func (r *Runner) layout(ctx context.Context, d flow.Diagram, opts Options) (*layoutRun, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(d.Flow))
	start := time.Now()

	diagramHash, err := cache.HashJSON(d)
	if err != nil {
		hooks.OnLayoutComplete(ctx, observability.LayoutSummary{}, time.Since(start), err)
		return nil, err
	}
	configHash, err := opts.ConfigHash()
	if err != nil {
		hooks.OnLayoutComplete(ctx, observability.LayoutSummary{}, time.Since(start), err)
		return nil, err
	}
	key := r.Keyer.LayoutKey(diagramHash, cache.LayoutKeyOpts{
		ConfigHash: configHash,
		Version:    buildinfo.CacheSalt(),
	})
	lr := &layoutRun{diagramHash: diagramHash, configHash: configHash, key: key}

	if !opts.Refresh {
		if res, ok := r.cachedLayout(ctx, key); ok {
			lr.res, lr.hit = res, true
			hooks.OnLayoutComplete(ctx, summarize(res, true), time.Since(start), nil)
			return lr, nil
		}
	}

	lr.res = ComputeLayout(d, opts)
	if lr.res.Fallback {
		r.Logger.Warn("layout fell back to stacked boxes", "reason", lr.res.Error)
	} else if data, err := layout.MarshalResult(lr.res); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	hooks.OnLayoutComplete(ctx, summarize(lr.res, false), time.Since(start), nil)
	return lr, nil
}

func (r *Runner) cachedLayout(ctx context.Context, key string) (*layout.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return nil, false
	}
	res, err := layout.UnmarshalResult(data)
	if err != nil {
		// Stale encoding; recompute and overwrite.
		r.Logger.Debug("discarding unreadable cache entry", "err", err)
		observability.Cache().OnCacheMiss(ctx, "layout")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return res, true
}

func (r *Runner) render(ctx context.Context, lr *layoutRun, d flow.Diagram, opts Options) ([]byte, bool, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()

	// JSON is cheaper to encode than to fetch.
	cacheable := opts.Format != FormatJSON && !lr.res.Fallback
	key := r.Keyer.ArtifactKey(lr.key, opts.ArtifactKeyOpts())

	if cacheable && !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "err", err)
		case hit:
			observability.Cache().OnCacheHit(ctx, "artifact")
			hooks.OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), nil)
			return data, true, nil
		default:
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
	}

	data, err := RenderLayout(ctx, lr.res, d, opts)
	hooks.OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if cacheable {
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return data, false, nil
}

func summarize(res *layout.Result, hit bool) observability.LayoutSummary {
	return observability.LayoutSummary{
		Nodes:          len(res.Positions),
		Layers:         len(res.Layers),
		CrossingsAfter: res.Stats.CrossingsAfter,
		Fallback:       res.Fallback,
		CacheHit:       hit,
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
