// Package pipeline runs the layout → render pipeline with caching.
//
// Both the CLI and the HTTP server go through a [Runner], so caching,
// hashing and observability hooks behave the same everywhere.
//
// # Stages
//
//  1. Layout: [layout.Engine] computes positions for a [flow.Diagram]. The
//     result is cached under a key derived from the diagram, the effective
//     config and the build version.
//  2. Render: the result is encoded as JSON or drawn through Graphviz
//     (DOT, SVG, PNG, PDF). Rendered bytes are cached per format.
//
// Fallback layouts are returned but never cached, so a transient failure
// does not stick.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, diagram, pipeline.Options{Format: "svg"})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("out.svg", res.Artifact, 0o644)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/umlflow/pkg/cache"
	"github.com/matzehuels/umlflow/pkg/errors"
	"github.com/matzehuels/umlflow/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// DefaultFormat is the default output format.
const DefaultFormat = FormatJSON

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. It supports JSON for API requests.
type Options struct {
	// Layout options
	Config  layout.Config `json:"config"`
	Refresh bool          `json:"refresh,omitempty"` // skip cache reads

	// Render options
	Format    string  `json:"format,omitempty"`
	Detailed  bool    `json:"detailed,omitempty"`
	HideLanes bool    `json:"hide_lanes,omitempty"`
	Scale     float64 `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger    *log.Logger      `json:"-"`
	StageHook layout.StageHook `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed layout.
	Layout *layout.Result

	// DiagramHash is the content hash of the input diagram.
	DiagramHash string

	// ConfigHash is the content hash of the effective layout config.
	ConfigHash string

	// Artifact is the rendered output in Options.Format.
	Artifact []byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits per stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults fills zero layout options.
func (o *Options) SetLayoutDefaults() {
	o.Config.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and validates the config.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return o.Config.Validate()
}

// SetRenderDefaults fills zero render options and lower-cases the format.
func (o *Options) SetRenderDefaults() {
	o.Format = strings.ToLower(o.Format)
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and validates format and scale.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := errors.ValidateOutputFormat(o.Format); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	return nil
}

// ValidateAndSetDefaults validates for the full pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// ConfigHash hashes the effective layout config.
func (o *Options) ConfigHash() (string, error) {
	cfg := o.Config
	cfg.SetDefaults()
	// Debug changes logging, not positions.
	cfg.Debug = false
	h, err := cache.HashJSON(cfg)
	if err != nil {
		return "", fmt.Errorf("hash config: %w", err)
	}
	return h, nil
}

// ArtifactKeyOpts returns cache key options for rendering.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    o.Format,
		Detailed:  o.Detailed,
		HideLanes: o.HideLanes,
		Scale:     o.Scale,
	}
}
