package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/umlflow/pkg/cache"
	"github.com/matzehuels/umlflow/pkg/layout"
	"github.com/matzehuels/umlflow/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "umlflow"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands. Logs go to the writer given to
// New; command results and the progress spinner use stdout and stderr.
type CLI struct {
	Logger *log.Logger

	out    printer
	status io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    printer{w: os.Stdout},
		status: os.Stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/umlflow/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Layout Config Flags
// =============================================================================

// configFlags binds layout.Config fields to command flags. Values from the
// --config file are applied first; flags the user set explicitly win.
type configFlags struct {
	path string
	cfg  layout.Config
}

func (f *configFlags) register(cmd *cobra.Command) {
	def := layout.DefaultConfig()
	fs := cmd.Flags()
	fs.StringVar(&f.path, "config", "", "layout config file (TOML)")
	fs.Float64Var(&f.cfg.CanvasWidth, "canvas-width", def.CanvasWidth, "minimum canvas width")
	fs.Float64Var(&f.cfg.CanvasHeight, "canvas-height", def.CanvasHeight, "minimum canvas height")
	fs.Float64Var(&f.cfg.LayerSpacing, "layer-spacing", def.LayerSpacing, "vertical distance between layers")
	fs.Float64Var(&f.cfg.NodeSpacing, "node-spacing", def.NodeSpacing, "horizontal gap between nodes")
	fs.Float64Var(&f.cfg.LaneGap, "lane-gap", def.LaneGap, "gap between adjacent swimlanes")
	fs.IntVar(&f.cfg.MaxIterations, "iterations", def.MaxIterations, "crossing reduction sweeps")
	fs.BoolVar(&f.cfg.Debug, "debug", false, "log per-stage layout diagnostics")
}

// resolve returns the effective config for cmd.
func (f *configFlags) resolve(cmd *cobra.Command) (layout.Config, error) {
	cfg := layout.DefaultConfig()
	if f.path != "" {
		var err error
		if cfg, err = layout.LoadConfig(f.path); err != nil {
			return layout.Config{}, err
		}
	}

	fs := cmd.Flags()
	override := func(name string, dst *float64, v float64) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	override("canvas-width", &cfg.CanvasWidth, f.cfg.CanvasWidth)
	override("canvas-height", &cfg.CanvasHeight, f.cfg.CanvasHeight)
	override("layer-spacing", &cfg.LayerSpacing, f.cfg.LayerSpacing)
	override("node-spacing", &cfg.NodeSpacing, f.cfg.NodeSpacing)
	override("lane-gap", &cfg.LaneGap, f.cfg.LaneGap)
	if fs.Changed("iterations") {
		cfg.MaxIterations = f.cfg.MaxIterations
	}
	if fs.Changed("debug") {
		cfg.Debug = f.cfg.Debug
	}
	return cfg, nil
}
