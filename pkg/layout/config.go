package layout

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/umlflow/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultCanvasWidth    = 1200.0
	DefaultCanvasHeight   = 800.0
	DefaultMarginX        = 50.0
	DefaultMarginY        = 50.0
	DefaultLayerSpacing   = 120.0
	DefaultNodeSpacing    = 60.0
	DefaultMinNodeSpacing = 20.0
	DefaultLaneSpacing    = 30.0
	DefaultLaneGap        = 20.0
	DefaultLanePadding    = 20.0
	DefaultLaneMargin     = 10.0
	DefaultMinLaneWidth   = 160.0
	DefaultFallbackGap    = 20.0

	// DefaultMaxIterations bounds the barycenter sweeps.
	DefaultMaxIterations = 5
)

// Config holds every layout parameter. All values are in pixels except
// MaxIterations. A Config is fixed for the whole run.
type Config struct {
	CanvasWidth    float64 `toml:"canvas_width" json:"canvas_width"`
	CanvasHeight   float64 `toml:"canvas_height" json:"canvas_height"`
	MarginX        float64 `toml:"margin_x" json:"margin_x"`
	MarginY        float64 `toml:"margin_y" json:"margin_y"`
	LayerSpacing   float64 `toml:"layer_spacing" json:"layer_spacing"`
	NodeSpacing    float64 `toml:"node_spacing" json:"node_spacing"`
	MinNodeSpacing float64 `toml:"min_node_spacing" json:"min_node_spacing"`

	// Swimlanes
	LaneSpacing  float64 `toml:"lane_spacing" json:"lane_spacing"` // between nodes inside one lane
	LaneGap      float64 `toml:"lane_gap" json:"lane_gap"`         // between adjacent lanes
	LanePadding  float64 `toml:"lane_padding" json:"lane_padding"` // added on each side of a lane's content
	LaneMargin   float64 `toml:"lane_margin" json:"lane_margin"`   // keep-out inside the band edges
	MinLaneWidth float64 `toml:"min_lane_width" json:"min_lane_width"`

	MaxIterations int     `toml:"max_iterations" json:"max_iterations"`
	FallbackGap   float64 `toml:"fallback_gap" json:"fallback_gap"`
	Debug         bool    `toml:"debug" json:"debug"`
}

// DefaultConfig returns a Config with every field at its default.
func DefaultConfig() Config {
	return Config{
		CanvasWidth:    DefaultCanvasWidth,
		CanvasHeight:   DefaultCanvasHeight,
		MarginX:        DefaultMarginX,
		MarginY:        DefaultMarginY,
		LayerSpacing:   DefaultLayerSpacing,
		NodeSpacing:    DefaultNodeSpacing,
		MinNodeSpacing: DefaultMinNodeSpacing,
		LaneSpacing:    DefaultLaneSpacing,
		LaneGap:        DefaultLaneGap,
		LanePadding:    DefaultLanePadding,
		LaneMargin:     DefaultLaneMargin,
		MinLaneWidth:   DefaultMinLaneWidth,
		MaxIterations:  DefaultMaxIterations,
		FallbackGap:    DefaultFallbackGap,
	}
}

// SetDefaults completes a Config built in code.
//
// A Config with no field set apart from Debug becomes DefaultConfig. Any
// other Config only gets defaults for the fields that must be positive
// (canvas size, layer and node spacing, lane width, iterations). Margins,
// gaps and paddings are kept as given, since zero is a valid value for them.
// Configs read from files or request bodies are decoded over DefaultConfig
// instead and need no defaults.
func (c *Config) SetDefaults() {
	if (Config{Debug: c.Debug}) == *c {
		debug := c.Debug
		*c = DefaultConfig()
		c.Debug = debug
		return
	}
	setDefault(&c.CanvasWidth, DefaultCanvasWidth)
	setDefault(&c.CanvasHeight, DefaultCanvasHeight)
	setDefault(&c.LayerSpacing, DefaultLayerSpacing)
	setDefault(&c.NodeSpacing, DefaultNodeSpacing)
	setDefault(&c.MinLaneWidth, DefaultMinLaneWidth)
	if c.MaxIterations == 0 {
		c.MaxIterations = DefaultMaxIterations
	}
}

func setDefault(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// Validate rejects non-positive sizes and negative spacings.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"canvas_width", c.CanvasWidth},
		{"canvas_height", c.CanvasHeight},
		{"layer_spacing", c.LayerSpacing},
		{"node_spacing", c.NodeSpacing},
		{"min_lane_width", c.MinLaneWidth},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %g", p.name, p.value)
		}
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"margin_x", c.MarginX},
		{"margin_y", c.MarginY},
		{"min_node_spacing", c.MinNodeSpacing},
		{"lane_spacing", c.LaneSpacing},
		{"lane_gap", c.LaneGap},
		{"lane_padding", c.LanePadding},
		{"lane_margin", c.LaneMargin},
		{"fallback_gap", c.FallbackGap},
	}
	for _, n := range nonNegative {
		if n.value < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be negative, got %g", n.name, n.value)
		}
	}

	if c.MinNodeSpacing > c.NodeSpacing {
		return errors.New(errors.ErrCodeInvalidConfig, "min_node_spacing (%g) exceeds node_spacing (%g)", c.MinNodeSpacing, c.NodeSpacing)
	}
	if c.MaxIterations <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_iterations must be positive, got %d", c.MaxIterations)
	}
	return nil
}

// LoadConfig reads a TOML config file. Keys that are absent keep their
// defaults; unknown keys are rejected.
//
//	canvas_width  = 1600
//	layer_spacing = 100
//	debug         = true
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s not found", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML config data over the defaults and validates it.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
