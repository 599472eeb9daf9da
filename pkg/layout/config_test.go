package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/umlflow/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.CanvasWidth != 1200 || c.CanvasHeight != 800 || c.LayerSpacing != 120 || c.MaxIterations != 5 {
		t.Errorf("DefaultConfig() = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestSetDefaults(t *testing.T) {
	t.Run("zero config", func(t *testing.T) {
		var c Config
		c.SetDefaults()
		if c != DefaultConfig() {
			t.Errorf("SetDefaults() on zero = %+v, want DefaultConfig()", c)
		}
	})

	t.Run("debug only", func(t *testing.T) {
		c := Config{Debug: true}
		c.SetDefaults()
		want := DefaultConfig()
		want.Debug = true
		if c != want {
			t.Errorf("SetDefaults() = %+v, want defaults with Debug", c)
		}
	})

	t.Run("partial config keeps explicit values", func(t *testing.T) {
		c := Config{CanvasWidth: 2000, MaxIterations: 9}
		c.SetDefaults()
		if c.CanvasWidth != 2000 || c.MaxIterations != 9 {
			t.Errorf("explicit values overwritten: %+v", c)
		}
		if c.NodeSpacing != DefaultNodeSpacing {
			t.Errorf("NodeSpacing = %v, want default", c.NodeSpacing)
		}
		if c.MarginX != 0 || c.LaneGap != 0 {
			t.Errorf("zero margin/gap replaced: MarginX=%v LaneGap=%v", c.MarginX, c.LaneGap)
		}
	})
}

func TestZeroMarginSurvivesEngine(t *testing.T) {
	cfg, err := ParseConfig([]byte("margin_x = 0\nlane_gap = 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	got := New(cfg).Config()
	if got.MarginX != 0 || got.LaneGap != 0 {
		t.Errorf("engine config MarginX=%v LaneGap=%v, want 0 from file", got.MarginX, got.LaneGap)
	}
	if got.MarginY != DefaultMarginY {
		t.Errorf("MarginY = %v, want default", got.MarginY)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero canvas width", func(c *Config) { c.CanvasWidth = 0 }},
		{"negative canvas height", func(c *Config) { c.CanvasHeight = -1 }},
		{"zero layer spacing", func(c *Config) { c.LayerSpacing = 0 }},
		{"negative margin", func(c *Config) { c.MarginX = -5 }},
		{"negative lane gap", func(c *Config) { c.LaneGap = -1 }},
		{"min spacing above spacing", func(c *Config) { c.MinNodeSpacing = 100 }},
		{"zero iterations", func(c *Config) { c.MaxIterations = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			err := c.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
canvas_width = 1600
layer_spacing = 90
margin_x = 0
debug = true
`))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.CanvasWidth != 1600 || cfg.LayerSpacing != 90 || !cfg.Debug {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.MarginX != 0 {
		t.Errorf("explicit zero margin_x = %v, want 0", cfg.MarginX)
	}
	if cfg.CanvasHeight != DefaultCanvasHeight {
		t.Errorf("absent key lost its default: %v", cfg.CanvasHeight)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"syntax", "canvas_width = "},
		{"unknown key", "canvas_depth = 3"},
		{"invalid value", "node_spacing = -10"},
		{"wrong type", `canvas_width = "wide"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.input)); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("ParseConfig() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.toml")
	if err := os.WriteFile(path, []byte("max_iterations = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.MaxIterations != 3 {
		t.Errorf("MaxIterations = %d, want 3", cfg.MaxIterations)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v", err)
	}
}
