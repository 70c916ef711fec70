// Package config provides configuration loading and access for the morph
// engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Solver    SolverConfig    `yaml:"solver"`
	Motion    MotionConfig    `yaml:"motion"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SolverConfig holds correspondence solver parameters.
type SolverConfig struct {
	Sidelen             int    `yaml:"sidelen"`              // particle grid side, 64..256
	ProximityImportance int64  `yaml:"proximity_importance"` // color-cost weight, 0..50
	Algorithm           string `yaml:"algorithm"`            // optimal | genetic

	// Crop window applied before grid construction
	CropOffsetX float64 `yaml:"crop_offset_x"`
	CropOffsetY float64 `yaml:"crop_offset_y"`
	CropZoom    float64 `yaml:"crop_zoom"`

	Genetic GeneticConfig `yaml:"genetic"`
}

// GeneticConfig holds genetic strategy parameters (see cmd/tune).
type GeneticConfig struct {
	Population  int     `yaml:"population"`
	Generations int     `yaml:"generations"`
	SwapsPerGen int     `yaml:"swaps_per_gen"`
	InitTemp    float64 `yaml:"init_temp"`
	Cooling     float64 `yaml:"cooling"`
}

// MotionConfig holds playback defaults.
type MotionConfig struct {
	Style        string  `yaml:"style"` // linear | float | swirl | dust | magnet_snap
	SwirlAmount  float64 `yaml:"swirl_amount"`
	Turbulence   float64 `yaml:"turbulence"`
	SnapStrength float64 `yaml:"snap_strength"`
	Duration     float64 `yaml:"duration"` // seconds per full sweep
	Loop         bool    `yaml:"loop"`
	Speed        float64 `yaml:"speed"` // playback speed multiplier
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32
	ScreenH32 float32
	Particles int // Sidelen squared
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.Particles = c.Solver.Sidelen * c.Solver.Sidelen
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
