package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Screen.Width != 1280 || cfg.Screen.Height != 720 {
		t.Errorf("screen = %dx%d, want 1280x720", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Solver.Sidelen != 128 {
		t.Errorf("sidelen = %d, want 128", cfg.Solver.Sidelen)
	}
	if cfg.Solver.Algorithm != "genetic" {
		t.Errorf("algorithm = %q, want genetic", cfg.Solver.Algorithm)
	}
	if cfg.Solver.CropZoom != 1.0 {
		t.Errorf("crop zoom = %v, want 1.0", cfg.Solver.CropZoom)
	}
	if cfg.Motion.Style != "linear" || cfg.Motion.Duration != 3.0 {
		t.Errorf("motion = %q/%v, want linear/3.0", cfg.Motion.Style, cfg.Motion.Duration)
	}
	if !cfg.Motion.Loop {
		t.Error("loop default = false, want true")
	}
	if cfg.Telemetry.StatsWindow != 1.0 || cfg.Telemetry.PerfCollectorWindow != 60 {
		t.Errorf("telemetry = %v/%d", cfg.Telemetry.StatsWindow, cfg.Telemetry.PerfCollectorWindow)
	}

	if cfg.Derived.Particles != 128*128 {
		t.Errorf("derived particles = %d, want %d", cfg.Derived.Particles, 128*128)
	}
	if cfg.Derived.ScreenW32 != 1280 || cfg.Derived.ScreenH32 != 720 {
		t.Errorf("derived screen = %vx%v", cfg.Derived.ScreenW32, cfg.Derived.ScreenH32)
	}
}

func TestLoadOverridesMergeWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte("solver:\n  sidelen: 64\n  algorithm: optimal\nmotion:\n  style: swirl\n")
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Solver.Sidelen != 64 {
		t.Errorf("sidelen = %d, want override 64", cfg.Solver.Sidelen)
	}
	if cfg.Solver.Algorithm != "optimal" {
		t.Errorf("algorithm = %q, want override optimal", cfg.Solver.Algorithm)
	}
	if cfg.Motion.Style != "swirl" {
		t.Errorf("style = %q, want override swirl", cfg.Motion.Style)
	}

	// Fields absent from the file keep their defaults.
	if cfg.Screen.Width != 1280 {
		t.Errorf("screen width = %d, want default 1280", cfg.Screen.Width)
	}
	if cfg.Solver.Genetic.Population != 6 || cfg.Solver.Genetic.Generations != 4000 {
		t.Errorf("genetic = %+v, want defaults", cfg.Solver.Genetic)
	}
	if cfg.Derived.Particles != 64*64 {
		t.Errorf("derived particles = %d, want %d", cfg.Derived.Particles, 64*64)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Solver.Sidelen = 96

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if back.Solver.Sidelen != 96 {
		t.Errorf("round-tripped sidelen = %d, want 96", back.Solver.Sidelen)
	}
}
