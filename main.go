package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pointmorph/config"
	"github.com/pthm-cable/pointmorph/game"
	"github.com/pthm-cable/pointmorph/morph"
	"github.com/pthm-cable/pointmorph/preset"
	"github.com/pthm-cable/pointmorph/sim"
	"github.com/pthm-cable/pointmorph/solver"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	sourcePath := flag.String("source", "", "Source image (png or jpeg)")
	targetPath := flag.String("target", "", "Target image (png or jpeg)")
	presetPath := flag.String("preset", "", "Load a saved morph instead of solving")
	savePreset := flag.String("save-preset", "", "Save the finished morph to this path")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	algorithm := flag.String("algorithm", "", "Solver algorithm: optimal | genetic (empty = use config)")
	sidelen := flag.Int("sidelen", 0, "Particle grid side length (0 = use config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	settings, err := buildSettings(cfg, *algorithm, *sidelen, rngSeed)
	if err != nil {
		slog.Error("invalid settings", "error", err)
		os.Exit(1)
	}

	var source, target *morph.ParticleGrid
	var assignment []uint32

	switch {
	case *presetPath != "":
		p, err := preset.Load(*presetPath)
		if err != nil {
			slog.Error("failed to load preset", "error", err)
			os.Exit(1)
		}
		source, target, err = p.Grids()
		if err != nil {
			slog.Error("failed to rebuild preset grids", "error", err)
			os.Exit(1)
		}
		settings.Sidelen = p.Sidelen
		settings.ProximityImportance = p.ProximityImportance
		if alg, err := solver.ParseAlgorithm(p.Algorithm); err == nil {
			settings.Algorithm = alg
		}
		assignment = p.Assignment
		slog.Info("preset loaded", "path", *presetPath, "sidelen", p.Sidelen)

	case *sourcePath != "" && *targetPath != "":
		source, err = loadGrid(*sourcePath, settings)
		if err != nil {
			slog.Error("failed to load source image", "path", *sourcePath, "error", err)
			os.Exit(1)
		}
		target, err = loadGrid(*targetPath, settings)
		if err != nil {
			slog.Error("failed to load target image", "path", *targetPath, "error", err)
			os.Exit(1)
		}

	default:
		slog.Error("either -preset or both -source and -target are required")
		os.Exit(1)
	}

	motion, style, err := motionFromConfig(cfg)
	if err != nil {
		slog.Error("invalid motion config", "error", err)
		os.Exit(1)
	}

	opts := game.Options{
		Seed:           rngSeed,
		Headless:       *headless,
		LogStats:       *logStats,
		StatsWindowSec: cfg.Telemetry.StatsWindow,
		OutputDir:      *outputDir,
		PresetPath:     *savePreset,
		Settings:       settings,
		Motion:         motion,
		Style:          style,
		Loop:           cfg.Motion.Loop,
		Speed:          float32(cfg.Motion.Speed),
		Assignment:     assignment,
	}

	if *headless {
		runHeadless(source, target, opts, assignment == nil, *maxTicks)
		return
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Pointmorph")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(source, target, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	if assignment == nil {
		if err := g.StartMorph(); err != nil {
			slog.Error("failed to start solve", "error", err)
			os.Exit(1)
		}
	}

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// runHeadless solves and plays back without raylib. The loop ends when the
// solve has finished and playback has stopped, or at the tick cap.
func runHeadless(source, target *morph.ParticleGrid, opts game.Options, solve bool, maxTicks int) {
	g, err := game.NewGameWithOptions(source, target, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	if solve {
		if err := g.StartMorph(); err != nil {
			slog.Error("failed to start solve", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("starting headless run",
		"seed", opts.Seed,
		"algorithm", opts.Settings.Algorithm.String(),
		"sidelen", opts.Settings.Sidelen,
		"max_ticks", maxTicks)

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for range ticker.C {
		g.UpdateHeadless()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
		if !g.Solving() && g.HasAssignment() && maxTicks == 0 {
			// One full playback sweep after the solve, then exit.
			sweep := int32(60 * opts.Motion.Duration / opts.Speed)
			if g.Tick() > sweep {
				slog.Info("headless run complete", "tick", g.Tick())
				return
			}
		}
	}
}

// buildSettings merges config with CLI overrides.
func buildSettings(cfg *config.Config, algorithm string, sidelen int, seed int64) (solver.Settings, error) {
	algName := cfg.Solver.Algorithm
	if algorithm != "" {
		algName = algorithm
	}
	alg, err := solver.ParseAlgorithm(algName)
	if err != nil {
		return solver.Settings{}, err
	}

	side := cfg.Solver.Sidelen
	if sidelen > 0 {
		side = sidelen
	}

	s := solver.Settings{
		Sidelen:             side,
		ProximityImportance: cfg.Solver.ProximityImportance,
		Algorithm:           alg,
		Crop: morph.CropScale{
			OffsetX: cfg.Solver.CropOffsetX,
			OffsetY: cfg.Solver.CropOffsetY,
			Zoom:    cfg.Solver.CropZoom,
		},
		Seed: seed,
		Genetic: solver.GeneticParams{
			Population:  cfg.Solver.Genetic.Population,
			Generations: cfg.Solver.Genetic.Generations,
			SwapsPerGen: cfg.Solver.Genetic.SwapsPerGen,
			InitTemp:    cfg.Solver.Genetic.InitTemp,
			Cooling:     cfg.Solver.Genetic.Cooling,
		},
	}
	return s, s.Validate()
}

// motionFromConfig builds playback parameters from config.
func motionFromConfig(cfg *config.Config) (sim.Params, sim.Style, error) {
	style, err := sim.ParseStyle(cfg.Motion.Style)
	if err != nil {
		return sim.Params{}, 0, err
	}
	return sim.Params{
		SwirlAmount:  float32(cfg.Motion.SwirlAmount),
		Turbulence:   float32(cfg.Motion.Turbulence),
		SnapStrength: float32(cfg.Motion.SnapStrength),
		Duration:     float32(cfg.Motion.Duration),
	}, style, nil
}

// loadGrid decodes an image and resamples it into a particle grid.
func loadGrid(path string, settings solver.Settings) (*morph.ParticleGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return morph.NewGridFromImage(img, settings.Sidelen, settings.Crop)
}
