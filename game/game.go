// Package game owns the morph session: it runs the background solve,
// feeds its progress into the simulator, advances playback every frame and
// renders particles through the ECS world.
package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/pointmorph/components"
	"github.com/pthm-cable/pointmorph/config"
	"github.com/pthm-cable/pointmorph/morph"
	"github.com/pthm-cable/pointmorph/renderer"
	"github.com/pthm-cable/pointmorph/sim"
	"github.com/pthm-cable/pointmorph/solver"
	"github.com/pthm-cable/pointmorph/telemetry"
	"github.com/pthm-cable/pointmorph/ui"
)

// Options holds game initialization parameters.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	PresetPath     string // save the finished morph here, empty = no save

	Settings solver.Settings
	Motion   sim.Params
	Style    sim.Style
	Loop     bool
	Speed    float32

	// Assignment preloads a previously solved correspondence, skipping the
	// initial solve.
	Assignment []uint32
}

// Game holds the complete session state.
type Game struct {
	world          *ecs.World
	particleMapper *ecs.Map3[components.Position, components.Tint, components.Slot]
	particleFilter *ecs.Filter3[components.Position, components.Tint, components.Slot]

	source *morph.ParticleGrid
	target *morph.ParticleGrid

	sim   *sim.Simulator
	state *sim.State

	settings solver.Settings
	motion   sim.Params

	job            *solver.Job
	solveCollector *telemetry.SolveCollector
	solving        bool
	progress       float32
	haveAssignment bool

	// Rendering (nil in headless mode)
	particleRenderer *renderer.ParticleRenderer
	preview          *renderer.PreviewTexture
	viewport         renderer.Viewport
	controls         *ui.ControlsPanel

	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	perfStarted   time.Time
	lastPerfFlush time.Time

	headless       bool
	logStats       bool
	statsWindowSec float64
	presetPath     string

	rngSeed int64
	tick    int32
	paused  bool

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game over prepared source and target grids.
func NewGameWithOptions(source, target *morph.ParticleGrid, opts Options) (*Game, error) {
	cfg := config.Cfg()

	if source.Sidelen != opts.Settings.Sidelen || target.Sidelen != opts.Settings.Sidelen {
		return nil, fmt.Errorf("grids are %dx%d and %dx%d, settings expect %d",
			source.Sidelen, source.Sidelen, target.Sidelen, target.Sidelen, opts.Settings.Sidelen)
	}

	simulator, err := sim.New(source, target, opts.Seed)
	if err != nil {
		return nil, err
	}
	simulator.SetStyle(opts.Style)
	simulator.SetParams(opts.Motion)

	world := ecs.NewWorld()
	g := &Game{
		world:          world,
		particleMapper: ecs.NewMap3[components.Position, components.Tint, components.Slot](world),
		particleFilter: ecs.NewFilter3[components.Position, components.Tint, components.Slot](world),
		source:         source,
		target:         target,
		sim:            simulator,
		state:          simulator.NewState(),
		settings:       opts.Settings,
		motion:         opts.Motion,
		headless:       opts.Headless,
		logStats:       opts.LogStats,
		statsWindowSec: opts.StatsWindowSec,
		presetPath:     opts.PresetPath,
		rngSeed:        opts.Seed,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
		perfStarted:    time.Now(),
		lastPerfFlush:  time.Now(),
	}
	g.state.Loop = opts.Loop
	if opts.Speed > 0 {
		g.state.Speed = opts.Speed
	}

	if !opts.Headless {
		g.viewport = renderer.FitViewport(g.screenWidth, g.screenHeight, 40)
		g.particleRenderer = renderer.NewParticleRenderer(g.viewport, source.Sidelen)
		g.preview = renderer.NewPreviewTexture()
		g.controls = ui.NewControlsPanel(int32(g.screenWidth)-270, 10, 260)
	}

	g.spawnParticles()

	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			return nil, err
		}
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	if opts.Assignment != nil {
		if err := simulator.SetAssignments(opts.Assignment, uint32(source.Sidelen)); err != nil {
			return nil, err
		}
		g.haveAssignment = true
		simulator.PreparePlay(g.state, false)
	}

	return g, nil
}

// spawnParticles creates one entity per particle, starting at the source
// position and color. Positions stay normalized; projection happens at
// draw time.
func (g *Game) spawnParticles() {
	for i, p := range g.source.Particles {
		pos := components.Position{X: p.X, Y: p.Y}
		tint := components.Tint{R: p.R, G: p.G, B: p.B, A: 255}
		slot := components.Slot{Index: i}
		g.particleMapper.NewEntity(&pos, &tint, &slot)
	}
}

// Unload stops background work and releases resources.
func (g *Game) Unload() {
	if g.job != nil {
		g.job.Cancel()
	}
	if g.sim != nil {
		g.sim.Close()
	}
	if g.preview != nil {
		g.preview.Unload()
	}
	if g.outputManager != nil {
		g.outputManager.Close()
	}
}

// Tick returns the number of update calls so far.
func (g *Game) Tick() int32 {
	return g.tick
}

// Solving reports whether a background solve is in flight.
func (g *Game) Solving() bool {
	return g.solving
}

// HasAssignment reports whether playback has a correspondence to animate.
func (g *Game) HasAssignment() bool {
	return g.haveAssignment
}
