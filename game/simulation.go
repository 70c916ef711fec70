package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/pointmorph/telemetry"
)

// perfFlushInterval is how often aggregated frame stats are written out.
const perfFlushInterval = time.Second

// Update runs one frame of the graphical loop: input, solver progress,
// playback tick and the ECS apply pass.
func (g *Game) Update() {
	g.perfCollector.StartFrame()

	g.handleInput()

	g.perfCollector.StartPhase(telemetry.PhasePollProgress)
	g.pollProgress()

	g.perfCollector.StartPhase(telemetry.PhaseSimUpdate)
	g.stepSim()

	g.perfCollector.StartPhase(telemetry.PhaseApply)
	g.applyParticles()

	g.tick++
}

// UpdateHeadless runs one frame without input or rendering.
func (g *Game) UpdateHeadless() {
	g.perfCollector.StartFrame()

	g.perfCollector.StartPhase(telemetry.PhasePollProgress)
	g.pollProgress()

	g.perfCollector.StartPhase(telemetry.PhaseSimUpdate)
	g.stepSim()

	g.perfCollector.StartPhase(telemetry.PhaseApply)
	g.applyParticles()

	g.perfCollector.EndFrame()
	g.flushPerf()

	g.tick++
}

// stepSim advances playback one tick once a correspondence is installed.
func (g *Game) stepSim() {
	if !g.haveAssignment {
		return
	}
	if err := g.sim.Update(g.state); err != nil {
		slog.Error("sim update failed", "error", err)
	}
}

// applyParticles copies the simulator's output into the ECS world. Each
// entity's slot picks its particle, so iteration order does not matter.
func (g *Game) applyParticles() {
	if !g.haveAssignment {
		return
	}
	out := g.sim.Particles()

	query := g.particleFilter.Query()
	for query.Next() {
		pos, tint, slot := query.Get()
		p := &out[slot.Index]

		pos.X, pos.Y = p.X, p.Y
		tint.R, tint.G, tint.B = p.R, p.G, p.B
		tint.A = 255
	}
}

// flushPerf writes aggregated frame stats once per interval.
func (g *Game) flushPerf() {
	if time.Since(g.lastPerfFlush) < perfFlushInterval {
		return
	}
	g.lastPerfFlush = time.Now()

	stats := g.perfCollector.Stats()
	if g.logStats {
		slog.Info("frame stats",
			"fps", stats.FPS,
			"avg_frame", stats.AvgFrameDuration,
			"max_frame", stats.MaxFrameDuration)
	}
	if g.outputManager != nil {
		windowEnd := time.Since(g.perfStarted).Seconds()
		if err := g.outputManager.WritePerf(stats, windowEnd); err != nil {
			slog.Error("failed to write perf stats", "error", err)
		}
	}
}
