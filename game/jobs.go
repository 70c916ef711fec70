package game

import (
	"log/slog"

	"github.com/pthm-cable/pointmorph/preset"
	"github.com/pthm-cable/pointmorph/solver"
	"github.com/pthm-cable/pointmorph/telemetry"
)

// StartMorph launches a background solve with the game's current settings.
// A running job is cancelled and replaced; its remaining messages are
// dropped with it, so a superseded result is never applied.
func (g *Game) StartMorph() error {
	if g.job != nil {
		g.job.Cancel()
		g.job = nil
		g.solveCollector = nil
	}

	job, err := solver.StartJob(g.source, g.target, g.settings)
	if err != nil {
		return err
	}
	g.job = job
	g.solving = true
	g.progress = 0

	g.solveCollector = telemetry.NewSolveCollector(
		g.statsWindowSec,
		g.settings.Algorithm.String(),
		g.settings.CostModel(),
		g.source, g.target,
	)

	slog.Info("solve started",
		"algorithm", g.settings.Algorithm.String(),
		"sidelen", g.settings.Sidelen,
		"proximity_importance", g.settings.ProximityImportance)
	return nil
}

// pollProgress drains the job's progress channel and applies each message.
func (g *Game) pollProgress() {
	if g.job == nil {
		return
	}

	for _, m := range g.job.Messages().Drain() {
		g.applyMessage(m)
	}

	if g.solveCollector != nil && g.solveCollector.WindowReady() {
		g.flushSolveWindow()
	}
}

// applyMessage handles one solver message.
func (g *Game) applyMessage(m solver.Msg) {
	switch msg := m.(type) {
	case solver.Progress:
		g.progress = msg.Fraction
		if g.solveCollector != nil {
			g.solveCollector.RecordProgress(float64(msg.Fraction))
		}

	case solver.PreviewUpdate:
		if g.solveCollector != nil {
			g.solveCollector.RecordPreview()
		}
		if g.preview != nil {
			g.preview.Update(msg.Width, msg.Height, msg.Pix)
		}

	case solver.AssignmentUpdate:
		if g.solveCollector != nil {
			g.solveCollector.RecordAssignment(msg.Assignment)
		}
		g.installAssignment(msg.Assignment, false)

	case solver.Done:
		g.installAssignment(msg.Result.Assignment, true)
		g.finishJob()
		if g.presetPath != "" {
			g.savePreset(msg.Result.Assignment)
		}

	case solver.Cancelled:
		g.finishJob()

	case solver.Failed:
		slog.Error("solve failed", "error", msg.Message)
		g.finishJob()
	}
}

// installAssignment feeds a correspondence into the simulator. Final
// assignments also rewind playback to the start.
func (g *Game) installAssignment(assign []uint32, final bool) {
	if err := g.sim.SetAssignments(assign, uint32(g.settings.Sidelen)); err != nil {
		slog.Error("rejected assignment", "error", err)
		return
	}
	if !g.haveAssignment || final {
		g.sim.PreparePlay(g.state, false)
	}
	g.haveAssignment = true
}

// finishJob closes out telemetry and drops the job after a terminal
// message.
func (g *Game) finishJob() {
	if g.solveCollector != nil {
		g.flushSolveWindow()
		g.solveCollector = nil
	}
	g.job = nil
	g.solving = false
}

// flushSolveWindow writes one telemetry window.
func (g *Game) flushSolveWindow() {
	stats := g.solveCollector.CloseWindow()
	if g.logStats {
		slog.Info("solve window",
			"window_end", stats.WindowEnd,
			"progress", stats.Progress,
			"progress_rate", stats.ProgressRate,
			"cost_per_pair", stats.CostPerPair,
			"cost_p90", stats.CostP90)
	}
	if g.outputManager != nil {
		if err := g.outputManager.WriteSolve(stats); err != nil {
			slog.Error("failed to write solve stats", "error", err)
		}
	}
}

// savePreset persists the finished morph for later replay.
func (g *Game) savePreset(assign []uint32) {
	p := &preset.Preset{
		Name:                "morph",
		Sidelen:             g.settings.Sidelen,
		SourcePixels:        g.source.Pixels(),
		TargetPixels:        g.target.Pixels(),
		ProximityImportance: g.settings.ProximityImportance,
		Algorithm:           g.settings.Algorithm.String(),
		Assignment:          assign,
	}
	if err := preset.Save(g.presetPath, p); err != nil {
		slog.Error("failed to save preset", "path", g.presetPath, "error", err)
		return
	}
	slog.Info("preset saved", "path", g.presetPath)
}
