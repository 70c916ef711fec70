package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pointmorph/renderer"
	"github.com/pthm-cable/pointmorph/sim"
	"github.com/pthm-cable/pointmorph/telemetry"
	"github.com/pthm-cable/pointmorph/ui"
)

// Draw renders the frame.
func (g *Game) Draw() {
	g.perfCollector.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	if g.haveAssignment {
		g.drawParticles()
	} else if g.preview != nil && g.preview.Ready() {
		// No animatable assignment yet; show the solver's own preview.
		g.preview.Draw(g.viewport)
	}
	g.particleRenderer.DrawFrame()

	if g.solving {
		renderer.DrawProgressBar(g.viewport, g.progress)
	}

	ui.DrawHUD(ui.HUDState{
		Style:     g.sim.Style().String(),
		Algorithm: g.settings.Algorithm.String(),
		Phase:     g.state.Phase,
		Speed:     g.state.Speed,
		Paused:    g.paused,
		Loop:      g.state.Loop,
		Solving:   g.solving,
		Progress:  g.progress,
	})

	g.drawControls()

	rl.EndDrawing()

	g.perfCollector.EndFrame()
	g.flushPerf()
}

// drawParticles renders every particle entity.
func (g *Game) drawParticles() {
	query := g.particleFilter.Query()
	for query.Next() {
		pos, tint, _ := query.Get()
		g.particleRenderer.DrawPoint(pos.X, pos.Y,
			rl.Color{R: tint.R, G: tint.G, B: tint.B, A: tint.A})
	}
}

// drawControls renders the slider panel and applies edits.
func (g *Game) drawControls() {
	if g.controls == nil {
		return
	}

	before := ui.ControlsState{
		Swirl:      g.motion.SwirlAmount,
		Turbulence: g.motion.Turbulence,
		Snap:       g.motion.SnapStrength,
		Duration:   g.motion.Duration,
		Speed:      g.state.Speed,
		Phase:      g.state.Phase,
	}
	after := g.controls.Draw(before)

	if after.Swirl != before.Swirl || after.Turbulence != before.Turbulence ||
		after.Snap != before.Snap || after.Duration != before.Duration {
		g.motion = sim.Params{
			SwirlAmount:  after.Swirl,
			Turbulence:   after.Turbulence,
			SnapStrength: after.Snap,
			Duration:     after.Duration,
		}
		g.sim.SetParams(g.motion)
	}
	if after.Speed != before.Speed {
		g.state.Speed = after.Speed
	}
	if after.Phase != before.Phase && g.haveAssignment {
		g.paused = true
		g.state.Playing = false
		g.sim.Scrub(g.state, after.Phase)
	}
}
