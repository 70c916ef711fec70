package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pointmorph/solver"
)

// scrubStep is the phase change per arrow-key press.
const scrubStep = 0.01

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		if g.haveAssignment {
			g.paused = !g.paused
			g.state.Playing = !g.paused
		}
	}

	// Replay from the start, forward or reverse
	if rl.IsKeyPressed(rl.KeyEnter) && g.haveAssignment {
		g.sim.PreparePlay(g.state, false)
		g.paused = false
	}
	if rl.IsKeyPressed(rl.KeyR) && g.haveAssignment {
		g.sim.PreparePlay(g.state, true)
		g.paused = false
	}

	// Motion style cycling
	if rl.IsKeyPressed(rl.KeyS) {
		g.sim.SetStyle(g.sim.Style().Next())
	}

	if rl.IsKeyPressed(rl.KeyL) {
		g.state.Loop = !g.state.Loop
	}

	// Playback speed presets
	if rl.IsKeyPressed(rl.KeyOne) {
		g.state.Speed = 0.25
	}
	if rl.IsKeyPressed(rl.KeyTwo) {
		g.state.Speed = 0.5
	}
	if rl.IsKeyPressed(rl.KeyThree) {
		g.state.Speed = 1
	}
	if rl.IsKeyPressed(rl.KeyFour) {
		g.state.Speed = 2
	}

	// Frame-precise scrubbing pauses playback
	if rl.IsKeyDown(rl.KeyLeft) && g.haveAssignment {
		g.paused = true
		g.state.Playing = false
		g.sim.Scrub(g.state, g.state.Phase-scrubStep)
	}
	if rl.IsKeyDown(rl.KeyRight) && g.haveAssignment {
		g.paused = true
		g.state.Playing = false
		g.sim.Scrub(g.state, g.state.Phase+scrubStep)
	}

	if rl.IsKeyPressed(rl.KeyTab) && g.controls != nil {
		g.controls.Toggle()
	}

	// Switch algorithm and re-solve
	if rl.IsKeyPressed(rl.KeyA) {
		if g.settings.Algorithm == solver.AlgorithmOptimal {
			g.settings.Algorithm = solver.AlgorithmGenetic
		} else {
			g.settings.Algorithm = solver.AlgorithmOptimal
		}
		if err := g.StartMorph(); err != nil {
			slog.Error("failed to restart solve", "error", err)
		}
	}

	// Re-solve with current settings
	if rl.IsKeyPressed(rl.KeyN) {
		if err := g.StartMorph(); err != nil {
			slog.Error("failed to restart solve", "error", err)
		}
	}
}
