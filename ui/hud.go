package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDState is the per-frame data shown in the top-left HUD.
type HUDState struct {
	Style     string
	Algorithm string
	Phase     float32
	Speed     float32
	Paused    bool
	Loop      bool
	Solving   bool
	Progress  float32
}

// DrawHUD renders playback and solve status text.
func DrawHUD(s HUDState) {
	rl.DrawText(fmt.Sprintf("Style: %s  [S]", s.Style), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Phase: %.2f  Speed: %.2fx  [1-4]", s.Phase, s.Speed), 10, 35, 20, rl.White)

	loopLabel := "off"
	if s.Loop {
		loopLabel = "on"
	}
	rl.DrawText(fmt.Sprintf("Loop: %s  [L]  Replay: [Enter]  Reverse: [R]", loopLabel), 10, 60, 20, rl.White)

	if s.Solving {
		rl.DrawText(fmt.Sprintf("Solving (%s): %.0f%%", s.Algorithm, s.Progress*100), 10, 85, 20, rl.SkyBlue)
	}
	if s.Paused {
		rl.DrawText("PAUSED", 10, 110, 20, rl.Yellow)
	}
}
