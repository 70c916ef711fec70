// Package ui renders the motion controls panel and the HUD.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState carries the slider values through one Draw call. The
// caller compares returned values against the input to detect edits.
type ControlsState struct {
	Swirl      float32 // [0,1]
	Turbulence float32 // [0,1]
	Snap       float32 // [0,1]
	Duration   float32 // seconds, [0.5,10]
	Speed      float32 // multiplier, [0.25,2]
	Phase      float32 // playback position, [0,1]
}

// ControlsPanel renders the right-side motion controls panel.
type ControlsPanel struct {
	x, y    int32
	width   int32
	visible bool
}

// NewControlsPanel creates a controls panel anchored at x, y.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{x: x, y: y, width: width, visible: true}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Draw renders the panel and returns the possibly edited state.
func (c *ControlsPanel) Draw(s ControlsState) ControlsState {
	if !c.visible {
		return s
	}

	padding := int32(10)
	panelH := int32(6*53 + 50)
	rl.DrawRectangle(c.x, c.y, c.width, panelH, rl.Color{R: 0, G: 0, B: 0, A: 180})
	rl.DrawRectangleLines(c.x, c.y, c.width, panelH, rl.DarkGray)

	rl.DrawText("Motion [Tab to hide]", c.x+padding, c.y+8, 16, rl.White)

	y := c.y + 32
	s.Swirl = c.slider(y, "Swirl", s.Swirl, 0, 1)
	y += 53
	s.Turbulence = c.slider(y, "Turbulence", s.Turbulence, 0, 1)
	y += 53
	s.Snap = c.slider(y, "Snap strength", s.Snap, 0, 1)
	y += 53
	s.Duration = c.slider(y, "Duration (s)", s.Duration, 0.5, 10)
	y += 53
	s.Speed = c.slider(y, "Speed", s.Speed, 0.25, 2)
	y += 53
	s.Phase = c.slider(y, "Scrub", s.Phase, 0, 1)

	return s
}

// slider draws one labeled SliderBar row and returns its value.
func (c *ControlsPanel) slider(y int32, label string, value, min, max float32) float32 {
	padding := int32(10)
	rl.DrawText(label, c.x+padding, y, 14, rl.Gray)
	v := gui.SliderBar(
		rl.Rectangle{
			X:      float32(c.x + padding),
			Y:      float32(y + 18),
			Width:  float32(c.width - padding*2 - 50),
			Height: 18,
		},
		"", "",
		value, min, max,
	)
	rl.DrawText(fmt.Sprintf("%.2f", v), c.x+c.width-48, y+20, 14, rl.LightGray)
	return v
}
