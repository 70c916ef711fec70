package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ParticleRenderer renders the morph particle field.
type ParticleRenderer struct {
	vp   Viewport
	cell float32
}

// NewParticleRenderer creates a renderer for a grid of the given side
// length inside the viewport.
func NewParticleRenderer(vp Viewport, sidelen int) *ParticleRenderer {
	return &ParticleRenderer{vp: vp, cell: vp.CellSize(sidelen)}
}

// Resize refits the renderer to a new viewport.
func (r *ParticleRenderer) Resize(vp Viewport, sidelen int) {
	r.vp = vp
	r.cell = vp.CellSize(sidelen)
}

// DrawPoint renders one particle at a normalized position. Positions are
// cell centers, so the rectangle is offset by half a cell.
func (r *ParticleRenderer) DrawPoint(x, y float32, color rl.Color) {
	sx, sy := r.vp.ToScreen(x, y)
	half := r.cell / 2
	rl.DrawRectangleV(
		rl.Vector2{X: sx - half, Y: sy - half},
		rl.Vector2{X: r.cell, Y: r.cell},
		color,
	)
}

// DrawFrame outlines the viewport.
func (r *ParticleRenderer) DrawFrame() {
	rl.DrawRectangleLines(
		int32(r.vp.OriginX)-1, int32(r.vp.OriginY)-1,
		int32(r.vp.Size)+2, int32(r.vp.Size)+2,
		rl.DarkGray,
	)
}
