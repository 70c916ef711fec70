// Package renderer draws morph output: the particle field, the solver's
// preview image and the solve progress bar.
package renderer

// Viewport maps the normalized [0,1] morph space onto a square region of
// the screen.
type Viewport struct {
	OriginX float32
	OriginY float32
	Size    float32
}

// FitViewport centers the largest square that fits the screen with the
// given margin on every side.
func FitViewport(screenW, screenH, margin float32) Viewport {
	size := screenW - 2*margin
	if h := screenH - 2*margin; h < size {
		size = h
	}
	return Viewport{
		OriginX: (screenW - size) / 2,
		OriginY: (screenH - size) / 2,
		Size:    size,
	}
}

// ToScreen converts a normalized position to screen pixels.
func (v Viewport) ToScreen(x, y float32) (float32, float32) {
	return v.OriginX + x*v.Size, v.OriginY + y*v.Size
}

// CellSize returns the on-screen size of one grid cell.
func (v Viewport) CellSize(sidelen int) float32 {
	if sidelen < 1 {
		return 1
	}
	return v.Size / float32(sidelen)
}
