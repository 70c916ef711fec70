// Package morph defines the particle domain model: grids of point
// particles sampled from images, and the pairing cost between them.
package morph

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// Particle is a single point with a normalized position and an RGB color.
// Positions live in [0,1]x[0,1] regardless of grid resolution.
type Particle struct {
	X, Y    float32
	R, G, B uint8
}

// ParticleGrid holds Sidelen*Sidelen particles sampled from one image.
// The slice index is the canonical particle id for that image.
type ParticleGrid struct {
	Sidelen   int
	Particles []Particle
}

// Len returns the particle count (Sidelen squared).
func (g *ParticleGrid) Len() int {
	return len(g.Particles)
}

// CropScale selects the source region resampled onto the grid.
// Zoom 1.0 takes the largest centered square; OffsetX/OffsetY shift
// that square as a fraction of the slack on each axis (-1..1).
type CropScale struct {
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	Zoom    float64 `yaml:"zoom"`
}

// DefaultCropScale returns a centered, unzoomed crop.
func DefaultCropScale() CropScale {
	return CropScale{Zoom: 1.0}
}

// cropRect computes the square source rectangle for the given image bounds.
func (cs CropScale) cropRect(bounds image.Rectangle) image.Rectangle {
	w := bounds.Dx()
	h := bounds.Dy()

	side := min(w, h)
	zoom := cs.Zoom
	if zoom < 1.0 {
		zoom = 1.0
	}
	side = int(float64(side) / zoom)
	if side < 1 {
		side = 1
	}

	// Slack on each axis, shifted by the offset fraction
	slackX := w - side
	slackY := h - side
	x := bounds.Min.X + slackX/2 + int(cs.OffsetX*float64(slackX)/2)
	y := bounds.Min.Y + slackY/2 + int(cs.OffsetY*float64(slackY)/2)

	r := image.Rect(x, y, x+side, y+side)
	return r.Intersect(bounds)
}

// NewGridFromImage resamples img onto a sidelen x sidelen particle grid.
// Each particle sits at its cell center in normalized coordinates and
// carries the resampled pixel color.
func NewGridFromImage(img image.Image, sidelen int, crop CropScale) (*ParticleGrid, error) {
	if sidelen < 1 {
		return nil, fmt.Errorf("grid sidelen %d out of range", sidelen)
	}

	src := crop.cropRect(img.Bounds())
	if src.Empty() {
		return nil, fmt.Errorf("crop rectangle %v is empty", src)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, sidelen, sidelen))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, src, xdraw.Src, nil)

	return NewGridFromRGBA(scaled, sidelen)
}

// NewGridFromRGBA builds a grid from an already-resampled sidelen x sidelen
// RGBA image. The alpha channel is ignored.
func NewGridFromRGBA(img *image.RGBA, sidelen int) (*ParticleGrid, error) {
	b := img.Bounds()
	if b.Dx() != sidelen || b.Dy() != sidelen {
		return nil, fmt.Errorf("image is %dx%d, want %dx%d", b.Dx(), b.Dy(), sidelen, sidelen)
	}

	particles := make([]Particle, sidelen*sidelen)
	inv := 1.0 / float32(sidelen)
	for y := 0; y < sidelen; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < sidelen; x++ {
			o := x * 4
			particles[y*sidelen+x] = Particle{
				X: (float32(x) + 0.5) * inv,
				Y: (float32(y) + 0.5) * inv,
				R: row[o],
				G: row[o+1],
				B: row[o+2],
			}
		}
	}

	return &ParticleGrid{Sidelen: sidelen, Particles: particles}, nil
}

// NewGridFromPixels builds a grid from raw RGB bytes (3 per pixel,
// row-major), the layout presets store.
func NewGridFromPixels(pix []byte, sidelen int) (*ParticleGrid, error) {
	want := sidelen * sidelen * 3
	if len(pix) != want {
		return nil, fmt.Errorf("pixel buffer is %d bytes, want %d", len(pix), want)
	}

	particles := make([]Particle, sidelen*sidelen)
	inv := 1.0 / float32(sidelen)
	for y := 0; y < sidelen; y++ {
		for x := 0; x < sidelen; x++ {
			o := (y*sidelen + x) * 3
			particles[y*sidelen+x] = Particle{
				X: (float32(x) + 0.5) * inv,
				Y: (float32(y) + 0.5) * inv,
				R: pix[o],
				G: pix[o+1],
				B: pix[o+2],
			}
		}
	}

	return &ParticleGrid{Sidelen: sidelen, Particles: particles}, nil
}

// Pixels returns the grid colors as raw RGB bytes (3 per pixel, row-major).
func (g *ParticleGrid) Pixels() []byte {
	pix := make([]byte, len(g.Particles)*3)
	for i := range g.Particles {
		p := &g.Particles[i]
		pix[i*3] = p.R
		pix[i*3+1] = p.G
		pix[i*3+2] = p.B
	}
	return pix
}
