package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// PreviewTexture displays the solver's work-in-progress preview image. The
// texture is created lazily on the first update and recreated if the
// preview dimensions change.
type PreviewTexture struct {
	texture rl.Texture2D
	width   int
	height  int
	loaded  bool

	pixels []color.RGBA
}

// NewPreviewTexture creates an empty preview.
func NewPreviewTexture() *PreviewTexture {
	return &PreviewTexture{}
}

// Ready reports whether at least one preview frame has been uploaded.
func (p *PreviewTexture) Ready() bool {
	return p.loaded
}

// Update uploads a new RGB preview image (3 bytes per pixel, row-major).
// Must be called from the render thread.
func (p *PreviewTexture) Update(width, height int, pix []byte) {
	if width < 1 || height < 1 || len(pix) < width*height*3 {
		return
	}

	if !p.loaded || width != p.width || height != p.height {
		if p.loaded {
			rl.UnloadTexture(p.texture)
		}
		img := rl.GenImageColor(width, height, rl.Black)
		p.texture = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		p.width = width
		p.height = height
		p.pixels = make([]color.RGBA, width*height)
		p.loaded = true
	}

	for i := range p.pixels {
		p.pixels[i] = color.RGBA{R: pix[i*3], G: pix[i*3+1], B: pix[i*3+2], A: 255}
	}
	rl.UpdateTexture(p.texture, p.pixels)
}

// Draw stretches the preview over the viewport.
func (p *PreviewTexture) Draw(vp Viewport) {
	if !p.loaded {
		return
	}
	rl.DrawTexturePro(
		p.texture,
		rl.Rectangle{X: 0, Y: 0, Width: float32(p.width), Height: float32(p.height)},
		rl.Rectangle{X: vp.OriginX, Y: vp.OriginY, Width: vp.Size, Height: vp.Size},
		rl.Vector2{X: 0, Y: 0},
		0,
		rl.White,
	)
}

// Unload releases the GPU texture.
func (p *PreviewTexture) Unload() {
	if p.loaded {
		rl.UnloadTexture(p.texture)
		p.loaded = false
	}
}

// DrawProgressBar renders a solve progress bar under the viewport.
func DrawProgressBar(vp Viewport, fraction float32) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	x := int32(vp.OriginX)
	y := int32(vp.OriginY + vp.Size + 10)
	w := int32(vp.Size)
	h := int32(12)

	rl.DrawRectangle(x, y, w, h, rl.Color{R: 40, G: 40, B: 40, A: 255})
	rl.DrawRectangle(x, y, int32(float32(w)*fraction), h, rl.Color{R: 90, G: 180, B: 250, A: 255})
	rl.DrawRectangleLines(x, y, w, h, rl.Gray)
}
