package solver

import "github.com/pthm-cable/pointmorph/morph"

// renderPreview rasterizes the morph midpoint under an assignment: each
// target cell shows the halfway blend between its own color and the color
// of the source particle routed to it. Good pairings look like the target
// image; bad ones look muddy. Returns RGB bytes, 3 per pixel, row-major.
func renderPreview(src, tgt *morph.ParticleGrid, assign []uint32) []byte {
	pix := make([]byte, len(assign)*3)
	for i, j := range assign {
		s := &src.Particles[i]
		t := &tgt.Particles[j]
		o := int(j) * 3
		pix[o] = uint8((uint16(s.R) + uint16(t.R)) / 2)
		pix[o+1] = uint8((uint16(s.G) + uint16(t.G)) / 2)
		pix[o+2] = uint8((uint16(s.B) + uint16(t.B)) / 2)
	}
	return pix
}
