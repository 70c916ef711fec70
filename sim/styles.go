package sim

import (
	"fmt"
	"math"
)

const pi = float32(math.Pi)

// Style is the selectable per-tick trajectory rule layered on the base
// source-to-target interpolation. The set is closed; computeChunk is the
// single dispatch point.
type Style uint8

const (
	StyleLinear Style = iota
	StyleFloat
	StyleSwirl
	StyleDust
	StyleMagnetSnap

	numStyles
)

// String returns the display name of the style.
func (s Style) String() string {
	switch s {
	case StyleLinear:
		return "Linear"
	case StyleFloat:
		return "Float"
	case StyleSwirl:
		return "Swirl"
	case StyleDust:
		return "Dust"
	case StyleMagnetSnap:
		return "Magnet Snap"
	}
	return fmt.Sprintf("Style(%d)", uint8(s))
}

// ParseStyle converts a config name into a Style.
func ParseStyle(name string) (Style, error) {
	switch name {
	case "linear":
		return StyleLinear, nil
	case "float":
		return StyleFloat, nil
	case "swirl":
		return StyleSwirl, nil
	case "dust":
		return StyleDust, nil
	case "magnet_snap", "magnet":
		return StyleMagnetSnap, nil
	}
	return 0, fmt.Errorf("unknown motion style %q", name)
}

// Next cycles to the following style.
func (s Style) Next() Style {
	return (s + 1) % numStyles
}

// Style amplitudes in normalized image units.
const (
	floatAmplitude = 0.015 // oscillation amplitude at full seed amp
	dustAmplitude  = 0.06  // jitter amplitude at full turbulence
	dustNoiseFreq  = 4.0   // noise cycles per sweep
	maxSwirlAngle  = pi    // displacement rotation at full swirl amount
)

// computeChunk fills the output buffer for particles [i0,i1). All styles
// reproduce the source exactly at phase 0 and the assigned target exactly
// at phase 1.
func (s *Simulator) computeChunk(i0, i1 int) {
	st := s.tickState

	// Identity boundary conditions hold for every style.
	if st.Phase <= 0 {
		for i := i0; i < i1; i++ {
			p := &s.src[i]
			s.out[i] = RenderParticle{X: p.X, Y: p.Y, R: p.R, G: p.G, B: p.B}
		}
		return
	}
	if st.Phase >= 1 {
		for i := i0; i < i1; i++ {
			p := &s.tgt[s.assign[i]]
			s.out[i] = RenderParticle{X: p.X, Y: p.Y, R: p.R, G: p.G, B: p.B}
		}
		return
	}

	switch s.style {
	case StyleLinear:
		s.computeLinear(st, i0, i1)
	case StyleFloat:
		s.computeFloat(st, i0, i1)
	case StyleSwirl:
		s.computeSwirl(st, i0, i1)
	case StyleDust:
		s.computeDust(st, i0, i1)
	case StyleMagnetSnap:
		s.computeMagnetSnap(st, i0, i1)
	default:
		s.computeLinear(st, i0, i1)
	}
}

func (s *Simulator) computeLinear(st *State, i0, i1 int) {
	phase := st.Phase
	for i := i0; i < i1; i++ {
		src := &s.src[i]
		tgt := &s.tgt[s.assign[i]]
		out := &s.out[i]
		out.X = lerp(src.X, tgt.X, phase)
		out.Y = lerp(src.Y, tgt.Y, phase)
		out.R, out.G, out.B = lerpColor(src.R, src.G, src.B, tgt.R, tgt.G, tgt.B, phase)
	}
}

// computeFloat adds a smooth per-particle oscillation that vanishes at
// both endpoints via a sin(pi*phase) envelope.
func (s *Simulator) computeFloat(st *State, i0, i1 int) {
	phase := st.Phase
	env := sinf(pi * phase)
	for i := i0; i < i1; i++ {
		src := &s.src[i]
		tgt := &s.tgt[s.assign[i]]
		seed := &st.Seeds[i]
		out := &s.out[i]

		wave := 2*pi*seed.Freq*phase + seed.Angle
		amp := seed.Amp * floatAmplitude * env
		out.X = lerp(src.X, tgt.X, phase) + amp*sinf(wave)
		out.Y = lerp(src.Y, tgt.Y, phase) + amp*cosf(wave)
		out.R, out.G, out.B = lerpColor(src.R, src.G, src.B, tgt.R, tgt.G, tgt.B, phase)
	}
}

// computeSwirl bends the path by rotating the remaining displacement
// around the target. The rotation angle is zero at both endpoints, so the
// boundary conditions hold.
func (s *Simulator) computeSwirl(st *State, i0, i1 int) {
	phase := st.Phase
	theta := s.params.SwirlAmount * maxSwirlAngle * sinf(pi*phase)
	sin, cos := sinf(theta), cosf(theta)
	for i := i0; i < i1; i++ {
		src := &s.src[i]
		tgt := &s.tgt[s.assign[i]]
		seed := &st.Seeds[i]
		out := &s.out[i]

		// Alternate swirl direction per particle for a vortex look.
		sn, cs := sin, cos
		if seed.Offset < 0.5 {
			sn = -sn
		}

		remX := (src.X - tgt.X) * (1 - phase)
		remY := (src.Y - tgt.Y) * (1 - phase)
		out.X = tgt.X + remX*cs - remY*sn
		out.Y = tgt.Y + remX*sn + remY*cs
		out.R, out.G, out.B = lerpColor(src.R, src.G, src.B, tgt.R, tgt.G, tgt.B, phase)
	}
}

// computeDust scatters particles with smooth noise scaled by turbulence
// and a bell envelope that is zero at the endpoints and maximal
// mid-transition. Noise is a pure function of phase, so playback stays
// reversible.
func (s *Simulator) computeDust(st *State, i0, i1 int) {
	phase := st.Phase
	bell := 4 * phase * (1 - phase)
	amp := s.params.Turbulence * dustAmplitude * bell
	t := float64(phase) * dustNoiseFreq
	for i := i0; i < i1; i++ {
		src := &s.src[i]
		tgt := &s.tgt[s.assign[i]]
		seed := &st.Seeds[i]
		out := &s.out[i]

		nx := float32(s.noise.Noise2D(float64(seed.Offset)*97.3, t))
		ny := float32(s.noise.Noise2D(float64(seed.Offset)*97.3+31.7, t))
		out.X = lerp(src.X, tgt.X, phase) + amp*nx
		out.Y = lerp(src.Y, tgt.Y, phase) + amp*ny
		out.R, out.G, out.B = lerpColor(src.R, src.G, src.B, tgt.R, tgt.G, tgt.B, phase)
	}
}

// computeMagnetSnap moves linearly until the snap threshold, then pulls
// the remaining distance closed at a rate controlled by snap strength. At
// full strength the pull is instantaneous. The eased phase is monotone
// and boundary-exact.
func (s *Simulator) computeMagnetSnap(st *State, i0, i1 int) {
	f := magnetPhase(st.Phase, s.params.SnapStrength)
	for i := i0; i < i1; i++ {
		src := &s.src[i]
		tgt := &s.tgt[s.assign[i]]
		out := &s.out[i]
		out.X = lerp(src.X, tgt.X, f)
		out.Y = lerp(src.Y, tgt.Y, f)
		out.R, out.G, out.B = lerpColor(src.R, src.G, src.B, tgt.R, tgt.G, tgt.B, f)
	}
}

// magnetPhase eases the raw phase: identity up to the threshold, then a
// power curve whose exponent shrinks with snap strength. snap=0 is pure
// linear; snap=1 jumps straight to 1 past the threshold.
func magnetPhase(phase, snap float32) float32 {
	threshold := 1 - 0.5*snap
	if phase <= threshold || threshold >= 1 {
		return phase
	}
	u := (phase - threshold) / (1 - threshold)
	eased := float32(math.Pow(float64(u), float64(1-snap)))
	return threshold + (1-threshold)*eased
}

func lerp(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

func lerpColor(r0, g0, b0, r1, g1, b1 uint8, t float32) (uint8, uint8, uint8) {
	r := float32(r0) + (float32(r1)-float32(r0))*t
	g := float32(g0) + (float32(g1)-float32(g0))*t
	b := float32(b0) + (float32(b1)-float32(b0))*t
	return uint8(r + 0.5), uint8(g + 0.5), uint8(b + 0.5)
}

func sinf(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func cosf(x float32) float32 {
	return float32(math.Cos(float64(x)))
}
