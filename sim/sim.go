// Package sim advances morph particles between their source and target
// states once per render tick. Styles are a closed set with one pure
// update rule each; particle output is a pure function of the playback
// phase, so scrubbing and reversing are exact.
package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/aquilax/go-perlin"

	"github.com/pthm-cable/pointmorph/morph"
)

// Contract violations surfaced by direct call, never via a channel.
var (
	ErrAssignmentLength = errors.New("assignment length does not match particle count")
	ErrNoAssignment     = errors.New("no assignment installed")
)

// tickRate is the nominal seconds per tick; playback speed and duration
// scale it into a phase step.
const tickRate = 1.0 / 60.0

// Params are the user-facing motion knobs, each in [0,1] except Duration
// (seconds for a full source-to-target sweep).
type Params struct {
	SwirlAmount  float32
	Turbulence   float32
	SnapStrength float32
	Duration     float32
}

// DefaultParams matches the untouched slider positions.
func DefaultParams() Params {
	return Params{Duration: 3.0}
}

// Seed is one particle's style scratch state, reseeded by PreparePlay.
type Seed struct {
	Offset float32 // uniform [0,1), noise coordinate and variation source
	Angle  float32 // oscillation phase offset, radians
	Amp    float32 // oscillation amplitude, normalized units
	Freq   float32 // oscillation frequency, cycles per sweep
}

// State is the playback state owned by the render loop: the global phase
// plus per-particle seeds. The simulator mutates it only inside Update and
// PreparePlay.
type State struct {
	Phase     float32
	Direction float32 // +1 forward, -1 reverse
	Speed     float32 // playback speed multiplier
	Playing   bool
	Loop      bool
	Seeds     []Seed
}

// RenderParticle is one particle's output for the current tick.
type RenderParticle struct {
	X, Y    float32
	R, G, B uint8
}

// Simulator owns the morph endpoints and the installed assignment and
// computes every particle's position and color for a given phase. It runs
// synchronously inside the render loop; its internal worker pool joins
// before Update returns.
type Simulator struct {
	n       int
	sidelen int

	src    []morph.Particle
	tgt    []morph.Particle
	assign []uint32

	style  Style
	params Params

	noise *perlin.Perlin
	rng   *rand.Rand

	out  []RenderParticle
	pool *tickPool

	// set for the duration of one Update dispatch
	tickState *State
}

// New builds a simulator over equal-size source and target grids. No
// assignment is installed yet; Update fails fast until SetAssignments.
func New(source, target *morph.ParticleGrid, seed int64) (*Simulator, error) {
	if source.Len() != target.Len() {
		return nil, fmt.Errorf("grid sizes differ: source %d, target %d", source.Len(), target.Len())
	}
	n := source.Len()
	s := &Simulator{
		n:       n,
		sidelen: source.Sidelen,
		src:     append([]morph.Particle(nil), source.Particles...),
		tgt:     append([]morph.Particle(nil), target.Particles...),
		style:   StyleLinear,
		params:  DefaultParams(),
		noise:   perlin.NewPerlin(2, 2, 3, seed),
		rng:     rand.New(rand.NewSource(seed)),
		out:     make([]RenderParticle, n),
	}
	s.pool = newTickPool(n)
	return s, nil
}

// Close stops the internal worker pool.
func (s *Simulator) Close() {
	if s.pool != nil {
		s.pool.stop()
	}
}

// Len returns the particle count.
func (s *Simulator) Len() int {
	return s.n
}

// Sidelen returns the grid side length.
func (s *Simulator) Sidelen() int {
	return s.sidelen
}

// Style returns the active motion style.
func (s *Simulator) Style() Style {
	return s.style
}

// SetStyle selects the motion style; takes effect on the next tick.
func (s *Simulator) SetStyle(style Style) {
	s.style = style
}

// SetParams replaces the motion knobs; takes effect on the next tick.
func (s *Simulator) SetParams(p Params) {
	if p.Duration <= 0 {
		p.Duration = DefaultParams().Duration
	}
	s.params = p
}

// SetAssignments installs a new final assignment, replacing the previous
// one. Safe while playback is paused or running: it takes effect on the
// next tick. A length mismatch fails fast without mutating anything.
func (s *Simulator) SetAssignments(assign []uint32, gridWidth uint32) error {
	if len(assign) != s.n {
		return fmt.Errorf("%w: got %d, want %d", ErrAssignmentLength, len(assign), s.n)
	}
	if gridWidth != 0 && int(gridWidth)*int(gridWidth) != s.n {
		return fmt.Errorf("%w: grid width %d implies %d particles, simulator holds %d",
			ErrAssignmentLength, gridWidth, int(gridWidth)*int(gridWidth), s.n)
	}
	s.assign = append(s.assign[:0], assign...)
	return nil
}

// NewState allocates playback state sized for this simulator.
func (s *Simulator) NewState() *State {
	return &State{
		Direction: 1,
		Speed:     1,
		Loop:      true,
		Seeds:     make([]Seed, s.n),
	}
}

// PreparePlay reseeds per-particle scratch values for the current style,
// sets the travel direction and rewinds the phase to the start boundary.
func (s *Simulator) PreparePlay(st *State, reverse bool) {
	for i := range st.Seeds {
		st.Seeds[i] = Seed{
			Offset: s.rng.Float32(),
			Angle:  s.rng.Float32() * 2 * pi,
			Amp:    0.5 + s.rng.Float32(), // scaled by style amplitude later
			Freq:   1 + 2*s.rng.Float32(),
		}
	}
	if reverse {
		st.Direction = -1
		st.Phase = 1
	} else {
		st.Direction = 1
		st.Phase = 0
	}
	st.Playing = true
}

// Scrub jumps playback to an arbitrary phase, clamped to [0,1].
func (s *Simulator) Scrub(st *State, phase float32) {
	st.Phase = clamp01(phase)
}

// Update advances one tick and recomputes every particle. It is the only
// mutating entry point invoked from the render loop and fails fast when no
// assignment is installed.
func (s *Simulator) Update(st *State) error {
	if s.assign == nil {
		return ErrNoAssignment
	}
	if len(st.Seeds) != s.n {
		return fmt.Errorf("state holds %d seeds, simulator holds %d particles", len(st.Seeds), s.n)
	}

	if st.Playing {
		step := st.Direction * st.Speed * tickRate / s.params.Duration
		st.Phase += step
		if st.Loop {
			// Wrap around and keep travelling in the same direction.
			if st.Phase > 1 {
				st.Phase -= 1
			} else if st.Phase < 0 {
				st.Phase += 1
			}
		} else {
			if st.Phase >= 1 {
				st.Phase = 1
				st.Playing = false
			} else if st.Phase <= 0 {
				st.Phase = 0
				st.Playing = false
			}
		}
	}

	s.tickState = st
	s.pool.run(s)
	s.tickState = nil
	return nil
}

// Particles returns the output buffer from the latest Update. The slice is
// reused across ticks; callers must not retain it.
func (s *Simulator) Particles() []RenderParticle {
	return s.out
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
