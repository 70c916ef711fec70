package sim

import (
	"math"
	"testing"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Style
		wantErr bool
	}{
		{"linear", "linear", StyleLinear, false},
		{"float", "float", StyleFloat, false},
		{"swirl", "swirl", StyleSwirl, false},
		{"dust", "dust", StyleDust, false},
		{"magnet_snap", "magnet_snap", StyleMagnetSnap, false},
		{"magnet alias", "magnet", StyleMagnetSnap, false},
		{"unknown", "wobble", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStyle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStyle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseStyle(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStyleNextCycles(t *testing.T) {
	s := StyleLinear
	seen := map[Style]bool{}
	for i := 0; i < int(numStyles); i++ {
		if seen[s] {
			t.Fatalf("style %v repeated before the cycle completed", s)
		}
		seen[s] = true
		s = s.Next()
	}
	if s != StyleLinear {
		t.Errorf("cycle ended at %v, want StyleLinear", s)
	}
}

func TestMagnetPhase(t *testing.T) {
	tests := []struct {
		name  string
		phase float32
		snap  float32
		want  float32
	}{
		{"zero snap is identity", 0.7, 0, 0.7},
		{"below threshold is identity", 0.3, 1, 0.3},
		{"at threshold is identity", 0.5, 1, 0.5},
		{"full snap jumps past threshold", 0.500001, 1, 1},
		{"full snap late phase", 0.9, 1, 1},
		{"boundary zero", 0, 0.8, 0},
		{"boundary one", 1, 0.8, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := magnetPhase(tt.phase, tt.snap)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("magnetPhase(%v, %v) = %v, want %v", tt.phase, tt.snap, got, tt.want)
			}
		})
	}
}

func TestMagnetPhaseMonotone(t *testing.T) {
	snaps := []float32{0, 0.25, 0.5, 0.75, 1}
	for _, snap := range snaps {
		var prev float32 = -1
		for p := float32(0); p <= 1.0001; p += 0.01 {
			f := magnetPhase(p, snap)
			if f < prev {
				t.Fatalf("snap %v: eased phase decreased at %v: %v < %v", snap, p, f, prev)
			}
			prev = f
		}
	}
}

func TestMagnetSnapMatchesLinearBelowThreshold(t *testing.T) {
	s, st, _, _ := newTestSim(t, 4)
	st.Playing = false
	s.SetParams(Params{SnapStrength: 1, Duration: 3})

	// Below the threshold full-strength snap is plain linear motion.
	s.SetStyle(StyleLinear)
	s.Scrub(st, 0.3)
	if err := s.Update(st); err != nil {
		t.Fatal(err)
	}
	linear := append([]RenderParticle(nil), s.Particles()...)

	s.SetStyle(StyleMagnetSnap)
	if err := s.Update(st); err != nil {
		t.Fatal(err)
	}
	for i, p := range s.Particles() {
		if p != linear[i] {
			t.Fatalf("particle %d differs from linear below threshold: %+v vs %+v", i, p, linear[i])
		}
	}

	// Past the threshold every particle has already arrived.
	s.Scrub(st, 0.6)
	if err := s.Update(st); err != nil {
		t.Fatal(err)
	}
	n := s.Len()
	for i, p := range s.Particles() {
		want := s.tgt[n-1-i]
		if p.X != want.X || p.Y != want.Y {
			t.Fatalf("particle %d not at target past threshold: %+v", i, p)
		}
	}
}

func TestLerpBoundaryExact(t *testing.T) {
	if got := lerp(0.123, 0.877, 0); got != 0.123 {
		t.Errorf("lerp at 0 = %v", got)
	}
	if got := lerp(0.123, 0.877, 1); got != 0.877 {
		t.Errorf("lerp at 1 = %v", got)
	}
}
