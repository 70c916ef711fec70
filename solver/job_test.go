package solver

import (
	"math/rand"
	"testing"
	"time"

	"github.com/pthm-cable/pointmorph/morph"
)

// jobTestGrids returns 64x64 grids, the smallest size StartJob accepts.
func jobTestGrids(t *testing.T) (*morph.ParticleGrid, *morph.ParticleGrid) {
	t.Helper()
	rng := rand.New(rand.NewSource(11))
	srcPix := make([]byte, 64*64*3)
	tgtPix := make([]byte, 64*64*3)
	rng.Read(srcPix)
	rng.Read(tgtPix)

	src, err := morph.NewGridFromPixels(srcPix, 64)
	if err != nil {
		t.Fatal(err)
	}
	tgt, err := morph.NewGridFromPixels(tgtPix, 64)
	if err != nil {
		t.Fatal(err)
	}
	return src, tgt
}

// awaitTerminal drains the job until a terminal message or the deadline.
func awaitTerminal(t *testing.T, j *Job, timeout time.Duration) []Msg {
	t.Helper()
	deadline := time.Now().Add(timeout)
	var all []Msg
	for time.Now().Before(deadline) {
		msgs := j.Messages().Drain()
		all = append(all, msgs...)
		if len(all) > 0 && IsTerminal(all[len(all)-1]) {
			return all
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("no terminal message within %v (%d messages)", timeout, len(all))
	return nil
}

func TestStartJobValidation(t *testing.T) {
	src, tgt := jobTestGrids(t)

	tests := []struct {
		name     string
		settings Settings
	}{
		{"sidelen too small", Settings{Sidelen: 8, ProximityImportance: 16, Algorithm: AlgorithmGenetic}},
		{"sidelen too large", Settings{Sidelen: 512, ProximityImportance: 16, Algorithm: AlgorithmGenetic}},
		{"proximity out of range", Settings{Sidelen: 64, ProximityImportance: 99, Algorithm: AlgorithmGenetic}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := StartJob(src, tgt, tt.settings); err == nil {
				t.Error("expected a synchronous validation error")
			}
		})
	}
}

func TestStartJobGridMismatch(t *testing.T) {
	src, _ := jobTestGrids(t)

	small, err := morph.NewGridFromPixels(make([]byte, 32*32*3), 32)
	if err != nil {
		t.Fatal(err)
	}

	settings := Settings{Sidelen: 64, ProximityImportance: 16, Algorithm: AlgorithmGenetic}
	if _, err := StartJob(src, small, settings); err == nil {
		t.Error("expected error for target grid smaller than settings")
	}
}

func TestJobDone(t *testing.T) {
	src, tgt := jobTestGrids(t)

	settings := Settings{
		Sidelen:             64,
		ProximityImportance: 16,
		Algorithm:           AlgorithmGenetic,
		Seed:                1,
		Genetic:             GeneticParams{Population: 2, Generations: 10, SwapsPerGen: 8, InitTemp: 0.02, Cooling: 0.99},
	}

	job, err := StartJob(src, tgt, settings)
	if err != nil {
		t.Fatalf("StartJob: %v", err)
	}

	msgs := awaitTerminal(t, job, 30*time.Second)
	last := msgs[len(msgs)-1]
	done, ok := last.(Done)
	if !ok {
		t.Fatalf("terminal message is %T, want Done", last)
	}
	if err := checkPermutation(done.Result.Assignment, src.Len()); err != nil {
		t.Errorf("final assignment: %v", err)
	}

	// The last progress fraction before Done must be 1.
	var lastProgress float32 = -1
	for _, m := range msgs {
		if p, ok := m.(Progress); ok {
			lastProgress = p.Fraction
		}
	}
	if lastProgress != 1 {
		t.Errorf("last progress fraction = %v, want 1", lastProgress)
	}
}

func TestJobCancel(t *testing.T) {
	src, tgt := jobTestGrids(t)

	settings := Settings{
		Sidelen:             64,
		ProximityImportance: 16,
		Algorithm:           AlgorithmGenetic,
		Seed:                1,
		Genetic:             GeneticParams{Population: 2, Generations: 10000000, SwapsPerGen: 64, InitTemp: 0.02, Cooling: 0.999999},
	}

	job, err := StartJob(src, tgt, settings)
	if err != nil {
		t.Fatalf("StartJob: %v", err)
	}
	job.Cancel()

	msgs := awaitTerminal(t, job, 30*time.Second)
	last := msgs[len(msgs)-1]
	if _, ok := last.(Cancelled); !ok {
		t.Fatalf("terminal message is %T, want Cancelled", last)
	}
	for _, m := range msgs {
		if _, ok := m.(Done); ok {
			t.Error("cancelled job emitted Done")
		}
	}
}
