package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/pointmorph/morph"
)

func collectorTestGrid(t *testing.T, sidelen int) *morph.ParticleGrid {
	t.Helper()
	pix := make([]byte, sidelen*sidelen*3)
	for i := range pix {
		pix[i] = byte(i * 7)
	}
	grid, err := morph.NewGridFromPixels(pix, sidelen)
	if err != nil {
		t.Fatal(err)
	}
	return grid
}

func TestSolveCollectorWindow(t *testing.T) {
	grid := collectorTestGrid(t, 4)
	model := morph.NewCostModel(16, 4)
	c := NewSolveCollector(0.01, "genetic", model, grid, grid)

	c.RecordProgress(0.25)
	c.RecordProgress(0.5)
	c.RecordPreview()

	identity := make([]uint32, grid.Len())
	for i := range identity {
		identity[i] = uint32(i)
	}
	c.RecordAssignment(identity)

	time.Sleep(20 * time.Millisecond)
	if !c.WindowReady() {
		t.Fatal("window not ready after its duration elapsed")
	}

	stats := c.CloseWindow()
	if stats.Algorithm != "genetic" {
		t.Errorf("Algorithm = %q", stats.Algorithm)
	}
	if stats.Particles != 16 {
		t.Errorf("Particles = %d, want 16", stats.Particles)
	}
	if stats.Progress != 0.5 {
		t.Errorf("Progress = %v, want latest fraction 0.5", stats.Progress)
	}
	if stats.ProgressRate <= 0 {
		t.Errorf("ProgressRate = %v, want positive", stats.ProgressRate)
	}
	if stats.ProgressMsgs != 2 || stats.PreviewMsgs != 1 || stats.AssignmentMsgs != 1 {
		t.Errorf("message counts = %d/%d/%d, want 2/1/1",
			stats.ProgressMsgs, stats.PreviewMsgs, stats.AssignmentMsgs)
	}

	// Identity assignment over identical grids costs nothing.
	if stats.TotalCost != 0 || stats.CostMax != 0 {
		t.Errorf("identity cost = total %v max %v, want zeros", stats.TotalCost, stats.CostMax)
	}

	// Counters reset; the latest progress carries over as the new baseline.
	next := c.CloseWindow()
	if next.ProgressMsgs != 0 || next.PreviewMsgs != 0 || next.AssignmentMsgs != 0 {
		t.Errorf("counters not reset: %d/%d/%d",
			next.ProgressMsgs, next.PreviewMsgs, next.AssignmentMsgs)
	}
	if next.Progress != 0.5 {
		t.Errorf("carried progress = %v, want 0.5", next.Progress)
	}
}

func TestSolveCollectorNoAssignment(t *testing.T) {
	grid := collectorTestGrid(t, 4)
	c := NewSolveCollector(1, "optimal", morph.NewCostModel(16, 4), grid, grid)

	c.RecordProgress(0.1)
	stats := c.CloseWindow()
	if stats.TotalCost != 0 || stats.CostP50 != 0 || stats.CostP90 != 0 {
		t.Errorf("cost columns without a snapshot = %+v, want zeros", stats)
	}
}

func TestSolveCollectorDefaultWindow(t *testing.T) {
	grid := collectorTestGrid(t, 4)
	c := NewSolveCollector(0, "optimal", morph.NewCostModel(16, 4), grid, grid)
	if c.WindowReady() {
		t.Error("fresh collector with the default window reports ready")
	}
}
