package telemetry

import (
	"testing"
)

func TestComputeCostStats(t *testing.T) {
	costs := []float64{3, 1, 4, 2, 5, 9, 7, 6, 8, 10}

	got := ComputeCostStats(costs)
	if got.Mean != 5.5 {
		t.Errorf("Mean = %v, want 5.5", got.Mean)
	}
	if got.P50 != 5 {
		t.Errorf("P50 = %v, want 5", got.P50)
	}
	if got.P90 != 9 {
		t.Errorf("P90 = %v, want 9", got.P90)
	}
	if got.Max != 10 {
		t.Errorf("Max = %v, want 10", got.Max)
	}

	// Input order is preserved.
	if costs[0] != 3 || costs[9] != 10 {
		t.Error("ComputeCostStats mutated its input")
	}
}

func TestComputeCostStatsEmpty(t *testing.T) {
	got := ComputeCostStats(nil)
	if got != (CostStats{}) {
		t.Errorf("empty input = %+v, want zeros", got)
	}
}

func TestComputeCostStatsSingle(t *testing.T) {
	got := ComputeCostStats([]float64{2.5})
	want := CostStats{Mean: 2.5, P50: 2.5, P90: 2.5, Max: 2.5}
	if got != want {
		t.Errorf("single value = %+v, want %+v", got, want)
	}
}
