package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SolveWindowStats aggregates one wall-clock window of a running solve.
type SolveWindowStats struct {
	WindowEnd float64 `csv:"window_end"` // seconds since solve start
	Algorithm string  `csv:"algorithm"`
	Particles int     `csv:"particles"`

	// Progress over the window
	Progress     float64 `csv:"progress"`      // latest fraction
	ProgressRate float64 `csv:"progress_rate"` // fraction per second

	// Assignment quality at window end (from the latest snapshot)
	TotalCost   float64 `csv:"total_cost"`
	CostPerPair float64 `csv:"cost_per_pair"`
	CostP50     float64 `csv:"cost_p50"`
	CostP90     float64 `csv:"cost_p90"`
	CostMax     float64 `csv:"cost_max"`

	// Message counts during the window
	ProgressMsgs   int `csv:"progress_msgs"`
	PreviewMsgs    int `csv:"preview_msgs"`
	AssignmentMsgs int `csv:"assignment_msgs"`
}

// CostStats summarizes a per-pair cost distribution.
type CostStats struct {
	Mean float64
	P50  float64
	P90  float64
	Max  float64
}

// ComputeCostStats calculates mean and percentiles from per-pair costs.
// Returns zeros for an empty slice.
func ComputeCostStats(costs []float64) CostStats {
	n := len(costs)
	if n == 0 {
		return CostStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, costs)
	sort.Float64s(sorted)

	return CostStats{
		Mean: stat.Mean(sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
		Max:  sorted[n-1],
	}
}
