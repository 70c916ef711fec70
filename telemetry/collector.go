package telemetry

import (
	"time"

	"github.com/pthm-cable/pointmorph/morph"
)

// SolveCollector accumulates solver progress messages within wall-clock
// windows and produces SolveWindowStats. The consumer feeds it from its
// progress-channel drain loop.
type SolveCollector struct {
	windowDuration time.Duration
	algorithm      string
	particles      int

	model morph.CostModel
	src   *morph.ParticleGrid
	tgt   *morph.ParticleGrid

	started     time.Time
	windowStart time.Time

	// Current window tracking
	progressMsgs        int
	previewMsgs         int
	assignmentMsgs      int
	windowStartProgress float64
	latestProgress      float64

	// Latest assignment snapshot, scored lazily at window close
	latestAssignment []uint32
	costScratch      []float64
}

// NewSolveCollector creates a collector for one job. The grids are only
// read, never mutated, and must outlive the collector.
func NewSolveCollector(windowSec float64, algorithm string, model morph.CostModel, src, tgt *morph.ParticleGrid) *SolveCollector {
	if windowSec <= 0 {
		windowSec = 1.0
	}
	now := time.Now()
	return &SolveCollector{
		windowDuration: time.Duration(windowSec * float64(time.Second)),
		algorithm:      algorithm,
		particles:      src.Len(),
		model:          model,
		src:            src,
		tgt:            tgt,
		started:        now,
		windowStart:    now,
	}
}

// RecordProgress records a progress fraction message.
func (c *SolveCollector) RecordProgress(fraction float64) {
	c.progressMsgs++
	c.latestProgress = fraction
}

// RecordPreview records a preview image message.
func (c *SolveCollector) RecordPreview() {
	c.previewMsgs++
}

// RecordAssignment records an assignment snapshot message. The slice is
// retained until the next snapshot replaces it.
func (c *SolveCollector) RecordAssignment(assign []uint32) {
	c.assignmentMsgs++
	c.latestAssignment = assign
}

// WindowReady reports whether the current window has elapsed.
func (c *SolveCollector) WindowReady() bool {
	return time.Since(c.windowStart) >= c.windowDuration
}

// CloseWindow produces stats for the elapsed window and starts a new one.
func (c *SolveCollector) CloseWindow() SolveWindowStats {
	now := time.Now()
	elapsed := now.Sub(c.windowStart).Seconds()

	stats := SolveWindowStats{
		WindowEnd:      now.Sub(c.started).Seconds(),
		Algorithm:      c.algorithm,
		Particles:      c.particles,
		Progress:       c.latestProgress,
		ProgressMsgs:   c.progressMsgs,
		PreviewMsgs:    c.previewMsgs,
		AssignmentMsgs: c.assignmentMsgs,
	}
	if elapsed > 0 {
		stats.ProgressRate = (c.latestProgress - c.windowStartProgress) / elapsed
	}

	if c.latestAssignment != nil {
		if cap(c.costScratch) < len(c.latestAssignment) {
			c.costScratch = make([]float64, len(c.latestAssignment))
		}
		costs := c.costScratch[:len(c.latestAssignment)]
		c.model.AssignmentCosts(costs, c.src, c.tgt, c.latestAssignment)

		cs := ComputeCostStats(costs)
		stats.CostPerPair = cs.Mean
		stats.TotalCost = cs.Mean * float64(len(costs))
		stats.CostP50 = cs.P50
		stats.CostP90 = cs.P90
		stats.CostMax = cs.Max
	}

	// Reset for the next window
	c.windowStart = now
	c.windowStartProgress = c.latestProgress
	c.progressMsgs = 0
	c.previewMsgs = 0
	c.assignmentMsgs = 0

	return stats
}
