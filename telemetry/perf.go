package telemetry

import "time"

// Phase names for one frame of the owner loop.
const (
	PhasePollProgress = "poll_progress"
	PhaseSimUpdate    = "sim_update"
	PhaseApply        = "apply"
	PhaseRender       = "render"
)

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks frame timings over a rolling window.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a collector averaging over windowSize frames
// (e.g. 60 for one second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a phase, closing the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame closes the current frame and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated frame statistics over the window.
type PerfStats struct {
	AvgFrameDuration time.Duration
	MaxFrameDuration time.Duration
	PhaseAvg         map[string]time.Duration
	FPS              float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{PhaseAvg: make(map[string]time.Duration)}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	phaseTotals := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := &p.samples[i]
		total += s.FrameDuration
		if s.FrameDuration > stats.MaxFrameDuration {
			stats.MaxFrameDuration = s.FrameDuration
		}
		for name, d := range s.Phases {
			phaseTotals[name] += d
		}
	}

	n := time.Duration(p.sampleCount)
	stats.AvgFrameDuration = total / n
	for name, d := range phaseTotals {
		stats.PhaseAvg[name] = d / n
	}
	if stats.AvgFrameDuration > 0 {
		stats.FPS = float64(time.Second) / float64(stats.AvgFrameDuration)
	}
	return stats
}

// PerfStatsCSV is the flattened CSV record for one perf window.
type PerfStatsCSV struct {
	WindowEnd   float64 `csv:"window_end"`
	AvgFrameUs  int64   `csv:"avg_frame_us"`
	MaxFrameUs  int64   `csv:"max_frame_us"`
	FPS         float64 `csv:"fps"`
	PollUs      int64   `csv:"poll_us"`
	SimUpdateUs int64   `csv:"sim_update_us"`
	ApplyUs     int64   `csv:"apply_us"`
	RenderUs    int64   `csv:"render_us"`
}

// ToCSV flattens stats into the fixed-column CSV record.
func (s PerfStats) ToCSV(windowEnd float64) PerfStatsCSV {
	us := func(phase string) int64 {
		return s.PhaseAvg[phase].Microseconds()
	}
	return PerfStatsCSV{
		WindowEnd:   windowEnd,
		AvgFrameUs:  s.AvgFrameDuration.Microseconds(),
		MaxFrameUs:  s.MaxFrameDuration.Microseconds(),
		FPS:         s.FPS,
		PollUs:      us(PhasePollProgress),
		SimUpdateUs: us(PhaseSimUpdate),
		ApplyUs:     us(PhaseApply),
		RenderUs:    us(PhaseRender),
	}
}
