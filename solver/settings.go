package solver

import (
	"fmt"
	"sync/atomic"

	"github.com/pthm-cable/pointmorph/morph"
)

// Algorithm selects the correspondence strategy.
type Algorithm uint8

const (
	// AlgorithmOptimal computes a near-exact minimum-cost matching via an
	// auction relaxation. Slow but high quality; meant for smaller grids.
	AlgorithmOptimal Algorithm = iota
	// AlgorithmGenetic evolves candidate permutations by cost-guided swap
	// search. Approximate but scales to large grids.
	AlgorithmGenetic
)

// String returns the config/CLI name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmOptimal:
		return "optimal"
	case AlgorithmGenetic:
		return "genetic"
	}
	return fmt.Sprintf("Algorithm(%d)", a)
}

// ParseAlgorithm converts a config/CLI name into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "optimal":
		return AlgorithmOptimal, nil
	case "genetic", "fast":
		return AlgorithmGenetic, nil
	}
	return 0, fmt.Errorf("unknown algorithm %q", s)
}

// Recognized settings ranges.
const (
	MinSidelen = 64
	MaxSidelen = 256

	MinProximityImportance = 0
	MaxProximityImportance = 50
)

// GeneticParams tunes the genetic strategy. Zero values are replaced by
// the defaults below.
type GeneticParams struct {
	Population  int     `yaml:"population"`    // candidate permutations kept alive
	Generations int     `yaml:"generations"`   // iteration budget
	SwapsPerGen int     `yaml:"swaps_per_gen"` // swap trials per member per generation
	InitTemp    float64 `yaml:"init_temp"`     // initial acceptance temperature
	Cooling     float64 `yaml:"cooling"`       // temperature multiplier per generation
}

// DefaultGeneticParams returns the tuned defaults (see cmd/tune).
func DefaultGeneticParams() GeneticParams {
	return GeneticParams{
		Population:  6,
		Generations: 4000,
		SwapsPerGen: 512,
		InitTemp:    0.02,
		Cooling:     0.9985,
	}
}

// withDefaults fills zero fields from DefaultGeneticParams.
func (p GeneticParams) withDefaults() GeneticParams {
	d := DefaultGeneticParams()
	if p.Population <= 0 {
		p.Population = d.Population
	}
	if p.Generations <= 0 {
		p.Generations = d.Generations
	}
	if p.SwapsPerGen <= 0 {
		p.SwapsPerGen = d.SwapsPerGen
	}
	if p.InitTemp <= 0 {
		p.InitTemp = d.InitTemp
	}
	if p.Cooling <= 0 || p.Cooling >= 1 {
		p.Cooling = d.Cooling
	}
	return p
}

// Settings configures one morph generation job. Immutable for the job's
// duration.
type Settings struct {
	Sidelen             int
	ProximityImportance int64
	Algorithm           Algorithm
	Crop                morph.CropScale
	Seed                int64
	Genetic             GeneticParams
}

// Validate rejects out-of-range settings before any solver work begins.
func (s Settings) Validate() error {
	if s.Sidelen < MinSidelen || s.Sidelen > MaxSidelen {
		return fmt.Errorf("sidelen %d outside recognized range %d..%d", s.Sidelen, MinSidelen, MaxSidelen)
	}
	if s.ProximityImportance < MinProximityImportance || s.ProximityImportance > MaxProximityImportance {
		return fmt.Errorf("proximity importance %d outside recognized range %d..%d",
			s.ProximityImportance, MinProximityImportance, MaxProximityImportance)
	}
	if s.Algorithm != AlgorithmOptimal && s.Algorithm != AlgorithmGenetic {
		return fmt.Errorf("unknown algorithm %d", s.Algorithm)
	}
	return nil
}

// CostModel builds the cost model implied by these settings.
func (s Settings) CostModel() morph.CostModel {
	return morph.NewCostModel(s.ProximityImportance, s.Sidelen)
}

// CancelToken is a shared cancellation flag, set once by the job owner and
// polled by the solver between work units. Explicitly threaded through
// every solve call; there is no process-wide instance.
type CancelToken struct {
	flag atomic.Bool
}

// NewCancelToken returns an unset token.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel requests cooperative termination.
func (t *CancelToken) Cancel() {
	t.flag.Store(true)
}

// Cancelled reports whether termination was requested.
func (t *CancelToken) Cancelled() bool {
	return t.flag.Load()
}
