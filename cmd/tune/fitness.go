package main

import (
	"math/rand"
	"time"

	"github.com/pthm-cable/pointmorph/morph"
	"github.com/pthm-cable/pointmorph/solver"
)

// timePenaltyWeight trades solve quality against wall time. Cost ratios
// live around 0.5..1.0; a second of solve time costs 0.01 ratio points.
const timePenaltyWeight = 0.01

// FitnessEvaluator scores a hyperparameter vector by running the genetic
// solver on fixed synthetic image pairs.
type FitnessEvaluator struct {
	params      *ParamVector
	sidelen     int
	generations int
	seeds       []int64

	pairs     []gridPair
	lastRatio float64
}

type gridPair struct {
	source *morph.ParticleGrid
	target *morph.ParticleGrid
	seed   int64
}

// NewFitnessEvaluator builds one synthetic grid pair per seed. The pairs
// are fixed across evaluations so fitness values are comparable.
func NewFitnessEvaluator(params *ParamVector, sidelen, generations int, seeds []int64) *FitnessEvaluator {
	e := &FitnessEvaluator{
		params:      params,
		sidelen:     sidelen,
		generations: generations,
		seeds:       seeds,
	}
	for _, seed := range seeds {
		e.pairs = append(e.pairs, gridPair{
			source: randomGrid(sidelen, seed),
			target: randomGrid(sidelen, seed+1),
			seed:   seed,
		})
	}
	return e
}

// Evaluate runs the genetic solver for each pair and returns the mean
// total-to-identity cost ratio plus a wall-time penalty. Lower is better.
func (e *FitnessEvaluator) Evaluate(raw []float64) float64 {
	gp := e.params.ToGeneticParams(raw, e.generations)

	var ratioSum float64
	var elapsed time.Duration

	for _, pair := range e.pairs {
		settings := solver.Settings{
			Sidelen:             e.sidelen,
			ProximityImportance: 16,
			Algorithm:           solver.AlgorithmGenetic,
			Seed:                pair.seed,
			Genetic:             gp,
		}

		start := time.Now()
		result, err := solver.Solve(pair.source, pair.target, settings, solver.NewCancelToken(), solver.NewChannel())
		elapsed += time.Since(start)
		if err != nil {
			return 1e9
		}

		if result.IdentityCost > 0 {
			ratioSum += result.TotalCost / result.IdentityCost
		}
	}

	mean := ratioSum / float64(len(e.pairs))
	e.lastRatio = mean
	return mean + timePenaltyWeight*elapsed.Seconds()/float64(len(e.pairs))
}

// LastRatio returns the cost ratio of the most recent evaluation, before
// the time penalty.
func (e *FitnessEvaluator) LastRatio() float64 {
	return e.lastRatio
}

// randomGrid builds a grid of uniformly random colors.
func randomGrid(sidelen int, seed int64) *morph.ParticleGrid {
	rng := rand.New(rand.NewSource(seed))
	pix := make([]byte, sidelen*sidelen*3)
	rng.Read(pix)

	grid, err := morph.NewGridFromPixels(pix, sidelen)
	if err != nil {
		panic(err) // sized correctly by construction
	}
	return grid
}
