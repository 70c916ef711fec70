// Package solver computes a cost-minimizing correspondence between the
// particles of a source grid and a target grid. Solves run on their own
// goroutine, stream status over a Channel, and stop cooperatively via a
// CancelToken. Two interchangeable strategies share the contract: the
// returned assignment is always a permutation of [0,N) and never costs
// more than the identity pairing.
package solver

import (
	"errors"
	"fmt"
	"time"

	"github.com/pthm-cable/pointmorph/morph"
)

// ErrCancelled is returned by a strategy that stopped in response to its
// cancel token. The job layer turns it into a Cancelled message.
var ErrCancelled = errors.New("solve cancelled")

// Result is the output of a completed solve.
type Result struct {
	Assignment   []uint32
	TotalCost    float64
	IdentityCost float64
	Iterations   int
	Elapsed      time.Duration
	Algorithm    Algorithm
}

// Solve runs the configured strategy synchronously. Callers wanting a
// background worker use StartJob instead. source and target must hold the
// same particle count.
func Solve(source, target *morph.ParticleGrid, settings Settings, cancel *CancelToken, ch *Channel) (*Result, error) {
	if source.Len() != target.Len() {
		return nil, fmt.Errorf("grid sizes differ: source %d, target %d", source.Len(), target.Len())
	}
	if source.Len() == 0 {
		return nil, errors.New("empty particle grids")
	}

	model := settings.CostModel()
	start := time.Now()

	var (
		assign     []uint32
		iterations int
		err        error
	)
	switch settings.Algorithm {
	case AlgorithmOptimal:
		assign, iterations, err = solveAuction(source, target, model, cancel, ch)
	case AlgorithmGenetic:
		assign, iterations, err = solveGenetic(source, target, model, settings.Genetic, settings.Seed, cancel, ch)
	default:
		return nil, fmt.Errorf("unknown algorithm %d", settings.Algorithm)
	}
	if err != nil {
		return nil, err
	}

	if err := checkPermutation(assign, source.Len()); err != nil {
		return nil, err
	}

	// Never do worse than doing nothing.
	total := model.TotalCost(source, target, assign)
	identity := model.IdentityCost(source, target)
	if total > identity {
		assign = identityAssignment(source.Len())
		total = identity
	}

	return &Result{
		Assignment:   assign,
		TotalCost:    total,
		IdentityCost: identity,
		Iterations:   iterations,
		Elapsed:      time.Since(start),
		Algorithm:    settings.Algorithm,
	}, nil
}

// identityAssignment pairs every source index with the same target index.
func identityAssignment(n int) []uint32 {
	assign := make([]uint32, n)
	for i := range assign {
		assign[i] = uint32(i)
	}
	return assign
}

// checkPermutation verifies that assign is a bijection of [0,n).
func checkPermutation(assign []uint32, n int) error {
	if len(assign) != n {
		return fmt.Errorf("assignment length %d, want %d", len(assign), n)
	}
	seen := make([]bool, n)
	for i, j := range assign {
		if int(j) >= n {
			return fmt.Errorf("assignment[%d] = %d out of range", i, j)
		}
		if seen[j] {
			return fmt.Errorf("target %d assigned twice", j)
		}
		seen[j] = true
	}
	return nil
}
