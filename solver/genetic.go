package solver

import (
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/pthm-cable/pointmorph/morph"
)

// Genetic strategy cadences, all in generations. Cancellation is checked
// every generation.
const (
	geneticProgressStride = 20  // progress emissions
	geneticSnapshotStride = 250 // preview/assignment snapshots
	geneticSelectStride   = 25  // worst member replaced by the best
	geneticResyncStride   = 512 // full cost recompute to shed float drift
)

// candidate is one permutation in the population. Each member owns its
// RNG so generations can run members on parallel workers.
type candidate struct {
	perm []uint32
	cost float64
	rng  *rand.Rand
}

// solveGenetic runs a population of candidate permutations through
// cost-guided pairwise-swap search with an annealed acceptance rule.
// Every member starts from the identity pairing, so the best candidate
// ever seen never costs more than doing nothing. Swaps keep permutation
// validity by construction.
func solveGenetic(src, tgt *morph.ParticleGrid, model morph.CostModel, params GeneticParams, seed int64, cancel *CancelToken, ch *Channel) ([]uint32, int, error) {
	params = params.withDefaults()
	n := src.Len()

	g := &geneticState{
		src:    src,
		tgt:    tgt,
		model:  model,
		params: params,
		n:      n,
		pop:    make([]candidate, params.Population),
	}

	identity := identityAssignment(n)
	identityCost := model.TotalCost(src, tgt, identity)
	for m := range g.pop {
		perm := make([]uint32, n)
		copy(perm, identity)
		g.pop[m] = candidate{
			perm: perm,
			cost: identityCost,
			rng:  rand.New(rand.NewSource(seed + int64(m)*7919)),
		}
	}
	g.best = identity
	g.bestCost = identityCost

	g.pool = newSwapPool(params.Population)
	g.pool.start(g)
	defer g.pool.stop()

	// Temperature in cost units; pair costs are O(1) in normalized space.
	temp := params.InitTemp

	gen := 0
	for ; gen < params.Generations; gen++ {
		if cancel.Cancelled() {
			return nil, gen, ErrCancelled
		}

		g.pool.runGeneration(temp)
		temp *= params.Cooling

		if gen%geneticResyncStride == geneticResyncStride-1 {
			g.resyncCosts()
		}
		g.adoptBest()

		if gen%geneticSelectStride == geneticSelectStride-1 {
			g.replaceWorst()
		}
		if ch != nil && gen%geneticProgressStride == 0 {
			ch.SendProgress(float32(gen) / float32(params.Generations))
		}
		if ch != nil && gen%geneticSnapshotStride == geneticSnapshotStride-1 {
			ch.SendAssignment(g.best)
			ch.SendPreview(src.Sidelen, src.Sidelen, renderPreview(src, tgt, g.best))
		}
	}

	return g.best, gen, nil
}

type geneticState struct {
	src, tgt *morph.ParticleGrid
	model    morph.CostModel
	params   GeneticParams
	n        int

	pop      []candidate
	best     []uint32
	bestCost float64

	pool *swapPool
}

// mutateMember runs one member's swap trials for a generation. Improving
// swaps are always kept; worsening ones survive with annealed probability
// so early generations can escape the identity plateau.
func (g *geneticState) mutateMember(m int, temp float64) {
	c := &g.pop[m]
	for s := 0; s < g.params.SwapsPerGen; s++ {
		i := c.rng.Intn(g.n)
		k := c.rng.Intn(g.n)
		if i == k {
			continue
		}
		delta := g.swapDelta(c.perm, i, k)
		if delta < 0 || (temp > 0 && c.rng.Float64() < math.Exp(-delta/temp)) {
			c.perm[i], c.perm[k] = c.perm[k], c.perm[i]
			c.cost += delta
		}
	}
}

// swapDelta is the cost change from exchanging the targets of source
// indices i and k, computed from four pair costs.
func (g *geneticState) swapDelta(perm []uint32, i, k int) float64 {
	pi := &g.src.Particles[i]
	pk := &g.src.Particles[k]
	ti := &g.tgt.Particles[perm[i]]
	tk := &g.tgt.Particles[perm[k]]

	before := g.model.PairCost(pi, ti) + g.model.PairCost(pk, tk)
	after := g.model.PairCost(pi, tk) + g.model.PairCost(pk, ti)
	return after - before
}

// adoptBest snapshots the cheapest member if it beats the best ever seen.
func (g *geneticState) adoptBest() {
	bestIdx := -1
	bestCost := g.bestCost
	for m := range g.pop {
		if g.pop[m].cost < bestCost {
			bestCost = g.pop[m].cost
			bestIdx = m
		}
	}
	if bestIdx < 0 {
		return
	}
	copy(g.best, g.pop[bestIdx].perm)
	g.bestCost = bestCost
}

// replaceWorst copies the current best member over the most expensive one.
func (g *geneticState) replaceWorst() {
	if len(g.pop) < 2 {
		return
	}
	best, worst := 0, 0
	for m := range g.pop {
		if g.pop[m].cost < g.pop[best].cost {
			best = m
		}
		if g.pop[m].cost > g.pop[worst].cost {
			worst = m
		}
	}
	if best == worst {
		return
	}
	copy(g.pop[worst].perm, g.pop[best].perm)
	g.pop[worst].cost = g.pop[best].cost
}

// resyncCosts recomputes member costs exactly; incremental deltas
// accumulate float error over many thousands of swaps.
func (g *geneticState) resyncCosts() {
	for m := range g.pop {
		g.pop[m].cost = g.model.TotalCost(g.src, g.tgt, g.pop[m].perm)
	}
}

// swapJob asks a worker to run one member's generation.
type swapJob struct {
	member int
	temp   float64
}

// swapPool is a persistent worker pool; one generation dispatches each
// population member as a job and joins before returning, so the solve
// goroutine observes generations synchronously.
type swapPool struct {
	numWorkers int
	workChan   chan swapJob
	doneChan   chan struct{}
	stopChan   chan struct{}
	wg         sync.WaitGroup
	running    bool

	state *geneticState
}

func newSwapPool(population int) *swapPool {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > population {
		numWorkers = population
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &swapPool{numWorkers: numWorkers}
}

func (p *swapPool) start(state *geneticState) {
	if p.running {
		return
	}
	p.state = state
	p.workChan = make(chan swapJob, p.numWorkers)
	p.doneChan = make(chan struct{}, len(state.pop))
	p.stopChan = make(chan struct{})
	p.running = true

	for w := 0; w < p.numWorkers; w++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *swapPool) stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *swapPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case job, ok := <-p.workChan:
			if !ok {
				return
			}
			p.state.mutateMember(job.member, job.temp)
			p.doneChan <- struct{}{}
		}
	}
}

// runGeneration mutates every member once, in parallel when workers allow.
func (p *swapPool) runGeneration(temp float64) {
	if p.numWorkers == 1 {
		for m := range p.state.pop {
			p.state.mutateMember(m, temp)
		}
		return
	}
	for m := range p.state.pop {
		p.workChan <- swapJob{member: m, temp: temp}
	}
	for range p.state.pop {
		<-p.doneChan
	}
}
