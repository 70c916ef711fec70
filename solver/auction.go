package solver

import (
	"math"

	"github.com/pthm-cable/pointmorph/morph"
)

// Auction cadences. Cancellation latency and progress granularity are
// bounded by these strides; costs are always computed per-pair on the fly,
// the N x N structure is never materialized.
const (
	auctionEpsDivisor     = 4.0 // epsilon shrink factor between scaling rounds
	auctionCancelStride   = 256 // bids between cancellation checks
	auctionProgressStride = 512 // bids between progress emissions
)

// solveAuction computes a near-exact minimum-cost perfect matching with a
// forward auction and epsilon scaling. Sources bid for targets; a bid
// raises the target's price by the bidder's margin over its second-best
// option plus epsilon. Each scaling round reuses the previous round's
// prices, so later (cheaper-epsilon) rounds converge quickly. The final
// epsilon bounds suboptimality by N*epsilon in cost units.
func solveAuction(src, tgt *morph.ParticleGrid, model morph.CostModel, cancel *CancelToken, ch *Channel) ([]uint32, int, error) {
	n := src.Len()

	maxCost := model.MaxPairCost()
	epsStart := maxCost / auctionEpsDivisor
	epsFinal := maxCost / (2 * float64(n+1))

	// Round count is known up front; progress interpolates across rounds.
	rounds := 1
	for eps := epsStart; eps > epsFinal; eps /= auctionEpsDivisor {
		rounds++
	}

	a := &auctionState{
		src:    src,
		tgt:    tgt,
		model:  model,
		n:      n,
		prices: make([]float64, n),
		owner:  make([]int32, n),
		assign: make([]int32, n),
		queue:  make([]int32, 0, n),
		cancel: cancel,
		ch:     ch,
		rounds: rounds,
	}

	round := 0
	for eps := epsStart; ; eps /= auctionEpsDivisor {
		if err := a.runRound(eps, round); err != nil {
			return nil, a.bids, err
		}
		a.emitSnapshot()
		round++
		if eps <= epsFinal {
			break
		}
	}

	assign := make([]uint32, n)
	for i := range a.assign {
		assign[i] = uint32(a.assign[i])
	}
	return assign, a.bids, nil
}

type auctionState struct {
	src, tgt *morph.ParticleGrid
	model    morph.CostModel
	n        int

	prices []float64 // per-target price, carried across rounds
	owner  []int32   // target -> owning source, -1 when free
	assign []int32   // source -> target, -1 when unassigned
	queue  []int32   // unassigned sources pending a bid

	cancel *CancelToken
	ch     *Channel

	rounds int
	bids   int
}

// runRound clears the assignment (prices persist) and bids until every
// source owns a target.
func (a *auctionState) runRound(eps float64, round int) error {
	for j := range a.owner {
		a.owner[j] = -1
	}
	a.queue = a.queue[:0]
	for i := 0; i < a.n; i++ {
		a.assign[i] = -1
		a.queue = append(a.queue, int32(i))
	}

	assigned := 0
	for len(a.queue) > 0 {
		i := a.queue[len(a.queue)-1]
		a.queue = a.queue[:len(a.queue)-1]

		jBest, bid := a.bestBid(int(i), eps)
		a.prices[jBest] = bid

		if prev := a.owner[jBest]; prev >= 0 {
			a.assign[prev] = -1
			a.queue = append(a.queue, prev)
		} else {
			assigned++
		}
		a.owner[jBest] = i
		a.assign[i] = int32(jBest)

		a.bids++
		if a.bids%auctionCancelStride == 0 && a.cancel.Cancelled() {
			return ErrCancelled
		}
		if a.bids%auctionProgressStride == 0 && a.ch != nil {
			frac := (float32(round) + float32(assigned)/float32(a.n)) / float32(a.rounds)
			a.ch.SendProgress(frac)
		}
	}
	return nil
}

// bestBid scans all targets for source i and returns the best target and
// its new price: the old price plus i's margin over its second-best
// option plus epsilon.
func (a *auctionState) bestBid(i int, eps float64) (int, float64) {
	p := &a.src.Particles[i]

	jBest := -1
	best := math.Inf(-1)
	second := math.Inf(-1)
	for j := 0; j < a.n; j++ {
		v := -a.model.PairCost(p, &a.tgt.Particles[j]) - a.prices[j]
		if v > best {
			second = best
			best = v
			jBest = j
		} else if v > second {
			second = v
		}
	}
	if math.IsInf(second, -1) {
		second = best
	}
	return jBest, a.prices[jBest] + best - second + eps
}

// emitSnapshot sends the round's assignment and a preview image. The
// assignment is completed to a permutation first so consumers can always
// animate it.
func (a *auctionState) emitSnapshot() {
	if a.ch == nil {
		return
	}
	snapshot := completePartial(a.assign, a.n)
	a.ch.SendAssignment(snapshot)
	pix := renderPreview(a.src, a.tgt, snapshot)
	a.ch.SendPreview(a.src.Sidelen, a.src.Sidelen, pix)
}

// completePartial turns a partial source->target map (-1 = unassigned)
// into a permutation by routing leftover sources to leftover targets in
// index order.
func completePartial(assign []int32, n int) []uint32 {
	out := make([]uint32, n)
	used := make([]bool, n)
	for i, j := range assign {
		if j >= 0 {
			out[i] = uint32(j)
			used[j] = true
		}
	}
	free := 0
	for i, j := range assign {
		if j >= 0 {
			continue
		}
		for used[free] {
			free++
		}
		out[i] = uint32(free)
		used[free] = true
	}
	return out
}
