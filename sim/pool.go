package sim

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum particle count to use the worker pool.
// Below this, single-threaded is faster due to dispatch overhead.
const parallelThreshold = 4096

// tickChunk is a particle index range for one worker.
type tickChunk struct {
	start, end int
}

// tickPool runs one tick's particle computation across persistent
// workers. Dispatch joins before returning, so a tick never outlives its
// Update call.
type tickPool struct {
	numWorkers int
	workChan   chan tickChunk
	doneChan   chan struct{}
	stopChan   chan struct{}
	wg         sync.WaitGroup
	running    bool

	n int
}

func newTickPool(n int) *tickPool {
	return &tickPool{
		numWorkers: runtime.GOMAXPROCS(0),
		n:          n,
	}
}

func (p *tickPool) start(s *Simulator) {
	if p.running {
		return
	}
	p.workChan = make(chan tickChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for w := 0; w < p.numWorkers; w++ {
		p.wg.Add(1)
		go p.worker(s)
	}
}

func (p *tickPool) stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *tickPool) worker(s *Simulator) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			s.computeChunk(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// run computes all particles for the current tick, single-threaded for
// small grids.
func (p *tickPool) run(s *Simulator) {
	if p.n < parallelThreshold || p.numWorkers < 2 {
		s.computeChunk(0, p.n)
		return
	}
	if !p.running {
		p.start(s)
	}

	chunkSize := (p.n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > p.n {
			end = p.n
		}
		if start >= end {
			continue
		}
		p.workChan <- tickChunk{start: start, end: end}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
