package sort

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of worker goroutines running at the same time across
// every sort sharing it. A worker must take a slot before it starts and gives
// it back when it is done; a task which finds no free slot runs on the calling
// goroutine instead.
type Pool struct {
	size   int64
	slots  *semaphore.Weighted
	active atomic.Int64
	peak   atomic.Int64
}

// NewPool returns a pool with size worker slots. If size <= 0, GOMAXPROCS
// slots are used.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{
		size:  int64(size),
		slots: semaphore.NewWeighted(int64(size)),
	}
}

// Size returns the number of worker slots.
func (p *Pool) Size() int {
	return int(p.size)
}

// Active returns the number of workers currently holding a slot.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Peak returns the highest number of workers which held a slot at the same time.
func (p *Pool) Peak() int {
	return int(p.peak.Load())
}

func (p *Pool) tryAcquire() bool {
	if !p.slots.TryAcquire(1) {
		return false
	}
	n := p.active.Add(1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	return true
}

func (p *Pool) release() {
	p.active.Add(-1)
	p.slots.Release(1)
}
