package sort

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

type options struct {
	pool *Pool
}

// Option configures a Sorter.
type Option func(*options)

// WithPool makes the sorter take its worker slots from p. Sorters sharing a
// pool never run more than p.Size() workers at the same time.
func WithPool(p *Pool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// Sorter sorts slices of T with a stable merge sort whose halves may be sorted
// by worker goroutines. A Sorter is safe for concurrent use.
type Sorter[T any] struct {
	cmp     CompareFunc[T]
	pool    *Pool
	spawned atomic.Int64
}

// New returns a Sorter ordering elements by cmp. cmp must not be nil and must
// be safe to call from several goroutines at once.
func New[T any](cmp CompareFunc[T], opts ...Option) *Sorter[T] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return &Sorter[T]{
		cmp:  cmp,
		pool: o.pool,
	}
}

// Spawned returns the number of worker goroutines the sorter has started.
func (s *Sorter[T]) Spawned() int64 {
	return s.spawned.Load()
}

// Sort sorts data in place. budget is the number of additional worker
// goroutines the call may start; budget <= 0 sorts on the calling goroutine.
//
// The budget is split between the two halves of every level where it is
// greater than 2, and turned into workers where it reaches 2 or 1. The result
// does not depend on the budget.
func (s *Sorter[T]) Sort(data []T, budget int) {
	glog.V(5).Infof("sorting %d elements with thread budget %d", len(data), budget)
	pool := s.pool
	if pool == nil && budget > 0 {
		pool = NewPool(budget)
	}
	s.sort(data, budget, pool)
}

func (s *Sorter[T]) sort(data []T, budget int, pool *Pool) {
	n := len(data)
	if n <= 1 {
		return
	}
	mid := n / 2
	left := make([]T, mid)
	copy(left, data[:mid])
	right := make([]T, n-mid)
	copy(right, data[mid:])

	sortLeft := func() { SortSequential(left, s.cmp) }
	sortRight := func() { SortSequential(right, s.cmp) }
	switch {
	case budget > 2:
		half := budget / 2
		s.sort(left, budget-half, pool)
		s.sort(right, half, pool)
	case budget == 2:
		s.fork(pool, nil, sortLeft, sortRight)
	case budget == 1:
		s.fork(pool, sortRight, sortLeft)
	default:
		sortLeft()
		sortRight()
	}

	mergeHalves(data, left, right, s.cmp)
}

// fork runs every task on a worker goroutine when the pool has a free slot
// and on the calling goroutine otherwise, runs inline on the calling goroutine,
// then waits for all workers. A panic in any of them is raised again here,
// never before every started worker has returned.
func (s *Sorter[T]) fork(pool *Pool, inline func(), tasks ...func()) {
	var g errgroup.Group
	var r any
	for _, task := range tasks {
		if !pool.tryAcquire() {
			glog.V(6).Infof("no free worker slot out of %d, running on the calling goroutine", pool.Size())
			if p := catch(task); r == nil {
				r = p
			}
			continue
		}
		s.spawned.Add(1)
		g.Go(func() error {
			defer pool.release()
			if p := catch(task); p != nil {
				return &workerPanic{value: p}
			}
			return nil
		})
	}
	if inline != nil {
		if p := catch(inline); r == nil {
			r = p
		}
	}
	err := g.Wait()
	if r != nil {
		panic(r)
	}
	var wp *workerPanic
	if errors.As(err, &wp) {
		panic(wp.value)
	}
}

// mergeHalves writes the stable merge of the sorted slices left and right into
// dst. On ties the element of left goes first.
func mergeHalves[T any](dst, left, right []T, cmp CompareFunc[T]) {
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if cmp(left[i], right[j]) <= 0 {
			dst[i+j] = left[i]
			i++
		} else {
			dst[i+j] = right[j]
			j++
		}
	}
	// At most one of the two is not empty.
	copy(dst[i+j:], left[i:])
	copy(dst[i+j:], right[j:])
}

type workerPanic struct {
	value any
}

func (w *workerPanic) Error() string {
	return fmt.Sprintf("sort worker panicked: %v", w.value)
}

func catch(fn func()) (r any) {
	defer func() {
		r = recover()
	}()
	fn()
	return nil
}

// Sort sorts data in place by cmp using up to budget worker goroutines.
func Sort[T any](data []T, cmp CompareFunc[T], budget int) {
	New(cmp).Sort(data, budget)
}

// SortOrdered sorts data in ascending order using up to budget worker goroutines.
func SortOrdered[T Comparable](data []T, budget int) {
	New(Ordered[T]()).Sort(data, budget)
}

// Sorted returns a sorted copy of data and leaves data untouched.
func Sorted[T any](data []T, cmp CompareFunc[T], budget int) []T {
	if data == nil {
		return nil
	}
	s := make([]T, len(data))
	copy(s, data)
	Sort(s, cmp, budget)
	return s
}
