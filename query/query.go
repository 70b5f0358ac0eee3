package query

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
	"github.com/sbezverk/parsort/feeder"
	"github.com/sbezverk/parsort/sort"
)

var (
	// ErrThreadsNotSet error returns when a query is executed with Threads left at 0
	ErrThreadsNotSet = errors.New("threads not set, 0 is not a valid value")
	// ErrInvalidThreads error returns when Threads is negative
	ErrInvalidThreads = errors.New("threads must be positive")
	// ErrTooManyThreads error returns when Threads exceeds MaxThreads
	ErrTooManyThreads = errors.New("threads exceed the configured maximum")
	// ErrNoComparator error returns when Compare is not set
	ErrNoComparator = errors.New("comparator not set")
)

// Query selects and orders items. Threads counts the calling goroutine, so a
// query with Threads set to n sorts with a budget of n-1 workers.
type Query[T any] struct {
	Threads int
	// MaxThreads caps Threads, 0 means no cap.
	MaxThreads int
	// Exclude reports whether an item must be left out of the result, nil keeps
	// every item.
	Exclude func(T) bool
	Compare sort.CompareFunc[T]
	// Pool, when set, is shared with other queries to cap the number of
	// workers running at the same time.
	Pool *sort.Pool
}

// Validate checks the query before it is executed.
func (q *Query[T]) Validate() error {
	switch {
	case q.Threads == 0:
		return ErrThreadsNotSet
	case q.Threads < 0:
		return fmt.Errorf("%w, got %d", ErrInvalidThreads, q.Threads)
	case q.MaxThreads < 0:
		return fmt.Errorf("%w, got max %d", ErrInvalidThreads, q.MaxThreads)
	case q.MaxThreads > 0 && q.Threads > q.MaxThreads:
		return fmt.Errorf("%w: %d > %d", ErrTooManyThreads, q.Threads, q.MaxThreads)
	case q.Compare == nil:
		return ErrNoComparator
	}
	return nil
}

// Execute returns the items which are not excluded, sorted by Compare. items
// is not modified.
func (q *Query[T]) Execute(items []T) ([]T, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	result := make([]T, 0, len(items))
	for _, i := range items {
		if q.Exclude != nil && q.Exclude(i) {
			continue
		}
		result = append(result, i)
	}
	glog.V(5).Infof("query kept %d out of %d items, sorting with %d threads", len(result), len(items), q.Threads)

	var opts []sort.Option
	if q.Pool != nil {
		opts = append(opts, sort.WithPool(q.Pool))
	}
	sort.New(q.Compare, opts...).Sort(result, q.Threads-1)

	return result, nil
}

// ExecuteFeed collects every item produced by f and executes the query over
// them. f is stopped when ExecuteFeed returns.
func (q *Query[T]) ExecuteFeed(f feeder.Feeder[T]) ([]T, error) {
	if err := q.Validate(); err != nil {
		f.Stop()
		return nil, err
	}
	items, err := feeder.Collect(f)
	if err != nil {
		return nil, err
	}
	return q.Execute(items)
}
