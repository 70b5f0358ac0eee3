package feeder

import (
	"errors"
)

var (
	ErrDecodeRecord = errors.New("failed to decode record")
	ErrReadRecord   = errors.New("failed to read record")
)

// Feed carries one produced item, or the error which ended the production.
type Feed[T any] struct {
	Item T
	Err  error
}

// Feeder produces an ordered sequence of items. The feed channel is closed
// once the input is exhausted, Stop releases the producer early.
type Feeder[T any] interface {
	GetFeed() chan *Feed[T]
	Stop()
}

// Collect drains f in order and stops it. It returns on the first error.
func Collect[T any](f Feeder[T]) ([]T, error) {
	defer f.Stop()
	items := []T{}
	for feed := range f.GetFeed() {
		if feed.Err != nil {
			return nil, feed.Err
		}
		items = append(items, feed.Item)
	}
	return items, nil
}
