package text_feeder

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/sbezverk/parsort/feeder"
)

// Parser turns one line of text into an item.
type Parser[T any] func(string) (T, error)

type textFeeder[T any] struct {
	scanner  *bufio.Scanner
	parse    Parser[T]
	feed     chan *feeder.Feed[T]
	stop     chan struct{}
	stopOnce sync.Once
}

func (tf *textFeeder[T]) GetFeed() chan *feeder.Feed[T] {
	return tf.feed
}

func (tf *textFeeder[T]) send(f *feeder.Feed[T]) bool {
	select {
	case tf.feed <- f:
		return true
	case <-tf.stop:
		return false
	}
}

func (tf *textFeeder[T]) retrieve() {
	defer close(tf.feed)
	line := 0
	for tf.scanner.Scan() {
		line++
		text := strings.TrimSpace(tf.scanner.Text())
		if text == "" {
			continue
		}
		item, err := tf.parse(text)
		if err != nil {
			tf.send(&feeder.Feed[T]{Err: fmt.Errorf("%w at line %d: %v", feeder.ErrDecodeRecord, line, err)})
			return
		}
		if !tf.send(&feeder.Feed[T]{Item: item}) {
			return
		}
	}
	if err := tf.scanner.Err(); err != nil {
		glog.Errorf("failed to read line %d with error: %+v", line+1, err)
		tf.send(&feeder.Feed[T]{Err: fmt.Errorf("%w at line %d: %v", feeder.ErrReadRecord, line+1, err)})
		return
	}
	glog.V(5).Infof("processing of %d lines completed", line)
}

func (tf *textFeeder[T]) Stop() {
	tf.stopOnce.Do(func() {
		close(tf.stop)
	})
}

// New returns a feeder producing one item per non blank line of r. Leading and
// trailing white space is removed before a line is parsed.
func New[T any](r io.Reader, parse Parser[T]) feeder.Feeder[T] {
	tf := &textFeeder[T]{
		scanner: bufio.NewScanner(r),
		parse:   parse,
		feed:    make(chan *feeder.Feed[T]),
		stop:    make(chan struct{}),
	}
	go tf.retrieve()

	return tf
}
