package offline_feeder

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/sbezverk/parsort/feeder"
)

const (
	// MaxRecordLen is the largest record accepted from a record stream.
	MaxRecordLen  = 16 * 1024 * 1024
	recordLenSize = 4
)

// Decoder turns the bytes of one record into an item.
type Decoder[T any] func([]byte) (T, error)

type offFeeder[T any] struct {
	r        io.Reader
	closer   io.Closer
	decode   Decoder[T]
	feed     chan *feeder.Feed[T]
	stop     chan struct{}
	stopOnce sync.Once
}

func (o *offFeeder[T]) GetFeed() chan *feeder.Feed[T] {
	return o.feed
}

func (o *offFeeder[T]) send(f *feeder.Feed[T]) bool {
	select {
	case o.feed <- f:
		return true
	case <-o.stop:
		return false
	}
}

func (o *offFeeder[T]) fail(err error) {
	glog.Errorf("%+v", err)
	o.send(&feeder.Feed[T]{Err: err})
}

func (o *offFeeder[T]) retrieve() {
	defer close(o.feed)
	lb := make([]byte, recordLenSize)
	for n := 0; ; n++ {
		if _, err := io.ReadFull(o.r, lb); err != nil {
			if err == io.EOF {
				glog.V(5).Infof("processing of %d offline records completed", n)
				return
			}
			o.fail(fmt.Errorf("%w %d: length: %v", feeder.ErrReadRecord, n, err))
			return
		}
		l := binary.BigEndian.Uint32(lb)
		if l > MaxRecordLen {
			o.fail(fmt.Errorf("%w %d: length %d exceeds %d", feeder.ErrReadRecord, n, l, MaxRecordLen))
			return
		}
		b := make([]byte, l)
		if _, err := io.ReadFull(o.r, b); err != nil {
			o.fail(fmt.Errorf("%w %d: %v", feeder.ErrReadRecord, n, err))
			return
		}
		item, err := o.decode(b)
		if err != nil {
			o.fail(fmt.Errorf("%w %d: %v", feeder.ErrDecodeRecord, n, err))
			return
		}
		if !o.send(&feeder.Feed[T]{Item: item}) {
			return
		}
	}
}

func (o *offFeeder[T]) Stop() {
	o.stopOnce.Do(func() {
		close(o.stop)
		if o.closer != nil {
			o.closer.Close()
		}
	})
}

// New returns a feeder producing the length prefixed records read from r.
func New[T any](r io.Reader, decode Decoder[T]) feeder.Feeder[T] {
	o := &offFeeder[T]{
		r:      r,
		decode: decode,
		feed:   make(chan *feeder.Feed[T]),
		stop:   make(chan struct{}),
	}
	go o.retrieve()

	return o
}

// Open returns a feeder producing the records of the file fn. The file is
// closed when the feeder is stopped.
func Open[T any](fn string, decode Decoder[T]) (feeder.Feeder[T], error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, fmt.Errorf("failed to open offline record file %s with error: %+v", fn, err)
	}
	o := New(f, decode).(*offFeeder[T])
	o.closer = f

	return o, nil
}

// WriteRecord writes b to w prefixed with its big endian length.
func WriteRecord(w io.Writer, b []byte) error {
	if len(b) > MaxRecordLen {
		return errors.New("record is too long")
	}
	lb := make([]byte, recordLenSize)
	binary.BigEndian.PutUint32(lb, uint32(len(b)))
	if _, err := w.Write(lb); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}
