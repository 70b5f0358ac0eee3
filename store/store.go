package store

import (
	"errors"
	"sync"

	"github.com/golang/glog"
	"github.com/sbezverk/parsort/sort"
)

var (
	// ErrAlreadyExist error returns when Add attempts to add already existing item
	ErrAlreadyExist = errors.New("already exists")
	// ErrNotFound error returns when Get or Remove refer to a non existing item
	ErrNotFound = errors.New("not found")
	// ErrStopped error returns when the store is accessed after Stop
	ErrStopped = errors.New("store is stopped")
)

type storeOp uint8

const (
	addItem storeOp = iota + 1
	removeItem
	getItem
	listItems
)

// Storable is anything which can be kept in the store under its key.
type Storable interface {
	Key() string
}

var _ Storable = &item{}

type item struct {
	key string
}

func (i *item) Key() string {
	return i.key
}

// Manager defines methods to access the store. All methods are safe for
// concurrent use, the store is owned by a single manager goroutine.
type Manager interface {
	Add(Storable) error
	Remove(string) error
	Get(string) (Storable, error)
	// List returns the stored items ordered by key.
	List() []Storable
	Len() int
	Stop()
}

var _ Manager = &itemStore{}

type mgrReply struct {
	item []Storable
	err  error
}

type storeCh struct {
	op      storeOp
	item    []Storable
	replyCh chan mgrReply
}

type itemStore struct {
	stopCh   chan struct{}
	stopOnce sync.Once
	opCh     chan storeCh
}

func (s *itemStore) do(op storeOp, items ...Storable) mgrReply {
	repl := make(chan mgrReply, 1)
	select {
	case s.opCh <- storeCh{
		op:      op,
		item:    items,
		replyCh: repl,
	}:
	case <-s.stopCh:
		return mgrReply{err: ErrStopped}
	}
	return <-repl
}

func (s *itemStore) Add(i Storable) error {
	return s.do(addItem, i).err
}

func (s *itemStore) Remove(key string) error {
	return s.do(removeItem, &item{key: key}).err
}

func (s *itemStore) Get(key string) (Storable, error) {
	r := s.do(getItem, &item{key: key})
	if r.err != nil {
		return nil, r.err
	}
	return r.item[0], nil
}

func (s *itemStore) List() []Storable {
	r := s.do(listItems)
	if r.err != nil {
		glog.Warningf("listing items failed with error: %+v", r.err)
		return nil
	}
	l := r.item
	sort.Sort(l, func(a, b Storable) int {
		switch {
		case a.Key() < b.Key():
			return -1
		case a.Key() > b.Key():
			return 1
		}
		return 0
	}, 0)
	return l
}

func (s *itemStore) Len() int {
	return len(s.do(listItems).item)
}

func (s *itemStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

func (s *itemStore) manager() {
	items := make(map[string]Storable)
	for {
		select {
		case <-s.stopCh:
			return
		case msg := <-s.opCh:
			select {
			case <-s.stopCh:
				msg.replyCh <- mgrReply{err: ErrStopped}
				return
			default:
			}
			switch msg.op {
			case addItem:
				glog.V(6).Infof("Adding item: %s", msg.item[0].Key())
				if _, ok := items[msg.item[0].Key()]; ok {
					msg.replyCh <- mgrReply{err: ErrAlreadyExist}
					continue
				}
				items[msg.item[0].Key()] = msg.item[0]
				msg.replyCh <- mgrReply{}
			case removeItem:
				glog.V(6).Infof("Removing item: %s", msg.item[0].Key())
				if _, ok := items[msg.item[0].Key()]; !ok {
					msg.replyCh <- mgrReply{err: ErrNotFound}
					continue
				}
				delete(items, msg.item[0].Key())
				msg.replyCh <- mgrReply{}
			case getItem:
				glog.V(6).Infof("Getting item: %s", msg.item[0].Key())
				it, ok := items[msg.item[0].Key()]
				if !ok {
					msg.replyCh <- mgrReply{err: ErrNotFound}
					continue
				}
				msg.replyCh <- mgrReply{item: []Storable{it}}
			case listItems:
				l := make([]Storable, 0, len(items))
				for _, item := range items {
					l = append(l, item)
				}
				msg.replyCh <- mgrReply{item: l}
			}
		}
	}
}

// NewStore returns a new instance of a store, any object which is compatible
// with the interface Storable, can be stored in the store.
func NewStore() Manager {
	s := &itemStore{
		stopCh: make(chan struct{}),
		opCh:   make(chan storeCh),
	}
	// Starting store manager
	go s.manager()

	return s
}
