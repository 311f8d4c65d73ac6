package state

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// Listener observes every dispatched action together with the state before
// and after it. Listeners run on the dispatching goroutine and must not call
// Dispatch.
type Listener func(action Action, prev, next AppState)

// Dispatcher is the write side of the store.
type Dispatcher interface {
	Dispatch(action Action) AppState
}

// Reader is the read side of the store.
type Reader interface {
	Read() AppState
}

type ReadDispatcher interface {
	Reader
	Dispatcher
}

// Store is the single writer over an AppState. Build one per session and hand
// it to whoever needs it.
type Store struct {
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	state     AppState
	listeners []subscription
	nextID    int
}

type subscription struct {
	id       int
	listener Listener
}

func NewStore() *Store {
	return NewStoreWithState(Initial())
}

func NewStoreWithState(initial AppState) *Store {
	return &Store{
		state: initial.Clone(),
	}
}

// Dispatch applies the action, publishes the new state and then notifies
// listeners in subscription order. Concurrent dispatches are serialized.
func (s *Store) Dispatch(action Action) AppState {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, action)
	s.state = next
	listeners := append([]subscription(nil), s.listeners...)
	s.mu.Unlock()

	for _, sub := range listeners {
		sub.listener(action, prev.Clone(), next.Clone())
	}
	return next.Clone()
}

func (s *Store) Read() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) CartTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CartTotal(s.state)
}

func (s *Store) CartItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CartItemCount(s.state)
}

// Subscribe registers l and returns a func that removes it again.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, listener: l})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

var _ ReadDispatcher = (*Store)(nil)

type ctxKey struct{}

// WithStore installs store into ctx for handlers further down the chain.
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, store)
}

// FromContext returns the store installed by WithStore. A missing store means
// the caller was wired without one, which is a programming error.
func FromContext(ctx context.Context) *Store {
	store, ok := ctx.Value(ctxKey{}).(*Store)
	if !ok || store == nil {
		panic("state: store accessed outside of an initialized context")
	}
	return store
}
