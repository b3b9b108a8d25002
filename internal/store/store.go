package store

import (
	"sync"
)

// Listener observes committed transitions. It runs on the dispatching
// goroutine after the new snapshot is published and must not call Dispatch
// synchronously.
type Listener func(prev, next State, a Action)

// Store owns the current snapshot of one workspace.
//
// Dispatches are serialised; State may be read concurrently with a dispatch
// and always returns a complete snapshot.
type Store struct {
	planner Planner

	dispatchMu sync.Mutex

	mu    sync.RWMutex
	state State
	epoch uint64

	subsMu sync.Mutex
	subs   []subscription
	nextID int
}

type subscription struct {
	id int
	fn Listener
}

// Option configures a Store.
type Option func(*Store)

// WithListener registers fn before the first dispatch.
func WithListener(fn Listener) Option {
	return func(s *Store) { s.addListener(fn) }
}

// New returns a Store seeded with initial.
func New(p Planner, initial State, opts ...Option) *Store {
	s := &Store{planner: p, state: initial}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Epoch identifies the current session. It advances on every Logout, so work
// started under an older epoch can detect that its session has ended.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Dispatch applies a and returns the resulting snapshot. Listeners are
// notified in registration order when the snapshot changed.
func (s *Store) Dispatch(a Action) State {
	next, _ := s.dispatch(nil, a)
	return next
}

// DispatchAt applies a only if the store is still at epoch. It reports false,
// leaving the state untouched, when a Logout happened in between.
func (s *Store) DispatchAt(epoch uint64, a Action) (State, bool) {
	return s.dispatch(&epoch, a)
}

func (s *Store) dispatch(epoch *uint64, a Action) (State, bool) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.RLock()
	prev, cur := s.state, s.epoch
	s.mu.RUnlock()

	if epoch != nil && *epoch != cur {
		dispatchTotal.WithLabelValues(string(a.Type()), "stale").Inc()
		return prev, false
	}

	next, changed := reduce(s.planner, prev, a)
	if !changed {
		dispatchTotal.WithLabelValues(string(a.Type()), "noop").Inc()
		return prev, true
	}

	s.mu.Lock()
	s.state = next
	if _, ok := a.(Logout); ok {
		s.epoch++
	}
	s.mu.Unlock()
	dispatchTotal.WithLabelValues(string(a.Type()), "applied").Inc()

	for _, fn := range s.listeners() {
		fn(prev, next, a)
	}
	return next, true
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	id := s.addListener(fn)
	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) addListener(fn Listener) int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.nextID++
	s.subs = append(s.subs, subscription{id: s.nextID, fn: fn})
	return s.nextID
}

func (s *Store) listeners() []Listener {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	out := make([]Listener, len(s.subs))
	for i, sub := range s.subs {
		out[i] = sub.fn
	}
	return out
}
