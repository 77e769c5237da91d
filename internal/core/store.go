package core

import (
	"log/slog"
	"sync"
)

// Transition describes one completed dispatch.
type Transition struct {
	Prev State
	Next State
	Tags []Tag
}

// Touches reports whether the dispatch changed any entity collection.
func (t Transition) Touches() bool {
	for _, tag := range t.Tags {
		if tag.Collection != CollectionSession || tag.Op == OpInitialize {
			return true
		}
	}
	return false
}

// Observer is notified after every dispatch that changed the state.
// Observers run in subscription order, one dispatch at a time.
type Observer func(Transition)

// DispatchRecorder counts applied actions.
type DispatchRecorder interface {
	Dispatched(collection, op string)
}

type noopDispatchRecorder struct{}

func (noopDispatchRecorder) Dispatched(string, string) {}

// Store holds the aggregate state and applies actions to it one dispatch at
// a time. The store itself has no side effects beyond notifying observers.
type Store struct {
	dispatchMu sync.Mutex
	mu         sync.RWMutex
	state      State
	observers  map[int]Observer
	nextObs    int
	recorder   DispatchRecorder
	logger     *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDispatchRecorder installs a recorder for applied actions.
func WithDispatchRecorder(r DispatchRecorder) StoreOption {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithStoreLogger sets the store logger.
func WithStoreLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore constructs a store holding initial.
func NewStore(initial State, opts ...StoreOption) *Store {
	s := &Store{
		state:     initial,
		observers: make(map[int]Observer),
		recorder:  noopDispatchRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies the actions in order as a single transition and returns
// the resulting state. Actions that do not apply (unknown entity types,
// missing IDs) leave the state unchanged. Observers must not dispatch.
func (s *Store) Dispatch(actions ...Action) State {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	prev := s.state
	next := prev
	var applied []Tag
	for _, action := range actions {
		if action == nil {
			continue
		}
		var changed bool
		next, changed = action.reduce(next)
		tag := action.Tag()
		if !changed {
			s.logger.Debug("action not applied", "tag", tag.String())
			continue
		}
		s.recorder.Dispatched(string(tag.Collection), string(tag.Op))
		applied = append(applied, tag)
	}
	s.state = next
	observers := make([]Observer, 0, len(s.observers))
	for i := 0; i < s.nextObs; i++ {
		if obs, ok := s.observers[i]; ok {
			observers = append(observers, obs)
		}
	}
	s.mu.Unlock()

	if len(applied) == 0 {
		return next
	}
	transition := Transition{Prev: prev, Next: next, Tags: applied}
	for _, obs := range observers {
		obs(transition)
	}
	return next
}

// Subscribe registers an observer and returns a function removing it.
func (s *Store) Subscribe(obs Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = obs
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}
