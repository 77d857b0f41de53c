// Package store implements the thin single-writer controller of spec.md
// §4.5: it serializes mutator invocations over a facade wrapping the
// committed state, tracks re-entrancy depth, folds each mutator's patches
// through the snapshot engine, and fans out notifications once the
// outermost apply completes. Grounded on the mutex-protected singleton
// shape of task/manager.go and the goroutine/context dispatch of
// server/scheduler.go, generalized from MOO tasks to arbitrary state trees.
package store

import (
	"sync"

	"flux/container"
	"flux/facade"
	"flux/fluxerr"
	"flux/snapshot"
)

// Mutator is user code run against a facade wrapping the current state. next
// lets it recursively call back into the store (spec.md §4.5 "apply is
// re-entrant"); a mutator that does not need to nest can ignore it.
type Mutator func(root *facade.Facade, next func(Mutator) (any, error)) (any, error)

// Listener observes committed state. Multiple listeners are invoked in
// subscription order.
type Listener func(state any)

// Unsubscribe removes the listener it was returned for. Calling it more
// than once is a no-op.
type Unsubscribe func()

// Pending is returned by a mutator that suspends: resolution of the
// mutation is deferred until Then's callback fires (spec.md §4.5
// "asynchronous/pending result"). The facade stays live across the
// suspension; the store's re-entrancy counter stays incremented until Then
// fires.
type Pending interface {
	Then(func(result any, err error))
}

type subscription struct {
	id     int
	listen Listener
}

// Store is the committed-state holder described by spec.md §4.5 and §6
// "create_store(initial_state, options) -> { get_state, apply, subscribe }".
type Store struct {
	mu        sync.Mutex
	state     any
	options   facade.Options
	listeners []subscription
	nextID    int
	depth     int
	dirty     bool
}

// New creates a store around initial, which must already be a recognized
// container (a *container.Record or *container.Sequence, typically).
func New(initial any, options facade.Options) *Store {
	return &Store{state: initial, options: options}
}

// GetState returns the currently committed state.
func (s *Store) GetState() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener invoked after a committed change, once the
// outermost Apply completes. Listeners fire in subscription order (spec.md
// §7 leaves the order unspecified; this store picks insertion order). It
// returns an Unsubscribe.
func (s *Store) Subscribe(listener Listener) Unsubscribe {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, listen: listener})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
		})
	}
}

// Apply wraps the current state in a facade, runs mutator against it, folds
// whatever patches it recorded through the snapshot engine, and commits the
// result (spec.md §4.5 "apply(mutator) contract"). Nested Apply calls made
// through the next callback observe whatever state the most recent sibling
// committed, and defer their own notification to the outermost completion.
func (s *Store) Apply(mutator Mutator) (any, error) {
	s.mu.Lock()
	s.depth++
	current := s.state
	s.mu.Unlock()

	rec, ok := current.(container.Recognized)
	if !ok {
		s.finishDepth(false)
		return nil, fluxerr.Unsupported("apply: committed state is not a recognized container")
	}

	f, err := facade.Wrap(rec, s.options)
	if err != nil {
		s.finishDepth(false)
		return nil, err
	}

	result, err := mutator(f, s.Apply)
	if err != nil {
		s.finishDepth(false)
		return nil, err
	}

	if pending, ok := result.(Pending); ok {
		pending.Then(func(_ any, perr error) {
			s.commit(f, perr)
		})
		return result, nil
	}

	s.commit(f, nil)
	return result, nil
}

// commit folds f's patches onto the *current* committed state — not the
// state f was wrapped around at Apply's entry, which a nested Apply may have
// since advanced (spec.md §4.5 step 3) — and updates the committed state if
// the result is not identical to it, then resolves this call's
// depth.
func (s *Store) commit(f *facade.Facade, mutatorErr error) {
	changed := false
	if mutatorErr == nil {
		base := s.GetState()
		newState := snapshot.Rebase(f, base)
		s.mu.Lock()
		if !container.Identical(newState, s.state) {
			s.state = newState
			changed = true
		}
		s.mu.Unlock()
	}
	s.finishDepth(changed)
}

// finishDepth decrements the re-entrancy counter and, if it has returned to
// zero and some completed invocation in this nest produced a change, fires
// every subscriber exactly once (spec.md §4.5 step 4 and §5 "Nesting").
func (s *Store) finishDepth(changed bool) {
	s.mu.Lock()
	if changed {
		s.dirty = true
	}
	s.depth--
	notify := s.depth == 0 && s.dirty
	if notify {
		s.dirty = false
	}
	var listeners []Listener
	var state any
	if notify {
		state = s.state
		for _, sub := range s.listeners {
			listeners = append(listeners, sub.listen)
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}
