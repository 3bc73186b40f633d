package cart

import "sync"

// Sessions holds one cart per storefront session. All access is serialized
// behind a mutex, which stands in for the single UI thread of the original
// client.
//
// Checkout runs concurrently with further cart edits, so clearing after a
// successful order uses a version check: Snapshot captures the cart with its
// version, and ClearIfUnchanged only empties the cart when no edit happened
// in between. An edit made mid-checkout survives into the next cart.
type Sessions struct {
	mu    sync.Mutex
	carts map[string]*entry
}

type entry struct {
	state   State
	version uint64
}

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{carts: make(map[string]*entry)}
}

// Dispatch applies an action to a session's cart and returns the new state.
// A session is created empty on first use.
func (s *Sessions) Dispatch(sessionID string, a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.carts[sessionID]
	if e == nil {
		e = &entry{}
		s.carts[sessionID] = e
	}
	e.state = Reduce(e.state, a)
	e.version++
	return e.state
}

// Get returns the session's current cart state.
func (s *Sessions) Get(sessionID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.carts[sessionID]; e != nil {
		return e.state
	}
	return State{}
}

// Snapshot returns the cart state together with its version for a later
// ClearIfUnchanged.
func (s *Sessions) Snapshot(sessionID string) (State, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.carts[sessionID]; e != nil {
		return e.state, e.version
	}
	return State{}, 0
}

// ClearIfUnchanged empties the cart only when its version still matches the
// snapshot. Reports whether the cart was cleared.
func (s *Sessions) ClearIfUnchanged(sessionID string, version uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.carts[sessionID]
	if e == nil || e.version != version {
		return false
	}
	e.state = State{IsOpen: e.state.IsOpen}
	e.version++
	return true
}
