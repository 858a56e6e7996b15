// internal/catalog/session.go
package catalog

import "sync"

// Session pairs a filter state with its encoded query string. Apply changes
// both together, so a reader never observes a query that describes a
// different state than the one held.
type Session struct {
	mu    sync.RWMutex
	model *Model
	state FilterState
	query string
}

// NewSession seeds a session from a query string.
func NewSession(m *Model, query string) *Session {
	state := m.Decode(query)
	return &Session{model: m, state: state, query: m.Encode(state)}
}

// Apply performs one transition and returns the new state and query.
func (s *Session) Apply(key string, value any) (FilterState, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.model.Apply(s.state, key, value)
	if err != nil {
		return s.state.clone(), s.query, err
	}
	s.state = next
	s.query = s.model.Encode(next)
	return next.clone(), s.query, nil
}

func (s *Session) Reset() (FilterState, string) {
	state, query, _ := s.Apply(KeyReset, nil)
	return state, query
}

// Snapshot returns the current state and query.
func (s *Session) Snapshot() (FilterState, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone(), s.query
}
