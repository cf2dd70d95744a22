package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/lifemesh/core"
)

// ErrNotFound is returned when a session id is unknown.
var ErrNotFound = errors.New("session not found")

// InMemoryStore is a volatile SessionStore storing sessions in a process
// local map. It is safe for concurrent access. Returned sessions are clones;
// mutations go through AppendEvent and ApplyDelta.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Get returns a clone of an existing session or ErrNotFound.
func (s *InMemoryStore) Get(sessionID string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}

	return sess.Clone(), nil
}

// Create creates (or resets) a session with the given id.
func (s *InMemoryStore) Create(sessionID string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := core.NewSession(sessionID)
	s.sessions[sessionID] = sess

	return sess.Clone(), nil
}

// AppendEvent adds an event to the session history.
func (s *InMemoryStore) AppendEvent(sessionID string, ev core.Event) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	sess.AddEvent(ev)
	return nil
}

// ApplyDelta merges a key/value delta into the session state.
func (s *InMemoryStore) ApplyDelta(sessionID string, delta map[string]any) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	sess.ApplyStateDelta(delta)
	return nil
}

// List returns the known session ids in lexical order.
func (s *InMemoryStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// Delete removes a session.
func (s *InMemoryStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *InMemoryStore) lookup(sessionID string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}

	return sess, nil
}
