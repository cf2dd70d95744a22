package artifact

import (
	"slices"
	"sort"
	"sync"
)

// InMemoryStore keeps artifacts in a nested map guarded by an RWMutex. Data
// is copied on save and retrieval.
//
// Layout: sessionID -> artifactID -> raw bytes
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]map[string][]byte
}

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[string]map[string][]byte)}
}

// Save stores (or overwrites) the artifact bytes for the given session and id.
func (a *InMemoryStore) Save(sessionID, artifactID string, data []byte) error {
	if artifactID == "" {
		return ErrInvalidID
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.artifacts[sessionID]; !exists {
		a.artifacts[sessionID] = make(map[string][]byte)
	}
	a.artifacts[sessionID][artifactID] = slices.Clone(data)

	return nil
}

// Get returns a copy of the stored artifact bytes or ErrNotFound.
func (a *InMemoryStore) Get(sessionID, artifactID string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	data, ok := a.artifacts[sessionID][artifactID]
	if !ok {
		return nil, ErrNotFound
	}

	return slices.Clone(data), nil
}

// List returns the artifact ids stored for the session in lexical order.
func (a *InMemoryStore) List(sessionID string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	m := a.artifacts[sessionID]
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids, nil
}

// Delete removes the artifact if present or returns ErrNotFound.
func (a *InMemoryStore) Delete(sessionID, artifactID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	m, ok := a.artifacts[sessionID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m[artifactID]; !ok {
		return ErrNotFound
	}
	delete(m, artifactID)

	return nil
}
