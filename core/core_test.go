package core

import "context"

type memSessionStore struct {
	sessions map[string]*Session
	applied  map[string]map[string]any
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]*Session{}, applied: map[string]map[string]any{}}
}

func (s *memSessionStore) Get(id string) (*Session, error) {
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	sess := NewSession(id)
	s.sessions[id] = sess
	return sess, nil
}

func (s *memSessionStore) Create(id string) (*Session, error) { return s.Get(id) }

func (s *memSessionStore) AppendEvent(id string, ev Event) error {
	sess, _ := s.Get(id)
	sess.AddEvent(ev)
	return nil
}

func (s *memSessionStore) ApplyDelta(id string, delta map[string]any) error {
	sess, _ := s.Get(id)
	sess.ApplyStateDelta(delta)
	s.applied[id] = delta
	return nil
}

type memArtifactStore struct{ data map[string][]byte }

func (a *memArtifactStore) Save(_, aid string, b []byte) error {
	if a.data == nil {
		a.data = map[string][]byte{}
	}
	a.data[aid] = append([]byte{}, b...)
	return nil
}

func (a *memArtifactStore) Get(_, aid string) ([]byte, error) { return a.data[aid], nil }

func (a *memArtifactStore) List(string) ([]string, error) {
	ids := make([]string, 0, len(a.data))
	for k := range a.data {
		ids = append(ids, k)
	}
	return ids, nil
}

func (a *memArtifactStore) Delete(_, aid string) error {
	delete(a.data, aid)
	return nil
}

func newRunContextForTest() (*RunContext, chan Event) {
	store := newMemSessionStore()
	sess, _ := store.Create("test-session")
	emit := make(chan Event, 10)
	rc := NewRunContext(context.Background(), "test-session", "test-run", AgentInfo{Name: "Test Agent", Type: "test"}, func(o *RunContextOptions) {
		o.UserContent = NewTextContent("user", "Test input")
		o.Emit = emit
		o.Session = sess
		o.SessionStore = store
		o.ArtifactStore = &memArtifactStore{}
	})
	return rc, emit
}
