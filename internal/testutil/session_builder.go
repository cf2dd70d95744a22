package testutil

import (
	"github.com/hupe1980/lifemesh/core"
)

// SessionBuilder helps construct sessions with fluent chaining:
//
//	sess := NewSessionBuilder("sess-1").State("ideas", "...").Events(ev1, ev2).Build()
type SessionBuilder struct {
	id     string
	state  map[string]any
	events []core.Event
}

// NewSessionBuilder creates a new builder for a session with the given id.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id, state: map[string]any{}}
}

// State sets a state key/value pair.
func (b *SessionBuilder) State(key string, val any) *SessionBuilder {
	b.state[key] = val
	return b
}

// Events appends events to the session history.
func (b *SessionBuilder) Events(evs ...core.Event) *SessionBuilder {
	b.events = append(b.events, evs...)
	return b
}

// Build returns a *core.Session with pre-populated state and events.
func (b *SessionBuilder) Build() *core.Session {
	s := core.NewSession(b.id)
	s.ApplyStateDelta(b.state)
	for _, ev := range b.events {
		s.AddEvent(ev)
	}
	return s
}
