package testutil

import (
	"context"

	"github.com/hupe1980/lifemesh/core"
)

// RunHarness bundles a RunContext with the channels a runner would own.
// Drain consumes emitted events, persists them and acknowledges non-partial
// events on Resume, mirroring the runner handshake.
type RunHarness struct {
	RunCtx *core.RunContext
	Events chan core.Event
	Resume chan struct{}
	Store  core.SessionStore
}

// NewRunHarness creates a RunContext over store for the given session. The
// session is created in the store when missing.
func NewRunHarness(ctx context.Context, store core.SessionStore, sessionID, userText string) (*RunHarness, error) {
	sess, err := store.Get(sessionID)
	if err != nil {
		sess, err = store.Create(sessionID)
		if err != nil {
			return nil, err
		}
	}

	events := make(chan core.Event, 64)
	resume := make(chan struct{}, 1)

	rc := core.NewRunContext(ctx, sessionID, "run-test", core.AgentInfo{Name: "root", Type: "test"}, func(o *core.RunContextOptions) {
		o.UserContent = core.NewTextContent("user", userText)
		o.Emit = events
		o.Resume = resume
		o.Session = sess
		o.SessionStore = store
	})

	return &RunHarness{RunCtx: rc, Events: events, Resume: resume, Store: store}, nil
}

// Drain persists events until the channel closes and returns them in order.
func (h *RunHarness) Drain() []core.Event {
	var out []core.Event
	for ev := range h.Events {
		_ = h.Store.AppendEvent(h.RunCtx.SessionID, ev)
		if len(ev.Actions.StateDelta) > 0 {
			_ = h.Store.ApplyDelta(h.RunCtx.SessionID, ev.Actions.StateDelta)
		}
		out = append(out, ev)
		if !ev.IsPartial() {
			select {
			case h.Resume <- struct{}{}:
			default:
			}
		}
	}
	return out
}
