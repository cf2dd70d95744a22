package core

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/hupe1980/lifemesh/logging"
)

// RunContext carries the per-run execution scope passed to Agent.Run:
//   - the cancellation Context
//   - identifiers (SessionID, RunID, Agent info)
//   - the user Content that started the run
//   - emission / resumption channels shared with the runner
//   - backing stores and a working Session snapshot
//   - staged StateDelta applied with the next emitted event
//   - the run-wide model call Limiter and pending agent transfer
//
// A SequentialAgent passes the same RunContext to every child, so state
// written by step i (via its output key) is visible to step i+1 once the
// runner has persisted the event and the child refreshed its snapshot.
type RunContext struct {
	Context          context.Context
	SessionID, RunID string
	Agent            AgentInfo
	UserContent      Content
	Emit             chan<- Event
	Resume           <-chan struct{}
	SessionStore     SessionStore
	ArtifactStore    ArtifactStore
	Session          *Session
	StateDelta       map[string]any
	Branch           string
	// Limiter is shared by every copy of the context; nil means unlimited.
	Limiter *ModelLimiter

	transfer *transferRequest
	*loggerAdapter
}

type transferRequest struct {
	mu     sync.Mutex
	target string
}

// RunContextOptions configures optional RunContext collaborators.
type RunContextOptions struct {
	UserContent   Content
	Emit          chan<- Event
	Resume        <-chan struct{}
	Session       *Session
	SessionStore  SessionStore
	ArtifactStore ArtifactStore
	Limiter       *ModelLimiter
	Logger        logging.Logger
}

// NewRunContext constructs a RunContext with an empty state delta.
func NewRunContext(ctx context.Context, sessionID, runID string, agent AgentInfo, optFns ...func(o *RunContextOptions)) *RunContext {
	opts := RunContextOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &RunContext{
		Context:       ctx,
		SessionID:     sessionID,
		RunID:         runID,
		Agent:         agent,
		UserContent:   opts.UserContent,
		Emit:          opts.Emit,
		Resume:        opts.Resume,
		Session:       opts.Session,
		SessionStore:  opts.SessionStore,
		ArtifactStore: opts.ArtifactStore,
		StateDelta:    map[string]any{},
		Limiter:       opts.Limiter,
		transfer:      &transferRequest{},
		loggerAdapter: newLoggerAdapter(opts.Logger, "run_id", runID),
	}
}

// Done returns a channel closed when the underlying context is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// GetState returns a staged value if present, else the session value.
func (rc *RunContext) GetState(k string) (any, bool) {
	if v, ok := rc.StateDelta[k]; ok {
		return v, true
	}
	if rc.Session != nil {
		return rc.Session.GetState(k)
	}
	return nil, false
}

// SetState stages a state mutation; it is attached to the next EmitEvent.
func (rc *RunContext) SetState(k string, v any) { rc.StateDelta[k] = v }

// State returns the session state overlaid with the staged delta.
func (rc *RunContext) State() map[string]any {
	state := map[string]any{}
	if rc.Session != nil {
		state = rc.Session.StateSnapshot()
	}
	maps.Copy(state, rc.StateDelta)
	return state
}

// WithAgent returns a shallow copy attributed to another agent. The copy
// shares channels, stores and session but has its own state delta buffer.
func (rc *RunContext) WithAgent(info AgentInfo) *RunContext {
	c := *rc
	c.Agent = info
	c.StateDelta = maps.Clone(rc.StateDelta)
	return &c
}

// WithContext returns a shallow copy bound to ctx (e.g. a tool deadline).
func (rc *RunContext) WithContext(ctx context.Context) *RunContext {
	c := *rc
	c.Context = ctx
	c.StateDelta = maps.Clone(rc.StateDelta)
	return &c
}

// CountModelCall charges one model call against the run's Limiter.
func (rc *RunContext) CountModelCall() error {
	if rc.Limiter == nil {
		return nil
	}
	return rc.Limiter.Increment()
}

// RequestTransfer records that control should pass to the named agent once
// the current agent returns. The request is visible to every copy of rc.
func (rc *RunContext) RequestTransfer(agentName string) {
	if rc.transfer == nil {
		return
	}
	rc.transfer.mu.Lock()
	defer rc.transfer.mu.Unlock()
	rc.transfer.target = agentName
}

// TransferTarget returns the pending transfer target, if any.
func (rc *RunContext) TransferTarget() string {
	if rc.transfer == nil {
		return ""
	}
	rc.transfer.mu.Lock()
	defer rc.transfer.mu.Unlock()
	return rc.transfer.target
}

// TakeTransfer returns and clears the pending transfer target.
func (rc *RunContext) TakeTransfer() string {
	if rc.transfer == nil {
		return ""
	}
	rc.transfer.mu.Lock()
	defer rc.transfer.mu.Unlock()
	target := rc.transfer.target
	rc.transfer.target = ""
	return target
}

// RefreshSession reloads the session snapshot from the SessionStore.
func (rc *RunContext) RefreshSession() error {
	if rc.SessionStore == nil {
		return nil
	}

	s, err := rc.SessionStore.Get(rc.SessionID)
	if err != nil {
		return fmt.Errorf("refresh session %s: %w", rc.SessionID, err)
	}

	rc.Session = s

	return nil
}

// EmitEvent merges the staged StateDelta into ev and sends it to the runner.
func (rc *RunContext) EmitEvent(ev Event) error {
	if len(rc.StateDelta) > 0 {
		if ev.Actions.StateDelta == nil {
			ev.Actions.StateDelta = map[string]any{}
		}
		maps.Copy(ev.Actions.StateDelta, rc.StateDelta)
	}

	if ev.RunID == "" {
		ev.RunID = rc.RunID
	}
	if ev.Branch == "" {
		ev.Branch = rc.Branch
	}

	select {
	case <-rc.Context.Done():
		return rc.Context.Err()
	case rc.Emit <- ev:
	}

	rc.StateDelta = map[string]any{}

	return nil
}

// WaitForResume blocks until the runner acknowledges persistence of the last
// non-partial event, or the context is cancelled.
func (rc *RunContext) WaitForResume() error {
	if rc.Resume == nil {
		return nil
	}

	select {
	case <-rc.Resume:
		return nil
	case <-rc.Context.Done():
		return rc.Context.Err()
	}
}
