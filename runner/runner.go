package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/logging"
	"github.com/hupe1980/lifemesh/session"
)

// ErrRunNotFound is returned by Cancel for unknown or finished runs.
var ErrRunNotFound = errors.New("run not found")

// ErrTransferUnavailable is returned when an agent requests a transfer but the
// runner has no AgentResolver.
var ErrTransferUnavailable = errors.New("agent transfer not configured")

// maxTransfers bounds the handoff chain of a single run.
const maxTransfers = 5

// AgentResolver looks up transfer targets by name. *registry.Registry
// satisfies it.
type AgentResolver interface {
	Get(name string) (core.Agent, error)
}

// Options holds dependency and configuration overrides passed to New.
type Options struct {
	// MaxConcurrentRuns limits concurrently executing agents (0 = unlimited).
	MaxConcurrentRuns int
	// EventBufferSize sets channel buffering for events.
	EventBufferSize int
	// SessionStore persists sessions; defaults to an in-memory store.
	SessionStore core.SessionStore
	// ArtifactStore is exposed to tools; nil disables artifacts.
	ArtifactStore core.ArtifactStore
	// MaxModelCalls caps model calls per run across all agents (0 = unlimited).
	MaxModelCalls int
	// Agents resolves transfer_to_agent targets.
	Agents AgentResolver
	Logger logging.Logger
}

// Runner coordinates agent execution. Public methods are safe for concurrent use.
type Runner struct {
	eventBufferSize int
	maxModelCalls   int
	slots           chan struct{}
	agents          AgentResolver

	sessionStore  core.SessionStore
	artifactStore core.ArtifactStore
	logger        logging.Logger

	activeRuns map[string]context.CancelFunc
	mu         sync.Mutex
}

// New constructs a Runner with optional overrides.
func New(optFns ...func(o *Options)) *Runner {
	opts := Options{
		MaxConcurrentRuns: 10,
		EventBufferSize:   100,
		Logger:            logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.SessionStore == nil {
		opts.SessionStore = session.NewInMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	r := &Runner{
		eventBufferSize: opts.EventBufferSize,
		maxModelCalls:   opts.MaxModelCalls,
		agents:          opts.Agents,
		sessionStore:    opts.SessionStore,
		artifactStore:   opts.ArtifactStore,
		logger:          opts.Logger,
		activeRuns:      make(map[string]context.CancelFunc),
	}
	if opts.MaxConcurrentRuns > 0 {
		r.slots = make(chan struct{}, opts.MaxConcurrentRuns)
	}

	return r
}

// SessionStore returns the store sessions are persisted in.
func (r *Runner) SessionStore() core.SessionStore { return r.sessionStore }

// Run starts an asynchronous run of agent in the given session, creating the
// session when it does not exist. Both returned channels are closed when the
// run ends; the error channel yields at most one error.
func (r *Runner) Run(
	ctx context.Context,
	agent core.Agent,
	sessionID string,
	userContent core.Content,
) (string, <-chan core.Event, <-chan error, error) {
	sess, err := r.getOrCreateSession(sessionID)
	if err != nil {
		return "", nil, nil, err
	}

	runID := core.NewID()

	userEvent := core.NewUserContentEvent(runID, &userContent)
	if err := r.sessionStore.AppendEvent(sessionID, userEvent); err != nil {
		return "", nil, nil, fmt.Errorf("failed to append user event: %w", err)
	}
	sess.AddEvent(userEvent)

	eventsCh := make(chan core.Event, r.eventBufferSize)
	errorsCh := make(chan error, 1)
	agentEmit := make(chan core.Event, r.eventBufferSize)
	resumeCh := make(chan struct{}, 1)

	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.activeRuns[runID] = cancel
	r.mu.Unlock()

	runCtx := core.NewRunContext(ctx, sessionID, runID, core.AgentInfo{Name: agent.Name(), Type: "root"},
		func(o *core.RunContextOptions) {
			o.UserContent = userContent
			o.Emit = agentEmit
			o.Resume = resumeCh
			o.Session = sess
			o.SessionStore = r.sessionStore
			o.ArtifactStore = r.artifactStore
			if r.maxModelCalls > 0 {
				o.Limiter = core.NewModelLimiter(r.maxModelCalls)
			}
			o.Logger = r.logger
		})

	r.logger.Info("runner.run.start", "run_id", runID, "session_id", sessionID, "agent", agent.Name())

	var agentErr error

	go func() {
		defer close(agentEmit)
		agentErr = r.runAgent(runCtx, agent)
	}()

	go func() {
		defer func() {
			cancel()
			r.mu.Lock()
			delete(r.activeRuns, runID)
			r.mu.Unlock()
			close(eventsCh)
			close(errorsCh)
		}()

		if err := r.processEvents(runCtx, agentEmit, resumeCh, eventsCh); err != nil {
			errorsCh <- err
			return
		}

		// agentEmit is closed, so agentErr is final.
		if agentErr != nil {
			r.logger.Error("runner.run.error", "run_id", runID, "agent", agent.Name(), "error", agentErr.Error())

			errEv := core.NewErrorEvent(runID, agent.Name(), agentErr)
			if err := r.sessionStore.AppendEvent(sessionID, errEv); err != nil {
				r.logger.Warn("runner.event.persist_failed", "run_id", runID, "error", err.Error())
			}
			select {
			case eventsCh <- errEv:
			case <-ctx.Done():
			}
			errorsCh <- fmt.Errorf("agent execution failed: %w", agentErr)
			return
		}

		r.logger.Info("runner.run.complete", "run_id", runID, "agent", agent.Name())
	}()

	return runID, eventsCh, errorsCh, nil
}

// RunSync runs agent to completion and returns every delivered event.
func (r *Runner) RunSync(ctx context.Context, agent core.Agent, sessionID string, userContent core.Content) ([]core.Event, error) {
	_, eventsCh, errorsCh, err := r.Run(ctx, agent, sessionID, userContent)
	if err != nil {
		return nil, err
	}

	var events []core.Event
	for ev := range eventsCh {
		events = append(events, ev)
	}

	if err := <-errorsCh; err != nil {
		return events, err
	}

	return events, nil
}

// Cancel cancels an active run by ID.
func (r *Runner) Cancel(runID string) error {
	r.mu.Lock()
	cancel, exists := r.activeRuns[runID]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	cancel()

	return nil
}

func (r *Runner) getOrCreateSession(sessionID string) (*core.Session, error) {
	sess, err := r.sessionStore.Get(sessionID)
	if err == nil {
		return sess, nil
	}

	if !errors.Is(err, session.ErrNotFound) {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	sess, err = r.sessionStore.Create(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	r.logger.Debug("runner.session.created", "session_id", sessionID)

	return sess, nil
}

func (r *Runner) runAgent(runCtx *core.RunContext, agent core.Agent) error {
	if r.slots != nil {
		select {
		case r.slots <- struct{}{}:
			defer func() { <-r.slots }()
		case <-runCtx.Done():
			return runCtx.Err()
		}
	}

	if err := agent.Run(runCtx); err != nil {
		return err
	}

	for hops := 0; ; hops++ {
		target := runCtx.TakeTransfer()
		if target == "" {
			return nil
		}
		if hops >= maxTransfers {
			return fmt.Errorf("transfer to %s: more than %d transfers in one run", target, maxTransfers)
		}
		if r.agents == nil {
			return fmt.Errorf("transfer to %s: %w", target, ErrTransferUnavailable)
		}

		next, err := r.agents.Get(target)
		if err != nil {
			return fmt.Errorf("transfer to %s: %w", target, err)
		}

		r.logger.Info("runner.run.transfer", "run_id", runCtx.RunID, "from", agent.Name(), "to", target)

		if err := runCtx.RefreshSession(); err != nil {
			return err
		}

		agent = next
		if err := next.Run(runCtx.WithAgent(core.AgentInfo{Name: next.Name(), Type: "transfer"})); err != nil {
			return err
		}
	}
}

// processEvents consumes agent events until the agent closes its channel.
// Only store failures are returned.
func (r *Runner) processEvents(
	runCtx *core.RunContext,
	agentEmit <-chan core.Event,
	resumeCh chan<- struct{},
	eventsCh chan<- core.Event,
) error {
	sessionID := runCtx.SessionID

	for ev := range agentEmit {
		if err := r.applyEventActions(sessionID, ev); err != nil {
			return fmt.Errorf("failed to process event actions: %w", err)
		}

		if !ev.IsPartial() {
			if err := r.sessionStore.AppendEvent(sessionID, ev); err != nil {
				return fmt.Errorf("failed to append event to session: %w", err)
			}
		}

		select {
		case eventsCh <- ev:
			r.logger.Debug("runner.event.delivered", "event_id", ev.ID, "author", ev.Author, "session_id", sessionID)
		case <-runCtx.Done():
		}

		if !ev.IsPartial() {
			select {
			case resumeCh <- struct{}{}:
			default:
			}
		}
	}

	return nil
}

func (r *Runner) applyEventActions(sessionID string, ev core.Event) error {
	if len(ev.Actions.StateDelta) > 0 {
		if err := r.sessionStore.ApplyDelta(sessionID, ev.Actions.StateDelta); err != nil {
			return fmt.Errorf("failed to apply state delta: %w", err)
		}
	}

	for id, size := range ev.Actions.ArtifactDelta {
		r.logger.Debug("runner.event.artifact", "session_id", sessionID, "artifact", id, "bytes", size)
	}

	return nil
}

// FinalText returns the text of the last complete, non-error event with text.
func FinalText(events []core.Event) string {
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		if ev.IsPartial() || ev.ErrorMessage != nil {
			continue
		}
		if t := ev.Text(); t != "" {
			return t
		}
	}
	return ""
}
