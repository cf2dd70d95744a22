// Package lifemesh provides a high-level façade over the lifemesh assistant:
// the root LifeAssistant agent, the workflow registry and the runner that
// drives both. Most applications interact with this package by:
//  1. Creating a Mesh via New (explicit model resolver) or NewFromConfig
//  2. Invoking the assistant asynchronously (Invoke) or synchronously (InvokeSync, Ask)
//  3. Running or planning workflows (RunWorkflow, PlanGoal, RegisterGoalWorkflow)
//
// All defaults are safe for local development and testing: sessions and
// artifacts live in memory and the workspace client is an empty in-memory
// fake unless Google credentials are configured.
package lifemesh

import (
	"context"

	"github.com/hupe1980/lifemesh/artifact"
	"github.com/hupe1980/lifemesh/assistant"
	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/logging"
	"github.com/hupe1980/lifemesh/model"
	"github.com/hupe1980/lifemesh/runner"
	"github.com/hupe1980/lifemesh/session"
	"github.com/hupe1980/lifemesh/toolset"
	"github.com/hupe1980/lifemesh/workspace"
)

// Options configures the Mesh.
type Options struct {
	// DefaultModel is the model identifier used by every agent that does not
	// name one. Empty defers to the resolver default.
	DefaultModel string

	// MaxConcurrentRuns limits concurrently executing runs (0 = unlimited).
	MaxConcurrentRuns int
	// EventBufferSize sets the channel buffer size for event processing.
	EventBufferSize int
	// MaxModelCalls caps model calls per run across every agent of the run
	// (0 = unlimited). Workflows started by run_workflow get their own budget.
	MaxModelCalls int

	// Stores (defaults to in-memory implementations if not provided)
	SessionStore  core.SessionStore
	ArtifactStore core.ArtifactStore
	// Reports receives generated reports; defaults to ArtifactStore.
	Reports core.ArtifactStore

	// Generator overrides the model used by the capability tools.
	Generator toolset.Generator
	Workspace workspace.Client
	Email     assistant.EmailOptions
	// DriveFolder restricts read_files to one Drive folder.
	DriveFolder string
	Workflows   []assistant.WorkflowDef

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Mesh aggregates the assistant and the runner executing it.
type Mesh struct {
	assistant *assistant.Assistant
	runner    *runner.Runner
	logger    logging.Logger
}

// New creates a Mesh resolving model identifiers with resolver.
func New(resolver model.Resolver, optFns ...func(o *Options)) (*Mesh, error) {
	opts := Options{
		MaxConcurrentRuns: 10,
		EventBufferSize:   100,
		SessionStore:      session.NewInMemoryStore(),
		ArtifactStore:     artifact.NewInMemoryStore(),
		Logger:            logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.Reports == nil {
		opts.Reports = opts.ArtifactStore
	}

	// Workflows started from run_workflow execute while the root run holds a
	// slot, so they get a runner of their own sharing the stores.
	wr := runner.New(func(o *runner.Options) {
		o.MaxConcurrentRuns = 0
		o.EventBufferSize = opts.EventBufferSize
		o.SessionStore = opts.SessionStore
		o.ArtifactStore = opts.ArtifactStore
		o.MaxModelCalls = opts.MaxModelCalls
		o.Logger = opts.Logger
	})

	a, err := assistant.New(resolver, func(o *assistant.Options) {
		o.DefaultModel = opts.DefaultModel
		o.Generator = opts.Generator
		o.Workspace = opts.Workspace
		o.Email = opts.Email
		o.DriveFolder = opts.DriveFolder
		o.Reports = opts.Reports
		o.Workflows = opts.Workflows
		o.Runner = wr
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	r := runner.New(func(o *runner.Options) {
		o.MaxConcurrentRuns = opts.MaxConcurrentRuns
		o.EventBufferSize = opts.EventBufferSize
		o.SessionStore = opts.SessionStore
		o.ArtifactStore = opts.ArtifactStore
		o.MaxModelCalls = opts.MaxModelCalls
		o.Agents = a.Registry
		o.Logger = opts.Logger
	})

	return &Mesh{assistant: a, runner: r, logger: opts.Logger}, nil
}

// Assistant returns the assembled assistant components.
func (m *Mesh) Assistant() *assistant.Assistant { return m.assistant }

// Invoke starts an asynchronous run of the root assistant returning event
// and error channels.
func (m *Mesh) Invoke(ctx context.Context, sessionID, message string) (string, <-chan core.Event, <-chan error, error) {
	return m.runner.Run(ctx, m.assistant.Root, sessionID, core.NewTextContent("user", message))
}

// InvokeSync runs the root assistant to completion and returns its events.
func (m *Mesh) InvokeSync(ctx context.Context, sessionID, message string) ([]core.Event, error) {
	return m.runner.RunSync(ctx, m.assistant.Root, sessionID, core.NewTextContent("user", message))
}

// Ask runs the root assistant and returns its final response text.
func (m *Mesh) Ask(ctx context.Context, sessionID, message string) (string, error) {
	events, err := m.InvokeSync(ctx, sessionID, message)
	if err != nil {
		return "", err
	}
	return runner.FinalText(events), nil
}

// RunWorkflow runs a registered workflow with input as the first message.
func (m *Mesh) RunWorkflow(ctx context.Context, name, input string) (string, error) {
	return m.assistant.Workflows.Run(ctx, name, input)
}

// PlanGoal asks the planner for a workflow plan for goal.
func (m *Mesh) PlanGoal(ctx context.Context, goal string) (string, error) {
	return m.assistant.Planner.Plan(ctx, goal)
}

// RegisterGoalWorkflow registers a workflow from plan JSON.
func (m *Mesh) RegisterGoalWorkflow(planText string) (string, error) {
	return m.assistant.Registrar.RegisterGoalWorkflow(planText)
}

// ListGoalWorkflows summarizes the goal-driven workflows.
func (m *Mesh) ListGoalWorkflows() string { return m.assistant.Registrar.ListGoalWorkflows() }

// Workflows describes every registered workflow.
func (m *Mesh) Workflows() []assistant.WorkflowInfo { return m.assistant.ListWorkflows() }
