// Package assistant assembles the lifemesh assistant: the static agent
// catalogue and workflows, the workflow registry, goal planning and the root
// LifeAssistant agent that ties the capabilities together.
package assistant

import (
	"fmt"

	"github.com/hupe1980/lifemesh/agent"
	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/logging"
	"github.com/hupe1980/lifemesh/model"
	"github.com/hupe1980/lifemesh/orchestration"
	"github.com/hupe1980/lifemesh/registry"
	"github.com/hupe1980/lifemesh/runner"
	"github.com/hupe1980/lifemesh/tool"
	"github.com/hupe1980/lifemesh/toolset"
	"github.com/hupe1980/lifemesh/workflow"
	"github.com/hupe1980/lifemesh/workspace"
)

// RootName is the name of the root agent.
const RootName = "LifeAssistant"

const rootInstruction = "You are the primary assistant for the Life project. Identify the user's task and call the relevant tools to complete it. " +
	"For Google Drive questions, call read_files() and summarise the result. " +
	"For email digests, call summarize_emails() and provide the structured summary; only call send_email_summary(summary) if the user explicitly asks to send it. " +
	"For motorcycle procurement requests, call procure_motorcycle(requirements) once, passing the user's requirements verbatim. " +
	"That tool already runs the full workflow and returns the cleaned JSON. " +
	"You may ask concise clarifying questions when the request is ambiguous.\n\n" +
	"To run a named workflow call run_workflow(workflow_name, input). " +
	"For a new multi-step goal that no workflow covers, call plan_goal_workflow(goal), pass its output to register_goal_workflow(plan_json) " +
	"and then run the new workflow. Call list_goal_workflows() to see the workflows created this way. " +
	"When a registered workflow should take over the conversation and answer the user directly, call transfer_to_agent(agent) with the workflow name."

// rootTools lists the capability tools the root agent may call directly.
var rootTools = []string{
	"generate_ideas",
	"write_content",
	"format_draft",
	"read_files",
	"summarize_emails",
	"send_email_summary",
	"procure_motorcycle",
}

// EmailOptions configures digest delivery.
type EmailOptions struct {
	To            string
	Subject       string
	RecipientName string
	SenderName    string
}

// Options configures New.
type Options struct {
	// DefaultModel is used by every agent that does not name a model.
	DefaultModel string
	// Generator backs the toolsets. Nil uses the default model.
	Generator toolset.Generator
	// Workspace is the Gmail/Drive client. Nil uses an empty in-memory client.
	Workspace   workspace.Client
	Email       EmailOptions
	DriveFolder string
	// Reports receives persisted reports such as motorcycle.json.
	Reports core.ArtifactStore
	// Workflows are registered after the built-in workflows and may replace them.
	Workflows []WorkflowDef
	// Runner executes workflows for run_workflow. Nil creates a private runner.
	Runner *runner.Runner
	Logger logging.Logger
}

// Assistant holds the assembled components.
type Assistant struct {
	Toolsets  Toolsets
	Catalog   Catalog
	Factory   *workflow.Factory
	Builder   *workflow.Builder
	Registry  *registry.Registry
	Registrar *orchestration.Registrar
	Planner   *Planner
	Workflows *WorkflowRunner
	Root      *agent.ModelAgent
}

// New assembles the assistant. Static workflows are registered before the
// Registrar is created so that only planned workflows count as goal-driven.
func New(resolver model.Resolver, optFns ...func(o *Options)) (*Assistant, error) {
	opts := Options{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.Generator == nil {
		m, err := resolver.Resolve(opts.DefaultModel)
		if err != nil {
			return nil, fmt.Errorf("resolve default model: %w", err)
		}
		opts.Generator = toolset.NewModelGenerator(m)
	}

	if opts.Workspace == nil {
		opts.Workspace = workspace.NewInMemory()
	}

	if opts.Runner == nil {
		opts.Runner = runner.New(func(o *runner.Options) { o.Logger = opts.Logger })
	}

	text := toolset.NewTextTools(opts.Generator, func(o *toolset.TextToolsOptions) {
		o.Reports = opts.Reports
		o.Logger = opts.Logger
	})
	google := toolset.NewGoogleTools(opts.Generator, opts.Workspace, func(o *toolset.GoogleToolsOptions) {
		o.To = opts.Email.To
		if opts.Email.Subject != "" {
			o.Subject = opts.Email.Subject
		}
		if opts.Email.RecipientName != "" {
			o.RecipientName = opts.Email.RecipientName
		}
		if opts.Email.SenderName != "" {
			o.SenderName = opts.Email.SenderName
		}
		o.FolderName = opts.DriveFolder
		o.Logger = opts.Logger
	})
	market := toolset.NewMarketplaceTools(opts.Generator)

	ts := Toolsets{
		Text:      text,
		Google:    google,
		Market:    market,
		Assistant: toolset.NewAssistantTools(market, text),
	}

	a := &Assistant{
		Toolsets: ts,
		Catalog:  NewCatalog(ts),
		Factory: workflow.NewFactory(resolver, func(o *workflow.FactoryOptions) {
			o.DefaultModel = opts.DefaultModel
			o.Logger = opts.Logger
		}),
		Registry: registry.New(func(o *registry.Options) { o.Logger = opts.Logger }),
	}

	a.Builder = workflow.NewBuilder(a.Factory, func(o *workflow.BuilderOptions) { o.Logger = opts.Logger })

	defs := append(StaticWorkflows(), opts.Workflows...)
	for _, def := range defs {
		if err := a.RegisterWorkflow(def); err != nil {
			return nil, err
		}
	}

	a.Registrar = orchestration.NewRegistrar(a.Builder, a.Registry, toolset.MustLookup(text.Tools(), "perform_task"),
		func(o *orchestration.RegistrarOptions) { o.Logger = opts.Logger })
	a.Planner = NewPlanner(opts.Generator, opts.Logger)
	a.Workflows = NewWorkflowRunner(a.Registry, opts.Runner, opts.Logger)

	root, err := a.Factory.Create(a.RootSpec(), workflow.Overrides{})
	if err != nil {
		return nil, err
	}
	a.Root = root

	opts.Logger.Info("assistant.ready", "workflows", a.Registry.Len(), "tools", len(root.Tools()))

	return a, nil
}

// RegisterWorkflow builds def from the catalogue and registers it.
func (a *Assistant) RegisterWorkflow(def WorkflowDef) error {
	steps, err := a.Catalog.Steps(def, a.Toolsets.All())
	if err != nil {
		return err
	}

	seq, err := a.Builder.Build(def.Name, steps, def.Description)
	if err != nil {
		return fmt.Errorf("workflow %s: %w", def.Name, err)
	}

	a.Registry.Register(def.Name, seq)

	return nil
}

// RootSpec describes the root agent.
func (a *Assistant) RootSpec() workflow.AgentSpec {
	all := a.Toolsets.All()

	tools := make([]tool.Tool, 0, len(rootTools)+5)
	for _, name := range rootTools {
		tools = append(tools, toolset.MustLookup(all, name))
	}
	tools = append(tools, a.Planner.Tool())
	tools = append(tools, a.Registrar.Tools()...)
	tools = append(tools, a.Workflows.Tool())
	tools = append(tools, a.transferTool())

	return workflow.AgentSpec{
		Name:        RootName,
		Description: "Handles user requests by invoking the Life project toolset.",
		Instruction: rootInstruction,
		Tools:       tools,
		OutputKey:   "assistant_response",
		Params: map[string]any{
			"tool_timeout": "10m",
			"max_turns":    15,
		},
	}
}

// transferTool hands the conversation to a registered workflow. The runner
// executing the root agent resolves the target through the registry.
func (a *Assistant) transferTool() tool.Tool {
	return tool.NewTransferToAgentTool(func(o *tool.TransferOptions) {
		o.Description = "Hand the conversation to a registered workflow by name. The workflow runs on the current conversation and answers the user directly."
		o.Targets = a.Registry.Names
	})
}

// WorkflowInfo describes a registered workflow.
type WorkflowInfo struct {
	Name        string
	Description string
	Steps       []string
	Static      bool
}

// ListWorkflows describes every registered workflow in registration order.
func (a *Assistant) ListWorkflows() []WorkflowInfo {
	entries := a.Registry.Entries()
	out := make([]WorkflowInfo, 0, len(entries))

	for _, e := range entries {
		info := WorkflowInfo{Name: e.Name, Description: e.Description(), Static: a.Registrar.IsStatic(e.Name)}
		for _, sub := range e.Agent.SubAgents() {
			info.Steps = append(info.Steps, sub.Name())
		}
		out = append(out, info)
	}

	return out
}
