// Package orchestration turns planner output into registered workflows.
//
// The Registrar parses a plan, binds every planned agent to the generic
// perform_task capability, builds the linear pipeline and registers it under
// the plan name. It also lists the workflows registered this way, i.e. every
// registry entry that was not present when the Registrar was created.
package orchestration

import (
	"fmt"
	"strings"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/logging"
	"github.com/hupe1980/lifemesh/plan"
	"github.com/hupe1980/lifemesh/registry"
	"github.com/hupe1980/lifemesh/tool"
	"github.com/hupe1980/lifemesh/workflow"
)

// NoGoalWorkflowsMessage is returned by ListGoalWorkflows before any
// goal-driven workflow was registered.
const NoGoalWorkflowsMessage = "No goal-driven workflows have been registered yet."

// RegistrarOptions configures a Registrar.
type RegistrarOptions struct {
	Logger logging.Logger
}

// Registrar registers goal-driven workflows. Safe for concurrent use.
type Registrar struct {
	builder     *workflow.Builder
	registry    *registry.Registry
	performTask tool.Tool
	static      map[string]struct{}
	logger      logging.Logger
}

// NewRegistrar creates a Registrar. The names registered in reg at this
// point are treated as static workflows.
func NewRegistrar(builder *workflow.Builder, reg *registry.Registry, performTask tool.Tool, optFns ...func(o *RegistrarOptions)) *Registrar {
	opts := RegistrarOptions{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	static := map[string]struct{}{}
	for _, name := range reg.Names() {
		static[name] = struct{}{}
	}

	return &Registrar{
		builder:     builder,
		registry:    reg,
		performTask: performTask,
		static:      static,
		logger:      opts.Logger,
	}
}

// Specs converts a plan into one AgentSpec per planned agent, bound to the
// perform_task capability.
func (r *Registrar) Specs(p *plan.Plan) []workflow.AgentSpec {
	specs := make([]workflow.AgentSpec, len(p.Agents))
	for i, a := range p.Agents {
		specs[i] = workflow.AgentSpec{
			Name:        a.Name,
			Description: a.Description,
			Instruction: a.InstructionFor(),
			Tools:       []tool.Tool{r.performTask},
			OutputKey:   a.OutputKey,
		}
	}
	return specs
}

// RegisterGoalWorkflow parses planText, builds the workflow and registers it
// under the plan name, replacing any existing entry. Parse failures are
// returned as the parser's *plan.PlanError.
func (r *Registrar) RegisterGoalWorkflow(planText string) (string, error) {
	p, err := plan.Parse(planText)
	if err != nil {
		r.logger.Warn("registrar.plan.invalid", "error", err.Error())
		return "", err
	}

	seq, err := r.builder.Inline(p.Name, r.Specs(p), p.Description)
	if err != nil {
		return "", err
	}

	replaced := r.registry.Register(p.Name, seq)

	r.logger.Info("registrar.workflow.registered", "workflow", p.Name, "agents", len(p.Agents), "replaced", replaced)

	return fmt.Sprintf(
		"Registered workflow '%s' with agents: %s. Call run_workflow(workflow_name) to run the new chain.",
		p.Name, strings.Join(p.AgentNames(), ", "),
	), nil
}

// ListGoalWorkflows summarizes the workflows registered after construction.
func (r *Registrar) ListGoalWorkflows() string {
	var rows []string
	for _, e := range r.registry.Entries() {
		if _, ok := r.static[e.Name]; ok {
			continue
		}
		rows = append(rows, fmt.Sprintf("- %s: %s", e.Name, e.Description()))
	}

	if len(rows) == 0 {
		return NoGoalWorkflowsMessage
	}

	return "Goal-driven workflows:\n" + strings.Join(rows, "\n")
}

// IsStatic reports whether name was registered before the Registrar existed.
func (r *Registrar) IsStatic(name string) bool {
	_, ok := r.static[name]
	return ok
}

// Tools exposes the Registrar to agents as register_goal_workflow and
// list_goal_workflows.
func (r *Registrar) Tools() []tool.Tool {
	register := tool.NewTextTool(
		"register_goal_workflow",
		"Materialize and register a new workflow from a planner's JSON output.",
		[]tool.TextParam{{Name: "plan_json", Description: "Planner JSON with workflow_name, workflow_description and agents"}},
		func(_ *core.ToolContext, args map[string]string) (string, error) {
			return r.RegisterGoalWorkflow(args["plan_json"])
		},
	)

	list := tool.NewTextTool(
		"list_goal_workflows",
		"Summarize the goal-driven workflows registered so far.",
		nil,
		func(*core.ToolContext, map[string]string) (string, error) {
			return r.ListGoalWorkflows(), nil
		},
	)

	return []tool.Tool{register, list}
}
