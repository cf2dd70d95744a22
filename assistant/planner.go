package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/logging"
	"github.com/hupe1980/lifemesh/plan"
	"github.com/hupe1980/lifemesh/tool"
	"github.com/hupe1980/lifemesh/toolset"
)

const plannerPrompt = `You design linear multi-agent workflows. Break the goal below into two to
five sequential agents. Each agent produces one deliverable that the next agent
receives as context. Every agent runs the generic perform_task capability, so
task_prompt must describe the complete piece of work the agent performs.
Give every agent a short snake_case output_key naming its deliverable.

Return ONLY a JSON object matching this JSON schema, without markdown fences or
commentary:
%s

Goal:
%s`

// Planner asks a model to design a workflow plan for a goal.
type Planner struct {
	gen    toolset.Generator
	logger logging.Logger
}

// NewPlanner creates a Planner using gen.
func NewPlanner(gen toolset.Generator, logger logging.Logger) *Planner {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Planner{gen: gen, logger: logger}
}

// Plan returns plan JSON for goal. The output is checked with plan.Parse so
// an unusable plan surfaces as a *plan.PlanError.
func (p *Planner) Plan(ctx context.Context, goal string) (string, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return "", errors.New("goal must not be empty")
	}

	schema, err := plan.SchemaJSON()
	if err != nil {
		return "", err
	}

	text, err := p.gen.Generate(ctx, fmt.Sprintf(plannerPrompt, schema, goal))
	if err != nil {
		return "", fmt.Errorf("plan goal: %w", err)
	}

	text = toolset.StripCodeFence(text)

	parsed, err := plan.Parse(text)
	if err != nil {
		p.logger.Warn("planner.plan.invalid", "error", err.Error())
		return "", err
	}

	p.logger.Info("planner.plan.created", "workflow", parsed.Name, "agents", len(parsed.Agents))

	return text, nil
}

// Tool exposes Plan as plan_goal_workflow.
func (p *Planner) Tool() tool.Tool {
	return tool.NewTextTool(
		"plan_goal_workflow",
		"Design a new multi-step workflow for a goal and return its plan JSON for register_goal_workflow.",
		[]tool.TextParam{{Name: "goal", Description: "The user's goal, verbatim."}},
		func(tc *core.ToolContext, args map[string]string) (string, error) {
			return p.Plan(tc.Context(), args["goal"])
		},
	)
}
