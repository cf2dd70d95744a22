package assistant

import (
	"context"
	"fmt"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/logging"
	"github.com/hupe1980/lifemesh/registry"
	"github.com/hupe1980/lifemesh/runner"
	"github.com/hupe1980/lifemesh/tool"
)

// WorkflowRunner runs registered workflows in isolated sessions.
type WorkflowRunner struct {
	registry *registry.Registry
	runner   *runner.Runner
	logger   logging.Logger
}

// NewWorkflowRunner creates a WorkflowRunner.
func NewWorkflowRunner(reg *registry.Registry, r *runner.Runner, logger logging.Logger) *WorkflowRunner {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &WorkflowRunner{registry: reg, runner: r, logger: logger}
}

// Run executes the workflow registered as name with input as the user
// message and returns the final response text.
func (w *WorkflowRunner) Run(ctx context.Context, name, input string) (string, error) {
	wf, err := w.registry.Get(name)
	if err != nil {
		return "", err
	}

	sessionID := fmt.Sprintf("workflow-%s-%s", name, core.NewID())

	w.logger.Info("workflow.run.start", "workflow", name, "session_id", sessionID)

	events, err := w.runner.RunSync(ctx, wf, sessionID, core.NewTextContent("user", input))
	if err != nil {
		return "", fmt.Errorf("workflow %s: %w", name, err)
	}

	text := runner.FinalText(events)
	if text == "" {
		text = fmt.Sprintf("Workflow '%s' completed without a text response.", name)
	}

	w.logger.Info("workflow.run.complete", "workflow", name, "events", len(events))

	return text, nil
}

// Tool exposes Run as run_workflow.
func (w *WorkflowRunner) Tool() tool.Tool {
	return tool.NewTextTool(
		"run_workflow",
		"Run a registered workflow by name and return its final output.",
		[]tool.TextParam{
			{Name: "workflow_name", Description: "Name of a registered workflow."},
			{Name: "input", Description: "Input message for the first step, e.g. a topic.", Optional: true},
		},
		func(tc *core.ToolContext, args map[string]string) (string, error) {
			return w.Run(tc.Context(), args["workflow_name"], args["input"])
		},
	)
}
