package tool

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hupe1980/lifemesh/core"
)

// TransferToolName is the name models use to request a handoff.
const TransferToolName = "transfer_to_agent"

// TransferOptions configures NewTransferToAgentTool.
type TransferOptions struct {
	// Description overrides the text shown to the model.
	Description string
	// Targets lists the agents control may pass to. Nil accepts any name.
	Targets func() []string
}

// transferToAgentTool requests that the runner hand the conversation to another agent.
type transferToAgentTool struct {
	description string
	targets     func() []string
}

// NewTransferToAgentTool constructs the transfer tool.
func NewTransferToAgentTool(optFns ...func(o *TransferOptions)) Tool {
	opts := TransferOptions{
		Description: "Request transfer of control to another agent by name. Use when another agent is better suited.",
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &transferToAgentTool{description: opts.Description, targets: opts.Targets}
}

func (t *transferToAgentTool) Name() string { return TransferToolName }

func (t *transferToAgentTool) Description() string { return t.description }

func (t *transferToAgentTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"agent": map[string]any{"type": "string", "description": "Target agent name"},
		},
		"required": []string{"agent"},
	}
}

func (t *transferToAgentTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	raw, ok := args["agent"]
	if !ok {
		return nil, NewToolError(TransferToolName, "missing required field 'agent'", CodeValidation)
	}

	agentName, ok := raw.(string)
	agentName = strings.TrimSpace(agentName)
	if !ok || agentName == "" {
		return nil, NewToolError(TransferToolName, "field 'agent' must be a non-empty string", CodeValidation)
	}

	if t.targets != nil {
		targets := t.targets()
		if !slices.Contains(targets, agentName) {
			return nil, NewToolError(TransferToolName,
				fmt.Sprintf("unknown agent %q, available: %s", agentName, strings.Join(targets, ", ")), CodeNotFound)
		}
	}

	tc.TransferToAgent(agentName)

	return map[string]any{"transferred": true, "agent": agentName}, nil
}
