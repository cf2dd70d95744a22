// Package tool implements the capabilities agents can invoke through model
// function calling: a Tool interface, schema-validated FunctionTool, plain
// string-in/string-out TextTool, and the ToolError used to report failures.
package tool

import (
	"fmt"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/internal/util"
	"github.com/hupe1980/lifemesh/model"
)

// Tool is a capability exposed to an agent's model.
//
// Implementations should:
//   - Use snake_case names that are unique within one agent
//   - Describe when to call them, since the description is shown to the model
//   - Be safe for concurrent use; one Tool value may back several agents
type Tool interface {
	// Name returns the unique identifier used in function call declarations.
	Name() string

	// Description is shown to the model to decide when to call the tool.
	Description() string

	// Parameters returns the JSON schema of the accepted arguments.
	Parameters() map[string]any

	// Call executes the tool with decoded arguments.
	Call(toolCtx *core.ToolContext, args map[string]any) (any, error)
}

// ValidationError represents parameter validation errors.
type ValidationError = util.ValidationError

// Error codes attached to ToolError.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
	CodeNotFound   = "TOOL_NOT_FOUND"
)

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
	Err     error  `json:"-"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ToolError) Unwrap() error { return e.Err }

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}

// Definitions converts tools to model function declarations, preserving order.
func Definitions(tools []Tool) []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}
