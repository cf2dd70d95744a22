// Package flow runs a single model-backed agent turn by turn: request
// processors assemble the model request, the model responds, requested
// function calls are executed and their results fed back until the model
// produces a final answer.
package flow

import (
	"time"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/model"
	"github.com/hupe1980/lifemesh/tool"
)

// Flow drives one agent invocation to completion.
type Flow interface {
	Execute(runCtx *core.RunContext) error
}

// FlowAgent is the view of an agent a flow needs.
type FlowAgent interface {
	Name() string
	Model() model.Model
	ResolveInstructions(runCtx *core.RunContext) (string, error)
	GlobalInstructions(runCtx *core.RunContext) (string, error)
	Tools() []tool.Tool
	IsStreamingEnabled() bool
	OutputKey() string
	MaxHistoryMessages() int
	MaxTurns() int
	ToolTimeout() time.Duration
	Temperature() *float64
	MaxTokens() int
}

// RequestProcessor processes the request before sending it to the model.
type RequestProcessor interface {
	Name() string
	ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error
}

// ResponseProcessor processes each model response before it is emitted.
type ResponseProcessor interface {
	Name() string
	ProcessResponse(runCtx *core.RunContext, resp *model.Response, agent FlowAgent) error
}
