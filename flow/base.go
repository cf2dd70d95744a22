package flow

import (
	"errors"
	"fmt"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/model"
	"github.com/hupe1980/lifemesh/tool"
)

// ErrMaxTurnsExceeded is returned when the model keeps requesting function
// calls beyond the agent's turn limit.
var ErrMaxTurnsExceeded = errors.New("maximum model turns exceeded")

// ErrNoFinalResponse is returned when a model stream ends without a final chunk.
var ErrNoFinalResponse = errors.New("model returned no final response")

// BaseFlow runs the request -> model -> function calls loop with pluggable
// request and response processors.
type BaseFlow struct {
	agent              FlowAgent
	requestProcessors  []RequestProcessor
	responseProcessors []ResponseProcessor
	executor           FunctionExecutor
}

// NewBaseFlow creates a flow without processors using a sequential executor.
func NewBaseFlow(agent FlowAgent) *BaseFlow {
	return &BaseFlow{
		agent:    agent,
		executor: NewFunctionExecutor(FunctionExecutorConfig{MaxParallel: 1}),
	}
}

// AddRequestProcessor appends a request processor; registration order is execution order.
func (f *BaseFlow) AddRequestProcessor(p RequestProcessor) { f.requestProcessors = append(f.requestProcessors, p) }

// AddResponseProcessor appends a response processor run on every model chunk.
func (f *BaseFlow) AddResponseProcessor(p ResponseProcessor) {
	f.responseProcessors = append(f.responseProcessors, p)
}

// SetFunctionExecutor replaces the function executor.
func (f *BaseFlow) SetFunctionExecutor(e FunctionExecutor) { f.executor = e }

// Execute implements Flow.
func (f *BaseFlow) Execute(runCtx *core.RunContext) error {
	maxTurns := f.agent.MaxTurns()

	for turn := 0; ; turn++ {
		if maxTurns > 0 && turn >= maxTurns {
			return fmt.Errorf("agent %s: %w (%d)", f.agent.Name(), ErrMaxTurnsExceeded, maxTurns)
		}

		final, err := f.runOnce(runCtx)
		if err != nil {
			return err
		}

		calls := final.GetFunctionCalls()
		if len(calls) == 0 {
			return nil
		}

		if err := f.executor.Execute(runCtx, f.agent, calls, f.emit(runCtx)); err != nil {
			return err
		}

		if target := runCtx.TransferTarget(); target != "" {
			runCtx.LogDebug("agent.transfer.requested", "agent", f.agent.Name(), "target", target)
			return nil
		}
	}
}

// emit returns the callback that forwards an event to the runner and blocks
// until it has been persisted.
func (f *BaseFlow) emit(runCtx *core.RunContext) func(core.Event) error {
	return func(ev core.Event) error {
		if err := runCtx.EmitEvent(ev); err != nil {
			return err
		}
		if ev.IsPartial() {
			return nil
		}
		if err := runCtx.WaitForResume(); err != nil {
			return err
		}
		return runCtx.RefreshSession()
	}
}

// runOnce performs one model turn and returns the final (non-partial) event.
func (f *BaseFlow) runOnce(runCtx *core.RunContext) (*core.Event, error) {
	req := new(model.Request)

	for _, p := range f.requestProcessors {
		if err := p.ProcessRequest(runCtx, req, f.agent); err != nil {
			return nil, fmt.Errorf("request processor %s failed: %w", p.Name(), err)
		}
	}

	if tools := f.agent.Tools(); len(tools) > 0 {
		req.Tools = tool.Definitions(tools)
	}
	req.Stream = f.agent.IsStreamingEnabled()
	req.Temperature = f.agent.Temperature()
	req.MaxTokens = f.agent.MaxTokens()

	if err := runCtx.CountModelCall(); err != nil {
		runCtx.LogWarn("agent.model.limit", "agent", f.agent.Name(), "calls", runCtx.Limiter.Count())
		return nil, fmt.Errorf("agent %s: %w", f.agent.Name(), err)
	}

	runCtx.LogDebug("agent.model.request", "agent", f.agent.Name(), "contents", len(req.Contents), "tools", len(req.Tools))

	respCh, errCh := f.agent.Model().Generate(runCtx.Context, *req)
	emit := f.emit(runCtx)

	var final *core.Event

	for resp := range respCh {
		for _, p := range f.responseProcessors {
			if err := p.ProcessResponse(runCtx, &resp, f.agent); err != nil {
				return nil, fmt.Errorf("response processor %s failed: %w", p.Name(), err)
			}
		}

		ev := core.NewEvent(runCtx.RunID, f.agent.Name())
		content := resp.Content
		ev.Content = &content

		if resp.Partial {
			partial := true
			ev.Partial = &partial
		} else if len(ev.GetFunctionCalls()) == 0 {
			complete := true
			ev.TurnComplete = &complete
		}

		if err := emit(ev); err != nil {
			return nil, err
		}

		if !resp.Partial {
			final = &ev
		}
	}

	if err, ok := <-errCh; ok && err != nil {
		runCtx.LogError("agent.model.error", "agent", f.agent.Name(), "error", err.Error())
		return nil, fmt.Errorf("agent %s: model %s: %w", f.agent.Name(), f.agent.Model().Info().Name, err)
	}

	if final == nil {
		return nil, fmt.Errorf("agent %s: %w", f.agent.Name(), ErrNoFinalResponse)
	}

	return final, nil
}
