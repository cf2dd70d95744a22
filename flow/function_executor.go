package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/tool"
)

// FunctionExecutor executes the function calls of one model turn and emits
// exactly one function response event per call, in call order. Tool failures
// become error responses fed back to the model; only emission errors (e.g.
// cancellation) are returned.
type FunctionExecutor interface {
	Execute(runCtx *core.RunContext, agent FlowAgent, calls []core.FunctionCall, emit func(core.Event) error) error
}

// FunctionExecutorConfig configures the default executor.
type FunctionExecutorConfig struct {
	MaxParallel int // <= 1 runs calls one after another
}

type functionExecutor struct {
	cfg FunctionExecutorConfig
}

// NewFunctionExecutor constructs the default executor.
func NewFunctionExecutor(cfg FunctionExecutorConfig) FunctionExecutor {
	return &functionExecutor{cfg: cfg}
}

func (e *functionExecutor) Execute(runCtx *core.RunContext, agent FlowAgent, calls []core.FunctionCall, emit func(core.Event) error) error {
	registry := make(map[string]tool.Tool, len(agent.Tools()))
	for _, t := range agent.Tools() {
		registry[t.Name()] = t
	}

	events := make([]core.Event, len(calls))

	maxPar := e.cfg.MaxParallel
	if maxPar <= 1 || len(calls) == 1 {
		for i, fc := range calls {
			if err := runCtx.Err(); err != nil {
				return err
			}
			events[i] = e.executeOne(runCtx, agent, registry, fc)
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, maxPar)
		for i, fc := range calls {
			wg.Add(1)
			sem <- struct{}{}
			go func(idx int, fc core.FunctionCall) {
				defer wg.Done()
				defer func() { <-sem }()
				events[idx] = e.executeOne(runCtx, agent, registry, fc)
			}(i, fc)
		}
		wg.Wait()
	}

	for _, ev := range events {
		if err := emit(ev); err != nil {
			return err
		}
	}

	return nil
}

func (e *functionExecutor) executeOne(runCtx *core.RunContext, agent FlowAgent, registry map[string]tool.Tool, fc core.FunctionCall) core.Event {
	callCtx := runCtx
	if timeout := agent.ToolTimeout(); timeout > 0 {
		ctx, cancel := context.WithTimeout(runCtx.Context, timeout)
		defer cancel()
		callCtx = runCtx.WithContext(ctx)
	}

	toolCtx := core.NewToolContext(callCtx, fc.ID)
	start := time.Now()

	var (
		result any
		err    error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = panicError(r)
				runCtx.LogError("agent.function.panic", "agent", agent.Name(), "function", fc.Name, "recover", r)
			}
		}()
		result, err = executeTool(registry, toolCtx, fc)
	}()

	runCtx.LogInfo(
		"agent.function.executed",
		"agent", agent.Name(),
		"function", fc.Name,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err != nil,
	)

	ev := core.NewFunctionResponseEvent(runCtx.RunID, agent.Name(), fc.ID, fc.Name, result, err)
	toolCtx.ApplyActions(&ev)

	return ev
}

func panicError(r any) error { return &panicErr{val: r, stack: debug.Stack()} }

type panicErr struct {
	val   any
	stack []byte
}

func (p *panicErr) Error() string { return fmt.Sprintf("panic recovered: %v", p.val) }

func executeTool(registry map[string]tool.Tool, toolCtx *core.ToolContext, fc core.FunctionCall) (any, error) {
	impl, ok := registry[fc.Name]
	if !ok {
		return nil, tool.NewToolError(fc.Name, "tool not found", tool.CodeNotFound)
	}

	args := map[string]any{}
	if fc.Arguments != "" {
		if err := json.Unmarshal([]byte(fc.Arguments), &args); err != nil {
			return nil, fmt.Errorf("failed to unmarshal args: %w", err)
		}
	}

	return impl.Call(toolCtx, args)
}
