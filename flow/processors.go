package flow

import (
	"fmt"
	"strings"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/internal/util"
	"github.com/hupe1980/lifemesh/model"
)

// InstructionsProcessor resolves the agent instruction (plus any global
// instruction) and renders it as a template over the current session state.
type InstructionsProcessor struct{}

// NewInstructionsProcessor creates a new instructions processor.
func NewInstructionsProcessor() *InstructionsProcessor { return &InstructionsProcessor{} }

// Name returns the processor's identifier.
func (p *InstructionsProcessor) Name() string { return "instructions" }

// ProcessRequest sets req.Instructions.
func (p *InstructionsProcessor) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	global, err := agent.GlobalInstructions(runCtx)
	if err != nil {
		return fmt.Errorf("failed to resolve global instruction: %w", err)
	}

	local, err := agent.ResolveInstructions(runCtx)
	if err != nil {
		return fmt.Errorf("failed to resolve instruction: %w", err)
	}

	var parts []string
	for _, s := range []string{global, local} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}

	rendered, err := util.RenderTemplate(strings.Join(parts, "\n\n"), runCtx.State())
	if err != nil {
		return fmt.Errorf("failed to render instruction template: %w", err)
	}

	runCtx.LogDebug("agent.instruction.resolved", "agent", agent.Name(), "length", len(rendered))

	req.Instructions = rendered

	return nil
}

// ContentsProcessor assembles the conversation from the session history,
// trimmed to the agent's limit. Output of other agents (earlier pipeline
// steps) is presented as user context so the model does not mistake it for
// its own turns.
type ContentsProcessor struct{}

// NewContentsProcessor creates a new contents processor.
func NewContentsProcessor() *ContentsProcessor { return &ContentsProcessor{} }

// Name returns the processor's identifier.
func (p *ContentsProcessor) Name() string { return "contents" }

// ProcessRequest sets req.Contents.
func (p *ContentsProcessor) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	var contents []core.Content

	if runCtx.Session != nil {
		events := runCtx.Session.GetConversationHistory()
		if limit := agent.MaxHistoryMessages(); limit > 0 && len(events) > limit {
			events = trimHistory(events, limit)
		}
		for _, ev := range events {
			if ev.Content == nil || len(ev.Content.Parts) == 0 {
				continue
			}
			if ev.Author == "user" || ev.Author == agent.Name() {
				contents = append(contents, *ev.Content)
				continue
			}
			if c, ok := foreignContent(ev); ok {
				contents = append(contents, c)
			}
		}
	}

	if len(contents) == 0 && len(runCtx.UserContent.Parts) > 0 {
		contents = append(contents, runCtx.UserContent)
	}

	req.Contents = contents

	return nil
}

// foreignContent rewrites an event authored by another agent as user context.
func foreignContent(ev core.Event) (core.Content, bool) {
	var b strings.Builder

	for _, part := range ev.Content.Parts {
		switch p := part.(type) {
		case core.TextPart:
			if strings.TrimSpace(p.Text) == "" {
				continue
			}
			fmt.Fprintf(&b, "[%s] said: %s\n", ev.Author, p.Text)
		case core.FunctionCallPart:
			fmt.Fprintf(&b, "[%s] called tool `%s` with parameters: %s\n", ev.Author, p.FunctionCall.Name, p.FunctionCall.Arguments)
		case core.FunctionResponsePart:
			fmt.Fprintf(&b, "[%s] `%s` tool returned result: %v\n", ev.Author, p.FunctionResponse.Name, p.FunctionResponse.Response)
		}
	}

	if b.Len() == 0 {
		return core.Content{}, false
	}

	return core.NewTextContent("user", "For context:\n"+strings.TrimRight(b.String(), "\n")), true
}

// trimHistory keeps the last limit events without splitting a function call
// from its response: a leading tool result is dropped with its missing call.
func trimHistory(events []core.Event, limit int) []core.Event {
	events = events[len(events)-limit:]
	for len(events) > 0 && len(events[0].GetFunctionResponses()) > 0 {
		events = events[1:]
	}
	return events
}

// OutputKeyProcessor stages the text of the agent's final answer under its
// output key so that it is persisted into session state with the event.
type OutputKeyProcessor struct{}

// NewOutputKeyProcessor creates a new output key processor.
func NewOutputKeyProcessor() *OutputKeyProcessor { return &OutputKeyProcessor{} }

// Name returns the processor's identifier.
func (p *OutputKeyProcessor) Name() string { return "output_key" }

// ProcessResponse stages the state update for final text responses.
func (p *OutputKeyProcessor) ProcessResponse(runCtx *core.RunContext, resp *model.Response, agent FlowAgent) error {
	key := agent.OutputKey()
	if key == "" || resp.Partial {
		return nil
	}

	ev := core.Event{Content: &resp.Content}
	if len(ev.GetFunctionCalls()) > 0 {
		return nil
	}

	runCtx.SetState(key, resp.Content.Text())

	return nil
}
