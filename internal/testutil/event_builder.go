package testutil

import (
	"github.com/hupe1980/lifemesh/core"
)

// EventBuilder constructs events fluently:
//
//	ev := NewEventBuilder().Author("IdeaAgent").Run("run-1").AssistantText("ideas").OutputKey("ideas", "ideas").Build()
type EventBuilder struct {
	author        string
	runID         string
	id            string
	role          string
	textParts     []string
	funcCalls     []core.FunctionCall
	funcResponses []core.FunctionResponse
	partial       *bool
	actions       core.EventActions
}

// NewEventBuilder creates a builder with default author "agent".
func NewEventBuilder() *EventBuilder { return &EventBuilder{author: "agent"} }

// Author sets the author name.
func (b *EventBuilder) Author(a string) *EventBuilder { b.author = a; return b }

// Run sets the run ID.
func (b *EventBuilder) Run(id string) *EventBuilder { b.runID = id; return b }

// ID overrides the generated event ID.
func (b *EventBuilder) ID(id string) *EventBuilder { b.id = id; return b }

// Partial marks the event as a streaming chunk.
func (b *EventBuilder) Partial(p bool) *EventBuilder { b.partial = &p; return b }

// UserText appends a user text part.
func (b *EventBuilder) UserText(t string) *EventBuilder {
	b.role = "user"
	b.textParts = append(b.textParts, t)
	return b
}

// AssistantText appends an assistant text part.
func (b *EventBuilder) AssistantText(t string) *EventBuilder {
	b.role = "assistant"
	b.textParts = append(b.textParts, t)
	return b
}

// FunctionCall adds a function call part with JSON encoded args.
func (b *EventBuilder) FunctionCall(id, name, args string) *EventBuilder {
	b.role = "assistant"
	b.funcCalls = append(b.funcCalls, core.FunctionCall{ID: id, Name: name, Arguments: args})
	return b
}

// FunctionResponse adds a function response part.
func (b *EventBuilder) FunctionResponse(id, name string, result any, err error) *EventBuilder {
	b.role = "tool"
	fr := core.FunctionResponse{ID: id, Name: name, Response: result}
	if err != nil {
		fr.Error = err.Error()
	}
	b.funcResponses = append(b.funcResponses, fr)
	return b
}

// State stages a state delta entry on the event actions.
func (b *EventBuilder) State(key string, val any) *EventBuilder {
	if b.actions.StateDelta == nil {
		b.actions.StateDelta = map[string]any{}
	}
	b.actions.StateDelta[key] = val
	return b
}

// Build constructs the core.Event value.
func (b *EventBuilder) Build() core.Event {
	ev := core.NewEvent(b.runID, b.author)
	if b.id != "" {
		ev.ID = b.id
	}
	ev.Partial = b.partial
	ev.Actions = b.actions

	parts := make([]core.Part, 0, len(b.textParts)+len(b.funcCalls)+len(b.funcResponses))
	for _, t := range b.textParts {
		parts = append(parts, core.TextPart{Text: t})
	}
	for _, fc := range b.funcCalls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: fc})
	}
	for _, fr := range b.funcResponses {
		parts = append(parts, core.FunctionResponsePart{FunctionResponse: fr})
	}

	if len(parts) > 0 {
		role := b.role
		if role == "" {
			role = "assistant"
		}
		ev.Content = &core.Content{Role: role, Parts: parts}
	}

	return ev
}
