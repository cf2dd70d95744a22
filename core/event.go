package core

import (
	"time"

	"github.com/google/uuid"
)

// EventActions encodes side effects attached to an Event. The runner applies
// them after persistence: StateDelta is merged into session state (this is how
// an agent's output key becomes visible to later pipeline steps) and
// ArtifactDelta records artifact ids with their byte sizes. TransferToAgent
// names the agent a tool handed the conversation to.
type EventActions struct {
	StateDelta      map[string]any `json:"state_delta,omitempty"`
	ArtifactDelta   map[string]int `json:"artifact_delta,omitempty"`
	TransferToAgent string         `json:"transfer_to_agent,omitempty"`
}

// Event is the unit of communication between agents, the runner and callers.
// Treat it as immutable after emission.
type Event struct {
	ID           string       `json:"id"`
	RunID        string       `json:"run_id"`
	Author       string       `json:"author"`
	Branch       string       `json:"branch,omitempty"`
	Actions      EventActions `json:"actions"`
	Timestamp    time.Time    `json:"timestamp"`
	Content      *Content     `json:"content,omitempty"`
	Partial      *bool        `json:"partial,omitempty"`
	TurnComplete *bool        `json:"turn_complete,omitempty"`
	ErrorMessage *string      `json:"error_message,omitempty"`
}

// NewEvent creates a bare event authored by author and bound to a run.
func NewEvent(runID, author string) Event {
	return Event{
		ID:        NewID(),
		RunID:     runID,
		Author:    author,
		Timestamp: time.Now().UTC(),
	}
}

// NewMessageEvent creates an assistant message event with a single text part.
func NewMessageEvent(runID, author, message string) Event {
	e := NewEvent(runID, author)
	c := NewTextContent("assistant", message)
	e.Content = &c
	return e
}

// NewUserContentEvent creates a user-authored event carrying content.
func NewUserContentEvent(runID string, content *Content) Event {
	e := NewEvent(runID, "user")
	e.Content = content
	return e
}

// NewFunctionResponseEvent records the result (or error) of a tool invocation.
func NewFunctionResponseEvent(runID, author, id, functionName string, result any, err error) Event {
	e := NewEvent(runID, author)
	fr := FunctionResponse{ID: id, Name: functionName, Response: result}
	if err != nil {
		fr.Error = err.Error()
	}
	e.Content = &Content{Role: "tool", Parts: []Part{FunctionResponsePart{FunctionResponse: fr}}}
	return e
}

// NewErrorEvent creates a system event carrying an error message.
func NewErrorEvent(runID, author string, err error) Event {
	e := NewEvent(runID, author)
	msg := err.Error()
	e.ErrorMessage = &msg
	return e
}

// NewID generates a new unique identifier for events, runs and sessions.
func NewID() string { return uuid.NewString() }

// IsPartial reports whether this event is a streaming fragment.
func (e Event) IsPartial() bool { return e.Partial != nil && *e.Partial }

// GetFunctionCalls returns the FunctionCall parts of the event in order.
func (e Event) GetFunctionCalls() []FunctionCall {
	if e.Content == nil {
		return nil
	}
	var calls []FunctionCall
	for _, p := range e.Content.Parts {
		if fc, ok := p.(FunctionCallPart); ok {
			calls = append(calls, fc.FunctionCall)
		}
	}
	return calls
}

// GetFunctionResponses returns the FunctionResponse parts of the event in order.
func (e Event) GetFunctionResponses() []FunctionResponse {
	if e.Content == nil {
		return nil
	}
	var responses []FunctionResponse
	for _, p := range e.Content.Parts {
		if fr, ok := p.(FunctionResponsePart); ok {
			responses = append(responses, fr.FunctionResponse)
		}
	}
	return responses
}

// IsFinalResponse reports whether the event closes an assistant turn: not
// partial and carrying no pending function calls or responses.
func (e Event) IsFinalResponse() bool {
	return len(e.GetFunctionCalls()) == 0 &&
		len(e.GetFunctionResponses()) == 0 &&
		!e.IsPartial()
}

// Text returns the concatenated text of the event content, if any.
func (e Event) Text() string {
	if e.Content == nil {
		return ""
	}
	return e.Content.Text()
}
