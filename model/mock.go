package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/lifemesh/core"
)

// MockModel is an in-memory Model for tests and examples. Scripted responses
// are returned in order first; afterwards replies are looked up by the text
// of the last user content, falling back to an echo.
type MockModel struct {
	info Info

	mu        sync.Mutex
	script    []Response
	responses map[string]string
	requests  []Request
	err       error
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock", SupportsTools: true},
		responses: map[string]string{},
	}
}

// AddResponse registers a canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Script queues responses returned by subsequent Generate calls in order.
func (m *MockModel) Script(responses ...Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, responses...)
}

// ScriptText queues a final assistant text response.
func (m *MockModel) ScriptText(text string) {
	m.Script(Response{Content: core.NewTextContent("assistant", text), FinishReason: "stop"})
}

// ScriptCall queues a final response requesting one function call.
func (m *MockModel) ScriptCall(id, name, args string) {
	m.Script(Response{
		Content: core.Content{Role: "assistant", Parts: []core.Part{
			core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: id, Name: name, Arguments: args}},
		}},
		FinishReason: "tool_calls",
	})
}

// FailWith makes every subsequent Generate call report err.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns a copy of all requests received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *MockModel) next(req Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if m.err != nil {
		return Response{}, m.err
	}

	if len(m.script) > 0 {
		r := m.script[0]
		m.script = m.script[1:]
		return r, nil
	}

	if len(req.Contents) == 0 {
		return Response{}, fmt.Errorf("no contents provided")
	}

	input := lastUserText(req.Contents)
	full, ok := m.responses[input]
	if !ok {
		full = fmt.Sprintf("Mock response to: %s", input)
	}

	return Response{Content: core.NewTextContent("assistant", full), FinishReason: "stop"}, nil
}

func lastUserText(contents []core.Content) string {
	for i := len(contents) - 1; i >= 0; i-- {
		if contents[i].Role == "user" {
			return contents[i].Text()
		}
	}
	return contents[len(contents)-1].Text()
}

// Generate implements Model. With Stream set, text is also emitted as
// per-rune partial chunks before the final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)

		resp, err := m.next(req)
		if err != nil {
			errCh <- err
			return
		}

		if req.Stream {
			for _, r := range resp.Content.Text() {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Content: core.NewTextContent("assistant", string(r))}:
				}
			}
		}

		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case respCh <- resp:
		}
	}()

	return respCh, errCh
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
