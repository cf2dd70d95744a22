// Package gemini implements model.Model on Google Gemini through the
// google.golang.org/genai SDK.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/model"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when Options.Model is empty.
const DefaultModel = "gemini-2.0-flash"

// Options configures the Gemini model adapter.
type Options struct {
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
}

// Model wraps the Gemini GenerateContent API behind model.Model.
type Model struct {
	client *genai.Client
	opts   Options
}

// NewModel creates a Gemini model. Without an APIKey option the SDK reads
// GOOGLE_API_KEY / GEMINI_API_KEY from the environment.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := Options{Model: DefaultModel, Temperature: 0.7}
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return NewModelFromClient(client, func(o *Options) { *o = opts }), nil
}

// NewModelFromClient creates a Gemini model from an existing client.
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{Model: DefaultModel, Temperature: 0.7}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	return &Model{client: client, opts: opts}
}

// Generate implements model.Model.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		contents := buildContents(req.Contents)
		config := m.buildConfig(req)

		if req.Stream {
			m.handleStreaming(ctx, contents, config, out, errCh)
			return
		}

		resp, err := m.client.Models.GenerateContent(ctx, m.opts.Model, contents, config)
		if err != nil {
			errCh <- fmt.Errorf("gemini generation failed: %w", err)
			return
		}

		final, err := parseResponse(resp)
		if err != nil {
			errCh <- err
			return
		}

		out <- final
	}()

	return out, errCh
}

func (m *Model) handleStreaming(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig, out chan<- model.Response, errCh chan<- error) {
	var (
		text   strings.Builder
		calls  []core.Part
		finish = "stop"
		usage  *model.TokenUsage
	)

	for chunk, err := range m.client.Models.GenerateContentStream(ctx, m.opts.Model, contents, config) {
		if err != nil {
			errCh <- fmt.Errorf("gemini streaming error: %w", err)
			return
		}
		if chunk.UsageMetadata != nil {
			usage = toUsage(chunk.UsageMetadata)
		}
		if len(chunk.Candidates) == 0 {
			continue
		}

		cand := chunk.Candidates[0]
		if cand.FinishReason != "" {
			finish = mapFinishReason(cand.FinishReason)
		}
		if cand.Content == nil {
			continue
		}

		for _, p := range cand.Content.Parts {
			if p.Thought {
				continue
			}
			if p.Text != "" {
				text.WriteString(p.Text)
				out <- model.Response{Partial: true, Content: core.NewTextContent("assistant", p.Text)}
			}
			if p.FunctionCall != nil {
				calls = append(calls, toCallPart(p.FunctionCall))
			}
		}
	}

	parts := make([]core.Part, 0, len(calls)+1)
	if text.Len() > 0 {
		parts = append(parts, core.TextPart{Text: text.String()})
	}
	parts = append(parts, calls...)

	out <- model.Response{
		Content:      core.Content{Role: "assistant", Parts: parts},
		FinishReason: finish,
		Usage:        usage,
	}
}

// buildContents converts normalized contents to Gemini contents. Gemini has
// no tool role: function responses travel in user-role contents.
func buildContents(contents []core.Content) []*genai.Content {
	var out []*genai.Content

	for _, c := range contents {
		if c.Role == "system" {
			continue
		}

		var parts []*genai.Part
		for _, p := range c.Parts {
			switch part := p.(type) {
			case core.TextPart:
				if part.Text != "" {
					parts = append(parts, &genai.Part{Text: part.Text})
				}
			case core.FunctionCallPart:
				args := map[string]any{}
				if part.FunctionCall.Arguments != "" {
					_ = json.Unmarshal([]byte(part.FunctionCall.Arguments), &args)
				}
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   part.FunctionCall.ID,
					Name: part.FunctionCall.Name,
					Args: args,
				}})
			case core.FunctionResponsePart:
				fr := part.FunctionResponse
				response := map[string]any{"result": fr.Response}
				if fr.Error != "" {
					response = map[string]any{"error": fr.Error}
				}
				parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:       fr.ID,
					Name:     fr.Name,
					Response: response,
				}})
			}
		}

		if len(parts) == 0 {
			continue
		}

		role := "user"
		if c.Role == "assistant" {
			role = "model"
		}

		out = append(out, &genai.Content{Role: role, Parts: parts})
	}

	return out
}

func (m *Model) buildConfig(req model.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	var system []string
	if req.Instructions != "" {
		system = append(system, req.Instructions)
	}
	for _, c := range req.Contents {
		if c.Role == "system" && c.Text() != "" {
			system = append(system, c.Text())
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	temperature := m.opts.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	config.Temperature = genai.Ptr(float32(temperature))

	maxTokens := m.opts.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}

	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(req.Tools))
		for _, t := range req.Tools {
			decls = append(decls, &genai.FunctionDeclaration{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  toSchema(t.Function.Parameters),
			})
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	return config
}

// toSchema converts a JSON schema map to a Gemini schema.
func toSchema(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}

	s := &genai.Schema{}

	if t, ok := schema["type"].(string); ok {
		s.Type = genai.Type(strings.ToUpper(t))
	}
	if desc, ok := schema["description"].(string); ok {
		s.Description = desc
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			if pm, ok := prop.(map[string]any); ok {
				s.Properties[name] = toSchema(pm)
			}
		}
	}
	switch req := schema["required"].(type) {
	case []string:
		s.Required = req
	case []any:
		for _, r := range req {
			if rs, ok := r.(string); ok {
				s.Required = append(s.Required, rs)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		s.Items = toSchema(items)
	}

	return s
}

func parseResponse(resp *genai.GenerateContentResponse) (model.Response, error) {
	if len(resp.Candidates) == 0 {
		return model.Response{}, fmt.Errorf("empty response from gemini")
	}

	cand := resp.Candidates[0]

	var parts []core.Part
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p.Thought {
				continue
			}
			if p.Text != "" {
				parts = append(parts, core.TextPart{Text: p.Text})
			}
			if p.FunctionCall != nil {
				parts = append(parts, toCallPart(p.FunctionCall))
			}
		}
	}

	out := model.Response{
		ID:           resp.ResponseID,
		Content:      core.Content{Role: "assistant", Parts: parts},
		FinishReason: mapFinishReason(cand.FinishReason),
	}
	if resp.UsageMetadata != nil {
		out.Usage = toUsage(resp.UsageMetadata)
	}

	return out, nil
}

// toCallPart converts a Gemini function call; Gemini may omit call IDs so
// one is generated to correlate the response.
func toCallPart(fc *genai.FunctionCall) core.Part {
	id := fc.ID
	if id == "" {
		id = core.NewID()
	}

	args := "{}"
	if fc.Args != nil {
		if b, err := json.Marshal(fc.Args); err == nil {
			args = string(b)
		}
	}

	return core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: id, Name: fc.Name, Arguments: args}}
}

func toUsage(u *genai.GenerateContentResponseUsageMetadata) *model.TokenUsage {
	return &model.TokenUsage{
		PromptTokens:     int(u.PromptTokenCount),
		CompletionTokens: int(u.CandidatesTokenCount),
		TotalTokens:      int(u.TotalTokenCount),
	}
}

func mapFinishReason(r genai.FinishReason) string {
	switch r {
	case genai.FinishReasonStop, "":
		return "stop"
	case genai.FinishReasonMaxTokens:
		return "length"
	case genai.FinishReasonSafety:
		return "content_filter"
	default:
		return strings.ToLower(string(r))
	}
}

// Info returns metadata describing this model.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "gemini", SupportsTools: true}
}
