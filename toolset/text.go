package toolset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/logging"
	"github.com/hupe1980/lifemesh/tool"
)

// MotorcycleReport is the artifact id of the persisted procurement report.
const MotorcycleReport = "motorcycle.json"

// TextToolsOptions configures TextTools.
type TextToolsOptions struct {
	// Reports receives finalized procurement reports. When nil the tool
	// falls back to the run's artifact store.
	Reports core.ArtifactStore
	// ReportScope is the session id reports are stored under.
	ReportScope string
	Logger      logging.Logger
}

// TextTools are the pure text capabilities: content creation, the generic
// task runner used by planned workflows and report finalization.
type TextTools struct {
	gen         Generator
	reports     core.ArtifactStore
	reportScope string
	logger      logging.Logger
	tools       []tool.Tool
}

// NewTextTools creates the text toolset on top of gen.
func NewTextTools(gen Generator, optFns ...func(o *TextToolsOptions)) *TextTools {
	opts := TextToolsOptions{
		ReportScope: "reports",
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	t := &TextTools{
		gen:         gen,
		reports:     opts.Reports,
		reportScope: opts.ReportScope,
		logger:      opts.Logger,
	}

	t.tools = []tool.Tool{
		tool.NewTextTool("generate_ideas", "Brainstorm blog post ideas for a topic.",
			[]tool.TextParam{{Name: "topic", Description: "Topic to brainstorm about."}},
			func(tc *core.ToolContext, args map[string]string) (string, error) {
				return t.GenerateIdeas(tc.Context(), args["topic"])
			}),
		tool.NewTextTool("write_content", "Expand an outline or idea list into a blog post draft.",
			[]tool.TextParam{{Name: "ideas", Description: "Outline or ideas to expand."}},
			func(tc *core.ToolContext, args map[string]string) (string, error) {
				return t.WriteContent(tc.Context(), args["ideas"])
			}),
		tool.NewTextTool("format_draft", "Format a draft as clean Markdown.",
			[]tool.TextParam{{Name: "draft", Description: "Draft text to format."}},
			func(tc *core.ToolContext, args map[string]string) (string, error) {
				return t.FormatDraft(tc.Context(), args["draft"])
			}),
		tool.NewTextTool("perform_task", "Complete a free-form task, optionally using context from earlier steps.",
			[]tool.TextParam{
				{Name: "task_prompt", Description: "What to produce."},
				{Name: "context", Description: "Summary of earlier outputs.", Optional: true},
			},
			func(tc *core.ToolContext, args map[string]string) (string, error) {
				return t.PerformTask(tc.Context(), args["task_prompt"], args["context"])
			}),
		tool.NewTextTool("finalize_motorcycle_results", "Validate, normalise and persist motorcycle procurement results.",
			[]tool.TextParam{{Name: "raw_motorcycle_listings", Description: "Raw JSON listings from the search step."}},
			func(tc *core.ToolContext, args map[string]string) (string, error) {
				return t.finalize(tc.Context(), args["raw_motorcycle_listings"], tc)
			}),
	}

	return t
}

// Tools returns the toolset's tools in declaration order.
func (t *TextTools) Tools() []tool.Tool { return t.tools }

// GenerateIdeas brainstorms blog post ideas for topic.
func (t *TextTools) GenerateIdeas(ctx context.Context, topic string) (string, error) {
	return t.gen.Generate(ctx, fmt.Sprintf(ideasPrompt, topic))
}

// WriteContent expands ideas into a draft.
func (t *TextTools) WriteContent(ctx context.Context, ideas string) (string, error) {
	return t.gen.Generate(ctx, fmt.Sprintf(writePrompt, ideas))
}

// FormatDraft turns draft into Markdown.
func (t *TextTools) FormatDraft(ctx context.Context, draft string) (string, error) {
	return t.gen.Generate(ctx, fmt.Sprintf(formatPrompt, draft))
}

// PerformTask completes a free-form task. Planned workflows bind every step
// to this capability.
func (t *TextTools) PerformTask(ctx context.Context, taskPrompt, taskContext string) (string, error) {
	if strings.TrimSpace(taskPrompt) == "" {
		return "", errors.New("task_prompt must not be empty")
	}

	prompt := fmt.Sprintf(performTaskPrompt, strings.TrimSpace(taskPrompt))
	if c := strings.TrimSpace(taskContext); c != "" {
		prompt += fmt.Sprintf(performContext, c)
	}

	return t.gen.Generate(ctx, prompt)
}

// FinalizeMotorcycleResults validates raw listings with the model, strips
// code fences and persists the report. The cleaned text is returned.
func (t *TextTools) FinalizeMotorcycleResults(ctx context.Context, raw string) (string, error) {
	return t.finalize(ctx, raw, nil)
}

func (t *TextTools) finalize(ctx context.Context, raw string, tc *core.ToolContext) (string, error) {
	text, err := t.gen.Generate(ctx, fmt.Sprintf(finalizePrompt, raw))
	if err != nil {
		return "", fmt.Errorf("finalize motorcycle results: %w", err)
	}

	cleaned := StripCodeFence(text)

	if err := t.persist(cleaned, tc); err != nil {
		return "", fmt.Errorf("persist %s: %w", MotorcycleReport, err)
	}

	return cleaned, nil
}

func (t *TextTools) persist(cleaned string, tc *core.ToolContext) error {
	data := []byte(cleaned)

	if json.Valid(data) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err == nil {
			data = buf.Bytes()
		}
	} else {
		t.logger.Warn("toolset.report.invalid_json", "artifact", MotorcycleReport)
	}

	switch {
	case t.reports != nil:
		if err := t.reports.Save(t.reportScope, MotorcycleReport, data); err != nil {
			return err
		}
	case tc != nil:
		if err := tc.SaveArtifact(MotorcycleReport, data); err != nil {
			if errors.Is(err, core.ErrNoArtifactStore) {
				t.logger.Debug("toolset.report.skipped", "artifact", MotorcycleReport)
				return nil
			}
			return err
		}
	default:
		return nil
	}

	t.logger.Info("toolset.report.saved", "artifact", MotorcycleReport, "bytes", len(data))

	return nil
}

// StripCodeFence removes a surrounding Markdown code fence such as ```json.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}
