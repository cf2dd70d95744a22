package assistant

import (
	"github.com/hupe1980/lifemesh/tool"
	"github.com/hupe1980/lifemesh/toolset"
	"github.com/hupe1980/lifemesh/workflow"
)

// Keys of the static agent catalogue.
const (
	SpecFileSummary         = "file_summary"
	SpecIdeaGenerator       = "idea_generator"
	SpecDraftWriter         = "draft_writer"
	SpecMarkdownFormatter   = "markdown_formatter"
	SpecEmailSummarizer     = "email_summarizer"
	SpecEmailSender         = "email_sender"
	SpecFindMotorcycles     = "find_motorcycles"
	SpecOutputSummarization = "output_summarization"
)

// Toolsets bundles the capabilities the catalogue binds to.
type Toolsets struct {
	Text      *toolset.TextTools
	Google    *toolset.GoogleTools
	Market    *toolset.MarketplaceTools
	Assistant *toolset.AssistantTools
}

// All returns every tool of every toolset.
func (ts Toolsets) All() []tool.Tool {
	var out []tool.Tool
	out = append(out, ts.Text.Tools()...)
	out = append(out, ts.Google.Tools()...)
	out = append(out, ts.Market.Tools()...)
	out = append(out, ts.Assistant.Tools()...)
	return out
}

func (ts Toolsets) tool(name string) tool.Tool { return toolset.MustLookup(ts.All(), name) }

// Catalog maps spec keys to agent specs.
type Catalog map[string]workflow.AgentSpec

// NewCatalog builds the static agent catalogue over ts.
func NewCatalog(ts Toolsets) Catalog {
	spec := func(name, description, instruction, toolName, outputKey string) workflow.AgentSpec {
		return workflow.AgentSpec{
			Name:        name,
			Description: description,
			Instruction: instruction,
			Tools:       []tool.Tool{ts.tool(toolName)},
			OutputKey:   outputKey,
		}
	}

	return Catalog{
		SpecFileSummary: spec("FileAgent",
			"Summarizes files stored in Google Drive.",
			"Call read_files() and return only a concise bullet summary of the files.",
			"read_files", "files"),
		SpecIdeaGenerator: spec("IdeaAgent",
			"Brainstorms fresh content ideas from a topic string.",
			"Call generate_ideas(topic) using the provided topic and respond with the ideas only.",
			"generate_ideas", "ideas"),
		SpecDraftWriter: spec("WriterAgent",
			"Expands an outline or idea list into a full draft.",
			"Call write_content(ideas) where `ideas` is the previous output and return only the draft text.",
			"write_content", "draft"),
		SpecMarkdownFormatter: spec("FormatterAgent",
			"Formats a draft into polished Markdown.",
			"Call format_draft(draft) where `draft` is the previous output and return only the final Markdown.",
			"format_draft", "formatted"),
		SpecEmailSummarizer: spec("EmailSummaryAgent",
			"Summarizes recent Gmail messages.",
			"Call summarize_emails() and return a structured summary ready for delivery.",
			"summarize_emails", "summary"),
		SpecEmailSender: spec("EmailSendAgent",
			"Delivers a prepared summary via Gmail.",
			"Call send_email_summary(summary) with the previous summary text and return the send confirmation.",
			"send_email_summary", "sent_message"),
		SpecFindMotorcycles: spec("MotorcycleResearchAgent",
			"Aggregates marketplace listings for qualifying 2-stroke dirt bikes.",
			"Call search_motorcycles() and return only the JSON payload of listings.",
			"search_motorcycles", "raw_motorcycle_listings"),
		SpecOutputSummarization: spec("MotorcycleValidationAgent",
			"Validates and normalises the motorcycle procurement results.",
			"Call finalize_motorcycle_results(raw_motorcycle_listings) where `raw_motorcycle_listings` is the previous output and respond with only the cleaned JSON report.",
			"finalize_motorcycle_results", "motorcycle_report"),
	}
}

// Get returns the AgentSpec stored under key.
func (c Catalog) Get(key string) (workflow.AgentSpec, bool) {
	spec, ok := c[key]
	return spec, ok
}
