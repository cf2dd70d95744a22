package toolset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/lifemesh/core"
	"github.com/hupe1980/lifemesh/logging"
	"github.com/hupe1980/lifemesh/tool"
	"github.com/hupe1980/lifemesh/workspace"
)

var (
	// ErrNoFiles is returned by ReadFiles when the drive listing is empty.
	ErrNoFiles = errors.New("no drive files found")
	// ErrNoRecipient is returned by SendEmailSummary without a configured recipient.
	ErrNoRecipient = errors.New("no email recipient configured")
	// ErrNoStyledEmail is returned when the model produced no email body.
	ErrNoStyledEmail = errors.New("Unable to get a valid response from LLM.")
)

// GoogleToolsOptions configures GoogleTools.
type GoogleToolsOptions struct {
	To      string
	Subject string
	// RecipientName and SenderName personalise the styled email body.
	RecipientName string
	SenderName    string
	// FolderName restricts read_files to one drive folder.
	FolderName string
	Logger     logging.Logger
}

// GoogleTools are the Gmail and Drive capabilities.
type GoogleTools struct {
	gen    Generator
	client workspace.Client
	opts   GoogleToolsOptions
	tools  []tool.Tool
}

// NewGoogleTools creates the workspace toolset.
func NewGoogleTools(gen Generator, client workspace.Client, optFns ...func(o *GoogleToolsOptions)) *GoogleTools {
	opts := GoogleToolsOptions{
		Subject:       "Daily Email Summary",
		RecipientName: "you",
		SenderName:    "your assistant",
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	g := &GoogleTools{gen: gen, client: client, opts: opts}

	g.tools = []tool.Tool{
		tool.NewTextTool("read_files", "Summarize the files stored in Google Drive.", nil,
			func(tc *core.ToolContext, _ map[string]string) (string, error) {
				return g.ReadFiles(tc.Context())
			}),
		tool.NewTextTool("summarize_emails", "Summarize recent Gmail inbox messages.", nil,
			func(tc *core.ToolContext, _ map[string]string) (string, error) {
				return g.SummarizeEmails(tc.Context())
			}),
		tool.NewTextTool("send_email_summary", "Style a summary as an email and send it via Gmail.",
			[]tool.TextParam{{Name: "summary", Description: "Summary text to deliver."}},
			func(tc *core.ToolContext, args map[string]string) (string, error) {
				return g.SendEmailSummary(tc.Context(), args["summary"])
			}),
	}

	return g
}

// Tools returns the toolset's tools in declaration order.
func (g *GoogleTools) Tools() []tool.Tool { return g.tools }

// ReadFiles summarises the drive file listing.
func (g *GoogleTools) ReadFiles(ctx context.Context) (string, error) {
	folderID := ""
	if g.opts.FolderName != "" {
		folder, err := g.client.FolderByName(ctx, g.opts.FolderName)
		if err != nil {
			return "", err
		}
		folderID = folder.ID
	}

	files, err := g.client.ListFiles(ctx, folderID)
	if err != nil {
		return "", fmt.Errorf("list files: %w", err)
	}

	if len(files) == 0 {
		return "", ErrNoFiles
	}

	listing, err := json.MarshalIndent(files, "", "  ")
	if err != nil {
		return "", err
	}

	g.opts.Logger.Debug("toolset.drive.files", "count", len(files))

	return g.gen.Generate(ctx, fmt.Sprintf(filesPrompt, listing))
}

// SummarizeEmails summarises the recent inbox. An empty inbox yields an
// instruction to tell the user rather than an error.
func (g *GoogleTools) SummarizeEmails(ctx context.Context) (string, error) {
	messages, err := g.client.ListMessages(ctx)
	if err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}

	if len(messages) == 0 {
		return noEmailsMessage, nil
	}

	payload, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return "", err
	}

	g.opts.Logger.Debug("toolset.gmail.messages", "count", len(messages))

	return g.gen.Generate(ctx, fmt.Sprintf(summarizePrompt, payload))
}

// SendEmailSummary styles summary with the model and emails it to the
// configured recipient. It returns the send confirmation as JSON.
func (g *GoogleTools) SendEmailSummary(ctx context.Context, summary string) (string, error) {
	if g.opts.To == "" {
		return "", ErrNoRecipient
	}

	body, err := g.gen.Generate(ctx, fmt.Sprintf(stylePrompt, g.opts.RecipientName, g.opts.SenderName, summary))
	if errors.Is(err, ErrEmptyResponse) || (err == nil && strings.TrimSpace(body) == "") {
		return "", ErrNoStyledEmail
	}
	if err != nil {
		return "", err
	}

	id, err := g.client.SendEmail(ctx, g.opts.To, g.opts.Subject, body)
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}

	g.opts.Logger.Info("toolset.gmail.sent", "message_id", id)

	out, err := json.Marshal(map[string]string{"message_id": id})
	if err != nil {
		return "", err
	}

	return string(out), nil
}
