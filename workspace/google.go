package workspace

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hupe1980/lifemesh/logging"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// GoogleOptions configures a Google client.
type GoogleOptions struct {
	// MaxMessages bounds ListMessages (default 5).
	MaxMessages int64
	// PageSize bounds ListFiles (default 10).
	PageSize int64
	// From is the sender header of outgoing mail (default "me").
	From string
	// GmailEndpoint and DriveEndpoint override the API base URLs.
	GmailEndpoint string
	DriveEndpoint string
	Logger        logging.Logger
}

// Google is a Client backed by the Gmail and Drive APIs.
type Google struct {
	gmail  *gmail.Service
	drive  *drive.Service
	opts   GoogleOptions
	logger logging.Logger
}

// NewGoogle creates a client using an authorized HTTP client (see
// Authenticator.HTTPClient).
func NewGoogle(ctx context.Context, httpClient *http.Client, optFns ...func(o *GoogleOptions)) (*Google, error) {
	opts := GoogleOptions{
		MaxMessages: 5,
		PageSize:    10,
		From:        "me",
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	gmailOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if opts.GmailEndpoint != "" {
		gmailOpts = append(gmailOpts, option.WithEndpoint(opts.GmailEndpoint))
	}

	gm, err := gmail.NewService(ctx, gmailOpts...)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	driveOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if opts.DriveEndpoint != "" {
		driveOpts = append(driveOpts, option.WithEndpoint(opts.DriveEndpoint))
	}

	dr, err := drive.NewService(ctx, driveOpts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	return &Google{gmail: gm, drive: dr, opts: opts, logger: opts.Logger}, nil
}

// ListMessages implements Client: the newest inbox messages with subject
// ("(No Subject)" when missing) and plain text body.
func (g *Google) ListMessages(ctx context.Context) ([]Message, error) {
	list, err := g.gmail.Users.Messages.List("me").LabelIds("INBOX").MaxResults(g.opts.MaxMessages).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Gmail messages: %w", err)
	}

	out := make([]Message, 0, len(list.Messages))
	for _, m := range list.Messages {
		detail, err := g.gmail.Users.Messages.Get("me", m.Id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch Gmail message %s: %w", m.Id, err)
		}

		msg := Message{ID: detail.Id, Subject: "(No Subject)"}
		if detail.Payload != nil {
			for _, h := range detail.Payload.Headers {
				if h.Name == "Subject" {
					msg.Subject = h.Value
					break
				}
			}
			body, err := plainBody(detail.Payload)
			if err != nil {
				return nil, fmt.Errorf("decode Gmail message %s: %w", m.Id, err)
			}
			msg.Body = body
		}

		out = append(out, msg)
	}

	g.logger.Debug("workspace.gmail.listed", "messages", len(out))

	return out, nil
}

// plainBody returns the text/plain part of a multipart payload, or the body
// of a single part payload.
func plainBody(p *gmail.MessagePart) (string, error) {
	if len(p.Parts) > 0 {
		for _, part := range p.Parts {
			if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
				return decodeBody(part.Body.Data)
			}
		}
		return "", nil
	}
	if p.Body == nil {
		return "", nil
	}
	return decodeBody(p.Body.Data)
}

// SendEmail implements Client.
func (g *Google) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	raw := buildMessage(g.opts.From, to, subject, body)

	sent, err := g.gmail.Users.Messages.Send("me", &gmail.Message{Raw: encodeRaw(raw)}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}

	g.logger.Info("workspace.gmail.sent", "message_id", sent.Id, "to", to)

	return sent.Id, nil
}

// ListFiles implements Client.
func (g *Google) ListFiles(ctx context.Context, folderID string) ([]File, error) {
	call := g.drive.Files.List().PageSize(g.opts.PageSize).Fields("files(id, name, mimeType, size)")
	if folderID != "" {
		call = call.Q(fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(folderID)))
	}

	res, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list drive files: %w", err)
	}

	out := make([]File, 0, len(res.Files))
	for _, f := range res.Files {
		out = append(out, File{ID: f.Id, Name: f.Name, MimeType: f.MimeType, Size: f.Size})
	}

	return out, nil
}

// FolderByName implements Client.
func (g *Google) FolderByName(ctx context.Context, name string) (File, error) {
	q := fmt.Sprintf("mimeType = '%s' and name = '%s' and trashed = false", folderMimeType, escapeQuery(name))

	res, err := g.drive.Files.List().Q(q).PageSize(1).Fields("files(id, name, mimeType)").Context(ctx).Do()
	if err != nil {
		return File{}, fmt.Errorf("find drive folder: %w", err)
	}

	if len(res.Files) == 0 {
		return File{}, fmt.Errorf("%w: %s", ErrFolderNotFound, name)
	}

	f := res.Files[0]

	return File{ID: f.Id, Name: f.Name, MimeType: f.MimeType}, nil
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
