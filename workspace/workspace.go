// Package workspace gives the assistant tools access to a mailbox and a file
// drive. Google implements Client over the Gmail and Drive APIs; InMemory is
// a local stand-in used by tests and offline runs.
package workspace

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Message is an inbox message reduced to what the summarizer needs.
type Message struct {
	ID      string `json:"message_id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// File is a drive file entry.
type File struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// Client is the mailbox + drive surface used by the tools.
type Client interface {
	// ListMessages returns the most recent inbox messages.
	ListMessages(ctx context.Context) ([]Message, error)
	// SendEmail sends a plain text email and returns the provider message id.
	SendEmail(ctx context.Context, to, subject, body string) (string, error)
	// ListFiles lists drive files, restricted to folderID when not empty.
	ListFiles(ctx context.Context, folderID string) ([]File, error)
	// FolderByName returns the first folder with the given name.
	FolderByName(ctx context.Context, name string) (File, error)
}

// SentEmail records an email accepted by InMemory.
type SentEmail struct {
	ID, To, Subject, Body string
}

// InMemory is a Client backed by fixed messages and files. Sent emails are
// recorded. Safe for concurrent use.
type InMemory struct {
	mu       sync.Mutex
	messages []Message
	files    map[string][]File // folder id ("" = root) -> files
	folders  []File
	sent     []SentEmail
}

// NewInMemory creates an InMemory client with the given inbox.
func NewInMemory(messages ...Message) *InMemory {
	return &InMemory{messages: messages, files: map[string][]File{}}
}

// AddFiles adds files to a folder ("" for the drive root).
func (c *InMemory) AddFiles(folderID string, files ...File) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[folderID] = append(c.files[folderID], files...)
}

// AddFolder registers a folder that FolderByName can find.
func (c *InMemory) AddFolder(folder File) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.folders = append(c.folders, folder)
}

// Sent returns the emails sent so far.
func (c *InMemory) Sent() []SentEmail {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.sent)
}

// ListMessages implements Client.
func (c *InMemory) ListMessages(context.Context) ([]Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.messages), nil
}

// SendEmail implements Client.
func (c *InMemory) SendEmail(_ context.Context, to, subject, body string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := fmt.Sprintf("sent-%d", len(c.sent)+1)
	c.sent = append(c.sent, SentEmail{ID: id, To: to, Subject: subject, Body: body})
	return id, nil
}

// ListFiles implements Client.
func (c *InMemory) ListFiles(_ context.Context, folderID string) ([]File, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.files[folderID]), nil
}

// FolderByName implements Client.
func (c *InMemory) FolderByName(_ context.Context, name string) (File, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.folders {
		if f.Name == name {
			return f, nil
		}
	}
	return File{}, fmt.Errorf("%w: %s", ErrFolderNotFound, name)
}
