package workspace

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newGoogleTestServer(t *testing.T, sent *map[string]any) *httptest.Server {
	t.Helper()

	encoded := base64.URLEncoding.EncodeToString([]byte("Quarterly numbers attached."))

	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "INBOX", r.URL.Query().Get("labelIds"))
		assert.Equal(t, "5", r.URL.Query().Get("maxResults"))
		writeJSON(w, map[string]any{"messages": []map[string]any{{"id": "m1"}, {"id": "m2"}}})
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/m1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "full", r.URL.Query().Get("format"))
		writeJSON(w, map[string]any{
			"id": "m1",
			"payload": map[string]any{
				"headers": []map[string]any{{"name": "From", "value": "a@b.c"}, {"name": "Subject", "value": "Report"}},
				"parts": []map[string]any{
					{"mimeType": "text/html", "body": map[string]any{"data": "PGI-"}},
					{"mimeType": "text/plain", "body": map[string]any{"data": encoded}},
				},
			},
		})
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/m2", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"id":      "m2",
			"payload": map[string]any{"body": map[string]any{"data": base64.RawURLEncoding.EncodeToString([]byte("hi"))}},
		})
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/send", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, sent))
		writeJSON(w, map[string]any{"id": "sent-42"})
	})
	mux.HandleFunc("/drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		switch {
		case strings.Contains(q, "application/vnd.google-apps.folder"):
			assert.Contains(t, q, "name = 'Tax'")
			writeJSON(w, map[string]any{"files": []map[string]any{{"id": "f-tax", "name": "Tax", "mimeType": "application/vnd.google-apps.folder"}}})
		case strings.Contains(q, "in parents"):
			writeJSON(w, map[string]any{"files": []map[string]any{{"id": "1", "name": "2024.pdf", "size": "2048"}}})
		default:
			assert.Equal(t, "10", r.URL.Query().Get("pageSize"))
			writeJSON(w, map[string]any{"files": []map[string]any{{"id": "1", "name": "notes.txt"}, {"id": "2", "name": "plan.doc"}}})
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func newTestGoogle(t *testing.T, sent *map[string]any) *Google {
	t.Helper()

	srv := newGoogleTestServer(t, sent)

	g, err := NewGoogle(context.Background(), srv.Client(), func(o *GoogleOptions) {
		o.GmailEndpoint = srv.URL + "/"
		o.DriveEndpoint = srv.URL + "/drive/v3/"
	})
	require.NoError(t, err)

	return g
}

func TestGoogle_ListMessages(t *testing.T) {
	g := newTestGoogle(t, nil)

	msgs, err := g.ListMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, Message{ID: "m1", Subject: "Report", Body: "Quarterly numbers attached."}, msgs[0])
	assert.Equal(t, Message{ID: "m2", Subject: "(No Subject)", Body: "hi"}, msgs[1])
}

func TestGoogle_SendEmail(t *testing.T) {
	var sent map[string]any
	g := newTestGoogle(t, &sent)

	id, err := g.SendEmail(context.Background(), "irene@example.com", "Your digest", "Hello!")
	require.NoError(t, err)
	assert.Equal(t, "sent-42", id)

	raw, err := base64.URLEncoding.DecodeString(sent["raw"].(string))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "To: irene@example.com\r\n")
	assert.Contains(t, string(raw), "From: me\r\n")
	assert.Contains(t, string(raw), "Subject: Your digest\r\n")
	assert.True(t, strings.HasSuffix(string(raw), "\r\n\r\nHello!"))
}

func TestGoogle_Files(t *testing.T) {
	g := newTestGoogle(t, nil)
	ctx := context.Background()

	files, err := g.ListFiles(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []File{{ID: "1", Name: "notes.txt"}, {ID: "2", Name: "plan.doc"}}, files)

	folder, err := g.FolderByName(ctx, "Tax")
	require.NoError(t, err)
	assert.Equal(t, "f-tax", folder.ID)

	files, err = g.ListFiles(ctx, folder.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, int64(2048), files[0].Size)
}

func TestInMemory(t *testing.T) {
	c := NewInMemory(Message{ID: "1", Subject: "s", Body: "b"})
	c.AddFiles("", File{ID: "a", Name: "a.txt"})
	c.AddFolder(File{ID: "f", Name: "Tax"})
	ctx := context.Background()

	msgs, err := c.ListMessages(ctx)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	id, err := c.SendEmail(ctx, "to", "subj", "body")
	require.NoError(t, err)
	assert.Equal(t, "sent-1", id)
	assert.Equal(t, []SentEmail{{ID: "sent-1", To: "to", Subject: "subj", Body: "body"}}, c.Sent())

	files, err := c.ListFiles(ctx, "")
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = c.FolderByName(ctx, "Missing")
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestBuildMessageEncodesSubject(t *testing.T) {
	raw := string(buildMessage("me", "x@y.z", "Grüße", "body"))
	assert.Contains(t, raw, "Subject: =?utf-8?q?Gr=C3=BC=C3=9Fe?=\r\n")
}

func TestDecodeBody(t *testing.T) {
	padded := base64.URLEncoding.EncodeToString([]byte("ab"))
	raw := base64.RawURLEncoding.EncodeToString([]byte("ab"))

	for _, in := range []string{padded, raw} {
		out, err := decodeBody(in)
		require.NoError(t, err)
		assert.Equal(t, "ab", out)
	}

	_, err := decodeBody("!!!")
	assert.Error(t, err)
}

func TestTokenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token.json")

	_, err := loadToken(path)
	assert.ErrorIs(t, err, ErrTokenRequired)

	require.NoError(t, saveToken(path, &oauth2.Token{AccessToken: "abc", RefreshToken: "r"}))

	tok, err := loadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.AccessToken)
	assert.Equal(t, "r", tok.RefreshToken)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNewAuthenticator(t *testing.T) {
	dir := t.TempDir()
	creds := filepath.Join(dir, "credentials.json")
	require.NoError(t, os.WriteFile(creds, []byte(`{"installed":{"client_id":"id","client_secret":"secret",
		"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token",
		"redirect_uris":["http://localhost"]}}`), 0o600))

	a, err := NewAuthenticator(creds, filepath.Join(dir, "token.json"))
	require.NoError(t, err)
	assert.Contains(t, a.AuthURL("state"), "client_id=id")

	_, err = a.HTTPClient(context.Background())
	assert.ErrorIs(t, err, ErrTokenRequired)
}
