package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sync"

	"github.com/hupe1980/lifemesh/internal/fsutil"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultScopes are the scopes the assistant tools need.
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/drive.metadata.readonly",
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.send",
}

// Authenticator performs the installed-app OAuth flow against a Google
// client secrets file and keeps the token in a local file.
type Authenticator struct {
	config    *oauth2.Config
	tokenFile string
}

// NewAuthenticator reads the client secrets from credentialsFile.
func NewAuthenticator(credentialsFile, tokenFile string, scopes ...string) (*Authenticator, error) {
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read google credentials: %w", err)
	}

	cfg, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}

	return &Authenticator{config: cfg, tokenFile: tokenFile}, nil
}

// AuthURL returns the consent page URL for the manual authorization step.
func (a *Authenticator) AuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and stores it.
func (a *Authenticator) Exchange(ctx context.Context, code string) error {
	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	return saveToken(a.tokenFile, tok)
}

// HTTPClient returns an authorized client. Refreshed tokens are written back
// to the token file. ErrTokenRequired is returned when no token is stored.
func (a *Authenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	tok, err := loadToken(a.tokenFile)
	if err != nil {
		return nil, err
	}

	src := &persistingTokenSource{
		base: a.config.TokenSource(ctx, tok),
		path: a.tokenFile,
		last: tok.AccessToken,
	}

	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

func loadToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrTokenRequired
	}
	if err != nil {
		return nil, fmt.Errorf("read oauth token: %w", err)
	}

	tok := new(oauth2.Token)
	if err := json.Unmarshal(b, tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	b, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return fsutil.WriteFile(path, b, 0o600)
}

// persistingTokenSource stores every new access token it sees.
type persistingTokenSource struct {
	base oauth2.TokenSource
	path string

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tok.AccessToken != s.last {
		if err := saveToken(s.path, tok); err != nil {
			return nil, fmt.Errorf("persist refreshed token: %w", err)
		}
		s.last = tok.AccessToken
	}

	return tok, nil
}
