package lifemesh

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/lifemesh/artifact"
	"github.com/hupe1980/lifemesh/assistant"
	"github.com/hupe1980/lifemesh/config"
	"github.com/hupe1980/lifemesh/logging"
	"github.com/hupe1980/lifemesh/model"
	anthropicmodel "github.com/hupe1980/lifemesh/model/anthropic"
	"github.com/hupe1980/lifemesh/model/gemini"
	openaimodel "github.com/hupe1980/lifemesh/model/openai"
	"github.com/hupe1980/lifemesh/workspace"
)

// NewCatalog registers every supported provider with the credentials and
// sampling settings from cfg. The "mock" identifier resolves to an offline
// echo model.
func NewCatalog(ctx context.Context, cfg *config.Config) *model.Catalog {
	c := model.NewCatalog(cfg.Model.Default)

	c.Register(func(name string) (model.Model, error) {
		return gemini.NewModel(ctx, func(o *gemini.Options) {
			o.Model = name
			o.APIKey = cfg.Providers.GoogleAPIKey
			o.Temperature = cfg.Model.Temperature
			o.MaxTokens = cfg.Model.MaxTokens
		})
	}, "gemini-")

	c.Register(func(name string) (model.Model, error) {
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			o.Model = name
			o.APIKey = cfg.Providers.OpenAIAPIKey
			o.Temperature = cfg.Model.Temperature
			o.MaxCompletionTokens = int64(cfg.Model.MaxTokens)
		}), nil
	}, "gpt-", "o1", "o3", "o4")

	c.Register(func(name string) (model.Model, error) {
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			o.Model = anthropic.Model(name)
			o.APIKey = cfg.Providers.AnthropicAPIKey
			o.Temperature = cfg.Model.Temperature
			o.MaxTokens = int64(cfg.Model.MaxTokens)
		}), nil
	}, "claude-")

	c.Register(func(name string) (model.Model, error) {
		return model.NewMockModel(name), nil
	}, "mock")

	return c
}

// NewWorkspace connects to Gmail and Drive when the credentials and token
// files exist. Otherwise it logs a warning and returns an empty in-memory
// client so that the remaining capabilities keep working.
func NewWorkspace(ctx context.Context, cfg *config.Config, logger logging.Logger) (workspace.Client, error) {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	if _, err := os.Stat(cfg.Google.CredentialsFile); err != nil {
		logger.Warn("workspace.offline", "reason", "credentials file not found", "path", cfg.Google.CredentialsFile)
		return workspace.NewInMemory(), nil
	}

	auth, err := workspace.NewAuthenticator(cfg.Google.CredentialsFile, cfg.Google.TokenFile)
	if err != nil {
		return nil, err
	}

	httpClient, err := auth.HTTPClient(ctx)
	if errors.Is(err, workspace.ErrTokenRequired) {
		logger.Warn("workspace.offline", "reason", "no oauth token, run 'lifemesh auth'", "path", cfg.Google.TokenFile)
		return workspace.NewInMemory(), nil
	}
	if err != nil {
		return nil, err
	}

	return workspace.NewGoogle(ctx, httpClient, func(o *workspace.GoogleOptions) {
		if cfg.Google.MaxMessages > 0 {
			o.MaxMessages = cfg.Google.MaxMessages
		}
		o.Logger = logger
	})
}

// NewFromConfig assembles a Mesh from cfg: provider catalogue, workspace
// client, file-backed report store and the optional workflow catalogue.
func NewFromConfig(ctx context.Context, cfg *config.Config, optFns ...func(o *Options)) (*Mesh, error) {
	logger := cfg.Logger()

	ws, err := NewWorkspace(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}

	var workflows []assistant.WorkflowDef
	if cfg.Workflows.CatalogFile != "" {
		workflows, err = assistant.LoadWorkflows(cfg.Workflows.CatalogFile)
		if err != nil {
			return nil, err
		}
	}

	fns := append([]func(o *Options){func(o *Options) {
		o.DefaultModel = cfg.Model.Default
		o.MaxModelCalls = cfg.Model.MaxCallsPerRun
		o.Workspace = ws
		o.Email = assistant.EmailOptions{
			To:            cfg.Email.To,
			Subject:       cfg.Email.Subject,
			RecipientName: cfg.Email.RecipientName,
			SenderName:    cfg.Email.SenderName,
		}
		o.DriveFolder = cfg.Google.DriveFolder
		o.Reports = artifact.NewFileStore(cfg.Reports.Dir, func(o *artifact.FileStoreOptions) { o.Shared = true })
		o.Workflows = workflows
		o.Logger = logger
	}}, optFns...)

	return New(NewCatalog(ctx, cfg), fns...)
}
