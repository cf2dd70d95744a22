package model

import (
	"context"
	"errors"
	"strings"

	"github.com/hupe1980/lifemesh/core"
)

// ErrEmptyResponse is returned by GenerateText when the model produced no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// GenerateText sends a single user prompt without tools and returns the text
// of the final response. Partial chunks are ignored.
func GenerateText(ctx context.Context, m Model, prompt string) (string, error) {
	respCh, errCh := m.Generate(ctx, Request{
		Contents: []core.Content{core.NewTextContent("user", prompt)},
	})

	var final strings.Builder
	for resp := range respCh {
		if resp.Partial {
			continue
		}
		final.WriteString(resp.Content.Text())
	}

	if err, ok := <-errCh; ok && err != nil {
		return "", err
	}

	text := final.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}
