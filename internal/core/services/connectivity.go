package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
)

// probeMessage is the content of the minimal chat probe
const probeMessage = "ping"

// Prober checks whether an OpenAI-compatible endpoint is reachable.
// It lists models first and falls back to a one-token chat completion.
type Prober struct {
	factory driven.LLMClientFactory
	logger  *slog.Logger
}

// NewProber creates a prober that builds clients from factory
func NewProber(factory driven.LLMClientFactory, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{factory: factory, logger: logger}
}

// Test reports whether the endpoint answers.
//
// A successful model listing returns true. When listing fails and modelName
// is empty, Test returns an error wrapping domain.ErrModelNameRequired and
// the listing failure. Otherwise a chat probe against modelName decides, and
// a failed probe yields (false, nil) rather than an error.
func (p *Prober) Test(ctx context.Context, apiKey, baseURL, modelName string) (bool, error) {
	client, err := p.factory.NewClient(apiKey, baseURL)
	if err != nil {
		return false, fmt.Errorf("create client: %w", err)
	}
	defer func() { _ = client.Close() }()

	_, listErr := client.ListModels(ctx)
	if listErr == nil {
		return true, nil
	}

	if modelName == "" {
		return false, fmt.Errorf("%w: %w", domain.ErrModelNameRequired, listErr)
	}

	p.logger.Debug("model listing failed, probing chat", "base_url", baseURL, "model", modelName, "error", listErr)

	_, err = client.Complete(ctx, &domain.CompletionRequest{
		Model: modelName,
		Messages: []domain.ChatMessage{
			{Role: domain.ChatRoleUser, Content: []domain.ContentPart{domain.TextPart(probeMessage)}},
		},
		MaxTokens: 1,
	})
	if err != nil {
		p.logger.Info("chat probe failed", "base_url", baseURL, "model", modelName, "error", err)
		return false, nil
	}
	return true, nil
}
