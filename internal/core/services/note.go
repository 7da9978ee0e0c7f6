package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
	"github.com/custodia-labs/notegen/internal/core/ports/driving"
)

// DefaultTemperature is used when a request does not set one
const DefaultTemperature = 0.7

// Ensure noteService implements NoteService
var _ driving.NoteService = (*noteService)(nil)

// PromptBuilder assembles the user message for a note request
type PromptBuilder interface {
	Build(req *domain.NoteRequest) (domain.ChatMessage, error)
}

// noteService implements the NoteService interface.
// Each Generate call makes exactly one completion request.
type noteService struct {
	providers driven.ProviderStore
	factory   driven.LLMClientFactory
	prompts   PromptBuilder
	pipeline  driven.MarkdownPipeline
	temp      float64
	logger    *slog.Logger
}

// NoteServiceConfig holds dependencies for the note service
type NoteServiceConfig struct {
	Providers driven.ProviderStore
	Factory   driven.LLMClientFactory
	Prompts   PromptBuilder
	Pipeline  driven.MarkdownPipeline

	// Temperature applies when a request does not set one. Zero means DefaultTemperature.
	Temperature float64
	Logger      *slog.Logger
}

// NewNoteService creates a new NoteService
func NewNoteService(cfg NoteServiceConfig) driving.NoteService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	temp := cfg.Temperature
	if temp == 0 {
		temp = DefaultTemperature
	}
	return &noteService{
		providers: cfg.Providers,
		factory:   cfg.Factory,
		prompts:   cfg.Prompts,
		pipeline:  cfg.Pipeline,
		temp:      temp,
		logger:    logger,
	}
}

// Generate synthesizes one note
func (s *noteService) Generate(ctx context.Context, req driving.GenerateNoteRequest) (*domain.NoteDocument, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	provider, err := s.providers.Get(ctx, req.ProviderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrProviderNotFound
	}
	if err != nil {
		return nil, err
	}

	msg, err := s.prompts.Build(&req.Note)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	temperature := s.temp
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	client, err := s.factory.NewClient(provider.APIKey, provider.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	defer func() { _ = client.Close() }()

	s.logger.Info("generating note",
		"provider", provider.Name,
		"model", req.ModelName,
		"segments", len(req.Note.Segments),
		"images", len(req.Note.ImageURLs))

	result, err := client.Complete(ctx, &domain.CompletionRequest{
		Model:       req.ModelName,
		Messages:    []domain.ChatMessage{msg},
		Temperature: &temperature,
	})
	if err != nil {
		return nil, err
	}

	body, err := ExtractContent(s.logger, req.ModelName, result)
	if err != nil {
		return nil, err
	}

	doc := s.pipeline.Process(body, domain.MediaRef{
		ID:       req.MediaID,
		Platform: req.Platform,
		Link:     req.Note.Link,
	})
	return doc, nil
}
