package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
	"github.com/custodia-labs/notegen/internal/core/ports/driving"
)

// DefaultModelListingTTL is how long a remote model listing stays cached
const DefaultModelListingTTL = 10 * time.Minute

// Ensure modelService implements ModelService
var _ driving.ModelService = (*modelService)(nil)

// modelService implements the ModelService interface
type modelService struct {
	providers driven.ProviderStore
	models    driven.ModelStore
	factory   driven.LLMClientFactory
	cache     driven.ModelListingCache
	cacheTTL  time.Duration
	logger    *slog.Logger
}

// ModelServiceConfig holds dependencies for the model service
type ModelServiceConfig struct {
	Providers driven.ProviderStore
	Models    driven.ModelStore
	Factory   driven.LLMClientFactory
	Cache     driven.ModelListingCache // Optional: caches remote listings
	CacheTTL  time.Duration            // Default: 10m
	Logger    *slog.Logger
}

// NewModelService creates a new ModelService
func NewModelService(cfg ModelServiceConfig) driving.ModelService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = DefaultModelListingTTL
	}
	return &modelService{
		providers: cfg.Providers,
		models:    cfg.Models,
		factory:   cfg.Factory,
		cache:     cfg.Cache,
		cacheTTL:  ttl,
		logger:    logger,
	}
}

// ListRemoteModels asks the provider's endpoint for its models.
// Endpoint failures are logged and yield an empty list.
func (s *modelService) ListRemoteModels(ctx context.Context, providerID string) ([]domain.ModelDescriptor, error) {
	provider, err := s.providers.Get(ctx, providerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrProviderNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, providerID)
		if err != nil {
			s.logger.Warn("model listing cache read failed", "provider_id", providerID, "error", err)
		} else if ok {
			return cached, nil
		}
	}

	client, err := s.factory.NewClient(provider.APIKey, provider.BaseURL)
	if err != nil {
		s.logger.Error("failed to create llm client", "provider", provider.Name, "error", err)
		return []domain.ModelDescriptor{}, nil
	}
	defer func() { _ = client.Close() }()

	models, err := client.ListModels(ctx)
	if err != nil {
		s.logger.Error("failed to list remote models", "provider", provider.Name, "error", err)
		return []domain.ModelDescriptor{}, nil
	}
	s.logger.Info("listed remote models", "provider", provider.Name, "count", len(models))

	if s.cache != nil {
		if err := s.cache.Set(ctx, providerID, models, s.cacheTTL); err != nil {
			s.logger.Warn("model listing cache write failed", "provider_id", providerID, "error", err)
		}
	}

	return models, nil
}

// AddModel registers modelName under providerID.
// Unknown providers and duplicates return false without error.
func (s *modelService) AddModel(ctx context.Context, providerID, modelName string) (bool, error) {
	modelName = strings.TrimSpace(modelName)
	if modelName == "" {
		return false, fmt.Errorf("%w: model name is required", domain.ErrInvalidInput)
	}

	if _, err := s.providers.Get(ctx, providerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("skip model for unknown provider", "provider_id", providerID, "model", modelName)
			return false, nil
		}
		return false, err
	}

	if _, err := s.models.GetByProviderAndName(ctx, providerID, modelName); err == nil {
		s.logger.Info("model already registered", "provider_id", providerID, "model", modelName)
		return false, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}

	err := s.models.Insert(ctx, &domain.Model{ProviderID: providerID, ModelName: modelName})
	if errors.Is(err, domain.ErrModelExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert model: %w", err)
	}

	s.logger.Info("model registered", "provider_id", providerID, "model", modelName)
	return true, nil
}

// DeleteModel removes a model by id
func (s *modelService) DeleteModel(ctx context.Context, id int64) error {
	return s.models.Delete(ctx, id)
}

// ListModels returns the models registered under a provider
func (s *modelService) ListModels(ctx context.Context, providerID string) ([]*domain.Model, error) {
	return s.models.ListByProvider(ctx, providerID)
}

// ListAllModels returns every registered model
func (s *modelService) ListAllModels(ctx context.Context) ([]*domain.Model, error) {
	return s.models.List(ctx)
}
