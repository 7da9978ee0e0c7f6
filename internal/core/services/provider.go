package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
	"github.com/custodia-labs/notegen/internal/core/ports/driving"
)

// Ensure providerService implements ProviderService
var _ driving.ProviderService = (*providerService)(nil)

// ConnectionTester is the prober contract used by the registry
type ConnectionTester interface {
	Test(ctx context.Context, apiKey, baseURL, modelName string) (bool, error)
}

// providerService implements the ProviderService interface.
// Mutations are serialized by mu; multi-statement writes are transactional in the store.
type providerService struct {
	providers driven.ProviderStore
	models    driven.ModelStore
	prober    ConnectionTester
	cache     driven.ModelListingCache
	logger    *slog.Logger

	mu sync.Mutex
}

// ProviderServiceConfig holds dependencies for the provider service
type ProviderServiceConfig struct {
	Providers driven.ProviderStore
	Models    driven.ModelStore
	Prober    ConnectionTester
	Cache     driven.ModelListingCache // Optional: invalidated on provider changes
	Logger    *slog.Logger
}

// NewProviderService creates a new ProviderService
func NewProviderService(cfg ProviderServiceConfig) driving.ProviderService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &providerService{
		providers: cfg.Providers,
		models:    cfg.Models,
		prober:    cfg.Prober,
		cache:     cfg.Cache,
		logger:    logger,
	}
}

// AddProvider creates a provider or updates a custom provider of the same name in place
func (s *providerService) AddProvider(ctx context.Context, req driving.AddProviderRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	logo := strings.TrimSpace(req.Logo)
	if logo == "" {
		logo = domain.DefaultProviderLogo
	}
	// Only seeding creates built-in providers
	if req.Type != "" && req.Type != domain.ProviderTypeCustom {
		return "", fmt.Errorf("%w: provider type must be %q", domain.ErrInvalidInput, domain.ProviderTypeCustom)
	}
	providerType := domain.ProviderTypeCustom
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	apiKey := strings.TrimSpace(req.APIKey)
	baseURL := strings.TrimSpace(req.BaseURL)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.providers.GetByName(ctx, name)
	switch {
	case err == nil && existing.IsBuiltIn():
		return "", fmt.Errorf("%w: name %q belongs to a built-in provider", domain.ErrInvalidInput, name)
	case err == nil:
		upd := domain.ProviderUpdate{
			Name:    &name,
			Logo:    &logo,
			Type:    &providerType,
			APIKey:  &apiKey,
			BaseURL: &baseURL,
			Enabled: &enabled,
		}
		if err := s.providers.Update(ctx, existing.ID, upd); err != nil {
			return "", fmt.Errorf("update provider %s: %w", existing.ID, err)
		}
		s.invalidate(ctx, existing.ID)
		s.logger.Info("provider updated in place", "provider_id", existing.ID, "name", name)
		return existing.ID, nil
	case !errors.Is(err, domain.ErrNotFound):
		return "", fmt.Errorf("lookup provider %q: %w", name, err)
	}

	provider := &domain.Provider{
		ID:      uuid.NewString(),
		Name:    name,
		Logo:    logo,
		Type:    providerType,
		APIKey:  apiKey,
		BaseURL: baseURL,
		Enabled: enabled,
	}
	if err := s.providers.Insert(ctx, provider); err != nil {
		return "", fmt.Errorf("insert provider: %w", err)
	}

	s.logger.Info("provider created", "provider_id", provider.ID, "name", name)
	return provider.ID, nil
}

// GetProvider retrieves a provider, masking the key when safe is set
func (s *providerService) GetProvider(ctx context.Context, id string, safe bool) (*domain.Provider, error) {
	provider, err := s.getProvider(ctx, id)
	if err != nil {
		return nil, err
	}
	if safe {
		return provider.Masked(), nil
	}
	return provider, nil
}

// ListProviders returns all providers
func (s *providerService) ListProviders(ctx context.Context, safe bool) ([]*domain.Provider, error) {
	providers, err := s.providers.List(ctx)
	if err != nil {
		return nil, err
	}
	if safe {
		return maskAll(providers), nil
	}
	return providers, nil
}

// ListEnabledProviders returns enabled providers with masked keys
func (s *providerService) ListEnabledProviders(ctx context.Context) ([]*domain.Provider, error) {
	providers, err := s.providers.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	return maskAll(providers), nil
}

// UpdateProvider merges the non-nil fields of upd into the stored provider
func (s *providerService) UpdateProvider(ctx context.Context, id string, upd domain.ProviderUpdate) (string, error) {
	upd = trimUpdate(upd)
	if upd.Name != nil && *upd.Name == "" {
		return "", fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.getProvider(ctx, id)
	if err != nil {
		return "", err
	}
	if upd.Type != nil {
		switch {
		case *upd.Type == existing.Type:
			upd.Type = nil
		case existing.IsBuiltIn():
			return "", domain.ErrBuiltInProtected
		default:
			return "", fmt.Errorf("%w: provider type cannot be changed", domain.ErrInvalidInput)
		}
	}
	if upd.IsEmpty() {
		return id, nil
	}

	if err := s.providers.Update(ctx, id, upd); err != nil {
		return "", fmt.Errorf("update provider %s: %w", id, err)
	}
	s.invalidate(ctx, id)

	return id, nil
}

// DeleteProvider removes a custom provider and its models
func (s *providerService) DeleteProvider(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	provider, err := s.getProvider(ctx, id)
	if err != nil {
		return err
	}
	if provider.IsBuiltIn() {
		return domain.ErrBuiltInProtected
	}

	if err := s.providers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete provider %s: %w", id, err)
	}
	s.invalidate(ctx, id)

	s.logger.Info("provider deleted", "provider_id", id, "name", provider.Name)
	return nil
}

// TestConnection probes the provider with its first registered model, if any
func (s *providerService) TestConnection(ctx context.Context, id string) error {
	provider, err := s.getProvider(ctx, id)
	if err != nil {
		return err
	}
	if !provider.HasCredential() {
		return domain.ErrMissingCredential
	}

	modelName := ""
	models, err := s.models.ListByProvider(ctx, id)
	if err != nil {
		s.logger.Warn("failed to list models for connection test", "provider_id", id, "error", err)
	} else if len(models) > 0 {
		modelName = models[0].ModelName
	}

	ok, err := s.prober.Test(ctx, provider.APIKey, provider.BaseURL, modelName)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConnectionTestFailed, err)
	}
	if !ok {
		return domain.ErrConnectionTestFailed
	}
	return nil
}

// getProvider maps a missing row to ErrProviderNotFound
func (s *providerService) getProvider(ctx context.Context, id string) (*domain.Provider, error) {
	provider, err := s.providers.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrProviderNotFound
	}
	if err != nil {
		return nil, err
	}
	return provider, nil
}

func (s *providerService) invalidate(ctx context.Context, providerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, providerID); err != nil {
		s.logger.Warn("failed to invalidate model listing cache", "provider_id", providerID, "error", err)
	}
}

func maskAll(providers []*domain.Provider) []*domain.Provider {
	masked := make([]*domain.Provider, len(providers))
	for i, p := range providers {
		masked[i] = p.Masked()
	}
	return masked
}

func trimUpdate(upd domain.ProviderUpdate) domain.ProviderUpdate {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	upd.Name = trim(upd.Name)
	upd.Logo = trim(upd.Logo)
	upd.APIKey = trim(upd.APIKey)
	upd.BaseURL = trim(upd.BaseURL)
	return upd
}
