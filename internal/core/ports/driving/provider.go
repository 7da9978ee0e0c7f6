package driving

import (
	"context"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

// ProviderService manages LLM provider records (the provider half of the registry)
type ProviderService interface {
	// AddProvider creates a provider, or updates in place a non-built-in
	// provider with the same name. Returns the provider id.
	AddProvider(ctx context.Context, req AddProviderRequest) (string, error)

	// GetProvider retrieves a provider. With safe=true the API key is masked.
	GetProvider(ctx context.Context, id string, safe bool) (*domain.Provider, error)

	// ListProviders returns all providers. With safe=true API keys are masked.
	ListProviders(ctx context.Context, safe bool) ([]*domain.Provider, error)

	// ListEnabledProviders returns enabled providers with masked API keys
	ListEnabledProviders(ctx context.Context) ([]*domain.Provider, error)

	// UpdateProvider merges the non-nil fields into the stored provider. Returns the id.
	UpdateProvider(ctx context.Context, id string, upd domain.ProviderUpdate) (string, error)

	// DeleteProvider removes a custom provider and its models
	DeleteProvider(ctx context.Context, id string) error

	// TestConnection probes the provider's endpoint.
	// Fails with ErrProviderNotFound, ErrMissingCredential or ErrConnectionTestFailed.
	TestConnection(ctx context.Context, id string) error
}

// AddProviderRequest represents a request to create a provider
type AddProviderRequest struct {
	Name    string              `json:"name"`
	APIKey  string              `json:"api_key"`
	BaseURL string              `json:"base_url"`
	Logo    string              `json:"logo,omitempty"`
	Type    domain.ProviderType `json:"type"`
	Enabled *bool               `json:"enabled,omitempty"` // Defaults to true
}
