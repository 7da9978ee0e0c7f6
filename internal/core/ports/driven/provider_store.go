package driven

import (
	"context"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

// ProviderStore persists provider records.
// API keys are handed over in plaintext; storage encryption is the store's job.
type ProviderStore interface {
	// Insert stores a new provider. Returns domain.ErrInvalidInput on a name collision.
	Insert(ctx context.Context, provider *domain.Provider) error

	// Get retrieves a provider by id. Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Provider, error)

	// GetByName retrieves a provider by its unique name. Returns domain.ErrNotFound when absent.
	GetByName(ctx context.Context, name string) (*domain.Provider, error)

	// List retrieves all providers ordered by creation time
	List(ctx context.Context) ([]*domain.Provider, error)

	// ListEnabled retrieves enabled providers ordered by creation time
	ListEnabled(ctx context.Context) ([]*domain.Provider, error)

	// Update merges the non-nil fields of upd into the stored row
	Update(ctx context.Context, id string, upd domain.ProviderUpdate) error

	// Delete removes the provider's models and then the provider, in one transaction
	Delete(ctx context.Context, id string) error
}

// ModelStore persists model records
type ModelStore interface {
	// Insert stores a model and sets its ID.
	// Returns domain.ErrModelExists when (provider_id, model_name) is taken.
	Insert(ctx context.Context, model *domain.Model) error

	// GetByProviderAndName retrieves a model. Returns domain.ErrNotFound when absent.
	GetByProviderAndName(ctx context.Context, providerID, modelName string) (*domain.Model, error)

	// ListByProvider retrieves a provider's models in insertion order
	ListByProvider(ctx context.Context, providerID string) ([]*domain.Model, error)

	// List retrieves all models in insertion order
	List(ctx context.Context) ([]*domain.Model, error)

	// Delete removes a model by id. Returns domain.ErrNotFound when absent.
	Delete(ctx context.Context, id int64) error
}
