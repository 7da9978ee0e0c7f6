package driving

import (
	"context"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

// ModelService manages model records and remote model discovery
type ModelService interface {
	// ListRemoteModels asks the provider's endpoint for its models.
	// Transport failures degrade to an empty list.
	ListRemoteModels(ctx context.Context, providerID string) ([]domain.ModelDescriptor, error)

	// AddModel registers a model name under a provider.
	// Returns false without error when the provider is unknown or the model already exists.
	AddModel(ctx context.Context, providerID, modelName string) (bool, error)

	// DeleteModel removes a model by id
	DeleteModel(ctx context.Context, id int64) error

	// ListModels returns the models registered under a provider
	ListModels(ctx context.Context, providerID string) ([]*domain.Model, error)

	// ListAllModels returns every registered model
	ListAllModels(ctx context.Context) ([]*domain.Model, error)
}
