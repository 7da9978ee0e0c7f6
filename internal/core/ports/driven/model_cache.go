package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

// ModelListingCache caches normalized remote model listings per provider
type ModelListingCache interface {
	// Get returns the cached listing and whether it was present
	Get(ctx context.Context, providerID string) ([]domain.ModelDescriptor, bool, error)

	// Set stores a listing for ttl
	Set(ctx context.Context, providerID string, models []domain.ModelDescriptor, ttl time.Duration) error

	// Invalidate drops the cached listing for a provider
	Invalidate(ctx context.Context, providerID string) error
}
