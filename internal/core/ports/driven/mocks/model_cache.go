package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
)

// Ensure MockModelListingCache implements ModelListingCache
var _ driven.ModelListingCache = (*MockModelListingCache)(nil)

// MockModelListingCache is an in-memory ModelListingCache. TTLs are recorded, not enforced.
type MockModelListingCache struct {
	mu      sync.Mutex
	entries map[string][]domain.ModelDescriptor

	TTLs        map[string]time.Duration
	Invalidated []string
}

// NewMockModelListingCache creates a new MockModelListingCache
func NewMockModelListingCache() *MockModelListingCache {
	return &MockModelListingCache{
		entries: make(map[string][]domain.ModelDescriptor),
		TTLs:    make(map[string]time.Duration),
	}
}

func (m *MockModelListingCache) Get(ctx context.Context, providerID string) ([]domain.ModelDescriptor, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	models, ok := m.entries[providerID]
	return models, ok, nil
}

func (m *MockModelListingCache) Set(ctx context.Context, providerID string, models []domain.ModelDescriptor, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[providerID] = models
	m.TTLs[providerID] = ttl
	return nil
}

func (m *MockModelListingCache) Invalidate(ctx context.Context, providerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, providerID)
	m.Invalidated = append(m.Invalidated, providerID)
	return nil
}
