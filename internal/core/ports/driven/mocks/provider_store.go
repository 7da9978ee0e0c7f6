package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
)

// Ensure the mocks implement their ports
var (
	_ driven.ProviderStore = (*MockProviderStore)(nil)
	_ driven.ModelStore    = (*MockModelStore)(nil)
)

// MockProviderStore is a mock implementation of ProviderStore for testing.
// Set Models to have Delete cascade into a MockModelStore.
type MockProviderStore struct {
	mu        sync.RWMutex
	providers map[string]*domain.Provider

	Models *MockModelStore
}

// NewMockProviderStore creates a new MockProviderStore
func NewMockProviderStore() *MockProviderStore {
	return &MockProviderStore{
		providers: make(map[string]*domain.Provider),
	}
}

func (m *MockProviderStore) Insert(ctx context.Context, provider *domain.Provider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.providers {
		if p.Name == provider.Name {
			return domain.ErrInvalidInput
		}
	}
	cp := *provider
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	m.providers[cp.ID] = &cp
	return nil
}

func (m *MockProviderStore) Get(ctx context.Context, id string) (*domain.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.providers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProviderStore) GetByName(ctx context.Context, name string) (*domain.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.providers {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockProviderStore) List(ctx context.Context) ([]*domain.Provider, error) {
	return m.list(false), nil
}

func (m *MockProviderStore) ListEnabled(ctx context.Context) ([]*domain.Provider, error) {
	return m.list(true), nil
}

func (m *MockProviderStore) list(enabledOnly bool) []*domain.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Provider, 0, len(m.providers))
	for _, p := range m.providers {
		if enabledOnly && !p.Enabled {
			continue
		}
		cp := *p
		result = append(result, &cp)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (m *MockProviderStore) Update(ctx context.Context, id string, upd domain.ProviderUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.providers[id]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *p
	upd.Apply(&cp)
	m.providers[id] = &cp
	return nil
}

func (m *MockProviderStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[id]; !ok {
		return domain.ErrNotFound
	}
	if m.Models != nil {
		m.Models.deleteByProvider(id)
	}
	delete(m.providers, id)
	return nil
}

// Count returns the number of stored providers (for test assertions)
func (m *MockProviderStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.providers)
}

// MockModelStore is a mock implementation of ModelStore for testing
type MockModelStore struct {
	mu     sync.RWMutex
	models []*domain.Model
	nextID int64
}

// NewMockModelStore creates a new MockModelStore
func NewMockModelStore() *MockModelStore {
	return &MockModelStore{nextID: 1}
}

func (m *MockModelStore) Insert(ctx context.Context, model *domain.Model) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.models {
		if existing.ProviderID == model.ProviderID && existing.ModelName == model.ModelName {
			return domain.ErrModelExists
		}
	}
	model.ID = m.nextID
	m.nextID++
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now()
	}
	cp := *model
	m.models = append(m.models, &cp)
	return nil
}

func (m *MockModelStore) GetByProviderAndName(ctx context.Context, providerID, modelName string) (*domain.Model, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, model := range m.models {
		if model.ProviderID == providerID && model.ModelName == modelName {
			cp := *model
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockModelStore) ListByProvider(ctx context.Context, providerID string) ([]*domain.Model, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Model
	for _, model := range m.models {
		if model.ProviderID == providerID {
			cp := *model
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *MockModelStore) List(ctx context.Context) ([]*domain.Model, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Model, 0, len(m.models))
	for _, model := range m.models {
		cp := *model
		result = append(result, &cp)
	}
	return result, nil
}

func (m *MockModelStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, model := range m.models {
		if model.ID == id {
			m.models = append(m.models[:i], m.models[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockModelStore) deleteByProvider(providerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.models[:0]
	for _, model := range m.models {
		if model.ProviderID != providerID {
			kept = append(kept, model)
		}
	}
	m.models = kept
}
