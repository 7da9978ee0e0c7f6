package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ModelListingCache = (*ModelCache)(nil)

const modelCachePrefix = "notegen:models:"

// ModelCache stores remote model listings as JSON strings with a TTL
type ModelCache struct {
	client redis.UniversalClient
}

// NewModelCache creates a Redis-backed model listing cache
func NewModelCache(client redis.UniversalClient) *ModelCache {
	return &ModelCache{client: client}
}

func modelCacheKey(providerID string) string {
	return modelCachePrefix + providerID
}

// Get returns the cached listing for a provider
func (c *ModelCache) Get(ctx context.Context, providerID string) ([]domain.ModelDescriptor, bool, error) {
	data, err := c.client.Get(ctx, modelCacheKey(providerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get model listing: %w", err)
	}

	var models []domain.ModelDescriptor
	if err := json.Unmarshal(data, &models); err != nil {
		// A corrupt entry is treated as a miss and dropped
		_ = c.client.Del(ctx, modelCacheKey(providerID)).Err()
		return nil, false, nil
	}
	if models == nil {
		models = []domain.ModelDescriptor{}
	}
	return models, true, nil
}

// Set stores a listing for ttl
func (c *ModelCache) Set(ctx context.Context, providerID string, models []domain.ModelDescriptor, ttl time.Duration) error {
	if models == nil {
		models = []domain.ModelDescriptor{}
	}
	data, err := json.Marshal(models)
	if err != nil {
		return fmt.Errorf("marshal model listing: %w", err)
	}
	if err := c.client.Set(ctx, modelCacheKey(providerID), data, ttl).Err(); err != nil {
		return fmt.Errorf("set model listing: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing for a provider
func (c *ModelCache) Invalidate(ctx context.Context, providerID string) error {
	if err := c.client.Del(ctx, modelCacheKey(providerID)).Err(); err != nil {
		return fmt.Errorf("invalidate model listing: %w", err)
	}
	return nil
}
