package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
)

const (
	seedLockName = "seed-providers"
	seedLockTTL  = 30 * time.Second
)

// DefaultProviders returns the built-in providers seeded at startup.
// IDs are fixed so that every instance seeds the same rows.
func DefaultProviders() []*domain.Provider {
	return []*domain.Provider{
		builtIn("openai", "OpenAI", "OpenAI", "https://api.openai.com/v1"),
		builtIn("deepseek", "DeepSeek", "DeepSeek", "https://api.deepseek.com"),
		builtIn("qwen", "Qwen", "Qwen", "https://dashscope.aliyuncs.com/compatible-mode/v1"),
		builtIn("gemini", "Gemini", "Gemini", "https://generativelanguage.googleapis.com/v1beta/openai"),
		builtIn("groq", "Groq", "Groq", "https://api.groq.com/openai/v1"),
		builtIn("ollama", "Ollama", "Ollama", "http://127.0.0.1:11434/v1"),
	}
}

func builtIn(id, name, logo, baseURL string) *domain.Provider {
	return &domain.Provider{
		ID:      id,
		Name:    name,
		Logo:    logo,
		Type:    domain.ProviderTypeBuiltIn,
		BaseURL: baseURL,
	}
}

// SeedDefaults inserts every default provider whose name is not yet stored.
// Existing rows are never touched, so the call is idempotent.
// When lock is non-nil, seeding is skipped if another instance holds it.
func SeedDefaults(ctx context.Context, store driven.ProviderStore, lock driven.DistributedLock, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if lock != nil {
		acquired, err := lock.Acquire(ctx, seedLockName, seedLockTTL)
		if err != nil {
			return 0, fmt.Errorf("acquire seed lock: %w", err)
		}
		if !acquired {
			logger.Info("provider seeding running elsewhere, skipping")
			return 0, nil
		}
		defer func() {
			if err := lock.Release(ctx, seedLockName); err != nil {
				logger.Warn("failed to release seed lock", "error", err)
			}
		}()
	}

	inserted := 0
	for _, p := range DefaultProviders() {
		_, err := store.GetByName(ctx, p.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return inserted, fmt.Errorf("lookup provider %q: %w", p.Name, err)
		}
		if _, err := store.Get(ctx, p.ID); err == nil {
			// Renamed by a user; the id is still taken
			continue
		}

		if err := store.Insert(ctx, p); err != nil {
			return inserted, fmt.Errorf("seed provider %q: %w", p.Name, err)
		}
		inserted++
	}

	if inserted > 0 {
		logger.Info("seeded default providers", "count", inserted)
	}
	return inserted, nil
}
