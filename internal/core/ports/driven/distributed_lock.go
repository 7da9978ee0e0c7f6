package driven

import (
	"context"
	"time"
)

// DistributedLock coordinates one-off startup work (provider seeding) across instances
type DistributedLock interface {
	// Acquire attempts to take a named lock that expires after ttl.
	// Returns false when another instance holds it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release drops a named lock held by this instance.
	// Safe to call when the lock already expired.
	Release(ctx context.Context, name string) error

	// Ping checks if the lock backend is healthy
	Ping(ctx context.Context) error
}
