package sqlstore

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/custodia-labs/notegen/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*Lock)(nil)

const lockPrefix = "notegen:lock:"

// Lock implements DistributedLock on the provider database.
//
// On PostgreSQL it uses session advisory locks. These are connection-scoped
// and ignore the TTL: the lock is held until released or the connection closes.
// On SQLite it uses a row in the locks table that expires after the TTL.
//
// Use the Redis lock when several instances share one deployment.
type Lock struct {
	db  *DB
	now func() time.Time
}

// NewLock creates a new database-backed lock
func NewLock(db *DB) *Lock {
	return &Lock{db: db, now: time.Now}
}

// hashLockName converts a lock name to a 64-bit advisory lock key using FNV-1a
func hashLockName(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(lockPrefix + name))
	return int64(h.Sum64())
}

// Acquire attempts to take a named lock without blocking
func (l *Lock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if l.db.dialect == DialectPostgres {
		var acquired bool
		err := l.db.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", hashLockName(name)).Scan(&acquired)
		if err != nil {
			return false, fmt.Errorf("acquire advisory lock: %w", err)
		}
		return acquired, nil
	}

	now := l.now().UTC()
	query, args, err := l.db.builder.Delete("locks").
		Where(sq.And{sq.Eq{"name": lockPrefix + name}, sq.LtOrEq{"expires_at": now}}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("expire lock: %w", err)
	}

	query, args, err = l.db.builder.Insert("locks").
		Columns("name", "expires_at").
		Values(lockPrefix+name, now.Add(ttl)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert lock: %w", err)
	}
	return true, nil
}

// Release drops a named lock.
// Safe to call when the lock is not held.
func (l *Lock) Release(ctx context.Context, name string) error {
	if l.db.dialect == DialectPostgres {
		// released=false means the lock wasn't held
		var released bool
		err := l.db.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", hashLockName(name)).Scan(&released)
		if err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	query, args, err := l.db.builder.Delete("locks").Where(sq.Eq{"name": lockPrefix + name}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}

// Ping checks if the database backend is healthy
func (l *Lock) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}
