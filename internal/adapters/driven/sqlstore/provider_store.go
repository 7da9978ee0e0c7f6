package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
)

// Ensure ProviderStore implements the interface.
var _ driven.ProviderStore = (*ProviderStore)(nil)

var providerColumns = []string{"id", "name", "logo", "type", "api_key_blob", "base_url", "enabled", "created_at"}

// providerRow is the stored shape of a provider. The API key is encrypted.
type providerRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Logo       string    `db:"logo"`
	Type       string    `db:"type"`
	APIKeyBlob []byte    `db:"api_key_blob"`
	BaseURL    string    `db:"base_url"`
	Enabled    bool      `db:"enabled"`
	CreatedAt  time.Time `db:"created_at"`
}

// ProviderStore implements driven.ProviderStore on PostgreSQL or SQLite.
// API keys are encrypted with AES-GCM before they reach the database.
type ProviderStore struct {
	db        *DB
	encryptor *SecretEncryptor
}

// NewProviderStore creates a new SQL-backed provider store.
func NewProviderStore(db *DB, encryptor *SecretEncryptor) *ProviderStore {
	return &ProviderStore{
		db:        db,
		encryptor: encryptor,
	}
}

// Insert stores a new provider.
func (s *ProviderStore) Insert(ctx context.Context, provider *domain.Provider) error {
	blob, err := s.encryptor.EncryptString(provider.APIKey)
	if err != nil {
		return fmt.Errorf("encrypt api key: %w", err)
	}
	if provider.CreatedAt.IsZero() {
		provider.CreatedAt = time.Now().UTC()
	}

	query, args, err := s.db.builder.Insert("providers").
		Columns(providerColumns...).
		Values(provider.ID, provider.Name, provider.Logo, string(provider.Type), blob,
			provider.BaseURL, provider.Enabled, provider.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: provider %q already exists", domain.ErrInvalidInput, provider.Name)
		}
		return fmt.Errorf("insert provider: %w", err)
	}
	return nil
}

// Get retrieves a provider by id with its decrypted API key.
func (s *ProviderStore) Get(ctx context.Context, id string) (*domain.Provider, error) {
	return s.getOne(ctx, sq.Eq{"id": id})
}

// GetByName retrieves a provider by name with its decrypted API key.
func (s *ProviderStore) GetByName(ctx context.Context, name string) (*domain.Provider, error) {
	return s.getOne(ctx, sq.Eq{"name": name})
}

func (s *ProviderStore) getOne(ctx context.Context, where sq.Eq) (*domain.Provider, error) {
	query, args, err := s.db.builder.Select(providerColumns...).
		From("providers").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row providerRow
	err = s.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}
	return s.toDomain(&row)
}

// List retrieves all providers ordered by creation time.
func (s *ProviderStore) List(ctx context.Context) ([]*domain.Provider, error) {
	return s.list(ctx, nil)
}

// ListEnabled retrieves enabled providers ordered by creation time.
func (s *ProviderStore) ListEnabled(ctx context.Context) ([]*domain.Provider, error) {
	return s.list(ctx, sq.Eq{"enabled": true})
}

func (s *ProviderStore) list(ctx context.Context, where sq.Sqlizer) ([]*domain.Provider, error) {
	qb := s.db.builder.Select(providerColumns...).
		From("providers").
		OrderBy("created_at", "id")
	if where != nil {
		qb = qb.Where(where)
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []providerRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}

	providers := make([]*domain.Provider, 0, len(rows))
	for i := range rows {
		p, err := s.toDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}

// Update merges the non-nil fields of upd into the stored row.
func (s *ProviderStore) Update(ctx context.Context, id string, upd domain.ProviderUpdate) error {
	set := sq.Eq{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Logo != nil {
		set["logo"] = *upd.Logo
	}
	if upd.Type != nil {
		set["type"] = string(*upd.Type)
	}
	if upd.APIKey != nil {
		blob, err := s.encryptor.EncryptString(*upd.APIKey)
		if err != nil {
			return fmt.Errorf("encrypt api key: %w", err)
		}
		set["api_key_blob"] = blob
	}
	if upd.BaseURL != nil {
		set["base_url"] = *upd.BaseURL
	}
	if upd.Enabled != nil {
		set["enabled"] = *upd.Enabled
	}

	if len(set) == 0 {
		_, err := s.Get(ctx, id)
		return err
	}

	query, args, err := s.db.builder.Update("providers").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: provider name already taken", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update provider: %w", err)
	}
	return requireAffected(result)
}

// Delete removes the provider's models and then the provider, in one transaction.
func (s *ProviderStore) Delete(ctx context.Context, id string) error {
	return s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := s.db.builder.Delete("models").Where(sq.Eq{"provider_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete models: %w", err)
		}

		query, args, err = s.db.builder.Delete("providers").Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("delete provider: %w", err)
		}
		return requireAffected(result)
	})
}

func (s *ProviderStore) toDomain(row *providerRow) (*domain.Provider, error) {
	apiKey, err := s.encryptor.DecryptString(row.APIKeyBlob)
	if err != nil {
		return nil, fmt.Errorf("decrypt api key for provider %s: %w", row.ID, err)
	}
	return &domain.Provider{
		ID:        row.ID,
		Name:      row.Name,
		Logo:      row.Logo,
		Type:      domain.ProviderType(row.Type),
		APIKey:    apiKey,
		BaseURL:   row.BaseURL,
		Enabled:   row.Enabled,
		CreatedAt: row.CreatedAt,
	}, nil
}

// requireAffected maps zero affected rows to domain.ErrNotFound
func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
