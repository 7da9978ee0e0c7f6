package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/custodia-labs/notegen/internal/core/domain"
	"github.com/custodia-labs/notegen/internal/core/ports/driven"
)

// Ensure ModelStore implements the interface.
var _ driven.ModelStore = (*ModelStore)(nil)

var modelColumns = []string{"id", "provider_id", "model_name", "created_at"}

type modelRow struct {
	ID         int64     `db:"id"`
	ProviderID string    `db:"provider_id"`
	ModelName  string    `db:"model_name"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *modelRow) toDomain() *domain.Model {
	return &domain.Model{
		ID:         r.ID,
		ProviderID: r.ProviderID,
		ModelName:  r.ModelName,
		CreatedAt:  r.CreatedAt,
	}
}

// ModelStore implements driven.ModelStore on PostgreSQL or SQLite.
type ModelStore struct {
	db *DB
}

// NewModelStore creates a new SQL-backed model store.
func NewModelStore(db *DB) *ModelStore {
	return &ModelStore{db: db}
}

// Insert stores a model and sets its generated ID.
func (s *ModelStore) Insert(ctx context.Context, model *domain.Model) error {
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now().UTC()
	}

	query, args, err := s.db.builder.Insert("models").
		Columns("provider_id", "model_name", "created_at").
		Values(model.ProviderID, model.ModelName, model.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := s.db.GetContext(ctx, &model.ID, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrModelExists
		}
		return fmt.Errorf("insert model: %w", err)
	}
	return nil
}

// GetByProviderAndName retrieves a model by its unique pair.
func (s *ModelStore) GetByProviderAndName(ctx context.Context, providerID, modelName string) (*domain.Model, error) {
	query, args, err := s.db.builder.Select(modelColumns...).
		From("models").
		Where(sq.Eq{"provider_id": providerID, "model_name": modelName}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row modelRow
	err = s.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get model: %w", err)
	}
	return row.toDomain(), nil
}

// ListByProvider retrieves a provider's models in insertion order.
func (s *ModelStore) ListByProvider(ctx context.Context, providerID string) ([]*domain.Model, error) {
	return s.list(ctx, sq.Eq{"provider_id": providerID})
}

// List retrieves all models in insertion order.
func (s *ModelStore) List(ctx context.Context) ([]*domain.Model, error) {
	return s.list(ctx, nil)
}

func (s *ModelStore) list(ctx context.Context, where sq.Sqlizer) ([]*domain.Model, error) {
	qb := s.db.builder.Select(modelColumns...).From("models").OrderBy("id")
	if where != nil {
		qb = qb.Where(where)
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []modelRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	models := make([]*domain.Model, len(rows))
	for i := range rows {
		models[i] = rows[i].toDomain()
	}
	return models, nil
}

// Delete removes a model by id.
func (s *ModelStore) Delete(ctx context.Context, id int64) error {
	query, args, err := s.db.builder.Delete("models").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	return requireAffected(result)
}
