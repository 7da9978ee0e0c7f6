package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notegen/internal/core/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	db, err := Connect(ctx, DefaultConfig(":memory:"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.InitSchema(ctx))
	return db
}

func newTestStores(t *testing.T) (*ProviderStore, *ModelStore, *DB) {
	t.Helper()
	db := newTestDB(t)
	encryptor, err := NewSecretEncryptor(testKey)
	require.NoError(t, err)
	return NewProviderStore(db, encryptor), NewModelStore(db), db
}

func testProvider(id, name string, created time.Time) *domain.Provider {
	return &domain.Provider{
		ID:        id,
		Name:      name,
		Logo:      "custom",
		Type:      domain.ProviderTypeCustom,
		APIKey:    "sk-" + id,
		BaseURL:   "https://api.example.com/v1",
		Enabled:   true,
		CreatedAt: created,
	}
}

func TestInitSchema_Idempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.InitSchema(context.Background()))
	assert.Equal(t, DialectSQLite, db.Dialect())
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, DialectPostgres, DialectFor("postgres://u:p@localhost/notegen"))
	assert.Equal(t, DialectPostgres, DialectFor("postgresql://localhost/notegen"))
	assert.Equal(t, DialectSQLite, DialectFor("notegen.db"))
	assert.Equal(t, DialectSQLite, DialectFor("sqlite:///var/lib/notegen.db"))
}

func TestProviderStore_InsertGet(t *testing.T) {
	providers, _, db := newTestStores(t)
	ctx := context.Background()

	p := testProvider("p1", "Acme", time.Now().UTC())
	require.NoError(t, providers.Insert(ctx, p))

	got, err := providers.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "sk-p1", got.APIKey)
	assert.Equal(t, domain.ProviderTypeCustom, got.Type)
	assert.True(t, got.Enabled)

	byName, err := providers.GetByName(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "p1", byName.ID)

	var blob []byte
	require.NoError(t, db.GetContext(ctx, &blob, "SELECT api_key_blob FROM providers WHERE id = ?", "p1"))
	assert.NotContains(t, string(blob), "sk-p1")
}

func TestProviderStore_EmptyKeyStoresNoBlob(t *testing.T) {
	providers, _, _ := newTestStores(t)
	ctx := context.Background()

	p := testProvider("p1", "Acme", time.Now().UTC())
	p.APIKey = ""
	require.NoError(t, providers.Insert(ctx, p))

	got, err := providers.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, got.APIKey)
	assert.False(t, got.HasCredential())
}

func TestProviderStore_NotFound(t *testing.T) {
	providers, _, _ := newTestStores(t)
	ctx := context.Background()

	_, err := providers.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = providers.GetByName(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	name := "x"
	err = providers.Update(ctx, "missing", domain.ProviderUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = providers.Delete(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProviderStore_DuplicateName(t *testing.T) {
	providers, _, _ := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, providers.Insert(ctx, testProvider("p1", "Acme", time.Now().UTC())))
	err := providers.Insert(ctx, testProvider("p2", "Acme", time.Now().UTC()))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProviderStore_ListOrder(t *testing.T) {
	providers, _, _ := newTestStores(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, providers.Insert(ctx, testProvider("b", "Second", base.Add(time.Minute))))
	require.NoError(t, providers.Insert(ctx, testProvider("a", "First", base)))
	disabled := testProvider("c", "Third", base.Add(2*time.Minute))
	disabled.Enabled = false
	require.NoError(t, providers.Insert(ctx, disabled))

	all, err := providers.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})

	enabled, err := providers.ListEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 2)
	assert.Equal(t, "a", enabled[0].ID)
	assert.Equal(t, "b", enabled[1].ID)
}

func TestProviderStore_UpdatePartial(t *testing.T) {
	providers, _, _ := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, providers.Insert(ctx, testProvider("p1", "Acme", time.Now().UTC())))

	key := "sk-rotated"
	enabled := false
	require.NoError(t, providers.Update(ctx, "p1", domain.ProviderUpdate{APIKey: &key, Enabled: &enabled}))

	got, err := providers.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "sk-rotated", got.APIKey)
	assert.False(t, got.Enabled)
	assert.Equal(t, "https://api.example.com/v1", got.BaseURL)

	require.NoError(t, providers.Update(ctx, "p1", domain.ProviderUpdate{}))
}

func TestProviderStore_DeleteCascadesModels(t *testing.T) {
	providers, models, _ := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, providers.Insert(ctx, testProvider("p1", "Acme", time.Now().UTC())))
	require.NoError(t, providers.Insert(ctx, testProvider("p2", "Other", time.Now().UTC())))
	require.NoError(t, models.Insert(ctx, &domain.Model{ProviderID: "p1", ModelName: "m1"}))
	require.NoError(t, models.Insert(ctx, &domain.Model{ProviderID: "p1", ModelName: "m2"}))
	require.NoError(t, models.Insert(ctx, &domain.Model{ProviderID: "p2", ModelName: "m1"}))

	require.NoError(t, providers.Delete(ctx, "p1"))

	_, err := providers.Get(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	remaining, err := models.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "p2", remaining[0].ProviderID)
}

func TestModelStore_InsertAndList(t *testing.T) {
	providers, models, _ := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, providers.Insert(ctx, testProvider("p1", "Acme", time.Now().UTC())))

	first := &domain.Model{ProviderID: "p1", ModelName: "gpt-4o"}
	second := &domain.Model{ProviderID: "p1", ModelName: "gpt-4o-mini"}
	require.NoError(t, models.Insert(ctx, first))
	require.NoError(t, models.Insert(ctx, second))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	list, err := models.ListByProvider(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "gpt-4o", list[0].ModelName)
	assert.Equal(t, "gpt-4o-mini", list[1].ModelName)

	got, err := models.GetByProviderAndName(ctx, "p1", "gpt-4o-mini")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	_, err = models.GetByProviderAndName(ctx, "p1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	empty, err := models.ListByProvider(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestModelStore_Duplicate(t *testing.T) {
	providers, models, _ := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, providers.Insert(ctx, testProvider("p1", "Acme", time.Now().UTC())))
	require.NoError(t, models.Insert(ctx, &domain.Model{ProviderID: "p1", ModelName: "m"}))

	err := models.Insert(ctx, &domain.Model{ProviderID: "p1", ModelName: "m"})
	assert.ErrorIs(t, err, domain.ErrModelExists)
}

func TestModelStore_Delete(t *testing.T) {
	providers, models, _ := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, providers.Insert(ctx, testProvider("p1", "Acme", time.Now().UTC())))
	m := &domain.Model{ProviderID: "p1", ModelName: "m"}
	require.NoError(t, models.Insert(ctx, m))

	require.NoError(t, models.Delete(ctx, m.ID))
	assert.ErrorIs(t, models.Delete(ctx, m.ID), domain.ErrNotFound)
}

func TestLock_SQLite(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	lock := NewLock(db)
	lock.now = func() time.Time { return now }

	acquired, err := lock.Acquire(ctx, "seed", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = lock.Acquire(ctx, "seed", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, acquired, "held lock must not be re-acquired")

	now = now.Add(time.Minute)
	acquired, err = lock.Acquire(ctx, "seed", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired, "expired lock must be re-acquirable")

	require.NoError(t, lock.Release(ctx, "seed"))
	require.NoError(t, lock.Release(ctx, "seed"))

	acquired, err = lock.Acquire(ctx, "seed", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)

	assert.NoError(t, lock.Ping(ctx))
}
