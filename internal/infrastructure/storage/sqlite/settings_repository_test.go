package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"odosight/internal/domain/settings"
	"odosight/internal/infrastructure/migration"
)

// setupTestDB создает файл базы в t.TempDir и накатывает миграции
func setupTestDB(t *testing.T) *Storage {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "data", "bot_users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = migration.NewMigration(migration.SQLite, s.MigrationURL(), nil).Up()
	require.NoError(t, err)

	return s
}

func testConfig(userID string) settings.UserConfig {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return settings.UserConfig{
		UserID:            userID,
		ERPURL:            "https://company.odoo.com",
		ERPDatabase:       "company",
		ERPUsername:       "cfo@company.com",
		EncryptedPassword: "c2FsdA==",
		EncryptedAIKey:    "a2V5",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestSettingsRepository_PutAndGet(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t).DB(), slog.Default())
	ctx := context.Background()

	cfg := testConfig("42")
	require.NoError(t, repo.Put(ctx, cfg))

	got, err := repo.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, cfg.ERPURL, got.ERPURL)
	assert.Equal(t, cfg.EncryptedPassword, got.EncryptedPassword)
	assert.Equal(t, cfg.EncryptedAIKey, got.EncryptedAIKey)
	assert.True(t, cfg.CreatedAt.Equal(got.CreatedAt))
}

func TestSettingsRepository_GetMissing(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t).DB(), slog.Default())

	_, err := repo.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, settings.ErrNotFound)
}

func TestSettingsRepository_UpsertOverwrites(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t).DB(), slog.Default())
	ctx := context.Background()

	first := testConfig("42")
	require.NoError(t, repo.Put(ctx, first))

	second := testConfig("42")
	second.ERPDatabase = "company-staging"
	second.EncryptedPassword = "bmV3"
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	second.UpdatedAt = first.UpdatedAt.Add(time.Hour)
	require.NoError(t, repo.Put(ctx, second))

	got, err := repo.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "company-staging", got.ERPDatabase)
	assert.Equal(t, "bmV3", got.EncryptedPassword)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, second.UpdatedAt.Equal(got.UpdatedAt))
}

func TestSettingsRepository_Delete(t *testing.T) {
	repo := NewSettingsRepository(setupTestDB(t).DB(), slog.Default())
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, testConfig("1")))
	require.NoError(t, repo.Put(ctx, testConfig("2")))
	require.NoError(t, repo.Delete(ctx, "1"))
	// удаление отсутствующей записи не ошибка
	require.NoError(t, repo.Delete(ctx, "1"))

	_, err := repo.Get(ctx, "1")
	assert.ErrorIs(t, err, settings.ErrNotFound)

	_, err = repo.Get(ctx, "2")
	assert.NoError(t, err)
}
