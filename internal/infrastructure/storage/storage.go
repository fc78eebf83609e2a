package storage

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/exp/slog"

	"odosight/internal/domain/settings"
	"odosight/internal/infrastructure/migration"
	"odosight/internal/infrastructure/storage/postgres"
	"odosight/internal/infrastructure/storage/sqlite"
)

// Store - открытое хранилище настроек. Открывается при старте процесса,
// закрывается при остановке.
type Store struct {
	Settings settings.Repository

	backend      migration.Backend
	migrationURL string
	ping         func(ctx context.Context) error
	close        func() error
}

// BackendFor выбирает диалект по схеме URI, все остальное считается путем к файлу SQLite.
func BackendFor(uri string) migration.Backend {
	if strings.HasPrefix(uri, "postgres://") || strings.HasPrefix(uri, "postgresql://") {
		return migration.Postgres
	}
	return migration.SQLite
}

// Open подключается к базе и накатывает миграции.
func Open(ctx context.Context, uri string, log *slog.Logger) (*Store, error) {
	st, err := Connect(ctx, uri, log)
	if err != nil {
		return nil, err
	}

	version, err := st.Migrate()
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	log.Info("storage ready", slog.String("backend", string(st.backend)), slog.Uint64("schema_version", uint64(version)))
	return st, nil
}

// Connect подключается к базе без миграций.
func Connect(ctx context.Context, uri string, log *slog.Logger) (*Store, error) {
	log = log.With(slog.String("component", "storage"))

	switch backend := BackendFor(uri); backend {
	case migration.Postgres:
		pg, err := postgres.New(ctx, uri)
		if err != nil {
			return nil, err
		}
		return &Store{
			Settings:     postgres.NewSettingsRepository(pg.Pool(), log),
			backend:      backend,
			migrationURL: pg.MigrationURL(),
			ping:         pg.Ping,
			close:        pg.Close,
		}, nil
	default:
		lite, err := sqlite.New(uri)
		if err != nil {
			return nil, err
		}
		return &Store{
			Settings:     sqlite.NewSettingsRepository(lite.DB(), log),
			backend:      backend,
			migrationURL: lite.MigrationURL(),
			ping:         lite.Ping,
			close:        lite.Close,
		}, nil
	}
}

func (s *Store) Backend() migration.Backend {
	return s.backend
}

// Migrate применяет встроенные миграции и возвращает версию схемы.
func (s *Store) Migrate() (uint, error) {
	return migration.NewMigration(s.backend, s.migrationURL, nil).Up()
}

// Ping проверяет, что база отвечает.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
