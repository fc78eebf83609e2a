package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"odosight/internal/domain/settings"
)

var _ settings.Repository = (*SettingsRepository)(nil)

type SettingsRepository struct {
	db  *sql.DB
	log *slog.Logger
}

func NewSettingsRepository(db *sql.DB, log *slog.Logger) *SettingsRepository {
	return &SettingsRepository{
		db:  db,
		log: log,
	}
}

func (r *SettingsRepository) Get(ctx context.Context, userID string) (settings.UserConfig, error) {
	var cfg settings.UserConfig
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, erp_url, erp_database, erp_username,
		       encrypted_password, encrypted_ai_key, created_at, updated_at
		FROM user_configs WHERE user_id = ?`, userID).
		Scan(&cfg.UserID, &cfg.ERPURL, &cfg.ERPDatabase, &cfg.ERPUsername,
			&cfg.EncryptedPassword, &cfg.EncryptedAIKey, &cfg.CreatedAt, &cfg.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.UserConfig{}, settings.ErrNotFound
	}
	if err != nil {
		return settings.UserConfig{}, fmt.Errorf("select user config %s: %w", userID, err)
	}

	return cfg, nil
}

// Put вставляет или перезаписывает запись; created_at существующей записи не меняется.
func (r *SettingsRepository) Put(ctx context.Context, cfg settings.UserConfig) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_configs (user_id, erp_url, erp_database, erp_username,
		                          encrypted_password, encrypted_ai_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			erp_url = excluded.erp_url,
			erp_database = excluded.erp_database,
			erp_username = excluded.erp_username,
			encrypted_password = excluded.encrypted_password,
			encrypted_ai_key = excluded.encrypted_ai_key,
			updated_at = excluded.updated_at`,
		cfg.UserID, cfg.ERPURL, cfg.ERPDatabase, cfg.ERPUsername,
		cfg.EncryptedPassword, cfg.EncryptedAIKey, cfg.CreatedAt.UTC(), cfg.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("upsert user config %s: %w", cfg.UserID, err)
	}

	r.log.Debug("user config stored", slog.String("user_id", cfg.UserID))
	return nil
}

func (r *SettingsRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_configs WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete user config %s: %w", userID, err)
	}
	return nil
}
