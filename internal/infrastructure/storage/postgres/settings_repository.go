package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"odosight/internal/domain/settings"
)

var _ settings.Repository = (*SettingsRepository)(nil)

func NewSettingsRepository(pool *pgxpool.Pool, log *slog.Logger) *SettingsRepository {
	return &SettingsRepository{
		pool: pool,
		log:  log,
	}
}

type SettingsRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func (r *SettingsRepository) Get(ctx context.Context, userID string) (settings.UserConfig, error) {
	var cfg settings.UserConfig
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, erp_url, erp_database, erp_username,
		       encrypted_password, encrypted_ai_key, created_at, updated_at
		FROM user_configs WHERE user_id = $1`, userID).
		Scan(&cfg.UserID, &cfg.ERPURL, &cfg.ERPDatabase, &cfg.ERPUsername,
			&cfg.EncryptedPassword, &cfg.EncryptedAIKey, &cfg.CreatedAt, &cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return settings.UserConfig{}, settings.ErrNotFound
	}
	if err != nil {
		return settings.UserConfig{}, fmt.Errorf("select user config %s: %w", userID, err)
	}

	return cfg, nil
}

func (r *SettingsRepository) Put(ctx context.Context, cfg settings.UserConfig) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_configs (user_id, erp_url, erp_database, erp_username,
		                          encrypted_password, encrypted_ai_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			erp_url = EXCLUDED.erp_url,
			erp_database = EXCLUDED.erp_database,
			erp_username = EXCLUDED.erp_username,
			encrypted_password = EXCLUDED.encrypted_password,
			encrypted_ai_key = EXCLUDED.encrypted_ai_key,
			updated_at = EXCLUDED.updated_at`,
		cfg.UserID, cfg.ERPURL, cfg.ERPDatabase, cfg.ERPUsername,
		cfg.EncryptedPassword, cfg.EncryptedAIKey, cfg.CreatedAt, cfg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert user config %s: %w", cfg.UserID, err)
	}

	r.log.Debug("user config stored", slog.String("user_id", cfg.UserID))
	return nil
}

func (r *SettingsRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM user_configs WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user config %s: %w", userID, err)
	}
	return nil
}
