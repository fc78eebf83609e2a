package settings

import "context"

type Repository interface {
	// Get возвращает ErrNotFound, если записи нет.
	Get(ctx context.Context, userID string) (UserConfig, error)
	Put(ctx context.Context, cfg UserConfig) error
	Delete(ctx context.Context, userID string) error
}
