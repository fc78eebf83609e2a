package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"odosight/internal/erp"
	"odosight/internal/metrics"
)

// Sealer шифрует секреты перед записью в хранилище. Реализован vault.Vault.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(token string) (string, error)
}

type Servicer interface {
	Save(ctx context.Context, userID string, draft Draft) error
	Load(ctx context.Context, userID string) (Credentials, error)
	Exists(ctx context.Context, userID string) (bool, error)
	Forget(ctx context.Context, userID string) error
}

type Service struct {
	repo   Repository
	sealer Sealer
	log    *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, sealer Sealer, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		sealer: sealer,
		log:    log.With(slog.String("component", "settings")),
		now:    time.Now,
	}
}

// Save шифрует пароль и ключ AI и сохраняет запись пользователя.
func (s *Service) Save(ctx context.Context, userID string, draft Draft) error {
	encPassword, err := s.sealer.Seal(draft.Password)
	if err != nil {
		return fmt.Errorf("encrypt erp password: %w", err)
	}
	encAIKey, err := s.sealer.Seal(draft.AIKey)
	if err != nil {
		return fmt.Errorf("encrypt ai key: %w", err)
	}

	now := s.now().UTC()
	createdAt := now
	existing, err := s.repo.Get(ctx, userID)
	switch {
	case err == nil:
		createdAt = existing.CreatedAt
	case !errors.Is(err, ErrNotFound):
		return fmt.Errorf("get user config: %w", err)
	}

	cfg := UserConfig{
		UserID:            userID,
		ERPURL:            draft.URL,
		ERPDatabase:       draft.Database,
		ERPUsername:       draft.Username,
		EncryptedPassword: encPassword,
		EncryptedAIKey:    encAIKey,
		CreatedAt:         createdAt,
		UpdatedAt:         now,
	}
	if err := s.repo.Put(ctx, cfg); err != nil {
		return fmt.Errorf("put user config: %w", err)
	}

	s.log.Info("user config saved", slog.String("user_id", userID), slog.String("erp_url", draft.URL))
	return nil
}

// Load читает и расшифровывает учетные данные.
// Ошибки: ErrNotConfigured, vault.ErrDecryptionFailed или ошибка хранилища.
func (s *Service) Load(ctx context.Context, userID string) (Credentials, error) {
	cfg, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return Credentials{}, ErrNotConfigured
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("get user config: %w", err)
	}

	password, err := s.sealer.Open(cfg.EncryptedPassword)
	if err != nil {
		metrics.CredentialFailures.Inc()
		s.log.Warn("stored erp password cannot be decrypted", slog.String("user_id", userID))
		return Credentials{}, fmt.Errorf("erp password: %w", err)
	}
	aiKey, err := s.sealer.Open(cfg.EncryptedAIKey)
	if err != nil {
		metrics.CredentialFailures.Inc()
		s.log.Warn("stored ai key cannot be decrypted", slog.String("user_id", userID))
		return Credentials{}, fmt.Errorf("ai key: %w", err)
	}

	return Credentials{
		ERP: erp.Credentials{
			URL:      cfg.ERPURL,
			Database: cfg.ERPDatabase,
			Username: cfg.ERPUsername,
			Password: password,
		},
		AIKey: aiKey,
	}, nil
}

func (s *Service) Exists(ctx context.Context, userID string) (bool, error) {
	_, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Forget удаляет учетные данные пользователя.
func (s *Service) Forget(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user config: %w", err)
	}

	s.log.Info("user config deleted", slog.String("user_id", userID))
	return nil
}
