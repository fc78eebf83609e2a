package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"odosight/internal/vault"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Get(ctx context.Context, userID string) (UserConfig, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(UserConfig), args.Error(1)
}

func (m *MockRepository) Put(ctx context.Context, cfg UserConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// memRepository хранит записи в памяти для сквозных сценариев
type memRepository struct {
	items map[string]UserConfig
}

func (r *memRepository) Get(_ context.Context, userID string) (UserConfig, error) {
	cfg, ok := r.items[userID]
	if !ok {
		return UserConfig{}, ErrNotFound
	}
	return cfg, nil
}

func (r *memRepository) Put(_ context.Context, cfg UserConfig) error {
	r.items[cfg.UserID] = cfg
	return nil
}

func (r *memRepository) Delete(_ context.Context, userID string) error {
	delete(r.items, userID)
	return nil
}

var testDraft = Draft{
	URL:      "https://company.odoo.com",
	Database: "company",
	Username: "cfo@company.com",
	Password: "erp-secret",
	AIKey:    "AIza-secret",
}

func newTestVault(t *testing.T, passphrase string) *vault.Vault {
	t.Helper()
	v, err := vault.New(passphrase, vault.WithIterations(1000))
	require.NoError(t, err)
	return v
}

func TestService_SaveAndLoad(t *testing.T) {
	repo := &memRepository{items: map[string]UserConfig{}}
	service := NewService(repo, newTestVault(t, "correct-horse"), slog.Default())
	ctx := context.Background()

	require.NoError(t, service.Save(ctx, "42", testDraft))

	stored := repo.items["42"]
	assert.NotEqual(t, testDraft.Password, stored.EncryptedPassword)
	assert.NotEqual(t, testDraft.AIKey, stored.EncryptedAIKey)
	assert.Equal(t, testDraft.URL, stored.ERPURL)
	assert.False(t, stored.CreatedAt.IsZero())

	creds, err := service.Load(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, testDraft.Password, creds.ERP.Password)
	assert.Equal(t, testDraft.Username, creds.ERP.Username)
	assert.Equal(t, testDraft.Database, creds.ERP.Database)
	assert.Equal(t, testDraft.AIKey, creds.AIKey)

	ok, err := service.Exists(ctx, "42")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_SaveKeepsCreatedAt(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := &memRepository{items: map[string]UserConfig{
		"42": {UserID: "42", CreatedAt: created},
	}}
	service := NewService(repo, newTestVault(t, "p"), slog.Default())

	require.NoError(t, service.Save(context.Background(), "42", testDraft))
	assert.Equal(t, created, repo.items["42"].CreatedAt)
	assert.True(t, repo.items["42"].UpdatedAt.After(created))
}

func TestService_LoadNotConfigured(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, newTestVault(t, "p"), slog.Default())

	mockRepo.On("Get", mock.Anything, "7").Return(UserConfig{}, ErrNotFound)

	_, err := service.Load(context.Background(), "7")
	assert.ErrorIs(t, err, ErrNotConfigured)

	mockRepo.AssertExpectations(t)
}

func TestService_LoadWrongPassphrase(t *testing.T) {
	repo := &memRepository{items: map[string]UserConfig{}}
	ctx := context.Background()

	require.NoError(t, NewService(repo, newTestVault(t, "correct-horse"), slog.Default()).Save(ctx, "42", testDraft))

	_, err := NewService(repo, newTestVault(t, "wrong-horse"), slog.Default()).Load(ctx, "42")
	assert.ErrorIs(t, err, vault.ErrDecryptionFailed)
}

func TestService_RepositoryErrors(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, newTestVault(t, "p"), slog.Default())
	ctx := context.Background()
	dbErr := errors.New("database error")

	mockRepo.On("Get", mock.Anything, "1").Return(UserConfig{}, dbErr)
	mockRepo.On("Delete", mock.Anything, "1").Return(dbErr)

	_, err := service.Load(ctx, "1")
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrNotConfigured)

	err = service.Save(ctx, "1", testDraft)
	assert.ErrorIs(t, err, dbErr)

	_, err = service.Exists(ctx, "1")
	assert.ErrorIs(t, err, dbErr)

	err = service.Forget(ctx, "1")
	assert.ErrorIs(t, err, dbErr)

	mockRepo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestService_Forget(t *testing.T) {
	repo := &memRepository{items: map[string]UserConfig{"42": {UserID: "42"}}}
	service := NewService(repo, newTestVault(t, "p"), slog.Default())
	ctx := context.Background()

	require.NoError(t, service.Forget(ctx, "42"))

	ok, err := service.Exists(ctx, "42")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = service.Load(ctx, "42")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
