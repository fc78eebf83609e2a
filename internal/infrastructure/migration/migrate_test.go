package migration

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMigrator - мок для интерфейса Migrator
type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMigrator) Version() (uint, bool, error) {
	args := m.Called()
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

func (m *MockMigrator) Close() (error, error) {
	args := m.Called()
	return args.Error(0), args.Error(1)
}

func engineFor(m Migrator) MigrationEngine {
	return func(src source.Driver, db string) (Migrator, error) {
		return m, nil
	}
}

func TestMigration_Up_Success(t *testing.T) {
	mockM := new(MockMigrator)

	mockM.On("Up").Return(nil)
	mockM.On("Version").Return(uint(1), false, nil)
	mockM.On("Close").Return(nil, nil)

	version, err := NewMigration(SQLite, "sqlite3://unused", engineFor(mockM)).Up()

	assert.NoError(t, err)
	assert.Equal(t, uint(1), version)
	mockM.AssertExpectations(t)
}

func TestMigration_Up_NoChange(t *testing.T) {
	mockM := new(MockMigrator)

	// ErrNoChange не должна считаться ошибкой в методе Up()
	mockM.On("Up").Return(migrate.ErrNoChange)
	mockM.On("Version").Return(uint(1), false, nil)
	mockM.On("Close").Return(nil, nil)

	_, err := NewMigration(Postgres, "postgres://unused", engineFor(mockM)).Up()

	assert.NoError(t, err)
	mockM.AssertExpectations(t)
}

func TestMigration_Up_Errors(t *testing.T) {
	upErr := errors.New("syntax error")
	closeErr := errors.New("close failed")

	mockM := new(MockMigrator)
	mockM.On("Up").Return(upErr)
	mockM.On("Close").Return(nil, closeErr)

	_, err := NewMigration(SQLite, "sqlite3://unused", engineFor(mockM)).Up()

	require.Error(t, err)
	assert.ErrorIs(t, err, upErr)
	assert.Contains(t, err.Error(), "close failed")
	mockM.AssertNotCalled(t, "Version")
}

func TestMigration_Up_Dirty(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(nil)
	mockM.On("Version").Return(uint(1), true, nil)
	mockM.On("Close").Return(nil, nil)

	_, err := NewMigration(SQLite, "sqlite3://unused", engineFor(mockM)).Up()
	assert.ErrorContains(t, err, "dirty")
}

func TestMigration_Up_EngineError(t *testing.T) {
	// Ошибка на этапе создания мигратора (например, неверный драйвер)
	engine := func(src source.Driver, db string) (Migrator, error) {
		return nil, errors.New("engine crash")
	}

	_, err := NewMigration(SQLite, "", engine).Up()

	assert.Error(t, err)
	assert.Equal(t, "engine crash", err.Error())
}

func TestSource(t *testing.T) {
	for _, b := range []Backend{SQLite, Postgres} {
		src, err := Source(b)
		require.NoError(t, err, b)

		first, err := src.First()
		require.NoError(t, err)
		assert.Equal(t, uint(1), first)
		require.NoError(t, src.Close())
	}

	_, err := Source("mysql")
	assert.Error(t, err)
}

func TestMigration_Up_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.db")
	mg := NewMigration(SQLite, "sqlite3://"+path, nil)

	version, err := mg.Up()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	// повторный запуск ничего не меняет
	version, err = mg.Up()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}
