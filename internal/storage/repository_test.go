package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financas/internal/storage/storetest"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "financas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepositoryContract(t *testing.T) {
	storetest.Run(t, newTestRepository(t))
}

func TestMigrationsSeedPaymentMethods(t *testing.T) {
	repo := newTestRepository(t)

	methods, err := repo.ListPaymentMethods(context.Background(), false)
	require.NoError(t, err)

	var names []string
	for _, m := range methods {
		names = append(names, m.Name)
	}
	assert.Contains(t, names, "Pix")
	assert.Contains(t, names, "Dinheiro")
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "financas.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	require.NoError(t, RunMigrations(path))
}

func TestMigrationVersionAndRollback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "financas.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	version, dirty, err := MigrationVersion(path)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)

	require.NoError(t, RollbackMigrations(path, 1))
	version, _, err = MigrationVersion(path)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	require.Error(t, RollbackMigrations(path, 0))
}
