package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financas/internal/config"
)

func TestBackendType(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		assert.True(t, bt.IsValid(), bt.String())
	}
	assert.False(t, BackendType("sheets").IsValid())
	assert.Equal(t, []string{"memory", "sqlite", "postgres"}, GetBackendTypeStrings())
}

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	require.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "mongo"})
	require.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "postgres",
		DatabaseURL:  "postgres://localhost/financas",
		AMQPURL:      "amqp://localhost/",
		AMQPExchange: "financas",
		AMQPQueue:    "journal",
	})
	require.NoError(t, err)
	assert.Equal(t, PostgresBackend, cfg.Type)
	assert.Equal(t, "postgres://localhost/financas", cfg.DatabaseURL)
	assert.Equal(t, "journal", cfg.AMQPQueue)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"postgres without url", Config{Type: PostgresBackend}, true},
		{"unknown type", Config{Type: "sheets"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	ctx := context.Background()
	result, err := NewFactory(nil).CreateBackend(ctx, Config{Type: MemoryBackend})
	require.NoError(t, err)
	t.Cleanup(func() { _ = result.Cleanup() })

	assert.Nil(t, result.Publisher)
	require.NoError(t, result.Ready(ctx))

	methods, err := result.Store.ListPaymentMethods(ctx, false)
	require.NoError(t, err)
	assert.NotEmpty(t, methods)
}

func TestCreateSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "financas.db")

	result, err := NewFactory(nil).CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
	require.NoError(t, err)
	defer result.Cleanup()

	require.NoError(t, result.Ready(ctx))
	assert.Nil(t, result.Publisher)
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: PostgresBackend})
	require.Error(t, err)
}
