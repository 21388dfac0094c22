package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/ports"
	"financas/internal/services"
	"financas/internal/storage"
	"financas/internal/storage/memory"
	"financas/internal/storage/postgres"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

type closer interface {
	Close() error
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store ports.Store
		err   error
	)
	switch config.Type {
	case SQLiteBackend:
		store, err = f.createSQLiteStore(config)
	case PostgresBackend:
		store, err = f.createPostgresStore(config)
	case MemoryBackend:
		store, err = f.createMemoryStore(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	result := &BackendResult{Store: store}
	closers := []closer{store}

	if client := f.connectAMQP(config); client != nil {
		result.Publisher = client
		closers = append([]closer{client}, closers...)
	}

	result.Cleanup = func() error {
		var errs []error
		for _, c := range closers {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteStore(config Config) (ports.Store, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return repo, nil
}

func (f *DefaultFactory) createPostgresStore(config Config) (ports.Store, error) {
	store, err := postgres.Open(config.DatabaseURL, true)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres store: %w", err)
	}
	f.logger.Info("Initialized Postgres backend")
	return store, nil
}

// createMemoryStore seeds the default payment methods, matching what the
// SQLite migrations ship with.
func (f *DefaultFactory) createMemoryStore(ctx context.Context) (ports.Store, error) {
	store := memory.New()
	added, err := services.NewPaymentMethodService(store, nil).Seed(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed payment methods: %w", err)
	}
	f.logger.Info("Initialized memory backend", "payment_methods", added)
	return store, nil
}

// connectAMQP returns nil when publishing is off or the broker is down; the
// server keeps working without the journal.
func (f *DefaultFactory) connectAMQP(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}
