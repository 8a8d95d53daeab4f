// Package db selects and opens the persistent store behind the repositories.
package db

import (
	"context"
	"fmt"

	"github.com/ledgerbook/finance-tracker/internal/core/ports"
	"github.com/ledgerbook/finance-tracker/internal/infrastructure/db/mongo"
	"github.com/ledgerbook/finance-tracker/internal/infrastructure/db/sqlite"
	"github.com/ledgerbook/finance-tracker/internal/pkg/config"
)

// Store bundles the repositories of one backend with its health check.
type Store struct {
	Backend      string
	Users        ports.UserRepository
	Categories   ports.CategoryRepository
	Transactions ports.TransactionRepository

	ping  func(context.Context) error
	close func(context.Context) error
}

// Open connects the backend named by store.Backend. The SQLite backend is
// migrated on open; the Mongo backend gets its indexes ensured.
func Open(ctx context.Context, store config.StoreConfig, mongoCfg config.MongoConfig) (*Store, error) {
	switch store.Backend {
	case config.BackendSQLite:
		conn, err := sqlite.Connect(ctx, sqlite.Config{Path: store.SQLitePath})
		if err != nil {
			return nil, err
		}
		return &Store{
			Backend:      store.Backend,
			Users:        sqlite.NewUserRepository(conn),
			Categories:   sqlite.NewCategoryRepository(conn),
			Transactions: sqlite.NewTransactionRepository(conn),
			ping:         conn.PingContext,
			close:        func(context.Context) error { return conn.Close() },
		}, nil

	case config.BackendMongo:
		client, database, err := mongo.Connect(ctx, mongo.Config{URI: mongoCfg.URI, Database: mongoCfg.Database})
		if err != nil {
			return nil, err
		}

		users := mongo.NewUserRepository(database)
		categories := mongo.NewCategoryRepository(database)
		transactions := mongo.NewTransactionRepository(database)

		for _, idx := range []interface{ EnsureIndexes(context.Context) error }{users, categories, transactions} {
			if err := idx.EnsureIndexes(ctx); err != nil {
				_ = client.Disconnect(ctx)
				return nil, err
			}
		}

		return &Store{
			Backend:      store.Backend,
			Users:        users,
			Categories:   categories,
			Transactions: transactions,
			ping:         func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:        client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", store.Backend)
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}
