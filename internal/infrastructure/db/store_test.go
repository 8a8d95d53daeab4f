package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
	"github.com/ledgerbook/finance-tracker/internal/pkg/config"
)

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, config.StoreConfig{
		Backend:    config.BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "store.db"),
	}, config.MongoConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	assert.Equal(t, config.BackendSQLite, store.Backend)
	require.NoError(t, store.Ping(ctx))

	user, err := store.Users.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = store.Transactions.Create(ctx, &domain.Transaction{
		Type: domain.TypeIncome, Category: "Salary", Amount: 1, Date: "2024-01-01", OwnerID: user.ID,
	})
	require.NoError(t, err)

	created, err := store.Categories.EverCreated(ctx)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Backend: "csv"}, config.MongoConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown store backend "csv"`)
}
