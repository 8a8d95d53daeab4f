package ports

import (
	"context"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

// TransactionRepository defines persistence operations for ledger entries.
// Every read and delete is scoped to an owner in the query itself.
type TransactionRepository interface {
	// ListByOwner returns the owner's transactions ordered by date
	// descending, ties broken by id descending.
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Transaction, error)
	Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)
	// Delete removes the transaction only if it belongs to ownerID.
	// Absent and foreign ids both return domain.ErrTransactionNotFound.
	Delete(ctx context.Context, id, ownerID int64) error
}
