package ports

import (
	"context"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

// CreateTransactionInput is the DTO passed from the transport layer to
// TransactionService. Amount is raw text; the service parses it.
type CreateTransactionInput struct {
	Type     string
	Category string
	Amount   string
	Date     string
	Desc     string
}

type TransactionService interface {
	List(ctx context.Context, user *domain.User) ([]domain.Transaction, error)
	Create(ctx context.Context, user *domain.User, in CreateTransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, id int64, user *domain.User) error
}

// StatsService computes per-user aggregates.
type StatsService interface {
	ComputeStats(ctx context.Context, user *domain.User) (*domain.Stats, error)
}
