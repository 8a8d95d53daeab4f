package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
	"github.com/ledgerbook/finance-tracker/internal/core/ports"
)

const statsPlaces = 2

// StatsService is the aggregator. It recomputes from the ledger on every
// call; nothing is cached or maintained incrementally.
type StatsService struct {
	repo ports.TransactionRepository
}

func NewStatsService(repo ports.TransactionRepository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) ComputeStats(ctx context.Context, user *domain.User) (*domain.Stats, error) {
	txs, err := s.repo.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return aggregate(txs), nil
}

// aggregate sums in decimal to avoid float drift, then rounds each figure
// half away from zero to two places.
func aggregate(txs []domain.Transaction) *domain.Stats {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case domain.TypeIncome:
			income = income.Add(decimal.NewFromFloat(t.Amount))
		case domain.TypeExpense:
			expense = expense.Add(decimal.NewFromFloat(t.Amount))
		}
	}

	return &domain.Stats{
		Income:  income.Round(statsPlaces).InexactFloat64(),
		Expense: expense.Round(statsPlaces).InexactFloat64(),
		Balance: income.Sub(expense).Round(statsPlaces).InexactFloat64(),
	}
}
