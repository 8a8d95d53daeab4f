package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

func TestStatsService_Scenario(t *testing.T) {
	repo := newStubTxRepo()
	_, _ = repo.Create(context.Background(), &domain.Transaction{
		Type: domain.TypeIncome, Category: "Salary", Amount: 1000.5, Date: "2024-01-01", OwnerID: alice.ID,
	})

	stats, err := NewStatsService(repo).ComputeStats(context.Background(), alice)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := domain.Stats{Income: 1000.5, Expense: 0, Balance: 1000.5}
	if *stats != want {
		t.Fatalf("want %+v, got %+v", want, *stats)
	}
}

func TestStatsService_ExcludesOtherUsers(t *testing.T) {
	repo := newStubTxRepo()
	ctx := context.Background()
	add := func(owner int64, typ domain.TransactionType, amount float64) {
		_, _ = repo.Create(ctx, &domain.Transaction{Type: typ, Category: "c", Amount: amount, Date: "2024-01-01", OwnerID: owner})
	}
	add(alice.ID, domain.TypeIncome, 100)
	add(alice.ID, domain.TypeExpense, 30.25)
	add(bob.ID, domain.TypeIncome, 5000)
	add(bob.ID, domain.TypeExpense, 1)

	stats, err := NewStatsService(repo).ComputeStats(ctx, alice)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Income != 100 || stats.Expense != 30.25 || stats.Balance != 69.75 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Balance != stats.Income-stats.Expense {
		t.Fatalf("balance must equal income - expense: %+v", stats)
	}
}

func TestAggregate_DecimalSumAndRounding(t *testing.T) {
	cases := []struct {
		name string
		txs  []domain.Transaction
		want domain.Stats
	}{
		{
			name: "empty ledger",
			want: domain.Stats{},
		},
		{
			name: "float drift is absorbed",
			txs: []domain.Transaction{
				{Type: domain.TypeIncome, Amount: 0.1},
				{Type: domain.TypeIncome, Amount: 0.2},
			},
			want: domain.Stats{Income: 0.3, Balance: 0.3},
		},
		{
			name: "half-up rounding",
			txs: []domain.Transaction{
				{Type: domain.TypeIncome, Amount: 2.675},
				{Type: domain.TypeExpense, Amount: 1.005},
			},
			want: domain.Stats{Income: 2.68, Expense: 1.01, Balance: 1.67},
		},
		{
			name: "negative balance",
			txs: []domain.Transaction{
				{Type: domain.TypeIncome, Amount: 10},
				{Type: domain.TypeExpense, Amount: 25.5},
			},
			want: domain.Stats{Income: 10, Expense: 25.5, Balance: -15.5},
		},
	}

	for _, tc := range cases {
		got := aggregate(tc.txs)
		if *got != tc.want {
			t.Errorf("%s: want %+v, got %+v", tc.name, tc.want, *got)
		}
	}
}

func TestStatsService_RepoError(t *testing.T) {
	repo := newStubTxRepo()
	repo.listErr = errors.New("db down")

	if _, err := NewStatsService(repo).ComputeStats(context.Background(), alice); err == nil {
		t.Fatal("expected error")
	}
}
