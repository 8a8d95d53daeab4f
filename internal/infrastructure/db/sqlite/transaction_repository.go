package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, category, amount, date, description, user_id
		   FROM transactions
		  WHERE user_id = ?
		  ORDER BY date DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			t   domain.Transaction
			typ string
		)
		if err := rows.Scan(&t.ID, &typ, &t.Category, &t.Amount, &t.Date, &t.Desc, &t.OwnerID); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = domain.TransactionType(typ)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (type, category, amount, date, description, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		string(t.Type), t.Category, t.Amount, t.Date, t.Desc, t.OwnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("transaction id: %w", err)
	}

	created := *t
	created.ID = id
	return &created, nil
}

// Delete matches on id and owner in one statement so a foreign id is
// indistinguishable from a missing one.
func (r *TransactionRepository) Delete(ctx context.Context, id, ownerID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}
