package domain

import "errors"

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionType is the direction of money movement.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two persisted types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single ledger entry. It always has exactly one owner;
// there is no global variant.
type Transaction struct {
	ID       int64           `json:"id"`
	Type     TransactionType `json:"type"`
	Category string          `json:"category"`
	Amount   float64         `json:"amount"`
	// Date is application-defined text; ordering is lexicographic.
	Date    string `json:"date"`
	Desc    string `json:"desc"`
	OwnerID int64  `json:"-"`
}

// Stats is the income/expense/balance aggregate for one user.
type Stats struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}
