package ports

import (
	"context"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	// ListVisible returns global categories plus those owned by userID.
	ListVisible(ctx context.Context, userID int64) ([]domain.Category, error)
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	// FindByID returns domain.ErrCategoryNotFound when absent.
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	// Delete returns domain.ErrCategoryNotFound when no row was removed.
	Delete(ctx context.Context, id int64) error
	// EverCreated reports whether any category was ever stored, including
	// ones deleted since.
	EverCreated(ctx context.Context) (bool, error)
}
