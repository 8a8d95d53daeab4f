package ports

import (
	"context"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

type CategoryService interface {
	ListVisible(ctx context.Context, user *domain.User) ([]domain.Category, error)
	Create(ctx context.Context, user *domain.User, name string) (*domain.Category, error)
	Delete(ctx context.Context, id int64, user *domain.User) error
	// SeedDefaults creates global categories on first startup only.
	SeedDefaults(ctx context.Context, names []string) (int, error)
}
