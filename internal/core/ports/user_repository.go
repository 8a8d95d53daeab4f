package ports

import (
	"context"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

// UserRepository defines the interface for identity persistence.
type UserRepository interface {
	// Create stores a new user and returns it with its assigned ID.
	// Returns domain.ErrUserExists when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByUsername is a case-sensitive exact lookup.
	// Returns domain.ErrUserNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
