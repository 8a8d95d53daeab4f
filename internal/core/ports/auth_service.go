package ports

import (
	"context"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

// AuthService covers the identity store and session lifecycle.
type AuthService interface {
	Signup(ctx context.Context, username, password string) (*domain.User, error)
	VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error)
	// Login verifies credentials and issues a fresh session token.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Logout(ctx context.Context, token string) error
}

// Gate resolves session tokens to users.
type Gate interface {
	// ResolveCurrentUser never fails; an unusable token yields (nil, false).
	ResolveCurrentUser(ctx context.Context, token string) (*domain.User, bool)
	// RequireUser returns domain.ErrNotAuthenticated when resolution fails.
	RequireUser(ctx context.Context, token string) (*domain.User, error)
}
