package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
)

// RequireUser rejects requests that Session could not attach a user to.
// The error handler renders domain.ErrNotAuthenticated as 401.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); !ok {
				return domain.ErrNotAuthenticated
			}
			return next(c)
		}
	}
}
