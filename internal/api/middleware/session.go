package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
	"github.com/ledgerbook/finance-tracker/internal/core/ports"
)

const (
	userKey  = "user"
	tokenKey = "session_token"
)

// Session resolves the session token from the cookie named cookieName and
// the "Authorization: Bearer" header, in that order, and stores the first
// user that resolves in the echo context. A stale cookie therefore does not
// shadow a valid bearer token. It never rejects a request; RequireUser does
// that.
func Session(gate ports.Gate, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokens := candidateTokens(c, cookieName)
			for _, token := range tokens {
				if user, ok := gate.ResolveCurrentUser(c.Request().Context(), token); ok {
					c.Set(userKey, user)
					c.Set(tokenKey, token)
					return next(c)
				}
			}
			if len(tokens) > 0 {
				c.Set(tokenKey, tokens[0])
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user resolved by Session, if any.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userKey).(*domain.User)
	return user, ok && user != nil
}

// SessionToken returns the token that resolved, or the first token Session
// saw when none did.
func SessionToken(c echo.Context) string {
	token, _ := c.Get(tokenKey).(string)
	return token
}

func candidateTokens(c echo.Context, cookieName string) []string {
	var tokens []string
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		tokens = append(tokens, cookie.Value)
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		if token := strings.TrimSpace(parts[1]); token != "" && (len(tokens) == 0 || token != tokens[0]) {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
