package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
	"github.com/ledgerbook/finance-tracker/internal/core/ports"
)

const defaultSessionLifetime = 7 * 24 * time.Hour

var errMalformedSession = errors.New("malformed session token")

// SessionGate issues, resolves and revokes session tokens.
//
// A token is an HS256 JWT carrying the username (sub), a session id (jti)
// and an absolute expiry. The session id must also be present in the
// SessionStore, which is what makes logout effective before expiry.
type SessionGate struct {
	users    ports.UserRepository
	store    ports.SessionStore
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewSessionGate(users ports.UserRepository, store ports.SessionStore, secret string, lifetime time.Duration, log zerolog.Logger) *SessionGate {
	if lifetime <= 0 {
		lifetime = defaultSessionLifetime
	}
	return &SessionGate{
		users:    users,
		store:    store,
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
		log:      log,
	}
}

// Lifetime is the absolute validity of tokens issued by this gate.
func (g *SessionGate) Lifetime() time.Duration { return g.lifetime }

// Issue starts a new session for username and returns its token.
func (g *SessionGate) Issue(ctx context.Context, username string) (string, error) {
	now := g.now()
	sid := uuid.NewString()

	claims := jwt.RegisteredClaims{
		Subject:   username,
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.lifetime)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}

	if err := g.store.Save(ctx, sid, username, g.lifetime); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return token, nil
}

// ResolveCurrentUser maps a token to its user. Any failure (missing,
// malformed, expired, revoked, unknown user, store outage) yields none.
func (g *SessionGate) ResolveCurrentUser(ctx context.Context, token string) (*domain.User, bool) {
	if token == "" {
		return nil, false
	}

	claims, err := g.parse(token)
	if err != nil {
		return nil, false
	}

	username, err := g.store.Lookup(ctx, claims.ID)
	if err != nil {
		if !errors.Is(err, ports.ErrSessionNotFound) {
			g.log.Warn().Err(err).Msg("session lookup failed")
		}
		return nil, false
	}
	if username != claims.Subject {
		return nil, false
	}

	user, err := g.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			g.log.Warn().Err(err).Str("username", username).Msg("user lookup failed")
		}
		return nil, false
	}
	return user, true
}

// RequireUser is ResolveCurrentUser that fails closed.
func (g *SessionGate) RequireUser(ctx context.Context, token string) (*domain.User, error) {
	user, ok := g.ResolveCurrentUser(ctx, token)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	return user, nil
}

// Revoke removes the server-side session named by token. Expired tokens are
// still accepted here so a stale cookie can be cleaned up.
func (g *SessionGate) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, g.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || claims.ID == "" {
		return nil
	}
	return g.store.Delete(ctx, claims.ID)
}

func (g *SessionGate) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, g.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || !tkn.Valid {
		return nil, errMalformedSession
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, errMalformedSession
	}
	return claims, nil
}

func (g *SessionGate) keyFunc(*jwt.Token) (interface{}, error) {
	return g.secret, nil
}
