package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
	"github.com/ledgerbook/finance-tracker/internal/core/ports"
)

const maxUsernameLen = 80

// dummyHash is compared against when a username does not exist, so a
// failed login costs one bcrypt comparison either way.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return h
})

// AuthService implements signup, credential checks and the session lifecycle.
type AuthService struct {
	users    ports.UserRepository
	gate     *SessionGate
	activity ports.ActivityRecorder
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, gate *SessionGate, activity ports.ActivityRecorder, log zerolog.Logger) *AuthService {
	if activity == nil {
		activity = ports.NopActivityRecorder{}
	}
	return &AuthService{users: users, gate: gate, activity: activity, log: log}
}

// Signup creates a user. Username and password are trimmed first.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, &domain.ValidationError{Fields: []string{"username", "password"}, Reason: "username and password required"}
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return nil, &domain.ValidationError{Fields: []string{"username"}, Reason: "username too long"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &domain.ValidationError{Fields: []string{"password"}, Reason: "password too long"}
		}
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Int64("user_id", created.ID).Msg("user signed up")
	s.activity.Record(domain.ActivityEvent{
		Kind:     domain.ActivityUserSignedUp,
		UserID:   created.ID,
		Username: created.Username,
		EntityID: created.ID,
		At:       created.CreatedAt,
	})
	return created, nil
}

// VerifyCredentials returns domain.ErrInvalidCredentials for both an unknown
// username and a wrong password.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Login verifies credentials and starts a new session.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.gate.Issue(ctx, user.Username)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("username", user.Username).Msg("user logged in")
	return token, user, nil
}

// Logout revokes the session behind token. Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.gate.Revoke(ctx, token)
}
