package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
	"github.com/ledgerbook/finance-tracker/internal/core/ports"
)

// TransactionService is the per-user ledger.
type TransactionService struct {
	repo     ports.TransactionRepository
	activity ports.ActivityRecorder
	log      zerolog.Logger
}

func NewTransactionService(repo ports.TransactionRepository, activity ports.ActivityRecorder, log zerolog.Logger) *TransactionService {
	if activity == nil {
		activity = ports.NopActivityRecorder{}
	}
	return &TransactionService{repo: repo, activity: activity, log: log}
}

// List returns the user's transactions, newest date first.
func (s *TransactionService) List(ctx context.Context, user *domain.User) ([]domain.Transaction, error) {
	return s.repo.ListByOwner(ctx, user.ID)
}

// Create validates input and stores a transaction owned by user.
func (s *TransactionService) Create(ctx context.Context, user *domain.User, in ports.CreateTransactionInput) (*domain.Transaction, error) {
	t, err := newTransaction(user.ID, in)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to create transaction")
		return nil, err
	}

	s.log.Info().
		Int64("transaction_id", created.ID).
		Int64("user_id", user.ID).
		Str("type", string(created.Type)).
		Msg("transaction created")
	s.activity.Record(domain.ActivityEvent{
		Kind:     domain.ActivityTransactionCreated,
		UserID:   user.ID,
		Username: user.Username,
		EntityID: created.ID,
		At:       time.Now().UTC(),
	})
	return created, nil
}

// Delete removes one of the user's transactions. Someone else's id looks
// exactly like a missing one.
func (s *TransactionService) Delete(ctx context.Context, id int64, user *domain.User) error {
	if err := s.repo.Delete(ctx, id, user.ID); err != nil {
		return err
	}

	s.activity.Record(domain.ActivityEvent{
		Kind:     domain.ActivityTransactionDeleted,
		UserID:   user.ID,
		Username: user.Username,
		EntityID: id,
		At:       time.Now().UTC(),
	})
	return nil
}

// newTransaction collects every invalid field into a single ValidationError.
// Type must match exactly; only the amount is parsed leniently.
func newTransaction(ownerID int64, in ports.CreateTransactionInput) (*domain.Transaction, error) {
	var invalid []string

	amount, err := parseAmount(in.Amount)
	if err != nil {
		invalid = append(invalid, "amount")
	}

	typ := domain.TransactionType(in.Type)
	if !typ.Valid() {
		invalid = append(invalid, "type")
	}

	// Category and date are stored as sent; blank-only values are missing.
	if strings.TrimSpace(in.Category) == "" {
		invalid = append(invalid, "category")
	}
	if strings.TrimSpace(in.Date) == "" {
		invalid = append(invalid, "date")
	}

	if len(invalid) > 0 {
		return nil, domain.NewValidationError(invalid...)
	}

	return &domain.Transaction{
		Type:     typ,
		Category: in.Category,
		Amount:   amount,
		Date:     in.Date,
		Desc:     in.Desc,
		OwnerID:  ownerID,
	}, nil
}

// parseAmount accepts any finite decimal number.
func parseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}
