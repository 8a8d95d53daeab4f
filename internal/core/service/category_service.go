package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
	"github.com/ledgerbook/finance-tracker/internal/core/ports"
)

// CategoryService is the category registry.
type CategoryService struct {
	repo ports.CategoryRepository
	// allowGlobalDelete lets any authenticated user delete global categories.
	allowGlobalDelete bool
	activity          ports.ActivityRecorder
	log               zerolog.Logger
}

func NewCategoryService(repo ports.CategoryRepository, allowGlobalDelete bool, activity ports.ActivityRecorder, log zerolog.Logger) *CategoryService {
	if activity == nil {
		activity = ports.NopActivityRecorder{}
	}
	return &CategoryService{repo: repo, allowGlobalDelete: allowGlobalDelete, activity: activity, log: log}
}

func (s *CategoryService) ListVisible(ctx context.Context, user *domain.User) ([]domain.Category, error) {
	return s.repo.ListVisible(ctx, user.ID)
}

func (s *CategoryService) Create(ctx context.Context, user *domain.User, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &domain.ValidationError{Fields: []string{"name"}, Reason: "name required"}
	}
	if utf8.RuneCountInString(name) > domain.MaxCategoryNameLen {
		return nil, &domain.ValidationError{Fields: []string{"name"}, Reason: "name too long"}
	}

	created, err := s.repo.Create(ctx, &domain.Category{Name: name, Owner: domain.OwnedBy(user.ID)})
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("failed to create category")
		return nil, err
	}

	s.activity.Record(domain.ActivityEvent{
		Kind:     domain.ActivityCategoryCreated,
		UserID:   user.ID,
		Username: user.Username,
		EntityID: created.ID,
		At:       time.Now().UTC(),
	})
	return created, nil
}

// Delete removes a category after the ownership check. Categories owned by
// another user are forbidden; global ones depend on allowGlobalDelete.
func (s *CategoryService) Delete(ctx context.Context, id int64, user *domain.User) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !c.Owner.CanBeModifiedBy(user.ID) {
		return domain.ErrForbidden
	}
	if c.Owner.IsGlobal() && !s.allowGlobalDelete {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("category_id", id).Int64("user_id", user.ID).Bool("global", c.Owner.IsGlobal()).Msg("category deleted")
	s.activity.Record(domain.ActivityEvent{
		Kind:     domain.ActivityCategoryDeleted,
		UserID:   user.ID,
		Username: user.Username,
		EntityID: id,
		At:       time.Now().UTC(),
	})
	return nil
}

// SeedDefaults inserts names as global categories, but only into a store
// that has never held a category. Deleting every category does not bring
// the defaults back. It returns how many categories were created.
func (s *CategoryService) SeedDefaults(ctx context.Context, names []string) (int, error) {
	created, err := s.repo.EverCreated(ctx)
	if err != nil {
		return 0, err
	}
	if created {
		return 0, nil
	}

	seeded := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := s.repo.Create(ctx, &domain.Category{Name: name, Owner: domain.GlobalOwner()}); err != nil {
			return seeded, err
		}
		seeded++
	}

	if seeded > 0 {
		s.log.Info().Int("count", seeded).Msg("seeded global categories")
	}
	return seeded, nil
}
