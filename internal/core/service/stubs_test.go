package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ledgerbook/finance-tracker/internal/core/domain"
	"github.com/ledgerbook/finance-tracker/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users   map[string]*domain.User
	nextID  int64
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.users[stored.Username] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

type stubCategoryRepo struct {
	byID      map[int64]domain.Category
	nextID    int64
	createErr error
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{byID: make(map[int64]domain.Category)}
}

func (r *stubCategoryRepo) ListVisible(_ context.Context, userID int64) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range r.byID {
		if c.Owner.VisibleTo(userID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	stored := *c
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	return &stored, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubCategoryRepo) EverCreated(context.Context) (bool, error) {
	return r.nextID > 0, nil
}

// stubTxRepo mirrors the owner filter and ordering of the real stores.
type stubTxRepo struct {
	byID      map[int64]domain.Transaction
	nextID    int64
	createErr error
	listErr   error
}

func newStubTxRepo() *stubTxRepo {
	return &stubTxRepo{byID: make(map[int64]domain.Transaction)}
}

func (r *stubTxRepo) ListByOwner(_ context.Context, ownerID int64) ([]domain.Transaction, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []domain.Transaction
	for _, t := range r.byID {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *stubTxRepo) Create(_ context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	stored := *t
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	return &stored, nil
}

func (r *stubTxRepo) Delete(_ context.Context, id, ownerID int64) error {
	t, ok := r.byID[id]
	if !ok || t.OwnerID != ownerID {
		return domain.ErrTransactionNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
	saveErr  error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]string)}
}

func (s *stubSessionStore) Save(_ context.Context, sid, username string, _ time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = username
	return nil
}

func (s *stubSessionStore) Lookup(_ context.Context, sid string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.sessions[sid]
	if !ok {
		return "", ports.ErrSessionNotFound
	}
	return u, nil
}

func (s *stubSessionStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

type recordingActivity struct {
	events []domain.ActivityEvent
}

func (r *recordingActivity) Record(e domain.ActivityEvent) {
	r.events = append(r.events, e)
}
