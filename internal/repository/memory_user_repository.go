package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dirkit/user-directory/internal/domain"
)

type memoryUserRepository struct {
	mu         sync.RWMutex
	byID       map[string]*domain.User
	byUsername map[string]string
	order      []string
}

// NewMemoryUserRepository returns a process-local store. It backs the
// service when no database is configured.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:       make(map[string]*domain.User),
		byUsername: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		return ErrDuplicateUsername
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.byID[user.ID] = &stored
	r.byUsername[user.Username] = user.ID
	r.order = append(r.order, user.ID)
	return nil
}

func (r *memoryUserRepository) Update(_ context.Context, id string, patch domain.UserPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	patch.Apply(user)
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (r *memoryUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	id, ok := r.byUsername[username]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *memoryUserRepository) Search(_ context.Context, filter string) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0)
	for _, id := range r.order {
		user := r.byID[id]
		if strings.Contains(user.FirstName, filter) || strings.Contains(user.LastName, filter) {
			users = append(users, *user)
		}
	}
	return users, nil
}
