package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/docquery-auth/internal/domain"
)

// memoryUserRepository keeps accounts in process memory. The mutex makes the
// email uniqueness check and the insert a single atomic step.
type memoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
	now     func() time.Time
}

// NewMemoryUserRepository returns an in-process store for development and tests.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return fmt.Errorf("create user: %w", ErrDuplicateEmail)
	}

	user.ID = uuid.NewString()
	user.CreatedAt = r.now().UTC()

	stored := *user
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", ErrNotFound)
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("get user by email: %w", ErrNotFound)
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *memoryUserRepository) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	r.mu.RLock()
	users := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, *u)
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	if offset >= len(users) {
		return []domain.User{}, nil
	}
	end := len(users)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return users[offset:end], nil
}
