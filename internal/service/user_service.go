package service

import (
	"context"
	"errors"

	"github.com/spec-kit/docquery-auth/internal/domain"
	"github.com/spec-kit/docquery-auth/internal/repository"
	apperrors "github.com/spec-kit/docquery-auth/pkg/util"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// UserService serves read-only account views for the dashboards.
type UserService struct {
	users repository.UserRepository
}

// NewUserService creates the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Profile returns the account behind an authenticated principal.
func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// ListUsers returns one page of accounts in creation order.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}
