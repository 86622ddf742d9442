package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/docquery-auth/internal/auth"
	"github.com/spec-kit/docquery-auth/internal/domain"
	"github.com/spec-kit/docquery-auth/internal/events"
	"github.com/spec-kit/docquery-auth/internal/repository"
	apperrors "github.com/spec-kit/docquery-auth/pkg/util"
)

var (
	ErrMissingFields      = apperrors.NewValidationError("All fields are required")
	ErrPasswordTooLong    = apperrors.NewValidationError("Password must be at most 72 bytes")
	ErrUserExists         = apperrors.NewConflict("User already exists")
	ErrUserNotFound       = apperrors.NewNotFound("User does not exist")
	ErrInvalidCredentials = apperrors.NewInvalidCredentials("Invalid credentials")
)

// SignInResult is returned on a successful sign-in.
type SignInResult struct {
	User      *domain.User
	Token     string
	Role      domain.Role
	ExpiresAt time.Time
}

// AuthService coordinates registration, sign-in and sign-out.
type AuthService struct {
	users      repository.UserRepository
	revoked    repository.TokenDenylist
	hasher     *auth.PasswordHasher
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Denylist   repository.TokenDenylist
	Hasher     *auth.PasswordHasher
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		revoked:    deps.Denylist,
		hasher:     deps.Hasher,
		tokenMgr:   deps.Tokens,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Register creates a new account with the user role. No token is issued;
// callers sign in separately.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if blank(name) || blank(email) || password == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(fmt.Errorf("lookup user: %w", err))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// the unique index decides races the lookup above cannot see
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered, user, events.AccountPayload{Email: user.Email}))
	return user, nil
}

// SignIn verifies credentials and issues a token carrying the user's id and role.
// Unknown emails and wrong passwords are reported as distinct errors.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	if blank(email) || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperrors.NewInternalError(fmt.Errorf("lookup user: %w", err))
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokenMgr.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserSignedIn, user, events.SessionPayload{ExpiresAt: exp}))
	return &SignInResult{User: user, Token: token, Role: user.Role, ExpiresAt: exp}, nil
}

// SignOut revokes the caller's token for the rest of its lifetime.
func (s *AuthService) SignOut(ctx context.Context, principal *domain.Principal) error {
	if principal == nil || principal.TokenID == "" {
		return apperrors.NewUnauthorized("Authentication required")
	}

	ttl := time.Until(principal.ExpiresAt)
	if s.revoked != nil && ttl > 0 {
		if err := s.revoked.Revoke(ctx, principal.TokenID, ttl); err != nil {
			return apperrors.NewInternalError(err)
		}
	}

	s.publish(ctx, events.NewEvent(events.EventUserSignedOut,
		&domain.User{ID: principal.UserID, Role: principal.Role},
		events.SessionPayload{TokenID: principal.TokenID, ExpiresAt: principal.ExpiresAt}))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
