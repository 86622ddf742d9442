package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/docquery-auth/internal/auth"
	"github.com/spec-kit/docquery-auth/internal/domain"
	"github.com/spec-kit/docquery-auth/internal/events"
	"github.com/spec-kit/docquery-auth/internal/repository"
	apperrors "github.com/spec-kit/docquery-auth/pkg/util"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func newHasher(t *testing.T) *auth.PasswordHasher {
	t.Helper()
	h, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func newTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager("test-secret")
	require.NoError(t, err)
	return tm
}

func newAuthService(t *testing.T, users repository.UserRepository, denylist repository.TokenDenylist, dispatcher events.Dispatcher) *AuthService {
	t.Helper()
	return NewAuthService(AuthDependencies{
		UserRepo:   users,
		Denylist:   denylist,
		Hasher:     newHasher(t),
		Tokens:     newTokens(t),
		Dispatcher: dispatcher,
	})
}

func TestAuthService_Register(t *testing.T) {
	svc := newAuthService(t, repository.NewMemoryUserRepository(), nil, nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, "admin", "a@x.com", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "admin123", user.PasswordHash)

	_, err = svc.Register(ctx, "admin", "a@x.com", "admin123")
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Equal(t, "User already exists", apperrors.ToDomainError(err).Message)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newAuthService(t, repository.NewMemoryUserRepository(), nil, nil)

	cases := []struct {
		name, email, password string
	}{
		{"", "a@x.com", "pw"},
		{"n", "", "pw"},
		{"n", "a@x.com", ""},
		{"   ", "a@x.com", "pw"},
	}
	for _, tc := range cases {
		_, err := svc.Register(context.Background(), tc.name, tc.email, tc.password)
		assert.ErrorIs(t, err, ErrMissingFields, "%+v", tc)
	}

	_, err := svc.Register(context.Background(), "n", "long@x.com", strings.Repeat("p", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestAuthService_RegisterStoreConflictIsAuthoritative(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "race@x.com").Return(nil, repository.ErrNotFound)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Return(repository.ErrDuplicateEmail)

	svc := newAuthService(t, users, nil, nil)
	_, err := svc.Register(context.Background(), "n", "race@x.com", "pw")
	assert.ErrorIs(t, err, ErrUserExists)
	users.AssertExpectations(t)
}

func TestAuthService_RegisterInfrastructureError(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("connection reset"))

	svc := newAuthService(t, users, nil, nil)
	_, err := svc.Register(context.Background(), "n", "a@x.com", "pw")
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeInternal, domainErr.Code)
	assert.NotContains(t, domainErr.Message, "connection reset")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_SignIn(t *testing.T) {
	svc := newAuthService(t, repository.NewMemoryUserRepository(), nil, nil)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "admin", "a@x.com", "admin123")
	require.NoError(t, err)

	result, err := svc.SignIn(ctx, "a@x.com", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, domain.RoleUser, result.Role)
	assert.WithinDuration(t, time.Now().Add(auth.TokenTTL), result.ExpiresAt, time.Minute)

	claims, err := svc.TokenManager().Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestAuthService_SignInFailures(t *testing.T) {
	svc := newAuthService(t, repository.NewMemoryUserRepository(), nil, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "n", "a@x.com", "admin123")
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Invalid credentials", apperrors.ToDomainError(err).Message)

	_, err = svc.SignIn(ctx, "nobody@x.com", "admin123")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, "User does not exist", apperrors.ToDomainError(err).Message)

	_, err = svc.SignIn(ctx, "", "admin123")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.SignIn(ctx, "a@x.com", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestAuthService_SignInReturnsSeededAdminRole(t *testing.T) {
	users := repository.NewMemoryUserRepository()
	hasher := newHasher(t)
	digest, err := hasher.Hash("admin123")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &domain.User{
		Name: "admin", Email: "root@x.com", PasswordHash: digest, Role: domain.RoleAdmin,
	}))

	svc := newAuthService(t, users, nil, nil)
	result, err := svc.SignIn(context.Background(), "root@x.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, result.Role)
}

func TestAuthService_SignOutRevokesToken(t *testing.T) {
	denylist := repository.NewMemoryTokenDenylist()
	svc := newAuthService(t, repository.NewMemoryUserRepository(), denylist, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "n", "a@x.com", "pw")
	require.NoError(t, err)
	result, err := svc.SignIn(ctx, "a@x.com", "pw")
	require.NoError(t, err)

	claims, err := svc.TokenManager().Parse(result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, claims.Principal()))

	revoked, err := denylist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	err = svc.SignOut(ctx, nil)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.ToDomainError(err).Code)
}

func TestAuthService_PublishesEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	var seen []events.EventType
	record := func(_ context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		return nil
	}
	dispatcher.Subscribe(events.EventUserRegistered, record)
	dispatcher.Subscribe(events.EventUserSignedIn, record)
	dispatcher.Subscribe(events.EventUserSignedOut, record)

	svc := newAuthService(t, repository.NewMemoryUserRepository(), repository.NewMemoryTokenDenylist(), dispatcher)
	ctx := context.Background()

	_, err := svc.Register(ctx, "n", "a@x.com", "pw")
	require.NoError(t, err)
	result, err := svc.SignIn(ctx, "a@x.com", "pw")
	require.NoError(t, err)
	claims, err := svc.TokenManager().Parse(result.Token)
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx, claims.Principal()))

	assert.Equal(t, []events.EventType{
		events.EventUserRegistered,
		events.EventUserSignedIn,
		events.EventUserSignedOut,
	}, seen)
}
