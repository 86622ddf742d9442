package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/docquery-auth/internal/domain"
	apperrors "github.com/spec-kit/docquery-auth/pkg/util"
)

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[tokenID], nil
}

func newTestApp(t *testing.T, revoked RevocationChecker) (*fiber.App, *TokenManager) {
	t.Helper()

	tm, err := NewTokenManager("test-secret")
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperrors.ToDomainError(err).HTTPStatus).SendString(err.Error())
		},
	})
	mw := NewAuthMiddleware(tm, revoked, nil)

	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return errors.New("no principal")
		}
		return c.SendString(p.UserID + ":" + string(p.Role))
	})
	app.Get("/admin", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	app.Get("/any", mw.Handle, RequireRole(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app, tm
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_RejectsMissingOrMalformedHeader(t *testing.T) {
	app, _ := newTestApp(t, nil)

	for _, header := range []string{"", "Token abc", "Bearer", "Bearer   ", "Bearer not-a-jwt"} {
		resp := doRequest(t, app, "/me", header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
	}
}

func TestAuthMiddleware_AcceptsValidToken(t *testing.T) {
	app, tm := newTestApp(t, nil)

	token, _, err := tm.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)

	resp := doRequest(t, app, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, "/me", "bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_RejectsRevokedToken(t *testing.T) {
	revocations := &stubRevocations{revoked: map[string]bool{}}
	app, tm := newTestApp(t, revocations)

	token, _, err := tm.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)
	claims, err := tm.Parse(token)
	require.NoError(t, err)

	revocations.revoked[claims.ID] = true

	resp := doRequest(t, app, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FailsOpenWhenRevocationLookupFails(t *testing.T) {
	app, tm := newTestApp(t, &stubRevocations{err: errors.New("redis down")})

	token, _, err := tm.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)

	resp := doRequest(t, app, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	app, tm := newTestApp(t, nil)

	userToken, _, err := tm.Issue("user-1", domain.RoleUser)
	require.NoError(t, err)
	adminToken, _, err := tm.Issue("admin-1", domain.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doRequest(t, app, "/admin", "Bearer "+userToken).StatusCode)
	assert.Equal(t, http.StatusOK, doRequest(t, app, "/admin", "Bearer "+adminToken).StatusCode)
	assert.Equal(t, http.StatusOK, doRequest(t, app, "/any", "Bearer "+userToken).StatusCode)
}
