package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/docquery-auth/internal/domain"
	apperrors "github.com/spec-kit/docquery-auth/pkg/util"
)

const principalKey = "auth_principal"

// RevocationChecker reports whether a token id was revoked before expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware validates bearer tokens and stores the caller principal.
type AuthMiddleware struct {
	tokens  *TokenManager
	revoked RevocationChecker
	logger  *zap.Logger
}

// NewAuthMiddleware constructs middleware. revoked may be nil.
func NewAuthMiddleware(tokens *TokenManager, revoked RevocationChecker, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, revoked: revoked, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("Invalid authorization header")
	}

	claims, err := m.tokens.Parse(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("Invalid token")
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(c.UserContext(), claims.ID)
		switch {
		case err != nil:
			// fail open: the token is still signature- and expiry-checked
			m.logger.Warn("token revocation lookup failed", zap.Error(err))
		case revoked:
			return apperrors.NewUnauthorized("Token has been revoked")
		}
	}

	c.Locals(principalKey, claims.Principal())
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}
