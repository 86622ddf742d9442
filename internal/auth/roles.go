package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docquery-auth/internal/domain"
	apperrors "github.com/spec-kit/docquery-auth/pkg/util"
)

// RequireRole ensures the caller holds one of the allowed roles.
// With no roles it only requires an authenticated caller.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("Authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("Insufficient role")
		}
		return c.Next()
	}
}

// RequireAdmin restricts a route to administrators.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
