package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docquery-auth/internal/api/dto"
	"github.com/spec-kit/docquery-auth/internal/auth"
	"github.com/spec-kit/docquery-auth/internal/domain"
	"github.com/spec-kit/docquery-auth/internal/service"
	apperrors "github.com/spec-kit/docquery-auth/pkg/util"
)

// UsersHandler serves the signed-in caller's own views.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Me handles GET /api/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": dto.NewUserResponse(user)})
}

// UserDashboard handles GET /api/user/dashboard.
func (h *UsersHandler) UserDashboard(c *fiber.Ctx) error {
	return h.dashboard(c, "Welcome to the user dashboard")
}

// AdminDashboard handles GET /api/admin/dashboard.
func (h *UsersHandler) AdminDashboard(c *fiber.Ctx) error {
	return h.dashboard(c, "Welcome to the admin dashboard")
}

func (h *UsersHandler) dashboard(c *fiber.Ctx, message string) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.DashboardResponse{Message: message, User: dto.NewUserResponse(user)})
}

func (h *UsersHandler) currentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("Authentication required")
	}
	return h.users.Profile(c.UserContext(), principal.UserID)
}
