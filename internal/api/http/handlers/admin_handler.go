package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docquery-auth/internal/api/dto"
	"github.com/spec-kit/docquery-auth/internal/observability"
	"github.com/spec-kit/docquery-auth/internal/service"
)

// AdminHandler serves administrator-only views.
type AdminHandler struct {
	users   *service.UserService
	metrics *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(users *service.UserService, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{users: users, metrics: metrics}
}

// ListUsers handles GET /api/admin/users?limit=&offset=.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	users, err := h.users.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}

	resp := dto.UserListResponse{
		Users:  make([]dto.UserResponse, 0, len(users)),
		Limit:  limit,
		Offset: offset,
	}
	for i := range users {
		resp.Users = append(resp.Users, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(resp)
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
