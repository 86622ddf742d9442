package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docquery-auth/internal/api/dto"
	"github.com/spec-kit/docquery-auth/internal/auth"
	"github.com/spec-kit/docquery-auth/internal/service"
	apperrors "github.com/spec-kit/docquery-auth/pkg/util"
)

// AuthHandler exposes registration, sign-in and sign-out.
type AuthHandler struct {
	auth      *service.AuthService
	validator *validator.Validate
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService, validator: newValidator()}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	if _, err := h.auth.Register(c.UserContext(), req.Name, req.Email, req.Password); err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "User created successfully"})
}

// SignIn handles POST /api/signin.
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := bindAndValidate(c, h.validator, &req); err != nil {
		return err
	}

	result, err := h.auth.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.SignInResponse{
		Message: "Sign in successful.",
		Token:   result.Token,
		Role:    result.Role,
	})
}

// SignOut handles POST /api/signout.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Authentication required")
	}
	if err := h.auth.SignOut(c.UserContext(), principal); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Signed out"})
}
