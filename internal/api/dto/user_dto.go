package dto

import (
	"time"

	"github.com/spec-kit/docquery-auth/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name     string `json:"name"     form:"name"     validate:"required,max=255"`
	Email    string `json:"email"    form:"email"    validate:"required,max=255"`
	Password string `json:"password" form:"password" validate:"required"`
}

// SignInRequest payload for sign-in.
type SignInRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// MessageResponse is the plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// SignInResponse carries the issued token and the account role.
type SignInResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	Role    domain.Role `json:"role"`
}

// UserResponse is the public view of an account. The password hash never leaves the service.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewUserResponse maps a domain user to its public view.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// DashboardResponse greets the caller on a role-gated page.
type DashboardResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// UserListResponse is one page of accounts.
type UserListResponse struct {
	Users  []UserResponse `json:"users"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}
