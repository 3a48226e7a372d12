package dto

import (
	"time"

	"github.com/spec-kit/kitchen-service/internal/domain"
)

// LoginRequest accepts a username or an email in Username.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user,omitempty"`
}

// CreateUserRequest payload.
type CreateUserRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
}

// UpdateUserRequest payload; absent fields stay unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"is_active"`
}

// UserResponse never exposes the password hash.
type UserResponse struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	FullName  string      `json:"full_name"`
	Phone     *string     `json:"phone"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// UserListResponse is a page of users.
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination Pagination     `json:"pagination"`
}

// NewUserResponse maps an account.
func NewUserResponse(user *domain.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		FullName:  user.FullName,
		Phone:     user.Phone,
		IsActive:  user.Active,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
