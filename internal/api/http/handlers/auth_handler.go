package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kitchen-service/internal/api/dto"
	"github.com/spec-kit/kitchen-service/internal/auth"
	"github.com/spec-kit/kitchen-service/internal/service"
	apperrors "github.com/spec-kit/kitchen-service/pkg/util/errorutil"
)

// AuthHandler exposes login and session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	session, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, sessionResponse(session))
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.Logout(c.UserContext(), principal); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.MessageResponse{Message: "logged out"})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Profile(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"user": dto.NewUserResponse(user)})
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	session, err := h.auth.Refresh(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, sessionResponse(session))
}

func sessionResponse(session *service.Session) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      dto.NewUserResponse(session.User),
	}
}
