package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kitchen-service/internal/domain"
	apperrors "github.com/spec-kit/kitchen-service/pkg/util/errorutil"
)

// RequireRole ensures the principal ranks at or above min.
func RequireRole(min domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject, ok := SubjectFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !subject.Active || !subject.Role.AtLeast(min) {
			return apperrors.NewForbidden()
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal was resolved.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
