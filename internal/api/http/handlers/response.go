package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kitchen-service/internal/api/dto"
	"github.com/spec-kit/kitchen-service/internal/auth"
	"github.com/spec-kit/kitchen-service/internal/domain"
	apperrors "github.com/spec-kit/kitchen-service/pkg/util/errorutil"
)

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(dto.Envelope{Success: true, Data: data})
}

func subjectOf(c *fiber.Ctx) (domain.Subject, error) {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return domain.Subject{}, apperrors.NewUnauthorized("authentication required")
	}
	return subject, nil
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewFieldError(name, "invalid id")
	}
	return id, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	if parsed, err := strconv.Atoi(val); err == nil {
		return parsed
	}
	return def
}

func invalidPayload() error {
	return apperrors.NewValidationError("invalid payload", nil)
}
