package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/kitchen-service/internal/api/dto"
	"github.com/spec-kit/kitchen-service/internal/events"
	"github.com/spec-kit/kitchen-service/internal/observability"
	apperrors "github.com/spec-kit/kitchen-service/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
// The request logger wraps the error middleware so it sees the rendered status.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(requestOriginMiddleware())
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// requestOriginMiddleware stores the caller address and agent for the activity log.
func requestOriginMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(events.WithOrigin(c.UserContext(), events.Origin{
			IPAddress: c.IP(),
			UserAgent: c.Get(fiber.HeaderUserAgent),
		}))
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				err = renderError(c, logger, metrics, err)
			}
		}()
		return c.Next()
	}
}

// ErrorHandler renders errors that escape the middleware chain.
func ErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return renderError(c, logger, metrics, err)
	}
}

func renderError(c *fiber.Ctx, logger *zap.Logger, metrics *observability.Metrics, err error) error {
	domainErr := apperrors.ToDomainError(err)
	metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
	if domainErr.HTTPStatus >= 500 {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(domainErr),
		)
	}
	return c.Status(domainErr.HTTPStatus).JSON(dto.ErrorEnvelope{
		Success: false,
		Message: domainErr.Message,
		Code:    domainErr.Code,
		Details: domainErr.Details,
	})
}
