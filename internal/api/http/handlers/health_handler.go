package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kitchen-service/internal/api/dto"
	"github.com/spec-kit/kitchen-service/internal/observability"
)

// Pinger is a dependency that can be probed for readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName  string
	version      string
	dependencies map[string]Pinger
	metrics      *observability.Metrics
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, metrics *observability.Metrics, dependencies map[string]Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, dependencies: dependencies, metrics: metrics}
}

// Live reports service liveness along with the request counters.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
		"metrics": h.metrics.Snapshot(),
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := map[string]any{}
	ready := true
	for name, dep := range h.dependencies {
		if err := dep.Ping(ctx); err != nil {
			depStatus[name] = err.Error()
			ready = false
			continue
		}
		depStatus[name] = "ok"
	}

	if ready {
		return respond(c, fiber.StatusOK, fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorEnvelope{
		Success: false,
		Code:    "DEPENDENCY_UNAVAILABLE",
		Message: "one or more dependencies unavailable",
		Details: depStatus,
	})
}
