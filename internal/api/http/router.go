package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kitchen-service/internal/api/http/handlers"
	"github.com/spec-kit/kitchen-service/internal/auth"
	"github.com/spec-kit/kitchen-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Recipes        *handlers.RecipesHandler
	Schedules      *handlers.SchedulesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Fixed segments are registered ahead of
// the matching /:id routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)

	session := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	session.Post("/logout", cfg.Auth.Logout)
	session.Get("/profile", cfg.Auth.Profile)
	session.Post("/refresh", cfg.Auth.Refresh)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", auth.RequireRole(domain.RoleAdmin), cfg.Users.List)
	users.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Users.Delete)

	recipes := api.Group("/recipes", cfg.AuthMiddleware.Handle)
	recipes.Get("/", cfg.Recipes.List)
	recipes.Post("/", cfg.Recipes.Create)
	recipes.Get("/categories", cfg.Recipes.Categories)
	recipes.Get("/:id", cfg.Recipes.Get)
	recipes.Put("/:id", cfg.Recipes.Update)
	recipes.Delete("/:id", cfg.Recipes.Delete)

	schedules := api.Group("/schedules", cfg.AuthMiddleware.Handle)
	schedules.Get("/", cfg.Schedules.List)
	schedules.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Schedules.Create)
	schedules.Get("/my", cfg.Schedules.Mine)
	schedules.Get("/stats", auth.RequireRole(domain.RoleAdmin), cfg.Schedules.Stats)
	schedules.Get("/:id", cfg.Schedules.Get)
	schedules.Put("/:id", cfg.Schedules.Update)
	schedules.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Schedules.Delete)
}
