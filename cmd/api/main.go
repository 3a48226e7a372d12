package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/kitchen-service/internal/api/http"
	"github.com/spec-kit/kitchen-service/internal/api/http/handlers"
	"github.com/spec-kit/kitchen-service/internal/auth"
	"github.com/spec-kit/kitchen-service/internal/config"
	"github.com/spec-kit/kitchen-service/internal/events"
	"github.com/spec-kit/kitchen-service/internal/observability"
	"github.com/spec-kit/kitchen-service/internal/persistence"
	"github.com/spec-kit/kitchen-service/internal/repository"
	"github.com/spec-kit/kitchen-service/internal/service"
	"github.com/spec-kit/kitchen-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	recipeRepo := repository.NewRecipeRepository(pool)
	shiftRepo := repository.NewShiftRepository(pool)
	activityRepo := repository.NewActivityLogRepository(pool)
	sessionRepo := repository.NewSessionRepository(redis.ClientHandle())

	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, activityRepo, logger).RegisterHandlers()
	auditSink := worker.NewAuditSink(cfg.Audit, dispatcher, logger)

	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		auditSink.Run(ctx)
	}()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	authority := auth.NewSessionAuthority(tokens, userRepo, sessionRepo)
	paginator := service.NewPaginator(cfg.Pagination)

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:  userRepo,
		Authority: authority,
		Audit:     auditSink,
		Logger:    logger,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:   userRepo,
		Audit:      auditSink,
		Paginator:  paginator,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	recipeService := service.NewRecipeService(service.RecipeDependencies{
		RecipeRepo: recipeRepo,
		Audit:      auditSink,
		Paginator:  paginator,
	})
	scheduleService := service.NewScheduleService(service.ScheduleDependencies{
		ShiftRepo: shiftRepo,
		UserRepo:  userRepo,
		Audit:     auditSink,
		Paginator: paginator,
	})

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	probes := map[string]handlers.Pinger{"postgres": pg}
	if redis.ClientHandle() != nil {
		probes["redis"] = redis
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, probes),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Recipes:        handlers.NewRecipesHandler(recipeService),
		Schedules:      handlers.NewSchedulesHandler(scheduleService),
		AuthMiddleware: auth.NewAuthMiddleware(authority),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	workers.Wait()
	if dropped := auditSink.Dropped(); dropped > 0 {
		logger.Warn("audit entries dropped", zap.Int64("count", dropped))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
