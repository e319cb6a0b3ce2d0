package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/homehelp-service/internal/api/http"
	"github.com/spec-kit/homehelp-service/internal/api/http/handlers"
	"github.com/spec-kit/homehelp-service/internal/auth"
	"github.com/spec-kit/homehelp-service/internal/config"
	"github.com/spec-kit/homehelp-service/internal/events"
	"github.com/spec-kit/homehelp-service/internal/observability"
	"github.com/spec-kit/homehelp-service/internal/persistence"
	"github.com/spec-kit/homehelp-service/internal/ratelimit"
	"github.com/spec-kit/homehelp-service/internal/repository"
	"github.com/spec-kit/homehelp-service/internal/service"
	"github.com/spec-kit/homehelp-service/internal/storage"
	"github.com/spec-kit/homehelp-service/internal/worker"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	store := repository.NewStore(pg.PoolHandle())
	limiter := ratelimit.NewLoginLimiter(redis.Client, logger, cfg.Auth.MaxLoginAttempts, cfg.Auth.LoginAttemptWindow())

	files, err := storage.NewLocalFileStore(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal("failed to init upload storage", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(cfg.Auth, store, limiter)
	registrationService := service.NewRegistrationService(store, files, dispatcher, logger, cfg.Auth.BcryptCost)
	adminService := service.NewAdminService(store, logger, cfg.Auth.BcryptCost)
	catalogService := service.NewCatalogService(store)
	bookingService := service.NewBookingService(store, dispatcher, logger)

	if err := adminService.Bootstrap(ctx, cfg.Bootstrap); err != nil {
		logger.Fatal("failed to bootstrap admin account", zap.Error(err))
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), store)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Registration:   handlers.NewRegistrationHandler(registrationService),
		Admin:          handlers.NewAdminHandler(adminService, registrationService),
		Services:       handlers.NewServicesHandler(catalogService),
		Bookings:       handlers.NewBookingsHandler(bookingService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
