package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/dirkit/user-directory/internal/api/http"
	"github.com/dirkit/user-directory/internal/api/http/handlers"
	"github.com/dirkit/user-directory/internal/auth"
	"github.com/dirkit/user-directory/internal/config"
	"github.com/dirkit/user-directory/internal/events"
	"github.com/dirkit/user-directory/internal/observability"
	"github.com/dirkit/user-directory/internal/persistence"
	"github.com/dirkit/user-directory/internal/repository"
	"github.com/dirkit/user-directory/internal/service"
	"github.com/dirkit/user-directory/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	userRepo := repository.NewMemoryUserRepository()
	if pg.Enabled() {
		userRepo = repository.NewUserRepository(pg.PoolHandle())
	}

	directoryCache := repository.NewNopDirectoryCache()
	if redis.Enabled() && cfg.Directory.CacheTTL() > 0 {
		directoryCache = repository.NewRedisDirectoryCache(redis.Client, cfg.Directory.CacheTTL())
	}

	dispatcher := events.NewInMemoryDispatcher()

	authService, err := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	directoryService := service.NewDirectoryService(userRepo, directoryCache, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)
	worker.StartDirectoryCacheWorker(directoryService, dispatcher)

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg.App.Name, logger, metrics, cfg.App.RequestTimeout(), httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Users:          handlers.NewUsersHandler(authService, directoryService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), logger),
	})

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.App.Addr()))
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
