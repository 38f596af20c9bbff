package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/api/http"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/api/http/handlers"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/auth"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/config"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/events"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/observability"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/persistence"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/repository"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/service"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	dependencies := map[string]handlers.Pinger{}
	clientRepo := repository.NewMemoryClientRepository()
	eventRepo := repository.NewMemoryEventRepository()
	if pg.Enabled() {
		dependencies["postgres"] = pg
		clientRepo = repository.NewClientRepository(pg.Pool)
		eventRepo = repository.NewEventRepository(pg.Pool)
	}

	var tokenRepo repository.TokenRepository
	tokenStore := cfg.ResolveTokenStore()
	switch tokenStore {
	case config.TokenStorePostgres:
		tokenRepo = repository.NewTokenRepository(pg.Pool)
	case config.TokenStoreRedis:
		redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redis.Close()
		dependencies["redis"] = redis
		tokenRepo = repository.NewRedisTokenRepository(redis.Client)
	default:
		tokenRepo = repository.NewMemoryTokenRepository()
	}
	logger.Info("token store selected", zap.String("store", tokenStore))

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, metrics))

	hasher, err := auth.NewSecretHasher(cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to init secret hasher", zap.Error(err))
	}

	credentialService := service.NewCredentialService(service.CredentialDependencies{
		ClientRepo:   clientRepo,
		Hasher:       hasher,
		Dispatcher:   dispatcher,
		Logger:       logger,
		StoreTimeout: cfg.Auth.StoreTimeout(),
	})
	tokenService := service.NewTokenService(service.TokenDependencies{
		Credentials:    credentialService,
		TokenRepo:      tokenRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
		TTL:            cfg.Auth.TokenTTL(),
		SlidingRenewal: cfg.Auth.SlidingRenewal,
		StoreTimeout:   cfg.Auth.StoreTimeout(),
	})
	eventService := service.NewEventService(service.EventDependencies{
		EventRepo:    eventRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
		StoreTimeout: cfg.Auth.StoreTimeout(),
	})

	if _, err := credentialService.SeedDemoIdentity(ctx, cfg.Auth.DemoClientID, cfg.Auth.DemoClientSecret); err != nil {
		logger.Fatal("failed to seed demo client", zap.Error(err))
	}

	sweeper := worker.NewTokenSweeper(tokenRepo, dispatcher, logger, cfg.Auth.CleanupInterval(), cfg.Auth.StoreTimeout())
	sweeper.Start()
	defer sweeper.Stop()

	app := httptransport.NewApp(cfg.App.Name, logger, metrics)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.HTTP.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Tokens:          handlers.NewTokenHandler(tokenService),
		Clients:         handlers.NewClientsHandler(credentialService),
		Events:          handlers.NewEventsHandler(eventService),
		AuthMiddleware:  auth.NewAuthMiddleware(tokenService),
		Metrics:         metrics.Handler(),
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		TokenRateLimit:  cfg.HTTP.TokenRateLimit,
		TokenRateWindow: cfg.HTTP.TokenRateWindow(),
		AdminKey:        cfg.Auth.AdminKey,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
