package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/docquery-auth/internal/api/http"
	"github.com/spec-kit/docquery-auth/internal/api/http/handlers"
	"github.com/spec-kit/docquery-auth/internal/auth"
	"github.com/spec-kit/docquery-auth/internal/config"
	"github.com/spec-kit/docquery-auth/internal/events"
	"github.com/spec-kit/docquery-auth/internal/observability"
	"github.com/spec-kit/docquery-auth/internal/pdfquery"
	"github.com/spec-kit/docquery-auth/internal/persistence"
	"github.com/spec-kit/docquery-auth/internal/repository"
	"github.com/spec-kit/docquery-auth/internal/service"
	"github.com/spec-kit/docquery-auth/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
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

	var userRepo repository.UserRepository
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		userRepo = repository.NewUserRepository(pg.PoolHandle())
	} else {
		logger.Warn("using in-memory user store; accounts are lost on restart")
		userRepo = repository.NewMemoryUserRepository()
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var denylist repository.TokenDenylist
	if redis.Enabled() {
		denylist = repository.NewRedisTokenDenylist(redis.Client)
	} else {
		denylist = repository.NewMemoryTokenDenylist()
	}

	hasher, err := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("invalid bcrypt cost", zap.Error(err))
	}
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret)
	if err != nil {
		logger.Fatal("invalid token settings", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   userRepo,
		Denylist:   denylist,
		Hasher:     hasher,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	userService := service.NewUserService(userRepo)

	service.NewAdminSeeder(userRepo, hasher, dispatcher, logger.Named("bootstrap"), cfg.Admins).Seed(ctx)

	app := httptransport.NewApp(httptransport.AppDependencies{
		Config:      cfg,
		Logger:      logger,
		Metrics:     observability.NewMetrics(),
		AuthService: authService,
		UserService: userService,
		Revocations: denylist,
		Documents:   pdfquery.NewClient(cfg.PDF, logger),
		HealthChecks: map[string]handlers.Checker{
			"postgres": pg,
			"redis":    redis,
		},
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
