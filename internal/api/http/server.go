package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/docquery-auth/internal/api/http/handlers"
	"github.com/spec-kit/docquery-auth/internal/auth"
	"github.com/spec-kit/docquery-auth/internal/config"
	"github.com/spec-kit/docquery-auth/internal/observability"
	"github.com/spec-kit/docquery-auth/internal/service"
)

const minBodyLimit = 4 * 1024 * 1024

// AppDependencies are the collaborators the HTTP layer is built from.
type AppDependencies struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	AuthService  *service.AuthService
	UserService  *service.UserService
	Revocations  auth.RevocationChecker
	Documents    handlers.DocumentQuerier
	HealthChecks map[string]handlers.Checker
}

// NewApp builds the fiber application with middlewares and routes attached.
func NewApp(deps AppDependencies) *fiber.App {
	cfg := deps.Config

	bodyLimit := cfg.PDF.MaxUploadBytes()
	if bodyLimit < minBodyLimit {
		bodyLimit = minBodyLimit
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})

	RegisterMiddlewares(app, MiddlewareConfig{
		Logger:       deps.Logger,
		Metrics:      deps.Metrics,
		Timeout:      cfg.App.RequestTimeout(),
		ClientOrigin: cfg.CORS.ClientOrigin,
	})

	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.HealthChecks),
		Auth:           handlers.NewAuthHandler(deps.AuthService),
		Users:          handlers.NewUsersHandler(deps.UserService),
		Admin:          handlers.NewAdminHandler(deps.UserService, deps.Metrics),
		PDF:            handlers.NewPDFHandler(deps.Documents),
		AuthMiddleware: auth.NewAuthMiddleware(deps.AuthService.TokenManager(), deps.Revocations, deps.Logger),
	})

	return app
}
