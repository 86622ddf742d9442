package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/docquery-auth/internal/api/http/handlers"
	"github.com/spec-kit/docquery-auth/internal/auth"
	"github.com/spec-kit/docquery-auth/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Admin          *handlers.AdminHandler
	PDF            *handlers.PDFHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/register", cfg.Auth.Register)
	api.Post("/signin", cfg.Auth.SignIn)

	// registered after the public routes so its middleware never runs for them
	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/signout", cfg.Auth.SignOut)
	protected.Get("/me", cfg.Users.Me)
	protected.Get("/user/dashboard", auth.RequireRole(domain.RoleUser, domain.RoleAdmin), cfg.Users.UserDashboard)

	admin := protected.Group("/admin", auth.RequireAdmin())
	admin.Get("/dashboard", cfg.Users.AdminDashboard)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Get("/stats", cfg.Admin.Stats)

	pdf := protected.Group("/pdf")
	pdf.Post("/upload", cfg.PDF.Upload)
	pdf.Post("/query", cfg.PDF.Query)
}
