package http

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/spec-kit/docquery-auth/internal/observability"
	apperrors "github.com/spec-kit/docquery-auth/pkg/util"
)

// MiddlewareConfig carries the settings for the global middleware chain.
type MiddlewareConfig struct {
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Timeout      time.Duration
	ClientOrigin string
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
// The request logger sits outside the error handler so it sees the rendered status.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app.Use(requestid.New())
	if cfg.ClientOrigin != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.ClientOrigin,
			AllowMethods:     strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions}, ","),
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			AllowCredentials: true,
		}))
	}
	app.Use(observability.RequestLogger(logger, cfg.Metrics))
	app.Use(errorHandlingMiddleware(logger, cfg.Metrics))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
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
				domainErr := toDomainError(err)
				metrics.RecordError(observability.RouteKey(c), c.Method(), domainErr.Code)
				if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
					logger.Error("request failed",
						zap.String("path", c.Path()),
						zap.Any("request_id", c.Locals("requestid")),
						zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(fiber.Map{
					"message": domainErr.Message,
					"code":    domainErr.Code,
				})
				err = nil
			}
		}()
		return c.Next()
	}
}

// toDomainError also covers errors raised by fiber itself, such as unknown
// routes and oversized bodies.
func toDomainError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch {
		case fiberErr.Code == fiber.StatusNotFound:
			return apperrors.NewDomainError(apperrors.CodeNotFound, "Route not found", fiber.StatusNotFound)
		case fiberErr.Code >= fiber.StatusInternalServerError:
			return apperrors.NewInternalError(err)
		default:
			return apperrors.NewDomainError(apperrors.CodeValidation, fiberErr.Message, fiberErr.Code)
		}
	}
	return apperrors.ToDomainError(err)
}
