package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Checker is a dependency the readiness probe pings.
type Checker interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	checks      map[string]Checker
}

// NewHealthHandler returns a new handler instance. Checkers that report
// Enabled() == false are listed as "disabled" and do not fail readiness.
func NewHealthHandler(serviceName, version string, checks map[string]Checker) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, checks: checks}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	for name, check := range h.checks {
		switch {
		case check == nil || !check.Enabled():
			depStatus[name] = "disabled"
		default:
			if err := check.Ping(ctx); err != nil {
				depStatus[name] = err.Error()
				ready = false
			} else {
				depStatus[name] = "ok"
			}
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"message":      "one or more dependencies unavailable",
		"code":         "DEPENDENCY_UNAVAILABLE",
		"dependencies": depStatus,
	})
}
