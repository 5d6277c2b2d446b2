package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	redis "github.com/redis/go-redis/v9"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	redis       *redis.Client
}

// NewHealthHandler returns a new handler instance. redis may be nil when the
// in-memory rate-limit store is in use.
func NewHealthHandler(serviceName, version string, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, redis: redisClient}
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
	if h.redis == nil {
		return c.JSON(fiber.Map{"status": "ready"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.redis.Ping(ctx).Err(); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":       "unavailable",
			"dependencies": fiber.Map{"redis": err.Error()},
		})
	}

	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": fiber.Map{"redis": "ok"},
	})
}
