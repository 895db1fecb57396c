package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// CircuitStatus is the health view of an outbound provider breaker.
type CircuitStatus interface {
	IsCircuitOpen() bool
}

type HealthHandler struct {
	db      *pgxpool.Pool
	redis   *redis.Client
	primary CircuitStatus
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func NewHealthHandlerWithDeps(db *pgxpool.Pool, redis *redis.Client, primary CircuitStatus) *HealthHandler {
	return &HealthHandler{
		db:      db,
		redis:   redis,
		primary: primary,
	}
}

func (h *HealthHandler) Register(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/ready", h.Ready)
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"service":   "scan-server",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready reports dependency health. An open primary-provider circuit is
// reported but does not fail readiness: scans degrade to the supplementary
// providers and the cache.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	// Check PostgreSQL
	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			checks["postgres"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks["postgres"] = "healthy"
		}
	} else {
		checks["postgres"] = "not configured"
	}

	// Check Redis
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks["redis"] = "healthy"
		}
	} else {
		checks["redis"] = "not configured"
	}

	// Primary provider circuit state
	if h.primary != nil {
		if h.primary.IsCircuitOpen() {
			checks["openfoodfacts"] = "circuit open"
		} else {
			checks["openfoodfacts"] = "healthy"
		}
	}

	status := "ready"
	statusCode := fiber.StatusOK
	if !allHealthy {
		status = "not ready"
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
