package bootstrap

import (
	"os"

	"scan_server/pkg/httputil"
	"scan_server/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RegisterDevStatsRoutes registers development-only stats routes without authentication
// WARNING: Only enable in development environment!
func RegisterDevStatsRoutes(app *fiber.App) {
	dev := app.Group("/dev")

	// DB connection pool stats
	dev.Get("/stats/db", func(c *fiber.Ctx) error {
		stats := metrics.GetAllPoolStats()
		health := metrics.GetAllPoolHealth()

		return c.JSON(fiber.Map{
			"pools":  stats,
			"health": health,
		})
	})

	// Outbound HTTP client pool stats (per provider)
	dev.Get("/stats/http", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"clients": httputil.GetAllPoolStats(),
		})
	})

	// Per-route latency percentiles
	dev.Get("/stats/latency", func(c *fiber.Ctx) error {
		all := metrics.GetAllLatencyStats()
		out := make(map[string]map[string]any, len(all))
		for endpoint, s := range all {
			out[endpoint] = s.ToMap()
		}
		return c.JSON(fiber.Map{
			"endpoints": out,
		})
	})

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	zlog.Info().Msg("[DevStats] Development stats routes registered at /dev/stats/*")
}
