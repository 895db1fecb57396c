package bootstrap

import (
	"os"
	"strings"

	"scan_server/adapter/in/http"
	"scan_server/config"
	"scan_server/infra/middleware"
	"scan_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"
)

func NewAPI(cfg *config.Config) (*fiber.App, func(), error) {
	// Initialize logger
	logLevel := logger.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = logger.LevelDebug
	}
	logger.Init(logger.Config{
		Level:   logLevel,
		Service: "scan-api",
	})
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "api").Logger()

	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		zlog.Error().Err(err).Msg("Failed to initialize dependencies")
		return nil, nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),
		Prefork:               false,
		StrictRouting:         false,
		CaseSensitive:         false,

		// =============================================================================
		// 성능 최적화 설정
		// =============================================================================

		// Buffer sizes (메모리 vs 성능 트레이드오프)
		ReadBufferSize:  16384, // 16KB - 큰 요청 처리 최적화
		WriteBufferSize: 16384, // 16KB - 큰 응답 처리 최적화

		// go-json: 표준 encoding/json 대비 2~3배 빠른 JSON 직렬화
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		// Body 제한 (메모리 보호)
		BodyLimit: 1 * 1024 * 1024, // 1MB

		// Concurrency 설정
		Concurrency: 256 * 1024, // 동시 연결 수

		// 서버 헤더 비활성화 (보안 + 미세한 성능 향상)
		ServerHeader:             "",
		DisableDefaultDate:       true,
		DisableHeaderNormalizing: false,

		// Keep-alive (연결 재사용)
		DisableKeepalive: false,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())              // 1. Panic recovery
	app.Use(middleware.RequestID())            // 2. Request ID
	app.Use(middleware.SecurityHeaders())      // 3. Security headers
	app.Use(middleware.PreventPathTraversal()) // 4. Path traversal protection
	app.Use(middleware.InputSanitizer())       // 5. Input sanitization
	app.Use(middleware.RequestLogger())        // 6. Request logging

	// Response compression
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// ETag 미들웨어 - 304 Not Modified 응답으로 대역폭 절약
	app.Use(middleware.ETag())

	// CORS - Security hardened configuration
	// AllowCredentials:true requires explicit origins (not "*")
	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	allowCredentials := true
	if allowOrigins == "" || allowOrigins == "*" {
		// In production, never allow "*" with credentials
		if cfg.IsProduction() {
			allowOrigins = "" // Block all if not configured properly
			allowCredentials = false
		} else {
			// Development: allow localhost only
			allowOrigins = "http://localhost:3000,http://localhost:5173"
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    "X-Request-ID,X-RateLimit-Limit,X-RateLimit-Remaining,X-RateLimit-Reset",
		AllowCredentials: allowCredentials,
		MaxAge:           86400, // 24 hours
	}))

	// Health check (no auth required)
	healthHandler := http.NewHealthHandlerWithDeps(deps.DB, deps.Redis, deps.PrimaryProvider)
	healthHandler.Register(app)

	// Development-only stats endpoints (no auth)
	if cfg.IsDevelopment() {
		RegisterDevStatsRoutes(app)
		zlog.Info().Msg("Development stats routes enabled")
	}

	// API routes (with auth and rate limiting)
	api := app.Group("/api/v1")

	api.Use(middleware.JWTAuth(cfg.JWTSecret))

	// Tier-aware rate limiting, applied after auth so the user claim is set
	rateLimiter := middleware.NewRateLimiter(middleware.DefaultTierLimits(), cfg.RateLimitWindow)
	api.Use(rateLimiter.Handler())

	// Scan handler
	scanHandler := http.NewScanHandler(deps.ScanService)
	api.Post("/scan/:barcode", scanHandler.Scan)

	// Allergen handlers
	allergenHandler := http.NewAllergenHandler(deps.AllergenService, deps.ScanService)
	api.Get("/allergen/catalog", allergenHandler.GetCatalog)
	api.Get("/allergen/profiles", allergenHandler.ListProfiles)
	api.Post("/allergen/profiles", allergenHandler.CreateProfile)
	api.Put("/allergen/profiles/:id", allergenHandler.UpdateProfile)
	api.Delete("/allergen/profiles/:id", allergenHandler.DeleteProfile)
	api.Get("/scan/:barcode/allergens", allergenHandler.DetectForBarcode)

	zlog.Info().Msg("API server initialized successfully")

	return app, cleanup, nil
}
