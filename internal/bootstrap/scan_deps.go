package bootstrap

import (
	"os"
	"strings"
	"time"

	outcache "scan_server/adapter/out/cache"
	"scan_server/adapter/out/persistence"
	"scan_server/adapter/out/provider"
	"scan_server/adapter/out/recall"
	"scan_server/config"
	"scan_server/core/port/out"
	allergenservice "scan_server/core/service/allergen"
	"scan_server/core/service/resolver"
	scanservice "scan_server/core/service/scan"
	"scan_server/infra/database"
	"scan_server/pkg/cache"
	"scan_server/pkg/metrics"
	"scan_server/pkg/ratelimit"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Config *config.Config
	DB     *pgxpool.Pool
	SQLDB  *sqlx.DB
	Redis  *redis.Client

	// Repositories
	ProfileRepo out.AllergenProfileRepository

	// Providers
	PrimaryProvider        *provider.OpenFoodFactsAdapter
	SupplementaryProviders []out.ProductProvider

	// Cache
	ProductCache out.ProductCache

	// Services
	ResolverService *resolver.Service
	AllergenService *allergenservice.Service
	ScanService     *scanservice.Service
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	// Logger (console logger for startup/wiring; services use pkg/logger)
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
		With().Timestamp().Str("component", "bootstrap").Logger()

	// Database (pgxpool)
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	deps.DB = db
	cleanups = append(cleanups, func() { db.Close() })

	// Database (sqlx for adapters that need it)
	zlog.Debug().Msg("Connecting to database via sqlx...")
	sqlxURL := cfg.DatabaseURL
	if strings.Contains(sqlxURL, "?") {
		sqlxURL += "&default_query_exec_mode=simple_protocol"
	} else {
		sqlxURL += "?default_query_exec_mode=simple_protocol"
	}
	sqlDB, err := sqlx.Connect("pgx", sqlxURL)
	if err != nil {
		zlog.Error().Err(err).Msg("sqlx connection failed")
		db.Close()
		return nil, nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() { sqlDB.Close() })

	// Register with global pool monitor
	metrics.RegisterPool("postgres", sqlDB.DB)

	zlog.Info().Int("max", 25).Int("idle", 10).Msg("sqlx database connection successful")

	// Redis
	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		zlog.Warn().Err(err).Msg("Redis connection failed, caching disabled")
	} else {
		deps.Redis = redisClient
		cleanups = append(cleanups, func() { redisClient.Close() })
	}

	// Product cache (Redis, CachedAt is the staleness authority)
	if deps.Redis != nil {
		staleness := time.Duration(cfg.CacheStalenessDays) * 24 * time.Hour
		deps.ProductCache = outcache.NewProductCacheAdapter(cache.NewRedisCache(deps.Redis), staleness, nil)
		zlog.Info().Int("staleness_days", cfg.CacheStalenessDays).Msg("Product cache initialized")
	}

	// Providers: Open Food Facts is primary; the rest fill nutrient gaps.
	deps.PrimaryProvider = provider.NewOpenFoodFactsAdapter(&provider.OpenFoodFactsConfig{
		BaseURL: cfg.OpenFoodFactsBaseURL,
	})

	var usdaLimiter *ratelimit.SlidingWindowLimiter
	if deps.Redis != nil {
		usdaLimiter = ratelimit.NewSlidingWindowLimiter(deps.Redis, 10, 20)
	}
	supplementary := []out.ProductProvider{
		provider.NewUSDAAdapter(&provider.USDAConfig{
			BaseURL: cfg.USDABaseURL,
			APIKey:  cfg.USDAAPIKey,
			Limiter: usdaLimiter,
		}),
		provider.NewNutritionixAdapter(&provider.NutritionixConfig{
			BaseURL: cfg.NutritionixBaseURL,
			AppID:   cfg.NutritionixAppID,
			AppKey:  cfg.NutritionixAppKey,
		}),
		provider.NewEdamamAdapter(&provider.EdamamConfig{
			BaseURL: cfg.EdamamBaseURL,
			AppID:   cfg.EdamamAppID,
			AppKey:  cfg.EdamamAppKey,
		}),
	}
	deps.SupplementaryProviders = supplementary

	deps.ResolverService = resolver.NewService(deps.PrimaryProvider, supplementary, &resolver.Config{
		ProviderTimeout: cfg.ProviderTimeout,
	})

	// Repositories and domain services
	deps.ProfileRepo = persistence.NewAllergenProfileAdapter(deps.SQLDB)
	deps.AllergenService = allergenservice.NewService(deps.ProfileRepo, nil)

	var recallChecker out.RecallChecker = recall.NewNoopChecker()
	if cfg.RecallFeedURL != "" {
		recallChecker = recall.NewHTTPChecker(&recall.HTTPCheckerConfig{BaseURL: cfg.RecallFeedURL})
		zlog.Info().Str("url", cfg.RecallFeedURL).Msg("Recall feed enabled")
	}

	deps.ScanService = scanservice.NewService(
		deps.ResolverService,
		deps.AllergenService,
		deps.ProductCache,
		recallChecker,
	)

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	return deps, cleanup, nil
}
