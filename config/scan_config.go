package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string

	// Database
	DatabaseURL string
	RedisURL    string

	// JWT
	JWTSecret string

	// Providers
	OpenFoodFactsBaseURL string
	USDABaseURL          string
	USDAAPIKey           string
	NutritionixBaseURL   string
	NutritionixAppID     string
	NutritionixAppKey    string
	EdamamBaseURL        string
	EdamamAppID          string
	EdamamAppKey         string
	ProviderTimeout      time.Duration

	// Recall feed (optional)
	RecallFeedURL string

	// Cache
	CacheStalenessDays int

	// Rate limiting
	RateLimitWindow time.Duration

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", ""),

		// Providers
		OpenFoodFactsBaseURL: getEnv("OFF_BASE_URL", ""),
		USDABaseURL:          getEnv("USDA_BASE_URL", ""),
		USDAAPIKey:           getEnv("USDA_API_KEY", ""),
		NutritionixBaseURL:   getEnv("NUTRITIONIX_BASE_URL", ""),
		NutritionixAppID:     getEnv("NUTRITIONIX_APP_ID", ""),
		NutritionixAppKey:    getEnv("NUTRITIONIX_APP_KEY", ""),
		EdamamBaseURL:        getEnv("EDAMAM_BASE_URL", ""),
		EdamamAppID:          getEnv("EDAMAM_APP_ID", ""),
		EdamamAppKey:         getEnv("EDAMAM_APP_KEY", ""),
		ProviderTimeout:      time.Duration(getEnvInt("PROVIDER_TIMEOUT_SEC", 8)) * time.Second,

		// Recall feed
		RecallFeedURL: getEnv("RECALL_FEED_URL", ""),

		// Cache
		CacheStalenessDays: getEnvInt("CACHE_STALENESS_DAYS", 30),

		// Rate limiting
		RateLimitWindow: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SEC", 60)) * time.Second,

		// CORS
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
