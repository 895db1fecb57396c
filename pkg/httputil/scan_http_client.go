// Package httputil provides optimized HTTP client utilities.
package httputil

import (
	"context"
	"net"
	"net/http"
	"time"
)

// =============================================================================
// Optimized HTTP Client Pool
// =============================================================================

// ClientConfig holds HTTP client configuration.
type ClientConfig struct {
	// Connection settings
	MaxIdleConns        int           // 최대 유휴 연결 수 (기본: 100)
	MaxIdleConnsPerHost int           // 호스트당 최대 유휴 연결 (기본: 20)
	MaxConnsPerHost     int           // 호스트당 최대 연결 (기본: 100)
	IdleConnTimeout     time.Duration // 유휴 연결 타임아웃 (기본: 90초)

	// Timeout settings
	DialTimeout         time.Duration // 연결 타임아웃 (기본: 10초)
	TLSHandshakeTimeout time.Duration // TLS 핸드셰이크 타임아웃 (기본: 10초)
	ResponseTimeout     time.Duration // 응답 타임아웃 (기본: 30초)

	// Keep-alive settings
	DisableKeepAlives bool          // Keep-alive 비활성화
	KeepAliveInterval time.Duration // Keep-alive 간격 (기본: 30초)
}

// DefaultClientConfig returns optimized default configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		MaxConnsPerHost:     100,
		IdleConnTimeout:     90 * time.Second,
		DialTimeout:         10 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ResponseTimeout:     30 * time.Second,
		DisableKeepAlives:   false,
		KeepAliveInterval:   30 * time.Second,
	}
}

// NewOptimizedClient creates an optimized HTTP client with connection pooling.
func NewOptimizedClient(cfg *ClientConfig) *http.Client {
	if cfg == nil {
		cfg = DefaultClientConfig()
	}

	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAliveInterval,
	}

	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		DisableKeepAlives:     cfg.DisableKeepAlives,
		ForceAttemptHTTP2:     true, // HTTP/2 우선 시도
		DisableCompression:    false,
		ResponseHeaderTimeout: cfg.ResponseTimeout,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.ResponseTimeout,
	}
}

// =============================================================================
// API-Specific Client Configurations
// =============================================================================

// OpenFoodFactsClientConfig returns optimized configuration for the Open Food
// Facts API. It is the primary provider and absorbs most scan traffic, so it
// gets the largest pool.
func OpenFoodFactsClientConfig() *ClientConfig {
	return &ClientConfig{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 50, // High concurrency for scan bursts
		MaxConnsPerHost:     100,
		IdleConnTimeout:     120 * time.Second,
		DialTimeout:         10 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ResponseTimeout:     15 * time.Second,
		DisableKeepAlives:   false,
		KeepAliveInterval:   30 * time.Second,
	}
}

// USDAClientConfig returns optimized configuration for the USDA FoodData
// Central API. FDC enforces per-key rate limits, so the pool stays small.
func USDAClientConfig() *ClientConfig {
	return &ClientConfig{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 20, // Conservative for rate limits
		MaxConnsPerHost:     50,
		IdleConnTimeout:     90 * time.Second,
		DialTimeout:         10 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ResponseTimeout:     15 * time.Second,
		DisableKeepAlives:   false,
		KeepAliveInterval:   30 * time.Second,
	}
}

// NutritionixClientConfig returns optimized configuration for the Nutritionix
// API.
func NutritionixClientConfig() *ClientConfig {
	return &ClientConfig{
		MaxIdleConns:        30,
		MaxIdleConnsPerHost: 15,
		MaxConnsPerHost:     30,
		IdleConnTimeout:     90 * time.Second,
		DialTimeout:         10 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ResponseTimeout:     15 * time.Second,
		DisableKeepAlives:   false,
		KeepAliveInterval:   30 * time.Second,
	}
}

// EdamamClientConfig returns optimized configuration for the Edamam Food
// Database API.
func EdamamClientConfig() *ClientConfig {
	return &ClientConfig{
		MaxIdleConns:        30,
		MaxIdleConnsPerHost: 15,
		MaxConnsPerHost:     30,
		IdleConnTimeout:     90 * time.Second,
		DialTimeout:         10 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		ResponseTimeout:     15 * time.Second,
		DisableKeepAlives:   false,
		KeepAliveInterval:   30 * time.Second,
	}
}

// =============================================================================
// Global Shared Client Pool (Singleton)
// =============================================================================

var (
	defaultClient       *http.Client
	openFoodFactsClient *http.Client
	usdaClient          *http.Client
	nutritionixClient   *http.Client
	edamamClient        *http.Client
)

func init() {
	defaultClient = NewOptimizedClient(DefaultClientConfig())
	openFoodFactsClient = NewOptimizedClient(OpenFoodFactsClientConfig())
	usdaClient = NewOptimizedClient(USDAClientConfig())
	nutritionixClient = NewOptimizedClient(NutritionixClientConfig())
	edamamClient = NewOptimizedClient(EdamamClientConfig())
}

// DefaultClient returns the shared default HTTP client.
func DefaultClient() *http.Client {
	return defaultClient
}

// OpenFoodFactsClient returns the optimized HTTP client for Open Food Facts.
func OpenFoodFactsClient() *http.Client {
	return openFoodFactsClient
}

// USDAClient returns the optimized HTTP client for USDA FoodData Central.
func USDAClient() *http.Client {
	return usdaClient
}

// NutritionixClient returns the optimized HTTP client for Nutritionix.
func NutritionixClient() *http.Client {
	return nutritionixClient
}

// EdamamClient returns the optimized HTTP client for Edamam.
func EdamamClient() *http.Client {
	return edamamClient
}

// =============================================================================
// Request Helper with Context
// =============================================================================

// DoWithContext executes HTTP request with context and timeout.
func DoWithContext(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	if client == nil {
		client = defaultClient
	}
	return client.Do(req.WithContext(ctx))
}

// =============================================================================
// Client Pool Statistics
// =============================================================================

// ClientPoolStats holds HTTP client pool statistics.
type ClientPoolStats struct {
	Name                string `json:"name"`
	MaxIdleConns        int    `json:"max_idle_conns"`
	MaxIdleConnsPerHost int    `json:"max_idle_conns_per_host"`
	MaxConnsPerHost     int    `json:"max_conns_per_host"`
	TimeoutSeconds      int    `json:"timeout_seconds"`
}

// GetAllPoolStats returns statistics for all HTTP client pools.
func GetAllPoolStats() []ClientPoolStats {
	return []ClientPoolStats{
		getPoolStats("default", defaultClient, DefaultClientConfig()),
		getPoolStats("openfoodfacts", openFoodFactsClient, OpenFoodFactsClientConfig()),
		getPoolStats("usda", usdaClient, USDAClientConfig()),
		getPoolStats("nutritionix", nutritionixClient, NutritionixClientConfig()),
		getPoolStats("edamam", edamamClient, EdamamClientConfig()),
	}
}

func getPoolStats(name string, _ *http.Client, cfg *ClientConfig) ClientPoolStats {
	return ClientPoolStats{
		Name:                name,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		TimeoutSeconds:      int(cfg.ResponseTimeout.Seconds()),
	}
}
