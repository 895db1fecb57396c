// Package cache contains the outbound cache adapter for scan results.
package cache

import (
	"context"
	"time"

	"scan_server/core/domain"
	"scan_server/pkg/logger"
)

// =============================================================================
// Product Cache Adapter
// =============================================================================

const (
	productKeyPrefix = "scan:product:"

	// DefaultStaleness is the read-side freshness window. Redis TTL is set
	// to the same value, but CachedAt is authoritative: an entry that
	// outlived its window is a miss even if Redis still holds it.
	DefaultStaleness = 30 * 24 * time.Hour
)

// Store is the slice of pkg/cache the adapter depends on.
type Store interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ProductCacheAdapter implements out.ProductCache on Redis.
type ProductCacheAdapter struct {
	redis     Store
	staleness time.Duration
	clock     func() time.Time
	log       *logger.Logger
}

// NewProductCacheAdapter creates the cache adapter. Zero staleness selects
// the default window; a nil clock defaults to time.Now.
func NewProductCacheAdapter(redis Store, staleness time.Duration, clock func() time.Time) *ProductCacheAdapter {
	if staleness <= 0 {
		staleness = DefaultStaleness
	}
	if clock == nil {
		clock = time.Now
	}
	return &ProductCacheAdapter{
		redis:     redis,
		staleness: staleness,
		clock:     clock,
		log:       logger.WithField("component", "product_cache"),
	}
}

// Get returns the cached scan for a barcode, or (nil, nil) on a miss or a
// stale entry.
func (a *ProductCacheAdapter) Get(ctx context.Context, barcode string) (*domain.CachedScan, error) {
	var entry domain.CachedScan
	found, err := a.redis.GetJSON(ctx, productKeyPrefix+barcode, &entry)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	if a.clock().Sub(entry.CachedAt) > a.staleness {
		a.log.Debug("stale cache entry for barcode %s, cached at %s", barcode, entry.CachedAt.Format(time.RFC3339))
		return nil, nil
	}
	return &entry, nil
}

// Set overwrites the entry for a barcode, stamping CachedAt.
func (a *ProductCacheAdapter) Set(ctx context.Context, barcode string, scan *domain.CachedScan) error {
	scan.CachedAt = a.clock()
	return a.redis.SetJSON(ctx, productKeyPrefix+barcode, scan, a.staleness)
}
