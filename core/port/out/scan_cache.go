package out

import (
	"context"

	"scan_server/core/domain"
)

// ProductCache is the outbound port for the scan result cache.
// Keys are the literal scanned barcode string, not a normalized variant.
// Implementations apply the staleness window on read: an entry older than
// the window is reported as a miss.
type ProductCache interface {
	// Get returns (nil, nil) on a miss or a stale entry.
	Get(ctx context.Context, barcode string) (*domain.CachedScan, error)

	// Set overwrites the entry for the barcode unconditionally.
	Set(ctx context.Context, barcode string, scan *domain.CachedScan) error
}
