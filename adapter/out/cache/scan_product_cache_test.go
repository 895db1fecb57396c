package cache

import (
	"context"
	"testing"
	"time"

	"scan_server/core/domain"
)

type fakeStore struct {
	entries map[string]domain.CachedScan
	ttls    map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries: make(map[string]domain.CachedScan),
		ttls:    make(map[string]time.Duration),
	}
}

func (f *fakeStore) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	entry, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	*dest.(*domain.CachedScan) = entry
	return true, nil
}

func (f *fakeStore) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	f.entries[key] = *value.(*domain.CachedScan)
	f.ttls[key] = ttl
	return nil
}

func cachedEntry(cachedAt time.Time) domain.CachedScan {
	return domain.CachedScan{
		Result:   &domain.ScanResult{Barcode: "4902430735063", Name: "Milk Chocolate"},
		Product:  &domain.MergedProduct{Barcode: "4902430735063", Name: "Milk Chocolate"},
		CachedAt: cachedAt,
	}
}

// TestGetStaleness tests that CachedAt, not Redis TTL, decides freshness:
// an entry older than the staleness window is a miss even though the store
// still holds it.
func TestGetStaleness(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		cachedAt time.Time
		wantHit  bool
	}{
		{"29 days old is a hit", now.Add(-29 * 24 * time.Hour), true},
		{"31 days old is a miss", now.Add(-31 * 24 * time.Hour), false},
		{"exactly at the window edge is a hit", now.Add(-30 * 24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.entries["scan:product:4902430735063"] = cachedEntry(tt.cachedAt)

			adapter := NewProductCacheAdapter(store, 0, func() time.Time { return now })
			entry, err := adapter.Get(context.Background(), "4902430735063")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got := entry != nil; got != tt.wantHit {
				t.Errorf("hit = %v, want %v", got, tt.wantHit)
			}
			if tt.wantHit && entry.Result.Name != "Milk Chocolate" {
				t.Errorf("Result.Name = %q, want the cached product", entry.Result.Name)
			}
		})
	}
}

func TestGetUnknownBarcodeIsMiss(t *testing.T) {
	adapter := NewProductCacheAdapter(newFakeStore(), 0, nil)
	entry, err := adapter.Get(context.Background(), "12345678")
	if err != nil || entry != nil {
		t.Errorf("Get() = (%+v, %v), want (nil, nil)", entry, err)
	}
}

// TestSetStampsCachedAt tests that writes stamp the entry with the current
// clock and mirror the staleness window into the store TTL.
func TestSetStampsCachedAt(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store := newFakeStore()
	adapter := NewProductCacheAdapter(store, 0, func() time.Time { return now })

	entry := cachedEntry(time.Time{})
	if err := adapter.Set(context.Background(), "4902430735063", &entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	stored, ok := store.entries["scan:product:4902430735063"]
	if !ok {
		t.Fatal("entry not written under the scan:product: key")
	}
	if !stored.CachedAt.Equal(now) {
		t.Errorf("CachedAt = %v, want %v", stored.CachedAt, now)
	}
	if store.ttls["scan:product:4902430735063"] != DefaultStaleness {
		t.Errorf("ttl = %v, want %v", store.ttls["scan:product:4902430735063"], DefaultStaleness)
	}
}
