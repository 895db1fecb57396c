package scan

import (
	"context"
	"errors"
	"sync"
	"testing"

	"scan_server/core/domain"
	"scan_server/core/port/out"
	"scan_server/core/service/resolver"
	"scan_server/pkg/apperr"
)

// ===== Fakes =====

type fakeProvider struct {
	records map[string]*domain.RawProviderRecord
	mu      sync.Mutex
	calls   int
}

func (f *fakeProvider) Name() domain.ProviderName { return domain.ProviderOpenFoodFacts }

func (f *fakeProvider) Fetch(ctx context.Context, barcode string) (*domain.RawProviderRecord, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.records[barcode], nil
}

type fakeCache struct {
	entries map[string]*domain.CachedScan
	getErr  error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.CachedScan)}
}

func (f *fakeCache) Get(ctx context.Context, barcode string) (*domain.CachedScan, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[barcode], nil
}

func (f *fakeCache) Set(ctx context.Context, barcode string, scan *domain.CachedScan) error {
	f.sets++
	f.entries[barcode] = scan
	return nil
}

// fakeAllergen flags any product whose ingredients mention milk.
type fakeAllergen struct {
	lastProduct *domain.MergedProduct
}

func (f *fakeAllergen) ListProfiles(ctx context.Context, userID string) ([]*domain.AllergenProfile, error) {
	return nil, nil
}

func (f *fakeAllergen) CreateProfile(ctx context.Context, userID string, tier domain.Tier, name string, allergens []string) (*domain.AllergenProfile, error) {
	return nil, nil
}

func (f *fakeAllergen) UpdateProfile(ctx context.Context, userID, profileID, name string, allergens []string) (*domain.AllergenProfile, error) {
	return nil, nil
}

func (f *fakeAllergen) DeleteProfile(ctx context.Context, userID, profileID string) error {
	return nil
}

func (f *fakeAllergen) DetectAll(ctx context.Context, userID string, tier domain.Tier, product *domain.MergedProduct) (map[string][]domain.AllergenWarning, error) {
	f.lastProduct = product
	if product != nil && userID == "allergic" {
		return map[string][]domain.AllergenWarning{
			domain.DefaultProfileID: {{AllergenID: "milk", Name: "Milk", Severity: domain.AllergenSevere}},
		}, nil
	}
	return map[string][]domain.AllergenWarning{}, nil
}

func (f *fakeAllergen) SafeForEveryone(ctx context.Context, userID string, tier domain.Tier, product *domain.MergedProduct) (bool, error) {
	detected, err := f.DetectAll(ctx, userID, tier, product)
	return len(detected) == 0, err
}

type fakeRecall struct {
	info *domain.RecallInfo
	err  error
}

func (f *fakeRecall) Check(ctx context.Context, product *domain.MergedProduct) (*domain.RecallInfo, error) {
	return f.info, f.err
}

func f64(v float64) *float64 { return &v }

func knownRecord() *domain.RawProviderRecord {
	return &domain.RawProviderRecord{
		Provider:        domain.ProviderOpenFoodFacts,
		Name:            "Milk Chocolate",
		Brand:           "Acme",
		IngredientsText: "sugar, cocoa butter, whole milk powder",
		Nutrients: domain.NutrientProfile{
			Energy: f64(540),
			Sugar:  f64(12),
			Sodium: f64(80),
		},
	}
}

func newTestService(provider *fakeProvider, cache out.ProductCache, recall out.RecallChecker) *Service {
	res := resolver.NewService(provider, nil, nil)
	return NewService(res, &fakeAllergen{}, cache, recall)
}

// ===== Tests =====

// TestScanInvalidBarcode tests the shape check before any provider call.
func TestScanInvalidBarcode(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider, newFakeCache(), nil)

	_, err := svc.Scan(context.Background(), "u1", domain.TierFree, "12ab")
	if err == nil {
		t.Fatal("expected an error")
	}
	if code := apperr.AsAppError(err).Code; code != apperr.CodeInvalidBarcode {
		t.Errorf("error code = %s, want INVALID_BARCODE", code)
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times for an invalid barcode", provider.calls)
	}
}

// TestScanProductNotFound tests the terminal not-found outcome.
func TestScanProductNotFound(t *testing.T) {
	svc := newTestService(&fakeProvider{}, newFakeCache(), nil)

	_, err := svc.Scan(context.Background(), "u1", domain.TierFree, "96385074")
	if err == nil {
		t.Fatal("expected an error")
	}
	appErr := apperr.AsAppError(err)
	if appErr.Code != apperr.CodeProductNotFound {
		t.Errorf("error code = %s, want PRODUCT_NOT_FOUND", appErr.Code)
	}
	if appErr.Status != 404 {
		t.Errorf("status = %d, want 404", appErr.Status)
	}
}

// ctxProvider fails the way a transport would once the context is cancelled.
type ctxProvider struct{}

func (ctxProvider) Name() domain.ProviderName { return domain.ProviderOpenFoodFacts }

func (ctxProvider) Fetch(ctx context.Context, barcode string) (*domain.RawProviderRecord, error) {
	return nil, ctx.Err()
}

// TestScanCancelledContextIsNotNotFound tests that a cancelled resolution
// surfaces as a cancellation, not as a terminal product miss. Provider
// errors are demoted to not-found inside the resolver, so without the
// context check every caller sharing the flight would get a spurious 404.
func TestScanCancelledContextIsNotNotFound(t *testing.T) {
	res := resolver.NewService(ctxProvider{}, nil, nil)
	svc := NewService(res, &fakeAllergen{}, newFakeCache(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Scan(ctx, "u1", domain.TierFree, "96385074")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if apperr.AsAppError(err).Code == apperr.CodeProductNotFound {
		t.Error("cancellation surfaced as PRODUCT_NOT_FOUND")
	}
}

// TestScanFullPipeline tests a complete scan: score, additives, cache write,
// per-user allergens.
func TestScanFullPipeline(t *testing.T) {
	provider := &fakeProvider{records: map[string]*domain.RawProviderRecord{"4902430735063": knownRecord()}}
	cache := newFakeCache()
	svc := newTestService(provider, cache, &fakeRecall{})

	result, err := svc.Scan(context.Background(), "allergic", domain.TierFree, "4902430735063")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Name != "Milk Chocolate" {
		t.Errorf("name = %q", result.Name)
	}
	if result.HealthScore == nil || result.HealthScore.Grade == domain.GradeUnknown {
		t.Errorf("health score = %+v, want a scored grade", result.HealthScore)
	}
	if len(result.Allergens) != 1 {
		t.Errorf("allergens = %+v, want the caller's milk warning", result.Allergens)
	}
	if cache.sets != 1 {
		t.Errorf("cache writes = %d, want 1", cache.sets)
	}
	if len(result.MissingData) == 0 {
		t.Error("expected missing nutrient keys to be reported")
	}
}

// TestScanCacheHitPersonalizes tests that a cache hit skips resolution but
// still personalizes allergens for the caller.
func TestScanCacheHitPersonalizes(t *testing.T) {
	provider := &fakeProvider{records: map[string]*domain.RawProviderRecord{"4902430735063": knownRecord()}}
	cache := newFakeCache()
	svc := newTestService(provider, cache, nil)
	ctx := context.Background()

	// Prime the cache with a caller who has no allergen hits.
	first, err := svc.Scan(ctx, "u1", domain.TierFree, "4902430735063")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Allergens) != 0 {
		t.Errorf("first caller allergens = %+v, want none", first.Allergens)
	}
	callsAfterFirst := provider.calls

	// Second caller hits the cache but gets their own warnings.
	second, err := svc.Scan(ctx, "allergic", domain.TierFree, "4902430735063")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != callsAfterFirst {
		t.Errorf("provider calls = %d after cache hit, want %d", provider.calls, callsAfterFirst)
	}
	if len(second.Allergens) != 1 {
		t.Errorf("second caller allergens = %+v, want the milk warning", second.Allergens)
	}
	if len(first.Allergens) != 0 {
		t.Errorf("first result mutated by the second scan: %+v", first.Allergens)
	}
}

// TestScanCacheErrorDegrades tests that a failing cache read falls back to
// resolution instead of failing the scan.
func TestScanCacheErrorDegrades(t *testing.T) {
	provider := &fakeProvider{records: map[string]*domain.RawProviderRecord{"4902430735063": knownRecord()}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")
	svc := newTestService(provider, cache, nil)

	result, err := svc.Scan(context.Background(), "u1", domain.TierFree, "4902430735063")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Name != "Milk Chocolate" {
		t.Errorf("name = %q, want the resolved product", result.Name)
	}
}

// TestScanRecallFailureDegrades tests that a recall checker error never
// fails the scan.
func TestScanRecallFailureDegrades(t *testing.T) {
	provider := &fakeProvider{records: map[string]*domain.RawProviderRecord{"4902430735063": knownRecord()}}
	svc := newTestService(provider, newFakeCache(), &fakeRecall{err: errors.New("recall api down")})

	result, err := svc.Scan(context.Background(), "u1", domain.TierFree, "4902430735063")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Recall != nil {
		t.Errorf("recall = %+v, want nil on checker failure", result.Recall)
	}
}

// TestScanRecallAttached tests that recall info rides along on the result.
func TestScanRecallAttached(t *testing.T) {
	provider := &fakeProvider{records: map[string]*domain.RawProviderRecord{"4902430735063": knownRecord()}}
	recall := &fakeRecall{info: &domain.RecallInfo{Recalled: true, Reason: "undeclared peanut", Agency: "FDA"}}
	svc := newTestService(provider, newFakeCache(), recall)

	result, err := svc.Scan(context.Background(), "u1", domain.TierFree, "4902430735063")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Recall == nil || !result.Recall.Recalled {
		t.Errorf("recall = %+v, want the checker's info", result.Recall)
	}
}

// TestScanInsufficientData tests the unscored sentinel path.
func TestScanInsufficientData(t *testing.T) {
	thin := &domain.RawProviderRecord{
		Provider: domain.ProviderOpenFoodFacts,
		Name:     "Mystery Item",
	}
	provider := &fakeProvider{records: map[string]*domain.RawProviderRecord{"96385074": thin}}
	svc := newTestService(provider, newFakeCache(), nil)

	result, err := svc.Scan(context.Background(), "u1", domain.TierFree, "96385074")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.HealthScore == nil || result.HealthScore.Grade != domain.GradeUnknown {
		t.Errorf("health score = %+v, want the ? sentinel", result.HealthScore)
	}
	if result.HealthScore.Status != domain.StatusInsufficientData {
		t.Errorf("status = %q", result.HealthScore.Status)
	}
	if len(result.Additives) != 0 {
		t.Errorf("additives = %v, want none on the sentinel path", result.Additives)
	}
}
