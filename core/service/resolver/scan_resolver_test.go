package resolver

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"scan_server/core/domain"
	"scan_server/core/port/out"
)

// fakeProvider serves canned records keyed by barcode candidate and records
// which candidates were asked for.
type fakeProvider struct {
	name    domain.ProviderName
	records map[string]*domain.RawProviderRecord
	err     error
	calls   []string
}

func (f *fakeProvider) Name() domain.ProviderName { return f.name }

func (f *fakeProvider) Fetch(ctx context.Context, barcode string) (*domain.RawProviderRecord, error) {
	f.calls = append(f.calls, barcode)
	if f.err != nil {
		return nil, f.err
	}
	return f.records[barcode], nil
}

func f64(v float64) *float64 { return &v }

func fullRecord(provider domain.ProviderName, name string) *domain.RawProviderRecord {
	return &domain.RawProviderRecord{
		Provider: provider,
		Name:     name,
		Brand:    "Brand",
		Nutrients: domain.NutrientProfile{
			Energy: f64(250),
			Sugar:  f64(12),
			Sodium: f64(300),
		},
	}
}

// TestResolvePrimaryOnly tests that supplementary providers are skipped once
// the primary record carries all required nutrients.
func TestResolvePrimaryOnly(t *testing.T) {
	primary := &fakeProvider{
		name:    domain.ProviderOpenFoodFacts,
		records: map[string]*domain.RawProviderRecord{"4902430735063": fullRecord(domain.ProviderOpenFoodFacts, "Chocolate Bar")},
	}
	supplementary := &fakeProvider{name: domain.ProviderUSDA}

	svc := NewService(primary, []out.ProductProvider{supplementary}, nil)

	product, err := svc.Resolve(context.Background(), "4902430735063")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product == nil {
		t.Fatal("expected a merged product, got nil")
	}
	if product.Name != "Chocolate Bar" {
		t.Errorf("name = %q, want %q", product.Name, "Chocolate Bar")
	}
	if len(supplementary.calls) != 0 {
		t.Errorf("supplementary provider was called %d times, want 0", len(supplementary.calls))
	}
	if !reflect.DeepEqual(product.Sources, []string{"openfoodfacts"}) {
		t.Errorf("sources = %v, want [openfoodfacts]", product.Sources)
	}
}

// TestResolveCandidateFallback tests that the 13-digit variant of a UPC-A
// barcode is tried when the original is unknown.
func TestResolveCandidateFallback(t *testing.T) {
	primary := &fakeProvider{
		name:    domain.ProviderOpenFoodFacts,
		records: map[string]*domain.RawProviderRecord{"0036000291452": fullRecord(domain.ProviderOpenFoodFacts, "Soup")},
	}

	svc := NewService(primary, nil, nil)

	product, err := svc.Resolve(context.Background(), "036000291452")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product == nil {
		t.Fatal("expected a merged product, got nil")
	}
	if product.Barcode != "036000291452" {
		t.Errorf("barcode = %q, want the original scanned form", product.Barcode)
	}
	want := []string{"036000291452", "0036000291452"}
	if !reflect.DeepEqual(primary.calls, want) {
		t.Errorf("candidate order = %v, want %v", primary.calls, want)
	}
}

// TestResolveSupplementaryFillsGaps tests first-non-null-wins merging: a
// supplementary provider only fills nutrient gaps, never overwrites.
func TestResolveSupplementaryFillsGaps(t *testing.T) {
	primary := &fakeProvider{
		name: domain.ProviderOpenFoodFacts,
		records: map[string]*domain.RawProviderRecord{"4902430735063": {
			Provider:        domain.ProviderOpenFoodFacts,
			Name:            "Crackers",
			IngredientsText: "wheat flour, salt",
			Nutrients: domain.NutrientProfile{
				Sugar: f64(3),
				// sodium and energy missing
			},
		}},
	}
	supplementary := &fakeProvider{
		name: domain.ProviderUSDA,
		records: map[string]*domain.RawProviderRecord{"4902430735063": {
			Provider: domain.ProviderUSDA,
			Name:     "CRACKERS, SALTED",
			Brand:    "Acme",
			Nutrients: domain.NutrientProfile{
				Energy: f64(430),
				Sugar:  f64(99), // must not overwrite the primary's value
				Sodium: f64(700),
			},
		}},
	}

	svc := NewService(primary, []out.ProductProvider{supplementary}, nil)

	product, err := svc.Resolve(context.Background(), "4902430735063")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Name != "Crackers" {
		t.Errorf("name = %q, want the primary's %q", product.Name, "Crackers")
	}
	if product.Brand != "Acme" {
		t.Errorf("brand = %q, want gap-filled %q", product.Brand, "Acme")
	}
	if got := *product.Nutrients.Sugar; got != 3 {
		t.Errorf("sugar = %v, want the primary's 3", got)
	}
	if product.Nutrients.Sodium == nil || *product.Nutrients.Sodium != 700 {
		t.Errorf("sodium = %v, want gap-filled 700", product.Nutrients.Sodium)
	}
	if !reflect.DeepEqual(product.Sources, []string{"openfoodfacts", "usda"}) {
		t.Errorf("sources = %v, want both providers in order", product.Sources)
	}
}

// TestResolveProviderErrorIsNotFound tests that a failing provider is
// treated as not-found rather than aborting resolution.
func TestResolveProviderErrorIsNotFound(t *testing.T) {
	primary := &fakeProvider{
		name: domain.ProviderOpenFoodFacts,
		err:  errors.New("connection refused"),
	}
	supplementary := &fakeProvider{
		name:    domain.ProviderUSDA,
		records: map[string]*domain.RawProviderRecord{"96385074": fullRecord(domain.ProviderUSDA, "Rescue Product")},
	}

	svc := NewService(primary, []out.ProductProvider{supplementary}, nil)

	product, err := svc.Resolve(context.Background(), "96385074")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product == nil {
		t.Fatal("expected the supplementary provider to rescue the scan")
	}
	if product.Name != "Rescue Product" {
		t.Errorf("name = %q, want %q", product.Name, "Rescue Product")
	}
}

// TestResolveNotFound tests that an unknown barcode yields (nil, nil).
func TestResolveNotFound(t *testing.T) {
	primary := &fakeProvider{name: domain.ProviderOpenFoodFacts}
	supplementary := &fakeProvider{name: domain.ProviderUSDA}

	svc := NewService(primary, []out.ProductProvider{supplementary}, nil)

	product, err := svc.Resolve(context.Background(), "96385074")
	if err != nil {
		t.Errorf("not-found must not be an error, got %v", err)
	}
	if product != nil {
		t.Errorf("expected nil product, got %+v", product)
	}
}

// TestResolveNamelessRecordIgnored tests that a record without a name never
// terminates the candidate loop.
func TestResolveNamelessRecordIgnored(t *testing.T) {
	primary := &fakeProvider{
		name: domain.ProviderOpenFoodFacts,
		records: map[string]*domain.RawProviderRecord{
			"036000291452":  {Provider: domain.ProviderOpenFoodFacts}, // no name
			"0036000291452": fullRecord(domain.ProviderOpenFoodFacts, "Named"),
		},
	}

	svc := NewService(primary, nil, nil)

	product, err := svc.Resolve(context.Background(), "036000291452")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product == nil || product.Name != "Named" {
		t.Fatalf("expected the named candidate record, got %+v", product)
	}
}
