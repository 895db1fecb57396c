package resolver

import (
	"context"
	"time"

	"scan_server/core/domain"
	"scan_server/core/port/out"
	"scan_server/pkg/logger"
)

// =============================================================================
// Multi-Source Resolver
// =============================================================================
//
// Resolution order: the primary provider is tried across every barcode
// candidate; supplementary providers are only consulted while the
// accumulated record is still missing a required nutrient (sugar, sodium or
// energy). Fields merge first-non-null-wins: a provider only ever fills
// gaps left by higher-priority providers.

// DefaultProviderTimeout bounds a single provider call.
const DefaultProviderTimeout = 8 * time.Second

// Config holds resolver settings.
type Config struct {
	ProviderTimeout time.Duration
}

// Service resolves a barcode against an ordered provider list.
type Service struct {
	primary       out.ProductProvider
	supplementary []out.ProductProvider
	timeout       time.Duration
	log           *logger.Logger
}

// NewService creates a resolver. The first provider is the primary open
// catalog; the rest are supplementary, consulted in the given order.
func NewService(primary out.ProductProvider, supplementary []out.ProductProvider, cfg *Config) *Service {
	timeout := DefaultProviderTimeout
	if cfg != nil && cfg.ProviderTimeout > 0 {
		timeout = cfg.ProviderTimeout
	}
	return &Service{
		primary:       primary,
		supplementary: supplementary,
		timeout:       timeout,
		log:           logger.WithField("component", "resolver"),
	}
}

// Resolve fetches and merges provider records for a scanned barcode.
// Returns (nil, nil) when no provider produced a record with a name:
// "product not found" is the only terminal negative outcome and it is not
// an error.
func (s *Service) Resolve(ctx context.Context, barcode string) (*domain.MergedProduct, error) {
	candidates := NormalizeBarcode(barcode)

	acc := &domain.MergedProduct{Barcode: barcode}

	// Primary provider: first candidate that yields a named record wins.
	if record := s.fetchAnyCandidate(ctx, s.primary, candidates); record != nil {
		mergeRecord(acc, record)
	}

	// Supplementary providers fill remaining nutrient gaps only.
	for _, provider := range s.supplementary {
		if acc.HasRequiredNutrients() {
			break
		}
		if record := s.fetchAnyCandidate(ctx, provider, candidates); record != nil {
			mergeRecord(acc, record)
		}
	}

	if acc.Name == "" {
		return nil, nil
	}
	return acc, nil
}

// fetchAnyCandidate tries every barcode candidate against one provider,
// stopping at the first named record. Provider errors are logged and
// treated as not-found; they never abort resolution.
func (s *Service) fetchAnyCandidate(ctx context.Context, provider out.ProductProvider, candidates []string) *domain.RawProviderRecord {
	for _, candidate := range candidates {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		record, err := provider.Fetch(callCtx, candidate)
		cancel()

		if err != nil {
			s.log.WithError(err).Warn("provider %s failed for barcode %s", provider.Name(), candidate)
			continue
		}
		if record != nil && record.Name != "" {
			return record
		}
	}
	return nil
}

// =============================================================================
// Field Merge (first-non-null-wins)
// =============================================================================

// mergeRecord folds one provider record into the accumulator. Scalar fields
// and every nutrient key are only written when still unset; provenance is
// appended de-duplicated.
func mergeRecord(acc *domain.MergedProduct, record *domain.RawProviderRecord) {
	if acc.Name == "" {
		acc.Name = record.Name
	}
	if acc.Brand == "" {
		acc.Brand = record.Brand
	}
	if acc.IngredientsText == "" {
		acc.IngredientsText = record.IngredientsText
	}
	if acc.ImageURL == "" {
		acc.ImageURL = record.ImageURL
	}
	if acc.Categories == "" {
		acc.Categories = record.Categories
	}
	if acc.NutriScore == "" {
		acc.NutriScore = record.NutriScore
	}
	if acc.NovaLevel == nil {
		acc.NovaLevel = record.NovaLevel
	}
	if len(acc.Tags) == 0 {
		acc.Tags = record.Tags
	}
	if len(acc.Labels) == 0 {
		acc.Labels = record.Labels
	}

	mergeNutrients(&acc.Nutrients, &record.Nutrients)

	source := string(record.Provider)
	for _, existing := range acc.Sources {
		if existing == source {
			return
		}
	}
	acc.Sources = append(acc.Sources, source)
}

func mergeNutrients(acc, in *domain.NutrientProfile) {
	if acc.Energy == nil {
		acc.Energy = in.Energy
	}
	if acc.Sugar == nil {
		acc.Sugar = in.Sugar
	}
	if acc.SaturatedFat == nil {
		acc.SaturatedFat = in.SaturatedFat
	}
	if acc.Sodium == nil {
		acc.Sodium = in.Sodium
	}
	if acc.Fiber == nil {
		acc.Fiber = in.Fiber
	}
	if acc.Protein == nil {
		acc.Protein = in.Protein
	}
	if acc.Carbohydrate == nil {
		acc.Carbohydrate = in.Carbohydrate
	}
	if acc.Fat == nil {
		acc.Fat = in.Fat
	}
}
