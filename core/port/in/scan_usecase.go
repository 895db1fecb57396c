package in

import (
	"context"

	"scan_server/core/domain"
)

// ScanUseCase is the inbound port for the scan pipeline.
type ScanUseCase interface {
	// Scan resolves a barcode end to end: cache check, provider resolution,
	// scoring, allergen detection, recall lookup, cache write.
	// Returns a PRODUCT_NOT_FOUND error when no provider knows the barcode.
	Scan(ctx context.Context, userID string, tier domain.Tier, barcode string) (*domain.ScanResult, error)
}

// AllergenUseCase is the inbound port for allergen profile management and
// standalone detection.
type AllergenUseCase interface {
	ListProfiles(ctx context.Context, userID string) ([]*domain.AllergenProfile, error)
	CreateProfile(ctx context.Context, userID string, tier domain.Tier, name string, allergens []string) (*domain.AllergenProfile, error)
	UpdateProfile(ctx context.Context, userID, profileID, name string, allergens []string) (*domain.AllergenProfile, error)
	DeleteProfile(ctx context.Context, userID, profileID string) error

	// DetectAll runs detection for every profile and returns only profiles
	// that produced at least one warning, keyed by profile id.
	DetectAll(ctx context.Context, userID string, tier domain.Tier, product *domain.MergedProduct) (map[string][]domain.AllergenWarning, error)

	// SafeForEveryone reports whether no profile produced a warning.
	SafeForEveryone(ctx context.Context, userID string, tier domain.Tier, product *domain.MergedProduct) (bool, error)
}
