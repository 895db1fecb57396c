package allergen

import (
	"context"
	"time"

	"scan_server/core/domain"
	"scan_server/core/port/out"
	"scan_server/pkg/apperr"
	"scan_server/pkg/logger"

	"github.com/google/uuid"
)

// =============================================================================
// Allergen Profile Service
// =============================================================================

// Tier quotas: total profiles allowed per user, default profile included.
var profileQuota = map[domain.Tier]int{
	domain.TierFree: 1,
	domain.TierPlus: 3,
	domain.TierPro:  6,
}

// Service implements the allergen use case: profile CRUD with tier quotas
// plus detection across profiles.
type Service struct {
	repo  out.AllergenProfileRepository
	clock func() time.Time
	log   *logger.Logger
}

// NewService creates an allergen service. A nil clock defaults to time.Now.
func NewService(repo out.AllergenProfileRepository, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:  repo,
		clock: clock,
		log:   logger.WithField("component", "allergen"),
	}
}

// ListProfiles returns the user's profiles, creating the default "user"
// profile on first access.
func (s *Service) ListProfiles(ctx context.Context, userID string) ([]*domain.AllergenProfile, error) {
	profiles, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperr.DatabaseError("list allergen profiles", err)
	}

	for _, profile := range profiles {
		if profile.IsDefault {
			return profiles, nil
		}
	}

	// First access: materialize the default profile.
	defaultProfile := &domain.AllergenProfile{
		ID:        domain.DefaultProfileID,
		Name:      "My Allergens",
		IsDefault: true,
		Allergens: []string{},
		CreatedAt: s.clock(),
	}
	if err := s.repo.Create(ctx, userID, defaultProfile); err != nil {
		return nil, apperr.DatabaseError("create default allergen profile", err)
	}
	return append([]*domain.AllergenProfile{defaultProfile}, profiles...), nil
}

// CreateProfile adds a family-member profile, enforcing the tier quota.
func (s *Service) CreateProfile(ctx context.Context, userID string, tier domain.Tier, name string, allergens []string) (*domain.AllergenProfile, error) {
	if name == "" {
		return nil, apperr.MissingField("name")
	}

	profiles, err := s.ListProfiles(ctx, userID)
	if err != nil {
		return nil, err
	}

	quota := profileQuota[tier]
	if quota == 0 {
		quota = profileQuota[domain.TierFree]
	}
	if len(profiles) >= quota {
		return nil, apperr.QuotaExceeded("allergen profiles", quota)
	}

	profile := &domain.AllergenProfile{
		ID:        uuid.NewString(),
		Name:      name,
		IsDefault: false,
		Allergens: normalizeAllergenIDs(allergens),
		CreatedAt: s.clock(),
	}
	if err := s.repo.Create(ctx, userID, profile); err != nil {
		return nil, apperr.DatabaseError("create allergen profile", err)
	}
	return profile, nil
}

// UpdateProfile renames a profile and/or replaces its allergen set. The
// default profile can be updated but keeps its id and default flag.
func (s *Service) UpdateProfile(ctx context.Context, userID, profileID, name string, allergens []string) (*domain.AllergenProfile, error) {
	profile, err := s.repo.Get(ctx, userID, profileID)
	if err != nil {
		return nil, apperr.DatabaseError("load allergen profile", err)
	}
	if profile == nil {
		return nil, apperr.NotFound("allergen profile")
	}

	if name != "" {
		profile.Name = name
	}
	if allergens != nil {
		profile.Allergens = normalizeAllergenIDs(allergens)
	}

	if err := s.repo.Update(ctx, userID, profile); err != nil {
		return nil, apperr.DatabaseError("update allergen profile", err)
	}
	return profile, nil
}

// DeleteProfile removes a family-member profile. The default profile is
// protected.
func (s *Service) DeleteProfile(ctx context.Context, userID, profileID string) error {
	if profileID == domain.DefaultProfileID {
		return apperr.Forbidden("the default profile cannot be deleted")
	}

	profile, err := s.repo.Get(ctx, userID, profileID)
	if err != nil {
		return apperr.DatabaseError("load allergen profile", err)
	}
	if profile == nil {
		return apperr.NotFound("allergen profile")
	}
	if profile.IsDefault {
		return apperr.Forbidden("the default profile cannot be deleted")
	}

	if err := s.repo.Delete(ctx, userID, profileID); err != nil {
		return apperr.DatabaseError("delete allergen profile", err)
	}
	return nil
}

// DetectAll runs detection per profile and returns only profiles that
// produced at least one warning, keyed by profile id.
func (s *Service) DetectAll(ctx context.Context, userID string, tier domain.Tier, product *domain.MergedProduct) (map[string][]domain.AllergenWarning, error) {
	profiles, err := s.ListProfiles(ctx, userID)
	if err != nil {
		return nil, err
	}

	detected := make(map[string][]domain.AllergenWarning)
	for _, profile := range profiles {
		warnings := DetectForProfile(profile, product, tier)
		if len(warnings) > 0 {
			detected[profile.ID] = warnings
		}
	}
	return detected, nil
}

// SafeForEveryone reports whether no profile produced a warning.
func (s *Service) SafeForEveryone(ctx context.Context, userID string, tier domain.Tier, product *domain.MergedProduct) (bool, error) {
	detected, err := s.DetectAll(ctx, userID, tier, product)
	if err != nil {
		return false, err
	}
	return len(detected) == 0, nil
}

// normalizeAllergenIDs drops ids that are not in the catalog, preserving
// order and uniqueness.
func normalizeAllergenIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	normalized := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if _, ok := CatalogByID[id]; !ok {
			continue
		}
		seen[id] = true
		normalized = append(normalized, id)
	}
	return normalized
}
