package out

import (
	"context"

	"scan_server/core/domain"
)

// AllergenProfileRepository is the outbound port for allergen profile
// persistence. Profiles are stored per user as an ordered list; the default
// profile sorts first.
type AllergenProfileRepository interface {
	List(ctx context.Context, userID string) ([]*domain.AllergenProfile, error)
	Get(ctx context.Context, userID, profileID string) (*domain.AllergenProfile, error)
	Create(ctx context.Context, userID string, profile *domain.AllergenProfile) error
	Update(ctx context.Context, userID string, profile *domain.AllergenProfile) error
	Delete(ctx context.Context, userID, profileID string) error
}
