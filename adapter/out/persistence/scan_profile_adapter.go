package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"scan_server/core/domain"
	"scan_server/core/port/out"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
)

// AllergenProfileAdapter implements AllergenProfileRepository
type AllergenProfileAdapter struct {
	db *sqlx.DB
}

// NewAllergenProfileAdapter creates a new AllergenProfileAdapter
func NewAllergenProfileAdapter(db *sqlx.DB) *AllergenProfileAdapter {
	return &AllergenProfileAdapter{db: db}
}

// Ensure AllergenProfileAdapter implements AllergenProfileRepository
var _ out.AllergenProfileRepository = (*AllergenProfileAdapter)(nil)

// profileRow represents the database row
type profileRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	IsDefault bool      `db:"is_default"`
	Allergens []byte    `db:"allergens"` // JSONB
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// List retrieves all profiles for a user, default profile first.
func (a *AllergenProfileAdapter) List(ctx context.Context, userID string) ([]*domain.AllergenProfile, error) {
	query := `
		SELECT id, user_id, name, is_default, allergens, created_at, updated_at
		FROM allergen_profiles
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at ASC
	`

	var rows []profileRow
	if err := a.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, err
	}

	profiles := make([]*domain.AllergenProfile, 0, len(rows))
	for i := range rows {
		profile, err := rowToProfile(&rows[i])
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// Get retrieves one profile by id, or nil when it does not exist.
func (a *AllergenProfileAdapter) Get(ctx context.Context, userID, profileID string) (*domain.AllergenProfile, error) {
	query := `
		SELECT id, user_id, name, is_default, allergens, created_at, updated_at
		FROM allergen_profiles
		WHERE user_id = $1 AND id = $2
	`

	var row profileRow
	err := a.db.QueryRowxContext(ctx, query, userID, profileID).StructScan(&row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found, return nil without error
		}
		return nil, err
	}

	return rowToProfile(&row)
}

// Create inserts a new profile.
func (a *AllergenProfileAdapter) Create(ctx context.Context, userID string, profile *domain.AllergenProfile) error {
	allergensJSON, err := json.Marshal(profile.Allergens)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO allergen_profiles (id, user_id, name, is_default, allergens, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	_, err = a.db.ExecContext(
		ctx, query,
		profile.ID,
		userID,
		profile.Name,
		profile.IsDefault,
		allergensJSON,
		profile.CreatedAt,
	)
	return err
}

// Update replaces a profile's name and allergen set.
func (a *AllergenProfileAdapter) Update(ctx context.Context, userID string, profile *domain.AllergenProfile) error {
	allergensJSON, err := json.Marshal(profile.Allergens)
	if err != nil {
		return err
	}

	query := `
		UPDATE allergen_profiles
		SET name = $3, allergens = $4, updated_at = NOW()
		WHERE user_id = $1 AND id = $2
	`

	result, err := a.db.ExecContext(ctx, query, userID, profile.ID, profile.Name, allergensJSON)
	if err != nil {
		return err
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a profile.
func (a *AllergenProfileAdapter) Delete(ctx context.Context, userID, profileID string) error {
	query := `DELETE FROM allergen_profiles WHERE user_id = $1 AND id = $2`
	_, err := a.db.ExecContext(ctx, query, userID, profileID)
	return err
}

// rowToProfile converts database row to domain model
func rowToProfile(row *profileRow) (*domain.AllergenProfile, error) {
	var allergens []string
	if len(row.Allergens) > 0 {
		if err := json.Unmarshal(row.Allergens, &allergens); err != nil {
			return nil, err
		}
	}
	if allergens == nil {
		allergens = []string{}
	}

	return &domain.AllergenProfile{
		ID:        row.ID,
		Name:      row.Name,
		IsDefault: row.IsDefault,
		Allergens: allergens,
		CreatedAt: row.CreatedAt,
	}, nil
}
