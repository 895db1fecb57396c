package domain

import (
	"sort"
	"time"
)

// Tier is the feature-gating level of a user account.
type Tier string

const (
	TierFree Tier = "free"
	TierPlus Tier = "plus"
	TierPro  Tier = "pro"
)

var tierRank = map[Tier]int{
	TierFree: 0,
	TierPlus: 1,
	TierPro:  2,
}

// Rank returns the ordering of the tier (free < plus < pro). Unknown tiers
// rank as free.
func (t Tier) Rank() int {
	return tierRank[t]
}

// Covers reports whether a user at tier t may access a feature gated at
// required.
func (t Tier) Covers(required Tier) bool {
	return t.Rank() >= required.Rank()
}

// AllergenSeverity ranks a catalog allergen.
type AllergenSeverity string

const (
	AllergenSevere   AllergenSeverity = "severe"
	AllergenModerate AllergenSeverity = "moderate"
	AllergenMild     AllergenSeverity = "mild"
)

var allergenSeverityRank = map[AllergenSeverity]int{
	AllergenSevere:   0,
	AllergenModerate: 1,
	AllergenMild:     2,
}

// Rank returns the sort rank (severe = 0). Unknown severities sort last.
func (s AllergenSeverity) Rank() int {
	if r, ok := allergenSeverityRank[s]; ok {
		return r
	}
	return len(allergenSeverityRank)
}

// DefaultProfileID is the id of the account owner's own profile. It always
// exists and can never be deleted.
const DefaultProfileID = "user"

// AllergenProfile is a named set of tracked allergens belonging to the user
// or one family member.
type AllergenProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	Allergens []string  `json:"allergens"` // allergen catalog ids
	CreatedAt time.Time `json:"created_at"`
}

// AllergenCatalogEntry is read-only reference data describing one allergen.
type AllergenCatalogEntry struct {
	ID          string
	Name        string
	Category    string
	Severity    AllergenSeverity
	Tier        Tier
	Keywords    []string // matched against tags and ingredient text
	Derivatives []string // hidden sources matched against ingredient text
	Labels      []string // certification labels that suppress a match
}

// AllergenMatchMethod says which of the three ordered matchers fired.
type AllergenMatchMethod string

const (
	MatchByTag        AllergenMatchMethod = "tag"
	MatchByKeyword    AllergenMatchMethod = "keyword"
	MatchByDerivative AllergenMatchMethod = "derivative"
)

// AllergenWarning is one detected allergen for one profile.
type AllergenWarning struct {
	AllergenID  string              `json:"allergen_id"`
	Name        string              `json:"name"`
	Severity    AllergenSeverity    `json:"severity"`
	MatchedBy   AllergenMatchMethod `json:"matched_by"`
	MatchedTerm string              `json:"matched_term"`
}

// SortAllergenWarnings orders warnings in place severe -> moderate -> mild,
// stable within a severity.
func SortAllergenWarnings(warnings []AllergenWarning) {
	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Severity.Rank() < warnings[j].Severity.Rank()
	})
}
