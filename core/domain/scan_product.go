package domain

import "time"

// ProviderName identifies an external nutrition data source.
type ProviderName string

const (
	ProviderOpenFoodFacts ProviderName = "openfoodfacts"
	ProviderUSDA          ProviderName = "usda"
	ProviderNutritionix   ProviderName = "nutritionix"
	ProviderEdamam        ProviderName = "edamam"
)

// NutrientProfile holds per-100g (or per-100ml for liquids) values.
// Pointers distinguish "not reported" from a true zero; the merge logic
// in the resolver depends on that distinction.
type NutrientProfile struct {
	Energy       *float64 `json:"energy,omitempty"`        // kcal
	Sugar        *float64 `json:"sugar,omitempty"`         // g
	SaturatedFat *float64 `json:"saturated_fat,omitempty"` // g
	Sodium       *float64 `json:"sodium,omitempty"`        // mg
	Fiber        *float64 `json:"fiber,omitempty"`         // g
	Protein      *float64 `json:"protein,omitempty"`       // g
	Carbohydrate *float64 `json:"carbohydrate,omitempty"`  // g
	Fat          *float64 `json:"fat,omitempty"`           // g
}

// MissingKeys returns the names of nutrient fields that are still unset.
func (n *NutrientProfile) MissingKeys() []string {
	var missing []string
	if n.Energy == nil {
		missing = append(missing, "energy")
	}
	if n.Sugar == nil {
		missing = append(missing, "sugar")
	}
	if n.SaturatedFat == nil {
		missing = append(missing, "saturated_fat")
	}
	if n.Sodium == nil {
		missing = append(missing, "sodium")
	}
	if n.Fiber == nil {
		missing = append(missing, "fiber")
	}
	if n.Protein == nil {
		missing = append(missing, "protein")
	}
	if n.Carbohydrate == nil {
		missing = append(missing, "carbohydrate")
	}
	if n.Fat == nil {
		missing = append(missing, "fat")
	}
	return missing
}

// RawProviderRecord is one provider's normalized response for a barcode.
// Immutable once fetched; the resolver never mutates it.
type RawProviderRecord struct {
	Provider        ProviderName    `json:"provider"`
	Name            string          `json:"name"`
	Brand           string          `json:"brand"`
	Nutrients       NutrientProfile `json:"nutrients"`
	IngredientsText string          `json:"ingredients_text"`
	ImageURL        string          `json:"image_url"`
	Categories      string          `json:"categories"`
	Tags            []string        `json:"tags"`       // allergen/label tags, locale-prefixed
	Labels          []string        `json:"labels"`     // certification labels (e.g. gluten-free)
	NutriScore      string          `json:"nutri_score"` // "a".."e" when supplied
	NovaLevel       *int            `json:"nova_level"`
}

// MergedProduct is the canonical union of provider records for one barcode.
// Invariant: a field set by an earlier (higher-priority) provider is never
// overwritten by a later one.
type MergedProduct struct {
	Barcode         string          `json:"barcode"`
	Name            string          `json:"name"`
	Brand           string          `json:"brand"`
	Nutrients       NutrientProfile `json:"nutrients"`
	IngredientsText string          `json:"ingredients_text"`
	ImageURL        string          `json:"image_url"`
	Categories      string          `json:"categories"`
	Tags            []string        `json:"tags"`
	Labels          []string        `json:"labels"`
	NutriScore      string          `json:"nutri_score"`
	NovaLevel       *int            `json:"nova_level"`
	Sources         []string        `json:"sources"` // ordered, de-duplicated provenance
}

// HasRequiredNutrients reports whether sugar, sodium and energy are all set.
// Supplementary providers are only consulted while this is false.
func (m *MergedProduct) HasRequiredNutrients() bool {
	return m.Nutrients.Sugar != nil && m.Nutrients.Sodium != nil && m.Nutrients.Energy != nil
}

// RecallInfo is supplied by the external recall checker collaborator.
type RecallInfo struct {
	Recalled bool   `json:"recalled"`
	Reason   string `json:"reason,omitempty"`
	Agency   string `json:"agency,omitempty"`
	Date     string `json:"date,omitempty"`
}

// CachedScan is the persisted cache entry for one barcode. The merged
// product is kept alongside the scored result so cache hits can still run
// per-user allergen detection.
type CachedScan struct {
	Result   *ScanResult    `json:"result"`
	Product  *MergedProduct `json:"product"`
	CachedAt time.Time      `json:"cached_at"`
}

// ScanResult is the composite record returned to the presentation layer.
type ScanResult struct {
	Barcode            string                       `json:"barcode"`
	Name               string                       `json:"name"`
	Brand              string                       `json:"brand,omitempty"`
	Image              string                       `json:"image,omitempty"`
	HealthScore        *HealthScore                 `json:"health_score"`
	Additives          []string                     `json:"additives,omitempty"`
	PositiveAttributes []string                     `json:"positive_attributes,omitempty"`
	Nutrition          NutrientProfile              `json:"nutrition"`
	Allergens          map[string][]AllergenWarning `json:"allergens,omitempty"` // profile id -> warnings
	Sources            []string                     `json:"sources"`
	MissingData        []string                     `json:"missing_data,omitempty"`
	Recall             *RecallInfo                  `json:"recall,omitempty"`
}
