// Package scoring computes the deterministic health score for a merged
// product record.
package scoring

// =============================================================================
// Scoring Thresholds
// =============================================================================
//
// All values are per 100g for solids and per 100ml for liquids. Tables are
// evaluated top tier first; the first tier that applies wins.

// Base scores.
const (
	BaseScore          = 100
	CondimentBaseScore = 85
)

// Nutri-Score seed: when the provider supplies a front-of-pack grade the
// base score is replaced by its band value.
var nutriScoreSeed = map[string]int{
	"a": 100,
	"b": 85,
	"c": 70,
	"d": 55,
	"e": 40,
}

// NOVA processing-level penalties.
var novaPenalty = map[int]int{
	4: -20,
	3: -10,
	2: -5,
	1: 0,
}

// penaltyTier is one row of a threshold table.
type penaltyTier struct {
	Above   float64
	Penalty int
}

// Sugar penalties (g/100g solid, g/100ml liquid).
var (
	sugarTiersSolid = []penaltyTier{
		{Above: 22.5, Penalty: -40},
		{Above: 15, Penalty: -30},
		{Above: 10, Penalty: -20},
		{Above: 5, Penalty: -10},
	}
	sugarTiersLiquid = []penaltyTier{
		{Above: 11, Penalty: -40},
		{Above: 8, Penalty: -30},
		{Above: 4.5, Penalty: -20},
		{Above: 1.5, Penalty: -10},
	}
)

// Sodium penalties (mg/100g solid, mg/100ml liquid).
var (
	sodiumTiersSolid = []penaltyTier{
		{Above: 1000, Penalty: -35},
		{Above: 600, Penalty: -25},
		{Above: 400, Penalty: -15},
		{Above: 140, Penalty: -5},
	}
	sodiumTiersLiquid = []penaltyTier{
		{Above: 600, Penalty: -35},
		{Above: 300, Penalty: -25},
		{Above: 100, Penalty: -15},
		{Above: 40, Penalty: -5},
	}
)

// Saturated fat penalties, solids only (g/100g).
var satFatTiersSolid = []penaltyTier{
	{Above: 10, Penalty: -35},
	{Above: 5, Penalty: -25},
	{Above: 3, Penalty: -15},
	{Above: 1.5, Penalty: -5},
}

// Bonuses, capped at +20 total.
const (
	BonusCap = 20

	BonusFiberHigh   = 8 // fiber > 6g
	BonusFiberSome   = 4 // fiber > 3g
	BonusProteinHigh = 7 // protein > 10g
	BonusProteinSome = 3 // protein > 5g
	BonusWholeGrain  = 5
	BonusOrganic     = 3
)

// Condiment path constants.
const (
	CondimentMaxEnergy      = 10   // kcal/100
	CondimentMaxIngredients = 10   // ingredient count
	CondimentMaxSodium      = 500  // mg/100
	CondimentSodiumLimit    = 1000 // mg, -20 above this
	CondimentSodiumPenalty  = -20
	CondimentOrganicBonus   = 10
)

// Safety override: grossly high sugar or saturated fat caps the score
// regardless of bonuses.
const (
	OverrideSugarAbove  = 30.0 // g/100g
	OverrideSatFatAbove = 10.0 // g/100g, solid units
	OverrideScore       = 30
)

// tierPenalty returns the penalty of the first tier the value exceeds.
func tierPenalty(tiers []penaltyTier, value float64) int {
	for _, tier := range tiers {
		if value > tier.Above {
			return tier.Penalty
		}
	}
	return 0
}

// =============================================================================
// Keyword Sets
// =============================================================================

// liquidKeywords classify a product as liquid from category text or name.
var liquidKeywords = []string{
	"beverage", "beverages", "boissons", "drink", "juice", "soda", "water",
	"milk", "cola", "tea", "coffee", "smoothie", "lemonade", "nectar",
}

var wholeGrainKeywords = []string{
	"whole grain", "whole-grain", "whole wheat", "wholemeal", "whole oat",
	"whole rye", "brown rice",
}

var organicKeywords = []string{"organic", "bio", "biologique"}

// ultraProcessedMarkers feed the NOVA heuristic when the provider does not
// supply a processing level.
var ultraProcessedMarkers = []string{
	"maltodextrin", "hydrogenated", "hydrolysed", "hydrolyzed", "isolate",
	"flavoring", "flavouring", "emulsifier", "stabilizer", "stabiliser",
	"thickener", "aspartame", "sucralose", "corn syrup", "glucose syrup",
	"modified starch", "dextrose",
}
