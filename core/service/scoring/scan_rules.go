package scoring

import (
	"fmt"
	"strings"

	"scan_server/core/domain"
	"scan_server/core/service/ingredient"
)

// =============================================================================
// Rule Pipeline
// =============================================================================
//
// Penalties and bonuses are expressed as an ordered list of pure rule
// functions folded left to right into the running score. Evaluation order is
// load-bearing: the condiment short-circuit and the safety override both
// depend on it.

// productContext is the normalized input shared by every rule.
type productContext struct {
	product         *domain.MergedProduct
	detector        ingredient.Result
	isLiquid        bool
	ingredientCount int
	searchText      string // lowercase name + categories + labels
	novaLevel       int
}

// rule inspects the context and returns a score delta plus an optional
// warning.
type rule func(ctx *productContext) (delta int, warning *domain.Warning)

// penaltyRules run in order after the base score is established.
var penaltyRules = []rule{
	novaRule,
	sugarRule,
	sodiumRule,
	saturatedFatRule,
	detectorRule,
}

func novaRule(ctx *productContext) (int, *domain.Warning) {
	penalty := novaPenalty[ctx.novaLevel]
	if ctx.novaLevel == 4 {
		return penalty, &domain.Warning{
			Title:       "Ultra-processed",
			Description: "NOVA group 4: ultra-processed food",
			Severity:    domain.SeverityHigh,
		}
	}
	if ctx.novaLevel == 3 {
		return penalty, &domain.Warning{
			Title:       "Processed",
			Description: "NOVA group 3: processed food",
			Severity:    domain.SeverityMedium,
		}
	}
	return penalty, nil
}

func sugarRule(ctx *productContext) (int, *domain.Warning) {
	sugar := deref(ctx.product.Nutrients.Sugar)
	tiers := sugarTiersSolid
	unit := "100g"
	if ctx.isLiquid {
		tiers = sugarTiersLiquid
		unit = "100ml"
	}

	penalty := tierPenalty(tiers, sugar)
	switch {
	case penalty <= -30:
		return penalty, &domain.Warning{
			Title:       "Very high sugar",
			Description: fmt.Sprintf("%.1fg sugar per %s", sugar, unit),
			Severity:    domain.SeverityHigh,
		}
	case penalty <= -10:
		return penalty, &domain.Warning{
			Title:       "High sugar",
			Description: fmt.Sprintf("%.1fg sugar per %s", sugar, unit),
			Severity:    domain.SeverityMedium,
		}
	}
	return penalty, nil
}

func sodiumRule(ctx *productContext) (int, *domain.Warning) {
	sodium := deref(ctx.product.Nutrients.Sodium)
	tiers := sodiumTiersSolid
	unit := "100g"
	if ctx.isLiquid {
		tiers = sodiumTiersLiquid
		unit = "100ml"
	}

	penalty := tierPenalty(tiers, sodium)
	switch {
	case penalty <= -25:
		return penalty, &domain.Warning{
			Title:       "Very high sodium",
			Description: fmt.Sprintf("%.0fmg sodium per %s", sodium, unit),
			Severity:    domain.SeverityHigh,
		}
	case penalty <= -5:
		return penalty, &domain.Warning{
			Title:       "High sodium",
			Description: fmt.Sprintf("%.0fmg sodium per %s", sodium, unit),
			Severity:    domain.SeverityMedium,
		}
	}
	return penalty, nil
}

// saturatedFatRule applies to solids only; beverage saturated fat is already
// covered by the liquid sugar/sodium tables in practice.
func saturatedFatRule(ctx *productContext) (int, *domain.Warning) {
	if ctx.isLiquid {
		return 0, nil
	}
	satFat := deref(ctx.product.Nutrients.SaturatedFat)
	penalty := tierPenalty(satFatTiersSolid, satFat)
	if penalty <= -25 {
		return penalty, &domain.Warning{
			Title:       "Very high saturated fat",
			Description: fmt.Sprintf("%.1fg saturated fat per 100g", satFat),
			Severity:    domain.SeverityHigh,
		}
	}
	if penalty <= -5 {
		return penalty, &domain.Warning{
			Title:       "High saturated fat",
			Description: fmt.Sprintf("%.1fg saturated fat per 100g", satFat),
			Severity:    domain.SeverityMedium,
		}
	}
	return penalty, nil
}

func detectorRule(ctx *productContext) (int, *domain.Warning) {
	return -ctx.detector.Penalty, nil
}

// =============================================================================
// Bonuses
// =============================================================================

// bonusTotal returns the summed bonuses, capped at BonusCap.
func bonusTotal(ctx *productContext) int {
	total := 0

	fiber := deref(ctx.product.Nutrients.Fiber)
	switch {
	case fiber > 6:
		total += BonusFiberHigh
	case fiber > 3:
		total += BonusFiberSome
	}

	protein := deref(ctx.product.Nutrients.Protein)
	switch {
	case protein > 10:
		total += BonusProteinHigh
	case protein > 5:
		total += BonusProteinSome
	}

	if containsAny(ctx.searchText, wholeGrainKeywords) {
		total += BonusWholeGrain
	}
	if containsAny(ctx.searchText, organicKeywords) {
		total += BonusOrganic
	}

	if total > BonusCap {
		total = BonusCap
	}
	return total
}

// =============================================================================
// Classification Helpers
// =============================================================================

// isLiquidProduct classifies the unit (100ml vs 100g) from category text and
// product name.
func isLiquidProduct(product *domain.MergedProduct) bool {
	text := strings.ToLower(product.Categories + " " + product.Name)
	return containsAny(text, liquidKeywords)
}

// countIngredients splits the ingredients text on list punctuation.
func countIngredients(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	count := 0
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	return count
}

// estimateNovaLevel is the heuristic used when no provider supplied a NOVA
// level: ingredient count plus ultra-processed marker terms or E-numbers.
func estimateNovaLevel(product *domain.MergedProduct, additiveCount int) int {
	text := strings.ToLower(product.IngredientsText)
	count := countIngredients(text)
	hasMarkers := containsAny(text, ultraProcessedMarkers) || additiveCount > 0

	switch {
	case hasMarkers && count >= 5:
		return 4
	case hasMarkers || count > 10:
		return 3
	case count > 3:
		return 2
	default:
		return 1
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
