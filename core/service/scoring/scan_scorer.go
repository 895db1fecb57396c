package scoring

import (
	"fmt"
	"strings"

	"scan_server/core/domain"
	"scan_server/core/service/ingredient"
)

// =============================================================================
// Health Scoring Engine
// =============================================================================

// Engine computes health scores. It is a pure function of its inputs: the
// same merged product and detector result always produce an identical
// HealthScore.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score runs the full scoring pipeline for a merged product.
func (e *Engine) Score(product *domain.MergedProduct, detector ingredient.Result) *domain.HealthScore {
	ctx := &productContext{
		product:         product,
		detector:        detector,
		isLiquid:        isLiquidProduct(product),
		ingredientCount: countIngredients(product.IngredientsText),
		searchText:      strings.ToLower(product.Name + " " + product.Categories + " " + strings.Join(product.Labels, " ")),
	}
	ctx.novaLevel = resolveNovaLevel(product, len(detector.Additives))

	var warnings []domain.Warning
	warnings = append(warnings, detector.Warnings...)

	// Condiment short-circuit: near-zero energy, short ingredient list, low
	// sodium. Skips the NOVA/sugar/fat penalties entirely.
	if isCondiment(ctx) {
		return e.scoreCondiment(ctx, warnings)
	}

	score := baseScore(product)
	for _, r := range penaltyRules {
		delta, warning := r(ctx)
		score += delta
		if warning != nil {
			warnings = append(warnings, *warning)
		}
	}

	score += bonusTotal(ctx)
	score = clamp(score)

	// Safety override: grossly high sugar or saturated fat caps the grade
	// no matter what the bonuses earned.
	if !ctx.isLiquid {
		sugar := deref(product.Nutrients.Sugar)
		satFat := deref(product.Nutrients.SaturatedFat)
		if sugar > OverrideSugarAbove || satFat > OverrideSatFatAbove {
			score = OverrideScore
			warnings = append(warnings, domain.Warning{
				Title:       "Nutrition safety limit",
				Description: fmt.Sprintf("Sugar %.1fg or saturated fat %.1fg per 100g exceeds the safety threshold", sugar, satFat),
				Severity:    domain.SeverityCritical,
			})
		}
	}

	return finalize(score, warnings)
}

// scoreCondiment applies the reduced condiment rule set.
func (e *Engine) scoreCondiment(ctx *productContext, warnings []domain.Warning) *domain.HealthScore {
	score := CondimentBaseScore

	if deref(ctx.product.Nutrients.Sodium) > CondimentSodiumLimit {
		score += CondimentSodiumPenalty
		warnings = append(warnings, domain.Warning{
			Title:       "High sodium",
			Description: fmt.Sprintf("%.0fmg sodium per 100g", deref(ctx.product.Nutrients.Sodium)),
			Severity:    domain.SeverityMedium,
		})
	}
	if containsAny(ctx.searchText, organicKeywords) {
		score += CondimentOrganicBonus
	}

	score -= ctx.detector.Penalty
	return finalize(clamp(score), warnings)
}

func isCondiment(ctx *productContext) bool {
	// A missing nutrient value is not a near-zero value. Only products that
	// actually report low energy and sodium qualify for the reduced path.
	n := ctx.product.Nutrients
	if n.Energy == nil || n.Sodium == nil {
		return false
	}
	return *n.Energy < CondimentMaxEnergy &&
		ctx.ingredientCount < CondimentMaxIngredients &&
		*n.Sodium < CondimentMaxSodium
}

// baseScore is 100, or the Nutri-Score seed when the provider supplied a
// front-of-pack grade.
func baseScore(product *domain.MergedProduct) int {
	if seed, ok := nutriScoreSeed[strings.ToLower(product.NutriScore)]; ok {
		return seed
	}
	return BaseScore
}

// resolveNovaLevel prefers the provider-supplied NOVA level; the heuristic
// estimate is only a fallback.
func resolveNovaLevel(product *domain.MergedProduct, additiveCount int) int {
	if product.NovaLevel != nil && *product.NovaLevel >= 1 && *product.NovaLevel <= 4 {
		return *product.NovaLevel
	}
	return estimateNovaLevel(product, additiveCount)
}

func finalize(score int, warnings []domain.Warning) *domain.HealthScore {
	grade, status := GradeForScore(score)
	domain.SortWarnings(warnings)
	return &domain.HealthScore{
		Score:    score,
		Grade:    grade,
		Status:   status,
		Warnings: warnings,
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// =============================================================================
// Output Attributes
// =============================================================================

// PositiveAttributes lists the bonus-worthy qualities of a product for the
// scan output.
func PositiveAttributes(product *domain.MergedProduct) []string {
	text := strings.ToLower(product.Name + " " + product.Categories + " " + strings.Join(product.Labels, " "))

	var attrs []string
	if deref(product.Nutrients.Fiber) > 6 {
		attrs = append(attrs, "High fiber")
	} else if deref(product.Nutrients.Fiber) > 3 {
		attrs = append(attrs, "Source of fiber")
	}
	if deref(product.Nutrients.Protein) > 10 {
		attrs = append(attrs, "High protein")
	} else if deref(product.Nutrients.Protein) > 5 {
		attrs = append(attrs, "Source of protein")
	}
	if containsAny(text, wholeGrainKeywords) {
		attrs = append(attrs, "Whole grain")
	}
	if containsAny(text, organicKeywords) {
		attrs = append(attrs, "Organic")
	}
	return attrs
}

// InsufficientData reports whether the merged record is too thin to score:
// either no non-trivial ingredients text, or neither sugar nor sodium
// reported.
func InsufficientData(product *domain.MergedProduct) bool {
	hasIngredients := len(strings.TrimSpace(product.IngredientsText)) > 10
	hasNutrients := product.Nutrients.Sugar != nil || product.Nutrients.Sodium != nil
	return !hasIngredients || !hasNutrients
}

// InsufficientDataScore is the sentinel result returned instead of running
// the scoring pipeline.
func InsufficientDataScore() *domain.HealthScore {
	return &domain.HealthScore{
		Score:  0,
		Grade:  domain.GradeUnknown,
		Status: domain.StatusInsufficientData,
		Warnings: []domain.Warning{{
			Title:       "Insufficient data",
			Description: "Not enough ingredient or nutrition data to score this product",
			Severity:    domain.SeverityInfo,
		}},
	}
}
