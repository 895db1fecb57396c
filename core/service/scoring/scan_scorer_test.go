package scoring

import (
	"reflect"
	"testing"

	"scan_server/core/domain"
	"scan_server/core/service/ingredient"
)

func f64(v float64) *float64 { return &v }

func intp(v int) *int { return &v }

// minimal scoreable product: enough ingredients text plus sugar/sodium.
func scoreableProduct() *domain.MergedProduct {
	return &domain.MergedProduct{
		Barcode:         "4902430735063",
		Name:            "Test Product",
		IngredientsText: "water, rice, beans, carrots",
		Nutrients: domain.NutrientProfile{
			Energy: f64(120),
			Sugar:  f64(2),
			Sodium: f64(50),
		},
	}
}

// TestScoreDeterministic tests that the engine is a pure function of its
// inputs.
func TestScoreDeterministic(t *testing.T) {
	engine := NewEngine()
	product := scoreableProduct()
	product.Nutrients.Sugar = f64(18)
	product.Nutrients.Sodium = f64(700)
	det := ingredient.NewDetector().Detect(product.IngredientsText, product.Name)

	first := engine.Score(product, det)
	for i := 0; i < 5; i++ {
		again := engine.Score(product, det)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, again)
		}
	}
}

// TestScoreBounds tests that the score always lands in [0,100].
func TestScoreBounds(t *testing.T) {
	engine := NewEngine()

	worst := scoreableProduct()
	worst.Nutrients.Sugar = f64(28)
	worst.Nutrients.Sodium = f64(1500)
	worst.Nutrients.SaturatedFat = f64(8)
	worst.NovaLevel = intp(4)
	worst.IngredientsText = "sugar, corn syrup, partially hydrogenated oil, tartrazine, aspartame, sodium nitrite, e319, e171"
	det := ingredient.NewDetector().Detect(worst.IngredientsText, worst.Name)

	hs := engine.Score(worst, det)
	if hs.Score < 0 || hs.Score > 100 {
		t.Errorf("score = %d, want within [0,100]", hs.Score)
	}

	best := scoreableProduct()
	best.Name = "Organic Whole Grain Oats"
	best.Nutrients.Fiber = f64(9)
	best.Nutrients.Protein = f64(12)
	hs = engine.Score(best, ingredient.Result{})
	if hs.Score < 0 || hs.Score > 100 {
		t.Errorf("score = %d, want within [0,100]", hs.Score)
	}
}

// TestScoreSugarPenaltyLiquidVsSolid tests that liquids are judged on the
// per-100ml tables.
func TestScoreSugarPenaltyLiquidVsSolid(t *testing.T) {
	engine := NewEngine()

	solid := scoreableProduct()
	solid.Nutrients.Sugar = f64(9)
	solidScore := engine.Score(solid, ingredient.Result{}).Score

	liquid := scoreableProduct()
	liquid.Categories = "Beverages"
	liquid.Nutrients.Sugar = f64(9)
	liquidScore := engine.Score(liquid, ingredient.Result{}).Score

	// 9g sugar is one tier for solids (-10) but two tiers worse for liquids
	// (-30), so the liquid must score strictly lower.
	if liquidScore >= solidScore {
		t.Errorf("liquid score %d >= solid score %d for the same sugar", liquidScore, solidScore)
	}
}

// TestScoreNutriScoreSeed tests that a provider-supplied front-of-pack grade
// replaces the 100-point base.
func TestScoreNutriScoreSeed(t *testing.T) {
	engine := NewEngine()

	product := scoreableProduct()
	product.NutriScore = "e"
	seeded := engine.Score(product, ingredient.Result{}).Score

	product.NutriScore = ""
	unseeded := engine.Score(product, ingredient.Result{}).Score

	if seeded >= unseeded {
		t.Errorf("nutri-score e seed %d should be below the default base result %d", seeded, unseeded)
	}
}

// TestScoreCondimentShortCircuit tests the reduced rule set for near-zero
// energy products.
func TestScoreCondimentShortCircuit(t *testing.T) {
	engine := NewEngine()

	product := &domain.MergedProduct{
		Name:            "Hot Sauce",
		IngredientsText: "peppers, vinegar, salt",
		Nutrients: domain.NutrientProfile{
			Energy: f64(5),
			Sugar:  f64(1),
			Sodium: f64(400),
		},
		NovaLevel: intp(4), // must be ignored on the condiment path
	}

	hs := engine.Score(product, ingredient.Result{})
	if hs.Score != CondimentBaseScore {
		t.Errorf("score = %d, want the condiment base %d", hs.Score, CondimentBaseScore)
	}
	if hs.Grade != domain.GradeAMinus {
		t.Errorf("grade = %s, want A-", hs.Grade)
	}
}

// TestScoreMissingNutrientsNeverCondiment tests that products with absent
// energy or sodium values cannot take the condiment path. A missing value
// must not pass for a low one; the candy case below would otherwise skip
// both the sugar penalty and the safety override.
func TestScoreMissingNutrientsNeverCondiment(t *testing.T) {
	engine := NewEngine()

	t.Run("missing energy, very high sugar", func(t *testing.T) {
		product := &domain.MergedProduct{
			Name:            "Hard Candy",
			IngredientsText: "sugar, glucose syrup, citric acid",
			Nutrients: domain.NutrientProfile{
				Sugar:  f64(40),
				Sodium: f64(10),
			},
		}

		hs := engine.Score(product, ingredient.Result{})
		if hs.Score != OverrideScore {
			t.Errorf("score = %d, want the override score %d", hs.Score, OverrideScore)
		}
		if hs.Grade != domain.GradeDMinus {
			t.Errorf("grade = %s, want D-", hs.Grade)
		}
	})

	t.Run("missing sodium, reported low energy", func(t *testing.T) {
		product := &domain.MergedProduct{
			Name:            "Seasoning Mix",
			IngredientsText: "salt, spices, garlic",
			Nutrients: domain.NutrientProfile{
				Energy: f64(5),
				Sugar:  f64(1),
			},
		}

		hs := engine.Score(product, ingredient.Result{})
		if hs.Score == CondimentBaseScore && hs.Grade == domain.GradeAMinus {
			t.Errorf("score = %d (%s), took the condiment path without a sodium value", hs.Score, hs.Grade)
		}
	})
}

// TestScoreSafetyOverride tests that grossly high sugar caps the score no
// matter what bonuses apply.
func TestScoreSafetyOverride(t *testing.T) {
	engine := NewEngine()

	product := scoreableProduct()
	product.Name = "Organic Whole Grain Candy"
	product.Nutrients.Sugar = f64(45)
	product.Nutrients.Fiber = f64(8)
	product.Nutrients.Protein = f64(11)

	hs := engine.Score(product, ingredient.Result{})
	if hs.Score != OverrideScore {
		t.Errorf("score = %d, want the override cap %d", hs.Score, OverrideScore)
	}

	found := false
	for _, w := range hs.Warnings {
		if w.Severity == domain.SeverityCritical {
			found = true
		}
	}
	if !found {
		t.Error("expected a critical safety warning")
	}
}

// TestScoreWarningsSorted tests that warnings come back ordered by severity.
func TestScoreWarningsSorted(t *testing.T) {
	engine := NewEngine()

	product := scoreableProduct()
	product.Nutrients.Sugar = f64(18)
	product.Nutrients.Sodium = f64(300)
	product.NovaLevel = intp(3)

	hs := engine.Score(product, ingredient.Result{})
	for i := 1; i < len(hs.Warnings); i++ {
		if hs.Warnings[i-1].Severity.Rank() > hs.Warnings[i].Severity.Rank() {
			t.Errorf("warnings out of order at %d: %s after %s", i, hs.Warnings[i].Severity, hs.Warnings[i-1].Severity)
		}
	}
}

// TestGradeForScoreTotality tests that every score in [0,100] maps to
// exactly one band and the mapping is monotonic.
func TestGradeForScoreTotality(t *testing.T) {
	prevRank := -1
	rank := func(g domain.Grade) int {
		order := []domain.Grade{
			domain.GradeF, domain.GradeDMinus, domain.GradeD, domain.GradeDPlus,
			domain.GradeCMinus, domain.GradeC, domain.GradeCPlus,
			domain.GradeBMinus, domain.GradeB, domain.GradeBPlus,
			domain.GradeAMinus, domain.GradeA,
		}
		for i, o := range order {
			if o == g {
				return i
			}
		}
		return -1
	}

	for score := 0; score <= 100; score++ {
		grade, status := GradeForScore(score)
		r := rank(grade)
		if r < 0 {
			t.Fatalf("score %d produced unknown grade %q", score, grade)
		}
		if status == "" {
			t.Errorf("score %d has empty status", score)
		}
		if r < prevRank {
			t.Errorf("grade regressed at score %d: %s", score, grade)
		}
		prevRank = r
	}

	if g, _ := GradeForScore(90); g != domain.GradeA {
		t.Errorf("GradeForScore(90) = %s, want A", g)
	}
	if g, _ := GradeForScore(89); g != domain.GradeAMinus {
		t.Errorf("GradeForScore(89) = %s, want A-", g)
	}
	if g, _ := GradeForScore(0); g != domain.GradeF {
		t.Errorf("GradeForScore(0) = %s, want F", g)
	}
}

// TestInsufficientData tests the OR semantics: thin ingredients or no
// sugar/sodium at all.
func TestInsufficientData(t *testing.T) {
	tests := []struct {
		name    string
		product *domain.MergedProduct
		want    bool
	}{
		{
			name: "full record is sufficient",
			product: &domain.MergedProduct{
				IngredientsText: "water, rice, beans, carrots",
				Nutrients:       domain.NutrientProfile{Sugar: f64(2)},
			},
			want: false,
		},
		{
			name: "thin ingredients text is insufficient even with nutrients",
			product: &domain.MergedProduct{
				IngredientsText: "water",
				Nutrients:       domain.NutrientProfile{Sugar: f64(2), Sodium: f64(10)},
			},
			want: true,
		},
		{
			name: "no sugar and no sodium is insufficient even with ingredients",
			product: &domain.MergedProduct{
				IngredientsText: "water, rice, beans, carrots",
				Nutrients:       domain.NutrientProfile{Energy: f64(120)},
			},
			want: true,
		},
		{
			name: "sodium alone satisfies the nutrient side",
			product: &domain.MergedProduct{
				IngredientsText: "water, rice, beans, carrots",
				Nutrients:       domain.NutrientProfile{Sodium: f64(10)},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InsufficientData(tt.product); got != tt.want {
				t.Errorf("InsufficientData() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestInsufficientDataScore tests the sentinel result shape.
func TestInsufficientDataScore(t *testing.T) {
	hs := InsufficientDataScore()
	if hs.Grade != domain.GradeUnknown {
		t.Errorf("grade = %s, want ?", hs.Grade)
	}
	if hs.Status != domain.StatusInsufficientData {
		t.Errorf("status = %q, want %q", hs.Status, domain.StatusInsufficientData)
	}
	if len(hs.Warnings) != 1 || hs.Warnings[0].Severity != domain.SeverityInfo {
		t.Errorf("warnings = %+v, want a single info warning", hs.Warnings)
	}
}

// TestPositiveAttributes tests the bonus-worthy attribute listing.
func TestPositiveAttributes(t *testing.T) {
	product := &domain.MergedProduct{
		Name:       "Organic Whole Grain Cereal",
		Categories: "Breakfast",
		Nutrients: domain.NutrientProfile{
			Fiber:   f64(7),
			Protein: f64(6),
		},
	}

	attrs := PositiveAttributes(product)
	want := []string{"High fiber", "Source of protein", "Whole grain", "Organic"}
	if !reflect.DeepEqual(attrs, want) {
		t.Errorf("attributes = %v, want %v", attrs, want)
	}

	if attrs := PositiveAttributes(&domain.MergedProduct{Name: "Plain Candy"}); attrs != nil {
		t.Errorf("attributes = %v, want none", attrs)
	}
}
