package ingredient

import (
	"strings"
	"testing"

	"scan_server/core/domain"
)

// TestDetectNamedEntries tests catalog matching by key and by alias.
func TestDetectNamedEntries(t *testing.T) {
	detector := NewDetector()

	tests := []struct {
		name        string
		ingredients string
		wantTitle   string
		wantMin     int // minimum penalty
	}{
		{
			name:        "key match",
			ingredients: "water, sugar, aspartame",
			wantTitle:   "Contains aspartame",
			wantMin:     PenaltySevere,
		},
		{
			name:        "E-number alias match",
			ingredients: "water, color (e102)",
			wantTitle:   "Contains tartrazine",
			wantMin:     PenaltySevere,
		},
		{
			name:        "US label alias match",
			ingredients: "corn syrup, red 40, citric acid",
			wantTitle:   "Contains allura red",
			wantMin:     PenaltySevere,
		},
		{
			name:        "hyphen variant match",
			ingredients: "oil blend (partially-hydrogenated soybean oil)",
			wantTitle:   "Contains partially hydrogenated",
			wantMin:     PenaltySevere,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := detector.Detect(tt.ingredients, "")
			if result.Penalty < tt.wantMin {
				t.Errorf("penalty = %d, want >= %d", result.Penalty, tt.wantMin)
			}
			found := false
			for _, w := range result.Warnings {
				if w.Title == tt.wantTitle {
					found = true
				}
			}
			if !found {
				t.Errorf("missing warning %q in %+v", tt.wantTitle, result.Warnings)
			}
		})
	}
}

// TestDetectEntryCountedOnce tests that repeated mentions of one entry
// contribute a single penalty.
func TestDetectEntryCountedOnce(t *testing.T) {
	detector := NewDetector()

	once := detector.Detect("aspartame", "")
	twice := detector.Detect("aspartame, sweetener blend (aspartame)", "")

	if once.Penalty != twice.Penalty {
		t.Errorf("penalty changed with repetition: %d vs %d", once.Penalty, twice.Penalty)
	}
	if len(once.Warnings) != len(twice.Warnings) {
		t.Errorf("warning count changed with repetition: %d vs %d", len(once.Warnings), len(twice.Warnings))
	}
}

// TestDetectAdditiveCodes tests the generic E-number pass.
func TestDetectAdditiveCodes(t *testing.T) {
	detector := NewDetector()

	result := detector.Detect("water, e330, e621", "")

	if len(result.Additives) != 2 {
		t.Fatalf("additives = %v, want 2 entries", result.Additives)
	}
	for _, additive := range result.Additives {
		if !strings.HasPrefix(strings.ToLower(additive), "e") {
			t.Errorf("additive %q does not carry its code", additive)
		}
	}
}

// TestDetectNoDoubleCountForCoveredCode tests that an E-code already counted
// by a named entry is not penalized again by the generic pass.
func TestDetectNoDoubleCountForCoveredCode(t *testing.T) {
	detector := NewDetector()

	// e951 is aspartame's alias; the named entry fires on the text "aspartame"
	// and the code appears separately.
	result := detector.Detect("aspartame (e951)", "")

	wantPenalty := PenaltySevere
	if result.Penalty != wantPenalty {
		t.Errorf("penalty = %d, want %d (named entry only)", result.Penalty, wantPenalty)
	}
}

// TestDetectWholeWordBoundary tests that short terms do not match inside
// longer words.
func TestDetectWholeWordBoundary(t *testing.T) {
	detector := NewDetector()

	// "ada" is azodicarbonamide's alias; it must not fire inside "canada".
	result := detector.Detect("salt, product of canada", "")
	for _, w := range result.Warnings {
		if w.Title == "Contains azodicarbonamide" {
			t.Errorf("false positive inside a longer word: %+v", w)
		}
	}

	if r := detector.Detect("flour, ada, yeast", ""); r.Penalty == 0 {
		t.Error("standalone alias should match")
	}
}

// TestDetectWarningsSorted tests severity ordering of the output.
func TestDetectWarningsSorted(t *testing.T) {
	detector := NewDetector()

	result := detector.Detect("potassium sorbate, partially hydrogenated oil, msg", "")
	if len(result.Warnings) < 3 {
		t.Fatalf("warnings = %+v, want at least 3", result.Warnings)
	}
	if result.Warnings[0].Severity != domain.SeverityCritical {
		t.Errorf("first warning severity = %s, want critical", result.Warnings[0].Severity)
	}
	for i := 1; i < len(result.Warnings); i++ {
		if result.Warnings[i-1].Severity.Rank() > result.Warnings[i].Severity.Rank() {
			t.Errorf("warnings out of order at %d", i)
		}
	}
}

// TestDetectCleanProduct tests the zero result for benign ingredients.
func TestDetectCleanProduct(t *testing.T) {
	detector := NewDetector()

	result := detector.Detect("water, organic rolled oats, sea salt", "Simple Oatmeal")
	if result.Penalty != 0 {
		t.Errorf("penalty = %d, want 0", result.Penalty)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %+v, want none", result.Warnings)
	}
	if len(result.Additives) != 0 {
		t.Errorf("additives = %v, want none", result.Additives)
	}
}
