package allergen

import (
	"strings"

	"scan_server/core/domain"
)

// =============================================================================
// Allergen Detection
// =============================================================================
//
// Detection for one profile against one product: each tracked allergen is
// tried with three ordered matchers: provider tags, ingredient-text
// keywords, then derivative/hidden-source terms. First match wins and
// contributes exactly one warning.

// localePrefixes are stripped from provider allergen tags ("en:milk").
var localePrefixes = []string{"en:", "fr:", "de:", "es:", "it:", "nl:"}

// DetectForProfile matches one profile's allergens against the product.
// Catalog entries gated above the user's tier are skipped; certification
// labels on the product short-circuit the corresponding allergen entirely.
func DetectForProfile(profile *domain.AllergenProfile, product *domain.MergedProduct, tier domain.Tier) []domain.AllergenWarning {
	if profile == nil || product == nil {
		return nil
	}

	text := strings.ToLower(product.IngredientsText)
	tags := cleanTags(product.Tags)
	labels := cleanLabels(product.Labels)

	var warnings []domain.AllergenWarning
	for _, allergenID := range profile.Allergens {
		entry, ok := CatalogByID[allergenID]
		if !ok {
			continue
		}
		if !tier.Covers(entry.Tier) {
			continue
		}
		if labelCertified(entry, labels) {
			continue
		}

		if warning, ok := matchAllergen(entry, tags, text); ok {
			warnings = append(warnings, warning)
		}
	}

	domain.SortAllergenWarnings(warnings)
	return warnings
}

// matchAllergen applies the three ordered matchers. First match wins.
func matchAllergen(entry *domain.AllergenCatalogEntry, tags []string, text string) (domain.AllergenWarning, bool) {
	// 1. Provider-supplied allergen tags against catalog keywords.
	for _, tag := range tags {
		for _, keyword := range entry.Keywords {
			if tag == keyword || strings.Contains(tag, keyword) {
				return warningFor(entry, domain.MatchByTag, tag), true
			}
		}
	}

	// 2. Ingredient-text keyword containment.
	for _, keyword := range entry.Keywords {
		if strings.Contains(text, keyword) {
			return warningFor(entry, domain.MatchByKeyword, keyword), true
		}
	}

	// 3. Derivative / hidden-source containment.
	for _, derivative := range entry.Derivatives {
		if strings.Contains(text, derivative) {
			return warningFor(entry, domain.MatchByDerivative, derivative), true
		}
	}

	return domain.AllergenWarning{}, false
}

func warningFor(entry *domain.AllergenCatalogEntry, method domain.AllergenMatchMethod, term string) domain.AllergenWarning {
	return domain.AllergenWarning{
		AllergenID:  entry.ID,
		Name:        entry.Name,
		Severity:    entry.Severity,
		MatchedBy:   method,
		MatchedTerm: term,
	}
}

// labelCertified reports whether one of the product's certification labels
// suppresses this allergen (e.g. a "gluten-free" label vs wheat keywords).
func labelCertified(entry *domain.AllergenCatalogEntry, labels []string) bool {
	for _, certification := range entry.Labels {
		for _, label := range labels {
			if label == certification || strings.Contains(label, certification) {
				return true
			}
		}
	}
	return false
}

// cleanTags lower-cases provider tags and strips the locale prefix.
func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		for _, prefix := range localePrefixes {
			if strings.HasPrefix(tag, prefix) {
				tag = tag[len(prefix):]
				break
			}
		}
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return cleaned
}

func cleanLabels(labels []string) []string {
	return cleanTags(labels)
}
