package ingredient

import (
	"fmt"
	"regexp"
	"strings"

	"scan_server/core/domain"
)

// =============================================================================
// Harmful Ingredient Detector
// =============================================================================

var (
	// eNumberPattern matches the generic additive code form: E + 3 digits +
	// optional letter ("e150d", "E621").
	eNumberPattern = regexp.MustCompile(`\b[eE](\d{3}[a-z]?)\b`)

	separatorReplacer = strings.NewReplacer(",", " ", ";", " ")
	hyphenReplacer    = strings.NewReplacer("-", "", " ", "")
)

// affixedForms are the common prefixed/suffixed label spellings tried as the
// last match strategy.
var affixedForms = []struct {
	prefix string
	suffix string
}{
	{prefix: "modified "},
	{suffix: " extract"},
	{suffix: " powder"},
	{prefix: "natural "},
	{prefix: "artificial "},
	{suffix: " flavoring"},
	{suffix: " flavor"},
}

// Result is the detector output consumed by the scoring engine.
type Result struct {
	Penalty   int
	Warnings  []domain.Warning
	Additives []string // resolved E-number names, detection order
}

// Detector scans normalized ingredient text against the harmful ingredient
// and additive catalogs. It is stateless and safe for concurrent use.
type Detector struct{}

// NewDetector creates a detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect scans the product's ingredients text and name. Each catalog entry
// contributes its penalty at most once; warnings come back sorted by
// severity, critical first.
func (d *Detector) Detect(ingredientsText, productName string) Result {
	text := normalizeText(ingredientsText + " " + productName)

	var result Result
	found := make(map[string]bool)      // category+key, caps entries to one hit
	countedCodes := make(map[string]bool) // e-codes covered by a named entry

	for _, category := range catalogCategories {
		for _, entry := range Catalog[category] {
			foundKey := category + ":" + entry.Key
			if found[foundKey] {
				continue
			}

			term, ok := matchEntry(text, entry)
			if !ok {
				continue
			}
			found[foundKey] = true
			result.Penalty += entry.Penalty
			result.Warnings = append(result.Warnings, domain.Warning{
				Title:       "Contains " + entry.Key,
				Description: entry.Reason + " (matched: " + term + ")",
				Severity:    entry.Severity,
			})

			// Remember E-codes this named entry covers so the generic scan
			// does not double-count them.
			for _, alias := range append([]string{entry.Key}, entry.Aliases...) {
				if eNumberPattern.MatchString(alias) {
					countedCodes[strings.ToLower(alias)] = true
				}
			}
		}
	}

	d.scanAdditiveCodes(text, countedCodes, &result)

	domain.SortWarnings(result.Warnings)
	return result
}

// scanAdditiveCodes runs the generic E-number pass. Codes already counted by
// a named catalog entry are skipped; unresolved-by-name codes of high
// additive severity add the fixed penalty.
func (d *Detector) scanAdditiveCodes(text string, countedCodes map[string]bool, result *Result) {
	seen := make(map[string]bool)
	for _, match := range eNumberPattern.FindAllStringSubmatch(text, -1) {
		code := "e" + strings.ToLower(match[1])
		if seen[code] {
			continue
		}
		seen[code] = true

		additive, known := LookupAdditive(code)
		if known {
			result.Additives = append(result.Additives, fmt.Sprintf("%s (%s)", additive.Code, additive.Name))
		} else {
			result.Additives = append(result.Additives, strings.ToUpper(code[:1])+code[1:])
		}

		if countedCodes[code] {
			continue
		}
		if known && additive.Severity == AdditiveHigh {
			result.Penalty += PenaltyUnknownAdditive
			result.Warnings = append(result.Warnings, domain.Warning{
				Title:       "Contains additive " + additive.Code,
				Description: additive.Name,
				Severity:    domain.SeverityHigh,
			})
		}
	}
}

// =============================================================================
// Matching
// =============================================================================

// matchEntry tries the entry's key plus all aliases with the ordered
// matcher. Returns the term that matched.
func matchEntry(text string, entry CatalogEntry) (string, bool) {
	for _, term := range append([]string{entry.Key}, entry.Aliases...) {
		if matchTerm(text, term) {
			return term, true
		}
	}
	return "", false
}

// shortTermLen is the length below which a term only matches on word
// boundaries. Substring containment of short aliases ("ada", "msg") inside
// ordinary words produces false positives.
const shortTermLen = 5

// matchTerm applies the ordered match strategies: direct substring, whole
// word, hyphen/space-insensitive, then common affixed forms. First hit wins.
func matchTerm(text, term string) bool {
	term = strings.ToLower(term)

	// 1. Direct substring containment, long terms only.
	if len(term) >= shortTermLen && strings.Contains(text, term) {
		return true
	}

	// 2. Whole-word-boundary match.
	if matchWholeWord(text, term) {
		return true
	}

	// 3. Hyphen/space-insensitive variant ("soya-lecithin" vs "soya lecithin"),
	// long terms only.
	if len(term) >= shortTermLen && strings.Contains(hyphenReplacer.Replace(text), hyphenReplacer.Replace(term)) {
		return true
	}

	// 4. Common prefixed/suffixed forms.
	for _, form := range affixedForms {
		if strings.Contains(text, form.prefix+term+form.suffix) {
			return true
		}
	}

	return false
}

func matchWholeWord(text, term string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], term)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(term)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// normalizeText lower-cases and replaces comma/semicolon separators with
// spaces so terms match across list punctuation.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(separatorReplacer.Replace(strings.ToLower(s))), " ")
}
