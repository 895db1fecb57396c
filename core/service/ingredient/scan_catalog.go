// Package ingredient scans ingredient text for harmful additives.
package ingredient

import "scan_server/core/domain"

// =============================================================================
// Harmful Ingredient Catalog
// =============================================================================
//
// Read-only reference data. Entries are grouped by category; each entry
// contributes its penalty at most once per scan. Aliases cover the label
// spellings actually seen on packaging.

// CatalogEntry describes one harmful ingredient.
type CatalogEntry struct {
	Key      string
	Aliases  []string
	Penalty  int
	Severity domain.Severity
	Reason   string
}

// Penalty weights by severity class.
const (
	PenaltySevere   = 10
	PenaltyModerate = 6
	PenaltyMild     = 3

	// PenaltyUnknownAdditive is the fixed extra penalty for a high-severity
	// E-number that no named catalog entry already counted.
	PenaltyUnknownAdditive = 5
)

// Catalog groups harmful ingredients by category.
var Catalog = map[string][]CatalogEntry{
	"colors": {
		{Key: "tartrazine", Aliases: []string{"e102", "yellow 5", "fd&c yellow no. 5"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Artificial color linked to hyperactivity"},
		{Key: "allura red", Aliases: []string{"e129", "red 40", "fd&c red no. 40"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Artificial color linked to hyperactivity"},
		{Key: "sunset yellow", Aliases: []string{"e110", "yellow 6", "fd&c yellow no. 6"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Artificial color linked to hyperactivity"},
		{Key: "brilliant blue", Aliases: []string{"e133", "blue 1", "fd&c blue no. 1"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Artificial color"},
		{Key: "caramel color", Aliases: []string{"e150d", "caramel colour", "ammonia caramel"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "May contain 4-MEI"},
		{Key: "erythrosine", Aliases: []string{"e127", "red 3", "fd&c red no. 3"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Artificial color restricted in several countries"},
	},
	"sweeteners": {
		{Key: "aspartame", Aliases: []string{"e951"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Artificial sweetener"},
		{Key: "sucralose", Aliases: []string{"e955"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Artificial sweetener"},
		{Key: "acesulfame", Aliases: []string{"e950", "acesulfame k", "acesulfame potassium", "ace-k"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Artificial sweetener"},
		{Key: "saccharin", Aliases: []string{"e954"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Artificial sweetener"},
		{Key: "cyclamate", Aliases: []string{"e952", "sodium cyclamate"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Sweetener banned in some markets"},
	},
	"preservatives": {
		{Key: "sodium benzoate", Aliases: []string{"e211", "benzoate of soda"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Can form benzene with vitamin C"},
		{Key: "potassium sorbate", Aliases: []string{"e202"}, Penalty: PenaltyMild, Severity: domain.SeverityLow, Reason: "Synthetic preservative"},
		{Key: "sodium nitrite", Aliases: []string{"e250"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Cured-meat preservative linked to nitrosamines"},
		{Key: "sodium nitrate", Aliases: []string{"e251"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Cured-meat preservative linked to nitrosamines"},
		{Key: "bha", Aliases: []string{"e320", "butylated hydroxyanisole"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Possible carcinogen"},
		{Key: "bht", Aliases: []string{"e321", "butylated hydroxytoluene"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Synthetic antioxidant"},
		{Key: "sulfur dioxide", Aliases: []string{"e220", "sulphur dioxide"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Sulfite preservative"},
		{Key: "tbhq", Aliases: []string{"e319", "tertiary butylhydroquinone"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Synthetic antioxidant"},
	},
	"flavor_enhancers": {
		{Key: "monosodium glutamate", Aliases: []string{"e621", "msg"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Flavor enhancer"},
		{Key: "disodium inosinate", Aliases: []string{"e631"}, Penalty: PenaltyMild, Severity: domain.SeverityLow, Reason: "Flavor enhancer, usually paired with MSG"},
		{Key: "disodium guanylate", Aliases: []string{"e627"}, Penalty: PenaltyMild, Severity: domain.SeverityLow, Reason: "Flavor enhancer, usually paired with MSG"},
		{Key: "autolyzed yeast extract", Aliases: []string{"yeast extract"}, Penalty: PenaltyMild, Severity: domain.SeverityLow, Reason: "Hidden glutamate source"},
	},
	"harmful_fats": {
		{Key: "partially hydrogenated", Aliases: []string{"partially-hydrogenated"}, Penalty: PenaltySevere, Severity: domain.SeverityCritical, Reason: "Trans fat source"},
		{Key: "hydrogenated oil", Aliases: []string{"hydrogenated vegetable oil", "hydrogenated palm oil", "hydrogenated soybean oil"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Trans fat risk"},
		{Key: "trans fat", Aliases: []string{"trans fats", "trans fatty acids"}, Penalty: PenaltySevere, Severity: domain.SeverityCritical, Reason: "Raises LDL cholesterol"},
		{Key: "shortening", Aliases: []string{"vegetable shortening"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Often hydrogenated"},
		{Key: "interesterified", Aliases: []string{"interesterified fat", "interesterified oil"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Industrially restructured fat"},
	},
	"sugars_syrups": {
		{Key: "high fructose corn syrup", Aliases: []string{"hfcs", "glucose-fructose syrup", "fructose-glucose syrup", "isoglucose"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Concentrated added sugar"},
		{Key: "corn syrup", Aliases: []string{"corn syrup solids"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Added sugar"},
		{Key: "invert sugar", Aliases: []string{"invert syrup"}, Penalty: PenaltyMild, Severity: domain.SeverityLow, Reason: "Added sugar"},
		{Key: "maltodextrin", Aliases: nil, Penalty: PenaltyMild, Severity: domain.SeverityLow, Reason: "High-glycemic filler"},
		{Key: "dextrose", Aliases: nil, Penalty: PenaltyMild, Severity: domain.SeverityLow, Reason: "Added sugar"},
	},
	"emulsifiers": {
		{Key: "polysorbate 80", Aliases: []string{"e433", "polysorbate-80"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Emulsifier linked to gut effects"},
		{Key: "carboxymethylcellulose", Aliases: []string{"e466", "cellulose gum", "cmc"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Emulsifier linked to gut effects"},
		{Key: "carrageenan", Aliases: []string{"e407"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Thickener under inflammation debate"},
		{Key: "mono- and diglycerides", Aliases: []string{"e471", "monoglycerides", "diglycerides"}, Penalty: PenaltyMild, Severity: domain.SeverityLow, Reason: "May carry trace trans fat"},
	},
	"dough_conditioners": {
		{Key: "potassium bromate", Aliases: []string{"e924", "bromated flour"}, Penalty: PenaltySevere, Severity: domain.SeverityCritical, Reason: "Possible carcinogen, banned in many countries"},
		{Key: "azodicarbonamide", Aliases: []string{"e927a", "ada"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Dough conditioner banned in EU"},
		{Key: "l-cysteine", Aliases: []string{"e920"}, Penalty: PenaltyMild, Severity: domain.SeverityLow, Reason: "Dough conditioner"},
	},
	"phosphates": {
		{Key: "phosphoric acid", Aliases: []string{"e338"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Linked to reduced bone density"},
		{Key: "sodium phosphate", Aliases: []string{"e339", "trisodium phosphate"}, Penalty: PenaltyModerate, Severity: domain.SeverityMedium, Reason: "Inorganic phosphate additive"},
		{Key: "sodium acid pyrophosphate", Aliases: []string{"e450", "disodium pyrophosphate"}, Penalty: PenaltyMild, Severity: domain.SeverityLow, Reason: "Inorganic phosphate additive"},
	},
	"misc": {
		{Key: "titanium dioxide", Aliases: []string{"e171"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Whitener no longer considered safe by EFSA"},
		{Key: "brominated vegetable oil", Aliases: []string{"bvo", "e443"}, Penalty: PenaltySevere, Severity: domain.SeverityHigh, Reason: "Brominated emulsifier"},
		{Key: "propylene glycol", Aliases: []string{"e1520"}, Penalty: PenaltyMild, Severity: domain.SeverityLow, Reason: "Humectant"},
		{Key: "potassium sulfite", Aliases: []string{"e225"}, Penalty: PenaltyMild, Severity: domain.SeverityLow, Reason: "Sulfite preservative"},
	},
}

// catalogCategories is the deterministic iteration order over Catalog.
// Map iteration order is randomized in Go; detection output must be stable.
var catalogCategories = []string{
	"colors",
	"sweeteners",
	"preservatives",
	"flavor_enhancers",
	"harmful_fats",
	"sugars_syrups",
	"emulsifiers",
	"dough_conditioners",
	"phosphates",
	"misc",
}
