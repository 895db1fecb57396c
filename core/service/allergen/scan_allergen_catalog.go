// Package allergen manages allergen profiles and runs allergen detection
// against merged product records.
package allergen

import "scan_server/core/domain"

// =============================================================================
// Allergen Catalog
// =============================================================================
//
// Read-only reference data. Keywords match provider tags and ingredient
// text; derivatives cover hidden sources; labels are certifications that
// suppress a match outright (a certified gluten-free product is not flagged
// for wheat even when the text matches).

// CatalogByID indexes the allergen catalog by allergen id.
var CatalogByID = func() map[string]*domain.AllergenCatalogEntry {
	index := make(map[string]*domain.AllergenCatalogEntry, len(catalog))
	for i := range catalog {
		index[catalog[i].ID] = &catalog[i]
	}
	return index
}()

// CatalogForTier returns the catalog entries the tier can subscribe to, in
// catalog order.
func CatalogForTier(tier domain.Tier) []domain.AllergenCatalogEntry {
	entries := make([]domain.AllergenCatalogEntry, 0, len(catalog))
	for _, entry := range catalog {
		if tier.Covers(entry.Tier) {
			entries = append(entries, entry)
		}
	}
	return entries
}

var catalog = []domain.AllergenCatalogEntry{
	{
		ID: "peanut", Name: "Peanut", Category: "legumes", Severity: domain.AllergenSevere, Tier: domain.TierFree,
		Keywords:    []string{"peanut", "peanuts", "groundnut", "arachis"},
		Derivatives: []string{"peanut oil", "peanut flour", "arachis oil", "beer nuts"},
		Labels:      []string{"peanut-free"},
	},
	{
		ID: "tree_nut", Name: "Tree Nuts", Category: "nuts", Severity: domain.AllergenSevere, Tier: domain.TierFree,
		Keywords:    []string{"almond", "hazelnut", "walnut", "cashew", "pecan", "pistachio", "macadamia", "brazil nut"},
		Derivatives: []string{"nut butter", "nut oil", "praline", "marzipan", "nougat"},
		Labels:      []string{"nut-free"},
	},
	{
		ID: "milk", Name: "Milk", Category: "dairy", Severity: domain.AllergenSevere, Tier: domain.TierFree,
		Keywords:    []string{"milk", "lactose", "dairy", "cream", "butter", "cheese", "yogurt", "yoghurt"},
		Derivatives: []string{"casein", "caseinate", "whey", "ghee", "curds", "lactalbumin"},
		Labels:      []string{"dairy-free", "lactose-free", "vegan"},
	},
	{
		ID: "egg", Name: "Egg", Category: "animal", Severity: domain.AllergenSevere, Tier: domain.TierFree,
		Keywords:    []string{"egg", "eggs"},
		Derivatives: []string{"albumin", "albumen", "ovalbumin", "lysozyme", "mayonnaise", "meringue"},
		Labels:      []string{"egg-free", "vegan"},
	},
	{
		ID: "wheat", Name: "Wheat / Gluten", Category: "grains", Severity: domain.AllergenSevere, Tier: domain.TierFree,
		Keywords:    []string{"wheat", "gluten", "barley", "rye", "spelt", "kamut", "triticale"},
		Derivatives: []string{"semolina", "durum", "couscous", "farina", "malt", "seitan", "bulgur"},
		Labels:      []string{"gluten-free"},
	},
	{
		ID: "soy", Name: "Soy", Category: "legumes", Severity: domain.AllergenModerate, Tier: domain.TierFree,
		Keywords:    []string{"soy", "soya", "soybean", "soybeans"},
		Derivatives: []string{"soy lecithin", "tofu", "tempeh", "miso", "edamame", "textured vegetable protein"},
		Labels:      []string{"soy-free"},
	},
	{
		ID: "fish", Name: "Fish", Category: "seafood", Severity: domain.AllergenSevere, Tier: domain.TierFree,
		Keywords:    []string{"fish", "salmon", "tuna", "cod", "anchovy", "sardine", "trout", "haddock"},
		Derivatives: []string{"fish sauce", "worcestershire", "surimi", "fish gelatin", "omega-3 from fish"},
		Labels:      []string{"fish-free"},
	},
	{
		ID: "shellfish", Name: "Shellfish", Category: "seafood", Severity: domain.AllergenSevere, Tier: domain.TierFree,
		Keywords:    []string{"shrimp", "prawn", "crab", "lobster", "crayfish", "shellfish"},
		Derivatives: []string{"glucosamine", "chitosan", "scampi"},
		Labels:      []string{"shellfish-free"},
	},
	{
		ID: "sesame", Name: "Sesame", Category: "seeds", Severity: domain.AllergenModerate, Tier: domain.TierPlus,
		Keywords:    []string{"sesame"},
		Derivatives: []string{"tahini", "sesame oil", "benne", "gingelly"},
		Labels:      []string{"sesame-free"},
	},
	{
		ID: "mustard", Name: "Mustard", Category: "condiments", Severity: domain.AllergenModerate, Tier: domain.TierPlus,
		Keywords:    []string{"mustard"},
		Derivatives: []string{"mustard seed", "mustard flour", "dijon"},
	},
	{
		ID: "celery", Name: "Celery", Category: "vegetables", Severity: domain.AllergenMild, Tier: domain.TierPlus,
		Keywords:    []string{"celery", "celeriac"},
		Derivatives: []string{"celery salt", "celery seed"},
	},
	{
		ID: "lupin", Name: "Lupin", Category: "legumes", Severity: domain.AllergenModerate, Tier: domain.TierPlus,
		Keywords:    []string{"lupin", "lupine"},
		Derivatives: []string{"lupin flour", "lupin protein"},
	},
	{
		ID: "mollusc", Name: "Molluscs", Category: "seafood", Severity: domain.AllergenSevere, Tier: domain.TierPlus,
		Keywords:    []string{"mussel", "oyster", "clam", "scallop", "squid", "octopus", "snail"},
		Derivatives: []string{"oyster sauce", "calamari", "escargot"},
	},
	{
		ID: "sulphites", Name: "Sulphites", Category: "additives", Severity: domain.AllergenModerate, Tier: domain.TierPro,
		Keywords:    []string{"sulphite", "sulfite", "sulphur dioxide", "sulfur dioxide"},
		Derivatives: []string{"e220", "e221", "e222", "e223", "e224", "e226", "e227", "e228", "metabisulphite"},
	},
	{
		ID: "gluten_oats", Name: "Oats (Gluten Cross-Contact)", Category: "grains", Severity: domain.AllergenMild, Tier: domain.TierPro,
		Keywords:    []string{"oat", "oats", "oatmeal"},
		Derivatives: []string{"oat flour", "oat bran"},
		Labels:      []string{"gluten-free", "certified gluten-free oats"},
	},
	{
		ID: "corn", Name: "Corn", Category: "grains", Severity: domain.AllergenMild, Tier: domain.TierPro,
		Keywords:    []string{"corn", "maize"},
		Derivatives: []string{"corn starch", "corn syrup", "dextrin", "polenta", "hominy"},
	},
}
