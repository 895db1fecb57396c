package ingredient

// =============================================================================
// Additive (E-number) Catalog
// =============================================================================
//
// Read-only reference data for the generic E-number scan. Severity here is
// the additive-catalog class, independent of the named harmful-ingredient
// catalog: only "high" severity codes that were not already counted by name
// contribute the fixed unknown-additive penalty.

// AdditiveSeverity classifies an E-number in the additive catalog.
type AdditiveSeverity string

const (
	AdditiveHigh   AdditiveSeverity = "high"
	AdditiveMedium AdditiveSeverity = "medium"
	AdditiveLow    AdditiveSeverity = "low"
)

// Additive is one additive catalog row.
type Additive struct {
	Code     string
	Name     string
	Severity AdditiveSeverity
}

// AdditiveCatalog maps lowercase E-codes to additive metadata.
var AdditiveCatalog = map[string]Additive{
	"e102":  {Code: "E102", Name: "Tartrazine", Severity: AdditiveHigh},
	"e104":  {Code: "E104", Name: "Quinoline Yellow", Severity: AdditiveHigh},
	"e110":  {Code: "E110", Name: "Sunset Yellow FCF", Severity: AdditiveHigh},
	"e120":  {Code: "E120", Name: "Cochineal", Severity: AdditiveMedium},
	"e122":  {Code: "E122", Name: "Carmoisine", Severity: AdditiveHigh},
	"e124":  {Code: "E124", Name: "Ponceau 4R", Severity: AdditiveHigh},
	"e127":  {Code: "E127", Name: "Erythrosine", Severity: AdditiveHigh},
	"e129":  {Code: "E129", Name: "Allura Red AC", Severity: AdditiveHigh},
	"e133":  {Code: "E133", Name: "Brilliant Blue FCF", Severity: AdditiveMedium},
	"e150d": {Code: "E150d", Name: "Sulphite Ammonia Caramel", Severity: AdditiveMedium},
	"e171":  {Code: "E171", Name: "Titanium Dioxide", Severity: AdditiveHigh},
	"e200":  {Code: "E200", Name: "Sorbic Acid", Severity: AdditiveLow},
	"e202":  {Code: "E202", Name: "Potassium Sorbate", Severity: AdditiveLow},
	"e211":  {Code: "E211", Name: "Sodium Benzoate", Severity: AdditiveMedium},
	"e220":  {Code: "E220", Name: "Sulphur Dioxide", Severity: AdditiveMedium},
	"e250":  {Code: "E250", Name: "Sodium Nitrite", Severity: AdditiveHigh},
	"e251":  {Code: "E251", Name: "Sodium Nitrate", Severity: AdditiveHigh},
	"e319":  {Code: "E319", Name: "TBHQ", Severity: AdditiveHigh},
	"e320":  {Code: "E320", Name: "BHA", Severity: AdditiveHigh},
	"e321":  {Code: "E321", Name: "BHT", Severity: AdditiveMedium},
	"e330":  {Code: "E330", Name: "Citric Acid", Severity: AdditiveLow},
	"e338":  {Code: "E338", Name: "Phosphoric Acid", Severity: AdditiveMedium},
	"e339":  {Code: "E339", Name: "Sodium Phosphates", Severity: AdditiveMedium},
	"e407":  {Code: "E407", Name: "Carrageenan", Severity: AdditiveMedium},
	"e412":  {Code: "E412", Name: "Guar Gum", Severity: AdditiveLow},
	"e415":  {Code: "E415", Name: "Xanthan Gum", Severity: AdditiveLow},
	"e433":  {Code: "E433", Name: "Polysorbate 80", Severity: AdditiveMedium},
	"e440":  {Code: "E440", Name: "Pectin", Severity: AdditiveLow},
	"e443":  {Code: "E443", Name: "Brominated Vegetable Oil", Severity: AdditiveHigh},
	"e450":  {Code: "E450", Name: "Diphosphates", Severity: AdditiveMedium},
	"e466":  {Code: "E466", Name: "Carboxymethylcellulose", Severity: AdditiveMedium},
	"e471":  {Code: "E471", Name: "Mono- and Diglycerides", Severity: AdditiveLow},
	"e621":  {Code: "E621", Name: "Monosodium Glutamate", Severity: AdditiveMedium},
	"e627":  {Code: "E627", Name: "Disodium Guanylate", Severity: AdditiveLow},
	"e631":  {Code: "E631", Name: "Disodium Inosinate", Severity: AdditiveLow},
	"e920":  {Code: "E920", Name: "L-Cysteine", Severity: AdditiveLow},
	"e924":  {Code: "E924", Name: "Potassium Bromate", Severity: AdditiveHigh},
	"e927a": {Code: "E927a", Name: "Azodicarbonamide", Severity: AdditiveHigh},
	"e950":  {Code: "E950", Name: "Acesulfame K", Severity: AdditiveMedium},
	"e951":  {Code: "E951", Name: "Aspartame", Severity: AdditiveHigh},
	"e952":  {Code: "E952", Name: "Cyclamate", Severity: AdditiveHigh},
	"e954":  {Code: "E954", Name: "Saccharin", Severity: AdditiveMedium},
	"e955":  {Code: "E955", Name: "Sucralose", Severity: AdditiveMedium},
	"e1520": {Code: "E1520", Name: "Propylene Glycol", Severity: AdditiveLow},
}

// LookupAdditive resolves a lowercase E-code (e.g. "e102") in the catalog.
func LookupAdditive(code string) (Additive, bool) {
	a, ok := AdditiveCatalog[code]
	return a, ok
}
