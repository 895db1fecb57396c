// Package resolver normalizes barcodes and resolves them across providers.
package resolver

// =============================================================================
// Barcode Normalization
// =============================================================================
//
// Different catalogs index the same physical product under different
// standards: a 12-digit UPC-A is the same code as its 13-digit EAN-13 form
// with a leading zero. The normalizer produces the ordered candidate list
// a resolver should try, original first.

// NormalizeBarcode returns the ordered list of barcode candidates for a raw
// scanned string. The original is always first.
//
//	len 12 (UPC-A)               -> [original, "0"+original]
//	len 13 with leading '0'      -> [original, original[1:]]
//	anything else (e.g. EAN-8)   -> [original]
func NormalizeBarcode(raw string) []string {
	switch {
	case len(raw) == 12:
		return []string{raw, "0" + raw}
	case len(raw) == 13 && raw[0] == '0':
		return []string{raw, raw[1:]}
	default:
		return []string{raw}
	}
}

// ValidBarcode reports whether raw looks like a retail barcode: 8 to 14
// digits, nothing else.
func ValidBarcode(raw string) bool {
	if len(raw) < 8 || len(raw) > 14 {
		return false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return false
		}
	}
	return true
}
