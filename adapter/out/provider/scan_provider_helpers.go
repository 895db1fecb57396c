// Package provider contains the outbound adapters for external product
// databases.
package provider

import "strconv"

// nutrimentValue reads the first present key from a loosely-typed nutriment
// map. Open Food Facts and Nutritionix mix numbers and numeric strings in
// the same field across products.
func nutrimentValue(m map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		raw, ok := m[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case float64:
			return floatPtr(v)
		case int:
			return floatPtr(float64(v))
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return floatPtr(f)
			}
		}
	}
	return nil
}

// scaleValue multiplies a nutrient value in place, preserving nil.
func scaleValue(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	return floatPtr(*v * factor)
}

func floatPtr(v float64) *float64 {
	return &v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
