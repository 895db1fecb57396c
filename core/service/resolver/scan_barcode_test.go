package resolver

import (
	"reflect"
	"testing"
)

// TestNormalizeBarcode tests the candidate list for each barcode standard.
func TestNormalizeBarcode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "UPC-A gets a 13-digit variant with a leading zero",
			raw:  "036000291452",
			want: []string{"036000291452", "0036000291452"},
		},
		{
			name: "EAN-13 with leading zero gets the 12-digit variant",
			raw:  "0036000291452",
			want: []string{"0036000291452", "036000291452"},
		},
		{
			name: "EAN-13 without leading zero stays as-is",
			raw:  "4902430735063",
			want: []string{"4902430735063"},
		},
		{
			name: "EAN-8 stays as-is",
			raw:  "96385074",
			want: []string{"96385074"},
		},
		{
			name: "14-digit GTIN stays as-is",
			raw:  "10036000291452",
			want: []string{"10036000291452"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBarcode(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeBarcode(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			if got[0] != tt.raw {
				t.Errorf("first candidate = %q, want the original %q", got[0], tt.raw)
			}
		})
	}
}

// TestValidBarcode tests the retail barcode shape check.
func TestValidBarcode(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"96385074", true},        // EAN-8
		{"036000291452", true},    // UPC-A
		{"4902430735063", true},   // EAN-13
		{"10036000291452", true},  // GTIN-14
		{"1234567", false},        // too short
		{"123456789012345", false}, // too long
		{"", false},
		{"12345678a", false},  // non-digit
		{"1234 5678", false},  // whitespace
		{"-123456789", false}, // sign
	}

	for _, tt := range tests {
		if got := ValidBarcode(tt.raw); got != tt.want {
			t.Errorf("ValidBarcode(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
