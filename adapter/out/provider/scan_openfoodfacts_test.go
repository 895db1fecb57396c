package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const offProductJSON = `{
	"status": 1,
	"product": {
		"product_name": "Dark Chocolate 70%",
		"brands": "Choco Works",
		"image_front_url": "https://img.example/front.jpg",
		"ingredients_text": "cocoa mass, sugar, cocoa butter, soy lecithin",
		"categories": "Snacks, Chocolates",
		"allergens_tags": ["en:soybeans"],
		"traces_tags": ["en:milk", "en:nuts"],
		"labels_tags": ["en:organic"],
		"nutriscore_grade": "d",
		"nova_group": 3,
		"nutriments": {
			"energy-kcal_100g": 580,
			"sugars_100g": 29.5,
			"saturated-fat_100g": 24,
			"sodium_100g": 0.02,
			"fiber_100g": 9,
			"proteins_100g": 7.5,
			"carbohydrates_100g": 34,
			"fat_100g": 42
		}
	}
}`

func newOFFTestAdapter(handler http.HandlerFunc) (*OpenFoodFactsAdapter, *httptest.Server) {
	server := httptest.NewServer(handler)
	adapter := NewOpenFoodFactsAdapter(&OpenFoodFactsConfig{
		BaseURL: server.URL,
		Client:  server.Client(),
	})
	return adapter, server
}

// TestOpenFoodFactsFetch tests the full payload mapping.
func TestOpenFoodFactsFetch(t *testing.T) {
	adapter, server := newOFFTestAdapter(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/product/4902430735063.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(offProductJSON))
	})
	defer server.Close()

	record, err := adapter.Fetch(context.Background(), "4902430735063")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record == nil {
		t.Fatal("expected a record")
	}

	if record.Name != "Dark Chocolate 70%" {
		t.Errorf("name = %q", record.Name)
	}
	if record.Brand != "Choco Works" {
		t.Errorf("brand = %q", record.Brand)
	}
	if record.ImageURL != "https://img.example/front.jpg" {
		t.Errorf("image = %q, want the front image preferred", record.ImageURL)
	}
	if record.NutriScore != "d" {
		t.Errorf("nutri-score = %q", record.NutriScore)
	}
	if record.NovaLevel == nil || *record.NovaLevel != 3 {
		t.Errorf("nova = %v, want 3", record.NovaLevel)
	}

	// Allergen and trace tags merge into one tag list.
	if len(record.Tags) != 3 {
		t.Errorf("tags = %v, want allergens plus traces", record.Tags)
	}

	// Sodium arrives in grams and must come back in milligrams.
	if record.Nutrients.Sodium == nil || *record.Nutrients.Sodium != 20 {
		t.Errorf("sodium = %v, want 20mg", record.Nutrients.Sodium)
	}
	if record.Nutrients.Energy == nil || *record.Nutrients.Energy != 580 {
		t.Errorf("energy = %v, want 580", record.Nutrients.Energy)
	}
	if record.Nutrients.Sugar == nil || *record.Nutrients.Sugar != 29.5 {
		t.Errorf("sugar = %v, want 29.5", record.Nutrients.Sugar)
	}
}

// TestOpenFoodFactsNotFound tests both not-found shapes: HTTP 404 and a
// status-0 body.
func TestOpenFoodFactsNotFound(t *testing.T) {
	t.Run("http 404", func(t *testing.T) {
		adapter, server := newOFFTestAdapter(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		defer server.Close()

		record, err := adapter.Fetch(context.Background(), "96385074")
		if err != nil {
			t.Errorf("404 must not be an error, got %v", err)
		}
		if record != nil {
			t.Errorf("record = %+v, want nil", record)
		}
	})

	t.Run("status 0 body", func(t *testing.T) {
		adapter, server := newOFFTestAdapter(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": 0, "status_verbose": "product not found"}`))
		})
		defer server.Close()

		record, err := adapter.Fetch(context.Background(), "96385074")
		if err != nil {
			t.Errorf("status 0 must not be an error, got %v", err)
		}
		if record != nil {
			t.Errorf("record = %+v, want nil", record)
		}
	})
}

// TestOpenFoodFactsServerError tests that a 5xx surfaces as an error for the
// resolver to treat as not-found.
func TestOpenFoodFactsServerError(t *testing.T) {
	adapter, server := newOFFTestAdapter(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := adapter.Fetch(context.Background(), "96385074")
	if err == nil {
		t.Fatal("expected an error for a 5xx response")
	}
}

// TestOpenFoodFactsStringNutriments tests numeric values serialized as
// strings, which the live API does for some products.
func TestOpenFoodFactsStringNutriments(t *testing.T) {
	adapter, server := newOFFTestAdapter(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": 1,
			"product": {
				"product_name": "Stringy",
				"nutriments": {"sugars_100g": "12.5", "sodium_100g": "0.4"}
			}
		}`))
	})
	defer server.Close()

	record, err := adapter.Fetch(context.Background(), "96385074")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Nutrients.Sugar == nil || *record.Nutrients.Sugar != 12.5 {
		t.Errorf("sugar = %v, want parsed 12.5", record.Nutrients.Sugar)
	}
	if record.Nutrients.Sodium == nil || *record.Nutrients.Sodium != 400 {
		t.Errorf("sodium = %v, want 400mg", record.Nutrients.Sodium)
	}
}
