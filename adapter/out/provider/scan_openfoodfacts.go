package provider

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"context"

	"scan_server/core/domain"
	"scan_server/pkg/httputil"
	"scan_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
)

// =============================================================================
// Open Food Facts Adapter
// =============================================================================

const defaultOpenFoodFactsBaseURL = "https://world.openfoodfacts.org"

// OpenFoodFactsAdapter implements out.ProductProvider against the Open Food
// Facts v2 product API. It is the primary provider.
type OpenFoodFactsAdapter struct {
	baseURL string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
	log     *logger.Logger
}

// OpenFoodFactsConfig holds Open Food Facts configuration.
type OpenFoodFactsConfig struct {
	BaseURL string
	Client  *http.Client
}

// NewOpenFoodFactsAdapter creates the primary provider adapter.
func NewOpenFoodFactsAdapter(cfg *OpenFoodFactsConfig) *OpenFoodFactsAdapter {
	if cfg == nil {
		cfg = &OpenFoodFactsConfig{}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenFoodFactsBaseURL
	}
	client := cfg.Client
	if client == nil {
		client = httputil.OpenFoodFactsClient()
	}

	log := logger.WithField("provider", "openfoodfacts")

	cbSettings := gobreaker.Settings{
		Name:        "openfoodfacts-api",
		MaxRequests: 3,                // Half-open 상태에서 허용할 요청 수
		Interval:    60 * time.Second, // Closed 상태에서 카운터 리셋 간격
		Timeout:     30 * time.Second, // Open 상태 유지 시간 (이후 Half-open)
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 연속 5회 실패 또는 60% 이상 실패율 (최소 10회 요청)
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker %s: state changed from %s to %s", name, from.String(), to.String())
		},
	}

	return &OpenFoodFactsAdapter{
		baseURL: baseURL,
		client:  client,
		cb:      gobreaker.NewCircuitBreaker(cbSettings),
		log:     log,
	}
}

// Name returns the provider identifier.
func (a *OpenFoodFactsAdapter) Name() domain.ProviderName {
	return domain.ProviderOpenFoodFacts
}

// IsCircuitOpen returns true if the circuit breaker is open.
func (a *OpenFoodFactsAdapter) IsCircuitOpen() bool {
	return a.cb.State() == gobreaker.StateOpen
}

// offResponse mirrors the v2 product endpoint envelope.
type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	ProductName     string         `json:"product_name"`
	Brands          string         `json:"brands"`
	ImageURL        string         `json:"image_url"`
	ImageFrontURL   string         `json:"image_front_url"`
	IngredientsText string         `json:"ingredients_text"`
	Categories      string         `json:"categories"`
	AllergensTags   []string       `json:"allergens_tags"`
	TracesTags      []string       `json:"traces_tags"`
	LabelsTags      []string       `json:"labels_tags"`
	NutriScore      string         `json:"nutriscore_grade"`
	NovaGroup       *int           `json:"nova_group"`
	Nutriments      map[string]any `json:"nutriments"`
}

// Fetch looks up one barcode. A status-0 body or a 404 means the barcode is
// unknown, not an error.
func (a *OpenFoodFactsAdapter) Fetch(ctx context.Context, barcode string) (*domain.RawProviderRecord, error) {
	url := fmt.Sprintf("%s/api/v2/product/%s.json", a.baseURL, barcode)

	body, found, err := a.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var resp offResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openfoodfacts: decode product %s: %w", barcode, err)
	}
	if resp.Status != 1 {
		return nil, nil
	}

	return a.toRecord(&resp.Product), nil
}

// get executes the request under the circuit breaker. Not-found responses do
// not trip the breaker.
func (a *OpenFoodFactsAdapter) get(ctx context.Context, url string) ([]byte, bool, error) {
	type fetched struct {
		body  []byte
		found bool
	}

	v, err := a.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := a.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return &fetched{found: false}, nil
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("openfoodfacts: unexpected status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return &fetched{body: body, found: true}, nil
	})
	if err != nil {
		return nil, false, err
	}

	result := v.(*fetched)
	return result.body, result.found, nil
}

// toRecord maps the raw payload onto the provider-neutral record. Sodium
// arrives in grams per 100g and is converted to milligrams.
func (a *OpenFoodFactsAdapter) toRecord(p *offProduct) *domain.RawProviderRecord {
	record := &domain.RawProviderRecord{
		Provider:        domain.ProviderOpenFoodFacts,
		Name:            p.ProductName,
		Brand:           p.Brands,
		IngredientsText: p.IngredientsText,
		ImageURL:        firstNonEmpty(p.ImageFrontURL, p.ImageURL),
		Categories:      p.Categories,
		Tags:            append(append([]string{}, p.AllergensTags...), p.TracesTags...),
		Labels:          p.LabelsTags,
		NutriScore:      p.NutriScore,
		NovaLevel:       p.NovaGroup,
	}

	n := p.Nutriments
	record.Nutrients = domain.NutrientProfile{
		Energy:       nutrimentValue(n, "energy-kcal_100g", "energy-kcal"),
		Sugar:        nutrimentValue(n, "sugars_100g", "sugars"),
		SaturatedFat: nutrimentValue(n, "saturated-fat_100g", "saturated-fat"),
		Sodium:       scaleValue(nutrimentValue(n, "sodium_100g", "sodium"), 1000),
		Fiber:        nutrimentValue(n, "fiber_100g", "fiber"),
		Protein:      nutrimentValue(n, "proteins_100g", "proteins"),
		Carbohydrate: nutrimentValue(n, "carbohydrates_100g", "carbohydrates"),
		Fat:          nutrimentValue(n, "fat_100g", "fat"),
	}
	return record
}
