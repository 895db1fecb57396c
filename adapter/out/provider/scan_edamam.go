package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"scan_server/core/domain"
	"scan_server/pkg/httputil"
	"scan_server/pkg/logger"
	"scan_server/pkg/resilience"

	"github.com/goccy/go-json"
)

// =============================================================================
// Edamam Food Database Adapter
// =============================================================================

const defaultEdamamBaseURL = "https://api.edamam.com/api/food-database/v2"

// EdamamAdapter implements out.ProductProvider against the Edamam Food
// Database parser endpoint, matched by UPC.
type EdamamAdapter struct {
	baseURL string
	appID   string
	appKey  string
	client  *http.Client
	cb      *resilience.CircuitBreaker
	log     *logger.Logger
}

// EdamamConfig holds Edamam configuration.
type EdamamConfig struct {
	BaseURL string
	AppID   string
	AppKey  string
	Client  *http.Client
}

// NewEdamamAdapter creates a supplementary provider adapter.
func NewEdamamAdapter(cfg *EdamamConfig) *EdamamAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultEdamamBaseURL
	}
	client := cfg.Client
	if client == nil {
		client = httputil.EdamamClient()
	}

	return &EdamamAdapter{
		baseURL: baseURL,
		appID:   cfg.AppID,
		appKey:  cfg.AppKey,
		client:  client,
		cb:      resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("edamam-api")),
		log:     logger.WithField("provider", "edamam"),
	}
}

// Name returns the provider identifier.
func (a *EdamamAdapter) Name() domain.ProviderName {
	return domain.ProviderEdamam
}

type edamamResponse struct {
	Hints []edamamHint `json:"hints"`
}

type edamamHint struct {
	Food edamamFood `json:"food"`
}

type edamamFood struct {
	Label          string             `json:"label"`
	Brand          string             `json:"brand"`
	Category       string             `json:"category"`
	Image          string             `json:"image"`
	FoodContents   string             `json:"foodContentsLabel"`
	Nutrients      map[string]float64 `json:"nutrients"`
	HealthLabels   []string           `json:"healthLabels"`
	CautionsLabels []string           `json:"cautions"`
}

// Fetch looks up one barcode via the parser endpoint. Edamam reports unknown
// UPCs either as an empty hint list or as a 404.
func (a *EdamamAdapter) Fetch(ctx context.Context, barcode string) (*domain.RawProviderRecord, error) {
	if a.appID == "" || a.appKey == "" {
		return nil, nil
	}

	query := url.Values{}
	query.Set("app_id", a.appID)
	query.Set("app_key", a.appKey)
	query.Set("upc", barcode)
	endpoint := fmt.Sprintf("%s/parser?%s", a.baseURL, query.Encode())

	var resp edamamResponse
	var found bool
	err := a.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		httpResp, err := a.client.Do(req)
		if err != nil {
			return err
		}
		defer httpResp.Body.Close()

		if httpResp.StatusCode == http.StatusNotFound {
			found = false
			return nil
		}
		if httpResp.StatusCode != http.StatusOK {
			return fmt.Errorf("edamam: unexpected status %d", httpResp.StatusCode)
		}

		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found || len(resp.Hints) == 0 {
		return nil, nil
	}

	return a.toRecord(&resp.Hints[0].Food), nil
}

// Edamam nutrient codes: ENERC_KCAL kcal, SUGAR g, FASAT g, NA mg, FIBTG g,
// PROCNT g, CHOCDF g, FAT g.
func (a *EdamamAdapter) toRecord(food *edamamFood) *domain.RawProviderRecord {
	record := &domain.RawProviderRecord{
		Provider:        domain.ProviderEdamam,
		Name:            food.Label,
		Brand:           food.Brand,
		IngredientsText: food.FoodContents,
		ImageURL:        food.Image,
		Categories:      food.Category,
		Labels:          normalizeHealthLabels(food.HealthLabels),
	}

	record.Nutrients = domain.NutrientProfile{
		Energy:       edamamNutrient(food.Nutrients, "ENERC_KCAL"),
		Sugar:        edamamNutrient(food.Nutrients, "SUGAR"),
		SaturatedFat: edamamNutrient(food.Nutrients, "FASAT"),
		Sodium:       edamamNutrient(food.Nutrients, "NA"),
		Fiber:        edamamNutrient(food.Nutrients, "FIBTG"),
		Protein:      edamamNutrient(food.Nutrients, "PROCNT"),
		Carbohydrate: edamamNutrient(food.Nutrients, "CHOCDF"),
		Fat:          edamamNutrient(food.Nutrients, "FAT"),
	}
	return record
}

func edamamNutrient(m map[string]float64, key string) *float64 {
	if v, ok := m[key]; ok {
		return floatPtr(v)
	}
	return nil
}

// normalizeHealthLabels lowercases Edamam's SHOUTING_CASE health labels into
// the hyphenated form the rest of the pipeline matches on.
func normalizeHealthLabels(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(labels))
	for _, label := range labels {
		normalized = append(normalized, strings.ReplaceAll(strings.ToLower(label), "_", "-"))
	}
	return normalized
}
