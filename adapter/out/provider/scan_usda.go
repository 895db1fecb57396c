package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"scan_server/core/domain"
	"scan_server/pkg/httputil"
	"scan_server/pkg/logger"
	"scan_server/pkg/ratelimit"
	"scan_server/pkg/resilience"

	"github.com/goccy/go-json"
)

// =============================================================================
// USDA FoodData Central Adapter
// =============================================================================

const defaultUSDABaseURL = "https://api.nal.usda.gov/fdc/v1"

// Nutrient numbers from the FDC branded-food schema.
const (
	usdaNutrientEnergy       = "208"
	usdaNutrientProtein      = "203"
	usdaNutrientFat          = "204"
	usdaNutrientCarbohydrate = "205"
	usdaNutrientSugar        = "269"
	usdaNutrientFiber        = "291"
	usdaNutrientSodium       = "307"
	usdaNutrientSaturatedFat = "606"
)

// USDAAdapter implements out.ProductProvider against FoodData Central's
// branded-food search, matched by GTIN/UPC.
type USDAAdapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cb      *resilience.CircuitBreaker
	limiter *ratelimit.SlidingWindowLimiter
	log     *logger.Logger
}

// USDAConfig holds FoodData Central configuration. Limiter is optional and
// keeps the shared API key inside FDC's hourly quota.
type USDAConfig struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Limiter *ratelimit.SlidingWindowLimiter
}

// NewUSDAAdapter creates a supplementary provider adapter for FDC.
func NewUSDAAdapter(cfg *USDAConfig) *USDAAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultUSDABaseURL
	}
	client := cfg.Client
	if client == nil {
		client = httputil.USDAClient()
	}

	return &USDAAdapter{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		client:  client,
		cb:      resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("usda-api")),
		limiter: cfg.Limiter,
		log:     logger.WithField("provider", "usda"),
	}
}

// Name returns the provider identifier.
func (a *USDAAdapter) Name() domain.ProviderName {
	return domain.ProviderUSDA
}

type usdaSearchResponse struct {
	Foods []usdaFood `json:"foods"`
}

type usdaFood struct {
	Description    string         `json:"description"`
	BrandOwner     string         `json:"brandOwner"`
	BrandName      string         `json:"brandName"`
	GtinUpc        string         `json:"gtinUpc"`
	Ingredients    string         `json:"ingredients"`
	FoodCategory   string         `json:"foodCategory"`
	FoodNutrients  []usdaNutrient `json:"foodNutrients"`
	ServingSize    float64        `json:"servingSize"`
	ServingSizeUOM string         `json:"servingSizeUnit"`
}

type usdaNutrient struct {
	NutrientNumber string  `json:"nutrientNumber"`
	NutrientName   string  `json:"nutrientName"`
	UnitName       string  `json:"unitName"`
	Value          float64 `json:"value"`
}

// Fetch searches branded foods for the barcode. An empty result set means
// the barcode is unknown.
func (a *USDAAdapter) Fetch(ctx context.Context, barcode string) (*domain.RawProviderRecord, error) {
	if a.apiKey == "" {
		return nil, nil
	}

	// Quota guard: a throttled lookup is a skip, not a failure.
	if a.limiter != nil {
		if allowed, retryAfter := a.limiter.Allow(ctx, "usda"); !allowed {
			a.log.Debug("rate limited, skipping lookup for %s (retry in %s)", barcode, retryAfter)
			return nil, nil
		}
	}

	query := url.Values{}
	query.Set("api_key", a.apiKey)
	query.Set("query", barcode)
	query.Set("dataType", "Branded")
	query.Set("pageSize", "5")
	endpoint := fmt.Sprintf("%s/foods/search?%s", a.baseURL, query.Encode())

	var resp usdaSearchResponse
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

		if httpResp.StatusCode != http.StatusOK {
			return fmt.Errorf("usda: unexpected status %d", httpResp.StatusCode)
		}

		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return err
		}
		return json.Unmarshal(body, &resp)
	})
	if err != nil {
		return nil, err
	}

	food := matchByGtin(resp.Foods, barcode)
	if food == nil {
		return nil, nil
	}
	return a.toRecord(food), nil
}

// matchByGtin prefers an exact GTIN match over search relevance ordering.
func matchByGtin(foods []usdaFood, barcode string) *usdaFood {
	for i := range foods {
		if foods[i].GtinUpc == barcode {
			return &foods[i]
		}
	}
	if len(foods) > 0 {
		return &foods[0]
	}
	return nil
}

func (a *USDAAdapter) toRecord(food *usdaFood) *domain.RawProviderRecord {
	record := &domain.RawProviderRecord{
		Provider:        domain.ProviderUSDA,
		Name:            food.Description,
		Brand:           firstNonEmpty(food.BrandName, food.BrandOwner),
		IngredientsText: food.Ingredients,
		Categories:      food.FoodCategory,
	}

	for _, n := range food.FoodNutrients {
		value := n.Value
		switch n.NutrientNumber {
		case usdaNutrientEnergy:
			record.Nutrients.Energy = floatPtr(value)
		case usdaNutrientSugar:
			record.Nutrients.Sugar = floatPtr(value)
		case usdaNutrientSaturatedFat:
			record.Nutrients.SaturatedFat = floatPtr(value)
		case usdaNutrientSodium:
			record.Nutrients.Sodium = floatPtr(value) // FDC reports sodium in mg
		case usdaNutrientFiber:
			record.Nutrients.Fiber = floatPtr(value)
		case usdaNutrientProtein:
			record.Nutrients.Protein = floatPtr(value)
		case usdaNutrientCarbohydrate:
			record.Nutrients.Carbohydrate = floatPtr(value)
		case usdaNutrientFat:
			record.Nutrients.Fat = floatPtr(value)
		}
	}
	return record
}
