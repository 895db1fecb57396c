package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"scan_server/core/domain"
	"scan_server/pkg/httputil"
	"scan_server/pkg/logger"
	"scan_server/pkg/resilience"

	"github.com/goccy/go-json"
)

// =============================================================================
// Nutritionix Adapter
// =============================================================================

const defaultNutritionixBaseURL = "https://trackapi.nutritionix.com/v2"

// NutritionixAdapter implements out.ProductProvider against the Nutritionix
// UPC item lookup.
type NutritionixAdapter struct {
	baseURL string
	appID   string
	appKey  string
	client  *http.Client
	cb      *resilience.CircuitBreaker
	log     *logger.Logger
}

// NutritionixConfig holds Nutritionix configuration.
type NutritionixConfig struct {
	BaseURL string
	AppID   string
	AppKey  string
	Client  *http.Client
}

// NewNutritionixAdapter creates a supplementary provider adapter.
func NewNutritionixAdapter(cfg *NutritionixConfig) *NutritionixAdapter {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultNutritionixBaseURL
	}
	client := cfg.Client
	if client == nil {
		client = httputil.NutritionixClient()
	}

	return &NutritionixAdapter{
		baseURL: baseURL,
		appID:   cfg.AppID,
		appKey:  cfg.AppKey,
		client:  client,
		cb:      resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("nutritionix-api")),
		log:     logger.WithField("provider", "nutritionix"),
	}
}

// Name returns the provider identifier.
func (a *NutritionixAdapter) Name() domain.ProviderName {
	return domain.ProviderNutritionix
}

type nutritionixResponse struct {
	Foods []nutritionixFood `json:"foods"`
}

type nutritionixFood struct {
	FoodName            string           `json:"food_name"`
	BrandName           string           `json:"brand_name"`
	Calories            *float64         `json:"nf_calories"`
	Sugars              *float64         `json:"nf_sugars"`
	SaturatedFat        *float64         `json:"nf_saturated_fat"`
	Sodium              *float64         `json:"nf_sodium"`
	DietaryFiber        *float64         `json:"nf_dietary_fiber"`
	Protein             *float64         `json:"nf_protein"`
	TotalCarbohydrate   *float64         `json:"nf_total_carbohydrate"`
	TotalFat            *float64         `json:"nf_total_fat"`
	IngredientStatement string           `json:"nf_ingredient_statement"`
	Photo               nutritionixPhoto `json:"photo"`
}

type nutritionixPhoto struct {
	Thumb string `json:"thumb"`
}

// Fetch looks up one barcode. Nutritionix answers 404 for unknown UPCs.
func (a *NutritionixAdapter) Fetch(ctx context.Context, barcode string) (*domain.RawProviderRecord, error) {
	if a.appID == "" || a.appKey == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/search/item?upc=%s", a.baseURL, barcode)

	var resp nutritionixResponse
	var found bool
	err := a.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("x-app-id", a.appID)
		req.Header.Set("x-app-key", a.appKey)

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
			return fmt.Errorf("nutritionix: unexpected status %d", httpResp.StatusCode)
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
	if !found || len(resp.Foods) == 0 {
		return nil, nil
	}

	return a.toRecord(&resp.Foods[0]), nil
}

func (a *NutritionixAdapter) toRecord(food *nutritionixFood) *domain.RawProviderRecord {
	return &domain.RawProviderRecord{
		Provider:        domain.ProviderNutritionix,
		Name:            food.FoodName,
		Brand:           food.BrandName,
		IngredientsText: food.IngredientStatement,
		ImageURL:        food.Photo.Thumb,
		Nutrients: domain.NutrientProfile{
			Energy:       food.Calories,
			Sugar:        food.Sugars,
			SaturatedFat: food.SaturatedFat,
			Sodium:       food.Sodium, // already mg
			Fiber:        food.DietaryFiber,
			Protein:      food.Protein,
			Carbohydrate: food.TotalCarbohydrate,
			Fat:          food.TotalFat,
		},
	}
}
