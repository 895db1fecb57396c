// Package recall contains the outbound recall-checker adapters.
package recall

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"scan_server/core/domain"
	"scan_server/core/port/out"
	"scan_server/pkg/httputil"
	"scan_server/pkg/logger"

	"github.com/goccy/go-json"
)

// NoopChecker satisfies out.RecallChecker when no recall feed is configured.
// It reports no recalls for every product.
type NoopChecker struct{}

var _ out.RecallChecker = (*NoopChecker)(nil)

func NewNoopChecker() *NoopChecker {
	return &NoopChecker{}
}

func (c *NoopChecker) Check(_ context.Context, _ *domain.MergedProduct) (*domain.RecallInfo, error) {
	return nil, nil
}

// =============================================================================
// HTTP Recall Feed
// =============================================================================

// HTTPChecker queries a recall feed by barcode. The feed answers 404 for
// products with no recall on file.
type HTTPChecker struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

var _ out.RecallChecker = (*HTTPChecker)(nil)

// HTTPCheckerConfig holds recall feed configuration.
type HTTPCheckerConfig struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPChecker creates a checker against the configured feed.
func NewHTTPChecker(cfg *HTTPCheckerConfig) *HTTPChecker {
	client := cfg.Client
	if client == nil {
		client = httputil.DefaultClient()
	}

	return &HTTPChecker{
		baseURL: cfg.BaseURL,
		client:  client,
		log:     logger.WithField("component", "recall_checker"),
	}
}

type recallFeedResponse struct {
	Recalled bool   `json:"recalled"`
	Reason   string `json:"reason"`
	Agency   string `json:"agency"`
	Date     string `json:"date"`
}

// Check looks up the product barcode in the feed. A missing entry is not an
// error; callers treat any error as "no recall information".
func (c *HTTPChecker) Check(ctx context.Context, product *domain.MergedProduct) (*domain.RecallInfo, error) {
	if product == nil || product.Barcode == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/recalls/%s", c.baseURL, product.Barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recall feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var feed recallFeedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, err
	}
	if !feed.Recalled {
		return nil, nil
	}

	return &domain.RecallInfo{
		Recalled: true,
		Reason:   feed.Reason,
		Agency:   feed.Agency,
		Date:     feed.Date,
	}, nil
}
