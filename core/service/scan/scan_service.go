// Package scan orchestrates the full barcode scan pipeline.
package scan

import (
	"context"

	"scan_server/core/domain"
	"scan_server/core/port/in"
	"scan_server/core/port/out"
	"scan_server/core/service/ingredient"
	"scan_server/core/service/resolver"
	"scan_server/core/service/scoring"
	"scan_server/pkg/apperr"
	"scan_server/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// =============================================================================
// Scan Orchestrator
// =============================================================================
//
// Pipeline per scan: cache read, provider resolution, ingredient detection,
// health scoring, allergen detection, recall lookup, cache write. Cache and
// recall failures degrade the result instead of failing the scan. Concurrent
// scans of the same barcode share one resolution via singleflight; allergen
// detection stays per-caller because it depends on the caller's profiles
// and tier.

// Service implements the scan inbound port.
type Service struct {
	resolver *resolver.Service
	detector *ingredient.Detector
	scorer   *scoring.Engine
	allergen in.AllergenUseCase
	cache    out.ProductCache
	recall   out.RecallChecker
	group    singleflight.Group
	log      *logger.Logger
}

// NewService wires the scan pipeline. The recall checker may be nil.
func NewService(res *resolver.Service, allergen in.AllergenUseCase, cache out.ProductCache, recall out.RecallChecker) *Service {
	return &Service{
		resolver: res,
		detector: ingredient.NewDetector(),
		scorer:   scoring.NewEngine(),
		allergen: allergen,
		cache:    cache,
		recall:   recall,
		log:      logger.WithField("component", "scan"),
	}
}

// resolved is the shared, caller-independent part of a scan.
type resolved struct {
	product *domain.MergedProduct
	result  *domain.ScanResult
}

// Scan resolves a barcode end to end for one user.
func (s *Service) Scan(ctx context.Context, userID string, tier domain.Tier, barcode string) (*domain.ScanResult, error) {
	if !resolver.ValidBarcode(barcode) {
		return nil, apperr.InvalidBarcode(barcode)
	}

	v, err, _ := s.group.Do(barcode, func() (any, error) {
		return s.resolveAndScore(ctx, barcode)
	})
	if err != nil {
		return nil, err
	}
	shared := v.(*resolved)
	if shared == nil || shared.result == nil {
		return nil, apperr.ProductNotFound(barcode)
	}

	// Personalize a copy so singleflight followers never share warnings.
	result := *shared.result
	result.Allergens = nil
	if s.allergen != nil && shared.product != nil {
		detected, err := s.allergen.DetectAll(ctx, userID, tier, shared.product)
		if err != nil {
			return nil, err
		}
		if len(detected) > 0 {
			result.Allergens = detected
		}
	}
	return &result, nil
}

// resolveAndScore produces the caller-independent scan result: it serves
// from cache when fresh, otherwise resolves providers, scores and caches.
func (s *Service) resolveAndScore(ctx context.Context, barcode string) (*resolved, error) {
	if cached := s.cacheGet(ctx, barcode); cached != nil {
		return &resolved{product: cached.Product, result: cached.Result}, nil
	}

	product, err := s.resolver.Resolve(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		// The resolver demotes provider errors to not-found. When the
		// context was cancelled mid-resolution that demotion would turn a
		// cancellation into a terminal miss for every singleflight caller.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, nil
	}

	result := s.assemble(ctx, product)
	s.cacheSet(ctx, barcode, product, result)
	return &resolved{product: product, result: result}, nil
}

// assemble runs detection, scoring and the recall lookup for a resolved
// product.
func (s *Service) assemble(ctx context.Context, product *domain.MergedProduct) *domain.ScanResult {
	result := &domain.ScanResult{
		Barcode:   product.Barcode,
		Name:      product.Name,
		Brand:     product.Brand,
		Image:     product.ImageURL,
		Nutrition: product.Nutrients,
		Sources:   product.Sources,
	}

	if scoring.InsufficientData(product) {
		result.HealthScore = scoring.InsufficientDataScore()
	} else {
		det := s.detector.Detect(product.IngredientsText, product.Name)
		result.HealthScore = s.scorer.Score(product, det)
		result.Additives = det.Additives
	}

	result.PositiveAttributes = scoring.PositiveAttributes(product)
	result.MissingData = product.Nutrients.MissingKeys()

	if s.recall != nil {
		info, err := s.recall.Check(ctx, product)
		if err != nil {
			s.log.WithError(err).Warn("recall check failed for barcode %s", product.Barcode)
		} else {
			result.Recall = info
		}
	}
	return result
}

func (s *Service) cacheGet(ctx context.Context, barcode string) *domain.CachedScan {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.Get(ctx, barcode)
	if err != nil {
		s.log.WithError(err).Warn("cache read failed for barcode %s", barcode)
		return nil
	}
	return cached
}

func (s *Service) cacheSet(ctx context.Context, barcode string, product *domain.MergedProduct, result *domain.ScanResult) {
	if s.cache == nil {
		return
	}
	entry := &domain.CachedScan{Result: result, Product: product}
	if err := s.cache.Set(ctx, barcode, entry); err != nil {
		s.log.WithError(err).Warn("cache write failed for barcode %s", barcode)
	}
}
