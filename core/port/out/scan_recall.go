package out

import (
	"context"

	"scan_server/core/domain"
)

// RecallChecker is the outbound port for the external recall collaborator.
// It is consulted after scoring; a nil RecallInfo means no recall is known.
// Errors are logged by the caller and never fail a scan.
type RecallChecker interface {
	Check(ctx context.Context, product *domain.MergedProduct) (*domain.RecallInfo, error)
}
