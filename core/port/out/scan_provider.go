package out

import (
	"context"

	"scan_server/core/domain"
)

// ProductProvider is the outbound port for one external nutrition data
// source. Fetch returns (nil, nil) when the provider does not know the
// barcode; transport errors, timeouts and malformed responses are returned
// as errors and the resolver treats them as not-found.
type ProductProvider interface {
	// Name identifies the provider in merge provenance and logs.
	Name() domain.ProviderName

	// Fetch looks up a single barcode candidate.
	Fetch(ctx context.Context, barcode string) (*domain.RawProviderRecord, error)
}
