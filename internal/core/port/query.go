package port

import (
	"context"

	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// QueryService is the read path used by the web collaborator. It never
// triggers recomputation.
type QueryService interface {
	Lookup(ctx context.Context, identifier string) (*domain.HarmonizedTag, error)
	ListPacks(ctx context.Context, limit int, marker *string) ([]domain.PackRecord, *string, error)
	Composition(ctx context.Context) ([]domain.CompositionRow, error)
}
