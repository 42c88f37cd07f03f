package query

import (
	"context"

	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/port"
)

type queryService struct {
	harmonized port.HarmonizedRepository
	packs      port.PackRepository
}

// NewQueryService creates the read-only facade over the cached harmonized
// views and pack records.
func NewQueryService(harmonized port.HarmonizedRepository, packs port.PackRepository) port.QueryService {
	return &queryService{harmonized: harmonized, packs: packs}
}

// Lookup returns the cached harmonized view for an identifier. It never
// recomputes: the ingestion engine is the only writer of views.
func (q *queryService) Lookup(ctx context.Context, identifier string) (*domain.HarmonizedTag, error) {
	view, err := q.harmonized.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListPacks pages through ingested tagpack records.
func (q *queryService) ListPacks(ctx context.Context, limit int, marker *string) ([]domain.PackRecord, *string, error) {
	return q.packs.List(ctx, limit, marker)
}

// Composition reports tag and identifier counts per (creator, concept).
func (q *queryService) Composition(ctx context.Context) ([]domain.CompositionRow, error) {
	return q.packs.Composition(ctx)
}
