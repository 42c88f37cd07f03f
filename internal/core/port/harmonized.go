package port

import (
	"context"

	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// HarmonizedRepository holds the cached harmonized view per identifier.
// The ingestion engine owns writes; the query facade only reads.
type HarmonizedRepository interface {
	Upsert(ctx context.Context, view domain.HarmonizedTag) error
	FindByIdentifier(ctx context.Context, identifier string) (*domain.HarmonizedTag, error)
	Delete(ctx context.Context, identifier string) error
}
