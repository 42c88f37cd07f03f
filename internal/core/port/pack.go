package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// PackRepository persists tagpack headers and doubles as the ingestion
// record: the row for a (source, title) key names the currently active
// version of that pack.
type PackRepository interface {
	Create(ctx context.Context, record domain.PackRecord) error
	FindByKey(ctx context.Context, key domain.PackKey) (*domain.PackRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit int, marker *string) ([]domain.PackRecord, *string, error)
	Composition(ctx context.Context) ([]domain.CompositionRow, error)
}
