package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// TagRepository represents a tag repository implementation. Write access
// goes through the ingestion engine only.
type TagRepository interface {
	CreateMany(ctx context.Context, packID uuid.UUID, tags []domain.Tag) (int, error)
	FindByIdentifier(ctx context.Context, identifier string) ([]domain.SourcedTag, error)
	IdentifiersByPack(ctx context.Context, packID uuid.UUID) ([]string, error)
	DeleteByPack(ctx context.Context, packID uuid.UUID) (int, error)
	DeleteDuplicates(ctx context.Context) (int, error)
}
