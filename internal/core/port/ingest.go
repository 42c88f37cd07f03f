package port

import (
	"context"

	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// IngestService represents the ingestion engine implementation
type IngestService interface {
	IngestDocument(ctx context.Context, location string, raw []byte) domain.PackReport
	IngestBatch(ctx context.Context, locations []string) (*domain.BatchReport, error)
}
