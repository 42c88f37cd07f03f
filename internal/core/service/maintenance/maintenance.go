package maintenance

import (
	"context"
	"log/slog"

	"github.com/tongard/graphsense-tagpack-tool/internal/core/port"
)

// Service runs periodic housekeeping over the tagstore.
type Service struct {
	uow    port.UnitOfWork
	logger *slog.Logger
}

// NewMaintenanceService creates the housekeeping service
func NewMaintenanceService(uow port.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// RemoveDuplicates deletes redundant tag rows where the same
// (identifier, concept, source, creator) combination was ingested more than
// once, keeping the newest row. Harmonized views are unaffected: duplicates
// within one cluster carry identical provenance and the next ingestion
// touching the identifier rewrites the view anyway.
func (s *Service) RemoveDuplicates(ctx context.Context) (int, error) {
	var removed int
	err := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		n, err := uow.TagRepo().DeleteDuplicates(ctx)
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("removed duplicate tags", "count", removed)
	}
	return removed, nil
}
