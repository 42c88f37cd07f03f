package ingest

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// IngestBatch ingests a list of document locations with a bounded worker
// pool, one worker per in-flight tagpack. Each pack's outcome is reported
// independently; a failing pack never aborts the rest of the batch.
// Cancellation is pack-granular: packs not yet started are skipped when ctx
// is done, in-flight packs run to completion.
func (e *engine) IngestBatch(ctx context.Context, locations []string) (*domain.BatchReport, error) {
	if len(locations) == 0 {
		return &domain.BatchReport{}, nil
	}

	reports := make([]domain.PackReport, len(locations))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < e.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				reports[i] = e.ingestLocation(ctx, locations[i])
			}
		}()
	}

dispatch:
	for i := range locations {
		if ctx.Err() != nil {
			for j := i; j < len(locations); j++ {
				reports[j] = domain.PackReport{
					Location: locations[j],
					Status:   domain.PackFailed,
					Err:      ctx.Err(),
				}
			}
			break dispatch
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	report := &domain.BatchReport{Packs: reports}
	e.logger.Info("batch ingestion finished",
		"packs", len(locations),
		"accepted", report.Accepted(),
		"rejected", report.Rejected(),
		"failed", report.Failed(),
	)
	return report, ctx.Err()
}

func (e *engine) ingestLocation(ctx context.Context, location string) domain.PackReport {
	raw, err := os.ReadFile(location)
	if err != nil {
		return domain.PackReport{
			Location: location,
			Status:   domain.PackFailed,
			Err:      fmt.Errorf("failed to read document: %w", err),
		}
	}
	return e.IngestDocument(ctx, location, raw)
}
