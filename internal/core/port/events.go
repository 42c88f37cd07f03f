package port

import (
	"context"

	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// EventPublisher is an interface to publish ingestion events to a broker
// (nats, kafka, ...)
type EventPublisher interface {
	Publish(ctx context.Context, event domain.IngestedEvent) error
	Close() error
}
