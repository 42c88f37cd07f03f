package eventbroker

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// MockEventPublisher is a mock implementation of port.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.IngestedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
