package query

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
)

// MockQueryService is a mock implementation of QueryService
type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) Lookup(ctx context.Context, identifier string) (*domain.HarmonizedTag, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).(*domain.HarmonizedTag), args.Error(1)
}

func (m *MockQueryService) ListPacks(ctx context.Context, limit int, marker *string) ([]domain.PackRecord, *string, error) {
	args := m.Called(ctx, limit, marker)
	return args.Get(0).([]domain.PackRecord), args.Get(1).(*string), args.Error(2)
}

func (m *MockQueryService) Composition(ctx context.Context) ([]domain.CompositionRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.CompositionRow), args.Error(1)
}
