package storage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPackArchive is a mock implementation of port.PackArchive
type MockPackArchive struct {
	mock.Mock
}

func NewMockPackArchive() *MockPackArchive {
	return &MockPackArchive{}
}

func (m *MockPackArchive) ArchivePack(ctx context.Context, packID string, data []byte) error {
	args := m.Called(ctx, packID, data)
	return args.Error(0)
}

func (m *MockPackArchive) FetchPack(ctx context.Context, packID string) ([]byte, error) {
	args := m.Called(ctx, packID)
	return args.Get(0).([]byte), args.Error(1)
}
