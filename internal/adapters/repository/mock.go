package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/domain"
	"github.com/tongard/graphsense-tagpack-tool/internal/core/port"
)

type MockTagRepository struct {
	mock.Mock
}

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{}
}

func (m *MockTagRepository) CreateMany(ctx context.Context, packID uuid.UUID, tags []domain.Tag) (int, error) {
	args := m.Called(ctx, packID, tags)
	return args.Int(0), args.Error(1)
}

func (m *MockTagRepository) FindByIdentifier(ctx context.Context, identifier string) ([]domain.SourcedTag, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).([]domain.SourcedTag), args.Error(1)
}

func (m *MockTagRepository) IdentifiersByPack(ctx context.Context, packID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, packID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTagRepository) DeleteByPack(ctx context.Context, packID uuid.UUID) (int, error) {
	args := m.Called(ctx, packID)
	return args.Int(0), args.Error(1)
}

func (m *MockTagRepository) DeleteDuplicates(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockPackRepository struct {
	mock.Mock
}

func NewMockPackRepository() *MockPackRepository {
	return &MockPackRepository{}
}

func (m *MockPackRepository) Create(ctx context.Context, record domain.PackRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPackRepository) FindByKey(ctx context.Context, key domain.PackKey) (*domain.PackRecord, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(*domain.PackRecord), args.Error(1)
}

func (m *MockPackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPackRepository) List(ctx context.Context, limit int, marker *string) ([]domain.PackRecord, *string, error) {
	args := m.Called(ctx, limit, marker)
	return args.Get(0).([]domain.PackRecord), args.Get(1).(*string), args.Error(2)
}

func (m *MockPackRepository) Composition(ctx context.Context) ([]domain.CompositionRow, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.CompositionRow), args.Error(1)
}

type MockHarmonizedRepository struct {
	mock.Mock
}

func NewMockHarmonizedRepository() *MockHarmonizedRepository {
	return &MockHarmonizedRepository{}
}

func (m *MockHarmonizedRepository) Upsert(ctx context.Context, view domain.HarmonizedTag) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}

func (m *MockHarmonizedRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.HarmonizedTag, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).(*domain.HarmonizedTag), args.Error(1)
}

func (m *MockHarmonizedRepository) Delete(ctx context.Context, identifier string) error {
	args := m.Called(ctx, identifier)
	return args.Error(0)
}

// MockUnitOfWork runs the transaction function against the mock
// repositories directly, without a real transaction.
type MockUnitOfWork struct {
	Tags       *MockTagRepository
	Packs      *MockPackRepository
	Harmonized *MockHarmonizedRepository
	ExecuteErr error
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Tags:       NewMockTagRepository(),
		Packs:      NewMockPackRepository(),
		Harmonized: NewMockHarmonizedRepository(),
	}
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	if m.ExecuteErr != nil {
		return m.ExecuteErr
	}
	return fn(m)
}

func (m *MockUnitOfWork) TagRepo() port.TagRepository {
	return m.Tags
}

func (m *MockUnitOfWork) PackRepo() port.PackRepository {
	return m.Packs
}

func (m *MockUnitOfWork) HarmonizedRepo() port.HarmonizedRepository {
	return m.Harmonized
}
