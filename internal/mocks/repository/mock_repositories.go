// Package repository holds testify mocks of the domain repositories.
package repository

import (
	"context"

	"estate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockListingRepository is a mock of repository.ListingRepository.
type MockListingRepository struct {
	mock.Mock
}

// NewMockListingRepository creates a mock that asserts its expectations on cleanup.
func NewMockListingRepository(t testingT) *MockListingRepository {
	m := &MockListingRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *MockListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *MockListingRepository) UpdateLifecycle(ctx context.Context, id uuid.UUID, lifecycle entity.Lifecycle) error {
	return m.Called(ctx, id, lifecycle).Error(0)
}

func (m *MockListingRepository) UpdateSocialAmenities(ctx context.Context, id uuid.UUID, amenities []entity.SocialAmenity) error {
	return m.Called(ctx, id, amenities).Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	listing, _ := args.Get(0).(*entity.Listing)

	return listing, args.Error(1)
}

func (m *MockListingRepository) FindResumableDraft(ctx context.Context, id, userID uuid.UUID) (*entity.Listing, error) {
	args := m.Called(ctx, id, userID)
	listing, _ := args.Get(0).(*entity.Listing)

	return listing, args.Error(1)
}

func (m *MockListingRepository) FindByDevelopment(ctx context.Context, developmentID uuid.UUID) ([]*entity.Listing, error) {
	args := m.Called(ctx, developmentID)
	listings, _ := args.Get(0).([]*entity.Listing)

	return listings, args.Error(1)
}

func (m *MockListingRepository) FindForDeveloperStats(ctx context.Context, userID uuid.UUID, statuses []entity.ListingStatus) ([]*entity.Listing, error) {
	args := m.Called(ctx, userID, statuses)
	listings, _ := args.Get(0).([]*entity.Listing)

	return listings, args.Error(1)
}

// MockDevelopmentRepository is a mock of repository.DevelopmentRepository.
type MockDevelopmentRepository struct {
	mock.Mock
}

// NewMockDevelopmentRepository creates a mock that asserts its expectations on cleanup.
func NewMockDevelopmentRepository(t testingT) *MockDevelopmentRepository {
	m := &MockDevelopmentRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockDevelopmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Development, error) {
	args := m.Called(ctx, id)
	development, _ := args.Get(0).(*entity.Development)

	return development, args.Error(1)
}

func (m *MockDevelopmentRepository) UpdateStats(ctx context.Context, id uuid.UUID, stats *entity.DevelopmentStats) error {
	return m.Called(ctx, id, stats).Error(0)
}

func (m *MockDevelopmentRepository) CountByDeveloper(ctx context.Context, developerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, developerID)

	return args.Get(0).(int64), args.Error(1)
}

// MockDeveloperStatsRepository is a mock of repository.DeveloperStatsRepository.
type MockDeveloperStatsRepository struct {
	mock.Mock
}

// NewMockDeveloperStatsRepository creates a mock that asserts its expectations on cleanup.
func NewMockDeveloperStatsRepository(t testingT) *MockDeveloperStatsRepository {
	m := &MockDeveloperStatsRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockDeveloperStatsRepository) Save(ctx context.Context, stats *entity.DeveloperStats) error {
	return m.Called(ctx, stats).Error(0)
}

func (m *MockDeveloperStatsRepository) FindByDeveloper(ctx context.Context, developerID uuid.UUID) (*entity.DeveloperStats, error) {
	args := m.Called(ctx, developerID)
	stats, _ := args.Get(0).(*entity.DeveloperStats)

	return stats, args.Error(1)
}

// MockSalesRepository is a mock of repository.SalesRepository.
type MockSalesRepository struct {
	mock.Mock
}

// NewMockSalesRepository creates a mock that asserts its expectations on cleanup.
func NewMockSalesRepository(t testingT) *MockSalesRepository {
	m := &MockSalesRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSalesRepository) SummarizeByDeveloper(ctx context.Context, developerID uuid.UUID) (*entity.SalesSummary, error) {
	args := m.Called(ctx, developerID)
	summary, _ := args.Get(0).(*entity.SalesSummary)

	return summary, args.Error(1)
}
