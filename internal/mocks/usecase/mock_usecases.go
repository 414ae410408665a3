// Package usecase holds testify mocks of the application use cases.
package usecase

import (
	"context"

	"estate/internal/domain/entity"
	"estate/internal/domain/service"
	"estate/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockListingUsecase is a mock of usecase.ListingUsecase.
type MockListingUsecase struct {
	mock.Mock
}

// NewMockListingUsecase creates a mock that asserts its expectations on cleanup.
func NewMockListingUsecase(t testingT) *MockListingUsecase {
	m := &MockListingUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockListingUsecase) IngestListing(ctx context.Context, input *usecase.IngestListingInput) (*usecase.IngestListingResult, error) {
	args := m.Called(ctx, input)
	result, _ := args.Get(0).(*usecase.IngestListingResult)

	return result, args.Error(1)
}

func (m *MockListingUsecase) GetListing(ctx context.Context, userID, listingID uuid.UUID) (*entity.Listing, error) {
	args := m.Called(ctx, userID, listingID)
	listing, _ := args.Get(0).(*entity.Listing)

	return listing, args.Error(1)
}

func (m *MockListingUsecase) DeleteListing(ctx context.Context, userID, listingID uuid.UUID, requestID string) error {
	return m.Called(ctx, userID, listingID, requestID).Error(0)
}

func (m *MockListingUsecase) GenerateListingQR(ctx context.Context, listingID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, listingID)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}

// MockStatsUsecase is a mock of usecase.StatsUsecase.
type MockStatsUsecase struct {
	mock.Mock
}

// NewMockStatsUsecase creates a mock that asserts its expectations on cleanup.
func NewMockStatsUsecase(t testingT) *MockStatsUsecase {
	m := &MockStatsUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockStatsUsecase) RecomputeDevelopmentStats(ctx context.Context, developmentID uuid.UUID) (*entity.DevelopmentStats, error) {
	args := m.Called(ctx, developmentID)
	stats, _ := args.Get(0).(*entity.DevelopmentStats)

	return stats, args.Error(1)
}

func (m *MockStatsUsecase) RecomputeDeveloperStats(ctx context.Context, developerID uuid.UUID) (*entity.DeveloperStats, error) {
	args := m.Called(ctx, developerID)
	stats, _ := args.Get(0).(*entity.DeveloperStats)

	return stats, args.Error(1)
}

func (m *MockStatsUsecase) RecomputeOwnedDevelopmentStats(ctx context.Context, userID, developmentID uuid.UUID) (*entity.DevelopmentStats, error) {
	args := m.Called(ctx, userID, developmentID)
	stats, _ := args.Get(0).(*entity.DevelopmentStats)

	return stats, args.Error(1)
}

func (m *MockStatsUsecase) GetDeveloperStats(ctx context.Context, developerID uuid.UUID) (*entity.DeveloperStats, error) {
	args := m.Called(ctx, developerID)
	stats, _ := args.Get(0).(*entity.DeveloperStats)

	return stats, args.Error(1)
}

func (m *MockStatsUsecase) HandleListingEvent(ctx context.Context, event *service.ListingEvent) error {
	return m.Called(ctx, event).Error(0)
}
