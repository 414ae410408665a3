package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/domain/service"
	"estate/internal/domain/stats"
	"estate/internal/errors"
	mockRepo "estate/internal/mocks/repository"
	"estate/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// statsServiceFixtures holds all test dependencies for stats service tests.
type statsServiceFixtures struct {
	service            *statsService
	listingRepo        *mockRepo.MockListingRepository
	developmentRepo    *mockRepo.MockDevelopmentRepository
	developerStatsRepo *mockRepo.MockDeveloperStatsRepository
	salesRepo          *mockRepo.MockSalesRepository
	now                time.Time
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestStatsService(t *testing.T) statsServiceFixtures {
	f := statsServiceFixtures{
		listingRepo:        mockRepo.NewMockListingRepository(t),
		developmentRepo:    mockRepo.NewMockDevelopmentRepository(t),
		developerStatsRepo: mockRepo.NewMockDeveloperStatsRepository(t),
		salesRepo:          mockRepo.NewMockSalesRepository(t),
		now:                time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	svc := NewStatsService(StatsServiceParams{
		ListingRepo:        f.listingRepo,
		DevelopmentRepo:    f.developmentRepo,
		DeveloperStatsRepo: f.developerStatsRepo,
		SalesRepo:          f.salesRepo,
		Logger:             discardLogger(),
	}).(*statsService)
	svc.now = func() time.Time { return f.now }
	f.service = svc

	return f
}

func purposeListings(ids ...string) []*entity.Listing {
	out := make([]*entity.Listing, 0, len(ids))
	for _, id := range ids {
		out = append(out, &entity.Listing{Purposes: entity.Refs{{ID: id}}})
	}

	return out
}

func TestStatsService_RecomputeDevelopmentStats(t *testing.T) {
	f := createTestStatsService(t)
	ctx := context.Background()
	developmentID := uuid.New()

	f.listingRepo.On("FindByDevelopment", ctx, developmentID).
		Return(purposeListings("rent", "rent", "sale"), nil)
	f.developmentRepo.On("UpdateStats", ctx, developmentID, mock.AnythingOfType("*entity.DevelopmentStats")).
		Return(nil)

	got, err := f.service.RecomputeDevelopmentStats(ctx, developmentID)
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalUnits)
	assert.Equal(t, []entity.CategoryStat{
		{CategoryID: "rent", TotalAmount: 2, Percentage: 66.67},
		{CategoryID: "sale", TotalAmount: 1, Percentage: 33.33},
	}, got.Distribution.Purposes)
}

func TestStatsService_RecomputeDevelopmentStats_WrapsFailures(t *testing.T) {
	f := createTestStatsService(t)
	ctx := context.Background()
	developmentID := uuid.New()
	dbErr := errors.New("connection reset")

	f.listingRepo.On("FindByDevelopment", ctx, developmentID).Return(nil, dbErr)

	_, err := f.service.RecomputeDevelopmentStats(ctx, developmentID)
	require.Error(t, err)

	var recomputeErr *domainerrors.StatsRecomputeError
	require.ErrorAs(t, err, &recomputeErr)
	assert.Equal(t, "development", recomputeErr.Scope)
	assert.Equal(t, developmentID.String(), recomputeErr.ID)
	assert.ErrorIs(t, err, dbErr)
}

func TestStatsService_RecomputeDeveloperStats_UsesEachSource(t *testing.T) {
	f := createTestStatsService(t)
	ctx := context.Background()
	developerID := uuid.New()
	revenue := 120.0
	listings := []*entity.Listing{
		{
			Purposes:         entity.Refs{{ID: "sale"}},
			Location:         entity.Location{Country: "Kenya"},
			Lifecycle:        entity.Finalized(entity.StatusSold),
			EstimatedRevenue: entity.EstimatedRevenue{EstimatedRevenue: &revenue},
		},
	}

	f.listingRepo.On("FindForDeveloperStats", ctx, developerID, stats.DeveloperStatuses).Return(listings, nil)
	f.developmentRepo.On("CountByDeveloper", ctx, developerID).Return(int64(2), nil)
	f.salesRepo.On("SummarizeByDeveloper", ctx, developerID).
		Return(&entity.SalesSummary{TotalRevenue: 5000, TotalSales: 4}, nil)
	f.developerStatsRepo.On("Save", ctx, mock.MatchedBy(func(s *entity.DeveloperStats) bool {
		return s.DeveloperID == developerID && s.TotalSales == 4
	})).Return(nil)

	got, err := f.service.RecomputeDeveloperStats(ctx, developerID)
	require.NoError(t, err)

	assert.Equal(t, 1, got.TotalUnits)
	assert.Equal(t, int64(2), got.TotalDevelopments)
	assert.InDelta(t, 5000.0, got.TotalRevenue, 1e-9)
	assert.InDelta(t, 120.0, got.EstimatedRevenue, 1e-9)
	assert.Equal(t, f.now, got.UpdatedAt)
	require.Len(t, got.Locations.Countries, 1)
	assert.Equal(t, int64(120), got.Locations.Countries[0].SalesAmount)
}

func TestStatsService_RecomputeOwnedDevelopmentStats(t *testing.T) {
	ownerID := uuid.New()
	developmentID := uuid.New()

	t.Run("not found", func(t *testing.T) {
		f := createTestStatsService(t)
		ctx := context.Background()
		f.developmentRepo.On("FindByID", ctx, developmentID).Return(nil, repository.ErrDevelopmentNotFound)

		_, err := f.service.RecomputeOwnedDevelopmentStats(ctx, ownerID, developmentID)
		assert.ErrorIs(t, err, domainerrors.ErrDevelopmentNotFound)
	})

	t.Run("not the owner", func(t *testing.T) {
		f := createTestStatsService(t)
		ctx := context.Background()
		f.developmentRepo.On("FindByID", ctx, developmentID).
			Return(&entity.Development{ID: developmentID, DeveloperID: uuid.New()}, nil)

		_, err := f.service.RecomputeOwnedDevelopmentStats(ctx, ownerID, developmentID)
		assert.ErrorIs(t, err, domainerrors.ErrDevelopmentForbidden)
	})

	t.Run("owner", func(t *testing.T) {
		f := createTestStatsService(t)
		ctx := context.Background()
		f.developmentRepo.On("FindByID", ctx, developmentID).
			Return(&entity.Development{ID: developmentID, DeveloperID: ownerID}, nil)
		f.listingRepo.On("FindByDevelopment", ctx, developmentID).Return([]*entity.Listing{}, nil)
		f.developmentRepo.On("UpdateStats", ctx, developmentID, mock.Anything).Return(nil)

		got, err := f.service.RecomputeOwnedDevelopmentStats(ctx, ownerID, developmentID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.TotalUnits)
	})
}

func TestStatsService_GetDeveloperStats_ComputesOnFirstAccess(t *testing.T) {
	f := createTestStatsService(t)
	ctx := context.Background()
	developerID := uuid.New()

	f.developerStatsRepo.On("FindByDeveloper", ctx, developerID).Return(nil, repository.ErrDeveloperStatsNotFound)
	f.listingRepo.On("FindForDeveloperStats", ctx, developerID, stats.DeveloperStatuses).Return([]*entity.Listing{}, nil)
	f.developmentRepo.On("CountByDeveloper", ctx, developerID).Return(int64(0), nil)
	f.salesRepo.On("SummarizeByDeveloper", ctx, developerID).Return(&entity.SalesSummary{}, nil)
	f.developerStatsRepo.On("Save", ctx, mock.Anything).Return(nil)

	got, err := f.service.GetDeveloperStats(ctx, developerID)
	require.NoError(t, err)
	assert.Equal(t, developerID, got.DeveloperID)
}

func TestStatsService_GetDeveloperStats_ReturnsStored(t *testing.T) {
	f := createTestStatsService(t)
	ctx := context.Background()
	developerID := uuid.New()
	stored := &entity.DeveloperStats{DeveloperID: developerID, TotalUnits: 9}

	f.developerStatsRepo.On("FindByDeveloper", ctx, developerID).Return(stored, nil)

	got, err := f.service.GetDeveloperStats(ctx, developerID)
	require.NoError(t, err)
	assert.Same(t, stored, got)
}

func TestStatsService_HandleListingEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed", func(t *testing.T) {
		f := createTestStatsService(t)

		err := f.service.HandleListingEvent(ctx, &service.ListingEvent{})
		assert.ErrorIs(t, err, usecase.ErrMalformedEvent)

		err = f.service.HandleListingEvent(ctx, &service.ListingEvent{Event: service.EventListingCreated, DevelopmentID: "nope"})
		assert.ErrorIs(t, err, usecase.ErrMalformedEvent)
	})

	t.Run("missing development is skipped", func(t *testing.T) {
		f := createTestStatsService(t)
		developmentID := uuid.New()
		f.listingRepo.On("FindByDevelopment", ctx, developmentID).Return([]*entity.Listing{}, nil)
		f.developmentRepo.On("UpdateStats", ctx, developmentID, mock.Anything).Return(repository.ErrDevelopmentNotFound)

		err := f.service.HandleListingEvent(ctx, &service.ListingEvent{
			Event:         service.EventListingDeleted,
			DevelopmentID: developmentID.String(),
			AccountType:   entity.AccountTypeAgent,
		})
		assert.NoError(t, err)
	})

	t.Run("developer failure is returned for redelivery", func(t *testing.T) {
		f := createTestStatsService(t)
		developerID := uuid.New()
		dbErr := errors.New("timeout")
		f.listingRepo.On("FindForDeveloperStats", ctx, developerID, stats.DeveloperStatuses).Return(nil, dbErr)

		err := f.service.HandleListingEvent(ctx, &service.ListingEvent{
			Event:       service.EventListingCreated,
			UserID:      developerID.String(),
			AccountType: entity.AccountTypeDeveloper,
		})
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, usecase.ErrMalformedEvent)
	})
}
