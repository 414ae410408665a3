package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "estate/internal/delivery/context"
	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/domain/service"
	"estate/internal/domain/stats"
	"estate/internal/errors"
	"estate/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	statsScopeDevelopment = "development"
	statsScopeDeveloper   = "developer"
)

type statsService struct {
	listingRepo        repository.ListingRepository
	developmentRepo    repository.DevelopmentRepository
	developerStatsRepo repository.DeveloperStatsRepository
	salesRepo          repository.SalesRepository
	logger             *slog.Logger
	now                func() time.Time
}

// StatsServiceParams holds dependencies for StatsService, injected by Fx.
type StatsServiceParams struct {
	fx.In

	ListingRepo        repository.ListingRepository
	DevelopmentRepo    repository.DevelopmentRepository
	DeveloperStatsRepo repository.DeveloperStatsRepository
	SalesRepo          repository.SalesRepository
	Logger             *slog.Logger
}

// NewStatsService creates a new stats service instance
func NewStatsService(params StatsServiceParams) usecase.StatsUsecase {
	return &statsService{
		listingRepo:        params.ListingRepo,
		developmentRepo:    params.DevelopmentRepo,
		developerStatsRepo: params.DeveloperStatsRepo,
		salesRepo:          params.SalesRepo,
		logger:             params.Logger,
		now:                func() time.Time { return time.Now().UTC() },
	}
}

// RecomputeDevelopmentStats rebuilds the development snapshot from every listing attached to it.
func (s *statsService) RecomputeDevelopmentStats(ctx context.Context, developmentID uuid.UUID) (*entity.DevelopmentStats, error) {
	listings, err := s.listingRepo.FindByDevelopment(ctx, developmentID)
	if err != nil {
		return nil, s.recomputeError(statsScopeDevelopment, developmentID, err)
	}

	snapshot := stats.Development(listings)
	if err := s.developmentRepo.UpdateStats(ctx, developmentID, &snapshot); err != nil {
		return nil, s.recomputeError(statsScopeDevelopment, developmentID, err)
	}

	deliverycontext.GetLoggerOrDefault(ctx, s.logger).Info("Development stats recomputed",
		slog.String("development_id", developmentID.String()),
		slog.Int("total_units", snapshot.TotalUnits),
	)

	return &snapshot, nil
}

// RecomputeDeveloperStats rebuilds the developer snapshot. Each roll-up number comes from its own source.
func (s *statsService) RecomputeDeveloperStats(ctx context.Context, developerID uuid.UUID) (*entity.DeveloperStats, error) {
	listings, err := s.listingRepo.FindForDeveloperStats(ctx, developerID, stats.DeveloperStatuses)
	if err != nil {
		return nil, s.recomputeError(statsScopeDeveloper, developerID, err)
	}

	developments, err := s.developmentRepo.CountByDeveloper(ctx, developerID)
	if err != nil {
		return nil, s.recomputeError(statsScopeDeveloper, developerID, err)
	}

	sales, err := s.salesRepo.SummarizeByDeveloper(ctx, developerID)
	if err != nil {
		return nil, s.recomputeError(statsScopeDeveloper, developerID, err)
	}

	snapshot := stats.Developer(developerID, listings, developments, sales, s.now())
	if err := s.developerStatsRepo.Save(ctx, snapshot); err != nil {
		return nil, s.recomputeError(statsScopeDeveloper, developerID, err)
	}

	deliverycontext.GetLoggerOrDefault(ctx, s.logger).Info("Developer stats recomputed",
		slog.String("developer_id", developerID.String()),
		slog.Int("total_units", snapshot.TotalUnits),
		slog.Int64("total_developments", snapshot.TotalDevelopments),
	)

	return snapshot, nil
}

// RecomputeOwnedDevelopmentStats checks ownership before recomputing.
func (s *statsService) RecomputeOwnedDevelopmentStats(ctx context.Context, userID, developmentID uuid.UUID) (*entity.DevelopmentStats, error) {
	development, err := s.developmentRepo.FindByID(ctx, developmentID)
	if err != nil {
		if errors.Is(err, repository.ErrDevelopmentNotFound) {
			return nil, domainerrors.ErrDevelopmentNotFound
		}

		return nil, errors.Wrap(err, "failed to find development")
	}
	if development.DeveloperID != userID {
		return nil, domainerrors.ErrDevelopmentForbidden
	}

	return s.RecomputeDevelopmentStats(ctx, developmentID)
}

// GetDeveloperStats returns the stored snapshot, computing it on first access.
func (s *statsService) GetDeveloperStats(ctx context.Context, developerID uuid.UUID) (*entity.DeveloperStats, error) {
	snapshot, err := s.developerStatsRepo.FindByDeveloper(ctx, developerID)
	if err == nil {
		return snapshot, nil
	}
	if !errors.Is(err, repository.ErrDeveloperStatsNotFound) {
		return nil, errors.Wrap(err, "failed to find developer stats")
	}

	return s.RecomputeDeveloperStats(ctx, developerID)
}

// HandleListingEvent recomputes the development and developer touched by the event.
// A development that no longer exists is skipped; other failures are returned so the event is redelivered.
func (s *statsService) HandleListingEvent(ctx context.Context, event *service.ListingEvent) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)

	if event == nil || event.Event == "" {
		return errors.Wrap(usecase.ErrMalformedEvent, "missing event name")
	}

	var errs []error

	if event.DevelopmentID != "" {
		developmentID, err := uuid.Parse(event.DevelopmentID)
		if err != nil {
			return errors.Wrapf(usecase.ErrMalformedEvent, "development_id %q", event.DevelopmentID)
		}
		if _, err := s.RecomputeDevelopmentStats(ctx, developmentID); err != nil {
			if errors.Is(err, repository.ErrDevelopmentNotFound) {
				logger.Warn("Skipping stats for missing development",
					slog.String("development_id", event.DevelopmentID),
					slog.String("listing_id", event.ListingID),
				)
			} else {
				errs = append(errs, err)
			}
		}
	}

	if event.AccountType == entity.AccountTypeDeveloper {
		developerID, err := uuid.Parse(event.UserID)
		if err != nil {
			return errors.Wrapf(usecase.ErrMalformedEvent, "user_id %q", event.UserID)
		}
		if _, err := s.RecomputeDeveloperStats(ctx, developerID); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (s *statsService) recomputeError(scope string, id uuid.UUID, err error) error {
	return &domainerrors.StatsRecomputeError{Scope: scope, ID: id.String(), Err: err}
}
