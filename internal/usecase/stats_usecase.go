package usecase

import (
	"context"

	"estate/internal/domain/entity"
	"estate/internal/domain/service"
	"estate/internal/errors"

	"github.com/google/uuid"
)

// ErrMalformedEvent is returned for listing events that can never be processed.
var ErrMalformedEvent = errors.New("malformed listing event")

// StatsUsecase recomputes development and developer aggregates from the current listings
type StatsUsecase interface {
	// RecomputeDevelopmentStats replaces the stats of a development
	RecomputeDevelopmentStats(ctx context.Context, developmentID uuid.UUID) (*entity.DevelopmentStats, error)

	// RecomputeDeveloperStats replaces the stats of a developer
	RecomputeDeveloperStats(ctx context.Context, developerID uuid.UUID) (*entity.DeveloperStats, error)

	// RecomputeOwnedDevelopmentStats recomputes a development after checking that userID owns it
	RecomputeOwnedDevelopmentStats(ctx context.Context, userID, developmentID uuid.UUID) (*entity.DevelopmentStats, error)

	// GetDeveloperStats returns the stored developer snapshot
	GetDeveloperStats(ctx context.Context, developerID uuid.UUID) (*entity.DeveloperStats, error)

	// HandleListingEvent refreshes every aggregate a listing event touches
	HandleListingEvent(ctx context.Context, event *service.ListingEvent) error
}
