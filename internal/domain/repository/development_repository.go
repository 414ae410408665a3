package repository

import (
	"context"

	"estate/internal/domain/entity"
	"estate/internal/errors"

	"github.com/google/uuid"
)

var (
	// ErrDevelopmentNotFound is returned when a development is not found.
	ErrDevelopmentNotFound = errors.New("development not found")

	// ErrDeveloperStatsNotFound is returned when no stats row exists for a developer yet.
	ErrDeveloperStatsNotFound = errors.New("developer stats not found")
)

// DevelopmentRepository defines the persistence operations for developments.
type DevelopmentRepository interface {
	// FindByID retrieves a development by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Development, error)

	// UpdateStats replaces the stored stats snapshot of a development.
	UpdateStats(ctx context.Context, id uuid.UUID, stats *entity.DevelopmentStats) error

	// CountByDeveloper counts the developments owned by a developer.
	CountByDeveloper(ctx context.Context, developerID uuid.UUID) (int64, error)
}

// DeveloperStatsRepository stores the per-developer stats snapshot.
type DeveloperStatsRepository interface {
	// Save upserts the developer stats row keyed by developer ID.
	Save(ctx context.Context, stats *entity.DeveloperStats) error

	// FindByDeveloper retrieves the stored snapshot.
	// Returns ErrDeveloperStatsNotFound if it has never been computed.
	FindByDeveloper(ctx context.Context, developerID uuid.UUID) (*entity.DeveloperStats, error)
}

// SalesRepository reads the sales ledger, the authoritative record of completed sales.
type SalesRepository interface {
	// SummarizeByDeveloper sums revenue and counts sales for a developer.
	SummarizeByDeveloper(ctx context.Context, developerID uuid.UUID) (*entity.SalesSummary, error)
}
