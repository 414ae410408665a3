// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"estate/internal/domain/entity"
	"estate/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for listing persistence.
var (
	// ErrListingNotFound is returned when a listing is not found.
	ErrListingNotFound = errors.New("listing not found")
)

// ListingRepository defines the single-row operations the ingestion pipeline needs.
// No method spans more than one row; the pipeline compensates instead of relying on transactions.
type ListingRepository interface {
	// Create inserts a new listing row. The listing ID is assigned by the caller.
	Create(ctx context.Context, listing *entity.Listing) error

	// Update overwrites every authored and derived column of an existing listing.
	Update(ctx context.Context, listing *entity.Listing) error

	// UpdateLifecycle writes only the three lifecycle columns.
	UpdateLifecycle(ctx context.Context, id uuid.UUID, lifecycle entity.Lifecycle) error

	// UpdateSocialAmenities writes only the social amenities column.
	UpdateSocialAmenities(ctx context.Context, id uuid.UUID, amenities []entity.SocialAmenity) error

	// Delete removes a listing row.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID retrieves a listing by its ID.
	// Returns ErrListingNotFound if it does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error)

	// FindResumableDraft looks up a draft owned by userID that is still in the drafting state.
	// Returns ErrListingNotFound when no such draft exists.
	FindResumableDraft(ctx context.Context, id, userID uuid.UUID) (*entity.Listing, error)

	// FindByDevelopment returns every listing attached to a development.
	FindByDevelopment(ctx context.Context, developmentID uuid.UUID) ([]*entity.Listing, error)

	// FindForDeveloperStats returns the developer-account listings of userID in one of the given statuses.
	FindForDeveloperStats(ctx context.Context, userID uuid.UUID, statuses []entity.ListingStatus) ([]*entity.Listing, error)
}
