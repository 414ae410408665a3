package usecase

import (
	"context"

	"estate/internal/domain/entity"

	"github.com/google/uuid"
)

// FilePart is one binary attachment of a listing submission, already read into memory.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// AlbumUpload is a named album and the images submitted for it.
type AlbumUpload struct {
	Index  int
	Name   string
	Images []*FilePart
}

// IngestListingInput is one listing submission.
type IngestListingInput struct {
	BearerToken string
	RequestID   string

	// DataJSON holds the structured listing fields.
	DataJSON []byte

	MediaFiles      []*FilePart
	Albums          []*AlbumUpload
	AdditionalFiles []*FilePart
	Model3D         *FilePart
	Video           *FilePart
	FloorPlan       *FilePart

	SocialAmenitiesJSON []byte
	ResumeListingID     string
	FinalListingStatus  string
}

// IngestListingResult is the outcome of a successful ingestion.
type IngestListingResult struct {
	Listing *entity.Listing
	Resumed bool

	// Warnings lists best-effort steps that degraded without failing the listing.
	Warnings []string
}

// ListingUsecase defines the listing ingestion and owner operations
type ListingUsecase interface {
	// IngestListing runs the full ingestion pipeline for one submission
	IngestListing(ctx context.Context, input *IngestListingInput) (*IngestListingResult, error)

	// GetListing returns a listing owned by userID, drafts included
	GetListing(ctx context.Context, userID, listingID uuid.UUID) (*entity.Listing, error)

	// DeleteListing removes a listing with its files and refreshes the affected aggregates
	DeleteListing(ctx context.Context, userID, listingID uuid.UUID, requestID string) error

	// GenerateListingQR returns a PNG QR code pointing at the public listing page
	GenerateListingQR(ctx context.Context, listingID uuid.UUID) ([]byte, error)
}
