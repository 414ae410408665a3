package handler

import (
	"time"

	"estate/internal/domain/entity"

	"github.com/google/uuid"
)

// ListingView is the JSON shape of a listing returned to owners.
type ListingView struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	AccountType   string     `json:"account_type"`
	DevelopmentID *uuid.UUID `json:"development_id,omitempty"`

	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Availability   string         `json:"availability"`
	Size           string         `json:"size,omitempty"`
	Specifications map[string]any `json:"specifications,omitempty"`

	Purposes     entity.Refs         `json:"property_purposes"`
	Types        entity.Refs         `json:"property_types"`
	Categories   entity.Refs         `json:"property_categories"`
	ListingTypes entity.ListingTypes `json:"listing_types"`

	Location entity.Location `json:"location"`
	Pricing  entity.Pricing  `json:"pricing"`

	Media           entity.Media           `json:"media"`
	AdditionalFiles []entity.FileRecord    `json:"additional_files"`
	Model3D         *entity.FileRecord     `json:"model_3d,omitempty"`
	FloorPlan       *entity.FileRecord     `json:"floor_plan,omitempty"`
	SocialAmenities []entity.SocialAmenity `json:"social_amenities"`

	EstimatedRevenue entity.EstimatedRevenue `json:"estimated_revenue"`
	GlobalPrice      entity.GlobalPrice      `json:"global_price"`

	ListingCondition entity.ListingCondition `json:"listing_condition"`
	UploadStatus     entity.UploadStatus     `json:"upload_status"`
	ListingStatus    entity.ListingStatus    `json:"listing_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IngestView wraps the listing with the ingestion outcome.
type IngestView struct {
	Listing  *ListingView `json:"listing"`
	Resumed  bool         `json:"resumed"`
	Warnings []string     `json:"warnings,omitempty"`
}

func newListingView(l *entity.Listing) *ListingView {
	condition, upload, status := l.Lifecycle.Fields()

	return &ListingView{
		ID:               l.ID,
		UserID:           l.UserID,
		AccountType:      l.AccountType,
		DevelopmentID:    l.DevelopmentID,
		Title:            l.Title,
		Description:      l.Description,
		Availability:     l.Availability,
		Size:             l.Size,
		Specifications:   l.Specifications,
		Purposes:         l.Purposes,
		Types:            l.Types,
		Categories:       l.Categories,
		ListingTypes:     l.ListingTypes,
		Location:         l.Location,
		Pricing:          l.Pricing,
		Media:            l.Media,
		AdditionalFiles:  nonNil(l.AdditionalFiles),
		Model3D:          l.Model3D,
		FloorPlan:        l.FloorPlan,
		SocialAmenities:  nonNil(l.SocialAmenities),
		EstimatedRevenue: l.EstimatedRevenue,
		GlobalPrice:      l.GlobalPrice,
		ListingCondition: condition,
		UploadStatus:     upload,
		ListingStatus:    status,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
