package model

import (
	"time"

	"estate/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ListingModel mirrors the 'listings' table. IDs are assigned by the ingestion pipeline.
// JSON columns are NOT NULL so that scanning never sees a SQL NULL.
type ListingModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_listings_owner"`
	AccountType   string     `gorm:"type:varchar(32);not null;index:idx_listings_owner"`
	DevelopmentID *uuid.UUID `gorm:"type:uuid;index"`

	Title          string            `gorm:"type:varchar(255);not null"`
	Description    string            `gorm:"type:text;not null"`
	Availability   string            `gorm:"column:status;type:varchar(64)"`
	Size           string            `gorm:"type:varchar(64)"`
	Specifications datatypes.JSONMap `gorm:"type:jsonb"`

	Purposes     datatypes.JSONType[entity.Refs]         `gorm:"type:jsonb;not null;default:'[]'"`
	Types        datatypes.JSONType[entity.Refs]         `gorm:"type:jsonb;not null;default:'[]'"`
	Categories   datatypes.JSONType[entity.Refs]         `gorm:"type:jsonb;not null;default:'[]'"`
	ListingTypes datatypes.JSONType[entity.ListingTypes] `gorm:"type:jsonb;not null;default:'{}'"`

	Country     string   `gorm:"type:varchar(100);index"`
	State       string   `gorm:"type:varchar(100)"`
	City        string   `gorm:"type:varchar(100)"`
	Town        string   `gorm:"type:varchar(100)"`
	FullAddress string   `gorm:"type:text"`
	Latitude    *float64 `gorm:"type:double precision"`
	Longitude   *float64 `gorm:"type:double precision"`
	Geohash     string   `gorm:"type:varchar(12);index"`

	Pricing datatypes.JSONType[entity.Pricing] `gorm:"type:jsonb;not null;default:'{}'"`

	// Legacy flat pricing columns, written from Pricing on every save.
	Price              *float64 `gorm:"type:numeric(18,2)"`
	Currency           string   `gorm:"type:varchar(8)"`
	PriceType          string   `gorm:"type:varchar(32)"`
	Duration           string   `gorm:"type:varchar(64)"`
	IdealDuration      *float64 `gorm:"type:numeric(10,2)"`
	TimeSpan           string   `gorm:"type:varchar(32)"`
	IsNegotiable       bool     `gorm:"not null;default:false"`
	SecurityDeposit    *float64 `gorm:"type:numeric(18,2)"`
	SecurityTerms      string   `gorm:"type:text"`
	CancellationPolicy string   `gorm:"type:text"`

	Media           datatypes.JSONType[entity.Media]          `gorm:"type:jsonb;not null;default:'{}'"`
	AdditionalFiles datatypes.JSONSlice[entity.FileRecord]    `gorm:"type:jsonb;not null;default:'[]'"`
	Model3D         datatypes.JSONType[*entity.FileRecord]    `gorm:"column:3d_model;type:jsonb;not null;default:'null'"`
	FloorPlan       datatypes.JSONType[*entity.FileRecord]    `gorm:"type:jsonb;not null;default:'null'"`
	SocialAmenities datatypes.JSONSlice[entity.SocialAmenity] `gorm:"type:jsonb;not null;default:'[]'"`

	EstimatedRevenue datatypes.JSONType[entity.EstimatedRevenue] `gorm:"type:jsonb;not null;default:'{}'"`
	GlobalPrice      datatypes.JSONType[entity.GlobalPrice]      `gorm:"type:jsonb;not null;default:'{}'"`

	ListingCondition string `gorm:"type:varchar(16);not null;default:'adding'"`
	UploadStatus     string `gorm:"type:varchar(16);not null;default:'incomplete'"`
	ListingStatus    string `gorm:"type:varchar(16);not null;default:'draft';index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ListingModel) TableName() string {
	return "listings"
}
