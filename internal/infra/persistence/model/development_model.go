package model

import (
	"time"

	"estate/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DevelopmentModel mirrors the 'developments' table. Stats columns are written only by the stats engine.
type DevelopmentModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	DeveloperID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`

	TotalUnits              int                                      `gorm:"not null;default:0"`
	PropertyPurposesStats   datatypes.JSONSlice[entity.CategoryStat] `gorm:"type:jsonb;not null;default:'[]'"`
	PropertyCategoriesStats datatypes.JSONSlice[entity.CategoryStat] `gorm:"type:jsonb;not null;default:'[]'"`
	PropertyTypesStats      datatypes.JSONSlice[entity.CategoryStat] `gorm:"type:jsonb;not null;default:'[]'"`
	PropertySubtypesStats   datatypes.JSONSlice[entity.CategoryStat] `gorm:"type:jsonb;not null;default:'[]'"`
	TotalEstimatedRevenue   float64                                  `gorm:"type:numeric(18,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (DevelopmentModel) TableName() string {
	return "developments"
}

// DeveloperStatsModel mirrors the 'developers' table, one stats row per developer account.
type DeveloperStatsModel struct {
	DeveloperID uuid.UUID `gorm:"type:uuid;primaryKey"`

	TotalUnits        int     `gorm:"not null;default:0"`
	TotalDevelopments int64   `gorm:"not null;default:0"`
	TotalRevenue      float64 `gorm:"type:numeric(18,2);not null;default:0"`
	TotalSales        int64   `gorm:"not null;default:0"`
	EstimatedRevenue  float64 `gorm:"type:numeric(18,2);not null;default:0"`

	PropertyPurposesStats   datatypes.JSONSlice[entity.CategoryStat] `gorm:"type:jsonb;not null;default:'[]'"`
	PropertyCategoriesStats datatypes.JSONSlice[entity.CategoryStat] `gorm:"type:jsonb;not null;default:'[]'"`
	PropertyTypesStats      datatypes.JSONSlice[entity.CategoryStat] `gorm:"type:jsonb;not null;default:'[]'"`
	PropertySubtypesStats   datatypes.JSONSlice[entity.CategoryStat] `gorm:"type:jsonb;not null;default:'[]'"`

	CountryStats datatypes.JSONSlice[entity.LocationStat] `gorm:"type:jsonb;not null;default:'[]'"`
	StateStats   datatypes.JSONSlice[entity.LocationStat] `gorm:"type:jsonb;not null;default:'[]'"`
	CityStats    datatypes.JSONSlice[entity.LocationStat] `gorm:"type:jsonb;not null;default:'[]'"`
	TownStats    datatypes.JSONSlice[entity.LocationStat] `gorm:"type:jsonb;not null;default:'[]'"`

	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (DeveloperStatsModel) TableName() string {
	return "developers"
}
