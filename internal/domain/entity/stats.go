package entity

import (
	"time"

	"github.com/google/uuid"
)

// CategoryStat is one entry of a classification distribution.
type CategoryStat struct {
	CategoryID  string  `json:"category_id"`
	TotalAmount int     `json:"total_amount"`
	Percentage  float64 `json:"percentage"`
}

// LocationStat is one entry of a location distribution.
type LocationStat struct {
	Location    string  `json:"location"`
	TotalUnits  int     `json:"total_units"`
	UnitSales   int     `json:"unit_sales"`
	SalesAmount int64   `json:"sales_amount"`
	Percentage  float64 `json:"percentage"`
}

// Distribution groups the four classification axes.
type Distribution struct {
	Purposes   []CategoryStat `json:"property_purposes_stats"`
	Types      []CategoryStat `json:"property_types_stats"`
	Categories []CategoryStat `json:"property_categories_stats"`
	Subtypes   []CategoryStat `json:"property_subtypes_stats"`
}

// LocationDistribution groups the four location axes.
type LocationDistribution struct {
	Countries []LocationStat `json:"country_stats"`
	States    []LocationStat `json:"state_stats"`
	Cities    []LocationStat `json:"city_stats"`
	Towns     []LocationStat `json:"town_stats"`
}

// Development is an aggregation root owned by a developer.
type Development struct {
	ID          uuid.UUID
	DeveloperID uuid.UUID
	Name        string
	Stats       DevelopmentStats
	UpdatedAt   time.Time
}

// DevelopmentStats is the recomputed snapshot stored on a development.
type DevelopmentStats struct {
	TotalUnits            int          `json:"total_units"`
	Distribution          Distribution `json:"distribution"`
	TotalEstimatedRevenue float64      `json:"total_estimated_revenue"`
}

// DeveloperStats is the recomputed snapshot stored for a developer.
type DeveloperStats struct {
	DeveloperID       uuid.UUID            `json:"developer_id"`
	TotalUnits        int                  `json:"total_units"`
	TotalDevelopments int64                `json:"total_developments"`
	TotalRevenue      float64              `json:"total_revenue"`
	TotalSales        int64                `json:"total_sales"`
	EstimatedRevenue  float64              `json:"estimated_revenue"`
	Distribution      Distribution         `json:"distribution"`
	Locations         LocationDistribution `json:"locations"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// SalesSummary is the roll-up of a developer's sales ledger.
type SalesSummary struct {
	TotalRevenue float64
	TotalSales   int64
}
