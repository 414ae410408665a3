package model

import (
	"time"

	"github.com/google/uuid"
)

// SaleModel mirrors the 'sales' ledger table, the authoritative record of completed sales.
type SaleModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	DeveloperID uuid.UUID `gorm:"type:uuid;not null;index"`
	ListingID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount      float64   `gorm:"type:numeric(18,2);not null"`
	Currency    string    `gorm:"type:varchar(8);not null"`
	SoldAt      time.Time `gorm:"not null"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (SaleModel) TableName() string {
	return "sales"
}
