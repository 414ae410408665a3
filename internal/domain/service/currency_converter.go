package service

import (
	"context"

	"estate/internal/domain/entity"

	"github.com/google/uuid"
)

// ConversionRequest is the input of the currency conversion stage.
type ConversionRequest struct {
	Price         float64
	Currency      string
	PriceType     string
	IdealDuration float64
	TimeSpan      string
	UserID        uuid.UUID
	AccountType   string
}

// ConversionResult holds the normalized commercial values of a listing.
type ConversionResult struct {
	EstimatedRevenue entity.EstimatedRevenue
	GlobalPrice      entity.GlobalPrice
}

// CurrencyConverter normalizes a listing price into the platform reference currency.
type CurrencyConverter interface {
	Convert(ctx context.Context, req *ConversionRequest) (*ConversionResult, error)
}
