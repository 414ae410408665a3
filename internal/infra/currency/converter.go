// Package currency normalizes listing prices into the platform reference currency
// using a static rate table.
package currency

import (
	"context"
	"strings"

	"estate/config"
	"estate/internal/domain/entity"
	"estate/internal/domain/service"
	"estate/internal/errors"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const defaultReferenceCurrency = "USD"

// ErrUnsupportedCurrency is returned when no rate is configured for a currency.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// periodsPerYear annualizes recurring prices by their time span.
var periodsPerYear = map[string]int64{
	"day":   365,
	"night": 365,
	"week":  52,
	"month": 12,
	"year":  1,
}

// recurringPriceTypes are price types whose price repeats every time span.
var recurringPriceTypes = map[string]bool{
	"rent":      true,
	"lease":     true,
	"shortlet":  true,
	"recurring": true,
}

type staticRateConverter struct {
	enabled   bool
	reference string
	rates     map[string]decimal.Decimal
}

// NewConverter creates the converter from configuration. A missing section disables conversion.
func NewConverter(cfg *config.Config) (service.CurrencyConverter, error) {
	return newStaticRateConverter(cfg.Currency)
}

func newStaticRateConverter(cfg *config.CurrencyConfig) (*staticRateConverter, error) {
	if cfg == nil || !cfg.Enabled {
		return &staticRateConverter{}, nil
	}

	reference := defaultReferenceCurrency
	if cfg.ReferenceCurrency != "" {
		unit, err := currency.ParseISO(cfg.ReferenceCurrency)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid reference currency %q", cfg.ReferenceCurrency)
		}
		reference = unit.String()
	}

	rates := map[string]decimal.Decimal{reference: decimal.NewFromInt(1)}
	for code, rate := range cfg.Rates {
		unit, err := currency.ParseISO(code)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid currency code %q", code)
		}
		if rate <= 0 {
			return nil, errors.Errorf("rate for %s must be positive", unit)
		}
		rates[unit.String()] = decimal.NewFromFloat(rate)
	}

	return &staticRateConverter{enabled: true, reference: reference, rates: rates}, nil
}

// Convert returns the global price and estimated revenue of req in the reference currency.
// When conversion is disabled or the price is not positive the result is empty.
func (c *staticRateConverter) Convert(ctx context.Context, req *service.ConversionRequest) (*service.ConversionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	if !c.enabled || req == nil || req.Price <= 0 {
		return &service.ConversionResult{}, nil
	}

	code := c.reference
	if strings.TrimSpace(req.Currency) != "" {
		unit, err := currency.ParseISO(strings.TrimSpace(req.Currency))
		if err != nil {
			return nil, errors.Wrapf(ErrUnsupportedCurrency, "%s", req.Currency)
		}
		code = unit.String()
	}
	rate, ok := c.rates[code]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedCurrency, "%s", code)
	}

	original := decimal.NewFromFloat(req.Price)
	global := original.Div(rate).Round(2)

	revenue, period := c.revenue(global, req)

	return &service.ConversionResult{
		GlobalPrice: entity.GlobalPrice{
			Amount:           floatPtr(global),
			Currency:         c.reference,
			OriginalAmount:   floatPtr(original),
			OriginalCurrency: code,
			Rate:             floatPtr(rate),
		},
		EstimatedRevenue: entity.EstimatedRevenue{
			EstimatedRevenue: floatPtr(revenue),
			Price:            floatPtr(global),
			Currency:         c.reference,
			Period:           period,
		},
	}, nil
}

// revenue multiplies recurring prices by the ideal duration, or annualizes them when none is given.
func (c *staticRateConverter) revenue(global decimal.Decimal, req *service.ConversionRequest) (decimal.Decimal, string) {
	priceType := strings.ToLower(strings.TrimSpace(req.PriceType))
	span := normalizeSpan(req.TimeSpan)
	perYear, known := periodsPerYear[span]
	if !recurringPriceTypes[priceType] || !known {
		return global, "total"
	}

	if req.IdealDuration > 0 {
		n := decimal.NewFromFloat(req.IdealDuration)

		return global.Mul(n).Round(2), n.String() + " " + span
	}

	return global.Mul(decimal.NewFromInt(perYear)).Round(2), "year"
}

func normalizeSpan(span string) string {
	span = strings.ToLower(strings.TrimSpace(span))
	span = strings.TrimPrefix(span, "per ")
	span = strings.TrimPrefix(span, "per_")
	switch span {
	case "daily":
		return "day"
	case "nightly":
		return "night"
	case "weekly":
		return "week"
	case "monthly":
		return "month"
	case "yearly", "annually", "annual":
		return "year"
	}

	return strings.TrimSuffix(span, "s")
}

func floatPtr(d decimal.Decimal) *float64 {
	v := d.InexactFloat64()

	return &v
}
