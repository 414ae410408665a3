package currency

import (
	"context"
	"testing"

	"estate/config"
	"estate/internal/domain/service"
	"estate/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConverter(t *testing.T) *staticRateConverter {
	t.Helper()

	c, err := newStaticRateConverter(&config.CurrencyConfig{
		Enabled:           true,
		ReferenceCurrency: "usd",
		Rates:             map[string]float64{"NGN": 1500, "eur": 0.8},
	})
	require.NoError(t, err)

	return c
}

func TestConvert_SaleUsesGlobalPrice(t *testing.T) {
	c := newTestConverter(t)

	got, err := c.Convert(context.Background(), &service.ConversionRequest{Price: 150000000, Currency: "NGN", PriceType: "sale"})
	require.NoError(t, err)

	require.NotNil(t, got.GlobalPrice.Amount)
	assert.InDelta(t, 100000.0, *got.GlobalPrice.Amount, 1e-9)
	assert.Equal(t, "USD", got.GlobalPrice.Currency)
	assert.Equal(t, "NGN", got.GlobalPrice.OriginalCurrency)
	assert.InDelta(t, 1500.0, *got.GlobalPrice.Rate, 1e-9)

	v, ok := got.EstimatedRevenue.Value()
	require.True(t, ok)
	assert.InDelta(t, 100000.0, v, 1e-9)
	assert.Equal(t, "total", got.EstimatedRevenue.Period)
}

func TestConvert_RecurringPrices(t *testing.T) {
	c := newTestConverter(t)

	tests := []struct {
		name       string
		req        service.ConversionRequest
		wantAmount float64
		wantPeriod string
	}{
		{
			name:       "monthly rent annualized",
			req:        service.ConversionRequest{Price: 800, Currency: "EUR", PriceType: "rent", TimeSpan: "month"},
			wantAmount: 12000,
			wantPeriod: "year",
		},
		{
			name:       "weekly spelled out",
			req:        service.ConversionRequest{Price: 100, PriceType: "Lease", TimeSpan: "Weekly"},
			wantAmount: 5200,
			wantPeriod: "year",
		},
		{
			name:       "ideal duration wins",
			req:        service.ConversionRequest{Price: 50, PriceType: "shortlet", TimeSpan: "nights", IdealDuration: 10},
			wantAmount: 500,
			wantPeriod: "10 night",
		},
		{
			name:       "unknown span stays total",
			req:        service.ConversionRequest{Price: 50, PriceType: "rent", TimeSpan: "fortnight"},
			wantAmount: 50,
			wantPeriod: "total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Convert(context.Background(), &tt.req)
			require.NoError(t, err)
			require.NotNil(t, got.EstimatedRevenue.EstimatedRevenue)
			assert.InDelta(t, tt.wantAmount, *got.EstimatedRevenue.EstimatedRevenue, 1e-9)
			assert.Equal(t, tt.wantPeriod, got.EstimatedRevenue.Period)
		})
	}
}

func TestConvert_EmptyResults(t *testing.T) {
	disabled, err := newStaticRateConverter(nil)
	require.NoError(t, err)

	got, err := disabled.Convert(context.Background(), &service.ConversionRequest{Price: 10, Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, &service.ConversionResult{}, got)

	got, err = newTestConverter(t).Convert(context.Background(), &service.ConversionRequest{Price: 0})
	require.NoError(t, err)
	assert.Equal(t, &service.ConversionResult{}, got)
}

func TestConvert_UnsupportedCurrency(t *testing.T) {
	c := newTestConverter(t)

	for _, code := range []string{"GBP", "not-a-code"} {
		_, err := c.Convert(context.Background(), &service.ConversionRequest{Price: 10, Currency: code})
		assert.True(t, errors.Is(err, ErrUnsupportedCurrency), code)
	}
}

func TestConvert_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestConverter(t).Convert(ctx, &service.ConversionRequest{Price: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewStaticRateConverter_RejectsBadConfig(t *testing.T) {
	_, err := newStaticRateConverter(&config.CurrencyConfig{Enabled: true, Rates: map[string]float64{"XYZQ": 1}})
	assert.Error(t, err)

	_, err = newStaticRateConverter(&config.CurrencyConfig{Enabled: true, Rates: map[string]float64{"EUR": 0}})
	assert.Error(t, err)
}
