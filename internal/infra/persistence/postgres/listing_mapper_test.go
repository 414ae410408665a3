package postgres

import (
	"testing"

	"estate/internal/domain/entity"
	"estate/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingMapping_KeepsLegacyPricingInSync(t *testing.T) {
	lat, lng := 6.4281, 3.4219
	listing := &entity.Listing{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		AccountType: entity.AccountTypeDeveloper,
		Title:       "Sea View Flat",
		Location:    entity.Location{Country: "Nigeria", City: "Lagos", Latitude: &lat, Longitude: &lng},
		Pricing: entity.Pricing{
			Price:         entity.NewAmount(2500),
			Currency:      "USD",
			PriceType:     "rent",
			IdealDuration: entity.NewAmount(6),
			TimeSpan:      "month",
			IsNegotiable:  true,
		},
		Lifecycle: entity.Uploaded(),
	}

	m := fromListingDomain(listing)

	require.NotNil(t, m.Price)
	assert.InDelta(t, 2500.0, *m.Price, 1e-9)
	assert.Equal(t, "USD", m.Currency)
	assert.Equal(t, "rent", m.PriceType)
	require.NotNil(t, m.IdealDuration)
	assert.InDelta(t, 6.0, *m.IdealDuration, 1e-9)
	assert.True(t, m.IsNegotiable)
	assert.Len(t, m.Geohash, geohashPrecision)
	assert.Equal(t, "adding", m.ListingCondition)
	assert.Equal(t, "completed", m.UploadStatus)
	assert.Equal(t, "draft", m.ListingStatus)
	assert.NotNil(t, m.Purposes.Data())
	assert.NotNil(t, m.AdditionalFiles)

	back, err := toListingDomain(m)
	require.NoError(t, err)
	assert.Equal(t, listing.Pricing, back.Pricing)
	assert.Equal(t, entity.PhaseUploaded, back.Lifecycle.Phase())
	assert.Equal(t, listing.Location, back.Location)
}

func TestListingMapping_NoCoordinatesNoGeohash(t *testing.T) {
	m := fromListingDomain(&entity.Listing{ID: uuid.New(), Lifecycle: entity.Drafting()})

	assert.Empty(t, m.Geohash)
}

func TestPricingFromColumns_FallsBackToLegacyColumns(t *testing.T) {
	price, deposit := 1200.0, 300.0
	m := &model.ListingModel{
		Price:           &price,
		Currency:        "NGN",
		PriceType:       "sale",
		SecurityDeposit: &deposit,
	}

	got := pricingFromColumns(m)

	assert.InDelta(t, 1200.0, got.Price.Float(), 1e-9)
	assert.Equal(t, "NGN", got.Currency)
	assert.InDelta(t, 300.0, got.SecurityDeposit.Float(), 1e-9)
}

func TestToListingDomain_RejectsIllegalLifecycle(t *testing.T) {
	_, err := toListingDomain(&model.ListingModel{
		ID:               uuid.New(),
		ListingCondition: "completed",
		UploadStatus:     "incomplete",
	})

	assert.ErrorIs(t, err, entity.ErrIllegalLifecycle)
}
