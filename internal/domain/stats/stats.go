// Package stats derives development and developer roll-ups from listing rows.
// Every function here is pure: the same listings always produce the same snapshot.
package stats

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"estate/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DeveloperStatuses are the listing statuses counted toward developer stats.
var DeveloperStatuses = []entity.ListingStatus{
	entity.StatusActive,
	entity.StatusSold,
	entity.StatusRented,
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Percentage returns part/total*100 rounded to two decimals. A zero total yields zero.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}

	return decimal.NewFromInt(int64(part)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(hundred).
		Round(2).
		InexactFloat64()
}

// Development computes the stats snapshot of one development from its listings.
func Development(listings []*entity.Listing) entity.DevelopmentStats {
	return entity.DevelopmentStats{
		TotalUnits:            len(listings),
		Distribution:          Classification(listings),
		TotalEstimatedRevenue: TotalEstimatedRevenue(listings),
	}
}

// Developer computes the developer snapshot. listings must already be filtered to the
// developer's countable listings; developments and sales come from their own sources.
func Developer(developerID uuid.UUID, listings []*entity.Listing, developments int64, sales *entity.SalesSummary, now time.Time) *entity.DeveloperStats {
	out := &entity.DeveloperStats{
		DeveloperID:       developerID,
		TotalUnits:        len(listings),
		TotalDevelopments: developments,
		EstimatedRevenue:  TotalEstimatedRevenue(listings),
		Distribution:      Classification(listings),
		Locations:         Locations(listings),
		UpdatedAt:         now,
	}
	if sales != nil {
		out.TotalRevenue = Round2(sales.TotalRevenue)
		out.TotalSales = sales.TotalSales
	}

	return out
}

// Classification computes the four classification distributions.
func Classification(listings []*entity.Listing) entity.Distribution {
	return entity.Distribution{
		Purposes:   categoryStats(listings, func(l *entity.Listing) []string { return l.Purposes.IDs() }),
		Types:      categoryStats(listings, func(l *entity.Listing) []string { return l.Types.IDs() }),
		Categories: categoryStats(listings, func(l *entity.Listing) []string { return l.Categories.IDs() }),
		Subtypes:   categoryStats(listings, func(l *entity.Listing) []string { return l.ListingTypes.Database.IDs() }),
	}
}

// categoryStats counts each distinct value once per listing.
func categoryStats(listings []*entity.Listing, axis func(*entity.Listing) []string) []entity.CategoryStat {
	total := len(listings)
	if total == 0 {
		return []entity.CategoryStat{}
	}

	counts := make(map[string]int)
	for _, l := range listings {
		for _, id := range axis(l) {
			counts[id]++
		}
	}

	out := make([]entity.CategoryStat, 0, len(counts))
	for id, n := range counts {
		out = append(out, entity.CategoryStat{
			CategoryID:  id,
			TotalAmount: n,
			Percentage:  Percentage(n, total),
		})
	}
	slices.SortFunc(out, func(a, b entity.CategoryStat) int {
		if c := cmp.Compare(b.TotalAmount, a.TotalAmount); c != 0 {
			return c
		}

		return cmp.Compare(a.CategoryID, b.CategoryID)
	})

	return out
}

// TotalEstimatedRevenue sums each listing's revenue value, rounded to two decimals.
func TotalEstimatedRevenue(listings []*entity.Listing) float64 {
	sum := decimal.Zero
	for _, l := range listings {
		if v, ok := l.EstimatedRevenue.Value(); ok {
			sum = sum.Add(decimal.NewFromFloat(v))
		}
	}

	return sum.Round(2).InexactFloat64()
}

// Locations computes the four location distributions.
func Locations(listings []*entity.Listing) entity.LocationDistribution {
	return entity.LocationDistribution{
		Countries: locationStats(listings, func(l *entity.Listing) string { return l.Location.Country }),
		States:    locationStats(listings, func(l *entity.Listing) string { return l.Location.State }),
		Cities:    locationStats(listings, func(l *entity.Listing) string { return l.Location.City }),
		Towns:     locationStats(listings, func(l *entity.Listing) string { return l.Location.Town }),
	}
}

type locationAcc struct {
	units  int
	sales  int
	amount decimal.Decimal
}

func locationStats(listings []*entity.Listing, axis func(*entity.Listing) string) []entity.LocationStat {
	total := len(listings)
	if total == 0 {
		return []entity.LocationStat{}
	}

	acc := make(map[string]*locationAcc)
	for _, l := range listings {
		key := strings.TrimSpace(axis(l))
		if key == "" {
			continue
		}
		a, ok := acc[key]
		if !ok {
			a = &locationAcc{amount: decimal.Zero}
			acc[key] = a
		}
		a.units++
		if l.Lifecycle.Status().IsClosedDeal() {
			a.sales++
			a.amount = a.amount.Add(decimal.NewFromFloat(saleValue(l)))
		}
	}

	out := make([]entity.LocationStat, 0, len(acc))
	for key, a := range acc {
		out = append(out, entity.LocationStat{
			Location:    key,
			TotalUnits:  a.units,
			UnitSales:   a.sales,
			SalesAmount: a.amount.Round(0).IntPart(),
			Percentage:  Percentage(a.units, total),
		})
	}
	slices.SortFunc(out, func(a, b entity.LocationStat) int {
		if c := cmp.Compare(b.TotalUnits, a.TotalUnits); c != 0 {
			return c
		}

		return cmp.Compare(a.Location, b.Location)
	})

	return out
}

// saleValue is the listing revenue floored at zero.
func saleValue(l *entity.Listing) float64 {
	v, ok := l.EstimatedRevenue.Value()
	if !ok || v < 0 {
		return 0
	}

	return v
}
