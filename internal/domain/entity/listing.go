package entity

import (
	"bytes"
	"encoding/json"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Account types carried by the access token.
const (
	AccountTypeDeveloper  = "developer"
	AccountTypeAgent      = "agent"
	AccountTypeAgency     = "agency"
	AccountTypeIndividual = "individual"
)

// Location is where a listed property sits.
type Location struct {
	Country     string   `json:"country"`
	State       string   `json:"state"`
	City        string   `json:"city"`
	Town        string   `json:"town"`
	FullAddress string   `json:"full_address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// HasCoordinates reports whether both coordinates are set.
func (l *Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Pricing holds the authored commercial terms.
type Pricing struct {
	Price              *Amount `json:"price"`
	Currency           string  `json:"currency"`
	PriceType          string  `json:"price_type"`
	Duration           string  `json:"duration"`
	IdealDuration      *Amount `json:"ideal_duration"`
	TimeSpan           string  `json:"time_span"`
	IsNegotiable       bool    `json:"is_negotiable"`
	SecurityDeposit    *Amount `json:"security_deposit"`
	SecurityTerms      string  `json:"security_terms"`
	CancellationPolicy string  `json:"cancellation_policy"`
}

// HasPrice reports whether a positive price was given.
func (p *Pricing) HasPrice() bool {
	return p != nil && p.Price != nil && *p.Price > 0
}

// EstimatedRevenue is the converted revenue figure in the reference currency.
type EstimatedRevenue struct {
	EstimatedRevenue *float64 `json:"estimated_revenue,omitempty"`
	Price            *float64 `json:"price,omitempty"`
	Currency         string   `json:"currency,omitempty"`
	Period           string   `json:"period,omitempty"`
}

// UnmarshalJSON tolerates numeric strings and non-numeric garbage in the revenue fields;
// anything that is not a number is treated as absent.
func (e *EstimatedRevenue) UnmarshalJSON(data []byte) error {
	*e = EstimatedRevenue{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode estimated revenue")
	}
	e.EstimatedRevenue = lenientNumber(raw["estimated_revenue"])
	e.Price = lenientNumber(raw["price"])
	e.Currency = lenientString(raw["currency"])
	e.Period = lenientString(raw["period"])

	return nil
}

// Value returns the revenue figure, falling back to price. ok is false when neither is numeric.
func (e *EstimatedRevenue) Value() (float64, bool) {
	if e == nil {
		return 0, false
	}
	if e.EstimatedRevenue != nil {
		return *e.EstimatedRevenue, true
	}
	if e.Price != nil {
		return *e.Price, true
	}

	return 0, false
}

// GlobalPrice is the listing price normalized into the reference currency.
type GlobalPrice struct {
	Amount           *float64 `json:"amount,omitempty"`
	Currency         string   `json:"currency,omitempty"`
	OriginalAmount   *float64 `json:"original_amount,omitempty"`
	OriginalCurrency string   `json:"original_currency,omitempty"`
	Rate             *float64 `json:"rate,omitempty"`
}

// UnmarshalJSON mirrors EstimatedRevenue's leniency.
func (g *GlobalPrice) UnmarshalJSON(data []byte) error {
	*g = GlobalPrice{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode global price")
	}
	g.Amount = lenientNumber(raw["amount"])
	g.Currency = lenientString(raw["currency"])
	g.OriginalAmount = lenientNumber(raw["original_amount"])
	g.OriginalCurrency = lenientString(raw["original_currency"])
	g.Rate = lenientNumber(raw["rate"])

	return nil
}

func lenientNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var a Amount
	if err := a.UnmarshalJSON(raw); err != nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	if raw[0] == '"' && strings.TrimSpace(strings.Trim(string(raw), `"`)) == "" {
		return nil
	}
	v := float64(a)

	return &v
}

func lenientString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}

	return s
}

// SocialAmenity is a nearby point of interest shown on the listing page.
type SocialAmenity struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Address     string   `json:"address,omitempty"`
	Distance    string   `json:"distance,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	PhotoURL    string   `json:"photo_url,omitempty"`
	CachedPhoto string   `json:"cached_photo_url,omitempty"`
	CachedPath  string   `json:"cached_photo_path,omitempty"`
}

// Listing is the unit of inventory.
type Listing struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	AccountType   string
	DevelopmentID *uuid.UUID

	Title          string
	Description    string
	Availability   string
	Size           string
	Specifications map[string]any

	Purposes     Refs
	Types        Refs
	Categories   Refs
	ListingTypes ListingTypes

	Location Location
	Pricing  Pricing

	Media           Media
	AdditionalFiles []FileRecord
	Model3D         *FileRecord
	FloorPlan       *FileRecord
	SocialAmenities []SocialAmenity

	EstimatedRevenue EstimatedRevenue
	GlobalPrice      GlobalPrice

	Lifecycle Lifecycle

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDeveloperOwned reports whether the listing counts toward developer stats.
func (l *Listing) IsDeveloperOwned() bool {
	return l.AccountType == AccountTypeDeveloper
}

// Blobs returns the storage paths of every file the listing references.
func (l *Listing) Blobs() []string {
	files := l.Media.Files()
	files = append(files, l.AdditionalFiles...)
	if l.Model3D != nil {
		files = append(files, *l.Model3D)
	}
	if l.FloorPlan != nil {
		files = append(files, *l.FloorPlan)
	}
	for _, a := range l.SocialAmenities {
		if a.CachedPath != "" {
			files = append(files, FileRecord{Path: a.CachedPath})
		}
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		if f.Path != "" {
			paths = append(paths, f.Path)
		}
	}

	return paths
}

// HashSet returns the content hashes of files that carry one.
func HashSet(files ...FileRecord) map[string]struct{} {
	hashes := make(map[string]struct{}, len(files))
	for _, f := range files {
		if f.Hash != "" {
			hashes[f.Hash] = struct{}{}
		}
	}

	return hashes
}

// Clone returns a deep copy of the mutable parts touched by the pipeline.
func (l *Listing) Clone() *Listing {
	out := *l
	out.Media = l.Media.Clone()
	out.AdditionalFiles = append([]FileRecord(nil), l.AdditionalFiles...)
	out.SocialAmenities = append([]SocialAmenity(nil), l.SocialAmenities...)
	if l.Model3D != nil {
		m := *l.Model3D
		out.Model3D = &m
	}
	if l.FloorPlan != nil {
		f := *l.FloorPlan
		out.FloorPlan = &f
	}
	if l.DevelopmentID != nil {
		id := *l.DevelopmentID
		out.DevelopmentID = &id
	}
	out.Specifications = maps.Clone(l.Specifications)

	return &out
}
