package impl

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"reflect"
	"strings"

	"estate/internal/domain/entity"
	"estate/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const listingSchemaName = "listing.schema.json"

//go:embed schema/listing.schema.json
var listingSchemaJSON string

// worldBound is the valid WGS84 coordinate range.
var worldBound = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

// InputError names the offending field of a rejected submission.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Reason
	}

	return e.Field + ": " + e.Reason
}

// listingPayload is the structured part of a listing submission.
type listingPayload struct {
	Title          string              `json:"title" validate:"required,notblank,max=255"`
	Description    string              `json:"description" validate:"required,notblank"`
	Status         string              `json:"status" validate:"required,max=64"`
	Size           string              `json:"size" validate:"max=64"`
	Specifications map[string]any      `json:"specifications"`
	Purposes       entity.Refs         `json:"purposes"`
	Types          entity.Refs         `json:"types"`
	Categories     entity.Refs         `json:"categories"`
	ListingTypes   entity.ListingTypes `json:"listing_types"`
	DevelopmentID  string              `json:"development_id" validate:"omitempty,uuid"`

	Country     string         `json:"country" validate:"max=100"`
	State       string         `json:"state" validate:"max=100"`
	City        string         `json:"city" validate:"max=100"`
	Town        string         `json:"town" validate:"max=100"`
	FullAddress string         `json:"full_address"`
	Latitude    *entity.Amount `json:"latitude"`
	Longitude   *entity.Amount `json:"longitude"`

	Pricing *entity.Pricing `json:"pricing"`

	// Legacy flat pricing fields, used when no pricing object is sent.
	Price              *entity.Amount `json:"price"`
	Currency           string         `json:"currency" validate:"omitempty,max=8"`
	PriceType          string         `json:"price_type"`
	Duration           string         `json:"duration"`
	IdealDuration      *entity.Amount `json:"ideal_duration"`
	TimeSpan           string         `json:"time_span"`
	IsNegotiable       bool           `json:"is_negotiable"`
	SecurityDeposit    *entity.Amount `json:"security_deposit"`
	SecurityTerms      string         `json:"security_terms"`
	CancellationPolicy string         `json:"cancellation_policy"`

	YoutubeURL     string `json:"youtube_url" validate:"omitempty,url"`
	VirtualTourURL string `json:"virtual_tour_url" validate:"omitempty,url"`

	developmentID *uuid.UUID
}

// payloadDecoder checks a submission against the listing schema and then against struct rules.
type payloadDecoder struct {
	schema   *jsonschema.Schema
	validate *validator.Validate
}

func newPayloadDecoder() (*payloadDecoder, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(listingSchemaName, strings.NewReader(listingSchemaJSON)); err != nil {
		return nil, errors.Wrap(err, "failed to add listing schema")
	}
	schema, err := compiler.Compile(listingSchemaName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile listing schema")
	}

	validate := validator.New()
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, errors.Wrap(err, "failed to register notblank validation")
	}
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return &payloadDecoder{schema: schema, validate: validate}, nil
}

// Decode validates and decodes the submission. Every rejection is an *InputError.
func (d *payloadDecoder) Decode(data []byte) (*listingPayload, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &InputError{Field: "data", Reason: "is required"}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &InputError{Field: "data", Reason: "is not valid JSON"}
	}
	if err := d.schema.Validate(doc); err != nil {
		return nil, schemaInputError(err)
	}

	var p listingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &InputError{Field: "data", Reason: err.Error()}
	}
	if err := d.validate.Struct(&p); err != nil {
		return nil, validationInputError(err)
	}

	if err := p.checkCoordinates(); err != nil {
		return nil, err
	}
	if p.DevelopmentID != "" {
		id := uuid.MustParse(p.DevelopmentID)
		p.developmentID = &id
	}

	return &p, nil
}

func (p *listingPayload) checkCoordinates() error {
	if p.Latitude == nil && p.Longitude == nil {
		return nil
	}
	if p.Latitude == nil || p.Longitude == nil {
		return &InputError{Field: "latitude", Reason: "latitude and longitude must be sent together"}
	}
	if !worldBound.Contains(orb.Point{p.Longitude.Float(), p.Latitude.Float()}) {
		return &InputError{Field: "latitude", Reason: "coordinates are out of range"}
	}

	return nil
}

// pricing prefers the structured object and falls back to the legacy flat fields.
func (p *listingPayload) pricing() entity.Pricing {
	if p.Pricing != nil {
		return *p.Pricing
	}

	return entity.Pricing{
		Price:              p.Price,
		Currency:           p.Currency,
		PriceType:          p.PriceType,
		Duration:           p.Duration,
		IdealDuration:      p.IdealDuration,
		TimeSpan:           p.TimeSpan,
		IsNegotiable:       p.IsNegotiable,
		SecurityDeposit:    p.SecurityDeposit,
		SecurityTerms:      p.SecurityTerms,
		CancellationPolicy: p.CancellationPolicy,
	}
}

// apply copies the authored fields onto l. Stored files and derived values are left alone.
func (p *listingPayload) apply(l *entity.Listing) {
	l.Title = strings.TrimSpace(p.Title)
	l.Description = strings.TrimSpace(p.Description)
	l.Availability = strings.TrimSpace(p.Status)
	l.Size = strings.TrimSpace(p.Size)
	l.Specifications = p.Specifications
	l.Purposes = p.Purposes
	l.Types = p.Types
	l.Categories = p.Categories
	l.ListingTypes = p.ListingTypes
	l.DevelopmentID = p.developmentID

	l.Location = entity.Location{
		Country:     strings.TrimSpace(p.Country),
		State:       strings.TrimSpace(p.State),
		City:        strings.TrimSpace(p.City),
		Town:        strings.TrimSpace(p.Town),
		FullAddress: strings.TrimSpace(p.FullAddress),
	}
	if p.Latitude != nil && p.Longitude != nil {
		lat, lng := p.Latitude.Float(), p.Longitude.Float()
		l.Location.Latitude = &lat
		l.Location.Longitude = &lng
	}

	l.Pricing = p.pricing()

	if p.YoutubeURL != "" {
		l.Media.YoutubeURL = p.YoutubeURL
	}
	if p.VirtualTourURL != "" {
		l.Media.VirtualTourURL = p.VirtualTourURL
	}
}

func schemaInputError(err error) *InputError {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &InputError{Field: "data", Reason: err.Error()}
	}
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}

	field := strings.TrimPrefix(verr.InstanceLocation, "/")
	if field == "" {
		field = missingProperty(verr.Message)
	}
	if field == "" {
		field = "data"
	}

	return &InputError{Field: field, Reason: verr.Message}
}

// missingProperty extracts the first name from "missing properties: 'title', 'status'".
func missingProperty(msg string) string {
	_, rest, ok := strings.Cut(msg, "'")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, "'")

	return name
}

func validationInputError(err error) *InputError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &InputError{Field: "data", Reason: err.Error()}
	}
	fe := verrs[0]
	reason := "failed " + fe.Tag()
	switch fe.Tag() {
	case "required", "notblank":
		reason = "is required"
	case "max":
		reason = "must be at most " + fe.Param() + " characters"
	case "uuid":
		reason = "must be a UUID"
	case "url":
		reason = "must be a URL"
	}

	return &InputError{Field: fe.Field(), Reason: reason}
}
