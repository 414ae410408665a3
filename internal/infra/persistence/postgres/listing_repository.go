// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"estate/internal/domain/entity"
	"estate/internal/domain/repository"
	"estate/internal/errors"
	"estate/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const geohashPrecision = 9

// listingRepository implements the repository.ListingRepository interface.
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository is the constructor for listingRepository.
func NewListingRepository(db *gorm.DB) repository.ListingRepository {
	return &listingRepository{
		db: db,
	}
}

// Create inserts a new listing row.
func (repo *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	listingM := fromListingDomain(listing)

	if err := repo.db.WithContext(ctx).Create(listingM).Error; err != nil {
		return listingWriteError(err, "create")
	}

	listing.CreatedAt = listingM.CreatedAt
	listing.UpdatedAt = listingM.UpdatedAt

	return nil
}

// Update overwrites every column of an existing listing except its identity and creation time.
func (repo *listingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listingM := fromListingDomain(listing)

	result := repo.db.WithContext(ctx).
		Model(&model.ListingModel{ID: listing.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(listingM)
	if result.Error != nil {
		return listingWriteError(result.Error, "update")
	}
	if result.RowsAffected == 0 {
		return repository.ErrListingNotFound
	}
	listing.UpdatedAt = listingM.UpdatedAt

	return nil
}

// UpdateLifecycle writes only the three lifecycle columns.
func (repo *listingRepository) UpdateLifecycle(ctx context.Context, id uuid.UUID, lifecycle entity.Lifecycle) error {
	condition, upload, status := lifecycle.Fields()

	result := repo.db.WithContext(ctx).
		Model(&model.ListingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"listing_condition": string(condition),
			"upload_status":     string(upload),
			"listing_status":    string(status),
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update listing lifecycle")
	}
	if result.RowsAffected == 0 {
		return repository.ErrListingNotFound
	}

	return nil
}

// UpdateSocialAmenities writes only the social amenities column.
func (repo *listingRepository) UpdateSocialAmenities(ctx context.Context, id uuid.UUID, amenities []entity.SocialAmenity) error {
	if amenities == nil {
		amenities = []entity.SocialAmenity{}
	}

	result := repo.db.WithContext(ctx).
		Model(&model.ListingModel{}).
		Where("id = ?", id).
		Update("social_amenities", datatypes.NewJSONSlice(amenities))
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update social amenities")
	}
	if result.RowsAffected == 0 {
		return repository.ErrListingNotFound
	}

	return nil
}

// Delete removes a listing row.
func (repo *listingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ListingModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete listing")
	}
	if result.RowsAffected == 0 {
		return repository.ErrListingNotFound
	}

	return nil
}

// FindByID retrieves a listing by its ID.
func (repo *listingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	var listingM model.ListingModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&listingM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrListingNotFound
		}

		return nil, errors.Wrap(err, "failed to find listing by ID")
	}

	return toListingDomain(&listingM)
}

// FindResumableDraft retrieves a draft of userID that is still waiting for its assets.
func (repo *listingRepository) FindResumableDraft(ctx context.Context, id, userID uuid.UUID) (*entity.Listing, error) {
	condition, upload, status := entity.Drafting().Fields()
	var listingM model.ListingModel

	if err := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Where("listing_condition = ? AND upload_status = ? AND listing_status = ?", string(condition), string(upload), string(status)).
		First(&listingM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrListingNotFound
		}

		return nil, errors.Wrap(err, "failed to find resumable draft")
	}

	return toListingDomain(&listingM)
}

// FindByDevelopment retrieves every listing of a development.
func (repo *listingRepository) FindByDevelopment(ctx context.Context, developmentID uuid.UUID) ([]*entity.Listing, error) {
	var listingModels []*model.ListingModel

	if err := repo.db.WithContext(ctx).
		Where("development_id = ?", developmentID).
		Order("created_at ASC").
		Find(&listingModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find listings by development")
	}

	return toListingDomains(listingModels)
}

// FindForDeveloperStats retrieves the developer-account listings of userID in the given statuses.
func (repo *listingRepository) FindForDeveloperStats(ctx context.Context, userID uuid.UUID, statuses []entity.ListingStatus) ([]*entity.Listing, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	var listingModels []*model.ListingModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND account_type = ?", userID, entity.AccountTypeDeveloper).
		Where("listing_status IN ?", values).
		Order("created_at ASC").
		Find(&listingModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find listings for developer stats")
	}

	return toListingDomains(listingModels)
}

func toListingDomains(models []*model.ListingModel) ([]*entity.Listing, error) {
	listings := make([]*entity.Listing, 0, len(models))
	for _, listingM := range models {
		listing, err := toListingDomain(listingM)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}

	return listings, nil
}

func toListingDomain(data *model.ListingModel) (*entity.Listing, error) {
	lifecycle, err := entity.LifecycleFromFields(
		entity.ListingCondition(data.ListingCondition),
		entity.UploadStatus(data.UploadStatus),
		entity.ListingStatus(data.ListingStatus),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", data.ID)
	}

	return &entity.Listing{
		ID:             data.ID,
		UserID:         data.UserID,
		AccountType:    data.AccountType,
		DevelopmentID:  data.DevelopmentID,
		Title:          data.Title,
		Description:    data.Description,
		Availability:   data.Availability,
		Size:           data.Size,
		Specifications: data.Specifications,
		Purposes:       data.Purposes.Data(),
		Types:          data.Types.Data(),
		Categories:     data.Categories.Data(),
		ListingTypes:   data.ListingTypes.Data(),
		Location: entity.Location{
			Country:     data.Country,
			State:       data.State,
			City:        data.City,
			Town:        data.Town,
			FullAddress: data.FullAddress,
			Latitude:    data.Latitude,
			Longitude:   data.Longitude,
		},
		Pricing:          pricingFromColumns(data),
		Media:            data.Media.Data(),
		AdditionalFiles:  data.AdditionalFiles,
		Model3D:          data.Model3D.Data(),
		FloorPlan:        data.FloorPlan.Data(),
		SocialAmenities:  data.SocialAmenities,
		EstimatedRevenue: data.EstimatedRevenue.Data(),
		GlobalPrice:      data.GlobalPrice.Data(),
		Lifecycle:        lifecycle,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}, nil
}

// pricingFromColumns prefers the structured pricing column and falls back to the legacy flat columns
// for rows written before it existed.
func pricingFromColumns(data *model.ListingModel) entity.Pricing {
	pricing := data.Pricing.Data()
	if pricing.Price != nil || data.Price == nil {
		return pricing
	}

	return entity.Pricing{
		Price:              entity.NewAmount(*data.Price),
		Currency:           data.Currency,
		PriceType:          data.PriceType,
		Duration:           data.Duration,
		IdealDuration:      amountPtr(data.IdealDuration),
		TimeSpan:           data.TimeSpan,
		IsNegotiable:       data.IsNegotiable,
		SecurityDeposit:    amountPtr(data.SecurityDeposit),
		SecurityTerms:      data.SecurityTerms,
		CancellationPolicy: data.CancellationPolicy,
	}
}

func fromListingDomain(data *entity.Listing) *model.ListingModel {
	condition, upload, status := data.Lifecycle.Fields()
	additional := data.AdditionalFiles
	if additional == nil {
		additional = []entity.FileRecord{}
	}
	amenities := data.SocialAmenities
	if amenities == nil {
		amenities = []entity.SocialAmenity{}
	}

	listingM := &model.ListingModel{
		ID:             data.ID,
		UserID:         data.UserID,
		AccountType:    data.AccountType,
		DevelopmentID:  data.DevelopmentID,
		Title:          data.Title,
		Description:    data.Description,
		Availability:   data.Availability,
		Size:           data.Size,
		Specifications: datatypes.JSONMap(data.Specifications),
		Purposes:       datatypes.NewJSONType(nonNilRefs(data.Purposes)),
		Types:          datatypes.NewJSONType(nonNilRefs(data.Types)),
		Categories:     datatypes.NewJSONType(nonNilRefs(data.Categories)),
		ListingTypes:   datatypes.NewJSONType(data.ListingTypes),

		Country:     data.Location.Country,
		State:       data.Location.State,
		City:        data.Location.City,
		Town:        data.Location.Town,
		FullAddress: data.Location.FullAddress,
		Latitude:    data.Location.Latitude,
		Longitude:   data.Location.Longitude,

		Pricing:            datatypes.NewJSONType(data.Pricing),
		Price:              floatPtr(data.Pricing.Price),
		Currency:           data.Pricing.Currency,
		PriceType:          data.Pricing.PriceType,
		Duration:           data.Pricing.Duration,
		IdealDuration:      floatPtr(data.Pricing.IdealDuration),
		TimeSpan:           data.Pricing.TimeSpan,
		IsNegotiable:       data.Pricing.IsNegotiable,
		SecurityDeposit:    floatPtr(data.Pricing.SecurityDeposit),
		SecurityTerms:      data.Pricing.SecurityTerms,
		CancellationPolicy: data.Pricing.CancellationPolicy,

		Media:           datatypes.NewJSONType(data.Media),
		AdditionalFiles: datatypes.NewJSONSlice(additional),
		Model3D:         datatypes.NewJSONType(data.Model3D),
		FloorPlan:       datatypes.NewJSONType(data.FloorPlan),
		SocialAmenities: datatypes.NewJSONSlice(amenities),

		EstimatedRevenue: datatypes.NewJSONType(data.EstimatedRevenue),
		GlobalPrice:      datatypes.NewJSONType(data.GlobalPrice),

		ListingCondition: string(condition),
		UploadStatus:     string(upload),
		ListingStatus:    string(status),

		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
	if data.Location.HasCoordinates() {
		listingM.Geohash = geohash.EncodeWithPrecision(*data.Location.Latitude, *data.Location.Longitude, geohashPrecision)
	}

	return listingM
}

func nonNilRefs(refs entity.Refs) entity.Refs {
	if refs == nil {
		return entity.Refs{}
	}

	return refs
}

func floatPtr(a *entity.Amount) *float64 {
	if a == nil {
		return nil
	}
	v := float64(*a)

	return &v
}

func amountPtr(f *float64) *entity.Amount {
	if f == nil {
		return nil
	}

	return entity.NewAmount(*f)
}
