package postgres

import (
	"context"
	"time"

	"estate/internal/domain/entity"
	"estate/internal/domain/repository"
	"estate/internal/errors"
	"estate/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// developmentRepository implements the repository.DevelopmentRepository interface.
type developmentRepository struct {
	db *gorm.DB
}

// NewDevelopmentRepository is the constructor for developmentRepository.
func NewDevelopmentRepository(db *gorm.DB) repository.DevelopmentRepository {
	return &developmentRepository{
		db: db,
	}
}

// FindByID retrieves a development by its ID.
func (repo *developmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Development, error) {
	var developmentM model.DevelopmentModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&developmentM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDevelopmentNotFound
		}

		return nil, errors.Wrap(err, "failed to find development by ID")
	}

	return toDevelopmentDomain(&developmentM), nil
}

// UpdateStats replaces the stats columns of a development.
func (repo *developmentRepository) UpdateStats(ctx context.Context, id uuid.UUID, stats *entity.DevelopmentStats) error {
	result := repo.db.WithContext(ctx).
		Model(&model.DevelopmentModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_units":               stats.TotalUnits,
			"property_purposes_stats":   categoryColumn(stats.Distribution.Purposes),
			"property_categories_stats": categoryColumn(stats.Distribution.Categories),
			"property_types_stats":      categoryColumn(stats.Distribution.Types),
			"property_subtypes_stats":   categoryColumn(stats.Distribution.Subtypes),
			"total_estimated_revenue":   stats.TotalEstimatedRevenue,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update development stats")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDevelopmentNotFound
	}

	return nil
}

// CountByDeveloper counts the developments owned by a developer.
func (repo *developmentRepository) CountByDeveloper(ctx context.Context, developerID uuid.UUID) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.DevelopmentModel{}).
		Where("developer_id = ?", developerID).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count developments")
	}

	return count, nil
}

func toDevelopmentDomain(data *model.DevelopmentModel) *entity.Development {
	return &entity.Development{
		ID:          data.ID,
		DeveloperID: data.DeveloperID,
		Name:        data.Name,
		Stats: entity.DevelopmentStats{
			TotalUnits: data.TotalUnits,
			Distribution: entity.Distribution{
				Purposes:   data.PropertyPurposesStats,
				Types:      data.PropertyTypesStats,
				Categories: data.PropertyCategoriesStats,
				Subtypes:   data.PropertySubtypesStats,
			},
			TotalEstimatedRevenue: data.TotalEstimatedRevenue,
		},
		UpdatedAt: data.UpdatedAt,
	}
}

// developerStatsRepository implements the repository.DeveloperStatsRepository interface.
type developerStatsRepository struct {
	db *gorm.DB
}

// NewDeveloperStatsRepository is the constructor for developerStatsRepository.
func NewDeveloperStatsRepository(db *gorm.DB) repository.DeveloperStatsRepository {
	return &developerStatsRepository{
		db: db,
	}
}

// Save upserts the developer stats row.
func (repo *developerStatsRepository) Save(ctx context.Context, stats *entity.DeveloperStats) error {
	statsM := fromDeveloperStatsDomain(stats)

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "developer_id"}},
			UpdateAll: true,
		}).
		Create(statsM).Error; err != nil {
		return errors.Wrap(err, "failed to save developer stats")
	}

	return nil
}

// FindByDeveloper retrieves the stored developer stats.
func (repo *developerStatsRepository) FindByDeveloper(ctx context.Context, developerID uuid.UUID) (*entity.DeveloperStats, error) {
	var statsM model.DeveloperStatsModel

	if err := repo.db.WithContext(ctx).
		Where("developer_id = ?", developerID).
		First(&statsM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDeveloperStatsNotFound
		}

		return nil, errors.Wrap(err, "failed to find developer stats")
	}

	return toDeveloperStatsDomain(&statsM), nil
}

func fromDeveloperStatsDomain(data *entity.DeveloperStats) *model.DeveloperStatsModel {
	updatedAt := data.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	return &model.DeveloperStatsModel{
		DeveloperID:             data.DeveloperID,
		TotalUnits:              data.TotalUnits,
		TotalDevelopments:       data.TotalDevelopments,
		TotalRevenue:            data.TotalRevenue,
		TotalSales:              data.TotalSales,
		EstimatedRevenue:        data.EstimatedRevenue,
		PropertyPurposesStats:   categoryColumn(data.Distribution.Purposes),
		PropertyCategoriesStats: categoryColumn(data.Distribution.Categories),
		PropertyTypesStats:      categoryColumn(data.Distribution.Types),
		PropertySubtypesStats:   categoryColumn(data.Distribution.Subtypes),
		CountryStats:            locationColumn(data.Locations.Countries),
		StateStats:              locationColumn(data.Locations.States),
		CityStats:               locationColumn(data.Locations.Cities),
		TownStats:               locationColumn(data.Locations.Towns),
		UpdatedAt:               updatedAt,
	}
}

func toDeveloperStatsDomain(data *model.DeveloperStatsModel) *entity.DeveloperStats {
	return &entity.DeveloperStats{
		DeveloperID:       data.DeveloperID,
		TotalUnits:        data.TotalUnits,
		TotalDevelopments: data.TotalDevelopments,
		TotalRevenue:      data.TotalRevenue,
		TotalSales:        data.TotalSales,
		EstimatedRevenue:  data.EstimatedRevenue,
		Distribution: entity.Distribution{
			Purposes:   data.PropertyPurposesStats,
			Types:      data.PropertyTypesStats,
			Categories: data.PropertyCategoriesStats,
			Subtypes:   data.PropertySubtypesStats,
		},
		Locations: entity.LocationDistribution{
			Countries: data.CountryStats,
			States:    data.StateStats,
			Cities:    data.CityStats,
			Towns:     data.TownStats,
		},
		UpdatedAt: data.UpdatedAt,
	}
}

func categoryColumn(stats []entity.CategoryStat) datatypes.JSONSlice[entity.CategoryStat] {
	if stats == nil {
		stats = []entity.CategoryStat{}
	}

	return datatypes.NewJSONSlice(stats)
}

func locationColumn(stats []entity.LocationStat) datatypes.JSONSlice[entity.LocationStat] {
	if stats == nil {
		stats = []entity.LocationStat{}
	}

	return datatypes.NewJSONSlice(stats)
}
