package postgres

import (
	"context"

	"estate/internal/domain/entity"
	"estate/internal/domain/repository"
	"estate/internal/errors"
	"estate/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// salesRepository implements the repository.SalesRepository interface.
type salesRepository struct {
	db *gorm.DB
}

// NewSalesRepository is the constructor for salesRepository.
func NewSalesRepository(db *gorm.DB) repository.SalesRepository {
	return &salesRepository{
		db: db,
	}
}

// SummarizeByDeveloper sums the ledger of a developer.
func (repo *salesRepository) SummarizeByDeveloper(ctx context.Context, developerID uuid.UUID) (*entity.SalesSummary, error) {
	var row struct {
		TotalRevenue float64
		TotalSales   int64
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.SaleModel{}).
		Select("COALESCE(SUM(amount), 0) AS total_revenue, COUNT(*) AS total_sales").
		Where("developer_id = ?", developerID).
		Scan(&row).Error; err != nil {
		return nil, errors.Wrap(err, "failed to summarize sales")
	}

	return &entity.SalesSummary{
		TotalRevenue: row.TotalRevenue,
		TotalSales:   row.TotalSales,
	}, nil
}
