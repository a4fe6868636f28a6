package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shaheen-020/pharmacy-backend/pkg/db/models"
)

// Repository answers the aggregate queries the dashboard needs.
type Repository interface {
	SalesOnDay(ctx context.Context, day time.Time) (int64, decimal.Decimal, error)
	ExpiringBatchCount(ctx context.Context, before time.Time) (int64, error)
	ExpiredBatchCount(ctx context.Context, asOf time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a dashboard repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type salesAggregate struct {
	Count int64           `gorm:"column:sale_count"`
	Total decimal.Decimal `gorm:"column:net_sum"`
}

func (r *repository) SalesOnDay(ctx context.Context, day time.Time) (int64, decimal.Decimal, error) {
	day = day.UTC().Truncate(24 * time.Hour)

	var agg salesAggregate
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select("COUNT(*) AS sale_count, COALESCE(SUM(net_total), 0) AS net_sum").
		Where("date = ?", day).
		Scan(&agg).Error
	if err != nil {
		return 0, decimal.Zero, err
	}
	return agg.Count, agg.Total, nil
}

// ExpiringBatchCount counts non-empty batches expiring before the cutoff but
// still usable today.
func (r *repository) ExpiringBatchCount(ctx context.Context, before time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MedicineStock{}).
		Where("quantity > 0 AND expiry_date IS NOT NULL AND expiry_date >= ? AND expiry_date < ?",
			time.Now().UTC().Truncate(24*time.Hour), before).
		Count(&count).Error
	return count, err
}

func (r *repository) ExpiredBatchCount(ctx context.Context, asOf time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MedicineStock{}).
		Where("quantity > 0 AND expiry_date IS NOT NULL AND expiry_date < ?", asOf.UTC().Truncate(24*time.Hour)).
		Count(&count).Error
	return count, err
}
