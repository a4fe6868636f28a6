package stockledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shaheen-020/pharmacy-backend/pkg/db/models"
)

// Repository manages persistence for per-batch stock rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	BatchesForDeduction(ctx context.Context, medicineID uuid.UUID) ([]models.MedicineStock, error)
	SetQuantity(ctx context.Context, stockID uuid.UUID, quantity int) error
	TotalQuantity(ctx context.Context, medicineID uuid.UUID) (int, error)
	FindBatch(ctx context.Context, medicineID uuid.UUID, batchNo *string) (*models.MedicineStock, error)
	CreateBatch(ctx context.Context, stock *models.MedicineStock) error
	AddQuantity(ctx context.Context, stockID uuid.UUID, delta int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a stock repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// BatchesForDeduction loads the non-empty batches for a medicine ordered by
// soonest expiry first, with never-expiring batches last. On Postgres the rows
// are locked for the duration of the surrounding transaction.
func (r *repository) BatchesForDeduction(ctx context.Context, medicineID uuid.UUID) ([]models.MedicineStock, error) {
	query := r.db.WithContext(ctx).
		Where("medicine_id = ? AND quantity > 0", medicineID).
		Order("expiry_date ASC NULLS LAST, id ASC")

	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var batches []models.MedicineStock
	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *repository) SetQuantity(ctx context.Context, stockID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.MedicineStock{}).
		Where("id = ?", stockID).
		Updates(map[string]any{"quantity": quantity, "updated_at": time.Now().UTC()}).Error
}

func (r *repository) TotalQuantity(ctx context.Context, medicineID uuid.UUID) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&models.MedicineStock{}).
		Where("medicine_id = ?", medicineID).
		Select("SUM(quantity)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// FindBatch matches on (medicine_id, batch_no) where a missing batch number is
// a distinct key of its own, not a wildcard.
func (r *repository) FindBatch(ctx context.Context, medicineID uuid.UUID, batchNo *string) (*models.MedicineStock, error) {
	query := r.db.WithContext(ctx).Where("medicine_id = ?", medicineID)
	if batchNo == nil {
		query = query.Where("batch_no IS NULL")
	} else {
		query = query.Where("batch_no = ?", *batchNo)
	}

	var stock models.MedicineStock
	if err := query.First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *repository) CreateBatch(ctx context.Context, stock *models.MedicineStock) error {
	if stock.ID == uuid.Nil {
		stock.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(stock).Error
}

func (r *repository) AddQuantity(ctx context.Context, stockID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.MedicineStock{}).
		Where("id = ?", stockID).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now().UTC(),
		}).Error
}
