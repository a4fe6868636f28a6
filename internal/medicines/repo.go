package medicines

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shaheen-020/pharmacy-backend/pkg/db/models"
	"github.com/shaheen-020/pharmacy-backend/pkg/pagination"
)

// ListFilter narrows medicine listings.
type ListFilter struct {
	Search     string
	CategoryID *uuid.UUID
	SupplierID *uuid.UUID
}

// MedicineRow is a medicine with its on-hand total folded in.
type MedicineRow struct {
	models.Medicine
	StockQuantity int `gorm:"column:stock_quantity"`
}

const stockSubquery = "(SELECT COALESCE(SUM(quantity), 0) FROM medicine_stocks WHERE medicine_stocks.medicine_id = medicines.id)"

// Repository manages persistence for the medicine catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, medicine *models.Medicine) error
	Update(ctx context.Context, medicine *models.Medicine) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*MedicineRow, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]MedicineRow, string, error)
	LowStock(ctx context.Context, threshold int) ([]MedicineRow, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a medicine repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, medicine *models.Medicine) error {
	if medicine.ID == uuid.Nil {
		medicine.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Category", "Supplier", "Stocks").Create(medicine).Error
}

func (r *repository) Update(ctx context.Context, medicine *models.Medicine) error {
	return r.db.WithContext(ctx).Omit("Category", "Supplier", "Stocks").Save(medicine).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error) {
	var medicine models.Medicine
	if err := r.db.WithContext(ctx).First(&medicine, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &medicine, nil
}

// FindDetail loads a medicine with its associations, batches sorted the same
// way deductions consume them.
func (r *repository) FindDetail(ctx context.Context, id uuid.UUID) (*MedicineRow, error) {
	var row MedicineRow
	err := r.db.WithContext(ctx).
		Model(&models.Medicine{}).
		Select("medicines.*, "+stockSubquery+" AS stock_quantity").
		Preload("Category").
		Preload("Supplier").
		Preload("Stocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("expiry_date ASC NULLS LAST, id ASC")
		}).
		First(&row, "medicines.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]MedicineRow, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Medicine{}).
		Select("medicines.*, "+stockSubquery+" AS stock_quantity").
		Preload("Category").
		Preload("Supplier").
		Order("medicines.created_at DESC, medicines.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"medicines.name LIKE ? OR medicines.generic_name LIKE ? OR medicines.sku LIKE ? OR medicines.barcode LIKE ?",
			like, like, like, like,
		)
	}
	if filter.CategoryID != nil {
		query = query.Where("medicines.category_id = ?", *filter.CategoryID)
	}
	if filter.SupplierID != nil {
		query = query.Where("medicines.supplier_id = ?", *filter.SupplierID)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where(
			"(medicines.created_at < ?) OR (medicines.created_at = ? AND medicines.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []MedicineRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

// LowStock returns medicines whose on-hand total is at or below their reorder
// level, falling back to the threshold for medicines without one.
func (r *repository) LowStock(ctx context.Context, threshold int) ([]MedicineRow, error) {
	var rows []MedicineRow
	err := r.db.WithContext(ctx).
		Model(&models.Medicine{}).
		Select("medicines.*, "+stockSubquery+" AS stock_quantity").
		Where(stockSubquery+" <= CASE WHEN medicines.reorder_level > 0 THEN medicines.reorder_level ELSE ? END", threshold).
		Order("stock_quantity ASC, medicines.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Select("Stocks").
		Delete(&models.Medicine{ID: id}).Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Medicine{}).Count(&count).Error
	return count, err
}
