package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shaheen-020/pharmacy-backend/pkg/db/models"
)

// DailySalesRow is one calendar day of sales.
type DailySalesRow struct {
	Date         time.Time       `gorm:"column:date" json:"date"`
	InvoiceCount int64           `gorm:"column:invoice_count" json:"invoice_count"`
	GrossTotal   decimal.Decimal `gorm:"column:gross_total" json:"gross_total"`
	NetTotal     decimal.Decimal `gorm:"column:net_total_sum" json:"net_total"`
}

// DailyPurchaseRow is one calendar day of purchasing.
type DailyPurchaseRow struct {
	Date          time.Time       `gorm:"column:date" json:"date"`
	PurchaseCount int64           `gorm:"column:purchase_count" json:"purchase_count"`
	Total         decimal.Decimal `gorm:"column:total_sum" json:"total"`
}

// ValuationRow is one medicine's on-hand quantity at retail price.
type ValuationRow struct {
	MedicineID uuid.UUID       `gorm:"column:medicine_id" json:"medicine_id"`
	Name       string          `gorm:"column:name" json:"name"`
	Unit       string          `gorm:"column:unit" json:"unit"`
	Price      decimal.Decimal `gorm:"column:price" json:"price"`
	Quantity   int             `gorm:"column:quantity" json:"quantity"`
}

// ExpiryRow is one batch nearing or past its expiry date.
type ExpiryRow struct {
	StockID      uuid.UUID  `gorm:"column:stock_id" json:"stock_id"`
	MedicineID   uuid.UUID  `gorm:"column:medicine_id" json:"medicine_id"`
	MedicineName string     `gorm:"column:medicine_name" json:"medicine_name"`
	BatchNo      *string    `gorm:"column:batch_no" json:"batch_no,omitempty"`
	ExpiryDate   *time.Time `gorm:"column:expiry_date" json:"expiry_date"`
	Quantity     int        `gorm:"column:quantity" json:"quantity"`
}

// MovementRow is one stock movement from either side of the ledger.
type MovementRow struct {
	Date      time.Time       `gorm:"column:date" json:"date"`
	Reference string          `gorm:"column:reference" json:"reference"`
	Quantity  int             `gorm:"column:quantity" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price" json:"unit_price"`
}

// Repository answers the aggregate queries behind the reports.
type Repository interface {
	SalesByDay(ctx context.Context, from, to time.Time, customerID *uuid.UUID) ([]DailySalesRow, error)
	PurchasesByDay(ctx context.Context, from, to time.Time) ([]DailyPurchaseRow, error)
	Valuation(ctx context.Context) ([]ValuationRow, error)
	ExpiringBatches(ctx context.Context, before time.Time) ([]ExpiryRow, error)
	CurrentStock(ctx context.Context, medicineID uuid.UUID) (int, error)
	PurchaseMovements(ctx context.Context, medicineID uuid.UUID, from time.Time) ([]MovementRow, error)
	SaleMovements(ctx context.Context, medicineID uuid.UUID, from time.Time) ([]MovementRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a report repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SalesByDay(ctx context.Context, from, to time.Time, customerID *uuid.UUID) ([]DailySalesRow, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select("date, COUNT(*) AS invoice_count, COALESCE(SUM(total_amount), 0) AS gross_total, COALESCE(SUM(net_total), 0) AS net_total_sum").
		Where("date >= ? AND date <= ?", from, to)
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}

	var rows []DailySalesRow
	err := query.
		Group("date").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) PurchasesByDay(ctx context.Context, from, to time.Time) ([]DailyPurchaseRow, error) {
	var rows []DailyPurchaseRow
	err := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Select("date, COUNT(*) AS purchase_count, COALESCE(SUM(total_amount), 0) AS total_sum").
		Where("date >= ? AND date <= ?", from, to).
		Group("date").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) Valuation(ctx context.Context) ([]ValuationRow, error) {
	var rows []ValuationRow
	err := r.db.WithContext(ctx).
		Model(&models.Medicine{}).
		Select("medicines.id AS medicine_id, medicines.name, medicines.unit, medicines.price, COALESCE(SUM(medicine_stocks.quantity), 0) AS quantity").
		Joins("LEFT JOIN medicine_stocks ON medicine_stocks.medicine_id = medicines.id").
		Group("medicines.id, medicines.name, medicines.unit, medicines.price").
		Order("medicines.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ExpiringBatches(ctx context.Context, before time.Time) ([]ExpiryRow, error) {
	var rows []ExpiryRow
	err := r.db.WithContext(ctx).
		Model(&models.MedicineStock{}).
		Select("medicine_stocks.id AS stock_id, medicine_stocks.medicine_id, medicines.name AS medicine_name, medicine_stocks.batch_no, medicine_stocks.expiry_date, medicine_stocks.quantity").
		Joins("JOIN medicines ON medicines.id = medicine_stocks.medicine_id").
		Where("medicine_stocks.quantity > 0 AND medicine_stocks.expiry_date IS NOT NULL AND medicine_stocks.expiry_date < ?", before).
		Order("medicine_stocks.expiry_date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) CurrentStock(ctx context.Context, medicineID uuid.UUID) (int, error) {
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

func (r *repository) PurchaseMovements(ctx context.Context, medicineID uuid.UUID, from time.Time) ([]MovementRow, error) {
	var rows []MovementRow
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseItem{}).
		Select("purchases.date, COALESCE(purchases.voucher_no, '') AS reference, purchase_items.quantity, purchase_items.cost_price AS unit_price").
		Joins("JOIN purchases ON purchases.id = purchase_items.purchase_id").
		Where("purchase_items.medicine_id = ? AND purchases.date >= ?", medicineID, from).
		Order("purchases.date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) SaleMovements(ctx context.Context, medicineID uuid.UUID, from time.Time) ([]MovementRow, error) {
	var rows []MovementRow
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceItem{}).
		Select("invoices.date, invoices.invoice_no AS reference, invoice_items.quantity, invoice_items.unit_price").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Where("invoice_items.medicine_id = ? AND invoices.date >= ?", medicineID, from).
		Order("invoices.date ASC").
		Scan(&rows).Error
	return rows, err
}
