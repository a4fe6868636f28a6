package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shaheen-020/pharmacy-backend/internal/customers"
	"github.com/shaheen-020/pharmacy-backend/internal/medicines"
	"github.com/shaheen-020/pharmacy-backend/internal/suppliers"
	"github.com/shaheen-020/pharmacy-backend/pkg/db/models"
	"github.com/shaheen-020/pharmacy-backend/pkg/enums"
)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:dashboard_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  address TEXT,
  doctor_name TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS suppliers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  contact_person TEXT,
  address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS medicines (
  id TEXT PRIMARY KEY,
  category_id TEXT,
  supplier_id TEXT,
  name TEXT NOT NULL,
  generic_name TEXT,
  brand_name TEXT,
  sku TEXT,
  barcode TEXT,
  manufacturer TEXT,
  strength TEXT,
  form TEXT,
  packing TEXT,
  description TEXT,
  price NUMERIC NOT NULL DEFAULT 0,
  unit TEXT NOT NULL DEFAULT 'pcs',
  reorder_level INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS medicine_stocks (
  id TEXT PRIMARY KEY,
  medicine_id TEXT NOT NULL,
  batch_no TEXT,
  expiry_date DATE,
  quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS invoices (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  invoice_no TEXT NOT NULL UNIQUE,
  date DATE NOT NULL,
  payment_method TEXT NOT NULL DEFAULT 'cash',
  total_amount NUMERIC NOT NULL DEFAULT 0,
  discount NUMERIC NOT NULL DEFAULT 0,
  net_total NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newSummaryService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	medicineRepo := medicines.NewRepository(db)
	medicineService, err := medicines.NewService(medicineRepo)
	require.NoError(t, err)

	svc, err := NewService(
		NewRepository(db),
		medicineService,
		medicineRepo,
		customers.NewRepository(db),
		suppliers.NewRepository(db),
		Config{LowStockThreshold: 5, ExpiryWindowMonths: 6},
	)
	require.NoError(t, err)
	return svc
}

func seedDashboardMedicine(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	medicine := &models.Medicine{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString("10.00"),
		Unit:  "pcs",
	}
	require.NoError(t, db.Create(medicine).Error)
	return medicine.ID
}

func seedDashboardBatch(t *testing.T, db *gorm.DB, medicineID uuid.UUID, qty int, expiry *time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.MedicineStock{
		ID:         uuid.New(),
		MedicineID: medicineID,
		ExpiryDate: expiry,
		Quantity:   qty,
	}).Error)
}

func datePtr(value time.Time) *time.Time {
	day := value.UTC().Truncate(24 * time.Hour)
	return &day
}

func TestSummaryAggregatesCountsAndTodaySales(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc := newSummaryService(t, db)

	customerID := uuid.New()
	require.NoError(t, db.Create(&models.Customer{ID: customerID, Name: "Walk-in"}).Error)
	require.NoError(t, db.Create(&models.Supplier{ID: uuid.New(), Name: "MediSupply"}).Error)

	wellStocked := seedDashboardMedicine(t, db, "Paracetamol 500mg")
	seedDashboardBatch(t, db, wellStocked, 40, nil)
	lowStocked := seedDashboardMedicine(t, db, "Omeprazole 20mg")
	seedDashboardBatch(t, db, lowStocked, 3, nil)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	require.NoError(t, db.Create(&models.Invoice{
		ID:            uuid.New(),
		CustomerID:    customerID,
		InvoiceNo:     "INV-TODAY-1",
		Date:          today,
		PaymentMethod: enums.PaymentMethodCash,
		TotalAmount:   decimal.RequireFromString("60.00"),
		Discount:      decimal.Zero,
		NetTotal:      decimal.RequireFromString("60.00"),
	}).Error)
	require.NoError(t, db.Create(&models.Invoice{
		ID:            uuid.New(),
		CustomerID:    customerID,
		InvoiceNo:     "INV-YESTERDAY-1",
		Date:          today.Add(-24 * time.Hour),
		PaymentMethod: enums.PaymentMethodCash,
		TotalAmount:   decimal.RequireFromString("99.00"),
		Discount:      decimal.Zero,
		NetTotal:      decimal.RequireFromString("99.00"),
	}).Error)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.TotalMedicines)
	assert.Equal(t, int64(1), summary.TotalCustomers)
	assert.Equal(t, int64(1), summary.TotalSuppliers)
	assert.Equal(t, int64(1), summary.TodaySalesCount)
	assert.True(t, summary.TodaySalesTotal.Equal(decimal.RequireFromString("60.00")),
		"unexpected today total %s", summary.TodaySalesTotal)

	require.Len(t, summary.LowStock, 1)
	assert.Equal(t, lowStocked, summary.LowStock[0].ID)
}

func TestSummarySplitsExpiredAndExpiringBatches(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc := newSummaryService(t, db)

	medicineID := seedDashboardMedicine(t, db, "Amoxicillin 250mg")
	now := time.Now().UTC()

	seedDashboardBatch(t, db, medicineID, 5, datePtr(now.Add(-48*time.Hour)))
	seedDashboardBatch(t, db, medicineID, 8, datePtr(now.Add(60*24*time.Hour)))
	seedDashboardBatch(t, db, medicineID, 9, datePtr(now.Add(400*24*time.Hour)))
	// empty batches never count
	seedDashboardBatch(t, db, medicineID, 0, datePtr(now.Add(-24*time.Hour)))

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.ExpiredCount)
	assert.Equal(t, int64(1), summary.ExpiringSoonCount)
}
