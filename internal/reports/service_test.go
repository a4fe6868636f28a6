package reports

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

	"github.com/shaheen-020/pharmacy-backend/pkg/db/models"
	"github.com/shaheen-020/pharmacy-backend/pkg/enums"
)

func setupReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:reports_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
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
		`CREATE TABLE IF NOT EXISTS invoice_items (
  id TEXT PRIMARY KEY,
  invoice_id TEXT NOT NULL,
  medicine_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL DEFAULT 0,
  total_price NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS purchases (
  id TEXT PRIMARY KEY,
  supplier_id TEXT NOT NULL,
  date DATE NOT NULL,
  voucher_no TEXT,
  invoice_no TEXT,
  payment_status TEXT NOT NULL DEFAULT 'paid',
  status TEXT NOT NULL DEFAULT 'received',
  total_amount NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS purchase_items (
  id TEXT PRIMARY KEY,
  purchase_id TEXT NOT NULL,
  medicine_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  cost_price NUMERIC NOT NULL DEFAULT 0,
  total_price NUMERIC NOT NULL DEFAULT 0,
  expiry_date DATE,
  batch_no TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newReportService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func day(offset int) time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, offset)
}

func seedInvoice(t *testing.T, db *gorm.DB, on time.Time, net string) *models.Invoice {
	t.Helper()

	netDec := decimal.RequireFromString(net)
	invoice := &models.Invoice{
		ID:            uuid.New(),
		CustomerID:    uuid.New(),
		InvoiceNo:     fmt.Sprintf("INV-%s", uuid.NewString()[:8]),
		Date:          on,
		PaymentMethod: enums.PaymentMethodCash,
		TotalAmount:   netDec,
		NetTotal:      netDec,
		Discount:      decimal.Zero,
	}
	require.NoError(t, db.Create(invoice).Error)
	return invoice
}

func seedPurchase(t *testing.T, db *gorm.DB, on time.Time, total string) *models.Purchase {
	t.Helper()

	purchase := &models.Purchase{
		ID:            uuid.New(),
		SupplierID:    uuid.New(),
		Date:          on,
		PaymentStatus: enums.PaymentStatusPaid,
		Status:        enums.PurchaseStatusReceived,
		TotalAmount:   decimal.RequireFromString(total),
	}
	require.NoError(t, db.Create(purchase).Error)
	return purchase
}

func TestSalesReportAggregatesAndEstimatesProfit(t *testing.T) {
	db := setupReportsTestDB(t)
	svc := newReportService(t, db)
	ctx := context.Background()

	seedInvoice(t, db, day(-2), "100.00")
	seedInvoice(t, db, day(-2), "50.00")
	seedInvoice(t, db, day(-1), "30.00")
	seedInvoice(t, db, day(-40), "999.00") // outside the window

	report, err := svc.Sales(ctx, day(-7), day(0), nil)
	require.NoError(t, err)

	assert.EqualValues(t, 3, report.InvoiceCount)
	assert.True(t, report.NetTotal.Equal(decimal.RequireFromString("180.00")), "net was %s", report.NetTotal)
	assert.True(t, report.EstimatedProfit.Equal(decimal.RequireFromString("54.00")), "profit was %s", report.EstimatedProfit)
	require.Len(t, report.Days, 2)
	assert.EqualValues(t, 2, report.Days[0].InvoiceCount)
}

func TestSalesReportFiltersByCustomer(t *testing.T) {
	db := setupReportsTestDB(t)
	svc := newReportService(t, db)
	ctx := context.Background()

	target := seedInvoice(t, db, day(-1), "70.00")
	seedInvoice(t, db, day(-1), "25.00")

	report, err := svc.Sales(ctx, day(-7), day(0), &target.CustomerID)
	require.NoError(t, err)

	assert.EqualValues(t, 1, report.InvoiceCount)
	assert.True(t, report.NetTotal.Equal(decimal.RequireFromString("70.00")), "net was %s", report.NetTotal)
}

func TestPurchaseReportAggregates(t *testing.T) {
	db := setupReportsTestDB(t)
	svc := newReportService(t, db)
	ctx := context.Background()

	seedPurchase(t, db, day(-3), "200.00")
	seedPurchase(t, db, day(-3), "300.00")
	seedPurchase(t, db, day(-60), "5000.00")

	report, err := svc.Purchases(ctx, day(-7), day(0))
	require.NoError(t, err)

	assert.EqualValues(t, 2, report.PurchaseCount)
	assert.True(t, report.Total.Equal(decimal.RequireFromString("500.00")), "total was %s", report.Total)
}

func TestValuationPricesInventoryAtRetail(t *testing.T) {
	db := setupReportsTestDB(t)
	svc := newReportService(t, db)
	ctx := context.Background()

	med := &models.Medicine{ID: uuid.New(), Name: "Amoxicillin 500mg", Unit: "pcs", Price: decimal.RequireFromString("12.50")}
	require.NoError(t, db.Create(med).Error)
	empty := &models.Medicine{ID: uuid.New(), Name: "Zinc 50mg", Unit: "pcs", Price: decimal.RequireFromString("2.00")}
	require.NoError(t, db.Create(empty).Error)

	require.NoError(t, db.Create(&models.MedicineStock{ID: uuid.New(), MedicineID: med.ID, Quantity: 10}).Error)
	require.NoError(t, db.Create(&models.MedicineStock{ID: uuid.New(), MedicineID: med.ID, Quantity: 6}).Error)

	report, err := svc.Valuation(ctx)
	require.NoError(t, err)

	require.Len(t, report.Items, 2)
	assert.Equal(t, 16, report.TotalUnits)
	assert.True(t, report.TotalValue.Equal(decimal.RequireFromString("200.00")), "value was %s", report.TotalValue)
	assert.True(t, report.Items[1].Value.Equal(decimal.Zero))
}

func TestExpiryReportSplitsExpiredFromExpiring(t *testing.T) {
	db := setupReportsTestDB(t)
	svc := newReportService(t, db)
	ctx := context.Background()

	med := &models.Medicine{ID: uuid.New(), Name: "Insulin Glargine", Unit: "vial", Price: decimal.RequireFromString("450.00")}
	require.NoError(t, db.Create(med).Error)

	past := day(-5)
	soon := day(30)
	far := day(400)
	require.NoError(t, db.Create(&models.MedicineStock{ID: uuid.New(), MedicineID: med.ID, ExpiryDate: &past, Quantity: 3}).Error)
	require.NoError(t, db.Create(&models.MedicineStock{ID: uuid.New(), MedicineID: med.ID, ExpiryDate: &soon, Quantity: 5}).Error)
	require.NoError(t, db.Create(&models.MedicineStock{ID: uuid.New(), MedicineID: med.ID, ExpiryDate: &far, Quantity: 7}).Error)
	// Drained batches never show up.
	require.NoError(t, db.Create(&models.MedicineStock{ID: uuid.New(), MedicineID: med.ID, ExpiryDate: &soon, Quantity: 0}).Error)

	report, err := svc.Expiry(ctx, 6)
	require.NoError(t, err)

	require.Len(t, report.Expired, 1)
	assert.Equal(t, 3, report.Expired[0].Quantity)
	require.Len(t, report.Expiring, 1)
	assert.Equal(t, 5, report.Expiring[0].Quantity)
	assert.Equal(t, "Insulin Glargine", report.Expiring[0].MedicineName)
}

func TestStockCardReconstructsBalances(t *testing.T) {
	db := setupReportsTestDB(t)
	svc := newReportService(t, db)
	ctx := context.Background()

	med := &models.Medicine{ID: uuid.New(), Name: "Paracetamol 500mg", Unit: "pcs", Price: decimal.RequireFromString("3.00")}
	require.NoError(t, db.Create(med).Error)

	// Current shelves hold 80: opening 50, +50 received, -20 sold.
	require.NoError(t, db.Create(&models.MedicineStock{ID: uuid.New(), MedicineID: med.ID, Quantity: 80}).Error)

	voucher := "PV-9"
	purchase := seedPurchase(t, db, day(-3), "100.00")
	purchase.VoucherNo = &voucher
	require.NoError(t, db.Save(purchase).Error)
	require.NoError(t, db.Create(&models.PurchaseItem{
		ID:         uuid.New(),
		PurchaseID: purchase.ID,
		MedicineID: med.ID,
		Quantity:   50,
		CostPrice:  decimal.RequireFromString("2.00"),
		TotalPrice: decimal.RequireFromString("100.00"),
	}).Error)

	invoice := seedInvoice(t, db, day(-1), "60.00")
	require.NoError(t, db.Create(&models.InvoiceItem{
		ID:         uuid.New(),
		InvoiceID:  invoice.ID,
		MedicineID: med.ID,
		Quantity:   20,
		UnitPrice:  decimal.RequireFromString("3.00"),
		TotalPrice: decimal.RequireFromString("60.00"),
	}).Error)

	card, err := svc.StockCard(ctx, med.ID, day(-7), day(0))
	require.NoError(t, err)

	assert.Equal(t, 50, card.OpeningBalance)
	assert.Equal(t, 80, card.ClosingBalance)
	require.Len(t, card.Movements, 2)
	assert.Equal(t, "in", card.Movements[0].Direction)
	assert.Equal(t, 100, card.Movements[0].Balance)
	assert.Equal(t, "out", card.Movements[1].Direction)
	assert.Equal(t, 80, card.Movements[1].Balance)
	assert.Equal(t, "PV-9", card.Movements[0].Reference)
}

func TestReportRangeValidation(t *testing.T) {
	db := setupReportsTestDB(t)
	svc := newReportService(t, db)

	_, err := svc.Sales(context.Background(), day(0), day(-1), nil)
	require.Error(t, err)
}
