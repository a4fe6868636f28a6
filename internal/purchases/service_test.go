package purchases

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

	"github.com/shaheen-020/pharmacy-backend/internal/medicines"
	"github.com/shaheen-020/pharmacy-backend/internal/stockledger"
	"github.com/shaheen-020/pharmacy-backend/internal/suppliers"
	"github.com/shaheen-020/pharmacy-backend/pkg/db/models"
	apperrors "github.com/shaheen-020/pharmacy-backend/pkg/errors"
	"github.com/shaheen-020/pharmacy-backend/pkg/pagination"
)

func paginationParams(limit int) pagination.Params {
	return pagination.Params{Limit: limit}
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupPurchasesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:purchases_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
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

func newPurchaseService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	stockSvc, err := stockledger.NewService(stockledger.NewRepository(db))
	require.NoError(t, err)

	svc, err := NewService(
		gormTxRunner{db: db},
		NewRepository(db),
		stockSvc,
		suppliers.NewRepository(db),
		medicines.NewRepository(db),
	)
	require.NoError(t, err)
	return svc
}

func seedSupplier(t *testing.T, db *gorm.DB, name string) *models.Supplier {
	t.Helper()

	supplier := &models.Supplier{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

func seedMedicine(t *testing.T, db *gorm.DB, name string) *models.Medicine {
	t.Helper()

	med := &models.Medicine{ID: uuid.New(), Name: name, Unit: "pcs"}
	require.NoError(t, db.Create(med).Error)
	return med
}

func stockRows(t *testing.T, db *gorm.DB, medicineID uuid.UUID) []models.MedicineStock {
	t.Helper()

	var rows []models.MedicineStock
	require.NoError(t, db.Where("medicine_id = ?", medicineID).Find(&rows).Error)
	return rows
}

func TestCreatePurchaseBooksStockIntoBatches(t *testing.T) {
	db := setupPurchasesTestDB(t)
	svc := newPurchaseService(t, db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, "MediSupply Ltd")
	amox := seedMedicine(t, db, "Amoxicillin 500mg")
	para := seedMedicine(t, db, "Paracetamol 500mg")

	batchNo := "PB-100"
	expiry := time.Now().UTC().AddDate(1, 0, 0).Truncate(24 * time.Hour)

	purchase, err := svc.Create(ctx, CreatePurchaseInput{
		SupplierID: supplier.ID,
		Items: []PurchaseLineInput{
			{MedicineID: amox.ID, Quantity: 100, CostPrice: decimal.RequireFromString("7.00"), BatchNo: &batchNo, ExpiryDate: &expiry},
			{MedicineID: para.ID, Quantity: 200, CostPrice: decimal.RequireFromString("1.20")},
		},
	})
	require.NoError(t, err)

	assert.True(t, purchase.TotalAmount.Equal(decimal.RequireFromString("940.00")), "total was %s", purchase.TotalAmount)
	assert.Equal(t, "received", purchase.Status)
	assert.Equal(t, "paid", purchase.PaymentStatus)
	require.Len(t, purchase.Items, 2)

	amoxRows := stockRows(t, db, amox.ID)
	require.Len(t, amoxRows, 1)
	assert.Equal(t, 100, amoxRows[0].Quantity)
	require.NotNil(t, amoxRows[0].BatchNo)
	assert.Equal(t, batchNo, *amoxRows[0].BatchNo)

	// The batchless line lands on a nil-keyed row.
	paraRows := stockRows(t, db, para.ID)
	require.Len(t, paraRows, 1)
	assert.Nil(t, paraRows[0].BatchNo)
	assert.Equal(t, 200, paraRows[0].Quantity)
}

func TestCreatePurchaseTopsUpExistingBatch(t *testing.T) {
	db := setupPurchasesTestDB(t)
	svc := newPurchaseService(t, db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, "MediSupply Ltd")
	med := seedMedicine(t, db, "Ibuprofen 400mg")
	batchNo := "PB-200"

	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, CreatePurchaseInput{
			SupplierID: supplier.ID,
			Items: []PurchaseLineInput{
				{MedicineID: med.ID, Quantity: 50, CostPrice: decimal.RequireFromString("2.00"), BatchNo: &batchNo},
			},
		})
		require.NoError(t, err)
	}

	rows := stockRows(t, db, med.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, 100, rows[0].Quantity)
}

func TestCreatePurchaseUnknownReferencesWriteNothing(t *testing.T) {
	db := setupPurchasesTestDB(t)
	svc := newPurchaseService(t, db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, "MediSupply Ltd")
	med := seedMedicine(t, db, "Aspirin 75mg")

	_, err := svc.Create(ctx, CreatePurchaseInput{
		SupplierID: uuid.New(),
		Items:      []PurchaseLineInput{{MedicineID: med.ID, Quantity: 10}},
	})
	require.Error(t, err)
	typed := apperrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, apperrors.CodeNotFound, typed.Code())

	_, err = svc.Create(ctx, CreatePurchaseInput{
		SupplierID: supplier.ID,
		Items:      []PurchaseLineInput{{MedicineID: uuid.New(), Quantity: 10}},
	})
	require.Error(t, err)
	typed = apperrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, apperrors.CodeNotFound, typed.Code())

	var count int64
	require.NoError(t, db.Model(&models.Purchase{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	assert.Empty(t, stockRows(t, db, med.ID))
}

func TestCreatePurchaseValidation(t *testing.T) {
	db := setupPurchasesTestDB(t)
	svc := newPurchaseService(t, db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, "MediSupply Ltd")
	med := seedMedicine(t, db, "Vitamin C 1000mg")

	cases := []struct {
		name  string
		input CreatePurchaseInput
	}{
		{
			name:  "missing supplier",
			input: CreatePurchaseInput{Items: []PurchaseLineInput{{MedicineID: med.ID, Quantity: 1}}},
		},
		{
			name:  "no items",
			input: CreatePurchaseInput{SupplierID: supplier.ID},
		},
		{
			name: "zero quantity",
			input: CreatePurchaseInput{
				SupplierID: supplier.ID,
				Items:      []PurchaseLineInput{{MedicineID: med.ID, Quantity: 0}},
			},
		},
		{
			name: "negative cost",
			input: CreatePurchaseInput{
				SupplierID: supplier.ID,
				Items:      []PurchaseLineInput{{MedicineID: med.ID, Quantity: 1, CostPrice: decimal.RequireFromString("-1")}},
			},
		},
		{
			name: "bad payment status",
			input: CreatePurchaseInput{
				SupplierID:    supplier.ID,
				PaymentStatus: "maybe",
				Items:         []PurchaseLineInput{{MedicineID: med.ID, Quantity: 1}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input)
			require.Error(t, err)
			typed := apperrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, apperrors.CodeValidation, typed.Code())
		})
	}
}

func TestDeletePurchaseKeepsReceivedStock(t *testing.T) {
	db := setupPurchasesTestDB(t)
	svc := newPurchaseService(t, db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, "MediSupply Ltd")
	med := seedMedicine(t, db, "Metformin 850mg")

	purchase, err := svc.Create(ctx, CreatePurchaseInput{
		SupplierID: supplier.ID,
		Items:      []PurchaseLineInput{{MedicineID: med.ID, Quantity: 75, CostPrice: decimal.RequireFromString("3.00")}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, purchase.ID))

	var count int64
	require.NoError(t, db.Model(&models.Purchase{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&models.PurchaseItem{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	// Receipt deletion is bookkeeping only; the shelves keep the units.
	rows := stockRows(t, db, med.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, 75, rows[0].Quantity)
}

func TestGetAndListPurchases(t *testing.T) {
	db := setupPurchasesTestDB(t)
	svc := newPurchaseService(t, db)
	ctx := context.Background()

	supplier := seedSupplier(t, db, "MediSupply Ltd")
	med := seedMedicine(t, db, "Omeprazole 20mg")

	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, CreatePurchaseInput{
			SupplierID: supplier.ID,
			Items:      []PurchaseLineInput{{MedicineID: med.ID, Quantity: 10, CostPrice: decimal.RequireFromString("5.00")}},
		})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, ListFilter{SupplierID: &supplier.ID}, paginationParams(10))
	require.NoError(t, err)
	assert.Len(t, page.Purchases, 2)
	require.NotNil(t, page.Purchases[0].Supplier)
	assert.Equal(t, "MediSupply Ltd", page.Purchases[0].Supplier.Name)

	detail, err := svc.Get(ctx, page.Purchases[0].ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Omeprazole 20mg", detail.Items[0].MedicineName)

	_, err = svc.Get(ctx, uuid.New())
	require.Error(t, err)
	typed := apperrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, apperrors.CodeNotFound, typed.Code())
}
