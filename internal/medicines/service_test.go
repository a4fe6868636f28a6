package medicines

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
	apperrors "github.com/shaheen-020/pharmacy-backend/pkg/errors"
	"github.com/shaheen-020/pharmacy-backend/pkg/pagination"
)

func setupMedicinesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:medicines_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS suppliers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT,
  email TEXT,
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
  sku TEXT UNIQUE,
  barcode TEXT UNIQUE,
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
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newMedicinesService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupMedicinesTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func seedBatch(t *testing.T, db *gorm.DB, medicineID uuid.UUID, batchNo string, expiry *time.Time, qty int) {
	t.Helper()

	require.NoError(t, db.Create(&models.MedicineStock{
		ID:         uuid.New(),
		MedicineID: medicineID,
		BatchNo:    &batchNo,
		ExpiryDate: expiry,
		Quantity:   qty,
	}).Error)
}

func strPtr(s string) *string { return &s }

func TestCreateAndGetMedicineWithBatches(t *testing.T) {
	svc, db := newMedicinesService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, MedicineInput{
		Name:         "  Paracetamol 500mg  ",
		GenericName:  strPtr("Paracetamol"),
		SKU:          strPtr("PARA-500"),
		Price:        decimal.RequireFromString("2.50"),
		ReorderLevel: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol 500mg", created.Name)
	assert.Equal(t, "pcs", created.Unit)
	assert.Equal(t, 0, created.StockQuantity)

	// Insert the later-expiring batch first so ordering is not insertion order.
	far := time.Now().AddDate(1, 0, 0)
	near := time.Now().AddDate(0, 2, 0)
	seedBatch(t, db, created.ID, "B-FAR", &far, 40)
	seedBatch(t, db, created.ID, "B-NEAR", &near, 15)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 55, got.StockQuantity)
	require.Len(t, got.Batches, 2)
	assert.Equal(t, "B-NEAR", *got.Batches[0].BatchNo)
	assert.Equal(t, "B-FAR", *got.Batches[1].BatchNo)
}

func TestCreateMedicineDuplicateSKU(t *testing.T) {
	svc, _ := newMedicinesService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, MedicineInput{
		Name:  "Amoxicillin 250mg",
		SKU:   strPtr("AMOX-250"),
		Price: decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, MedicineInput{
		Name:  "Amoxicillin 250mg caps",
		SKU:   strPtr("AMOX-250"),
		Price: decimal.RequireFromString("5.50"),
	})
	require.Error(t, err)
	typed := apperrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, apperrors.CodeConflict, typed.Code())
}

func TestCreateMedicineValidation(t *testing.T) {
	svc, _ := newMedicinesService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input MedicineInput
	}{
		{"empty name", MedicineInput{Name: "   ", Price: decimal.NewFromInt(1)}},
		{"negative price", MedicineInput{Name: "Ibuprofen", Price: decimal.RequireFromString("-1")}},
		{"negative reorder level", MedicineInput{Name: "Ibuprofen", Price: decimal.NewFromInt(1), ReorderLevel: -1}},
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

func TestLowStockHonorsReorderLevel(t *testing.T) {
	svc, db := newMedicinesService(t)
	ctx := context.Background()

	expiry := time.Now().AddDate(1, 0, 0)

	withReorder, err := svc.Create(ctx, MedicineInput{
		Name:         "Insulin Glargine",
		Price:        decimal.NewFromInt(30),
		ReorderLevel: 20,
	})
	require.NoError(t, err)
	seedBatch(t, db, withReorder.ID, "INS-1", &expiry, 15)

	belowDefault, err := svc.Create(ctx, MedicineInput{
		Name:  "Cetirizine 10mg",
		Price: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	seedBatch(t, db, belowDefault.ID, "CET-1", &expiry, 3)

	healthy, err := svc.Create(ctx, MedicineInput{
		Name:  "Omeprazole 20mg",
		Price: decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	seedBatch(t, db, healthy.ID, "OME-1", &expiry, 8)

	rows, err := svc.LowStock(ctx, 5)
	require.NoError(t, err)

	ids := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		ids[row.ID] = true
	}
	assert.True(t, ids[withReorder.ID], "stock 15 is under its reorder level of 20")
	assert.True(t, ids[belowDefault.ID], "stock 3 is under the fallback threshold")
	assert.False(t, ids[healthy.ID], "stock 8 is above both limits")

	_, err = svc.LowStock(ctx, -1)
	require.Error(t, err)
	typed := apperrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, apperrors.CodeValidation, typed.Code())
}

func TestUpdateAndDeleteMedicine(t *testing.T) {
	svc, _ := newMedicinesService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, uuid.New(), MedicineInput{Name: "Ghost", Price: decimal.NewFromInt(1)})
	require.Error(t, err)
	typed := apperrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, apperrors.CodeNotFound, typed.Code())

	created, err := svc.Create(ctx, MedicineInput{
		Name:  "Metformin 500mg",
		Price: decimal.NewFromInt(3),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, MedicineInput{
		Name:         "Metformin 850mg",
		Price:        decimal.RequireFromString("4.25"),
		Unit:         "strip",
		ReorderLevel: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, "Metformin 850mg", updated.Name)
	assert.Equal(t, "strip", updated.Unit)
	assert.Equal(t, 12, updated.ReorderLevel)
	assert.True(t, decimal.RequireFromString("4.25").Equal(updated.Price))

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
	typed = apperrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, apperrors.CodeNotFound, typed.Code())

	page, err := svc.List(ctx, ListFilter{}, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, page.Medicines)
}
