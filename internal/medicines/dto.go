package medicines

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MedicineInput carries the writable catalog fields.
type MedicineInput struct {
	Name         string          `json:"name" validate:"required"`
	GenericName  *string         `json:"generic_name,omitempty"`
	BrandName    *string         `json:"brand_name,omitempty"`
	SKU          *string         `json:"sku,omitempty"`
	Barcode      *string         `json:"barcode,omitempty"`
	Manufacturer *string         `json:"manufacturer,omitempty"`
	Strength     *string         `json:"strength,omitempty"`
	Form         *string         `json:"form,omitempty"`
	Packing      *string         `json:"packing,omitempty"`
	Description  *string         `json:"description,omitempty"`
	CategoryID   *uuid.UUID      `json:"category_id,omitempty"`
	SupplierID   *uuid.UUID      `json:"supplier_id,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Unit         string          `json:"unit"`
	ReorderLevel int             `json:"reorder_level"`
}

// MedicineDTO is the API shape of a catalog entry.
type MedicineDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	GenericName   *string         `json:"generic_name,omitempty"`
	BrandName     *string         `json:"brand_name,omitempty"`
	SKU           *string         `json:"sku,omitempty"`
	Barcode       *string         `json:"barcode,omitempty"`
	Manufacturer  *string         `json:"manufacturer,omitempty"`
	Strength      *string         `json:"strength,omitempty"`
	Form          *string         `json:"form,omitempty"`
	Packing       *string         `json:"packing,omitempty"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Unit          string          `json:"unit"`
	ReorderLevel  int             `json:"reorder_level"`
	StockQuantity int             `json:"stock_quantity"`
	Category      *NamedRef       `json:"category,omitempty"`
	Supplier      *NamedRef       `json:"supplier,omitempty"`
	Batches       []BatchDTO      `json:"batches,omitempty"`
}

// NamedRef is a minimal embedded reference.
type NamedRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BatchDTO is one stock batch in expiry order.
type BatchDTO struct {
	ID         uuid.UUID  `json:"id"`
	BatchNo    *string    `json:"batch_no,omitempty"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	Quantity   int        `json:"quantity"`
}

// MedicineListDTO is a cursor page of medicines.
type MedicineListDTO struct {
	Medicines  []MedicineDTO `json:"medicines"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func toMedicineDTO(row *MedicineRow, withBatches bool) *MedicineDTO {
	dto := &MedicineDTO{
		ID:            row.ID,
		Name:          row.Name,
		GenericName:   row.GenericName,
		BrandName:     row.BrandName,
		SKU:           row.SKU,
		Barcode:       row.Barcode,
		Manufacturer:  row.Manufacturer,
		Strength:      row.Strength,
		Form:          row.Form,
		Packing:       row.Packing,
		Description:   row.Description,
		Price:         row.Price,
		Unit:          row.Unit,
		ReorderLevel:  row.ReorderLevel,
		StockQuantity: row.StockQuantity,
	}

	if row.Category != nil {
		dto.Category = &NamedRef{ID: row.Category.ID, Name: row.Category.Name}
	}
	if row.Supplier != nil {
		dto.Supplier = &NamedRef{ID: row.Supplier.ID, Name: row.Supplier.Name}
	}

	if withBatches {
		for _, stock := range row.Stocks {
			dto.Batches = append(dto.Batches, BatchDTO{
				ID:         stock.ID,
				BatchNo:    stock.BatchNo,
				ExpiryDate: stock.ExpiryDate,
				Quantity:   stock.Quantity,
			})
		}
	}
	return dto
}
