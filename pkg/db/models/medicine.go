package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Medicine is the catalog entry stock batches and sale lines hang off.
type Medicine struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID   *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	SupplierID   *uuid.UUID      `gorm:"column:supplier_id;type:uuid"`
	Name         string          `gorm:"column:name;not null"`
	GenericName  *string         `gorm:"column:generic_name"`
	BrandName    *string         `gorm:"column:brand_name"`
	SKU          *string         `gorm:"column:sku;uniqueIndex"`
	Barcode      *string         `gorm:"column:barcode;uniqueIndex"`
	Manufacturer *string         `gorm:"column:manufacturer"`
	Strength     *string         `gorm:"column:strength"`
	Form         *string         `gorm:"column:form"`
	Packing      *string         `gorm:"column:packing"`
	Description  *string         `gorm:"column:description"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Unit         string          `gorm:"column:unit;not null"`
	ReorderLevel int             `gorm:"column:reorder_level;not null;default:0"`
	Category     *Category       `gorm:"foreignKey:CategoryID"`
	Supplier     *Supplier       `gorm:"foreignKey:SupplierID"`
	Stocks       []MedicineStock `gorm:"foreignKey:MedicineID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
