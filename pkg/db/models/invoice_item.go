package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItem snapshots one sold line: the unit price is captured at sale time
// and never re-derived from the current medicine price.
type InvoiceItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	InvoiceID  uuid.UUID       `gorm:"column:invoice_id;type:uuid;not null;index"`
	MedicineID uuid.UUID       `gorm:"column:medicine_id;type:uuid;not null;index"`
	Quantity   int             `gorm:"column:quantity;not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	Medicine   *Medicine       `gorm:"foreignKey:MedicineID"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
