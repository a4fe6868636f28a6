package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseItem is one received line of a purchase. BatchNo and ExpiryDate are
// carried onto the stock batch the receipt lands in.
type PurchaseItem struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	PurchaseID uuid.UUID       `gorm:"column:purchase_id;type:uuid;not null;index"`
	MedicineID uuid.UUID       `gorm:"column:medicine_id;type:uuid;not null;index"`
	Quantity   int             `gorm:"column:quantity;not null"`
	CostPrice  decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	ExpiryDate *time.Time      `gorm:"column:expiry_date;type:date"`
	BatchNo    *string         `gorm:"column:batch_no"`
	Medicine   *Medicine       `gorm:"foreignKey:MedicineID"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
