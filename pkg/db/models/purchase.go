package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shaheen-020/pharmacy-backend/pkg/enums"
)

// Purchase is one supplier delivery (stock-in voucher).
type Purchase struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	SupplierID    uuid.UUID            `gorm:"column:supplier_id;type:uuid;not null"`
	Date          time.Time            `gorm:"column:date;type:date;not null"`
	VoucherNo     *string              `gorm:"column:voucher_no"`
	InvoiceNo     *string              `gorm:"column:invoice_no"`
	PaymentStatus enums.PaymentStatus  `gorm:"column:payment_status;not null;default:'paid'"`
	Status        enums.PurchaseStatus `gorm:"column:status;not null"`
	TotalAmount   decimal.Decimal      `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Supplier      *Supplier            `gorm:"foreignKey:SupplierID"`
	Items         []PurchaseItem       `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
