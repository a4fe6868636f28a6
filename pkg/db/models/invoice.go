package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shaheen-020/pharmacy-backend/pkg/enums"
)

// Invoice is one completed sale. It is only ever created together with its
// items and the matching batch deductions inside a single transaction.
type Invoice struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID    uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	InvoiceNo     string              `gorm:"column:invoice_no;not null;uniqueIndex"`
	Date          time.Time           `gorm:"column:date;type:date;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Discount      decimal.Decimal     `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	NetTotal      decimal.Decimal     `gorm:"column:net_total;type:numeric(12,2);not null"`
	Customer      *Customer           `gorm:"foreignKey:CustomerID"`
	Items         []InvoiceItem       `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
