package models

import (
	"time"

	"github.com/google/uuid"
)

// MedicineStock is one received batch of a medicine. Quantity only ever moves
// through purchase receipts (up) and FEFO sale deductions (down); rows are kept
// at zero quantity so the ledger history stays reconstructable.
type MedicineStock struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	MedicineID uuid.UUID  `gorm:"column:medicine_id;type:uuid;not null;index"`
	BatchNo    *string    `gorm:"column:batch_no"`
	ExpiryDate *time.Time `gorm:"column:expiry_date;type:date"`
	Quantity   int        `gorm:"column:quantity;not null;default:0"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
