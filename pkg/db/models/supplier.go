package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is the purchasing counterparty for stock receipts.
type Supplier struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	Email         *string   `gorm:"column:email"`
	Phone         *string   `gorm:"column:phone"`
	ContactPerson *string   `gorm:"column:contact_person"`
	Address       *string   `gorm:"column:address"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
