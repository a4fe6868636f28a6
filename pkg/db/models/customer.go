package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a walk-in or prescription customer invoices are billed to.
type Customer struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	Email      *string   `gorm:"column:email"`
	Phone      *string   `gorm:"column:phone"`
	Address    *string   `gorm:"column:address"`
	DoctorName *string   `gorm:"column:doctor_name"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
