package stockledger

import (
	"fmt"

	"github.com/google/uuid"
)

// InsufficientStockError reports that a deduction asked for more units than
// all batches of a medicine hold together.
type InsufficientStockError struct {
	MedicineID uuid.UUID
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for medicine %s: requested %d, available %d", e.MedicineID, e.Requested, e.Available)
}

// ShortfallDetail is the public payload attached to insufficient stock errors.
type ShortfallDetail struct {
	MedicineID string `json:"medicine_id"`
	Requested  int    `json:"requested"`
	Available  int    `json:"available"`
}
