package purchases

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shaheen-020/pharmacy-backend/pkg/db/models"
	"github.com/shaheen-020/pharmacy-backend/pkg/enums"
)

// CreatePurchaseInput records one supplier delivery.
type CreatePurchaseInput struct {
	SupplierID    uuid.UUID           `json:"supplier_id" validate:"required"`
	Date          time.Time           `json:"date"`
	VoucherNo     *string             `json:"voucher_no,omitempty"`
	InvoiceNo     *string             `json:"invoice_no,omitempty"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Items         []PurchaseLineInput `json:"items" validate:"required,min=1,dive"`
}

// PurchaseLineInput is one received line. Batch number and expiry land on the
// stock batch the quantity is booked into.
type PurchaseLineInput struct {
	MedicineID uuid.UUID       `json:"medicine_id" validate:"required"`
	Quantity   int             `json:"quantity" validate:"required,gt=0"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	BatchNo    *string         `json:"batch_no,omitempty"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
}

// PurchaseDTO is the API shape of a recorded delivery.
type PurchaseDTO struct {
	ID            uuid.UUID         `json:"id"`
	Date          time.Time         `json:"date"`
	VoucherNo     *string           `json:"voucher_no,omitempty"`
	InvoiceNo     *string           `json:"invoice_no,omitempty"`
	PaymentStatus string            `json:"payment_status"`
	Status        string            `json:"status"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	Supplier      *SupplierSummary  `json:"supplier,omitempty"`
	Items         []PurchaseItemDTO `json:"items,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// SupplierSummary is the embedded supplier view on purchase payloads.
type SupplierSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// PurchaseItemDTO is one received line.
type PurchaseItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	MedicineID   uuid.UUID       `json:"medicine_id"`
	MedicineName string          `json:"medicine_name,omitempty"`
	Quantity     int             `json:"quantity"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	BatchNo      *string         `json:"batch_no,omitempty"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
}

// PurchaseListDTO is a cursor page of purchases.
type PurchaseListDTO struct {
	Purchases  []PurchaseDTO `json:"purchases"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func toPurchaseDTO(purchase *models.Purchase) *PurchaseDTO {
	if purchase == nil {
		return nil
	}

	dto := &PurchaseDTO{
		ID:            purchase.ID,
		Date:          purchase.Date,
		VoucherNo:     purchase.VoucherNo,
		InvoiceNo:     purchase.InvoiceNo,
		PaymentStatus: purchase.PaymentStatus.String(),
		Status:        purchase.Status.String(),
		TotalAmount:   purchase.TotalAmount,
		CreatedAt:     purchase.CreatedAt,
	}

	if purchase.Supplier != nil {
		dto.Supplier = &SupplierSummary{ID: purchase.Supplier.ID, Name: purchase.Supplier.Name}
	}

	for _, item := range purchase.Items {
		itemDTO := PurchaseItemDTO{
			ID:         item.ID,
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
			CostPrice:  item.CostPrice,
			TotalPrice: item.TotalPrice,
			BatchNo:    item.BatchNo,
			ExpiryDate: item.ExpiryDate,
		}
		if item.Medicine != nil {
			itemDTO.MedicineName = item.Medicine.Name
		}
		dto.Items = append(dto.Items, itemDTO)
	}
	return dto
}
