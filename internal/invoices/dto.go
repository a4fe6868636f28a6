package invoices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shaheen-020/pharmacy-backend/pkg/db/models"
	"github.com/shaheen-020/pharmacy-backend/pkg/enums"
)

// CreateSaleInput is the full request for one point-of-sale transaction.
type CreateSaleInput struct {
	CustomerID    uuid.UUID           `json:"customer_id" validate:"required"`
	InvoiceNo     string              `json:"invoice_no"`
	Date          time.Time           `json:"date"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Discount      decimal.Decimal     `json:"discount"`
	Items         []SaleLineInput     `json:"items" validate:"required,min=1,dive"`
}

// SaleLineInput is one line of a sale. Quantity is in the medicine's base
// unit. UnitPrice is the price agreed at the counter, which may differ from
// the catalog price.
type SaleLineInput struct {
	MedicineID uuid.UUID       `json:"medicine_id" validate:"required"`
	Quantity   int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// InvoiceDTO is the API shape of a committed sale.
type InvoiceDTO struct {
	ID            uuid.UUID        `json:"id"`
	InvoiceNo     string           `json:"invoice_no"`
	Date          time.Time        `json:"date"`
	PaymentMethod string           `json:"payment_method"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	Discount      decimal.Decimal  `json:"discount"`
	NetTotal      decimal.Decimal  `json:"net_total"`
	Customer      *CustomerSummary `json:"customer,omitempty"`
	Items         []InvoiceItemDTO `json:"items,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// CustomerSummary is the embedded customer view on invoice payloads.
type CustomerSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone *string   `json:"phone,omitempty"`
}

// InvoiceItemDTO is one sold line with the price captured at sale time.
type InvoiceItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	MedicineID   uuid.UUID       `json:"medicine_id"`
	MedicineName string          `json:"medicine_name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// InvoiceListDTO is a cursor page of invoices.
type InvoiceListDTO struct {
	Invoices   []InvoiceDTO `json:"invoices"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func toInvoiceDTO(invoice *models.Invoice) *InvoiceDTO {
	if invoice == nil {
		return nil
	}

	dto := &InvoiceDTO{
		ID:            invoice.ID,
		InvoiceNo:     invoice.InvoiceNo,
		Date:          invoice.Date,
		PaymentMethod: invoice.PaymentMethod.String(),
		TotalAmount:   invoice.TotalAmount,
		Discount:      invoice.Discount,
		NetTotal:      invoice.NetTotal,
		CreatedAt:     invoice.CreatedAt,
	}

	if invoice.Customer != nil {
		dto.Customer = &CustomerSummary{
			ID:    invoice.Customer.ID,
			Name:  invoice.Customer.Name,
			Phone: invoice.Customer.Phone,
		}
	}

	for _, item := range invoice.Items {
		itemDTO := InvoiceItemDTO{
			ID:         item.ID,
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
		if item.Medicine != nil {
			itemDTO.MedicineName = item.Medicine.Name
		}
		dto.Items = append(dto.Items, itemDTO)
	}

	return dto
}
