package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shaheen-020/pharmacy-backend/internal/stockledger"
	"github.com/shaheen-020/pharmacy-backend/pkg/db"
	"github.com/shaheen-020/pharmacy-backend/pkg/db/models"
	"github.com/shaheen-020/pharmacy-backend/pkg/enums"
	apperrors "github.com/shaheen-020/pharmacy-backend/pkg/errors"
	"github.com/shaheen-020/pharmacy-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type customerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type medicineLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error)
}

// Service executes sale orchestration and invoice reads.
type Service interface {
	CreateSale(ctx context.Context, input CreateSaleInput) (*InvoiceDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*InvoiceDTO, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*InvoiceListDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	tx        txRunner
	repo      Repository
	stock     stockledger.Service
	customers customerLoader
	medicines medicineLoader
	retries   int
}

// NewService builds the invoice service. retries bounds how many times a sale
// is transparently re-run after a serialization conflict.
func NewService(
	tx txRunner,
	repo Repository,
	stock stockledger.Service,
	customers customerLoader,
	medicines medicineLoader,
	retries int,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock ledger service required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer loader required")
	}
	if medicines == nil {
		return nil, fmt.Errorf("medicine loader required")
	}
	if retries < 0 {
		retries = 0
	}
	return &service{
		tx:        tx,
		repo:      repo,
		stock:     stock,
		customers: customers,
		medicines: medicines,
		retries:   retries,
	}, nil
}

// CreateSale commits an invoice, its items and the matching FEFO deductions as
// one unit. Any failure, including a stock shortfall on the last line, leaves
// no trace of the sale.
func (s *service) CreateSale(ctx context.Context, input CreateSaleInput) (*InvoiceDTO, error) {
	if err := validateSaleInput(&input); err != nil {
		return nil, err
	}

	if _, err := s.customers.FindByID(ctx, input.CustomerID); err != nil {
		return nil, referenceError(err, "customer", input.CustomerID)
	}

	lines := make([]models.InvoiceItem, len(input.Items))
	total := decimal.Zero
	for i, item := range input.Items {
		if _, err := s.medicines.FindByID(ctx, item.MedicineID); err != nil {
			return nil, referenceError(err, "medicine", item.MedicineID)
		}
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lines[i] = models.InvoiceItem{
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: lineTotal,
		}
		total = total.Add(lineTotal)
	}

	if input.Discount.GreaterThan(total) {
		return nil, apperrors.New(apperrors.CodeValidation, "discount exceeds invoice total")
	}

	invoice := &models.Invoice{
		CustomerID:    input.CustomerID,
		InvoiceNo:     input.InvoiceNo,
		Date:          input.Date,
		PaymentMethod: input.PaymentMethod,
		TotalAmount:   total,
		Discount:      input.Discount,
		NetTotal:      total.Sub(input.Discount),
	}

	var saleID uuid.UUID
	attempt := func() error {
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			stock := s.stock.WithTx(tx)

			record := *invoice
			record.ID = uuid.Nil
			if err := repo.Create(ctx, &record); err != nil {
				return err
			}

			// Lines for the same medicine deduct cumulatively; the second
			// line only sees what the first one left behind.
			for i := range lines {
				if _, err := stock.Deduct(ctx, lines[i].MedicineID, lines[i].Quantity); err != nil {
					return err
				}
				lines[i].InvoiceID = record.ID
				lines[i].ID = uuid.Nil
			}
			items := make([]models.InvoiceItem, len(lines))
			copy(items, lines)
			if err := repo.CreateItems(ctx, items); err != nil {
				return err
			}

			saleID = record.ID
			return nil
		})
	}

	err := attempt()
	for tries := 0; err != nil && db.IsSerializationConflict(err) && tries < s.retries; tries++ {
		err = attempt()
	}
	if err != nil {
		return nil, classifySaleError(err, invoice.InvoiceNo)
	}

	committed, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return toInvoiceDTO(committed), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*InvoiceDTO, error) {
	if id == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "invoice id is required")
	}
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "invoice not found")
		}
		return nil, err
	}
	return toInvoiceDTO(invoice), nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*InvoiceListDTO, error) {
	rows, next, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, err
	}

	out := &InvoiceListDTO{NextCursor: next, Invoices: make([]InvoiceDTO, 0, len(rows))}
	for i := range rows {
		out.Invoices = append(out.Invoices, *toInvoiceDTO(&rows[i]))
	}
	return out, nil
}

// Delete removes the invoice and its items. Sold stock is not returned to the
// shelves; corrections are made with a new purchase receipt.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return apperrors.New(apperrors.CodeValidation, "invoice id is required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "invoice not found")
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func validateSaleInput(input *CreateSaleInput) error {
	if input.CustomerID == uuid.Nil {
		return apperrors.New(apperrors.CodeValidation, "customer id is required")
	}
	if len(input.Items) == 0 {
		return apperrors.New(apperrors.CodeValidation, "sale requires at least one item")
	}
	for _, item := range input.Items {
		if item.MedicineID == uuid.Nil {
			return apperrors.New(apperrors.CodeValidation, "item medicine id is required")
		}
		if item.Quantity <= 0 {
			return apperrors.New(apperrors.CodeValidation, "item quantity must be positive")
		}
		if item.UnitPrice.IsNegative() {
			return apperrors.New(apperrors.CodeValidation, "item unit price cannot be negative")
		}
	}
	if input.Discount.IsNegative() {
		return apperrors.New(apperrors.CodeValidation, "discount cannot be negative")
	}

	if input.PaymentMethod == "" {
		input.PaymentMethod = enums.PaymentMethodCash
	}
	if !input.PaymentMethod.IsValid() {
		return apperrors.New(apperrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}
	if input.Date.IsZero() {
		input.Date = time.Now().UTC()
	}
	// Calendar-day resolution keeps per-day report grouping exact.
	input.Date = input.Date.UTC().Truncate(24 * time.Hour)
	if strings.TrimSpace(input.InvoiceNo) == "" {
		input.InvoiceNo = generateInvoiceNo(input.Date)
	}
	return nil
}

func generateInvoiceNo(date time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", date.Format("20060102"), suffix)
}

func referenceError(err error, kind string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("%s not found", kind)).
			WithDetails(map[string]string{kind + "_id": id.String()})
	}
	return err
}

func classifySaleError(err error, invoiceNo string) error {
	if typed := apperrors.As(err); typed != nil {
		return typed
	}
	if db.IsUniqueViolation(err, "") {
		return apperrors.Wrap(apperrors.CodeConflict, err, "invoice number already used").
			WithDetails(map[string]string{"invoice_no": invoiceNo})
	}
	if db.IsSerializationConflict(err) {
		return apperrors.Wrap(apperrors.CodeConflict, err, "sale conflicted with a concurrent transaction")
	}
	return err
}
