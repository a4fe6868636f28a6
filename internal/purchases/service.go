package purchases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shaheen-020/pharmacy-backend/internal/stockledger"
	"github.com/shaheen-020/pharmacy-backend/pkg/db/models"
	"github.com/shaheen-020/pharmacy-backend/pkg/enums"
	apperrors "github.com/shaheen-020/pharmacy-backend/pkg/errors"
	"github.com/shaheen-020/pharmacy-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type supplierLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
}

type medicineLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error)
}

// Service records supplier deliveries and exposes purchase reads.
type Service interface {
	Create(ctx context.Context, input CreatePurchaseInput) (*PurchaseDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*PurchaseDTO, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*PurchaseListDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	tx        txRunner
	repo      Repository
	stock     stockledger.Service
	suppliers supplierLoader
	medicines medicineLoader
}

// NewService builds the purchase service.
func NewService(
	tx txRunner,
	repo Repository,
	stock stockledger.Service,
	suppliers supplierLoader,
	medicines medicineLoader,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("purchase repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock ledger service required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier loader required")
	}
	if medicines == nil {
		return nil, fmt.Errorf("medicine loader required")
	}
	return &service{tx: tx, repo: repo, stock: stock, suppliers: suppliers, medicines: medicines}, nil
}

// Create writes the purchase, its items and the stock receipts as one unit.
// Each line lands in the batch keyed by (medicine, batch number), created on
// first sight.
func (s *service) Create(ctx context.Context, input CreatePurchaseInput) (*PurchaseDTO, error) {
	if err := validatePurchaseInput(&input); err != nil {
		return nil, err
	}

	if _, err := s.suppliers.FindByID(ctx, input.SupplierID); err != nil {
		return nil, referenceError(err, "supplier", input.SupplierID)
	}

	items := make([]models.PurchaseItem, len(input.Items))
	total := decimal.Zero
	for i, line := range input.Items {
		if _, err := s.medicines.FindByID(ctx, line.MedicineID); err != nil {
			return nil, referenceError(err, "medicine", line.MedicineID)
		}
		lineTotal := line.CostPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items[i] = models.PurchaseItem{
			MedicineID: line.MedicineID,
			Quantity:   line.Quantity,
			CostPrice:  line.CostPrice,
			TotalPrice: lineTotal,
			BatchNo:    line.BatchNo,
			ExpiryDate: line.ExpiryDate,
		}
		total = total.Add(lineTotal)
	}

	purchase := &models.Purchase{
		SupplierID:    input.SupplierID,
		Date:          input.Date,
		VoucherNo:     input.VoucherNo,
		InvoiceNo:     input.InvoiceNo,
		PaymentStatus: input.PaymentStatus,
		Status:        enums.PurchaseStatusReceived,
		TotalAmount:   total,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		stock := s.stock.WithTx(tx)

		if err := repo.Create(ctx, purchase); err != nil {
			return err
		}
		for i := range items {
			items[i].PurchaseID = purchase.ID
			_, err := stock.Receive(ctx, stockledger.ReceiveInput{
				MedicineID: items[i].MedicineID,
				BatchNo:    items[i].BatchNo,
				ExpiryDate: items[i].ExpiryDate,
				Quantity:   items[i].Quantity,
			})
			if err != nil {
				return err
			}
		}
		return repo.CreateItems(ctx, items)
	})
	if err != nil {
		return nil, err
	}

	committed, err := s.repo.FindByID(ctx, purchase.ID)
	if err != nil {
		return nil, err
	}
	return toPurchaseDTO(committed), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PurchaseDTO, error) {
	if id == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "purchase id is required")
	}
	purchase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "purchase not found")
		}
		return nil, err
	}
	return toPurchaseDTO(purchase), nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*PurchaseListDTO, error) {
	rows, next, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, err
	}

	out := &PurchaseListDTO{NextCursor: next, Purchases: make([]PurchaseDTO, 0, len(rows))}
	for i := range rows {
		out.Purchases = append(out.Purchases, *toPurchaseDTO(&rows[i]))
	}
	return out, nil
}

// Delete removes the voucher and its items. The received stock stays on the
// shelves; stock corrections are a separate ledger movement.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return apperrors.New(apperrors.CodeValidation, "purchase id is required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "purchase not found")
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func validatePurchaseInput(input *CreatePurchaseInput) error {
	if input.SupplierID == uuid.Nil {
		return apperrors.New(apperrors.CodeValidation, "supplier id is required")
	}
	if len(input.Items) == 0 {
		return apperrors.New(apperrors.CodeValidation, "purchase requires at least one item")
	}
	for _, line := range input.Items {
		if line.MedicineID == uuid.Nil {
			return apperrors.New(apperrors.CodeValidation, "item medicine id is required")
		}
		if line.Quantity <= 0 {
			return apperrors.New(apperrors.CodeValidation, "item quantity must be positive")
		}
		if line.CostPrice.IsNegative() {
			return apperrors.New(apperrors.CodeValidation, "item cost price cannot be negative")
		}
	}

	if input.PaymentStatus == "" {
		input.PaymentStatus = enums.PaymentStatusPaid
	}
	if !input.PaymentStatus.IsValid() {
		return apperrors.New(apperrors.CodeValidation, fmt.Sprintf("invalid payment status %q", input.PaymentStatus))
	}
	if input.Date.IsZero() {
		input.Date = time.Now().UTC()
	}
	// Calendar-day resolution keeps per-day report grouping exact.
	input.Date = input.Date.UTC().Truncate(24 * time.Hour)
	return nil
}

func referenceError(err error, kind string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("%s not found", kind)).
			WithDetails(map[string]string{kind + "_id": id.String()})
	}
	return err
}
