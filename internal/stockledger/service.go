package stockledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shaheen-020/pharmacy-backend/pkg/db/models"
	apperrors "github.com/shaheen-020/pharmacy-backend/pkg/errors"
)

// Service is the single authority over batch quantities. All stock movements,
// sales deductions and purchase receipts, go through it.
type Service interface {
	WithTx(tx *gorm.DB) Service
	AvailableQuantity(ctx context.Context, medicineID uuid.UUID) (int, error)
	Deduct(ctx context.Context, medicineID uuid.UUID, quantity int) ([]BatchDeduction, error)
	Receive(ctx context.Context, input ReceiveInput) (uuid.UUID, error)
}

// BatchDeduction describes how much a single batch contributed to a deduction.
type BatchDeduction struct {
	StockID   uuid.UUID
	BatchNo   *string
	Quantity  int
	Remaining int
}

// ReceiveInput books units into a batch, creating the batch row on first sight
// of its (medicine, batch number) key.
type ReceiveInput struct {
	MedicineID uuid.UUID
	BatchNo    *string
	ExpiryDate *time.Time
	Quantity   int
}

type service struct {
	repo Repository
}

// NewService wires a stock ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	if tx == nil {
		return s
	}
	return &service{repo: s.repo.WithTx(tx)}
}

// AvailableQuantity sums every batch of the medicine, expired ones included.
// Reads never mutate rows.
func (s *service) AvailableQuantity(ctx context.Context, medicineID uuid.UUID) (int, error) {
	if medicineID == uuid.Nil {
		return 0, apperrors.New(apperrors.CodeValidation, "medicine id is required")
	}
	return s.repo.TotalQuantity(ctx, medicineID)
}

// Deduct removes quantity units from the medicine's batches in
// first-expire-first-out order. The caller is expected to run it inside a
// transaction; nothing is written when the total on hand falls short.
func (s *service) Deduct(ctx context.Context, medicineID uuid.UUID, quantity int) ([]BatchDeduction, error) {
	if medicineID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "medicine id is required")
	}
	if quantity <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "deduction quantity must be positive")
	}

	batches, err := s.repo.BatchesForDeduction(ctx, medicineID)
	if err != nil {
		return nil, err
	}

	available := 0
	for _, batch := range batches {
		available += batch.Quantity
	}
	if available < quantity {
		cause := &InsufficientStockError{MedicineID: medicineID, Requested: quantity, Available: available}
		return nil, apperrors.Wrap(apperrors.CodeInsufficientStock, cause, "not enough stock on hand").
			WithDetails(ShortfallDetail{
				MedicineID: medicineID.String(),
				Requested:  quantity,
				Available:  available,
			})
	}

	remaining := quantity
	deductions := make([]BatchDeduction, 0, len(batches))
	for _, batch := range batches {
		if remaining == 0 {
			break
		}

		take := batch.Quantity
		if take > remaining {
			take = remaining
		}
		left := batch.Quantity - take

		if err := s.repo.SetQuantity(ctx, batch.ID, left); err != nil {
			return nil, err
		}
		remaining -= take
		deductions = append(deductions, BatchDeduction{
			StockID:   batch.ID,
			BatchNo:   batch.BatchNo,
			Quantity:  take,
			Remaining: left,
		})
	}

	return deductions, nil
}

// Receive adds units to the batch keyed by (medicine, batch number), creating
// the row when the key has not been seen before. A nil batch number is its own
// key, it never matches a named batch.
func (s *service) Receive(ctx context.Context, input ReceiveInput) (uuid.UUID, error) {
	if input.MedicineID == uuid.Nil {
		return uuid.Nil, apperrors.New(apperrors.CodeValidation, "medicine id is required")
	}
	if input.Quantity <= 0 {
		return uuid.Nil, apperrors.New(apperrors.CodeValidation, "receipt quantity must be positive")
	}

	stock, err := s.repo.FindBatch(ctx, input.MedicineID, input.BatchNo)
	switch {
	case err == nil:
		if err := s.repo.AddQuantity(ctx, stock.ID, input.Quantity); err != nil {
			return uuid.Nil, err
		}
		return stock.ID, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		created := &models.MedicineStock{
			MedicineID: input.MedicineID,
			BatchNo:    input.BatchNo,
			ExpiryDate: input.ExpiryDate,
			Quantity:   input.Quantity,
		}
		if err := s.repo.CreateBatch(ctx, created); err != nil {
			return uuid.Nil, err
		}
		return created.ID, nil

	default:
		return uuid.Nil, err
	}
}
