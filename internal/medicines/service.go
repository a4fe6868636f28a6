package medicines

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shaheen-020/pharmacy-backend/pkg/db"
	"github.com/shaheen-020/pharmacy-backend/pkg/db/models"
	apperrors "github.com/shaheen-020/pharmacy-backend/pkg/errors"
	"github.com/shaheen-020/pharmacy-backend/pkg/pagination"
)

// Service exposes the medicine catalog.
type Service interface {
	Create(ctx context.Context, input MedicineInput) (*MedicineDTO, error)
	Update(ctx context.Context, id uuid.UUID, input MedicineInput) (*MedicineDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*MedicineDTO, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*MedicineListDTO, error)
	LowStock(ctx context.Context, threshold int) ([]MedicineDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires a medicine service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("medicine repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input MedicineInput) (*MedicineDTO, error) {
	if err := validateMedicineInput(&input); err != nil {
		return nil, err
	}

	medicine := &models.Medicine{}
	applyMedicineInput(medicine, input)

	if err := s.repo.Create(ctx, medicine); err != nil {
		return nil, classifyWriteError(err)
	}
	return s.Get(ctx, medicine.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input MedicineInput) (*MedicineDTO, error) {
	if err := validateMedicineInput(&input); err != nil {
		return nil, err
	}

	medicine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	applyMedicineInput(medicine, input)
	if err := s.repo.Update(ctx, medicine); err != nil {
		return nil, classifyWriteError(err)
	}
	return s.Get(ctx, medicine.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*MedicineDTO, error) {
	row, err := s.repo.FindDetail(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return toMedicineDTO(row, true), nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*MedicineListDTO, error) {
	rows, next, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, err
	}

	out := &MedicineListDTO{NextCursor: next, Medicines: make([]MedicineDTO, 0, len(rows))}
	for i := range rows {
		out.Medicines = append(out.Medicines, *toMedicineDTO(&rows[i], false))
	}
	return out, nil
}

func (s *service) LowStock(ctx context.Context, threshold int) ([]MedicineDTO, error) {
	if threshold < 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "threshold cannot be negative")
	}
	rows, err := s.repo.LowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}

	out := make([]MedicineDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toMedicineDTO(&rows[i], false))
	}
	return out, nil
}

// Delete removes the medicine and all of its batches.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err)
	}
	return s.repo.Delete(ctx, id)
}

func validateMedicineInput(input *MedicineInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.New(apperrors.CodeValidation, "medicine name is required")
	}
	if input.Price.IsNegative() {
		return apperrors.New(apperrors.CodeValidation, "price cannot be negative")
	}
	if input.ReorderLevel < 0 {
		return apperrors.New(apperrors.CodeValidation, "reorder level cannot be negative")
	}
	if strings.TrimSpace(input.Unit) == "" {
		input.Unit = "pcs"
	}
	return nil
}

func applyMedicineInput(medicine *models.Medicine, input MedicineInput) {
	medicine.Name = strings.TrimSpace(input.Name)
	medicine.GenericName = input.GenericName
	medicine.BrandName = input.BrandName
	medicine.SKU = input.SKU
	medicine.Barcode = input.Barcode
	medicine.Manufacturer = input.Manufacturer
	medicine.Strength = input.Strength
	medicine.Form = input.Form
	medicine.Packing = input.Packing
	medicine.Description = input.Description
	medicine.CategoryID = input.CategoryID
	medicine.SupplierID = input.SupplierID
	medicine.Price = input.Price
	medicine.Unit = input.Unit
	medicine.ReorderLevel = input.ReorderLevel
}

func classifyWriteError(err error) error {
	if db.IsUniqueViolation(err, "") {
		return apperrors.Wrap(apperrors.CodeConflict, err, "sku or barcode already in use")
	}
	return err
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.New(apperrors.CodeNotFound, "medicine not found")
	}
	return err
}
