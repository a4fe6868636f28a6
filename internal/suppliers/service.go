package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shaheen-020/pharmacy-backend/pkg/db/models"
	apperrors "github.com/shaheen-020/pharmacy-backend/pkg/errors"
	"github.com/shaheen-020/pharmacy-backend/pkg/pagination"
)

// SupplierInput carries the writable supplier fields.
type SupplierInput struct {
	Name          string  `json:"name" validate:"required"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `json:"phone,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	Address       *string `json:"address,omitempty"`
}

// SupplierDTO is the API shape of a supplier.
type SupplierDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	Address       *string   `json:"address,omitempty"`
}

// SupplierListDTO is a cursor page of suppliers.
type SupplierListDTO struct {
	Suppliers  []SupplierDTO `json:"suppliers"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// Service exposes supplier management.
type Service interface {
	Create(ctx context.Context, input SupplierInput) (*SupplierDTO, error)
	Update(ctx context.Context, id uuid.UUID, input SupplierInput) (*SupplierDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*SupplierDTO, error)
	List(ctx context.Context, search string, params pagination.Params) (*SupplierListDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires a supplier service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input SupplierInput) (*SupplierDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "supplier name is required")
	}

	supplier := &models.Supplier{
		Name:          strings.TrimSpace(input.Name),
		Email:         input.Email,
		Phone:         input.Phone,
		ContactPerson: input.ContactPerson,
		Address:       input.Address,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return toSupplierDTO(supplier), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input SupplierInput) (*SupplierDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "supplier name is required")
	}

	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	supplier.Name = strings.TrimSpace(input.Name)
	supplier.Email = input.Email
	supplier.Phone = input.Phone
	supplier.ContactPerson = input.ContactPerson
	supplier.Address = input.Address

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return toSupplierDTO(supplier), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SupplierDTO, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return toSupplierDTO(supplier), nil
}

func (s *service) List(ctx context.Context, search string, params pagination.Params) (*SupplierListDTO, error) {
	rows, next, err := s.repo.List(ctx, search, params)
	if err != nil {
		return nil, err
	}

	out := &SupplierListDTO{NextCursor: next, Suppliers: make([]SupplierDTO, 0, len(rows))}
	for i := range rows {
		out.Suppliers = append(out.Suppliers, *toSupplierDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err)
	}
	return s.repo.Delete(ctx, id)
}

func toSupplierDTO(supplier *models.Supplier) *SupplierDTO {
	return &SupplierDTO{
		ID:            supplier.ID,
		Name:          supplier.Name,
		Email:         supplier.Email,
		Phone:         supplier.Phone,
		ContactPerson: supplier.ContactPerson,
		Address:       supplier.Address,
	}
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.New(apperrors.CodeNotFound, "supplier not found")
	}
	return err
}
