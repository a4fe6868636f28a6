package customers

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

// CustomerInput carries the writable customer fields.
type CustomerInput struct {
	Name       string  `json:"name" validate:"required"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	DoctorName *string `json:"doctor_name,omitempty"`
}

// CustomerDTO is the API shape of a customer.
type CustomerDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Address    *string   `json:"address,omitempty"`
	DoctorName *string   `json:"doctor_name,omitempty"`
}

// CustomerListDTO is a cursor page of customers.
type CustomerListDTO struct {
	Customers  []CustomerDTO `json:"customers"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// Service exposes customer management.
type Service interface {
	Create(ctx context.Context, input CustomerInput) (*CustomerDTO, error)
	Update(ctx context.Context, id uuid.UUID, input CustomerInput) (*CustomerDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	List(ctx context.Context, search string, params pagination.Params) (*CustomerListDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires a customer service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CustomerInput) (*CustomerDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "customer name is required")
	}

	customer := &models.Customer{
		Name:       strings.TrimSpace(input.Name),
		Email:      input.Email,
		Phone:      input.Phone,
		Address:    input.Address,
		DoctorName: input.DoctorName,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerDTO(customer), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input CustomerInput) (*CustomerDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "customer name is required")
	}

	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	customer.Name = strings.TrimSpace(input.Name)
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Address = input.Address
	customer.DoctorName = input.DoctorName

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerDTO(customer), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return toCustomerDTO(customer), nil
}

func (s *service) List(ctx context.Context, search string, params pagination.Params) (*CustomerListDTO, error) {
	rows, next, err := s.repo.List(ctx, search, params)
	if err != nil {
		return nil, err
	}

	out := &CustomerListDTO{NextCursor: next, Customers: make([]CustomerDTO, 0, len(rows))}
	for i := range rows {
		out.Customers = append(out.Customers, *toCustomerDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err)
	}
	return s.repo.Delete(ctx, id)
}

func toCustomerDTO(customer *models.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:         customer.ID,
		Name:       customer.Name,
		Email:      customer.Email,
		Phone:      customer.Phone,
		Address:    customer.Address,
		DoctorName: customer.DoctorName,
	}
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.New(apperrors.CodeNotFound, "customer not found")
	}
	return err
}
