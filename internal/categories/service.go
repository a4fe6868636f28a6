package categories

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
)

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
}

// CategoryDTO is the API shape of a category.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
}

// Service exposes category management.
type Service interface {
	Create(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	ListAll(ctx context.Context) ([]CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires a category service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "category name is required")
	}

	category := &models.Category{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, apperrors.Wrap(apperrors.CodeConflict, err, "category name already exists")
		}
		return nil, err
	}
	return toCategoryDTO(category), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "category name is required")
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	category.Name = strings.TrimSpace(input.Name)
	category.Description = input.Description

	if err := s.repo.Update(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, apperrors.Wrap(apperrors.CodeConflict, err, "category name already exists")
		}
		return nil, err
	}
	return toCategoryDTO(category), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return toCategoryDTO(category), nil
}

func (s *service) ListAll(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toCategoryDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err)
	}
	return s.repo.Delete(ctx, id)
}

func toCategoryDTO(category *models.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	}
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.New(apperrors.CodeNotFound, "category not found")
	}
	return err
}
