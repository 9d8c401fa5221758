package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/repository"
	"github.com/davidkaruri/billify-api/pkg/apperror"
	"github.com/davidkaruri/billify-api/pkg/pagination"
)

// CatalogService handles catalog item business logic. Catalog items only
// prefill document item forms; documents snapshot their values and never
// reference catalog rows.
type CatalogService struct {
	catalogRepo repository.CatalogRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

// CreateCatalogItemInput represents the input for creating a catalog item
type CreateCatalogItemInput struct {
	UserID      uuid.UUID
	Name        string
	Description *string
	UnitPrice   decimal.Decimal
	TaxPercent  decimal.Decimal
}

func validateCatalogFields(name string, unitPrice, taxPercent decimal.Decimal) []apperror.FieldError {
	var fieldErrors []apperror.FieldError
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if unitPrice.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "unit_price", Message: "must not be negative"})
	}
	if taxPercent.IsNegative() || taxPercent.GreaterThan(oneHundred) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "tax_percent", Message: "must be between 0 and 100"})
	}
	return fieldErrors
}

// Create creates a new catalog item
func (s *CatalogService) Create(ctx context.Context, input *CreateCatalogItemInput) (*entity.CatalogItem, error) {
	if fieldErrors := validateCatalogFields(input.Name, input.UnitPrice, input.TaxPercent); len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	item := &entity.CatalogItem{
		UserID:      input.UserID,
		Name:        input.Name,
		Description: input.Description,
		UnitPrice:   input.UnitPrice,
		TaxPercent:  input.TaxPercent,
	}
	if err := s.catalogRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetByID returns a catalog item by ID
func (s *CatalogService) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.CatalogItem, error) {
	item, err := s.catalogRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Catalog item")
	}
	return item, nil
}

// List returns catalog items with pagination and optional name search
func (s *CatalogService) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.CatalogItem, int64, error) {
	return s.catalogRepo.List(ctx, userID, params, search)
}

// UpdateCatalogItemInput represents a partial catalog item update
type UpdateCatalogItemInput struct {
	UserID      uuid.UUID
	ID          uuid.UUID
	Name        *string
	Description *string
	UnitPrice   *decimal.Decimal
	TaxPercent  *decimal.Decimal
}

// Update applies the provided fields to a catalog item. Existing documents
// keep their snapshotted values.
func (s *CatalogService) Update(ctx context.Context, input *UpdateCatalogItemInput) (*entity.CatalogItem, error) {
	item, err := s.catalogRepo.GetByID(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Catalog item")
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.UnitPrice != nil {
		item.UnitPrice = *input.UnitPrice
	}
	if input.TaxPercent != nil {
		item.TaxPercent = *input.TaxPercent
	}
	if fieldErrors := validateCatalogFields(item.Name, item.UnitPrice, item.TaxPercent); len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if err := s.catalogRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes a catalog item. Documents that used it are unaffected.
func (s *CatalogService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	item, err := s.catalogRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if item == nil {
		return apperror.NewNotFoundError("Catalog item")
	}
	return s.catalogRepo.Delete(ctx, item.ID)
}
