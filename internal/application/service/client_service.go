package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/repository"
	"github.com/davidkaruri/billify-api/pkg/apperror"
	"github.com/davidkaruri/billify-api/pkg/pagination"
)

// ClientService handles client-related business logic
type ClientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// CreateClientInput represents the input for creating a client
type CreateClientInput struct {
	UserID    uuid.UUID
	Name      string
	Email     *string
	Phone     *string
	Company   *string
	VATNumber *string
	Address   *string
	Notes     *string
}

// Create creates a new client. The email, when given, must be unique within
// the user's own clients.
func (s *ClientService) Create(ctx context.Context, input *CreateClientInput) (*entity.Client, error) {
	if input.Name == "" {
		return nil, apperror.NewFieldValidationError("name", "is required")
	}

	if input.Email != nil && *input.Email != "" {
		existing, err := s.clientRepo.GetByEmail(ctx, input.UserID, *input.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("A client with this email already exists")
		}
	}

	client := &entity.Client{
		UserID:    input.UserID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Company:   input.Company,
		VATNumber: input.VATNumber,
		Address:   input.Address,
		Notes:     input.Notes,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetByID returns a client by ID
func (s *ClientService) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	return client, nil
}

// List returns clients with pagination and optional name/email search
func (s *ClientService) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Client, int64, error) {
	return s.clientRepo.List(ctx, userID, params, search)
}

// UpdateClientInput represents a partial client update
type UpdateClientInput struct {
	UserID    uuid.UUID
	ID        uuid.UUID
	Name      *string
	Email     *string
	Phone     *string
	Company   *string
	VATNumber *string
	Address   *string
	Notes     *string
}

// Update applies the provided fields to a client
func (s *ClientService) Update(ctx context.Context, input *UpdateClientInput) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewFieldValidationError("name", "is required")
		}
		client.Name = *input.Name
	}

	if input.Email != nil {
		if *input.Email != "" && (client.Email == nil || *client.Email != *input.Email) {
			existing, err := s.clientRepo.GetByEmail(ctx, input.UserID, *input.Email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != client.ID {
				return nil, apperror.NewConflictError("A client with this email already exists")
			}
		}
		client.Email = input.Email
	}

	if input.Phone != nil {
		client.Phone = input.Phone
	}
	if input.Company != nil {
		client.Company = input.Company
	}
	if input.VATNumber != nil {
		client.VATNumber = input.VATNumber
	}
	if input.Address != nil {
		client.Address = input.Address
	}
	if input.Notes != nil {
		client.Notes = input.Notes
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete removes a client. Deletion is blocked while any invoice or
// quotation still references it.
func (s *ClientService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	client, err := s.clientRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if client == nil {
		return apperror.NewNotFoundError("Client")
	}

	hasDocs, err := s.clientRepo.HasDocuments(ctx, client.ID)
	if err != nil {
		return err
	}
	if hasDocs {
		return apperror.NewConflictError("Cannot delete a client with existing invoices or quotations")
	}

	return s.clientRepo.Delete(ctx, client.ID)
}
