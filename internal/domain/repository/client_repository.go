package repository

import (
	"context"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/pkg/pagination"
	"github.com/google/uuid"
)

// ClientRepository defines the interface for client data operations.
// Lookups are scoped by the owning user; a client belonging to another
// tenant behaves as if it does not exist.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error)
	GetByEmail(ctx context.Context, userID uuid.UUID, email string) (*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns clients with pagination. A Nil userID returns all clients
	// (super-admin scoping, as elsewhere).
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Client, int64, error)
	// Exists reports whether the client exists and is owned by userID.
	Exists(ctx context.Context, userID, id uuid.UUID) (bool, error)
	// HasDocuments reports whether any invoice or quotation references the
	// client; deletion is blocked while it does.
	HasDocuments(ctx context.Context, id uuid.UUID) (bool, error)
}
