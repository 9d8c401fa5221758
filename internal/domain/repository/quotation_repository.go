package repository

import (
	"context"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/davidkaruri/billify-api/pkg/pagination"
	"github.com/google/uuid"
)

// QuotationRepository defines the interface for quotation data operations
type QuotationRepository interface {
	Create(ctx context.Context, quotation *entity.Quotation) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Quotation, error)
	GetWithItems(ctx context.Context, userID, id uuid.UUID) (*entity.Quotation, error)
	Update(ctx context.Context, quotation *entity.Quotation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.QuotationStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *QuotationFilterParams) ([]entity.Quotation, int64, error)
	// LastNumber returns the lexicographically greatest assigned number
	// starting with prefix for this user, or "" when none exists. Inside a
	// transaction the scan takes a row lock so concurrent creations
	// serialize on number assignment.
	LastNumber(ctx context.Context, userID uuid.UUID, prefix string) (string, error)
	// CountForeignCurrency counts documents whose currency differs from
	// the given base; used to guard base-currency changes.
	CountForeignCurrency(ctx context.Context, userID uuid.UUID, baseCurrency string) (int64, error)
}

// QuotationFilterParams contains filtering parameters for quotation queries
type QuotationFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.QuotationStatus
	ClientID   *uuid.UUID
	SortBy     string
	SortOrder  string
}

// QuotationItemRepository defines the interface for quotation line items.
// Items are replaced wholesale whenever a quotation's item set changes.
type QuotationItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.QuotationItem) error
	GetByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]entity.QuotationItem, error)
	DeleteByQuotationID(ctx context.Context, quotationID uuid.UUID) error
}
