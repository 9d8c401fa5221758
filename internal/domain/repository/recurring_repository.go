package repository

import (
	"context"
	"time"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/davidkaruri/billify-api/pkg/pagination"
	"github.com/google/uuid"
)

// RecurringInvoiceRepository defines the interface for recurring-invoice
// template data operations
type RecurringInvoiceRepository interface {
	Create(ctx context.Context, rec *entity.RecurringInvoice) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.RecurringInvoice, error)
	GetWithItems(ctx context.Context, userID, id uuid.UUID) (*entity.RecurringInvoice, error)
	Update(ctx context.Context, rec *entity.RecurringInvoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *RecurringFilterParams) ([]entity.RecurringInvoice, int64, error)
	// ListDue returns every active template, across all tenants, whose
	// next generation date is on or before date, with items preloaded.
	ListDue(ctx context.Context, date time.Time) ([]entity.RecurringInvoice, error)
}

// RecurringFilterParams contains filtering parameters for template queries
type RecurringFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.RecurringStatus
	ClientID   *uuid.UUID
}

// RecurringInvoiceItemRepository defines the interface for template line
// items, replaced wholesale on every template item update
type RecurringInvoiceItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.RecurringInvoiceItem) error
	GetByRecurringInvoiceID(ctx context.Context, recurringInvoiceID uuid.UUID) ([]entity.RecurringInvoiceItem, error)
	DeleteByRecurringInvoiceID(ctx context.Context, recurringInvoiceID uuid.UUID) error
}
