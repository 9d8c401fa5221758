package repository

import (
	"context"
	"time"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/davidkaruri/billify-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error)
	// GetByIDForUpdate loads the invoice under a row lock. Only meaningful
	// inside a transaction; the payment ledger uses it for its
	// check-then-write sequence.
	GetByIDForUpdate(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error)
	GetWithDetails(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
	// LastNumber mirrors QuotationRepository.LastNumber for invoice numbers.
	LastNumber(ctx context.Context, userID uuid.UUID, prefix string) (string, error)
	// CountByCurrencyMismatch counts documents whose currency differs from
	// the given base; used to guard base-currency changes.
	CountForeignCurrency(ctx context.Context, userID uuid.UUID, baseCurrency string) (int64, error)
	// Summary aggregates receivables for the dashboard.
	Summary(ctx context.Context, userID uuid.UUID, monthStart time.Time) (*InvoiceSummary, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.InvoiceStatus
	ClientID   *uuid.UUID
	SortBy     string
	SortOrder  string
}

// InvoiceSummary holds aggregate receivable figures for one tenant
type InvoiceSummary struct {
	OutstandingTotal decimal.Decimal
	OverdueTotal     decimal.Decimal
	OverdueCount     int64
	PaidThisMonth    decimal.Decimal
	CountByStatus    map[enum.InvoiceStatus]int64
}

// InvoiceItemRepository defines the interface for invoice line items.
// Items are replaced wholesale whenever an invoice's item set changes.
type InvoiceItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.InvoiceItem) error
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceItem, error)
	DeleteByInvoiceID(ctx context.Context, invoiceID uuid.UUID) error
}
