package repository

import (
	"context"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]entity.Payment, error)
	// SumByInvoice returns the total of all payments on the invoice,
	// excluding the payment identified by exclude when non-nil (used when
	// re-checking an edited payment against the remaining balance).
	SumByInvoice(ctx context.Context, invoiceID uuid.UUID, exclude *uuid.UUID) (decimal.Decimal, error)
	DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error
}
