package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/davidkaruri/billify-api/internal/domain/repository"
	"github.com/davidkaruri/billify-api/pkg/apperror"
)

// PaymentService maintains the payment ledger. Every mutation locks the
// parent invoice, re-reads the payment sum and rewrites the invoice's
// derived fields in the same transaction, so AmountPaid, BalanceDue,
// Status and PaidAt can never disagree with the payment rows.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	transactor  repository.Transactor
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	transactor repository.Transactor,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		transactor:  transactor,
	}
}

// RecordPaymentInput represents the input for recording a payment
type RecordPaymentInput struct {
	UserID          uuid.UUID
	InvoiceID       uuid.UUID
	Amount          decimal.Decimal
	PaymentDate     time.Time
	Method          *enum.PaymentMethod
	ReferenceNumber *string
	Notes           *string
}

func validatePaymentFields(amount decimal.Decimal, method *enum.PaymentMethod) []apperror.FieldError {
	var fieldErrors []apperror.FieldError
	if !amount.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount", Message: "must be greater than zero"})
	}
	if method != nil && !method.Valid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "method", Message: "is not a recognized payment method"})
	}
	return fieldErrors
}

// Record adds a payment to an invoice. Overshooting the remaining balance
// is rejected with the remaining amount so the caller can correct the form.
func (s *PaymentService) Record(ctx context.Context, input *RecordPaymentInput) (*entity.Payment, error) {
	if fieldErrors := validatePaymentFields(input.Amount, input.Method); len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	var payment *entity.Payment
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.GetByIDForUpdate(txCtx, input.UserID, input.InvoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}

		paid, err := s.paymentRepo.SumByInvoice(txCtx, invoice.ID, nil)
		if err != nil {
			return err
		}
		remaining := invoice.TotalAmount.Sub(paid)
		if input.Amount.GreaterThan(remaining) {
			return apperror.NewExceedsBalanceError(remaining.StringFixed(2))
		}

		payment = &entity.Payment{
			UserID:          input.UserID,
			InvoiceID:       invoice.ID,
			Amount:          input.Amount,
			PaymentDate:     input.PaymentDate,
			Method:          input.Method,
			Currency:        invoice.Currency,
			ReferenceNumber: input.ReferenceNumber,
			Notes:           input.Notes,
		}
		if err := s.paymentRepo.Create(txCtx, payment); err != nil {
			return err
		}

		s.applyLedger(invoice, paid.Add(input.Amount), true)
		return s.invoiceRepo.Update(txCtx, invoice)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdatePaymentInput represents the input for editing a recorded payment
type UpdatePaymentInput struct {
	UserID          uuid.UUID
	PaymentID       uuid.UUID
	Amount          *decimal.Decimal
	PaymentDate     *time.Time
	Method          *enum.PaymentMethod
	ReferenceNumber *string
	Notes           *string
}

// Update edits a payment and re-derives the invoice from the new sum
func (s *PaymentService) Update(ctx context.Context, input *UpdatePaymentInput) (*entity.Payment, error) {
	var payment *entity.Payment
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		payment, err = s.paymentRepo.GetByID(txCtx, input.UserID, input.PaymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return apperror.NewNotFoundError("Payment")
		}

		invoice, err := s.invoiceRepo.GetByIDForUpdate(txCtx, input.UserID, payment.InvoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}

		if input.Amount != nil {
			payment.Amount = *input.Amount
		}
		if input.PaymentDate != nil {
			payment.PaymentDate = *input.PaymentDate
		}
		if input.Method != nil {
			payment.Method = input.Method
		}
		if input.ReferenceNumber != nil {
			payment.ReferenceNumber = input.ReferenceNumber
		}
		if input.Notes != nil {
			payment.Notes = input.Notes
		}
		if fieldErrors := validatePaymentFields(payment.Amount, payment.Method); len(fieldErrors) > 0 {
			return apperror.NewValidationError(fieldErrors)
		}

		others, err := s.paymentRepo.SumByInvoice(txCtx, invoice.ID, &payment.ID)
		if err != nil {
			return err
		}
		remaining := invoice.TotalAmount.Sub(others)
		if payment.Amount.GreaterThan(remaining) {
			return apperror.NewExceedsBalanceError(remaining.StringFixed(2))
		}

		if err := s.paymentRepo.Update(txCtx, payment); err != nil {
			return err
		}

		s.applyLedger(invoice, others.Add(payment.Amount), true)
		return s.invoiceRepo.Update(txCtx, invoice)
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// Delete removes a payment and re-derives the invoice. PaidAt is cleared
// even when the remaining payments still cover the total; the recorded
// settlement moment belonged to the deleted payment.
func (s *PaymentService) Delete(ctx context.Context, userID, paymentID uuid.UUID) error {
	return s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		payment, err := s.paymentRepo.GetByID(txCtx, userID, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return apperror.NewNotFoundError("Payment")
		}

		invoice, err := s.invoiceRepo.GetByIDForUpdate(txCtx, userID, payment.InvoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}

		if err := s.paymentRepo.Delete(txCtx, payment.ID); err != nil {
			return err
		}

		paid, err := s.paymentRepo.SumByInvoice(txCtx, invoice.ID, &payment.ID)
		if err != nil {
			return err
		}

		invoice.PaidAt = nil
		s.applyLedger(invoice, paid, false)
		return s.invoiceRepo.Update(txCtx, invoice)
	})
}

// ListByInvoice returns the payments recorded against an invoice
func (s *PaymentService) ListByInvoice(ctx context.Context, userID, invoiceID uuid.UUID) ([]entity.Payment, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return s.paymentRepo.ListByInvoice(ctx, invoiceID)
}

// applyLedger rewrites the invoice's derived fields from the new payment
// sum. stampPaidAt controls whether reaching full payment records the
// settlement time; the delete path passes false and clears PaidAt itself.
// An already-stamped PaidAt is never touched here, so editing a payment
// below full keeps the original settlement moment on record.
func (s *PaymentService) applyLedger(invoice *entity.Invoice, paid decimal.Decimal, stampPaidAt bool) {
	invoice.AmountPaid = paid
	invoice.BalanceDue = invoice.TotalAmount.Sub(paid)
	invoice.Status = DeriveInvoiceStatus(invoice.TotalAmount, paid, invoice.DueDate, time.Now(), invoice.Status)
	if stampPaidAt && invoice.Status == enum.InvoiceStatusPaid && invoice.PaidAt == nil {
		now := time.Now()
		invoice.PaidAt = &now
	}
}
