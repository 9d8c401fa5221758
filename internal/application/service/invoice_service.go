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
	"github.com/davidkaruri/billify-api/pkg/currency"
	"github.com/davidkaruri/billify-api/pkg/money"
	"github.com/davidkaruri/billify-api/pkg/optional"
)

// InvoiceService handles invoice-related business logic
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	itemRepo     repository.InvoiceItemRepository
	paymentRepo  repository.PaymentRepository
	clientRepo   repository.ClientRepository
	settingsRepo repository.SettingsRepository
	transactor   repository.Transactor
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	itemRepo repository.InvoiceItemRepository,
	paymentRepo repository.PaymentRepository,
	clientRepo repository.ClientRepository,
	settingsRepo repository.SettingsRepository,
	transactor repository.Transactor,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		itemRepo:     itemRepo,
		paymentRepo:  paymentRepo,
		clientRepo:   clientRepo,
		settingsRepo: settingsRepo,
		transactor:   transactor,
	}
}

// CreateInvoiceInput represents the input for creating an invoice.
// Status and RecurringInvoiceID are set by the recurring generator;
// handler-driven creation leaves them zero and the invoice starts as draft.
type CreateInvoiceInput struct {
	UserID             uuid.UUID
	ClientID           uuid.UUID
	IssueDate          time.Time
	DueDate            *time.Time
	Currency           string
	ExchangeRate       *decimal.Decimal
	Notes              *string
	Terms              *string
	Items              []DocumentItemInput
	Status             enum.InvoiceStatus
	RecurringInvoiceID *uuid.UUID
}

// Create validates the input, assigns the next invoice number and writes
// the invoice with its items in one transaction. The due date defaults to
// the issue date plus the user's default due days.
func (s *InvoiceService) Create(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	settings, err := getOrCreateSettings(ctx, s.settingsRepo, input.UserID)
	if err != nil {
		return nil, err
	}

	dueDate := input.IssueDate.AddDate(0, 0, settings.DefaultDueDays)
	if input.DueDate != nil {
		dueDate = *input.DueDate
	}

	var fieldErrors []apperror.FieldError
	if input.ClientID == uuid.Nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "client_id", Message: "is required"})
	}
	if dueDate.Before(input.IssueDate) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "due_date", Message: "must not be before the issue date"})
	}
	fieldErrors = append(fieldErrors, validateDocumentItems(input.Items)...)
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	docCurrency := input.Currency
	if docCurrency == "" {
		docCurrency = settings.DefaultCurrency
	}
	if !currency.ValidCode(docCurrency) {
		return nil, apperror.NewFieldValidationError("currency", "Must be a 3-letter uppercase currency code")
	}
	if err := currency.CheckExchangeRate(docCurrency, settings.BaseCurrency, input.ExchangeRate); err != nil {
		return nil, err
	}

	exists, err := s.clientRepo.Exists(ctx, input.UserID, input.ClientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NewNotFoundError("Client")
	}

	status := input.Status
	if status != enum.InvoiceStatusDraft && status != enum.InvoiceStatusSent {
		status = enum.InvoiceStatusDraft
	}

	amounts := computeItemAmounts(input.Items)
	totals := money.ComputeDocumentTotals(amounts)

	invoice := &entity.Invoice{
		UserID:             input.UserID,
		ClientID:           input.ClientID,
		RecurringInvoiceID: input.RecurringInvoiceID,
		IssueDate:          input.IssueDate,
		DueDate:            dueDate,
		Status:             status,
		Currency:           docCurrency,
		ExchangeRate:       input.ExchangeRate,
		Subtotal:           totals.Subtotal,
		DiscountTotal:      totals.DiscountTotal,
		TaxTotal:           totals.TaxTotal,
		TotalAmount:        totals.TotalAmount,
		AmountPaid:         decimal.Zero,
		BalanceDue:         totals.TotalAmount,
		Notes:              input.Notes,
		Terms:              input.Terms,
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		last, err := s.invoiceRepo.LastNumber(txCtx, input.UserID, settings.InvoicePrefix)
		if err != nil {
			return err
		}
		invoice.Number = nextDocumentNumber(last, settings.InvoicePrefix, invoiceSequenceWidth)

		if err := s.invoiceRepo.Create(txCtx, invoice); err != nil {
			return err
		}
		return s.itemRepo.CreateBatch(txCtx, buildInvoiceItems(invoice.ID, input.Items, amounts))
	})
	if err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetWithDetails(ctx, input.UserID, invoice.ID)
}

func buildInvoiceItems(invoiceID uuid.UUID, inputs []DocumentItemInput, amounts []money.LineAmounts) []entity.InvoiceItem {
	items := make([]entity.InvoiceItem, len(inputs))
	for i, in := range inputs {
		items[i] = entity.InvoiceItem{
			InvoiceID:       invoiceID,
			Name:            in.Name,
			Description:     in.Description,
			Quantity:        in.Quantity,
			UnitPrice:       in.UnitPrice,
			DiscountPercent: in.DiscountPercent,
			TaxPercent:      in.TaxPercent,
			LineTotal:       amounts[i].LineTotal,
			SortOrder:       i,
		}
	}
	return items
}

// GetByID returns an invoice with items, payments and client preloaded
func (s *InvoiceService) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithDetails(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// List returns invoices with pagination and filters
func (s *InvoiceService) List(ctx context.Context, userID uuid.UUID, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, userID, params)
}

// UpdateInvoiceInput represents a partial invoice update
type UpdateInvoiceInput struct {
	UserID       uuid.UUID
	ID           uuid.UUID
	ClientID     *uuid.UUID
	IssueDate    *time.Time
	DueDate      *time.Time
	Currency     *string
	ExchangeRate optional.Value[decimal.Decimal]
	Notes        *string
	Terms        *string
	Items        []DocumentItemInput
	HasItems     bool
}

// Update applies the provided fields. Paid invoices are immutable. Item or
// date changes re-derive the status so the stored one never goes stale.
func (s *InvoiceService) Update(ctx context.Context, input *UpdateInvoiceInput) (*entity.Invoice, error) {
	settings, err := getOrCreateSettings(ctx, s.settingsRepo, input.UserID)
	if err != nil {
		return nil, err
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.GetByIDForUpdate(txCtx, input.UserID, input.ID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if invoice.Status == enum.InvoiceStatusPaid {
			return apperror.NewStateError("Paid invoices cannot be modified")
		}

		if input.ClientID != nil {
			exists, err := s.clientRepo.Exists(txCtx, input.UserID, *input.ClientID)
			if err != nil {
				return err
			}
			if !exists {
				return apperror.NewNotFoundError("Client")
			}
			invoice.ClientID = *input.ClientID
		}

		if input.IssueDate != nil {
			invoice.IssueDate = *input.IssueDate
		}
		if input.DueDate != nil {
			invoice.DueDate = *input.DueDate
		}
		if invoice.DueDate.Before(invoice.IssueDate) {
			return apperror.NewFieldValidationError("due_date", "must not be before the issue date")
		}

		if input.Currency != nil {
			if !currency.ValidCode(*input.Currency) {
				return apperror.NewFieldValidationError("currency", "Must be a 3-letter uppercase currency code")
			}
			invoice.Currency = *input.Currency
		}
		if input.ExchangeRate.Present() {
			if rate, ok := input.ExchangeRate.Get(); ok {
				invoice.ExchangeRate = &rate
			} else {
				invoice.ExchangeRate = nil
			}
		}
		if input.Currency != nil || input.ExchangeRate.Present() {
			if err := currency.CheckExchangeRate(invoice.Currency, settings.BaseCurrency, invoice.ExchangeRate); err != nil {
				return err
			}
		}

		if input.Notes != nil {
			invoice.Notes = input.Notes
		}
		if input.Terms != nil {
			invoice.Terms = input.Terms
		}

		if input.HasItems {
			if fieldErrors := validateDocumentItems(input.Items); len(fieldErrors) > 0 {
				return apperror.NewValidationError(fieldErrors)
			}
			amounts := computeItemAmounts(input.Items)
			totals := money.ComputeDocumentTotals(amounts)

			// Shrinking the total below what is already paid would leave
			// the ledger overdrawn.
			paid, err := s.paymentRepo.SumByInvoice(txCtx, invoice.ID, nil)
			if err != nil {
				return err
			}
			if paid.GreaterThan(totals.TotalAmount) {
				return apperror.NewConflictError("Invoice total cannot drop below the amount already paid")
			}

			invoice.Subtotal = totals.Subtotal
			invoice.DiscountTotal = totals.DiscountTotal
			invoice.TaxTotal = totals.TaxTotal
			invoice.TotalAmount = totals.TotalAmount
			invoice.BalanceDue = totals.TotalAmount.Sub(paid)

			if err := s.itemRepo.DeleteByInvoiceID(txCtx, invoice.ID); err != nil {
				return err
			}
			if err := s.itemRepo.CreateBatch(txCtx, buildInvoiceItems(invoice.ID, input.Items, amounts)); err != nil {
				return err
			}
		}

		invoice.Status = DeriveInvoiceStatus(invoice.TotalAmount, invoice.AmountPaid, invoice.DueDate, time.Now(), invoice.Status)
		if invoice.Status == enum.InvoiceStatusPaid && invoice.PaidAt == nil {
			now := time.Now()
			invoice.PaidAt = &now
		}
		return s.invoiceRepo.Update(txCtx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetWithDetails(ctx, input.UserID, input.ID)
}

// Send marks a draft invoice as sent. Any other starting status is rejected.
func (s *InvoiceService) Send(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if invoice.Status != enum.InvoiceStatusDraft {
		return nil, apperror.NewStateError("Only draft invoices can be sent")
	}

	invoice.Status = DeriveInvoiceStatus(invoice.TotalAmount, invoice.AmountPaid, invoice.DueDate, time.Now(), enum.InvoiceStatusSent)
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetWithDetails(ctx, userID, id)
}

// Delete removes an invoice together with its items and payments
func (s *InvoiceService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}

	return s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.paymentRepo.DeleteByInvoice(txCtx, invoice.ID); err != nil {
			return err
		}
		if err := s.itemRepo.DeleteByInvoiceID(txCtx, invoice.ID); err != nil {
			return err
		}
		return s.invoiceRepo.Delete(txCtx, invoice.ID)
	})
}
