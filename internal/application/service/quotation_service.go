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

// QuotationService handles quotation-related business logic
type QuotationService struct {
	quotationRepo  repository.QuotationRepository
	itemRepo       repository.QuotationItemRepository
	clientRepo     repository.ClientRepository
	settingsRepo   repository.SettingsRepository
	invoiceService *InvoiceService
	transactor     repository.Transactor
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	quotationRepo repository.QuotationRepository,
	itemRepo repository.QuotationItemRepository,
	clientRepo repository.ClientRepository,
	settingsRepo repository.SettingsRepository,
	invoiceService *InvoiceService,
	transactor repository.Transactor,
) *QuotationService {
	return &QuotationService{
		quotationRepo:  quotationRepo,
		itemRepo:       itemRepo,
		clientRepo:     clientRepo,
		settingsRepo:   settingsRepo,
		invoiceService: invoiceService,
		transactor:     transactor,
	}
}

// CreateQuotationInput represents the input for creating a quotation
type CreateQuotationInput struct {
	UserID       uuid.UUID
	ClientID     uuid.UUID
	IssueDate    time.Time
	ExpiryDate   time.Time
	Currency     string
	ExchangeRate *decimal.Decimal
	Notes        *string
	Terms        *string
	Items        []DocumentItemInput
}

// Create validates the input, assigns the next number in the user's yearly
// sequence and writes the quotation with its items in one transaction.
func (s *QuotationService) Create(ctx context.Context, input *CreateQuotationInput) (*entity.Quotation, error) {
	settings, err := getOrCreateSettings(ctx, s.settingsRepo, input.UserID)
	if err != nil {
		return nil, err
	}

	var fieldErrors []apperror.FieldError
	if input.ClientID == uuid.Nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "client_id", Message: "is required"})
	}
	if input.ExpiryDate.Before(input.IssueDate) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "expiry_date", Message: "must not be before the issue date"})
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

	amounts := computeItemAmounts(input.Items)
	totals := money.ComputeDocumentTotals(amounts)

	quotation := &entity.Quotation{
		UserID:        input.UserID,
		ClientID:      input.ClientID,
		IssueDate:     input.IssueDate,
		ExpiryDate:    input.ExpiryDate,
		Status:        enum.QuotationStatusDraft,
		Currency:      docCurrency,
		ExchangeRate:  input.ExchangeRate,
		Subtotal:      totals.Subtotal,
		DiscountTotal: totals.DiscountTotal,
		TaxTotal:      totals.TaxTotal,
		TotalAmount:   totals.TotalAmount,
		Notes:         input.Notes,
		Terms:         input.Terms,
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		scope := quotationScopePrefix(settings.QuotationPrefix, input.IssueDate)
		last, err := s.quotationRepo.LastNumber(txCtx, input.UserID, scope)
		if err != nil {
			return err
		}
		quotation.Number = nextDocumentNumber(last, scope, quotationSequenceWidth)

		if err := s.quotationRepo.Create(txCtx, quotation); err != nil {
			return err
		}
		return s.itemRepo.CreateBatch(txCtx, buildQuotationItems(quotation.ID, input.Items, amounts))
	})
	if err != nil {
		return nil, err
	}

	return s.quotationRepo.GetWithItems(ctx, input.UserID, quotation.ID)
}

func buildQuotationItems(quotationID uuid.UUID, inputs []DocumentItemInput, amounts []money.LineAmounts) []entity.QuotationItem {
	items := make([]entity.QuotationItem, len(inputs))
	for i, in := range inputs {
		items[i] = entity.QuotationItem{
			QuotationID:     quotationID,
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

// GetByID returns a quotation with items and client preloaded
func (s *QuotationService) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetWithItems(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	return quotation, nil
}

// List returns quotations with pagination and filters
func (s *QuotationService) List(ctx context.Context, userID uuid.UUID, params *repository.QuotationFilterParams) ([]entity.Quotation, int64, error) {
	return s.quotationRepo.List(ctx, userID, params)
}

// UpdateQuotationInput represents a partial quotation update. Nil fields
// are left untouched; Items replaces the entire item set when present.
type UpdateQuotationInput struct {
	UserID       uuid.UUID
	ID           uuid.UUID
	ClientID     *uuid.UUID
	IssueDate    *time.Time
	ExpiryDate   *time.Time
	Currency     *string
	ExchangeRate optional.Value[decimal.Decimal]
	Notes        *string
	Terms        *string
	Items        []DocumentItemInput
	HasItems     bool
}

// Update applies the provided fields. The number never changes, and any
// item change replaces the item set wholesale and recomputes all totals.
func (s *QuotationService) Update(ctx context.Context, input *UpdateQuotationInput) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetWithItems(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}

	settings, err := getOrCreateSettings(ctx, s.settingsRepo, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.ClientID != nil {
		exists, err := s.clientRepo.Exists(ctx, input.UserID, *input.ClientID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperror.NewNotFoundError("Client")
		}
		quotation.ClientID = *input.ClientID
	}

	if input.IssueDate != nil {
		quotation.IssueDate = *input.IssueDate
	}
	if input.ExpiryDate != nil {
		quotation.ExpiryDate = *input.ExpiryDate
	}
	if quotation.ExpiryDate.Before(quotation.IssueDate) {
		return nil, apperror.NewFieldValidationError("expiry_date", "must not be before the issue date")
	}

	if input.Currency != nil {
		if !currency.ValidCode(*input.Currency) {
			return nil, apperror.NewFieldValidationError("currency", "Must be a 3-letter uppercase currency code")
		}
		quotation.Currency = *input.Currency
	}
	if input.ExchangeRate.Present() {
		if rate, ok := input.ExchangeRate.Get(); ok {
			quotation.ExchangeRate = &rate
		} else {
			quotation.ExchangeRate = nil
		}
	}
	// Re-check the pair whenever either side moved; a currency change alone
	// can invalidate a previously valid rate.
	if input.Currency != nil || input.ExchangeRate.Present() {
		if err := currency.CheckExchangeRate(quotation.Currency, settings.BaseCurrency, quotation.ExchangeRate); err != nil {
			return nil, err
		}
	}

	if input.Notes != nil {
		quotation.Notes = input.Notes
	}
	if input.Terms != nil {
		quotation.Terms = input.Terms
	}

	var amounts []money.LineAmounts
	if input.HasItems {
		if fieldErrors := validateDocumentItems(input.Items); len(fieldErrors) > 0 {
			return nil, apperror.NewValidationError(fieldErrors)
		}
		amounts = computeItemAmounts(input.Items)
		totals := money.ComputeDocumentTotals(amounts)
		quotation.Subtotal = totals.Subtotal
		quotation.DiscountTotal = totals.DiscountTotal
		quotation.TaxTotal = totals.TaxTotal
		quotation.TotalAmount = totals.TotalAmount
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if input.HasItems {
			if err := s.itemRepo.DeleteByQuotationID(txCtx, quotation.ID); err != nil {
				return err
			}
			if err := s.itemRepo.CreateBatch(txCtx, buildQuotationItems(quotation.ID, input.Items, amounts)); err != nil {
				return err
			}
		}
		return s.quotationRepo.Update(txCtx, quotation)
	})
	if err != nil {
		return nil, err
	}

	return s.quotationRepo.GetWithItems(ctx, input.UserID, quotation.ID)
}

// quotationTransitionAllowed enforces the document lifecycle:
// draft -> sent -> accepted | rejected. Expired can be set explicitly once
// the expiry date has passed; accepted and rejected are terminal.
func quotationTransitionAllowed(from, to enum.QuotationStatus, expiry, today time.Time) bool {
	switch from {
	case enum.QuotationStatusDraft:
		if to == enum.QuotationStatusSent {
			return true
		}
	case enum.QuotationStatusSent:
		if to == enum.QuotationStatusAccepted || to == enum.QuotationStatusRejected {
			return true
		}
	}
	if to == enum.QuotationStatusExpired &&
		(from == enum.QuotationStatusDraft || from == enum.QuotationStatusSent) {
		return expiry.Before(truncateToDay(today))
	}
	return false
}

// UpdateStatus moves a quotation through its lifecycle
func (s *QuotationService) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status enum.QuotationStatus) (*entity.Quotation, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}

	if status == quotation.Status {
		return s.quotationRepo.GetWithItems(ctx, userID, id)
	}
	if !quotationTransitionAllowed(quotation.Status, status, quotation.ExpiryDate, time.Now()) {
		return nil, apperror.NewStateError(
			"Cannot change quotation status from " + quotation.Status.String() + " to " + status.String())
	}

	if err := s.quotationRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.quotationRepo.GetWithItems(ctx, userID, id)
}

// Delete removes a quotation and its items
func (s *QuotationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	quotation, err := s.quotationRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if quotation == nil {
		return apperror.NewNotFoundError("Quotation")
	}

	return s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.itemRepo.DeleteByQuotationID(txCtx, quotation.ID); err != nil {
			return err
		}
		return s.quotationRepo.Delete(txCtx, quotation.ID)
	})
}

// ConvertInput represents the input for converting a quotation to an invoice
type ConvertInput struct {
	UserID      uuid.UUID
	QuotationID uuid.UUID
	IssueDate   time.Time
	DueDate     *time.Time
}

// ConvertToInvoice creates a new invoice carrying the quotation's client,
// currency and items, and marks the quotation accepted. The quotation keeps
// its own number; the invoice gets the next one in the invoice sequence.
func (s *QuotationService) ConvertToInvoice(ctx context.Context, input *ConvertInput) (*entity.Invoice, error) {
	quotation, err := s.quotationRepo.GetWithItems(ctx, input.UserID, input.QuotationID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	if quotation.Status == enum.QuotationStatusRejected {
		return nil, apperror.NewStateError("Cannot convert a rejected quotation")
	}
	if len(quotation.Items) == 0 {
		return nil, apperror.NewFieldValidationError("items", "quotation has no items to convert")
	}

	items := make([]DocumentItemInput, len(quotation.Items))
	for i, item := range quotation.Items {
		items[i] = DocumentItemInput{
			Name:            item.Name,
			Description:     item.Description,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			TaxPercent:      item.TaxPercent,
		}
	}

	invoice, err := s.invoiceService.Create(ctx, &CreateInvoiceInput{
		UserID:       input.UserID,
		ClientID:     quotation.ClientID,
		IssueDate:    input.IssueDate,
		DueDate:      input.DueDate,
		Currency:     quotation.Currency,
		ExchangeRate: quotation.ExchangeRate,
		Notes:        quotation.Notes,
		Terms:        quotation.Terms,
		Items:        items,
	})
	if err != nil {
		return nil, err
	}

	if quotation.Status != enum.QuotationStatusAccepted {
		if err := s.quotationRepo.UpdateStatus(ctx, quotation.ID, enum.QuotationStatusAccepted); err != nil {
			return nil, err
		}
	}
	return invoice, nil
}
