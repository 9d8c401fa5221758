package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/davidkaruri/billify-api/internal/domain/repository"
	"github.com/davidkaruri/billify-api/pkg/apperror"
	"github.com/davidkaruri/billify-api/pkg/currency"
	"github.com/davidkaruri/billify-api/pkg/optional"
	"github.com/davidkaruri/billify-api/pkg/recurrence"
)

// RecurringService manages recurring invoice templates and materializes
// invoices from them when their schedule comes due.
type RecurringService struct {
	recurringRepo  repository.RecurringInvoiceRepository
	itemRepo       repository.RecurringInvoiceItemRepository
	clientRepo     repository.ClientRepository
	settingsRepo   repository.SettingsRepository
	invoiceService *InvoiceService
	transactor     repository.Transactor
	logger         *logrus.Logger
}

// NewRecurringService creates a new recurring invoice service
func NewRecurringService(
	recurringRepo repository.RecurringInvoiceRepository,
	itemRepo repository.RecurringInvoiceItemRepository,
	clientRepo repository.ClientRepository,
	settingsRepo repository.SettingsRepository,
	invoiceService *InvoiceService,
	transactor repository.Transactor,
	logger *logrus.Logger,
) *RecurringService {
	return &RecurringService{
		recurringRepo:  recurringRepo,
		itemRepo:       itemRepo,
		clientRepo:     clientRepo,
		settingsRepo:   settingsRepo,
		invoiceService: invoiceService,
		transactor:     transactor,
		logger:         logger,
	}
}

// CreateRecurringInput represents the input for creating a template
type CreateRecurringInput struct {
	UserID       uuid.UUID
	ClientID     uuid.UUID
	Frequency    string
	StartDate    time.Time
	EndDate      *time.Time
	DueDateDays  int
	AutoBill     enum.AutoBillPolicy
	Currency     string
	ExchangeRate *decimal.Decimal
	Notes        *string
	Terms        *string
	Items        []DocumentItemInput
}

// Create validates and stores a template. Templates start stopped; nothing
// is generated until Start is called.
func (s *RecurringService) Create(ctx context.Context, input *CreateRecurringInput) (*entity.RecurringInvoice, error) {
	settings, err := getOrCreateSettings(ctx, s.settingsRepo, input.UserID)
	if err != nil {
		return nil, err
	}

	freq, ok := recurrence.ParseFrequency(input.Frequency)
	if !ok {
		return nil, apperror.NewSchedulingError("Unknown frequency: " + input.Frequency)
	}
	if input.DueDateDays < 1 || input.DueDateDays > 30 {
		return nil, apperror.NewSchedulingError("Due date days must be between 1 and 30")
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, apperror.NewSchedulingError("End date must not be before the start date")
	}

	autoBill := input.AutoBill
	if autoBill == "" {
		autoBill = enum.AutoBillDisabled
	}
	if !autoBill.Valid() {
		return nil, apperror.NewFieldValidationError("auto_bill", "is not a recognized auto-bill policy")
	}

	var fieldErrors []apperror.FieldError
	if input.ClientID == uuid.Nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "client_id", Message: "is required"})
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

	rec := &entity.RecurringInvoice{
		UserID:       input.UserID,
		ClientID:     input.ClientID,
		Frequency:    freq,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		DueDateDays:  input.DueDateDays,
		AutoBill:     autoBill,
		Status:       enum.RecurringStatusStopped,
		Currency:     docCurrency,
		ExchangeRate: input.ExchangeRate,
		Notes:        input.Notes,
		Terms:        input.Terms,
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.recurringRepo.Create(txCtx, rec); err != nil {
			return err
		}
		return s.itemRepo.CreateBatch(txCtx, buildRecurringItems(rec.ID, input.Items))
	})
	if err != nil {
		return nil, err
	}
	return s.recurringRepo.GetWithItems(ctx, input.UserID, rec.ID)
}

func buildRecurringItems(recurringID uuid.UUID, inputs []DocumentItemInput) []entity.RecurringInvoiceItem {
	items := make([]entity.RecurringInvoiceItem, len(inputs))
	for i, in := range inputs {
		items[i] = entity.RecurringInvoiceItem{
			RecurringInvoiceID: recurringID,
			Name:               in.Name,
			Description:        in.Description,
			Quantity:           in.Quantity,
			UnitPrice:          in.UnitPrice,
			DiscountPercent:    in.DiscountPercent,
			TaxPercent:         in.TaxPercent,
			SortOrder:          i,
		}
	}
	return items
}

// GetByID returns a template with items and client preloaded
func (s *RecurringService) GetByID(ctx context.Context, userID, id uuid.UUID) (*entity.RecurringInvoice, error) {
	rec, err := s.recurringRepo.GetWithItems(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.NewNotFoundError("Recurring invoice")
	}
	return rec, nil
}

// List returns templates with pagination and filters
func (s *RecurringService) List(ctx context.Context, userID uuid.UUID, params *repository.RecurringFilterParams) ([]entity.RecurringInvoice, int64, error) {
	return s.recurringRepo.List(ctx, userID, params)
}

// UpdateRecurringInput represents a partial template update
type UpdateRecurringInput struct {
	UserID       uuid.UUID
	ID           uuid.UUID
	ClientID     *uuid.UUID
	Frequency    *string
	StartDate    *time.Time
	EndDate      optional.Value[time.Time]
	DueDateDays  *int
	AutoBill     *enum.AutoBillPolicy
	Currency     *string
	ExchangeRate optional.Value[decimal.Decimal]
	Notes        *string
	Terms        *string
	Items        []DocumentItemInput
	HasItems     bool
}

// Update applies the provided fields. Schedule changes do not retroactively
// move NextGenerationDate; a running template keeps its current anchor
// until it next generates or is restarted.
func (s *RecurringService) Update(ctx context.Context, input *UpdateRecurringInput) (*entity.RecurringInvoice, error) {
	rec, err := s.recurringRepo.GetWithItems(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.NewNotFoundError("Recurring invoice")
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
		rec.ClientID = *input.ClientID
	}

	if input.Frequency != nil {
		freq, ok := recurrence.ParseFrequency(*input.Frequency)
		if !ok {
			return nil, apperror.NewSchedulingError("Unknown frequency: " + *input.Frequency)
		}
		rec.Frequency = freq
	}
	if input.StartDate != nil {
		rec.StartDate = *input.StartDate
	}
	if input.EndDate.Present() {
		if end, ok := input.EndDate.Get(); ok {
			rec.EndDate = &end
		} else {
			rec.EndDate = nil
		}
	}
	if rec.EndDate != nil && rec.EndDate.Before(rec.StartDate) {
		return nil, apperror.NewSchedulingError("End date must not be before the start date")
	}
	if input.DueDateDays != nil {
		if *input.DueDateDays < 1 || *input.DueDateDays > 30 {
			return nil, apperror.NewSchedulingError("Due date days must be between 1 and 30")
		}
		rec.DueDateDays = *input.DueDateDays
	}
	if input.AutoBill != nil {
		if !input.AutoBill.Valid() {
			return nil, apperror.NewFieldValidationError("auto_bill", "is not a recognized auto-bill policy")
		}
		rec.AutoBill = *input.AutoBill
	}

	if input.Currency != nil {
		if !currency.ValidCode(*input.Currency) {
			return nil, apperror.NewFieldValidationError("currency", "Must be a 3-letter uppercase currency code")
		}
		rec.Currency = *input.Currency
	}
	if input.ExchangeRate.Present() {
		if rate, ok := input.ExchangeRate.Get(); ok {
			rec.ExchangeRate = &rate
		} else {
			rec.ExchangeRate = nil
		}
	}
	if input.Currency != nil || input.ExchangeRate.Present() {
		if err := currency.CheckExchangeRate(rec.Currency, settings.BaseCurrency, rec.ExchangeRate); err != nil {
			return nil, err
		}
	}

	if input.Notes != nil {
		rec.Notes = input.Notes
	}
	if input.Terms != nil {
		rec.Terms = input.Terms
	}

	if input.HasItems {
		if fieldErrors := validateDocumentItems(input.Items); len(fieldErrors) > 0 {
			return nil, apperror.NewValidationError(fieldErrors)
		}
	}

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if input.HasItems {
			if err := s.itemRepo.DeleteByRecurringInvoiceID(txCtx, rec.ID); err != nil {
				return err
			}
			if err := s.itemRepo.CreateBatch(txCtx, buildRecurringItems(rec.ID, input.Items)); err != nil {
				return err
			}
		}
		return s.recurringRepo.Update(txCtx, rec)
	})
	if err != nil {
		return nil, err
	}
	return s.recurringRepo.GetWithItems(ctx, input.UserID, rec.ID)
}

// Start activates a template. The next generation date is anchored at the
// start date, so a template started late generates its backlog one run at
// a time from there.
func (s *RecurringService) Start(ctx context.Context, userID, id uuid.UUID) (*entity.RecurringInvoice, error) {
	rec, err := s.recurringRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.NewNotFoundError("Recurring invoice")
	}
	if rec.Status == enum.RecurringStatusActive {
		return nil, apperror.NewStateError("Recurring invoice is already active")
	}
	if rec.EndDate != nil && rec.EndDate.Before(truncateToDay(time.Now())) {
		return nil, apperror.NewSchedulingError("Cannot start a template whose end date has passed")
	}

	next := rec.StartDate
	rec.Status = enum.RecurringStatusActive
	rec.NextGenerationDate = &next
	if err := s.recurringRepo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return s.recurringRepo.GetWithItems(ctx, userID, id)
}

// Stop halts generation and clears the schedule anchor
func (s *RecurringService) Stop(ctx context.Context, userID, id uuid.UUID) (*entity.RecurringInvoice, error) {
	rec, err := s.recurringRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.NewNotFoundError("Recurring invoice")
	}
	if rec.Status == enum.RecurringStatusStopped {
		return nil, apperror.NewStateError("Recurring invoice is already stopped")
	}

	rec.Status = enum.RecurringStatusStopped
	rec.NextGenerationDate = nil
	if err := s.recurringRepo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return s.recurringRepo.GetWithItems(ctx, userID, id)
}

// Delete removes a template and its items. Invoices already generated
// from it are untouched and keep their backlink.
func (s *RecurringService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	rec, err := s.recurringRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return apperror.NewNotFoundError("Recurring invoice")
	}

	return s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.itemRepo.DeleteByRecurringInvoiceID(txCtx, rec.ID); err != nil {
			return err
		}
		return s.recurringRepo.Delete(txCtx, rec.ID)
	})
}

// PreviewSchedule returns the next occurrences without touching anything.
// The preview starts from the schedule anchor for running templates and
// from the start date otherwise.
func (s *RecurringService) PreviewSchedule(ctx context.Context, userID, id uuid.UUID, count int) ([]recurrence.Occurrence, error) {
	rec, err := s.recurringRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.NewNotFoundError("Recurring invoice")
	}

	if count < 1 || count > 24 {
		count = 6
	}
	from := rec.StartDate
	if rec.NextGenerationDate != nil {
		from = *rec.NextGenerationDate
	}
	return recurrence.Preview(rec.Frequency, from, rec.EndDate, rec.DueDateDays, count, time.Now()), nil
}

// GenerateDueInvoices materializes invoices for every active template due
// on or before today. Each template is processed in its own transaction;
// one failing template is logged and skipped so the rest of the run
// proceeds. Returns the number of invoices generated.
func (s *RecurringService) GenerateDueInvoices(ctx context.Context, today time.Time) (int, error) {
	due, err := s.recurringRepo.ListDue(ctx, truncateToDay(today))
	if err != nil {
		return 0, err
	}

	generated := 0
	for i := range due {
		rec := &due[i]
		created, err := s.generateOne(ctx, rec, today)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"recurring_invoice_id": rec.ID,
				"user_id":              rec.UserID,
			}).Error("Failed to generate invoice from recurring template")
			continue
		}
		if created {
			generated++
		}
	}
	return generated, nil
}

// generateOne materializes at most one invoice for the template and
// advances or retires its schedule, all in one transaction.
func (s *RecurringService) generateOne(ctx context.Context, rec *entity.RecurringInvoice, today time.Time) (bool, error) {
	if rec.AutoBill == enum.AutoBillDisabled {
		return false, nil
	}
	if rec.NextGenerationDate == nil {
		return false, nil
	}
	if len(rec.Items) == 0 {
		return false, apperror.NewSchedulingError("Template has no items")
	}

	issueDate := *rec.NextGenerationDate
	created := false

	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if rec.EndDate != nil && issueDate.After(*rec.EndDate) {
			rec.Status = enum.RecurringStatusStopped
			rec.NextGenerationDate = nil
			return s.recurringRepo.Update(txCtx, rec)
		}

		status := enum.InvoiceStatusDraft
		if rec.AutoBill == enum.AutoBillEnabled {
			status = enum.InvoiceStatusSent
		}

		items := make([]DocumentItemInput, len(rec.Items))
		for i, item := range rec.Items {
			items[i] = DocumentItemInput{
				Name:            item.Name,
				Description:     item.Description,
				Quantity:        item.Quantity,
				UnitPrice:       item.UnitPrice,
				DiscountPercent: item.DiscountPercent,
				TaxPercent:      item.TaxPercent,
			}
		}

		dueDate := issueDate.AddDate(0, 0, rec.DueDateDays)
		_, err := s.invoiceService.Create(txCtx, &CreateInvoiceInput{
			UserID:             rec.UserID,
			ClientID:           rec.ClientID,
			IssueDate:          issueDate,
			DueDate:            &dueDate,
			Currency:           rec.Currency,
			ExchangeRate:       rec.ExchangeRate,
			Notes:              rec.Notes,
			Terms:              rec.Terms,
			Items:              items,
			Status:             status,
			RecurringInvoiceID: &rec.ID,
		})
		if err != nil {
			return err
		}
		created = true

		now := time.Now()
		rec.LastGeneratedAt = &now
		next := recurrence.NextDate(rec.Frequency, issueDate)
		if rec.EndDate != nil && next.After(*rec.EndDate) {
			rec.Status = enum.RecurringStatusStopped
			rec.NextGenerationDate = nil
		} else {
			rec.NextGenerationDate = &next
		}
		return s.recurringRepo.Update(txCtx, rec)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}
