package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/repository"
	"github.com/davidkaruri/billify-api/pkg/apperror"
	"github.com/davidkaruri/billify-api/pkg/currency"
	"github.com/davidkaruri/billify-api/pkg/optional"
)

// SettingsService manages per-user billing preferences
type SettingsService struct {
	settingsRepo  repository.SettingsRepository
	invoiceRepo   repository.InvoiceRepository
	quotationRepo repository.QuotationRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(
	settingsRepo repository.SettingsRepository,
	invoiceRepo repository.InvoiceRepository,
	quotationRepo repository.QuotationRepository,
) *SettingsService {
	return &SettingsService{
		settingsRepo:  settingsRepo,
		invoiceRepo:   invoiceRepo,
		quotationRepo: quotationRepo,
	}
}

// defaultSettings returns a fresh settings row for a user that has never
// customized anything.
func defaultSettings(userID uuid.UUID) *entity.UserSettings {
	return &entity.UserSettings{
		UserID:          userID,
		BaseCurrency:    "USD",
		DefaultCurrency: "USD",
		InvoicePrefix:   "INV-",
		QuotationPrefix: "QUO-",
		DefaultDueDays:  14,
	}
}

// getOrCreateSettings loads the user's settings, creating the default row
// on first access. Shared by the services that consume tenant defaults.
func getOrCreateSettings(ctx context.Context, repo repository.SettingsRepository, userID uuid.UUID) (*entity.UserSettings, error) {
	settings, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	settings = defaultSettings(userID)
	if err := repo.Create(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Get returns the user's settings, materializing defaults on first read.
func (s *SettingsService) Get(ctx context.Context, userID uuid.UUID) (*entity.UserSettings, error) {
	return getOrCreateSettings(ctx, s.settingsRepo, userID)
}

// UpdateSettingsInput carries a sparse settings update. Absent fields are
// left untouched; an explicit null clears nullable fields.
type UpdateSettingsInput struct {
	UserID            uuid.UUID
	BaseCurrency      optional.Value[string]
	DefaultCurrency   optional.Value[string]
	InvoicePrefix     optional.Value[string]
	QuotationPrefix   optional.Value[string]
	DefaultTaxName    optional.Value[string]
	DefaultTaxPercent optional.Value[decimal.Decimal]
	DefaultDueDays    optional.Value[int]
	DefaultNotes      optional.Value[string]
	DefaultTerms      optional.Value[string]
}

// Update applies the provided fields to the user's settings.
func (s *SettingsService) Update(ctx context.Context, input *UpdateSettingsInput) (*entity.UserSettings, error) {
	settings, err := getOrCreateSettings(ctx, s.settingsRepo, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.BaseCurrency.Present() {
		code, ok := input.BaseCurrency.Get()
		if !ok {
			return nil, apperror.NewFieldValidationError("baseCurrency", "Base currency cannot be cleared")
		}
		if !currency.ValidCode(code) {
			return nil, apperror.NewFieldValidationError("baseCurrency", "Must be a 3-letter uppercase currency code")
		}
		if code != settings.BaseCurrency {
			if err := s.checkBaseCurrencyChange(ctx, input.UserID, settings.BaseCurrency); err != nil {
				return nil, err
			}
			settings.BaseCurrency = code
		}
	}

	if input.DefaultCurrency.Present() {
		code, ok := input.DefaultCurrency.Get()
		if !ok {
			return nil, apperror.NewFieldValidationError("defaultCurrency", "Default currency cannot be cleared")
		}
		if !currency.ValidCode(code) {
			return nil, apperror.NewFieldValidationError("defaultCurrency", "Must be a 3-letter uppercase currency code")
		}
		settings.DefaultCurrency = code
	}

	if input.InvoicePrefix.Present() {
		prefix, ok := input.InvoicePrefix.Get()
		if !ok || prefix == "" {
			return nil, apperror.NewFieldValidationError("invoicePrefix", "Invoice prefix cannot be empty")
		}
		settings.InvoicePrefix = prefix
	}

	if input.QuotationPrefix.Present() {
		prefix, ok := input.QuotationPrefix.Get()
		if !ok || prefix == "" {
			return nil, apperror.NewFieldValidationError("quotationPrefix", "Quotation prefix cannot be empty")
		}
		settings.QuotationPrefix = prefix
	}

	if input.DefaultTaxName.Present() {
		if name, ok := input.DefaultTaxName.Get(); ok {
			settings.DefaultTaxName = &name
		} else {
			settings.DefaultTaxName = nil
		}
	}

	if input.DefaultTaxPercent.Present() {
		if percent, ok := input.DefaultTaxPercent.Get(); ok {
			if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
				return nil, apperror.NewFieldValidationError("defaultTaxPercent", "Must be between 0 and 100")
			}
			settings.DefaultTaxPercent = &percent
		} else {
			settings.DefaultTaxPercent = nil
		}
	}

	if input.DefaultDueDays.Present() {
		days, ok := input.DefaultDueDays.Get()
		if !ok {
			return nil, apperror.NewFieldValidationError("defaultDueDays", "Default due days cannot be cleared")
		}
		if days < 1 || days > 365 {
			return nil, apperror.NewFieldValidationError("defaultDueDays", "Must be between 1 and 365")
		}
		settings.DefaultDueDays = days
	}

	if input.DefaultNotes.Present() {
		if notes, ok := input.DefaultNotes.Get(); ok {
			settings.DefaultNotes = &notes
		} else {
			settings.DefaultNotes = nil
		}
	}

	if input.DefaultTerms.Present() {
		if terms, ok := input.DefaultTerms.Get(); ok {
			settings.DefaultTerms = &terms
		} else {
			settings.DefaultTerms = nil
		}
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// checkBaseCurrencyChange rejects a base currency switch while foreign
// currency documents exist, since their stored exchange rates would no
// longer reference the currency they were captured against.
func (s *SettingsService) checkBaseCurrencyChange(ctx context.Context, userID uuid.UUID, base string) error {
	invoices, err := s.invoiceRepo.CountForeignCurrency(ctx, userID, base)
	if err != nil {
		return err
	}
	quotations, err := s.quotationRepo.CountForeignCurrency(ctx, userID, base)
	if err != nil {
		return err
	}
	if invoices > 0 || quotations > 0 {
		return apperror.NewConflictError("Cannot change base currency while documents in other currencies exist")
	}
	return nil
}
