package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/davidkaruri/billify-api/pkg/optional"
)

func newSettingsFixture(t *testing.T) (*billingFixture, *SettingsService) {
	t.Helper()
	f := newBillingFixture(t)
	return f, NewSettingsService(f.settings, f.invoices, f.quotations)
}

func TestSettingsDefaultsOnFirstRead(t *testing.T) {
	f, svc := newSettingsFixture(t)

	settings, err := svc.Get(f.ctx, f.userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.BaseCurrency != "USD" || settings.DefaultCurrency != "USD" {
		t.Errorf("currencies = %q/%q, want USD/USD", settings.BaseCurrency, settings.DefaultCurrency)
	}
	if settings.InvoicePrefix != "INV-" || settings.QuotationPrefix != "QUO-" {
		t.Errorf("prefixes = %q/%q, want INV-/QUO-", settings.InvoicePrefix, settings.QuotationPrefix)
	}
	if settings.DefaultDueDays != 14 {
		t.Errorf("DefaultDueDays = %d, want 14", settings.DefaultDueDays)
	}

	// The default row is persisted, not recreated on each read
	again, err := svc.Get(f.ctx, f.userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.ID != settings.ID {
		t.Error("second read created a new settings row")
	}
}

func TestSettingsUpdate(t *testing.T) {
	f, svc := newSettingsFixture(t)

	updated, err := svc.Update(f.ctx, &UpdateSettingsInput{
		UserID:            f.userID,
		DefaultCurrency:   optional.Set("KES"),
		InvoicePrefix:     optional.Set("BILL-"),
		DefaultDueDays:    optional.Set(30),
		DefaultTaxName:    optional.Set("VAT"),
		DefaultTaxPercent: optional.Set(dec("16")),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.DefaultCurrency != "KES" || updated.InvoicePrefix != "BILL-" || updated.DefaultDueDays != 30 {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.DefaultTaxName == nil || *updated.DefaultTaxName != "VAT" {
		t.Errorf("DefaultTaxName = %v, want VAT", updated.DefaultTaxName)
	}
	if updated.DefaultTaxPercent == nil || !updated.DefaultTaxPercent.Equal(dec("16")) {
		t.Errorf("DefaultTaxPercent = %v, want 16", updated.DefaultTaxPercent)
	}

	// Untouched fields survive, explicit null clears
	cleared, err := svc.Update(f.ctx, &UpdateSettingsInput{
		UserID:            f.userID,
		DefaultTaxName:    optional.Null[string](),
		DefaultTaxPercent: optional.Null[decimal.Decimal](),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if cleared.DefaultCurrency != "KES" {
		t.Errorf("DefaultCurrency = %q, want untouched KES", cleared.DefaultCurrency)
	}
	if cleared.DefaultTaxName != nil || cleared.DefaultTaxPercent != nil {
		t.Error("explicit null did not clear the default tax")
	}
}

func TestSettingsUpdateValidation(t *testing.T) {
	f, svc := newSettingsFixture(t)

	_, err := svc.Update(f.ctx, &UpdateSettingsInput{
		UserID:          f.userID,
		DefaultCurrency: optional.Set("usd"),
	})
	wantAppErrorCode(t, err, 422)

	_, err = svc.Update(f.ctx, &UpdateSettingsInput{
		UserID:        f.userID,
		InvoicePrefix: optional.Set(""),
	})
	wantAppErrorCode(t, err, 422)

	_, err = svc.Update(f.ctx, &UpdateSettingsInput{
		UserID:         f.userID,
		DefaultDueDays: optional.Set(0),
	})
	wantAppErrorCode(t, err, 422)
}

func TestSettingsBaseCurrencyGuard(t *testing.T) {
	f, svc := newSettingsFixture(t)

	// With no foreign-currency documents the base can change freely
	updated, err := svc.Update(f.ctx, &UpdateSettingsInput{
		UserID:       f.userID,
		BaseCurrency: optional.Set("EUR"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.BaseCurrency != "EUR" {
		t.Errorf("BaseCurrency = %q, want EUR", updated.BaseCurrency)
	}

	// A document in another currency pins the base
	rate := dec("0.92")
	if _, err := f.invoiceService.Create(f.ctx, &CreateInvoiceInput{
		UserID: f.userID, ClientID: f.clientID, IssueDate: date(2025, 6, 1),
		Currency: "USD", ExchangeRate: &rate,
		Items: []DocumentItemInput{item("Work", "1", "10")},
	}); err != nil {
		t.Fatalf("Create invoice: %v", err)
	}

	_, err = svc.Update(f.ctx, &UpdateSettingsInput{
		UserID:       f.userID,
		BaseCurrency: optional.Set("GBP"),
	})
	wantAppErrorCode(t, err, 409)
}
