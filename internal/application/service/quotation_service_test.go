package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
)

func quotationFor(t *testing.T, f *billingFixture, issue time.Time) *entity.Quotation {
	t.Helper()
	quotation, err := f.quotationService.Create(f.ctx, &CreateQuotationInput{
		UserID:     f.userID,
		ClientID:   f.clientID,
		IssueDate:  issue,
		ExpiryDate: issue.AddDate(0, 1, 0),
		Items: []DocumentItemInput{
			item("Design work", "2", "30"),
			item("Hosting", "1", "40"),
		},
	})
	if err != nil {
		t.Fatalf("Create quotation: %v", err)
	}
	return quotation
}

func TestQuotationCreateYearlyNumbering(t *testing.T) {
	f := newBillingFixture(t)

	first := quotationFor(t, f, date(2025, 6, 1))
	if first.Number != "QUO-2025-001" {
		t.Errorf("Number = %q, want QUO-2025-001", first.Number)
	}
	if first.Status != enum.QuotationStatusDraft {
		t.Errorf("Status = %v, want draft", first.Status)
	}
	if !first.TotalAmount.Equal(dec("100")) {
		t.Errorf("TotalAmount = %s, want 100", first.TotalAmount)
	}

	second := quotationFor(t, f, date(2025, 7, 1))
	if second.Number != "QUO-2025-002" {
		t.Errorf("Number = %q, want QUO-2025-002", second.Number)
	}

	// The sequence restarts each year
	nextYear := quotationFor(t, f, date(2026, 1, 5))
	if nextYear.Number != "QUO-2026-001" {
		t.Errorf("Number = %q, want QUO-2026-001", nextYear.Number)
	}
}

func TestQuotationCreateValidation(t *testing.T) {
	f := newBillingFixture(t)
	issue := date(2025, 6, 1)

	_, err := f.quotationService.Create(f.ctx, &CreateQuotationInput{
		UserID: f.userID, ClientID: f.clientID,
		IssueDate: issue, ExpiryDate: issue.AddDate(0, 0, -1),
		Items: []DocumentItemInput{item("Work", "1", "10")},
	})
	wantAppErrorCode(t, err, 422)

	_, err = f.quotationService.Create(f.ctx, &CreateQuotationInput{
		UserID: f.userID, ClientID: uuid.New(),
		IssueDate: issue, ExpiryDate: issue.AddDate(0, 1, 0),
		Items: []DocumentItemInput{item("Work", "1", "10")},
	})
	wantAppErrorCode(t, err, 404)
}

func TestQuotationTransitionAllowed(t *testing.T) {
	today := date(2025, 6, 15)
	future := today.AddDate(0, 1, 0)
	past := today.AddDate(0, 0, -1)

	tests := []struct {
		name   string
		from   enum.QuotationStatus
		to     enum.QuotationStatus
		expiry time.Time
		want   bool
	}{
		{"draft to sent", enum.QuotationStatusDraft, enum.QuotationStatusSent, future, true},
		{"draft to accepted skips sending", enum.QuotationStatusDraft, enum.QuotationStatusAccepted, future, false},
		{"sent to accepted", enum.QuotationStatusSent, enum.QuotationStatusAccepted, future, true},
		{"sent to rejected", enum.QuotationStatusSent, enum.QuotationStatusRejected, future, true},
		{"sent back to draft", enum.QuotationStatusSent, enum.QuotationStatusDraft, future, false},
		{"accepted is terminal", enum.QuotationStatusAccepted, enum.QuotationStatusRejected, future, false},
		{"rejected is terminal", enum.QuotationStatusRejected, enum.QuotationStatusSent, future, false},
		{"sent to expired after expiry", enum.QuotationStatusSent, enum.QuotationStatusExpired, past, true},
		{"sent to expired before expiry", enum.QuotationStatusSent, enum.QuotationStatusExpired, future, false},
		{"draft to expired after expiry", enum.QuotationStatusDraft, enum.QuotationStatusExpired, past, true},
		{"expired on the expiry day itself", enum.QuotationStatusSent, enum.QuotationStatusExpired, today, false},
		{"accepted to expired", enum.QuotationStatusAccepted, enum.QuotationStatusExpired, past, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := quotationTransitionAllowed(tt.from, tt.to, tt.expiry, today)
			if got != tt.want {
				t.Errorf("quotationTransitionAllowed(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestQuotationUpdateStatus(t *testing.T) {
	f := newBillingFixture(t)
	quotation := quotationFor(t, f, date(2025, 6, 1))

	sent, err := f.quotationService.UpdateStatus(f.ctx, f.userID, quotation.ID, enum.QuotationStatusSent)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if sent.Status != enum.QuotationStatusSent {
		t.Errorf("Status = %v, want sent", sent.Status)
	}

	// Setting the current status again is a no-op, not an error
	if _, err := f.quotationService.UpdateStatus(f.ctx, f.userID, quotation.ID, enum.QuotationStatusSent); err != nil {
		t.Fatalf("UpdateStatus same status: %v", err)
	}

	accepted, err := f.quotationService.UpdateStatus(f.ctx, f.userID, quotation.ID, enum.QuotationStatusAccepted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if accepted.Status != enum.QuotationStatusAccepted {
		t.Errorf("Status = %v, want accepted", accepted.Status)
	}

	_, err = f.quotationService.UpdateStatus(f.ctx, f.userID, quotation.ID, enum.QuotationStatusRejected)
	wantAppErrorCode(t, err, 409)
}

func TestQuotationUpdateReplacesItems(t *testing.T) {
	f := newBillingFixture(t)
	quotation := quotationFor(t, f, date(2025, 6, 1))

	updated, err := f.quotationService.Update(f.ctx, &UpdateQuotationInput{
		UserID:   f.userID,
		ID:       quotation.ID,
		Items:    []DocumentItemInput{item("Consulting", "3", "50")},
		HasItems: true,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Number != quotation.Number {
		t.Errorf("Number changed on update: %q -> %q", quotation.Number, updated.Number)
	}
	if len(updated.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(updated.Items))
	}
	if !updated.TotalAmount.Equal(dec("150")) {
		t.Errorf("TotalAmount = %s, want 150", updated.TotalAmount)
	}
}

func TestConvertQuotationToInvoice(t *testing.T) {
	f := newBillingFixture(t)
	quotation := quotationFor(t, f, date(2025, 6, 1))
	if _, err := f.quotationService.UpdateStatus(f.ctx, f.userID, quotation.ID, enum.QuotationStatusSent); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	invoice, err := f.quotationService.ConvertToInvoice(f.ctx, &ConvertInput{
		UserID:      f.userID,
		QuotationID: quotation.ID,
		IssueDate:   date(2025, 6, 10),
	})
	if err != nil {
		t.Fatalf("ConvertToInvoice: %v", err)
	}

	if invoice.Number != "INV-0001" {
		t.Errorf("invoice Number = %q, want INV-0001", invoice.Number)
	}
	if invoice.Status != enum.InvoiceStatusDraft {
		t.Errorf("invoice Status = %v, want draft", invoice.Status)
	}
	if !invoice.TotalAmount.Equal(quotation.TotalAmount) {
		t.Errorf("invoice TotalAmount = %s, want %s", invoice.TotalAmount, quotation.TotalAmount)
	}
	if invoice.ClientID != quotation.ClientID || invoice.Currency != quotation.Currency {
		t.Error("invoice does not carry the quotation's client and currency")
	}
	if len(invoice.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(invoice.Items))
	}

	converted, err := f.quotationService.GetByID(f.ctx, f.userID, quotation.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if converted.Status != enum.QuotationStatusAccepted {
		t.Errorf("quotation Status = %v, want accepted after conversion", converted.Status)
	}
}

func TestConvertRejectedQuotation(t *testing.T) {
	f := newBillingFixture(t)
	quotation := quotationFor(t, f, date(2025, 6, 1))
	if _, err := f.quotationService.UpdateStatus(f.ctx, f.userID, quotation.ID, enum.QuotationStatusSent); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if _, err := f.quotationService.UpdateStatus(f.ctx, f.userID, quotation.ID, enum.QuotationStatusRejected); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	_, err := f.quotationService.ConvertToInvoice(f.ctx, &ConvertInput{
		UserID:      f.userID,
		QuotationID: quotation.ID,
		IssueDate:   date(2025, 6, 10),
	})
	wantAppErrorCode(t, err, 409)
}
