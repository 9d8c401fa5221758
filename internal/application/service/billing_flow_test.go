package service

import (
	"testing"

	"github.com/davidkaruri/billify-api/internal/domain/enum"
)

// TestQuoteToPaidFlow walks a document through its full life: quote two
// items, send, convert to an invoice, then settle it in two payments.
func TestQuoteToPaidFlow(t *testing.T) {
	f := newBillingFixture(t)

	today := issueToday()
	quotation, err := f.quotationService.Create(f.ctx, &CreateQuotationInput{
		UserID:     f.userID,
		ClientID:   f.clientID,
		IssueDate:  today,
		ExpiryDate: today.AddDate(0, 1, 0),
		Items: []DocumentItemInput{
			item("Design work", "2", "30"),
			item("Hosting", "1", "40"),
		},
	})
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}
	if !quotation.TotalAmount.Equal(dec("100")) {
		t.Fatalf("quotation total = %s, want 100", quotation.TotalAmount)
	}

	if _, err := f.quotationService.UpdateStatus(f.ctx, f.userID, quotation.ID, enum.QuotationStatusSent); err != nil {
		t.Fatalf("send quotation: %v", err)
	}

	invoice, err := f.quotationService.ConvertToInvoice(f.ctx, &ConvertInput{
		UserID:      f.userID,
		QuotationID: quotation.ID,
		IssueDate:   today,
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !invoice.BalanceDue.Equal(dec("100")) {
		t.Fatalf("invoice balance = %s, want 100", invoice.BalanceDue)
	}

	if _, err := f.paymentService.Record(f.ctx, &RecordPaymentInput{
		UserID: f.userID, InvoiceID: invoice.ID,
		Amount: dec("60"), PaymentDate: today,
	}); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	inv, _ := f.invoiceService.GetByID(f.ctx, f.userID, invoice.ID)
	if inv.Status != enum.InvoiceStatusPartial {
		t.Fatalf("status after first payment = %v, want partial", inv.Status)
	}

	if _, err := f.paymentService.Record(f.ctx, &RecordPaymentInput{
		UserID: f.userID, InvoiceID: invoice.ID,
		Amount: dec("40"), PaymentDate: today.AddDate(0, 0, 2),
	}); err != nil {
		t.Fatalf("second payment: %v", err)
	}
	inv, _ = f.invoiceService.GetByID(f.ctx, f.userID, invoice.ID)
	if inv.Status != enum.InvoiceStatusPaid {
		t.Fatalf("status after second payment = %v, want paid", inv.Status)
	}
	if !inv.AmountPaid.Equal(dec("100")) || !inv.BalanceDue.IsZero() {
		t.Errorf("ledger = paid %s / due %s, want 100 / 0", inv.AmountPaid, inv.BalanceDue)
	}
	if inv.PaidAt == nil {
		t.Error("PaidAt not stamped")
	}

	payments, err := f.paymentService.ListByInvoice(f.ctx, f.userID, invoice.ID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(payments) != 2 {
		t.Errorf("len(payments) = %d, want 2", len(payments))
	}
}
