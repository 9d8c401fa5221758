package service

import (
	"strings"
	"testing"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// invoiceFor creates a draft invoice with a single line totalling total.
// Issued today so the default due date stays ahead of status derivation.
func invoiceFor(t *testing.T, f *billingFixture, total string) *entity.Invoice {
	t.Helper()
	invoice, err := f.invoiceService.Create(f.ctx, &CreateInvoiceInput{
		UserID:    f.userID,
		ClientID:  f.clientID,
		IssueDate: issueToday(),
		Items:     []DocumentItemInput{item("Work", "1", total)},
	})
	if err != nil {
		t.Fatalf("Create invoice: %v", err)
	}
	return invoice
}

func TestRecordPaymentLifecycle(t *testing.T) {
	f := newBillingFixture(t)
	invoice := invoiceFor(t, f, "100")

	method := enum.PaymentMethodBankTransfer
	payment, err := f.paymentService.Record(f.ctx, &RecordPaymentInput{
		UserID:      f.userID,
		InvoiceID:   invoice.ID,
		Amount:      dec("60"),
		PaymentDate: issueToday(),
		Method:      &method,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if payment.Currency != invoice.Currency {
		t.Errorf("payment Currency = %q, want %q", payment.Currency, invoice.Currency)
	}

	inv, err := f.invoiceService.GetByID(f.ctx, f.userID, invoice.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if inv.Status != enum.InvoiceStatusPartial {
		t.Errorf("Status = %v, want partial", inv.Status)
	}
	if !inv.AmountPaid.Equal(dec("60")) || !inv.BalanceDue.Equal(dec("40")) {
		t.Errorf("ledger = paid %s / due %s, want 60 / 40", inv.AmountPaid, inv.BalanceDue)
	}
	if inv.PaidAt != nil {
		t.Error("PaidAt stamped before full payment")
	}

	if _, err := f.paymentService.Record(f.ctx, &RecordPaymentInput{
		UserID:      f.userID,
		InvoiceID:   invoice.ID,
		Amount:      dec("40"),
		PaymentDate: issueToday().AddDate(0, 0, 1),
	}); err != nil {
		t.Fatalf("Record second: %v", err)
	}

	inv, _ = f.invoiceService.GetByID(f.ctx, f.userID, invoice.ID)
	if inv.Status != enum.InvoiceStatusPaid {
		t.Errorf("Status = %v, want paid", inv.Status)
	}
	if !inv.BalanceDue.IsZero() {
		t.Errorf("BalanceDue = %s, want 0", inv.BalanceDue)
	}
	if inv.PaidAt == nil {
		t.Error("PaidAt not stamped on full payment")
	}
}

func TestRecordPaymentOvershoot(t *testing.T) {
	f := newBillingFixture(t)
	invoice := invoiceFor(t, f, "100")

	if _, err := f.paymentService.Record(f.ctx, &RecordPaymentInput{
		UserID: f.userID, InvoiceID: invoice.ID,
		Amount: dec("60"), PaymentDate: issueToday(),
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	_, err := f.paymentService.Record(f.ctx, &RecordPaymentInput{
		UserID: f.userID, InvoiceID: invoice.ID,
		Amount: dec("50"), PaymentDate: issueToday(),
	})
	appErr := wantAppErrorCode(t, err, 422)
	if len(appErr.Errors) == 0 || !strings.Contains(appErr.Errors[0].Message, "40.00") {
		t.Errorf("field errors = %+v, want remaining balance 40.00", appErr.Errors)
	}

	// The rejected payment leaves no trace
	sum, _ := f.payments.SumByInvoice(f.ctx, invoice.ID, nil)
	if !sum.Equal(dec("60")) {
		t.Errorf("payment sum = %s, want 60", sum)
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	f := newBillingFixture(t)
	invoice := invoiceFor(t, f, "100")

	_, err := f.paymentService.Record(f.ctx, &RecordPaymentInput{
		UserID: f.userID, InvoiceID: invoice.ID,
		Amount: decimal.Zero, PaymentDate: issueToday(),
	})
	wantAppErrorCode(t, err, 422)

	bad := enum.PaymentMethod("barter")
	_, err = f.paymentService.Record(f.ctx, &RecordPaymentInput{
		UserID: f.userID, InvoiceID: invoice.ID,
		Amount: dec("10"), PaymentDate: issueToday(), Method: &bad,
	})
	wantAppErrorCode(t, err, 422)
}

func TestUpdatePaymentRebalances(t *testing.T) {
	f := newBillingFixture(t)
	invoice := invoiceFor(t, f, "100")

	payment, err := f.paymentService.Record(f.ctx, &RecordPaymentInput{
		UserID: f.userID, InvoiceID: invoice.ID,
		Amount: dec("100"), PaymentDate: issueToday(),
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	amount := dec("30")
	if _, err := f.paymentService.Update(f.ctx, &UpdatePaymentInput{
		UserID: f.userID, PaymentID: payment.ID, Amount: &amount,
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	inv, _ := f.invoiceService.GetByID(f.ctx, f.userID, invoice.ID)
	if inv.Status != enum.InvoiceStatusPartial {
		t.Errorf("Status = %v, want partial", inv.Status)
	}
	if !inv.AmountPaid.Equal(dec("30")) || !inv.BalanceDue.Equal(dec("70")) {
		t.Errorf("ledger = paid %s / due %s, want 30 / 70", inv.AmountPaid, inv.BalanceDue)
	}
	// The settlement moment survives edits; only deletion clears it
	if inv.PaidAt == nil {
		t.Error("PaidAt cleared by a payment edit")
	}

	// Editing above the remaining balance is rejected
	tooMuch := dec("120")
	_, err = f.paymentService.Update(f.ctx, &UpdatePaymentInput{
		UserID: f.userID, PaymentID: payment.ID, Amount: &tooMuch,
	})
	wantAppErrorCode(t, err, 422)
}

func TestDeletePaymentClearsPaidAt(t *testing.T) {
	f := newBillingFixture(t)
	invoice := invoiceFor(t, f, "100")

	if _, err := f.paymentService.Record(f.ctx, &RecordPaymentInput{
		UserID: f.userID, InvoiceID: invoice.ID,
		Amount: dec("60"), PaymentDate: issueToday(),
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	second, err := f.paymentService.Record(f.ctx, &RecordPaymentInput{
		UserID: f.userID, InvoiceID: invoice.ID,
		Amount: dec("40"), PaymentDate: issueToday().AddDate(0, 0, 1),
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if err := f.paymentService.Delete(f.ctx, f.userID, second.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	inv, _ := f.invoiceService.GetByID(f.ctx, f.userID, invoice.ID)
	if inv.Status != enum.InvoiceStatusPartial {
		t.Errorf("Status = %v, want partial", inv.Status)
	}
	if !inv.AmountPaid.Equal(dec("60")) || !inv.BalanceDue.Equal(dec("40")) {
		t.Errorf("ledger = paid %s / due %s, want 60 / 40", inv.AmountPaid, inv.BalanceDue)
	}
	if inv.PaidAt != nil {
		t.Error("PaidAt kept after the settling payment was deleted")
	}
}

func TestListPaymentsUnknownInvoice(t *testing.T) {
	f := newBillingFixture(t)
	invoice := invoiceFor(t, f, "100")

	payments, err := f.paymentService.ListByInvoice(f.ctx, f.userID, invoice.ID)
	if err != nil {
		t.Fatalf("ListByInvoice: %v", err)
	}
	if len(payments) != 0 {
		t.Errorf("len(payments) = %d, want 0", len(payments))
	}

	_, err = f.paymentService.ListByInvoice(f.ctx, f.userID, f.clientID)
	wantAppErrorCode(t, err, 404)
}
