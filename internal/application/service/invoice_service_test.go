package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/davidkaruri/billify-api/pkg/apperror"
)

// billingFixture wires the document services over in-memory fakes with one
// tenant and one client ready to use.
type billingFixture struct {
	ctx      context.Context
	userID   uuid.UUID
	clientID uuid.UUID

	clients        *fakeClientRepo
	settings       *fakeSettingsRepo
	invoices       *fakeInvoiceRepo
	invoiceItems   *fakeInvoiceItemRepo
	payments       *fakePaymentRepo
	quotations     *fakeQuotationRepo
	quotationItems *fakeQuotationItemRepo
	recurrings     *fakeRecurringRepo
	recurringItems *fakeRecurringItemRepo

	invoiceService   *InvoiceService
	quotationService *QuotationService
	paymentService   *PaymentService
	recurringService *RecurringService
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()

	f := &billingFixture{
		ctx:            context.Background(),
		userID:         uuid.New(),
		clients:        newFakeClientRepo(),
		settings:       newFakeSettingsRepo(),
		invoiceItems:   newFakeInvoiceItemRepo(),
		payments:       newFakePaymentRepo(),
		quotationItems: newFakeQuotationItemRepo(),
		recurringItems: newFakeRecurringItemRepo(),
	}
	f.invoices = newFakeInvoiceRepo(f.invoiceItems)
	f.quotations = newFakeQuotationRepo(f.quotationItems)
	f.recurrings = newFakeRecurringRepo(f.recurringItems)
	f.clientID = f.clients.add(f.userID)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tx := fakeTransactor{}
	f.invoiceService = NewInvoiceService(f.invoices, f.invoiceItems, f.payments, f.clients, f.settings, tx)
	f.quotationService = NewQuotationService(f.quotations, f.quotationItems, f.clients, f.settings, f.invoiceService, tx)
	f.paymentService = NewPaymentService(f.payments, f.invoices, tx)
	f.recurringService = NewRecurringService(f.recurrings, f.recurringItems, f.clients, f.settings, f.invoiceService, tx, logger)
	return f
}

func item(name, qty, price string) DocumentItemInput {
	return DocumentItemInput{Name: name, Quantity: dec(qty), UnitPrice: dec(price)}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// issueToday returns the current day at UTC midnight. Status derivation
// compares due dates against the real clock, so any test asserting partial
// or sent needs an issue date whose due date has not passed yet.
func issueToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func wantAppErrorCode(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %d, got nil", code)
	}
	appErr := apperror.GetAppError(err)
	if appErr.Code != code {
		t.Fatalf("error code = %d (%s), want %d", appErr.Code, appErr.Message, code)
	}
	return appErr
}

func TestInvoiceCreate(t *testing.T) {
	f := newBillingFixture(t)

	issue := date(2025, 6, 1)
	invoice, err := f.invoiceService.Create(f.ctx, &CreateInvoiceInput{
		UserID:    f.userID,
		ClientID:  f.clientID,
		IssueDate: issue,
		Items: []DocumentItemInput{
			item("Design work", "2", "30"),
			item("Hosting", "1", "40"),
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if invoice.Number != "INV-0001" {
		t.Errorf("Number = %q, want INV-0001", invoice.Number)
	}
	if invoice.Status != enum.InvoiceStatusDraft {
		t.Errorf("Status = %v, want draft", invoice.Status)
	}
	if invoice.Currency != "USD" {
		t.Errorf("Currency = %q, want default USD", invoice.Currency)
	}
	if !invoice.TotalAmount.Equal(dec("100")) {
		t.Errorf("TotalAmount = %s, want 100", invoice.TotalAmount)
	}
	if !invoice.BalanceDue.Equal(dec("100")) {
		t.Errorf("BalanceDue = %s, want 100", invoice.BalanceDue)
	}
	if !invoice.AmountPaid.IsZero() {
		t.Errorf("AmountPaid = %s, want 0", invoice.AmountPaid)
	}
	// Default due days from settings
	if want := issue.AddDate(0, 0, 14); !invoice.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want %v", invoice.DueDate, want)
	}
	if len(invoice.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(invoice.Items))
	}
	if invoice.Items[0].SortOrder != 0 || invoice.Items[1].SortOrder != 1 {
		t.Errorf("items not in input order: %d, %d", invoice.Items[0].SortOrder, invoice.Items[1].SortOrder)
	}

	second, err := f.invoiceService.Create(f.ctx, &CreateInvoiceInput{
		UserID:    f.userID,
		ClientID:  f.clientID,
		IssueDate: issue,
		Items:     []DocumentItemInput{item("More work", "1", "10")},
	})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if second.Number != "INV-0002" {
		t.Errorf("second Number = %q, want INV-0002", second.Number)
	}
}

func TestInvoiceCreateValidation(t *testing.T) {
	f := newBillingFixture(t)
	issue := date(2025, 6, 1)

	t.Run("no items", func(t *testing.T) {
		_, err := f.invoiceService.Create(f.ctx, &CreateInvoiceInput{
			UserID: f.userID, ClientID: f.clientID, IssueDate: issue,
		})
		appErr := wantAppErrorCode(t, err, 422)
		if len(appErr.Errors) == 0 || appErr.Errors[0].Field != "items" {
			t.Errorf("field errors = %+v, want items", appErr.Errors)
		}
	})

	t.Run("due date before issue date", func(t *testing.T) {
		due := issue.AddDate(0, 0, -1)
		_, err := f.invoiceService.Create(f.ctx, &CreateInvoiceInput{
			UserID: f.userID, ClientID: f.clientID, IssueDate: issue, DueDate: &due,
			Items: []DocumentItemInput{item("Work", "1", "10")},
		})
		wantAppErrorCode(t, err, 422)
	})

	t.Run("unknown client", func(t *testing.T) {
		_, err := f.invoiceService.Create(f.ctx, &CreateInvoiceInput{
			UserID: f.userID, ClientID: uuid.New(), IssueDate: issue,
			Items: []DocumentItemInput{item("Work", "1", "10")},
		})
		wantAppErrorCode(t, err, 404)
	})

	t.Run("foreign currency without exchange rate", func(t *testing.T) {
		_, err := f.invoiceService.Create(f.ctx, &CreateInvoiceInput{
			UserID: f.userID, ClientID: f.clientID, IssueDate: issue, Currency: "EUR",
			Items: []DocumentItemInput{item("Work", "1", "10")},
		})
		wantAppErrorCode(t, err, 422)
	})

	t.Run("foreign currency with rate", func(t *testing.T) {
		rate := dec("1.08")
		invoice, err := f.invoiceService.Create(f.ctx, &CreateInvoiceInput{
			UserID: f.userID, ClientID: f.clientID, IssueDate: issue,
			Currency: "EUR", ExchangeRate: &rate,
			Items: []DocumentItemInput{item("Work", "1", "10")},
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if invoice.Currency != "EUR" || invoice.ExchangeRate == nil {
			t.Errorf("Currency = %q, ExchangeRate = %v", invoice.Currency, invoice.ExchangeRate)
		}
	})
}

func TestInvoicePaidIsImmutable(t *testing.T) {
	f := newBillingFixture(t)

	invoice, err := f.invoiceService.Create(f.ctx, &CreateInvoiceInput{
		UserID: f.userID, ClientID: f.clientID, IssueDate: date(2025, 6, 1),
		Items: []DocumentItemInput{item("Work", "1", "100")},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.paymentService.Record(f.ctx, &RecordPaymentInput{
		UserID: f.userID, InvoiceID: invoice.ID,
		Amount: dec("100"), PaymentDate: date(2025, 6, 2),
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	notes := "too late"
	_, err = f.invoiceService.Update(f.ctx, &UpdateInvoiceInput{
		UserID: f.userID, ID: invoice.ID, Notes: &notes,
	})
	wantAppErrorCode(t, err, 409)
}

func TestInvoiceUpdateCannotShrinkBelowPaid(t *testing.T) {
	f := newBillingFixture(t)

	invoice, err := f.invoiceService.Create(f.ctx, &CreateInvoiceInput{
		UserID: f.userID, ClientID: f.clientID, IssueDate: date(2025, 6, 1),
		Items: []DocumentItemInput{item("Work", "1", "100")},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.paymentService.Record(f.ctx, &RecordPaymentInput{
		UserID: f.userID, InvoiceID: invoice.ID,
		Amount: dec("60"), PaymentDate: date(2025, 6, 2),
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	_, err = f.invoiceService.Update(f.ctx, &UpdateInvoiceInput{
		UserID: f.userID, ID: invoice.ID,
		Items:    []DocumentItemInput{item("Work", "1", "50")},
		HasItems: true,
	})
	wantAppErrorCode(t, err, 409)

	// Shrinking down to exactly the paid amount settles the invoice
	updated, err := f.invoiceService.Update(f.ctx, &UpdateInvoiceInput{
		UserID: f.userID, ID: invoice.ID,
		Items:    []DocumentItemInput{item("Work", "1", "60")},
		HasItems: true,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != enum.InvoiceStatusPaid {
		t.Errorf("Status = %v, want paid", updated.Status)
	}
	if !updated.BalanceDue.IsZero() {
		t.Errorf("BalanceDue = %s, want 0", updated.BalanceDue)
	}
	if updated.PaidAt == nil {
		t.Error("PaidAt not stamped")
	}
}

func TestInvoiceSend(t *testing.T) {
	f := newBillingFixture(t)

	invoice, err := f.invoiceService.Create(f.ctx, &CreateInvoiceInput{
		UserID: f.userID, ClientID: f.clientID, IssueDate: issueToday(),
		Items: []DocumentItemInput{item("Work", "1", "100")},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sent, err := f.invoiceService.Send(f.ctx, f.userID, invoice.ID)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sent.Status != enum.InvoiceStatusSent {
		t.Errorf("Status = %v, want sent", sent.Status)
	}

	_, err = f.invoiceService.Send(f.ctx, f.userID, invoice.ID)
	wantAppErrorCode(t, err, 409)

	_, err = f.invoiceService.Send(f.ctx, f.userID, uuid.New())
	wantAppErrorCode(t, err, 404)
}

func TestInvoiceDeleteCascades(t *testing.T) {
	f := newBillingFixture(t)

	invoice, err := f.invoiceService.Create(f.ctx, &CreateInvoiceInput{
		UserID: f.userID, ClientID: f.clientID, IssueDate: date(2025, 6, 1),
		Items: []DocumentItemInput{item("Work", "1", "100")},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.paymentService.Record(f.ctx, &RecordPaymentInput{
		UserID: f.userID, InvoiceID: invoice.ID,
		Amount: dec("40"), PaymentDate: date(2025, 6, 2),
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if err := f.invoiceService.Delete(f.ctx, f.userID, invoice.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := f.invoiceService.GetByID(f.ctx, f.userID, invoice.ID); err == nil {
		t.Error("invoice still readable after delete")
	}
	sum, err := f.payments.SumByInvoice(f.ctx, invoice.ID, nil)
	if err != nil {
		t.Fatalf("SumByInvoice: %v", err)
	}
	if !sum.IsZero() {
		t.Errorf("payments left behind, sum = %s", sum)
	}
	left, _ := f.invoiceItems.GetByInvoiceID(f.ctx, invoice.ID)
	if len(left) != 0 {
		t.Errorf("%d items left behind", len(left))
	}
}

func TestInvoiceOwnerScoping(t *testing.T) {
	f := newBillingFixture(t)

	invoice, err := f.invoiceService.Create(f.ctx, &CreateInvoiceInput{
		UserID: f.userID, ClientID: f.clientID, IssueDate: date(2025, 6, 1),
		Items: []DocumentItemInput{item("Work", "1", "100")},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := f.invoiceService.GetByID(f.ctx, uuid.New(), invoice.ID); err == nil {
		t.Error("another tenant can read the invoice")
	}

	// Nil user is the super-admin scope
	got, err := f.invoiceService.GetByID(f.ctx, uuid.Nil, invoice.ID)
	if err != nil {
		t.Fatalf("GetByID as super-admin: %v", err)
	}
	if got.ID != invoice.ID {
		t.Errorf("got invoice %s, want %s", got.ID, invoice.ID)
	}
}
