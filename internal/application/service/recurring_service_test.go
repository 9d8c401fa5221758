package service

import (
	"testing"
	"time"

	"github.com/davidkaruri/billify-api/internal/domain/entity"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
)

func recurringFor(t *testing.T, f *billingFixture, start time.Time, autoBill enum.AutoBillPolicy) *entity.RecurringInvoice {
	t.Helper()
	rec, err := f.recurringService.Create(f.ctx, &CreateRecurringInput{
		UserID:      f.userID,
		ClientID:    f.clientID,
		Frequency:   "monthly",
		StartDate:   start,
		DueDateDays: 14,
		AutoBill:    autoBill,
		Items:       []DocumentItemInput{item("Retainer", "1", "500")},
	})
	if err != nil {
		t.Fatalf("Create template: %v", err)
	}
	return rec
}

func TestRecurringCreateStartsStopped(t *testing.T) {
	f := newBillingFixture(t)
	rec := recurringFor(t, f, date(2025, 6, 1), enum.AutoBillEnabled)

	if rec.Status != enum.RecurringStatusStopped {
		t.Errorf("Status = %v, want stopped", rec.Status)
	}
	if rec.NextGenerationDate != nil {
		t.Error("NextGenerationDate set before Start")
	}
	if len(rec.Items) != 1 {
		t.Errorf("len(Items) = %d, want 1", len(rec.Items))
	}
}

func TestRecurringCreateValidation(t *testing.T) {
	f := newBillingFixture(t)
	start := date(2025, 6, 1)

	_, err := f.recurringService.Create(f.ctx, &CreateRecurringInput{
		UserID: f.userID, ClientID: f.clientID,
		Frequency: "fortnightly", StartDate: start, DueDateDays: 14,
		Items: []DocumentItemInput{item("Retainer", "1", "500")},
	})
	wantAppErrorCode(t, err, 422)

	end := start.AddDate(0, 0, -1)
	_, err = f.recurringService.Create(f.ctx, &CreateRecurringInput{
		UserID: f.userID, ClientID: f.clientID,
		Frequency: "monthly", StartDate: start, EndDate: &end, DueDateDays: 14,
		Items: []DocumentItemInput{item("Retainer", "1", "500")},
	})
	wantAppErrorCode(t, err, 422)
}

func TestRecurringDueDateDaysBounds(t *testing.T) {
	f := newBillingFixture(t)
	start := date(2025, 6, 1)

	create := func(days int) error {
		_, err := f.recurringService.Create(f.ctx, &CreateRecurringInput{
			UserID: f.userID, ClientID: f.clientID,
			Frequency: "monthly", StartDate: start, DueDateDays: days,
			Items: []DocumentItemInput{item("Retainer", "1", "500")},
		})
		return err
	}

	for _, days := range []int{0, 31, 90} {
		wantAppErrorCode(t, create(days), 422)
	}
	for _, days := range []int{1, 30} {
		if err := create(days); err != nil {
			t.Errorf("DueDateDays = %d rejected: %v", days, err)
		}
	}

	rec := recurringFor(t, f, start, enum.AutoBillEnabled)
	days := 31
	_, err := f.recurringService.Update(f.ctx, &UpdateRecurringInput{
		UserID: f.userID, ID: rec.ID, DueDateDays: &days,
	})
	wantAppErrorCode(t, err, 422)
}

func TestRecurringStartStop(t *testing.T) {
	f := newBillingFixture(t)
	rec := recurringFor(t, f, date(2025, 6, 1), enum.AutoBillEnabled)

	started, err := f.recurringService.Start(f.ctx, f.userID, rec.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if started.Status != enum.RecurringStatusActive {
		t.Errorf("Status = %v, want active", started.Status)
	}
	if started.NextGenerationDate == nil || !started.NextGenerationDate.Equal(rec.StartDate) {
		t.Errorf("NextGenerationDate = %v, want the start date %v", started.NextGenerationDate, rec.StartDate)
	}

	_, err = f.recurringService.Start(f.ctx, f.userID, rec.ID)
	wantAppErrorCode(t, err, 409)

	stopped, err := f.recurringService.Stop(f.ctx, f.userID, rec.ID)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if stopped.Status != enum.RecurringStatusStopped {
		t.Errorf("Status = %v, want stopped", stopped.Status)
	}
	if stopped.NextGenerationDate != nil {
		t.Error("NextGenerationDate kept after Stop")
	}

	_, err = f.recurringService.Stop(f.ctx, f.userID, rec.ID)
	wantAppErrorCode(t, err, 409)
}

func TestRecurringStartPastEndDate(t *testing.T) {
	f := newBillingFixture(t)

	end := date(2020, 1, 31)
	rec, err := f.recurringService.Create(f.ctx, &CreateRecurringInput{
		UserID: f.userID, ClientID: f.clientID,
		Frequency: "monthly", StartDate: date(2020, 1, 1), EndDate: &end, DueDateDays: 14,
		Items: []DocumentItemInput{item("Retainer", "1", "500")},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = f.recurringService.Start(f.ctx, f.userID, rec.ID)
	wantAppErrorCode(t, err, 422)
}

func TestGenerateDueInvoices(t *testing.T) {
	f := newBillingFixture(t)
	today := date(2025, 6, 15)

	rec := recurringFor(t, f, date(2025, 6, 10), enum.AutoBillEnabled)
	if _, err := f.recurringService.Start(f.ctx, f.userID, rec.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	generated, err := f.recurringService.GenerateDueInvoices(f.ctx, today)
	if err != nil {
		t.Fatalf("GenerateDueInvoices: %v", err)
	}
	if generated != 1 {
		t.Fatalf("generated = %d, want 1", generated)
	}

	invoices, _, err := f.invoiceService.List(f.ctx, f.userID, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(invoices) != 1 {
		t.Fatalf("len(invoices) = %d, want 1", len(invoices))
	}
	inv := invoices[0]
	if inv.Status != enum.InvoiceStatusSent {
		t.Errorf("Status = %v, want sent under the enabled policy", inv.Status)
	}
	if inv.RecurringInvoiceID == nil || *inv.RecurringInvoiceID != rec.ID {
		t.Error("generated invoice has no backlink to its template")
	}
	if want := date(2025, 6, 10); !inv.IssueDate.Equal(want) {
		t.Errorf("IssueDate = %v, want the scheduled date %v", inv.IssueDate, want)
	}
	if want := date(2025, 6, 24); !inv.DueDate.Equal(want) {
		t.Errorf("DueDate = %v, want issue + 14 days = %v", inv.DueDate, want)
	}

	after, err := f.recurringService.GetByID(f.ctx, f.userID, rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if after.NextGenerationDate == nil || !after.NextGenerationDate.Equal(date(2025, 7, 10)) {
		t.Errorf("NextGenerationDate = %v, want advanced to 2025-07-10", after.NextGenerationDate)
	}
	if after.LastGeneratedAt == nil {
		t.Error("LastGeneratedAt not stamped")
	}

	// Nothing further is due until the next occurrence
	generated, err = f.recurringService.GenerateDueInvoices(f.ctx, today)
	if err != nil {
		t.Fatalf("GenerateDueInvoices: %v", err)
	}
	if generated != 0 {
		t.Errorf("generated = %d on the second run, want 0", generated)
	}
}

func TestGenerateDueInvoicesOptIn(t *testing.T) {
	f := newBillingFixture(t)

	rec := recurringFor(t, f, date(2025, 6, 10), enum.AutoBillOptIn)
	if _, err := f.recurringService.Start(f.ctx, f.userID, rec.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	generated, err := f.recurringService.GenerateDueInvoices(f.ctx, date(2025, 6, 15))
	if err != nil {
		t.Fatalf("GenerateDueInvoices: %v", err)
	}
	if generated != 1 {
		t.Fatalf("generated = %d, want 1", generated)
	}

	invoices, _, _ := f.invoiceService.List(f.ctx, f.userID, nil)
	if len(invoices) != 1 || invoices[0].Status != enum.InvoiceStatusDraft {
		t.Errorf("opt_in policy should generate a draft for review, got %+v", invoices)
	}
}

func TestGenerateDueInvoicesDisabled(t *testing.T) {
	f := newBillingFixture(t)

	rec := recurringFor(t, f, date(2025, 6, 10), enum.AutoBillDisabled)
	if _, err := f.recurringService.Start(f.ctx, f.userID, rec.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	generated, err := f.recurringService.GenerateDueInvoices(f.ctx, date(2025, 6, 15))
	if err != nil {
		t.Fatalf("GenerateDueInvoices: %v", err)
	}
	if generated != 0 {
		t.Errorf("generated = %d under the disabled policy, want 0", generated)
	}
	invoices, _, _ := f.invoiceService.List(f.ctx, f.userID, nil)
	if len(invoices) != 0 {
		t.Errorf("len(invoices) = %d, want 0", len(invoices))
	}

	// The schedule anchor stays where it was
	after, _ := f.recurringService.GetByID(f.ctx, f.userID, rec.ID)
	if after.NextGenerationDate == nil || !after.NextGenerationDate.Equal(date(2025, 6, 10)) {
		t.Errorf("NextGenerationDate = %v, want unchanged 2025-06-10", after.NextGenerationDate)
	}
}

func TestGenerateRetiresPastEndDate(t *testing.T) {
	f := newBillingFixture(t)

	end := date(2025, 6, 20)
	rec, err := f.recurringService.Create(f.ctx, &CreateRecurringInput{
		UserID: f.userID, ClientID: f.clientID,
		Frequency: "monthly", StartDate: date(2025, 6, 10), EndDate: &end, DueDateDays: 14,
		AutoBill: enum.AutoBillEnabled,
		Items:    []DocumentItemInput{item("Retainer", "1", "500")},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := f.recurringService.Start(f.ctx, f.userID, rec.ID); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// First run generates the June invoice; the July date falls past the
	// end date, so the template retires itself.
	generated, err := f.recurringService.GenerateDueInvoices(f.ctx, date(2025, 6, 15))
	if err != nil {
		t.Fatalf("GenerateDueInvoices: %v", err)
	}
	if generated != 1 {
		t.Fatalf("generated = %d, want 1", generated)
	}

	after, err := f.recurringService.GetByID(f.ctx, f.userID, rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if after.Status != enum.RecurringStatusStopped {
		t.Errorf("Status = %v, want stopped after the end date", after.Status)
	}
	if after.NextGenerationDate != nil {
		t.Errorf("NextGenerationDate = %v, want cleared", after.NextGenerationDate)
	}
}

func TestPreviewSchedule(t *testing.T) {
	f := newBillingFixture(t)
	// The preview drops occurrences that already passed, so anchor the
	// template well in the future.
	start := date(2100, 6, 10)
	rec := recurringFor(t, f, start, enum.AutoBillEnabled)

	occurrences, err := f.recurringService.PreviewSchedule(f.ctx, f.userID, rec.ID, 3)
	if err != nil {
		t.Fatalf("PreviewSchedule: %v", err)
	}
	if len(occurrences) != 3 {
		t.Fatalf("len(occurrences) = %d, want 3", len(occurrences))
	}
	if !occurrences[0].IssueDate.Equal(start) {
		t.Errorf("first IssueDate = %v, want the start date", occurrences[0].IssueDate)
	}
	if !occurrences[1].IssueDate.Equal(date(2100, 7, 10)) {
		t.Errorf("second IssueDate = %v, want one month later", occurrences[1].IssueDate)
	}

	// Out-of-range counts fall back to the default preview length
	occurrences, err = f.recurringService.PreviewSchedule(f.ctx, f.userID, rec.ID, 0)
	if err != nil {
		t.Fatalf("PreviewSchedule: %v", err)
	}
	if len(occurrences) != 6 {
		t.Errorf("len(occurrences) = %d, want the default 6", len(occurrences))
	}
}
