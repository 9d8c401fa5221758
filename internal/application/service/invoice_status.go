package service

import (
	"time"

	"github.com/davidkaruri/billify-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DeriveInvoiceStatus is the single status rule applied after any change to
// an invoice's totals or payments. Every payment path calls this, so the
// derived status can never drift between create, update and delete.
//
//	paid >= total (total>0)  -> paid (terminal)
//	0 < paid < total         -> overdue when past due, else partial
//	paid == 0                -> overdue when past due, else the explicit
//	                            status the invoice already carries (draft/sent)
//
// A zero-total invoice never reaches paid: it would be born settled and
// immediately immutable before anything could be billed on it.
func DeriveInvoiceStatus(total, paid decimal.Decimal, dueDate, today time.Time, explicit enum.InvoiceStatus) enum.InvoiceStatus {
	if total.IsPositive() && paid.GreaterThanOrEqual(total) {
		return enum.InvoiceStatusPaid
	}

	pastDue := dueDate.Before(truncateToDay(today)) && total.Sub(paid).IsPositive()

	if paid.IsPositive() {
		if pastDue {
			return enum.InvoiceStatusOverdue
		}
		return enum.InvoiceStatusPartial
	}

	if pastDue {
		return enum.InvoiceStatusOverdue
	}

	// Unpaid and not past due: keep the explicit draft/sent status, but
	// never keep a derived status that no longer holds.
	switch explicit {
	case enum.InvoiceStatusDraft, enum.InvoiceStatusSent:
		return explicit
	default:
		return enum.InvoiceStatusSent
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
