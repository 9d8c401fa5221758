package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidkaruri/billify-api/internal/domain/enum"
)

func TestDeriveInvoiceStatus(t *testing.T) {
	today := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)

	tests := []struct {
		name     string
		total    string
		paid     string
		dueDate  time.Time
		explicit enum.InvoiceStatus
		want     enum.InvoiceStatus
	}{
		{
			name:  "fully paid",
			total: "100", paid: "100", dueDate: tomorrow,
			explicit: enum.InvoiceStatusSent, want: enum.InvoiceStatusPaid,
		},
		{
			name:  "paid wins over past due",
			total: "100", paid: "100", dueDate: yesterday,
			explicit: enum.InvoiceStatusSent, want: enum.InvoiceStatusPaid,
		},
		{
			name:  "overpaid still counts as paid",
			total: "100", paid: "120", dueDate: tomorrow,
			explicit: enum.InvoiceStatusSent, want: enum.InvoiceStatusPaid,
		},
		{
			name:  "partial before due date",
			total: "100", paid: "60", dueDate: tomorrow,
			explicit: enum.InvoiceStatusSent, want: enum.InvoiceStatusPartial,
		},
		{
			name:  "partial past due becomes overdue",
			total: "100", paid: "60", dueDate: yesterday,
			explicit: enum.InvoiceStatusSent, want: enum.InvoiceStatusOverdue,
		},
		{
			name:  "unpaid past due becomes overdue",
			total: "100", paid: "0", dueDate: yesterday,
			explicit: enum.InvoiceStatusSent, want: enum.InvoiceStatusOverdue,
		},
		{
			name:  "due today is not past due",
			total: "100", paid: "0", dueDate: today,
			explicit: enum.InvoiceStatusSent, want: enum.InvoiceStatusSent,
		},
		{
			name:  "unpaid draft stays draft",
			total: "100", paid: "0", dueDate: tomorrow,
			explicit: enum.InvoiceStatusDraft, want: enum.InvoiceStatusDraft,
		},
		{
			name:  "draft past due becomes overdue",
			total: "100", paid: "0", dueDate: yesterday,
			explicit: enum.InvoiceStatusDraft, want: enum.InvoiceStatusOverdue,
		},
		{
			name:  "stale derived status falls back to sent",
			total: "100", paid: "0", dueDate: tomorrow,
			explicit: enum.InvoiceStatusPartial, want: enum.InvoiceStatusSent,
		},
		{
			name:  "zero total never reaches paid",
			total: "0", paid: "0", dueDate: tomorrow,
			explicit: enum.InvoiceStatusDraft, want: enum.InvoiceStatusDraft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveInvoiceStatus(dec(tt.total), dec(tt.paid), tt.dueDate, today, tt.explicit)
			if got != tt.want {
				t.Errorf("DeriveInvoiceStatus = %v, want %v", got, tt.want)
			}
		})
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
