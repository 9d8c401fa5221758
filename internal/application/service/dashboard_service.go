package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/davidkaruri/billify-api/internal/domain/repository"
)

// DashboardService aggregates receivable figures for the dashboard
type DashboardService struct {
	invoiceRepo repository.InvoiceRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(invoiceRepo repository.InvoiceRepository) *DashboardService {
	return &DashboardService{invoiceRepo: invoiceRepo}
}

// Summary returns outstanding, overdue and paid-this-month totals together
// with per-status invoice counts. Amounts are summed as stored, in each
// invoice's own currency.
func (s *DashboardService) Summary(ctx context.Context, userID uuid.UUID) (*repository.InvoiceSummary, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return s.invoiceRepo.Summary(ctx, userID, monthStart)
}
