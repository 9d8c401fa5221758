package handler

import (
	"github.com/shopspring/decimal"

	"github.com/davidkaruri/billify-api/internal/application/service"
	"github.com/davidkaruri/billify-api/internal/domain/enum"
)

// DocumentItemRequest represents a line item in a quotation, invoice or
// recurring template request body
type DocumentItemRequest struct {
	Name            string          `json:"name" binding:"required"`
	Description     *string         `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
}

func toItemInputs(reqs []DocumentItemRequest) []service.DocumentItemInput {
	items := make([]service.DocumentItemInput, len(reqs))
	for i, r := range reqs {
		items[i] = service.DocumentItemInput{
			Name:            r.Name,
			Description:     r.Description,
			Quantity:        r.Quantity,
			UnitPrice:       r.UnitPrice,
			DiscountPercent: r.DiscountPercent,
			TaxPercent:      r.TaxPercent,
		}
	}
	return items
}

func parseQuotationStatus(s string) (enum.QuotationStatus, bool) {
	switch s {
	case "draft":
		return enum.QuotationStatusDraft, true
	case "sent":
		return enum.QuotationStatusSent, true
	case "accepted":
		return enum.QuotationStatusAccepted, true
	case "rejected":
		return enum.QuotationStatusRejected, true
	case "expired":
		return enum.QuotationStatusExpired, true
	}
	return 0, false
}

func parseInvoiceStatus(s string) (enum.InvoiceStatus, bool) {
	switch s {
	case "draft":
		return enum.InvoiceStatusDraft, true
	case "sent":
		return enum.InvoiceStatusSent, true
	case "partial":
		return enum.InvoiceStatusPartial, true
	case "overdue":
		return enum.InvoiceStatusOverdue, true
	case "paid":
		return enum.InvoiceStatusPaid, true
	}
	return 0, false
}
