package service

import (
	"fmt"

	"github.com/davidkaruri/billify-api/pkg/apperror"
	"github.com/davidkaruri/billify-api/pkg/money"
	"github.com/shopspring/decimal"
)

// DocumentItemInput is one requested line item for a quotation, invoice or
// recurring template. Values are snapshotted; nothing references catalog rows.
type DocumentItemInput struct {
	Name            string
	Description     *string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// validateDocumentItems checks the item set and per-item ranges, reporting
// each offence with its item index so a UI can highlight the exact row.
func validateDocumentItems(items []DocumentItemInput) []apperror.FieldError {
	var fieldErrors []apperror.FieldError
	if len(items) == 0 {
		return []apperror.FieldError{{Field: "items", Message: "at least one item is required"}}
	}
	for i, item := range items {
		field := func(name string) string { return fmt.Sprintf("items[%d].%s", i, name) }
		if item.Name == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field("name"), Message: "is required"})
		}
		if !item.Quantity.IsPositive() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field("quantity"), Message: "must be greater than zero"})
		}
		if item.UnitPrice.IsNegative() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field("unit_price"), Message: "must not be negative"})
		}
		if item.DiscountPercent.IsNegative() || item.DiscountPercent.GreaterThan(oneHundred) {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field("discount_percent"), Message: "must be between 0 and 100"})
		}
		if item.TaxPercent.IsNegative() || item.TaxPercent.GreaterThan(oneHundred) {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: field("tax_percent"), Message: "must be between 0 and 100"})
		}
	}
	return fieldErrors
}

// computeItemAmounts runs the pricing cascade for each item in order
func computeItemAmounts(items []DocumentItemInput) []money.LineAmounts {
	amounts := make([]money.LineAmounts, len(items))
	for i, item := range items {
		amounts[i] = money.ComputeLine(item.Quantity, item.UnitPrice, item.DiscountPercent, item.TaxPercent)
	}
	return amounts
}
