package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineAmounts holds the computed amounts for a single line item.
// Every field is rounded to 2 decimal places.
type LineAmounts struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	AfterDiscount  decimal.Decimal
	TaxAmount      decimal.Decimal
	LineTotal      decimal.Decimal
}

// DocumentTotals holds the aggregate amounts for a document.
type DocumentTotals struct {
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	TotalAmount   decimal.Decimal
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeLine applies the discount-then-tax cascade for one line item.
// Each intermediate amount is rounded before the next step so that stored
// line totals and any later recomputation agree exactly. Inputs are assumed
// to be range-checked by the caller (quantity > 0, price >= 0, percentages
// in [0,100]).
func ComputeLine(quantity, unitPrice, discountPercent, taxPercent decimal.Decimal) LineAmounts {
	subtotal := Round2(quantity.Mul(unitPrice))
	discount := Round2(subtotal.Mul(discountPercent).Div(hundred))
	afterDiscount := Round2(subtotal.Sub(discount))
	tax := Round2(afterDiscount.Mul(taxPercent).Div(hundred))

	return LineAmounts{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		AfterDiscount:  afterDiscount,
		TaxAmount:      tax,
		LineTotal:      Round2(afterDiscount.Add(tax)),
	}
}

// ComputeDocumentTotals sums per-line amounts into document totals.
// Accumulation happens on the already-rounded line amounts, so recomputing
// from the same item set always yields identical totals.
func ComputeDocumentTotals(lines []LineAmounts) DocumentTotals {
	var subtotal, discountTotal, taxTotal decimal.Decimal
	for _, line := range lines {
		subtotal = subtotal.Add(line.Subtotal)
		discountTotal = discountTotal.Add(line.DiscountAmount)
		taxTotal = taxTotal.Add(line.TaxAmount)
	}
	return DocumentTotals{
		Subtotal:      Round2(subtotal),
		DiscountTotal: Round2(discountTotal),
		TaxTotal:      Round2(taxTotal),
		TotalAmount:   Round2(subtotal.Sub(discountTotal).Add(taxTotal)),
	}
}
