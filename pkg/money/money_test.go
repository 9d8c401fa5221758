package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name          string
		qty           string
		price         string
		discount      string
		tax           string
		wantSubtotal  string
		wantDiscount  string
		wantAfterDisc string
		wantTax       string
		wantTotal     string
	}{
		{
			name: "worked example",
			qty:  "3", price: "100", discount: "10", tax: "5",
			wantSubtotal: "300", wantDiscount: "30", wantAfterDisc: "270",
			wantTax: "13.5", wantTotal: "283.5",
		},
		{
			name: "no discount no tax",
			qty:  "2", price: "25", discount: "0", tax: "0",
			wantSubtotal: "50", wantDiscount: "0", wantAfterDisc: "50",
			wantTax: "0", wantTotal: "50",
		},
		{
			name: "full discount",
			qty:  "1", price: "99.99", discount: "100", tax: "20",
			wantSubtotal: "99.99", wantDiscount: "99.99", wantAfterDisc: "0",
			wantTax: "0", wantTotal: "0",
		},
		{
			name: "fractional quantity",
			qty:  "1.5", price: "33.33", discount: "0", tax: "0",
			wantSubtotal: "50", wantDiscount: "0", wantAfterDisc: "50",
			wantTax: "0", wantTotal: "50",
		},
		{
			name: "rounds half away from zero at each step",
			qty:  "1", price: "10.005", discount: "0", tax: "0",
			wantSubtotal: "10.01", wantDiscount: "0", wantAfterDisc: "10.01",
			wantTax: "0", wantTotal: "10.01",
		},
		{
			name: "discount rounding feeds the tax step",
			qty:  "3", price: "0.10", discount: "50", tax: "10",
			// subtotal 0.30, discount 0.15, after 0.15, tax 0.015 -> 0.02
			wantSubtotal: "0.3", wantDiscount: "0.15", wantAfterDisc: "0.15",
			wantTax: "0.02", wantTotal: "0.17",
		},
		{
			name: "zero price",
			qty:  "10", price: "0", discount: "25", tax: "16",
			wantSubtotal: "0", wantDiscount: "0", wantAfterDisc: "0",
			wantTax: "0", wantTotal: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLine(dec(tt.qty), dec(tt.price), dec(tt.discount), dec(tt.tax))
			check := func(field string, got, want decimal.Decimal) {
				if !got.Equal(want) {
					t.Errorf("%s = %s, want %s", field, got, want)
				}
			}
			check("Subtotal", got.Subtotal, dec(tt.wantSubtotal))
			check("DiscountAmount", got.DiscountAmount, dec(tt.wantDiscount))
			check("AfterDiscount", got.AfterDiscount, dec(tt.wantAfterDisc))
			check("TaxAmount", got.TaxAmount, dec(tt.wantTax))
			check("LineTotal", got.LineTotal, dec(tt.wantTotal))
		})
	}
}

func TestComputeDocumentTotals(t *testing.T) {
	lines := []LineAmounts{
		ComputeLine(dec("3"), dec("100"), dec("10"), dec("5")),
		ComputeLine(dec("2"), dec("25"), dec("0"), dec("0")),
	}

	totals := ComputeDocumentTotals(lines)

	if !totals.Subtotal.Equal(dec("350")) {
		t.Errorf("Subtotal = %s, want 350", totals.Subtotal)
	}
	if !totals.DiscountTotal.Equal(dec("30")) {
		t.Errorf("DiscountTotal = %s, want 30", totals.DiscountTotal)
	}
	if !totals.TaxTotal.Equal(dec("13.5")) {
		t.Errorf("TaxTotal = %s, want 13.5", totals.TaxTotal)
	}
	if !totals.TotalAmount.Equal(dec("333.5")) {
		t.Errorf("TotalAmount = %s, want 333.5", totals.TotalAmount)
	}

	// total = subtotal - discount + tax must always reconcile
	want := totals.Subtotal.Sub(totals.DiscountTotal).Add(totals.TaxTotal)
	if !totals.TotalAmount.Equal(want) {
		t.Errorf("TotalAmount %s does not reconcile against %s", totals.TotalAmount, want)
	}
}

func TestComputeDocumentTotalsEmpty(t *testing.T) {
	totals := ComputeDocumentTotals(nil)
	if !totals.TotalAmount.IsZero() {
		t.Errorf("TotalAmount = %s, want 0", totals.TotalAmount)
	}
}

func TestComputeDocumentTotalsIdempotent(t *testing.T) {
	lines := []LineAmounts{
		ComputeLine(dec("7"), dec("19.99"), dec("12.5"), dec("8.25")),
		ComputeLine(dec("1"), dec("0.01"), dec("99"), dec("1")),
		ComputeLine(dec("250"), dec("3.33"), dec("0"), dec("16")),
	}

	first := ComputeDocumentTotals(lines)
	second := ComputeDocumentTotals(lines)

	if !first.Subtotal.Equal(second.Subtotal) ||
		!first.DiscountTotal.Equal(second.DiscountTotal) ||
		!first.TaxTotal.Equal(second.TaxTotal) ||
		!first.TotalAmount.Equal(second.TotalAmount) {
		t.Errorf("recomputation drifted: %+v vs %+v", first, second)
	}
}
