package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"USD", true},
		{"EUR", true},
		{"KES", true},
		{"usd", false},
		{"Usd", false},
		{"US", false},
		{"USDX", false},
		{"", false},
		{"U$D", false},
		{"U1D", false},
	}
	for _, tt := range tests {
		if got := ValidCode(tt.code); got != tt.want {
			t.Errorf("ValidCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestCheckExchangeRate(t *testing.T) {
	rate := func(s string) *decimal.Decimal {
		d, _ := decimal.NewFromString(s)
		return &d
	}

	tests := []struct {
		name    string
		doc     string
		base    string
		rate    *decimal.Decimal
		wantErr bool
	}{
		{"base currency without rate", "USD", "USD", nil, false},
		{"base currency with rate", "USD", "USD", rate("1"), true},
		{"foreign currency with rate", "EUR", "USD", rate("1.08"), false},
		{"foreign currency without rate", "EUR", "USD", nil, true},
		{"foreign currency zero rate", "EUR", "USD", rate("0"), true},
		{"foreign currency negative rate", "EUR", "USD", rate("-0.5"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckExchangeRate(tt.doc, tt.base, tt.rate)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckExchangeRate(%s, %s) error = %v, wantErr %v", tt.doc, tt.base, err, tt.wantErr)
			}
		})
	}
}
