package currency

import (
	"github.com/davidkaruri/billify-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// ValidCode reports whether code looks like an ISO-4217 currency code:
// exactly 3 uppercase ASCII letters.
func ValidCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

// CheckExchangeRate enforces the exchange-rate presence rule for a document:
// a rate must be present and positive when the document currency differs
// from the tenant's base currency, and must be absent when they match.
func CheckExchangeRate(documentCurrency, baseCurrency string, rate *decimal.Decimal) error {
	if documentCurrency == baseCurrency {
		if rate != nil {
			return apperror.NewFieldValidationError("exchange_rate",
				"must not be set when the document currency equals the base currency")
		}
		return nil
	}
	if rate == nil {
		return apperror.NewFieldValidationError("exchange_rate",
			"is required when the document currency differs from the base currency")
	}
	if !rate.IsPositive() {
		return apperror.NewFieldValidationError("exchange_rate", "must be greater than zero")
	}
	return nil
}
