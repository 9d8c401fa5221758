package enum

// PaymentMethod is how a payment was made. Stored as a plain string column;
// a nil *PaymentMethod means the method was not recorded.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodOther        PaymentMethod = "other"
)

// Valid reports whether m is a known payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCreditCard,
		PaymentMethodCheck, PaymentMethodOther:
		return true
	}
	return false
}

func (m PaymentMethod) String() string {
	return string(m)
}
