package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus int

const (
	InvoiceStatusDraft   InvoiceStatus = 0
	InvoiceStatusSent    InvoiceStatus = 1
	InvoiceStatusPartial InvoiceStatus = 2
	InvoiceStatusOverdue InvoiceStatus = 3
	InvoiceStatusPaid    InvoiceStatus = 4
)

func (s InvoiceStatus) String() string {
	return [...]string{"draft", "sent", "partial", "overdue", "paid"}[s]
}

// Valid reports whether s is a known status value
func (s InvoiceStatus) Valid() bool {
	return s >= InvoiceStatusDraft && s <= InvoiceStatusPaid
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	switch str {
	case "draft":
		*s = InvoiceStatusDraft
	case "sent":
		*s = InvoiceStatusSent
	case "partial":
		*s = InvoiceStatusPartial
	case "overdue":
		*s = InvoiceStatusOverdue
	case "paid":
		*s = InvoiceStatusPaid
	}
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	}
	return nil
}
