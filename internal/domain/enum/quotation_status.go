package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// QuotationStatus represents the lifecycle status of a quotation.
// "expired" is a display status: it is never set by a background job, only
// through an explicit status update once the expiry date has passed.
type QuotationStatus int

const (
	QuotationStatusDraft    QuotationStatus = 0
	QuotationStatusSent     QuotationStatus = 1
	QuotationStatusAccepted QuotationStatus = 2
	QuotationStatusRejected QuotationStatus = 3
	QuotationStatusExpired  QuotationStatus = 4
)

func (s QuotationStatus) String() string {
	return [...]string{"draft", "sent", "accepted", "rejected", "expired"}[s]
}

// Valid reports whether s is a known status value
func (s QuotationStatus) Valid() bool {
	return s >= QuotationStatusDraft && s <= QuotationStatusExpired
}

func (s QuotationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *QuotationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = QuotationStatus(i)
		return nil
	}
	switch str {
	case "draft":
		*s = QuotationStatusDraft
	case "sent":
		*s = QuotationStatusSent
	case "accepted":
		*s = QuotationStatusAccepted
	case "rejected":
		*s = QuotationStatusRejected
	case "expired":
		*s = QuotationStatusExpired
	}
	return nil
}

func (s QuotationStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *QuotationStatus) Scan(value interface{}) error {
	if value == nil {
		*s = QuotationStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = QuotationStatus(v)
	case int:
		*s = QuotationStatus(v)
	}
	return nil
}
