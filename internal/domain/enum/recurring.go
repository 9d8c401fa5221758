package enum

// RecurringStatus is the run state of a recurring-invoice template.
type RecurringStatus string

const (
	RecurringStatusStopped RecurringStatus = "stopped"
	RecurringStatusActive  RecurringStatus = "active"
)

func (s RecurringStatus) String() string {
	return string(s)
}

// AutoBillPolicy controls what the generation job does with a due template.
type AutoBillPolicy string

const (
	// AutoBillDisabled gates generation off entirely: the job neither
	// produces an invoice nor advances the schedule.
	AutoBillDisabled AutoBillPolicy = "disabled"
	// AutoBillEnabled generates invoices directly in sent status.
	AutoBillEnabled AutoBillPolicy = "enabled"
	// AutoBillOptIn generates draft invoices for manual review.
	AutoBillOptIn AutoBillPolicy = "opt_in"
)

// Valid reports whether p is a known policy
func (p AutoBillPolicy) Valid() bool {
	switch p {
	case AutoBillDisabled, AutoBillEnabled, AutoBillOptIn:
		return true
	}
	return false
}

func (p AutoBillPolicy) String() string {
	return string(p)
}
