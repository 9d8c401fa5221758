package recurrence

import "time"

// Frequency is how often a recurring invoice materializes.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnually  Frequency = "annually"
)

// ParseFrequency returns the Frequency for s, or false when s is not one.
func ParseFrequency(s string) (Frequency, bool) {
	switch Frequency(s) {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnually:
		return Frequency(s), true
	}
	return "", false
}

func (f Frequency) String() string {
	return string(f)
}

// NextDate returns the next occurrence after from for the given frequency.
// Month-based frequencies clamp to the last day of the target month when the
// source day does not exist there, so Jan 31 steps to Feb 28 (29 in leap
// years) and Feb 29 steps annually to the following Feb 28.
func NextDate(freq Frequency, from time.Time) time.Time {
	switch freq {
	case FrequencyDaily:
		return from.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return addMonthsClamped(from, 1)
	case FrequencyQuarterly:
		return addMonthsClamped(from, 3)
	case FrequencyAnnually:
		return addMonthsClamped(from, 12)
	}
	return from
}

func addMonthsClamped(from time.Time, months int) time.Time {
	year, month, day := from.Date()
	next := time.Date(year, month+time.Month(months), day,
		from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
	if next.Day() != day {
		// day overflowed past the end of the target month; day 0 of the
		// following month is that month's last day
		next = time.Date(year, month+time.Month(months)+1, 0,
			from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
	}
	return next
}

// Occurrence is one planned generation: the invoice's issue date and the due
// date derived from it.
type Occurrence struct {
	IssueDate time.Time
	DueDate   time.Time
}

// Preview returns up to count future occurrences starting at from, stepping
// by freq, stopping once end (when set) is passed. Occurrences before today
// are skipped without counting. Used for forward-looking display only.
func Preview(freq Frequency, from time.Time, end *time.Time, dueDays, count int, today time.Time) []Occurrence {
	var out []Occurrence
	date := from
	for len(out) < count {
		if end != nil && date.After(*end) {
			break
		}
		if !date.Before(today) {
			out = append(out, Occurrence{
				IssueDate: date,
				DueDate:   date.AddDate(0, 0, dueDays),
			})
		}
		next := NextDate(freq, date)
		if !next.After(date) {
			break
		}
		date = next
	}
	return out
}
