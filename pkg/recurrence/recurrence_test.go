package recurrence

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDate(t *testing.T) {
	tests := []struct {
		name string
		freq Frequency
		from time.Time
		want time.Time
	}{
		{"daily", FrequencyDaily, day(2024, time.March, 15), day(2024, time.March, 16)},
		{"daily across month end", FrequencyDaily, day(2024, time.January, 31), day(2024, time.February, 1)},
		{"weekly", FrequencyWeekly, day(2024, time.March, 25), day(2024, time.April, 1)},
		{"monthly", FrequencyMonthly, day(2024, time.March, 15), day(2024, time.April, 15)},
		{"monthly jan31 leap year", FrequencyMonthly, day(2024, time.January, 31), day(2024, time.February, 29)},
		{"monthly jan31 non-leap", FrequencyMonthly, day(2023, time.January, 31), day(2023, time.February, 28)},
		{"monthly mar31 to apr30", FrequencyMonthly, day(2024, time.March, 31), day(2024, time.April, 30)},
		{"monthly feb29 keeps day when possible", FrequencyMonthly, day(2024, time.February, 29), day(2024, time.March, 29)},
		{"quarterly", FrequencyQuarterly, day(2024, time.January, 15), day(2024, time.April, 15)},
		{"quarterly nov30 to feb28", FrequencyQuarterly, day(2023, time.November, 30), day(2024, time.February, 29)},
		{"annually", FrequencyAnnually, day(2024, time.June, 1), day(2025, time.June, 1)},
		{"annually feb29 to feb28", FrequencyAnnually, day(2024, time.February, 29), day(2025, time.February, 28)},
		{"year rollover", FrequencyMonthly, day(2023, time.December, 31), day(2024, time.January, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDate(tt.freq, tt.from)
			if !got.Equal(tt.want) {
				t.Errorf("NextDate(%s, %s) = %s, want %s",
					tt.freq, tt.from.Format("2006-01-02"), got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestParseFrequency(t *testing.T) {
	for _, valid := range []string{"daily", "weekly", "monthly", "quarterly", "annually"} {
		if _, ok := ParseFrequency(valid); !ok {
			t.Errorf("ParseFrequency(%q) not accepted", valid)
		}
	}
	for _, invalid := range []string{"", "yearly", "Monthly", "biweekly"} {
		if _, ok := ParseFrequency(invalid); ok {
			t.Errorf("ParseFrequency(%q) unexpectedly accepted", invalid)
		}
	}
}

func TestPreview(t *testing.T) {
	today := day(2024, time.June, 1)

	t.Run("steps monthly with due days", func(t *testing.T) {
		got := Preview(FrequencyMonthly, day(2024, time.June, 10), nil, 14, 3, today)
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		if !got[0].IssueDate.Equal(day(2024, time.June, 10)) {
			t.Errorf("first issue = %s", got[0].IssueDate)
		}
		if !got[0].DueDate.Equal(day(2024, time.June, 24)) {
			t.Errorf("first due = %s", got[0].DueDate)
		}
		if !got[2].IssueDate.Equal(day(2024, time.August, 10)) {
			t.Errorf("third issue = %s", got[2].IssueDate)
		}
	})

	t.Run("stops at end date", func(t *testing.T) {
		end := day(2024, time.July, 31)
		got := Preview(FrequencyMonthly, day(2024, time.June, 10), &end, 7, 10, today)
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
	})

	t.Run("skips dates before today", func(t *testing.T) {
		got := Preview(FrequencyMonthly, day(2024, time.April, 5), nil, 7, 2, today)
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}
		if !got[0].IssueDate.Equal(day(2024, time.June, 5)) {
			t.Errorf("first issue = %s, want 2024-06-05", got[0].IssueDate.Format("2006-01-02"))
		}
	})

	t.Run("empty when range entirely past", func(t *testing.T) {
		end := day(2024, time.May, 1)
		got := Preview(FrequencyWeekly, day(2024, time.April, 1), &end, 7, 5, today)
		if len(got) != 0 {
			t.Fatalf("len = %d, want 0", len(got))
		}
	})
}
