package service

import (
	"fmt"
	"strconv"
	"time"
)

const (
	quotationSequenceWidth = 3
	invoiceSequenceWidth   = 4
)

// quotationScopePrefix builds the per-year numbering scope for quotations,
// e.g. "QUO-2024-". Sequences restart each year because the scan only
// considers numbers under the current year's prefix.
func quotationScopePrefix(prefix string, issueDate time.Time) string {
	return fmt.Sprintf("%s%d-", prefix, issueDate.Year())
}

// nextDocumentNumber increments the trailing digit run of the greatest
// existing number in the scope, or starts at 1. Width only pads; sequences
// past 999/9999 keep their natural length, numbers stay monotonic because
// the scan parses digits rather than comparing strings.
func nextDocumentNumber(last, prefix string, width int) string {
	seq := 1
	if len(last) > len(prefix) {
		if n, ok := trailingNumber(last[len(prefix):]); ok {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, width, seq)
}

// trailingNumber parses the digit run at the end of s
func trailingNumber(s string) (int, bool) {
	end := len(s)
	start := end
	for start > 0 && s[start-1] >= '0' && s[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
