package ticket

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// IssueRequest describes one batch of tickets.
type IssueRequest struct {
	OwnerID     uint
	PurchaseID  uint
	Count       int
	ValidFrom   time.Time
	ValidUntil  time.Time
	UnitPrice   int64
	UnitSubsidy int64
}

const sequenceWidth = 5

// NumberPrefix returns the "YYYYMM-" prefix for tickets issued at t.
func NumberPrefix(t time.Time) string {
	return t.Format("200601") + "-"
}

// FormatNumber renders the seq-th number of prefix.
func FormatNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s%0*d", prefix, sequenceWidth, seq)
}

// NextSequence returns the sequence that follows last. An empty last starts at 1.
func NextSequence(prefix, last string) (int, error) {
	if last == "" {
		return 1, nil
	}
	if !strings.HasPrefix(last, prefix) {
		return 0, fmt.Errorf("ticket number %q does not start with %q", last, prefix)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
	if err != nil {
		return 0, fmt.Errorf("malformed ticket number %q: %w", last, err)
	}
	return n + 1, nil
}
