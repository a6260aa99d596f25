package queue

import (
	"fmt"
	"time"

	"github.com/gestorvip/fila/internal/models"
)

// DefaultOverdueThreshold is how long a client may wait before being
// flagged, unless the record carries its own duration.
const DefaultOverdueThreshold = 2 * time.Hour

// ExpiredText is the countdown marker once the threshold has passed.
const ExpiredText = "Tempo esgotado"

// Threshold resolves the overdue duration for one record.
func Threshold(c models.Client, def time.Duration) time.Duration {
	if c.TestDurationMs != nil {
		return time.Duration(*c.TestDurationMs) * time.Millisecond
	}
	return def
}

// IsOverdue reports whether a pending record has waited at or past its
// threshold. Called records are never overdue, whatever their age.
func IsOverdue(c models.Client, now time.Time, def time.Duration) bool {
	if c.Status != models.StatusPending {
		return false
	}
	return now.UnixMilli()-c.CreatedAt >= Threshold(c, def).Milliseconds()
}

// RemainingText renders the countdown until the threshold for a pending
// record: "Xh Ymin" above an hour, "Ymin" below, ExpiredText once elapsed.
// Called records get an empty string.
func RemainingText(c models.Client, now time.Time, def time.Duration) string {
	if c.Status != models.StatusPending {
		return ""
	}

	remaining := Threshold(c, def).Milliseconds() - (now.UnixMilli() - c.CreatedAt)
	if remaining <= 0 {
		return ExpiredText
	}

	mins := remaining / 60000
	hrs := mins / 60
	if hrs > 0 {
		return fmt.Sprintf("%dh %dmin", hrs, mins%60)
	}
	return fmt.Sprintf("%dmin", mins)
}
