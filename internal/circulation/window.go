package circulation

import (
	"strings"
	"time"

	"github.com/mrlokans/library/internal/apperr"
)

// Report triggers recorded in the audit trail.
const (
	TriggerAPI       = "api"
	TriggerCLI       = "cli"
	TriggerScheduled = "scheduled"
)

const dateLayout = "2006-01-02"

// ParseReportWindow parses report bounds given as YYYY-MM-DD or RFC 3339.
// A date-only end covers that whole day, so the window stays inclusive.
func ParseReportWindow(start, end string) (time.Time, time.Time, error) {
	from, _, err := parseBound(start, "start")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, dateOnly, err := parseBound(end, "end")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if dateOnly {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, apperr.Validation("start date must not be after end date")
	}
	return from, to, nil
}

func parseBound(value, name string) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, apperr.Validation(name + " date is required")
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, apperr.Validation("invalid " + name + " date, expected YYYY-MM-DD or RFC 3339")
}

// ParseDueDate parses a due date given as YYYY-MM-DD or RFC 3339.
// A date-only value is midnight UTC of that day.
func ParseDueDate(value string) (time.Time, error) {
	t, _, err := parseBound(value, "due")
	return t, err
}
