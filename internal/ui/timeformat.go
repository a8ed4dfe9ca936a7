package ui

import (
	"fmt"
	"time"
)

var timeNow = time.Now

// FormatRelativeTime returns a compact description of how long ago t
// occurred, falling back to an absolute date after a week.
func FormatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	now := timeNow()
	if t.After(now) {
		return formatAbsoluteTime(t, now)
	}

	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	default:
		return formatAbsoluteTime(t, now)
	}
}

func formatAbsoluteTime(t, now time.Time) string {
	local := t.In(now.Location())
	if local.Year() == now.Year() {
		return local.Format("Jan 2")
	}
	return local.Format("Jan '06")
}

// FormatDuration renders d rounded for display.
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "0s"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Round(time.Second).String()
	}
}
