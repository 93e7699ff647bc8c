package timeutil

import (
	"fmt"
	"time"
)

// Relative converts a timestamp to a human-readable relative string:
// "Just now", "5 minutes ago", "3 hours ago", "2 days ago", and past a
// week the short date ("Jan 02").
func Relative(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	switch {
	case diff > 7*24*time.Hour:
		return t.Format("Jan 02")
	case diff >= 24*time.Hour:
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	case diff >= time.Hour:
		hours := int(diff.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case diff >= time.Minute:
		minutes := int(diff.Minutes())
		return fmt.Sprintf("%d minute%s ago", minutes, plural(minutes))
	default:
		return "Just now"
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
