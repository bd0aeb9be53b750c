package utils

import (
	"fmt"
	"time"
)

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// TimeAgo renders an elapsed-time label for activity feeds: "just now",
// minutes, hours, days, and beyond a week the absolute date.
func TimeAgo(t, now time.Time) string {
	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return plural(int(elapsed.Minutes()), "minute")
	case elapsed < 24*time.Hour:
		return plural(int(elapsed.Hours()), "hour")
	case elapsed < 7*24*time.Hour:
		return plural(int(elapsed.Hours()/24), "day")
	default:
		return t.Format("02 Jan 2006")
	}
}
