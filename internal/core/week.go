// Package core provides the scorekeeper domain types and the weekly
// window arithmetic used for rating aggregation.
package core

import "time"

// WeekStart returns the most recent Monday 00:00:00 UTC at or before t.
// This is the lower bound of the weekly rating window: records at or
// after the boundary belong to the current week, everything earlier is
// excluded entirely.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	// time.Weekday counts Sunday as 0; the window rule counts Monday as 0.
	days := (int(t.Weekday()) + 6) % 7
	year, month, day := t.AddDate(0, 0, -days).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
