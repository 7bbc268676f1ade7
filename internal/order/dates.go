package order

import (
	"fmt"
	"time"
)

// courseCycleAnchor is a known cohort start. Cohorts begin every four weeks
// on a Monday at 09:00 UTC.
var courseCycleAnchor = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

const courseCycle = 28 * 24 * time.Hour

// NextCourseStartDate returns the first cohort start strictly after now.
func NextCourseStartDate(now time.Time) time.Time {
	elapsed := now.Sub(courseCycleAnchor)
	if elapsed < 0 {
		return courseCycleAnchor
	}
	cycles := elapsed/courseCycle + 1
	return courseCycleAnchor.Add(cycles * courseCycle)
}

// NextMasterclassDate returns the first Saturday of the next month at
// 10:00 UTC. If the first Saturday of the current month is still ahead,
// that one is used instead.
func NextMasterclassDate(now time.Time) time.Time {
	candidate := firstSaturday(now.Year(), now.Month())
	if candidate.After(now) {
		return candidate
	}
	next := now.AddDate(0, 1, -now.Day()+1)
	return firstSaturday(next.Year(), next.Month())
}

func firstSaturday(year int, month time.Month) time.Time {
	d := time.Date(year, month, 1, 10, 0, 0, 0, time.UTC)
	offset := (int(time.Saturday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}

// FormatDateWithOrdinal renders a date as "Monday, January 2nd 2026" for
// email copy.
func FormatDateWithOrdinal(t time.Time) string {
	day := t.Day()
	suffix := "th"
	switch {
	case day%10 == 1 && day != 11:
		suffix = "st"
	case day%10 == 2 && day != 12:
		suffix = "nd"
	case day%10 == 3 && day != 13:
		suffix = "rd"
	}
	return fmt.Sprintf("%s, %s %d%s %d", t.Weekday(), t.Month(), day, suffix, t.Year())
}
