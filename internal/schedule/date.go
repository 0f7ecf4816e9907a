// Package schedule is the recurrence core: date arithmetic, rule evaluation,
// instance generation and the aggregation helpers every view consumes. All
// functions are pure; the package never reads the wall clock.
package schedule

import "time"

// DateKeyLayout is the canonical calendar-date key. Keys are zero-padded so
// lexical and chronological order coincide.
const DateKeyLayout = "2006-01-02"

// FormatDateKey renders the local calendar fields of t as a date key.
func FormatDateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a date key into a local-midnight time. The zero time
// and false are returned for keys that don't parse.
func ParseDateKey(key string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SameDay compares calendar dates, ignoring any time-of-day component.
func SameDay(a, b time.Time) bool {
	return FormatDateKey(a) == FormatDateKey(b)
}

func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

func AddWeeks(t time.Time, weeks int) time.Time {
	return t.AddDate(0, 0, weeks*7)
}

// WeekStart returns the Sunday that starts the week containing t. Weekly
// interval alignment is anchored on these Sundays.
func WeekStart(t time.Time) time.Time {
	return AddDays(t, -int(t.Weekday()))
}

// dateOnly truncates t to its calendar date in its own location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// utcDate re-expresses the calendar fields of t at UTC midnight. Day and week
// differences are computed on these so a DST transition between two local
// midnights can never skew the division.
func utcDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the count of calendar days from a to b, negative when
// b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(utcDate(b).Sub(utcDate(a)) / (24 * time.Hour))
}

// MonthsBetween counts whole calendar months from a to b using year and
// month fields only.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// daysInMonth exploits time.Date normalization: day zero of the next month
// is the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
