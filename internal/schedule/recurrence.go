package schedule

import (
	"time"

	"taskdesk/internal/models"
)

// RuleMatches decides whether a rule anchored at startDate produces an
// occurrence on date. It is a pure function of the rule and the candidate,
// independent of any window. Unrecognized rule types never match.
func RuleMatches(rule models.Recurrence, startDate, date time.Time) bool {
	switch rule.Type {
	case models.RecurrenceNone:
		return SameDay(startDate, date)

	case models.RecurrenceDaily:
		days := DaysBetween(startDate, date)
		if days < 0 || days%rule.EffectiveInterval() != 0 {
			return false
		}
		// A weekday mask narrows the cadence: both constraints apply.
		if len(rule.DaysOfWeek) == 0 {
			return true
		}
		return weekdaySelected(rule.DaysOfWeek, date.Weekday())

	case models.RecurrenceWeekly:
		selected := rule.DaysOfWeek
		if len(selected) == 0 {
			// Empty set falls back to the start date's own weekday.
			selected = []int{int(startDate.Weekday())}
		}
		weeks := DaysBetween(WeekStart(startDate), WeekStart(date)) / 7
		if weeks < 0 || weeks%rule.EffectiveInterval() != 0 {
			return false
		}
		return weekdaySelected(selected, date.Weekday())

	case models.RecurrenceMonthly:
		months := MonthsBetween(startDate, date)
		if months < 0 || months%rule.EffectiveInterval() != 0 {
			return false
		}
		target := rule.DayOfMonth
		if target < 1 {
			target = startDate.Day()
		}
		// Months shorter than the target day produce no occurrence at all:
		// day 31 in February is skipped, not clamped to month end.
		return date.Day() == target

	default:
		return false
	}
}

func weekdaySelected(selected []int, weekday time.Weekday) bool {
	for _, d := range selected {
		if d == int(weekday) {
			return true
		}
	}
	return false
}
