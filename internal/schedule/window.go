package schedule

import "time"

// Window is an inclusive date range over which instances are requested.
type Window struct {
	Start time.Time
	End   time.Time
}

// View-specific ranges, tuned so each screen generates only the instances it
// can actually show. A dashboard never needs a year of occurrences.
const (
	dashboardDaysBack    = 1
	dashboardDaysForward = 14

	calendarDaysBack    = 7
	calendarDaysForward = 42

	listDaysForward = 7
)

// DashboardWindow covers yesterday through two weeks out from the reference
// date.
func DashboardWindow(ref time.Time) Window {
	ref = dateOnly(ref)
	return Window{
		Start: AddDays(ref, -dashboardDaysBack),
		End:   AddDays(ref, dashboardDaysForward),
	}
}

// CalendarWindow covers the month containing ref, padded with the adjacent
// days a six-week month grid displays.
func CalendarWindow(ref time.Time) Window {
	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	monthEnd := time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, ref.Location())
	return Window{
		Start: AddDays(monthStart, -calendarDaysBack),
		End:   AddDays(monthEnd, calendarDaysForward),
	}
}

// ListWindow covers the reference date and the following week, enough for an
// upcoming-tasks list with no history.
func ListWindow(ref time.Time) Window {
	ref = dateOnly(ref)
	return Window{
		Start: ref,
		End:   AddDays(ref, listDaysForward),
	}
}
