package schedule

import (
	"sort"
	"time"

	"taskdesk/internal/models"
)

// safetyLimitDays bounds how far any generation loop may iterate past what
// the window itself requires. Interval clamping already rules out the known
// non-termination cases; this is the backstop for the ones it doesn't.
const safetyLimitDays = 365

// Generate produces the ordered occurrences of a task inside the inclusive
// [windowStart, windowEnd] range. It is deterministic and total: malformed
// tasks and inverted windows yield an empty slice, never an error or a hang.
// Each instance's completed flag is read from the task's completion set at
// generation time.
func Generate(task *models.Task, windowStart, windowEnd time.Time) []models.TaskInstance {
	instances := []models.TaskInstance{}
	if task == nil {
		return instances
	}

	start, ok := ParseDateKey(task.StartDate)
	if !ok {
		return instances
	}

	windowStart = dateOnly(windowStart)
	windowEnd = dateOnly(windowEnd)
	if windowStart.After(windowEnd) {
		return instances
	}

	emit := func(date time.Time) {
		key := FormatDateKey(date)
		instances = append(instances, models.TaskInstance{
			TaskID:    task.ID,
			Date:      key,
			Completed: task.CompletedOn(key),
			Task:      task,
		})
	}

	if task.Recurrence.Type == models.RecurrenceNone {
		if !start.Before(windowStart) && !start.After(windowEnd) {
			emit(start)
		}
		return instances
	}

	// Clamp the window to the task's own lifetime.
	effStart := windowStart
	if start.After(effStart) {
		effStart = start
	}
	effEnd := windowEnd
	if task.EndDate != "" {
		if end, ok := ParseDateKey(task.EndDate); ok && end.Before(effEnd) {
			effEnd = end
		}
	}
	if effStart.After(effEnd) {
		return instances
	}

	switch task.Recurrence.Type {
	case models.RecurrenceDaily:
		generateDaily(task, start, effStart, effEnd, emit)
	case models.RecurrenceWeekly:
		generateWeekly(task, start, effStart, effEnd, emit)
	case models.RecurrenceMonthly:
		generateMonthly(task, start, effStart, effEnd, emit)
	}
	// Unrecognized types fall through to zero instances.

	return instances
}

// generateDaily strides the cursor by whole intervals, so a wide window over
// an "every 90 days" task costs a handful of iterations rather than a scan of
// every day. A weekday mask still demands a per-candidate test.
func generateDaily(task *models.Task, start, effStart, effEnd time.Time, emit func(time.Time)) {
	interval := task.Recurrence.EffectiveInterval()
	mask := task.Recurrence.DaysOfWeek

	// First interval-aligned date at or after the effective window start.
	offset := DaysBetween(start, effStart)
	if offset < 0 {
		offset = 0
	}
	if rem := offset % interval; rem != 0 {
		offset += interval - rem
	}

	cursor := AddDays(start, offset)
	maxIter := DaysBetween(effStart, effEnd)/interval + safetyLimitDays
	for iter := 0; !cursor.After(effEnd) && iter <= maxIter; iter++ {
		if len(mask) == 0 || weekdaySelected(mask, cursor.Weekday()) {
			emit(cursor)
		}
		cursor = AddDays(cursor, interval)
	}
}

// generateWeekly steps whole aligned weeks at a time and emits the selected
// weekdays inside each qualifying week, in weekday order so output stays
// ascending.
func generateWeekly(task *models.Task, start, effStart, effEnd time.Time, emit func(time.Time)) {
	interval := task.Recurrence.EffectiveInterval()

	selected := append([]int(nil), task.Recurrence.DaysOfWeek...)
	if len(selected) == 0 {
		selected = []int{int(start.Weekday())}
	}
	sort.Ints(selected)
	selected = dedupeInts(selected)

	anchor := WeekStart(start)

	// Align down to the interval multiple covering the week of effStart; days
	// before effStart inside that week are filtered below.
	week := DaysBetween(anchor, WeekStart(effStart)) / 7
	if week < 0 {
		week = 0
	}
	week -= week % interval

	maxIter := DaysBetween(effStart, effEnd)/(7*interval) + safetyLimitDays
	for iter := 0; iter <= maxIter; iter++ {
		weekAnchor := AddWeeks(anchor, week)
		if weekAnchor.After(effEnd) {
			return
		}
		for _, wd := range selected {
			if wd < 0 || wd > 6 {
				continue
			}
			date := AddDays(weekAnchor, wd)
			// Week zero can contain days before the task even starts.
			if date.Before(start) || date.Before(effStart) || date.After(effEnd) {
				continue
			}
			emit(date)
		}
		week += interval
	}
}

// generateMonthly computes each month's target date directly instead of
// scanning days. Months without the target day (day 31 in February) are
// skipped entirely, matching the evaluator's policy.
func generateMonthly(task *models.Task, start, effStart, effEnd time.Time, emit func(time.Time)) {
	interval := task.Recurrence.EffectiveInterval()

	target := task.Recurrence.DayOfMonth
	if target < 1 {
		target = start.Day()
	}

	months := MonthsBetween(start, effStart)
	if months < 0 {
		months = 0
	}
	months -= months % interval

	maxIter := MonthsBetween(effStart, effEnd)/interval + safetyLimitDays
	for iter := 0; iter <= maxIter; iter++ {
		monthIndex := int(start.Month()) - 1 + months
		year := start.Year() + monthIndex/12
		month := time.Month(monthIndex%12 + 1)

		firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
		if firstOfMonth.After(effEnd) {
			return
		}

		if target <= daysInMonth(year, month) {
			date := time.Date(year, month, target, 0, 0, 0, 0, time.Local)
			if !date.Before(start) && !date.Before(effStart) && !date.After(effEnd) {
				emit(date)
			}
		}
		months += interval
	}
}

// dedupeInts collapses adjacent duplicates in a sorted slice.
func dedupeInts(sorted []int) []int {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// GenerateAll flattens the instances of every task over one window. No
// cross-task ordering is guaranteed; callers sort or group as needed.
func GenerateAll(tasks []models.Task, windowStart, windowEnd time.Time) []models.TaskInstance {
	all := []models.TaskInstance{}
	for i := range tasks {
		all = append(all, Generate(&tasks[i], windowStart, windowEnd)...)
	}
	return all
}
