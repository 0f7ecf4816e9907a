package schedule

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"taskdesk/internal/models"
)

func recurrenceGen() *rapid.Generator[models.Recurrence] {
	return rapid.Custom(func(t *rapid.T) models.Recurrence {
		rec := models.Recurrence{
			Type: rapid.SampledFrom([]models.RecurrenceType{
				models.RecurrenceNone,
				models.RecurrenceDaily,
				models.RecurrenceWeekly,
				models.RecurrenceMonthly,
			}).Draw(t, "type"),
			Interval: rapid.IntRange(-1, 6).Draw(t, "interval"),
		}
		if rapid.Bool().Draw(t, "withMask") {
			rec.DaysOfWeek = rapid.SliceOfN(rapid.IntRange(0, 6), 1, 4).Draw(t, "daysOfWeek")
		}
		if rec.Type == models.RecurrenceMonthly && rapid.Bool().Draw(t, "withDayOfMonth") {
			rec.DayOfMonth = rapid.IntRange(1, 31).Draw(t, "dayOfMonth")
		}
		return rec
	})
}

func taskAndWindowGen() *rapid.Generator[struct {
	task       *models.Task
	start, end string
}] {
	return rapid.Custom(func(t *rapid.T) struct {
		task       *models.Task
		start, end string
	} {
		base, _ := ParseDateKey("2024-01-01")

		startOffset := rapid.IntRange(0, 400).Draw(t, "taskStart")
		task := newTestTask(FormatDateKey(AddDays(base, startOffset)), recurrenceGen().Draw(t, "recurrence"))
		if rapid.Bool().Draw(t, "withEndDate") {
			endOffset := startOffset + rapid.IntRange(0, 200).Draw(t, "taskEnd")
			task.EndDate = FormatDateKey(AddDays(base, endOffset))
		}

		winStart := rapid.IntRange(0, 500).Draw(t, "windowStart")
		winEnd := winStart + rapid.IntRange(0, 180).Draw(t, "windowLen")
		return struct {
			task       *models.Task
			start, end string
		}{
			task:  task,
			start: FormatDateKey(AddDays(base, winStart)),
			end:   FormatDateKey(AddDays(base, winEnd)),
		}
	})
}

func TestGenerateProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tc := taskAndWindowGen().Draw(rt, "case")
		start, _ := ParseDateKey(tc.start)
		end, _ := ParseDateKey(tc.end)

		instances := Generate(tc.task, start, end)

		// Determinism: a second call returns the identical sequence.
		again := Generate(tc.task, start, end)
		if !reflect.DeepEqual(instances, again) {
			rt.Fatalf("generation is not deterministic")
		}

		taskStart, _ := ParseDateKey(tc.task.StartDate)
		prev := ""
		for _, inst := range instances {
			// Window containment, clamped by the task's own lifetime.
			if inst.Date < tc.start || inst.Date > tc.end {
				rt.Fatalf("instance %s outside window [%s, %s]", inst.Date, tc.start, tc.end)
			}
			if inst.Date < tc.task.StartDate {
				rt.Fatalf("instance %s before task start %s", inst.Date, tc.task.StartDate)
			}
			if tc.task.EndDate != "" && inst.Date > tc.task.EndDate {
				rt.Fatalf("instance %s after task end %s", inst.Date, tc.task.EndDate)
			}

			// Ascending order with no duplicates.
			if prev != "" && inst.Date <= prev {
				rt.Fatalf("dates not strictly ascending: %s then %s", prev, inst.Date)
			}
			prev = inst.Date

			// Every emitted date satisfies the evaluator.
			date, ok := ParseDateKey(inst.Date)
			if !ok {
				rt.Fatalf("emitted unparseable date key %q", inst.Date)
			}
			if !RuleMatches(tc.task.Recurrence, taskStart, date) {
				rt.Fatalf("emitted %s which the rule does not match", inst.Date)
			}

			// The completed flag mirrors set membership.
			if inst.Completed != tc.task.CompletedOn(inst.Date) {
				rt.Fatalf("completed flag out of sync for %s", inst.Date)
			}
		}

		// Cardinality for single-shot tasks.
		if tc.task.Recurrence.Type == models.RecurrenceNone && len(instances) > 1 {
			rt.Fatalf("none-type task produced %d instances", len(instances))
		}
	})
}

func TestGenerateAgreesWithDayScan(t *testing.T) {
	// The stride-based generator must emit exactly the dates a naive
	// day-by-day evaluator accepts over the same window.
	rapid.Check(t, func(rt *rapid.T) {
		tc := taskAndWindowGen().Draw(rt, "case")
		start, _ := ParseDateKey(tc.start)
		end, _ := ParseDateKey(tc.end)
		taskStart, _ := ParseDateKey(tc.task.StartDate)

		got := instanceDates(Generate(tc.task, start, end))

		want := []string{}
		for d := start; !d.After(end); d = AddDays(d, 1) {
			if d.Before(taskStart) {
				continue
			}
			if tc.task.EndDate != "" {
				if taskEnd, ok := ParseDateKey(tc.task.EndDate); ok && d.After(taskEnd) {
					continue
				}
			}
			if RuleMatches(tc.task.Recurrence, taskStart, d) {
				want = append(want, FormatDateKey(d))
			}
		}

		if !reflect.DeepEqual(got, want) {
			rt.Fatalf("stride generation %v disagrees with day scan %v", got, want)
		}
	})
}
