package schedule

import (
	"reflect"
	"testing"

	"github.com/gofrs/uuid"

	"taskdesk/internal/models"
)

func newTestTask(startDate string, rule models.Recurrence) *models.Task {
	return &models.Task{
		ID:         uuid.Must(uuid.NewV4()),
		Title:      "Test Task",
		Priority:   models.PriorityMedium,
		Recurrence: rule,
		StartDate:  startDate,
	}
}

func instanceDates(instances []models.TaskInstance) []string {
	dates := make([]string, 0, len(instances))
	for _, inst := range instances {
		dates = append(dates, inst.Date)
	}
	return dates
}

func TestGenerateNoneSingleOccurrence(t *testing.T) {
	task := newTestTask("2024-01-05", models.Recurrence{Type: models.RecurrenceNone, Interval: 1})

	inside := Generate(task, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31"))
	if len(inside) != 1 || inside[0].Date != "2024-01-05" {
		t.Fatalf("expected exactly the start date occurrence, got %v", instanceDates(inside))
	}

	outside := Generate(task, mustDate(t, "2024-02-01"), mustDate(t, "2024-02-28"))
	if len(outside) != 0 {
		t.Errorf("expected no occurrence outside the window, got %v", instanceDates(outside))
	}
}

func TestGenerateDailyInterval(t *testing.T) {
	task := newTestTask("2024-01-01", models.Recurrence{Type: models.RecurrenceDaily, Interval: 3})

	got := instanceDates(Generate(task, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-10")))
	want := []string{"2024-01-01", "2024-01-04", "2024-01-07", "2024-01-10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestGenerateDailyWindowStartsMidStride(t *testing.T) {
	task := newTestTask("2024-01-01", models.Recurrence{Type: models.RecurrenceDaily, Interval: 3})

	// Window opens on a non-occurrence day; the first aligned date is 01-07.
	got := instanceDates(Generate(task, mustDate(t, "2024-01-05"), mustDate(t, "2024-01-11")))
	want := []string{"2024-01-07", "2024-01-10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestGenerateWeeklyWithWeekdayMask(t *testing.T) {
	task := newTestTask("2024-01-01", models.Recurrence{
		Type:       models.RecurrenceWeekly,
		Interval:   1,
		DaysOfWeek: []int{1, 3, 5}, // Mon/Wed/Fri
	})

	got := instanceDates(Generate(task, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-14")))
	want := []string{"2024-01-01", "2024-01-03", "2024-01-05", "2024-01-08", "2024-01-10", "2024-01-12"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestGenerateWeeklySkipsDaysBeforeStart(t *testing.T) {
	// Start Wednesday with Monday selected: week zero's Monday precedes the
	// start date and must not be emitted.
	task := newTestTask("2024-01-03", models.Recurrence{
		Type:       models.RecurrenceWeekly,
		Interval:   1,
		DaysOfWeek: []int{1, 3},
	})

	got := instanceDates(Generate(task, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-10")))
	want := []string{"2024-01-03", "2024-01-08", "2024-01-10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestGenerateMonthlyDayOverflowSkips(t *testing.T) {
	task := newTestTask("2024-01-31", models.Recurrence{
		Type:       models.RecurrenceMonthly,
		Interval:   1,
		DayOfMonth: 31,
	})

	got := instanceDates(Generate(task, mustDate(t, "2024-01-01"), mustDate(t, "2024-04-30")))
	want := []string{"2024-01-31", "2024-03-31"} // February and April have no 31st
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestGenerateMonthlyInterval(t *testing.T) {
	task := newTestTask("2024-01-15", models.Recurrence{
		Type:     models.RecurrenceMonthly,
		Interval: 2,
	})

	got := instanceDates(Generate(task, mustDate(t, "2024-01-01"), mustDate(t, "2024-06-30")))
	want := []string{"2024-01-15", "2024-03-15", "2024-05-15"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestGenerateHonorsTaskEndDate(t *testing.T) {
	task := newTestTask("2024-01-01", models.Recurrence{Type: models.RecurrenceDaily, Interval: 1})
	task.EndDate = "2024-01-03"

	got := instanceDates(Generate(task, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-10")))
	want := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestGenerateInvertedWindow(t *testing.T) {
	task := newTestTask("2024-01-01", models.Recurrence{Type: models.RecurrenceDaily, Interval: 1})

	got := Generate(task, mustDate(t, "2024-01-10"), mustDate(t, "2024-01-01"))
	if len(got) != 0 {
		t.Errorf("inverted window must yield no instances, got %v", instanceDates(got))
	}
}

func TestGenerateUnknownTypeYieldsNothing(t *testing.T) {
	task := newTestTask("2024-01-01", models.Recurrence{Type: "hourly", Interval: 1})

	got := Generate(task, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31"))
	if len(got) != 0 {
		t.Errorf("unrecognized recurrence types must yield no instances, got %v", instanceDates(got))
	}
}

func TestGenerateClampsNonPositiveInterval(t *testing.T) {
	task := newTestTask("2024-01-01", models.Recurrence{Type: models.RecurrenceDaily, Interval: -5})

	got := instanceDates(Generate(task, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-03")))
	want := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected interval clamped to 1 producing %v, got %v", want, got)
	}
}

func TestGenerateMalformedStartDate(t *testing.T) {
	task := newTestTask("31/01/2024", models.Recurrence{Type: models.RecurrenceDaily, Interval: 1})

	got := Generate(task, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-31"))
	if len(got) != 0 {
		t.Errorf("unparseable start dates must yield no instances, got %v", instanceDates(got))
	}
}

func TestGenerateCompletionRoundTrip(t *testing.T) {
	task := newTestTask("2024-01-01", models.Recurrence{Type: models.RecurrenceDaily, Interval: 1})
	start, end := mustDate(t, "2024-01-01"), mustDate(t, "2024-01-03")

	task.ToggleCompletion("2024-01-02")
	got := Generate(task, start, end)
	if !got[1].Completed {
		t.Error("expected 2024-01-02 to be completed after toggle on")
	}
	if got[0].Completed || got[2].Completed {
		t.Error("other dates must stay pending")
	}

	task.ToggleCompletion("2024-01-02")
	got = Generate(task, start, end)
	if got[1].Completed {
		t.Error("expected 2024-01-02 pending again after toggle off")
	}

	// Toggling twice more lands back in the same state: a set, not a counter.
	task.ToggleCompletion("2024-01-02")
	task.ToggleCompletion("2024-01-02")
	got = Generate(task, start, end)
	if got[1].Completed {
		t.Error("expected paired toggles to cancel out")
	}
}

func TestGenerateToleratesStaleCompletedDates(t *testing.T) {
	// Completed dates surviving a rule edit no longer map to occurrences;
	// generation must simply ignore them.
	task := newTestTask("2024-01-01", models.Recurrence{Type: models.RecurrenceDaily, Interval: 3})
	task.CompletedDates = []string{"2024-01-02", "2024-01-04"}

	got := Generate(task, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-07"))
	want := []string{"2024-01-01", "2024-01-04", "2024-01-07"}
	if !reflect.DeepEqual(instanceDates(got), want) {
		t.Fatalf("expected %v, got %v", want, instanceDates(got))
	}
	if got[0].Completed || got[2].Completed {
		t.Error("unrelated occurrences must stay pending")
	}
	if !got[1].Completed {
		t.Error("2024-01-04 remains in the completion set and must report completed")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	task := newTestTask("2024-01-01", models.Recurrence{
		Type:       models.RecurrenceWeekly,
		Interval:   2,
		DaysOfWeek: []int{1, 5},
	})
	start, end := mustDate(t, "2024-01-01"), mustDate(t, "2024-03-31")

	first := Generate(task, start, end)
	second := Generate(task, start, end)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must generate identical sequences")
	}
}

func TestGenerateUnboundedTaskWideWindow(t *testing.T) {
	// No end date over a multi-year window: the stride keeps this cheap and
	// the output bounded by the window alone.
	task := newTestTask("2020-01-01", models.Recurrence{Type: models.RecurrenceMonthly, Interval: 1, DayOfMonth: 1})

	got := Generate(task, mustDate(t, "2020-01-01"), mustDate(t, "2029-12-31"))
	if len(got) != 120 {
		t.Errorf("expected 120 monthly occurrences over a decade, got %d", len(got))
	}
	if got[0].Date != "2020-01-01" || got[len(got)-1].Date != "2029-12-01" {
		t.Errorf("unexpected bounds %s .. %s", got[0].Date, got[len(got)-1].Date)
	}
}

func TestGenerateAllFlattens(t *testing.T) {
	tasks := []models.Task{
		*newTestTask("2024-01-01", models.Recurrence{Type: models.RecurrenceNone, Interval: 1}),
		*newTestTask("2024-01-02", models.Recurrence{Type: models.RecurrenceNone, Interval: 1}),
	}

	got := GenerateAll(tasks, mustDate(t, "2024-01-01"), mustDate(t, "2024-01-07"))
	if len(got) != 2 {
		t.Errorf("expected one instance per task, got %d", len(got))
	}
}
