package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

// Recurrence is stored as a JSON column with camelCase keys.
type Recurrence struct {
	Type       RecurrenceType `json:"type"`
	Interval   int            `json:"interval"`
	DaysOfWeek []int          `json:"daysOfWeek,omitempty"`
	DayOfMonth int            `json:"dayOfMonth,omitempty"`
}

// EffectiveInterval treats a non-positive interval as 1 so malformed rules
// never stall generation.
func (r Recurrence) EffectiveInterval() int {
	if r.Interval < 1 {
		return 1
	}
	return r.Interval
}

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// PriorityRank orders task priorities for sorting; unrecognized values rank
// after all known ones.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

type Task struct {
	ID             uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Title          string     `json:"title" gorm:"not null"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Color          string     `json:"color"`
	Priority       string     `json:"priority" gorm:"not null;default:'medium'"`
	Recurrence     Recurrence `json:"recurrence" gorm:"serializer:json"`
	StartDate      string     `json:"start_date" gorm:"not null"`
	EndDate        string     `json:"end_date"`
	CompletedDates []string   `json:"completed_dates" gorm:"serializer:json"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CompletedOn reports membership of a date key in the completion set. Keys
// that no longer map to a generated occurrence are tolerated; absence simply
// means not completed.
func (t *Task) CompletedOn(dateKey string) bool {
	for _, d := range t.CompletedDates {
		if d == dateKey {
			return true
		}
	}
	return false
}

// ToggleCompletion adds the date key to the completion set when absent and
// removes it when present. Set semantics, not a counter: toggling the same
// key twice restores the original state.
func (t *Task) ToggleCompletion(dateKey string) {
	for i, d := range t.CompletedDates {
		if d == dateKey {
			t.CompletedDates = append(t.CompletedDates[:i], t.CompletedDates[i+1:]...)
			return
		}
	}
	t.CompletedDates = append(t.CompletedDates, dateKey)
}

// TaskPatch is a partial update: nil fields are left untouched. An empty
// EndDate string clears the end date, making the recurrence unbounded again.
type TaskPatch struct {
	Title          *string     `json:"title,omitempty"`
	Description    *string     `json:"description,omitempty"`
	Category       *string     `json:"category,omitempty"`
	Color          *string     `json:"color,omitempty"`
	Priority       *string     `json:"priority,omitempty"`
	Recurrence     *Recurrence `json:"recurrence,omitempty"`
	StartDate      *string     `json:"start_date,omitempty"`
	EndDate        *string     `json:"end_date,omitempty"`
	CompletedDates *[]string   `json:"completed_dates,omitempty"`
}

// Apply merges the patch into a copy of the task. A recurrence change takes
// effect on future generation immediately; completed dates are never
// migrated.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Recurrence != nil {
		t.Recurrence = *p.Recurrence
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.CompletedDates != nil {
		t.CompletedDates = append([]string(nil), (*p.CompletedDates)...)
	}
	return t
}

// TaskInstance is one occurrence of a task on one date. Instances are derived
// on demand and never persisted; Task is borrowed from the owning record.
type TaskInstance struct {
	TaskID    uuid.UUID `json:"task_id"`
	Date      string    `json:"date"`
	Completed bool      `json:"completed"`
	Task      *Task     `json:"task"`
}
