package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"taskdesk/internal/cache"
	"taskdesk/internal/models"
	"taskdesk/internal/schedule"
)

var ErrValidation = errors.New("validation error")

type TaskService interface {
	CreateTask(db *gorm.DB, task models.Task) (models.Task, error)
	GetTaskByID(db *gorm.DB, id uuid.UUID) (models.Task, error)
	GetTasks(db *gorm.DB) ([]models.Task, error)
	UpdateTask(db *gorm.DB, id uuid.UUID, patch models.TaskPatch) (models.Task, error)
	DeleteTask(db *gorm.DB, id uuid.UUID) error
	ToggleCompletion(db *gorm.DB, id uuid.UUID, dateKey string) (models.Task, error)
}

type TaskServiceImpl struct {
	notifier *cache.Notifier
}

func NewTaskService(notifier *cache.Notifier) *TaskServiceImpl {
	return &TaskServiceImpl{notifier: notifier}
}

func (s *TaskServiceImpl) CreateTask(db *gorm.DB, task models.Task) (models.Task, error) {
	if err := validateTask(&task); err != nil {
		return task, err
	}

	if task.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return task, fmt.Errorf("failed to generate task ID: %w", err)
		}
		task.ID = id
	}
	if task.CompletedDates == nil {
		task.CompletedDates = []string{}
	}

	if err := db.Create(&task).Error; err != nil {
		return task, err
	}

	s.notifier.Publish("tasks", cache.ActionInsert, task.ID.String())
	return task, nil
}

func (s *TaskServiceImpl) GetTaskByID(db *gorm.DB, id uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.First(&task, "id = ?", id).Error
	return task, err
}

func (s *TaskServiceImpl) GetTasks(db *gorm.DB) ([]models.Task, error) {
	var tasks []models.Task
	err := db.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

// UpdateTask applies a partial update. A recurrence change reshapes future
// occurrence generation right away; the completion set is left as-is, so it
// may keep dates the new rule no longer produces.
func (s *TaskServiceImpl) UpdateTask(db *gorm.DB, id uuid.UUID, patch models.TaskPatch) (models.Task, error) {
	task, err := s.GetTaskByID(db, id)
	if err != nil {
		return task, err
	}

	updated := patch.Apply(task)
	if err := validateTask(&updated); err != nil {
		return task, err
	}

	if err := db.Save(&updated).Error; err != nil {
		return task, err
	}

	s.notifier.Publish("tasks", cache.ActionUpdate, id.String())
	return updated, nil
}

func (s *TaskServiceImpl) DeleteTask(db *gorm.DB, id uuid.UUID) error {
	result := db.Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	s.notifier.Publish("tasks", cache.ActionDelete, id.String())
	return nil
}

// ToggleCompletion flips membership of one date key in the task's completion
// set and persists the result.
func (s *TaskServiceImpl) ToggleCompletion(db *gorm.DB, id uuid.UUID, dateKey string) (models.Task, error) {
	if _, ok := schedule.ParseDateKey(dateKey); !ok {
		return models.Task{}, fmt.Errorf("%w: bad date key %q", ErrValidation, dateKey)
	}

	task, err := s.GetTaskByID(db, id)
	if err != nil {
		return task, err
	}

	task.ToggleCompletion(dateKey)
	if err := db.Save(&task).Error; err != nil {
		return task, err
	}

	s.notifier.Publish("tasks", cache.ActionUpdate, id.String())
	return task, nil
}

func validateTask(t *models.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if models.PriorityRank(t.Priority) > 2 {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, t.Priority)
	}
	if _, ok := schedule.ParseDateKey(t.StartDate); !ok {
		return fmt.Errorf("%w: bad start date %q", ErrValidation, t.StartDate)
	}
	if t.EndDate != "" {
		if _, ok := schedule.ParseDateKey(t.EndDate); !ok {
			return fmt.Errorf("%w: bad end date %q", ErrValidation, t.EndDate)
		}
	}
	switch t.Recurrence.Type {
	case models.RecurrenceNone, models.RecurrenceDaily, models.RecurrenceWeekly, models.RecurrenceMonthly:
	default:
		return fmt.Errorf("%w: unknown recurrence type %q", ErrValidation, t.Recurrence.Type)
	}
	for _, d := range t.Recurrence.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: weekday %d out of range", ErrValidation, d)
		}
	}
	if t.Recurrence.DayOfMonth < 0 || t.Recurrence.DayOfMonth > 31 {
		return fmt.Errorf("%w: day of month %d out of range", ErrValidation, t.Recurrence.DayOfMonth)
	}
	// Non-positive intervals are tolerated and clamped during generation.
	return nil
}

var _ TaskService = (*TaskServiceImpl)(nil)

// ReminderDigest summarizes one day's workload for the reminder job.
type ReminderDigest struct {
	Date    string         `json:"date"`
	Stats   schedule.Stats `json:"stats"`
	Pending []string       `json:"pending"`
}

// BuildReminderDigest generates the reference date's instances across all
// tasks and lists the pending titles, high priority first.
func BuildReminderDigest(db *gorm.DB, svc TaskService, ref time.Time) (ReminderDigest, error) {
	dateKey := schedule.FormatDateKey(ref)

	tasks, err := svc.GetTasks(db)
	if err != nil {
		return ReminderDigest{}, err
	}

	instances := schedule.GenerateAll(tasks, ref, ref)
	digest := ReminderDigest{
		Date:    dateKey,
		Stats:   schedule.ComputeStats(instances, dateKey),
		Pending: []string{},
	}
	for _, inst := range schedule.SortByPriority(instances) {
		if !inst.Completed {
			digest.Pending = append(digest.Pending, inst.Task.Title)
		}
	}
	return digest, nil
}
