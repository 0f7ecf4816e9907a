package services

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"taskdesk/internal/cache"
	"taskdesk/internal/models"
)

const (
	allTasksKey  = "all_tasks"
	taskCacheTTL = 5 * time.Minute
)

func taskKey(id uuid.UUID) string {
	return fmt.Sprintf("task:%s", id)
}

// CachedTaskService wraps a TaskService with read-through caching. Reads are
// served from Redis when possible; every mutation invalidates the affected
// entries so the next read repopulates them.
type CachedTaskService struct {
	inner TaskService
	cache *cache.RedisCache
}

func NewCachedTaskService(inner TaskService, c *cache.RedisCache) *CachedTaskService {
	return &CachedTaskService{inner: inner, cache: c}
}

func (s *CachedTaskService) CreateTask(db *gorm.DB, task models.Task) (models.Task, error) {
	created, err := s.inner.CreateTask(db, task)
	if err != nil {
		return created, err
	}
	s.invalidateList()
	return created, nil
}

func (s *CachedTaskService) GetTaskByID(db *gorm.DB, id uuid.UUID) (models.Task, error) {
	var cached models.Task
	if err := s.cache.Get(taskKey(id), &cached); err == nil {
		return cached, nil
	}

	// Cache trouble, miss or otherwise, falls back to the database.
	task, err := s.inner.GetTaskByID(db, id)
	if err != nil {
		return task, err
	}
	_ = s.cache.Set(taskKey(id), task, taskCacheTTL)
	return task, nil
}

func (s *CachedTaskService) GetTasks(db *gorm.DB) ([]models.Task, error) {
	var cached []models.Task
	if err := s.cache.Get(allTasksKey, &cached); err == nil {
		return cached, nil
	}

	tasks, err := s.inner.GetTasks(db)
	if err != nil {
		return tasks, err
	}
	_ = s.cache.Set(allTasksKey, tasks, taskCacheTTL)
	return tasks, nil
}

func (s *CachedTaskService) UpdateTask(db *gorm.DB, id uuid.UUID, patch models.TaskPatch) (models.Task, error) {
	updated, err := s.inner.UpdateTask(db, id, patch)
	if err != nil {
		return updated, err
	}
	s.invalidate(id)
	return updated, nil
}

func (s *CachedTaskService) DeleteTask(db *gorm.DB, id uuid.UUID) error {
	if err := s.inner.DeleteTask(db, id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

func (s *CachedTaskService) ToggleCompletion(db *gorm.DB, id uuid.UUID, dateKey string) (models.Task, error) {
	task, err := s.inner.ToggleCompletion(db, id, dateKey)
	if err != nil {
		return task, err
	}
	s.invalidate(id)
	return task, nil
}

// WarmCache preloads the task list so the first read after a deploy or an
// invalidation storm does not hit the database.
func (s *CachedTaskService) WarmCache(db *gorm.DB) error {
	tasks, err := s.inner.GetTasks(db)
	if err != nil {
		return err
	}
	return s.cache.Set(allTasksKey, tasks, taskCacheTTL)
}

func (s *CachedTaskService) invalidate(id uuid.UUID) {
	_ = s.cache.Delete(taskKey(id))
	_ = s.cache.Delete(allTasksKey)
}

func (s *CachedTaskService) invalidateList() {
	_ = s.cache.Delete(allTasksKey)
}

var _ TaskService = (*CachedTaskService)(nil)
