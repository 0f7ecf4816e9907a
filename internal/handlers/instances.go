package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskdesk/internal/schedule"
	"taskdesk/internal/services"
)

type InstanceHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewInstanceHandler(db *gorm.DB, taskService services.TaskService) *InstanceHandler {
	return &InstanceHandler{db: db, taskService: taskService}
}

// resolveWindow picks the generation window from the query. A view preset
// anchored on an optional reference date takes priority; otherwise explicit
// start/end bounds are honored.
func resolveWindow(c *gin.Context) (schedule.Window, bool) {
	ref := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, ok := schedule.ParseDateKey(dateStr)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return schedule.Window{}, false
		}
		ref = parsed
	}

	switch view := c.DefaultQuery("view", ""); view {
	case "dashboard":
		return schedule.DashboardWindow(ref), true
	case "calendar":
		return schedule.CalendarWindow(ref), true
	case "list":
		return schedule.ListWindow(ref), true
	case "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown view, expected dashboard, calendar or list"})
		return schedule.Window{}, false
	}

	startStr, endStr := c.Query("start"), c.Query("end")
	if startStr == "" || endStr == "" {
		// No explicit bounds and no view preset: default to the list window.
		return schedule.ListWindow(ref), true
	}

	start, ok := schedule.ParseDateKey(startStr)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start, expected YYYY-MM-DD"})
		return schedule.Window{}, false
	}
	end, ok := schedule.ParseDateKey(endStr)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end, expected YYYY-MM-DD"})
		return schedule.Window{}, false
	}
	return schedule.Window{Start: start, End: end}, true
}

// GetInstances expands every task's recurrence over the requested window and
// returns the occurrences sorted by priority plus a by-date grouping.
func (h *InstanceHandler) GetInstances(c *gin.Context) {
	window, ok := resolveWindow(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.GetTasks(h.db)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	instances := schedule.SortByPriority(schedule.GenerateAll(tasks, window.Start, window.End))
	c.JSON(http.StatusOK, gin.H{
		"window": gin.H{
			"start": schedule.FormatDateKey(window.Start),
			"end":   schedule.FormatDateKey(window.End),
		},
		"instances": instances,
		"byDate":    schedule.GroupByDate(instances),
		"total":     len(instances),
	})
}

// GetStats reports the completion tally for a single day, today by default.
func (h *InstanceHandler) GetStats(c *gin.Context) {
	ref := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, ok := schedule.ParseDateKey(dateStr)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		ref = parsed
	}
	dateKey := schedule.FormatDateKey(ref)

	tasks, err := h.taskService.GetTasks(h.db)
	if err != nil {
		handleTaskError(c, err)
		return
	}

	instances := schedule.GenerateAll(tasks, ref, ref)
	c.JSON(http.StatusOK, gin.H{
		"date":  dateKey,
		"stats": schedule.ComputeStats(instances, dateKey),
	})
}
