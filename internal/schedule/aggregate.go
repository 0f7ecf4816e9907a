package schedule

import (
	"bytes"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"taskdesk/internal/models"
)

// GroupByDate buckets instances under their date key, preserving arrival
// order inside each bucket.
func GroupByDate(instances []models.TaskInstance) map[string][]models.TaskInstance {
	byDate := make(map[string][]models.TaskInstance)
	for _, inst := range instances {
		byDate[inst.Date] = append(byDate[inst.Date], inst)
	}
	return byDate
}

// FilterByRange keeps the instances whose date falls inside the inclusive
// [start, end] range. Date keys are zero-padded, so plain string comparison
// is also chronological.
func FilterByRange(instances []models.TaskInstance, start, end time.Time) []models.TaskInstance {
	startKey := FormatDateKey(start)
	endKey := FormatDateKey(end)

	filtered := []models.TaskInstance{}
	for _, inst := range instances {
		if inst.Date >= startKey && inst.Date <= endKey {
			filtered = append(filtered, inst)
		}
	}
	return filtered
}

// The team works in Spanish; titles collate accordingly. Collators are not
// safe for concurrent use, so each comparison pass builds its own.
func newTitleCollator() *collate.Collator {
	return collate.New(language.Spanish)
}

// SortByPriority returns a copy ordered by priority rank (high first,
// unknown last), then locale-aware title, then task ID. The ID tiebreak
// makes the order total, so equal-priority equal-title fixtures sort the
// same way on every call.
func SortByPriority(instances []models.TaskInstance) []models.TaskInstance {
	sorted := append([]models.TaskInstance(nil), instances...)
	coll := newTitleCollator()
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		ra, rb := models.PriorityRank(a.Task.Priority), models.PriorityRank(b.Task.Priority)
		if ra != rb {
			return ra < rb
		}
		if c := coll.CompareString(a.Task.Title, b.Task.Title); c != 0 {
			return c < 0
		}
		return bytes.Compare(a.TaskID.Bytes(), b.TaskID.Bytes()) < 0
	})
	return sorted
}

// Stats summarizes one date's instances. CompletionRate is a fraction in
// [0,1] and stays 0 for an empty day rather than dividing by zero.
type Stats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	CompletionRate float64 `json:"completion_rate"`
}

// ComputeStats tallies the instances falling on dateKey. The date is an
// explicit parameter; callers decide what "today" means.
func ComputeStats(instances []models.TaskInstance, dateKey string) Stats {
	var stats Stats
	for _, inst := range instances {
		if inst.Date != dateKey {
			continue
		}
		stats.Total++
		if inst.Completed {
			stats.Completed++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total)
	}
	return stats
}
