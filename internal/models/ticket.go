package models

import (
	"sort"
	"time"

	"github.com/gofrs/uuid"
)

const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in-progress"
	TicketStatusPending    = "pending"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

const (
	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"
	TicketPriorityUrgent = "urgent"
)

// TicketPriorityRank orders ticket priorities; tickets carry an extra
// "urgent" level above the task scale.
func TicketPriorityRank(priority string) int {
	switch priority {
	case TicketPriorityUrgent:
		return 0
	case TicketPriorityHigh:
		return 1
	case TicketPriorityMedium:
		return 2
	case TicketPriorityLow:
		return 3
	default:
		return 4
	}
}

func ValidTicketStatus(status string) bool {
	switch status {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusPending,
		TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

func ValidTicketPriority(priority string) bool {
	return TicketPriorityRank(priority) < 4
}

type Ticket struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Reporter    string     `json:"reporter"`
	Phone       string     `json:"phone"`
	ReportedAt  time.Time  `json:"reported_at"`
	Notes       string     `json:"notes"`
	Resolution  string     `json:"resolution"`
	ResolvedAt  *time.Time `json:"resolved_at"`
	Category    string     `json:"category"`
	Color       string     `json:"color"`
	Status      string     `json:"status" gorm:"not null;default:'open'"`
	Priority    string     `json:"priority" gorm:"not null;default:'medium'"`
	AssignedTo  string     `json:"assigned_to"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Active reports whether the ticket still needs attention.
func (t *Ticket) Active() bool {
	switch t.Status {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusPending:
		return true
	}
	return false
}

// IsOverdue reports whether an unresolved ticket has exceeded the SLA window
// measured from its report time. The reference time is injected so callers
// and tests control the clock.
func (t *Ticket) IsOverdue(now time.Time, slaHours int) bool {
	if !t.Active() {
		return false
	}
	return now.Sub(t.ReportedAt) > time.Duration(slaHours)*time.Hour
}

type TicketPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Reporter    *string    `json:"reporter,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Resolution  *string    `json:"resolution,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Color       *string    `json:"color,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
}

func (p TicketPatch) Apply(t Ticket) Ticket {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Reporter != nil {
		t.Reporter = *p.Reporter
	}
	if p.Phone != nil {
		t.Phone = *p.Phone
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Resolution != nil {
		t.Resolution = *p.Resolution
	}
	if p.ResolvedAt != nil {
		resolved := *p.ResolvedAt
		t.ResolvedAt = &resolved
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	return t
}

// SortTicketsByPriority returns a copy ordered urgent first, then by creation
// time newest first within a priority level.
func SortTicketsByPriority(tickets []Ticket) []Ticket {
	sorted := append([]Ticket(nil), tickets...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := TicketPriorityRank(sorted[i].Priority), TicketPriorityRank(sorted[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

type TicketStats struct {
	Total      int            `json:"total"`
	Open       int            `json:"open"`
	InProgress int            `json:"in_progress"`
	Pending    int            `json:"pending"`
	Resolved   int            `json:"resolved"`
	Closed     int            `json:"closed"`
	ByPriority map[string]int `json:"by_priority"`
	Active     int            `json:"active"`
}

// ComputeTicketStats tallies tickets by status and priority. Active counts
// open, in-progress and pending tickets.
func ComputeTicketStats(tickets []Ticket) TicketStats {
	stats := TicketStats{
		Total: len(tickets),
		ByPriority: map[string]int{
			TicketPriorityUrgent: 0,
			TicketPriorityHigh:   0,
			TicketPriorityMedium: 0,
			TicketPriorityLow:    0,
		},
	}

	for i := range tickets {
		t := &tickets[i]
		switch t.Status {
		case TicketStatusOpen:
			stats.Open++
		case TicketStatusInProgress:
			stats.InProgress++
		case TicketStatusPending:
			stats.Pending++
		case TicketStatusResolved:
			stats.Resolved++
		case TicketStatusClosed:
			stats.Closed++
		}
		if ValidTicketPriority(t.Priority) {
			stats.ByPriority[t.Priority]++
		}
	}

	stats.Active = stats.Open + stats.InProgress + stats.Pending
	return stats
}
