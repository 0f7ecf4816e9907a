package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"taskdesk/internal/cache"
	"taskdesk/internal/models"
)

type TicketService interface {
	CreateTicket(db *gorm.DB, ticket models.Ticket) (models.Ticket, error)
	GetTicketByID(db *gorm.DB, id uuid.UUID) (models.Ticket, error)
	GetTickets(db *gorm.DB) ([]models.Ticket, error)
	UpdateTicket(db *gorm.DB, id uuid.UUID, patch models.TicketPatch) (models.Ticket, error)
	DeleteTicket(db *gorm.DB, id uuid.UUID) error
	GetStats(db *gorm.DB) (models.TicketStats, error)
	OverdueTickets(db *gorm.DB, now time.Time, slaHours int) ([]models.Ticket, error)
}

type TicketServiceImpl struct {
	notifier *cache.Notifier
}

func NewTicketService(notifier *cache.Notifier) *TicketServiceImpl {
	return &TicketServiceImpl{notifier: notifier}
}

func (s *TicketServiceImpl) CreateTicket(db *gorm.DB, ticket models.Ticket) (models.Ticket, error) {
	if ticket.Status == "" {
		ticket.Status = models.TicketStatusOpen
	}
	if ticket.Priority == "" {
		ticket.Priority = models.TicketPriorityMedium
	}
	if ticket.ReportedAt.IsZero() {
		ticket.ReportedAt = time.Now()
	}
	if err := validateTicket(&ticket); err != nil {
		return ticket, err
	}

	if ticket.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return ticket, fmt.Errorf("failed to generate ticket ID: %w", err)
		}
		ticket.ID = id
	}

	if err := db.Create(&ticket).Error; err != nil {
		return ticket, err
	}

	s.notifier.Publish("tickets", cache.ActionInsert, ticket.ID.String())
	return ticket, nil
}

func (s *TicketServiceImpl) GetTicketByID(db *gorm.DB, id uuid.UUID) (models.Ticket, error) {
	var ticket models.Ticket
	err := db.First(&ticket, "id = ?", id).Error
	return ticket, err
}

func (s *TicketServiceImpl) GetTickets(db *gorm.DB) ([]models.Ticket, error) {
	var tickets []models.Ticket
	if err := db.Find(&tickets).Error; err != nil {
		return nil, err
	}
	return models.SortTicketsByPriority(tickets), nil
}

func (s *TicketServiceImpl) UpdateTicket(db *gorm.DB, id uuid.UUID, patch models.TicketPatch) (models.Ticket, error) {
	ticket, err := s.GetTicketByID(db, id)
	if err != nil {
		return ticket, err
	}

	updated := patch.Apply(ticket)
	if err := validateTicket(&updated); err != nil {
		return ticket, err
	}

	if err := db.Save(&updated).Error; err != nil {
		return ticket, err
	}

	s.notifier.Publish("tickets", cache.ActionUpdate, id.String())
	return updated, nil
}

func (s *TicketServiceImpl) DeleteTicket(db *gorm.DB, id uuid.UUID) error {
	result := db.Delete(&models.Ticket{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	s.notifier.Publish("tickets", cache.ActionDelete, id.String())
	return nil
}

func (s *TicketServiceImpl) GetStats(db *gorm.DB) (models.TicketStats, error) {
	var tickets []models.Ticket
	if err := db.Find(&tickets).Error; err != nil {
		return models.TicketStats{}, err
	}
	return models.ComputeTicketStats(tickets), nil
}

// OverdueTickets returns active tickets older than the SLA window, most
// urgent first. The SLA sweep job reports on these.
func (s *TicketServiceImpl) OverdueTickets(db *gorm.DB, now time.Time, slaHours int) ([]models.Ticket, error) {
	tickets, err := s.GetTickets(db)
	if err != nil {
		return nil, err
	}

	overdue := make([]models.Ticket, 0)
	for _, t := range tickets {
		if t.IsOverdue(now, slaHours) {
			overdue = append(overdue, t)
		}
	}
	return overdue, nil
}

func validateTicket(t *models.Ticket) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !models.ValidTicketStatus(t.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, t.Status)
	}
	if !models.ValidTicketPriority(t.Priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, t.Priority)
	}
	return nil
}

var _ TicketService = (*TicketServiceImpl)(nil)
