package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"taskdesk/internal/models"
	"taskdesk/internal/services"
)

type TicketHandler struct {
	db            *gorm.DB
	ticketService services.TicketService
}

func NewTicketHandler(db *gorm.DB, ticketService services.TicketService) *TicketHandler {
	return &TicketHandler{db: db, ticketService: ticketService}
}

func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var ticket models.Ticket
	if err := c.ShouldBindJSON(&ticket); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.ticketService.CreateTicket(h.db, ticket)
	if err != nil {
		handleTicketError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *TicketHandler) GetTickets(c *gin.Context) {
	tickets, err := h.ticketService.GetTickets(h.db)
	if err != nil {
		handleTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tickets": tickets,
		"total":   len(tickets),
	})
}

func (h *TicketHandler) GetTicketByID(c *gin.Context) {
	id := uuid.FromStringOrNil(c.Param("id"))
	ticket, err := h.ticketService.GetTicketByID(h.db, id)
	if err != nil {
		handleTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	id := uuid.FromStringOrNil(c.Param("id"))

	var patch models.TicketPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.ticketService.UpdateTicket(h.db, id, patch)
	if err != nil {
		handleTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	id := uuid.FromStringOrNil(c.Param("id"))
	if err := h.ticketService.DeleteTicket(h.db, id); err != nil {
		handleTicketError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *TicketHandler) GetStats(c *gin.Context) {
	stats, err := h.ticketService.GetStats(h.db)
	if err != nil {
		handleTicketError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func handleTicketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "ticket not found",
		})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to process ticket request",
		})
	}
}
