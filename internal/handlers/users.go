package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskdesk/internal/services"
)

type UserHandler struct {
	db          *gorm.DB
	userService *services.UserService
}

func NewUserHandler(db *gorm.DB, userService *services.UserService) *UserHandler {
	return &UserHandler{db: db, userService: userService}
}

// ListUsers returns the assignable users for assignee pickers.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(h.db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}
