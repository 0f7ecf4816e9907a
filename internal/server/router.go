package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskdesk/internal/cache"
	"taskdesk/internal/config"
	"taskdesk/internal/handlers"
	"taskdesk/internal/middleware"
	"taskdesk/internal/services"
)

type Dependencies struct {
	DB     *gorm.DB
	Cache  *cache.RedisCache
	Logger *zap.Logger

	TaskService   services.TaskService
	TicketService services.TicketService
	UserService   *services.UserService
	AuthService   *services.AuthService
}

// NewRouter assembles the HTTP surface. Auth endpoints and the health check
// stay open; everything else under /api requires a bearer token.
func NewRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())
	}

	router.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		code := http.StatusOK
		if deps.Cache != nil {
			if err := deps.Cache.Health(); err != nil {
				status["status"] = "degraded"
				status["cache"] = "unreachable"
			}
		}
		c.JSON(code, status)
	})

	authHandler := handlers.NewAuthHandler(deps.DB, deps.AuthService)
	taskHandler := handlers.NewTaskHandler(deps.DB, deps.TaskService)
	instanceHandler := handlers.NewInstanceHandler(deps.DB, deps.TaskService)
	ticketHandler := handlers.NewTicketHandler(deps.DB, deps.TicketService)
	userHandler := handlers.NewUserHandler(deps.DB, deps.UserService)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/token", authHandler.Token)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.Auth))
	{
		protected.GET("/users", userHandler.ListUsers)

		protected.POST("/tasks", taskHandler.CreateTask)
		protected.GET("/tasks", taskHandler.GetTasks)
		protected.GET("/tasks/:id", taskHandler.GetTaskByID)
		protected.PATCH("/tasks/:id", taskHandler.UpdateTask)
		protected.DELETE("/tasks/:id", taskHandler.DeleteTask)
		protected.POST("/tasks/:id/completions", taskHandler.ToggleCompletion)

		protected.GET("/instances", instanceHandler.GetInstances)
		protected.GET("/instances/stats", instanceHandler.GetStats)

		protected.POST("/tickets", ticketHandler.CreateTicket)
		protected.GET("/tickets", ticketHandler.GetTickets)
		protected.GET("/tickets/stats", ticketHandler.GetStats)
		protected.GET("/tickets/:id", ticketHandler.GetTicketByID)
		protected.PATCH("/tickets/:id", ticketHandler.UpdateTicket)
		protected.DELETE("/tickets/:id", ticketHandler.DeleteTicket)
	}

	return router
}
