package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskdesk/internal/cache"
	"taskdesk/internal/config"
	"taskdesk/internal/models"
	"taskdesk/internal/scheduler"
	"taskdesk/internal/server"
	"taskdesk/internal/services"
	"taskdesk/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(&models.Task{}, &models.Ticket{}, &models.User{}); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Info("database connected")

	cacheCfg := cache.DefaultCacheConfig()
	cacheCfg.Addr = cfg.GetRedisAddr()
	cacheCfg.Password = cfg.Redis.Password
	cacheCfg.DB = cfg.Redis.DB
	cacheCfg.PoolSize = cfg.Redis.PoolSize
	redisCache := cache.NewRedisCache(cacheCfg)
	defer redisCache.Close()

	if err := redisCache.Health(); err != nil {
		logger.Warn("redis unreachable at startup", zap.Error(err))
	}

	notifier := cache.NewNotifier(redisCache.Client(), logger)

	taskService := services.NewTaskService(notifier)
	cachedTasks := services.NewCachedTaskService(taskService, redisCache)
	ticketService := services.NewTicketService(notifier)
	authService := services.NewAuthService(cfg.Auth)
	userService := services.NewUserService()

	jobQueue := worker.NewJobQueue(redisCache.Client())
	jobWorker := worker.NewWorker(worker.WorkerConfig{
		RedisClient: redisCache.Client(),
		Logger:      logger,
		Queues:      cfg.Worker.Queues,
	})

	jobWorker.RegisterHandler(worker.JobTypeTaskReminder, func(ctx context.Context, job *worker.Job) error {
		digest, err := services.BuildReminderDigest(db, cachedTasks, time.Now())
		if err != nil {
			return err
		}
		logger.Info("daily reminder",
			zap.String("date", digest.Date),
			zap.Int("total", digest.Stats.Total),
			zap.Int("completed", digest.Stats.Completed),
			zap.Strings("pending", digest.Pending))
		return nil
	})

	jobWorker.RegisterHandler(worker.JobTypeTicketSLACheck, func(ctx context.Context, job *worker.Job) error {
		overdue, err := ticketService.OverdueTickets(db, time.Now(), cfg.Scheduler.SLAHours)
		if err != nil {
			return err
		}
		for _, t := range overdue {
			logger.Warn("ticket past SLA",
				zap.String("ticket_id", t.ID.String()),
				zap.String("title", t.Title),
				zap.String("priority", t.Priority),
				zap.Time("reported_at", t.ReportedAt))
		}
		return nil
	})

	jobWorker.RegisterHandler(worker.JobTypeCacheWarmup, func(ctx context.Context, job *worker.Job) error {
		return cachedTasks.WarmCache(db)
	})

	jobWorker.Start(cfg.Worker.Concurrency)
	defer jobWorker.Stop()

	sched := scheduler.New(jobQueue, cfg.Scheduler, logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	router := server.NewRouter(cfg, server.Dependencies{
		DB:            db,
		Cache:         redisCache,
		Logger:        logger,
		TaskService:   cachedTasks,
		TicketService: ticketService,
		UserService:   userService,
		AuthService:   authService,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
