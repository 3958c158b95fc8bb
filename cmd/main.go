package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"validtrack/internal/clients"
	"validtrack/internal/config"
	"validtrack/internal/handlers"
	"validtrack/internal/middleware"
	"validtrack/internal/repository"
	"validtrack/internal/service"
	"validtrack/internal/worker"
	"validtrack/pkg/database"
	"validtrack/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	// Загрузка .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("=== Validation Tracker Backend Starting ===")

	// Загрузка конфигурации
	cfg := config.Load()

	// Подключение к базе данных
	db, err := database.Connect(database.Config{
		Driver:   cfg.DB.Driver,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// Подключение к Redis
	redisClient, err := redis.Connect(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Автомиграция моделей
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Инициализация репозиториев
	reportRepo := repository.NewReportRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	logRepo := repository.NewNotificationLogRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	// SMTP отправитель
	mailer := clients.NewSMTPMailer(clients.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})

	// Инициализация сервисов
	reportService := service.NewReportService(reportRepo, cacheRepo)
	notificationService := service.NewNotificationService(
		reportRepo, settingRepo, logRepo, mailer, cfg.Notify.DispatchTimeout)
	exportService := service.NewExportService(reportRepo, cfg.Export.OutputDir)

	// Фоновая проверка горящих записей
	scheduler := worker.NewScheduler()
	if cfg.Workers.DueDateEnabled {
		scheduler.AddWorker(worker.NewDueDateWorker(notificationService, cfg.Workers.DueDateInterval))
		log.Printf("Due date worker enabled (interval: %v)", cfg.Workers.DueDateInterval)
	}

	go scheduler.Start()
	defer scheduler.Stop()

	// Инициализация Gin
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in DEBUG mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.RequestIDMiddleware())

	// CORS для фронтенда
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiting (только для продакшена)
	if !cfg.App.Debug {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter))
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Инициализация хендлеров
	reportHandler := handlers.NewReportHandler(reportService, exportService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	systemHandler := handlers.NewSystemHandler(cfg, reportRepo, logRepo, redisClient)

	api := r.Group("/api/v1")

	// Записи инвентаря
	api.GET("/reports", reportHandler.ListReports)
	api.POST("/reports", reportHandler.CreateReport)
	api.GET("/reports/:id", reportHandler.GetReport)
	api.PUT("/reports/:id", reportHandler.UpdateReport)
	api.DELETE("/reports/:id", reportHandler.DeleteReport)
	api.GET("/export/reports", reportHandler.ExportReports)

	// Напоминания
	api.GET("/notifications/email", notificationHandler.GetEmail)
	api.PUT("/notifications/email", notificationHandler.SetEmail)
	api.POST("/notifications/run", notificationHandler.RunCheck)
	api.GET("/notifications/log", notificationHandler.GetLog)

	// Системные эндпоинты
	api.GET("/health", systemHandler.Health)
	api.GET("/system/stats", systemHandler.Stats)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.App.Port)
		log.Printf("API available at http://localhost:%s/api/v1", cfg.App.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited properly")
}
