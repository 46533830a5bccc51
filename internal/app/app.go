package app

import (
	"database/sql"
	"fmt"
	"log"

	"daygrid/internal/config"
	"daygrid/internal/handlers"
	"daygrid/internal/middleware"
	"daygrid/internal/pdf"
	"daygrid/internal/repositories"
	"daygrid/internal/routes"
	"daygrid/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "daygrid/docs"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.SetJWTKey(cfg.JWT.Secret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	prefsRepo := repositories.NewPreferencesRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	// Telegram is optional, nil when no token is configured
	tgService, err := services.NewTelegramService(cfg.Telegram.BotToken)
	if err != nil {
		log.Printf("[tg] disabled: %v", err)
		tgService = nil
	}

	userService := services.NewUserService(userRepo, emailService, authService)
	schedulerService := services.NewSchedulerService(eventRepo, prefsRepo, userRepo, emailService, tgService)
	eventService := services.NewEventService(eventRepo, schedulerService)
	importService := services.NewImportService(eventRepo, schedulerService)
	agendaService := services.NewAgendaService(eventRepo, userRepo, pdf.NewAgendaGenerator())

	reminderService := services.NewReminderService(eventRepo, userRepo, emailService, tgService)
	if err := reminderService.Start(); err != nil {
		log.Fatal("failed to start reminder sweep: ", err)
	}
	defer reminderService.Stop()

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService)
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService)
	preferencesHandler := handlers.NewPreferencesHandler(prefsRepo, schedulerService)
	scheduleHandler := handlers.NewScheduleHandler(schedulerService, agendaService)
	importHandler := handlers.NewImportHandler(importService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		eventHandler,
		preferencesHandler,
		scheduleHandler,
		importHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server stopped: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
