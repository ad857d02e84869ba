package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/wicara/warungpos-api/internal/application/service"
	"github.com/wicara/warungpos-api/internal/config"
	"github.com/wicara/warungpos-api/internal/infrastructure/database"
	"github.com/wicara/warungpos-api/internal/infrastructure/repository"
	"github.com/wicara/warungpos-api/internal/presentation/http/handler"
	"github.com/wicara/warungpos-api/internal/presentation/http/routes"
	"github.com/wicara/warungpos-api/pkg/email"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	transactionRepo := repository.NewTransactionRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	summaryRepo := repository.NewDailySummaryRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize email service. Shift close reports are skipped when no
	// recipient is configured.
	var notifier service.ShiftNotifier
	if cfg.Email.SMTPHost != "" && cfg.Email.ReportEmail != "" {
		notifier = email.NewEmailService(email.EmailConfig{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromName:     cfg.Email.FromName,
			FromEmail:    cfg.Email.FromEmail,
			ReportEmail:  cfg.Email.ReportEmail,
		})
	}

	// Initialize services
	analyticsService := service.NewAnalyticsService(transactionRepo, expenseRepo, summaryRepo)
	priceService := service.NewPriceService(transactionRepo)
	transactionService := service.NewTransactionService(transactionRepo, shiftRepo, analyticsService, cfg.Sales.TaxRate)
	shiftService := service.NewShiftService(shiftRepo, transactionRepo, expenseRepo, analyticsService, notifier)
	expenseService := service.NewExpenseService(expenseRepo, shiftRepo, analyticsService)
	sessionService := service.NewSessionService(priceService, transactionService)

	// Initialize handlers
	handlers := &routes.Handlers{
		Session:     handler.NewSessionHandler(sessionService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Shift:       handler.NewShiftHandler(shiftService),
		Expense:     handler.NewExpenseHandler(expenseService),
		Analytics:   handler.NewAnalyticsHandler(analyticsService),
		Summary:     handler.NewSummaryHandler(analyticsService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
