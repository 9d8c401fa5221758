package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/davidkaruri/billify-api/internal/application/scheduler"
	"github.com/davidkaruri/billify-api/internal/application/service"
	"github.com/davidkaruri/billify-api/internal/config"
	"github.com/davidkaruri/billify-api/internal/infrastructure/database"
	"github.com/davidkaruri/billify-api/internal/infrastructure/repository"
	"github.com/davidkaruri/billify-api/internal/presentation/http/handler"
	"github.com/davidkaruri/billify-api/internal/presentation/http/routes"
	"github.com/davidkaruri/billify-api/pkg/email"
	"github.com/davidkaruri/billify-api/pkg/oauth"
	"github.com/davidkaruri/billify-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.App.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		logger.WithError(err).Warn("Failed to seed default data")
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)
	clientRepo := repository.NewClientRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	quotationItemRepo := repository.NewQuotationItemRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	invoiceItemRepo := repository.NewInvoiceItemRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	recurringRepo := repository.NewRecurringInvoiceRepository(db)
	recurringItemRepo := repository.NewRecurringInvoiceItemRepository(db)
	shareLinkRepo := repository.NewShareLinkRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	transactor := repository.NewTransactor(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.SMTP.Host,
		SMTPPort:     cfg.SMTP.Port,
		SMTPUsername: cfg.SMTP.Username,
		SMTPPassword: cfg.SMTP.Password,
		FromName:     cfg.SMTP.FromName,
		FromEmail:    cfg.SMTP.FromEmail,
		FrontendURL:  cfg.App.FrontendURL,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, passwordResetRepo, jwtManager, emailService)
	clientService := service.NewClientService(clientRepo)
	catalogService := service.NewCatalogService(catalogRepo)
	settingsService := service.NewSettingsService(settingsRepo, invoiceRepo, quotationRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, invoiceItemRepo, paymentRepo, clientRepo, settingsRepo, transactor)
	quotationService := service.NewQuotationService(quotationRepo, quotationItemRepo, clientRepo, settingsRepo, invoiceService, transactor)
	paymentService := service.NewPaymentService(paymentRepo, invoiceRepo, transactor)
	recurringService := service.NewRecurringService(recurringRepo, recurringItemRepo, clientRepo, settingsRepo, invoiceService, transactor, logger)
	shareLinkService := service.NewShareLinkService(shareLinkRepo, quotationRepo, invoiceRepo, quotationService)
	dashboardService := service.NewDashboardService(invoiceRepo)

	// Start the recurring invoice scheduler
	if cfg.Scheduler.Enabled {
		sched := scheduler.New(recurringService, logger, cfg.Scheduler.Interval)
		go sched.Start(context.Background())
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService, googleOAuthService),
		Client:    handler.NewClientHandler(clientService),
		Catalog:   handler.NewCatalogHandler(catalogService),
		Quotation: handler.NewQuotationHandler(quotationService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Payment:   handler.NewPaymentHandler(paymentService),
		Recurring: handler.NewRecurringHandler(recurringService),
		ShareLink: handler.NewShareLinkHandler(shareLinkService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          logger,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	logger.WithFields(logrus.Fields{
		"app":  cfg.App.Name,
		"env":  cfg.App.Env,
		"port": port,
	}).Info("Starting server")

	if err := router.Run(":" + port); err != nil {
		logger.WithError(err).Fatal("Failed to start server")
	}
}
