package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/davidkaruri/billify-api/internal/config"
	domainRepo "github.com/davidkaruri/billify-api/internal/domain/repository"
	"github.com/davidkaruri/billify-api/internal/presentation/http/handler"
	"github.com/davidkaruri/billify-api/internal/presentation/http/middleware"
	"github.com/davidkaruri/billify-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Client    *handler.ClientHandler
	Catalog   *handler.CatalogHandler
	Quotation *handler.QuotationHandler
	Invoice   *handler.InvoiceHandler
	Payment   *handler.PaymentHandler
	Recurring *handler.RecurringHandler
	ShareLink *handler.ShareLinkHandler
	Settings  *handler.SettingsHandler
	Dashboard *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *logrus.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)
		registerShareRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

// registerShareRoutes serves documents to share link holders. The token is
// the credential; no JWT and no rate limiter keyed on a user.
func registerShareRoutes(v1 *gin.RouterGroup, h *Handlers) {
	share := v1.Group("/share")
	{
		share.POST("/:token", h.ShareLink.GetSharedDocument)
		share.POST("/:token/accept", h.ShareLink.AcceptSharedQuotation)
		share.POST("/:token/reject", h.ShareLink.RejectSharedQuotation)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Settings
	protected.GET("/settings", h.Settings.GetSettings)
	protected.PUT("/settings", h.Settings.UpdateSettings)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.GetSummary)

	registerClientRoutes(protected, h)
	registerCatalogRoutes(protected, h)
	registerQuotationRoutes(protected, h)
	registerInvoiceRoutes(protected, h, deps)
	registerPaymentRoutes(protected, h)
	registerRecurringRoutes(protected, h)
	registerShareLinkRoutes(protected, h)
}

func registerClientRoutes(protected *gin.RouterGroup, h *Handlers) {
	clients := protected.Group("/clients")
	{
		clients.GET("", h.Client.List)
		clients.POST("", h.Client.Create)
		clients.GET("/:id", h.Client.Get)
		clients.PUT("/:id", h.Client.Update)
		clients.DELETE("/:id", h.Client.Delete)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	catalog := protected.Group("/catalog-items")
	{
		catalog.GET("", h.Catalog.List)
		catalog.POST("", h.Catalog.Create)
		catalog.GET("/:id", h.Catalog.Get)
		catalog.PUT("/:id", h.Catalog.Update)
		catalog.DELETE("/:id", h.Catalog.Delete)
	}
}

func registerQuotationRoutes(protected *gin.RouterGroup, h *Handlers) {
	quotations := protected.Group("/quotations")
	{
		quotations.GET("", h.Quotation.List)
		quotations.POST("", h.Quotation.Create)
		quotations.GET("/:id", h.Quotation.Get)
		quotations.PUT("/:id", h.Quotation.Update)
		quotations.POST("/:id/status", h.Quotation.UpdateStatus)
		quotations.POST("/:id/convert", h.Quotation.Convert)
		quotations.DELETE("/:id", h.Quotation.Delete)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Invoice.Create)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id", h.Invoice.Update)
		invoices.POST("/:id/send", h.Invoice.Send)
		invoices.DELETE("/:id", h.Invoice.Delete)

		// Payment recording uses idempotency middleware to prevent duplicates
		invoices.GET("/:id/payments", h.Payment.ListByInvoice)
		invoices.POST("/:id/payments", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Payment.Record)
	}
}

func registerPaymentRoutes(protected *gin.RouterGroup, h *Handlers) {
	payments := protected.Group("/payments")
	{
		payments.PUT("/:id", h.Payment.Update)
		payments.DELETE("/:id", h.Payment.Delete)
	}
}

func registerRecurringRoutes(protected *gin.RouterGroup, h *Handlers) {
	recurring := protected.Group("/recurring-invoices")
	{
		recurring.GET("", h.Recurring.List)
		recurring.POST("", h.Recurring.Create)
		recurring.GET("/:id", h.Recurring.Get)
		recurring.PUT("/:id", h.Recurring.Update)
		recurring.POST("/:id/start", h.Recurring.Start)
		recurring.POST("/:id/stop", h.Recurring.Stop)
		recurring.GET("/:id/preview", h.Recurring.Preview)
		recurring.POST("/generate", h.Recurring.Generate)
		recurring.DELETE("/:id", h.Recurring.Delete)
	}
}

func registerShareLinkRoutes(protected *gin.RouterGroup, h *Handlers) {
	shareLinks := protected.Group("/share-links")
	{
		shareLinks.GET("", h.ShareLink.ListByDocument)
		shareLinks.POST("", h.ShareLink.Create)
		shareLinks.DELETE("/:id", h.ShareLink.Delete)
	}
}
