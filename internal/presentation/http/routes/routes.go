package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wicara/warungpos-api/internal/config"
	domainRepo "github.com/wicara/warungpos-api/internal/domain/repository"
	"github.com/wicara/warungpos-api/internal/presentation/http/handler"
	"github.com/wicara/warungpos-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Session     *handler.SessionHandler
	Transaction *handler.TransactionHandler
	Shift       *handler.ShiftHandler
	Expense     *handler.ExpenseHandler
	Analytics   *handler.AnalyticsHandler
	Summary     *handler.SummaryHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
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
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		v1.Use(rateLimiter.Middleware())

		registerSessionRoutes(v1, h, deps)
		registerTransactionRoutes(v1, h)
		registerShiftRoutes(v1, h)
		registerExpenseRoutes(v1, h)
		registerAnalyticsRoutes(v1, h)
		registerSummaryRoutes(v1, h)
	}

	return router
}

func registerSessionRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	sessions := v1.Group("/sessions")
	{
		sessions.GET("/:id", h.Session.Get)
		sessions.POST("/:id/extraction", h.Session.ProcessExtraction)
		sessions.POST("/:id/quantities/confirm", h.Session.ConfirmQuantities)
		sessions.POST("/:id/quantities/skip", h.Session.SkipQuantities)
		sessions.POST("/:id/prices/confirm", h.Session.ConfirmPrices)
		sessions.POST("/:id/prices/skip", h.Session.SkipPrices)
		sessions.POST("/:id/items", h.Session.AddItem)
		sessions.DELETE("/:id/items/:name", h.Session.RemoveItem)
		sessions.POST("/:id/reset", h.Session.Reset)
		// Checkout uses idempotency middleware so a retried request cannot
		// commit the sale twice.
		sessions.POST("/:id/checkout", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Session.Checkout)
	}
}

func registerTransactionRoutes(v1 *gin.RouterGroup, h *Handlers) {
	transactions := v1.Group("/transactions")
	{
		transactions.GET("", h.Transaction.List)
		transactions.GET("/:id", h.Transaction.Get)
	}
}

func registerShiftRoutes(v1 *gin.RouterGroup, h *Handlers) {
	shifts := v1.Group("/shifts")
	{
		shifts.GET("", h.Shift.List)
		shifts.POST("", h.Shift.Open)
		shifts.POST("/close", h.Shift.Close)
		shifts.GET("/current", h.Shift.Current)
		shifts.GET("/:id", h.Shift.Get)
		shifts.GET("/:id/balance-sheet", h.Shift.BalanceSheet)
	}
}

func registerExpenseRoutes(v1 *gin.RouterGroup, h *Handlers) {
	expenses := v1.Group("/expenses")
	{
		expenses.GET("", h.Expense.List)
		expenses.POST("", h.Expense.Create)
		expenses.GET("/:id", h.Expense.Get)
	}
}

func registerAnalyticsRoutes(v1 *gin.RouterGroup, h *Handlers) {
	analytics := v1.Group("/analytics")
	{
		analytics.GET("/summary", h.Analytics.Summary)
		analytics.GET("/menu-items", h.Analytics.MenuItems)
		analytics.GET("/busy-hours", h.Analytics.BusyHours)
		analytics.GET("/trends", h.Analytics.Trends)
		analytics.GET("/expenses", h.Analytics.Expenses)
	}
}

func registerSummaryRoutes(v1 *gin.RouterGroup, h *Handlers) {
	summaries := v1.Group("/summaries")
	{
		summaries.GET("/daily", h.Summary.Get)
		summaries.POST("/daily/recompute", h.Summary.Recompute)
	}
}
