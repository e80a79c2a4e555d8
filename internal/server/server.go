// Package server assembles the HTTP API: services, middleware and routes.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "wallet/internal/docs" // swagger docs
	"wallet/internal/events"
	"wallet/internal/handlers"
	"wallet/internal/middleware"
	"wallet/internal/services"
)

// Services groups the business services the handlers depend on.
type Services struct {
	Users        services.UserServicer
	Categories   services.CategoryServicer
	Entries      services.EntryServicer
	Transactions services.TransactionServicer
	Audit        services.AuditServicer
}

// NewServices builds every service on db. Transaction events go to publisher.
func NewServices(db *gorm.DB, publisher events.Publisher) Services {
	return Services{
		Users:        services.NewUserService(db),
		Categories:   services.NewCategoryService(db),
		Entries:      services.NewEntryService(db),
		Transactions: services.NewTransactionService(db, publisher),
		Audit:        services.NewAuditService(db),
	}
}

// Options toggles the optional parts of the router. Nil middleware is skipped.
type Options struct {
	CORSOrigin  string
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.Metrics
	Swagger     bool
}

func cors(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// NewRouter wires the handlers for svc under /api/v1.
func NewRouter(svc Services, opts Options) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, svc.Audit)
	entryHandler := handlers.NewEntryHandler(svc.Entries)
	transactionHandler := handlers.NewTransactionHandler(svc.Transactions, svc.Audit)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	router.Use(middleware.ErrorHandler())
	router.Use(cors(opts.CORSOrigin))

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	if opts.RateLimiter != nil {
		v1.Use(opts.RateLimiter.Middleware())
	}

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	entries := protected.Group("/entries")
	entries.GET("", entryHandler.ListEntries)
	entries.GET("/summary", entryHandler.Summary)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PATCH("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	return router
}
