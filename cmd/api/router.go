package main

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"budgetwise/internal/config"
	"budgetwise/internal/handlers"
	"budgetwise/internal/middleware"
	"budgetwise/internal/repository"
	"budgetwise/internal/services"
	"budgetwise/internal/validator"

	_ "budgetwise/internal/docs" // Import swagger docs
)

// newRouter wires services and handlers over store and registers every route.
func newRouter(cfg *config.Config, store repository.Store, ping func(context.Context) error, txOptions ...services.TransactionOption) *gin.Engine {
	// Initialize services
	userService := services.NewUserService(store)
	categoryService := services.NewCategoryService(store)
	budgetService := services.NewBudgetService(store)
	transactionService := services.NewTransactionService(store, txOptions...)
	auditService := services.NewAuditService(store)
	llmUsageService := services.NewLLMUsageService(store)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, categoryService, auditService)
	authHandler.ExposeResetToken = !cfg.IsProduction()
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService, cfg.MaxImportBytes)
	llmUsageHandler := handlers.NewLLMUsageHandler(llmUsageService)
	healthHandler := handlers.NewHealthHandler(cfg.StorageDriver, ping)

	validator.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSOrigin))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", healthHandler.Health)

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/password/forgot", authHandler.ForgotPassword)
	auth.POST("/password/reset", authHandler.ResetPassword)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/session", authHandler.GetSession)
	protected.GET("/profile", authHandler.GetProfile)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.POST("/seed", categoryHandler.SeedDefaultCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/dashboard", budgetHandler.GetDashboard)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/status", budgetHandler.GetBudgetStatus)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/summary", budgetHandler.GetSpendingSummary)
	transactions.POST("/bulk", transactionHandler.BulkImport)
	transactions.POST("/import/csv", transactionHandler.ImportCSV)
	transactions.POST("/parse-invoice", transactionHandler.ParseInvoice)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/:id/categorize", transactionHandler.CategorizeTransaction)

	protected.GET("/llm-usage", llmUsageHandler.GetUsage)

	return router
}
