package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIPrefix is the versioned mount point of the API. Every route is also
// served from the root.
const APIPrefix = "/api/v1"

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.NoRoute(func(c *gin.Context) {
		respondFail(c, http.StatusNotFound, "Route not found")
	})

	health := NewHealthController(cfg.Database, cfg.ReportsDir, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	registerAPI(router.Group("/"), cfg)
	registerAPI(router.Group(APIPrefix), cfg)

	return router
}

func registerAPI(api *gin.RouterGroup, cfg RouterConfig) {
	if cfg.RateLimiter != nil {
		api = api.Group("", cfg.RateLimiter.Middleware())
	}

	booksController := NewBooksController(cfg.Books)
	books := api.Group("/books")
	books.GET("", booksController.ListBooks)
	books.GET("/:id", booksController.GetBook)
	books.POST("", booksController.CreateBook)
	books.PATCH("/:id", booksController.UpdateBook)
	books.DELETE("/:id", booksController.DeleteBook)

	borrowersController := NewBorrowersController(cfg.Borrowers)
	borrowers := api.Group("/borrowers")
	borrowers.GET("", borrowersController.ListBorrowers)
	borrowers.GET("/:id", borrowersController.GetBorrower)
	borrowers.POST("", borrowersController.CreateBorrower)
	borrowers.PATCH("/:id", borrowersController.UpdateBorrower)
	borrowers.DELETE("/:id", borrowersController.DeleteBorrower)

	borrowingsController := NewBorrowingsController(cfg.Circulation)
	borrowings := api.Group("/borrowings")
	borrowings.POST("", borrowingsController.Checkout)
	borrowings.PATCH("", borrowingsController.Return)
	borrowings.GET("/borrowed/:borrowerId", borrowingsController.BorrowedBooks)
	borrowings.GET("/overdue", borrowingsController.OverdueBooks)
	borrowings.GET("/report", borrowingsController.ExportReport)

	// Audit trail
	if cfg.AuditEvents != nil {
		auditController := NewAuditController(cfg.AuditEvents)
		api.GET("/audit", auditController.GetAuditEvents)
		api.GET("/audit/borrowers/:borrowerId", auditController.GetBorrowerHistory)
	}

	// Task management endpoints
	if cfg.TaskQueue != nil {
		tasksController := NewTasksController(cfg.TaskQueue, cfg.ReportRetention, cfg.AuditRetentionDays)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/:type/run", tasksController.RunTask)
	}
}
