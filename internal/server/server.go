package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"finance-app/internal/config"
	"finance-app/internal/errors"
	"finance-app/internal/handlers"
	"finance-app/internal/middleware"
	"finance-app/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// multipartOverhead leaves room for form boundaries around the largest accepted file
const multipartOverhead = 1 << 20

// Options carries everything the HTTP layer is built from
type Options struct {
	Config       *config.Config
	Health       handlers.HealthChecker
	Imports      services.ImportServiceInterface
	Categories   services.CategoryServiceInterface
	Transactions services.TransactionServiceInterface
	RateLimiter  *middleware.RateLimiter
	Gatherer     prometheus.Gatherer
	Logger       *slog.Logger
}

// New builds the echo instance with middleware and all routes registered
func New(opts Options) *echo.Echo {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.RateLimiter == nil {
		opts.RateLimiter = middleware.NewRateLimiter(opts.Config.RateLimit)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(middleware.PanicRecovery(opts.Logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  opts.Config.Server.CORSAllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.TraceIDHeader},
		ExposeHeaders: []string{middleware.TraceIDHeader},
	}))

	healthHandler := handlers.NewHealthCheckHandler(opts.Health)
	uploadHandler := handlers.NewUploadHandler(opts.Imports, opts.Config.Import.Timeout, opts.Logger)
	transactionHandler := handlers.NewTransactionHandler(opts.Transactions)
	categoryHandler := handlers.NewCategoryHandler(opts.Categories)

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api/v1")
	api.GET("/health", healthHandler.HealthCheck)

	api.POST("/upload", uploadHandler.Upload,
		opts.RateLimiter.Middleware(),
		middleware.StatusErrorCode(http.StatusRequestEntityTooLarge, errors.ImportFileTooLarge),
		echomw.BodyLimit(byteLimit(opts.Config.Import.MaxUploadBytes+multipartOverhead)),
	)

	transactions := api.Group("/transactions", echomw.BodyLimit(byteLimit(opts.Config.Import.CommitLimit())))
	transactions.POST("/bulk", transactionHandler.CommitTransactions)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/uncategorized", transactionHandler.ListUncategorized)
	transactions.PUT("/bulk/category", transactionHandler.AssignCategory)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	categories := api.Group("/categories", echomw.BodyLimit("64K"))
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)

	keywords := api.Group("/category-keywords", echomw.BodyLimit("64K"))
	keywords.GET("", categoryHandler.ListKeywords)
	keywords.POST("", categoryHandler.CreateKeyword)
	keywords.GET("/:id", categoryHandler.GetKeyword)
	keywords.PUT("/:id", categoryHandler.UpdateKeyword)
	keywords.DELETE("/:id", categoryHandler.DeleteKeyword)
	keywords.DELETE("/category/:categoryId", categoryHandler.DeleteKeywordsByCategory)

	return e
}

// byteLimit renders n in the notation echomw.BodyLimit parses
func byteLimit(n int64) string {
	return strconv.FormatInt(n, 10) + "B"
}
