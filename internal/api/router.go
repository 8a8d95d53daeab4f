package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ledgerbook/finance-tracker/docs"
	"github.com/ledgerbook/finance-tracker/internal/api/handler"
	"github.com/ledgerbook/finance-tracker/internal/api/middleware"
	"github.com/ledgerbook/finance-tracker/internal/core/ports"
	"github.com/ledgerbook/finance-tracker/internal/infrastructure/http/handlers"
)

// Dependencies is everything the router wires into handlers.
type Dependencies struct {
	Auth         ports.AuthService
	Gate         ports.Gate
	Categories   ports.CategoryService
	Transactions ports.TransactionService
	Stats        ports.StatsService

	Cookie    handler.CookieConfig
	Readiness []handlers.Dependency

	// Registerer and Gatherer back the HTTP metrics and /metrics. Nil means
	// the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Binder = handler.StrictJSONBinder{}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer, gatherer := deps.Registerer, deps.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "finance",
		Registerer: registerer,
	}))

	// --- Operational routes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Cookie)
	categoryHandler := handler.NewCategoryHandler(deps.Categories)
	transactionHandler := handler.NewTransactionHandler(deps.Transactions, deps.Stats)

	apiGroup := e.Group("/api", middleware.Session(deps.Gate, deps.Cookie.Name))

	apiGroup.POST("/signup", authHandler.Signup)
	apiGroup.POST("/login", authHandler.Login)
	apiGroup.POST("/logout", authHandler.Logout)
	apiGroup.GET("/me", authHandler.Me)

	requireUser := middleware.RequireUser()

	apiGroup.GET("/categories", categoryHandler.List, requireUser)
	apiGroup.POST("/categories", categoryHandler.Create, requireUser)
	apiGroup.DELETE("/categories/:id", categoryHandler.Delete, requireUser)

	apiGroup.GET("/transactions", transactionHandler.List, requireUser)
	apiGroup.POST("/transactions", transactionHandler.Create, requireUser)
	apiGroup.DELETE("/transactions/:id", transactionHandler.Delete, requireUser)

	apiGroup.GET("/stats", transactionHandler.Stats, requireUser)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			if user, ok := middleware.CurrentUser(c); ok {
				evt = evt.Int64("user_id", user.ID)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
