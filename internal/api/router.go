package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/address-verification/docs"
	"github.com/99minutos/address-verification/internal/api/handler"
	"github.com/99minutos/address-verification/internal/api/middleware"
	"github.com/99minutos/address-verification/internal/core/domain"
	"github.com/99minutos/address-verification/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	Log       zerolog.Logger
	JWTSecret string
	Auth      ports.AuthService
	Locations ports.LocationService
	// Queue receives automatic verifications for new locations. Optional.
	Queue handler.VerificationQueue
	// Checks are the readiness probes keyed by dependency name.
	Checks map[string]handler.Check
	// Registry collects HTTP metrics. The default registry is used when nil.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	locationHandler := handler.NewLocationHandler(deps.Locations, deps.Queue, deps.Log)
	healthHandler := handler.NewHealthHandler(deps.Checks)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Locations ---
	writers := middleware.RBAC(domain.RoleAdmin, domain.RoleOperator)
	readers := middleware.RBAC(domain.RoleAdmin, domain.RoleOperator, domain.RoleViewer)

	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))
	v1.POST("/locations", locationHandler.Create, writers)
	v1.GET("/locations/:id", locationHandler.Get, readers)
	v1.POST("/locations/:id/verify", locationHandler.Verify, writers)
	v1.GET("/locations/:id/attempts", locationHandler.Attempts, readers)

	// --- Users ---
	v1.POST("/users", authHandler.CreateUser, middleware.RBAC(domain.RoleAdmin))

	return e
}

// requestLogger logs one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
