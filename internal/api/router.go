package api

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/jobbee/jobboard-api/internal/api/handler"
	"github.com/jobbee/jobboard-api/internal/api/middleware"
	"github.com/jobbee/jobboard-api/internal/core/domain"
	"github.com/jobbee/jobboard-api/internal/core/ports"
)

// BasePath prefixes every business route.
const BasePath = "/api/v1"

// RouterConfig carries the services and settings the HTTP layer needs.
type RouterConfig struct {
	Logger      zerolog.Logger
	JWTSecret   string
	CORSOrigins []string
	Cookie      handler.CookieConfig
	// MaxUploadSize bounds the apply request body. Zero disables the limit.
	MaxUploadSize int64

	Jobs         ports.JobService
	Applications ports.ApplicationService
	Users        ports.UserService
	Auth         ports.AuthService

	// Readiness maps dependency names to their pingers for /health/ready.
	Readiness map[string]handler.Pinger
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(cfg.Logger))
	e.Use(corsMiddleware(cfg.CORSOrigins))
	e.Use(metricsMiddleware(cfg.Registry))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(cfg.Auth, cfg.Cookie)
	jobHandler := handler.NewJobHandler(cfg.Jobs, cfg.Applications)
	userHandler := handler.NewUserHandler(cfg.Users)
	auth := middleware.Auth(cfg.JWTSecret)
	employers := middleware.RBAC(domain.RoleEmployer, domain.RoleAdmin)
	applicants := middleware.RBAC(domain.RoleUser)
	admins := middleware.RBAC(domain.RoleAdmin)

	v1 := e.Group(BasePath)

	// --- Job routes ---
	v1.GET("/jobs", jobHandler.List, auth)
	v1.GET("/jobs/applied", jobHandler.Applied, auth, applicants)
	v1.GET("/jobs/published", jobHandler.Published, auth, employers)
	v1.GET("/jobs/:id/:slug", jobHandler.Get, auth)
	v1.GET("/job/:zipcode/:distance", jobHandler.WithinRadius, auth)
	v1.GET("/stats/:topic", jobHandler.Stats, auth)
	v1.POST("/job/new", jobHandler.Create, auth, employers)
	v1.PUT("/job/:id", jobHandler.Update, auth, employers)
	v1.DELETE("/job/:id", jobHandler.Delete, auth, employers)
	v1.PUT("/job/:id/apply", jobHandler.Apply, auth, applicants, uploadLimit(cfg.MaxUploadSize))

	// --- Auth routes ---
	v1.POST("/register", authHandler.Register)
	v1.POST("/login", authHandler.Login)
	v1.GET("/logout", authHandler.Logout, auth)
	v1.PUT("/password/update", authHandler.UpdatePassword, auth)

	// --- User routes ---
	v1.GET("/me", userHandler.Me, auth)
	v1.PUT("/me/update", userHandler.UpdateProfile, auth)
	v1.DELETE("/me/delete", userHandler.DeleteMe, auth)
	v1.GET("/users", userHandler.List, auth, admins)
	v1.DELETE("/user/:id", userHandler.Delete, auth, admins)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(cfg.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", metricsHandler(cfg.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// corsMiddleware allows credentials only for an explicit origin list.
func corsMiddleware(origins []string) echo.MiddlewareFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     origins,
		AllowCredentials: !lo.Contains(origins, "*"),
	})
}

func metricsMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{Namespace: "jobboard", Subsystem: "http"}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

// uploadLimit caps the multipart body a little above the resume size limit so
// oversized uploads are cut off before they are buffered.
func uploadLimit(maxFileSize int64) echo.MiddlewareFunc {
	if maxFileSize <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	const multipartOverhead = 64 << 10
	return echomiddleware.BodyLimit(strconv.FormatInt(maxFileSize+multipartOverhead, 10) + "B")
}
