// Package fakeapi is an in-process stand-in for the storefront REST API.
// It implements the part of the contract the client consumes and is used
// by integration tests and by cmd/fakeapi for local development.
package fakeapi

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/fakeapi/middleware"
)

const (
	DefaultMaxUpload = 10 << 20
	defaultTokenTTL  = 24 * time.Hour
)

type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	// AdminCode must accompany registrations that ask for the admin role.
	AdminCode string
	// MaxUpload is the image size limit; larger uploads get 413.
	MaxUpload int64
	// Registry receives the HTTP metrics; a private registry is used when nil.
	Registry *prometheus.Registry
	// BcryptCost overrides bcrypt.DefaultCost; tests lower it.
	BcryptCost int
	// AccessLog enables Echo's request logger.
	AccessLog bool
	Logger    zerolog.Logger
}

// Server bundles the Echo instance with its data.
type Server struct {
	*echo.Echo
	Store *Store
	opts  Options
}

// New builds the fake API with all routes registered under /api.
func New(opts Options) *Server {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = DefaultMaxUpload
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newValidator()
	e.HTTPErrorHandler = newHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	if opts.AccessLog {
		e.Use(echomiddleware.Logger())
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "fakeapi",
		Registerer: opts.Registry,
	}))

	s := &Server{Echo: e, Store: NewStore(), opts: opts}
	if opts.BcryptCost > 0 {
		s.Store.bcryptCost = opts.BcryptCost
	}

	// --- Probes and metrics (no auth required) ---
	health := newHealthHandler(s.Store)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Registry}))

	api := e.Group("/api")
	auth := middleware.Auth(opts.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin.Authority())

	// --- Auth routes ---
	ah := &authHandler{store: s.Store, opts: opts}
	api.POST("/auth/login", ah.Login)
	api.POST("/auth/register", ah.Register)
	api.POST("/auth/forgot-password", ah.ForgotPassword)
	api.POST("/auth/validate-token", ah.ValidateToken, auth)

	// --- Catalog: reads for any user, writes for admins ---
	ch := &catalogHandler{store: s.Store, maxUpload: opts.MaxUpload}
	products := api.Group("/products", auth)
	products.GET("", ch.ListProducts)
	products.GET("/search", ch.SearchProducts)
	products.GET("/category/:id", ch.ProductsByCategory)
	products.GET("/:id", ch.GetProduct)
	products.POST("", ch.CreateProduct, adminOnly)
	products.PUT("/:id", ch.UpdateProduct, adminOnly)
	products.DELETE("/:id", ch.DeleteProduct, adminOnly)
	products.POST("/:id/image", ch.UploadProductImage, adminOnly)

	categories := api.Group("/categories", auth)
	categories.GET("", ch.ListCategories)
	categories.GET("/:id", ch.GetCategory)
	categories.POST("", ch.CreateCategory, adminOnly)
	categories.PUT("/:id", ch.UpdateCategory, adminOnly)
	categories.DELETE("/:id", ch.DeleteCategory, adminOnly)
	categories.POST("/:id/image", ch.UploadCategoryImage, adminOnly)

	// --- Administration ---
	uh := &userHandler{store: s.Store}
	users := api.Group("/admin/users", auth, adminOnly)
	users.GET("", uh.List)
	users.GET("/stats", uh.Stats)
	users.GET("/:id", uh.Get)
	users.PUT("/:id", uh.Update)
	users.DELETE("/:id", uh.Delete)
	users.PATCH("/:id/toggle-lock", uh.ToggleLock)
	users.PATCH("/:id/change-password", uh.ChangePassword)

	rh := &reportHandler{store: s.Store, now: time.Now}
	reports := api.Group("/reports", auth, adminOnly)
	reports.GET("/available", rh.Available)
	for _, kind := range domain.ReportKinds() {
		path, _ := kind.Path()
		reports.GET(path[len("/reports"):], rh.generate(kind))
	}

	return s
}
