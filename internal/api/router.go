package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/petbnb/marketplace/docs"
	"github.com/petbnb/marketplace/internal/api/handler"
	"github.com/petbnb/marketplace/internal/api/metrics"
	"github.com/petbnb/marketplace/internal/api/middleware"
	"github.com/petbnb/marketplace/internal/core/domain"
	"github.com/petbnb/marketplace/internal/core/ports"
)

// Dependencies is everything NewRouter needs. Idempotency and HealthChecks
// are optional; Registry defaults to a fresh registry.
type Dependencies struct {
	Auth     ports.AuthService
	Listings ports.ListingService
	Bookings ports.BookingService

	Idempotency  ports.IdempotencyStore
	HealthChecks []handler.DependencyCheck
	Registry     *prometheus.Registry

	JWTSecret   string
	CORSOrigins []string
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if err := metrics.Register(reg); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: corsOrigins(deps.CORSOrigins),
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			middleware.HeaderIdempotencyKey,
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "petbnb",
		Registerer: reg,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	listingHandler := handler.NewListingHandler(deps.Listings)
	bookingHandler := handler.NewBookingHandler(deps.Bookings)
	authMiddleware := middleware.Auth(deps.JWTSecret)
	sitterOnly := middleware.RBAC(domain.RoleSitter)
	ownerOnly := middleware.RBAC(domain.RoleOwner)

	// Create endpoints replay repeated Idempotency-Keys when a store is wired.
	createGuards := func(role echo.MiddlewareFunc) []echo.MiddlewareFunc {
		mws := []echo.MiddlewareFunc{authMiddleware, role}
		if deps.Idempotency != nil {
			mws = append(mws, middleware.Idempotency(deps.Idempotency, deps.Logger))
		}
		return mws
	}

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authMiddleware)

	// --- Listing routes ---
	listings := api.Group("/listings")
	listings.GET("", listingHandler.List)
	listings.GET("/me", listingHandler.ListMine, authMiddleware, sitterOnly)
	listings.GET("/:id", listingHandler.Get)
	listings.POST("", listingHandler.Create, createGuards(sitterOnly)...)
	// Routes on a single record leave the role check to the service, which
	// looks the record up first so a missing id is 404 for every caller.
	listings.PUT("/:id", listingHandler.Update, authMiddleware)
	listings.DELETE("/:id", listingHandler.Delete, authMiddleware)

	// --- Booking routes ---
	bookings := api.Group("/bookings")
	bookings.POST("", bookingHandler.Create, createGuards(ownerOnly)...)
	bookings.GET("/owner", bookingHandler.ListForOwner, authMiddleware, ownerOnly)
	bookings.GET("/sitter", bookingHandler.ListForSitter, authMiddleware, sitterOnly)
	bookings.PUT("/:id", bookingHandler.UpdateStatus, authMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
