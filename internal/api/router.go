package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/auth"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/booking"
	bookingHttp "github.com/zak20021380/vitrinet2002-2025-sub002/internal/booking/http"
)

// Config carries what the router needs from the container.
type Config struct {
	IsProduction bool
	ProdOrigins  []string
	Logger       *slog.Logger

	// HealthCheck backs GET /healthz. Nil reports healthy.
	HealthCheck func(ctx context.Context) error

	BookingService booking.Service
	JWTManager     *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: structured access log with a request id.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestLogger(cfg.Logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = cfg.ProdOrigins
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	if len(corsConfig.AllowOrigins) > 0 {
		r.Use(cors.New(corsConfig))
	}

	// optionalAuth: Records the caller's identity when a valid JWT is present.
	optionalAuth := auth.OptionalAuth(cfg.JWTManager)
	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// sellerMiddleware: Further checks that the authenticated account is a seller.
	sellerMiddleware := auth.RequireRole(auth.RoleSeller)

	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	r.GET("/healthz", healthHandler(cfg.HealthCheck))

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		bookingHttp.RegisterRoutes(v1, bookingHandler, optionalAuth, authMiddleware, sellerMiddleware)
	}

	return r
}
