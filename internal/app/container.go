package app

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/api"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/auth"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/booking"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/catalog"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/notification"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/ratelimit"
	"github.com/zak20021380/vitrinet2002-2025-sub002/internal/user"
)

// tokenTTL only matters for tokens minted locally (tests, tooling);
// production tokens come from the account service.
const tokenTTL = 30 * time.Minute

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  []string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	Logger       *slog.Logger

	BookingOptions booking.Options

	// RateLimit <= 0 disables throttling. Counters live in Redis when
	// RedisClient is set, in memory otherwise.
	RateLimit   int
	RateWindow  time.Duration
	RedisClient *redis.Client

	// Publisher, when set, receives confirmation events.
	Publisher notification.Publisher
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	JWTManager     *auth.JWTManager
	BookingService booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, tokenTTL)

	// Catalog Module
	catalogRepo := catalog.NewPgxRepository(cfg.DBPool)
	directory := catalog.NewDirectory(catalogRepo)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo)

	// Notification Module
	notificationRepo := notification.NewPgxRepository(cfg.DBPool)
	notificationService := notification.NewService(notificationRepo, cfg.Publisher, log)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(
		bookingRepo,
		directory,
		userService,
		notificationService,
		newLimiter(cfg),
		cfg.BookingOptions,
		log,
	)

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		Logger:         log,
		HealthCheck:    cfg.DBPool.Ping,
		BookingService: bookingService,
		JWTManager:     jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:         router,
		JWTManager:     jwtManager,
		BookingService: bookingService,
	}
}

func newLimiter(cfg Config) ratelimit.Limiter {
	if cfg.RateLimit <= 0 {
		return nil
	}
	if cfg.RedisClient != nil {
		return ratelimit.NewRedisLimiter(cfg.RedisClient, "ratelimit:", cfg.RateLimit, cfg.RateWindow)
	}
	return ratelimit.NewMemoryLimiter(cfg.RateLimit, cfg.RateWindow)
}
