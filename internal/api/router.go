package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fiscaldesk/obligations-api/internal/api/handler"
	"github.com/fiscaldesk/obligations-api/internal/api/middleware"
	"github.com/fiscaldesk/obligations-api/internal/core/service"
	mongodb "github.com/fiscaldesk/obligations-api/internal/infrastructure/db/mongo"
	redisdb "github.com/fiscaldesk/obligations-api/internal/infrastructure/db/redis"
	"github.com/fiscaldesk/obligations-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("obligations"))
	e.Use(middleware.RequestLog(log))

	// --- Dependencies ---
	accountRepo := mongodb.NewAccountRepository(db)
	obligationRepo := mongodb.NewObligationRepository(db)
	throttle := redisdb.NewLoginThrottle(rdb, cfg.Auth.MaxLoginFailures, cfg.Auth.LoginFailureWindow)

	authService := service.NewAuthService(accountRepo, throttle, cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL, log)
	obligationService := service.NewObligationService(obligationRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	obligationHandler := handler.NewObligationHandler(obligationService)
	authMiddleware := middleware.Auth(cfg.Auth.JWTSecret)

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/token/refresh", authHandler.Refresh)

	// --- Obligation routes (bearer token required) ---
	g := e.Group("/obligations", authMiddleware)
	g.GET("", obligationHandler.List)
	g.POST("", obligationHandler.Create)
	g.GET("/:id", obligationHandler.Get)
	g.PUT("/:id", obligationHandler.Replace)
	g.PATCH("/:id", obligationHandler.Patch)
	g.DELETE("/:id", obligationHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
