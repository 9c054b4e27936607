package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"koinsave/internal/config"
	"koinsave/internal/database"
	"koinsave/internal/handlers"
	appmiddleware "koinsave/internal/middleware"
	"koinsave/internal/repositories"
	"koinsave/internal/services"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const demoSeedValue = 11

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	sqlDB, err := db.DB.DB()
	if err != nil {
		slog.Error("failed to get sql.DB", "error", err)
		os.Exit(1)
	}

	migrationRunner := database.NewMigrationRunner(sqlDB)
	if err := migrationRunner.WaitForDatabase(); err != nil {
		slog.Error("database not reachable", "error", err)
		os.Exit(1)
	}
	if err := migrationRunner.RunMigrations(); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	if err := db.CreateIndexes(); err != nil {
		slog.Error("failed to create indexes", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db.DB)
	transactionRepo := repositories.NewTransactionRepository(db.DB)
	blacklistedTokenRepo := repositories.NewBlacklistedTokenRepository(db.DB)

	go sweepBlacklistedTokens(blacklistedTokenRepo, time.Hour)

	// Services
	metrics := services.NewPrometheusMetrics()
	tokenService := services.NewTokenService(&cfg.JWT)
	passwordService := services.NewPasswordService(&cfg.Security)
	authService := services.NewAuthService(userRepo, blacklistedTokenRepo, passwordService, tokenService, logger)
	transactionService := services.NewTransactionService(transactionRepo, userRepo, metrics)
	analyticsService := services.NewAnalyticsService(transactionRepo, userRepo, cfg.Engine.UpcomingBillsReserve, metrics)
	insightService := services.NewInsightService(transactionRepo, metrics)
	demoDataService := services.NewDemoDataService(transactionRepo, userRepo, demoSeedValue)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, insightService)
	healthHandler := handlers.NewHealthCheckHandler(db.DB)
	devHandler := handlers.NewDevHandler(demoDataService)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = appmiddleware.CustomHTTPErrorHandler
	e.Validator = handlers.NewValidator()

	e.Use(appmiddleware.RequestID())
	e.Use(appmiddleware.PanicRecovery())
	e.Use(appmiddleware.SecurityHeaders())
	e.Use(appmiddleware.RateLimiter(appmiddleware.RateLimiterConfig{
		RequestsPerSecond: cfg.Security.RateLimitPerSecond,
		Burst:             cfg.Security.RateLimitBurst,
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	requireAuth := appmiddleware.RequireAuth(tokenService, blacklistedTokenRepo)

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, requireAuth)
	auth.GET("/me", authHandler.Me, requireAuth)

	transactions := v1.Group("/transactions", requireAuth)
	transactions.POST("", transactionHandler.Create)
	transactions.GET("", transactionHandler.List)
	transactions.GET("/export", transactionHandler.Export)

	analytics := v1.Group("/analytics", requireAuth)
	analytics.GET("/summary", analyticsHandler.Summary)
	analytics.GET("/categories", analyticsHandler.Categories)
	analytics.GET("/subscriptions", analyticsHandler.Subscriptions)
	analytics.GET("/safe-to-spend", analyticsHandler.SafeToSpend)
	analytics.GET("/insights", analyticsHandler.Insights)

	if cfg.IsDevelopment() && cfg.Engine.SeedEnabled {
		dev := v1.Group("/dev", requireAuth)
		dev.POST("/seed", devHandler.SeedDemoData)
		slog.Info("development seed endpoint enabled")
	}

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("starting server", "addr", server.Addr, "environment", cfg.Server.Environment)
		if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

// sweepBlacklistedTokens periodically removes blacklist entries for tokens
// that have expired on their own, keeping the table from growing without
// bound.
func sweepBlacklistedTokens(repo repositories.BlacklistedTokenRepositoryInterface, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		removed, err := repo.DeleteExpired()
		if err != nil {
			slog.Error("blacklist sweep failed", "error", err)
			continue
		}
		if removed > 0 {
			slog.Info("blacklist sweep removed expired tokens", "count", removed)
		}
	}
}
