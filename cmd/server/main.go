package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/oceanstay/booking-service/config"
	"github.com/oceanstay/booking-service/internal/database"
	"github.com/oceanstay/booking-service/internal/gateway"
	"github.com/oceanstay/booking-service/internal/handlers"
	"github.com/oceanstay/booking-service/internal/mapping"
	"github.com/oceanstay/booking-service/internal/middleware"
	"github.com/oceanstay/booking-service/internal/storage"
	"github.com/oceanstay/booking-service/internal/sweepers"
	"github.com/oceanstay/booking-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting booking service")

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}

	ctx := context.Background()
	if err := database.Connect(
		ctx,
		dbURL,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		cfg.Database.MaxConnLifetime,
		cfg.Database.MaxConnIdleTime,
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if err := database.InitSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize schema")
	}

	logger.Info().Msg("Database connected")

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.GetConfigFromEnv())
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize telemetry")
		shutdownTelemetry = func(context.Context) error { return nil }
	}

	if err := handleInterruptedRuns(ctx, logger); err != nil {
		logger.Warn().Err(err).Msg("Failed to handle interrupted runs")
	}

	m, err := mapping.Load(cfg.Importer.MappingPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load mapping document")
	}

	store, err := storage.NewLocalStorage(cfg.Importer.ArtifactDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize artifact storage")
	}

	handlers.Configure(
		gateway.New(database.Pool(), m, store),
		store,
		cfg.Importer.MaxConcurrentRuns,
		cfg.Importer.MaxUploadBytes,
	)

	artifactSweeper := sweepers.NewArtifactSweeper(
		database.Pool(), store, logger, time.Hour, cfg.Importer.ArtifactRetention)
	go artifactSweeper.Start(ctx)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware(cfg.Server.InternalAPIKey))
	internal.Use(middleware.ServiceRateLimitMiddleware(50, 100))
	{
		internal.GET("/health", handlers.HealthCheck)

		imports := internal.Group("/imports")
		{
			imports.POST("/upload", handlers.UploadImport)
			imports.POST("/validate", handlers.ValidateImport)
			imports.GET("/runs", handlers.ListRuns)
			imports.GET("/runs/:ingestionId", handlers.GetRun)
			imports.GET("/runs/:ingestionId/errors", handlers.GetRunErrors)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	artifactSweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Failed to shut down telemetry")
	}

	logger.Info().Msg("Server exited")
}

// handleInterruptedRuns marks runs that were mid-flight when the service
// last stopped. Their bookings either committed or rolled back whole, so
// an interrupted run needs review, not repair.
func handleInterruptedRuns(ctx context.Context, logger *zerolog.Logger) error {
	pool := database.Pool()

	tag, err := pool.Exec(ctx, `
		UPDATE import_runs
		SET status = 'interrupted',
		    completed_at = NOW()
		WHERE status = 'running'
	`)
	if err != nil {
		return fmt.Errorf("failed to mark interrupted runs: %w", err)
	}

	if tag.RowsAffected() > 0 {
		logger.Info().Int64("count", tag.RowsAffected()).Msg("Marked interrupted import runs")
	} else {
		logger.Info().Msg("No interrupted runs found")
	}
	return nil
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "booking-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		end := time.Now()
		latency := end.Sub(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
