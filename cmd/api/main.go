package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"portfolioapi/docs"
	"portfolioapi/internal/config"
	"portfolioapi/internal/database"
	"portfolioapi/internal/database/migration"
	handlers "portfolioapi/internal/http/handler"
	"portfolioapi/internal/http/middleware"
	"portfolioapi/internal/market"
	"portfolioapi/internal/otel"
	"portfolioapi/internal/repository"
	repofile "portfolioapi/internal/repository/file"
	"portfolioapi/internal/repository/postgres"
	"portfolioapi/internal/service"
	"portfolioapi/internal/storage"
	"portfolioapi/internal/validation"
)

// @title Portfolio API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	schema, err := validation.ParseSchema(cfg.Validate.Schema)
	if err != nil {
		log.Fatalf("invalid validation schema: %v", err)
	}
	validator := validation.NewValidator(schema, cfg.Validate.SampleRows)

	// Select the report store backend. The file store is the default and
	// needs no external dependency; postgres reuses the shared connection
	// for the /health dependency check.
	var (
		reportRepo repository.ReportRepository
		db         *sql.DB
	)
	switch cfg.Reports.Backend {
	case "postgres":
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		reportRepo = postgres.NewReportPostgres(db)
	case "file":
		fileRepo, err := repofile.NewReportFile(cfg.Reports.Dir)
		if err != nil {
			log.Fatalf("failed to initialize report directory: %v", err)
		}
		reportRepo = fileRepo
	default:
		log.Fatalf("unknown report store backend: %q", cfg.Reports.Backend)
	}

	// Optional raw-upload archive on S3-compatible object storage.
	var archive storage.Storage
	if cfg.Validate.ArchiveToS3 {
		archive, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
	}

	validateSvc := service.NewValidateService(validator, reportRepo, archive)

	gateway := market.NewCachedGateway(
		market.NewYahooClient(
			time.Duration(cfg.Market.TimeoutSec)*time.Second,
			market.WithBaseURL(cfg.Market.BaseURL),
		),
		time.Duration(cfg.Market.CacheTTLSec)*time.Second,
		cfg.Market.CacheMaxItems,
	)
	portfolioSvc := service.NewPortfolioService(gateway, service.FileHoldings(cfg.Validate.HoldingsPath, schema))

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.Validate.MaxUploadMB * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, gateway, portfolioSvc, validateSvc, cfg.Market.HistoryRange)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	// Static frontend
	app.Static("/", cfg.StaticDir)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	case <-ctx.Done():
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
