package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/carboniq/server/internal/adapter/ai/gemini"
	"github.com/carboniq/server/internal/adapter/cache"
	"github.com/carboniq/server/internal/adapter/external/payment"
	"github.com/carboniq/server/internal/adapter/geo"
	"github.com/carboniq/server/internal/adapter/http/fiber/handlers"
	"github.com/carboniq/server/internal/adapter/http/fiber/middleware"
	"github.com/carboniq/server/internal/adapter/identity"
	"github.com/carboniq/server/internal/adapter/queue"
	"github.com/carboniq/server/internal/adapter/render"
	"github.com/carboniq/server/internal/adapter/storage/postgres"
	"github.com/carboniq/server/internal/adapter/vault"
	wsAdapter "github.com/carboniq/server/internal/adapter/websocket"
	"github.com/carboniq/server/internal/observability/telemetry"
	"github.com/carboniq/server/internal/ports"
	"github.com/carboniq/server/internal/service/alert"
	"github.com/carboniq/server/internal/service/analytics"
	"github.com/carboniq/server/internal/service/auth"
	"github.com/carboniq/server/internal/service/ingest"
	"github.com/carboniq/server/internal/service/offset"
	"github.com/carboniq/server/internal/service/recommendation"
	"github.com/carboniq/server/internal/service/report"
	"github.com/carboniq/server/pkg/config"
)

const (
	serviceName    = "carboniq-server"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// 2. Initialize Logger
	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting CarbonIQ",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Resolve secrets from Vault when configured. Environment values stay
	// in place for anything Vault does not hold.
	if cfg.Vault.Address != "" {
		resolveSecrets(cfg, logger)
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, serviceVersion, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// 6. Initialize Cache (Redis, in-memory fallback for local development)
	appCache, err := cache.NewRedisCache(cfg.Redis.URL, logger)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
		appCache = cache.NewLocalCache(time.Minute, logger)
	}
	defer appCache.Close()

	// 7. Initialize Message Queue
	messageQueue, err := newMessageQueue(cfg.Queue, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer messageQueue.Close()

	// 8. Initialize Repositories
	sourceRepo := cache.NewCachedSourceRepository(postgres.NewSourceRepository(db, logger), appCache, time.Hour, logger)
	emissionRepo := postgres.NewEmissionRepository(db, logger)
	orgRepo := postgres.NewOrganizationRepository(db, logger)
	userRepo := postgres.NewUserRepository(db, logger)
	alertRepo := postgres.NewAlertRepository(db, logger)
	reportRepo := postgres.NewReportRepository(db, logger)

	ids := identity.NewUUIDProvider()

	// 9. Initialize Services (Business Logic Layer)
	authService := auth.NewService(userRepo, orgRepo, ids, cfg.JWT.Secret, logger)

	ingestService := ingest.NewService(sourceRepo, emissionRepo, ids, messageQueue, appCache, ingest.Options{
		Strict: cfg.Ingest.Strict,
		Mapping: ingest.ColumnMapping{
			Date:   cfg.Ingest.DateColumn,
			Source: cfg.Ingest.SourceColumn,
			Unit:   cfg.Ingest.UnitColumn,
			Amount: cfg.Ingest.AmountColumn,
			Notes:  cfg.Ingest.NotesColumn,
		},
	}, logger)

	analyticsService := analytics.NewService(emissionRepo, appCache, cfg.Cache.SummaryTTL, logger)

	offsetService := offset.NewService(
		payment.NewStripeService(cfg.Payment.Stripe.SecretKey, logger),
		cfg.Payment.Stripe.Currency,
		logger,
	)

	snapshots := render.NewRodSnapshotSource(cfg.Report.DashboardURL, cfg.Report.BrowserURL, logger)
	reportService := report.NewService(analyticsService, snapshots, reportRepo, ids, messageQueue, report.Options{
		SnapshotScale:   cfg.Report.SnapshotScale,
		SnapshotTimeout: cfg.Report.SnapshotTimeout,
	}, logger)

	geminiClient := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
	recommendationService := recommendation.NewService(geminiClient, logger)

	notifier := alert.NewSendGridNotifier(
		cfg.Notification.Email.APIKey,
		cfg.Notification.Email.From,
		cfg.Notification.Email.FromName,
		cfg.Alerts.Recipients,
		logger,
	)
	alertService := alert.NewService(alertRepo, analyticsService, ids, messageQueue, notifier, cfg.Alerts.SpikeThresholdPercent, logger)

	geoService := geo.NewClient(cfg.Geo.DatasetURL, appCache, cfg.Geo.CacheTTL, logger)

	// 10. Initialize WebSocket Hub (for real-time updates)
	wsHub := wsAdapter.NewHub(logger)
	go wsHub.Run()
	if err := wsHub.SubscribeQueue(messageQueue); err != nil {
		logger.Fatal("Failed to subscribe websocket hub", zap.Error(err))
	}

	// 11. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		BodyLimit:             cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}
	if cfg.RateLimiting.Enabled {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimiting.MaxRequests,
			Expiration: cfg.RateLimiting.Window,
		}))
	}
	app.Use(middleware.CircuitBreaker(logger))

	// Health Check Endpoints
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		if err := sqlDB.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("Database not ready")
		}
		if err := appCache.Ping(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("Cache not ready")
		}
		return c.SendString("Ready")
	})

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		metricsPath := cfg.Prometheus.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		app.Get(metricsPath, func(c *fiber.Ctx) error {
			handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
			handler(c.Context())
			return nil
		})
	}

	// API v1 Routes
	v1 := app.Group("/api/v1")

	// Auth routes (public)
	authHandler := handlers.NewAuthHandler(authService, logger)
	v1.Post("/auth/register", authHandler.Register)
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("", middleware.AuthRequired(authService))
	protected.Get("/auth/me", authHandler.Me)

	// Organization routes
	orgHandler := handlers.NewOrganizationHandler(orgRepo, userRepo, ids, logger)
	protected.Get("/organization", orgHandler.Get)
	protected.Get("/organization/members", orgHandler.ListMembers)
	protected.Post("/organization/members", orgHandler.AddMember)

	// Emission routes
	emissionHandler := handlers.NewEmissionHandler(sourceRepo, emissionRepo, ingestService, logger)
	protected.Get("/sources", emissionHandler.ListSources)
	protected.Get("/emissions", emissionHandler.ListRecords)
	protected.Get("/emissions/:id", emissionHandler.GetRecord)
	protected.Post("/emissions", emissionHandler.CreateManual)
	protected.Post("/emissions/upload", emissionHandler.UploadFile)
	protected.Post("/emissions/dataset", emissionHandler.IngestDataset)

	// Analytics routes
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, logger)
	protected.Get("/analytics/summary", analyticsHandler.Summary)
	protected.Get("/analytics/forecast", analyticsHandler.Forecast)

	// Offset routes
	offsetHandler := handlers.NewOffsetHandler(offsetService, logger)
	protected.Get("/offsets/estimate", offsetHandler.Estimate)
	protected.Post("/offsets/donations", offsetHandler.CreateDonation)

	// Report routes
	reportHandler := handlers.NewReportHandler(reportService, logger)
	protected.Post("/reports", reportHandler.Generate)
	protected.Get("/reports", reportHandler.List)

	// Alert and recommendation routes
	alertHandler := handlers.NewAlertHandler(alertService, recommendationService, logger)
	protected.Get("/alerts", alertHandler.List)
	protected.Patch("/alerts/:id/read", alertHandler.MarkRead)
	protected.Delete("/alerts/:id", alertHandler.Dismiss)
	protected.Get("/recommendations", alertHandler.Recommendations)

	// Geo routes
	geoHandler := handlers.NewGeoHandler(geoService, logger)
	protected.Get("/geo/regions", geoHandler.Regions)

	// WebSocket routes. The upgrade request authenticates with a token query
	// parameter because browsers cannot set headers on websocket requests.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		user, err := authService.ValidateToken(c.Context(), c.Query("token"))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		c.Locals("org_id", user.OrganizationID)
		return c.Next()
	})
	app.Get("/ws/updates", websocket.New(func(c *websocket.Conn) {
		orgID, _ := c.Locals("org_id").(string)
		wsHub.AddClient(c, orgID)
	}))

	// 12. Start Background Workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	go runSpikeDetection(workerCtx, orgRepo, alertService, cfg.Alerts.CheckInterval, logger)

	// 13. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 14. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if closer, ok := snapshots.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Error closing snapshot browser", zap.Error(err))
		}
	}

	logger.Info("Server exited gracefully")
}

func buildLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zapCfg.Build()
}

func newMessageQueue(cfg config.QueueConfig, logger *zap.Logger) (queue.MessageQueue, error) {
	switch cfg.Driver {
	case "rabbitmq":
		return queue.NewRabbitMQQueue(cfg.URL, logger)
	case "", "nats":
		return queue.NewNATSQueue(cfg.URL, logger)
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Driver)
	}
}

// resolveSecrets overrides secret config values with the ones held in Vault.
// A partial Vault (missing fields) is not an error.
func resolveSecrets(cfg *config.Config, logger *zap.Logger) {
	sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
	if err != nil {
		logger.Warn("Vault unavailable, using environment secrets", zap.Error(err))
		return
	}

	if v, err := sm.GetDatabaseURL(); err == nil && v != "" {
		cfg.Database.URL = v
	}
	if v, err := sm.GetGeminiAPIKey(); err == nil && v != "" {
		cfg.Gemini.APIKey = v
	}
	if v, err := sm.GetStripeAPIKey(); err == nil && v != "" {
		cfg.Payment.Stripe.SecretKey = v
	}
	if v, err := sm.GetSendGridAPIKey(); err == nil && v != "" {
		cfg.Notification.Email.APIKey = v
	}
	logger.Info("Secrets resolved from Vault")
}

// runSpikeDetection periodically checks every organization for a
// month-over-month emissions spike.
func runSpikeDetection(ctx context.Context, orgs ports.OrganizationRepository, alerts ports.AlertService, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			all, err := orgs.FindAll(ctx)
			if err != nil {
				logger.Error("Spike detection: listing organizations failed", zap.Error(err))
				continue
			}
			for _, org := range all {
				if _, err := alerts.DetectSpike(ctx, org.ID); err != nil {
					logger.Error("Spike detection failed",
						zap.String("organization_id", org.ID),
						zap.Error(err),
					)
				}
			}
		}
	}
}
