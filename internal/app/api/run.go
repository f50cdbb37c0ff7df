package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	contentclient "github.com/averost/commerce-api/internal/clients/http/content"
	catalogpostgres "github.com/averost/commerce-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/averost/commerce-api/internal/domains/catalog/application"
	ordersobs "github.com/averost/commerce-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/averost/commerce-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/averost/commerce-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/averost/commerce-api/internal/domains/orders/application"
	ordersports "github.com/averost/commerce-api/internal/domains/orders/ports"
	recordsobs "github.com/averost/commerce-api/internal/domains/records/adapters/observability"
	recordspostgres "github.com/averost/commerce-api/internal/domains/records/adapters/persistence/postgres"
	recordsapp "github.com/averost/commerce-api/internal/domains/records/application"
	reportspostgres "github.com/averost/commerce-api/internal/domains/reports/adapters/persistence/postgres"
	reportsapp "github.com/averost/commerce-api/internal/domains/reports/application"
	userspostgres "github.com/averost/commerce-api/internal/domains/users/adapters/persistence/postgres"
	usersapp "github.com/averost/commerce-api/internal/domains/users/application"
	"github.com/averost/commerce-api/internal/platform/migrations"
	platformobservability "github.com/averost/commerce-api/internal/platform/observability"
	platformpostgres "github.com/averost/commerce-api/internal/platform/postgres"
	"github.com/averost/commerce-api/internal/transport/rest"
)

// Run boots the commerce HTTP API with observability, PostgreSQL
// repositories, and order workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "commerce-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, cfg.Observability)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, cfg.Pool)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer platformpostgres.MustClose(db, logger)
	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("postgres connected and migrated")

	orderService := ordersobs.New(
		ordersapp.NewService(orderspostgres.NewCoordinator(db, cfg.LockWait)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	recordService := recordsobs.New(
		recordsapp.NewService(recordspostgres.NewGenerator(db, cfg.LockWait)),
		recordsobs.WithLogger(logger),
		recordsobs.WithTracer(instruments.Tracer("internal.records.application")),
		recordsobs.WithMeter(instruments.Meter("internal.records.application")),
	)
	catalogService := catalogapp.NewService(catalogpostgres.NewRepository(db))
	reportService := reportsapp.NewService(reportspostgres.NewRepository(db))
	userService := usersapp.NewService(
		userspostgres.NewRepository(db),
		userspostgres.NewSessionStore(db),
		cfg.SessionTTL,
	)

	var orderWorkflows ordersports.WorkflowOrchestrator
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal unavailable, placing orders inline without retries", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal order workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	contentGateway, err := contentclient.NewClient(cfg.ContentBaseURL, &http.Client{Timeout: contentclient.DefaultTimeout})
	if err != nil {
		return fmt.Errorf("failed to build content client: %w", err)
	}

	handlers := rest.NewHandlers(
		userService,
		catalogService,
		orderService,
		orderWorkflows,
		recordService,
		reportService,
		contentGateway,
		rest.HealthCheckFunc(func(ctx context.Context) error {
			return platformpostgres.Ping(ctx, db)
		}),
	)
	engine := gin.New()
	engine.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router := rest.NewRouterWithGinEngine(engine, handlers, userService)

	addr := ":" + cfg.Port
	logger.Info("commerce API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("commerce API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, fmt.Errorf("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
