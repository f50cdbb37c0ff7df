package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	recordspostgres "github.com/averost/commerce-api/internal/domains/records/adapters/persistence/postgres"
	userspostgres "github.com/averost/commerce-api/internal/domains/users/adapters/persistence/postgres"
	platformobservability "github.com/averost/commerce-api/internal/platform/observability"
	platformpostgres "github.com/averost/commerce-api/internal/platform/postgres"
)

const (
	// cleanupSchedule runs the retention purge nightly at 02:00.
	cleanupSchedule = "0 2 * * *"
	// healthSchedule probes the store every five minutes.
	healthSchedule = "*/5 * * * *"

	defaultRetentionDays = 30
	jobTimeout           = 5 * time.Minute
)

func main() {
	ctx := context.Background()
	const serviceName = "commerce-scheduler"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, platformobservability.ConfigFromEnv())
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		logger.Error("POSTGRES_DSN not set, scheduler has nothing to maintain")
		os.Exit(1)
	}
	db, err := platformpostgres.Connect(ctx, dsn, platformpostgres.DefaultPoolConfig())
	if err != nil {
		logger.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer platformpostgres.MustClose(db, logger)

	retention := retentionFromEnv()
	generator := recordspostgres.NewGenerator(db, 0)
	sessions := userspostgres.NewSessionStore(db)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cleanupSchedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		cutoff := time.Now().UTC().Add(-retention)
		purged, err := generator.PurgeOlderThan(jobCtx, cutoff)
		if err != nil {
			logger.Error("data record purge failed", slog.String("error", err.Error()))
		} else {
			logger.Info("data record purge completed",
				slog.Int64("purged", purged),
				slog.Time("cutoff", cutoff))
		}

		expired, err := sessions.PurgeExpired(jobCtx, time.Now().UTC())
		if err != nil {
			logger.Error("session purge failed", slog.String("error", err.Error()))
		} else {
			logger.Info("session purge completed", slog.Int64("purged", expired))
		}
	}); err != nil {
		logger.Error("failed to schedule cleanup job", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if _, err := scheduler.AddFunc(healthSchedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := platformpostgres.Ping(jobCtx, db); err != nil {
			logger.Error("health check failed", slog.String("error", err.Error()))
			return
		}
		logger.Info("health check ok")
	}); err != nil {
		logger.Error("failed to schedule health job", slog.String("error", err.Error()))
		os.Exit(1)
	}

	scheduler.Start()
	logger.Info("scheduler started",
		slog.String("cleanup", cleanupSchedule),
		slog.String("health", healthSchedule),
		slog.Duration("retention", retention))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	logger.Info("scheduler stopped")
}

func retentionFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("RECORD_RETENTION_DAYS"))
	if raw == "" {
		return defaultRetentionDays * 24 * time.Hour
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return defaultRetentionDays * 24 * time.Hour
	}
	return time.Duration(days) * 24 * time.Hour
}
