package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/cch1/uuid-primary-key/pkg/app"
	"github.com/cch1/uuid-primary-key/pkg/cache"
	"github.com/cch1/uuid-primary-key/pkg/config"
	"github.com/cch1/uuid-primary-key/pkg/database"
	"github.com/cch1/uuid-primary-key/pkg/events"
	"github.com/cch1/uuid-primary-key/pkg/logger"
	"github.com/cch1/uuid-primary-key/pkg/telemetry"
	recordEvents "github.com/cch1/uuid-primary-key/services/record/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = config.ValidateForProduction(cfg)
	}
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg).With("process", "worker")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("worker exited", "error", err)
		stop()
		os.Exit(1) //nolint:gocritic // deferred stop already ran
	}
}

// run subscribes the event handlers and blocks until ctx is cancelled.
// The deferred EventBus.Close waits for in-flight handlers.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	otelProviders, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer otelProviders.Shutdown(context.WithoutCancel(ctx)) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("sentry disabled", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close() //nolint:errcheck

	bus, err := events.New(pool.DB(), events.Config{ConsumerGroup: cfg.ServiceName + "-consumer"}, log)
	if err != nil {
		return fmt.Errorf("setup event bus: %w", err)
	}
	defer bus.Close() //nolint:errcheck

	rc, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rc.Close() //nolint:errcheck

	a := &app.Application{Db: pool, Logger: log, EventBus: bus, Redis: rc}
	if err := registerSubscribers(ctx, a); err != nil {
		return fmt.Errorf("register subscribers: %w", err)
	}

	<-ctx.Done()
	log.Info("shutting down worker")
	return nil
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	errCh, err := a.EventBus.Subscribe(ctx, recordEvents.TopicRecordCreated,
		handleRecordCreated(a.Logger, cache.NewRecordCache(a.Redis)))
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error",
				"topic", recordEvents.TopicRecordCreated,
				"error", err,
			)
		}
	}()

	a.Logger.Info("event subscribers registered", "topics", []string{recordEvents.TopicRecordCreated})
	return nil
}

// recordWarmer is the part of the record cache the worker writes to.
type recordWarmer interface {
	Set(ctx context.Context, rec *cache.CachedRecord) error
}

// handleRecordCreated returns a handler for record.created events.
// EventBus retries failures per its Backoff, so the handler is idempotent.
// Warms the Redis read-model cache so subsequent reads are served from cache.
func handleRecordCreated(log logger.Logger, rc recordWarmer) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		evt, err := events.Decode[recordEvents.RecordCreatedEvent](msg)
		if err != nil {
			return err
		}

		if err := rc.Set(ctx, &cache.CachedRecord{
			ID:        evt.RecordID,
			Name:      evt.Name,
			ParentID:  evt.ParentID,
			CreatedAt: evt.OccurredAt,
		}); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			log.WarnContext(ctx, "cache warm failed for record.created",
				"record_id", evt.RecordID, "error", err)
			return nil
		}

		log.InfoContext(ctx, "cache warmed", "record_id", evt.RecordID)
		return nil
	}
}
