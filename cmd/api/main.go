package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/cch1/uuid-primary-key/pkg/app"
	"github.com/cch1/uuid-primary-key/pkg/cache"
	"github.com/cch1/uuid-primary-key/pkg/config"
	"github.com/cch1/uuid-primary-key/pkg/database"
	"github.com/cch1/uuid-primary-key/pkg/events"
	"github.com/cch1/uuid-primary-key/pkg/httpx"
	"github.com/cch1/uuid-primary-key/pkg/logger"
	"github.com/cch1/uuid-primary-key/pkg/telemetry"
	recordApi "github.com/cch1/uuid-primary-key/services/record/application/api"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = config.ValidateForProduction(cfg)
	}
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("api exited", "error", err)
		stop()
		os.Exit(1) //nolint:gocritic // deferred stop already ran
	}
}

// run wires the process and serves until ctx is cancelled.
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

	ids, err := app.NewIdentityManager(cfg, log)
	if err != nil {
		return fmt.Errorf("configure identity: %w", err)
	}
	log.Info("identity configured",
		"version", cfg.IdentityVersion, "validation", cfg.IdentityValidation, "field", ids.Field())

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close() //nolint:errcheck

	bus, err := events.New(pool.DB(), events.Config{
		ConsumerGroup: cfg.ServiceName + "-consumer",
		Forwarder:     true,
	}, log)
	if err != nil {
		return fmt.Errorf("setup event bus: %w", err)
	}
	defer bus.Close() //nolint:errcheck
	if err := bus.StartForwarder(ctx); err != nil {
		return fmt.Errorf("start event forwarder: %w", err)
	}

	rc, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rc.Close() //nolint:errcheck

	a := &app.Application{Db: pool, Logger: log, EventBus: bus, Redis: rc, Identity: ids}
	r := newRouter(cfg, a, otelProviders.Metrics)
	srv := httpx.NewServer(cfg.HTTPAddr, r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func newRouter(cfg *config.Config, a *app.Application, metrics http.Handler) *chi.Mux {
	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimit:          cfg.HTTPRateLimit,
			MaxBodyBytes:       cfg.HTTPMaxBodyBytes,
		},
		httpx.Middlewares{
			Recovery: logger.Recovery(a.Logger),
			Sentry:   telemetry.SentryMiddleware(),
			Tracing:  otelhttp.NewMiddleware(cfg.ServiceName),
			Logging:  logger.Middleware(a.Logger),
		},
	)

	r.Get("/health", httpx.HealthHandler(httpx.HealthChecks{
		"database":  a.Db,
		"redis":     a.Redis,
		"event_bus": a.EventBus,
	}))
	r.Handle("/metrics", metrics)
	r.Route("/api", func(r chi.Router) {
		recordApi.RecordRoutes(r, a)
	})
	return r
}
