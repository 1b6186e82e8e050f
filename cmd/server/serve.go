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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	specpkg "github.com/emporium-commerce/emporium/api"
	"github.com/emporium-commerce/emporium/internal/admin"
	"github.com/emporium-commerce/emporium/internal/api"
	"github.com/emporium-commerce/emporium/internal/api/handler"
	"github.com/emporium-commerce/emporium/internal/api/middleware"
	"github.com/emporium-commerce/emporium/internal/config"
	"github.com/emporium-commerce/emporium/internal/customer"
	"github.com/emporium-commerce/emporium/internal/database"
	"github.com/emporium-commerce/emporium/internal/featureflag"
	"github.com/emporium-commerce/emporium/internal/identity"
	"github.com/emporium-commerce/emporium/internal/newsletter"
	"github.com/emporium-commerce/emporium/internal/session"
	"github.com/emporium-commerce/emporium/internal/telemetry"
)

const (
	shutdownTimeout  = 15 * time.Second
	redisPingTimeout = 2 * time.Second
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	setupLogger(cfg.LogLevel)

	tel, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		CollectorAddr:  cfg.OTLPEndpoint,
	})
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = tel.Shutdown(flushCtx)
	}()

	routes, err := config.LoadRoutes(cfg.RoutesFile)
	if err != nil {
		return fmt.Errorf("loading route table: %w", err)
	}
	table := routes.Table()
	slog.Info("route table loaded", "routes", table, "source", cfg.RoutesFile)

	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBTimeout)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db.Pool()); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	idp, err := identity.NewJWTCookieProvider(cfg.IdPJWTSecret,
		identity.WithCookieName(cfg.IdPCookieName),
		identity.WithIssuer(cfg.IdPIssuer),
	)
	if err != nil {
		return fmt.Errorf("configuring identity provider: %w", err)
	}

	codec, err := session.NewCodec(session.Options{
		Secret:     cfg.SessionSecret,
		TTL:        cfg.SessionTTL,
		CookieName: cfg.SessionCookie,
		Secure:     cfg.CookieSecure,
	})
	if err != nil {
		return fmt.Errorf("configuring customer sessions: %w", err)
	}
	slog.Info("customer sessions configured", "cookie", codec.CookieName(), "ttl", codec.TTL())

	adminRepo := admin.NewRepository(db.Pool())
	flagRepo := featureflag.NewRepository(db.Pool())

	// A nil interface keeps the health check from probing a missing cache.
	var flagCache featureflag.Cache
	var cachePinger handler.Pinger
	if rdb := initRedis(ctx, cfg.RedisURL); rdb != nil {
		defer rdb.Close()
		rc := featureflag.NewRedisCache(rdb, cfg.FlagCacheTTL)
		flagCache, cachePinger = rc, rc
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := api.NewRouter(api.RouterDeps{
		Routes:           table,
		DBPinger:         db,
		CachePinger:      cachePinger,
		Version:          cfg.Version,
		OpenAPISpec:      specpkg.OpenAPISpec,
		Staff:            admin.NewResolver(idp, adminRepo),
		AdminRepo:        adminRepo,
		Sessions:         codec,
		Customers:        customer.NewService(customer.NewRepository(db.Pool()), cfg.BcryptCost),
		Flags:            featureflag.NewGate(flagRepo, flagCache),
		Subscribers:      newsletter.NewRepository(db.Pool()),
		LoginPath:        cfg.LoginPath,
		AdminLandingPath: cfg.AdminLandingPath,
		APIPrefix:        cfg.APIPrefix,
		Metrics:          middleware.NewGateMetrics(middleware.WithRegistry(registry)),
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting emporium server", "port", cfg.Port, "version", cfg.Version, "flagCache", flagCache != nil, "tracing", tel.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// initRedis connects to the flag cache. It returns nil when no URL is set or
// the server cannot be reached, and flags are then read from Postgres only.
func initRedis(ctx context.Context, url string) *redis.Client {
	if url == "" {
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		slog.Warn("invalid REDIS_URL; feature flag cache disabled", "error", err)
		return nil
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("redis unreachable; feature flag cache disabled", "error", err)
		_ = client.Close()
		return nil
	}

	return client
}
