package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	contractorhandler "whitelist/internal/contractor/handler"
	contractormetrics "whitelist/internal/contractor/metrics"
	"whitelist/internal/contractor/registry"
	"whitelist/internal/contractor/service"
	"whitelist/internal/contractor/store"
	"whitelist/internal/platform/config"
	"whitelist/internal/platform/database"
	"whitelist/internal/platform/health"
	"whitelist/internal/platform/logger"
	"whitelist/internal/platform/middleware"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing whitelist service",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"registry_base_url", cfg.RegistryBaseURL,
	)

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database initialization failed", "error", err)
		os.Exit(1)
	}

	var contractorStore service.Store
	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		contractorStore = store.NewPostgres(pool.DB())
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
		defer pool.Close() //nolint:errcheck // best-effort close on shutdown
	} else {
		log.Warn("DATABASE_URL not set, using in-memory contractor store")
		contractorStore = store.NewInMemory()
	}

	registryClient := registry.NewClient(cfg.RegistryBaseURL, cfg.RegistryTimeout)
	contractorService := service.New(registryClient, contractorStore, log,
		service.WithMetrics(contractormetrics.New()),
	)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(30 * time.Second))

	contractorhandler.New(contractorService, log).Register(r)
	healthHandler.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
