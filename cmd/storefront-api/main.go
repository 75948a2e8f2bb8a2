package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"storefront/internal/bootstrap"
	"storefront/internal/catalog"
	"storefront/internal/config"
	httpserver "storefront/internal/http-server"
	"storefront/internal/logger"
	"storefront/internal/migrate"
	"storefront/internal/orders"
)

func main() {
	var (
		configPath = flag.String("config", "./config/config.yaml", "path to config.yaml")
		host       = flag.String("host", "", "override host")
		port       = flag.Int("port", 0, "override port")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
		Env:       cfg.Env,
		Service:   "storefront-api",
	})
	slog.SetDefault(log)

	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	storage, err := bootstrap.BuildStorage(startCtx, cfg, log)
	if err != nil {
		log.Error("build storage failed", "err", err)
		os.Exit(1)
	}
	defer storage.Close()

	sectionSvc := catalog.New(storage.Sections, log.With("component", "catalog"))
	orderSvc := orders.New(storage.Orders, log.With("component", "orders"))

	if cfg.Storage.MigrateOnStart {
		if _, err := migrate.Run(startCtx, sectionSvc, cfg.Storage.LegacyDir, log); err != nil {
			log.Error("legacy migration failed", "err", err)
			os.Exit(1)
		}
	}

	imgStore, uploadDir, err := bootstrap.BuildImages(cfg, log)
	if err != nil {
		log.Error("build image store failed", "err", err)
		os.Exit(1)
	}

	api := httpserver.New(log, cfg.CORS.AllowedOrigins)

	api.RegisterRoutes(httpserver.Deps{
		Sections:       sectionSvc,
		Orders:         orderSvc,
		Images:         imgStore,
		UploadFiles:    uploadDir,
		Timeout:        time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		MaxUploadBytes: cfg.HTTP.MaxUploadBytes,
	})

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Info("api started", "addr", addr, "storage", cfg.Storage.Backend, "uploads", cfg.Uploads.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case sig := <-stop:
		log.Info("shutdown signal received", "signal", sig.String())

		// даём запросам завершиться
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
			_ = srv.Close()
		}
		log.Info("server stopped gracefully")

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("server closed")
			return
		}
		log.Error("server stopped with error", "err", err)
		_ = storage.Close()
		os.Exit(1)
	}
}
