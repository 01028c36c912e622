package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/mmynk/telecomsupply/internal/auth"
	"github.com/mmynk/telecomsupply/internal/config"
	"github.com/mmynk/telecomsupply/internal/ledger"
	"github.com/mmynk/telecomsupply/internal/notify"
	"github.com/mmynk/telecomsupply/internal/server"
	"github.com/mmynk/telecomsupply/internal/service"
	"github.com/mmynk/telecomsupply/internal/storage"
	"github.com/mmynk/telecomsupply/internal/storage/sqlite"
	"github.com/mmynk/telecomsupply/pkg/logging"
)

func main() {
	configPath := pflag.StringP("config", "c", os.Getenv("CONFIG_PATH"), "path to a YAML config file")
	pflag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.SetupWith(cfg.Log.Level, cfg.Log.Format)

	loc, err := cfg.Ledger.Location()
	if err != nil {
		return fmt.Errorf("invalid ledger timezone: %w", err)
	}

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DB.Path)

	gateway := storage.NewRetrying(store, storage.RetryPolicy{
		Attempts: uint64(cfg.Storage.RetryAttempts),
		Base:     cfg.Storage.RetryBase,
		Max:      cfg.Storage.RetryMax,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var revoker auth.Revoker = auth.NewMemoryRevoker()
	if cfg.Redis.Addr != "" {
		redisRevoker, err := auth.NewRedisRevoker(ctx, auth.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisRevoker.Close()
		revoker = redisRevoker
		logger.Info("Session revocation backed by redis", "addr", cfg.Redis.Addr)
	}

	guard := auth.NewGuard(
		auth.NewPasswordAuthenticator(store),
		auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration),
		logger,
		auth.WithRegistration(cfg.Auth.AllowRegistration),
		auth.WithRevoker(revoker),
	)

	sessions := service.NewSessions(gateway, cfg.Ledger.LoadTimeout, logger,
		ledger.WithLocation(loc),
		ledger.WithReconcileWrites(cfg.Ledger.PersistReconciliation),
	)
	detach := sessions.Attach(guard)
	defer func() {
		detach()
		sessions.Close()
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	staticPath := cfg.Server.StaticPath
	if staticPath != "" {
		if staticPath, err = filepath.Abs(staticPath); err != nil {
			return fmt.Errorf("failed to resolve static path: %w", err)
		}
		logger.Info("Serving static files", "path", staticPath)
	}

	handler := server.New(server.Deps{
		Guard:        guard,
		Sessions:     sessions,
		Notifier:     notify.NewLogNotifier(logger),
		WriteTimeout: cfg.Ledger.WriteTimeout,
		Registry:     registry,
		StaticPath:   staticPath,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
