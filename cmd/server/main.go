package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/meur/itemsapi/internal/api"
	"github.com/meur/itemsapi/internal/config"
	"github.com/meur/itemsapi/internal/dataset"
	"github.com/meur/itemsapi/internal/logging"
	"github.com/meur/itemsapi/internal/observability"
	"github.com/meur/itemsapi/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := applyFlags(cfg, os.Args[1:]); err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(2)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	metrics := observability.NewMetrics(nil)
	loader := dataset.NewLoader(dataset.Options{
		Path:    cfg.Dataset.Path,
		DataDir: cfg.Dataset.DataDir,
	}, metrics)
	store := storage.New(metrics)
	reloader := storage.NewReloader(store, loader)

	if err := loadInitial(context.Background(), reloader); err != nil {
		slog.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	var opts []api.Option
	if cfg.Server.ReloadEndpoint {
		opts = append(opts, api.WithReloadEndpoint(reloader))
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.New(store, opts...),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	if cfg.Dataset.ReloadInterval > 0 {
		slog.Info("periodic reload enabled", "interval", cfg.Dataset.ReloadInterval)
		go reloader.Run(jobCtx, cfg.Dataset.ReloadInterval)
	}

	go reloadOnHangup(jobCtx, reloader)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("items API starting", "addr", server.Addr, "rows", store.Health().Rows)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// applyFlags lets command-line flags override the environment and validates
// the result again.
func applyFlags(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Dataset.Path, "csv", cfg.Dataset.Path, "CSV source path")
	fs.IntVar(&cfg.Server.Port, "port", cfg.Server.Port, "Server port")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return cfg.Validate()
}

// loadInitial performs the startup load. A bad schema is fatal; a missing
// source leaves the API up but unloaded until a reload succeeds.
func loadInitial(ctx context.Context, reloader *storage.Reloader) error {
	_, _, err := reloader.Reload(ctx)
	if errors.Is(err, dataset.ErrSourceNotFound) {
		slog.Warn("dataset unavailable, serving without data until a reload succeeds", "error", err)
		return nil
	}
	return err
}

// reloadOnHangup reloads the dataset each time the process receives SIGHUP.
func reloadOnHangup(ctx context.Context, reloader *storage.Reloader) {
	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	defer signal.Stop(hupCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hupCh:
			snap, changed, err := reloader.Reload(ctx)
			if err != nil {
				slog.Error("reload on SIGHUP failed", "error", err)
				continue
			}
			slog.Info("reload on SIGHUP", "changed", changed, "rows", snap.Len())
		}
	}
}
