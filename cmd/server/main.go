package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/ludoteca/internal/config"
	"github.com/JonMunkholm/ludoteca/internal/core"
	_ "github.com/JonMunkholm/ludoteca/internal/core/sources" // Register all sources
	"github.com/JonMunkholm/ludoteca/internal/logging"
	"github.com/JonMunkholm/ludoteca/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source", cfg.Source.Kind,
		"fallback", cfg.Source.Fallback,
		"reload_interval", cfg.Source.ReloadInterval.String(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()

	// The database is only needed by the postgres source
	var pool *pgxpool.Pool
	if cfg.Source.UsesSource(config.SourcePostgres) {
		pool, err = connectDB(ctx, cfg)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
	}

	deps := core.SourceDeps{
		Config:     cfg,
		HTTPClient: &http.Client{Timeout: cfg.Source.LoadTimeout},
	}
	if pool != nil {
		deps.DB = pool
	}

	src, err := core.OpenConfigured(deps)
	if err != nil {
		slog.Error("failed to open source", "error", err)
		os.Exit(1)
	}
	slog.Info("sources registered", "count", core.SourceCount(), "active", src.Name())

	catalog := core.NewCatalog(src)
	catalog.SetLoadTimeout(cfg.Source.LoadTimeout)

	// A failed first load still starts the server; the page reports the
	// error and a reload can recover.
	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Source.LoadTimeout)
	if _, err := catalog.Reload(loadCtx); err != nil {
		slog.Warn("initial catalog load failed", "error", err)
	}
	cancelLoad()

	server := web.NewServer(catalog, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	go catalog.StartReloadScheduler(jobCtx, cfg.Source.ReloadInterval, cfg.Source.LoadTimeout)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

// connectDB opens and verifies the connection pool.
func connectDB(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	// Apply pool configuration from config
	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
