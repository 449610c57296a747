// Package main provides the entry point for nearhand-server.
//
// nearhand-server is the backend for NearHand, a neighborhood help
// platform matching seniors who need assistance with nearby
// volunteers.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/nearhand/nearhand-go/internal/auth"
	"github.com/nearhand/nearhand-go/internal/core/service"
	"github.com/nearhand/nearhand-go/internal/infra/buildinfo"
	"github.com/nearhand/nearhand-go/internal/infra/confloader"
	"github.com/nearhand/nearhand-go/internal/infra/shutdown"
	"github.com/nearhand/nearhand-go/internal/server/config"
	"github.com/nearhand/nearhand-go/internal/server/httpserver"
	"github.com/nearhand/nearhand-go/internal/storage"
	"github.com/nearhand/nearhand-go/internal/telemetry/logger"
	"github.com/nearhand/nearhand-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("nearhand-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	slog.SetDefault(log)

	log.Info("starting nearhand-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	metrics := metric.New()

	engine, err := initStorage(cfg, log)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	engine.RegisterMetrics(metrics.Registry())

	// The token key lives for the process lifetime only. A restart
	// invalidates all outstanding tokens, which forces re-login.
	key, err := auth.GenerateKey()
	if err != nil {
		return fmt.Errorf("generate token key: %w", err)
	}
	authenticator, err := auth.NewAuthenticator(key, log)
	if err != nil {
		return fmt.Errorf("init authenticator: %w", err)
	}

	accountSvc := service.NewAccountService(engine, authenticator, log, metrics)
	requestSvc := service.NewRequestService(engine, authenticator, log, metrics)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		AccountService:   accountSvc,
		RequestService:   requestSvc,
		Logger:           log,
		Metrics:          metrics,
		StaticDir:        cfg.Server.HTTP.StaticDir,
		RateLimitEnabled: cfg.Server.HTTP.RateLimit.Enabled,
		RateLimitRPS:     cfg.Server.HTTP.RateLimit.RPS,
		RateLimitBurst:   cfg.Server.HTTP.RateLimit.Burst,
	})

	httpServer := httpserver.New(
		cfg.Server.HTTP.Addr,
		router,
		cfg.Server.HTTP.ReadTimeout,
		cfg.Server.HTTP.WriteTimeout,
	)

	// Reload the log level when the config file changes. Other
	// settings need a restart.
	var watcher *confloader.Watcher
	if *configFile != "" {
		watcher, err = startConfigWatcher(*configFile, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		}
	}

	shutdownHandler := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout)

	// Hooks run in reverse registration order: the HTTP server drains
	// before the engine closes.
	if watcher != nil {
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			return watcher.Stop()
		})
	}
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down storage engine")
		return engine.Close()
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, file, and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initStorage opens the badger engine from the storage section.
func initStorage(cfg *config.ServerConfig, log *slog.Logger) (*storage.Engine, error) {
	storageCfg := storage.DefaultConfig(cfg.Storage.DataDir)
	storageCfg.Badger.GCInterval = cfg.Storage.GCInterval
	storageCfg.Badger.GCThreshold = cfg.Storage.GCThreshold
	storageCfg.Badger.CacheSize = cfg.Storage.CacheSize
	storageCfg.Badger.SyncWrites = cfg.Storage.SyncWrites
	storageCfg.Badger.DetectConflicts = cfg.Storage.DetectConflicts

	return storage.Open(storageCfg, log)
}

// startConfigWatcher watches the config file and applies log level
// changes in place.
func startConfigWatcher(configFile string, log *slog.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(log)
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(path)
		if err != nil {
			log.Warn("config reload failed", "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			log.Info("log level changed", "level", cfg.Log.Level)
			logger.SetLevel(cfg.Log.Level)
		}
	})

	watcher.StartAsync()
	return watcher, nil
}
