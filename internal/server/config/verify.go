package config

import (
	"errors"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if cfg.HTTP.RateLimit.Enabled {
		if cfg.HTTP.RateLimit.RPS <= 0 {
			return errors.New("server.http.rate_limit.rps must be positive")
		}
		if cfg.HTTP.RateLimit.Burst < 1 {
			return errors.New("server.http.rate_limit.burst must be at least 1")
		}
	}
	if cfg.HTTP.StaticDir != "" {
		info, err := os.Stat(cfg.HTTP.StaticDir)
		if err != nil {
			return errors.New("server.http.static_dir: " + err.Error())
		}
		if !info.IsDir() {
			return errors.New("server.http.static_dir is not a directory")
		}
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}

	// Check if data directory exists or can be created
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return errors.New("cannot create data directory: " + err.Error())
	}

	if cfg.GCThreshold < 0 || cfg.GCThreshold > 1 {
		return errors.New("storage.gc_threshold must be between 0 and 1")
	}

	return nil
}

func verifyLog(cfg *LogSection) error {
	switch cfg.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return errors.New("log.level must be one of debug, info, warn, error")
	}
	switch cfg.Format {
	case "", "json", "text", "console":
	default:
		return errors.New("log.format must be json or text")
	}
	return nil
}
