package config

import "time"

// ServerConfig is the root configuration for nearhand-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr string `koanf:"addr"`

	// StaticDir is the directory of frontend assets served on GET.
	// Empty disables static serving.
	StaticDir string `koanf:"static_dir"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig configures per-client request rate limiting.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// StorageSection configures storage behavior.
type StorageSection struct {
	DataDir string `koanf:"data_dir"`

	// GCInterval is how often the engine runs value log garbage
	// collection. Zero disables the loop.
	GCInterval time.Duration `koanf:"gc_interval"`

	// GCThreshold is the rewrite ratio passed to the value log GC.
	GCThreshold float64 `koanf:"gc_threshold"`

	// CacheSize is the block cache size in bytes.
	CacheSize int64 `koanf:"cache_size"`

	SyncWrites      bool `koanf:"sync_writes"`
	DetectConflicts bool `koanf:"detect_conflicts"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
