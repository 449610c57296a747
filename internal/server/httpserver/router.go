package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/nearhand/nearhand-go/internal/core/service"
	"github.com/nearhand/nearhand-go/internal/server/httpserver/handler"
	"github.com/nearhand/nearhand-go/internal/telemetry/metric"
)

// RouterConfig carries the dependencies and knobs for NewRouter.
type RouterConfig struct {
	AccountService *service.AccountService
	RequestService *service.RequestService
	Logger         *slog.Logger
	Metrics        *metric.Metrics

	// StaticDir, when non-empty, is served on GET / for the frontend.
	StaticDir string

	// CORSAllowedOrigins is the origin allowlist; empty allows any.
	CORSAllowedOrigins []string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
}

// NewRouter assembles the full HTTP handler: API routes, the metrics
// endpoint, the optional static frontend, and the middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := handler.New(cfg.AccountService, cfg.RequestService, logger)

	mux := http.NewServeMux()
	mux.Handle("/api/", api)
	mux.Handle("GET /health", api)

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	if cfg.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	// Recover is outermost; RequestID runs before AccessLog so the log
	// line carries the request ID.
	middlewares := []Middleware{
		Recover(logger),
		RequestID(),
		AccessLog(logger),
		Metrics(cfg.Metrics),
		CORS(cfg.CORSAllowedOrigins),
	}
	if cfg.RateLimitEnabled {
		middlewares = append(middlewares, RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	return Chain(mux, middlewares...)
}
