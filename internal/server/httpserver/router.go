package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/hexmatch-go/internal/server/httpserver/handler"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Validator serves the validation endpoints.
	Validator handler.Validator

	// Logger for request and error logging.
	Logger *slog.Logger

	// Metrics serves GET /metrics when set.
	Metrics http.Handler

	// Recorder receives request metrics from Audit. May be nil.
	Recorder RequestRecorder

	// Ready reports readiness for GET /ready. Nil means always ready.
	Ready func() bool

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64

	// CORSAllowedOrigins lists allowed CORS origins (empty = CORS disabled).
	CORSAllowedOrigins []string

	// RateLimit is requests per second per client IP (0 = disabled).
	RateLimit float64

	// RateBurst is the token bucket size per client IP.
	RateBurst int

	// TrustedProxies may set X-Forwarded-For and X-Real-IP. Empty means
	// the client is always the direct peer.
	TrustedProxies TrustedProxies

	// EnableAudit enables access logging and request metrics.
	EnableAudit bool
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		MaxBodyBytes: handler.DefaultMaxBodyBytes,
		RateLimit:    1000,
		RateBurst:    2000,
		EnableAudit:  true,
	}
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	if cfg == nil {
		cfg = DefaultRouterConfig()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := handler.New(cfg.Validator, handler.Config{
		MaxBodyBytes: cfg.MaxBodyBytes,
		Metrics:      cfg.Metrics,
		Ready:        cfg.Ready,
	}, log)

	// Order: Recover -> RequestID -> CORS -> RateLimit -> Audit -> Handler
	api := []Middleware{Recover(log), RequestID()}
	if len(cfg.CORSAllowedOrigins) > 0 {
		api = append(api, CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.RateLimit > 0 {
		api = append(api, RateLimit(NewLimiterRegistry(cfg.RateLimit, cfg.RateBurst), cfg.TrustedProxies, log))
	}
	if cfg.EnableAudit {
		api = append(api, Audit(log, cfg.Recorder, cfg.TrustedProxies))
	}
	apiHandler := Chain(h, api...)

	// Probes and scrapes skip limiting and the access log.
	opsHandler := Chain(h, Recover(log), RequestID())

	mux := http.NewServeMux()

	mux.Handle("GET /health", opsHandler)
	mux.Handle("GET /ready", opsHandler)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", opsHandler)
	}

	mux.Handle("POST /v1/colors/validate", apiHandler)
	mux.Handle("GET /v1/colors/validate", apiHandler)
	mux.Handle("POST /v1/colors/validate/batch", apiHandler)
	mux.Handle("GET /v1/engines", apiHandler)

	// Preflight requests are answered by CORS.
	for _, path := range []string{"/v1/colors/validate", "/v1/colors/validate/batch", "/v1/engines"} {
		mux.Handle("OPTIONS "+path, apiHandler)
	}

	return mux
}
