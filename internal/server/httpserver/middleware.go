package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/oklog/ulid/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/hexmatch-go/internal/core/domain"
	"github.com/yndnr/hexmatch-go/internal/server/httpserver/handler"
	"github.com/yndnr/hexmatch-go/internal/telemetry/logger"
	"github.com/yndnr/hexmatch-go/pkg/cmap"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen bounds client-supplied request IDs.
const maxRequestIDLen = 128

// Middleware wraps an http.Handler with additional functionality.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to h so that the first listed runs first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID assigns each request an ID, honouring a well-formed inbound
// X-Request-ID and otherwise generating "req-<ULID>".
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderRequestID)
			if !validRequestID(requestID) {
				requestID = NewRequestID()
			}

			w.Header().Set(HeaderRequestID, requestID)
			ctx := logger.WithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewRequestID returns a fresh request ID.
func NewRequestID() string {
	return "req-" + ulid.Make().String()
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, c := range id {
		if c > unicode.MaxASCII || !unicode.IsPrint(c) || c == ' ' {
			return false
		}
	}
	return true
}

// Recover turns a panic into a 500 response.
func Recover(log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					log.Error("panic recovered",
						"request_id", logger.RequestIDFromContext(r.Context()),
						"error", err,
						"path", r.URL.Path,
					)
					writeMiddlewareError(w, r, log, domain.ErrInternal)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// CORS answers cross-origin requests from the allowed origins.
// "*" allows any origin.
func CORS(allowedOrigins []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := false
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					allowed = true
					break
				}
			}

			if allowed && origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-Error-Code")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// limiterIdleTTL is how long an unused client limiter is kept.
const limiterIdleTTL = 3 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// LimiterRegistry holds one token bucket per client IP.
type LimiterRegistry struct {
	clients   *cmap.Map[string, *clientLimiter]
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep atomic.Int64
	now       func() time.Time
}

// NewLimiterRegistry creates a registry allowing rps requests per second
// per client with the given burst.
func NewLimiterRegistry(rps float64, burst int) *LimiterRegistry {
	if burst < 1 {
		burst = 1
	}
	reg := &LimiterRegistry{
		clients: cmap.New[string, *clientLimiter](),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: limiterIdleTTL,
		now:     time.Now,
	}
	reg.lastSweep.Store(reg.now().UnixNano())
	return reg
}

// Allow reports whether the client may make a request now.
func (reg *LimiterRegistry) Allow(client string) bool {
	now := reg.now()
	reg.maybeSweep(now)

	cl, _ := reg.clients.GetOrCompute(client, func() *clientLimiter {
		return &clientLimiter{limiter: rate.NewLimiter(reg.limit, reg.burst)}
	})
	cl.lastSeen.Store(now.UnixNano())
	return cl.limiter.AllowN(now, 1)
}

// Len returns the number of tracked clients.
func (reg *LimiterRegistry) Len() int {
	return reg.clients.Count()
}

// maybeSweep drops idle clients at most once per idle TTL.
func (reg *LimiterRegistry) maybeSweep(now time.Time) {
	last := reg.lastSweep.Load()
	if now.UnixNano()-last < int64(reg.idleTTL) {
		return
	}
	if !reg.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-reg.idleTTL).UnixNano()
	reg.clients.DeleteFunc(func(_ string, cl *clientLimiter) bool {
		return cl.lastSeen.Load() < cutoff
	})
}

// RateLimit applies per-client-IP token bucket limiting. The client is
// resolved through proxies, so untrusted peers cannot pick their bucket.
func RateLimit(reg *LimiterRegistry, proxies TrustedProxies, log *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !reg.Allow(proxies.ClientIP(r)) {
				w.Header().Set("Retry-After", "1")
				writeMiddlewareError(w, r, log, domain.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestRecorder receives per-request metrics.
// internal/telemetry/metric.Registry implements it.
type RequestRecorder interface {
	RecordRequest(method, path string, status int)
	ObserveRequestDuration(method, path string, seconds float64)
}

// Audit writes an access log line and request metrics. rec may be nil.
func Audit(log *slog.Logger, rec RequestRecorder, proxies TrustedProxies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			route := routeLabel(r)
			if rec != nil {
				rec.RecordRequest(r.Method, route, wrapped.statusCode)
				rec.ObserveRequestDuration(r.Method, route, duration.Seconds())
			}

			attrs := []any{
				"request_id", logger.RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", duration.Milliseconds(),
				"bytes", wrapped.bytes,
				"client_ip", proxies.ClientIP(r),
			}

			switch {
			case wrapped.statusCode >= 500:
				log.Error("request completed with error", attrs...)
			case wrapped.statusCode >= 400:
				log.Warn("request completed with client error", attrs...)
			default:
				log.Info("request completed", attrs...)
			}
		})
	}
}

// routeLabel returns the matched route pattern, keeping metric label
// cardinality bounded.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	bytes       int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.statusCode = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// writeMiddlewareError writes an error envelope from outside the handlers.
func writeMiddlewareError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err *domain.DomainError) {
	requestID := logger.RequestIDFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", err.Code)
	w.WriteHeader(err.HTTPStatus())
	resp := handler.NewErrorResponse(requestID, err.Code, err.Message, nil)
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		log.Error("failed to encode error response", "request_id", requestID, "error", encErr)
	}
}
