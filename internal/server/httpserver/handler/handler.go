package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yndnr/hexmatch-go/internal/core/domain"
	"github.com/yndnr/hexmatch-go/internal/core/service"
	"github.com/yndnr/hexmatch-go/internal/telemetry/logger"
)

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
const DefaultMaxBodyBytes = 1 << 20

// Validator classifies inputs. service.ValidationService implements it.
type Validator interface {
	Validate(ctx context.Context, input string) (*domain.Verdict, error)
	ValidateBatch(ctx context.Context, inputs []string) (*service.BatchResult, error)
	Engine() string
}

// Config holds optional handler settings.
type Config struct {
	// MaxBodyBytes caps request bodies (default: 1 MiB).
	MaxBodyBytes int64

	// Metrics serves GET /metrics when set.
	Metrics http.Handler

	// Ready reports readiness for GET /ready. Nil means always ready.
	Ready func() bool
}

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	validator Validator
	cfg       Config
	logger    *slog.Logger
	mux       *http.ServeMux
}

// New creates a new Handler backed by v.
func New(v Validator, cfg Config, log *slog.Logger) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if log == nil {
		log = slog.Default()
	}

	h := &Handler{
		validator: v,
		cfg:       cfg,
		logger:    log,
		mux:       http.NewServeMux(),
	}
	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	h.mux.HandleFunc("POST /v1/colors/validate", h.handleValidate)
	h.mux.HandleFunc("GET /v1/colors/validate", h.handleValidateQuery)
	h.mux.HandleFunc("POST /v1/colors/validate/batch", h.handleValidateBatch)
	h.mux.HandleFunc("GET /v1/engines", h.handleEngines)

	if h.cfg.Metrics != nil {
		h.mux.Handle("GET /metrics", h.cfg.Metrics)
	}
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "request_id", requestID, "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := getRequestID(r)
	response := NewErrorResponse(requestID, code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode error response", "request_id", requestID, "error", err)
	}
}

// getRequestID returns the ID assigned by the RequestID middleware,
// falling back to the inbound header.
func getRequestID(r *http.Request) string {
	if reqID := logger.RequestIDFromContext(r.Context()); reqID != "" {
		return reqID
	}
	return r.Header.Get("X-Request-ID")
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		var details any
		if de.Details != "" {
			details = de.Details
		}
		h.writeError(w, r, de.HTTPStatus(), de.Code, de.Message, details)
		return
	}

	h.logger.Error("internal error", "request_id", getRequestID(r), "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternal.Code, domain.ErrInternal.Message, nil)
}
