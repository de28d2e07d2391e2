package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/hexmatch-go/internal/core/domain"
	"github.com/yndnr/hexmatch-go/internal/infra/buildinfo"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, &HealthResponse{
		Status:  "healthy",
		Version: buildinfo.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Ready != nil && !h.cfg.Ready() {
		h.handleServiceError(w, r, domain.ErrNotReady)
		return
	}
	h.writeJSON(w, r, http.StatusOK, &HealthResponse{
		Status: "ready",
		Engine: h.validator.Engine(),
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
