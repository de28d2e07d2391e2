package handler

import (
	"net/http"

	"github.com/yndnr/hexmatch-go/internal/core/matcher"
)

// handleEngines handles GET /v1/engines.
func (h *Handler) handleEngines(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, &EnginesResponse{
		Active:    h.validator.Engine(),
		Available: matcher.Names(),
	})
}
