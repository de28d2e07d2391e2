package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/yndnr/hexmatch-go/internal/core/domain"
)

// handleValidate handles POST /v1/colors/validate.
func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	input, err := rawString(req.Input)
	if err != nil {
		h.handleServiceError(w, r, domain.ErrInvalidInputType.WithDetails("input"))
		return
	}

	h.validate(w, r, input)
}

// handleValidateQuery handles GET /v1/colors/validate?input=...
// A missing parameter is the empty string, which is not a color.
func (h *Handler) handleValidateQuery(w http.ResponseWriter, r *http.Request) {
	h.validate(w, r, r.URL.Query().Get("input"))
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request, input string) {
	verdict, err := h.validator.Validate(r.Context(), input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, verdict)
}

// handleValidateBatch handles POST /v1/colors/validate/batch.
func (h *Handler) handleValidateBatch(w http.ResponseWriter, r *http.Request) {
	var req ValidateBatchRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	inputs := make([]string, len(req.Inputs))
	for i, raw := range req.Inputs {
		s, err := rawString(raw)
		if err != nil {
			h.handleServiceError(w, r, domain.ErrInvalidInputType.WithDetails(fmt.Sprintf("inputs[%d]", i)))
			return
		}
		inputs[i] = s
	}

	result, err := h.validator.ValidateBatch(r.Context(), inputs)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, &ValidateBatchResponse{
		Results: result.Results,
		Total:   len(result.Results),
		Valid:   result.Valid,
		Invalid: result.Invalid,
	})
}

// decodeBody decodes a single JSON value from the size-limited body.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)

	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.ErrBodyTooLarge.WithDetails(fmt.Sprintf("limit %d bytes", tooLarge.Limit))
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return domain.ErrInvalidRequest.WithDetails(fmt.Sprintf("field %q has the wrong type", typeErr.Field))
		}
		return domain.ErrInvalidRequest.WithCause(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return domain.ErrInvalidRequest.WithDetails("trailing data after JSON value")
	}
	return nil
}

var jsonNull = []byte("null")

// rawString extracts a JSON string. Absent, null and non-string values
// are rejected.
func rawString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return "", domain.ErrInvalidInputType
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", domain.ErrInvalidInputType.WithCause(err)
	}
	return s, nil
}
