package handler

import (
	"encoding/json"
	"time"

	"github.com/yndnr/hexmatch-go/internal/core/domain"
)

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// ValidateRequest is the request body for POST /v1/colors/validate.
// Input stays raw so that a missing, null or non-string value can be
// told apart from a malformed body.
type ValidateRequest struct {
	Input json.RawMessage `json:"input"`
}

// ValidateBatchRequest is the request body for POST /v1/colors/validate/batch.
type ValidateBatchRequest struct {
	Inputs []json.RawMessage `json:"inputs"`
}

// ValidateResponse is the response body for single validation.
type ValidateResponse = domain.Verdict

// ValidateBatchResponse is the response body for batch validation.
type ValidateBatchResponse struct {
	Results []*domain.Verdict `json:"results"`
	Total   int               `json:"total"`
	Valid   int               `json:"valid"`
	Invalid int               `json:"invalid"`
}

// EnginesResponse is the response body for GET /v1/engines.
type EnginesResponse struct {
	Active    string   `json:"active"`
	Available []string `json:"available"`
}

// HealthResponse is the response body for GET /health and GET /ready.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Engine  string `json:"engine,omitempty"`
	Time    string `json:"time"`
}
