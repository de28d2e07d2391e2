package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yndnr/hexmatch-go/internal/core/domain"
	"github.com/yndnr/hexmatch-go/internal/core/matcher"
	"github.com/yndnr/hexmatch-go/internal/core/service"
	"github.com/yndnr/hexmatch-go/internal/telemetry/logger"
)

// testHandler creates a handler backed by a real scan-engine service.
func testHandler(t *testing.T, cfg Config) *Handler {
	t.Helper()
	m, err := matcher.New(matcher.EngineScan)
	if err != nil {
		t.Fatalf("matcher.New() error = %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewValidationService(m, nil, nil, log)
	return New(svc, cfg, log)
}

// decodeEnvelope decodes the standard envelope, re-decoding Data into data.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) Response {
	t.Helper()
	var raw struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
	}
	return raw.Response
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Validate(t *testing.T) {
	h := testHandler(t, Config{})

	tests := []struct {
		name       string
		body       string
		valid      bool
		normalized string
		reason     domain.Reason
		offset     int
	}{
		{"short with hash", `{"input":"#fff"}`, true, "#ffffff", domain.ReasonNone, -1},
		{"long without hash", `{"input":"A1b2C3"}`, true, "#a1b2c3", domain.ReasonNone, -1},
		{"empty", `{"input":""}`, false, "", domain.ReasonEmpty, 0},
		{"bad digit", `{"input":"#ggg"}`, false, "", domain.ReasonInvalidDigit, 1},
		{"four digits", `{"input":"#abcd"}`, false, "", domain.ReasonInvalidLength, 5},
		{"double hash", `{"input":"##fff"}`, false, "", domain.ReasonRepeatedPrefix, 1},
		{"escaped newline", `{"input":"#fff\n"}`, false, "", domain.ReasonInvalidDigit, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, "POST", "/v1/colors/validate", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
			}

			var v domain.Verdict
			resp := decodeEnvelope(t, rec, &v)
			if resp.Code != "OK" {
				t.Errorf("expected code 'OK', got '%s'", resp.Code)
			}
			if v.Valid != tt.valid || v.Normalized != tt.normalized || v.Reason != tt.reason || v.Offset != tt.offset {
				t.Errorf("verdict = %+v, want valid=%v normalized=%q reason=%s offset=%d",
					v, tt.valid, tt.normalized, tt.reason, tt.offset)
			}
			if v.Engine != matcher.EngineScan {
				t.Errorf("expected engine %q, got %q", matcher.EngineScan, v.Engine)
			}
		})
	}
}

func TestHandler_Validate_BadInput(t *testing.T) {
	h := testHandler(t, Config{MaxBodyBytes: 64})

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing input", `{}`, http.StatusBadRequest, "HX-ARG-4001"},
		{"null input", `{"input":null}`, http.StatusBadRequest, "HX-ARG-4001"},
		{"number input", `{"input":123}`, http.StatusBadRequest, "HX-ARG-4001"},
		{"array input", `{"input":["#fff"]}`, http.StatusBadRequest, "HX-ARG-4001"},
		{"malformed json", `{"input":`, http.StatusBadRequest, "HX-ARG-4000"},
		{"not an object", `"#fff"`, http.StatusBadRequest, "HX-ARG-4000"},
		{"trailing data", `{"input":"#fff"} {}`, http.StatusBadRequest, "HX-ARG-4000"},
		{"too large", `{"input":"` + strings.Repeat("f", 100) + `"}`, http.StatusRequestEntityTooLarge, "HX-ARG-4130"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, "POST", "/v1/colors/validate", tt.body)
			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
			if got := rec.Header().Get("X-Error-Code"); got != tt.code {
				t.Errorf("expected X-Error-Code %q, got %q", tt.code, got)
			}
			resp := decodeEnvelope(t, rec, nil)
			if resp.Code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, resp.Code)
			}
		})
	}
}

func TestHandler_ValidateQuery(t *testing.T) {
	h := testHandler(t, Config{})

	tests := []struct {
		target string
		valid  bool
	}{
		{"/v1/colors/validate?input=%23ABCDEF", true},
		{"/v1/colors/validate?input=abc", true},
		{"/v1/colors/validate?input=%23abcde", false},
		{"/v1/colors/validate", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := do(h, "GET", tt.target, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}
			var v domain.Verdict
			decodeEnvelope(t, rec, &v)
			if v.Valid != tt.valid {
				t.Errorf("expected valid=%v, got %v", tt.valid, v.Valid)
			}
		})
	}
}

func TestHandler_ValidateBatch(t *testing.T) {
	h := testHandler(t, Config{})

	rec := do(h, "POST", "/v1/colors/validate/batch", `{"inputs":["#fff","zzz","","123456"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ValidateBatchResponse
	decodeEnvelope(t, rec, &resp)

	if resp.Total != 4 || resp.Valid != 2 || resp.Invalid != 2 {
		t.Errorf("expected total=4 valid=2 invalid=2, got %d/%d/%d", resp.Total, resp.Valid, resp.Invalid)
	}
	wantInputs := []string{"#fff", "zzz", "", "123456"}
	for i, v := range resp.Results {
		if v.Input != wantInputs[i] {
			t.Errorf("results[%d].Input = %q, want %q", i, v.Input, wantInputs[i])
		}
	}
}

func TestHandler_ValidateBatch_Errors(t *testing.T) {
	h := testHandler(t, Config{})

	tests := []struct {
		name    string
		body    string
		status  int
		code    string
		details string
	}{
		{"empty", `{"inputs":[]}`, http.StatusBadRequest, "HX-ARG-4002", ""},
		{"missing", `{}`, http.StatusBadRequest, "HX-ARG-4002", ""},
		{"non string element", `{"inputs":["#fff",7]}`, http.StatusBadRequest, "HX-ARG-4001", "inputs[1]"},
		{"null element", `{"inputs":[null]}`, http.StatusBadRequest, "HX-ARG-4001", "inputs[0]"},
		{"inputs not array", `{"inputs":"#fff"}`, http.StatusBadRequest, "HX-ARG-4000", ""},
		{"too many", `{"inputs":[` + strings.TrimSuffix(strings.Repeat(`"a",`, 1001), ",") + `]}`,
			http.StatusBadRequest, "HX-ARG-4003", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, "POST", "/v1/colors/validate/batch", tt.body)
			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
			resp := decodeEnvelope(t, rec, nil)
			if resp.Code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, resp.Code)
			}
			if tt.details != "" && resp.Details != tt.details {
				t.Errorf("expected details %q, got %v", tt.details, resp.Details)
			}
		})
	}
}

func TestHandler_Engines(t *testing.T) {
	h := testHandler(t, Config{})

	rec := do(h, "GET", "/v1/engines", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp EnginesResponse
	decodeEnvelope(t, rec, &resp)
	if resp.Active != matcher.EngineScan {
		t.Errorf("expected active %q, got %q", matcher.EngineScan, resp.Active)
	}
	if len(resp.Available) != len(matcher.Names()) {
		t.Errorf("expected %d engines, got %v", len(matcher.Names()), resp.Available)
	}
}

func TestHandler_Health(t *testing.T) {
	ready := false
	h := testHandler(t, Config{Ready: func() bool { return ready }})

	t.Run("GET /health returns healthy status", func(t *testing.T) {
		rec := do(h, "GET", "/health", "")
		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
		var resp HealthResponse
		decodeEnvelope(t, rec, &resp)
		if resp.Status != "healthy" {
			t.Errorf("expected status 'healthy', got '%s'", resp.Status)
		}
	})

	t.Run("GET /ready before ready", func(t *testing.T) {
		rec := do(h, "GET", "/ready", "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected status 503, got %d", rec.Code)
		}
	})

	t.Run("GET /ready after ready", func(t *testing.T) {
		ready = true
		rec := do(h, "GET", "/ready", "")
		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}
	})
}

func TestHandler_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "hexmatch_up 1\n")
	})

	if rec := do(testHandler(t, Config{}), "GET", "/metrics", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without metrics handler, got %d", rec.Code)
	}
	rec := do(testHandler(t, Config{Metrics: metrics}), "GET", "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "hexmatch_up") {
		t.Errorf("expected metrics body, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestHandler_Cancelled(t *testing.T) {
	h := testHandler(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest("GET", "/v1/colors/validate?input=fff", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Error-Code"); got != "HX-SYS-5030" {
		t.Errorf("expected X-Error-Code HX-SYS-5030, got %q", got)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := testHandler(t, Config{})
	if rec := do(h, "DELETE", "/v1/colors/validate", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}

func TestResponse_Envelope(t *testing.T) {
	resp := NewResponse("req-123", map[string]string{"k": "v"})
	if resp.Code != "OK" || resp.Message != "Success" || resp.RequestID != "req-123" {
		t.Errorf("unexpected success envelope: %+v", resp)
	}
	if resp.Timestamp == 0 {
		t.Error("expected timestamp to be set")
	}

	errResp := NewErrorResponse("req-456", "HX-ARG-4001", "input must be a string", "inputs[2]")
	if errResp.Code != "HX-ARG-4001" || errResp.Data != nil || errResp.Details != "inputs[2]" {
		t.Errorf("unexpected error envelope: %+v", errResp)
	}
}

func TestHandler_ServiceErrorStatus(t *testing.T) {
	h := testHandler(t, Config{})

	tests := []struct {
		name     string
		err      error
		wantCode string
		want     int
	}{
		{"bad request", domain.ErrInvalidRequest, "HX-ARG-4000", http.StatusBadRequest},
		{"body too large", domain.ErrBodyTooLarge.WithDetails("limit 10 bytes"), "HX-ARG-4130", http.StatusRequestEntityTooLarge},
		{"unknown engine", domain.ErrUnknownEngine, "HX-CFG-4004", http.StatusBadRequest},
		{"rate limited", domain.ErrRateLimited, "HX-SYS-4290", http.StatusTooManyRequests},
		{"not ready", domain.ErrNotReady, "HX-SYS-5031", http.StatusServiceUnavailable},
		{"wrapped cancel", fmt.Errorf("batch: %w", domain.ErrCancelled), "HX-SYS-5030", http.StatusServiceUnavailable},
		{"plain error", errors.New("boom"), "HX-SYS-5000", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.handleServiceError(rec, httptest.NewRequest(http.MethodGet, "/v1/engines", nil), tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if env := decodeEnvelope(t, rec, nil); env.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Code, tt.wantCode)
			}
		})
	}
}

func TestGetRequestID(t *testing.T) {
	t.Run("prefers context value", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("X-Request-ID", "from-header")
		req = req.WithContext(logger.WithRequestID(req.Context(), "req-ctx"))
		if got := getRequestID(req); got != "req-ctx" {
			t.Errorf("expected 'req-ctx', got '%s'", got)
		}
	})

	t.Run("falls back to header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("X-Request-ID", "from-header")
		if got := getRequestID(req); got != "from-header" {
			t.Errorf("expected 'from-header', got '%s'", got)
		}
	})
}

func BenchmarkHandler_Validate(b *testing.B) {
	m, _ := matcher.New(matcher.EngineScan)
	h := New(service.NewValidationService(m, nil, nil, nil), Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	body := `{"input":"#a1b2c3"}`

	for i := 0; i < b.N; i++ {
		do(h, "POST", "/v1/colors/validate", body)
	}
}
