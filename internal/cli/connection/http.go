package connection

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/hexmatch-go/internal/core/domain"
	"github.com/yndnr/hexmatch-go/internal/infra/buildinfo"
)

// DefaultTimeout bounds every request made by HTTPClient.
const DefaultTimeout = 30 * time.Second

// API paths.
const (
	PathHealth        = "/health"
	PathReady         = "/ready"
	PathEngines       = "/v1/engines"
	PathValidate      = "/v1/colors/validate"
	PathValidateBatch = "/v1/colors/validate/batch"
)

// HTTPClient provides HTTP communication with the server.
type HTTPClient struct {
	baseURL   string
	client    *http.Client
	userAgent string
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithTLSConfig sets the TLS configuration used for https servers.
func WithTLSConfig(cfg *tls.Config) ClientOption {
	return func(c *HTTPClient) {
		if cfg == nil {
			return
		}
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = cfg
		c.client.Transport = tr
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// NewHTTPClient creates a client for server, which may be a bare
// host:port or a full http(s) URL.
func NewHTTPClient(server string, opts ...ClientOption) *HTTPClient {
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &HTTPClient{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: "hexmatch/" + buildinfo.Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.addHeaders(req)
	return c.client.Do(req)
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.addHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.client.Do(req)
}

func (c *HTTPClient) addHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Health is the payload of GET /health and GET /ready.
type Health struct {
	Status  string `json:"status" yaml:"status"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Engine  string `json:"engine,omitempty" yaml:"engine,omitempty"`
	Time    string `json:"time" yaml:"time"`
}

// Engines is the payload of GET /v1/engines.
type Engines struct {
	Active    string   `json:"active" yaml:"active"`
	Available []string `json:"available" yaml:"available"`
}

// BatchResult is the payload of POST /v1/colors/validate/batch.
type BatchResult struct {
	Results []*domain.Verdict `json:"results" yaml:"results"`
	Total   int               `json:"total" yaml:"total"`
	Valid   int               `json:"valid" yaml:"valid"`
	Invalid int               `json:"invalid" yaml:"invalid"`
}

// Health fetches the server's liveness report.
func (c *HTTPClient) Health(ctx context.Context) (*Health, error) {
	return getJSON[Health](ctx, c, PathHealth)
}

// Ready fetches the server's readiness report.
func (c *HTTPClient) Ready(ctx context.Context) (*Health, error) {
	return getJSON[Health](ctx, c, PathReady)
}

// Engines fetches the active and available matching engines.
func (c *HTTPClient) Engines(ctx context.Context) (*Engines, error) {
	return getJSON[Engines](ctx, c, PathEngines)
}

// Validate classifies a single input on the server.
func (c *HTTPClient) Validate(ctx context.Context, input string) (*domain.Verdict, error) {
	resp, err := c.Post(ctx, PathValidate, map[string]string{"input": input})
	if err != nil {
		return nil, err
	}
	var v domain.Verdict
	if err := ParseResponse(resp, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ValidateBatch classifies inputs on the server in one request.
func (c *HTTPClient) ValidateBatch(ctx context.Context, inputs []string) (*BatchResult, error) {
	resp, err := c.Post(ctx, PathValidateBatch, map[string][]string{"inputs": inputs})
	if err != nil {
		return nil, err
	}
	var res BatchResult
	if err := ParseResponse(resp, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func getJSON[T any](ctx context.Context, c *HTTPClient, path string) (*T, error) {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	var out T
	if err := ParseResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// APIError is an error envelope returned by the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    string
	RequestID  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// IsCode reports whether err is an *APIError carrying code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// envelope mirrors the server response wrapper.
type envelope struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
	Details   json.RawMessage `json:"details"`
}

// ParseResponse decodes the response envelope and unmarshals its data
// field into target. The body is always closed.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode >= 400 {
		if decodeErr == nil && env.Code != "" {
			return &APIError{
				StatusCode: resp.StatusCode,
				Code:       env.Code,
				Message:    env.Message,
				Details:    detailsString(env.Details),
				RequestID:  env.RequestID,
			}
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if decodeErr != nil {
		return fmt.Errorf("parse response: %w", decodeErr)
	}
	if target != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, target); err != nil {
			return fmt.Errorf("parse response data: %w", err)
		}
	}
	return nil
}

func detailsString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
