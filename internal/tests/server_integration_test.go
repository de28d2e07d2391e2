// Package tests holds end-to-end tests that run the HTTP server on a
// real listener and drive it with the CLI client.
package tests

import (
	"context"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yndnr/hexmatch-go/internal/cli/connection"
	"github.com/yndnr/hexmatch-go/internal/core/domain"
	"github.com/yndnr/hexmatch-go/internal/core/matcher"
	"github.com/yndnr/hexmatch-go/internal/core/service"
	"github.com/yndnr/hexmatch-go/internal/server/httpserver"
	"github.com/yndnr/hexmatch-go/internal/telemetry/metric"
	"github.com/yndnr/hexmatch-go/pkg/hexcolor"
)

type testServer struct {
	client *connection.HTTPClient
	ready  *atomic.Bool
}

// startServer runs engine behind the full middleware chain on a
// loopback port and returns a client for it.
func startServer(t *testing.T, engine string, batchMax int) *testServer {
	t.Helper()

	m, err := matcher.New(engine)
	if err != nil {
		t.Fatalf("matcher.New(%q) error = %v", engine, err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := metric.NewRegistry()

	cfg := service.DefaultValidationConfig()
	cfg.BatchMaxSize = batchMax
	svc := service.NewValidationService(m, cfg, reg, log)

	ready := new(atomic.Bool)
	h := httpserver.NewRouter(&httpserver.RouterConfig{
		Validator:    svc,
		Logger:       log,
		Metrics:      reg.Handler(),
		Recorder:     reg,
		Ready:        ready.Load,
		MaxBodyBytes: 1 << 20,
		EnableAudit:  true,
	})

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := httpserver.New(l.Addr().String(), h, httpserver.Options{})
	done := make(chan error, 1)
	go func() { done <- srv.Serve(l) }()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
		if err := <-done; err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	})

	return &testServer{
		client: connection.NewHTTPClient(l.Addr().String()),
		ready:  ready,
	}
}

func TestServer_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, engine := range matcher.Names() {
		t.Run(engine, func(t *testing.T) {
			ts := startServer(t, engine, 100)
			ctx := context.Background()

			if _, err := ts.client.Ready(ctx); !connection.IsCode(err, domain.ErrNotReady.Code) {
				t.Fatalf("Ready() before start error = %v, want %s", err, domain.ErrNotReady.Code)
			}
			ts.ready.Store(true)
			if _, err := ts.client.Ready(ctx); err != nil {
				t.Fatalf("Ready() error = %v", err)
			}

			engines, err := ts.client.Engines(ctx)
			if err != nil {
				t.Fatalf("Engines() error = %v", err)
			}
			if engines.Active != engine {
				t.Errorf("Active = %q, want %q", engines.Active, engine)
			}

			inputs := []string{"#1f1f1F", "#AFAFDD", "#abc", "#F0F", "#FFFFFFFF", "123456", "#12345G", "", "#abc\n"}
			res, err := ts.client.ValidateBatch(ctx, inputs)
			if err != nil {
				t.Fatalf("ValidateBatch() error = %v", err)
			}
			if len(res.Results) != len(inputs) {
				t.Fatalf("len(Results) = %d, want %d", len(res.Results), len(inputs))
			}
			for i, v := range res.Results {
				if v.Input != inputs[i] {
					t.Errorf("Results[%d].Input = %q, want %q", i, v.Input, inputs[i])
				}
				if want := hexcolor.IsValid(inputs[i]); v.Valid != want {
					t.Errorf("Results[%d] (%q) Valid = %v, want %v", i, inputs[i], v.Valid, want)
				}
				if v.Engine != engine {
					t.Errorf("Results[%d].Engine = %q, want %q", i, v.Engine, engine)
				}
			}
			if res.Valid != 5 || res.Invalid != 4 {
				t.Errorf("Valid/Invalid = %d/%d, want 5/4", res.Valid, res.Invalid)
			}

			v, err := ts.client.Validate(ctx, "#12345G")
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if v.Valid || v.Reason != domain.ReasonInvalidDigit || v.Offset != 6 {
				t.Errorf("Validate(#12345G) = %+v, want invalid_digit at 6", v)
			}
		})
	}
}

func TestServer_BatchLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := startServer(t, matcher.DefaultEngine, 3)
	ctx := context.Background()

	_, err := ts.client.ValidateBatch(ctx, []string{"#a", "#b", "#c", "#d"})
	if !connection.IsCode(err, domain.ErrBatchTooLarge.Code) {
		t.Errorf("ValidateBatch(4) error = %v, want %s", err, domain.ErrBatchTooLarge.Code)
	}
	_, err = ts.client.ValidateBatch(ctx, nil)
	if !connection.IsCode(err, domain.ErrBatchEmpty.Code) {
		t.Errorf("ValidateBatch(nil) error = %v, want %s", err, domain.ErrBatchEmpty.Code)
	}
}
