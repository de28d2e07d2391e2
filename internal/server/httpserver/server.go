package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"
)

// Default server timeouts.
const (
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

// Options configures the underlying http.Server.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// TLSConfig, when set, is used by ServeTLS. Certificates supplied
	// through GetCertificate need no file arguments.
	TLSConfig *tls.Config
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
}

// New creates a new HTTP server.
func New(addr string, handler http.Handler, opts Options) *Server {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       opts.ReadTimeout,
			ReadHeaderTimeout: opts.ReadTimeout,
			WriteTimeout:      opts.WriteTimeout,
			IdleTimeout:       defaultIdleTimeout,
			TLSConfig:         opts.TLSConfig,
		},
	}
}

// ListenAndServe starts the HTTP server.
// It returns nil after a graceful Shutdown.
func (s *Server) ListenAndServe() error {
	return ignoreClosed(s.httpServer.ListenAndServe())
}

// ListenAndServeTLS starts the HTTPS server.
func (s *Server) ListenAndServeTLS(certFile, keyFile string) error {
	return ignoreClosed(s.httpServer.ListenAndServeTLS(certFile, keyFile))
}

// Serve accepts connections on l.
func (s *Server) Serve(l net.Listener) error {
	return ignoreClosed(s.httpServer.Serve(l))
}

// ServeTLS accepts TLS connections on l. certFile and keyFile may be
// empty when Options.TLSConfig provides the certificate.
func (s *Server) ServeTLS(l net.Listener, certFile, keyFile string) error {
	return ignoreClosed(s.httpServer.ServeTLS(l, certFile, keyFile))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
