package tlsroots

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yndnr/hexmatch-go/internal/infra/confloader"
)

// DefaultDebounce collapses the burst of events produced when a key pair
// is rewritten.
const DefaultDebounce = 250 * time.Millisecond

// Reloader serves a certificate key pair and reloads it when either file
// changes. A failed reload keeps the previous pair.
type Reloader struct {
	certFile string
	keyFile  string
	debounce time.Duration
	logger   *slog.Logger

	mu   sync.RWMutex
	cert *tls.Certificate

	timerMu sync.Mutex
	timer   *time.Timer

	watcher *confloader.Watcher
	onLoad  func(error)
}

// ReloaderOption configures a Reloader.
type ReloaderOption func(*Reloader)

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(logger *slog.Logger) ReloaderOption {
	return func(r *Reloader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDebounce sets the debounce window. Zero reloads on every event.
func WithDebounce(d time.Duration) ReloaderOption {
	return func(r *Reloader) {
		r.debounce = d
	}
}

// WithOnReload registers fn to run after each reload attempt.
func WithOnReload(fn func(error)) ReloaderOption {
	return func(r *Reloader) {
		r.onLoad = fn
	}
}

// NewReloader loads the key pair once. Call Start to follow changes.
func NewReloader(certFile, keyFile string, opts ...ReloaderOption) (*Reloader, error) {
	r := &Reloader{
		certFile: certFile,
		keyFile:  keyFile,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload reads the key pair from disk and swaps it in on success.
func (r *Reloader) Reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}
	r.mu.Lock()
	r.cert = &cert
	r.mu.Unlock()
	return nil
}

// GetCertificate implements tls.Config.GetCertificate.
func (r *Reloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert, nil
}

// ServerConfig returns a server TLS config backed by the reloader.
func (r *Reloader) ServerConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: r.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}

// Start watches both files in the background.
func (r *Reloader) Start() error {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(r.logger))
	if err != nil {
		return err
	}
	for _, path := range []string{r.certFile, r.keyFile} {
		if err := w.Watch(path); err != nil {
			_ = w.Stop()
			return err
		}
	}
	w.OnChange(func(string) { r.schedule() })
	r.watcher = w
	w.StartAsync()
	r.logger.Info("watching TLS key pair", "cert", r.certFile, "key", r.keyFile)
	return nil
}

// Stop ends watching. Pending reloads are dropped.
func (r *Reloader) Stop() error {
	r.timerMu.Lock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timerMu.Unlock()
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Stop()
}

func (r *Reloader) schedule() {
	if r.debounce <= 0 {
		r.reloadAndReport()
		return
	}
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, r.reloadAndReport)
}

func (r *Reloader) reloadAndReport() {
	err := r.Reload()
	if err != nil {
		r.logger.Warn("TLS key pair reload failed, keeping previous", "error", err)
	} else {
		r.logger.Info("TLS key pair reloaded", "cert", r.certFile)
	}
	if r.onLoad != nil {
		r.onLoad(err)
	}
}
