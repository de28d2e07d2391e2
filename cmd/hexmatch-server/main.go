// Command hexmatch-server serves hex color validation over HTTP.
//
// Usage:
//
//	hexmatch-server [--config /etc/hexmatch/server.yaml]
//
// Configuration is read from defaults, then the YAML file, then
// HEXMATCH_* environment variables. Changes to log.level in the file
// apply without a restart.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/hexmatch-go/internal/core/matcher"
	"github.com/yndnr/hexmatch-go/internal/core/service"
	"github.com/yndnr/hexmatch-go/internal/infra/buildinfo"
	"github.com/yndnr/hexmatch-go/internal/infra/confloader"
	"github.com/yndnr/hexmatch-go/internal/infra/shutdown"
	"github.com/yndnr/hexmatch-go/internal/infra/tlsroots"
	"github.com/yndnr/hexmatch-go/internal/server/config"
	"github.com/yndnr/hexmatch-go/internal/server/httpserver"
	"github.com/yndnr/hexmatch-go/internal/telemetry/logger"
	"github.com/yndnr/hexmatch-go/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("hexmatch-server " + buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting hexmatch-server",
		"version", info.Version,
		"commit", info.Commit,
		"go", info.GoVersion,
		"config", *configFile)

	app, err := newApp(cfg, log.Slog(), metric.Global())
	if err != nil {
		return err
	}

	l, err := net.Listen("tcp", cfg.Server.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.HTTP.Addr, err)
	}

	shutdownHandler := shutdown.NewHandler(shutdownTimeout)

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, log.Slog())
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	if app.certs != nil {
		if err := app.certs.Start(); err != nil {
			log.Warn("TLS key pair watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error {
				return app.certs.Stop()
			})
		}
	}

	// Hooks run in reverse: stop taking traffic first.
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return app.server.Shutdown(ctx)
	})
	shutdownHandler.OnShutdown(func(context.Context) error {
		app.ready.Store(false)
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", l.Addr().String(), "tls", cfg.Server.HTTP.TLSEnabled())
		var err error
		if app.certs != nil {
			err = app.server.ServeTLS(l, "", "")
		} else {
			err = app.server.Serve(l)
		}
		if err != nil {
			log.Error("HTTP server error", "error", err)
			serveErr <- err
			cancel()
		}
	}()
	app.ready.Store(true)

	log.Info("server started", "engine", cfg.Validator.Engine)
	if err := shutdownHandler.WaitContext(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	default:
	}
	log.Info("server stopped gracefully")
	return nil
}

// components holds the wired server parts.
type components struct {
	service *service.ValidationService
	handler http.Handler
	server  *httpserver.Server
	certs   *tlsroots.Reloader
	ready   *atomic.Bool
}

// newApp wires the matcher, validation service, metrics and router.
func newApp(cfg *config.ServerConfig, log *slog.Logger, reg *metric.Registry) (*components, error) {
	m, err := matcher.New(cfg.Validator.Engine)
	if err != nil {
		return nil, err
	}

	svc := service.NewValidationService(m, &service.ValidationConfig{
		CacheEnabled:         cfg.Validator.Cache.Enabled,
		CacheTTL:             cfg.Validator.Cache.TTL,
		CacheCleanupInterval: cfg.Validator.Cache.CleanupInterval,
		CacheMaxKeyLen:       cfg.Validator.Cache.MaxKeyLen,
		CacheMaxEntries:      cfg.Validator.Cache.MaxEntries,
		BatchMaxSize:         cfg.Validator.Batch.MaxSize,
		BatchWorkers:         cfg.Validator.Batch.Workers,
	}, reg, log)

	if err := reg.Register(metric.NewCollector(svc.CacheLen)); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	proxies, err := httpserver.ParseTrustedProxies(cfg.Server.HTTP.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("server.http.trusted_proxies: %w", err)
	}

	ready := new(atomic.Bool)
	h := httpserver.NewRouter(&httpserver.RouterConfig{
		Validator:          svc,
		Logger:             log,
		Metrics:            reg.Handler(),
		Recorder:           reg,
		Ready:              ready.Load,
		MaxBodyBytes:       cfg.Server.HTTP.MaxBodyBytes,
		CORSAllowedOrigins: cfg.Server.HTTP.CORSAllowedOrigins,
		RateLimit:          cfg.Server.HTTP.RateLimit,
		RateBurst:          cfg.Server.HTTP.RateBurst,
		TrustedProxies:     proxies,
		EnableAudit:        cfg.Server.HTTP.Audit,
	})

	opts := httpserver.Options{
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
	}
	var certs *tlsroots.Reloader
	if cfg.Server.HTTP.TLSEnabled() {
		certs, err = tlsroots.NewReloader(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile,
			tlsroots.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("tls: %w", err)
		}
		opts.TLSConfig = certs.ServerConfig()
	}

	return &components{
		service: svc,
		handler: h,
		server:  httpserver.New(cfg.Server.HTTP.Addr, h, opts),
		certs:   certs,
		ready:   ready,
	}, nil
}

// loadConfig loads defaults, the optional file and the environment,
// then verifies the result.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	var opts []confloader.Option
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// watchConfig reloads configFile on change and applies log.level.
// Other settings need a restart.
func watchConfig(configFile string, log *slog.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(configFile); err != nil {
		w.Stop()
		return nil, err
	}

	w.OnChange(func(path string) {
		applyReload(path, log)
	})
	w.StartAsync()
	return w, nil
}

// applyReload re-reads path and applies the settings that can change
// at runtime.
func applyReload(path string, log *slog.Logger) {
	cfg, err := loadConfig(path)
	if err != nil {
		log.Warn("config reload rejected", "path", path, "error", err)
		return
	}
	if old := logger.GetLevel(); old != cfg.Log.Level {
		logger.SetLevel(cfg.Log.Level)
		log.Info("log level changed", "from", old, "to", cfg.Log.Level)
	}
}
