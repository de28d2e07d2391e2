package config

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"strings"

	"github.com/yndnr/hexmatch-go/internal/core/matcher"
	"github.com/yndnr/hexmatch-go/internal/telemetry/logger"
)

// Verify validates the configuration. All problems are reported together.
func Verify(cfg *ServerConfig) error {
	return errors.Join(
		verifyHTTP(&cfg.Server.HTTP),
		verifyValidator(&cfg.Validator),
		verifyLog(&cfg.Log),
	)
}

func verifyHTTP(cfg *HTTPConfig) error {
	var errs []error

	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.http.addr %q: %w", cfg.Addr, err))
	}

	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		errs = append(errs, errors.New("server.http.tls_cert_file and tls_key_file must be set together"))
	}
	for _, f := range []string{cfg.TLSCertFile, cfg.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			errs = append(errs, fmt.Errorf("server.http TLS file: %w", err))
		}
	}

	if cfg.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.http.read_timeout must be positive"))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.http.write_timeout must be positive"))
	}
	if cfg.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.http.max_body_bytes must be positive"))
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, errors.New("server.http.rate_limit must not be negative"))
	}
	if cfg.RateLimit > 0 && cfg.RateBurst < 1 {
		errs = append(errs, errors.New("server.http.rate_burst must be at least 1 when rate limiting is enabled"))
	}

	for _, p := range cfg.TrustedProxies {
		if err := verifyProxy(p); err != nil {
			errs = append(errs, fmt.Errorf("server.http.trusted_proxies: %w", err))
		}
	}

	return errors.Join(errs...)
}

func verifyProxy(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.Contains(s, "/") {
		_, err := netip.ParsePrefix(s)
		return err
	}
	_, err := netip.ParseAddr(s)
	return err
}

func verifyValidator(cfg *ValidatorSection) error {
	var errs []error

	if _, err := matcher.New(cfg.Engine); err != nil {
		errs = append(errs, fmt.Errorf("validator.engine: %w", err))
	}

	if cfg.Cache.Enabled {
		if cfg.Cache.TTL <= 0 {
			errs = append(errs, errors.New("validator.cache.ttl must be positive"))
		}
		if cfg.Cache.CleanupInterval <= 0 {
			errs = append(errs, errors.New("validator.cache.cleanup_interval must be positive"))
		}
		if cfg.Cache.MaxKeyLen < 1 {
			errs = append(errs, errors.New("validator.cache.max_key_len must be at least 1"))
		}
		if cfg.Cache.MaxEntries < 1 {
			errs = append(errs, errors.New("validator.cache.max_entries must be at least 1"))
		}
	}

	if cfg.Batch.MaxSize < 1 {
		errs = append(errs, errors.New("validator.batch.max_size must be at least 1"))
	}
	if cfg.Batch.Workers < 1 {
		errs = append(errs, errors.New("validator.batch.workers must be at least 1"))
	}

	return errors.Join(errs...)
}

func verifyLog(cfg *LogSection) error {
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := logger.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}
	return nil
}
