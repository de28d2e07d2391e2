package config

import "time"

// ServerConfig is the root configuration for hexmatch-server.
type ServerConfig struct {
	Server    ServerSection    `koanf:"server" yaml:"server" json:"server"`
	Validator ValidatorSection `koanf:"validator" yaml:"validator" json:"validator"`
	Log       LogSection       `koanf:"log" yaml:"log" json:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http" yaml:"http" json:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr" yaml:"addr" json:"addr"`
	TLSCertFile string `koanf:"tls_cert_file" yaml:"tls_cert_file" json:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file" yaml:"tls_key_file" json:"tls_key_file"`

	ReadTimeout  time.Duration `koanf:"read_timeout" yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout" yaml:"write_timeout" json:"write_timeout"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes"`

	// RateLimit is requests per second per client IP; 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
	RateBurst int     `koanf:"rate_burst" yaml:"rate_burst" json:"rate_burst"`

	// TrustedProxies lists addresses or CIDR prefixes whose forwarding
	// headers identify the client. Empty means the TCP peer is the client.
	TrustedProxies []string `koanf:"trusted_proxies" yaml:"trusted_proxies" json:"trusted_proxies"`

	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" yaml:"cors_allowed_origins" json:"cors_allowed_origins"`

	// Audit enables the access log and request metrics.
	Audit bool `koanf:"audit" yaml:"audit" json:"audit"`
}

// TLSEnabled reports whether both certificate and key are configured.
func (c HTTPConfig) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// ValidatorSection configures classification.
type ValidatorSection struct {
	Engine string      `koanf:"engine" yaml:"engine" json:"engine"`
	Cache  CacheConfig `koanf:"cache" yaml:"cache" json:"cache"`
	Batch  BatchConfig `koanf:"batch" yaml:"batch" json:"batch"`
}

// CacheConfig configures the verdict cache.
type CacheConfig struct {
	Enabled         bool          `koanf:"enabled" yaml:"enabled" json:"enabled"`
	TTL             time.Duration `koanf:"ttl" yaml:"ttl" json:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval" yaml:"cleanup_interval" json:"cleanup_interval"`
	MaxKeyLen       int           `koanf:"max_key_len" yaml:"max_key_len" json:"max_key_len"`
	MaxEntries      int           `koanf:"max_entries" yaml:"max_entries" json:"max_entries"`
}

// BatchConfig configures batch validation.
type BatchConfig struct {
	MaxSize int `koanf:"max_size" yaml:"max_size" json:"max_size"`
	Workers int `koanf:"workers" yaml:"workers" json:"workers"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
}
