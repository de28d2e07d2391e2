package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr     = "127.0.0.1:5090"
	DefaultReadTimeout  = 10 * time.Second
	DefaultWriteTimeout = 10 * time.Second
	DefaultMaxBodyBytes = 1 << 20
	DefaultRateLimit    = 1000
	DefaultRateBurst    = 2000

	DefaultEngine               = "scan"
	DefaultCacheTTL             = 10 * time.Minute
	DefaultCacheCleanupInterval = 5 * time.Minute
	DefaultCacheMaxKeyLen       = 64
	DefaultCacheMaxEntries      = 100_000
	DefaultBatchMaxSize         = 1000
	DefaultBatchWorkers         = 8

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:         DefaultHTTPAddr,
				ReadTimeout:  DefaultReadTimeout,
				WriteTimeout: DefaultWriteTimeout,
				MaxBodyBytes: DefaultMaxBodyBytes,
				RateLimit:    DefaultRateLimit,
				RateBurst:    DefaultRateBurst,
				Audit:        true,
			},
		},
		Validator: ValidatorSection{
			Engine: DefaultEngine,
			Cache: CacheConfig{
				Enabled:         true,
				TTL:             DefaultCacheTTL,
				CleanupInterval: DefaultCacheCleanupInterval,
				MaxKeyLen:       DefaultCacheMaxKeyLen,
				MaxEntries:      DefaultCacheMaxEntries,
			},
			Batch: BatchConfig{
				MaxSize: DefaultBatchMaxSize,
				Workers: DefaultBatchWorkers,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
