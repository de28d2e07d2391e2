// Package service provides domain services for hexmatch.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/yndnr/hexmatch-go/internal/core/domain"
	"github.com/yndnr/hexmatch-go/internal/core/matcher"
)

// Recorder receives validation metrics.
// internal/telemetry/metric.Registry implements it.
type Recorder interface {
	ObserveValidation(engine string, valid bool, reason string)
	ObserveBatch(size int)
	CacheHit()
	CacheMiss()
}

// nopRecorder is used when no Recorder is supplied.
type nopRecorder struct{}

func (nopRecorder) ObserveValidation(string, bool, string) {}
func (nopRecorder) ObserveBatch(int)                       {}
func (nopRecorder) CacheHit()                              {}
func (nopRecorder) CacheMiss()                             {}

// ValidationConfig holds configuration for ValidationService.
type ValidationConfig struct {
	// CacheEnabled enables the verdict cache.
	CacheEnabled bool

	// CacheTTL is how long a verdict stays cached (default: 10m).
	CacheTTL time.Duration

	// CacheCleanupInterval is how often expired verdicts are purged (default: 5m).
	CacheCleanupInterval time.Duration

	// CacheMaxKeyLen is the longest input, in bytes, that is cached (default: 64).
	// Inputs are unbounded, so longer ones are always classified directly.
	CacheMaxKeyLen int

	// CacheMaxEntries caps the number of cached verdicts (default: 100000).
	// Once reached, new verdicts are not cached until expired ones are purged.
	CacheMaxEntries int

	// BatchMaxSize is the maximum number of inputs per batch (default: 1000).
	BatchMaxSize int

	// BatchWorkers bounds concurrent classifications per batch (default: 8).
	BatchWorkers int
}

// DefaultValidationConfig returns default configuration.
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		CacheEnabled:         true,
		CacheTTL:             10 * time.Minute,
		CacheCleanupInterval: 5 * time.Minute,
		CacheMaxKeyLen:       64,
		CacheMaxEntries:      100_000,
		BatchMaxSize:         1000,
		BatchWorkers:         8,
	}
}

// BatchResult is the outcome of ValidateBatch.
// Results are in input order.
type BatchResult struct {
	Results []*domain.Verdict `json:"results" yaml:"results"`
	Valid   int               `json:"valid" yaml:"valid"`
	Invalid int               `json:"invalid" yaml:"invalid"`
}

// ValidationService classifies inputs as hex color codes.
type ValidationService struct {
	matcher  matcher.Matcher
	cfg      ValidationConfig
	cache    *cache.Cache
	fillMu   sync.Mutex
	recorder Recorder
	logger   *slog.Logger
}

// NewValidationService creates a ValidationService around m.
// A nil cfg uses DefaultValidationConfig; nil rec and logger are allowed.
func NewValidationService(m matcher.Matcher, cfg *ValidationConfig, rec Recorder, logger *slog.Logger) *ValidationService {
	if cfg == nil {
		cfg = DefaultValidationConfig()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &ValidationService{
		matcher:  m,
		cfg:      *cfg,
		recorder: rec,
		logger:   logger,
	}
	if s.cfg.BatchWorkers < 1 {
		s.cfg.BatchWorkers = 1
	}
	if s.cfg.CacheMaxEntries < 1 {
		s.cfg.CacheMaxEntries = DefaultValidationConfig().CacheMaxEntries
	}
	if cfg.CacheEnabled {
		s.cache = cache.New(cfg.CacheTTL, cfg.CacheCleanupInterval)
	}

	return s
}

// Engine returns the name of the matching engine in use.
func (s *ValidationService) Engine() string {
	return s.matcher.Name()
}

// CacheLen returns the number of cached verdicts, including expired
// entries not yet purged.
func (s *ValidationService) CacheLen() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.ItemCount()
}

// Validate classifies a single input.
//
// An input that is not a color code yields a verdict with Valid=false;
// the only error is domain.ErrCancelled when ctx is done.
func (s *ValidationService) Validate(ctx context.Context, input string) (*domain.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.ErrCancelled.WithCause(err)
	}
	return s.validate(input), nil
}

// ValidateBatch classifies inputs concurrently, preserving order.
func (s *ValidationService) ValidateBatch(ctx context.Context, inputs []string) (*BatchResult, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrBatchEmpty
	}
	if s.cfg.BatchMaxSize > 0 && len(inputs) > s.cfg.BatchMaxSize {
		return nil, domain.ErrBatchTooLarge.WithDetails(
			fmt.Sprintf("%d inputs, maximum is %d", len(inputs), s.cfg.BatchMaxSize))
	}

	s.recorder.ObserveBatch(len(inputs))

	results := make([]*domain.Verdict, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchWorkers)

	for i, input := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.validate(input)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, domain.ErrCancelled.WithCause(err)
	}
	// errgroup only cancels gctx on a worker error; catch a parent
	// cancellation that raced with the last worker.
	if err := ctx.Err(); err != nil {
		return nil, domain.ErrCancelled.WithCause(err)
	}

	res := &BatchResult{Results: results}
	for _, v := range results {
		if v.Valid {
			res.Valid++
		} else {
			res.Invalid++
		}
	}

	s.logger.Debug("batch validated",
		"size", len(inputs),
		"valid", res.Valid,
		"invalid", res.Invalid,
		"engine", s.Engine(),
	)
	return res, nil
}

func (s *ValidationService) validate(input string) *domain.Verdict {
	cacheable := s.cache != nil && len(input) <= s.cfg.CacheMaxKeyLen

	if cacheable {
		if v, ok := s.cache.Get(input); ok {
			s.recorder.CacheHit()
			verdict := v.(*domain.Verdict).Clone()
			s.recorder.ObserveValidation(verdict.Engine, verdict.Valid, string(verdict.Reason))
			return verdict
		}
		s.recorder.CacheMiss()
	}

	verdict := domain.NewVerdict(input, s.matcher.Name(), s.matcher.Match(input))
	s.recorder.ObserveValidation(verdict.Engine, verdict.Valid, string(verdict.Reason))

	if cacheable {
		s.store(input, verdict)
	}
	return verdict
}

// store caches v unless the cache is full.
func (s *ValidationService) store(input string, v *domain.Verdict) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	if s.cache.ItemCount() >= s.cfg.CacheMaxEntries {
		return
	}
	s.cache.Set(input, v.Clone(), cache.DefaultExpiration)
}
