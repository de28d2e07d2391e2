package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger is the application logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	// WithContext binds ctx, so its request ID is logged.
	WithContext(ctx context.Context) Logger
	// Slog exposes the *slog.Logger for components that take one.
	Slog() *slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level     string    // debug, info, warn, error
	Format    string    // json, text
	Output    io.Writer // defaults to os.Stderr
	AddSource bool
}

// DefaultConfig returns json at info level on stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: FormatJSON, Output: os.Stderr}
}

// New builds a logger and sets the shared level to cfg.Level.
func New(cfg Config) (Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	level.Set(lvl)

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return clipAttr(a)
		},
	}

	var h slog.Handler
	if format == FormatText {
		h = slog.NewTextHandler(out, opts)
	} else {
		h = slog.NewJSONHandler(out, opts)
	}
	return bind(slog.New(contextHandler{h}), context.Background()), nil
}

type boundLogger struct {
	l   *slog.Logger
	ctx context.Context
}

func bind(l *slog.Logger, ctx context.Context) *boundLogger {
	return &boundLogger{l: l, ctx: ctx}
}

func (b *boundLogger) Debug(msg string, args ...any) { b.l.DebugContext(b.ctx, msg, args...) }
func (b *boundLogger) Info(msg string, args ...any)  { b.l.InfoContext(b.ctx, msg, args...) }
func (b *boundLogger) Warn(msg string, args ...any)  { b.l.WarnContext(b.ctx, msg, args...) }
func (b *boundLogger) Error(msg string, args ...any) { b.l.ErrorContext(b.ctx, msg, args...) }

func (b *boundLogger) With(args ...any) Logger {
	return bind(b.l.With(args...), b.ctx)
}

func (b *boundLogger) WithContext(ctx context.Context) Logger {
	return bind(b.l, ctx)
}

func (b *boundLogger) Slog() *slog.Logger { return b.l }

var defaultLogger atomic.Pointer[boundLogger]

func init() {
	l, _ := New(DefaultConfig())
	defaultLogger.Store(l.(*boundLogger))
}

// SetDefault installs l as the package default and as slog.Default.
func SetDefault(l Logger) {
	b, ok := l.(*boundLogger)
	if !ok {
		b = bind(l.Slog(), context.Background())
	}
	defaultLogger.Store(b)
	slog.SetDefault(b.l)
}

// Default returns the package default logger.
func Default() Logger {
	return defaultLogger.Load()
}
