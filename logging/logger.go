// Package logging provides a tiny abstraction over slog so the engine can
// depend on a minimal interface (Logger) while callers plug in any
// structured logger. It also offers a richer TurnLogger with contextual
// helpers (component, session) and domain specific helpers for tool and
// model calls.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled
// from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a LogLevel, defaulting to info.
func ParseLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LogLevelDebug
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger defines the minimal logging interface used across the engine.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// Config configures construction of a TurnLogger.
type Config struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
	SessionID string
}

// DefaultConfig returns a baseline JSON info level configuration.
func DefaultConfig() *Config {
	return &Config{Level: LogLevelInfo, Format: "json", Output: os.Stdout}
}

// TurnLogger wraps slog.Logger adding contextual cloning helpers and
// convenience methods for tool and model call logging. It is cheap to copy
// via With* methods.
type TurnLogger struct {
	logger    *slog.Logger
	level     LogLevel
	component string
	sessionID string
}

// NewLogger builds a TurnLogger from a config (or defaults if nil).
func NewLogger(cfg *Config) *TurnLogger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}
	return &TurnLogger{logger: slog.New(handler), level: cfg.Level, component: cfg.Component, sessionID: cfg.SessionID}
}

// NewSlogLogger creates a TurnLogger with the given level and format.
func NewSlogLogger(level LogLevel, format string, addSource bool) *TurnLogger {
	cfg := DefaultConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent sets the logical component (graph, session, tool, etc.).
func (l *TurnLogger) WithComponent(c string) *TurnLogger {
	nl := *l
	nl.component = c
	return &nl
}

// WithSession attaches a session identifier to every entry.
func (l *TurnLogger) WithSession(sid string) *TurnLogger {
	nl := *l
	nl.sessionID = sid
	return &nl
}

func (l *TurnLogger) attrs(extra ...slog.Attr) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(extra)+2)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.sessionID != "" {
		attrs = append(attrs, slog.String("session_id", l.sessionID))
	}
	return append(attrs, extra...)
}

func (l *TurnLogger) log(level slog.Level, min LogLevel, msg string, args ...any) {
	if l.level > min {
		return
	}
	rec := l.logger
	for _, a := range l.attrs() {
		rec = rec.With(a)
	}
	rec.Log(context.Background(), level, msg, args...)
}

// Debug logs at debug level.
func (l *TurnLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, LogLevelDebug, msg, args...) }

// Info logs at info level.
func (l *TurnLogger) Info(msg string, args ...any) { l.log(slog.LevelInfo, LogLevelInfo, msg, args...) }

// Warn logs at warn level.
func (l *TurnLogger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, LogLevelWarn, msg, args...) }

// Error logs at error level.
func (l *TurnLogger) Error(msg string, args ...any) { l.log(slog.LevelError, LogLevelError, msg, args...) }

// LogToolCall records execution details for a tool adapter invocation.
func (l *TurnLogger) LogToolCall(capability string, dur time.Duration, success bool, cause string) {
	attrs := l.attrs(
		slog.String("capability", capability),
		slog.Duration("duration", dur),
		slog.Bool("success", success),
	)
	level, msg := slog.LevelInfo, "Tool invocation completed"
	if !success {
		level, msg = slog.LevelWarn, "Tool invocation failed"
		attrs = append(attrs, slog.String("cause", cause))
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogModelCall records latency and success of a classifier/composer call.
func (l *TurnLogger) LogModelCall(operation string, dur time.Duration, err error) {
	attrs := l.attrs(slog.String("operation", operation), slog.Duration("duration", dur))
	level, msg := slog.LevelInfo, "Model call completed"
	if err != nil {
		level, msg = slog.LevelError, "Model call failed"
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogTurn records aggregate turn metrics after the graph reaches Done.
func (l *TurnLogger) LogTurn(outcome string, steps int, dur time.Duration) {
	l.logger.LogAttrs(context.Background(), slog.LevelInfo, "Turn completed", l.attrs(
		slog.String("outcome", outcome),
		slog.Int("step_count", steps),
		slog.Duration("duration", dur),
	)...)
}

// NoOpLogger discards all log messages. Useful for testing or when logging
// is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
