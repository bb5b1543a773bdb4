// Package logger provides a simple leveled logging interface for the
// validator, backed by zap.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the logging level.
type Level int

// Log levels.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return ""
	}
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO", "":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "NONE", "OFF":
		return LevelNone, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) zap() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		// above every level zap emits
		return zapcore.FatalLevel + 1
	}
}

// Format selects the log line encoding.
type Format int

const (
	// FormatConsole writes human-readable lines.
	FormatConsole Format = iota
	// FormatJSON writes one JSON object per line.
	FormatJSON
)

// EnvLevel is the environment variable read for the default logger level.
const EnvLevel = "SCHEMAVALIDATOR_LOG_LEVEL"

const rootName = "schemavalidator"

// core is shared by a logger and every component logger derived from it.
type core struct {
	mu     sync.RWMutex
	level  zap.AtomicLevel
	format Format
	output zapcore.WriteSyncer
	base   *zap.Logger
}

func (c *core) rebuild() {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "component",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	var enc zapcore.Encoder
	if c.format == FormatJSON {
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg.EncodeTime = timeEncoder
		cfg.ConsoleSeparator = " "
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	c.base = zap.New(zapcore.NewCore(enc, c.output, c.level))
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

// Logger provides logging functionality.
type Logger struct {
	core *core
	name string
}

// Option configures a Logger.
type Option func(*core)

// WithFormat selects the line encoding.
func WithFormat(f Format) Option {
	return func(c *core) {
		c.format = f
	}
}

// New creates a new logger.
func New(output io.Writer, level Level, opts ...Option) *Logger {
	c := &core{
		level:  zap.NewAtomicLevelAt(level.zap()),
		output: zapcore.Lock(zapcore.AddSync(output)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rebuild()
	return &Logger{core: c, name: rootName}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = newDefault()
)

func newDefault() *Logger {
	level, err := ParseLevel(os.Getenv(EnvLevel))
	if err != nil {
		level = LevelInfo
	}
	return New(os.Stderr, level)
}

// Default returns the default logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// For returns a logger of the default logger's output named after component.
func For(component string) *Logger {
	return Default().Named(component)
}

// Named returns a logger sharing l's output and level, named after component.
func (l *Logger) Named(component string) *Logger {
	return &Logger{core: l.core, name: l.name + "." + component}
}

// SetLevel sets the logging level. It applies to every logger derived from l.
func (l *Logger) SetLevel(level Level) {
	l.core.level.SetLevel(level.zap())
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return level != LevelNone && l.core.level.Enabled(level.zap())
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.output = zapcore.Lock(zapcore.AddSync(w))
	l.core.rebuild()
}

// Sync flushes buffered output.
func (l *Logger) Sync() error {
	l.core.mu.RLock()
	defer l.core.mu.RUnlock()
	return l.core.base.Sync()
}

func (l *Logger) log(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.core.mu.RLock()
	zl := l.core.base.Named(l.name)
	l.core.mu.RUnlock()

	msg := fmt.Sprintf(format, args...)
	switch level {
	case LevelDebug:
		zl.Debug(msg)
	case LevelInfo:
		zl.Info(msg)
	case LevelWarn:
		zl.Warn(msg)
	case LevelError:
		zl.Error(msg)
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Package-level convenience functions.

// Debug logs a debug message using the default logger.
func Debug(format string, args ...any) {
	Default().Debug(format, args...)
}

// Info logs an info message using the default logger.
func Info(format string, args ...any) {
	Default().Info(format, args...)
}

// Warn logs a warning message using the default logger.
func Warn(format string, args ...any) {
	Default().Warn(format, args...)
}

// Error logs an error message using the default logger.
func Error(format string, args ...any) {
	Default().Error(format, args...)
}

// SetLevel sets the level of the default logger.
func SetLevel(level Level) {
	Default().SetLevel(level)
}

// SetOutput sets the output of the default logger.
func SetOutput(w io.Writer) {
	Default().SetOutput(w)
}

// Disable disables all logging.
func Disable() {
	Default().SetLevel(LevelNone)
}
