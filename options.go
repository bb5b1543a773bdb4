package schemavalidator

import (
	"runtime"
)

// Option configures a schema factory.
type Option func(*Options)

// Options holds all configuration for binding and validating schemas.
type Options struct {
	// Draft selects the keyword library
	Draft Draft

	// DetectDraft overrides Draft with the schema's "$schema" when recognised
	DetectDraft bool

	// Report configuration
	LogLevel           LogLevel
	ExceptionThreshold LogLevel

	// DeepCheck is the default for validation calls that don't pass one
	DeepCheck bool

	// Performance
	DigestCacheSize int
	WorkerCount     int

	// Metrics receives validation and keyword timings; nil disables collection
	Metrics *Metrics
}

// DefaultOptions returns the default configuration.
//
// The default draft is v4. Draft v3 union semantics for "type" (schema
// candidates, "any", an empty union accepting every instance) apply only
// with WithDraft(DraftV3) or draft detection.
func DefaultOptions() *Options {
	return &Options{
		Draft:              DraftV4,
		DetectDraft:        false,
		LogLevel:           LevelInfo,
		ExceptionThreshold: LevelFatal,
		DeepCheck:          false,
		DigestCacheSize:    1024,
		WorkerCount:        runtime.NumCPU(),
	}
}

// Apply applies opts on top of the defaults.
func Apply(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewReport creates an empty report configured from the options.
func (o *Options) NewReport() *Report {
	return NewReport(WithReportLogLevel(o.LogLevel), WithReportThreshold(o.ExceptionThreshold))
}

// --- Schema Options ---

// WithDraft selects the draft whose keywords are applied.
func WithDraft(draft Draft) Option {
	return func(o *Options) {
		o.Draft = draft
	}
}

// WithDraftDetection selects the draft from the schema's "$schema" when it
// names a supported draft, falling back to the configured draft otherwise.
func WithDraftDetection(enable bool) Option {
	return func(o *Options) {
		o.DetectDraft = enable
	}
}

// --- Report Options ---

// WithLogLevel sets the minimum level recorded in reports.
func WithLogLevel(level LogLevel) Option {
	return func(o *Options) {
		o.LogLevel = level
	}
}

// WithExceptionThreshold sets the level at which report logging aborts validation.
// Use LevelNone to never abort.
func WithExceptionThreshold(level LogLevel) Option {
	return func(o *Options) {
		o.ExceptionThreshold = level
	}
}

// WithDeepCheck makes validation descend into children of containers that already failed.
func WithDeepCheck(enable bool) Option {
	return func(o *Options) {
		o.DeepCheck = enable
	}
}

// --- Performance Options ---

// WithDigestCacheSize sets how many keyword digests are kept.
func WithDigestCacheSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.DigestCacheSize = size
		}
	}
}

// WithWorkerCount sets the number of workers for batch validation.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithMetrics collects validation metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// --- Presets ---

// StrictOptions aborts on the first error and checks children of invalid containers.
func StrictOptions() []Option {
	return []Option{
		WithExceptionThreshold(LevelError),
		WithDeepCheck(true),
	}
}

// DebugOptions records every message and never aborts.
func DebugOptions() []Option {
	return []Option{
		WithLogLevel(LevelDebug),
		WithExceptionThreshold(LevelNone),
		WithDeepCheck(true),
	}
}
