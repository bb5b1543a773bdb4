package schemavalidator

import (
	"runtime"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Draft != DraftV4 {
		t.Errorf("Draft = %q; want draftv4", opts.Draft)
	}
	if opts.DetectDraft {
		t.Error("DetectDraft should be false by default")
	}
	if opts.LogLevel != LevelInfo {
		t.Errorf("LogLevel = %v; want info", opts.LogLevel)
	}
	if opts.ExceptionThreshold != LevelFatal {
		t.Errorf("ExceptionThreshold = %v; want fatal", opts.ExceptionThreshold)
	}
	if opts.DeepCheck {
		t.Error("DeepCheck should be false by default")
	}
	if opts.DigestCacheSize != 1024 {
		t.Errorf("DigestCacheSize = %d; want 1024", opts.DigestCacheSize)
	}
	if opts.WorkerCount != runtime.NumCPU() {
		t.Errorf("WorkerCount = %d; want %d", opts.WorkerCount, runtime.NumCPU())
	}
	if opts.Metrics != nil {
		t.Error("Metrics should be nil by default")
	}
}

func TestApply(t *testing.T) {
	m := NewMetrics()
	opts := Apply(
		WithDraft(DraftV3),
		WithDraftDetection(true),
		WithLogLevel(LevelDebug),
		WithExceptionThreshold(LevelError),
		WithDeepCheck(true),
		WithDigestCacheSize(16),
		WithWorkerCount(3),
		WithMetrics(m),
	)

	if opts.Draft != DraftV3 {
		t.Errorf("Draft = %q; want draftv3", opts.Draft)
	}
	if !opts.DetectDraft {
		t.Error("DetectDraft should be true")
	}
	if opts.LogLevel != LevelDebug {
		t.Errorf("LogLevel = %v; want debug", opts.LogLevel)
	}
	if opts.ExceptionThreshold != LevelError {
		t.Errorf("ExceptionThreshold = %v; want error", opts.ExceptionThreshold)
	}
	if !opts.DeepCheck {
		t.Error("DeepCheck should be true")
	}
	if opts.DigestCacheSize != 16 {
		t.Errorf("DigestCacheSize = %d; want 16", opts.DigestCacheSize)
	}
	if opts.WorkerCount != 3 {
		t.Errorf("WorkerCount = %d; want 3", opts.WorkerCount)
	}
	if opts.Metrics != m {
		t.Error("Metrics not set")
	}
}

func TestApply_IgnoresNonPositiveSizes(t *testing.T) {
	opts := Apply(WithDigestCacheSize(0), WithWorkerCount(-1))

	if opts.DigestCacheSize != 1024 {
		t.Errorf("DigestCacheSize = %d; want default", opts.DigestCacheSize)
	}
	if opts.WorkerCount != runtime.NumCPU() {
		t.Errorf("WorkerCount = %d; want default", opts.WorkerCount)
	}
}

func TestOptions_NewReport(t *testing.T) {
	r := Apply(WithLogLevel(LevelWarning), WithExceptionThreshold(LevelError)).NewReport()

	if r.LogLevel() != LevelWarning {
		t.Errorf("LogLevel() = %v; want warning", r.LogLevel())
	}
	if r.Threshold() != LevelError {
		t.Errorf("Threshold() = %v; want error", r.Threshold())
	}
}

func TestPresets(t *testing.T) {
	strict := Apply(StrictOptions()...)
	if strict.ExceptionThreshold != LevelError || !strict.DeepCheck {
		t.Errorf("StrictOptions: threshold %v deep %v", strict.ExceptionThreshold, strict.DeepCheck)
	}

	debug := Apply(DebugOptions()...)
	if debug.LogLevel != LevelDebug || debug.ExceptionThreshold != LevelNone || !debug.DeepCheck {
		t.Errorf("DebugOptions: level %v threshold %v deep %v", debug.LogLevel, debug.ExceptionThreshold, debug.DeepCheck)
	}
}
