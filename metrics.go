package schemavalidator

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks validation performance using lock-free atomic operations.
// All methods are safe for concurrent use, so one Metrics value can be shared
// by every schema bound from a factory.
type Metrics struct {
	// Validation counts
	validationsTotal   atomic.Uint64
	validationsValid   atomic.Uint64
	validationsAborted atomic.Uint64

	// Timing (stored as nanoseconds)
	validationTimeTotal atomic.Uint64
	validationTimeMin   atomic.Uint64
	validationTimeMax   atomic.Uint64

	// Digest cache
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64

	// Message counts by level
	fatalsTotal   atomic.Uint64
	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64
	infosTotal    atomic.Uint64

	keywordTiming sync.Map // map[string]*keywordMetrics
}

// keywordMetrics tracks metrics for a single keyword validator.
type keywordMetrics struct {
	invocations atomic.Uint64
	totalTime   atomic.Uint64 // nanoseconds
	failures    atomic.Uint64
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	// Initialize min to max uint64 so first value becomes the minimum
	m.validationTimeMin.Store(^uint64(0))
	return m
}

// --- Recording Methods ---

// RecordValidation records a completed validation.
func (m *Metrics) RecordValidation(duration time.Duration, valid bool) {
	m.validationsTotal.Add(1)
	if valid {
		m.validationsValid.Add(1)
	}

	ns := uint64(duration.Nanoseconds()) //nolint:gosec // Safe: nanoseconds are always positive for valid durations
	m.validationTimeTotal.Add(ns)

	for {
		old := m.validationTimeMin.Load()
		if ns >= old {
			break
		}
		if m.validationTimeMin.CompareAndSwap(old, ns) {
			break
		}
	}

	for {
		old := m.validationTimeMax.Load()
		if ns <= old {
			break
		}
		if m.validationTimeMax.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordAbort records a validation that ended with a processing error.
func (m *Metrics) RecordAbort() {
	m.validationsAborted.Add(1)
}

// RecordCacheHit records a digest cache hit.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a digest cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordMessage records a message based on its level.
func (m *Metrics) RecordMessage(level LogLevel) {
	switch level {
	case LevelFatal:
		m.fatalsTotal.Add(1)
	case LevelError:
		m.errorsTotal.Add(1)
	case LevelWarning:
		m.warningsTotal.Add(1)
	case LevelInfo:
		m.infosTotal.Add(1)
	}
}

// RecordReport records every message of a finished report.
func (m *Metrics) RecordReport(r *Report) {
	if r == nil {
		return
	}
	for _, msg := range r.messages {
		m.RecordMessage(msg.level)
	}
}

// RecordKeyword records one keyword validator invocation.
func (m *Metrics) RecordKeyword(keyword string, duration time.Duration, failed bool) {
	km := m.getOrCreateKeywordMetrics(keyword)
	km.invocations.Add(1)
	km.totalTime.Add(uint64(duration.Nanoseconds())) //nolint:gosec // Safe: nanoseconds are always positive
	if failed {
		km.failures.Add(1)
	}
}

func (m *Metrics) getOrCreateKeywordMetrics(name string) *keywordMetrics {
	if v, ok := m.keywordTiming.Load(name); ok {
		return v.(*keywordMetrics)
	}
	km := &keywordMetrics{}
	actual, _ := m.keywordTiming.LoadOrStore(name, km)
	return actual.(*keywordMetrics)
}

// --- Query Methods ---

// ValidationsTotal returns the total number of validations performed.
func (m *Metrics) ValidationsTotal() uint64 {
	return m.validationsTotal.Load()
}

// ValidationsValid returns the number of successful validations.
func (m *Metrics) ValidationsValid() uint64 {
	return m.validationsValid.Load()
}

// ValidationsAborted returns the number of validations ended by a processing error.
func (m *Metrics) ValidationsAborted() uint64 {
	return m.validationsAborted.Load()
}

// ValidationRate returns the fraction of successful validations (0.0 to 1.0).
func (m *Metrics) ValidationRate() float64 {
	total := m.validationsTotal.Load()
	if total == 0 {
		return 0
	}
	return float64(m.validationsValid.Load()) / float64(total)
}

// AverageValidationTime returns the average validation duration.
func (m *Metrics) AverageValidationTime() time.Duration {
	total := m.validationsTotal.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.validationTimeTotal.Load() / total) //nolint:gosec // Safe: nanoseconds within int64 range
}

// MinValidationTime returns the minimum validation duration.
func (m *Metrics) MinValidationTime() time.Duration {
	minVal := m.validationTimeMin.Load()
	if minVal == ^uint64(0) {
		return 0
	}
	return time.Duration(minVal) //nolint:gosec // Safe: nanoseconds within int64 range
}

// MaxValidationTime returns the maximum validation duration.
func (m *Metrics) MaxValidationTime() time.Duration {
	return time.Duration(m.validationTimeMax.Load()) //nolint:gosec // Safe: nanoseconds within int64 range
}

// CacheHits returns the total digest cache hits.
func (m *Metrics) CacheHits() uint64 {
	return m.cacheHits.Load()
}

// CacheMisses returns the total digest cache misses.
func (m *Metrics) CacheMisses() uint64 {
	return m.cacheMisses.Load()
}

// CacheHitRate returns the digest cache hit rate (0.0 to 1.0).
func (m *Metrics) CacheHitRate() float64 {
	hits := m.cacheHits.Load()
	total := hits + m.cacheMisses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// FatalsTotal returns the total fatal messages recorded.
func (m *Metrics) FatalsTotal() uint64 {
	return m.fatalsTotal.Load()
}

// ErrorsTotal returns the total error messages recorded.
func (m *Metrics) ErrorsTotal() uint64 {
	return m.errorsTotal.Load()
}

// WarningsTotal returns the total warning messages recorded.
func (m *Metrics) WarningsTotal() uint64 {
	return m.warningsTotal.Load()
}

// InfosTotal returns the total informational messages recorded.
func (m *Metrics) InfosTotal() uint64 {
	return m.infosTotal.Load()
}

// KeywordStats holds statistics for one keyword validator.
type KeywordStats struct {
	Keyword     string        `json:"keyword"`
	Invocations uint64        `json:"invocations"`
	TotalTime   time.Duration `json:"total_time"`
	AvgTime     time.Duration `json:"avg_time"`
	Failures    uint64        `json:"failures"`
}

// KeywordStats returns statistics for a specific keyword.
func (m *Metrics) KeywordStats(keyword string) (KeywordStats, bool) {
	v, ok := m.keywordTiming.Load(keyword)
	if !ok {
		return KeywordStats{Keyword: keyword}, false
	}
	return v.(*keywordMetrics).stats(keyword), true
}

// AllKeywordStats returns statistics for all keywords, sorted by keyword.
func (m *Metrics) AllKeywordStats() []KeywordStats {
	var stats []KeywordStats
	m.keywordTiming.Range(func(key, value any) bool {
		stats = append(stats, value.(*keywordMetrics).stats(key.(string)))
		return true
	})
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Keyword < stats[j].Keyword
	})
	return stats
}

func (km *keywordMetrics) stats(keyword string) KeywordStats {
	invocations := km.invocations.Load()
	totalTime := km.totalTime.Load()

	var avgTime time.Duration
	if invocations > 0 {
		avgTime = time.Duration(totalTime / invocations) //nolint:gosec // Safe: nanoseconds within int64 range
	}

	return KeywordStats{
		Keyword:     keyword,
		Invocations: invocations,
		TotalTime:   time.Duration(totalTime), //nolint:gosec // Safe: nanoseconds within int64 range
		AvgTime:     avgTime,
		Failures:    km.failures.Load(),
	}
}

// --- Export Methods ---

// Snapshot represents a point-in-time snapshot of all metrics.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`

	ValidationsTotal   uint64  `json:"validations_total"`
	ValidationsValid   uint64  `json:"validations_valid"`
	ValidationsAborted uint64  `json:"validations_aborted"`
	ValidationRate     float64 `json:"validation_rate"`

	AvgValidationTimeNs uint64 `json:"avg_validation_time_ns"`
	MinValidationTimeNs uint64 `json:"min_validation_time_ns"`
	MaxValidationTimeNs uint64 `json:"max_validation_time_ns"`

	CacheHits    uint64  `json:"cache_hits"`
	CacheMisses  uint64  `json:"cache_misses"`
	CacheHitRate float64 `json:"cache_hit_rate"`

	FatalsTotal   uint64 `json:"fatals_total"`
	ErrorsTotal   uint64 `json:"errors_total"`
	WarningsTotal uint64 `json:"warnings_total"`
	InfosTotal    uint64 `json:"infos_total"`

	Keywords []KeywordStats `json:"keywords,omitempty"`
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	total := m.validationsTotal.Load()

	var avgTime uint64
	if total > 0 {
		avgTime = m.validationTimeTotal.Load() / total
	}

	minTime := m.validationTimeMin.Load()
	if minTime == ^uint64(0) {
		minTime = 0
	}

	return Snapshot{
		Timestamp:           time.Now(),
		ValidationsTotal:    total,
		ValidationsValid:    m.validationsValid.Load(),
		ValidationsAborted:  m.validationsAborted.Load(),
		ValidationRate:      m.ValidationRate(),
		AvgValidationTimeNs: avgTime,
		MinValidationTimeNs: minTime,
		MaxValidationTimeNs: m.validationTimeMax.Load(),
		CacheHits:           m.cacheHits.Load(),
		CacheMisses:         m.cacheMisses.Load(),
		CacheHitRate:        m.CacheHitRate(),
		FatalsTotal:         m.fatalsTotal.Load(),
		ErrorsTotal:         m.errorsTotal.Load(),
		WarningsTotal:       m.warningsTotal.Load(),
		InfosTotal:          m.infosTotal.Load(),
		Keywords:            m.AllKeywordStats(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.validationsTotal.Store(0)
	m.validationsValid.Store(0)
	m.validationsAborted.Store(0)
	m.validationTimeTotal.Store(0)
	m.validationTimeMin.Store(^uint64(0))
	m.validationTimeMax.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.fatalsTotal.Store(0)
	m.errorsTotal.Store(0)
	m.warningsTotal.Store(0)
	m.infosTotal.Store(0)

	m.keywordTiming.Range(func(key, _ any) bool {
		m.keywordTiming.Delete(key)
		return true
	})
}
