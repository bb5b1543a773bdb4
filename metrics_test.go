package schemavalidator

import (
	"sync"
	"testing"
	"time"
)

func TestMetrics_Basic(t *testing.T) {
	m := NewMetrics()

	if m.ValidationsTotal() != 0 {
		t.Errorf("ValidationsTotal() = %d; want 0", m.ValidationsTotal())
	}

	m.RecordValidation(100*time.Millisecond, true)
	m.RecordAbort()

	if m.ValidationsTotal() != 1 {
		t.Errorf("ValidationsTotal() = %d; want 1", m.ValidationsTotal())
	}
	if m.ValidationsValid() != 1 {
		t.Errorf("ValidationsValid() = %d; want 1", m.ValidationsValid())
	}
	if m.ValidationsAborted() != 1 {
		t.Errorf("ValidationsAborted() = %d; want 1", m.ValidationsAborted())
	}
}

func TestMetrics_ValidationRate(t *testing.T) {
	m := NewMetrics()

	if rate := m.ValidationRate(); rate != 0 {
		t.Errorf("ValidationRate() = %f; want 0", rate)
	}

	m.RecordValidation(100*time.Millisecond, true)
	m.RecordValidation(100*time.Millisecond, true)
	m.RecordValidation(100*time.Millisecond, false)

	rate := m.ValidationRate()
	expected := 2.0 / 3.0
	if rate < expected-0.01 || rate > expected+0.01 {
		t.Errorf("ValidationRate() = %f; want ~%f", rate, expected)
	}
}

func TestMetrics_ValidationTime(t *testing.T) {
	m := NewMetrics()

	if avg := m.AverageValidationTime(); avg != 0 {
		t.Errorf("AverageValidationTime() = %v; want 0", avg)
	}
	if min := m.MinValidationTime(); min != 0 {
		t.Errorf("MinValidationTime() = %v; want 0", min)
	}

	m.RecordValidation(100*time.Millisecond, true)
	m.RecordValidation(200*time.Millisecond, true)
	m.RecordValidation(300*time.Millisecond, true)

	if avg := m.AverageValidationTime(); avg != 200*time.Millisecond {
		t.Errorf("AverageValidationTime() = %v; want 200ms", avg)
	}
	if min := m.MinValidationTime(); min != 100*time.Millisecond {
		t.Errorf("MinValidationTime() = %v; want 100ms", min)
	}
	if max := m.MaxValidationTime(); max != 300*time.Millisecond {
		t.Errorf("MaxValidationTime() = %v; want 300ms", max)
	}
}

func TestMetrics_Cache(t *testing.T) {
	m := NewMetrics()

	if rate := m.CacheHitRate(); rate != 0 {
		t.Errorf("CacheHitRate() = %f; want 0", rate)
	}

	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheMiss()

	if m.CacheHits() != 3 || m.CacheMisses() != 1 {
		t.Errorf("hits/misses = %d/%d; want 3/1", m.CacheHits(), m.CacheMisses())
	}
	if rate := m.CacheHitRate(); rate != 0.75 {
		t.Errorf("CacheHitRate() = %f; want 0.75", rate)
	}
}

func TestMetrics_RecordReport(t *testing.T) {
	m := NewMetrics()

	r := NewReport(WithReportLogLevel(LevelDebug), WithReportThreshold(LevelNone))
	_ = r.Debug(NewMessage())
	_ = r.Info(NewMessage())
	_ = r.Warn(NewMessage())
	_ = r.Error(NewMessage())
	_ = r.Error(NewMessage())
	_ = r.Fatal(NewMessage())

	m.RecordReport(r)
	m.RecordReport(nil)

	if m.InfosTotal() != 1 || m.WarningsTotal() != 1 || m.ErrorsTotal() != 2 || m.FatalsTotal() != 1 {
		t.Errorf("info/warn/error/fatal = %d/%d/%d/%d; want 1/1/2/1",
			m.InfosTotal(), m.WarningsTotal(), m.ErrorsTotal(), m.FatalsTotal())
	}
}

func TestMetrics_Keywords(t *testing.T) {
	m := NewMetrics()

	m.RecordKeyword("type", 10*time.Microsecond, false)
	m.RecordKeyword("type", 30*time.Microsecond, true)
	m.RecordKeyword("enum", 5*time.Microsecond, false)

	stats, ok := m.KeywordStats("type")
	if !ok {
		t.Fatal("KeywordStats(type) not found")
	}
	if stats.Invocations != 2 || stats.Failures != 1 {
		t.Errorf("invocations/failures = %d/%d; want 2/1", stats.Invocations, stats.Failures)
	}
	if stats.AvgTime != 20*time.Microsecond {
		t.Errorf("AvgTime = %v; want 20µs", stats.AvgTime)
	}

	if _, ok := m.KeywordStats("pattern"); ok {
		t.Error("KeywordStats(pattern) should not exist")
	}

	all := m.AllKeywordStats()
	if len(all) != 2 || all[0].Keyword != "enum" || all[1].Keyword != "type" {
		t.Errorf("AllKeywordStats() = %+v; want enum, type", all)
	}
}

func TestMetrics_SnapshotAndReset(t *testing.T) {
	m := NewMetrics()
	m.RecordValidation(time.Millisecond, false)
	m.RecordCacheMiss()
	m.RecordMessage(LevelError)
	m.RecordKeyword("type", time.Microsecond, true)

	s := m.Snapshot()
	if s.ValidationsTotal != 1 || s.ValidationsValid != 0 || s.CacheMisses != 1 || s.ErrorsTotal != 1 {
		t.Errorf("Snapshot() = %+v", s)
	}
	if len(s.Keywords) != 1 {
		t.Errorf("len(Keywords) = %d; want 1", len(s.Keywords))
	}

	m.Reset()
	s = m.Snapshot()
	if s.ValidationsTotal != 0 || s.CacheMisses != 0 || s.ErrorsTotal != 0 || len(s.Keywords) != 0 {
		t.Errorf("after Reset() = %+v", s)
	}
	if s.MinValidationTimeNs != 0 {
		t.Errorf("MinValidationTimeNs = %d; want 0", s.MinValidationTimeNs)
	}
}

func TestMetrics_Concurrent(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.RecordValidation(time.Duration(i)*time.Microsecond, i%2 == 0)
			m.RecordCacheHit()
			m.RecordKeyword("type", time.Microsecond, false)
		}(i)
	}
	wg.Wait()

	if m.ValidationsTotal() != 100 {
		t.Errorf("ValidationsTotal() = %d; want 100", m.ValidationsTotal())
	}
	if m.ValidationsValid() != 50 {
		t.Errorf("ValidationsValid() = %d; want 50", m.ValidationsValid())
	}
	if stats, _ := m.KeywordStats("type"); stats.Invocations != 100 {
		t.Errorf("type invocations = %d; want 100", stats.Invocations)
	}
}
