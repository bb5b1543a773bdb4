// Package metrics exports validation metrics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	sv "github.com/gofhir/schemavalidator"
)

var (
	namespace = "schemavalidator"

	validationsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "validations_total"),
		"Total number of validations by outcome",
		[]string{"outcome"}, nil,
	)
	validationSecondsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "validation_duration_seconds_total"),
		"Total time spent validating in seconds",
		nil, nil,
	)
	cacheDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "digest_cache", "lookups_total"),
		"Digest cache lookups by result",
		[]string{"result"}, nil,
	)
	messagesDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "messages_total"),
		"Report messages by level",
		[]string{"level"}, nil,
	)
	keywordInvocationsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "keyword", "invocations_total"),
		"Keyword validator invocations",
		[]string{"keyword"}, nil,
	)
	keywordFailuresDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "keyword", "failures_total"),
		"Keyword validator invocations that failed the instance",
		[]string{"keyword"}, nil,
	)
	keywordSecondsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "keyword", "duration_seconds_total"),
		"Total time spent in keyword validators in seconds",
		[]string{"keyword"}, nil,
	)
)

// Collector exposes a *schemavalidator.Metrics as Prometheus counters.
// Values are read from the metrics on every scrape.
type Collector struct {
	metrics *sv.Metrics
}

// NewCollector creates a collector over m.
func NewCollector(m *sv.Metrics) *Collector {
	return &Collector{metrics: m}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- validationsDesc
	ch <- validationSecondsDesc
	ch <- cacheDesc
	ch <- messagesDesc
	ch <- keywordInvocationsDesc
	ch <- keywordFailuresDesc
	ch <- keywordSecondsDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.metrics.Snapshot()

	invalid := s.ValidationsTotal - s.ValidationsValid
	counter(ch, validationsDesc, s.ValidationsValid, "valid")
	counter(ch, validationsDesc, invalid, "invalid")
	counter(ch, validationsDesc, s.ValidationsAborted, "aborted")

	totalSeconds := float64(s.AvgValidationTimeNs) * float64(s.ValidationsTotal) / 1e9
	ch <- prometheus.MustNewConstMetric(validationSecondsDesc, prometheus.CounterValue, totalSeconds)

	counter(ch, cacheDesc, s.CacheHits, "hit")
	counter(ch, cacheDesc, s.CacheMisses, "miss")

	counter(ch, messagesDesc, s.FatalsTotal, sv.LevelFatal.String())
	counter(ch, messagesDesc, s.ErrorsTotal, sv.LevelError.String())
	counter(ch, messagesDesc, s.WarningsTotal, sv.LevelWarning.String())
	counter(ch, messagesDesc, s.InfosTotal, sv.LevelInfo.String())

	for _, k := range s.Keywords {
		counter(ch, keywordInvocationsDesc, k.Invocations, k.Keyword)
		counter(ch, keywordFailuresDesc, k.Failures, k.Keyword)
		ch <- prometheus.MustNewConstMetric(keywordSecondsDesc, prometheus.CounterValue, k.TotalTime.Seconds(), k.Keyword)
	}
}

func counter(ch chan<- prometheus.Metric, desc *prometheus.Desc, v uint64, label string) {
	ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v), label)
}

// Register registers a collector over m with reg.
func Register(reg prometheus.Registerer, m *sv.Metrics) (*Collector, error) {
	c := NewCollector(m)
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
