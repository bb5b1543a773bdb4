package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sv "github.com/gofhir/schemavalidator"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(mfs))
	for _, mf := range mfs {
		out[mf.GetName()] = mf
	}
	return out
}

func value(t *testing.T, mf *dto.MetricFamily, label string) float64 {
	t.Helper()
	require.NotNil(t, mf)
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetValue() == label {
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("no sample labelled %q in %s", label, mf.GetName())
	return 0
}

func TestCollector_Collect(t *testing.T) {
	m := sv.NewMetrics()
	m.RecordValidation(2*time.Millisecond, true)
	m.RecordValidation(4*time.Millisecond, false)
	m.RecordAbort()
	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheMiss()
	m.RecordMessage(sv.LevelError)
	m.RecordKeyword("type", time.Millisecond, true)
	m.RecordKeyword("type", time.Millisecond, false)

	reg := prometheus.NewPedanticRegistry()
	_, err := Register(reg, m)
	require.NoError(t, err)

	families := gather(t, reg)

	validations := families["schemavalidator_validations_total"]
	assert.Equal(t, 1.0, value(t, validations, "valid"))
	assert.Equal(t, 1.0, value(t, validations, "invalid"))
	assert.Equal(t, 1.0, value(t, validations, "aborted"))

	cache := families["schemavalidator_digest_cache_lookups_total"]
	assert.Equal(t, 2.0, value(t, cache, "hit"))
	assert.Equal(t, 1.0, value(t, cache, "miss"))

	assert.Equal(t, 1.0, value(t, families["schemavalidator_messages_total"], "error"))
	assert.Equal(t, 2.0, value(t, families["schemavalidator_keyword_invocations_total"], "type"))
	assert.Equal(t, 1.0, value(t, families["schemavalidator_keyword_failures_total"], "type"))
}

func TestRegister_Duplicate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := sv.NewMetrics()

	_, err := Register(reg, m)
	require.NoError(t, err)
	_, err = Register(reg, m)
	assert.Error(t, err)
}
