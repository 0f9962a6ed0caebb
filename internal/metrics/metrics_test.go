package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementCounter(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("requests_total", nil, "total requests")
	r.IncrementCounter("requests_total", nil, "total requests")
	r.AddToCounter("requests_total", 3, nil, "total requests")

	snapshot := r.GetAllMetrics()
	counters := snapshot["counters"].(map[string]*Metric)
	require.Contains(t, counters, "requests_total")
	assert.Equal(t, float64(5), counters["requests_total"].Value)
}

func TestCounterLabelsProduceSeparateSeries(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("responses_total", map[string]string{"status": "200"}, "")
	r.IncrementCounter("responses_total", map[string]string{"status": "500"}, "")
	r.IncrementCounter("responses_total", map[string]string{"status": "200"}, "")

	counters := r.GetAllMetrics()["counters"].(map[string]*Metric)
	assert.Equal(t, float64(2), counters["responses_total_status:200"].Value)
	assert.Equal(t, float64(1), counters["responses_total_status:500"].Value)
}

func TestMetricKeyIsLabelOrderIndependent(t *testing.T) {
	a := metricKey("m", map[string]string{"a": "1", "b": "2"})
	b := metricKey("m", map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, a, b)
}

func TestRecordTimer(t *testing.T) {
	r := NewRegistry()

	r.RecordTimer("request_duration", 10*time.Millisecond, nil, "")
	r.RecordTimer("request_duration", 30*time.Millisecond, nil, "")

	timers := r.GetAllMetrics()["timers"].(map[string]*TimerMetric)
	timer := timers["request_duration"]
	require.NotNil(t, timer)

	assert.Equal(t, int64(2), timer.Count)
	assert.InDelta(t, 10.0, timer.Min, 0.001)
	assert.InDelta(t, 30.0, timer.Max, 0.001)
	assert.InDelta(t, 20.0, timer.Average, 0.001)
}

func TestSetGauge(t *testing.T) {
	r := NewRegistry()

	r.SetGauge("queue_depth", 7, nil, "")
	r.SetGauge("queue_depth", 3, nil, "")

	gauges := r.GetAllMetrics()["gauges"].(map[string]*Metric)
	assert.Equal(t, float64(3), gauges["queue_depth"].Value)
}

func TestGetAllMetrics_IncludesUptime(t *testing.T) {
	r := NewRegistry()
	snapshot := r.GetAllMetrics()

	assert.Contains(t, snapshot, "uptime_ms")
	assert.Contains(t, snapshot, "timestamp")
}

func TestPercentile(t *testing.T) {
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = float64(i + 1)
	}

	assert.InDelta(t, 96.0, percentile(samples, 0.95), 1.0)
	assert.Equal(t, float64(0), percentile(nil, 0.95))
}
