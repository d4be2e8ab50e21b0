package telemetry

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	if m.RequestTotal == nil {
		t.Error("RequestTotal should not be nil")
	}
	if m.RequestDurationMs == nil {
		t.Error("RequestDurationMs should not be nil")
	}
	if m.DelegateDurationMs == nil {
		t.Error("DelegateDurationMs should not be nil")
	}
	if m.FilterActionTotal == nil {
		t.Error("FilterActionTotal should not be nil")
	}
	if m.PolicyReloadTotal == nil {
		t.Error("PolicyReloadTotal should not be nil")
	}
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	NewMetrics(reg)
}

func TestRecordRequest(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordRequest(RequestLabels{Operation: "fibonacci", Status: "200", DurationMs: 3})
	m.RecordRequest(RequestLabels{Operation: "fibonacci", Status: "200", DurationMs: 7})
	m.RecordRequest(RequestLabels{Operation: "lcm", Status: "500", DurationMs: 1})

	if got := counterValue(t, m.RequestTotal, "fibonacci", "200"); got != 2 {
		t.Errorf("expected fibonacci/200 = 2, got %f", got)
	}
	if got := counterValue(t, m.RequestTotal, "lcm", "500"); got != 1 {
		t.Errorf("expected lcm/500 = 1, got %f", got)
	}

	h := histogram(t, m.RequestDurationMs, "fibonacci")
	if h.GetSampleCount() != 2 {
		t.Errorf("expected 2 samples, got %d", h.GetSampleCount())
	}
	if h.GetSampleSum() != 10 {
		t.Errorf("expected sample sum 10, got %f", h.GetSampleSum())
	}
}

func TestRecordDelegateCall(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordDelegateCall("gemini", "success", 420)
	m.RecordDelegateCall("gemini", "error", 60000)

	if got := histogram(t, m.DelegateDurationMs, "gemini", "success").GetSampleCount(); got != 1 {
		t.Errorf("expected 1 success sample, got %d", got)
	}
	if got := histogram(t, m.DelegateDurationMs, "gemini", "error").GetSampleSum(); got != 60000 {
		t.Errorf("expected error sample sum 60000, got %f", got)
	}
}

func TestRecordFilterAction(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordFilterAction("secrets", "block")
	m.RecordFilterAction("secrets", "block")
	m.RecordFilterAction("injection", "flag")

	if got := counterValue(t, m.FilterActionTotal, "secrets", "block"); got != 2 {
		t.Errorf("expected secrets/block = 2, got %f", got)
	}
	if got := counterValue(t, m.FilterActionTotal, "injection", "flag"); got != 1 {
		t.Errorf("expected injection/flag = 1, got %f", got)
	}
}

func TestRecordPolicyReload(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordPolicyReload(nil)
	m.RecordPolicyReload(errors.New("parse error"))

	if got := counterValue(t, m.PolicyReloadTotal, "success"); got != 1 {
		t.Errorf("expected success = 1, got %f", got)
	}
	if got := counterValue(t, m.PolicyReloadTotal, "error"); got != 1 {
		t.Errorf("expected error = 1, got %f", got)
	}
}

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	c, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("get counter: %v", err)
	}
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("write counter: %v", err)
	}
	return metric.GetCounter().GetValue()
}

func histogram(t *testing.T, vec *prometheus.HistogramVec, labels ...string) *dto.Histogram {
	t.Helper()
	o, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("get histogram: %v", err)
	}
	var metric dto.Metric
	if err := o.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return metric.GetHistogram()
}
