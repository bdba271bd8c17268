package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()

	metric := &dto.Metric{}
	if err := vec.WithLabelValues(labels...).Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return metric.Counter.GetValue()
}

func TestHTTPMetrics_RequestLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetricsWithRegisterer(reg)

	m.RequestStarted()
	m.RequestStarted()
	m.RequestFinished("GET", "/products", 200, 20*time.Millisecond)

	if got := counterValue(t, m.requests, "GET", "/products", "200"); got != 1 {
		t.Errorf("expected 1 request, got %f", got)
	}

	gauge := &dto.Metric{}
	if err := m.inFlight.Write(gauge); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	if gauge.Gauge.GetValue() != 1 {
		t.Errorf("expected 1 in-flight request, got %f", gauge.Gauge.GetValue())
	}

	hist := &dto.Metric{}
	if err := m.duration.WithLabelValues("GET", "/products").(prometheus.Histogram).Write(hist); err != nil {
		t.Fatalf("failed to write histogram: %v", err)
	}
	if hist.Histogram.GetSampleCount() != 1 {
		t.Errorf("expected 1 sample, got %d", hist.Histogram.GetSampleCount())
	}
}

func TestHTTPMetrics_UnmatchedRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetricsWithRegisterer(reg)

	m.RequestStarted()
	m.RequestFinished("GET", "", 404, time.Millisecond)

	if got := counterValue(t, m.requests, "GET", "unmatched", "404"); got != 1 {
		t.Errorf("expected unmatched route to be counted, got %f", got)
	}
}

func TestStoreMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStoreMetricsWithRegisterer(reg)

	m.RecordFallback("product", "list")
	m.RecordFallback("product", "list")
	m.RecordEvent("order.created", nil)
	m.RecordEvent("order.created", errors.New("broker down"))
	m.SetBreakerState("order", 2)

	if got := counterValue(t, m.fallbacks, "product", "list"); got != 2 {
		t.Errorf("expected 2 fallbacks, got %f", got)
	}
	if got := counterValue(t, m.events, "order.created", "ok"); got != 1 {
		t.Errorf("expected 1 ok event, got %f", got)
	}
	if got := counterValue(t, m.events, "order.created", "error"); got != 1 {
		t.Errorf("expected 1 failed event, got %f", got)
	}

	gauge := &dto.Metric{}
	if err := m.breakerState.WithLabelValues("order").Write(gauge); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}
	if gauge.Gauge.GetValue() != 2 {
		t.Errorf("expected open breaker state, got %f", gauge.Gauge.GetValue())
	}
}

func TestStoreMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *StoreMetrics
	m.RecordFallback("product", "get")
	m.SetBreakerState("product", 1)
	m.RecordEvent("product.created", nil)
}

func TestRegister_ReusesExistingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewStoreMetricsWithRegisterer(reg)
	second := NewStoreMetricsWithRegisterer(reg)

	first.RecordFallback("order", "create")
	if got := counterValue(t, second.fallbacks, "order", "create"); got != 1 {
		t.Errorf("expected shared collector, got %f", got)
	}
}
