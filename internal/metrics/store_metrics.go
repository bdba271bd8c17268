package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics содержит метрики слоя хранения и переключений на fallback-кэш.
type StoreMetrics struct {
	fallbacks    *prometheus.CounterVec
	breakerState *prometheus.GaugeVec
	events       *prometheus.CounterVec
}

// NewStoreMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewStoreMetrics() *StoreMetrics {
	return NewStoreMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewStoreMetricsWithRegisterer регистрирует метрики в переданном реестре.
func NewStoreMetricsWithRegisterer(registerer prometheus.Registerer) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StoreMetrics{
		fallbacks: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_store_fallback_total",
			Help: "Total number of store operations served by the in-memory fallback cache",
		}, []string{"entity", "operation"}),
		breakerState: registerGaugeVec(registerer, prometheus.GaugeOpts{
			Name: "storefront_store_breaker_state",
			Help: "Circuit breaker state of the durable store (0=closed, 1=half-open, 2=open)",
		}, []string{"entity"}),
		events: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_events_published_total",
			Help: "Total number of domain events handed to the event publisher",
		}, []string{"type", "result"}),
	}
}

// RecordFallback фиксирует операцию, обслуженную fallback-кэшем.
func (m *StoreMetrics) RecordFallback(entity, operation string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(entity, operation).Inc()
}

// SetBreakerState выставляет состояние circuit breaker: 0 closed, 1 half-open, 2 open.
func (m *StoreMetrics) SetBreakerState(entity string, state int) {
	if m == nil {
		return
	}
	m.breakerState.WithLabelValues(entity).Set(float64(state))
}

// RecordEvent фиксирует результат публикации доменного события.
func (m *StoreMetrics) RecordEvent(eventType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.events.WithLabelValues(eventType, result).Inc()
}
