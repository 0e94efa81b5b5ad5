package evaluation

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector handles metrics collection and reporting
type MetricsCollector struct {
	registry *prometheus.Registry
	metrics  map[string]prometheus.Collector
}

// NewMetricsCollector creates a new metrics collector on its own registry
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	orderCookingTime := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kitchen_order_cooking_seconds",
			Help:    "Time from order entry to serve",
			Buckets: prometheus.LinearBuckets(60, 60, 15), // 1-minute buckets
		},
		[]string{"level", "tier"},
	)

	accuracyGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kitchen_recipe_accuracy_percent",
			Help: "Recipe accuracy of the last finished session",
		},
		[]string{"level"},
	)

	utilizationGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kitchen_burner_utilization_percent",
			Help: "Burner utilization of the last finished session",
		},
		[]string{"level"},
	)

	totalGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kitchen_session_total_score",
			Help: "Total score of the last finished session",
		},
		[]string{"level"},
	)

	burnCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kitchen_woks_burned_total",
			Help: "Woks that reached the burned state",
		},
		[]string{"level"},
	)

	cancelCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kitchen_orders_cancelled_total",
			Help: "Orders cancelled by timeout",
		},
		[]string{"level"},
	)

	activeGauge := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "kitchen_active_sessions",
			Help: "Sessions currently in progress",
		},
	)

	metrics := map[string]prometheus.Collector{
		"order_cooking": orderCookingTime,
		"accuracy":      accuracyGauge,
		"utilization":   utilizationGauge,
		"total":         totalGauge,
		"burned":        burnCounter,
		"cancelled":     cancelCounter,
		"active":        activeGauge,
	}

	for _, metric := range metrics {
		registry.MustRegister(metric)
	}

	return &MetricsCollector{
		registry: registry,
		metrics:  metrics,
	}
}

// Registry exposes the collector's registry
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// Handler serves the collector's metrics
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{})
}

// RecordOrderCompletion records the cooking duration of a scored order
func (mc *MetricsCollector) RecordOrderCompletion(level string, score OrderScore) {
	if histogram, ok := mc.metrics["order_cooking"].(*prometheus.HistogramVec); ok {
		histogram.WithLabelValues(level, string(score.TimeTier)).Observe(score.CookingDuration.Seconds())
	}
}

// RecordAccuracy records accuracy metrics
func (mc *MetricsCollector) RecordAccuracy(level string, accuracy float64) {
	if gauge, ok := mc.metrics["accuracy"].(*prometheus.GaugeVec); ok {
		gauge.WithLabelValues(level).Set(accuracy)
	}
}

// RecordUtilization records burner utilization
func (mc *MetricsCollector) RecordUtilization(level string, utilization float64) {
	if gauge, ok := mc.metrics["utilization"].(*prometheus.GaugeVec); ok {
		gauge.WithLabelValues(level).Set(utilization)
	}
}

// RecordSessionScore records every gauge of a finished session
func (mc *MetricsCollector) RecordSessionScore(level string, score SessionScore) {
	mc.RecordAccuracy(level, float64(score.RecipeAccuracyScore))
	mc.RecordUtilization(level, float64(score.BurnerUsageScore))
	if gauge, ok := mc.metrics["total"].(*prometheus.GaugeVec); ok {
		gauge.WithLabelValues(level).Set(float64(score.TotalScore))
	}
}

func (mc *MetricsCollector) RecordBurn(level string) {
	if counter, ok := mc.metrics["burned"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(level).Inc()
	}
}

func (mc *MetricsCollector) RecordCancellation(level string) {
	if counter, ok := mc.metrics["cancelled"].(*prometheus.CounterVec); ok {
		counter.WithLabelValues(level).Inc()
	}
}

// SetActiveSessions records how many sessions are in progress
func (mc *MetricsCollector) SetActiveSessions(n int) {
	if gauge, ok := mc.metrics["active"].(prometheus.Gauge); ok {
		gauge.Set(float64(n))
	}
}
