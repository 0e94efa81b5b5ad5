package monitoring

import (
	"strings"
	"sync"
	"time"

	"kitchensim/internal/evaluation"
	"kitchensim/internal/models"
)

// Monitor collects live kitchen statistics for the stats endpoint
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
	}
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns all current metrics
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	metrics := make(map[string]interface{}, len(m.metrics)+1)
	for k, v := range m.metrics {
		metrics[k] = v
	}
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// Reset clears all metrics
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics = make(map[string]interface{})
}

// RecordAction counts an action log entry by type and correctness.
func (m *Monitor) RecordAction(_ string, entry models.ActionLogEntry) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()

	m.increment("actions_total")
	m.increment("actions_" + strings.ToLower(string(entry.ActionType)))
	if entry.IsCorrect {
		m.increment("actions_correct")
	} else {
		m.increment("actions_incorrect")
	}
}

func (m *Monitor) increment(key string) {
	n, _ := m.metrics[key].(int)
	m.metrics[key] = n + 1
}

// RecordSessionResult records the final score of a session under its level
// and id, together with when it ended.
func (m *Monitor) RecordSessionResult(sessionID string, level models.GameLevel, score evaluation.SessionScore) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()

	m.increment("sessions_ended")
	prefix := strings.ToLower(string(level)) + "_" + sessionID + "_"
	m.metrics[prefix+"total_score"] = score.TotalScore
	m.metrics[prefix+"accuracy_score"] = score.RecipeAccuracyScore
	m.metrics[prefix+"speed_score"] = score.SpeedScore
	m.metrics[prefix+"burner_usage_score"] = score.BurnerUsageScore
	m.metrics[prefix+"completed_orders"] = score.CompletedOrders
	m.metrics[prefix+"last_evaluated"] = time.Now().Format(time.RFC3339)
}
