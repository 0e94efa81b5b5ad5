package monitoring

import (
	"testing"

	"kitchensim/internal/evaluation"
	"kitchensim/internal/models"
)

func TestMonitor_GetMetrics(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	metrics := m.GetMetrics()

	value, exists := metrics["test_metric"]
	if !exists {
		t.Fatalf("Expected 'test_metric' to be present in metrics, but it was not")
	}
	if value != 42 {
		t.Errorf("Expected 'test_metric' to be 42, but got %v", value)
	}

	_, exists = metrics["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}

func TestMonitor_RecordAction(t *testing.T) {
	m := NewMonitor()

	m.RecordAction("s1", models.ActionLogEntry{ActionType: models.ActionAddIngredient, IsCorrect: true})
	m.RecordAction("s1", models.ActionLogEntry{ActionType: models.ActionAddIngredient})
	m.RecordAction("s2", models.ActionLogEntry{ActionType: models.ActionBurned})

	want := map[string]int{
		"actions_total":          3,
		"actions_add_ingredient": 2,
		"actions_burned":         1,
		"actions_correct":        1,
		"actions_incorrect":      2,
	}
	for key, n := range want {
		value, exists := m.GetMetric(key)
		if !exists {
			t.Fatalf("Expected %q to be present in metrics, but it was not", key)
		}
		if value != n {
			t.Errorf("Expected %q to be %d, but got %v", key, n, value)
		}
	}
}

func TestMonitor_RecordSessionResult(t *testing.T) {
	m := NewMonitor()

	m.RecordSessionResult("abc", models.LevelAdvanced, evaluation.SessionScore{
		TotalScore:      72,
		CompletedOrders: 4,
	})

	metrics := m.GetMetrics()

	value, exists := metrics["advanced_abc_total_score"]
	if !exists {
		t.Fatalf("Expected 'advanced_abc_total_score' to be present in metrics, but it was not")
	}
	if value != 72 {
		t.Errorf("Expected 'advanced_abc_total_score' to be 72, but got %v", value)
	}
	if metrics["advanced_abc_completed_orders"] != 4 {
		t.Errorf("Expected 'advanced_abc_completed_orders' to be 4, but got %v", metrics["advanced_abc_completed_orders"])
	}
	if metrics["sessions_ended"] != 1 {
		t.Errorf("Expected 'sessions_ended' to be 1, but got %v", metrics["sessions_ended"])
	}

	_, exists = metrics["advanced_abc_last_evaluated"]
	if !exists {
		t.Errorf("Expected 'advanced_abc_last_evaluated' to be present in metrics, but it was not")
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.RecordMetric("test_metric", 42)

	m.Reset()

	metrics := m.GetMetrics()

	_, exists := metrics["test_metric"]
	if exists {
		t.Errorf("Expected 'test_metric' to be removed after Reset(), but it was present")
	}

	// uptime is added on every GetMetrics call
	_, exists = metrics["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}
