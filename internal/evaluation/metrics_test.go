package evaluation

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsCollector(t *testing.T) {
	collector := NewMetricsCollector()

	assert.NotNil(t, collector.registry)
	assert.Len(t, collector.metrics, 7)
}

func TestRecordSessionScore(t *testing.T) {
	collector := NewMetricsCollector()

	collector.RecordSessionScore("BEGINNER", SessionScore{
		RecipeAccuracyScore: 80,
		BurnerUsageScore:    40,
		TotalScore:          66,
	})

	accuracy := collector.metrics["accuracy"].(*prometheus.GaugeVec)
	total := collector.metrics["total"].(*prometheus.GaugeVec)
	assert.Equal(t, 80.0, testutil.ToFloat64(accuracy.WithLabelValues("BEGINNER")))
	assert.Equal(t, 66.0, testutil.ToFloat64(total.WithLabelValues("BEGINNER")))
}

func TestRecordCounters(t *testing.T) {
	collector := NewMetricsCollector()

	collector.RecordBurn("ADVANCED")
	collector.RecordBurn("ADVANCED")
	collector.RecordCancellation("ADVANCED")
	collector.RecordOrderCompletion("ADVANCED", OrderScore{TimeTier: TierPerfect, CookingDuration: 5 * time.Minute})
	collector.SetActiveSessions(3)

	burned := collector.metrics["burned"].(*prometheus.CounterVec)
	assert.Equal(t, 2.0, testutil.ToFloat64(burned.WithLabelValues("ADVANCED")))

	count, err := testutil.GatherAndCount(collector.Registry(), "kitchen_order_cooking_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetricsHandler(t *testing.T) {
	collector := NewMetricsCollector()
	collector.RecordBurn("BEGINNER")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/metrics", nil)
	collector.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kitchen_woks_burned_total")
}
