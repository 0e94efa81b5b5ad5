package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"kitchensim/internal/catalog"
	"kitchensim/internal/database"
	"kitchensim/internal/evaluation"
	"kitchensim/internal/kitchen"
	"kitchensim/internal/logger"
	"kitchensim/internal/models"
	"kitchensim/internal/monitoring"
)

const (
	testSecret = "test-secret"
	omelette   = "Omelette"
	eggSKU     = "EGG:WHOLE:2EA"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	require.NoError(t, c.AddRecipe(models.Recipe{
		ID:       "r-omelette",
		MenuName: omelette,
		Steps: []models.Step{
			{StepNumber: 1, Kind: models.StepKindIngredient, Instruction: "beat the eggs", Ingredients: []models.IngredientRequirement{
				{SKU: eggSKU, Amount: 2, Unit: "EA"},
			}},
		},
	}))
	c.AddIngredient(models.Ingredient{SKU: eggSKU, Name: "egg", Category: models.CategoryEgg, StandardAmount: 2, StandardUnit: "EA"})
	return c
}

type testEnv struct {
	api     *KitchenAPI
	store   *database.Store
	monitor *monitoring.Monitor
	token   string
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	store, err := database.Open(database.DriverSQLite, ":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { store.Close() })

	log := logger.Nop()
	mon := monitoring.NewMonitor()
	hub := NewHub(log)
	mc := evaluation.NewMetricsCollector()
	manager := NewSessionManager(testCatalog(t), log,
		WithStore(store),
		WithMonitor(mon),
		WithMetrics(mc),
		WithHub(hub),
		WithSessionOptions(kitchen.WithAutoSpawn(false), kitchen.WithTargetMenus(1)),
	)
	opts.Monitor = mon
	opts.Metrics = mc

	return &testEnv{
		api:     NewKitchenAPI(manager, testCatalog(t), hub, []byte(testSecret), log, opts),
		store:   store,
		monitor: mon,
		token:   tokenFor(t, "chef-1"),
	}
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := IssueToken([]byte(testSecret), userID, "store-1", time.Hour)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.api.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// decodeWok reads a wok response into a fresh value so omitted fields
// do not carry over from an earlier response.
func decodeWok(t *testing.T, w *httptest.ResponseRecorder) models.Wok {
	t.Helper()
	var wok models.Wok
	decode(t, w, &wok)
	return wok
}

// startSession creates a session and puts one omelette order on burner 1.
func (e *testEnv) startSession(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/sessions", e.token, gin.H{"level": "beginner"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var snap kitchen.Snapshot
	decode(t, w, &snap)

	w = e.do(t, http.MethodPost, "/api/v1/sessions/"+snap.SessionID+"/orders", e.token, gin.H{"menu_name": omelette})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.MenuOrder
	decode(t, w, &order)

	w = e.do(t, http.MethodPost, "/api/v1/sessions/"+snap.SessionID+"/assign", e.token, gin.H{"order_id": order.ID, "burner": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return snap.SessionID
}
