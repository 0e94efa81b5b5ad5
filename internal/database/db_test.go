package database

import (
	"testing"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchensim/internal/catalog"
	"kitchensim/internal/evaluation"
	"kitchensim/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, ":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "", nil)
	assert.Error(t, err)
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateSession("s1", "u1", "store-1", models.LevelAdvanced, 50, start))

	late := false
	s.RecordAction("s1", models.ActionLogEntry{ElapsedSeconds: 1, ActionType: models.ActionAssignMenu, MenuName: "Fried Rice", BurnerNumber: 2, IsCorrect: true})
	s.RecordAction("s1", models.ActionLogEntry{ElapsedSeconds: 40, ActionType: models.ActionStirFry, TimingCorrect: &late, Message: "too late"})
	s.RecordAction("other", models.ActionLogEntry{ActionType: models.ActionWash})

	logs, err := s.ActionLogs("s1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ActionAssignMenu, logs[0].ActionType)
	assert.Equal(t, 2, logs[0].BurnerNumber)
	assert.True(t, logs[0].IsCorrect)
	require.NotNil(t, logs[1].TimingCorrect)
	assert.False(t, *logs[1].TimingCorrect)
	assert.Equal(t, "too late", logs[1].Message)

	score := evaluation.SessionScore{RecipeAccuracyScore: 90, SpeedScore: 40, BurnerUsageScore: 55, TotalScore: 68, CompletedOrders: 3, ElapsedSeconds: 900}
	require.NoError(t, s.FinishSession("s1", score, start.Add(15*time.Minute)))

	rec, err := s.Session("s1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCompleted, rec.Status)
	assert.Equal(t, 3, rec.CompletedMenus)
	require.NotNil(t, rec.EndTime)

	stored, err := s.Score("s1")
	require.NoError(t, err)
	assert.Equal(t, 68, stored.TotalScore)
	assert.Equal(t, 900, stored.TotalElapsedTimeSeconds)
}

func TestFinishSession_Unknown(t *testing.T) {
	s := newTestStore(t)
	err := s.FinishSession("missing", evaluation.SessionScore{}, time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = s.Score("missing")
	assert.True(t, gorm.IsRecordNotFoundError(err))
}

func TestCatalogRoundTrip(t *testing.T) {
	s := newTestStore(t)

	src := catalog.New()
	require.NoError(t, src.AddRecipe(models.Recipe{
		ID:       "r1",
		MenuName: "Squid Stir Fry",
		Steps: []models.Step{
			{StepNumber: 1, Kind: models.StepKindIngredient, Ingredients: []models.IngredientRequirement{{SKU: "SEA:SQUID:80G", Amount: 80, Unit: "G"}}},
			{StepNumber: 2, Kind: models.StepKindAction, ActionType: models.ActionStirFry, TimeLimitSeconds: 20},
		},
	}))
	src.AddIngredient(models.Ingredient{SKU: "SEA:SQUID:80G", Name: "squid", Category: models.CategorySeafood, StandardAmount: 80, StandardUnit: "G"})
	src.AddSeasoning(models.Seasoning{Name: "SOY", BaseUnit: "ML", PositionCode: "S1"})

	require.NoError(t, s.SaveCatalog("store-1", src))
	// saving again replaces rather than duplicates
	require.NoError(t, s.SaveCatalog("store-1", src))

	dst := catalog.New()
	stats, err := s.LoadCatalog("store-1", dst)
	require.NoError(t, err)
	assert.Equal(t, catalog.LoadStats{Recipes: 1, Ingredients: 1, Seasonings: 1}, stats)

	r := dst.GetRecipeByMenuName("Squid Stir Fry")
	require.NotNil(t, r)
	require.Len(t, r.Steps, 2)
	assert.Equal(t, models.ActionStirFry, r.Steps[1].ActionType)
	assert.Equal(t, 20, r.Steps[1].TimeLimitSeconds)
	assert.Equal(t, models.CategorySeafood, dst.CategoryOf("SEA:SQUID:80G"))

	empty := catalog.New()
	stats, err = s.LoadCatalog("store-2", empty)
	require.NoError(t, err)
	assert.Equal(t, catalog.LoadStats{}, stats)
}
