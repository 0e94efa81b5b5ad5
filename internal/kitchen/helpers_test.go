package kitchen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"kitchensim/internal/catalog"
	"kitchensim/internal/models"
)

const (
	friedRice   = "Egg Fried Rice"
	noodleSoup  = "Noodle Soup"
	eggSKU      = "EGG:WHOLE:2EA"
	soySKU      = "SEASONING:SOY:15ML"
	riceSKU     = "RICE:COOKED:200G"
	noodleSKU   = "NOODLE:EGG:150G"
	stirFryTime = 30
)

func friedRiceRecipe() models.Recipe {
	return models.Recipe{
		ID:       "r-fried-rice",
		MenuName: friedRice,
		Steps: []models.Step{
			{StepNumber: 1, Kind: models.StepKindIngredient, Instruction: "eggs and soy", Ingredients: []models.IngredientRequirement{
				{SKU: eggSKU, Amount: 2, Unit: "EA"},
				{SKU: soySKU, Amount: 15, Unit: "ML"},
			}},
			{StepNumber: 2, Kind: models.StepKindAction, ActionType: models.ActionStirFry, TimeLimitSeconds: stirFryTime},
			{StepNumber: 3, Kind: models.StepKindIngredient, Ingredients: []models.IngredientRequirement{
				{SKU: riceSKU, Amount: 200, Unit: "G"},
			}},
		},
	}
}

func noodleSoupRecipe() models.Recipe {
	return models.Recipe{
		ID:       "r-noodle-soup",
		MenuName: noodleSoup,
		Steps: []models.Step{
			{StepNumber: 1, Kind: models.StepKindAction, ActionType: models.ActionAddWater},
			{StepNumber: 2, Kind: models.StepKindIngredient, RequiresBoiling: true, Ingredients: []models.IngredientRequirement{
				{SKU: noodleSKU, Amount: 150, Unit: "G"},
			}},
			{StepNumber: 3, Kind: models.StepKindAction, ActionType: models.ActionFlip, TimeLimitSeconds: 10},
		},
	}
}

func newTestCatalog(t *testing.T, recipes ...models.Recipe) *catalog.Catalog {
	t.Helper()
	if len(recipes) == 0 {
		recipes = []models.Recipe{friedRiceRecipe(), noodleSoupRecipe()}
	}
	c := catalog.New()
	for _, r := range recipes {
		require.NoError(t, c.AddRecipe(r))
	}
	c.AddIngredient(models.Ingredient{SKU: eggSKU, Name: "egg", Category: models.CategoryEgg, StandardAmount: 2, StandardUnit: "EA"})
	c.AddIngredient(models.Ingredient{SKU: riceSKU, Name: "rice", Category: models.CategoryRice, StandardAmount: 200, StandardUnit: "G"})
	c.AddIngredient(models.Ingredient{SKU: noodleSKU, Name: "noodle", Category: models.CategoryOther, StandardAmount: 150, StandardUnit: "G"})
	c.AddSeasoning(models.Seasoning{Name: "SOY", BaseUnit: "ML", PositionCode: "S1"})
	return c
}

func newTestSession(t *testing.T, level models.GameLevel, opts ...Option) *GameSession {
	t.Helper()
	base := []Option{
		WithID("test-session"),
		WithAutoSpawn(false),
		WithRand(rand.New(rand.NewSource(1))),
	}
	s, err := NewGameSession(newTestCatalog(t), level, append(base, opts...)...)
	require.NoError(t, err)
	return s
}

// startOrder adds an order for menu and assigns it to burner.
func startOrder(t *testing.T, s *GameSession, menu string, burner int) models.MenuOrder {
	t.Helper()
	order, err := s.AddOrder(menu)
	require.NoError(t, err)
	require.NoError(t, s.AssignOrder(order.ID, burner))
	return order
}

// cookFriedRice runs every step of the fried rice recipe without a mistake.
func cookFriedRice(t *testing.T, s *GameSession, burner int) {
	t.Helper()
	require.Equal(t, OutcomeAccepted, s.ApplyIngredient(burner, eggSKU, 2, false).Outcome)
	require.Equal(t, OutcomeAdvanced, s.ApplyIngredient(burner, soySKU, 15, true).Outcome)
	require.Equal(t, OutcomeAdvanced, s.ApplyAction(burner, models.ActionStirFry).Outcome)
	res := s.ApplyIngredient(burner, riceSKU, 200, false)
	require.Equal(t, OutcomeAdvanced, res.Outcome)
	require.True(t, res.Complete)
}

func ticks(s *GameSession, n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

func mustWok(t *testing.T, s *GameSession, burner int) models.Wok {
	t.Helper()
	w, err := s.Wok(burner)
	require.NoError(t, err)
	return w
}

func lastEntry(t *testing.T, s *GameSession) models.ActionLogEntry {
	t.Helper()
	log := s.ActionLog()
	require.NotEmpty(t, log)
	return log[len(log)-1]
}

func countActions(s *GameSession, action models.ActionType) int {
	n := 0
	for _, e := range s.ActionLog() {
		if e.ActionType == action {
			n++
		}
	}
	return n
}
