package kitchen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchensim/internal/models"
)

var allLevels = []models.GameLevel{models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced}

func TestWrongAmount_AllLevels(t *testing.T) {
	for _, level := range allLevels {
		t.Run(string(level), func(t *testing.T) {
			s := newTestSession(t, level)
			startOrder(t, s, friedRice, 1)

			res := s.ApplyIngredient(1, eggSKU, 3, false)
			assert.ErrorIs(t, res.Reason, ErrIngredientMismatch)
			assert.False(t, res.Advanced)
			assert.Empty(t, res.Suggestion, "the SKU itself is right")

			w := mustWok(t, s, 1)
			assert.Equal(t, 0, w.CurrentStepIndex)
			assert.Empty(t, w.AddedSKUs)
			if level == models.LevelBeginner {
				assert.Equal(t, OutcomeRejected, res.Outcome)
				assert.Equal(t, 0, w.RecipeErrorCount)
			} else {
				assert.Equal(t, OutcomeError, res.Outcome)
				assert.Equal(t, 1, w.RecipeErrorCount)
			}

			entry := lastEntry(t, s)
			assert.Equal(t, models.ActionAddIngredient, entry.ActionType)
			assert.False(t, entry.IsCorrect)
			assert.Equal(t, eggSKU, entry.ExpectedSKU)
			assert.Equal(t, 2.0, entry.ExpectedAmount)
			assert.Equal(t, 3.0, entry.AmountInput)
		})
	}
}

func TestWrongAction_StrictVsRelaxed(t *testing.T) {
	testCases := []struct {
		level       models.GameLevel
		wantOutcome Outcome
		wantErrors  int
	}{
		{models.LevelBeginner, OutcomeRejected, 0},
		{models.LevelAdvanced, OutcomeError, 1},
	}

	for _, tc := range testCases {
		t.Run(string(tc.level), func(t *testing.T) {
			s := newTestSession(t, tc.level)
			startOrder(t, s, friedRice, 1)
			s.ApplyIngredient(1, eggSKU, 2, false)
			s.ApplyIngredient(1, soySKU, 15, true)

			res := s.ApplyAction(1, models.ActionFlip)
			assert.Equal(t, tc.wantOutcome, res.Outcome)
			assert.ErrorIs(t, res.Reason, ErrActionMismatch)

			w := mustWok(t, s, 1)
			assert.Equal(t, 1, w.CurrentStepIndex)
			assert.Equal(t, tc.wantErrors, w.RecipeErrorCount)
			assert.Equal(t, string(models.ActionStirFry), lastEntry(t, s).ExpectedSKU)
		})
	}
}

func TestRelaxedMistakeLowersOrderScore(t *testing.T) {
	s := newTestSession(t, models.LevelIntermediate)
	startOrder(t, s, friedRice, 1)
	s.ApplyIngredient(1, riceSKU, 200, false)
	cookFriedRice(t, s, 1)

	score, err := s.Serve(1)
	require.NoError(t, err)
	assert.Equal(t, 1, score.RecipeErrors)
	assert.Equal(t, 30, score.RecipeScore)
	assert.Equal(t, 65, score.FinalScore)
}

func TestTimingViolation(t *testing.T) {
	prepare := func(t *testing.T, level models.GameLevel, wait int) *GameSession {
		s := newTestSession(t, level)
		startOrder(t, s, friedRice, 1)
		s.ApplyIngredient(1, eggSKU, 2, false)
		s.ApplyIngredient(1, soySKU, 15, true)
		ticks(s, wait)
		return s
	}

	t.Run("at the limit", func(t *testing.T) {
		s := prepare(t, models.LevelBeginner, stirFryTime)
		res := s.ApplyAction(1, models.ActionStirFry)
		assert.Equal(t, OutcomeAdvanced, res.Outcome)
		entry := lastEntry(t, s)
		require.NotNil(t, entry.TimingCorrect)
		assert.True(t, *entry.TimingCorrect)
	})

	t.Run("strict burns", func(t *testing.T) {
		s := prepare(t, models.LevelBeginner, stirFryTime+1)
		order := s.Orders()[0]

		res := s.ApplyAction(1, models.ActionStirFry)
		assert.Equal(t, OutcomeBurned, res.Outcome)
		assert.ErrorIs(t, res.Reason, ErrTimeLimitExceeded)

		w := mustWok(t, s, 1)
		assert.Equal(t, models.WokBurned, w.State)
		assert.False(t, w.IsOn)
		assert.False(t, w.HasSession())

		orders := s.Orders()
		require.Len(t, orders, 1)
		assert.Equal(t, order.ID, orders[0].ID)
		assert.Equal(t, models.OrderStatusWaiting, orders[0].Status)

		log := s.ActionLog()
		late := log[len(log)-2]
		assert.Equal(t, models.ActionStirFry, late.ActionType)
		require.NotNil(t, late.TimingCorrect)
		assert.False(t, *late.TimingCorrect)
		assert.Equal(t, models.ActionBurned, log[len(log)-1].ActionType)
	})

	t.Run("relaxed advances with an error", func(t *testing.T) {
		s := prepare(t, models.LevelIntermediate, stirFryTime+1)
		res := s.ApplyAction(1, models.ActionStirFry)
		assert.Equal(t, OutcomeError, res.Outcome)
		assert.True(t, res.Advanced)
		assert.Equal(t, 1, res.StepIndex)

		w := mustWok(t, s, 1)
		assert.Equal(t, 2, w.CurrentStepIndex)
		assert.Equal(t, 1, w.RecipeErrorCount)
	})
}

func TestDuplicateIngredient(t *testing.T) {
	for _, level := range allLevels {
		t.Run(string(level), func(t *testing.T) {
			s := newTestSession(t, level)
			startOrder(t, s, friedRice, 1)
			require.Equal(t, OutcomeAccepted, s.ApplyIngredient(1, eggSKU, 2, false).Outcome)

			res := s.ApplyIngredient(1, eggSKU, 2, false)
			assert.Equal(t, OutcomeRejected, res.Outcome)
			assert.ErrorIs(t, res.Reason, ErrDuplicateSKU)
			assert.False(t, lastEntry(t, s).IsCorrect)

			w := mustWok(t, s, 1)
			assert.Equal(t, 0, w.RecipeErrorCount)
			assert.Equal(t, []string{eggSKU}, w.AddedSKUs)
		})
	}
}

func TestSeasoningInput(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		amount      float64
		wantOutcome Outcome
	}{
		{"bare name", "SOY", 15, OutcomeAccepted},
		{"prefixed name", "SEASONING:SOY", 15, OutcomeAccepted},
		{"full sku", soySKU, 15, OutcomeAccepted},
		{"wrong amount", "SOY", 10, OutcomeRejected},
		{"unknown seasoning", "SALT", 15, OutcomeRejected},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(t, models.LevelBeginner)
			startOrder(t, s, friedRice, 1)

			res := s.ApplyIngredient(1, tc.input, tc.amount, true)
			assert.Equal(t, tc.wantOutcome, res.Outcome)
			assert.Equal(t, models.ActionAddSeasoning, lastEntry(t, s).ActionType)
			if tc.wantOutcome == OutcomeAccepted {
				assert.Equal(t, []string{soySKU}, mustWok(t, s, 1).AddedSKUs)
			}
		})
	}
}

func TestIngredientDuringActionStep(t *testing.T) {
	s := newTestSession(t, models.LevelBeginner)
	startOrder(t, s, friedRice, 1)
	s.ApplyIngredient(1, eggSKU, 2, false)
	s.ApplyIngredient(1, soySKU, 15, true)

	res := s.ApplyIngredient(1, riceSKU, 200, false)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.ErrorIs(t, res.Reason, ErrIngredientMismatch)
	assert.Equal(t, string(models.ActionStirFry), lastEntry(t, s).ExpectedSKU)
	assert.Equal(t, 1, mustWok(t, s, 1).CurrentStepIndex)
}

func TestActionOutsideStep(t *testing.T) {
	testCases := []struct {
		level       models.GameLevel
		wantOutcome Outcome
		wantDrop    float64
	}{
		{models.LevelBeginner, OutcomeRejected, 0},
		{models.LevelIntermediate, OutcomeError, models.ActionCooling(models.ActionFlip)},
	}

	for _, tc := range testCases {
		t.Run(string(tc.level), func(t *testing.T) {
			s := newTestSession(t, tc.level)
			startOrder(t, s, friedRice, 1)
			ticks(s, 5)
			before := mustWok(t, s, 1).Temperature

			res := s.ApplyAction(1, models.ActionFlip)
			assert.Equal(t, tc.wantOutcome, res.Outcome)
			assert.ErrorIs(t, res.Reason, ErrNotActionStep)

			w := mustWok(t, s, 1)
			assert.InDelta(t, before-tc.wantDrop, w.Temperature, 1e-9)
			assert.Equal(t, 0, w.RecipeErrorCount, "off-step actions are not recipe errors")
			assert.Equal(t, 0, w.CurrentStepIndex)
			assert.False(t, lastEntry(t, s).IsCorrect)
		})
	}
}

func TestStirFryForTemperatureControl(t *testing.T) {
	s := newTestSession(t, models.LevelBeginner)
	startOrder(t, s, friedRice, 1)
	ticks(s, 5)
	before := mustWok(t, s, 1).Temperature

	res := s.ApplyAction(1, models.ActionStirFry)
	assert.Equal(t, OutcomeAccepted, res.Outcome)
	assert.NoError(t, res.Reason)
	assert.False(t, res.Advanced)

	w := mustWok(t, s, 1)
	assert.Equal(t, 0, w.CurrentStepIndex)
	assert.True(t, w.IsStirFrying)
	assert.InDelta(t, before-10, w.Temperature, 1e-9)
	assert.True(t, lastEntry(t, s).IsCorrect)

	s.Tick()
	assert.False(t, mustWok(t, s, 1).IsStirFrying, "stir-frying lasts one tick")
}

func TestBoilingStep(t *testing.T) {
	s := newTestSession(t, models.LevelBeginner)
	startOrder(t, s, noodleSoup, 1)

	res := s.ApplyAction(1, models.ActionAddWater)
	require.Equal(t, OutcomeAdvanced, res.Outcome)
	w := mustWok(t, s, 1)
	assert.True(t, w.HasWater)
	assert.Equal(t, models.AmbientTemperature, w.WaterTemperature)

	res = s.ApplyIngredient(1, noodleSKU, 150, false)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.ErrorIs(t, res.Reason, ErrNotBoiling)

	ticks(s, 35)
	require.True(t, mustWok(t, s, 1).IsBoiling)

	res = s.ApplyIngredient(1, noodleSKU, 150, false)
	require.Equal(t, OutcomeAdvanced, res.Outcome)
	w = mustWok(t, s, 1)
	assert.False(t, w.HasWater, "boiling water is drained when its step completes")
	assert.False(t, w.IsBoiling)

	res = s.ApplyAction(1, models.ActionFlip)
	assert.Equal(t, OutcomeAdvanced, res.Outcome)
	assert.True(t, res.Complete)
}

func TestBoilingStep_Relaxed(t *testing.T) {
	s := newTestSession(t, models.LevelAdvanced)
	startOrder(t, s, noodleSoup, 1)
	s.ApplyAction(1, models.ActionAddWater)

	res := s.ApplyIngredient(1, noodleSKU, 150, false)
	assert.Equal(t, OutcomeError, res.Outcome)
	w := mustWok(t, s, 1)
	assert.Equal(t, 1, w.RecipeErrorCount)
	assert.Equal(t, 1, w.CurrentStepIndex)
	assert.Empty(t, w.AddedSKUs)
}

func TestTypoSuggestion(t *testing.T) {
	s := newTestSession(t, models.LevelIntermediate)
	startOrder(t, s, friedRice, 1)
	s.ApplyIngredient(1, eggSKU, 2, false)
	s.ApplyIngredient(1, soySKU, 15, true)
	s.ApplyAction(1, models.ActionStirFry)

	res := s.ApplyIngredient(1, "RICE:COOKD:200G", 200, false)
	assert.Equal(t, OutcomeError, res.Outcome)
	assert.Equal(t, riceSKU, res.Suggestion)

	res = s.ApplyIngredient(1, "SQUID", 200, false)
	assert.Empty(t, res.Suggestion)
}

func TestStepIndexNeverPassesTotal(t *testing.T) {
	s := newTestSession(t, models.LevelIntermediate)
	startOrder(t, s, friedRice, 1)
	cookFriedRice(t, s, 1)

	assert.ErrorIs(t, s.ApplyIngredient(1, riceSKU, 200, false).Reason, ErrRecipeComplete)
	assert.ErrorIs(t, s.ApplyAction(1, models.ActionFlip).Reason, ErrRecipeComplete)
	assert.Equal(t, OutcomeAccepted, s.ApplyAction(1, models.ActionStirFry).Outcome)

	w := mustWok(t, s, 1)
	assert.Equal(t, w.TotalSteps, w.CurrentStepIndex)
	assert.Equal(t, 0, w.RecipeErrorCount)
	assert.True(t, s.Snapshot().Woks[0].ReadyToServe)
}

func TestInputWithoutMenu(t *testing.T) {
	s := newTestSession(t, models.LevelAdvanced)

	res := s.ApplyIngredient(2, eggSKU, 2, false)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.ErrorIs(t, res.Reason, ErrNoMenu)
	entry := lastEntry(t, s)
	assert.Equal(t, 2, entry.BurnerNumber)
	assert.False(t, entry.IsCorrect)

	assert.ErrorIs(t, s.ApplyAction(2, models.ActionStirFry).Reason, ErrNoMenu)
	assert.ErrorIs(t, s.ApplyIngredient(0, eggSKU, 2, false).Reason, ErrUnknownBurner)
}

func TestInvalidActionNotLogged(t *testing.T) {
	s := newTestSession(t, models.LevelBeginner)
	startOrder(t, s, friedRice, 1)
	before := len(s.ActionLog())

	res := s.ApplyAction(1, models.ActionServe)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.ErrorIs(t, res.Reason, ErrInvalidAction)
	assert.Equal(t, "", Result{}.ReasonText())
	assert.NotEmpty(t, res.ReasonText())
	assert.Len(t, s.ActionLog(), before)
}
