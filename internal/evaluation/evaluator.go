package evaluation

import (
	"math"
	"time"

	"kitchensim/internal/models"
)

// Evaluator scores orders and sessions
type Evaluator struct {
	thresholds TimeThresholds
	weights    Weights
}

// NewEvaluator creates an evaluator. Invalid thresholds fall back to the defaults.
func NewEvaluator(thresholds TimeThresholds, weights Weights) *Evaluator {
	if thresholds.Validate() != nil {
		thresholds = DefaultTimeThresholds()
	}
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	return &Evaluator{thresholds: thresholds, weights: weights}
}

// Thresholds returns the tier boundaries in use
func (e *Evaluator) Thresholds() TimeThresholds {
	return e.thresholds
}

// TimeScore places a cooking duration in its tier
func (e *Evaluator) TimeScore(elapsed time.Duration) (int, TimeTier) {
	t := e.thresholds
	switch {
	case elapsed > t.Cancel:
		return ScoreCancelled, TierCancelled
	case elapsed > t.Critical:
		return ScoreCritical, TierCritical
	case elapsed > t.Warning:
		return ScoreWarning, TierWarning
	case elapsed <= t.Target:
		return ScorePerfect, TierPerfect
	default:
		return ScoreGood, TierGood
	}
}

// RecipeScore is binary: any error in the cooking session costs the same
func RecipeScore(errorCount int) int {
	if errorCount == 0 {
		return RecipeScoreClean
	}
	return RecipeScoreWithError
}

// ScoreOrder scores a served order as the average of its time and recipe scores
func (e *Evaluator) ScoreOrder(orderID, menuName string, cooking time.Duration, errorCount int) OrderScore {
	timeScore, tier := e.TimeScore(cooking)
	recipeScore := RecipeScore(errorCount)

	final := int(math.Round(float64(timeScore+recipeScore) / 2))
	if tier == TierCancelled {
		final = ScoreCancelled
	}

	return OrderScore{
		OrderID:         orderID,
		MenuName:        menuName,
		CookingDuration: cooking,
		TimeTier:        tier,
		TimeScore:       timeScore,
		RecipeErrors:    errorCount,
		RecipeScore:     recipeScore,
		FinalScore:      final,
	}
}

// CancelOrder scores an order removed by timeout
func (e *Evaluator) CancelOrder(orderID, menuName string, age time.Duration) OrderScore {
	return OrderScore{
		OrderID:         orderID,
		MenuName:        menuName,
		CookingDuration: age,
		TimeTier:        TierCancelled,
		TimeScore:       ScoreCancelled,
		FinalScore:      ScoreCancelled,
	}
}

// ScoreSession computes the aggregate score of a finished session
func (e *Evaluator) ScoreSession(in SessionInput) SessionScore {
	accuracy := accuracyScore(in.Actions)
	speed := speedScore(in.CompletedOrders, in.SpeedBudget, in.Elapsed)
	usage := burnerUsageScore(in.BurnerSamples, in.BurnerCount)

	total := float64(accuracy)*e.weights.Accuracy +
		float64(speed)*e.weights.Speed +
		float64(usage)*e.weights.BurnerUsage

	cancelled := 0
	for _, o := range in.Orders {
		if o.TimeTier == TierCancelled {
			cancelled++
		}
	}

	return SessionScore{
		RecipeAccuracyScore: accuracy,
		SpeedScore:          speed,
		BurnerUsageScore:    usage,
		TotalScore:          int(math.Round(total)),
		CompletedOrders:     in.CompletedOrders,
		CancelledOrders:     cancelled,
		ElapsedSeconds:      int(in.Elapsed / time.Second),
		Orders:              append([]OrderScore{}, in.Orders...),
	}
}

func accuracyScore(actions []models.ActionLogEntry) int {
	if len(actions) == 0 {
		return 0
	}
	correct := 0
	for _, a := range actions {
		if a.IsCorrect {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(len(actions)) * 100))
}

func speedScore(completed int, budget, elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}
	if budget <= 0 {
		budget = models.SpeedBudgetPerOrder
	}
	ratio := float64(completed) * budget.Seconds() / elapsed.Seconds() * 100
	return int(math.Round(math.Max(0, math.Min(100, ratio))))
}

func burnerUsageScore(samples []int, burners int) int {
	if burners <= 0 {
		burners = models.BurnerCount
	}
	possible := len(samples) * burners
	if possible == 0 {
		return 0
	}
	active := 0
	for _, s := range samples {
		active += s
	}
	return int(math.Round(float64(active) / float64(possible) * 100))
}
