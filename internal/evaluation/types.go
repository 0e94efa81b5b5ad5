package evaluation

import (
	"errors"
	"time"

	"kitchensim/internal/models"
)

// TimeTier classifies how long an order took from entry to serve
type TimeTier string

const (
	TierPerfect   TimeTier = "PERFECT"
	TierGood      TimeTier = "GOOD"
	TierWarning   TimeTier = "WARNING"
	TierCritical  TimeTier = "CRITICAL"
	TierCancelled TimeTier = "CANCELLED"
)

// Score values
const (
	ScorePerfect         = 100
	ScoreGood            = 85
	ScoreWarning         = 70
	ScoreCritical        = 30
	ScoreCancelled       = -50
	RecipeScoreClean     = 100
	RecipeScoreWithError = 30
)

// TimeThresholds are the cooking-duration tier boundaries
type TimeThresholds struct {
	Target   time.Duration `yaml:"target" json:"target"`
	Warning  time.Duration `yaml:"warning" json:"warning"`
	Critical time.Duration `yaml:"critical" json:"critical"`
	Cancel   time.Duration `yaml:"cancel" json:"cancel"`
}

var ErrThresholdOrder = errors.New("time thresholds must be positive, non-decreasing, with critical below cancel")

// DefaultTimeThresholds returns 7/10/13/15 minutes
func DefaultTimeThresholds() TimeThresholds {
	return TimeThresholds{
		Target:   7 * time.Minute,
		Warning:  10 * time.Minute,
		Critical: 13 * time.Minute,
		Cancel:   15 * time.Minute,
	}
}

// Validate checks that the tiers are ordered. Critical must stay below Cancel
// or a served order could never land in the CRITICAL tier.
func (t TimeThresholds) Validate() error {
	if t.Target <= 0 || t.Warning < t.Target || t.Critical < t.Warning || t.Cancel <= t.Critical {
		return ErrThresholdOrder
	}
	return nil
}

// Weights combine the three session sub-scores into the total
type Weights struct {
	Accuracy    float64 `yaml:"accuracy" json:"accuracy"`
	Speed       float64 `yaml:"speed" json:"speed"`
	BurnerUsage float64 `yaml:"burner_usage" json:"burner_usage"`
}

// DefaultWeights weights accuracy highest, then speed, then burner usage
func DefaultWeights() Weights {
	return Weights{Accuracy: 0.5, Speed: 0.3, BurnerUsage: 0.2}
}

// OrderScore is the scoring result of one served or cancelled order
type OrderScore struct {
	OrderID         string        `json:"order_id"`
	MenuName        string        `json:"menu_name"`
	CookingDuration time.Duration `json:"cooking_duration_ms"`
	TimeTier        TimeTier      `json:"time_tier"`
	TimeScore       int           `json:"time_score"`
	RecipeErrors    int           `json:"recipe_errors"`
	RecipeScore     int           `json:"recipe_score"`
	FinalScore      int           `json:"final_order_score"`
}

// SessionScore is recomputed when a session ends
type SessionScore struct {
	RecipeAccuracyScore int          `json:"recipe_accuracy_score"`
	SpeedScore          int          `json:"speed_score"`
	BurnerUsageScore    int          `json:"burner_usage_score"`
	TotalScore          int          `json:"total_score"`
	CompletedOrders     int          `json:"completed_orders"`
	CancelledOrders     int          `json:"cancelled_orders"`
	ElapsedSeconds      int          `json:"total_elapsed_time_seconds"`
	Orders              []OrderScore `json:"orders"`
}

// SessionInput is everything the aggregate score is computed from
type SessionInput struct {
	Actions         []models.ActionLogEntry
	CompletedOrders int
	Elapsed         time.Duration
	// BurnerSamples holds the number of lit burners at each tick
	BurnerSamples []int
	BurnerCount   int
	SpeedBudget   time.Duration
	Orders        []OrderScore
}
