package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// StepKind distinguishes ingredient steps from timed action steps
type StepKind string

const (
	// Step kinds
	StepKindIngredient StepKind = "INGREDIENT"
	StepKindAction     StepKind = "ACTION"
)

// IngredientRequirement is one SKU a step needs, at an exact amount
type IngredientRequirement struct {
	SKU    string  `json:"sku"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Step represents one ordered unit of a recipe
type Step struct {
	StepNumber       int                     `json:"step_number"`
	Kind             StepKind                `json:"kind"`
	Ingredients      []IngredientRequirement `json:"ingredients,omitempty"`
	ActionType       ActionType              `json:"action_type,omitempty"`
	TimeLimitSeconds int                     `json:"time_limit_seconds,omitempty"`
	RequiresBoiling  bool                    `json:"requires_boiling,omitempty"`
	Instruction      string                  `json:"instruction,omitempty"`
}

// TimeLimit returns the step's time limit, zero when the step is untimed
func (s Step) TimeLimit() time.Duration {
	if s.TimeLimitSeconds <= 0 {
		return 0
	}
	return time.Duration(s.TimeLimitSeconds) * time.Second
}

// Recipe represents a menu and its ordered cooking steps
type Recipe struct {
	ID       string `json:"id"`
	MenuName string `json:"menu_name"`
	Category string `json:"category,omitempty"`
	Steps    []Step `json:"steps"`
}

var (
	ErrRecipeNoName       = errors.New("recipe has no menu name")
	ErrRecipeNoSteps      = errors.New("recipe has no steps")
	ErrDuplicateStepOrder = errors.New("recipe steps share a step number")
	ErrMalformedStep      = errors.New("recipe step is malformed")
)

// Normalize sorts steps by step number in place
func (r *Recipe) Normalize() {
	sort.SliceStable(r.Steps, func(i, j int) bool {
		return r.Steps[i].StepNumber < r.Steps[j].StepNumber
	})
}

// Validate checks that the recipe is usable by the progression engine.
// Steps must already be normalized.
func (r *Recipe) Validate() error {
	if r.MenuName == "" {
		return ErrRecipeNoName
	}
	if len(r.Steps) == 0 {
		return fmt.Errorf("%s: %w", r.MenuName, ErrRecipeNoSteps)
	}
	for i, step := range r.Steps {
		if i > 0 && step.StepNumber <= r.Steps[i-1].StepNumber {
			return fmt.Errorf("%s step %d: %w", r.MenuName, step.StepNumber, ErrDuplicateStepOrder)
		}
		switch step.Kind {
		case StepKindIngredient:
			if len(step.Ingredients) == 0 {
				return fmt.Errorf("%s step %d has no ingredients: %w", r.MenuName, step.StepNumber, ErrMalformedStep)
			}
		case StepKindAction:
			if !step.ActionType.IsCookingAction() {
				return fmt.Errorf("%s step %d action %q: %w", r.MenuName, step.StepNumber, step.ActionType, ErrMalformedStep)
			}
		default:
			return fmt.Errorf("%s step %d kind %q: %w", r.MenuName, step.StepNumber, step.Kind, ErrMalformedStep)
		}
	}
	return nil
}

// TotalSteps returns the number of steps a wok must complete before serving
func (r *Recipe) TotalSteps() int {
	return len(r.Steps)
}

// StepAt returns the step at a progress index
func (r *Recipe) StepAt(index int) (Step, bool) {
	if index < 0 || index >= len(r.Steps) {
		return Step{}, false
	}
	return r.Steps[index], true
}

// StepList stores recipe steps as a JSON text column
type StepList []Step

// Value converts the steps to a JSON string for storage
func (s StepList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan converts the database value back to steps
func (s *StepList) Scan(value interface{}) error {
	if value == nil {
		*s = StepList{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StepList")
	}
}
