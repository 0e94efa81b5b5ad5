package models

import "time"

// ActionType names both cooking actions and the entries of the action log
type ActionType string

const (
	// Cooking actions a step can require
	ActionStirFry  ActionType = "STIR_FRY"
	ActionFlip     ActionType = "FLIP"
	ActionAddWater ActionType = "ADD_WATER"
	ActionAddBroth ActionType = "ADD_BROTH"

	// Log-only entries
	ActionAssignMenu     ActionType = "ASSIGN_MENU"
	ActionAddIngredient  ActionType = "ADD_INGREDIENT"
	ActionAddSeasoning   ActionType = "ADD_SEASONING"
	ActionServe          ActionType = "SERVE"
	ActionWash           ActionType = "WASH"
	ActionEmptyWok       ActionType = "EMPTY_WOK"
	ActionBurned         ActionType = "BURNED"
	ActionOrderCancelled ActionType = "ORDER_CANCELLED"
)

// IsCookingAction reports whether a recipe step may require this action
func (a ActionType) IsCookingAction() bool {
	switch a {
	case ActionStirFry, ActionFlip, ActionAddWater, ActionAddBroth:
		return true
	}
	return false
}

// ActionLogEntry is one immutable line of a session's audit trail
type ActionLogEntry struct {
	ElapsedSeconds int        `json:"elapsed_seconds"`
	ActionType     ActionType `json:"action_type"`
	MenuName       string     `json:"menu_name,omitempty"`
	BurnerNumber   int        `json:"burner_number,omitempty"`
	IngredientSKU  string     `json:"ingredient_sku,omitempty"`
	AmountInput    float64    `json:"amount_input,omitempty"`
	ExpectedSKU    string     `json:"expected_sku,omitempty"`
	ExpectedAmount float64    `json:"expected_amount,omitempty"`
	IsCorrect      bool       `json:"is_correct"`
	TimingCorrect  *bool      `json:"timing_correct,omitempty"`
	Message        string     `json:"message"`
}

// NewActionLogEntry stamps an entry with the session time it happened at
func NewActionLogEntry(elapsed time.Duration, action ActionType, correct bool, message string) ActionLogEntry {
	return ActionLogEntry{
		ElapsedSeconds: int(elapsed / time.Second),
		ActionType:     action,
		IsCorrect:      correct,
		Message:        message,
	}
}
