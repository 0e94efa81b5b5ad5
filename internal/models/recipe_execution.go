package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// GameSessionRecord is the persisted header of a play session
type GameSessionRecord struct {
	gorm.Model
	SessionID        string `gorm:"unique_index"`
	UserID           string `gorm:"index"`
	StoreID          string `gorm:"index"`
	Level            string
	TotalMenusTarget int
	CompletedMenus   int
	StartTime        time.Time
	EndTime          *time.Time
	Status           string
}

// TableName sets the table name for GameSessionRecord
func (GameSessionRecord) TableName() string {
	return "game_sessions"
}

// Session statuses
const (
	SessionStatusInProgress = "IN_PROGRESS"
	SessionStatusCompleted  = "COMPLETED"
)

// ActionLogRecord is one persisted action log line
type ActionLogRecord struct {
	gorm.Model
	SessionID      string `gorm:"index"`
	ElapsedSeconds int
	ActionType     string
	MenuName       string
	BurnerNumber   int
	IngredientSKU  string
	AmountInput    float64
	ExpectedSKU    string
	ExpectedAmount float64
	IsCorrect      bool
	TimingCorrect  *bool
	ActionDetail   string
}

// TableName sets the table name for ActionLogRecord
func (ActionLogRecord) TableName() string {
	return "action_logs"
}

// NewActionLogRecord converts a log entry for storage
func NewActionLogRecord(sessionID string, e ActionLogEntry) *ActionLogRecord {
	return &ActionLogRecord{
		SessionID:      sessionID,
		ElapsedSeconds: e.ElapsedSeconds,
		ActionType:     string(e.ActionType),
		MenuName:       e.MenuName,
		BurnerNumber:   e.BurnerNumber,
		IngredientSKU:  e.IngredientSKU,
		AmountInput:    e.AmountInput,
		ExpectedSKU:    e.ExpectedSKU,
		ExpectedAmount: e.ExpectedAmount,
		IsCorrect:      e.IsCorrect,
		TimingCorrect:  e.TimingCorrect,
		ActionDetail:   e.Message,
	}
}

// Entry converts the record back to a log entry
func (r *ActionLogRecord) Entry() ActionLogEntry {
	return ActionLogEntry{
		ElapsedSeconds: r.ElapsedSeconds,
		ActionType:     ActionType(r.ActionType),
		MenuName:       r.MenuName,
		BurnerNumber:   r.BurnerNumber,
		IngredientSKU:  r.IngredientSKU,
		AmountInput:    r.AmountInput,
		ExpectedSKU:    r.ExpectedSKU,
		ExpectedAmount: r.ExpectedAmount,
		IsCorrect:      r.IsCorrect,
		TimingCorrect:  r.TimingCorrect,
		Message:        r.ActionDetail,
	}
}

// GameScoreRecord is the persisted final score of a session
type GameScoreRecord struct {
	gorm.Model
	SessionID                 string `gorm:"unique_index"`
	RecipeAccuracyScore       int
	SpeedScore                int
	BurnerUsageScore          int
	TotalScore                int
	TotalElapsedTimeSeconds   int
	AverageBurnerUsagePercent int
}

// TableName sets the table name for GameScoreRecord
func (GameScoreRecord) TableName() string {
	return "game_scores"
}

// RecipeRecord stores a catalog recipe with its steps as JSON text
type RecipeRecord struct {
	gorm.Model
	StoreID  string `gorm:"index"`
	RecipeID string
	MenuName string `gorm:"index"`
	Category string
	Steps    StepList `gorm:"type:text"`
}

// TableName sets the table name for RecipeRecord
func (RecipeRecord) TableName() string {
	return "recipes"
}

// Recipe converts the record to a domain recipe
func (r *RecipeRecord) Recipe() Recipe {
	return Recipe{
		ID:       r.RecipeID,
		MenuName: r.MenuName,
		Category: r.Category,
		Steps:    append([]Step{}, r.Steps...),
	}
}

// IngredientRecord stores a stocked ingredient
type IngredientRecord struct {
	gorm.Model
	StoreID        string `gorm:"index"`
	SKU            string `gorm:"index"`
	Name           string
	Category       string
	StandardAmount float64
	StandardUnit   string
}

// TableName sets the table name for IngredientRecord
func (IngredientRecord) TableName() string {
	return "ingredients_inventory"
}

// SeasoningRecord stores a seasoning slot
type SeasoningRecord struct {
	gorm.Model
	StoreID      string `gorm:"index"`
	Name         string
	BaseUnit     string
	PositionCode string
}

// TableName sets the table name for SeasoningRecord
func (SeasoningRecord) TableName() string {
	return "seasonings"
}
