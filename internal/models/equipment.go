package models

import (
	"time"
)

// BurnerCount is the number of stoves in the kitchen
const BurnerCount = 3

// WokState represents the discrete condition of a wok
type WokState string

const (
	// Wok states
	WokClean       WokState = "CLEAN"
	WokWet         WokState = "WET"
	WokDirty       WokState = "DIRTY"
	WokBurned      WokState = "BURNED"
	WokOverheating WokState = "OVERHEATING"
)

// WokPosition represents where a wok physically is during a wash
type WokPosition string

const (
	// Wok positions
	PositionAtBurner       WokPosition = "AT_BURNER"
	PositionMovingToSink   WokPosition = "MOVING_TO_SINK"
	PositionAtSink         WokPosition = "AT_SINK"
	PositionMovingToBurner WokPosition = "MOVING_TO_BURNER"
)

// Wok represents one burner and the pan on it. Times are session durations.
type Wok struct {
	BurnerNumber int            `json:"burner_number"`
	IsOn         bool           `json:"is_on"`
	HeatLevel    int            `json:"heat_level"`
	Temperature  float64        `json:"temperature"`
	HeatOnSince  *time.Duration `json:"heat_on_since,omitempty"`
	HeatOffSince *time.Duration `json:"heat_off_since,omitempty"`

	State             WokState      `json:"state"`
	StateEnteredAt    time.Duration `json:"state_entered_at"`
	Position          WokPosition   `json:"position"`
	PositionEnteredAt time.Duration `json:"position_entered_at"`
	PeakTemperature   float64       `json:"peak_temperature"`

	CurrentMenu      string        `json:"current_menu,omitempty"`
	CurrentOrderID   string        `json:"current_order_id,omitempty"`
	CurrentStepIndex int           `json:"current_step_index"`
	AddedSKUs        []string      `json:"added_skus"`
	RecipeErrorCount int           `json:"recipe_error_count"`
	TotalSteps       int           `json:"total_steps"`
	StepStartedAt    time.Duration `json:"step_started_at"`

	HasWater         bool           `json:"has_water"`
	WaterTemperature float64        `json:"water_temperature"`
	WaterAtBoilSince *time.Duration `json:"water_at_boil_since,omitempty"`
	IsBoiling        bool           `json:"is_boiling"`
	IsStirFrying     bool           `json:"is_stir_frying"`
}

// NewWok creates an idle, clean wok at ambient temperature
func NewWok(burner int) Wok {
	return Wok{
		BurnerNumber:    burner,
		HeatLevel:       2,
		Temperature:     AmbientTemperature,
		State:           WokClean,
		Position:        PositionAtBurner,
		PeakTemperature: AmbientTemperature,
		AddedSKUs:       []string{},
	}
}

// HasSession reports whether an order is being cooked in the wok
func (w *Wok) HasSession() bool {
	return w.CurrentMenu != ""
}

// HasAdded reports whether a SKU was already accepted in the current step
func (w *Wok) HasAdded(sku string) bool {
	for _, added := range w.AddedSKUs {
		if added == sku {
			return true
		}
	}
	return false
}

// RecipeComplete reports whether every step has been completed
func (w *Wok) RecipeComplete() bool {
	return w.HasSession() && w.CurrentStepIndex >= w.TotalSteps
}

// ClearSession drops the cooking session fields
func (w *Wok) ClearSession() {
	w.CurrentMenu = ""
	w.CurrentOrderID = ""
	w.CurrentStepIndex = 0
	w.AddedSKUs = []string{}
	w.RecipeErrorCount = 0
	w.TotalSteps = 0
	w.StepStartedAt = 0
	w.IsStirFrying = false
	w.ClearWater()
}

// ClearWater drops the water sub-state
func (w *Wok) ClearWater() {
	w.HasWater = false
	w.WaterTemperature = 0
	w.WaterAtBoilSince = nil
	w.IsBoiling = false
}

// Clone returns a copy that shares no mutable state with the original
func (w Wok) Clone() Wok {
	c := w
	c.AddedSKUs = append([]string{}, w.AddedSKUs...)
	c.HeatOnSince = cloneDuration(w.HeatOnSince)
	c.HeatOffSince = cloneDuration(w.HeatOffSince)
	c.WaterAtBoilSince = cloneDuration(w.WaterAtBoilSince)
	return c
}

func cloneDuration(d *time.Duration) *time.Duration {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
