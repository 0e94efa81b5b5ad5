package kitchen

import (
	"time"

	"kitchensim/internal/models"
)

// WokView is a wok as shown to players
type WokView struct {
	models.Wok
	InStirFryRange    bool    `json:"in_stir_fry_range"`
	// StirFryAdjustment is the temperature change that would bring the wok
	// into the stir-fry band, zero when it is already there.
	StirFryAdjustment float64 `json:"stir_fry_adjustment"`
	ReadyToServe      bool    `json:"ready_to_serve"`
	Instruction       string  `json:"instruction,omitempty"`
}

// Snapshot is a consistent copy of the whole session state
type Snapshot struct {
	SessionID       string             `json:"session_id"`
	Level           models.GameLevel   `json:"level"`
	Policy          string             `json:"policy"`
	ElapsedSeconds  int                `json:"elapsed_seconds"`
	Woks            []WokView          `json:"woks"`
	Orders          []models.MenuOrder `json:"orders"`
	CompletedOrders int                `json:"completed_orders"`
	TargetMenus     int                `json:"target_menus"`
	Finished        bool               `json:"finished"`
	Ended           bool               `json:"ended"`
}

// Snapshot copies the session state under one lock.
func (s *GameSession) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID:       s.id,
		Level:           s.level,
		Policy:          s.policy.Name,
		ElapsedSeconds:  int(s.now / time.Second),
		Orders:          s.queue.List(),
		CompletedOrders: s.completed,
		TargetMenus:     s.targetMenus,
		Finished:        s.completed >= s.targetMenus,
		Ended:           s.ended,
	}
	for i := range s.woks {
		w := s.woks[i].Clone()
		view := WokView{
			Wok:               w,
			InStirFryRange:    models.StirFryRange.Contains(w.Temperature),
			StirFryAdjustment: models.StirFryRange.Adjustment(w.Temperature),
			ReadyToServe:      w.RecipeComplete(),
		}
		if step, ok := s.currentStep(&w); ok && w.HasSession() {
			view.Instruction = step.Instruction
		}
		snap.Woks = append(snap.Woks, view)
	}
	return snap
}
