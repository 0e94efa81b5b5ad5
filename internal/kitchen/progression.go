package kitchen

import (
	"fmt"
	"strings"

	"kitchensim/internal/catalog"
	"kitchensim/internal/models"
)

// Outcome classifies what an input did to a wok
type Outcome string

const (
	// OutcomeAccepted means the input was correct and the step is not done yet.
	OutcomeAccepted Outcome = "ACCEPTED"
	// OutcomeAdvanced means the input completed the current step.
	OutcomeAdvanced Outcome = "ADVANCED"
	// OutcomeError means the input was wrong but tolerated.
	OutcomeError Outcome = "ERROR"
	// OutcomeRejected means the input had no effect on the wok.
	OutcomeRejected Outcome = "REJECTED"
	// OutcomeBurned means the input failed the wok.
	OutcomeBurned Outcome = "BURNED"
)

// Result reports the effect of one ingredient or action input
type Result struct {
	Outcome Outcome `json:"outcome"`
	// Reason is nil unless the input was wrong.
	Reason    error `json:"-"`
	StepIndex int   `json:"step_index"`
	Advanced  bool  `json:"advanced"`
	Complete  bool  `json:"complete"`
	// Suggestion is the closest expected SKU when the input looks like a typo.
	Suggestion string `json:"suggestion,omitempty"`
	Message    string `json:"message"`
}

// ReasonText returns the reason message, empty for a correct input
func (r Result) ReasonText() string {
	if r.Reason == nil {
		return ""
	}
	return r.Reason.Error()
}

func rejected(reason error) Result {
	return Result{Outcome: OutcomeRejected, Reason: reason, Message: reason.Error()}
}

// ApplyIngredient adds an ingredient, or a seasoning when isSeasoning is set,
// to the wok on burner. Seasoning input may be a full SEASONING:<name>:<amount>
// SKU or just the seasoning name.
func (s *GameSession) ApplyIngredient(burner int, sku string, amount float64, isSeasoning bool) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return rejected(ErrSessionEnded)
	}
	idx, err := s.wokIndex(burner)
	if err != nil {
		return rejected(err)
	}
	w := &s.woks[idx]

	action := models.ActionAddIngredient
	if isSeasoning {
		action = models.ActionAddSeasoning
	}
	entry := s.entry(action, w, false, "")
	entry.IngredientSKU = sku
	entry.AmountInput = amount

	if !w.HasSession() {
		return s.reject(entry, w, ErrNoMenu)
	}
	if w.RecipeComplete() {
		return s.reject(entry, w, ErrRecipeComplete)
	}
	step, ok := s.currentStep(w)
	if !ok {
		return s.reject(entry, w, ErrRecipeComplete)
	}

	category := s.catalog.CategoryOf(sku)
	if isSeasoning {
		category = models.CategorySeasoning
	}
	effect := func(w *models.Wok) { applyCooling(w, models.IngredientCooling(category)) }

	if step.Kind == models.StepKindAction {
		entry.ExpectedSKU = string(step.ActionType)
		return s.mismatch(idx, entry, ErrIngredientMismatch, "", effect)
	}

	reqs := s.catalog.GetStepIngredients(w.CurrentMenu, w.CurrentStepIndex)
	name := sku
	if isSeasoning {
		name = catalog.SeasoningName(sku)
	}
	matches := func(req models.IngredientRequirement) bool {
		if isSeasoning {
			return catalog.SeasoningNameMatches(req.SKU, name)
		}
		return req.SKU == sku
	}

	var pending []models.IngredientRequirement
	for _, req := range reqs {
		if !w.HasAdded(req.SKU) {
			pending = append(pending, req)
		}
	}

	for _, req := range pending {
		if !matches(req) || !catalog.AmountsEqual(req.Amount, amount) {
			continue
		}
		entry.ExpectedSKU = req.SKU
		entry.ExpectedAmount = req.Amount
		if step.RequiresBoiling && !w.IsBoiling {
			return s.mismatch(idx, entry, ErrNotBoiling, "", effect)
		}

		effect(w)
		w.AddedSKUs = append(w.AddedSKUs, req.SKU)
		res := Result{Outcome: OutcomeAccepted, StepIndex: w.CurrentStepIndex}
		if len(pending) == 1 {
			s.advance(w, step)
			res.Outcome = OutcomeAdvanced
			res.Advanced = true
		}
		res.Complete = w.RecipeComplete()
		res.Message = fmt.Sprintf("%s added", req.SKU)

		entry.IsCorrect = true
		entry.Message = res.Message
		s.record(entry)
		return res
	}

	for _, req := range reqs {
		if w.HasAdded(req.SKU) && matches(req) {
			entry.ExpectedSKU = req.SKU
			entry.ExpectedAmount = req.Amount
			return s.reject(entry, w, ErrDuplicateSKU)
		}
	}

	if len(pending) > 0 {
		entry.ExpectedSKU = pending[0].SKU
		entry.ExpectedAmount = pending[0].Amount
		for _, req := range pending {
			if matches(req) {
				entry.ExpectedSKU = req.SKU
				entry.ExpectedAmount = req.Amount
				break
			}
		}
	}
	suggestion := suggestFor(name, pending, isSeasoning)
	return s.mismatch(idx, entry, ErrIngredientMismatch, suggestion, effect)
}

// ApplyAction performs a cooking action on the wok on burner. STIR_FRY
// outside its own step is accepted as temperature control.
func (s *GameSession) ApplyAction(burner int, action models.ActionType) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return rejected(ErrSessionEnded)
	}
	if !action.IsCookingAction() {
		return rejected(fmt.Errorf("%s: %w", action, ErrInvalidAction))
	}
	idx, err := s.wokIndex(burner)
	if err != nil {
		return rejected(err)
	}
	w := &s.woks[idx]
	entry := s.entry(action, w, false, "")

	if !w.HasSession() {
		return s.reject(entry, w, ErrNoMenu)
	}
	step, ok := s.currentStep(w)
	if !ok {
		if action == models.ActionStirFry {
			return s.stirForHeat(w, entry)
		}
		return s.reject(entry, w, ErrRecipeComplete)
	}
	effect := func(w *models.Wok) { applyActionEffect(w, action) }

	if step.Kind != models.StepKindAction {
		if action == models.ActionStirFry {
			return s.stirForHeat(w, entry)
		}
		return s.outsideStep(idx, entry, effect)
	}

	entry.ExpectedSKU = string(step.ActionType)
	if step.ActionType != action {
		if action == models.ActionStirFry {
			return s.stirForHeat(w, entry)
		}
		return s.mismatch(idx, entry, ErrActionMismatch, "", effect)
	}
	if step.RequiresBoiling && !w.IsBoiling {
		return s.mismatch(idx, entry, ErrNotBoiling, "", effect)
	}

	if limit := step.TimeLimit(); limit > 0 && s.now-w.StepStartedAt > limit {
		return s.timingViolation(idx, entry, step, effect)
	}

	effect(w)
	stepIndex := w.CurrentStepIndex
	s.advance(w, step)
	onTime := true
	entry.TimingCorrect = &onTime
	entry.IsCorrect = true
	entry.Message = fmt.Sprintf("%s done", action)
	s.record(entry)
	return Result{
		Outcome:   OutcomeAdvanced,
		StepIndex: stepIndex,
		Advanced:  true,
		Complete:  w.RecipeComplete(),
		Message:   entry.Message,
	}
}

// suggestFor looks for a likely typo of one of the pending requirements. An
// input naming a pending requirement exactly gets no suggestion.
func suggestFor(name string, pending []models.IngredientRequirement, isSeasoning bool) string {
	var candidates []string
	for _, req := range pending {
		if !isSeasoning {
			candidates = append(candidates, req.SKU)
			continue
		}
		if n, _, _, ok := catalog.ParseSeasoningSKU(req.SKU); ok {
			candidates = append(candidates, n)
		}
	}
	suggestion, ok := catalog.Suggest(name, candidates)
	if !ok || strings.EqualFold(suggestion, name) {
		return ""
	}
	return suggestion
}

func (s *GameSession) currentStep(w *models.Wok) (models.Step, bool) {
	recipe := s.catalog.GetRecipeByMenuName(w.CurrentMenu)
	if recipe == nil {
		return models.Step{}, false
	}
	return recipe.StepAt(w.CurrentStepIndex)
}

// advance moves the wok to its next step. Water used by a boiling step is
// drained.
func (s *GameSession) advance(w *models.Wok, step models.Step) {
	if step.RequiresBoiling {
		w.ClearWater()
	}
	if w.CurrentStepIndex < w.TotalSteps {
		w.CurrentStepIndex++
	}
	w.AddedSKUs = []string{}
	w.StepStartedAt = s.now
}

func (s *GameSession) reject(entry models.ActionLogEntry, w *models.Wok, reason error) Result {
	entry.Message = reason.Error()
	s.record(entry)
	res := rejected(reason)
	res.StepIndex = w.CurrentStepIndex
	res.Complete = w.RecipeComplete()
	return res
}

func (s *GameSession) stirForHeat(w *models.Wok, entry models.ActionLogEntry) Result {
	applyActionEffect(w, models.ActionStirFry)
	entry.IsCorrect = true
	entry.Message = "stir-fry for temperature control"
	s.record(entry)
	return Result{
		Outcome:   OutcomeAccepted,
		StepIndex: w.CurrentStepIndex,
		Complete:  w.RecipeComplete(),
		Message:   entry.Message,
	}
}

// mismatch handles a wrong ingredient, amount or action per the policy.
func (s *GameSession) mismatch(idx int, entry models.ActionLogEntry, reason error, suggestion string, effect func(*models.Wok)) Result {
	w := &s.woks[idx]
	switch s.policy.OnMismatch {
	case VerdictTolerate:
		effect(w)
		w.RecipeErrorCount++
		entry.Message = reason.Error()
		s.record(entry)
		return Result{
			Outcome:    OutcomeError,
			Reason:     reason,
			StepIndex:  w.CurrentStepIndex,
			Suggestion: suggestion,
			Message:    entry.Message,
		}
	case VerdictBurn:
		return s.burnFor(idx, entry, reason)
	default:
		res := s.reject(entry, w, reason)
		res.Suggestion = suggestion
		return res
	}
}

// outsideStep handles a cooking action while the step wants ingredients.
func (s *GameSession) outsideStep(idx int, entry models.ActionLogEntry, effect func(*models.Wok)) Result {
	w := &s.woks[idx]
	switch s.policy.OnActionOutsideStep {
	case VerdictTolerate:
		effect(w)
		entry.Message = ErrNotActionStep.Error()
		s.record(entry)
		return Result{
			Outcome:   OutcomeError,
			Reason:    ErrNotActionStep,
			StepIndex: w.CurrentStepIndex,
			Message:   entry.Message,
		}
	case VerdictBurn:
		return s.burnFor(idx, entry, ErrNotActionStep)
	default:
		return s.reject(entry, w, ErrNotActionStep)
	}
}

// timingViolation handles the right action performed too late.
func (s *GameSession) timingViolation(idx int, entry models.ActionLogEntry, step models.Step, effect func(*models.Wok)) Result {
	w := &s.woks[idx]
	late := false
	entry.TimingCorrect = &late
	switch s.policy.OnTimingViolation {
	case VerdictTolerate:
		effect(w)
		w.RecipeErrorCount++
		stepIndex := w.CurrentStepIndex
		s.advance(w, step)
		entry.Message = ErrTimeLimitExceeded.Error()
		s.record(entry)
		return Result{
			Outcome:   OutcomeError,
			Reason:    ErrTimeLimitExceeded,
			StepIndex: stepIndex,
			Advanced:  true,
			Complete:  w.RecipeComplete(),
			Message:   entry.Message,
		}
	case VerdictBurn:
		return s.burnFor(idx, entry, ErrTimeLimitExceeded)
	default:
		return s.reject(entry, w, ErrTimeLimitExceeded)
	}
}

// burnFor fails the wok because of a faulty input. The order goes back to
// the queue.
func (s *GameSession) burnFor(idx int, entry models.ActionLogEntry, reason error) Result {
	w := &s.woks[idx]
	stepIndex := w.CurrentStepIndex
	entry.Message = reason.Error()
	s.record(entry)

	burned := s.entry(models.ActionBurned, w, false, fmt.Sprintf("burner %d: wok burned (%s)", w.BurnerNumber, reason))
	s.releaseAndRequeue(idx, models.WokBurned)
	s.record(burned)
	s.log.Info("session %s: burner %d burned by %s", s.id, w.BurnerNumber, reason)

	return Result{
		Outcome:   OutcomeBurned,
		Reason:    reason,
		StepIndex: stepIndex,
		Message:   burned.Message,
	}
}
