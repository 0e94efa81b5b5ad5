package kitchen

import "errors"

// Input rejections and mismatches reported through Result.Reason.
var (
	ErrNoMenu             = errors.New("no menu assigned to wok")
	ErrDuplicateSKU       = errors.New("ingredient already added in this step")
	ErrIngredientMismatch = errors.New("ingredient does not match the current step")
	ErrActionMismatch     = errors.New("action does not match the current step")
	ErrNotActionStep      = errors.New("current step is not an action step")
	ErrTimeLimitExceeded  = errors.New("action performed after the step time limit")
	ErrNotBoiling         = errors.New("step needs boiling water")
	ErrRecipeComplete     = errors.New("recipe already complete")
	ErrInvalidAction      = errors.New("not a cooking action")
)

// Errors returned by session operations.
var (
	ErrUnknownBurner    = errors.New("unknown burner")
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderNotWaiting  = errors.New("order is not waiting")
	ErrWokNotReady      = errors.New("wok is not clean and idle")
	ErrUnknownMenu      = errors.New("menu not in catalog")
	ErrHeatOn           = errors.New("burner must be off")
	ErrWokNotWashable   = errors.New("only dirty or burned woks can be washed")
	ErrRecipeIncomplete = errors.New("recipe not complete")
	ErrWokAway          = errors.New("wok is away from the burner")
	ErrInvalidHeat      = errors.New("heat level must be 1, 2 or 3")
	ErrSessionEnded     = errors.New("session has ended")
	ErrEmptyCatalog     = errors.New("catalog has no recipes")
	ErrSpawnCount       = errors.New("spawn count out of range")
)
