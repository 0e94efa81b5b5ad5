package kitchen

import "kitchensim/internal/models"

// Verdict is what the progression engine does with a faulty input
type Verdict int

const (
	// VerdictReject leaves the wok untouched.
	VerdictReject Verdict = iota
	// VerdictTolerate applies the input's physical effect and keeps playing.
	VerdictTolerate
	// VerdictBurn fails the wok outright.
	VerdictBurn
)

func (v Verdict) String() string {
	switch v {
	case VerdictReject:
		return "reject"
	case VerdictTolerate:
		return "tolerate"
	case VerdictBurn:
		return "burn"
	default:
		return "unknown"
	}
}

// StrictnessPolicy holds the difficulty behavior matrix consulted at every
// validation point.
type StrictnessPolicy struct {
	Name string
	// OnMismatch applies to a wrong ingredient, wrong amount or wrong action.
	// Tolerated mismatches add one recipe error and never advance.
	OnMismatch Verdict
	// OnTimingViolation applies to a correct action after its time limit.
	// Tolerated violations add one recipe error and still advance.
	OnTimingViolation Verdict
	// OnActionOutsideStep applies to a cooking action while the current
	// step wants ingredients. Tolerated ones apply their effect only.
	OnActionOutsideStep Verdict
}

// StrictPolicy hard-fails on any mistake.
func StrictPolicy() StrictnessPolicy {
	return StrictnessPolicy{
		Name:                "strict",
		OnMismatch:          VerdictReject,
		OnTimingViolation:   VerdictBurn,
		OnActionOutsideStep: VerdictReject,
	}
}

// RelaxedPolicy keeps the game moving and penalizes the score instead.
func RelaxedPolicy() StrictnessPolicy {
	return StrictnessPolicy{
		Name:                "relaxed",
		OnMismatch:          VerdictTolerate,
		OnTimingViolation:   VerdictTolerate,
		OnActionOutsideStep: VerdictTolerate,
	}
}

// PolicyForLevel maps the lowest difficulty to strict and the rest to relaxed.
func PolicyForLevel(level models.GameLevel) StrictnessPolicy {
	if level == models.LevelBeginner {
		return StrictPolicy()
	}
	return RelaxedPolicy()
}
