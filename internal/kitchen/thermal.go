package kitchen

import (
	"math"
	"time"

	"kitchensim/internal/models"
)

// ThermalConfig holds the thresholds that drive the wok state machine
type ThermalConfig struct {
	OverheatAt float64 `yaml:"overheat_at"`
	BurnAt     float64 `yaml:"burn_at"`
	DryAt      float64 `yaml:"dry_at"`
	// DryTime dries a wet wok after this long with the heat on, whatever
	// its temperature. Zero disables it.
	DryTime time.Duration `yaml:"dry_time"`
	// OverheatCooldown returns an overheating wok to clean after this long
	// with the heat off. Zero disables it.
	OverheatCooldown time.Duration `yaml:"overheat_cooldown"`
}

// DefaultThermalConfig returns the standard kitchen thresholds
func DefaultThermalConfig() ThermalConfig {
	return ThermalConfig{
		OverheatAt:       models.OverheatingTemperature,
		BurnAt:           models.BurnedTemperature,
		DryAt:            models.DryingTemperature,
		DryTime:          5 * time.Second,
		OverheatCooldown: 10 * time.Second,
	}
}

// NextTemperature is the pan temperature one second later. Heating slows as
// the pan approaches MaxSafeTemperature; cooling is linear down to ambient.
func NextTemperature(temp float64, isOn bool, heatLevel int) float64 {
	if !isOn {
		return math.Max(temp-models.CoolRate, models.AmbientTemperature)
	}
	ratio := (models.MaxSafeTemperature - temp) / (models.MaxSafeTemperature - models.AmbientTemperature)
	if ratio < 0 {
		ratio = 0
	}
	next := temp + models.BaseHeatRate*models.HeatMultiplier(heatLevel)*ratio*ratio
	return models.ClampTemperature(next)
}

// StepThermal advances a wok's temperature and water by one second ending at
// session time now. It returns a new wok and never modifies its argument.
func StepThermal(w models.Wok, now time.Duration) models.Wok {
	next := w.Clone()
	next.IsStirFrying = false

	if next.HasWater {
		stepWater(&next, now)
		next.Temperature = models.ClampTemperature(next.WaterTemperature)
	} else {
		next.Temperature = NextTemperature(next.Temperature, next.IsOn, next.HeatLevel)
	}

	if next.Temperature > next.PeakTemperature {
		next.PeakTemperature = next.Temperature
	}
	return next
}

func stepWater(w *models.Wok, now time.Duration) {
	if !w.IsOn {
		w.WaterTemperature = math.Max(w.WaterTemperature-models.CoolRate, models.AmbientTemperature)
		w.WaterAtBoilSince = nil
		w.IsBoiling = false
		return
	}

	w.WaterTemperature = math.Min(w.WaterTemperature+models.WaterHeatRate, models.WaterBoilTemperature)
	if w.WaterTemperature < models.WaterBoilTemperature {
		return
	}
	if w.WaterAtBoilSince == nil {
		since := now
		w.WaterAtBoilSince = &since
	}
	if now-*w.WaterAtBoilSince >= models.WaterBoilHold {
		w.IsBoiling = true
	}
}

// applyCooling drops pan temperature, and water temperature when there is
// water, by delta.
func applyCooling(w *models.Wok, delta float64) {
	if delta <= 0 {
		return
	}
	w.Temperature = models.ClampTemperature(w.Temperature - delta)
	if w.HasWater {
		w.WaterTemperature = math.Max(w.WaterTemperature-delta, models.AmbientTemperature)
		if w.WaterTemperature < models.WaterBoilTemperature {
			w.WaterAtBoilSince = nil
			w.IsBoiling = false
		}
	}
}

// addWater resets the pan to ambient and starts the water sub-model.
func addWater(w *models.Wok) {
	w.Temperature = models.AmbientTemperature
	w.HasWater = true
	w.WaterTemperature = models.AmbientTemperature
	w.WaterAtBoilSince = nil
	w.IsBoiling = false
}

// applyActionEffect applies the physical effect of a cooking action.
func applyActionEffect(w *models.Wok, action models.ActionType) {
	switch action {
	case models.ActionAddWater:
		addWater(w)
	case models.ActionStirFry:
		w.IsStirFrying = true
		applyCooling(w, models.ActionCooling(action))
	default:
		applyCooling(w, models.ActionCooling(action))
	}
}
