package models

import "time"

// Pan and water temperatures in Celsius, rates per second
const (
	AmbientTemperature      = 25.0
	SmokingPointTemperature = 300.0
	MinStirFryTemperature   = 180.0
	OverheatingTemperature  = 360.0
	BurnedTemperature       = 400.0
	MaxSafeTemperature      = 420.0
	DryingTemperature       = 100.0

	BaseHeatRate = 25.2
	CoolRate     = 5.0

	WaterBoilTemperature = 100.0
	WaterHeatRate        = 2.5
)

// WaterBoilHold is how long water must stay at boiling point before it counts as boiling
const WaterBoilHold = 5 * time.Second

// HeatMultiplier maps a burner heat level to its heating factor
func HeatMultiplier(level int) float64 {
	switch level {
	case 1:
		return 0.78
	case 2:
		return 1.56
	case 3:
		return 1.82
	default:
		return 0
	}
}

// IngredientCooling is the temperature drop caused by adding an ingredient
func IngredientCooling(category IngredientCategory) float64 {
	switch category {
	case CategoryVegetable:
		return 40
	case CategorySeafood:
		return 45
	case CategoryEgg:
		return 20
	case CategoryRice:
		return 15
	case CategorySeasoning:
		return 5
	case CategoryWater:
		return 60
	case CategoryBroth:
		return 50
	default:
		return 0
	}
}

// ActionCooling is the temperature drop caused by a cooking action.
// ADD_WATER is not a delta: it resets the pan to ambient.
func ActionCooling(action ActionType) float64 {
	switch action {
	case ActionStirFry:
		return 10
	case ActionFlip:
		return 8
	case ActionAddBroth:
		return IngredientCooling(CategoryBroth)
	default:
		return 0
	}
}

// TemperatureRange represents an acceptable band of pan temperatures
type TemperatureRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// StirFryRange is the band where stir-frying works without smoking the oil
var StirFryRange = TemperatureRange{Min: MinStirFryTemperature, Max: SmokingPointTemperature}

// Contains checks if a temperature is within the range
func (r TemperatureRange) Contains(temp float64) bool {
	return temp >= r.Min && temp <= r.Max
}

// Adjustment calculates the change needed to bring a temperature into range
func (r TemperatureRange) Adjustment(temp float64) float64 {
	if temp < r.Min {
		return r.Min - temp
	}
	if temp > r.Max {
		return r.Max - temp
	}
	return 0
}

// ClampTemperature keeps a pan temperature within the physical bounds
func ClampTemperature(temp float64) float64 {
	if temp < AmbientTemperature {
		return AmbientTemperature
	}
	if temp > MaxSafeTemperature {
		return MaxSafeTemperature
	}
	return temp
}
