package kitchen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchensim/internal/models"
)

func TestNextTemperature(t *testing.T) {
	testCases := []struct {
		name  string
		temp  float64
		isOn  bool
		level int
		want  float64
	}{
		{"off cools linearly", 200, false, 2, 195},
		{"off stops at ambient", 27, false, 2, 25},
		{"high heat from ambient", 25, true, 3, 25 + 25.2*1.82},
		{"low heat from ambient", 25, true, 1, 25 + 25.2*0.78},
		{"no gain at max safe", 420, true, 3, 420},
		{"unknown level does not heat", 100, true, 0, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, NextTemperature(tc.temp, tc.isOn, tc.level), 1e-9)
		})
	}
}

func TestNextTemperature_BurnTimes(t *testing.T) {
	testCases := []struct {
		level      int
		overheatAt int
		burnAt     int
	}{
		{3, 47, 159},
		{2, 55, 186},
		{1, 111, 374},
	}

	for _, tc := range testCases {
		temp := models.AmbientTemperature
		overheat, burn := 0, 0
		for i := 1; burn == 0 && i < 1000; i++ {
			temp = NextTemperature(temp, true, tc.level)
			if overheat == 0 && temp >= models.OverheatingTemperature {
				overheat = i
			}
			if temp >= models.BurnedTemperature {
				burn = i
			}
		}
		assert.Equal(t, tc.overheatAt, overheat, "level %d overheat", tc.level)
		assert.Equal(t, tc.burnAt, burn, "level %d burn", tc.level)
	}
}

func TestStepThermal_Pure(t *testing.T) {
	w := models.NewWok(1)
	w.IsOn = true
	w.HeatLevel = 3
	w.AddedSKUs = []string{eggSKU}
	w.IsStirFrying = true

	first := StepThermal(w, time.Second)
	second := StepThermal(w, time.Second)

	assert.Equal(t, first, second)
	assert.Equal(t, models.AmbientTemperature, w.Temperature, "input is not modified")
	assert.True(t, w.IsStirFrying)
	assert.False(t, first.IsStirFrying)
	assert.Greater(t, first.Temperature, w.Temperature)
	assert.Equal(t, first.Temperature, first.PeakTemperature)

	first.AddedSKUs[0] = "changed"
	assert.Equal(t, eggSKU, w.AddedSKUs[0])
}

func TestStepThermal_WaterBoils(t *testing.T) {
	w := models.NewWok(1)
	w.IsOn = true
	w.Temperature = 250
	addWater(&w)
	assert.Equal(t, models.AmbientTemperature, w.Temperature)

	for i := 1; i <= 34; i++ {
		w = StepThermal(w, time.Duration(i)*time.Second)
	}
	assert.Equal(t, models.WaterBoilTemperature, w.WaterTemperature)
	assert.Equal(t, w.WaterTemperature, w.Temperature, "pan follows the water")
	require.NotNil(t, w.WaterAtBoilSince)
	assert.Equal(t, 30*time.Second, *w.WaterAtBoilSince)
	assert.False(t, w.IsBoiling)

	w = StepThermal(w, 35*time.Second)
	assert.True(t, w.IsBoiling)

	w.IsOn = false
	w = StepThermal(w, 36*time.Second)
	assert.False(t, w.IsBoiling)
	assert.Nil(t, w.WaterAtBoilSince)
	assert.Equal(t, 95.0, w.WaterTemperature)
}

func TestApplyCooling(t *testing.T) {
	w := models.NewWok(1)
	w.Temperature = 30
	applyCooling(&w, models.IngredientCooling(models.CategoryVegetable))
	assert.Equal(t, models.AmbientTemperature, w.Temperature, "never below ambient")

	w.Temperature = 200
	applyActionEffect(&w, models.ActionStirFry)
	assert.Equal(t, 190.0, w.Temperature)
	assert.True(t, w.IsStirFrying)

	applyActionEffect(&w, models.ActionAddWater)
	assert.True(t, w.HasWater)
	assert.Equal(t, models.AmbientTemperature, w.Temperature)
}
