package models

import "strings"

// IngredientCategory determines how much an ingredient cools the pan
type IngredientCategory string

const (
	// Ingredient categories
	CategoryVegetable IngredientCategory = "VEGETABLE"
	CategorySeafood   IngredientCategory = "SEAFOOD"
	CategoryEgg       IngredientCategory = "EGG"
	CategoryRice      IngredientCategory = "RICE"
	CategorySeasoning IngredientCategory = "SEASONING"
	CategoryWater     IngredientCategory = "WATER"
	CategoryBroth     IngredientCategory = "BROTH"
	CategoryOther     IngredientCategory = "OTHER"
)

// ParseIngredientCategory maps a free-form category label onto a known category
func ParseIngredientCategory(label string) IngredientCategory {
	switch c := IngredientCategory(strings.ToUpper(strings.TrimSpace(label))); c {
	case CategoryVegetable, CategorySeafood, CategoryEgg, CategoryRice,
		CategorySeasoning, CategoryWater, CategoryBroth:
		return c
	case "VEG", "VEGETABLES":
		return CategoryVegetable
	case "FISH", "SHELLFISH":
		return CategorySeafood
	case "EGGS":
		return CategoryEgg
	case "NOODLE", "GRAIN":
		return CategoryRice
	case "SAUCE", "SPICE":
		return CategorySeasoning
	case "STOCK", "SOUP":
		return CategoryBroth
	default:
		return CategoryOther
	}
}

// Ingredient represents a stocked ingredient with its standard portion
type Ingredient struct {
	SKU            string             `json:"sku"`
	Name           string             `json:"name"`
	Category       IngredientCategory `json:"category"`
	StandardAmount float64            `json:"standard_amount"`
	StandardUnit   string             `json:"standard_unit"`
}

// Seasoning represents a seasoning station slot
type Seasoning struct {
	Name         string `json:"name"`
	BaseUnit     string `json:"base_unit"`
	PositionCode string `json:"position_code,omitempty"`
}
