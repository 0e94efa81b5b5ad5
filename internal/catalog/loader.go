package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"kitchensim/internal/models"
)

var ErrInvalidJSON = errors.New("catalog export is not valid JSON")

// LoadStats counts what a load added to the catalog
type LoadStats struct {
	Recipes     int `json:"recipes"`
	Ingredients int `json:"ingredients"`
	Seasonings  int `json:"seasonings"`
}

// LoadFile reads a store export from disk into the catalog
func (c *Catalog) LoadFile(path string) (LoadStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LoadStats{}, fmt.Errorf("failed to read catalog export: %w", err)
	}
	return c.LoadJSON(string(data))
}

// LoadJSON parses a store export with top-level "recipes", "ingredients"
// and "seasonings" arrays, using the row shapes of the store backend.
// Invalid recipes are skipped and reported together; valid rows still load.
func (c *Catalog) LoadJSON(data string) (LoadStats, error) {
	if !gjson.Valid(data) {
		return LoadStats{}, ErrInvalidJSON
	}

	var stats LoadStats
	var errs []error

	gjson.Get(data, "ingredients").ForEach(func(_, v gjson.Result) bool {
		sku := v.Get("sku_full").String()
		if sku == "" {
			return true
		}
		name := v.Get("ingredient_master.ingredient_name").String()
		if name == "" {
			name = v.Get("name").String()
		}
		category := v.Get("ingredient_master.category")
		if !category.Exists() {
			category = v.Get("category")
		}
		c.AddIngredient(models.Ingredient{
			SKU:            sku,
			Name:           name,
			Category:       models.ParseIngredientCategory(category.String()),
			StandardAmount: v.Get("standard_amount").Float(),
			StandardUnit:   v.Get("standard_unit").String(),
		})
		stats.Ingredients++
		return true
	})

	gjson.Get(data, "seasonings").ForEach(func(_, v gjson.Result) bool {
		name := v.Get("seasoning_name").String()
		if name == "" {
			return true
		}
		c.AddSeasoning(models.Seasoning{
			Name:         name,
			BaseUnit:     v.Get("base_unit").String(),
			PositionCode: v.Get("position_code").String(),
		})
		stats.Seasonings++
		return true
	})

	gjson.Get(data, "recipes").ForEach(func(_, v gjson.Result) bool {
		recipe := parseRecipe(v)
		if err := c.AddRecipe(recipe); err != nil {
			errs = append(errs, err)
			return true
		}
		stats.Recipes++
		return true
	})

	return stats, errors.Join(errs...)
}

func parseRecipe(v gjson.Result) models.Recipe {
	r := models.Recipe{
		ID:       v.Get("id").String(),
		MenuName: v.Get("menu_name").String(),
		Category: v.Get("category").String(),
	}
	v.Get("steps").ForEach(func(_, s gjson.Result) bool {
		r.Steps = append(r.Steps, parseStep(s))
		return true
	})
	return r
}

func parseStep(s gjson.Result) models.Step {
	step := models.Step{
		StepNumber:       int(s.Get("step_number").Int()),
		Kind:             models.StepKind(s.Get("step_type").String()),
		ActionType:       models.ActionType(s.Get("action_type").String()),
		TimeLimitSeconds: int(s.Get("time_limit_seconds").Int()),
		RequiresBoiling:  s.Get("requires_boiling").Bool(),
		Instruction:      s.Get("instruction").String(),
	}
	s.Get("ingredients").ForEach(func(_, i gjson.Result) bool {
		step.Ingredients = append(step.Ingredients, models.IngredientRequirement{
			SKU:    i.Get("required_sku").String(),
			Amount: i.Get("required_amount").Float(),
			Unit:   i.Get("required_unit").String(),
		})
		return true
	})
	return step
}
