// Package catalog holds the recipe, ingredient and seasoning data a kitchen
// session cooks from.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"kitchensim/internal/models"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// Catalog holds recipes, ingredients and seasonings in memory. Safe for
// concurrent use. Recipes returned by lookups must not be modified.
type Catalog struct {
	mu          sync.RWMutex
	recipes     map[string]*models.Recipe
	ingredients map[string]models.Ingredient
	seasonings  map[string]models.Seasoning
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		recipes:     make(map[string]*models.Recipe),
		ingredients: make(map[string]models.Ingredient),
		seasonings:  make(map[string]models.Seasoning),
	}
}

// AddRecipe normalizes, validates and stores a recipe under its menu name,
// replacing any recipe with the same name.
func (c *Catalog) AddRecipe(r models.Recipe) error {
	r.Steps = append([]models.Step{}, r.Steps...)
	r.Normalize()
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid recipe: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.recipes[r.MenuName] = &r
	return nil
}

func (c *Catalog) AddIngredient(i models.Ingredient) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ingredients[i.SKU] = i
}

func (c *Catalog) AddSeasoning(s models.Seasoning) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seasonings[s.Name] = s
}

// GetRecipeByMenuName returns the recipe for a menu, or nil when unknown
func (c *Catalog) GetRecipeByMenuName(name string) *models.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.recipes[name]
}

// GetStepIngredients returns the ingredient requirements of one step.
// Action steps and out-of-range indexes yield nil.
func (c *Catalog) GetStepIngredients(menuName string, stepIndex int) []models.IngredientRequirement {
	r := c.GetRecipeByMenuName(menuName)
	if r == nil {
		return nil
	}
	step, ok := r.StepAt(stepIndex)
	if !ok || step.Kind != models.StepKindIngredient {
		return nil
	}
	return append([]models.IngredientRequirement{}, step.Ingredients...)
}

// IngredientBySKU looks up a stocked ingredient
func (c *Catalog) IngredientBySKU(sku string) (models.Ingredient, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.ingredients[sku]
	return i, ok
}

// CategoryOf returns the cooling category of a SKU. Seasoning SKUs are
// always seasonings; unknown SKUs are OTHER.
func (c *Catalog) CategoryOf(sku string) models.IngredientCategory {
	if IsSeasoningSKU(sku) {
		return models.CategorySeasoning
	}
	if i, ok := c.IngredientBySKU(sku); ok {
		return i.Category
	}
	return models.CategoryOther
}

// MenuNames returns every menu in the catalog, sorted
func (c *Catalog) MenuNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.recipes))
	for name := range c.recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Recipes returns copies of every recipe, sorted by menu name
func (c *Catalog) Recipes() []models.Recipe {
	names := c.MenuNames()

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Recipe, 0, len(names))
	for _, name := range names {
		if r, ok := c.recipes[name]; ok {
			out = append(out, *r)
		}
	}
	return out
}

func (c *Catalog) Ingredients() []models.Ingredient {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Ingredient, 0, len(c.ingredients))
	for _, i := range c.ingredients {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

func (c *Catalog) Seasonings() []models.Seasoning {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Seasoning, 0, len(c.seasonings))
	for _, s := range c.seasonings {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of recipes
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.recipes)
}
