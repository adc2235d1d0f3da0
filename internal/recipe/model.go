package recipe

import (
	"encoding/json"
	"fmt"
)

// Category is the budget tier of a recipe.
type Category string

const (
	CategoryEconomique Category = "economique"
	CategoryGourmand   Category = "gourmand"
	CategoryPlaisir    Category = "plaisir"
)

// Categories lists every recipe category in display order.
var Categories = []Category{CategoryEconomique, CategoryGourmand, CategoryPlaisir}

var categoryLabels = map[Category]string{
	CategoryEconomique: "Économique",
	CategoryGourmand:   "Gourmand",
	CategoryPlaisir:    "Plaisir",
}

var categoryBudgets = map[Category]string{
	CategoryEconomique: "< 5€/pers.",
	CategoryGourmand:   "5-10€/pers.",
	CategoryPlaisir:    "> 10€/pers.",
}

// Valid reports whether c is one of the known recipe categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display name of the category.
func (c Category) Label() string { return categoryLabels[c] }

// Budget returns the per-person price bracket of the category.
func (c Category) Budget() string { return categoryBudgets[c] }

// UnmarshalJSON rejects values outside the recipe category enumeration.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !Category(s).Valid() {
		return fmt.Errorf("unknown recipe category %q", s)
	}
	*c = Category(s)
	return nil
}

// ShoppingCategory is the grocery aisle an ingredient is bought in.
type ShoppingCategory string

const (
	ShoppingFruitsLegumes    ShoppingCategory = "fruits-legumes"
	ShoppingViandesPoissons  ShoppingCategory = "viandes-poissons"
	ShoppingProduitsLaitiers ShoppingCategory = "produits-laitiers"
	ShoppingEpicerie         ShoppingCategory = "epicerie"
	ShoppingBoulangerie      ShoppingCategory = "boulangerie"
	ShoppingSurgeles         ShoppingCategory = "surgeles"
	ShoppingBoissons         ShoppingCategory = "boissons"
	ShoppingCondiments       ShoppingCategory = "condiments"
	ShoppingAutre            ShoppingCategory = "autre"
)

// ShoppingCategories lists every shopping category in aisle order.
var ShoppingCategories = []ShoppingCategory{
	ShoppingFruitsLegumes,
	ShoppingViandesPoissons,
	ShoppingProduitsLaitiers,
	ShoppingEpicerie,
	ShoppingBoulangerie,
	ShoppingSurgeles,
	ShoppingBoissons,
	ShoppingCondiments,
	ShoppingAutre,
}

var shoppingLabels = map[ShoppingCategory]string{
	ShoppingFruitsLegumes:    "Fruits & Légumes",
	ShoppingViandesPoissons:  "Viandes & Poissons",
	ShoppingProduitsLaitiers: "Produits Laitiers",
	ShoppingEpicerie:         "Épicerie",
	ShoppingBoulangerie:      "Boulangerie",
	ShoppingSurgeles:         "Surgelés",
	ShoppingBoissons:         "Boissons",
	ShoppingCondiments:       "Condiments & Épices",
	ShoppingAutre:            "Autre",
}

// Valid reports whether c is one of the known shopping categories.
func (c ShoppingCategory) Valid() bool {
	_, ok := shoppingLabels[c]
	return ok
}

// Label returns the display name of the shopping category.
func (c ShoppingCategory) Label() string { return shoppingLabels[c] }

// UnmarshalJSON rejects values outside the shopping category enumeration.
// Unknown aisles are never remapped to "autre".
func (c *ShoppingCategory) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if !ShoppingCategory(s).Valid() {
		return fmt.Errorf("unknown shopping category %q", s)
	}
	*c = ShoppingCategory(s)
	return nil
}

// CommonExclusionTags are the allergens and diets offered to users as exclusions.
var CommonExclusionTags = []string{
	"gluten",
	"lactose",
	"arachides",
	"fruits à coque",
	"oeufs",
	"poisson",
	"crustacés",
	"soja",
	"céleri",
	"moutarde",
	"sésame",
	"lupin",
	"mollusques",
	"sulfites",
	"porc",
	"boeuf",
	"alcool",
	"végétarien",
	"végan",
}

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name     string           `json:"name"`
	Quantity float64          `json:"quantity" binding:"gte=0"`
	Unit     string           `json:"unit"`
	Category ShoppingCategory `json:"category"`
}

// Nutrition holds per-portion nutritional values.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Fiber    float64 `json:"fiber"`
}

// Recipe represents a generated recipe. Ingredient quantities are already
// scaled to the number of persons it was generated for.
type Recipe struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Category        Category     `json:"category"`
	PreparationTime int          `json:"preparationTime"`
	Ingredients     []Ingredient `json:"ingredients" binding:"required,dive"`
	Steps           []string     `json:"steps" binding:"required"`
	PricePerPerson  float64      `json:"pricePerPerson" binding:"gte=0"`
	Nutrition       Nutrition    `json:"nutrition"`
}

// CategoryDistribution is the number of meals requested per budget tier.
type CategoryDistribution struct {
	Economique int `json:"economique" binding:"min=0"`
	Gourmand   int `json:"gourmand" binding:"min=0"`
	Plaisir    int `json:"plaisir" binding:"min=0"`
}

// Total returns the number of meals across all tiers.
func (d CategoryDistribution) Total() int {
	return d.Economique + d.Gourmand + d.Plaisir
}

// GenerateRequest asks for a batch of recipes.
type GenerateRequest struct {
	MealsCount   int                  `json:"mealsCount" binding:"required,min=1,max=14"`
	Categories   CategoryDistribution `json:"categories"`
	PersonsCount int                  `json:"personsCount" binding:"required,min=1,max=10"`
	ExcludedTags []string             `json:"excludedTags" binding:"required"`
}

// RegenerateRequest asks for a single replacement recipe.
type RegenerateRequest struct {
	Index        int      `json:"index" binding:"min=0"`
	Category     Category `json:"category" binding:"required"`
	PersonsCount int      `json:"personsCount" binding:"required,min=1,max=10"`
	ExcludedTags []string `json:"excludedTags" binding:"required"`
}
