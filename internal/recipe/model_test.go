package recipe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeUnmarshalJSON(t *testing.T) {
	data := `{
		"id": "r1",
		"name": "Ratatouille",
		"category": "economique",
		"preparationTime": 45,
		"ingredients": [
			{"name": "Courgette", "quantity": 300, "unit": "g", "category": "fruits-legumes"},
			{"name": "Huile d'olive", "quantity": 2, "unit": "c. à soupe", "category": "epicerie"}
		],
		"steps": ["Couper les légumes", "Mijoter"],
		"pricePerPerson": 3.2,
		"nutrition": {"calories": 320, "proteins": 6, "carbs": 28, "fats": 18, "fiber": 9}
	}`

	var r Recipe
	require.NoError(t, json.Unmarshal([]byte(data), &r))

	assert.Equal(t, CategoryEconomique, r.Category)
	assert.Equal(t, 45, r.PreparationTime)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, ShoppingFruitsLegumes, r.Ingredients[0].Category)
	assert.Equal(t, "c. à soupe", r.Ingredients[1].Unit)
	assert.Equal(t, 3.2, r.PricePerPerson)
	assert.Equal(t, 9.0, r.Nutrition.Fiber)
}

func TestShoppingCategoryUnmarshalJSON_Unknown(t *testing.T) {
	var ing Ingredient
	err := json.Unmarshal([]byte(`{"name": "Tofu", "quantity": 1, "unit": "g", "category": "vegan"}`), &ing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown shopping category "vegan"`)
}

func TestCategoryUnmarshalJSON_Unknown(t *testing.T) {
	var c Category
	err := json.Unmarshal([]byte(`"luxe"`), &c)
	require.Error(t, err)
	assert.Equal(t, Category(""), c)
}

func TestLabels(t *testing.T) {
	for _, c := range ShoppingCategories {
		assert.True(t, c.Valid(), c)
		assert.NotEmpty(t, c.Label(), c)
	}
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
		assert.NotEmpty(t, c.Label(), c)
		assert.NotEmpty(t, c.Budget(), c)
	}

	assert.Len(t, ShoppingCategories, 9)
	assert.Equal(t, "Condiments & Épices", ShoppingCondiments.Label())
	assert.Equal(t, "> 10€/pers.", CategoryPlaisir.Budget())
	assert.False(t, ShoppingCategory("AUTRE").Valid())
}

func TestCategoryDistributionTotal(t *testing.T) {
	d := CategoryDistribution{Economique: 3, Gourmand: 2, Plaisir: 1}
	assert.Equal(t, 6, d.Total())
}
