package shopping

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealplanner/internal/recipe"
)

func TestWriteText(t *testing.T) {
	list, err := Aggregate([]recipe.Recipe{
		withIngredients(4.5,
			ing("Tomate", 200, "g", recipe.ShoppingFruitsLegumes),
			ing("Basilic", 0.5, "botte(s)", recipe.ShoppingFruitsLegumes),
			ing("Sel", 1, "pincée(s)", recipe.ShoppingCondiments),
		),
		withIngredients(7.25, ing("tomate", 150, "g", recipe.ShoppingFruitsLegumes)),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, list))

	want := "🛒 LISTE DE COURSES\n" +
		"========================================\n\n" +
		"🥬 Fruits & Légumes\n" +
		"------------------------------\n" +
		"  • Basilic: 0.5 botte(s)\n" +
		"  • Tomate: 350 g\n" +
		"\n" +
		"🧂 Condiments & Épices\n" +
		"------------------------------\n" +
		"  • Sel: 1 pincée(s)\n" +
		"\n" +
		"\n💰 Prix total estimé: 11.75€\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteText_Empty(t *testing.T) {
	list, err := Aggregate(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, list))

	assert.NotContains(t, buf.String(), "•")
	assert.Contains(t, buf.String(), "Prix total estimé: 0.00€")
}
