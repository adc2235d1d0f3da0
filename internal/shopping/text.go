package shopping

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mealplanner/internal/recipe"
)

// TextFilename is the suggested download name of a text export.
const TextFilename = "liste-de-courses.txt"

var categoryIcons = map[recipe.ShoppingCategory]string{
	recipe.ShoppingFruitsLegumes:    "🥬",
	recipe.ShoppingViandesPoissons:  "🥩",
	recipe.ShoppingProduitsLaitiers: "🧀",
	recipe.ShoppingEpicerie:         "🥫",
	recipe.ShoppingBoulangerie:      "🥖",
	recipe.ShoppingSurgeles:         "🧊",
	recipe.ShoppingBoissons:         "🥤",
	recipe.ShoppingCondiments:       "🧂",
	recipe.ShoppingAutre:            "📦",
}

// WriteText renders list as a plain-text shopping list. Empty categories are skipped.
func WriteText(w io.Writer, list *List) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("🛒 LISTE DE COURSES\n")
	bw.WriteString(strings.Repeat("=", 40) + "\n\n")

	for _, cat := range recipe.ShoppingCategories {
		items := list.Categories.Get(cat)
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(bw, "%s %s\n", categoryIcons[cat], cat.Label())
		bw.WriteString(strings.Repeat("-", 30) + "\n")
		for _, item := range items {
			fmt.Fprintf(bw, "  • %s: %s %s\n", item.Name, formatQuantity(item.TotalQuantity), item.Unit)
		}
		bw.WriteString("\n")
	}

	fmt.Fprintf(bw, "\n💰 Prix total estimé: %.2f€\n", list.TotalEstimatedPrice)

	return bw.Flush()
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
