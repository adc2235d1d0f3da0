package shopping

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"mealplanner/internal/recipe"
)

// ErrUnknownCategory is returned when an ingredient names a shopping category
// outside the fixed enumeration.
var ErrUnknownCategory = errors.New("unknown shopping category")

// Item is one consolidated line of the shopping list.
type Item struct {
	Name          string                  `json:"name"`
	TotalQuantity float64                 `json:"totalQuantity"`
	Unit          string                  `json:"unit"`
	Category      recipe.ShoppingCategory `json:"category"`
}

// Categories holds one bucket per shopping category. The key set is fixed:
// every bucket is always present and encodes as an array, never null.
type Categories struct {
	FruitsLegumes    []Item `json:"fruits-legumes"`
	ViandesPoissons  []Item `json:"viandes-poissons"`
	ProduitsLaitiers []Item `json:"produits-laitiers"`
	Epicerie         []Item `json:"epicerie"`
	Boulangerie      []Item `json:"boulangerie"`
	Surgeles         []Item `json:"surgeles"`
	Boissons         []Item `json:"boissons"`
	Condiments       []Item `json:"condiments"`
	Autre            []Item `json:"autre"`
}

func newCategories() Categories {
	return Categories{
		FruitsLegumes:    []Item{},
		ViandesPoissons:  []Item{},
		ProduitsLaitiers: []Item{},
		Epicerie:         []Item{},
		Boulangerie:      []Item{},
		Surgeles:         []Item{},
		Boissons:         []Item{},
		Condiments:       []Item{},
		Autre:            []Item{},
	}
}

// bucket returns the slot for c, or nil if c is not a shopping category.
func (c *Categories) bucket(cat recipe.ShoppingCategory) *[]Item {
	switch cat {
	case recipe.ShoppingFruitsLegumes:
		return &c.FruitsLegumes
	case recipe.ShoppingViandesPoissons:
		return &c.ViandesPoissons
	case recipe.ShoppingProduitsLaitiers:
		return &c.ProduitsLaitiers
	case recipe.ShoppingEpicerie:
		return &c.Epicerie
	case recipe.ShoppingBoulangerie:
		return &c.Boulangerie
	case recipe.ShoppingSurgeles:
		return &c.Surgeles
	case recipe.ShoppingBoissons:
		return &c.Boissons
	case recipe.ShoppingCondiments:
		return &c.Condiments
	case recipe.ShoppingAutre:
		return &c.Autre
	}
	return nil
}

// Get returns the items of one category. Unknown categories have no items.
func (c *Categories) Get(cat recipe.ShoppingCategory) []Item {
	if b := c.bucket(cat); b != nil {
		return *b
	}
	return nil
}

// Len returns the number of items across all categories.
func (c *Categories) Len() int {
	n := 0
	for _, cat := range recipe.ShoppingCategories {
		n += len(c.Get(cat))
	}
	return n
}

// List is a consolidated shopping list for a set of recipes.
type List struct {
	Categories          Categories `json:"categories"`
	TotalEstimatedPrice float64    `json:"totalEstimatedPrice"`
}

// Round rounds v to two decimals, halves away from zero.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// Aggregate merges the ingredients of recipes into a shopping list.
//
// Ingredients sharing a lowercased name and an exact unit are summed; the
// first occurrence provides the display name and category. Each category is
// sorted with French collation. The total price is the sum of every recipe's
// price per person. Quantities are expected to be scaled upstream.
func Aggregate(recipes []recipe.Recipe) (*List, error) {
	type mergeKey struct{ name, unit string }

	var order []mergeKey
	merged := make(map[mergeKey]*Item)

	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			key := mergeKey{name: strings.ToLower(ing.Name), unit: ing.Unit}
			if item, ok := merged[key]; ok {
				item.TotalQuantity += ing.Quantity
				continue
			}
			merged[key] = &Item{
				Name:          ing.Name,
				TotalQuantity: ing.Quantity,
				Unit:          ing.Unit,
				Category:      ing.Category,
			}
			order = append(order, key)
		}
	}

	categories := newCategories()
	for _, key := range order {
		item := merged[key]
		item.TotalQuantity = Round(item.TotalQuantity)

		b := categories.bucket(item.Category)
		if b == nil {
			return nil, fmt.Errorf("%w %q for ingredient %q", ErrUnknownCategory, item.Category, item.Name)
		}
		*b = append(*b, *item)
	}

	// A Collator is not safe for concurrent use, so each call builds its own.
	col := collate.New(language.French)
	for _, cat := range recipe.ShoppingCategories {
		slices.SortStableFunc(*categories.bucket(cat), func(a, b Item) int {
			return col.CompareString(a.Name, b.Name)
		})
	}

	var total float64
	for _, r := range recipes {
		total += r.PricePerPerson
	}

	return &List{
		Categories:          categories,
		TotalEstimatedPrice: Round(total),
	}, nil
}
