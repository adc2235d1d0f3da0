package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNoJSON is returned when a model response carries no JSON object.
var ErrNoJSON = errors.New("no JSON object in model response")

var budgetRanges = map[Category]string{
	CategoryEconomique: "moins de 5€ par personne",
	CategoryGourmand:   "entre 5€ et 10€ par personne",
	CategoryPlaisir:    "plus de 10€ par personne",
}

const ingredientSchema = `"category": "fruits-legumes" | "viandes-poissons" | "produits-laitiers" | "epicerie" | "boulangerie" | "surgeles" | "boissons" | "condiments" | "autre"`

// BuildGeneratePrompt renders the instructions for a batch of recipes.
func BuildGeneratePrompt(req GenerateRequest) string {
	var b strings.Builder

	b.WriteString("Tu es un chef cuisinier expert en planification de repas hebdomadaires équilibrés et économiques en France.\n\n")
	fmt.Fprintf(&b, "Génère exactement %d recettes avec la répartition suivante :\n", req.MealsCount)
	fmt.Fprintf(&b, "- %d recette(s) \"économique\" (budget < 5€ par personne)\n", req.Categories.Economique)
	fmt.Fprintf(&b, "- %d recette(s) \"gourmand\" (budget entre 5€ et 10€ par personne)\n", req.Categories.Gourmand)
	fmt.Fprintf(&b, "- %d recette(s) \"plaisir\" (budget > 10€ par personne)\n\n", req.Categories.Plaisir)
	fmt.Fprintf(&b, "Nombre de personnes : %d\n\n", req.PersonsCount)

	if len(req.ExcludedTags) > 0 {
		fmt.Fprintf(&b, "EXCLUSIONS STRICTES (allergies/intolérances) - NE PAS utiliser ces ingrédients : %s\n\n", strings.Join(req.ExcludedTags, ", "))
	} else {
		b.WriteString("Aucune exclusion alimentaire.\n\n")
	}

	b.WriteString("RÈGLES IMPORTANTES :\n")
	fmt.Fprintf(&b, "1. Adapte toutes les quantités d'ingrédients pour %d personne(s)\n", req.PersonsCount)
	b.WriteString(`2. Varie les types de plats : inclure si possible viandes, poissons, plats végétariens
3. Assure un équilibre nutritionnel global (protéines, glucides complexes, légumes)
4. Les prix doivent être réalistes pour le marché français
5. Les recettes doivent être réalisables par un cuisinier amateur
6. Chaque recette doit avoir entre 5 et 12 ingrédients
7. Chaque recette doit avoir entre 3 et 8 étapes de préparation
8. Classe chaque ingrédient dans sa catégorie de courses

Réponds UNIQUEMENT avec un JSON valide (sans markdown, sans backticks, sans texte autour) suivant exactement ce format :
{
  "recipes": [
    {
      "id": "un-id-unique",
      "name": "Nom de la recette",
      "category": "economique" | "gourmand" | "plaisir",
      "preparationTime": 30,
      "ingredients": [
        {
          "name": "Nom de l'ingrédient",
          "quantity": 200,
          "unit": "g" | "ml" | "pièce(s)" | "c. à soupe" | "c. à café" | "pincée(s)",
          ` + ingredientSchema + `
        }
      ],
      "steps": ["Étape 1...", "Étape 2..."],
      "pricePerPerson": 4.50,
      "nutrition": {"calories": 550, "proteins": 30, "carbs": 45, "fats": 20, "fiber": 8}
    }
  ]
}`)

	return b.String()
}

// BuildRegeneratePrompt renders the instructions for one replacement recipe.
func BuildRegeneratePrompt(req RegenerateRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Tu es un chef cuisinier expert. Génère UNE SEULE nouvelle recette de catégorie \"%s\" (budget : %s).\n\n", req.Category, budgetRanges[req.Category])
	fmt.Fprintf(&b, "Nombre de personnes : %d\n\n", req.PersonsCount)

	if len(req.ExcludedTags) > 0 {
		fmt.Fprintf(&b, "EXCLUSIONS STRICTES : %s\n\n", strings.Join(req.ExcludedTags, ", "))
	} else {
		b.WriteString("Aucune exclusion.\n\n")
	}

	b.WriteString("RÈGLES :\n")
	fmt.Fprintf(&b, "1. Adapte les quantités pour %d personne(s)\n", req.PersonsCount)
	b.WriteString(`2. Prix réaliste pour le marché français
3. Recette réalisable par un amateur
4. Entre 5 et 12 ingrédients, 3 à 8 étapes
5. Équilibre nutritionnel

Réponds UNIQUEMENT avec un JSON valide (sans markdown, sans backticks) :
{
  "recipe": {
    "id": "un-id-unique",
    "name": "Nom de la recette",
`)
	fmt.Fprintf(&b, "    \"category\": \"%s\",\n", req.Category)
	b.WriteString(`    "preparationTime": 30,
    "ingredients": [
      {
        "name": "Nom",
        "quantity": 200,
        "unit": "g",
        ` + ingredientSchema + `
      }
    ],
    "steps": ["Étape 1...", "Étape 2..."],
    "pricePerPerson": 4.50,
    "nutrition": {"calories": 550, "proteins": 30, "carbs": 45, "fats": 20, "fiber": 8}
  }
}`)

	return b.String()
}

// ExtractJSON returns the outermost JSON object in text, which might be
// wrapped in markdown fences or surrounded by prose.
func ExtractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || start > end {
		return "", ErrNoJSON
	}
	return text[start : end+1], nil
}

// ParseGenerated decodes a batch response of the form {"recipes": [...]}.
func ParseGenerated(text string) ([]Recipe, error) {
	clean, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Recipes []Recipe `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipes JSON: %w", err)
	}
	if len(payload.Recipes) == 0 {
		return nil, fmt.Errorf("model response contains no recipes")
	}

	assignIDs(payload.Recipes)
	return payload.Recipes, nil
}

// ParseRegenerated decodes a single-recipe response of the form {"recipe": {...}}.
func ParseRegenerated(text string) (*Recipe, error) {
	clean, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Recipe *Recipe `json:"recipe"`
	}
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	if payload.Recipe == nil {
		return nil, fmt.Errorf("model response contains no recipe")
	}

	payload.Recipe.ID = uuid.NewString()
	return payload.Recipe, nil
}

// assignIDs gives every recipe a server-side id. Model-provided ids are
// copies of the prompt placeholder and collide across batches.
func assignIDs(recipes []Recipe) {
	for i := range recipes {
		recipes[i].ID = uuid.NewString()
	}
}
