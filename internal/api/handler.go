package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mealplanner/internal/platform/logger"
	"mealplanner/internal/recipe"
	"mealplanner/internal/shopping"
)

const storeTimeout = 5 * time.Second

// RecipeGenerator defines the interface for producing recipes with a language model.
type RecipeGenerator interface {
	GenerateRecipes(ctx context.Context, req recipe.GenerateRequest) ([]recipe.Recipe, error)
	RegenerateRecipe(ctx context.Context, req recipe.RegenerateRequest) (*recipe.Recipe, error)
}

// RecipeStore defines the interface for recipe data operations.
type RecipeStore interface {
	SaveRecipe(ctx context.Context, recipe *recipe.Recipe, personsCount int) error
	GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error)
	ListRecipes(ctx context.Context, category recipe.Category) ([]*recipe.Recipe, error)
}

// ShoppingListRequest carries the recipes to build a shopping list from.
// PersonsCount is informational: quantities are already scaled.
type ShoppingListRequest struct {
	Recipes      []recipe.Recipe `json:"recipes" binding:"required,dive"`
	PersonsCount int             `json:"personsCount" binding:"required,min=1,max=10"`
}

// Handler handles HTTP requests.
type Handler struct {
	Generator   RecipeGenerator
	RecipeStore RecipeStore
	Logger      *logger.Logger
	LLMTimeout  time.Duration
}

// NewHandler creates a new Handler.
func NewHandler(generator RecipeGenerator, recipeStore RecipeStore, log *logger.Logger, llmTimeout time.Duration) *Handler {
	return &Handler{Generator: generator, RecipeStore: recipeStore, Logger: log, LLMTimeout: llmTimeout}
}

// Health reports that the server is up.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

// GenerateRecipes generates a batch of recipes split across budget categories.
func (h *Handler) GenerateRecipes(c *gin.Context) {
	var req recipe.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, validationMessage(err))
		return
	}
	if req.Categories.Total() != req.MealsCount {
		respondError(c, http.StatusBadRequest, "La somme des catégories doit être égale au nombre de repas")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.LLMTimeout)
	defer cancel()

	h.Logger.Info("Generating recipes",
		"meals_count", req.MealsCount,
		"persons_count", req.PersonsCount,
		"excluded_tags", len(req.ExcludedTags),
	)
	recipes, err := h.Generator.GenerateRecipes(ctx, req)
	if err != nil {
		h.Logger.Error("Error generating recipes", "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			respondError(c, http.StatusGatewayTimeout, fmt.Sprintf("La génération des recettes a dépassé %s", h.LLMTimeout))
			return
		}
		respondError(c, http.StatusInternalServerError, "Erreur lors de la génération des recettes")
		return
	}

	for i := range recipes {
		h.saveRecipe(c.Request.Context(), &recipes[i], req.PersonsCount)
	}

	respondOK(c, gin.H{"recipes": recipes})
}

// RegenerateRecipe replaces a single recipe with a new one of the same category.
func (h *Handler) RegenerateRecipe(c *gin.Context) {
	var req recipe.RegenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.LLMTimeout)
	defer cancel()

	h.Logger.Info("Regenerating recipe", "index", req.Index, "category", req.Category, "persons_count", req.PersonsCount)
	r, err := h.Generator.RegenerateRecipe(ctx, req)
	if err != nil {
		h.Logger.Error("Error regenerating recipe", "index", req.Index, "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			respondError(c, http.StatusGatewayTimeout, fmt.Sprintf("La regénération de la recette a dépassé %s", h.LLMTimeout))
			return
		}
		respondError(c, http.StatusInternalServerError, "Erreur lors de la regénération de la recette")
		return
	}

	// The replacement keeps the slot's budget tier even if the model drifts.
	r.Category = req.Category
	h.saveRecipe(c.Request.Context(), r, req.PersonsCount)

	respondOK(c, gin.H{"recipe": r})
}

// ShoppingList aggregates the ingredients of the given recipes.
func (h *Handler) ShoppingList(c *gin.Context) {
	list, ok := h.buildShoppingList(c)
	if !ok {
		return
	}
	respondOK(c, list)
}

// ShoppingListText aggregates the given recipes and returns the list as a text download.
func (h *Handler) ShoppingListText(c *gin.Context) {
	list, ok := h.buildShoppingList(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := shopping.WriteText(&buf, list); err != nil {
		h.Logger.Error("Error rendering shopping list", "error", err)
		respondError(c, http.StatusInternalServerError, "Erreur lors de la génération de la liste de courses")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", shopping.TextFilename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}

func (h *Handler) buildShoppingList(c *gin.Context) (*shopping.List, bool) {
	var req ShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, validationMessage(err))
		return nil, false
	}

	list, err := shopping.Aggregate(req.Recipes)
	if err != nil {
		h.Logger.Error("Error generating shopping list", "error", err)
		respondError(c, http.StatusInternalServerError, "Erreur lors de la génération de la liste de courses")
		return nil, false
	}

	h.Logger.Debug("Shopping list generated",
		"recipes", len(req.Recipes),
		"persons_count", req.PersonsCount,
		"items", list.Categories.Len(),
		"total_price", list.TotalEstimatedPrice,
	)
	return list, true
}

// GetRecipes lists stored recipes, optionally filtered by category.
func (h *Handler) GetRecipes(c *gin.Context) {
	category := recipe.Category(c.Query("category"))
	if category != "" && !category.Valid() {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Catégorie inconnue: %s", category))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	recipes, err := h.RecipeStore.ListRecipes(ctx, category)
	if err != nil {
		h.Logger.Error("Error listing recipes", "category", category, "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			respondError(c, http.StatusRequestTimeout, "Database query timed out after 5 seconds")
			return
		}
		respondError(c, http.StatusInternalServerError, "Erreur lors de la lecture des recettes")
		return
	}

	respondOK(c, gin.H{"recipes": recipes})
}

// GetRecipe returns a single stored recipe.
func (h *Handler) GetRecipe(c *gin.Context) {
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	r, err := h.RecipeStore.GetRecipe(ctx, id)
	if err != nil {
		h.Logger.Error("Error reading recipe", "id", id, "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			respondError(c, http.StatusRequestTimeout, "Database query timed out after 5 seconds")
			return
		}
		respondError(c, http.StatusInternalServerError, "Erreur lors de la lecture de la recette")
		return
	}

	if r == nil {
		respondError(c, http.StatusNotFound, "Recette introuvable")
		return
	}

	respondOK(c, gin.H{"recipe": r})
}

type categoryMeta struct {
	Key    recipe.Category `json:"key"`
	Label  string          `json:"label"`
	Budget string          `json:"budget"`
}

type shoppingCategoryMeta struct {
	Key   recipe.ShoppingCategory `json:"key"`
	Label string                  `json:"label"`
}

// Meta returns the labels and enumerations a client needs to render forms and lists.
func (h *Handler) Meta(c *gin.Context) {
	categories := make([]categoryMeta, 0, len(recipe.Categories))
	for _, cat := range recipe.Categories {
		categories = append(categories, categoryMeta{Key: cat, Label: cat.Label(), Budget: cat.Budget()})
	}

	shoppingCategories := make([]shoppingCategoryMeta, 0, len(recipe.ShoppingCategories))
	for _, cat := range recipe.ShoppingCategories {
		shoppingCategories = append(shoppingCategories, shoppingCategoryMeta{Key: cat, Label: cat.Label()})
	}

	respondOK(c, gin.H{
		"categories":         categories,
		"shoppingCategories": shoppingCategories,
		"exclusionTags":      recipe.CommonExclusionTags,
	})
}

// saveRecipe persists a generated recipe. Failures are logged; the client
// still gets its recipes.
func (h *Handler) saveRecipe(parent context.Context, r *recipe.Recipe, personsCount int) {
	ctx, cancel := context.WithTimeout(parent, storeTimeout)
	defer cancel()

	if err := h.RecipeStore.SaveRecipe(ctx, r, personsCount); err != nil {
		h.Logger.Warn("failed to save recipe", "id", r.ID, "error", err)
	}
}
