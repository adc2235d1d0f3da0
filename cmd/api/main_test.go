package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealplanner/internal/api"
	"mealplanner/internal/config"
	"mealplanner/internal/platform/localllm"
	"mealplanner/internal/platform/logger"
	"mealplanner/internal/recipe"
	"mealplanner/internal/shopping"
)

const frontendURL = "http://localhost:5173"

// mockGenerator is a mock of the recipe generator.
type mockGenerator struct{}

// GenerateRecipes mocks the GenerateRecipes method.
func (m *mockGenerator) GenerateRecipes(ctx context.Context, req recipe.GenerateRequest) ([]recipe.Recipe, error) {
	return []recipe.Recipe{{
		ID:       "mock",
		Name:     "Mock Recipe",
		Category: recipe.CategoryEconomique,
		Ingredients: []recipe.Ingredient{
			{Name: "Riz", Quantity: 250, Unit: "g", Category: recipe.ShoppingEpicerie},
		},
		Steps:          []string{"Cuire le riz"},
		PricePerPerson: 2,
	}}, nil
}

// RegenerateRecipe mocks the RegenerateRecipe method.
func (m *mockGenerator) RegenerateRecipe(ctx context.Context, req recipe.RegenerateRequest) (*recipe.Recipe, error) {
	return &recipe.Recipe{ID: "mock", Name: "Mock Recipe", Category: req.Category, Ingredients: []recipe.Ingredient{}, Steps: []string{"x"}}, nil
}

// mockRecipeStore is a mock of the RecipeStore.
type mockRecipeStore struct {
	recipes map[string]*recipe.Recipe
}

// SaveRecipe mocks the SaveRecipe method.
func (m *mockRecipeStore) SaveRecipe(ctx context.Context, r *recipe.Recipe, personsCount int) error {
	m.recipes[r.ID] = r
	return nil
}

// GetRecipe mocks the GetRecipe method.
func (m *mockRecipeStore) GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	return m.recipes[id], nil
}

// ListRecipes mocks the ListRecipes method.
func (m *mockRecipeStore) ListRecipes(ctx context.Context, category recipe.Category) ([]*recipe.Recipe, error) {
	out := []*recipe.Recipe{}
	for _, r := range m.recipes {
		out = append(out, r)
	}
	return out, nil
}

func newRouter() (*gin.Engine, *mockRecipeStore) {
	// Set up Gin in test mode
	gin.SetMode(gin.TestMode)

	store := &mockRecipeStore{recipes: make(map[string]*recipe.Recipe)}
	handler := api.NewHandler(&mockGenerator{}, store, logger.Nop(), time.Minute)
	return setupRouter(handler, logger.Nop(), frontendURL), store
}

func TestRoutes(t *testing.T) {
	r, _ := newRouter()

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodGet, "/api/meta", "", http.StatusOK},
		{http.MethodPost, "/api/recipes/generate", `{"mealsCount": 1, "categories": {"economique": 1}, "personsCount": 2, "excludedTags": []}`, http.StatusOK},
		{http.MethodPost, "/api/recipes/regenerate", `{"index": 0, "category": "plaisir", "personsCount": 2, "excludedTags": []}`, http.StatusOK},
		{http.MethodPost, "/api/recipes/shopping-list", `{"personsCount": 2, "recipes": []}`, http.StatusOK},
		{http.MethodPost, "/api/recipes/shopping-list/text", `{"personsCount": 2, "recipes": []}`, http.StatusOK},
		{http.MethodGet, "/api/recipes", "", http.StatusOK},
		{http.MethodGet, "/api/recipes/unknown-id", "", http.StatusNotFound},
		{http.MethodGet, "/api/nothing-here", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestGenerateThenShoppingList(t *testing.T) {
	r, store := newRouter()

	// Generate a menu
	req := httptest.NewRequest(http.MethodPost, "/api/recipes/generate",
		bytes.NewBufferString(`{"mealsCount": 1, "categories": {"economique": 1}, "personsCount": 2, "excludedTags": []}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var generated struct {
		Data struct {
			Recipes []recipe.Recipe `json:"recipes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &generated))
	require.Len(t, generated.Data.Recipes, 1)
	assert.Contains(t, store.recipes, "mock")

	// Feed the generated recipes back for a shopping list
	body, err := json.Marshal(api.ShoppingListRequest{Recipes: generated.Data.Recipes, PersonsCount: 2})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/recipes/shopping-list", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var list struct {
		Success bool          `json:"success"`
		Data    shopping.List `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.True(t, list.Success)
	assert.Equal(t, 2.0, list.Data.TotalEstimatedPrice)
	require.Len(t, list.Data.Categories.Epicerie, 1)
	assert.Equal(t, "Riz", list.Data.Categories.Epicerie[0].Name)
	assert.Equal(t, 250.0, list.Data.Categories.Epicerie[0].TotalQuantity)
}

func TestCORS(t *testing.T) {
	r, _ := newRouter()

	t.Run("allowed origin preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/recipes/generate", nil)
		req.Header.Set("Origin", frontendURL)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rr := httptest.NewRecorder()

		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, frontendURL, rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", "http://evil.example")
		rr := httptest.NewRecorder()

		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestNewGenerator(t *testing.T) {
	t.Run("local", func(t *testing.T) {
		cfg := &config.Config{LLMProvider: config.ProviderLocal, LocalLLMURL: "http://localhost:1234/v1/chat/completions", LocalLLMModel: "m"}

		gen, closeFn, err := newGenerator(context.Background(), cfg)

		require.NoError(t, err)
		assert.IsType(t, &localllm.Client{}, gen)
		assert.NoError(t, closeFn())
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, _, err := newGenerator(context.Background(), &config.Config{LLMProvider: "openai"})
		assert.EqualError(t, err, `unknown llm provider "openai"`)
	})
}
