package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"mealplanner/internal/api"
	"mealplanner/internal/config"
	"mealplanner/internal/platform/gemini"
	"mealplanner/internal/platform/localllm"
	"mealplanner/internal/platform/logger"
	"mealplanner/internal/recipe"
)

func main() {
	ctx := context.Background()

	// Read configuration from config.json and the environment
	cfg, err := config.Load("config.json")
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(fmt.Errorf("failed to create logger: %w", err))
	}
	defer log.Sync()

	generator, closeGenerator, err := newGenerator(ctx, cfg)
	if err != nil {
		log.Fatal("error creating recipe generator", "provider", cfg.LLMProvider, "error", err)
	}
	defer closeGenerator()

	dbStore, err := recipe.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("error creating postgres store", "error", err)
	}
	defer dbStore.Close()

	handler := api.NewHandler(generator, dbStore, log, cfg.LLMTimeout())
	r := setupRouter(handler, log, cfg.FrontendURL)

	log.Info("Server starting", "port", cfg.Port, "provider", cfg.LLMProvider, "frontend_url", cfg.FrontendURL)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

// newGenerator builds the recipe generator for the configured provider.
func newGenerator(ctx context.Context, cfg *config.Config) (api.RecipeGenerator, func() error, error) {
	switch cfg.LLMProvider {
	case config.ProviderLocal:
		return localllm.NewClient(cfg.LocalLLMURL, cfg.LocalLLMModel), func() error { return nil }, nil
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

func setupRouter(handler *api.Handler, log *logger.Logger, frontendURL string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(api.RequestLogger(log))

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/api/health", handler.Health)
	r.GET("/api/meta", handler.Meta)

	recipes := r.Group("/api/recipes")
	recipes.POST("/generate", handler.GenerateRecipes)
	recipes.POST("/regenerate", handler.RegenerateRecipe)
	recipes.POST("/shopping-list", handler.ShoppingList)
	recipes.POST("/shopping-list/text", handler.ShoppingListText)
	recipes.GET("", handler.GetRecipes)
	recipes.GET("/:id", handler.GetRecipe)

	return r
}
