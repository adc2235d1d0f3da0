package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"mealplanner/internal/recipe"
)

// Client is a client for the Gemini API.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewClient creates a new Gemini client for the given model.
func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SetMaxOutputTokens(8192)

	return &Client{client: client, model: model}, nil
}

// Close closes the underlying Gemini client.
func (c *Client) Close() error {
	return c.client.Close()
}

// GenerateRecipes generates a batch of recipes matching the requested distribution.
func (c *Client) GenerateRecipes(ctx context.Context, req recipe.GenerateRequest) ([]recipe.Recipe, error) {
	text, err := c.generate(ctx, recipe.BuildGeneratePrompt(req))
	if err != nil {
		return nil, err
	}
	return recipe.ParseGenerated(text)
}

// RegenerateRecipe generates a single replacement recipe.
func (c *Client) RegenerateRecipe(ctx context.Context, req recipe.RegenerateRequest) (*recipe.Recipe, error) {
	text, err := c.generate(ctx, recipe.BuildRegeneratePrompt(req))
	if err != nil {
		return nil, err
	}
	return recipe.ParseRegenerated(text)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}

	return b.String(), nil
}
