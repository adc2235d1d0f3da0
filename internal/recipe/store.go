package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store defines the interface for recipe data operations.
type Store interface {
	SaveRecipe(ctx context.Context, recipe *Recipe, personsCount int) error
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	ListRecipes(ctx context.Context, category Category) ([]*Recipe, error)
}

// PostgresStore implements the Store interface for PostgreSQL.
type PostgresStore struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS recipes (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	preparation_time INTEGER NOT NULL DEFAULT 0,
	ingredients JSONB NOT NULL,
	steps JSONB NOT NULL,
	price_per_person DOUBLE PRECISION NOT NULL DEFAULT 0,
	nutrition JSONB NOT NULL,
	persons_count INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS recipes_category_idx ON recipes (category);
`

const selectColumns = "id, name, category, preparation_time, ingredients, steps, price_per_person, nutrition, persons_count, created_at"

// recipeRow mirrors a row of the recipes table.
type recipeRow struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Category        string    `db:"category"`
	PreparationTime int       `db:"preparation_time"`
	Ingredients     []byte    `db:"ingredients"`
	Steps           []byte    `db:"steps"`
	PricePerPerson  float64   `db:"price_per_person"`
	Nutrition       []byte    `db:"nutrition"`
	PersonsCount    int       `db:"persons_count"`
	CreatedAt       time.Time `db:"created_at"`
}

// NewPostgresStore connects to PostgreSQL and creates the recipes table if needed.
func NewPostgresStore(dataSourceName string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create recipes table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveRecipe inserts or replaces a recipe.
func (s *PostgresStore) SaveRecipe(ctx context.Context, recipe *Recipe, personsCount int) error {
	row, err := toRow(recipe, personsCount)
	if err != nil {
		return err
	}

	_, err = s.db.NamedExecContext(ctx,
		`INSERT INTO recipes (id, name, category, preparation_time, ingredients, steps, price_per_person, nutrition, persons_count)
		VALUES (:id, :name, :category, :preparation_time, :ingredients, :steps, :price_per_person, :nutrition, :persons_count)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, category = EXCLUDED.category,
			preparation_time = EXCLUDED.preparation_time, ingredients = EXCLUDED.ingredients,
			steps = EXCLUDED.steps, price_per_person = EXCLUDED.price_per_person,
			nutrition = EXCLUDED.nutrition, persons_count = EXCLUDED.persons_count`,
		row,
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}

	return nil
}

// GetRecipe retrieves a recipe by id. It returns nil, nil when none exists.
func (s *PostgresStore) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	var row recipeRow
	err := s.db.GetContext(ctx, &row, "SELECT "+selectColumns+" FROM recipes WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by id: %w", err)
	}

	return row.toRecipe()
}

// ListRecipes returns stored recipes, newest first. An empty category lists all of them.
func (s *PostgresStore) ListRecipes(ctx context.Context, category Category) ([]*Recipe, error) {
	query := "SELECT " + selectColumns + " FROM recipes"
	var args []interface{}
	if category != "" {
		query += " WHERE category = $1"
		args = append(args, string(category))
	}
	query += " ORDER BY created_at DESC"

	var rows []recipeRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes := make([]*Recipe, 0, len(rows))
	for i := range rows {
		r, err := rows[i].toRecipe()
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}

	return recipes, nil
}

func toRow(r *Recipe, personsCount int) (*recipeRow, error) {
	ingredientsJSON, err := json.Marshal(r.Ingredients)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	stepsJSON, err := json.Marshal(r.Steps)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal steps: %w", err)
	}
	nutritionJSON, err := json.Marshal(r.Nutrition)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal nutrition: %w", err)
	}

	return &recipeRow{
		ID:              r.ID,
		Name:            r.Name,
		Category:        string(r.Category),
		PreparationTime: r.PreparationTime,
		Ingredients:     ingredientsJSON,
		Steps:           stepsJSON,
		PricePerPerson:  r.PricePerPerson,
		Nutrition:       nutritionJSON,
		PersonsCount:    personsCount,
	}, nil
}

func (row *recipeRow) toRecipe() (*Recipe, error) {
	r := &Recipe{
		ID:              row.ID,
		Name:            row.Name,
		Category:        Category(row.Category),
		PreparationTime: row.PreparationTime,
		PricePerPerson:  row.PricePerPerson,
	}

	if err := json.Unmarshal(row.Ingredients, &r.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
	}
	if err := json.Unmarshal(row.Steps, &r.Steps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal steps: %w", err)
	}
	if err := json.Unmarshal(row.Nutrition, &r.Nutrition); err != nil {
		return nil, fmt.Errorf("failed to unmarshal nutrition: %w", err)
	}

	return r, nil
}
