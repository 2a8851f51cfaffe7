package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"weekly-planner/internal/menu"
)

const insertRecipe = `
INSERT INTO recipes (id, name, data, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, data = excluded.data, updated_at = excluded.updated_at
`

const selectRecipeByID = `
SELECT data FROM recipes WHERE id = ?
`

const selectRecipeByName = `
SELECT data FROM recipes WHERE LOWER(TRIM(name)) = ? LIMIT 1
`

const selectAllRecipes = `
SELECT data FROM recipes ORDER BY name COLLATE NOCASE
`

const deleteRecipe = `
DELETE FROM recipes WHERE id = ?
`

const countRecipes = `
SELECT COUNT(*) FROM recipes
`

// Repository is a database-backed repository for saved recipes.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts or updates a recipe in the database.
func (r *Repository) Save(ctx context.Context, dish menu.Dish) error {
	data, err := json.Marshal(dish)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe to JSON: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertRecipe, dish.ID, dish.Name, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", dish.ID, err)
	}
	return nil
}

// Get retrieves a recipe by its ID. Returns nil when not found.
func (r *Repository) Get(ctx context.Context, id string) (*menu.Dish, error) {
	var data string
	err := r.db.QueryRowContext(ctx, selectRecipeByID, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	var dish menu.Dish
	if err := json.Unmarshal([]byte(data), &dish); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	return &dish, nil
}

// GetByName retrieves a recipe by case-insensitive name. Returns nil when not
// found.
func (r *Repository) GetByName(ctx context.Context, name string) (*menu.Dish, error) {
	var data string
	err := r.db.QueryRowContext(ctx, selectRecipeByName, menu.NormalizeName(name)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe by name: %w", err)
	}

	var dish menu.Dish
	if err := json.Unmarshal([]byte(data), &dish); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	return &dish, nil
}

// List retrieves all recipes ordered by name.
func (r *Repository) List(ctx context.Context) ([]menu.Dish, error) {
	rows, err := r.db.QueryContext(ctx, selectAllRecipes)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var dishes []menu.Dish
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		var dish menu.Dish
		if err := json.Unmarshal([]byte(data), &dish); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

// Delete removes a recipe by its ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteRecipe, id); err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	return nil
}

// Count returns the number of saved recipes.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countRecipes).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return n, nil
}
