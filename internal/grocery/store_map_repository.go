package grocery

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"weekly-planner/internal/menu"
)

// StoreMapRepository persists the ingredient→store lookup table used to
// resolve stores for ingredients that carry no label of their own.
type StoreMapRepository struct {
	db *sql.DB
}

// NewStoreMapRepository creates a new StoreMapRepository.
func NewStoreMapRepository(db *sql.DB) *StoreMapRepository {
	return &StoreMapRepository{db: db}
}

// GetAll loads the full map, keyed by trimmed lowercased ingredient text.
func (r *StoreMapRepository) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT ingredient, store FROM ingredient_stores`)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient store map: %w", err)
	}
	defer rows.Close()

	storeMap := make(map[string]string)
	for rows.Next() {
		var ingredient, store string
		if err := rows.Scan(&ingredient, &store); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient store row: %w", err)
		}
		storeMap[ingredient] = store
	}
	return storeMap, rows.Err()
}

const upsertIngredientStore = `
INSERT INTO ingredient_stores (ingredient, store) VALUES (?, ?)
ON CONFLICT(ingredient) DO UPDATE SET store = excluded.store
`

// Set records the preferred store for one ingredient.
func (r *StoreMapRepository) Set(ctx context.Context, ingredient, store string) error {
	key := strings.ToLower(strings.TrimSpace(ingredient))
	if key == "" || store == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, upsertIngredientStore, key, store); err != nil {
		return fmt.Errorf("failed to upsert ingredient store %q: %w", key, err)
	}
	return nil
}

// Learn records the store of every labeled ingredient on the given dishes.
// Saving or importing a recipe teaches the map its stores.
func (r *StoreMapRepository) Learn(ctx context.Context, dishes ...menu.Dish) error {
	for _, dish := range dishes {
		for _, ing := range dish.Ingredients {
			if ing.Store == "" || strings.TrimSpace(ing.Text) == "" {
				continue
			}
			if err := r.Set(ctx, ing.Text, ing.Store); err != nil {
				return err
			}
		}
	}
	return nil
}
