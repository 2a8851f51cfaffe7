package recipe

import (
	"context"
	"fmt"
	"strings"

	"weekly-planner/internal/menu"
)

// Book manages the saved recipe collection.
type Book struct {
	repo *Repository
}

// NewBook creates a new recipe book over the given repository.
func NewBook(repo *Repository) *Book {
	return &Book{repo: repo}
}

// List returns every saved recipe.
func (b *Book) List(ctx context.Context) ([]menu.Dish, error) {
	return b.repo.List(ctx)
}

// Get returns a single recipe, nil when unknown.
func (b *Book) Get(ctx context.Context, id string) (*menu.Dish, error) {
	return b.repo.Get(ctx, id)
}

// Save stores a dish in the book. A dish without an id gets a fresh one.
// Saving a dish whose name matches an existing recipe (case-insensitive)
// overwrites that recipe instead of creating a near-duplicate.
func (b *Book) Save(ctx context.Context, dish menu.Dish) (menu.Dish, error) {
	if strings.TrimSpace(dish.Name) == "" {
		return menu.Dish{}, fmt.Errorf("recipe name must not be empty")
	}

	if dish.ID == "" {
		if existing, err := b.repo.GetByName(ctx, dish.Name); err != nil {
			return menu.Dish{}, err
		} else if existing != nil {
			dish.ID = existing.ID
		} else {
			dish.ID = menu.NewID()
		}
	}

	if err := b.repo.Save(ctx, dish); err != nil {
		return menu.Dish{}, err
	}
	return dish, nil
}

// Delete removes a recipe from the book.
func (b *Book) Delete(ctx context.Context, id string) error {
	return b.repo.Delete(ctx, id)
}

// ImportResult summarises what an import changed.
type ImportResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// Import merges a batch of recipes into the book. Incoming recipes that
// collide with an existing one by id, or by case-insensitive name, are
// skipped; the existing recipe wins.
func (b *Book) Import(ctx context.Context, dishes []menu.Dish) (ImportResult, error) {
	existing, err := b.repo.List(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	byID := make(map[string]struct{}, len(existing))
	byName := make(map[string]struct{}, len(existing))
	for _, d := range existing {
		byID[d.ID] = struct{}{}
		byName[menu.NormalizeName(d.Name)] = struct{}{}
	}

	var res ImportResult
	for _, d := range dishes {
		if strings.TrimSpace(d.Name) == "" {
			res.Skipped++
			continue
		}
		if _, dup := byID[d.ID]; dup && d.ID != "" {
			res.Skipped++
			continue
		}
		if _, dup := byName[menu.NormalizeName(d.Name)]; dup {
			res.Skipped++
			continue
		}

		if d.ID == "" {
			d.ID = menu.NewID()
		}
		if err := b.repo.Save(ctx, d); err != nil {
			return res, err
		}
		byID[d.ID] = struct{}{}
		byName[menu.NormalizeName(d.Name)] = struct{}{}
		res.Added++
	}
	return res, nil
}

// SeedDefaults inserts the starter recipes when the book is empty, so a new
// installation is not a blank page.
func (b *Book) SeedDefaults(ctx context.Context) error {
	n, err := b.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, d := range defaultRecipes() {
		if err := b.repo.Save(ctx, d); err != nil {
			return fmt.Errorf("failed to seed recipe %s: %w", d.Name, err)
		}
	}
	return nil
}

func defaultRecipes() []menu.Dish {
	return []menu.Dish{
		{
			ID:          "1",
			Name:        "Tortilla Española",
			Description: "Clásica tortilla de patatas y huevo, jugosa por dentro.",
			Categories:  []string{"cat_vegetable", "cat_meal", "cat_gluten_free"},
			Ingredients: []menu.Ingredient{
				{Text: "huevos grandes", Store: "Supermarket", Quantity: 6},
				{Text: "Patatas (kg)", Store: "Greengrocer", Quantity: 1},
				{Text: "Cebolla grande", Store: "Greengrocer", Quantity: 1},
				{Text: "Aceite de oliva (ml)", Store: "Supermarket", Quantity: 250},
				{Text: "Sal (pizca)", Store: "Supermarket", Quantity: 1},
			},
			Instructions: "1. Pelar y cortar las patatas en láminas finas. Cortar la cebolla en juliana.\n2. Freír las patatas y la cebolla en abundante aceite a fuego medio hasta que estén tiernas.\n3. Escurrir bien el aceite. Batir los huevos en un bol grande, añadir sal.\n4. Mezclar las patatas con el huevo batido.\n5. Cuajar la tortilla en una sartén a fuego medio por ambos lados.",
		},
		{
			ID:          "2",
			Name:        "Paella de Marisco",
			Description: "Un sabroso arroz con mariscos frescos, el plato icónico de Valencia.",
			Categories:  []string{"cat_fish", "cat_meal"},
			Ingredients: []menu.Ingredient{
				{Text: "Arroz bomba (g)", Store: "Supermarket", Quantity: 400},
				{Text: "Gambones", Store: "Fishmonger", Quantity: 8},
				{Text: "Calamares (g)", Store: "Fishmonger", Quantity: 200},
				{Text: "Mejillones (g)", Store: "Fishmonger", Quantity: 250},
				{Text: "Pimiento rojo", Store: "Greengrocer", Quantity: 1},
				{Text: "Dientes de ajo", Store: "Greengrocer", Quantity: 2},
				{Text: "Tomate maduro", Store: "Greengrocer", Quantity: 1},
				{Text: "Hebras de azafrán", Store: "Supermarket", Quantity: 1},
				{Text: "Caldo de pescado (litros)", Store: "Supermarket", Quantity: 1},
			},
			Instructions: "1. Sofreír el pimiento y el ajo. Añadir los calamares y el tomate.\n2. Incorporar el arroz y el azafrán, nacarar durante un minuto.\n3. Verter el caldo de pescado caliente (el doble de volumen que de arroz).\n4. Cocer 10 min a fuego fuerte, luego 8 min a fuego bajo.\n5. Colocar los gambones y mejillones por encima en los últimos minutos.\n6. Dejar reposar 5 minutos tapada antes de servir.",
		},
	}
}
