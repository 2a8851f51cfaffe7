package app

import (
	"context"
	"fmt"
	"strings"

	"weekly-planner/internal/grocery"
	"weekly-planner/internal/i18n"
	"weekly-planner/internal/menu"
	"weekly-planner/internal/recipe"
	"weekly-planner/internal/rules"
	"weekly-planner/internal/settings"
)

// --- Saved weeks ---

// ListWeeks returns every saved week.
func (a *App) ListWeeks(ctx context.Context) ([]menu.SavedWeek, error) {
	return a.weeks.List(ctx)
}

// SaveWeekAs snapshots the active week under a new name.
func (a *App) SaveWeekAs(ctx context.Context, name string) (menu.SavedWeek, error) {
	if strings.TrimSpace(name) == "" {
		return menu.SavedWeek{}, fmt.Errorf("week name must not be empty")
	}

	a.mu.Lock()
	saved := menu.SavedWeek{
		ID:        menu.NewID(),
		Name:      strings.TrimSpace(name),
		Menu:      a.state.Menu.Clone(),
		Notes:     a.state.Notes,
		RuleNames: append([]string(nil), a.state.RuleNames...),
	}
	a.mu.Unlock()

	if err := a.weeks.Save(ctx, saved); err != nil {
		return menu.SavedWeek{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.ActiveWeekID = saved.ID
	if err := a.persistLocked(ctx); err != nil {
		return menu.SavedWeek{}, err
	}
	return saved, nil
}

// OverwriteWeek replaces the stored copy of a saved week with the active one.
func (a *App) OverwriteWeek(ctx context.Context, id string) error {
	existing, err := a.weeks.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("saved week %s: %w", id, ErrNotFound)
	}

	a.mu.Lock()
	updated := menu.SavedWeek{
		ID:        id,
		Name:      existing.Name,
		Menu:      a.state.Menu.Clone(),
		Notes:     a.state.Notes,
		RuleNames: append([]string(nil), a.state.RuleNames...),
	}
	a.mu.Unlock()

	if err := a.weeks.Update(ctx, updated); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.ActiveWeekID = id
	return a.persistLocked(ctx)
}

// LoadWeek makes a saved week the active one. The stored copy is deep-copied
// so later edits do not leak into the library until the user saves again.
func (a *App) LoadWeek(ctx context.Context, id string) (WeekState, error) {
	saved, err := a.weeks.Get(ctx, id)
	if err != nil {
		return WeekState{}, err
	}
	if saved == nil {
		return WeekState{}, fmt.Errorf("saved week %s: %w", id, ErrNotFound)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = WeekState{
		Menu:         saved.Menu.Clone(),
		Notes:        saved.Notes,
		RuleNames:    append([]string(nil), saved.RuleNames...),
		ActiveWeekID: saved.ID,
	}
	if err := a.persistLocked(ctx); err != nil {
		return WeekState{}, err
	}
	return a.state.clone(), nil
}

// DeleteWeek removes a saved week. Deleting the active one keeps the
// in-memory menu but detaches it from the library.
func (a *App) DeleteWeek(ctx context.Context, id string) error {
	if err := a.weeks.Delete(ctx, id); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.ActiveWeekID == id {
		a.state.ActiveWeekID = ""
		return a.persistLocked(ctx)
	}
	return nil
}

// ImportWeeks merges exported weeks into the library, skipping ids that
// already exist.
func (a *App) ImportWeeks(ctx context.Context, weeks []menu.SavedWeek) (added, skipped int, err error) {
	for _, w := range weeks {
		if w.ID == "" || len(w.Menu) == 0 {
			skipped++
			continue
		}
		existing, err := a.weeks.Get(ctx, w.ID)
		if err != nil {
			return added, skipped, err
		}
		if existing != nil {
			skipped++
			continue
		}
		if err := a.weeks.Save(ctx, w); err != nil {
			return added, skipped, err
		}
		added++
	}
	return added, skipped, nil
}

// --- Recipes ---

// ListRecipes returns the recipe book.
func (a *App) ListRecipes(ctx context.Context) ([]menu.Dish, error) {
	return a.book.List(ctx)
}

// SaveRecipe stores a recipe, learns its ingredient stores and pushes the
// updated version into every matching slot of the active week.
func (a *App) SaveRecipe(ctx context.Context, dish menu.Dish) (menu.Dish, error) {
	saved, err := a.book.Save(ctx, dish)
	if err != nil {
		return menu.Dish{}, err
	}
	if err := a.storeMap.Learn(ctx, saved); err != nil {
		return menu.Dish{}, err
	}
	if err := a.syncActiveWeek(ctx); err != nil {
		return menu.Dish{}, err
	}
	return saved, nil
}

// DeleteRecipe removes a recipe from the book. Dishes already placed on the
// week keep their embedded copy.
func (a *App) DeleteRecipe(ctx context.Context, id string) error {
	return a.book.Delete(ctx, id)
}

// ImportRecipes merges exported recipes into the book and refreshes the
// active week.
func (a *App) ImportRecipes(ctx context.Context, dishes []menu.Dish) (recipe.ImportResult, error) {
	res, err := a.book.Import(ctx, dishes)
	if err != nil {
		return res, err
	}
	if err := a.storeMap.Learn(ctx, dishes...); err != nil {
		return res, err
	}
	return res, a.syncActiveWeek(ctx)
}

// ClipRecipe imports a recipe from a URL straight into the book.
func (a *App) ClipRecipe(ctx context.Context, url string) (menu.Dish, error) {
	dish, meta, err := a.clipper.ClipURL(ctx, url)
	if a.metrics != nil && meta != nil {
		_ = a.metrics.RecordMeta(ctx, *meta)
	}
	if err != nil {
		return menu.Dish{}, err
	}
	return a.SaveRecipe(ctx, *dish)
}

// syncActiveWeek re-resolves every dish on the active week against the
// recipe book.
func (a *App) syncActiveWeek(ctx context.Context) error {
	book, err := a.book.List(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Menu = menu.SyncRecipeBook(a.state.Menu, book)
	return a.persistLocked(ctx)
}

// --- Rules ---

// Rules exposes the rules service for read and write operations.
func (a *App) Rules() *rules.Service {
	return a.rules
}

// --- Grocery ---

// GroceryList aggregates the active week into a consolidated shopping list.
func (a *App) GroceryList(ctx context.Context) ([]grocery.ConsolidatedItem, error) {
	storeMap, err := a.storeMap.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	week := a.state.Menu.Clone()
	a.mu.Unlock()

	return grocery.List(week, storeMap), nil
}

// --- UI settings ---

// Theme returns the stored UI theme, "" when unset.
func (a *App) Theme(ctx context.Context) (string, error) {
	return a.settings.Get(ctx, settings.KeyTheme)
}

// SetTheme stores the UI theme.
func (a *App) SetTheme(ctx context.Context, theme string) error {
	return a.settings.Set(ctx, settings.KeyTheme, theme)
}

// HiddenDays returns the day keys the user collapsed.
func (a *App) HiddenDays(ctx context.Context) ([]string, error) {
	var days []string
	if _, err := a.settings.GetJSON(ctx, settings.KeyHiddenDays, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// SetHiddenDays stores the collapsed day keys.
func (a *App) SetHiddenDays(ctx context.Context, days []string) error {
	return a.settings.SetJSON(ctx, settings.KeyHiddenDays, days)
}

// DishCategories returns the user's dish category list, falling back to the
// built-in defaults.
func (a *App) DishCategories(ctx context.Context) ([]string, error) {
	var cats []string
	found, err := a.settings.GetJSON(ctx, settings.KeyDishCategories, &cats)
	if err != nil {
		return nil, err
	}
	if !found || len(cats) == 0 {
		return append([]string(nil), i18n.DefaultDishCategories...), nil
	}
	return cats, nil
}

// SetDishCategories stores the user's dish category list. The built-in
// categories cannot be removed: whatever arrives is merged on top of the
// defaults. An empty list clears the stored value so the defaults apply.
func (a *App) SetDishCategories(ctx context.Context, cats []string) error {
	if len(cats) == 0 {
		return a.settings.Delete(ctx, settings.KeyDishCategories)
	}

	merged := append([]string(nil), i18n.DefaultDishCategories...)
	seen := make(map[string]bool, len(merged))
	for _, c := range merged {
		seen[c] = true
	}
	for _, c := range cats {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		merged = append(merged, c)
	}
	return a.settings.SetJSON(ctx, settings.KeyDishCategories, merged)
}
