package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"weekly-planner/internal/clipper"
	"weekly-planner/internal/grocery"
	"weekly-planner/internal/i18n"
	"weekly-planner/internal/menu"
	"weekly-planner/internal/metrics"
	"weekly-planner/internal/planner"
	"weekly-planner/internal/recipe"
	"weekly-planner/internal/rules"
	"weekly-planner/internal/settings"
)

// DefaultWeekID identifies the saved week created on first run.
const DefaultWeekID = "default-new-menu"

// ErrNotFound marks lookups for ids that do not exist.
var ErrNotFound = errors.New("not found")

const sectionHistoryLimit = 30

// WeekState is the menu the user is currently editing plus its metadata.
// It lives in memory and is mirrored to the settings store after every
// mutation so a restart picks up where the user left off.
type WeekState struct {
	Menu         menu.Week `json:"menu"`
	Notes        string    `json:"notes"`
	RuleNames    []string  `json:"ruleNames"`
	ActiveWeekID string    `json:"activeWeekId"`
}

func (s WeekState) clone() WeekState {
	out := s
	out.Menu = s.Menu.Clone()
	out.RuleNames = append([]string(nil), s.RuleNames...)
	return out
}

// App wires the menu model, the collections and the AI planner together
// behind a single mutex. All mutations of the active week go through here.
type App struct {
	mu    sync.Mutex
	state WeekState

	weeks    *menu.WeekRepository
	book     *recipe.Book
	rules    *rules.Service
	storeMap *grocery.StoreMapRepository
	settings *settings.Repository
	planner  *planner.Planner
	clipper  *clipper.Clipper
	metrics  *metrics.Store

	language i18n.Language
}

// New creates the App. Call Bootstrap before serving requests.
func New(
	weeks *menu.WeekRepository,
	book *recipe.Book,
	rulesSvc *rules.Service,
	storeMap *grocery.StoreMapRepository,
	settingsRepo *settings.Repository,
	plannerSvc *planner.Planner,
	clipperSvc *clipper.Clipper,
	metricsStore *metrics.Store,
	language i18n.Language,
) *App {
	return &App{
		weeks:    weeks,
		book:     book,
		rules:    rulesSvc,
		storeMap: storeMap,
		settings: settingsRepo,
		planner:  plannerSvc,
		clipper:  clipperSvc,
		metrics:  metricsStore,
		language: language,
	}
}

// Bootstrap seeds the starter data and restores the active week. On a fresh
// database it creates an empty default week so the user never faces a blank
// screen.
func (a *App) Bootstrap(ctx context.Context) error {
	if err := a.book.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed recipes: %w", err)
	}

	// Stores learned from the seed recipes power grocery categorisation
	// from day one.
	seeded, err := a.book.List(ctx)
	if err != nil {
		return err
	}
	if err := a.storeMap.Learn(ctx, seeded...); err != nil {
		return fmt.Errorf("failed to learn ingredient stores: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var state WeekState
	found, err := a.settings.GetJSON(ctx, settings.KeyActiveWeek, &state)
	if err != nil {
		return err
	}
	if found && len(state.Menu) > 0 {
		a.state = state
		return nil
	}

	a.state = WeekState{Menu: menu.NewWeek(), ActiveWeekID: DefaultWeekID}
	def, err := a.weeks.Get(ctx, DefaultWeekID)
	if err != nil {
		return err
	}
	if def == nil {
		saved := menu.SavedWeek{ID: DefaultWeekID, Name: "New menu", Menu: a.state.Menu.Clone()}
		if err := a.weeks.Save(ctx, saved); err != nil {
			return fmt.Errorf("failed to save default week: %w", err)
		}
	}
	return a.persistLocked(ctx)
}

// persistLocked mirrors the in-memory state to the settings store. Callers
// must hold a.mu.
func (a *App) persistLocked(ctx context.Context) error {
	if err := a.settings.SetJSON(ctx, settings.KeyActiveWeek, a.state); err != nil {
		return err
	}
	return a.settings.Set(ctx, settings.KeyActiveWeekID, a.state.ActiveWeekID)
}

// ActiveWeek returns a deep copy of the current week state.
func (a *App) ActiveWeek() WeekState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.clone()
}

// Language returns the configured display language.
func (a *App) Language() i18n.Language {
	return a.language
}

// mutateWeek applies fn to the active menu and persists the result. The
// menu operations are copy-on-write so an invalid edit leaves the state
// untouched.
func (a *App) mutateWeek(ctx context.Context, fn func(menu.Week) menu.Week) (menu.Week, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state.Menu = fn(a.state.Menu)
	if err := a.persistLocked(ctx); err != nil {
		return nil, err
	}
	return a.state.Menu.Clone(), nil
}

// AssignDish puts a dish into a sub-meal slot.
func (a *App) AssignDish(ctx context.Context, dayIdx, mealIdx int, subMealID string, dish menu.Dish) (menu.Week, error) {
	return a.mutateWeek(ctx, func(w menu.Week) menu.Week {
		return menu.AssignDish(w, dayIdx, mealIdx, subMealID, dish)
	})
}

// RemoveDish clears a sub-meal slot.
func (a *App) RemoveDish(ctx context.Context, dayIdx, mealIdx int, subMealID string) (menu.Week, error) {
	return a.mutateWeek(ctx, func(w menu.Week) menu.Week {
		return menu.RemoveDish(w, dayIdx, mealIdx, subMealID)
	})
}

// AddSubMeal appends a named section to a meal and records the name for
// future suggestions.
func (a *App) AddSubMeal(ctx context.Context, dayIdx, mealIdx int, name string) (menu.Week, error) {
	week, err := a.mutateWeek(ctx, func(w menu.Week) menu.Week {
		return menu.AddSubMeal(w, dayIdx, mealIdx, name)
	})
	if err != nil {
		return nil, err
	}
	a.recordSectionName(ctx, name)
	return week, nil
}

// RenameSubMeal renames a section.
func (a *App) RenameSubMeal(ctx context.Context, dayIdx, mealIdx int, subMealID, newName string) (menu.Week, error) {
	week, err := a.mutateWeek(ctx, func(w menu.Week) menu.Week {
		return menu.RenameSubMeal(w, dayIdx, mealIdx, subMealID, newName)
	})
	if err != nil {
		return nil, err
	}
	a.recordSectionName(ctx, newName)
	return week, nil
}

// RemoveSubMeal deletes a section; the last section of a meal stays put.
func (a *App) RemoveSubMeal(ctx context.Context, dayIdx, mealIdx int, subMealID string) (menu.Week, error) {
	return a.mutateWeek(ctx, func(w menu.Week) menu.Week {
		return menu.RemoveSubMeal(w, dayIdx, mealIdx, subMealID)
	})
}

// AddMeal appends a meal to a day. Names that match a standard meal in the
// active language are stored as that standard meal.
func (a *App) AddMeal(ctx context.Context, dayIdx int, name string) (menu.Week, error) {
	mealName := i18n.MealNameFor(name, a.language)
	return a.mutateWeek(ctx, func(w menu.Week) menu.Week {
		return menu.AddMeal(w, dayIdx, mealName)
	})
}

// RemoveMeal deletes a meal from a day.
func (a *App) RemoveMeal(ctx context.Context, dayIdx, mealIdx int) (menu.Week, error) {
	return a.mutateWeek(ctx, func(w menu.Week) menu.Week {
		return menu.RemoveMeal(w, dayIdx, mealIdx)
	})
}

// MoveMeal reorders a meal within its day.
func (a *App) MoveMeal(ctx context.Context, dayIdx, mealIdx int, dir menu.Direction) (menu.Week, error) {
	return a.mutateWeek(ctx, func(w menu.Week) menu.Week {
		return menu.MoveMeal(w, dayIdx, mealIdx, dir)
	})
}

// MoveSubMeal reorders a section within its meal.
func (a *App) MoveSubMeal(ctx context.Context, dayIdx, mealIdx, subMealIdx int, dir menu.Direction) (menu.Week, error) {
	return a.mutateWeek(ctx, func(w menu.Week) menu.Week {
		return menu.MoveSubMeal(w, dayIdx, mealIdx, subMealIdx, dir)
	})
}

// SetNotes replaces the free-text notes attached to the active week.
func (a *App) SetNotes(ctx context.Context, notes string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Notes = notes
	return a.persistLocked(ctx)
}

// GenerateWeek asks the AI to fill the empty slots of the active week,
// constrained by the named rules. Filled slots are never overwritten. On any
// failure the active week is left exactly as it was.
func (a *App) GenerateWeek(ctx context.Context, ruleNames []string, customContext string) (menu.Week, error) {
	a.mu.Lock()
	current := a.state.Menu.Clone()
	a.mu.Unlock()

	ruleTexts, err := a.rules.RuleTexts(ctx, ruleNames)
	if err != nil {
		return nil, err
	}

	saved, err := a.book.List(ctx)
	if err != nil {
		return nil, err
	}
	bookNames := make([]string, 0, len(saved))
	for _, dish := range saved {
		bookNames = append(bookNames, dish.Name)
	}

	proposal, meta, err := a.planner.ProposeWeek(ctx, planner.WeekRequest{
		Week:          current,
		Rules:         ruleTexts,
		RecipeBook:    bookNames,
		CustomContext: customContext,
		Language:      a.language,
	})
	if a.metrics != nil {
		if mErr := a.metrics.RecordMeta(ctx, meta); mErr != nil {
			log.Printf("failed to record generation metrics: %v", mErr)
		}
	}
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Menu = menu.MergeProposal(a.state.Menu, proposal)
	a.state.RuleNames = append([]string(nil), ruleNames...)
	if err := a.persistLocked(ctx); err != nil {
		return nil, err
	}
	return a.state.Menu.Clone(), nil
}

// SuggestDishes asks the AI for dish ideas for a single slot.
func (a *App) SuggestDishes(ctx context.Context, req planner.SuggestRequest) ([]menu.Dish, error) {
	if req.Language == "" {
		req.Language = a.language
	}
	dishes, meta, err := a.planner.SuggestDishes(ctx, req)
	if a.metrics != nil {
		if mErr := a.metrics.RecordMeta(ctx, meta); mErr != nil {
			log.Printf("failed to record suggestion metrics: %v", mErr)
		}
	}
	if err != nil {
		return nil, err
	}
	return dishes, nil
}

// GenerationBusy reports whether a full-week generation is in flight.
func (a *App) GenerationBusy() bool {
	return a.planner.Busy()
}

func (a *App) recordSectionName(ctx context.Context, name string) {
	name = strings.TrimSpace(name)
	if name == "" || name == menu.DefaultSubMealName {
		return
	}

	var history []string
	if _, err := a.settings.GetJSON(ctx, settings.KeySectionHistory, &history); err != nil {
		log.Printf("failed to load section history: %v", err)
		return
	}
	for _, h := range history {
		if strings.EqualFold(h, name) {
			return
		}
	}
	history = append([]string{name}, history...)
	if len(history) > sectionHistoryLimit {
		history = history[:sectionHistoryLimit]
	}
	if err := a.settings.SetJSON(ctx, settings.KeySectionHistory, history); err != nil {
		log.Printf("failed to save section history: %v", err)
	}
}

// SectionSuggestions returns section name ideas: the built-in ones plus the
// user's own history.
func (a *App) SectionSuggestions(ctx context.Context) ([]string, error) {
	var history []string
	if _, err := a.settings.GetJSON(ctx, settings.KeySectionHistory, &history); err != nil {
		return nil, err
	}
	return i18n.SectionSuggestions(history, a.language), nil
}

// MealSuggestions returns the standard meals a day does not have yet.
func (a *App) MealSuggestions(dayIdx int) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if dayIdx < 0 || dayIdx >= len(a.state.Menu) {
		return nil
	}
	return i18n.MealSuggestions(a.state.Menu[dayIdx], a.language)
}
