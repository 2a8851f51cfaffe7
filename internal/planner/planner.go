package planner

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"text/template"
	"time"

	"weekly-planner/internal/i18n"
	"weekly-planner/internal/llm"
	"weekly-planner/internal/menu"
	"weekly-planner/internal/shared"
)

//go:embed week_prompt.md
var weekPrompt string

//go:embed suggest_prompt.md
var suggestPrompt string

// ErrGenerationInFlight is returned when a week generation is requested while
// another one is still running.
var ErrGenerationInFlight = errors.New("a menu generation is already in progress")

// generationTimeout bounds a single full-week generation.
const generationTimeout = 120 * time.Second

// Planner generates dishes for the weekly menu through an LLM.
type Planner struct {
	textGen llm.TextGenerator
	busy    atomic.Bool
}

// NewPlanner creates a new Planner instance.
func NewPlanner(textGen llm.TextGenerator) *Planner {
	return &Planner{textGen: textGen}
}

// Busy reports whether a week generation is currently running.
func (p *Planner) Busy() bool {
	return p.busy.Load()
}

// WeekRequest describes a full-week generation. RecipeBook carries the names
// of the user's saved recipes so the model reaches for those first.
type WeekRequest struct {
	Week          menu.Week
	Rules         []string
	RecipeBook    []string
	CustomContext string
	Language      i18n.Language
}

// SuggestRequest describes a dish suggestion call.
type SuggestRequest struct {
	Category      string
	MealName      string
	Count         int
	CustomContext string
	Language      i18n.Language
}

type weekPromptData struct {
	LanguageName    string
	DayCount        int
	Rules           []string
	RecipeBook      []string
	CustomContext   string
	Structure       string
	KnownCategories string
}

type suggestPromptData struct {
	LanguageName    string
	Category        string
	MealName        string
	Count           int
	CustomContext   string
	KnownCategories string
}

// llmDish is the wire shape dishes come back in from the model.
type llmDish struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	Ingredients []struct {
		Text  string  `json:"text"`
		Store string  `json:"store"`
		Qty   float64 `json:"qty"`
	} `json:"ingredients"`
	Instructions string `json:"instructions"`
}

type llmSubMeal struct {
	Dish *llmDish `json:"dish"`
}

type llmMeal struct {
	SubMeals []llmSubMeal `json:"subMeals"`
}

type llmDay struct {
	Meals []llmMeal `json:"meals"`
}

// ProposeWeek asks the model for dishes for the empty slots of the given week
// and returns the raw positional proposal. Filled slots come back empty in the
// proposal; combining it with the current week is the caller's job.
func (p *Planner) ProposeWeek(ctx context.Context, req WeekRequest) (menu.Week, shared.AgentMeta, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return nil, shared.AgentMeta{}, ErrGenerationInFlight
	}
	defer p.busy.Store(false)

	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	start := time.Now()
	prompt, err := buildPrompt("week", weekPrompt, weekPromptData{
		LanguageName:    req.Language.Name(),
		DayCount:        len(req.Week),
		Rules:           req.Rules,
		RecipeBook:      req.RecipeBook,
		CustomContext:   req.CustomContext,
		Structure:       describeWeek(req.Week, req.Language),
		KnownCategories: knownCategories(req.Language),
	})
	if err != nil {
		return nil, shared.AgentMeta{}, err
	}

	resp, err := p.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, shared.AgentMeta{}, fmt.Errorf("failed to generate weekly menu: %w", err)
	}

	meta := shared.AgentMeta{
		AgentName: "WeekPlanner",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}

	var days []llmDay
	if err := json.Unmarshal([]byte(resp.Content), &days); err != nil {
		return nil, meta, fmt.Errorf("failed to parse weekly menu response: %w. Response: %s", err, resp.Content)
	}
	if len(days) != len(req.Week) {
		return nil, meta, fmt.Errorf("expected %d days in response, got %d", len(req.Week), len(days))
	}

	proposal := make(menu.Week, len(days))
	for i, d := range days {
		day := menu.Day{Name: req.Week[i].Name}
		for _, m := range d.Meals {
			meal := menu.Meal{}
			for _, s := range m.SubMeals {
				meal.SubMeals = append(meal.SubMeals, menu.SubMeal{Dish: toDish(s.Dish)})
			}
			day.Meals = append(day.Meals, meal)
		}
		proposal[i] = day
	}
	return proposal, meta, nil
}

// SuggestDishes asks the model for a handful of dish ideas.
func (p *Planner) SuggestDishes(ctx context.Context, req SuggestRequest) ([]menu.Dish, shared.AgentMeta, error) {
	if req.Count <= 0 {
		req.Count = 3
	}

	start := time.Now()
	prompt, err := buildPrompt("suggest", suggestPrompt, suggestPromptData{
		LanguageName:    req.Language.Name(),
		Category:        req.Category,
		MealName:        req.MealName,
		Count:           req.Count,
		CustomContext:   req.CustomContext,
		KnownCategories: knownCategories(req.Language),
	})
	if err != nil {
		return nil, shared.AgentMeta{}, err
	}

	resp, err := p.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, shared.AgentMeta{}, fmt.Errorf("failed to generate dish suggestions: %w", err)
	}

	meta := shared.AgentMeta{
		AgentName: "Suggester",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}

	var raw []llmDish
	if err := json.Unmarshal([]byte(resp.Content), &raw); err != nil {
		return nil, meta, fmt.Errorf("failed to parse suggestion response: %w. Response: %s", err, resp.Content)
	}

	var dishes []menu.Dish
	for _, r := range raw {
		if d := toDish(&r); d != nil {
			dishes = append(dishes, *d)
		}
	}
	if len(dishes) == 0 {
		return nil, meta, fmt.Errorf("no dishes in suggestion response")
	}
	return dishes, meta, nil
}

// describeWeek renders the week structure as prompt text, with translated
// day and meal names and a [SKIP]/[GENERATE] marker per section.
func describeWeek(w menu.Week, lang i18n.Language) string {
	var sb strings.Builder
	for _, day := range w {
		fmt.Fprintf(&sb, "Day: %s\n", i18n.Label(day.Name, lang))
		for _, meal := range day.Meals {
			name := meal.Name.String()
			if meal.Name.IsStandard() {
				name = i18n.Label(meal.Name.Key(), lang)
			}
			fmt.Fprintf(&sb, "  Meal: %s\n", name)
			for _, sub := range meal.SubMeals {
				marker := "[GENERATE]"
				if sub.Dish != nil {
					marker = "[SKIP]"
				}
				fmt.Fprintf(&sb, "    Section: %s %s\n", sub.Name, marker)
			}
		}
	}
	return sb.String()
}

func knownCategories(lang i18n.Language) string {
	names := make([]string, 0, len(i18n.DefaultDishCategories))
	for _, key := range i18n.DefaultDishCategories {
		names = append(names, i18n.Label(key, lang))
	}
	return strings.Join(names, ", ")
}

func toDish(d *llmDish) *menu.Dish {
	if d == nil || strings.TrimSpace(d.Name) == "" {
		return nil
	}
	dish := &menu.Dish{
		Name:         strings.TrimSpace(d.Name),
		Description:  strings.TrimSpace(d.Description),
		Categories:   d.Categories,
		Instructions: strings.TrimSpace(d.Instructions),
	}
	for _, ing := range d.Ingredients {
		text := strings.TrimSpace(ing.Text)
		if text == "" {
			continue
		}
		qty := ing.Qty
		if qty <= 0 {
			qty = 1
		}
		dish.Ingredients = append(dish.Ingredients, menu.Ingredient{
			Text:     text,
			Store:    strings.TrimSpace(ing.Store),
			Quantity: qty,
		})
	}
	return dish
}

func buildPrompt(name, text string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
