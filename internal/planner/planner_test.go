package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"weekly-planner/internal/i18n"
	"weekly-planner/internal/llm"
	"weekly-planner/internal/menu"
)

// --- Mocks ---

type MockTextGenerator struct {
	Response    string
	ShouldError bool
	LastPrompt  string
	Started     chan struct{}
	Block       chan struct{}
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.LastPrompt = prompt
	if m.Started != nil {
		close(m.Started)
	}
	if m.Block != nil {
		<-m.Block
	}
	if m.ShouldError {
		return llm.ContentResponse{}, fmt.Errorf("mock ai error")
	}
	return llm.ContentResponse{Content: m.Response}, nil
}

func weekResponse(t *testing.T, week menu.Week, fill func(dIdx, mIdx, sIdx int) string) string {
	t.Helper()
	var days []string
	for dIdx, day := range week {
		var meals []string
		for mIdx, meal := range day.Meals {
			var subs []string
			for sIdx := range meal.SubMeals {
				name := fill(dIdx, mIdx, sIdx)
				if name == "" {
					subs = append(subs, `{"dish": null}`)
				} else {
					subs = append(subs, fmt.Sprintf(`{"dish": {"name": "%s", "ingredients": [{"text": "Eggs", "store": "", "qty": 2}]}}`, name))
				}
			}
			meals = append(meals, fmt.Sprintf(`{"subMeals": [%s]}`, strings.Join(subs, ",")))
		}
		days = append(days, fmt.Sprintf(`{"meals": [%s]}`, strings.Join(meals, ",")))
	}
	return "[" + strings.Join(days, ",") + "]"
}

// --- Tests ---

func TestProposeWeek_Success(t *testing.T) {
	week := menu.NewWeek()
	week = menu.AssignDish(week, 0, 0, week[0].Meals[0].SubMeals[0].ID, menu.Dish{ID: "d1", Name: "Existing"})

	mock := &MockTextGenerator{}
	mock.Response = weekResponse(t, week, func(dIdx, mIdx, sIdx int) string {
		if dIdx == 0 && mIdx == 0 {
			return "" // slot already filled, model must skip it
		}
		return fmt.Sprintf("Dish %d-%d", dIdx, mIdx)
	})

	p := NewPlanner(mock)
	proposal, meta, err := p.ProposeWeek(context.Background(), WeekRequest{
		Week:       week,
		Rules:      []string{"No fish on Mondays"},
		RecipeBook: []string{"Grandma's Lentil Stew"},
		Language:   i18n.English,
	})
	if err != nil {
		t.Fatalf("ProposeWeek failed: %v", err)
	}

	if len(proposal) != len(week) {
		t.Fatalf("Expected %d days in proposal, got %d", len(week), len(proposal))
	}
	if proposal[0].Meals[0].SubMeals[0].Dish != nil {
		t.Error("Expected skipped slot to stay empty in the proposal")
	}
	if got := proposal[1].Meals[0].SubMeals[0].Dish; got == nil || got.Name != "Dish 1-0" {
		t.Errorf("Expected generated dish for day 1, got %+v", got)
	}
	if meta.AgentName != "WeekPlanner" {
		t.Errorf("Expected agent 'WeekPlanner', got '%s'", meta.AgentName)
	}
	if !strings.Contains(mock.LastPrompt, "[SKIP]") {
		t.Error("Expected prompt to mark filled slots with [SKIP]")
	}
	if !strings.Contains(mock.LastPrompt, "[GENERATE]") {
		t.Error("Expected prompt to mark empty slots with [GENERATE]")
	}
	if !strings.Contains(mock.LastPrompt, "No fish on Mondays") {
		t.Error("Expected prompt to carry the rules")
	}
	if !strings.Contains(mock.LastPrompt, "Monday") {
		t.Error("Expected prompt to use translated day names")
	}
	if !strings.Contains(mock.LastPrompt, "Grandma's Lentil Stew") {
		t.Error("Expected prompt to offer the recipe book")
	}
}

func TestProposeWeek_WrongDayCount(t *testing.T) {
	mock := &MockTextGenerator{Response: `[{"meals": []}]`}
	p := NewPlanner(mock)

	_, _, err := p.ProposeWeek(context.Background(), WeekRequest{
		Week:     menu.NewWeek(),
		Language: i18n.English,
	})
	if err == nil {
		t.Fatal("Expected an error for a truncated response, got nil")
	}
}

func TestProposeWeek_BusyGuard(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	mock := &MockTextGenerator{Block: block, Started: started, Response: "[]"}
	p := NewPlanner(mock)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.ProposeWeek(context.Background(), WeekRequest{Week: menu.NewWeek(), Language: i18n.English})
	}()

	// Wait until the first call is inside the generator.
	<-started

	_, _, err := p.ProposeWeek(context.Background(), WeekRequest{Week: menu.NewWeek(), Language: i18n.English})
	if !errors.Is(err, ErrGenerationInFlight) {
		t.Fatalf("Expected ErrGenerationInFlight, got %v", err)
	}

	close(block)
	<-done
	if p.Busy() {
		t.Error("Expected busy flag to clear after generation finishes")
	}
}

func TestSuggestDishes(t *testing.T) {
	mock := &MockTextGenerator{
		Response: `[{"name": "Lentil Stew", "description": "Hearty", "categories": ["Legumes"], "ingredients": [{"text": "Lentils", "store": "Supermarket", "qty": 1}], "instructions": "Simmer."}]`,
	}
	p := NewPlanner(mock)

	dishes, meta, err := p.SuggestDishes(context.Background(), SuggestRequest{
		Category: "Legumes",
		MealName: "Lunch",
		Language: i18n.English,
	})
	if err != nil {
		t.Fatalf("SuggestDishes failed: %v", err)
	}
	if len(dishes) != 1 || dishes[0].Name != "Lentil Stew" {
		t.Fatalf("Expected one 'Lentil Stew' suggestion, got %+v", dishes)
	}
	if dishes[0].Ingredients[0].Store != "Supermarket" {
		t.Errorf("Expected ingredient store to survive, got '%s'", dishes[0].Ingredients[0].Store)
	}
	if meta.AgentName != "Suggester" {
		t.Errorf("Expected agent 'Suggester', got '%s'", meta.AgentName)
	}
	if !strings.Contains(mock.LastPrompt, "Legumes") {
		t.Error("Expected prompt to carry the requested category")
	}
}

func TestSuggestDishes_ParseError(t *testing.T) {
	mock := &MockTextGenerator{Response: "not json"}
	p := NewPlanner(mock)

	_, _, err := p.SuggestDishes(context.Background(), SuggestRequest{Language: i18n.English})
	if err == nil {
		t.Fatal("Expected a parse error, got nil")
	}
}
