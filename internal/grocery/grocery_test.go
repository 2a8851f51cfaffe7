package grocery

import (
	"reflect"
	"testing"

	"weekly-planner/internal/menu"
)

func weekWith(t *testing.T, placements ...struct {
	dayIdx int
	dish   menu.Dish
}) menu.Week {
	t.Helper()
	w := menu.NewWeek()
	for i, p := range placements {
		mealIdx := i % len(w[p.dayIdx].Meals)
		smID := w[p.dayIdx].Meals[mealIdx].SubMeals[0].ID
		w = menu.AssignDish(w, p.dayIdx, mealIdx, smID, p.dish)
	}
	return w
}

func placement(dayIdx int, dish menu.Dish) struct {
	dayIdx int
	dish   menu.Dish
} {
	return struct {
		dayIdx int
		dish   menu.Dish
	}{dayIdx, dish}
}

func TestCompile_StorePriority(t *testing.T) {
	dish := menu.Dish{
		ID:   "d1",
		Name: "Salad",
		Ingredients: []menu.Ingredient{
			{Text: "Tomatoes", Store: "Greengrocer", Quantity: 2}, // own label wins
			{Text: "Olives", Quantity: 1},                         // resolved via map
			{Text: "Napkins", Quantity: 1},                        // falls through
			{Text: "   ", Quantity: 3},                            // blank text dropped
		},
	}
	w := weekWith(t, placement(0, dish))
	storeMap := map[string]string{"olives": "Supermarket", "tomatoes": "Supermarket"}

	items := Compile(w, storeMap)
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d: %+v", len(items), items)
	}
	byText := make(map[string]CompiledItem)
	for _, it := range items {
		byText[it.Text] = it
	}
	if byText["Tomatoes"].Store != "Greengrocer" {
		t.Errorf("Expected the ingredient's own store to win, got %q", byText["Tomatoes"].Store)
	}
	if byText["Olives"].Store != "Supermarket" {
		t.Errorf("Expected store map lookup, got %q", byText["Olives"].Store)
	}
	if byText["Napkins"].Store != StoreUncategorized {
		t.Errorf("Expected fallback to %s, got %q", StoreUncategorized, byText["Napkins"].Store)
	}
	if byText["Tomatoes"].Day != "monday" {
		t.Errorf("Expected day to be recorded, got %q", byText["Tomatoes"].Day)
	}
}

func TestCompile_QuantityDefault(t *testing.T) {
	dish := menu.Dish{
		ID:   "d1",
		Name: "Stew",
		Ingredients: []menu.Ingredient{
			{Text: "Carrots", Quantity: 0},
			{Text: "Onions", Quantity: -2},
		},
	}
	items := Compile(weekWith(t, placement(0, dish)), nil)
	for _, it := range items {
		if it.Quantity != 1 {
			t.Errorf("Expected quantity 1 for %s, got %v", it.Text, it.Quantity)
		}
	}
}

func TestConsolidate_SplitsByStore(t *testing.T) {
	// Tomatoes from two dishes: 2+3 at the Greengrocer, 1 at the Supermarket.
	monday := menu.Dish{ID: "a", Name: "A", Ingredients: []menu.Ingredient{
		{Text: "Tomatoes", Store: "Greengrocer", Quantity: 2},
	}}
	tuesday := menu.Dish{ID: "b", Name: "B", Ingredients: []menu.Ingredient{
		{Text: "Tomatoes", Store: "Greengrocer", Quantity: 3},
		{Text: "Tomatoes", Store: "Supermarket", Quantity: 1},
	}}
	w := weekWith(t, placement(0, monday), placement(1, tuesday))

	list := List(w, nil)
	if len(list) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %+v", len(list), list)
	}

	if list[0].Store != "Greengrocer" || list[0].Count != 5 {
		t.Errorf("Expected 5 Tomatoes at the Greengrocer, got %+v", list[0])
	}
	if !reflect.DeepEqual(list[0].Days, []string{"monday", "tuesday"}) {
		t.Errorf("Expected days [monday tuesday], got %v", list[0].Days)
	}
	if list[1].Store != "Supermarket" || list[1].Count != 1 {
		t.Errorf("Expected 1 Tomatoes at the Supermarket, got %+v", list[1])
	}
}

func TestConsolidate_DaysAreUnique(t *testing.T) {
	dish := menu.Dish{ID: "a", Name: "A", Ingredients: []menu.Ingredient{
		{Text: "Bread", Quantity: 1},
	}}
	// Same dish twice on monday, in two different meals.
	w := weekWith(t, placement(0, dish), placement(0, dish))

	list := List(w, nil)
	if len(list) != 1 {
		t.Fatalf("Expected a single line, got %+v", list)
	}
	if list[0].Count != 2 {
		t.Errorf("Expected count 2, got %v", list[0].Count)
	}
	if !reflect.DeepEqual(list[0].Days, []string{"monday"}) {
		t.Errorf("Expected days [monday], got %v", list[0].Days)
	}
}

func TestConsolidate_UncategorizedSortsLast(t *testing.T) {
	dish := menu.Dish{ID: "a", Name: "A", Ingredients: []menu.Ingredient{
		{Text: "Napkins", Quantity: 1},
		{Text: "Salmon", Store: "Fishmonger", Quantity: 1},
		{Text: "Apples", Store: "greengrocer", Quantity: 1},
		{Text: "Bread", Store: "Bakery", Quantity: 1},
	}}
	list := List(weekWith(t, placement(0, dish)), nil)

	var stores []string
	for _, item := range list {
		stores = append(stores, item.Store)
	}
	want := []string{"Bakery", "Fishmonger", "greengrocer", StoreUncategorized}
	if !reflect.DeepEqual(stores, want) {
		t.Errorf("Expected store order %v, got %v", want, stores)
	}
}

func TestList_Idempotent(t *testing.T) {
	dish := menu.Dish{ID: "a", Name: "A", Ingredients: []menu.Ingredient{
		{Text: "Rice", Store: "Supermarket", Quantity: 2},
		{Text: "Napkins", Quantity: 1},
	}}
	w := weekWith(t, placement(0, dish), placement(3, dish))
	storeMap := map[string]string{"napkins": "Household"}

	first := List(w, storeMap)
	second := List(w, storeMap)
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical output for identical input")
	}
}

func TestCompile_EmptyWeek(t *testing.T) {
	if items := Compile(menu.NewWeek(), nil); len(items) != 0 {
		t.Errorf("Expected no items for an empty week, got %+v", items)
	}
}
