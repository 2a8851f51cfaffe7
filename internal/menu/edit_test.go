package menu

import (
	"reflect"
	"testing"
)

func testDish(id, name string) Dish {
	return Dish{
		ID:   id,
		Name: name,
		Ingredients: []Ingredient{
			{Text: "Eggs", Store: "Supermarket", Quantity: 2},
		},
	}
}

func TestNewWeek(t *testing.T) {
	w := NewWeek()

	if len(w) != 7 {
		t.Fatalf("Expected 7 days, got %d", len(w))
	}
	if w[0].Name != "monday" || w[6].Name != "sunday" {
		t.Errorf("Expected monday..sunday, got %s..%s", w[0].Name, w[6].Name)
	}

	seen := make(map[string]struct{})
	for _, day := range w {
		if len(day.Meals) != 3 {
			t.Fatalf("Expected 3 default meals for %s, got %d", day.Name, len(day.Meals))
		}
		for _, meal := range day.Meals {
			if !meal.Name.IsStandard() {
				t.Errorf("Expected standard meal name, got %q", meal.Name.String())
			}
			if len(meal.SubMeals) != 1 {
				t.Fatalf("Expected a single sub-meal, got %d", len(meal.SubMeals))
			}
			sm := meal.SubMeals[0]
			if sm.Name != DefaultSubMealName {
				t.Errorf("Expected sub-meal name %q, got %q", DefaultSubMealName, sm.Name)
			}
			if sm.Dish != nil {
				t.Error("Expected new sub-meals to be empty")
			}
			if _, dup := seen[sm.ID]; dup {
				t.Errorf("Duplicate sub-meal id %s", sm.ID)
			}
			seen[sm.ID] = struct{}{}
		}
	}
}

func TestAssignAndRemoveDish(t *testing.T) {
	w := NewWeek()
	smID := w[0].Meals[0].SubMeals[0].ID

	next := AssignDish(w, 0, 0, smID, testDish("d1", "Omelette"))
	if w[0].Meals[0].SubMeals[0].Dish != nil {
		t.Error("Expected the input week to stay unchanged")
	}
	got := next[0].Meals[0].SubMeals[0].Dish
	if got == nil || got.Name != "Omelette" {
		t.Fatalf("Expected assigned dish, got %+v", got)
	}

	// The stored dish must be a copy, not a shared pointer target.
	got.Ingredients[0].Text = "changed"
	if next2 := AssignDish(w, 0, 0, smID, testDish("d1", "Omelette")); next2[0].Meals[0].SubMeals[0].Dish.Ingredients[0].Text != "Eggs" {
		t.Error("Expected assigned dish to be deep-copied")
	}

	cleared := RemoveDish(next, 0, 0, smID)
	if cleared[0].Meals[0].SubMeals[0].Dish != nil {
		t.Error("Expected slot to be empty after RemoveDish")
	}

	// Removing from an already empty slot is a no-op returning the input.
	if again := RemoveDish(cleared, 0, 0, smID); !reflect.DeepEqual(again, cleared) {
		t.Error("Expected RemoveDish on an empty slot to be a no-op")
	}
}

func TestAssignDish_InvalidCoordinates(t *testing.T) {
	w := NewWeek()
	cases := []struct {
		name    string
		dayIdx  int
		mealIdx int
		smID    string
	}{
		{"DayOutOfRange", 7, 0, w[0].Meals[0].SubMeals[0].ID},
		{"NegativeDay", -1, 0, w[0].Meals[0].SubMeals[0].ID},
		{"MealOutOfRange", 0, 3, w[0].Meals[0].SubMeals[0].ID},
		{"UnknownSubMeal", 0, 0, "nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := AssignDish(w, tc.dayIdx, tc.mealIdx, tc.smID, testDish("d1", "X"))
			if !reflect.DeepEqual(next, w) {
				t.Error("Expected invalid coordinates to be a no-op")
			}
		})
	}
}

func TestAddAndRemoveSubMeal(t *testing.T) {
	w := NewWeek()

	next := AddSubMeal(w, 0, 0, "Dessert")
	subs := next[0].Meals[0].SubMeals
	if len(subs) != 2 {
		t.Fatalf("Expected 2 sub-meals, got %d", len(subs))
	}
	if subs[1].Name != "Dessert" || subs[1].ID == "" || subs[1].Dish != nil {
		t.Errorf("Unexpected appended sub-meal: %+v", subs[1])
	}
	if subs[0].ID != w[0].Meals[0].SubMeals[0].ID {
		t.Error("Expected existing sub-meal ids to be stable")
	}

	removed := RemoveSubMeal(next, 0, 0, subs[1].ID)
	if len(removed[0].Meals[0].SubMeals) != 1 {
		t.Fatal("Expected the dessert section to be removed")
	}

	// A meal never loses its last sub-meal.
	if last := RemoveSubMeal(removed, 0, 0, removed[0].Meals[0].SubMeals[0].ID); len(last[0].Meals[0].SubMeals) != 1 {
		t.Error("Expected removal of the last sub-meal to be refused")
	}

	// Unknown id is a no-op.
	if same := RemoveSubMeal(next, 0, 0, "nope"); !reflect.DeepEqual(same, next) {
		t.Error("Expected unknown sub-meal id to be a no-op")
	}
}

func TestRenameSubMeal(t *testing.T) {
	w := NewWeek()
	smID := w[0].Meals[0].SubMeals[0].ID

	next := RenameSubMeal(w, 0, 0, smID, "Starter")
	if next[0].Meals[0].SubMeals[0].Name != "Starter" {
		t.Error("Expected sub-meal to be renamed")
	}
	if next[0].Meals[0].SubMeals[0].ID != smID {
		t.Error("Expected rename to keep the id")
	}

	for _, blank := range []string{"", "   ", "\t"} {
		if got := RenameSubMeal(w, 0, 0, smID, blank); !reflect.DeepEqual(got, w) {
			t.Errorf("Expected blank rename %q to be rejected", blank)
		}
	}
}

func TestAddAndRemoveMeal(t *testing.T) {
	w := NewWeek()

	name, _ := StandardMeal("snack")
	next := AddMeal(w, 2, name)
	if len(next[2].Meals) != 4 {
		t.Fatalf("Expected 4 meals, got %d", len(next[2].Meals))
	}
	added := next[2].Meals[3]
	if added.Name.Key() != "snack" {
		t.Errorf("Expected snack meal, got %q", added.Name.Key())
	}
	if len(added.SubMeals) != 1 || added.SubMeals[0].Name != DefaultSubMealName {
		t.Errorf("Expected a single default sub-meal, got %+v", added.SubMeals)
	}

	custom := AddMeal(w, 0, CustomMeal("Brunch"))
	if got := custom[0].Meals[3].Name; got.IsStandard() || got.String() != "Brunch" {
		t.Errorf("Expected custom meal 'Brunch', got %+v", got)
	}

	removed := RemoveMeal(next, 2, 3)
	if len(removed[2].Meals) != 3 {
		t.Error("Expected the snack meal to be removed")
	}

	// A day may end up with zero meals.
	day := w
	for i := 0; i < 3; i++ {
		day = RemoveMeal(day, 0, 0)
	}
	if len(day[0].Meals) != 0 {
		t.Errorf("Expected an empty day, got %d meals", len(day[0].Meals))
	}
}

func TestMoveMeal(t *testing.T) {
	w := NewWeek()
	first := w[0].Meals[0].Name.Key()
	second := w[0].Meals[1].Name.Key()

	next := MoveMeal(w, 0, 0, MoveDown)
	if next[0].Meals[0].Name.Key() != second || next[0].Meals[1].Name.Key() != first {
		t.Error("Expected the first two meals to swap")
	}

	// Moves past either end are no-ops.
	if same := MoveMeal(w, 0, 0, MoveUp); !reflect.DeepEqual(same, w) {
		t.Error("Expected MoveUp at the top to be a no-op")
	}
	if same := MoveMeal(w, 0, 2, MoveDown); !reflect.DeepEqual(same, w) {
		t.Error("Expected MoveDown at the bottom to be a no-op")
	}
}

func TestMoveSubMeal(t *testing.T) {
	w := AddSubMeal(NewWeek(), 0, 0, "Dessert")
	ids := []string{w[0].Meals[0].SubMeals[0].ID, w[0].Meals[0].SubMeals[1].ID}

	next := MoveSubMeal(w, 0, 0, 1, MoveUp)
	subs := next[0].Meals[0].SubMeals
	if subs[0].ID != ids[1] || subs[1].ID != ids[0] {
		t.Error("Expected sub-meals to swap, ids intact")
	}

	if same := MoveSubMeal(w, 0, 0, 0, MoveUp); !reflect.DeepEqual(same, w) {
		t.Error("Expected MoveUp at the top to be a no-op")
	}
	if same := MoveSubMeal(w, 0, 0, 5, MoveDown); !reflect.DeepEqual(same, w) {
		t.Error("Expected an out-of-range index to be a no-op")
	}
}

func TestWeekClone_NoSharing(t *testing.T) {
	w := NewWeek()
	smID := w[0].Meals[0].SubMeals[0].ID
	w = AssignDish(w, 0, 0, smID, testDish("d1", "Omelette"))

	c := w.Clone()
	c[0].Meals[0].SubMeals[0].Dish.Name = "changed"
	c[0].Meals[0].SubMeals[0].Dish.Ingredients[0].Text = "changed"

	if w[0].Meals[0].SubMeals[0].Dish.Name != "Omelette" {
		t.Error("Expected clone edits not to touch the original dish")
	}
	if w[0].Meals[0].SubMeals[0].Dish.Ingredients[0].Text != "Eggs" {
		t.Error("Expected clone edits not to touch original ingredients")
	}
}
