package menu

import "strings"

// Direction selects the neighbor for move operations.
type Direction string

const (
	MoveUp   Direction = "up"
	MoveDown Direction = "down"
)

// Every operation in this file is copy-on-write: the input week is never
// mutated, and invalid coordinates produce a no-op that returns the input
// unchanged. The UI only submits coordinates derived from the rendered week,
// so a stale coordinate is a bug upstream, not something to escalate here.

func (w Week) dayInRange(dayIdx int) bool {
	return dayIdx >= 0 && dayIdx < len(w)
}

func (w Week) mealInRange(dayIdx, mealIdx int) bool {
	return w.dayInRange(dayIdx) && mealIdx >= 0 && mealIdx < len(w[dayIdx].Meals)
}

func findSubMeal(meal *Meal, subMealID string) *SubMeal {
	for i := range meal.SubMeals {
		if meal.SubMeals[i].ID == subMealID {
			return &meal.SubMeals[i]
		}
	}
	return nil
}

// AssignDish replaces the dish of the addressed sub-meal with a copy of the
// given dish.
func AssignDish(w Week, dayIdx, mealIdx int, subMealID string, dish Dish) Week {
	if !w.mealInRange(dayIdx, mealIdx) {
		return w
	}
	next := w.Clone()
	sm := findSubMeal(&next[dayIdx].Meals[mealIdx], subMealID)
	if sm == nil {
		return w
	}
	d := dish.Clone()
	sm.Dish = &d
	return next
}

// RemoveDish empties the addressed sub-meal slot.
func RemoveDish(w Week, dayIdx, mealIdx int, subMealID string) Week {
	if !w.mealInRange(dayIdx, mealIdx) {
		return w
	}
	next := w.Clone()
	sm := findSubMeal(&next[dayIdx].Meals[mealIdx], subMealID)
	if sm == nil || sm.Dish == nil {
		return w
	}
	sm.Dish = nil
	return next
}

// AddSubMeal appends a new empty sub-meal with a fresh id to the addressed
// meal.
func AddSubMeal(w Week, dayIdx, mealIdx int, name string) Week {
	if !w.mealInRange(dayIdx, mealIdx) {
		return w
	}
	next := w.Clone()
	meal := &next[dayIdx].Meals[mealIdx]
	meal.SubMeals = append(meal.SubMeals, SubMeal{ID: NewID(), Name: name, Dish: nil})
	return next
}

// RenameSubMeal changes the display name of the addressed sub-meal. Empty or
// whitespace-only names are rejected.
func RenameSubMeal(w Week, dayIdx, mealIdx int, subMealID, newName string) Week {
	if strings.TrimSpace(newName) == "" {
		return w
	}
	if !w.mealInRange(dayIdx, mealIdx) {
		return w
	}
	next := w.Clone()
	sm := findSubMeal(&next[dayIdx].Meals[mealIdx], subMealID)
	if sm == nil {
		return w
	}
	sm.Name = newName
	return next
}

// RemoveSubMeal deletes the addressed sub-meal. A meal always keeps at least
// one sub-meal: removing the last one is refused.
func RemoveSubMeal(w Week, dayIdx, mealIdx int, subMealID string) Week {
	if !w.mealInRange(dayIdx, mealIdx) {
		return w
	}
	if len(w[dayIdx].Meals[mealIdx].SubMeals) <= 1 {
		return w
	}
	next := w.Clone()
	meal := &next[dayIdx].Meals[mealIdx]
	kept := meal.SubMeals[:0]
	found := false
	for _, sm := range meal.SubMeals {
		if sm.ID == subMealID {
			found = true
			continue
		}
		kept = append(kept, sm)
	}
	if !found {
		return w
	}
	meal.SubMeals = kept
	return next
}

// AddMeal appends a meal with a single default sub-meal to the addressed
// day. Name classification (standard key vs. custom string) happens at the
// caller, where the active language is known.
func AddMeal(w Week, dayIdx int, name MealName) Week {
	if !w.dayInRange(dayIdx) {
		return w
	}
	next := w.Clone()
	next[dayIdx].Meals = append(next[dayIdx].Meals, Meal{
		Name:     name,
		SubMeals: []SubMeal{{ID: NewID(), Name: DefaultSubMealName, Dish: nil}},
	})
	return next
}

// RemoveMeal deletes the addressed meal together with all its sub-meals.
// There is no minimum meal count per day.
func RemoveMeal(w Week, dayIdx, mealIdx int) Week {
	if !w.mealInRange(dayIdx, mealIdx) {
		return w
	}
	next := w.Clone()
	meals := next[dayIdx].Meals
	next[dayIdx].Meals = append(meals[:mealIdx], meals[mealIdx+1:]...)
	return next
}

// MoveMeal swaps the addressed meal with its immediate neighbor. Moves past
// either end are no-ops.
func MoveMeal(w Week, dayIdx, mealIdx int, dir Direction) Week {
	if !w.mealInRange(dayIdx, mealIdx) {
		return w
	}
	target := mealIdx - 1
	if dir == MoveDown {
		target = mealIdx + 1
	}
	if target < 0 || target >= len(w[dayIdx].Meals) {
		return w
	}
	next := w.Clone()
	meals := next[dayIdx].Meals
	meals[mealIdx], meals[target] = meals[target], meals[mealIdx]
	return next
}

// MoveSubMeal swaps the addressed sub-meal with its immediate neighbor.
// Sub-meals are addressed by index here: the pairwise swap is a positional
// operation and the caller derives the index from the rendered order.
func MoveSubMeal(w Week, dayIdx, mealIdx, subMealIdx int, dir Direction) Week {
	if !w.mealInRange(dayIdx, mealIdx) {
		return w
	}
	subMeals := w[dayIdx].Meals[mealIdx].SubMeals
	if subMealIdx < 0 || subMealIdx >= len(subMeals) {
		return w
	}
	target := subMealIdx - 1
	if dir == MoveDown {
		target = subMealIdx + 1
	}
	if target < 0 || target >= len(subMeals) {
		return w
	}
	next := w.Clone()
	sms := next[dayIdx].Meals[mealIdx].SubMeals
	sms[subMealIdx], sms[target] = sms[target], sms[subMealIdx]
	return next
}
