package menu

import "strings"

// NormalizeName is the comparison form used when matching dishes to recipes
// and recipes to each other: trimmed and lowercased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SyncRecipeBook refreshes every embedded dish in the week from the recipe
// book, so recipe edits and imports show up in the planner without
// re-assigning. Matching per slot, in order of precedence:
//
//  1. the embedded dish's id equals a recipe's id
//  2. the embedded dish's normalized name equals a recipe's normalized name
//
// A matched slot is replaced wholesale with the recipe's current value;
// unmatched slots are left alone (one-off dishes stay as entered). A slot
// that holds a dish never becomes empty through this process.
func SyncRecipeBook(w Week, book []Dish) Week {
	if len(book) == 0 {
		return w
	}
	byID := make(map[string]*Dish, len(book))
	byName := make(map[string]*Dish, len(book))
	for i := range book {
		r := &book[i]
		if r.ID != "" {
			if _, dup := byID[r.ID]; !dup {
				byID[r.ID] = r
			}
		}
		key := NormalizeName(r.Name)
		if key != "" {
			if _, dup := byName[key]; !dup {
				byName[key] = r
			}
		}
	}

	next := w.Clone()
	for dIdx := range next {
		for mIdx := range next[dIdx].Meals {
			subMeals := next[dIdx].Meals[mIdx].SubMeals
			for sIdx := range subMeals {
				dish := subMeals[sIdx].Dish
				if dish == nil {
					continue
				}
				var match *Dish
				if dish.ID != "" {
					match = byID[dish.ID]
				}
				if match == nil {
					match = byName[NormalizeName(dish.Name)]
				}
				if match == nil {
					continue
				}
				replacement := match.Clone()
				subMeals[sIdx].Dish = &replacement
			}
		}
	}
	return next
}
