package grocery

import (
	"sort"
	"strings"

	"weekly-planner/internal/menu"
)

// StoreUncategorized is the bucket for ingredients with no store label and
// no store-map entry. It always sorts last.
const StoreUncategorized = "Uncategorized"

// CompiledItem is one raw (dish, ingredient) occurrence found while walking
// the week.
type CompiledItem struct {
	Text     string  `json:"text"`
	Store    string  `json:"store"`
	Quantity float64 `json:"quantity"`
	Day      string  `json:"day"`
}

// ConsolidatedItem is one aggregated grocery-list line: all occurrences of
// the same (text, store) pair summed up.
type ConsolidatedItem struct {
	Text  string   `json:"text"`
	Count float64  `json:"count"`
	Store string   `json:"store"`
	Days  []string `json:"days"`
}

// Compile walks every assigned dish in the week and emits one raw record per
// ingredient with non-empty text. The store is resolved in priority order:
// the ingredient's own label, then the store map keyed by the trimmed
// lowercased text, then Uncategorized. Missing or non-positive quantities
// count as 1. Pure: neither input is mutated.
func Compile(week menu.Week, storeMap map[string]string) []CompiledItem {
	var items []CompiledItem
	for _, day := range week {
		for _, meal := range day.Meals {
			for _, subMeal := range meal.SubMeals {
				if subMeal.Dish == nil {
					continue
				}
				for _, ing := range subMeal.Dish.Ingredients {
					text := strings.TrimSpace(ing.Text)
					if text == "" {
						continue
					}
					store := ing.Store
					if store == "" {
						store = storeMap[strings.ToLower(text)]
					}
					if store == "" {
						store = StoreUncategorized
					}
					quantity := ing.Quantity
					if quantity <= 0 {
						quantity = 1
					}
					items = append(items, CompiledItem{
						Text:     text,
						Store:    store,
						Quantity: quantity,
						Day:      day.Name,
					})
				}
			}
		}
	}
	return items
}

// Consolidate groups raw records by the composite (text, store) key and sums
// quantities. The same ingredient text assigned to two stores stays on two
// lines. Output is sorted by store (Uncategorized last), then by text.
func Consolidate(items []CompiledItem) []ConsolidatedItem {
	type group struct {
		item    ConsolidatedItem
		daySeen map[string]struct{}
	}
	groups := make(map[string]*group)
	var order []string
	for _, item := range items {
		key := item.Text + "::" + item.Store
		g, ok := groups[key]
		if !ok {
			g = &group{
				item:    ConsolidatedItem{Text: item.Text, Store: item.Store},
				daySeen: make(map[string]struct{}),
			}
			groups[key] = g
			order = append(order, key)
		}
		g.item.Count += item.Quantity
		if _, seen := g.daySeen[item.Day]; !seen {
			g.daySeen[item.Day] = struct{}{}
			g.item.Days = append(g.item.Days, item.Day)
		}
	}

	result := make([]ConsolidatedItem, 0, len(order))
	for _, key := range order {
		result = append(result, groups[key].item)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Store != result[j].Store {
			if result[i].Store == StoreUncategorized {
				return false
			}
			if result[j].Store == StoreUncategorized {
				return true
			}
			return strings.ToLower(result[i].Store) < strings.ToLower(result[j].Store)
		}
		return strings.ToLower(result[i].Text) < strings.ToLower(result[j].Text)
	})
	return result
}

// List is the full pipeline: compile then consolidate.
func List(week menu.Week, storeMap map[string]string) []ConsolidatedItem {
	return Consolidate(Compile(week, storeMap))
}
