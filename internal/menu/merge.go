package menu

// MergeProposal combines the current week with an AI-proposed week. Slots
// that already hold a dish are kept exactly as they are; empty slots are
// filled from the same (day, meal, sub-meal) position of the proposal when
// it has a dish there. Matching is strictly positional: the proposal is
// requested to mirror the current week's structure, and positions it does
// not cover are simply left empty.
//
// Dishes taken from the proposal always get a fresh id; externally supplied
// ids are never trusted for uniqueness.
func MergeProposal(current, proposal Week) Week {
	merged := current.Clone()
	for dIdx := range merged {
		for mIdx := range merged[dIdx].Meals {
			subMeals := merged[dIdx].Meals[mIdx].SubMeals
			for sIdx := range subMeals {
				if subMeals[sIdx].Dish != nil {
					continue
				}
				proposed := dishAt(proposal, dIdx, mIdx, sIdx)
				if proposed == nil {
					continue
				}
				dish := proposed.Clone()
				dish.ID = NewID()
				subMeals[sIdx].Dish = &dish
			}
		}
	}
	return merged
}

func dishAt(w Week, dayIdx, mealIdx, subMealIdx int) *Dish {
	if dayIdx < 0 || dayIdx >= len(w) {
		return nil
	}
	meals := w[dayIdx].Meals
	if mealIdx < 0 || mealIdx >= len(meals) {
		return nil
	}
	subMeals := meals[mealIdx].SubMeals
	if subMealIdx < 0 || subMealIdx >= len(subMeals) {
		return nil
	}
	return subMeals[subMealIdx].Dish
}
