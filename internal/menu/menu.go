package menu

import (
	"encoding/json"

	"github.com/google/uuid"
)

// DayKeys are the canonical day identifiers, in week order. Day names are
// stored as keys and translated at display time.
var DayKeys = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// StandardMealKeys are the canonical meal identifiers. A meal whose name
// matches one of these (directly or through a translated label at write
// time) is stored under the key, not the label.
var StandardMealKeys = []string{"breakfast", "lunch", "snack", "dinner"}

// DefaultMealKeys are the meals a fresh week starts with.
var DefaultMealKeys = []string{"breakfast", "lunch", "dinner"}

// DefaultSubMealName is the name of the single sub-meal every new meal
// starts with.
const DefaultSubMealName = "Main"

// MealName is either a standard meal key or a custom user string. The tag is
// fixed at construction time; reclassification never depends on the live
// translation table.
type MealName struct {
	key    string // canonical standard key, empty for custom names
	custom string
}

// StandardMeal returns the MealName for a canonical key. ok is false if the
// key is not one of StandardMealKeys.
func StandardMeal(key string) (MealName, bool) {
	for _, k := range StandardMealKeys {
		if k == key {
			return MealName{key: key}, true
		}
	}
	return MealName{}, false
}

// CustomMeal returns a MealName holding a literal user string.
func CustomMeal(text string) MealName {
	return MealName{custom: text}
}

// IsStandard reports whether the name is a canonical meal key.
func (n MealName) IsStandard() bool { return n.key != "" }

// Key returns the canonical key, or "" for custom names.
func (n MealName) Key() string { return n.key }

// String returns the persisted form: the key for standard meals, the literal
// text otherwise.
func (n MealName) String() string {
	if n.key != "" {
		return n.key
	}
	return n.custom
}

// MarshalJSON stores the name as a plain string, matching the persisted
// week shape.
func (n MealName) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

// UnmarshalJSON classifies a stored string against the canonical key set
// only. Custom names that happen to match a translated label in some
// language stay custom.
func (n *MealName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if name, ok := StandardMeal(s); ok {
		*n = name
		return nil
	}
	*n = CustomMeal(s)
	return nil
}

// Ingredient is a single line of a dish's ingredient list. Text is the
// grocery grouping key after trimming and lowercasing.
type Ingredient struct {
	Text     string  `json:"text"`
	Store    string  `json:"store,omitempty"`
	Quantity float64 `json:"quantity,omitempty"`
}

// Dish is a recipe or a one-off free-text entry. A Dish embedded in a
// SubMeal is a copy taken at assignment time, not a live reference to the
// recipe book.
type Dish struct {
	ID           string       `json:"id,omitempty"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Categories   []string     `json:"categories,omitempty"`
	Ingredients  []Ingredient `json:"ingredients,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
}

// Clone returns a deep copy of the dish.
func (d Dish) Clone() Dish {
	out := d
	if d.Categories != nil {
		out.Categories = append([]string(nil), d.Categories...)
	}
	if d.Ingredients != nil {
		out.Ingredients = append([]Ingredient(nil), d.Ingredients...)
	}
	return out
}

// SubMeal is a named slot inside a meal. The ID is assigned once at creation
// and survives renames and moves; it is the only stable way to address a
// slot across reorderings.
type SubMeal struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Dish *Dish  `json:"dish"`
}

func (s SubMeal) clone() SubMeal {
	out := s
	if s.Dish != nil {
		d := s.Dish.Clone()
		out.Dish = &d
	}
	return out
}

// Meal holds an ordered, never-empty list of sub-meals.
type Meal struct {
	Name     MealName  `json:"name"`
	SubMeals []SubMeal `json:"subMeals"`
}

func (m Meal) clone() Meal {
	out := m
	out.SubMeals = make([]SubMeal, len(m.SubMeals))
	for i, s := range m.SubMeals {
		out.SubMeals[i] = s.clone()
	}
	return out
}

// Day holds a day key and the user-ordered meals for that day. A day may
// have zero meals.
type Day struct {
	Name  string `json:"name"`
	Meals []Meal `json:"meals"`
}

func (d Day) clone() Day {
	out := d
	out.Meals = make([]Meal, len(d.Meals))
	for i, m := range d.Meals {
		out.Meals[i] = m.clone()
	}
	return out
}

// Week is the canonical seven-day menu, Monday through Sunday.
type Week []Day

// NewWeek builds an empty week: seven days, each with the default meals,
// each meal with a single empty "Main" sub-meal.
func NewWeek() Week {
	week := make(Week, 0, len(DayKeys))
	for _, dayKey := range DayKeys {
		meals := make([]Meal, 0, len(DefaultMealKeys))
		for _, mealKey := range DefaultMealKeys {
			name, _ := StandardMeal(mealKey)
			meals = append(meals, Meal{
				Name:     name,
				SubMeals: []SubMeal{{ID: NewID(), Name: DefaultSubMealName, Dish: nil}},
			})
		}
		week = append(week, Day{Name: dayKey, Meals: meals})
	}
	return week
}

// Clone returns a deep copy; no slice or dish is shared with the receiver.
func (w Week) Clone() Week {
	out := make(Week, len(w))
	for i, d := range w {
		out[i] = d.clone()
	}
	return out
}

// SubMealIDs returns the set of all sub-meal ids in the week.
func (w Week) SubMealIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, day := range w {
		for _, meal := range day.Meals {
			for _, sm := range meal.SubMeals {
				ids[sm.ID] = struct{}{}
			}
		}
	}
	return ids
}

// NewID generates a fresh identity for sub-meals and dishes.
func NewID() string {
	return uuid.NewString()
}
