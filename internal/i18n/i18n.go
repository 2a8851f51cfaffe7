// Package i18n carries the label tables the planner core needs: day and meal
// names, section suggestions, and default dish categories, in the three
// supported languages. Views translate on render; storage always holds keys.
package i18n

import (
	"strings"

	"weekly-planner/internal/menu"
)

// Language is a supported UI language tag.
type Language string

const (
	Spanish Language = "es"
	English Language = "en"
	French  Language = "fr"
)

// DefaultLanguage is used when a request carries no language tag.
const DefaultLanguage = Spanish

// ParseLanguage maps a tag to a supported language, falling back to the
// default.
func ParseLanguage(tag string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(tag))) {
	case English:
		return English
	case French:
		return French
	case Spanish:
		return Spanish
	default:
		return DefaultLanguage
	}
}

// Name exposes the full language name for prompt building.
func (l Language) Name() string {
	switch l {
	case English:
		return "English"
	case French:
		return "French"
	default:
		return "Spanish"
	}
}

// DefaultDishCategories are the built-in category keys. Users may add custom
// categories on top; defaults cannot be deleted.
var DefaultDishCategories = []string{
	"cat_meal", "cat_fish", "cat_vegetable", "cat_gluten_free",
	"cat_carbs", "cat_legume", "cat_dessert", "cat_groups",
	"cat_in_advance", "cat_freezer", "cat_cold", "cat_breakfast",
	"cat_sauce", "cat_thermomix", "cat_fruit",
	"cat_spicy", "cat_festive", "cat_under30", "cat_bbq", "cat_cocktail",
}

// DefaultSectionSuggestions are the built-in sub-meal name suggestion keys.
var DefaultSectionSuggestions = []string{
	"section_starter", "section_main_dish", "section_first_plate",
	"section_second_plate", "section_sides", "section_dessert",
	"section_kids", "section_diet", "section_cheese", "section_aperitif",
	"section_cocktail",
}

type labels struct {
	es, en, fr string
}

func (l labels) in(lang Language) string {
	switch lang {
	case English:
		return l.en
	case French:
		return l.fr
	default:
		return l.es
	}
}

var translations = map[string]labels{
	// Days
	"monday":    {"Lunes", "Monday", "Lundi"},
	"tuesday":   {"Martes", "Tuesday", "Mardi"},
	"wednesday": {"Miércoles", "Wednesday", "Mercredi"},
	"thursday":  {"Jueves", "Thursday", "Jeudi"},
	"friday":    {"Viernes", "Friday", "Vendredi"},
	"saturday":  {"Sábado", "Saturday", "Samedi"},
	"sunday":    {"Domingo", "Sunday", "Dimanche"},

	// Meals
	"breakfast": {"Desayuno", "Breakfast", "Petit Déjeuner"},
	"lunch":     {"Almuerzo", "Lunch", "Déjeuner"},
	"snack":     {"Merienda", "Snack", "Goûter"},
	"dinner":    {"Cena", "Dinner", "Dîner"},

	// Sub-meal section suggestions
	"section_starter":      {"Entrante", "Starter", "Entrée"},
	"section_main_dish":    {"Plato Principal", "Main Dish", "Plat Principal"},
	"section_first_plate":  {"Primer Plato", "First Plate", "Premier Plat"},
	"section_second_plate": {"Segundo Plato", "Second Plate", "Second Plat"},
	"section_sides":        {"Acompañamiento", "Sides", "Accompagnement"},
	"section_dessert":      {"Postre", "Dessert", "Dessert"},
	"section_kids":         {"Niños", "Kids", "Enfants"},
	"section_diet":         {"Dieta", "Diet", "Régime"},
	"section_cheese":       {"Tabla de Quesos", "Cheese Plate", "Plateau de fromages"},
	"section_aperitif":     {"Aperitivo", "Aperitif", "Apéritif"},
	"section_cocktail":     {"Cóctel", "Cocktail", "Cocktail"},

	// Dish categories
	"cat_meal":        {"Plato Principal", "Meal", "Plat"},
	"cat_fish":        {"Pescado", "Fish", "Poisson"},
	"cat_vegetable":   {"Verdura", "Vegetable", "Légumes"},
	"cat_gluten_free": {"Sin Gluten", "Gluten-Free", "Sans Gluten"},
	"cat_carbs":       {"Carbohidratos", "Carbs", "Féculents"},
	"cat_legume":      {"Legumbres", "Legume", "Légumineuses"},
	"cat_dessert":     {"Postre", "Dessert", "Dessert"},
	"cat_groups":      {"Grandes Grupos", "Groups", "Grands Groupes"},
	"cat_in_advance":  {"Por Adelantado", "In Advance", "À l'avance"},
	"cat_freezer":     {"Congelable", "Keep in Freezer", "Congélateur"},
	"cat_cold":        {"Plato Frío", "Cold", "Froid"},
	"cat_breakfast":   {"Desayuno", "Breakfast", "Petit Déj"},
	"cat_sauce":       {"Salsa", "Sauce", "Sauce"},
	"cat_thermomix":   {"Thermomix", "Thermomix", "Thermomix"},
	"cat_fruit":       {"Fruta", "Fruit", "Fruits"},
	"cat_spicy":       {"Picante", "Spicy", "Épicé"},
	"cat_festive":     {"Festivo", "Festive", "Festif"},
	"cat_under30":     {"Menos de 30min", "Under 30min", "Moins de 30min"},
	"cat_bbq":         {"Barbacoa", "BBQ", "Barbecue"},
	"cat_cocktail":    {"Cóctel", "Cocktail", "Cocktail"},

	// Misc
	"uncategorized": {"Sin Categoría", "Uncategorized", "Non classé"},
}

// Label translates a key for the given language. Unknown keys (custom user
// strings) come back unchanged.
func Label(key string, lang Language) string {
	if l, ok := translations[key]; ok {
		return l.in(lang)
	}
	return key
}

// StandardMealKey reverse-maps a user-entered meal name to a canonical key,
// comparing case-insensitively against both the keys themselves and the
// given language's labels. This is the write-time classification used by
// addMeal: once stored, a name's tag never changes with the language.
func StandardMealKey(name string, lang Language) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, key := range menu.StandardMealKeys {
		if needle == key || needle == strings.ToLower(Label(key, lang)) {
			return key, true
		}
	}
	return "", false
}

// MealNameFor classifies a user-entered meal name into the tagged form.
func MealNameFor(name string, lang Language) menu.MealName {
	if key, ok := StandardMealKey(name, lang); ok {
		standard, _ := menu.StandardMeal(key)
		return standard
	}
	return menu.CustomMeal(name)
}

// DisplayWeek is the translated projection consumed by views and by the AI
// structure prompt: day keys and standard meal keys become labels, custom
// names stay literal. The projection is a copy; the canonical week is not
// touched.
func DisplayWeek(w menu.Week, lang Language) menu.Week {
	out := w.Clone()
	for i := range out {
		out[i].Name = Label(out[i].Name, lang)
		for j := range out[i].Meals {
			name := out[i].Meals[j].Name
			if name.IsStandard() {
				out[i].Meals[j].Name = menu.CustomMeal(Label(name.Key(), lang))
			}
		}
	}
	return out
}

// SectionSuggestions returns the translated default section names plus the
// given user history, deduplicated in order.
func SectionSuggestions(history []string, lang Language) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, key := range DefaultSectionSuggestions {
		add(Label(key, lang))
	}
	for _, s := range history {
		add(s)
	}
	return out
}

// MealSuggestions returns the translated standard meal names missing from
// the given day, the original order preserved.
func MealSuggestions(day menu.Day, lang Language) []string {
	existing := make(map[string]struct{})
	for _, meal := range day.Meals {
		if meal.Name.IsStandard() {
			existing[meal.Name.Key()] = struct{}{}
		}
	}
	var out []string
	for _, key := range menu.StandardMealKeys {
		if _, ok := existing[key]; !ok {
			out = append(out, Label(key, lang))
		}
	}
	return out
}
