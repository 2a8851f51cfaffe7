package server

import (
	"fmt"
	"net/http"
	"strconv"

	"weekly-planner/internal/i18n"
	"weekly-planner/internal/menu"
	"weekly-planner/internal/metrics"
	"weekly-planner/internal/planner"
	"weekly-planner/internal/rules"

	"github.com/go-chi/chi/v5"
)

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidInput, name)
	}
	return v, nil
}

func parseDirection(s string) (menu.Direction, error) {
	switch s {
	case "up":
		return menu.MoveUp, nil
	case "down":
		return menu.MoveDown, nil
	default:
		return "", fmt.Errorf("%w: direction must be 'up' or 'down'", ErrInvalidInput)
	}
}

// --- Health and usage ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"generating": s.app.GenerationBusy(),
		"sys":        metrics.GetSysHealth(s.dbPath),
	})
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	days := 7
	if q := r.URL.Query().Get("days"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			HandleError(w, fmt.Errorf("%w: days must be a positive integer", ErrInvalidInput))
			return
		}
		days = n
	}
	usage, err := s.metrics.GetDailyUsage(r.Context(), days)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, usage)
}

// --- Active week ---

func (s *Server) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.app.ActiveWeek())
}

func (s *Server) handleGetWeekDisplay(w http.ResponseWriter, r *http.Request) {
	lang := s.app.Language()
	if q := r.URL.Query().Get("lang"); q != "" {
		lang = i18n.ParseLanguage(q)
	}
	state := s.app.ActiveWeek()
	RespondWithJSON(w, http.StatusOK, i18n.DisplayWeek(state.Menu, lang))
}

func (s *Server) handleSetNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		HandleError(w, err)
		return
	}
	if err := s.app.SetNotes(r.Context(), req.Notes); err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, s.app.ActiveWeek())
}

func (s *Server) handleGenerateWeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RuleNames []string `json:"ruleNames"`
		Context   string   `json:"context"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		HandleError(w, err)
		return
	}
	week, err := s.app.GenerateWeek(r.Context(), req.RuleNames, req.Context)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, week)
}

// --- Week structure edits ---

func (s *Server) handleAddMeal(w http.ResponseWriter, r *http.Request) {
	dayIdx, err := pathInt(r, "dayIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		HandleError(w, err)
		return
	}
	week, err := s.app.AddMeal(r.Context(), dayIdx, req.Name)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, week)
}

func (s *Server) handleRemoveMeal(w http.ResponseWriter, r *http.Request) {
	dayIdx, err := pathInt(r, "dayIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	mealIdx, err := pathInt(r, "mealIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	week, err := s.app.RemoveMeal(r.Context(), dayIdx, mealIdx)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, week)
}

func (s *Server) handleMoveMeal(w http.ResponseWriter, r *http.Request) {
	dayIdx, err := pathInt(r, "dayIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	mealIdx, err := pathInt(r, "mealIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	var req struct {
		Direction string `json:"direction" validate:"required"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		HandleError(w, err)
		return
	}
	dir, err := parseDirection(req.Direction)
	if err != nil {
		HandleError(w, err)
		return
	}
	week, err := s.app.MoveMeal(r.Context(), dayIdx, mealIdx, dir)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, week)
}

func (s *Server) handleAddSubMeal(w http.ResponseWriter, r *http.Request) {
	dayIdx, err := pathInt(r, "dayIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	mealIdx, err := pathInt(r, "mealIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		HandleError(w, err)
		return
	}
	week, err := s.app.AddSubMeal(r.Context(), dayIdx, mealIdx, req.Name)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, week)
}

func (s *Server) handleMoveSubMeal(w http.ResponseWriter, r *http.Request) {
	dayIdx, err := pathInt(r, "dayIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	mealIdx, err := pathInt(r, "mealIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	var req struct {
		Index     int    `json:"index"`
		Direction string `json:"direction" validate:"required"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		HandleError(w, err)
		return
	}
	dir, err := parseDirection(req.Direction)
	if err != nil {
		HandleError(w, err)
		return
	}
	week, err := s.app.MoveSubMeal(r.Context(), dayIdx, mealIdx, req.Index, dir)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, week)
}

func (s *Server) handleRenameSubMeal(w http.ResponseWriter, r *http.Request) {
	dayIdx, err := pathInt(r, "dayIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	mealIdx, err := pathInt(r, "mealIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		HandleError(w, err)
		return
	}
	week, err := s.app.RenameSubMeal(r.Context(), dayIdx, mealIdx, chi.URLParam(r, "subMealID"), req.Name)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, week)
}

func (s *Server) handleRemoveSubMeal(w http.ResponseWriter, r *http.Request) {
	dayIdx, err := pathInt(r, "dayIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	mealIdx, err := pathInt(r, "mealIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	week, err := s.app.RemoveSubMeal(r.Context(), dayIdx, mealIdx, chi.URLParam(r, "subMealID"))
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, week)
}

func (s *Server) handleAssignDish(w http.ResponseWriter, r *http.Request) {
	dayIdx, err := pathInt(r, "dayIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	mealIdx, err := pathInt(r, "mealIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	var dish menu.Dish
	if err := DecodeJSONBody(r, &dish); err != nil {
		HandleError(w, err)
		return
	}
	week, err := s.app.AssignDish(r.Context(), dayIdx, mealIdx, chi.URLParam(r, "subMealID"), dish)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, week)
}

func (s *Server) handleRemoveDish(w http.ResponseWriter, r *http.Request) {
	dayIdx, err := pathInt(r, "dayIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	mealIdx, err := pathInt(r, "mealIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	week, err := s.app.RemoveDish(r.Context(), dayIdx, mealIdx, chi.URLParam(r, "subMealID"))
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, week)
}

// --- Grocery ---

func (s *Server) handleGroceryList(w http.ResponseWriter, r *http.Request) {
	items, err := s.app.GroceryList(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, items)
}

// --- Saved weeks ---

func (s *Server) handleListWeeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := s.app.ListWeeks(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, weeks)
}

func (s *Server) handleSaveWeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		HandleError(w, err)
		return
	}
	saved, err := s.app.SaveWeekAs(r.Context(), req.Name)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleOverwriteWeek(w http.ResponseWriter, r *http.Request) {
	if err := s.app.OverwriteWeek(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, s.app.ActiveWeek())
}

func (s *Server) handleLoadWeek(w http.ResponseWriter, r *http.Request) {
	state, err := s.app.LoadWeek(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, state)
}

func (s *Server) handleDeleteWeek(w http.ResponseWriter, r *http.Request) {
	if err := s.app.DeleteWeek(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImportWeeks(w http.ResponseWriter, r *http.Request) {
	var weeks []menu.SavedWeek
	if err := DecodeJSONBody(r, &weeks); err != nil {
		HandleError(w, err)
		return
	}
	added, skipped, err := s.app.ImportWeeks(r.Context(), weeks)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]int{"added": added, "skipped": skipped})
}

// --- Recipes ---

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	dishes, err := s.app.ListRecipes(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, dishes)
}

func (s *Server) handleSaveRecipe(w http.ResponseWriter, r *http.Request) {
	var dish menu.Dish
	if err := DecodeJSONBody(r, &dish); err != nil {
		HandleError(w, err)
		return
	}
	saved, err := s.app.SaveRecipe(r.Context(), dish)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.app.DeleteRecipe(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImportRecipes(w http.ResponseWriter, r *http.Request) {
	var dishes []menu.Dish
	if err := DecodeJSONBody(r, &dishes); err != nil {
		HandleError(w, err)
		return
	}
	res, err := s.app.ImportRecipes(r.Context(), dishes)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, res)
}

func (s *Server) handleClipRecipe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url" validate:"required,url"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		HandleError(w, err)
		return
	}
	dish, err := s.app.ClipRecipe(r.Context(), req.URL)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, dish)
}

// --- Rules ---

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	list, err := s.app.Rules().ListRules(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, list)
}

func (s *Server) handleSaveRule(w http.ResponseWriter, r *http.Request) {
	var rule rules.SavedRule
	if err := DecodeJSONBody(r, &rule); err != nil {
		HandleError(w, err)
		return
	}
	saved, err := s.app.Rules().SaveRule(r.Context(), rule)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Rules().DeleteRule(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListRuleCategories(w http.ResponseWriter, r *http.Request) {
	list, err := s.app.Rules().ListCategories(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, list)
}

func (s *Server) handleSaveRuleCategory(w http.ResponseWriter, r *http.Request) {
	var cat rules.RuleCategory
	if err := DecodeJSONBody(r, &cat); err != nil {
		HandleError(w, err)
		return
	}
	saved, err := s.app.Rules().SaveCategory(r.Context(), cat)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteRuleCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Rules().DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		HandleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImportRules(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rules      []rules.SavedRule    `json:"rules"`
		Categories []rules.RuleCategory `json:"categories"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		HandleError(w, err)
		return
	}
	res, err := s.app.Rules().Import(r.Context(), req.Rules, req.Categories)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, res)
}

// --- Suggestions ---

func (s *Server) handleSuggestDishes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
		MealName string `json:"mealName"`
		Count    int    `json:"count"`
		Context  string `json:"context"`
		Lang     string `json:"lang"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		HandleError(w, err)
		return
	}

	sreq := planner.SuggestRequest{
		Category:      req.Category,
		MealName:      req.MealName,
		Count:         req.Count,
		CustomContext: req.Context,
	}
	if req.Lang != "" {
		sreq.Language = i18n.ParseLanguage(req.Lang)
	}

	dishes, err := s.app.SuggestDishes(r.Context(), sreq)
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, dishes)
}

func (s *Server) handleSectionSuggestions(w http.ResponseWriter, r *http.Request) {
	names, err := s.app.SectionSuggestions(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, names)
}

func (s *Server) handleMealSuggestions(w http.ResponseWriter, r *http.Request) {
	dayIdx, err := pathInt(r, "dayIdx")
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, s.app.MealSuggestions(dayIdx))
}

// --- Settings ---

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := s.app.Theme(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme" validate:"required"`
	}
	if err := DecodeJSONBody(r, &req); err != nil {
		HandleError(w, err)
		return
	}
	if err := s.app.SetTheme(r.Context(), req.Theme); err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}

func (s *Server) handleGetHiddenDays(w http.ResponseWriter, r *http.Request) {
	days, err := s.app.HiddenDays(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, days)
}

func (s *Server) handleSetHiddenDays(w http.ResponseWriter, r *http.Request) {
	var days []string
	if err := DecodeJSONBody(r, &days); err != nil {
		HandleError(w, err)
		return
	}
	if err := s.app.SetHiddenDays(r.Context(), days); err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, days)
}

func (s *Server) handleGetDishCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.app.DishCategories(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, cats)
}

func (s *Server) handleSetDishCategories(w http.ResponseWriter, r *http.Request) {
	var cats []string
	if err := DecodeJSONBody(r, &cats); err != nil {
		HandleError(w, err)
		return
	}
	if err := s.app.SetDishCategories(r.Context(), cats); err != nil {
		HandleError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, cats)
}
