package rules

import (
	"context"
	"fmt"
	"strings"

	"weekly-planner/internal/menu"
)

// SavedRule is a reusable planning instruction, e.g. "no fried food on
// weekdays". Rules are free text handed to the generator verbatim.
type SavedRule struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Text       string `json:"text"`
	CategoryID string `json:"categoryId"`
}

// RuleCategory groups rules for display.
type RuleCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Service manages rules and their categories.
type Service struct {
	repo *Repository
}

// NewService creates a rules Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// ListRules returns all saved rules.
func (s *Service) ListRules(ctx context.Context) ([]SavedRule, error) {
	return s.repo.ListRules(ctx)
}

// ListCategories returns all rule categories.
func (s *Service) ListCategories(ctx context.Context) ([]RuleCategory, error) {
	return s.repo.ListCategories(ctx)
}

// SaveRule stores a rule, minting an id when missing.
func (s *Service) SaveRule(ctx context.Context, rule SavedRule) (SavedRule, error) {
	if strings.TrimSpace(rule.Name) == "" {
		return SavedRule{}, fmt.Errorf("rule name must not be empty")
	}
	if rule.ID == "" {
		rule.ID = menu.NewID()
	}
	if err := s.repo.SaveRule(ctx, rule); err != nil {
		return SavedRule{}, err
	}
	return rule, nil
}

// GetRule returns a rule by id, nil when unknown.
func (s *Service) GetRule(ctx context.Context, id string) (*SavedRule, error) {
	return s.repo.GetRule(ctx, id)
}

// DeleteRule removes a rule.
func (s *Service) DeleteRule(ctx context.Context, id string) error {
	return s.repo.DeleteRule(ctx, id)
}

// SaveCategory stores a category, minting an id when missing.
func (s *Service) SaveCategory(ctx context.Context, cat RuleCategory) (RuleCategory, error) {
	if strings.TrimSpace(cat.Name) == "" {
		return RuleCategory{}, fmt.Errorf("category name must not be empty")
	}
	if cat.ID == "" {
		cat.ID = menu.NewID()
	}
	if err := s.repo.SaveCategory(ctx, cat); err != nil {
		return RuleCategory{}, err
	}
	return cat, nil
}

// DeleteCategory removes a category; its rules become uncategorised.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.DeleteCategory(ctx, id)
}

// RuleTexts resolves rule names to their texts, preserving order and
// silently dropping names that no longer exist.
func (s *Service) RuleTexts(ctx context.Context, names []string) ([]string, error) {
	all, err := s.repo.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(all))
	for _, r := range all {
		byName[menu.NormalizeName(r.Name)] = r.Text
	}

	var texts []string
	for _, name := range names {
		if text, ok := byName[menu.NormalizeName(name)]; ok {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

// ImportResult summarises what an import changed.
type ImportResult struct {
	RulesAdded      int `json:"rulesAdded"`
	RulesSkipped    int `json:"rulesSkipped"`
	CategoriesAdded int `json:"categoriesAdded"`
}

// Import merges rules and categories from an export. Categories collide by
// id or case-insensitive name; rules collide by id only. Existing entries
// always win.
func (s *Service) Import(ctx context.Context, incomingRules []SavedRule, incomingCats []RuleCategory) (ImportResult, error) {
	var res ImportResult

	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return res, err
	}
	catIDs := make(map[string]struct{}, len(cats))
	catNames := make(map[string]struct{}, len(cats))
	for _, c := range cats {
		catIDs[c.ID] = struct{}{}
		catNames[menu.NormalizeName(c.Name)] = struct{}{}
	}

	for _, c := range incomingCats {
		if strings.TrimSpace(c.Name) == "" {
			continue
		}
		if _, dup := catIDs[c.ID]; dup && c.ID != "" {
			continue
		}
		if _, dup := catNames[menu.NormalizeName(c.Name)]; dup {
			continue
		}
		if c.ID == "" {
			c.ID = menu.NewID()
		}
		if err := s.repo.SaveCategory(ctx, c); err != nil {
			return res, err
		}
		catIDs[c.ID] = struct{}{}
		catNames[menu.NormalizeName(c.Name)] = struct{}{}
		res.CategoriesAdded++
	}

	existing, err := s.repo.ListRules(ctx)
	if err != nil {
		return res, err
	}
	ruleIDs := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		ruleIDs[r.ID] = struct{}{}
	}

	for _, r := range incomingRules {
		if strings.TrimSpace(r.Name) == "" {
			res.RulesSkipped++
			continue
		}
		if _, dup := ruleIDs[r.ID]; dup && r.ID != "" {
			res.RulesSkipped++
			continue
		}
		if r.ID == "" {
			r.ID = menu.NewID()
		}
		// Imported rules pointing at a category we do not know end up
		// uncategorised rather than dangling.
		if r.CategoryID != "" {
			if _, ok := catIDs[r.CategoryID]; !ok {
				r.CategoryID = ""
			}
		}
		if err := s.repo.SaveRule(ctx, r); err != nil {
			return res, err
		}
		ruleIDs[r.ID] = struct{}{}
		res.RulesAdded++
	}
	return res, nil
}
