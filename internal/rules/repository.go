package rules

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const upsertRule = `
INSERT INTO rules (id, name, text, category_id)
VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, text = excluded.text, category_id = excluded.category_id
`

const selectRule = `
SELECT id, name, text, category_id FROM rules WHERE id = ?
`

const selectAllRules = `
SELECT id, name, text, category_id FROM rules ORDER BY name COLLATE NOCASE
`

const deleteRule = `
DELETE FROM rules WHERE id = ?
`

const clearRuleCategory = `
UPDATE rules SET category_id = '' WHERE category_id = ?
`

const upsertCategory = `
INSERT INTO rule_categories (id, name)
VALUES (?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name
`

const selectAllCategories = `
SELECT id, name FROM rule_categories ORDER BY name COLLATE NOCASE
`

const deleteCategory = `
DELETE FROM rule_categories WHERE id = ?
`

// Repository persists rules and rule categories.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveRule inserts or updates a rule.
func (r *Repository) SaveRule(ctx context.Context, rule SavedRule) error {
	if _, err := r.db.ExecContext(ctx, upsertRule, rule.ID, rule.Name, rule.Text, rule.CategoryID); err != nil {
		return fmt.Errorf("failed to save rule %s: %w", rule.ID, err)
	}
	return nil
}

// GetRule returns a rule by id, nil when unknown.
func (r *Repository) GetRule(ctx context.Context, id string) (*SavedRule, error) {
	var rule SavedRule
	err := r.db.QueryRowContext(ctx, selectRule, id).Scan(&rule.ID, &rule.Name, &rule.Text, &rule.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return &rule, nil
}

// ListRules returns all rules ordered by name.
func (r *Repository) ListRules(ctx context.Context) ([]SavedRule, error) {
	rows, err := r.db.QueryContext(ctx, selectAllRules)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var out []SavedRule
	for rows.Next() {
		var rule SavedRule
		if err := rows.Scan(&rule.ID, &rule.Name, &rule.Text, &rule.CategoryID); err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

// DeleteRule removes a rule by id.
func (r *Repository) DeleteRule(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteRule, id); err != nil {
		return fmt.Errorf("failed to delete rule %s: %w", id, err)
	}
	return nil
}

// SaveCategory inserts or updates a rule category.
func (r *Repository) SaveCategory(ctx context.Context, cat RuleCategory) error {
	if _, err := r.db.ExecContext(ctx, upsertCategory, cat.ID, cat.Name); err != nil {
		return fmt.Errorf("failed to save rule category %s: %w", cat.ID, err)
	}
	return nil
}

// ListCategories returns all rule categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]RuleCategory, error) {
	rows, err := r.db.QueryContext(ctx, selectAllCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to list rule categories: %w", err)
	}
	defer rows.Close()

	var out []RuleCategory
	for rows.Next() {
		var cat RuleCategory
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("failed to scan rule category row: %w", err)
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

// DeleteCategory removes a category and detaches its rules in a single
// transaction. The rules themselves survive, uncategorised.
func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, clearRuleCategory, id); err != nil {
		return fmt.Errorf("failed to detach rules from category %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, deleteCategory, id); err != nil {
		return fmt.Errorf("failed to delete rule category %s: %w", id, err)
	}
	return tx.Commit()
}
