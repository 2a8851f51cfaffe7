package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Well-known settings keys.
const (
	KeyTheme           = "theme"
	KeyActiveWeek      = "active_week_state"
	KeyActiveWeekID    = "active_week_id"
	KeyHiddenDays      = "hidden_day_keys"
	KeyDishCategories  = "dish_categories"
	KeySectionHistory  = "section_name_history"
	KeyDefaultLanguage = "language"
)

const upsertSetting = `
INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value
`

const selectSetting = `
SELECT value FROM settings WHERE key = ?
`

const deleteSetting = `
DELETE FROM settings WHERE key = ?
`

// Repository is a small key-value store for UI and session state.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a settings Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the raw value for a key, "" when unset.
func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, selectSetting, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// Set stores a raw value under a key.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx, upsertSetting, key, value); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (r *Repository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, deleteSetting, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// GetJSON unmarshals the value for a key into dest. Returns false when the
// key is unset.
func (r *Repository) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal setting %s: %w", key, err)
	}
	return true, nil
}

// SetJSON marshals v and stores it under a key.
func (r *Repository) SetJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal setting %s: %w", key, err)
	}
	return r.Set(ctx, key, string(data))
}
