package menu

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SavedWeek is a named snapshot of a week together with its notes and the
// rule names that were applied when it was generated.
type SavedWeek struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Menu      Week     `json:"menu"`
	Notes     string   `json:"notes"`
	RuleNames []string `json:"ruleNames"`
}

// Clone returns a deep copy so loading a snapshot never aliases the stored
// value.
func (s SavedWeek) Clone() SavedWeek {
	out := s
	out.Menu = s.Menu.Clone()
	out.RuleNames = append([]string(nil), s.RuleNames...)
	return out
}

// WeekRepository persists saved week snapshots to SQLite, one JSON blob per
// snapshot.
type WeekRepository struct {
	db *sql.DB
}

// NewWeekRepository creates a new WeekRepository.
func NewWeekRepository(db *sql.DB) *WeekRepository {
	return &WeekRepository{db: db}
}

const insertSavedWeek = `
INSERT INTO saved_weeks (id, name, data, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
`

const updateSavedWeek = `
UPDATE saved_weeks SET name = ?, data = ?, updated_at = ? WHERE id = ?
`

// Save inserts a new snapshot.
func (r *WeekRepository) Save(ctx context.Context, week SavedWeek) error {
	data, err := json.Marshal(week)
	if err != nil {
		return fmt.Errorf("failed to marshal saved week: %w", err)
	}
	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, insertSavedWeek, week.ID, week.Name, string(data), now, now); err != nil {
		return fmt.Errorf("failed to insert saved week %s: %w", week.ID, err)
	}
	return nil
}

// Update overwrites an existing snapshot in place.
func (r *WeekRepository) Update(ctx context.Context, week SavedWeek) error {
	data, err := json.Marshal(week)
	if err != nil {
		return fmt.Errorf("failed to marshal saved week: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, updateSavedWeek, week.Name, string(data), time.Now().UTC(), week.ID); err != nil {
		return fmt.Errorf("failed to update saved week %s: %w", week.ID, err)
	}
	return nil
}

// Get retrieves a snapshot by id. Returns nil when it does not exist.
func (r *WeekRepository) Get(ctx context.Context, id string) (*SavedWeek, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM saved_weeks WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get saved week %s: %w", id, err)
	}
	var week SavedWeek
	if err := json.Unmarshal([]byte(data), &week); err != nil {
		return nil, fmt.Errorf("failed to unmarshal saved week %s: %w", id, err)
	}
	return &week, nil
}

// List returns all snapshots, newest first.
func (r *WeekRepository) List(ctx context.Context) ([]SavedWeek, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM saved_weeks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved weeks: %w", err)
	}
	defer rows.Close()

	var weeks []SavedWeek
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan saved week row: %w", err)
		}
		var week SavedWeek
		if err := json.Unmarshal([]byte(data), &week); err != nil {
			return nil, fmt.Errorf("failed to unmarshal saved week: %w", err)
		}
		weeks = append(weeks, week)
	}
	return weeks, rows.Err()
}

// Delete removes a snapshot. Deleting an unknown id is not an error.
func (r *WeekRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM saved_weeks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete saved week %s: %w", id, err)
	}
	return nil
}

// Count returns the number of stored snapshots.
func (r *WeekRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_weeks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count saved weeks: %w", err)
	}
	return count, nil
}
