package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Summary is the listing row for a persisted project.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository persists projects as whole JSON documents keyed by id.
// Get returns (nil, nil) for a missing id and applies the legacy
// migration pass to whatever it loads.
type Repository interface {
	Save(ctx context.Context, p *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
	LastProjectID(ctx context.Context) (string, error)
	SetLastProjectID(ctx context.Context, id string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, p *Project) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("project must have an id")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, p.ID, p.Name, string(data), now, now)
	return err
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Project, error) {
	var data string
	err := r.db.QueryRowContext(ctx, "SELECT data FROM projects WHERE id = ?", id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
	}
	return Migrate(&p), nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, updated_at FROM projects ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var updatedAt string
		if err := rows.Scan(&s.ID, &s.Name, &updatedAt); err != nil {
			return nil, err
		}
		s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	return err
}

const lastProjectKey = "last_project_id"

// LastProjectID returns the id of the most recently open project, so a
// restart reopens where the user left off. Empty when never set.
func (r *SQLiteRepository) LastProjectID(ctx context.Context) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", lastProjectKey).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, err
}

func (r *SQLiteRepository) SetLastProjectID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, lastProjectKey, id)
	return err
}
