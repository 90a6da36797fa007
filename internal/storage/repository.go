package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Init applies pending schema migrations.
func (r *Repository) Init(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, r.db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// ActiveTag returns the viewer's active tag id, or "" when none is set.
func (r *Repository) ActiveTag(ctx context.Context, viewer uuid.UUID) (string, error) {
	var tagID string
	err := r.db.QueryRowContext(ctx, `SELECT tag_id FROM active_tags WHERE viewer = ?`, viewer.String()).Scan(&tagID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query active tag: %w", err)
	}
	return tagID, nil
}

func (r *Repository) SetActive(ctx context.Context, viewer uuid.UUID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO active_tags (viewer, tag_id, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(viewer) DO UPDATE SET
  tag_id=excluded.tag_id,
  updated_at=excluded.updated_at
`, viewer.String(), tagID, now())
	if err != nil {
		return fmt.Errorf("save active tag %s: %w", tagID, err)
	}
	return nil
}

func (r *Repository) ClearActive(ctx context.Context, viewer uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM active_tags WHERE viewer = ?`, viewer.String()); err != nil {
		return fmt.Errorf("clear active tag: %w", err)
	}
	return nil
}

func (r *Repository) IsFavorite(ctx context.Context, viewer uuid.UUID, tagID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM favorites WHERE viewer = ? AND tag_id = ?`,
		viewer.String(), tagID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query favorite %s: %w", tagID, err)
	}
	return n > 0, nil
}

func (r *Repository) AddFavorite(ctx context.Context, viewer uuid.UUID, tagID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (viewer, tag_id, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		viewer.String(), tagID, now(),
	)
	if err != nil {
		return fmt.Errorf("add favorite %s: %w", tagID, err)
	}
	return nil
}

func (r *Repository) RemoveFavorite(ctx context.Context, viewer uuid.UUID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE viewer = ? AND tag_id = ?`, viewer.String(), tagID)
	if err != nil {
		return fmt.Errorf("remove favorite %s: %w", tagID, err)
	}
	return nil
}

// Favorites lists the viewer's favorite tag ids in the order they were added.
func (r *Repository) Favorites(ctx context.Context, viewer uuid.UUID) ([]string, error) {
	return r.strings(ctx, `
SELECT tag_id FROM favorites
WHERE viewer = ?
ORDER BY created_at, rowid
`, viewer.String())
}

// Grant gives a viewer a permission node. Nodes are stored lower-cased.
func (r *Repository) Grant(ctx context.Context, viewer uuid.UUID, permission string) error {
	permission = strings.ToLower(strings.TrimSpace(permission))
	if permission == "" {
		return errors.New("permission is required")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO grants (viewer, permission, created_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		viewer.String(), permission, now(),
	)
	if err != nil {
		return fmt.Errorf("grant %s: %w", permission, err)
	}
	return nil
}

func (r *Repository) Revoke(ctx context.Context, viewer uuid.UUID, permission string) error {
	permission = strings.ToLower(strings.TrimSpace(permission))
	_, err := r.db.ExecContext(ctx, `DELETE FROM grants WHERE viewer = ? AND permission = ?`, viewer.String(), permission)
	if err != nil {
		return fmt.Errorf("revoke %s: %w", permission, err)
	}
	return nil
}

func (r *Repository) Grants(ctx context.Context, viewer uuid.UUID) ([]string, error) {
	return r.strings(ctx, `SELECT permission FROM grants WHERE viewer = ? ORDER BY permission`, viewer.String())
}

func (r *Repository) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}
