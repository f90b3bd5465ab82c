package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dshills/pagecraft/internal/engine/page"
)

// SQLiteRepository keeps documents in a single SQLite table.
type SQLiteRepository struct {
	conn *sql.DB
}

// NewSQLiteRepository opens (or creates) the database file at dbPath.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time.
	conn.SetMaxOpenConns(1)

	r := &SQLiteRepository{conn: conn}
	if err := r.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			name TEXT PRIMARY KEY,
			body BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}
	for _, m := range migrations {
		if _, err := r.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Load implements Repository.
func (r *SQLiteRepository) Load(ctx context.Context, name string) (*page.Document, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	var body []byte
	err := r.conn.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return Decode(JSON, body)
}

// Save implements Repository.
func (r *SQLiteRepository) Save(ctx context.Context, name string, doc *page.Document) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	body, err := JSON.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = r.conn.ExecContext(ctx,
		`INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		name, body, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// List implements Repository.
func (r *SQLiteRepository) List(ctx context.Context) ([]Info, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT name, updated_at, length(body) FROM documents ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var (
			info    Info
			updated string
		)
		if err := rows.Scan(&info.Name, &updated, &info.Size); err != nil {
			return nil, err
		}
		info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete implements Repository.
func (r *SQLiteRepository) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	_, err := r.conn.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name)
	return err
}

// Close implements Repository.
func (r *SQLiteRepository) Close() error {
	return r.conn.Close()
}
