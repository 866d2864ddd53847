package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
    id   INTEGER PRIMARY KEY AUTOINCREMENT,
    kind TEXT NOT NULL,
    body TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS documents_kind_idx ON documents (kind, id);
`

// Sqlite is a Store backed by an embedded SQLite database. The schema is
// applied on open, so a fresh file (or ":memory:") is immediately usable.
type Sqlite struct {
	db *sql.DB
}

// OpenSqlite opens or creates the database at path. Pass ":memory:" for an
// ephemeral store.
func OpenSqlite(path string) (*Sqlite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// An in-memory database exists per connection; keep a single one so all
	// queries see the same data.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying sqlite schema: %w", err)
	}
	return &Sqlite{db: db}, nil
}

func (s *Sqlite) Insert(ctx context.Context, kind string, body []byte) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (kind, body) VALUES (?, ?)`, kind, string(body))
	if err != nil {
		return 0, fmt.Errorf("inserting %s: %w", kind, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserting %s: %w", kind, err)
	}
	return id, nil
}

func (s *Sqlite) Get(ctx context.Context, kind string, id int64) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE kind = ? AND id = ?`, kind, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSuchEntity
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s %d: %w", kind, id, err)
	}
	return []byte(body), nil
}

func (s *Sqlite) Put(ctx context.Context, kind string, id int64, body []byte) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET body = ? WHERE kind = ? AND id = ?`, string(body), kind, id)
	if err != nil {
		return fmt.Errorf("saving %s %d: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving %s %d: %w", kind, id, err)
	}
	if n == 0 {
		return ErrNoSuchEntity
	}
	return nil
}

func (s *Sqlite) Delete(ctx context.Context, kind string, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE kind = ? AND id = ?`, kind, id)
	if err != nil {
		return fmt.Errorf("deleting %s %d: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s %d: %w", kind, id, err)
	}
	if n == 0 {
		return ErrNoSuchEntity
	}
	return nil
}

func (s *Sqlite) Count(ctx context.Context, kind string, filters ...Filter) (int, error) {
	query := `SELECT COUNT(*) FROM documents WHERE kind = ?`
	args := []any{kind}
	for _, f := range filters {
		query += fmt.Sprintf(` AND json_extract(body, '$.%s') = ?`, f.Property)
		args = append(args, f.Value)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", kind, err)
	}
	return n, nil
}

func (s *Sqlite) List(ctx context.Context, kind string, limit int, cursor Cursor, filters ...Filter) (*Page, error) {
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, body FROM documents WHERE kind = ? AND id > ?`
	args := []any{kind, after}
	for _, f := range filters {
		query += fmt.Sprintf(` AND json_extract(body, '$.%s') = ?`, f.Property)
		args = append(args, f.Value)
	}
	// One extra row tells us whether more results exist past this page.
	query += ` ORDER BY id LIMIT ?`
	args = append(args, limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}
	defer rows.Close()

	page := &Page{}
	for rows.Next() {
		var (
			id   int64
			body string
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}
		page.Documents = append(page.Documents, Document{ID: id, Body: []byte(body)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}

	if len(page.Documents) > limit {
		page.Documents = page.Documents[:limit]
		page.More = true
		page.Next = encodeCursor(page.Documents[limit-1].ID)
	}
	return page, nil
}

func (s *Sqlite) Close() error {
	return s.db.Close()
}
