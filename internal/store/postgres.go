package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is a Store backed by a PostgreSQL documents table with JSONB
// bodies. The schema is managed by the migrations in migrations/ (see
// RunMigrations).
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (s *Postgres) Insert(ctx context.Context, kind string, body []byte) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO documents (kind, body) VALUES ($1, $2) RETURNING id`,
		kind, body).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting %s: %w", kind, err)
	}
	return id, nil
}

func (s *Postgres) Get(ctx context.Context, kind string, id int64) ([]byte, error) {
	var body []byte
	err := s.pool.QueryRow(ctx,
		`SELECT body FROM documents WHERE kind = $1 AND id = $2`, kind, id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSuchEntity
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s %d: %w", kind, id, err)
	}
	return body, nil
}

func (s *Postgres) Put(ctx context.Context, kind string, id int64, body []byte) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE documents SET body = $3 WHERE kind = $1 AND id = $2`, kind, id, body)
	if err != nil {
		return fmt.Errorf("saving %s %d: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoSuchEntity
	}
	return nil
}

func (s *Postgres) Delete(ctx context.Context, kind string, id int64) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE kind = $1 AND id = $2`, kind, id)
	if err != nil {
		return fmt.Errorf("deleting %s %d: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoSuchEntity
	}
	return nil
}

func (s *Postgres) Count(ctx context.Context, kind string, filters ...Filter) (int, error) {
	query := `SELECT COUNT(*) FROM documents WHERE kind = $1`
	args := []any{kind}
	for _, f := range filters {
		query += fmt.Sprintf(` AND body->>'%s' = $%d`, f.Property, len(args)+1)
		args = append(args, f.Value)
	}
	var n int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", kind, err)
	}
	return n, nil
}

func (s *Postgres) List(ctx context.Context, kind string, limit int, cursor Cursor, filters ...Filter) (*Page, error) {
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, body FROM documents WHERE kind = $1 AND id > $2`
	args := []any{kind, after}
	for _, f := range filters {
		query += fmt.Sprintf(` AND body->>'%s' = $%d`, f.Property, len(args)+1)
		args = append(args, f.Value)
	}
	query += fmt.Sprintf(` ORDER BY id LIMIT $%d`, len(args)+1)
	args = append(args, limit+1)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", kind, err)
	}
	defer rows.Close()

	page := &Page{}
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Body); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}
		page.Documents = append(page.Documents, doc)
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

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}
