// Package store provides a schemaless key-value document store. Documents are
// raw JSON bodies addressed by (kind, id); the store assigns ids on insert.
// Two backends exist: an embedded SQLite database and PostgreSQL.
package store

import (
	"context"
	"errors"
)

// Cursor is an opaque pagination token. Callers must pass it back verbatim on
// the next List call; its encoding is private to the backend that issued it.
type Cursor string

var (
	// ErrNoSuchEntity is returned when no document exists for a (kind, id).
	ErrNoSuchEntity = errors.New("store: no such entity")

	// ErrBadCursor is returned when a List cursor cannot be decoded.
	ErrBadCursor = errors.New("store: malformed cursor")
)

// Filter restricts Count and List to documents whose top-level JSON property
// equals the given value.
type Filter struct {
	Property string
	Value    string
}

// Document is a stored JSON body with its assigned id.
type Document struct {
	ID   int64
	Body []byte
}

// Page is one bounded slice of a List result. Next is only meaningful when
// More is true.
type Page struct {
	Documents []Document
	Next      Cursor
	More      bool
}

// Store is the persistence boundary. List returns documents in natural store
// order (ascending id); limit bounds the page size.
type Store interface {
	Insert(ctx context.Context, kind string, body []byte) (int64, error)
	Get(ctx context.Context, kind string, id int64) ([]byte, error)
	Put(ctx context.Context, kind string, id int64, body []byte) error
	Delete(ctx context.Context, kind string, id int64) error
	Count(ctx context.Context, kind string, filters ...Filter) (int, error)
	List(ctx context.Context, kind string, limit int, cursor Cursor, filters ...Filter) (*Page, error)
	Close() error
}
