package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func openTestStore(t *testing.T) *Sqlite {
	t.Helper()
	s, err := OpenSqlite(":memory:")
	if err != nil {
		t.Fatalf("OpenSqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestSqliteCRUD exercises the full document lifecycle against one kind.
func TestSqliteCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, "Exercise", []byte(`{"name":"Squat"}`))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id <= 0 {
		t.Fatalf("Insert id = %d, want positive", id)
	}

	body, err := s.Get(ctx, "Exercise", id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != `{"name":"Squat"}` {
		t.Errorf("Get body = %s", body)
	}

	if err := s.Put(ctx, "Exercise", id, []byte(`{"name":"Front Squat"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	body, err = s.Get(ctx, "Exercise", id)
	if err != nil {
		t.Fatalf("Get after Put: %v", err)
	}
	if string(body) != `{"name":"Front Squat"}` {
		t.Errorf("Get after Put body = %s", body)
	}

	if err := s.Delete(ctx, "Exercise", id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "Exercise", id); !errors.Is(err, ErrNoSuchEntity) {
		t.Errorf("Get after Delete: err = %v, want ErrNoSuchEntity", err)
	}
}

// TestSqliteNoSuchEntity verifies Get, Put, and Delete all report a missing
// document the same way.
func TestSqliteNoSuchEntity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "Exercise", 42); !errors.Is(err, ErrNoSuchEntity) {
		t.Errorf("Get: err = %v, want ErrNoSuchEntity", err)
	}
	if err := s.Put(ctx, "Exercise", 42, []byte(`{}`)); !errors.Is(err, ErrNoSuchEntity) {
		t.Errorf("Put: err = %v, want ErrNoSuchEntity", err)
	}
	if err := s.Delete(ctx, "Exercise", 42); !errors.Is(err, ErrNoSuchEntity) {
		t.Errorf("Delete: err = %v, want ErrNoSuchEntity", err)
	}
}

// TestSqliteKindIsolation verifies ids are shared across kinds but lookups
// are not.
func TestSqliteKindIsolation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, "Exercise", []byte(`{"name":"Row"}`))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := s.Get(ctx, "Workout", id); !errors.Is(err, ErrNoSuchEntity) {
		t.Errorf("cross-kind Get: err = %v, want ErrNoSuchEntity", err)
	}
}

// TestSqlitePagination walks 12 documents with a page size of 5 and expects
// pages of 5, 5, and 2, with More false only on the last.
func TestSqlitePagination(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 12; i++ {
		id, err := s.Insert(ctx, "Exercise", fmt.Appendf(nil, `{"name":"e%d"}`, i))
		if err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
		ids = append(ids, id)
	}

	var (
		got    []int64
		cursor Cursor
	)
	for i, wantLen := range []int{5, 5, 2} {
		page, err := s.List(ctx, "Exercise", 5, cursor)
		if err != nil {
			t.Fatalf("List page %d: %v", i, err)
		}
		if len(page.Documents) != wantLen {
			t.Fatalf("page %d: len = %d, want %d", i, len(page.Documents), wantLen)
		}
		wantMore := i < 2
		if page.More != wantMore {
			t.Errorf("page %d: More = %v, want %v", i, page.More, wantMore)
		}
		for _, d := range page.Documents {
			got = append(got, d.ID)
		}
		cursor = page.Next
	}

	if len(got) != len(ids) {
		t.Fatalf("walked %d documents, want %d", len(got), len(ids))
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Errorf("position %d: id = %d, want %d (ascending insert order)", i, got[i], ids[i])
		}
	}
}

// TestSqliteListExactMultiple verifies that a collection whose size is an
// exact multiple of the page size does not report a phantom extra page.
func TestSqliteListExactMultiple(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := s.Insert(ctx, "Exercise", []byte(`{}`)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	page, err := s.List(ctx, "Exercise", 5, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Documents) != 5 {
		t.Fatalf("len = %d, want 5", len(page.Documents))
	}
	if page.More {
		t.Error("More = true for a collection that fits one page")
	}
}

// TestSqliteFilter verifies Count and List restricted by a top-level JSON
// property.
func TestSqliteFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.Insert(ctx, "Workout", []byte(`{"owner":"alice"}`)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := s.Insert(ctx, "Workout", []byte(`{"owner":"bob"}`)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	n, err := s.Count(ctx, "Workout", Filter{Property: "owner", Value: "alice"})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}

	page, err := s.List(ctx, "Workout", 10, "", Filter{Property: "owner", Value: "bob"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Documents) != 2 {
		t.Errorf("filtered len = %d, want 2", len(page.Documents))
	}
	for _, d := range page.Documents {
		if string(d.Body) != `{"owner":"bob"}` {
			t.Errorf("filtered body = %s", d.Body)
		}
	}
}

// TestSqliteBadCursor verifies that garbage cursors fail with ErrBadCursor
// rather than silently restarting the listing.
func TestSqliteBadCursor(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, cursor := range []Cursor{"not base64 ~~~", "aGVsbG8"} {
		if _, err := s.List(ctx, "Exercise", 5, cursor); !errors.Is(err, ErrBadCursor) {
			t.Errorf("List(%q): err = %v, want ErrBadCursor", cursor, err)
		}
	}
}
