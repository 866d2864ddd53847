package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/meltforce/gymtrack/internal/models"
	"github.com/meltforce/gymtrack/internal/store"
)

// Exercises is the exercise repository. Exercises are collectively owned, so
// no ownership guard applies here.
type Exercises struct {
	store store.Store
}

func NewExercises(st store.Store) *Exercises {
	return &Exercises{store: st}
}

// ExercisePage is one page of the exercise collection. Next is a full URL
// carrying the continuation cursor; it is absent on the last page.
type ExercisePage struct {
	NumTotalItems int                `json:"num_total_items"`
	Items         []*models.Exercise `json:"items"`
	Next          string             `json:"next,omitempty"`
}

// Create persists a new exercise with an empty workouts array and returns it
// annotated with the assigned id and its locator under base.
func (r *Exercises) Create(ctx context.Context, base string, e *models.Exercise) (*models.Exercise, error) {
	doc := exerciseDoc{Name: e.Name, Weight: e.Weight, Sets: e.Sets, Reps: e.Reps, Workouts: []int64{}}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding exercise: %w", err)
	}
	id, err := r.store.Insert(ctx, kindExercise, body)
	if err != nil {
		return nil, fmt.Errorf("saving exercise: %w", err)
	}
	return doc.resource(id, base), nil
}

func (r *Exercises) Get(ctx context.Context, base string, id int64) (*models.Exercise, error) {
	doc, err := loadExerciseDoc(ctx, r.store, id)
	if err != nil {
		return nil, err
	}
	return doc.resource(id, base), nil
}

// List returns one page of at most five exercises. The total count is a
// separate query, so every page reports the full collection size.
func (r *Exercises) List(ctx context.Context, base string, cursor store.Cursor) (*ExercisePage, error) {
	total, err := r.store.Count(ctx, kindExercise)
	if err != nil {
		return nil, fmt.Errorf("counting exercises: %w", err)
	}
	page, err := r.store.List(ctx, kindExercise, pageSize, cursor)
	if err != nil {
		if errors.Is(err, store.ErrBadCursor) {
			return nil, err
		}
		return nil, fmt.Errorf("listing exercises: %w", err)
	}

	out := &ExercisePage{NumTotalItems: total, Items: make([]*models.Exercise, 0, len(page.Documents))}
	for _, d := range page.Documents {
		var doc exerciseDoc
		if err := json.Unmarshal(d.Body, &doc); err != nil {
			return nil, fmt.Errorf("decoding exercise %d: %w", d.ID, err)
		}
		out.Items = append(out.Items, doc.resource(d.ID, base))
	}
	if page.More {
		out.Next = base + "?cursor=" + url.QueryEscape(string(page.Next))
	}
	return out, nil
}

// Replace overwrites every client-settable field. The workouts array is
// preserved from the stored document; the request body is never trusted for
// it.
func (r *Exercises) Replace(ctx context.Context, base string, id int64, e *models.Exercise) (*models.Exercise, error) {
	cur, err := loadExerciseDoc(ctx, r.store, id)
	if err != nil {
		return nil, err
	}
	doc := exerciseDoc{Name: e.Name, Weight: e.Weight, Sets: e.Sets, Reps: e.Reps, Workouts: cur.Workouts}
	if err := putExerciseDoc(ctx, r.store, id, &doc); err != nil {
		return nil, err
	}
	return doc.resource(id, base), nil
}

// Patch merges the present fields of p into the stored document.
func (r *Exercises) Patch(ctx context.Context, base string, id int64, p *models.ExercisePatch) (*models.Exercise, error) {
	doc, err := loadExerciseDoc(ctx, r.store, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		doc.Name = *p.Name
	}
	if p.Weight != nil {
		doc.Weight = *p.Weight
	}
	if p.Sets != nil {
		doc.Sets = *p.Sets
	}
	if p.Reps != nil {
		doc.Reps = *p.Reps
	}
	if err := putExerciseDoc(ctx, r.store, id, doc); err != nil {
		return nil, err
	}
	return doc.resource(id, base), nil
}

// Delete removes the exercise document. Workouts that still reference it keep
// their stale id; only workout deletion cascades.
func (r *Exercises) Delete(ctx context.Context, id int64) error {
	err := r.store.Delete(ctx, kindExercise, id)
	if errors.Is(err, store.ErrNoSuchEntity) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting exercise %d: %w", id, err)
	}
	return nil
}
