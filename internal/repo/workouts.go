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

// Workouts is the workout repository. Every read and write is guarded by the
// ownership check; a mismatch is reported as ErrForbidden, distinct from
// ErrNotFound.
type Workouts struct {
	store store.Store
}

func NewWorkouts(st store.Store) *Workouts {
	return &Workouts{store: st}
}

// WorkoutPage is one page of a subject's workout collection.
type WorkoutPage struct {
	NumTotalItems int               `json:"num_total_items"`
	Items         []*models.Workout `json:"items"`
	Next          string            `json:"next,omitempty"`
}

// Create persists a new workout owned by subject, with an empty exercises
// array.
func (r *Workouts) Create(ctx context.Context, base, subject string, w *models.Workout) (*models.Workout, error) {
	doc := workoutDoc{Length: w.Length, Heartrate: w.Heartrate, Date: w.Date, Owner: subject, Exercises: []int64{}}
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding workout: %w", err)
	}
	id, err := r.store.Insert(ctx, kindWorkout, body)
	if err != nil {
		return nil, fmt.Errorf("saving workout: %w", err)
	}
	return doc.resource(id, base), nil
}

func (r *Workouts) Get(ctx context.Context, base string, id int64, subject string) (*models.Workout, error) {
	doc, err := loadWorkoutDoc(ctx, r.store, id)
	if err != nil {
		return nil, err
	}
	if !Authorize(doc.Owner, subject) {
		return nil, ErrForbidden
	}
	return doc.resource(id, base), nil
}

// List returns one page of the subject's workouts. Both the count and the
// page query are owner-filtered.
func (r *Workouts) List(ctx context.Context, base, subject string, cursor store.Cursor) (*WorkoutPage, error) {
	owner := store.Filter{Property: "owner", Value: subject}
	total, err := r.store.Count(ctx, kindWorkout, owner)
	if err != nil {
		return nil, fmt.Errorf("counting workouts: %w", err)
	}
	page, err := r.store.List(ctx, kindWorkout, pageSize, cursor, owner)
	if err != nil {
		if errors.Is(err, store.ErrBadCursor) {
			return nil, err
		}
		return nil, fmt.Errorf("listing workouts: %w", err)
	}

	out := &WorkoutPage{NumTotalItems: total, Items: make([]*models.Workout, 0, len(page.Documents))}
	for _, d := range page.Documents {
		var doc workoutDoc
		if err := json.Unmarshal(d.Body, &doc); err != nil {
			return nil, fmt.Errorf("decoding workout %d: %w", d.ID, err)
		}
		out.Items = append(out.Items, doc.resource(d.ID, base))
	}
	if page.More {
		out.Next = base + "?cursor=" + url.QueryEscape(string(page.Next))
	}
	return out, nil
}

// Replace overwrites the client-settable fields. Owner and the exercises
// array always come from the stored document, never from the request body.
func (r *Workouts) Replace(ctx context.Context, base string, id int64, subject string, w *models.Workout) (*models.Workout, error) {
	cur, err := loadWorkoutDoc(ctx, r.store, id)
	if err != nil {
		return nil, err
	}
	if !Authorize(cur.Owner, subject) {
		return nil, ErrForbidden
	}
	doc := workoutDoc{Length: w.Length, Heartrate: w.Heartrate, Date: w.Date, Owner: cur.Owner, Exercises: cur.Exercises}
	if err := putWorkoutDoc(ctx, r.store, id, &doc); err != nil {
		return nil, err
	}
	return doc.resource(id, base), nil
}

// Patch merges the present fields of p into the stored document.
func (r *Workouts) Patch(ctx context.Context, base string, id int64, subject string, p *models.WorkoutPatch) (*models.Workout, error) {
	doc, err := loadWorkoutDoc(ctx, r.store, id)
	if err != nil {
		return nil, err
	}
	if !Authorize(doc.Owner, subject) {
		return nil, ErrForbidden
	}
	if p.Length != nil {
		doc.Length = *p.Length
	}
	if p.Heartrate != nil {
		doc.Heartrate = *p.Heartrate
	}
	if p.Date != nil {
		doc.Date = *p.Date
	}
	if err := putWorkoutDoc(ctx, r.store, id, doc); err != nil {
		return nil, err
	}
	return doc.resource(id, base), nil
}
