package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/meltforce/gymtrack/internal/models"
)

const workoutBase = "http://example.com/api/workouts"

// TestWorkoutsCreate verifies the created workout records the subject as
// owner in the store while the resource itself carries id, self, and an empty
// exercises array.
func TestWorkoutsCreate(t *testing.T) {
	st := openTestStore(t)
	r := NewWorkouts(st)
	ctx := context.Background()

	w, err := r.Create(ctx, workoutBase, "alice", &models.Workout{Length: 30, Heartrate: 140, Date: "15/06/2024"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if w.ID <= 0 {
		t.Errorf("ID = %d, want positive", w.ID)
	}
	want := fmt.Sprintf("%s/%d", workoutBase, w.ID)
	if w.Self != want {
		t.Errorf("Self = %q, want %q", w.Self, want)
	}
	if w.Exercises == nil || len(w.Exercises) != 0 {
		t.Errorf("Exercises = %v, want empty slice", w.Exercises)
	}

	doc, err := loadWorkoutDoc(ctx, st, w.ID)
	if err != nil {
		t.Fatalf("loadWorkoutDoc: %v", err)
	}
	if doc.Owner != "alice" {
		t.Errorf("stored owner = %q, want %q", doc.Owner, "alice")
	}
}

// TestWorkoutsOwnership verifies that another subject's access fails with
// ErrForbidden, never ErrNotFound, on every guarded operation.
func TestWorkoutsOwnership(t *testing.T) {
	r := NewWorkouts(openTestStore(t))
	ctx := context.Background()

	w, err := r.Create(ctx, workoutBase, "alice", &models.Workout{Length: 30, Heartrate: 140, Date: "15/06/2024"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := r.Get(ctx, workoutBase, w.ID, "bob"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Get: err = %v, want ErrForbidden", err)
	}
	if _, err := r.Replace(ctx, workoutBase, w.ID, "bob", &models.Workout{Length: 1, Heartrate: 60, Date: "01/01/2025"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Replace: err = %v, want ErrForbidden", err)
	}
	length := 45.0
	if _, err := r.Patch(ctx, workoutBase, w.ID, "bob", &models.WorkoutPatch{Length: &length}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Patch: err = %v, want ErrForbidden", err)
	}

	// The owner still gets through.
	if _, err := r.Get(ctx, workoutBase, w.ID, "alice"); err != nil {
		t.Errorf("owner Get: %v", err)
	}
}

// TestWorkoutsListFilteredByOwner verifies the listing and its total only
// cover the subject's own workouts.
func TestWorkoutsListFilteredByOwner(t *testing.T) {
	r := NewWorkouts(openTestStore(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := r.Create(ctx, workoutBase, "alice", &models.Workout{Length: 30, Heartrate: 140, Date: "15/06/2024"}); err != nil {
			t.Fatalf("Create alice %d: %v", i, err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := r.Create(ctx, workoutBase, "bob", &models.Workout{Length: 20, Heartrate: 120, Date: "01/05/2024"}); err != nil {
			t.Fatalf("Create bob %d: %v", i, err)
		}
	}

	page, err := r.List(ctx, workoutBase, "alice", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.NumTotalItems != 3 {
		t.Errorf("NumTotalItems = %d, want 3", page.NumTotalItems)
	}
	if len(page.Items) != 3 {
		t.Errorf("len(Items) = %d, want 3", len(page.Items))
	}
	for _, w := range page.Items {
		if w.Length != 30 {
			t.Errorf("foreign workout leaked into listing: %+v", w)
		}
	}
}

// TestWorkoutsReplacePreservesOwnerAndExercises verifies a full replace never
// takes owner or the exercises array from the request.
func TestWorkoutsReplacePreservesOwnerAndExercises(t *testing.T) {
	st := openTestStore(t)
	r := NewWorkouts(st)
	ctx := context.Background()

	w, err := r.Create(ctx, workoutBase, "alice", &models.Workout{Length: 30, Heartrate: 140, Date: "15/06/2024"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	doc, err := loadWorkoutDoc(ctx, st, w.ID)
	if err != nil {
		t.Fatalf("loadWorkoutDoc: %v", err)
	}
	doc.Exercises = append(doc.Exercises, 7)
	if err := putWorkoutDoc(ctx, st, w.ID, doc); err != nil {
		t.Fatalf("putWorkoutDoc: %v", err)
	}

	got, err := r.Replace(ctx, workoutBase, w.ID, "alice", &models.Workout{Length: 60, Heartrate: 150, Date: "16/06/2024"})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got.Length != 60 || got.Heartrate != 150 || got.Date != "16/06/2024" {
		t.Errorf("Replace = %+v", got)
	}
	if len(got.Exercises) != 1 || got.Exercises[0] != 7 {
		t.Errorf("Exercises = %v, want [7]", got.Exercises)
	}

	doc, err = loadWorkoutDoc(ctx, st, w.ID)
	if err != nil {
		t.Fatalf("loadWorkoutDoc after Replace: %v", err)
	}
	if doc.Owner != "alice" {
		t.Errorf("owner after Replace = %q, want %q", doc.Owner, "alice")
	}
}

// TestWorkoutsPatch verifies the sparse update keeps absent fields.
func TestWorkoutsPatch(t *testing.T) {
	r := NewWorkouts(openTestStore(t))
	ctx := context.Background()

	w, err := r.Create(ctx, workoutBase, "alice", &models.Workout{Length: 30, Heartrate: 140, Date: "15/06/2024"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	hr := 155.0
	got, err := r.Patch(ctx, workoutBase, w.ID, "alice", &models.WorkoutPatch{Heartrate: &hr})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if got.Heartrate != 155 {
		t.Errorf("Heartrate = %v, want 155", got.Heartrate)
	}
	if got.Length != 30 || got.Date != "15/06/2024" {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

// TestWorkoutsGetMissing verifies a nonexistent workout reports ErrNotFound
// regardless of subject.
func TestWorkoutsGetMissing(t *testing.T) {
	r := NewWorkouts(openTestStore(t))
	if _, err := r.Get(context.Background(), workoutBase, 123, "alice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
