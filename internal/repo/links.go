package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meltforce/gymtrack/internal/store"
)

// Links manages the bidirectional association between workouts and exercises.
// An edge lives in two places, the workout's exercises array and the
// exercise's workouts array, and every mutation writes both documents as two
// sequential store operations. The store offers no cross-document
// transaction, so a failure between the two writes leaves the arrays
// divergent until repaired by hand; this window is an accepted limitation,
// not something the code tries to mask.
type Links struct {
	store store.Store
	log   *slog.Logger
}

func NewLinks(st store.Store, log *slog.Logger) *Links {
	return &Links{store: st, log: log}
}

// Link adds the edge between a workout and an exercise. The requester must
// own the workout, both documents must exist, and the edge must not already
// be recorded on both sides. The workout-side document is written first.
//
// The existence predicate requires both arrays to agree; a half-linked pair
// (one side recorded, the other not) passes the check and gets a second entry
// appended on the side that already had one. No repair path exists for that
// state.
func (l *Links) Link(ctx context.Context, workoutID, exerciseID int64, subject string) error {
	wdoc, err := loadWorkoutDoc(ctx, l.store, workoutID)
	if err != nil {
		return err
	}
	if !Authorize(wdoc.Owner, subject) {
		return ErrForbidden
	}
	edoc, err := loadExerciseDoc(ctx, l.store, exerciseID)
	if err != nil {
		return err
	}
	if containsID(wdoc.Exercises, exerciseID) && containsID(edoc.Workouts, workoutID) {
		return ErrEdgeExists
	}

	wdoc.Exercises = append(wdoc.Exercises, exerciseID)
	edoc.Workouts = append(edoc.Workouts, workoutID)

	if err := putWorkoutDoc(ctx, l.store, workoutID, wdoc); err != nil {
		return fmt.Errorf("linking workout %d: %w", workoutID, err)
	}
	if err := putExerciseDoc(ctx, l.store, exerciseID, edoc); err != nil {
		return fmt.Errorf("linking exercise %d: %w", exerciseID, err)
	}
	return nil
}

// Unlink removes the edge. It must be recorded on both sides; removal filters
// the id out of each array rather than cutting at an index, and writes in the
// same order as Link.
func (l *Links) Unlink(ctx context.Context, workoutID, exerciseID int64, subject string) error {
	wdoc, err := loadWorkoutDoc(ctx, l.store, workoutID)
	if err != nil {
		return err
	}
	if !Authorize(wdoc.Owner, subject) {
		return ErrForbidden
	}
	edoc, err := loadExerciseDoc(ctx, l.store, exerciseID)
	if err != nil {
		return err
	}
	if !containsID(wdoc.Exercises, exerciseID) || !containsID(edoc.Workouts, workoutID) {
		return ErrEdgeMissing
	}

	wdoc.Exercises = removeID(wdoc.Exercises, exerciseID)
	edoc.Workouts = removeID(edoc.Workouts, workoutID)

	if err := putWorkoutDoc(ctx, l.store, workoutID, wdoc); err != nil {
		return fmt.Errorf("unlinking workout %d: %w", workoutID, err)
	}
	if err := putExerciseDoc(ctx, l.store, exerciseID, edoc); err != nil {
		return fmt.Errorf("unlinking exercise %d: %w", exerciseID, err)
	}
	return nil
}

// DeleteWorkout removes the workout's id from every linked exercise, then
// deletes the workout document itself. The sweep is best effort: a failure on
// one exercise is logged and does not stop the others, and nothing already
// written is rolled back.
func (l *Links) DeleteWorkout(ctx context.Context, id int64, subject string) error {
	wdoc, err := loadWorkoutDoc(ctx, l.store, id)
	if err != nil {
		return err
	}
	if !Authorize(wdoc.Owner, subject) {
		return ErrForbidden
	}

	for _, eid := range wdoc.Exercises {
		edoc, err := loadExerciseDoc(ctx, l.store, eid)
		if err != nil {
			l.log.Warn("cascade unlink: loading exercise",
				"workout_id", id, "exercise_id", eid, "error", err)
			continue
		}
		edoc.Workouts = removeID(edoc.Workouts, id)
		if err := putExerciseDoc(ctx, l.store, eid, edoc); err != nil {
			l.log.Warn("cascade unlink: saving exercise",
				"workout_id", id, "exercise_id", eid, "error", err)
		}
	}

	if err := l.store.Delete(ctx, kindWorkout, id); err != nil {
		if errors.Is(err, store.ErrNoSuchEntity) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting workout %d: %w", id, err)
	}
	return nil
}
