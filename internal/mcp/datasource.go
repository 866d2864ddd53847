package mcp

import (
	"context"

	"github.com/meltforce/gymtrack/internal/models"
	"github.com/meltforce/gymtrack/internal/repo"
	"github.com/meltforce/gymtrack/internal/store"
)

// DataSource abstracts the data layer for MCP tools.
type DataSource interface {
	ListExercises(ctx context.Context, cursor store.Cursor) (*repo.ExercisePage, error)
	GetExercise(ctx context.Context, id int64) (*models.Exercise, error)
	ListWorkouts(ctx context.Context, owner string, cursor store.Cursor) (*repo.WorkoutPage, error)
	GetWorkout(ctx context.Context, id int64, owner string) (*models.Workout, error)
}

// Local serves MCP tools straight from the document store. Base is the
// public URL prefix used for self locators (e.g. http://localhost:8080).
type Local struct {
	Exercises *repo.Exercises
	Workouts  *repo.Workouts
	Base      string
}

// Compile-time check: *Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

func (l *Local) ListExercises(ctx context.Context, cursor store.Cursor) (*repo.ExercisePage, error) {
	return l.Exercises.List(ctx, l.Base+"/api/exercises", cursor)
}

func (l *Local) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	return l.Exercises.Get(ctx, l.Base+"/api/exercises", id)
}

func (l *Local) ListWorkouts(ctx context.Context, owner string, cursor store.Cursor) (*repo.WorkoutPage, error) {
	return l.Workouts.List(ctx, l.Base+"/api/workouts", owner, cursor)
}

func (l *Local) GetWorkout(ctx context.Context, id int64, owner string) (*models.Workout, error) {
	return l.Workouts.Get(ctx, l.Base+"/api/workouts", id, owner)
}
