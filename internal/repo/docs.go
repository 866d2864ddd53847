// Package repo implements the exercise and workout repositories, cursor-based
// pagination, the ownership guard, and the bidirectional link protocol, all
// on top of the schemaless document store.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/meltforce/gymtrack/internal/models"
	"github.com/meltforce/gymtrack/internal/store"
)

const (
	kindExercise = "Exercise"
	kindWorkout  = "Workout"

	pageSize = 5
)

// exerciseDoc is the stored form of an exercise: no id, no locator. The store
// key carries the id; the locator is derived per request.
type exerciseDoc struct {
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Sets     float64 `json:"sets"`
	Reps     float64 `json:"reps"`
	Workouts []int64 `json:"workouts"`
}

// workoutDoc is the stored form of a workout. Unlike the API representation
// it carries the owner subject.
type workoutDoc struct {
	Length    float64 `json:"length"`
	Heartrate float64 `json:"heartrate"`
	Date      string  `json:"date"`
	Owner     string  `json:"owner"`
	Exercises []int64 `json:"exercises"`
}

func (d exerciseDoc) resource(id int64, base string) *models.Exercise {
	workouts := d.Workouts
	if workouts == nil {
		workouts = []int64{}
	}
	return &models.Exercise{
		ID:       id,
		Name:     d.Name,
		Weight:   d.Weight,
		Sets:     d.Sets,
		Reps:     d.Reps,
		Workouts: workouts,
		Self:     fmt.Sprintf("%s/%d", base, id),
	}
}

func (d workoutDoc) resource(id int64, base string) *models.Workout {
	exercises := d.Exercises
	if exercises == nil {
		exercises = []int64{}
	}
	return &models.Workout{
		ID:        id,
		Length:    d.Length,
		Heartrate: d.Heartrate,
		Date:      d.Date,
		Owner:     d.Owner,
		Exercises: exercises,
		Self:      fmt.Sprintf("%s/%d", base, id),
	}
}

func loadExerciseDoc(ctx context.Context, st store.Store, id int64) (*exerciseDoc, error) {
	body, err := st.Get(ctx, kindExercise, id)
	if errors.Is(err, store.ErrNoSuchEntity) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc exerciseDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding exercise %d: %w", id, err)
	}
	return &doc, nil
}

func loadWorkoutDoc(ctx context.Context, st store.Store, id int64) (*workoutDoc, error) {
	body, err := st.Get(ctx, kindWorkout, id)
	if errors.Is(err, store.ErrNoSuchEntity) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc workoutDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding workout %d: %w", id, err)
	}
	return &doc, nil
}

func putExerciseDoc(ctx context.Context, st store.Store, id int64, doc *exerciseDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding exercise %d: %w", id, err)
	}
	if err := st.Put(ctx, kindExercise, id, body); err != nil {
		if errors.Is(err, store.ErrNoSuchEntity) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func putWorkoutDoc(ctx context.Context, st store.Store, id int64, doc *workoutDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding workout %d: %w", id, err)
	}
	if err := st.Put(ctx, kindWorkout, id, body); err != nil {
		if errors.Is(err, store.ErrNoSuchEntity) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// removeID filters id out of the slice, preserving the order of the rest.
func removeID(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
