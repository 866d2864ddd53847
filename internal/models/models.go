package models

// Exercise is a strength exercise. The Workouts slice holds the ids of every
// workout the exercise is linked to; it is maintained by the link protocol,
// never by the client.
type Exercise struct {
	ID       int64   `json:"id,omitempty"`
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Sets     float64 `json:"sets"`
	Reps     float64 `json:"reps"`
	Workouts []int64 `json:"workouts"`
	Self     string  `json:"self,omitempty"`
}

// Workout is a training session owned by a single identity subject. Owner is
// set once at creation from the verified token and is never exposed in API
// responses.
type Workout struct {
	ID        int64   `json:"id,omitempty"`
	Length    float64 `json:"length"`
	Heartrate float64 `json:"heartrate"`
	Date      string  `json:"date"`
	Owner     string  `json:"-"`
	Exercises []int64 `json:"exercises"`
	Self      string  `json:"self,omitempty"`
}

// ExercisePatch carries the fields present in a partial update. A nil field
// was absent from the request body and keeps its stored value.
type ExercisePatch struct {
	Name   *string
	Weight *float64
	Sets   *float64
	Reps   *float64
}

// WorkoutPatch is the partial-update counterpart for workouts.
type WorkoutPatch struct {
	Length    *float64
	Heartrate *float64
	Date      *string
}
