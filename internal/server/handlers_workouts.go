package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/gymtrack/internal/repo"
	"github.com/meltforce/gymtrack/internal/store"
	"github.com/meltforce/gymtrack/internal/validate"
)

const (
	msgNoWorkout   = "No workout with this workout_id exists"
	msgNoPair      = "The specified workout and/or exercise does not exist"
	msgEdgeExists  = "The exercise is already linked to this workout"
	msgEdgeMissing = "No exercise with this exercise_id is linked to this workout"
	msgForbidden   = "This workout belongs to another user"
)

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	payload, err := validate.WorkoutBody(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.workouts.Create(r.Context(), collectionURL(r, "workouts"), subjectFromContext(r), payload)
	if err != nil {
		s.fail(w, "creating workout", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	cursor := store.Cursor(r.URL.Query().Get("cursor"))
	page, err := s.workouts.List(r.Context(), collectionURL(r, "workouts"), subjectFromContext(r), cursor)
	if errors.Is(err, store.ErrBadCursor) {
		writeError(w, http.StatusBadRequest, msgBadCursor)
		return
	}
	if err != nil {
		s.fail(w, "listing workouts", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "workout_id"))
	if !ok {
		writeError(w, http.StatusNotFound, msgNoWorkout)
		return
	}

	res, err := s.workouts.Get(r.Context(), collectionURL(r, "workouts"), id, subjectFromContext(r))
	if !s.workoutErr(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReplaceWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "workout_id"))
	if !ok {
		writeError(w, http.StatusNotFound, msgNoWorkout)
		return
	}
	if !s.requireWorkout(w, r, id) {
		return
	}
	body, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	payload, err := validate.WorkoutBody(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.workouts.Replace(r.Context(), collectionURL(r, "workouts"), id, subjectFromContext(r), payload)
	if !s.workoutErr(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePatchWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "workout_id"))
	if !ok {
		writeError(w, http.StatusNotFound, msgNoWorkout)
		return
	}
	if !s.requireWorkout(w, r, id) {
		return
	}
	body, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	payload, err := validate.WorkoutPatchBody(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.workouts.Patch(r.Context(), collectionURL(r, "workouts"), id, subjectFromContext(r), payload)
	if !s.workoutErr(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "workout_id"))
	if !ok {
		writeError(w, http.StatusNotFound, msgNoWorkout)
		return
	}

	// Deletion is gated by the relationship cascade: every linked exercise
	// is unlinked before the workout document goes away.
	err := s.links.DeleteWorkout(r.Context(), id, subjectFromContext(r))
	if !s.workoutErr(w, err) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireWorkout resolves the target of an item write before the body is
// read: a missing workout answers 404 and a foreign one 403 ahead of any
// body-level failure. It reports whether the caller may proceed.
func (s *Server) requireWorkout(w http.ResponseWriter, r *http.Request, id int64) bool {
	_, err := s.workouts.Get(r.Context(), collectionURL(r, "workouts"), id, subjectFromContext(r))
	return s.workoutErr(w, err)
}

// workoutErr translates repo errors for single-workout operations. It
// reports whether the caller may proceed.
func (s *Server) workoutErr(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNoWorkout)
	case errors.Is(err, repo.ErrForbidden):
		writeError(w, http.StatusForbidden, msgForbidden)
	default:
		s.fail(w, "workout operation", err)
	}
	return false
}

func (s *Server) handleLinkExercise(w http.ResponseWriter, r *http.Request) {
	workoutID, ok1 := parseID(chi.URLParam(r, "workout_id"))
	exerciseID, ok2 := parseID(chi.URLParam(r, "exercise_id"))
	if !ok1 || !ok2 {
		writeError(w, http.StatusNotFound, msgNoPair)
		return
	}

	err := s.links.Link(r.Context(), workoutID, exerciseID, subjectFromContext(r))
	switch {
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNoPair)
		return
	case errors.Is(err, repo.ErrForbidden):
		writeError(w, http.StatusForbidden, msgForbidden)
		return
	case errors.Is(err, repo.ErrEdgeExists):
		writeError(w, http.StatusNotFound, msgEdgeExists)
		return
	case err != nil:
		s.fail(w, "linking exercise", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnlinkExercise(w http.ResponseWriter, r *http.Request) {
	workoutID, ok1 := parseID(chi.URLParam(r, "workout_id"))
	exerciseID, ok2 := parseID(chi.URLParam(r, "exercise_id"))
	if !ok1 || !ok2 {
		writeError(w, http.StatusNotFound, msgNoPair)
		return
	}

	err := s.links.Unlink(r.Context(), workoutID, exerciseID, subjectFromContext(r))
	switch {
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNoPair)
		return
	case errors.Is(err, repo.ErrForbidden):
		writeError(w, http.StatusForbidden, msgForbidden)
		return
	case errors.Is(err, repo.ErrEdgeMissing):
		writeError(w, http.StatusNotFound, msgEdgeMissing)
		return
	case err != nil:
		s.fail(w, "unlinking exercise", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
