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
	msgNoExercise = "No exercise with this exercise_id exists"
	msgBadCursor  = "The pagination cursor is not valid"
)

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	payload, err := validate.ExerciseBody(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.exercises.Create(r.Context(), collectionURL(r, "exercises"), payload)
	if err != nil {
		s.fail(w, "creating exercise", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	cursor := store.Cursor(r.URL.Query().Get("cursor"))
	page, err := s.exercises.List(r.Context(), collectionURL(r, "exercises"), cursor)
	if errors.Is(err, store.ErrBadCursor) {
		writeError(w, http.StatusBadRequest, msgBadCursor)
		return
	}
	if err != nil {
		s.fail(w, "listing exercises", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "exercise_id"))
	if !ok {
		writeError(w, http.StatusNotFound, msgNoExercise)
		return
	}

	res, err := s.exercises.Get(r.Context(), collectionURL(r, "exercises"), id)
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgNoExercise)
		return
	}
	if err != nil {
		s.fail(w, "loading exercise", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleReplaceExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "exercise_id"))
	if !ok {
		writeError(w, http.StatusNotFound, msgNoExercise)
		return
	}
	if !s.requireExercise(w, r, id) {
		return
	}
	body, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	payload, err := validate.ExerciseBody(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.exercises.Replace(r.Context(), collectionURL(r, "exercises"), id, payload)
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgNoExercise)
		return
	}
	if err != nil {
		s.fail(w, "replacing exercise", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePatchExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "exercise_id"))
	if !ok {
		writeError(w, http.StatusNotFound, msgNoExercise)
		return
	}
	if !s.requireExercise(w, r, id) {
		return
	}
	body, ok := s.decodeBody(w, r)
	if !ok {
		return
	}
	payload, err := validate.ExercisePatchBody(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.exercises.Patch(r.Context(), collectionURL(r, "exercises"), id, payload)
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgNoExercise)
		return
	}
	if err != nil {
		s.fail(w, "patching exercise", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// requireExercise resolves the target of an item write before the body is
// read, so a missing resource answers 404 ahead of any body-level failure.
// It reports whether the caller may proceed.
func (s *Server) requireExercise(w http.ResponseWriter, r *http.Request, id int64) bool {
	_, err := s.exercises.Get(r.Context(), collectionURL(r, "exercises"), id)
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgNoExercise)
		return false
	}
	if err != nil {
		s.fail(w, "loading exercise", err)
		return false
	}
	return true
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "exercise_id"))
	if !ok {
		writeError(w, http.StatusNotFound, msgNoExercise)
		return
	}

	err := s.exercises.Delete(r.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgNoExercise)
		return
	}
	if err != nil {
		s.fail(w, "deleting exercise", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
