package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/gymtrack/internal/identity"
	"github.com/meltforce/gymtrack/internal/repo"
	"github.com/meltforce/gymtrack/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	exercises *repo.Exercises
	workouts  *repo.Workouts
	links     *repo.Links
	verifier  identity.Verifier
	log       *slog.Logger
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(st store.Store, verifier identity.Verifier, log *slog.Logger) *Server {
	s := &Server{
		exercises: repo.NewExercises(st),
		workouts:  repo.NewWorkouts(st),
		links:     repo.NewLinks(st, log),
		verifier:  verifier,
		log:       log,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestID)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Exercises are collectively owned; no auth.
	s.router.Route("/api/exercises", func(r chi.Router) {
		r.Use(RequireJSONAccept)

		r.Post("/", s.handleCreateExercise)
		r.Get("/", s.handleListExercises)
		r.Put("/", methodNotAllowed("GET, POST"))
		r.Patch("/", methodNotAllowed("GET, POST"))
		r.Delete("/", methodNotAllowed("GET, POST"))

		r.Get("/{exercise_id}", s.handleGetExercise)
		r.Put("/{exercise_id}", s.handleReplaceExercise)
		r.Patch("/{exercise_id}", s.handlePatchExercise)
		r.Delete("/{exercise_id}", s.handleDeleteExercise)
		r.Post("/{exercise_id}", methodNotAllowed("GET, PUT, PATCH, DELETE"))
	})

	// Workouts are owner-scoped behind bearer auth. The 405 handlers sit
	// outside the auth group so an unsupported verb is reported as such
	// even without a token.
	s.router.Route("/api/workouts", func(r chi.Router) {
		r.Use(RequireJSONAccept)

		r.Put("/", methodNotAllowed("GET, POST"))
		r.Patch("/", methodNotAllowed("GET, POST"))
		r.Delete("/", methodNotAllowed("GET, POST"))
		r.Post("/{workout_id}", methodNotAllowed("GET, PUT, PATCH, DELETE"))

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(s.verifier))

			r.Post("/", s.handleCreateWorkout)
			r.Get("/", s.handleListWorkouts)

			r.Get("/{workout_id}", s.handleGetWorkout)
			r.Put("/{workout_id}", s.handleReplaceWorkout)
			r.Patch("/{workout_id}", s.handlePatchWorkout)
			r.Delete("/{workout_id}", s.handleDeleteWorkout)

			r.Put("/{workout_id}/exercises/{exercise_id}", s.handleLinkExercise)
			r.Delete("/{workout_id}/exercises/{exercise_id}", s.handleUnlinkExercise)
		})
	})
}

func methodNotAllowed(allow string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
