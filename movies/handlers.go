package movies

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/movievault-go/apperror"
	"github.com/user/movievault-go/auth"
)

// Handlers serves the catalog routes.
type Handlers struct {
	store *Store
}

// NewHandlers creates new Handlers.
func NewHandlers(store *Store) *Handlers {
	return &Handlers{store: store}
}

// RegisterRoutes mounts the catalog on r behind JWTMiddleware.
func (h *Handlers) RegisterRoutes(r chi.Router, authSvc *auth.AuthService) {
	r.Group(func(r chi.Router) {
		r.Use(auth.JWTMiddleware(authSvc))
		r.Get("/movies", h.HandleList())
		r.Get("/movies/genre/{GenreName}", h.HandleGenre())
		r.Get("/movies/{Title}", h.HandleMovie())
		r.Get("/directors/{Name}", h.HandleDirector())
	})
}

// lookupError turns ErrNotFound into a 400 with notFound as the message.
func lookupError(err error, notFound string) error {
	if errors.Is(err, ErrNotFound) {
		return apperror.NewNotFoundError(notFound, err)
	}
	return apperror.NewDatabaseError("Failed to read the catalog", err)
}

// HandleList godoc
// @Summary List all movies
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Success 200 {array} movies.Movie
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /movies [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movies, err := h.store.List(r.Context())
		if err != nil {
			apperror.WriteRequestError(w, r, lookupError(err, ""))
			return
		}
		apperror.WriteJSON(w, http.StatusOK, movies)
	}
}

// HandleMovie godoc
// @Summary Get a movie by title
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param Title path string true "Exact title"
// @Success 200 {object} movies.Movie
// @Failure 400 {object} apperror.ErrorResponse "Movie was not found"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /movies/{Title} [get]
func (h *Handlers) HandleMovie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := chi.URLParam(r, "Title")
		movie, err := h.store.ByTitle(r.Context(), title)
		if err != nil {
			apperror.WriteRequestError(w, r, lookupError(err, "The movie "+title+" was not found."))
			return
		}
		apperror.WriteJSON(w, http.StatusOK, movie)
	}
}

// HandleGenre godoc
// @Summary Get a genre by name
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param GenreName path string true "Genre name"
// @Success 200 {object} movies.Genre
// @Failure 400 {object} apperror.ErrorResponse "Genre was not found"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /movies/genre/{GenreName} [get]
func (h *Handlers) HandleGenre() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "GenreName")
		genre, err := h.store.Genre(r.Context(), name)
		if err != nil {
			apperror.WriteRequestError(w, r, lookupError(err, "Genre "+name+" was not found."))
			return
		}
		apperror.WriteJSON(w, http.StatusOK, genre)
	}
}

// HandleDirector godoc
// @Summary Get a director by name
// @Tags Movies
// @Produce json
// @Security BearerAuth
// @Param Name path string true "Director name"
// @Success 200 {object} movies.Director
// @Failure 400 {object} apperror.ErrorResponse "Director was not found"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /directors/{Name} [get]
func (h *Handlers) HandleDirector() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "Name")
		director, err := h.store.Director(r.Context(), name)
		if err != nil {
			apperror.WriteRequestError(w, r, lookupError(err, "Director "+name+" was not found."))
			return
		}
		apperror.WriteJSON(w, http.StatusOK, director)
	}
}
