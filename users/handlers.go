// This file, `handlers.go`, is responsible for handling HTTP requests related to user accounts.
package users

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/user/movievault-go/apperror"
	"github.com/user/movievault-go/auth"
)

// UserHandlers provides HTTP handlers for the user resource.
type UserHandlers struct {
	service   *UserService
	validator *Validator
}

// NewUserHandlers creates new UserHandlers.
func NewUserHandlers(service *UserService) *UserHandlers {
	return &UserHandlers{service: service, validator: NewValidator()}
}

// RegisterRoutes mounts the user routes on r. Registration is public; reading needs a
// valid token; every mutation of /users/{Username} also needs to be the owner.
func (h *UserHandlers) RegisterRoutes(r chi.Router, authSvc *auth.AuthService) {
	r.Post("/users", h.HandleRegister())

	r.Group(func(r chi.Router) {
		r.Use(auth.JWTMiddleware(authSvc))
		r.Get("/users", h.HandleList())
		r.Get("/users/{Username}", h.HandleGet())

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSelf(authSvc, "Username"))
			r.Put("/users/{Username}", h.HandleUpdate())
			r.Delete("/users/{Username}", h.HandleDelete())
			r.Post("/users/{Username}/movies/{MovieID}", h.HandleAddFavorite())
			r.Delete("/users/{Username}/movies/{MovieID}", h.HandleRemoveFavorite())
		})
	})
}

// decodeAndValidate reads a UserRequest. It writes the error response itself and
// returns false when the body is unusable.
func (h *UserHandlers) decodeAndValidate(w http.ResponseWriter, r *http.Request) (*UserRequest, bool) {
	defer r.Body.Close()

	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.WriteError(w, apperror.NewBadRequestError("Invalid request payload", err))
		return nil, false
	}
	if errs := h.validator.Validate(&req); len(errs) > 0 {
		apperror.WriteJSON(w, http.StatusUnprocessableEntity, ValidationErrorResponse{Errors: errs})
		return nil, false
	}
	return &req, true
}

// HandleRegister godoc
// @Summary Register a user
// @Description Creates an account. The password is stored as a bcrypt hash.
// @Tags Users
// @Accept json
// @Produce json
// @Param user body users.UserRequest true "New account"
// @Success 201 {object} auth.User "Created user"
// @Failure 400 {object} apperror.ErrorResponse "Username already exists"
// @Failure 422 {object} users.ValidationErrorResponse "Validation failed"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /users [post]
func (h *UserHandlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decodeAndValidate(w, r)
		if !ok {
			return
		}
		user, err := h.service.Register(r.Context(), req)
		if err != nil {
			apperror.WriteRequestError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusCreated, user)
	}
}

// HandleList godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} auth.User
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /users [get]
func (h *UserHandlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.service.List(r.Context())
		if err != nil {
			apperror.WriteRequestError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, users)
	}
}

// HandleGet godoc
// @Summary Get a user by username
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param Username path string true "Username"
// @Success 200 {object} auth.User
// @Failure 400 {object} apperror.ErrorResponse "User was not found"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /users/{Username} [get]
func (h *UserHandlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.service.Get(r.Context(), chi.URLParam(r, "Username"))
		if err != nil {
			apperror.WriteRequestError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, user)
	}
}

// HandleUpdate godoc
// @Summary Update own account
// @Description Replaces Username, Password, Email and Birthday. Only the account owner may call it.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Username path string true "Username"
// @Param user body users.UserRequest true "New account fields"
// @Success 200 {object} auth.User
// @Failure 400 {object} apperror.ErrorResponse "Permission denied, user not found or username taken"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Failure 422 {object} users.ValidationErrorResponse "Validation failed"
// @Router /users/{Username} [put]
func (h *UserHandlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decodeAndValidate(w, r)
		if !ok {
			return
		}
		user, err := h.service.Update(r.Context(), chi.URLParam(r, "Username"), req)
		if err != nil {
			apperror.WriteRequestError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, user)
	}
}

// HandleDelete godoc
// @Summary Delete own account
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param Username path string true "Username"
// @Success 200 {object} users.MessageResponse
// @Failure 400 {object} apperror.ErrorResponse "Permission denied or user not found"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /users/{Username} [delete]
func (h *UserHandlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg, err := h.service.Delete(r.Context(), chi.URLParam(r, "Username"))
		if err != nil {
			apperror.WriteRequestError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, MessageResponse{Message: msg})
	}
}

// movieIDParam returns the MovieID path parameter in canonical form.
func movieIDParam(r *http.Request) (string, error) {
	id, err := uuid.Parse(chi.URLParam(r, "MovieID"))
	if err != nil {
		return "", apperror.NewBadRequestError("Invalid movie id.", err)
	}
	return id.String(), nil
}

// HandleAddFavorite godoc
// @Summary Add a favorite movie
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param Username path string true "Username"
// @Param MovieID path string true "Movie id (UUID)"
// @Success 200 {object} auth.User
// @Failure 400 {object} apperror.ErrorResponse "Invalid movie id, permission denied or user not found"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /users/{Username}/movies/{MovieID} [post]
func (h *UserHandlers) HandleAddFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := movieIDParam(r)
		if err != nil {
			apperror.WriteRequestError(w, r, err)
			return
		}
		user, err := h.service.AddFavorite(r.Context(), chi.URLParam(r, "Username"), movieID)
		if err != nil {
			apperror.WriteRequestError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, user)
	}
}

// HandleRemoveFavorite godoc
// @Summary Remove a favorite movie
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param Username path string true "Username"
// @Param MovieID path string true "Movie id (UUID)"
// @Success 200 {object} auth.User
// @Failure 400 {object} apperror.ErrorResponse "Invalid movie id, permission denied or user not found"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized"
// @Router /users/{Username}/movies/{MovieID} [delete]
func (h *UserHandlers) HandleRemoveFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		movieID, err := movieIDParam(r)
		if err != nil {
			apperror.WriteRequestError(w, r, err)
			return
		}
		user, err := h.service.RemoveFavorite(r.Context(), chi.URLParam(r, "Username"), movieID)
		if err != nil {
			apperror.WriteRequestError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, user)
	}
}
