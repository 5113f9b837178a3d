// This file, `handlers.go`, is responsible for handling the login HTTP request.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/user/movievault-go/apperror"
)

// Handlers wraps the AuthService to provide HTTP handlers
type Handlers struct {
	service *AuthService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

// HandleLogin godoc
// @Summary User Login
// @Description Exchanges a Username and Password for a signed bearer token valid for seven days.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} auth.LoginResult "Login successful"
// @Failure 400 {object} auth.LoginFailureResponse "Invalid login"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeLoginFailure(w)
			return
		}

		result, err := h.service.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				writeLoginFailure(w)
				return
			}
			apperror.WriteError(w, ToAppError(err))
			return
		}

		apperror.WriteJSON(w, http.StatusOK, result)
	}
}

// writeLoginFailure sends the one message used for every rejected login, so the
// response never reveals whether the username exists.
func writeLoginFailure(w http.ResponseWriter) {
	apperror.WriteJSON(w, http.StatusBadRequest, LoginFailureResponse{Message: InvalidLoginMessage})
}
