// This file, `dto.go` (Data Transfer Object), defines the request and response
// bodies of the login endpoint.
package auth

// LoginRequest represents the login request payload.
// Field names are capitalized on the wire to stay compatible with existing clients.
type LoginRequest struct {
	Username string `json:"Username" example:"user9"`
	Password string `json:"Password" example:"user9pass"`
}

// LoginFailureResponse is the body of a rejected login.
type LoginFailureResponse struct {
	Message string `json:"message" example:"Invalid login. Please check your Username or Password."`
}
