// This file, `dto.go`, defines the request and response bodies of the user endpoints.
// Field names are capitalized on the wire, matching the login body and the User JSON.
package users

// UserRequest is the body of registration and profile update.
// @Description Account fields. All of them are required; the password is re-hashed on every update.
type UserRequest struct {
	Username string `json:"Username" validate:"required,min=5,alphanum" example:"user9"`
	Password string `json:"Password" validate:"required" example:"user9pass"`
	Email    string `json:"Email" validate:"required,email" example:"user9@example.com"`
	// Calendar day, YYYY-MM-DD.
	Birthday string `json:"Birthday" validate:"required,datetime=2006-01-02" example:"1990-04-12"`
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field" example:"Username"`
	Message string `json:"message" example:"Username is too short."`
}

// ValidationErrorResponse is returned with 422 when a UserRequest fails validation.
type ValidationErrorResponse struct {
	Errors []FieldError `json:"errors"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message" example:"user9 was deleted."`
}
