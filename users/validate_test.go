package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	v := NewValidator()
	valid := UserRequest{Username: "user9", Password: "user9pass", Email: "user9@example.com", Birthday: "1990-04-12"}

	assert.Empty(t, v.Validate(&valid))

	tests := []struct {
		name   string
		mutate func(*UserRequest)
		want   FieldError
	}{
		{"short username", func(r *UserRequest) { r.Username = "abc" }, FieldError{"Username", "Username is too short."}},
		{"non alphanumeric", func(r *UserRequest) { r.Username = "user_nine" }, FieldError{"Username", "Username contains non alphanumeric characters - not allowed."}},
		{"missing password", func(r *UserRequest) { r.Password = "" }, FieldError{"Password", "Password is required."}},
		{"bad email", func(r *UserRequest) { r.Email = "not-an-email" }, FieldError{"Email", "Email does not appear to be valid."}},
		{"bad birthday", func(r *UserRequest) { r.Birthday = "12/04/1990" }, FieldError{"Birthday", "Birthday does not appear to be valid Date."}},
		{"missing birthday", func(r *UserRequest) { r.Birthday = "" }, FieldError{"Birthday", "Birthday does not appear to be valid Date."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			assert.Equal(t, []FieldError{tt.want}, v.Validate(&req))
		})
	}
}

func TestValidator_ReportsEveryField(t *testing.T) {
	errs := NewValidator().Validate(&UserRequest{})
	assert.Len(t, errs, 4)
}
