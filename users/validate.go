package users

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// messages are the client-facing texts per field, keyed by field then failed tag.
// A "*" entry covers every tag of that field.
var messages = map[string]map[string]string{
	"Username": {
		"required": "Username is too short.",
		"min":      "Username is too short.",
		"alphanum": "Username contains non alphanumeric characters - not allowed.",
	},
	"Password": {"*": "Password is required."},
	"Email":    {"*": "Email does not appear to be valid."},
	"Birthday": {"*": "Birthday does not appear to be valid Date."},
}

// Validator checks request bodies with go-playground/validator and reports failures
// by their JSON field names.
type Validator struct {
	v *validator.Validate
}

// NewValidator builds a validator that names fields after their json tag.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Validate returns nil when req is valid, otherwise one FieldError per failing field.
func (val *Validator) Validate(req any) []FieldError {
	err := val.v.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(fe.Field(), fe.Tag())})
	}
	return out
}

func messageFor(field, tag string) string {
	if byTag, ok := messages[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
		if msg, ok := byTag["*"]; ok {
			return msg
		}
	}
	return field + " is invalid."
}
