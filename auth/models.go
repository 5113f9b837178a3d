// Package auth, as part of the authentication module.
// This file, `models.go`, defines the User entity shared by the auth core and the users store.
package auth

import "time"

// User represents a user in the system and doubles as the authenticated principal.
// JSON names follow the document shape the mobile and web clients were built against,
// which is why they are capitalized. PasswordHash is `json:"-"` and never leaves the process.
type User struct {
	ID             string    `json:"_id"`
	Username       string    `json:"Username"`
	PasswordHash   string    `json:"-"`
	Email          string    `json:"Email"`
	Birthday       *Date     `json:"Birthday,omitempty"`
	FavoriteMovies []string  `json:"FavoriteMovies"`
	CreatedAt      time.Time `json:"-"`
}

// Sanitized returns a copy of u without the password hash. Everything handed to the
// token issuer or written to a response goes through here first.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = ""
	if u.FavoriteMovies != nil {
		c.FavoriteMovies = append([]string(nil), u.FavoriteMovies...)
	} else {
		c.FavoriteMovies = []string{}
	}
	return &c
}

// DateLayout is the wire and storage layout of a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time of day, encoded as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}
