package user

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/curaious/civicpulse/internal/perrors"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOfficial Role = "OFFICIAL"
	RoleCitizen  Role = "CITIZEN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOfficial, RoleCitizen:
		return true
	}
	return false
}

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	IsStaff      bool      `db:"is_staff" json:"-"`
	IsSuperuser  bool      `db:"is_superuser" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

// RegisterRequest is the public sign-up payload.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

const (
	maxUsernameLength = 150
	minPasswordLength = 8
	// bcrypt rejects longer input
	maxPasswordBytes = 72
)

// Validate checks the payload shape. Username uniqueness is checked by the service.
func (r *RegisterRequest) Validate() perrors.FieldErrors {
	fields := perrors.FieldErrors{}

	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)

	switch {
	case r.Username == "":
		fields.Add("username", "This field is required.")
	case len(r.Username) > maxUsernameLength:
		fields.Add("username", "Ensure this field has no more than 150 characters.")
	case !usernamePattern.MatchString(r.Username):
		fields.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}

	if r.Email != "" {
		if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
			fields.Add("email", "Enter a valid email address.")
		}
	}

	checkPassword(fields, "password", r.Password)
	checkPassword(fields, "password2", r.Password2)

	if len(fields) == 0 && r.Password != r.Password2 {
		fields.Add("password2", "Passwords do not match.")
	}

	if len(fields) == 0 && isNumeric(r.Password) {
		fields.Add("password", "This password is entirely numeric.")
	}

	return fields
}

func checkPassword(fields perrors.FieldErrors, field, value string) {
	switch {
	case value == "":
		fields.Add(field, "This field is required.")
	case len([]rune(value)) < minPasswordLength:
		fields.Add(field, "Ensure this field has at least 8 characters.")
	case len(value) > maxPasswordBytes:
		fields.Add(field, "Ensure this field has no more than 72 bytes.")
	}
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
