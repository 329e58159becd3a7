package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{Username: "wanjiku", Email: "wanjiku@example.com", Password: "s3cure-pass", Password2: "s3cure-pass"}
	}

	tests := []struct {
		name   string
		mutate func(r *RegisterRequest)
		field  string
		msg    string
	}{
		{"missing username", func(r *RegisterRequest) { r.Username = "" }, "username", "This field is required."},
		{"long username", func(r *RegisterRequest) { r.Username = strings.Repeat("a", 151) }, "username", "Ensure this field has no more than 150 characters."},
		{"bad username characters", func(r *RegisterRequest) { r.Username = "bad name!" }, "username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email", "Enter a valid email address."},
		{"short password", func(r *RegisterRequest) { r.Password = "short"; r.Password2 = "short" }, "password", "Ensure this field has at least 8 characters."},
		{"password over bcrypt limit", func(r *RegisterRequest) { r.Password = strings.Repeat("p", 73); r.Password2 = r.Password }, "password", "Ensure this field has no more than 72 bytes."},
		{"password2 over bcrypt limit", func(r *RegisterRequest) { r.Password = strings.Repeat("p", 80); r.Password2 = r.Password }, "password2", "Ensure this field has no more than 72 bytes."},
		{"multibyte password over bcrypt limit", func(r *RegisterRequest) { r.Password = strings.Repeat("é", 37); r.Password2 = r.Password }, "password", "Ensure this field has no more than 72 bytes."},
		{"missing password2", func(r *RegisterRequest) { r.Password2 = "" }, "password2", "This field is required."},
		{"mismatch", func(r *RegisterRequest) { r.Password2 = "different-pass" }, "password2", "Passwords do not match."},
		{"numeric", func(r *RegisterRequest) { r.Password = "12345678"; r.Password2 = "12345678" }, "password", "This password is entirely numeric."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			fields := req.Validate()
			assert.Contains(t, fields[tt.field], tt.msg)
		})
	}

	t.Run("valid", func(t *testing.T) {
		req := valid()
		assert.Empty(t, req.Validate())
	})

	t.Run("email optional", func(t *testing.T) {
		req := valid()
		req.Email = ""
		assert.Empty(t, req.Validate())
	})
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleOfficial.Valid())
	assert.True(t, RoleCitizen.Valid())
	assert.False(t, Role("MAYOR").Valid())
	assert.False(t, Role("").Valid())
}
