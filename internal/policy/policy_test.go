package policy

import (
	"net/http"
	"testing"

	"github.com/curaious/civicpulse/internal/services/user"
	"github.com/stretchr/testify/assert"
)

func TestProjectWrite(t *testing.T) {
	citizen := &user.User{ID: 1, Role: user.RoleCitizen}
	official := &user.User{ID: 2, Role: user.RoleOfficial}
	admin := &user.User{ID: 3, Role: user.RoleAdmin}
	staff := &user.User{ID: 4, Role: user.RoleCitizen, IsStaff: true}
	superuser := &user.User{ID: 5, Role: user.RoleCitizen, IsSuperuser: true}

	tests := []struct {
		name   string
		caller *user.User
		method string
		want   Decision
	}{
		{"anonymous read", nil, http.MethodGet, Allow},
		{"anonymous head", nil, http.MethodHead, Allow},
		{"anonymous write", nil, http.MethodPost, Unauthenticated},
		{"citizen read", citizen, http.MethodGet, Allow},
		{"citizen post", citizen, http.MethodPost, Forbidden},
		{"citizen put", citizen, http.MethodPut, Forbidden},
		{"citizen patch", citizen, http.MethodPatch, Forbidden},
		{"citizen delete", citizen, http.MethodDelete, Forbidden},
		{"official post", official, http.MethodPost, Allow},
		{"admin delete", admin, http.MethodDelete, Allow},
		{"staff citizen patch", staff, http.MethodPatch, Allow},
		{"superuser citizen post", superuser, http.MethodPost, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProjectWrite(tt.caller, tt.method))
		})
	}
}

func TestOfficialsOnlyHasNoReadExemption(t *testing.T) {
	assert.Equal(t, Unauthenticated, OfficialsOnly(nil))
	assert.Equal(t, Forbidden, OfficialsOnly(&user.User{Role: user.RoleCitizen}))
	assert.Equal(t, Allow, OfficialsOnly(&user.User{Role: user.RoleOfficial}))
	assert.Equal(t, Allow, OfficialsOnly(&user.User{Role: user.RoleAdmin}))
}

func TestAuthenticatedOrReadOnly(t *testing.T) {
	assert.Equal(t, Allow, AuthenticatedOrReadOnly(nil, http.MethodGet))
	assert.Equal(t, Unauthenticated, AuthenticatedOrReadOnly(nil, http.MethodPost))
	assert.Equal(t, Allow, AuthenticatedOrReadOnly(&user.User{Role: user.RoleCitizen}, http.MethodPost))
}
