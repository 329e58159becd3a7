// Package policy holds the authorization predicates every write path evaluates.
// A nil *user.User is an anonymous caller.
package policy

import (
	"net/http"

	"github.com/curaious/civicpulse/internal/services/user"
)

// Decision is the outcome of a policy check.
type Decision int

const (
	Allow Decision = iota
	// Unauthenticated maps to 401.
	Unauthenticated
	// Forbidden maps to 403.
	Forbidden
)

// IsSafeMethod reports whether method never mutates state.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// IsElevated is true for ADMIN and OFFICIAL roles and for staff or superuser accounts.
func IsElevated(u *user.User) bool {
	if u == nil {
		return false
	}
	return u.Role == user.RoleAdmin || u.Role == user.RoleOfficial || u.IsStaff || u.IsSuperuser
}

// ProjectWrite lets everyone read and only elevated callers write.
func ProjectWrite(u *user.User, method string) Decision {
	if IsSafeMethod(method) {
		return Allow
	}
	return OfficialsOnly(u)
}

// OfficialsOnly has no read exemption.
func OfficialsOnly(u *user.User) Decision {
	if u == nil {
		return Unauthenticated
	}
	if !IsElevated(u) {
		return Forbidden
	}
	return Allow
}

// AuthenticatedOrReadOnly lets anyone read and any signed-in caller write.
func AuthenticatedOrReadOnly(u *user.User, method string) Decision {
	if IsSafeMethod(method) || u != nil {
		return Allow
	}
	return Unauthenticated
}

// Authenticated requires a caller regardless of method.
func Authenticated(u *user.User) Decision {
	if u == nil {
		return Unauthenticated
	}
	return Allow
}
